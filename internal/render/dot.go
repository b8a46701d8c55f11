// Package render produces visual artifacts for search results: Graphviz
// circuit diagrams and SVG band swatches.
package render

import (
	"fmt"
	"strings"

	"github.com/ohmkit/resistor-search/internal/ohmfmt"
	"github.com/ohmkit/resistor-search/pkg/engine"
)

// Palette shared by the diagrams; the accent pair marks best matches.
const (
	accentBorder  = "#00b4d8"
	accentFill    = "#ade8f4"
	neutralBorder = "#adb5bd"
	neutralFill   = "#dee2e6"
	mutedColor    = "#6c757d"
)

// CircuitDOT returns a Graphviz description of a combination wired between
// In and Out terminals. Series chains the components left to right;
// parallel fans them out between two junction points. highlight applies the
// accent palette used for best matches.
func CircuitDOT(values []float64, mode engine.Mode, highlight bool) string {
	border, fill := neutralBorder, neutralFill
	if highlight {
		border, fill = accentBorder, accentFill
	}

	var b strings.Builder
	b.WriteString("digraph G {\n")
	b.WriteString("\trankdir=LR;\n")
	b.WriteString("\tbgcolor=\"transparent\";\n")
	fmt.Fprintf(&b, "\tnode [shape=box, style=\"filled\", fillcolor=%q, fontcolor=\"black\", color=%q, penwidth=1.5];\n", fill, border)
	fmt.Fprintf(&b, "\tedge [color=%q];\n", border)

	names := make([]string, len(values))
	for i := range values {
		names[i] = fmt.Sprintf("R%d", i+1)
	}

	switch mode {
	case engine.ModeSeries:
		fmt.Fprintf(&b, "\t\"In\" [fontcolor=%q, style=plaintext]; \"Out\" [fontcolor=%q, style=plaintext];\n", mutedColor, mutedColor)
		if len(names) == 0 {
			b.WriteString("\t\"In\" -> \"Out\";\n")
		} else {
			fmt.Fprintf(&b, "\t\"In\" -> %s -> \"Out\";\n", strings.Join(names, " -> "))
		}
	case engine.ModeParallel:
		b.WriteString("\tIn [shape=point, label=\"\"]; Out [shape=point, label=\"\"];\n")
		for _, name := range names {
			fmt.Fprintf(&b, "\tIn -> %s -> Out;\n", name)
		}
	}

	for i, name := range names {
		fmt.Fprintf(&b, "\t%s [label=%q, fontcolor=\"black\"];\n", name, ohmfmt.Format(values[i]))
	}
	b.WriteString("}")
	return b.String()
}
