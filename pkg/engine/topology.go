package engine

import (
	"fmt"
	"sort"
)

// topology describes one wiring mode: how component values combine into an
// equivalent resistance, and which slice of the value table is worth drawing
// candidates from.
type topology interface {
	// combine returns the equivalent resistance of values wired together.
	combine(values []float64) float64
	// pool narrows a sorted table to the values that can appear in an
	// in-tolerance combination for the target.
	pool(table []float64, target, tolerance float64) []float64
	// partialBound returns a cap on running sums and whether the cap
	// applies in this topology. When it applies, a prefix whose sum
	// exceeds the cap cannot complete into an accepted combination.
	partialBound(target, tolerance float64) (float64, bool)
}

// topologyFor is a factory mapping a Mode onto its topology.
func topologyFor(mode Mode) (topology, error) {
	switch mode {
	case ModeSeries:
		return seriesTopology{}, nil
	case ModeParallel:
		return parallelTopology{}, nil
	default:
		return nil, fmt.Errorf("unsupported mode: %q", mode)
	}
}

// Equivalent returns the combined resistance of c wired in the given mode.
// An empty combination and unknown modes evaluate to 0.
func Equivalent(c Combination, mode Mode) float64 {
	topo, err := topologyFor(mode)
	if err != nil {
		return 0
	}
	return topo.combine(c)
}

// seriesTopology wires components end to end.
type seriesTopology struct{}

func (seriesTopology) combine(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// pool keeps values at or below the upper tolerance bound. Anything larger
// overshoots the target on its own, and series wiring only adds from there.
func (seriesTopology) pool(table []float64, target, tolerance float64) []float64 {
	upper := target * (1 + tolerance)
	cut := sort.Search(len(table), func(i int) bool { return table[i] > upper })
	return table[:cut]
}

func (seriesTopology) partialBound(target, tolerance float64) (float64, bool) {
	return target * (1 + tolerance), true
}

// parallelTopology wires components side by side.
type parallelTopology struct{}

// combine sums conductances. A zero-valued component short-circuits the
// network, so the result is pinned to 0 instead of dividing by zero.
func (parallelTopology) combine(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		if v == 0 {
			return 0
		}
		sum += 1 / v
	}
	if sum == 0 {
		return 0
	}
	return 1 / sum
}

// pool returns the table untouched. Values far above the target still pull
// a parallel equivalent toward it, so none can be excluded up front.
func (parallelTopology) pool(table []float64, _, _ float64) []float64 {
	return table
}

func (parallelTopology) partialBound(_, _ float64) (float64, bool) {
	return 0, false
}
