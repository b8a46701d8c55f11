// Package v1 defines the wire types of the HTTP API.
package v1

import (
	"fmt"
	"strings"

	"github.com/ohmkit/resistor-search/pkg/engine"
)

// Mode values accepted on the wire. An empty mode searches both wirings
// and reports a winner.
const (
	ModeSeries   = string(engine.ModeSeries)
	ModeParallel = string(engine.ModeParallel)
)

// Winner values reported in a search summary.
const (
	WinnerSeries   = "series"
	WinnerParallel = "parallel"
	WinnerTie      = "tie"
	WinnerNone     = "none"
)

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	// Target is the desired resistance. Plain ohms or suffixed with
	// k, M, or G, case-insensitive: "4.7k", "10000", "1M".
	Target string `json:"target"`
	// TolerancePercent is the maximum accepted deviation from the target,
	// inclusive. Zero falls back to the server default.
	TolerancePercent float64 `json:"tolerancePercent,omitempty"`
	// Mode restricts the search to one wiring. Empty searches both.
	Mode string `json:"mode,omitempty"`
	// Count pins the exact number of resistors per combination. Unset
	// searches every network size.
	Count *int `json:"count,omitempty"`
	// Limit caps the number of results returned per mode. Zero returns
	// everything.
	Limit int `json:"limit,omitempty"`
	// Series names the value table to search. Empty uses the server
	// default.
	Series string `json:"series,omitempty"`
	// IncludeDiagrams adds a Graphviz circuit description to each result.
	IncludeDiagrams bool `json:"includeDiagrams,omitempty"`
	// IncludeBands adds the color bands of each contributing resistor.
	IncludeBands bool `json:"includeBands,omitempty"`
}

// Validate checks the request fields that do not need server state.
// The target value and series name are resolved later against the
// configured tables.
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Target) == "" {
		return fmt.Errorf("target is required")
	}
	if r.TolerancePercent < 0 || r.TolerancePercent > 100 {
		return fmt.Errorf("tolerancePercent must be between 0 and 100, got %v", r.TolerancePercent)
	}
	if r.Mode != "" && r.Mode != ModeSeries && r.Mode != ModeParallel {
		return fmt.Errorf("unsupported mode: %q", r.Mode)
	}
	if r.Count != nil && (*r.Count < 1 || *r.Count > engine.MaxComponents) {
		return fmt.Errorf("count must be between 1 and %d, got %d", engine.MaxComponents, *r.Count)
	}
	if r.Limit < 0 {
		return fmt.Errorf("limit must be >= 0, got %d", r.Limit)
	}
	return nil
}

// Result is one matching combination.
type Result struct {
	// Values holds the contributing resistances in non-decreasing order.
	Values []float64 `json:"values"`
	// Labels holds the same values formatted for display, e.g. "4.7 kΩ".
	Labels []string `json:"labels"`
	// Equivalent is the combined resistance of the network in ohms.
	Equivalent float64 `json:"equivalent"`
	// EquivalentLabel is the combined resistance formatted for display.
	EquivalentLabel string `json:"equivalentLabel"`
	// PercentError is the relative deviation from the target, in percent.
	PercentError float64 `json:"percentError"`
	// Bands holds the three color bands of each contributing resistor,
	// aligned with Values. Only set when requested.
	Bands [][]string `json:"bands,omitempty"`
	// Diagram is a Graphviz description of the network. Only set when
	// requested.
	Diagram string `json:"diagram,omitempty"`
}

// ModeResults carries the outcome of one wiring mode.
type ModeResults struct {
	// Total counts every match found, before the limit is applied.
	Total int `json:"total"`
	// Results lists the matches, best first.
	Results []Result `json:"results"`
}

// ModeSummary aggregates the error distribution of one wiring mode.
type ModeSummary struct {
	Total       int     `json:"total"`
	BestError   float64 `json:"bestError"`
	MeanError   float64 `json:"meanError"`
	MedianError float64 `json:"medianError"`
}

// Summary compares the searched modes.
type Summary struct {
	// Winner names the mode with the lower best error, "tie" when both
	// achieve it, or "none" when neither mode matched.
	Winner   string       `json:"winner"`
	Series   *ModeSummary `json:"series,omitempty"`
	Parallel *ModeSummary `json:"parallel,omitempty"`
}

// SearchResponse is the body returned by POST /api/v1/search.
type SearchResponse struct {
	// Target is the parsed target resistance in ohms.
	Target float64 `json:"target"`
	// TargetLabel is the target formatted for display.
	TargetLabel string `json:"targetLabel"`
	// TolerancePercent is the tolerance the search ran with.
	TolerancePercent float64 `json:"tolerancePercent"`
	// Series holds the series-mode outcome when that mode was searched.
	Series *ModeResults `json:"series,omitempty"`
	// Parallel holds the parallel-mode outcome when that mode was
	// searched.
	Parallel *ModeResults `json:"parallel,omitempty"`
	// Summary compares the searched modes.
	Summary Summary `json:"summary"`
}

// ValuesResponse is the body returned by GET /api/v1/values.
type ValuesResponse struct {
	// Series names the value table.
	Series string `json:"series"`
	// Values lists the table ascending, in ohms.
	Values []float64 `json:"values"`
	// Labels holds the same values formatted for display.
	Labels []string `json:"labels"`
}

// BandsResponse is the body returned by GET /api/v1/bands.
type BandsResponse struct {
	// Ohms is the parsed resistance.
	Ohms float64 `json:"ohms"`
	// Label is the resistance formatted for display.
	Label string `json:"label"`
	// Bands holds the three color bands encoding the value.
	Bands []string `json:"bands"`
}

// VersionResponse is the body returned by GET /version.
type VersionResponse struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	GoVersion string `json:"goVersion"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
