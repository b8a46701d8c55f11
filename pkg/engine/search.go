package engine

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/go-logr/logr"
	"github.com/sourcegraph/conc"

	"github.com/ohmkit/resistor-search/internal/logging"
)

// Engine searches a fixed table of standard values for combinations whose
// equivalent resistance approximates requested targets.
type Engine struct {
	table []float64
}

// New returns an Engine over a copy of the given value table, sorted
// ascending. The table must not be empty.
func New(table []float64) (*Engine, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("value table cannot be empty")
	}
	t := slices.Clone(table)
	sort.Float64s(t)
	return &Engine{table: t}, nil
}

// Table returns a copy of the engine's value table.
func (e *Engine) Table() []float64 {
	return slices.Clone(e.table)
}

// Search enumerates, deduplicates, and ranks every combination matching the
// request. The returned list is complete; pagination and truncation are the
// caller's concern. Search is read-only on the engine, safe for concurrent
// use, and deterministic: equal requests yield identical result lists.
func (e *Engine) Search(ctx context.Context, req Request) ([]Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	logger := logr.FromContextOrDiscard(ctx)
	start := time.Now()

	sizes := req.sizes()
	perSize := make([][]Combination, len(sizes))
	if len(sizes) == 1 {
		perSize[0] = slices.Collect(Enumerate(req, e.table))
	} else {
		// One goroutine per network size. Each writes its own slot and
		// slots are merged in size order, keeping the candidate stream
		// independent of goroutine scheduling.
		var wg conc.WaitGroup
		for i, size := range sizes {
			sized := req
			sized.Components = size
			wg.Go(func() {
				perSize[i] = slices.Collect(Enumerate(sized, e.table))
			})
		}
		wg.Wait()
	}

	var merged []Combination
	for _, batch := range perSize {
		merged = append(merged, batch...)
	}
	results := Rank(slices.Values(merged), req.Target, req.Mode)

	logger.V(logging.DEBUG).Info("Search completed",
		"mode", req.Mode,
		"target", req.Target,
		"candidates", len(merged),
		"results", len(results),
		"duration", time.Since(start).String())

	return results, nil
}
