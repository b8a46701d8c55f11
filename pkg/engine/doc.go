// Package engine implements combination search over tables of standard
// resistor values.
//
// Real designs frequently need a resistance that no single standard value
// provides. The engine answers that need: given a target resistance, a
// tolerance, and a wiring mode, it finds every combination of up to
// MaxComponents standard values whose equivalent resistance lands within
// tolerance of the target.
//
// Key components:
//
//   - Engine: holds an immutable value table and runs complete searches
//   - Enumerate: lazy candidate generation in canonical multiset order
//   - Rank: duplicate elimination and deterministic result ordering
//   - Equivalent: series and parallel network evaluation
//
// Search strategy:
//
// Candidates are multisets, not sequences. Two 10 kΩ parts in parallel are
// the same network no matter which is soldered first, so generation walks
// the table in non-decreasing order and each multiset appears exactly once.
// Series search narrows the table up front: a single value above
// target * (1 + tolerance) already overshoots and adding more resistance
// only moves it further away. Parallel search keeps the whole table, since
// a large value in parallel pulls the equivalent down toward the target.
// Running sums that pass the series bound are abandoned early; the pruning
// never changes which combinations are produced, only how much work is
// spent rejecting hopeless ones.
//
// Example usage:
//
//	eng, err := engine.New(eseries.Standard())
//	if err != nil {
//	    return err
//	}
//	results, err := eng.Search(ctx, engine.Request{
//	    Target:    10000,
//	    Tolerance: 0.01,
//	    Mode:      engine.ModeSeries,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, r := range results {
//	    log.Info("match", "values", r.Combination, "error", r.PercentError)
//	}
//
// The engine is designed to be:
//
//   - Deterministic: equal requests produce identical result lists
//   - Complete: results hold every match, ordered best first; callers
//     paginate or truncate as they see fit
//   - Safe: searches are read-only and may run concurrently
package engine
