package engine

import (
	"iter"
	"slices"
)

// Enumerate lazily yields candidate combinations for req drawn from table,
// which must be sorted ascending. Candidates appear in canonical
// non-decreasing order, smaller networks first, and only combinations whose
// equivalent resistance lies within the requested tolerance are yielded.
// The sequence is restartable and every yielded combination is an
// independent copy.
//
// Enumerate does not validate req; unknown modes yield nothing. Engine.Search
// is the validating entry point.
func Enumerate(req Request, table []float64) iter.Seq[Combination] {
	return func(yield func(Combination) bool) {
		topo, err := topologyFor(req.Mode)
		if err != nil {
			return
		}
		pool := topo.pool(table, req.Target, req.Tolerance)
		if len(pool) == 0 {
			return
		}
		bound, bounded := topo.partialBound(req.Target, req.Tolerance)
		e := &enumerator{
			topo:    topo,
			target:  req.Target,
			tol:     req.Tolerance,
			pool:    pool,
			bound:   bound,
			bounded: bounded,
		}
		scratch := make([]float64, 0, MaxComponents)
		for _, size := range req.sizes() {
			if !e.emit(scratch, 0, size, 0, yield) {
				return
			}
		}
	}
}

// enumerator carries the fixed parameters of one enumeration pass.
type enumerator struct {
	topo    topology
	target  float64
	tol     float64
	pool    []float64
	bound   float64
	bounded bool
}

// emit extends scratch with pool values from index start onward, keeping the
// candidate non-decreasing, and yields completed candidates that pass the
// tolerance filter. partial tracks the running sum for bounded topologies.
// Returns false once the consumer stops the iteration.
func (e *enumerator) emit(scratch []float64, start, remaining int, partial float64, yield func(Combination) bool) bool {
	if remaining == 0 {
		value := e.topo.combine(scratch)
		if relativeError(value, e.target) <= e.tol {
			return yield(Combination(slices.Clone(scratch)))
		}
		return true
	}
	for i := start; i < len(e.pool); i++ {
		v := e.pool[i]
		if e.bounded && partial+v > e.bound {
			// The pool is ascending, so every later value overshoots too.
			break
		}
		if !e.emit(append(scratch, v), i, remaining-1, partial+v, yield) {
			return false
		}
	}
	return true
}
