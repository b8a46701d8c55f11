package engine

import (
	"iter"
	"sort"
)

// Rank evaluates and orders candidate combinations against a target.
// Duplicate multisets are dropped, first occurrence wins. Survivors are
// ordered by percent error ascending with ties broken by component count
// ascending; beyond that the incoming order is preserved, so equal inputs
// produce identical output.
func Rank(candidates iter.Seq[Combination], target float64, mode Mode) []Result {
	topo, err := topologyFor(mode)
	if err != nil {
		return []Result{}
	}
	seen := make(map[string]struct{})
	results := []Result{}
	for c := range candidates {
		key := c.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		value := topo.combine(c)
		results = append(results, Result{
			Combination:  c,
			Equivalent:   value,
			PercentError: relativeError(value, target) * 100,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].PercentError != results[j].PercentError {
			return results[i].PercentError < results[j].PercentError
		}
		return len(results[i].Combination) < len(results[j].Combination)
	})
	return results
}
