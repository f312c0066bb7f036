// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"sort"

	"github.com/pdiddy/citecheck/pkg/types"
)

// Resolve settles overlapping candidates. Candidates are visited by
// position, longest text first. A candidate that overlaps accepted
// citations survives only if its text is longer than every one of them,
// in which case it replaces them. Grouped citations share their bracket
// with their siblings and never take part in the comparison.
//
// The result is sorted by position, then group index.
func Resolve(candidates []types.Citation) []types.Citation {
	sorted := make([]types.Citation, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return len(sorted[i].Text) > len(sorted[j].Text)
	})

	var kept []types.Citation
	for _, c := range sorted {
		if c.Grouped() {
			kept = append(kept, c)
			continue
		}

		var rivals []int
		longest := true
		for i, k := range kept {
			if k.Grouped() || !k.Span().Overlaps(c.Span()) {
				continue
			}
			if len(c.Text) <= len(k.Text) {
				longest = false
				break
			}
			rivals = append(rivals, i)
		}
		if !longest {
			continue
		}
		kept = append(without(kept, rivals), c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Position != kept[j].Position {
			return kept[i].Position < kept[j].Position
		}
		return kept[i].GroupIndex < kept[j].GroupIndex
	})
	return kept
}

// without returns cs minus the elements at the given ascending indexes.
func without(cs []types.Citation, drop []int) []types.Citation {
	if len(drop) == 0 {
		return cs
	}
	out := cs[:0]
	next := 0
	for i, c := range cs {
		if next < len(drop) && drop[next] == i {
			next++
			continue
		}
		out = append(out, c)
	}
	return out
}
