package stats

import (
	"sort"

	"github.com/verte-zerg/typist/internal/model"
)

// SelectWeakChars returns the top lowest-accuracy characters. Spaces never
// count as weak; top <= 0 keeps every candidate.
func SelectWeakChars(aggs []model.CharAggregate, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	candidates := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Char == "" || agg.Char == " " {
			continue
		}
		candidates = append(candidates, agg)
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := accuracy(candidates[i]), accuracy(candidates[j])
		if ai == aj {
			return candidates[i].Char < candidates[j].Char
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, c := range candidates[:top] {
		weakSet[c.Char] = struct{}{}
	}
	return weakSet
}

func accuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
