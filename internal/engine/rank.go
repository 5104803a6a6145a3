package engine

import "sort"

// rankEntry is one property's sort key set for ranking.
type rankEntry struct {
	id       string
	score    float64 // pre-rounding overall score
	priceKey float64 // weighted price sub-score tie-break
}

// rankCohort assigns dense unique ranks 1..N by overall score
// descending. Ties on the float score break by higher weighted price
// score, then lexicographically smaller property ID, so identical
// inputs always produce identical rankings. Ranks are never shared:
// the "#N of M" display needs one property per rank.
func rankCohort(entries []rankEntry) map[string]int {
	sorted := make([]rankEntry, len(entries))
	copy(sorted, entries)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].score != sorted[j].score {
			return sorted[i].score > sorted[j].score
		}
		if sorted[i].priceKey != sorted[j].priceKey {
			return sorted[i].priceKey > sorted[j].priceKey
		}
		return sorted[i].id < sorted[j].id
	})

	ranks := make(map[string]int, len(sorted))
	for i, e := range sorted {
		ranks[e.id] = i + 1
	}
	return ranks
}
