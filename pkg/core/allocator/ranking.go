package allocator

import "sort"

// RankCandidates returns the indices of all publications that are not accepted, sorted in
// descending order by rate, then by points. Ties keep arena order so rankings are reproducible.
//
// Ranking is cheap and is re-run at the start of every pass because acceptances and
// cancellations change which publications are still to be considered.
func RankCandidates(pool *Pool) []int {
	ranked := make([]int, 0, len(pool.Publications))
	for i := range pool.Publications {
		if !pool.Publications[i].Accepted {
			ranked = append(ranked, i)
		}
	}
	sortByPriority(pool, ranked)
	return ranked
}

// RankAccepted returns the indices of accepted publications in the same priority order
func RankAccepted(pool *Pool) []int {
	ranked := pool.AcceptedIndices()
	sortByPriority(pool, ranked)
	return ranked
}

// sortByPriority sorts publication indices in place (rate desc, points desc, index asc)
func sortByPriority(pool *Pool, indices []int) {
	sort.SliceStable(indices, func(i, j int) bool {
		a := &pool.Publications[indices[i]]
		b := &pool.Publications[indices[j]]

		rateA, rateB := a.Rate(), b.Rate()
		if rateA != rateB {
			return rateA > rateB
		}
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return indices[i] < indices[j]
	})
}
