package allocator

// EstimateRemaining returns a cheap upper bound on the points obtainable from the next k
// ranked candidates after position pos: the sum of their points in rank order.
// Constraint rejections of those candidates are ignored, so the estimate is only
// directionally useful. k <= 0 yields 0 and the window is truncated at the end of the list.
func EstimateRemaining(pool *Pool, ranked []int, pos, k int) float64 {
	if k <= 0 {
		return 0
	}

	start := pos + 1
	end := min(start+k, len(ranked))

	estimate := 0.0
	for i := start; i < end; i++ {
		estimate += pool.Publications[ranked[i]].Points
	}
	return estimate
}

// pointsAt returns the points of the candidate at position pos, or 0 past the end of the list
func pointsAt(pool *Pool, ranked []int, pos int) float64 {
	if pos < 0 || pos >= len(ranked) {
		return 0
	}
	return pool.Publications[ranked[pos]].Points
}
