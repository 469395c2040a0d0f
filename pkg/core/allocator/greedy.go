package allocator

import "fmt"

// PassResult is the outcome of a single greedy selection pass
type PassResult struct {
	// Objective is the total points of every publication accepted after the pass
	Objective float64

	// Kept are carried-over acceptances that survived re-validation
	Kept []int

	// Accepted are publications newly accepted during the ranked walk
	Accepted []int

	// Evaluations is the number of objective computations performed (at least 1)
	Evaluations int

	// RemainingTarget is what is left of the heuristic acceptance target
	RemainingTarget int
}

// RunGreedyPass walks the ranked candidates once and accepts publications that pass every
// constraint and look better accepted now than held out for later candidates.
//
// The pass first rebuilds all running sums from scratch and re-commits the publications that
// were accepted before it (they are not part of ranked); every survivor consumes one unit of
// heurPubs. Each ranked candidate that passes the constraints is then accepted iff
//
//	objective + points + estimate(heurPubs-1) > objective + estimate(heurPubs-1) + points[pos+heurPubs]
//
// where the right-hand side is what holding the slot for the candidate heurPubs positions
// further down would yield. Once heurPubs is exhausted the accept branch carries no heuristic
// value and the reject branch is valued at the candidate itself, so the pass stops accepting.
func RunGreedyPass(state *AllocationState, ranked []int, heurPubs int) (PassResult, error) {
	result := PassResult{
		Kept:     []int{},
		Accepted: []int{},
	}

	// Step 1: re-validate carried-over acceptances against rebuilt sums
	carried := state.Reset()
	for _, idx := range carried {
		result.Evaluations++
		if !state.IsAcceptable(idx) {
			continue
		}
		ok, err := state.Commit(idx)
		if err != nil {
			return result, fmt.Errorf("failed to re-validate publication %d: %w", idx, err)
		}
		if !ok {
			continue
		}
		result.Kept = append(result.Kept, idx)
		result.Objective += state.Pool.Publications[idx].Points
		heurPubs--
	}

	// Step 2: walk the freshly ranked candidates
	for pos, idx := range ranked {
		result.Evaluations++

		pub := &state.Pool.Publications[idx]
		if pub.Accepted || !state.IsAcceptable(idx) {
			continue
		}

		if !shouldAccept(state.Pool, ranked, pos, heurPubs, result.Objective) {
			continue
		}

		// Author-level commit is authoritative for the author's running sums
		ok, err := state.Commit(idx)
		if err != nil {
			return result, fmt.Errorf("failed to commit publication %s: %w", pub.ID, err)
		}
		if !ok {
			continue
		}

		result.Accepted = append(result.Accepted, idx)
		result.Objective += pub.Points
		heurPubs--
	}

	if result.Evaluations == 0 {
		result.Evaluations = 1
	}
	result.RemainingTarget = heurPubs

	return result, nil
}

// shouldAccept compares the "accept now" and "skip now" futures of the candidate at pos
func shouldAccept(pool *Pool, ranked []int, pos, heurPubs int, objective float64) bool {
	points := pool.Publications[ranked[pos]].Points

	objectiveIfAccepted := objective + points
	objectiveIfRejected := objective

	estimateIfAccepted := EstimateRemaining(pool, ranked, pos, heurPubs-1)
	estimateIfRejected := EstimateRemaining(pool, ranked, pos, heurPubs-1) + pointsAt(pool, ranked, pos+max(heurPubs, 0))

	return objectiveIfAccepted+estimateIfAccepted > objectiveIfRejected+estimateIfRejected
}
