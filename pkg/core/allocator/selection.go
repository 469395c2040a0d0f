package allocator

import (
	"fmt"
	"slices"
)

// InitialSelection controls which publications are marked accepted before the first pass
type InitialSelection string

const (
	// SelectionNone starts from an empty accepted set
	SelectionNone InitialSelection = "none"
	// SelectionAll marks every candidate
	SelectionAll InitialSelection = "all"
	// SelectionTop marks the first k candidates of each author in ranking order
	SelectionTop InitialSelection = "top"
	// SelectionRandom marks k candidates of each author drawn from the run's random source
	SelectionRandom InitialSelection = "random"
)

// ParseInitialSelection converts a configuration value into an InitialSelection.
// The empty string is SelectionNone.
func ParseInitialSelection(value string) (InitialSelection, error) {
	switch InitialSelection(value) {
	case "", SelectionNone:
		return SelectionNone, nil
	case SelectionAll, SelectionTop, SelectionRandom:
		return InitialSelection(value), nil
	default:
		return "", fmt.Errorf("unknown initial selection %q (expected none, all, top or random)", value)
	}
}

// applyInitialSelection marks the seed publications. Marks bypass the constraints: the first
// greedy pass re-validates every one of them against rebuilt sums.
func applyInitialSelection(state *AllocationState, mode InitialSelection, perAuthor int, rng RandomSource) error {
	mode, err := ParseInitialSelection(string(mode))
	if err != nil {
		return err
	}
	if mode == SelectionNone {
		return nil
	}
	if perAuthor <= 0 {
		perAuthor = 1
	}

	for a := range state.Pool.Authors {
		author := &state.Pool.Authors[a]
		if !author.loaded {
			continue
		}

		var seeds []int
		switch mode {
		case SelectionAll:
			seeds = slices.Clone(author.CandidateIndices)
		case SelectionTop:
			seeds = slices.Clone(author.CandidateIndices)
			sortByPriority(state.Pool, seeds)
			seeds = seeds[:min(perAuthor, len(seeds))]
		case SelectionRandom:
			seeds = slices.Clone(author.CandidateIndices)
			shuffle(seeds, rng)
			seeds = seeds[:min(perAuthor, len(seeds))]
		}

		for _, idx := range seeds {
			if !state.Pool.Publications[idx].Accepted {
				state.Pool.markAccepted(idx)
			}
		}
	}

	state.Ledger = RebuildLedger(state.Pool)
	return nil
}
