package allocator

import (
	"fmt"
	"math"
)

// ValidateAllocation checks a committed state against every constraint and verifies that the
// cached per-author and global sums still match what the Accepted flags imply
func ValidateAllocation(state *AllocationState) []ValidationError {
	var errors []ValidationError

	for _, constraint := range state.Constraints {
		errors = append(errors, constraint.Validate(state)...)
	}

	errors = append(errors, validateBookkeeping(state)...)

	return errors
}

func validateBookkeeping(state *AllocationState) []ValidationError {
	var errors []ValidationError

	for i := range state.Pool.Authors {
		author := &state.Pool.Authors[i]
		contribution, monograph := acceptedSums(state.Pool, author)
		if !nearlyEqual(contribution, author.AcceptedContribution) ||
			!nearlyEqual(monograph, author.AcceptedMonographContribution) {
			errors = append(errors, ValidationError{
				ConstraintName: "Bookkeeping",
				AuthorID:       author.ID,
				Description: fmt.Sprintf("cached sums (%.4f, %.4f) differ from accepted publications (%.4f, %.4f)",
					author.AcceptedContribution, author.AcceptedMonographContribution, contribution, monograph),
			})
		}
	}

	rebuilt := RebuildLedger(state.Pool)
	if !nearlyEqual(rebuilt.ContributionSum, state.Ledger.ContributionSum) ||
		!nearlyEqual(rebuilt.MonographSum, state.Ledger.MonographSum) ||
		!nearlyEqual(rebuilt.PhDAndOutsiderSum, state.Ledger.PhDAndOutsiderSum) {
		errors = append(errors, ValidationError{
			ConstraintName: "Bookkeeping",
			Description:    fmt.Sprintf("ledger %+v differs from accepted publications %+v", state.Ledger, rebuilt),
		})
	}

	return errors
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6
}
