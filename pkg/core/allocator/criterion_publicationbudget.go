package allocator

import "fmt"

// PublicationBudgetCriterion caps the contribution an employee can spend on accepted publications.
//
// Validity:
//   - Employees only: accepted contribution including the candidate must not exceed
//     coefficient × author contribution
//   - Non-employees are exempt (global limits still apply to them)
type PublicationBudgetCriterion struct {
	coefficient float64
}

// NewPublicationBudgetCriterion creates a new PublicationBudgetCriterion with the given coefficient
func NewPublicationBudgetCriterion(coefficient float64) *PublicationBudgetCriterion {
	return &PublicationBudgetCriterion{coefficient: coefficient}
}

func (c *PublicationBudgetCriterion) Name() string {
	return "PublicationBudget"
}

func (c *PublicationBudgetCriterion) Scope() Scope {
	return ScopeAuthor
}

func (c *PublicationBudgetCriterion) Allows(state *AllocationState, pub *Publication) bool {
	author := state.authorOf(pub)
	if !author.IsEmployee {
		return true
	}
	return withinInclusive(author.AcceptedContribution+pub.Contribution, c.limit(author))
}

func (c *PublicationBudgetCriterion) Validate(state *AllocationState) []ValidationError {
	var errors []ValidationError

	for i := range state.Pool.Authors {
		author := &state.Pool.Authors[i]
		if !author.IsEmployee {
			continue
		}
		contribution, _ := acceptedSums(state.Pool, author)
		if !withinInclusive(contribution, c.limit(author)) {
			errors = append(errors, ValidationError{
				ConstraintName: c.Name(),
				AuthorID:       author.ID,
				Description: fmt.Sprintf("accepted contribution %.4f exceeds budget %.4f",
					contribution, c.limit(author)),
			})
		}
	}

	return errors
}

func (c *PublicationBudgetCriterion) limit(author *Author) float64 {
	return c.coefficient * author.Contribution
}

// acceptedSums recomputes an author's accepted contribution and monograph contribution
// from the publications' Accepted flags, ignoring the cached sums
func acceptedSums(pool *Pool, author *Author) (contribution, monograph float64) {
	for _, idx := range author.CandidateIndices {
		pub := &pool.Publications[idx]
		if !pub.Accepted {
			continue
		}
		contribution += pub.Contribution
		if pub.IsMonograph {
			monograph += pub.Contribution
		}
	}
	return contribution, monograph
}
