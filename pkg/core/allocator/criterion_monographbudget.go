package allocator

import "fmt"

// MonographBudgetCriterion caps the contribution an employee can spend on monographs.
//
// Validity (employees only):
//   - PhD students are exempt
//   - Non-monograph candidates are unaffected
//   - Monographs worth more than the exemption threshold bypass the cap
//   - Otherwise accepted monograph contribution including the candidate must not exceed
//     coefficient × author contribution
type MonographBudgetCriterion struct {
	coefficient     float64
	exemptionPoints float64
}

// NewMonographBudgetCriterion creates a new MonographBudgetCriterion
func NewMonographBudgetCriterion(coefficient, exemptionPoints float64) *MonographBudgetCriterion {
	return &MonographBudgetCriterion{
		coefficient:     coefficient,
		exemptionPoints: exemptionPoints,
	}
}

func (c *MonographBudgetCriterion) Name() string {
	return "MonographBudget"
}

func (c *MonographBudgetCriterion) Scope() Scope {
	return ScopeAuthor
}

func (c *MonographBudgetCriterion) Allows(state *AllocationState, pub *Publication) bool {
	author := state.authorOf(pub)
	if !author.IsEmployee || author.IsPhDStudent {
		return true
	}
	if !pub.IsMonograph || c.isExempt(pub) {
		return true
	}
	return withinInclusive(author.AcceptedMonographContribution+pub.Contribution, c.limit(author))
}

func (c *MonographBudgetCriterion) Validate(state *AllocationState) []ValidationError {
	var errors []ValidationError

	for i := range state.Pool.Authors {
		author := &state.Pool.Authors[i]
		if !author.IsEmployee || author.IsPhDStudent {
			continue
		}

		// Exempt monographs never count toward the budget
		capped := 0.0
		for _, idx := range author.CandidateIndices {
			pub := &state.Pool.Publications[idx]
			if pub.Accepted && pub.IsMonograph && !c.isExempt(pub) {
				capped += pub.Contribution
			}
		}

		if !withinInclusive(capped, c.limit(author)) {
			errors = append(errors, ValidationError{
				ConstraintName: c.Name(),
				AuthorID:       author.ID,
				Description: fmt.Sprintf("accepted monograph contribution %.4f exceeds budget %.4f",
					capped, c.limit(author)),
			})
		}
	}

	return errors
}

func (c *MonographBudgetCriterion) isExempt(pub *Publication) bool {
	return pub.Points > c.exemptionPoints
}

func (c *MonographBudgetCriterion) limit(author *Author) float64 {
	return c.coefficient * author.Contribution
}
