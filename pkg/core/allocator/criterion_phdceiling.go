package allocator

import "fmt"

// PhDCeilingCriterion applies an absolute contribution ceiling to PhD students,
// independent of their contribution coefficient and in addition to the publication budget
type PhDCeilingCriterion struct {
	ceiling float64
}

// NewPhDCeilingCriterion creates a new PhDCeilingCriterion
func NewPhDCeilingCriterion(ceiling float64) *PhDCeilingCriterion {
	return &PhDCeilingCriterion{ceiling: ceiling}
}

func (c *PhDCeilingCriterion) Name() string {
	return "PhDCeiling"
}

func (c *PhDCeilingCriterion) Scope() Scope {
	return ScopeAuthor
}

func (c *PhDCeilingCriterion) Allows(state *AllocationState, pub *Publication) bool {
	author := state.authorOf(pub)
	if !author.IsPhDStudent {
		return true
	}
	return withinInclusive(author.AcceptedContribution+pub.Contribution, c.ceiling)
}

func (c *PhDCeilingCriterion) Validate(state *AllocationState) []ValidationError {
	var errors []ValidationError

	for i := range state.Pool.Authors {
		author := &state.Pool.Authors[i]
		if !author.IsPhDStudent {
			continue
		}
		contribution, _ := acceptedSums(state.Pool, author)
		if !withinInclusive(contribution, c.ceiling) {
			errors = append(errors, ValidationError{
				ConstraintName: c.Name(),
				AuthorID:       author.ID,
				Description: fmt.Sprintf("accepted contribution %.4f exceeds PhD ceiling %.4f",
					contribution, c.ceiling),
			})
		}
	}

	return errors
}
