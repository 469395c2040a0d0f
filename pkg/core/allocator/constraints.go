package allocator

import "fmt"

// limitTolerance absorbs float drift in inclusive (<=) limit comparisons
const limitTolerance = 1e-9

// Scope identifies which running sums a constraint is evaluated against
type Scope int

const (
	// ScopeAuthor constraints read the owning author's running sums
	ScopeAuthor Scope = iota
	// ScopeGlobal constraints read the organisation-wide ledger
	ScopeGlobal
)

func (s Scope) String() string {
	switch s {
	case ScopeAuthor:
		return "author"
	case ScopeGlobal:
		return "global"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// ValidationError describes a constraint violated by a committed allocation
type ValidationError struct {
	ConstraintName string
	AuthorID       string
	PublicationID  string
	Description    string
}

func (v ValidationError) String() string {
	subject := "organisation"
	if v.AuthorID != "" {
		subject = "author " + v.AuthorID
	}
	if v.PublicationID != "" {
		subject += " publication " + v.PublicationID
	}
	return fmt.Sprintf("%s [%s]: %s", v.ConstraintName, subject, v.Description)
}

// Constraint defines a hard quota on accepted publications
type Constraint interface {
	// Name returns a human-readable identifier for this constraint
	Name() string

	// Scope reports whether the constraint reads author sums or the global ledger.
	// Author-scoped constraints are re-checked when an acceptance is committed.
	Scope() Scope

	// Allows determines whether pub could be accepted given the current state.
	// The check is hypothetical: sums are projected with pub included, nothing is mutated.
	// Returning false is the normal rejection outcome, not an error.
	Allows(state *AllocationState, pub *Publication) bool

	// Validate checks the committed state and returns every violation (empty if valid)
	Validate(state *AllocationState) []ValidationError
}

// Limits are the numeric quotas of the constraint engine. They vary between
// institutions and regulation versions, so they are configuration rather than constants.
type Limits struct {
	// PublicationCoefficient bounds an employee's accepted contribution at coefficient × author contribution
	PublicationCoefficient float64

	// MonographCoefficient bounds an employee's accepted monograph contribution
	MonographCoefficient float64

	// MonographExemptionPoints: monographs worth more points than this bypass the monograph budget
	MonographExemptionPoints float64

	// PhDCeiling is the absolute accepted-contribution ceiling for PhD students
	PhDCeiling float64

	// Total contribution limit: EmployeeCoefficient×A − N0Coefficient×N0 − N1Coefficient×N1 − N2Coefficient×N2
	EmployeeCoefficient float64
	N0Coefficient       float64
	N1Coefficient       float64
	N2Coefficient       float64

	// MonographShare bounds total monograph contribution at share × A (strict)
	MonographShare float64

	// PhDOutsiderShare bounds total PhD/outsider contribution at share × A (strict)
	PhDOutsiderShare float64
}

// DefaultLimits returns the quotas of the current regulation
func DefaultLimits() Limits {
	return Limits{
		PublicationCoefficient:   4,
		MonographCoefficient:     2,
		MonographExemptionPoints: 100.0,
		PhDCeiling:               4,
		EmployeeCoefficient:      3,
		N0Coefficient:            3,
		N1Coefficient:            6,
		N2Coefficient:            6,
		MonographShare:           0.15,
		PhDOutsiderShare:         0.6,
	}
}

// TotalContributionLimit returns 3A − 3N0 − 6N1 − 6N2 for the given counts
func (l Limits) TotalContributionLimit(counts OrgCounts) float64 {
	return l.EmployeeCoefficient*float64(counts.Employees) -
		l.N0Coefficient*float64(counts.N0) -
		l.N1Coefficient*float64(counts.N1) -
		l.N2Coefficient*float64(counts.N2)
}

// DefaultConstraints returns the full constraint set: three per-author and three global checks
func DefaultConstraints(counts OrgCounts, limits Limits) []Constraint {
	return []Constraint{
		NewPublicationBudgetCriterion(limits.PublicationCoefficient),
		NewMonographBudgetCriterion(limits.MonographCoefficient, limits.MonographExemptionPoints),
		NewPhDCeilingCriterion(limits.PhDCeiling),
		NewTotalContributionCriterion(limits.TotalContributionLimit(counts)),
		NewMonographLimitCriterion(limits.MonographShare * float64(counts.Employees)),
		NewPhDOutsiderLimitCriterion(limits.PhDOutsiderShare * float64(counts.Employees)),
	}
}

func withinInclusive(value, limit float64) bool {
	return value <= limit+limitTolerance
}
