package allocator

import "fmt"

// TotalContributionCriterion bounds the organisation's total accepted contribution (inclusive)
type TotalContributionCriterion struct {
	limit float64
}

// NewTotalContributionCriterion creates a new TotalContributionCriterion.
// The limit is usually Limits.TotalContributionLimit(counts).
func NewTotalContributionCriterion(limit float64) *TotalContributionCriterion {
	return &TotalContributionCriterion{limit: limit}
}

func (c *TotalContributionCriterion) Name() string {
	return "TotalContribution"
}

func (c *TotalContributionCriterion) Scope() Scope {
	return ScopeGlobal
}

func (c *TotalContributionCriterion) Allows(state *AllocationState, pub *Publication) bool {
	return withinInclusive(state.Ledger.ContributionSum+pub.Contribution, c.limit)
}

func (c *TotalContributionCriterion) Validate(state *AllocationState) []ValidationError {
	total := RebuildLedger(state.Pool).ContributionSum
	if withinInclusive(total, c.limit) {
		return nil
	}
	return []ValidationError{{
		ConstraintName: c.Name(),
		Description:    fmt.Sprintf("total contribution %.4f exceeds limit %.4f", total, c.limit),
	}}
}

// MonographLimitCriterion bounds total accepted monograph contribution (strict).
// Non-monographs never change the sum and always pass.
type MonographLimitCriterion struct {
	limit float64
}

// NewMonographLimitCriterion creates a new MonographLimitCriterion
func NewMonographLimitCriterion(limit float64) *MonographLimitCriterion {
	return &MonographLimitCriterion{limit: limit}
}

func (c *MonographLimitCriterion) Name() string {
	return "MonographLimit"
}

func (c *MonographLimitCriterion) Scope() Scope {
	return ScopeGlobal
}

func (c *MonographLimitCriterion) Allows(state *AllocationState, pub *Publication) bool {
	if !pub.IsMonograph {
		return true
	}
	return state.Ledger.MonographSum+pub.Contribution < c.limit
}

func (c *MonographLimitCriterion) Validate(state *AllocationState) []ValidationError {
	total := RebuildLedger(state.Pool).MonographSum
	if total == 0 || total < c.limit {
		return nil
	}
	return []ValidationError{{
		ConstraintName: c.Name(),
		Description:    fmt.Sprintf("monograph contribution %.4f reaches limit %.4f", total, c.limit),
	}}
}

// PhDOutsiderLimitCriterion bounds the total contribution of publications owned by
// PhD students or authors outside category N (strict)
type PhDOutsiderLimitCriterion struct {
	limit float64
}

// NewPhDOutsiderLimitCriterion creates a new PhDOutsiderLimitCriterion
func NewPhDOutsiderLimitCriterion(limit float64) *PhDOutsiderLimitCriterion {
	return &PhDOutsiderLimitCriterion{limit: limit}
}

func (c *PhDOutsiderLimitCriterion) Name() string {
	return "PhDOutsiderLimit"
}

func (c *PhDOutsiderLimitCriterion) Scope() Scope {
	return ScopeGlobal
}

func (c *PhDOutsiderLimitCriterion) Allows(state *AllocationState, pub *Publication) bool {
	if !state.authorOf(pub).IsPhDOrOutsider() {
		return true
	}
	return state.Ledger.PhDAndOutsiderSum+pub.Contribution < c.limit
}

func (c *PhDOutsiderLimitCriterion) Validate(state *AllocationState) []ValidationError {
	total := RebuildLedger(state.Pool).PhDAndOutsiderSum
	if total == 0 || total < c.limit {
		return nil
	}
	return []ValidationError{{
		ConstraintName: c.Name(),
		Description:    fmt.Sprintf("PhD/outsider contribution %.4f reaches limit %.4f", total, c.limit),
	}}
}
