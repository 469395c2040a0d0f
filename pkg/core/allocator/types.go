package allocator

import "math"

// Contribution bounds applied to every author at construction
const (
	MinAuthorContribution = 0.25
	MaxAuthorContribution = 1.0
)

// Author represents a single author and the publications attributed to them
type Author struct {
	ID           string
	IsEmployee   bool
	IsPhDStudent bool

	// IsInN marks membership of the institutional category N
	IsInN bool

	// Contribution is the author's budget coefficient, clamped to [0.25, 1.0]
	Contribution float64

	// CandidateIndices are the eligible publications of this author (indices into Pool.Publications)
	CandidateIndices []int

	// AcceptedIndices is the subset of CandidateIndices currently accepted, in acceptance order
	AcceptedIndices []int

	// Cached running sums over AcceptedIndices
	AcceptedContribution          float64
	AcceptedMonographContribution float64

	loaded bool
}

// NewAuthor creates an author with its contribution clamped to the allowed range
func NewAuthor(id string, isEmployee, isPhDStudent, isInN bool, contribution float64) Author {
	return Author{
		ID:           id,
		IsEmployee:   isEmployee,
		IsPhDStudent: isPhDStudent,
		IsInN:        isInN,
		Contribution: clampContribution(contribution),
	}
}

func clampContribution(contribution float64) float64 {
	if math.IsNaN(contribution) || contribution < MinAuthorContribution {
		return MinAuthorContribution
	}
	if contribution > MaxAuthorContribution {
		return MaxAuthorContribution
	}
	return contribution
}

// IsPhDOrOutsider returns true if the author's publications count toward the
// organisation-wide PhD/outsider limit
func (a *Author) IsPhDOrOutsider() bool {
	return a.IsPhDStudent || !a.IsInN
}

// IsLoaded returns true once candidate publications have been attached
func (a *Author) IsLoaded() bool {
	return a.loaded
}

// Publication is one author's share of a real-world publication.
// The same publication ID appears once per attributed author, each with its own points and contribution.
type Publication struct {
	ID           string
	IsMonograph  bool
	Points       float64
	Contribution float64

	// AuthorIndex is the owning author's index in Pool.Authors (-1 until attached)
	AuthorIndex int

	// CatalogueIndex is the publication's column in the input catalogue (-1 when built by hand)
	CatalogueIndex int

	// Accepted is mutated only by AllocationState.Commit and AllocationState.Revoke
	Accepted bool
}

// NewPublication creates an unattached publication. Points are rounded to 3 decimal places.
func NewPublication(id string, isMonograph bool, points, contribution float64) Publication {
	return Publication{
		ID:             id,
		IsMonograph:    isMonograph,
		Points:         math.Round(points*1000) / 1000,
		Contribution:   contribution,
		AuthorIndex:    -1,
		CatalogueIndex: -1,
	}
}

// Rate returns points per unit of contribution
func (p Publication) Rate() float64 {
	return p.Points / p.Contribution
}

// IsEligible returns true if the publication can be a candidate at all
func (p Publication) IsEligible() bool {
	return p.Points > 0 && p.Contribution > 0
}

// OrgCounts are the organisation-wide counts the global limits are derived from
type OrgCounts struct {
	// Employees is A
	Employees int
	N0        int
	N1        int
	N2        int
}

// AcceptedPublication is an immutable record of one accepted publication in an outcome
type AcceptedPublication struct {
	PublicationID  string
	AuthorID       string
	AuthorIndex    int
	CatalogueIndex int
	IsMonograph    bool
	Points         float64
	Contribution   float64
}

// Checkpoint records the best objective known when the evaluation counter crossed a threshold
type Checkpoint struct {
	Threshold   int
	Evaluations int
	Objective   float64
}
