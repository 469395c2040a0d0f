package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDataset is returned by Dataset.Validate
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is one evaluation input: organisation counts, authors, the publication catalogue and
// the per-author points and contribution rows (author-major, one column per catalogue entry)
type Dataset struct {
	// Employees is A, the number of employees of the organisation
	Employees int
	N0        int
	N1        int
	N2        int

	// PublicationCount is P. Zero means "derive from PublicationIDs".
	PublicationCount int

	AuthorIDs     []string
	Contributions []float64
	IsPhDStudent  []bool
	IsEmployee    []bool
	IsInN         []bool

	PublicationIDs []string
	IsMonograph    []bool

	// Points[a][p] is what author a earns for publication p (0 when not an author)
	Points [][]float64

	// PublicationContributions[a][p] is author a's share of publication p
	PublicationContributions [][]float64
}

// AuthorCount returns the number of authors
func (d *Dataset) AuthorCount() int {
	return len(d.AuthorIDs)
}

// TotalPublications returns P, falling back to the number of distinct catalogue ids
func (d *Dataset) TotalPublications() int {
	if d.PublicationCount > 0 {
		return d.PublicationCount
	}
	distinct := make(map[string]struct{}, len(d.PublicationIDs))
	for _, id := range d.PublicationIDs {
		distinct[id] = struct{}{}
	}
	return len(distinct)
}

// Validate checks that every per-author and per-publication array has a consistent length
// and that every number is finite. The returned error names the first offending field.
func (d *Dataset) Validate() error {
	authors := len(d.AuthorIDs)
	publications := len(d.PublicationIDs)

	if d.Employees < 0 || d.N0 < 0 || d.N1 < 0 || d.N2 < 0 || d.PublicationCount < 0 {
		return fmt.Errorf("%w: organisation counts must not be negative", ErrInvalidDataset)
	}

	authorFields := []struct {
		name   string
		length int
	}{
		{"contributions", len(d.Contributions)},
		{"isPhDStudent", len(d.IsPhDStudent)},
		{"isEmployee", len(d.IsEmployee)},
		{"isInN", len(d.IsInN)},
		{"points", len(d.Points)},
		{"publicationContributions", len(d.PublicationContributions)},
	}
	for _, field := range authorFields {
		if field.length != authors {
			return fmt.Errorf("%w: %s has %d entries, expected %d (one per author)",
				ErrInvalidDataset, field.name, field.length, authors)
		}
	}

	if len(d.IsMonograph) != publications {
		return fmt.Errorf("%w: isMonograph has %d entries, expected %d (one per publication)",
			ErrInvalidDataset, len(d.IsMonograph), publications)
	}

	for a := 0; a < authors; a++ {
		if len(d.Points[a]) != publications {
			return fmt.Errorf("%w: points row %d (author %s) has %d entries, expected %d",
				ErrInvalidDataset, a, d.AuthorIDs[a], len(d.Points[a]), publications)
		}
		if len(d.PublicationContributions[a]) != publications {
			return fmt.Errorf("%w: publicationContributions row %d (author %s) has %d entries, expected %d",
				ErrInvalidDataset, a, d.AuthorIDs[a], len(d.PublicationContributions[a]), publications)
		}
	}

	for a := 0; a < authors; a++ {
		if !isFinite(d.Contributions[a]) {
			return fmt.Errorf("%w: contribution of author %s is %v",
				ErrInvalidDataset, d.AuthorIDs[a], d.Contributions[a])
		}
		for p := 0; p < publications; p++ {
			if !isFinite(d.Points[a][p]) || !isFinite(d.PublicationContributions[a][p]) {
				return fmt.Errorf("%w: author %s publication %s has non-finite points or contribution",
					ErrInvalidDataset, d.AuthorIDs[a], d.PublicationIDs[p])
			}
		}
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
