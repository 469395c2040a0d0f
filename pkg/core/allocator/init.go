package allocator

import (
	"fmt"

	"github.com/jakechorley/publication-allocator/pkg/core/model"
)

// InitPool builds a pool from a dataset.
//
// Every author is added with its contribution clamped, then attached to the catalogue
// entries it has a non-zero row value for. Entries with zero points or zero contribution are
// never candidates. A dataset with inconsistent array lengths is rejected with ErrMalformedInput.
//
// Returns:
//   - The populated pool
//   - The organisation counts the global limits are derived from
//   - Error if the dataset is malformed
func InitPool(dataset model.Dataset) (*Pool, OrgCounts, error) {
	if err := dataset.Validate(); err != nil {
		return nil, OrgCounts{}, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	pool := NewPool()
	counts := OrgCounts{
		Employees: dataset.Employees,
		N0:        dataset.N0,
		N1:        dataset.N1,
		N2:        dataset.N2,
	}

	for a, authorID := range dataset.AuthorIDs {
		authorIdx := pool.AddAuthor(NewAuthor(
			authorID,
			dataset.IsEmployee[a],
			dataset.IsPhDStudent[a],
			dataset.IsInN[a],
			dataset.Contributions[a],
		))

		candidates := []Publication{}
		for p, pubID := range dataset.PublicationIDs {
			pub := NewPublication(pubID, dataset.IsMonograph[p], dataset.Points[a][p], dataset.PublicationContributions[a][p])
			pub.CatalogueIndex = p
			candidates = append(candidates, pub)
		}

		if _, err := pool.AttachCandidates(authorIdx, candidates); err != nil {
			return nil, OrgCounts{}, fmt.Errorf("failed to attach publications of author %s: %w", authorID, err)
		}
	}

	return pool, counts, nil
}
