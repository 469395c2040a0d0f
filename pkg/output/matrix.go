package output

import (
	"fmt"

	"github.com/jakechorley/publication-allocator/pkg/core/allocator"
	"github.com/jakechorley/publication-allocator/pkg/core/model"
)

// BuildMatrix converts accepted publications into an authors × catalogue count matrix.
// Each row is an author in dataset order, each column a catalogue entry; a cell counts how many
// times that author's share of the publication was accepted.
func BuildMatrix(dataset model.Dataset, accepted []allocator.AcceptedPublication) ([][]int, error) {
	matrix := make([][]int, dataset.AuthorCount())
	for i := range matrix {
		matrix[i] = make([]int, len(dataset.PublicationIDs))
	}

	authorIdx := indexOf(dataset.AuthorIDs)
	publicationIdx := indexOf(dataset.PublicationIDs)

	for _, a := range accepted {
		row, col := a.AuthorIndex, a.CatalogueIndex

		if row < 0 || row >= len(matrix) || dataset.AuthorIDs[row] != a.AuthorID {
			idx, ok := authorIdx[a.AuthorID]
			if !ok {
				return nil, fmt.Errorf("accepted publication %s has unknown author %s", a.PublicationID, a.AuthorID)
			}
			row = idx
		}
		if col < 0 || col >= len(dataset.PublicationIDs) || dataset.PublicationIDs[col] != a.PublicationID {
			idx, ok := publicationIdx[a.PublicationID]
			if !ok {
				return nil, fmt.Errorf("accepted publication %s is not in the catalogue", a.PublicationID)
			}
			col = idx
		}

		matrix[row][col]++
	}

	return matrix, nil
}

// indexOf maps each id to its first position
func indexOf(ids []string) map[string]int {
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, exists := index[id]; !exists {
			index[id] = i
		}
	}
	return index
}
