package output

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jakechorley/publication-allocator/pkg/core/allocator"
	"github.com/jakechorley/publication-allocator/pkg/core/model"
)

func testDataset() model.Dataset {
	return model.Dataset{
		Employees:      2,
		AuthorIDs:      []string{"x", "y"},
		Contributions:  []float64{1, 1},
		IsPhDStudent:   []bool{false, false},
		IsEmployee:     []bool{true, true},
		IsInN:          []bool{true, true},
		PublicationIDs: []string{"px", "py", "pz"},
		IsMonograph:    []bool{false, false, true},
		Points:         [][]float64{{10, 0, 0}, {0, 5, 0}},
		PublicationContributions: [][]float64{{1, 0, 0}, {0, 1, 0}},
	}
}

func testOutcome() *allocator.AllocationOutcome {
	return &allocator.AllocationOutcome{
		Accepted: []allocator.AcceptedPublication{
			{PublicationID: "px", AuthorID: "x", AuthorIndex: 0, CatalogueIndex: 0, Points: 10, Contribution: 1},
			{PublicationID: "py", AuthorID: "y", AuthorIndex: -1, CatalogueIndex: -1, Points: 5, Contribution: 1},
		},
		Objective: 15,
		Checkpoints: []allocator.Checkpoint{
			{Threshold: 2, Evaluations: 2, Objective: 15},
			{Threshold: 20, Evaluations: 21, Objective: 15},
		},
		Evaluations: 21,
		Seed:        4,
	}
}

func TestBuildMatrix_FallsBackToIDs(t *testing.T) {
	matrix, err := BuildMatrix(testDataset(), testOutcome().Accepted)

	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 0, 0}, {0, 1, 0}}, matrix)
}

func TestBuildMatrix_UnknownPublication(t *testing.T) {
	accepted := []allocator.AcceptedPublication{{PublicationID: "nope", AuthorID: "x", AuthorIndex: -1, CatalogueIndex: -1}}

	_, err := BuildMatrix(testDataset(), accepted)

	assert.Error(t, err)
}

func TestWriteResult_Format(t *testing.T) {
	var buf bytes.Buffer
	result := NewResult(testOutcome(), [][]int{{1, 0}, {0, 1}})

	require.NoError(t, WriteResult(&buf, result))

	expected := strings.Join([]string{
		"threshold_2 = 15;",
		"threshold_20 = 15;",
		"",
		"final_goal_function = 15;",
		"",
		"vector = [[1, 0], [0, 1]];",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestParseResult_ReadsWhatWasWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "result.txt")
	written := Result{
		Thresholds:     []ThresholdValue{{Threshold: 20, Objective: 17.5}, {Threshold: 2, Objective: 12}},
		FinalObjective: 17.5,
		Matrix:         [][]int{{1, 0}, {0, 2}},
	}
	require.NoError(t, WriteResultFile(path, written))

	read, err := ParseResultFile(path)

	require.NoError(t, err)
	assert.Equal(t, 17.5, read.FinalObjective)
	assert.Equal(t, []ThresholdValue{{Threshold: 2, Objective: 12}, {Threshold: 20, Objective: 17.5}}, read.Thresholds)
	assert.Equal(t, written.Matrix, read.Matrix)
}

func TestParseResult_MissingFinalGoal(t *testing.T) {
	_, err := ParseResult(strings.NewReader("threshold_2 = 3;"))

	assert.Error(t, err)
}

func TestExportXLSX_WritesSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outcome.xlsx")

	require.NoError(t, ExportXLSX(path, testDataset(), testOutcome()))

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{SheetMatrix, SheetAccepted, SheetCheckpoints}, wb.GetSheetList())

	header, err := wb.GetCellValue(SheetMatrix, "C1")
	require.NoError(t, err)
	assert.Equal(t, "py", header)

	cell, err := wb.GetCellValue(SheetMatrix, "C3")
	require.NoError(t, err)
	assert.Equal(t, "1", cell)

	author, err := wb.GetCellValue(SheetAccepted, "B3")
	require.NoError(t, err)
	assert.Equal(t, "y", author)

	evaluations, err := wb.GetCellValue(SheetCheckpoints, "B3")
	require.NoError(t, err)
	assert.Equal(t, "21", evaluations)
}
