package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jakechorley/publication-allocator/pkg/core/allocator"
	"github.com/jakechorley/publication-allocator/pkg/core/model"
)

// Sheet names of the exported workbook
const (
	SheetMatrix      = "Matrix"
	SheetAccepted    = "Accepted"
	SheetCheckpoints = "Checkpoints"
)

// BuildWorkbook renders an outcome into a workbook with the author × publication matrix,
// the accepted publications and the checkpoints
func BuildWorkbook(dataset model.Dataset, outcome *allocator.AllocationOutcome) (*excelize.File, error) {
	matrix, err := BuildMatrix(dataset, outcome.Accepted)
	if err != nil {
		return nil, err
	}

	wb := excelize.NewFile()
	if err := wb.SetSheetName("Sheet1", SheetMatrix); err != nil {
		wb.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := writeMatrixSheet(wb, dataset, matrix); err != nil {
		wb.Close()
		return nil, err
	}
	if err := writeAcceptedSheet(wb, outcome.Accepted); err != nil {
		wb.Close()
		return nil, err
	}
	if err := writeCheckpointsSheet(wb, outcome); err != nil {
		wb.Close()
		return nil, err
	}

	return wb, nil
}

// ExportXLSX writes the outcome workbook to path
func ExportXLSX(path string, dataset model.Dataset, outcome *allocator.AllocationOutcome) error {
	wb, err := BuildWorkbook(dataset, outcome)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer wb.Close()

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeMatrixSheet(wb *excelize.File, dataset model.Dataset, matrix [][]int) error {
	header := []any{"author"}
	for _, id := range dataset.PublicationIDs {
		header = append(header, id)
	}
	if err := setRow(wb, SheetMatrix, 1, header); err != nil {
		return err
	}

	for i, row := range matrix {
		values := []any{dataset.AuthorIDs[i]}
		for _, v := range row {
			values = append(values, v)
		}
		if err := setRow(wb, SheetMatrix, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeAcceptedSheet(wb *excelize.File, accepted []allocator.AcceptedPublication) error {
	if _, err := wb.NewSheet(SheetAccepted); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetAccepted, err)
	}

	header := []any{"publication", "author", "monograph", "points", "contribution"}
	if err := setRow(wb, SheetAccepted, 1, header); err != nil {
		return err
	}

	for i, a := range accepted {
		row := []any{a.PublicationID, a.AuthorID, a.IsMonograph, a.Points, a.Contribution}
		if err := setRow(wb, SheetAccepted, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeCheckpointsSheet(wb *excelize.File, outcome *allocator.AllocationOutcome) error {
	if _, err := wb.NewSheet(SheetCheckpoints); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetCheckpoints, err)
	}

	if err := setRow(wb, SheetCheckpoints, 1, []any{"threshold", "evaluations", "objective"}); err != nil {
		return err
	}
	for i, c := range outcome.Checkpoints {
		if err := setRow(wb, SheetCheckpoints, i+2, []any{c.Threshold, c.Evaluations, c.Objective}); err != nil {
			return err
		}
	}

	summaryRow := len(outcome.Checkpoints) + 3
	summary := []any{"final objective", outcome.Objective, "seed", outcome.Seed}
	return setRow(wb, SheetCheckpoints, summaryRow, summary)
}

func setRow(wb *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
