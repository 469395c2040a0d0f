package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jakechorley/publication-allocator/pkg/core/allocator"
	"github.com/jakechorley/publication-allocator/pkg/loader"
)

const (
	thresholdPrefix   = "threshold_"
	finalGoalVariable = "final_goal_function"
	vectorVariable    = "vector"
)

// ThresholdValue is the best objective recorded at an evaluation threshold
type ThresholdValue struct {
	Threshold int
	Objective float64
}

// Result is the content of a result file
type Result struct {
	Thresholds     []ThresholdValue
	FinalObjective float64
	Matrix         [][]int
}

// NewResult builds a result from an allocation outcome and its matrix
func NewResult(outcome *allocator.AllocationOutcome, matrix [][]int) Result {
	thresholds := make([]ThresholdValue, 0, len(outcome.Checkpoints))
	for _, checkpoint := range outcome.Checkpoints {
		thresholds = append(thresholds, ThresholdValue{
			Threshold: checkpoint.Threshold,
			Objective: checkpoint.Objective,
		})
	}
	return Result{
		Thresholds:     thresholds,
		FinalObjective: outcome.Objective,
		Matrix:         matrix,
	}
}

// WriteResult writes a result in the statement format the loader reads
func WriteResult(w io.Writer, result Result) error {
	bw := bufio.NewWriter(w)

	for _, t := range result.Thresholds {
		fmt.Fprintf(bw, "%s%d = %s;\n", thresholdPrefix, t.Threshold, formatFloat(t.Objective))
	}
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "%s = %s;\n", finalGoalVariable, formatFloat(result.FinalObjective))
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "%s = %s;\n", vectorVariable, formatMatrix(result.Matrix))

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// WriteResultFile writes a result to path, creating parent directories
func WriteResultFile(path string, result Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create result file: %w", err)
	}

	if err := WriteResult(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ParseResult reads a result back. The vector is optional; the final objective is not.
func ParseResult(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read result: %w", err)
	}

	statements := loader.ParseStatements(string(data))
	var result Result

	if result.FinalObjective, err = statements.Float(finalGoalVariable); err != nil {
		return Result{}, err
	}

	for _, name := range statements.Names(thresholdPrefix) {
		threshold, err := strconv.Atoi(strings.TrimPrefix(name, thresholdPrefix))
		if err != nil {
			continue
		}
		objective, err := statements.Float(name)
		if err != nil {
			return Result{}, err
		}
		result.Thresholds = append(result.Thresholds, ThresholdValue{Threshold: threshold, Objective: objective})
	}
	sort.Slice(result.Thresholds, func(i, j int) bool {
		return result.Thresholds[i].Threshold < result.Thresholds[j].Threshold
	})

	if statements.Has(vectorVariable) {
		if err := statements.Decode(vectorVariable, &result.Matrix); err != nil {
			return Result{}, err
		}
	}

	return result, nil
}

// ParseResultFile reads a result file
func ParseResultFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open result file: %w", err)
	}
	defer f.Close()

	result, err := ParseResult(f)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return result, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatMatrix(matrix [][]int) string {
	rows := make([]string, len(matrix))
	for i, row := range matrix {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = strconv.Itoa(v)
		}
		rows[i] = "[" + strings.Join(cells, ", ") + "]"
	}
	return "[" + strings.Join(rows, ", ") + "]"
}
