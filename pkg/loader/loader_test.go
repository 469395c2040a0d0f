package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/publication-allocator/pkg/core/model"
)

const sampleInput = `
A = 2;
N0 = 0;
N1 = 1;
N2 = 0;
P = 3;
authorIdList = ["x-1", "y-2"];
publicationIdList = ["p1", "p2", "p3"];
udzial = [1.0, 0.5];
doktorant = [0, 1];
pracownik = [1, 1];
czyN = [1, 0];
monografia = [0, 1, 0];
w = [[10, 0, 4.5],
     [0, 20, 7]];
u = [[1, 0, 0.5], [0, 0.75, 0.25]];
`

func TestParseStatements_MultipleOnOneLine(t *testing.T) {
	statements := ParseStatements("A = 88; B = 9;")

	assert.Equal(t, "88", statements["A"])
	assert.Equal(t, "9", statements["B"])
	assert.True(t, statements.Has("B"))
	assert.False(t, statements.Has("C"))
}

func TestStatements_DecodeShapes(t *testing.T) {
	statements := ParseStatements(`F = [[0.1, 0.2]]; S = ["abc", "def"]; L = [1.1, 2.2, 3.3];`)

	var nested [][]float64
	require.NoError(t, statements.Decode("F", &nested))
	assert.Equal(t, [][]float64{{0.1, 0.2}}, nested)

	var strs []string
	require.NoError(t, statements.Decode("S", &strs))
	assert.Equal(t, []string{"abc", "def"}, strs)

	var floats []float64
	require.NoError(t, statements.Decode("L", &floats))
	assert.Equal(t, []float64{1.1, 2.2, 3.3}, floats)
}

func TestStatements_IntRejectsFractions(t *testing.T) {
	statements := ParseStatements("A = 3; B = 2.5;")

	a, err := statements.Int("A")
	require.NoError(t, err)
	assert.Equal(t, 3, a)

	_, err = statements.Int("B")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestStatements_Names(t *testing.T) {
	statements := ParseStatements("threshold_20 = 5; threshold_2 = 3; final_goal_function = 5;")

	assert.Equal(t, []string{"threshold_2", "threshold_20"}, statements.Names("threshold_"))
}

func TestLoad_SampleInput(t *testing.T) {
	dataset, err := Load(strings.NewReader(sampleInput))

	require.NoError(t, err)
	assert.Equal(t, 2, dataset.Employees)
	assert.Equal(t, 1, dataset.N1)
	assert.Equal(t, 3, dataset.PublicationCount)
	assert.Equal(t, []string{"x-1", "y-2"}, dataset.AuthorIDs)
	assert.Equal(t, []bool{false, true}, dataset.IsPhDStudent)
	assert.Equal(t, []bool{true, false}, dataset.IsInN)
	assert.Equal(t, []bool{false, true, false}, dataset.IsMonograph)
	assert.Equal(t, [][]float64{{10, 0, 4.5}, {0, 20, 7}}, dataset.Points)
	assert.Equal(t, 0.75, dataset.PublicationContributions[1][1])
}

func TestLoad_MissingVariable(t *testing.T) {
	input := strings.Replace(sampleInput, "czyN = [1, 0];", "", 1)

	_, err := Load(strings.NewReader(input))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingVariable)
	assert.Contains(t, err.Error(), "czyN")
}

func TestLoad_InconsistentLengths(t *testing.T) {
	input := strings.Replace(sampleInput, "udzial = [1.0, 0.5];", "udzial = [1.0];", 1)

	_, err := Load(strings.NewReader(input))

	assert.ErrorIs(t, err, model.ErrInvalidDataset)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleInput), 0o644))

	dataset, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, dataset.AuthorCount())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
