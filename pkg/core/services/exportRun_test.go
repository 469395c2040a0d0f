package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jakechorley/publication-allocator/pkg/output"
)

func TestExportRun_RebuildsMatrixFromStoredRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "two.txt")
	require.NoError(t, os.WriteFile(input, []byte(twoAuthorInput), 0644))

	store := &mockRunStore{}
	_, err := AllocateFromFile(ctx, store, testConfig(dir), zap.NewNop(), input, AllocateOptions{})
	require.NoError(t, err)

	path := filepath.Join(dir, "export.xlsx")
	require.NoError(t, ExportRun(ctx, store, zap.NewNop(), input, "", path))

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(output.SheetMatrix)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"x", "1", "0"}, rows[1])
	assert.Equal(t, []string{"y", "0", "1"}, rows[2])
}

func TestExportRun_NoRuns(t *testing.T) {
	err := ExportRun(context.Background(), &mockRunStore{}, zap.NewNop(), "unused.txt", "", filepath.Join(t.TempDir(), "x.xlsx"))
	assert.Error(t, err)
}
