package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesDebugEntriesToJSONFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := New(Options{Dir: dir, Env: "test"})
	require.NoError(t, err)

	logger.Debug("pass finished", zap.Int("evaluations", 12))
	_ = logger.Sync()

	files, err := filepath.Glob(filepath.Join(dir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "pass finished", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, float64(12), entry["evaluations"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_DefaultFileName(t *testing.T) {
	dir := t.TempDir()

	_, err := New(Options{Dir: dir})
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "allocator_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
