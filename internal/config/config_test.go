package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCyclomaticThreshold, cfg.Thresholds.Cyclomatic)
	assert.Equal(t, DefaultCognitiveThreshold, cfg.Thresholds.Cognitive)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".scry.toml")
	content := `
[thresholds]
cyclomatic = 20
cognitive = 30

[project]
exclude = ["**/generated/**"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Thresholds.Cyclomatic)
	assert.Equal(t, 30, cfg.Thresholds.Cognitive)
	assert.Equal(t, []string{"**/generated/**"}, cfg.Project.Exclude)
}

func TestLoad_InvalidTOMLIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".scry.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_RejectsBadThresholds(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.Cyclomatic = 0
	assert.Error(t, cfg.Validate())
}

func TestWorkerCount_ZeroMeansAuto(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Workers = 0
	assert.Greater(t, cfg.WorkerCount(), 0)
}
