package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/plume/pkg/logger"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Empty(t, cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*.json", "*.yaml", "*.yml"}, cfg.Include)
	assert.Equal(t, logger.LevelInfo, cfg.Level())
}

func TestLoad_FileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := `inputs:
  - schemas/
  - extra.json
output: dist/index.yaml
format: yaml
workers: 2
include: ["*.schema.json"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"schemas/", "extra.json"}, cfg.Inputs)
	assert.Equal(t, "dist/index.yaml", cfg.Output)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{"*.schema.json"}, cfg.WalkOptions().IncludePatterns)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("output: from-file.json\n"), 0644))

	t.Setenv("PLUME_OUTPUT", "from-env.json")
	t.Setenv("PLUME_DEBUG", "true")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "from-env.json", cfg.Output)
	assert.True(t, cfg.Debug)
	assert.Equal(t, logger.LevelDebug, cfg.Level())
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_ValidationErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("format: toml\nlog_level: loud\nworkers: -1\n"), 0644))

	_, err := Load(NewViper(), path)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.Contains(t, err.Error(), "found 3 config errors")
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "format", Message: "bad", Suggestion: "use json"}
	assert.Equal(t, "invalid format: bad. Suggestion: use json", err.Error())
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.Inputs = []string{"schemas"}
	cfg.Output = "index.json"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Inputs, loaded.Inputs)
	assert.Equal(t, cfg.Output, loaded.Output)
	assert.Equal(t, cfg.Include, loaded.Include)
}
