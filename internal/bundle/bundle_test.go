package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/plume/internal/manifest"
	"github.com/simonhull/firebird-suite/plume/internal/schema"
	"github.com/simonhull/firebird-suite/plume/internal/writer"
	"github.com/simonhull/firebird-suite/plume/pkg/logger"
)

func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"a.json":        `{"$id":"https://foo.com/somelocation/schema.json","description":"x"}`,
		"b.json":        `{"$id":"https://bar.com/somelocation/schema.json","description":"y"}`,
		"nested/c.yaml": "$id: https://foo.com/defs/c.json\ntype: string\n",
		"no-id.json":    `{"description":"no id here"}`,
		"bad-type.json": `{"$id": 42}`,
		"bad-uri.json":  `{"$id": "not a url"}`,
		"broken.json":   `{`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestRun_RegistersInputs(t *testing.T) {
	dir := fixture(t)

	result, err := Run(context.Background(), Options{Inputs: []string{dir}}, logger.NewSilentLogger())
	require.NoError(t, err)

	// broken.json never reaches the registry
	assert.Len(t, result.Outcomes, 6)
	assert.Equal(t, 2, result.Registry.Size())
	assert.Equal(t, 1, result.Count(schema.Replaced))
	assert.Len(t, result.Dropped(), 3)

	// b.json sorts after a.json, so it wins the shared relative identifier
	doc, ok := result.Registry.Lookup("somelocation/schema.json")
	require.True(t, ok)
	assert.Equal(t, "y", doc.(map[string]any)["description"])

	_, ok = result.Registry.Lookup("defs/c.json")
	assert.True(t, ok)
	_, ok = result.Registry.Lookup("somelocation/missing.json")
	assert.False(t, ok)
}

func TestRun_WritesManifest(t *testing.T) {
	dir := fixture(t)
	out := filepath.Join(t.TempDir(), "dist", "index.json")
	report := &bytes.Buffer{}

	result, err := Run(context.Background(), Options{
		Inputs: []string{dir},
		Output: out,
		Report: report,
	}, logger.NewSilentLogger())
	require.NoError(t, err)
	require.NotNil(t, result.Written)
	assert.Equal(t, 1, result.Written.Count(writer.ActionCreate))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var m manifest.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 2, m.Count)
	assert.Equal(t, "defs/c.json", m.Schemas[0].Relative)
	assert.Equal(t, "https://bar.com/somelocation/schema.json", m.Schemas[1].Canonical)
}

func TestRun_ExistingManifestNeedsResolver(t *testing.T) {
	dir := fixture(t)
	out := filepath.Join(t.TempDir(), "index.yaml")
	require.NoError(t, os.WriteFile(out, []byte("old"), 0644))

	_, err := Run(context.Background(), Options{Inputs: []string{dir}, Output: out, Report: &bytes.Buffer{}}, logger.NewSilentLogger())
	require.Error(t, err)

	force, err := writer.NewResolver(true, false, false)
	require.NoError(t, err)
	result, err := Run(context.Background(), Options{
		Inputs:   []string{dir},
		Output:   out,
		Resolver: force,
		Report:   &bytes.Buffer{},
	}, logger.NewSilentLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Written.Count(writer.ActionOverwrite))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "relative: defs/c.json")
}

func TestRun_DryRun(t *testing.T) {
	dir := fixture(t)
	out := filepath.Join(t.TempDir(), "index.json")

	_, err := Run(context.Background(), Options{Inputs: []string{dir}, Output: out, DryRun: true, Report: &bytes.Buffer{}}, logger.NewSilentLogger())
	require.NoError(t, err)
	assert.NoFileExists(t, out)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{Inputs: []string{fixture(t)}}, logger.NewSilentLogger())
	assert.ErrorIs(t, err, context.Canceled)
}
