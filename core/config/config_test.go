package config

import (
	"os"
	"path/filepath"
	"testing"

	"print-exporter/feature/catalog"
	"print-exporter/feature/export"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, export.DefaultConfig(), cfg.Export)
	assert.Equal(t, catalog.DefaultConfig(), cfg.Catalog)
	assert.Equal(t, "cgf-converter", cfg.Converter.Path)
	assert.Equal(t, 300, cfg.Records.IndexTTLSeconds)

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".print-exporter", "work"), cfg.Workspace.Dir)
	assert.Equal(t, filepath.Join(home, "p4k"), cfg.Archive.Root)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("EXPORT_DEDUP_MIN_VERTICES", "25")
	t.Setenv("EXPORT_SELECTOR_PREFERRED_TAGS", "heldEntity,tableDisplay")
	t.Setenv("EXPORT_ORIENTATION", "direct")
	t.Setenv("ARCHIVE_SOURCE", "bucket")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Export.Dedup.MinVertices)
	assert.Equal(t, []string{"heldEntity", "tableDisplay"}, cfg.Export.Selector.PreferredTags)
	assert.Equal(t, "direct", cfg.Export.Orientation)
	assert.Equal(t, "bucket", cfg.Archive.Source)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WORKSPACE_EXPORT_DIR=/srv/exports\nCONVERTER_TIMEOUT_SECONDS=30\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("WORKSPACE_EXPORT_DIR")
		os.Unsetenv("CONVERTER_TIMEOUT_SECONDS")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/exports", cfg.Workspace.ExportDir)
	assert.Equal(t, 30, cfg.Converter.TimeoutSeconds)
}
