package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, []string{".rs"}, cfg.Extensions)
	assert.False(t, cfg.IncludeEnums)
}

func TestLoadDir_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
output: docs/model.puml
include_enums: true
exclude: [vendor]
workers: 2
cache:
  enabled: true
neo4j:
  password: secret
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	cfg, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "plantuml", cfg.Format)
	assert.Equal(t, "docs/model.puml", cfg.Output)
	assert.True(t, cfg.IncludeEnums)
	assert.Equal(t, []string{"vendor"}, cfg.Exclude)
	assert.Equal(t, []string{".rs"}, cfg.Extensions)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, filepath.Join(".ruml", "cache.db"), cfg.Cache.Path)
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	assert.Equal(t, "neo4j", cfg.Neo4j.User)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("exclude: [unterminated"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.IncludeEnums = true
	cfg.Output = "model.puml"

	require.NoError(t, Write(path, cfg))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
