package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const localYAML = `catalog:
  - rules/
format: json
fail_on: high
engine_options:
  jvm-args: -Xmx1g
`

func TestLoadLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".polylint.yml"), []byte(localYAML), 0644))

	cfg, err := LoadLocal(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"rules/"}, cfg.Catalog)
	require.NotNil(t, cfg.Format)
	assert.Equal(t, "json", *cfg.Format)
	require.NotNil(t, cfg.FailOn)
	assert.Equal(t, "high", *cfg.FailOn)
	assert.Equal(t, "-Xmx1g", cfg.EngineOptions["jvm-args"])
	assert.Nil(t, cfg.Baseline)
}

func TestLoadLocal_NoFile(t *testing.T) {
	_, err := LoadLocal(t.TempDir())
	assert.Error(t, err)
}

func TestLoadGlobal(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "polylint"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "polylint", "config.yml"), []byte("format: sarif\n"), 0644))

	cfg, err := LoadGlobal()
	require.NoError(t, err)
	require.NotNil(t, cfg.Format)
	assert.Equal(t, "sarif", *cfg.Format)
}
