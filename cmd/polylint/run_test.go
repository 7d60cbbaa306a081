package polylint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/polylint/polylint/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilters(t *testing.T) {
	flagCategories = []string{"Code Style"}
	flagRulesets = []string{"Default", "Strict"}
	flagLanguages = nil
	flagRules = nil
	flagEngines = []string{"regex"}
	t.Cleanup(func() {
		flagCategories, flagRulesets, flagLanguages, flagRules, flagEngines = nil, nil, nil, nil, nil
	})

	got := buildFilters()
	assert.Equal(t, []types.Filter{
		{Category: types.FilterCategoryName, Value: "Code Style"},
		{Category: types.FilterRuleset, Value: "Default"},
		{Category: types.FilterRuleset, Value: "Strict"},
		{Category: types.FilterEngine, Value: "regex"},
	}, got)
}

func TestBuildFilters_EmptyFlagsMeansNoFilters(t *testing.T) {
	flagCategories, flagRulesets, flagLanguages, flagRules, flagEngines = nil, nil, nil, nil, nil
	assert.Empty(t, buildFilters())
}

func TestWatchRoots(t *testing.T) {
	wd := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(wd, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(wd, "main.go"), []byte("package main\n"), 0644))

	// Existing files and directories are watched directly.
	roots := watchRoots(wd, []string{"src", "main.go"})
	assert.Equal(t, []string{filepath.Join(wd, "src"), filepath.Join(wd, "main.go")}, roots)

	// A glob has no stat-able path, so the working directory joins the set.
	roots = watchRoots(wd, []string{"src", "**/*.cls"})
	assert.Contains(t, roots, wd)
	assert.Contains(t, roots, filepath.Join(wd, "src"))

	// No resolvable targets at all still watches the working directory.
	assert.Equal(t, []string{wd}, watchRoots(wd, []string{"missing/**"}))
}
