package regexengine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/polylint/polylint/internal/engine"
	"github.com/polylint/polylint/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patternRule(name, pattern string, sev types.Severity) types.Rule {
	return types.Rule{
		Name:     name,
		Engine:   EngineName,
		Severity: sev,
		Metadata: map[string]string{"pattern": pattern},
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestTargetPatterns_DefaultsToEverything(t *testing.T) {
	pats, err := New(Config{}).TargetPatterns("anything")
	require.NoError(t, err)
	assert.Equal(t, []string{"**/*"}, pats)
}

func TestTargetPatterns_EmptyWhenDirectoryTargetsAllowed(t *testing.T) {
	pats, err := New(Config{AllowDirectoryTargets: true}).TargetPatterns("anything")
	require.NoError(t, err)
	require.NotNil(t, pats)
	assert.Empty(t, pats)
}

func TestRun_ReportsLineAndColumn(t *testing.T) {
	path := writeTemp(t, "main.go", "package main\n\nfunc f() {} // TODO fix\n")
	e := New(Config{})

	got, err := e.Run(context.Background(), engine.RunSpec{
		Rules:   []types.Rule{patternRule("no-todo", "TODO", types.SevLow)},
		Targets: []types.RuleTarget{{OriginalTarget: path, Paths: []string{path}}},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, EngineName, got[0].Engine)
	assert.Equal(t, "no-todo", got[0].Rule)
	assert.Equal(t, 3, got[0].Line)
	assert.Equal(t, 16, got[0].Column)
	assert.Equal(t, types.SevLow, got[0].Severity)
}

func TestRun_SkipsDirectoryMarkers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("TODO\n"), 0644))
	e := New(Config{AllowDirectoryTargets: true})

	got, err := e.Run(context.Background(), engine.RunSpec{
		Rules:   []types.Rule{patternRule("no-todo", "TODO", types.SevLow)},
		Targets: []types.RuleTarget{{OriginalTarget: dir, IsDirectory: true, Paths: []string{dir}}},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRun_SkipsBinaryContent(t *testing.T) {
	path := writeTemp(t, "blob.bin", "TODO\x00more")
	e := New(Config{})

	got, err := e.Run(context.Background(), engine.RunSpec{
		Rules:   []types.Rule{patternRule("no-todo", "TODO", types.SevLow)},
		Targets: []types.RuleTarget{{OriginalTarget: path, Paths: []string{path}}},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRun_InvalidPatternFails(t *testing.T) {
	path := writeTemp(t, "a.txt", "hello\n")
	e := New(Config{})

	_, err := e.Run(context.Background(), engine.RunSpec{
		Rules:   []types.Rule{patternRule("broken", "(unclosed", types.SevLow)},
		Targets: []types.RuleTarget{{OriginalTarget: path, Paths: []string{path}}},
	})
	assert.Error(t, err)
}

func TestRun_MissingPatternMetadataFails(t *testing.T) {
	path := writeTemp(t, "a.txt", "hello\n")
	e := New(Config{})

	_, err := e.Run(context.Background(), engine.RunSpec{
		Rules:   []types.Rule{{Name: "no-pattern", Engine: EngineName}},
		Targets: []types.RuleTarget{{OriginalTarget: path, Paths: []string{path}}},
	})
	assert.Error(t, err)
}

func TestRun_HonorsContextCancellation(t *testing.T) {
	path := writeTemp(t, "a.txt", "hello\n")
	e := New(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, engine.RunSpec{
		Rules:   []types.Rule{patternRule("no-todo", "TODO", types.SevLow)},
		Targets: []types.RuleTarget{{OriginalTarget: path, Paths: []string{path}}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}
