package execengine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/polylint/polylint/internal/engine"
	"github.com/polylint/polylint/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const engineTOML = `name = "eslint"
binary = "eslint"
args = ["--no-eslintrc"]
target_patterns = ["**/*.js", "!**/node_modules/**"]
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eslint.toml")
	require.NoError(t, os.WriteFile(path, []byte(engineTOML), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "eslint", cfg.Name)
	assert.Equal(t, "eslint", cfg.Binary)
	assert.Equal(t, []string{"--no-eslintrc"}, cfg.Args)
	assert.Equal(t, []string{"**/*.js", "!**/node_modules/**"}, cfg.TargetPatterns)
}

func TestLoadConfig_DefaultsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e.toml")
	require.NoError(t, os.WriteFile(path, []byte(`binary = "true"`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "exec", cfg.Name)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestInitialize_MissingBinaryIsFatal(t *testing.T) {
	e := New(Config{Name: "ghost", Binary: "definitely-not-on-path-xyz"})
	assert.Error(t, e.Initialize())
}

func TestInitialize_NoBinaryConfigured(t *testing.T) {
	e := New(Config{Name: "empty"})
	assert.Error(t, e.Initialize())
}

// fakeAnalyzer writes a shell script that copies a canned report to the path
// passed after --report and exits with the given code.
func fakeAnalyzer(t *testing.T, report string, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}
	dir := t.TempDir()
	reportSrc := filepath.Join(dir, "canned.json")
	require.NoError(t, os.WriteFile(reportSrc, []byte(report), 0644))

	script := `#!/bin/sh
while [ $# -gt 0 ]; do
  if [ "$1" = "--report" ]; then
    cp "` + reportSrc + `" "$2"
    shift
  fi
  shift
done
exit ` + map[int]string{0: "0", 1: "1", 2: "2"}[exitCode] + `
`
	bin := filepath.Join(dir, "analyzer.sh")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0755))
	return bin
}

func runSpec(paths ...string) engine.RunSpec {
	return engine.RunSpec{
		Rules: []types.Rule{
			{Name: "no-console", Engine: "eslint", Severity: types.SevMed},
		},
		Targets: []types.RuleTarget{{OriginalTarget: "src", Paths: paths}},
	}
}

func TestRun_ParsesReport(t *testing.T) {
	report := `[{"rule":"no-console","path":"src/a.js","line":4,"column":2,"message":"avoid console logging"}]`
	bin := fakeAnalyzer(t, report, 1)
	e := New(Config{Name: "eslint", Binary: bin})
	require.NoError(t, e.Initialize())

	got, err := e.Run(context.Background(), runSpec("src/a.js"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "eslint", got[0].Engine)
	assert.Equal(t, "no-console", got[0].Rule)
	assert.Equal(t, "src/a.js", got[0].Path)
	assert.Equal(t, 4, got[0].Line)
	// Severity missing from the report falls back to the catalog rule.
	assert.Equal(t, types.SevMed, got[0].Severity)
}

func TestRun_CleanExitEmptyReport(t *testing.T) {
	bin := fakeAnalyzer(t, "[]", 0)
	e := New(Config{Name: "eslint", Binary: bin})
	require.NoError(t, e.Initialize())

	got, err := e.Run(context.Background(), runSpec("src/a.js"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRun_UnexpectedExitCodeIsError(t *testing.T) {
	bin := fakeAnalyzer(t, "[]", 2)
	e := New(Config{Name: "eslint", Binary: bin})
	require.NoError(t, e.Initialize())

	_, err := e.Run(context.Background(), runSpec("src/a.js"))
	assert.Error(t, err)
}

func TestRun_MalformedReportIsError(t *testing.T) {
	bin := fakeAnalyzer(t, "not json", 1)
	e := New(Config{Name: "eslint", Binary: bin})
	require.NoError(t, e.Initialize())

	_, err := e.Run(context.Background(), runSpec("src/a.js"))
	assert.Error(t, err)
}
