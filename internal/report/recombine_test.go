package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/polylint/polylint/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []types.RuleResult {
	return []types.RuleResult{
		{Engine: "regex", Rule: "no-todo", Path: "a.go", Line: 3, Column: 1, Message: "flag TODO markers", Severity: types.SevLow},
		{Engine: "eslint", Rule: "no-console", Path: "b.js", Line: 7, Message: "avoid console logging", Severity: types.SevMed},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" Table ")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestRecombine_EmptyInputIsWellFormed(t *testing.T) {
	for _, f := range []Format{FormatTable, FormatJSON, FormatCSV, FormatXML, FormatJUnit, FormatSARIF} {
		out, err := Recombine(nil, f)
		require.NoError(t, err, "format %s", f)
		assert.NotEmpty(t, out, "format %s", f)
	}

	out, err := Recombine(nil, FormatJSON)
	require.NoError(t, err)
	var doc struct {
		Violations []types.RuleResult `json:"violations"`
		Total      int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Zero(t, doc.Total)
	assert.NotNil(t, doc.Violations)
}

func TestRecombine_JSONPreservesOrder(t *testing.T) {
	out, err := Recombine(sample(), FormatJSON)
	require.NoError(t, err)
	var doc struct {
		Violations []types.RuleResult `json:"violations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Violations, 2)
	assert.Equal(t, "no-todo", doc.Violations[0].Rule)
	assert.Equal(t, "no-console", doc.Violations[1].Rule)
}

func TestRecombine_CSV(t *testing.T) {
	out, err := Recombine(sample(), FormatCSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "severity,engine,rule,path,line,column,message", lines[0])
	assert.Contains(t, lines[1], "no-todo")
	assert.Contains(t, lines[2], "no-console")
}

func TestRecombine_Table(t *testing.T) {
	out, err := Recombine(sample(), FormatTable)
	require.NoError(t, err)
	assert.Contains(t, out, "no-todo")
	assert.Contains(t, out, "a.go:3:1")
	assert.Contains(t, out, "Violations: 2 (high: 0, medium: 1, low: 1)")
}

func TestRecombine_JUnit(t *testing.T) {
	out, err := Recombine(sample(), FormatJUnit)
	require.NoError(t, err)
	assert.Contains(t, out, `tests="2"`)
	assert.Contains(t, out, `failures="2"`)
	assert.Contains(t, out, `classname="eslint"`)
}

func TestRecombine_SARIF(t *testing.T) {
	out, err := Recombine(sample(), FormatSARIF)
	require.NoError(t, err)
	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	require.Len(t, doc.Runs[0].Results, 2)
	assert.Equal(t, "no-todo", doc.Runs[0].Results[0].RuleID)
	assert.Equal(t, "note", doc.Runs[0].Results[0].Level)
	assert.Equal(t, "warning", doc.Runs[0].Results[1].Level)
}

func TestShouldFail(t *testing.T) {
	results := sample()
	assert.True(t, ShouldFail(results, "low"))
	assert.True(t, ShouldFail(results, "medium"))
	assert.False(t, ShouldFail(results, "high"))
	assert.False(t, ShouldFail(nil, "low"))
	// Unknown threshold defaults to medium.
	assert.True(t, ShouldFail(results, "bogus"))
}
