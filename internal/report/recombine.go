package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/polylint/polylint/internal/types"
)

// Format selects the serialization of a recombined report.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatXML   Format = "xml"
	FormatJUnit Format = "junit"
	FormatSARIF Format = "sarif"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatCSV, FormatXML, FormatJUnit, FormatSARIF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Recombine merges the combined result list into one serialized report.
// Input ordering is preserved; an empty list yields a well-formed empty
// report rather than an error.
func Recombine(results []types.RuleResult, format Format) (string, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatTable:
		err = writeTable(&buf, results)
	case FormatJSON:
		err = writeJSON(&buf, results)
	case FormatCSV:
		err = writeCSV(&buf, results)
	case FormatXML:
		err = writeXML(&buf, results)
	case FormatJUnit:
		err = writeJUnit(&buf, results)
	case FormatSARIF:
		err = WriteSARIF(&buf, results)
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeTable(buf *bytes.Buffer, results []types.RuleResult) error {
	if len(results) == 0 {
		fmt.Fprintln(buf, "No rule violations found ✅")
		return nil
	}
	table := tablewriter.NewTable(buf)
	table.Header("Severity", "Engine", "Rule", "Location", "Message")
	for _, r := range results {
		loc := r.Path + ":" + strconv.Itoa(r.Line)
		if r.Column > 0 {
			loc += ":" + strconv.Itoa(r.Column)
		}
		if err := table.Append([]string{string(r.Severity), r.Engine, r.Rule, loc, r.Message}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	high, med, low := tally(results)
	fmt.Fprintf(buf, "\nViolations: %d (high: %d, medium: %d, low: %d)\n", len(results), high, med, low)
	return nil
}

// jsonReport is the envelope for JSON output so an empty run still emits a
// complete document instead of `null`.
type jsonReport struct {
	Violations []types.RuleResult `json:"violations"`
	Total      int                `json:"total"`
}

func writeJSON(buf *bytes.Buffer, results []types.RuleResult) error {
	if results == nil {
		results = []types.RuleResult{}
	}
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Violations: results, Total: len(results)})
}

func writeCSV(buf *bytes.Buffer, results []types.RuleResult) error {
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"severity", "engine", "rule", "path", "line", "column", "message"}); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{
			string(r.Severity), r.Engine, r.Rule, r.Path,
			strconv.Itoa(r.Line), strconv.Itoa(r.Column), r.Message,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type xmlViolation struct {
	Engine   string `xml:"engine,attr"`
	Rule     string `xml:"rule,attr"`
	Path     string `xml:"path,attr"`
	Line     int    `xml:"line,attr"`
	Column   int    `xml:"column,attr,omitempty"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:",chardata"`
}

type xmlReport struct {
	XMLName    xml.Name       `xml:"report"`
	Total      int            `xml:"total,attr"`
	Violations []xmlViolation `xml:"violation"`
}

func writeXML(buf *bytes.Buffer, results []types.RuleResult) error {
	doc := xmlReport{Total: len(results)}
	for _, r := range results {
		doc.Violations = append(doc.Violations, xmlViolation{
			Engine: r.Engine, Rule: r.Rule, Path: r.Path,
			Line: r.Line, Column: r.Column,
			Severity: string(r.Severity), Message: r.Message,
		})
	}
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	buf.WriteByte('\n')
	return nil
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

type junitCase struct {
	Name      string         `xml:"name,attr"`
	ClassName string         `xml:"classname,attr"`
	Failures  []junitFailure `xml:"failure"`
}

type junitSuite struct {
	XMLName  xml.Name    `xml:"testsuite"`
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Cases    []junitCase `xml:"testcase"`
}

// writeJUnit renders one testcase per violation so CI systems can surface
// individual findings.
func writeJUnit(buf *bytes.Buffer, results []types.RuleResult) error {
	suite := junitSuite{Name: "polylint", Tests: len(results), Failures: len(results)}
	for _, r := range results {
		suite.Cases = append(suite.Cases, junitCase{
			Name:      r.Rule,
			ClassName: r.Engine,
			Failures: []junitFailure{{
				Message: r.Message,
				Body:    fmt.Sprintf("%s:%d %s", r.Path, r.Line, r.Message),
			}},
		})
	}
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(buf)
	enc.Indent("", "  ")
	if err := enc.Encode(suite); err != nil {
		return err
	}
	buf.WriteByte('\n')
	return nil
}

func tally(results []types.RuleResult) (high, med, low int) {
	for _, r := range results {
		switch r.Severity {
		case types.SevHigh:
			high++
		case types.SevMed:
			med++
		default:
			low++
		}
	}
	return
}

// ShouldFail reports whether any violation meets the fail-on threshold.
func ShouldFail(results []types.RuleResult, failOn string) bool {
	level := map[string]int{"low": 1, "medium": 2, "high": 3}
	th := level[failOn]
	if th == 0 {
		th = 2
	}
	for _, r := range results {
		if level[string(r.Severity)] >= th {
			return true
		}
	}
	return false
}
