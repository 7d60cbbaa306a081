package report

import (
	"encoding/json"
	"os"
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/polylint/polylint/internal/types"
)

// Baseline is a set of previously accepted violation fingerprints. It is a
// suppression input owned by the caller, not a result store.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	_ = json.Unmarshal(f, &b)
	return b, nil
}

func SaveBaseline(path string, results []types.RuleResult) error {
	b := Baseline{Items: map[string]bool{}}
	for _, r := range results {
		b.Items[Fingerprint(r)] = true
	}
	buf, _ := json.MarshalIndent(b, "", "  ")
	return os.WriteFile(path, buf, 0644)
}

// FilterNew drops results already present in the baseline, preserving input
// order for the remainder.
func FilterNew(results []types.RuleResult, base Baseline) []types.RuleResult {
	var out []types.RuleResult
	for _, r := range results {
		if !base.Items[Fingerprint(r)] {
			out = append(out, r)
		}
	}
	return out
}

// Fingerprint derives a stable hex identity for a violation. The line number
// is deliberately excluded so unrelated edits above a finding do not churn
// the baseline.
func Fingerprint(r types.RuleResult) string {
	h := xxhash.New()
	_, _ = h.WriteString(r.Engine)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(r.Rule)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(r.Path)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(r.Message)
	return strconv.FormatUint(h.Sum64(), 16)
}
