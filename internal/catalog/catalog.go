package catalog

import (
	"github.com/polylint/polylint/internal/types"
)

// Catalog answers which rules and rule groups match a set of filters. The
// two queries share one predicate: a rule either matches or it does not,
// independent of which representation an engine consumes.
type Catalog interface {
	Initialize() error
	RulesMatching(filters []types.Filter) ([]types.Rule, error)
	RuleGroupsMatching(filters []types.Filter) ([]types.RuleGroup, error)
}
