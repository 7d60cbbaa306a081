package types

// Severity is a coarse-grained priority level for a rule violation.
type Severity string

const (
	SevLow  Severity = "low"
	SevMed  Severity = "medium"
	SevHigh Severity = "high"
)

// FilterCategory names the dimension a Filter selects on.
type FilterCategory string

const (
	FilterCategoryName FilterCategory = "category"
	FilterRuleset      FilterCategory = "ruleset"
	FilterLanguage     FilterCategory = "language"
	FilterRulename     FilterCategory = "rulename"
	FilterEngine       FilterCategory = "engine"
)

// Filter selects rules and rule groups from the catalog. Filters sharing a
// category are OR'd together; filters of different categories are AND'd.
type Filter struct {
	Category FilterCategory
	Value    string
}

// Rule is a single analysis rule owned by exactly one engine. The core never
// interprets rule semantics; Metadata carries engine-specific settings such
// as a match pattern.
type Rule struct {
	Name        string            `yaml:"name" json:"name"`
	Engine      string            `yaml:"-" json:"engine"`
	Description string            `yaml:"description" json:"description"`
	Categories  []string          `yaml:"categories" json:"categories"`
	Rulesets    []string          `yaml:"rulesets" json:"rulesets"`
	Languages   []string          `yaml:"languages" json:"languages"`
	Severity    Severity          `yaml:"severity" json:"severity"`
	Metadata    map[string]string `yaml:"metadata" json:"metadata,omitempty"`
}

// RuleGroup is a named bundle of rules belonging to one engine. Some engines
// execute groups rather than flat rule lists; both views are derived from the
// same filtered selection.
type RuleGroup struct {
	Name   string   `json:"name"`
	Engine string   `json:"engine"`
	Rules  []string `json:"rules"`
}

// RuleTarget is the engine-specific expansion of one raw target string.
// Paths is non-empty for every RuleTarget the resolver keeps; absolute paths
// only. IsDirectory marks the fallback case where an engine declared no
// target patterns and the directory itself stands in for its contents.
type RuleTarget struct {
	OriginalTarget string   `json:"target"`
	IsDirectory    bool     `json:"isDirectory"`
	Paths          []string `json:"paths"`
}

// RuleResult is one violation reported by an engine. The orchestrator only
// concatenates these; all interpretation happens in the report layer.
type RuleResult struct {
	Engine   string   `json:"engine"`
	Rule     string   `json:"rule"`
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Column   int      `json:"column,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}
