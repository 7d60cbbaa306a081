package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/polylint/polylint/internal/types"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk YAML shape of one rule definition file. All
// rules in a file belong to the engine named at the top.
type catalogFile struct {
	Engine string       `yaml:"engine"`
	Rules  []types.Rule `yaml:"rules"`
}

// FileCatalog loads rule definitions from YAML files. Initialize is
// idempotent; parse failures are fatal to initialization.
type FileCatalog struct {
	paths []string

	mu          sync.Mutex
	initialized bool
	rules       []types.Rule
}

// NewFileCatalog creates a catalog over the given file or directory paths.
// Directories are scanned for *.yml and *.yaml files.
func NewFileCatalog(paths []string) *FileCatalog {
	return &FileCatalog{paths: paths}
}

// Initialize loads all rule definition files. Repeat calls return
// immediately without re-reading anything.
func (c *FileCatalog) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	var rules []types.Rule
	for _, p := range c.paths {
		files, err := catalogFiles(p)
		if err != nil {
			return fmt.Errorf("catalog path %q: %w", p, err)
		}
		for _, f := range files {
			loaded, err := loadFile(f)
			if err != nil {
				return err
			}
			rules = append(rules, loaded...)
		}
	}
	c.rules = rules
	c.initialized = true
	return nil
}

func catalogFiles(p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{p}, nil
	}
	var out []string
	err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yml", ".yaml":
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

func loadFile(path string) ([]types.Rule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %q: %w", path, err)
	}
	var cf catalogFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog file %q: %w", path, err)
	}
	if cf.Engine == "" {
		return nil, fmt.Errorf("catalog file %q: missing engine", path)
	}
	for i := range cf.Rules {
		if cf.Rules[i].Name == "" {
			return nil, fmt.Errorf("catalog file %q: rule %d has no name", path, i)
		}
		cf.Rules[i].Engine = cf.Engine
	}
	return cf.Rules, nil
}

// RulesMatching returns the flat rule list selected by filters. An empty
// filter list selects every rule.
func (c *FileCatalog) RulesMatching(filters []types.Filter) ([]types.Rule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []types.Rule
	for _, r := range c.rules {
		if ruleMatches(r, filters) {
			out = append(out, r)
		}
	}
	return out, nil
}

// RuleGroupsMatching returns the ruleset view of the same selection
// RulesMatching produces: groups are derived from matching rules, so the two
// representations can never disagree.
func (c *FileCatalog) RuleGroupsMatching(filters []types.Filter) ([]types.RuleGroup, error) {
	rules, err := c.RulesMatching(filters)
	if err != nil {
		return nil, err
	}
	rulesetFilters := valuesFor(filters, types.FilterRuleset)

	index := map[string]int{}
	var groups []types.RuleGroup
	for _, r := range rules {
		for _, rs := range r.Rulesets {
			if len(rulesetFilters) > 0 && !containsFold(rulesetFilters, rs) {
				continue
			}
			key := r.Engine + "\x00" + rs
			i, ok := index[key]
			if !ok {
				i = len(groups)
				index[key] = i
				groups = append(groups, types.RuleGroup{Name: rs, Engine: r.Engine})
			}
			groups[i].Rules = append(groups[i].Rules, r.Name)
		}
	}
	return groups, nil
}

// ruleMatches applies the shared filter predicate: values within one
// category are OR'd, categories are AND'd, and no filters means match all.
func ruleMatches(r types.Rule, filters []types.Filter) bool {
	byCat := map[types.FilterCategory][]string{}
	for _, f := range filters {
		byCat[f.Category] = append(byCat[f.Category], f.Value)
	}
	for cat, values := range byCat {
		var hit bool
		switch cat {
		case types.FilterEngine:
			hit = containsFold(values, r.Engine)
		case types.FilterRulename:
			hit = containsFold(values, r.Name)
		case types.FilterCategoryName:
			hit = anyFold(values, r.Categories)
		case types.FilterRuleset:
			hit = anyFold(values, r.Rulesets)
		case types.FilterLanguage:
			hit = anyFold(values, r.Languages)
		}
		if !hit {
			return false
		}
	}
	return true
}

func valuesFor(filters []types.Filter, cat types.FilterCategory) []string {
	var out []string
	for _, f := range filters {
		if f.Category == cat {
			out = append(out, f.Value)
		}
	}
	return out
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func anyFold(values, candidates []string) bool {
	for _, c := range candidates {
		if containsFold(values, c) {
			return true
		}
	}
	return false
}
