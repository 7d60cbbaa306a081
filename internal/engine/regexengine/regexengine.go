package regexengine

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/polylint/polylint/internal/engine"
	"github.com/polylint/polylint/internal/types"
)

// EngineName is the identity matched against Rule.Engine in the catalog.
const EngineName = "regex"

// Config controls which files the engine claims for analysis.
type Config struct {
	// TargetPatterns are the engine's inclusion/exclusion globs. When
	// empty, the engine claims every file; set AllowDirectoryTargets to
	// declare no patterns at all and accept bare directory markers
	// instead.
	TargetPatterns        []string
	AllowDirectoryTargets bool
}

// Engine evaluates regex rules against file contents. A rule's pattern
// lives in its catalog metadata under the "pattern" key.
type Engine struct {
	patterns []string

	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
}

// New creates a regex engine.
func New(cfg Config) *Engine {
	pats := cfg.TargetPatterns
	if len(pats) == 0 && !cfg.AllowDirectoryTargets {
		pats = []string{"**/*"}
	}
	return &Engine{patterns: pats, compiled: map[string]*regexp.Regexp{}}
}

func (e *Engine) Name() string { return EngineName }

// Initialize implements engine.Engine. The regex engine compiles lazily, so
// there is nothing to prepare.
func (e *Engine) Initialize() error { return nil }

// TargetPatterns implements engine.Engine. The returned slice is never nil.
func (e *Engine) TargetPatterns(string) ([]string, error) {
	out := make([]string, len(e.patterns))
	copy(out, e.patterns)
	return out, nil
}

// Run implements engine.Engine.
func (e *Engine) Run(ctx context.Context, spec engine.RunSpec) ([]types.RuleResult, error) {
	var out []types.RuleResult
	for _, target := range spec.Targets {
		if target.IsDirectory {
			// Directory markers carry no concrete file list; the
			// conservative interpretation is to analyze nothing.
			continue
		}
		for _, path := range target.Paths {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			results, err := e.runFile(path, spec.Rules)
			if err != nil {
				return nil, err
			}
			out = append(out, results...)
		}
	}
	return out, nil
}

func (e *Engine) runFile(path string, rules []types.Rule) ([]types.RuleResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	if looksBinary(b) {
		return nil, nil
	}
	lines := strings.Split(string(b), "\n")
	var out []types.RuleResult
	for _, rule := range rules {
		re, err := e.compile(rule)
		if err != nil {
			return nil, err
		}
		for i, line := range lines {
			loc := re.FindStringIndex(line)
			if loc == nil {
				continue
			}
			msg := rule.Description
			if msg == "" {
				msg = "matched " + re.String()
			}
			out = append(out, types.RuleResult{
				Engine:   EngineName,
				Rule:     rule.Name,
				Path:     path,
				Line:     i + 1,
				Column:   loc[0] + 1,
				Message:  msg,
				Severity: rule.Severity,
			})
		}
	}
	return out, nil
}

func (e *Engine) compile(rule types.Rule) (*regexp.Regexp, error) {
	pattern := rule.Metadata["pattern"]
	if pattern == "" {
		return nil, fmt.Errorf("rule %q has no pattern metadata", rule.Name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if re, ok := e.compiled[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("rule %q: compile pattern: %w", rule.Name, err)
	}
	e.compiled[pattern] = re
	return re, nil
}

// looksBinary reports whether the content sniffs as non-text (NUL byte in
// the first 800 bytes).
func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}
