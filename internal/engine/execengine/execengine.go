package execengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/polylint/polylint/internal/engine"
	"github.com/polylint/polylint/internal/types"
)

// Config describes an external analyzer binary. It is loaded from a TOML
// file so existing analyzer setups can be dropped in without recompiling.
type Config struct {
	// Name is the engine identity matched against Rule.Engine.
	Name string `toml:"name"`
	// Binary is the analyzer executable; resolved via $PATH when not
	// absolute.
	Binary string `toml:"binary"`
	// Args are fixed arguments placed before the generated ones.
	Args []string `toml:"args"`
	// TargetPatterns are the engine's inclusion/exclusion globs.
	TargetPatterns []string `toml:"target_patterns"`
}

// LoadConfig reads an engine definition from a TOML file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read engine config %q: %w", path, err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse engine config %q: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = "exec"
	}
	return cfg, nil
}

// Engine shells out to an external analyzer. Invocation contract: the
// binary receives `--rules <csv> --report <file>` followed by the target
// paths, writes a JSON report to <file>, and exits 0 for a clean run or 1
// when it found violations. Any other exit code is an execution error.
type Engine struct {
	cfg        Config
	binaryPath string
}

// New creates an exec engine from its configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Name() string { return e.cfg.Name }

// Initialize resolves the analyzer binary. A missing binary is fatal: the
// orchestrator must not run with an engine that cannot execute.
func (e *Engine) Initialize() error {
	if e.cfg.Binary == "" {
		return fmt.Errorf("engine %q: no binary configured", e.cfg.Name)
	}
	path, err := exec.LookPath(e.cfg.Binary)
	if err != nil {
		return fmt.Errorf("engine %q: binary %q not found: %w", e.cfg.Name, e.cfg.Binary, err)
	}
	e.binaryPath = path
	return nil
}

// TargetPatterns implements engine.Engine. The returned slice is never nil
// even when no patterns are configured.
func (e *Engine) TargetPatterns(string) ([]string, error) {
	out := make([]string, 0, len(e.cfg.TargetPatterns))
	return append(out, e.cfg.TargetPatterns...), nil
}

// reportEntry is one violation in the analyzer's JSON report.
type reportEntry struct {
	Rule     string `json:"rule"`
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Run implements engine.Engine.
func (e *Engine) Run(ctx context.Context, spec engine.RunSpec) ([]types.RuleResult, error) {
	reportFile, err := os.CreateTemp("", "polylint-report-*.json")
	if err != nil {
		return nil, fmt.Errorf("create report file: %w", err)
	}
	reportPath := reportFile.Name()
	_ = reportFile.Close()
	defer func() {
		_ = os.Remove(reportPath)
	}()

	ruleNames := make([]string, 0, len(spec.Rules))
	sevByRule := make(map[string]types.Severity, len(spec.Rules))
	for _, r := range spec.Rules {
		ruleNames = append(ruleNames, r.Name)
		sevByRule[r.Name] = r.Severity
	}

	args := append([]string{}, e.cfg.Args...)
	args = append(args, "--rules", strings.Join(ruleNames, ","), "--report", reportPath)
	for k, v := range spec.Options {
		args = append(args, "--option", k+"="+v)
	}
	for _, t := range spec.Targets {
		args = append(args, t.Paths...)
	}

	binary := e.binaryPath
	if binary == "" {
		binary = e.cfg.Binary
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		// Exit code 1 means the analyzer found violations; the report
		// still gets parsed. Anything else is a real failure.
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			return nil, fmt.Errorf("engine %q: %w: %s", e.cfg.Name, err, strings.TrimSpace(stderr.String()))
		}
	}

	b, err := os.ReadFile(reportPath)
	if err != nil {
		return nil, fmt.Errorf("engine %q: read report: %w", e.cfg.Name, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	var entries []reportEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("engine %q: parse report: %w", e.cfg.Name, err)
	}

	results := make([]types.RuleResult, 0, len(entries))
	for _, en := range entries {
		sev := types.Severity(en.Severity)
		if sev == "" {
			sev = sevByRule[en.Rule]
		}
		results = append(results, types.RuleResult{
			Engine:   e.cfg.Name,
			Rule:     en.Rule,
			Path:     en.Path,
			Line:     en.Line,
			Column:   en.Column,
			Message:  en.Message,
			Severity: sev,
		})
	}
	return results, nil
}
