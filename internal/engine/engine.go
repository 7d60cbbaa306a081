package engine

import (
	"context"

	"github.com/polylint/polylint/internal/types"
)

// Engine is the capability set every pluggable analysis backend implements.
// Concrete engines are registered as an explicit ordered slice injected into
// the orchestrator; there is no global registry.
type Engine interface {
	// Name returns the engine identity matched against Rule.Engine.
	Name() string

	// Initialize prepares the engine for Run. Called once by the
	// orchestrator; failure is fatal to the whole orchestrator.
	Initialize() error

	// TargetPatterns returns the glob patterns filtering which files this
	// engine analyzes for the given raw target. Patterns prefixed with "!"
	// are exclusions. The returned slice must never be nil: an empty,
	// non-nil slice means "no filtering, accept the target as a directory
	// marker". Returning nil is a contract violation the resolver rejects.
	TargetPatterns(rawTarget string) ([]string, error)

	// Run executes the engine against its resolved slice of work. The
	// options map is passed through unfiltered and uninterpreted by the
	// core.
	Run(ctx context.Context, spec RunSpec) ([]types.RuleResult, error)
}

// RunSpec is the disjoint slice of work handed to one engine invocation.
type RunSpec struct {
	Groups  []types.RuleGroup
	Rules   []types.Rule
	Targets []types.RuleTarget
	Options map[string]string
}
