package core

import (
	"context"

	"github.com/polylint/polylint/internal/catalog"
	"github.com/polylint/polylint/internal/engine"
	"github.com/polylint/polylint/internal/engine/regexengine"
	"github.com/polylint/polylint/internal/events"
	"github.com/polylint/polylint/internal/ignore"
	"github.com/polylint/polylint/internal/orchestrator"
	"github.com/polylint/polylint/internal/targets"
	"github.com/polylint/polylint/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type Filter = types.Filter
type Rule = types.Rule
type RuleResult = types.RuleResult

// Options configures an embedded analysis run.
type Options struct {
	// WorkDir anchors relative targets; empty means the process working
	// directory.
	WorkDir string
	// CatalogPaths are rule definition files or directories.
	CatalogPaths []string
	// Targets are files, directories, or glob patterns.
	Targets []string
	// Filters select rules from the catalog; empty selects everything.
	Filters []Filter
	// EngineOptions is passed through to engines unfiltered.
	EngineOptions map[string]string
}

// Run is the stable entrypoint for other programs. It wires the built-in
// regex engine against a file catalog and returns the combined results.
func Run(ctx context.Context, opts Options) ([]RuleResult, error) {
	emit := events.New(nil)
	resolver, err := targets.NewResolver(opts.WorkDir, ignore.Matcher{}, emit)
	if err != nil {
		return nil, err
	}
	engines := []engine.Engine{regexengine.New(regexengine.Config{})}
	orch := orchestrator.New(catalog.NewFileCatalog(opts.CatalogPaths), engines, resolver, emit)
	if err := orch.Initialize(); err != nil {
		return nil, err
	}
	return orch.RunResults(ctx, opts.Filters, opts.Targets, opts.EngineOptions)
}
