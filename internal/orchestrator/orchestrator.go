package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/polylint/polylint/internal/catalog"
	"github.com/polylint/polylint/internal/engine"
	"github.com/polylint/polylint/internal/events"
	"github.com/polylint/polylint/internal/report"
	"github.com/polylint/polylint/internal/targets"
	"github.com/polylint/polylint/internal/types"
)

// ErrNotInitialized is returned when Run is called before Initialize.
var ErrNotInitialized = errors.New("orchestrator not initialized")

// Orchestrator coordinates a full analysis run: it derives each engine's
// rule/group subset and target subset, decides eligibility, dispatches
// eligible engines concurrently, and recombines their results into one
// report. Engines are an explicit ordered slice; their registration order
// fixes the concatenation order of results.
type Orchestrator struct {
	catalog  catalog.Catalog
	engines  []engine.Engine
	resolver *targets.Resolver
	emit     *events.Emitter

	mu          sync.Mutex
	initialized bool
}

// New wires an orchestrator from its collaborators. Nothing is initialized
// until Initialize is called.
func New(cat catalog.Catalog, engines []engine.Engine, resolver *targets.Resolver, emit *events.Emitter) *Orchestrator {
	if emit == nil {
		emit = events.New(nil)
	}
	return &Orchestrator{catalog: cat, engines: engines, resolver: resolver, emit: emit}
}

// Initialize prepares every registered engine and the rule catalog. It is
// idempotent: once initialized, repeat calls return immediately with no side
// effects. Any sub-initialization failure fails the whole orchestrator; no
// partial-success state is retained.
func (o *Orchestrator) Initialize() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.initialized {
		return nil
	}
	for _, eng := range o.engines {
		if err := eng.Initialize(); err != nil {
			return fmt.Errorf("initialize engine %q: %w", eng.Name(), err)
		}
	}
	if err := o.catalog.Initialize(); err != nil {
		return fmt.Errorf("initialize catalog: %w", err)
	}
	o.initialized = true
	return nil
}

// dispatch is one eligible engine invocation awaiting execution.
type dispatch struct {
	index int
	eng   engine.Engine
	spec  engine.RunSpec
}

// RunResults executes the orchestration and returns the combined result
// list in engine registration order. If any dispatched engine fails, the
// whole run fails and partial results are discarded.
func (o *Orchestrator) RunResults(ctx context.Context, filters []types.Filter, rawTargets []string, options map[string]string) ([]types.RuleResult, error) {
	o.mu.Lock()
	ready := o.initialized
	o.mu.Unlock()
	if !ready {
		return nil, ErrNotInitialized
	}

	runID := uuid.NewString()
	o.emit.Debug("runStarted", runID)

	groups, err := o.catalog.RuleGroupsMatching(filters)
	if err != nil {
		return nil, fmt.Errorf("query rule groups: %w", err)
	}
	rules, err := o.catalog.RulesMatching(filters)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}

	var dispatches []dispatch
	for i, eng := range o.engines {
		engRules := rulesFor(eng.Name(), rules)
		if len(engRules) == 0 {
			// Skipping is normal, not a failure.
			o.emit.Debug("engineSkippedNoRules", eng.Name())
			continue
		}
		resolved, err := o.resolver.Resolve(eng, rawTargets)
		if err != nil {
			return nil, fmt.Errorf("resolve targets for engine %q: %w", eng.Name(), err)
		}
		if len(resolved) == 0 {
			o.emit.Debug("engineSkippedNoTargets", eng.Name())
			continue
		}
		dispatches = append(dispatches, dispatch{
			index: i,
			eng:   eng,
			spec: engine.RunSpec{
				Groups:  groupsFor(eng.Name(), groups),
				Rules:   engRules,
				Targets: resolved,
				Options: options,
			},
		})
	}

	// Fan out, join, and concatenate in registration order. Each engine
	// writes only its own slot, so no locking is needed across workers.
	perEngine := make([][]types.RuleResult, len(o.engines))
	errs := make([]error, len(o.engines))
	var wg sync.WaitGroup
	for _, d := range dispatches {
		wg.Add(1)
		go func(d dispatch) {
			defer wg.Done()
			res, err := d.eng.Run(ctx, d.spec)
			if err != nil {
				errs[d.index] = fmt.Errorf("engine %q: %w", d.eng.Name(), err)
				return
			}
			perEngine[d.index] = res
		}(d)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			// All-or-nothing: a report must never silently omit a
			// crashed engine's results.
			return nil, err
		}
	}

	var combined []types.RuleResult
	for _, res := range perEngine {
		combined = append(combined, res...)
	}
	o.emit.Debug("runFinished", runID)
	return combined, nil
}

// Run executes the orchestration and returns the report serialized in the
// requested output format.
func (o *Orchestrator) Run(ctx context.Context, filters []types.Filter, rawTargets []string, format report.Format, options map[string]string) (string, error) {
	combined, err := o.RunResults(ctx, filters, rawTargets, options)
	if err != nil {
		return "", err
	}
	out, err := report.Recombine(combined, format)
	if err != nil {
		return "", fmt.Errorf("recombine results: %w", err)
	}
	return out, nil
}

func rulesFor(engineName string, rules []types.Rule) []types.Rule {
	var out []types.Rule
	for _, r := range rules {
		if r.Engine == engineName {
			out = append(out, r)
		}
	}
	return out
}

func groupsFor(engineName string, groups []types.RuleGroup) []types.RuleGroup {
	var out []types.RuleGroup
	for _, g := range groups {
		if g.Engine == engineName {
			out = append(out, g)
		}
	}
	return out
}
