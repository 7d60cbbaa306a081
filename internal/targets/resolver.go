package targets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/polylint/polylint/internal/engine"
	"github.com/polylint/polylint/internal/events"
	"github.com/polylint/polylint/internal/ignore"
	"github.com/polylint/polylint/internal/types"
)

// ErrNoPatterns is returned when an engine violates the TargetPatterns
// contract by answering with a nil pattern set.
var ErrNoPatterns = errors.New("engine returned no target pattern set")

// ExcludePrefix marks a target pattern as an exclusion.
const ExcludePrefix = "!"

// Resolver expands raw target strings (files, directories, glob patterns)
// into engine-specific RuleTarget records. Relative targets are interpreted
// against workDir; every retained path is absolute.
type Resolver struct {
	workDir string
	ign     ignore.Matcher
	emit    *events.Emitter
}

// NewResolver creates a resolver rooted at workDir. An empty workDir falls
// back to the process working directory.
func NewResolver(workDir string, ign ignore.Matcher, emit *events.Emitter) (*Resolver, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		workDir = wd
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return nil, err
	}
	if emit == nil {
		emit = events.New(nil)
	}
	return &Resolver{workDir: abs, ign: ign, emit: emit}, nil
}

// Resolve expands rawTargets for one engine. Nonexistent non-glob targets
// and empty glob expansions are dropped silently; a nil pattern set from the
// engine is a contract violation and fails the whole resolution.
func (r *Resolver) Resolve(eng engine.Engine, rawTargets []string) ([]types.RuleTarget, error) {
	var out []types.RuleTarget
	for _, raw := range rawTargets {
		pats, err := eng.TargetPatterns(raw)
		if err != nil {
			return nil, fmt.Errorf("target patterns from engine %q: %w", eng.Name(), err)
		}
		if pats == nil {
			return nil, fmt.Errorf("%w: engine %q, target %q", ErrNoPatterns, eng.Name(), raw)
		}
		m := newMatcher(pats)

		switch {
		case isGlob(raw):
			rt, ok := r.resolveGlob(raw, m)
			if ok {
				out = append(out, rt)
			}
		default:
			abs := r.abs(raw)
			info, statErr := os.Stat(abs)
			if statErr != nil {
				// Speculative targets are routine, not errors.
				r.emit.Debug("targetSkipped", raw)
				continue
			}
			if info.IsDir() {
				rt, ok := r.resolveDir(raw, abs, pats, m)
				if ok {
					out = append(out, rt)
				}
				continue
			}
			if r.ignored(abs) || !m.allow(raw) {
				continue
			}
			out = append(out, types.RuleTarget{OriginalTarget: raw, Paths: []string{abs}})
		}
	}
	return out, nil
}

func (r *Resolver) resolveGlob(raw string, m matcher) (types.RuleTarget, bool) {
	matches, err := r.expandGlob(raw)
	if err != nil {
		r.emit.Warn("badTargetPattern", raw, err.Error())
		return types.RuleTarget{}, false
	}
	seen := map[string]bool{}
	var paths []string
	for _, match := range matches {
		if !m.allow(match) {
			continue
		}
		abs := r.abs(match)
		if r.ignored(abs) || seen[abs] {
			continue
		}
		seen[abs] = true
		paths = append(paths, abs)
	}
	if len(paths) == 0 {
		// Dropping the whole target keeps the downstream "engine not
		// eligible" signal accurate.
		r.emit.Debug("targetEmptyExpansion", raw)
		return types.RuleTarget{}, false
	}
	sort.Strings(paths)
	return types.RuleTarget{OriginalTarget: raw, Paths: paths}, true
}

func (r *Resolver) resolveDir(raw, absDir string, pats []string, m matcher) (types.RuleTarget, bool) {
	if len(pats) == 0 {
		// Pattern-less engine: the directory itself stands in for its
		// contents and the engine must interpret it conservatively.
		r.emit.Debug("targetDirectoryMarker", raw)
		return types.RuleTarget{OriginalTarget: raw, IsDirectory: true, Paths: []string{absDir}}, true
	}
	seen := map[string]bool{}
	var paths []string
	for _, pat := range m.includes {
		rels, err := doublestar.Glob(os.DirFS(absDir), pat, doublestar.WithFilesOnly())
		if err != nil {
			r.emit.Warn("badEnginePattern", pat, err.Error())
			continue
		}
		for _, rel := range rels {
			if m.excluded(rel) {
				continue
			}
			abs := filepath.Join(absDir, filepath.FromSlash(rel))
			if r.ignored(abs) || seen[abs] {
				continue
			}
			seen[abs] = true
			paths = append(paths, abs)
		}
	}
	if len(paths) == 0 {
		return types.RuleTarget{}, false
	}
	sort.Strings(paths)
	return types.RuleTarget{OriginalTarget: raw, Paths: paths}, true
}

// expandGlob expands a glob pattern to existing files. Relative patterns are
// evaluated against the resolver's working directory.
func (r *Resolver) expandGlob(pattern string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		return doublestar.FilepathGlob(filepath.ToSlash(pattern), doublestar.WithFilesOnly())
	}
	rels, err := doublestar.Glob(os.DirFS(r.workDir), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rels))
	for _, rel := range rels {
		out = append(out, filepath.Join(r.workDir, filepath.FromSlash(rel)))
	}
	return out, nil
}

func (r *Resolver) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(r.workDir, p)
}

func (r *Resolver) ignored(abs string) bool {
	rel, err := filepath.Rel(r.workDir, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(abs)
	}
	return r.ign.Match(filepath.ToSlash(rel))
}

// isGlob reports whether the raw target contains glob metacharacters.
func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// matcher splits an engine's target patterns into an inclusive matcher (any
// non-exclusion pattern) and an exclusive matcher (patterns with the "!"
// prefix). A path is accepted only when it matches an inclusion pattern and
// no exclusion pattern; an empty exclusion set never rejects.
type matcher struct {
	includes []string
	excludes []string
}

func newMatcher(pats []string) matcher {
	var m matcher
	for _, p := range pats {
		if strings.HasPrefix(p, ExcludePrefix) {
			m.excludes = append(m.excludes, strings.TrimPrefix(p, ExcludePrefix))
			continue
		}
		m.includes = append(m.includes, p)
	}
	return m
}

func (m matcher) allow(p string) bool {
	return matchAny(m.includes, p) && !m.excluded(p)
}

func (m matcher) excluded(p string) bool {
	return matchAny(m.excludes, p)
}

// matchAny matches p against each glob, both as a full slash-separated path
// and by basename so extension patterns like "*.cls" behave as users expect.
func matchAny(globs []string, p string) bool {
	sp := filepath.ToSlash(p)
	base := sp
	if i := strings.LastIndex(sp, "/"); i >= 0 {
		base = sp[i+1:]
	}
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, sp); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}
