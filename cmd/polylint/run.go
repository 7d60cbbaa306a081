package polylint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/polylint/polylint/internal/catalog"
	"github.com/polylint/polylint/internal/config"
	"github.com/polylint/polylint/internal/engine"
	"github.com/polylint/polylint/internal/engine/execengine"
	"github.com/polylint/polylint/internal/engine/regexengine"
	"github.com/polylint/polylint/internal/ignore"
	"github.com/polylint/polylint/internal/orchestrator"
	"github.com/polylint/polylint/internal/report"
	"github.com/polylint/polylint/internal/targets"
	"github.com/polylint/polylint/internal/types"
	"github.com/polylint/polylint/internal/update"
	"github.com/polylint/polylint/internal/watch"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagCategories    []string
	flagRulesets      []string
	flagLanguages     []string
	flagRules         []string
	flagEngines       []string
	flagOptions       map[string]string
	flagFailOn        string
	flagBaseline      string
	flagWriteBaseline bool
	flagShowSource    bool
	flagWatch         bool
	flagWatchDebounce time.Duration
	flagExecEngines   []string
	flagRegexPatterns []string
)

func init() {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Analyze files, directories, or glob patterns",
		RunE:  runRun,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringSliceVar(&flagCategories, "category", nil, "select rules by category (repeatable)")
	cmd.Flags().StringSliceVar(&flagRulesets, "ruleset", nil, "select rules by ruleset (repeatable)")
	cmd.Flags().StringSliceVar(&flagLanguages, "language", nil, "select rules by language (repeatable)")
	cmd.Flags().StringSliceVar(&flagRules, "rule", nil, "select rules by name (repeatable)")
	cmd.Flags().StringSliceVar(&flagEngines, "engine", nil, "select rules by engine (repeatable)")
	cmd.Flags().StringToStringVar(&flagOptions, "option", nil, "engine option key=value (repeatable, passed through unfiltered)")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "medium", "fail on low|medium|high")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "", "suppress violations listed in this baseline file")
	cmd.Flags().BoolVar(&flagWriteBaseline, "write-baseline", false, "write current violations to the baseline file and exit clean")
	cmd.Flags().BoolVar(&flagShowSource, "show-source", false, "print the offending source line for each violation")
	cmd.Flags().BoolVar(&flagWatch, "watch", false, "re-run analysis when target files change")
	cmd.Flags().DurationVar(&flagWatchDebounce, "watch-debounce", 300*time.Millisecond, "settle time before a watched re-run")
	cmd.Flags().StringSliceVar(&flagExecEngines, "exec-engine", nil, "TOML definition of an external analyzer engine (repeatable)")
	cmd.Flags().StringSliceVar(&flagRegexPatterns, "regex-patterns", nil, "target patterns for the built-in regex engine")
}

func runRun(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	// Load configs: CLI > local > global
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(wd); err == nil {
		lcfg = c
	}

	rawTargets := args
	if len(rawTargets) == 0 {
		rawTargets = []string{"."}
	}

	catalogPaths := pickSlice(flagCatalog, lcfg.Catalog, gcfg.Catalog)
	if len(catalogPaths) == 0 {
		return fmt.Errorf("no rule catalog configured; pass --catalog or set 'catalog' in .polylint.yml")
	}

	formatName := pickString(flagFormat, lcfg.Format, gcfg.Format)
	if formatName == "" {
		formatName = string(report.FormatTable)
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	failOn := flagFailOn
	if !cmd.Flags().Changed("fail-on") {
		if cfg := pickString("", lcfg.FailOn, gcfg.FailOn); cfg != "" {
			failOn = cfg
		}
	}
	baselinePath := pickString(flagBaseline, lcfg.Baseline, gcfg.Baseline)
	noColor := flagNoColor || !term.IsTerminal(int(os.Stdout.Fd()))

	options := map[string]string{}
	for k, v := range gcfg.EngineOptions {
		options[k] = v
	}
	for k, v := range lcfg.EngineOptions {
		options[k] = v
	}
	for k, v := range flagOptions {
		options[k] = v
	}

	emit := newEmitter()

	if !flagNoUpdateCheck && format == report.FormatTable {
		if latest, isNewer, _ := update.Check(version, false); isNewer && latest != "" {
			fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'polylint update' to upgrade\n", latest)
		}
	}

	engines := []engine.Engine{
		regexengine.New(regexengine.Config{
			TargetPatterns: pickSlice(flagRegexPatterns, lcfg.RegexPatterns, gcfg.RegexPatterns),
		}),
	}
	for _, p := range pickSlice(flagExecEngines, lcfg.ExecEngines, gcfg.ExecEngines) {
		ecfg, err := execengine.LoadConfig(p)
		if err != nil {
			return err
		}
		engines = append(engines, execengine.New(ecfg))
	}

	ign, err := ignore.Load(filepath.Join(wd, ".polylintignore"))
	if err != nil {
		return err
	}
	resolver, err := targets.NewResolver(wd, ign, emit)
	if err != nil {
		return err
	}

	orch := orchestrator.New(catalog.NewFileCatalog(catalogPaths), engines, resolver, emit)
	if err := orch.Initialize(); err != nil {
		return err
	}

	filters := buildFilters()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	doRun := func() (bool, error) {
		results, err := orch.RunResults(ctx, filters, rawTargets, options)
		if err != nil {
			return false, err
		}
		if flagWriteBaseline {
			if baselinePath == "" {
				baselinePath = "polylint.baseline.json"
			}
			if err := report.SaveBaseline(baselinePath, results); err != nil {
				return false, fmt.Errorf("write baseline: %w", err)
			}
			fmt.Fprintf(os.Stderr, "baseline written: %s (%d violations)\n", baselinePath, len(results))
			return false, nil
		}
		if baselinePath != "" {
			if base, err := report.LoadBaseline(baselinePath); err == nil {
				results = report.FilterNew(results, base)
			}
		}
		out, err := report.Recombine(results, format)
		if err != nil {
			return false, err
		}
		fmt.Print(out)
		if flagShowSource && format == report.FormatTable {
			report.RenderSnippets(os.Stdout, results, noColor)
		}
		return report.ShouldFail(results, failOn), nil
	}

	if flagWatch {
		if _, err := doRun(); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		return watch.Watch(ctx, watchRoots(wd, rawTargets), flagWatchDebounce, emit, func() {
			if _, err := doRun(); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
		})
	}

	failed, err := doRun()
	if err != nil {
		return err
	}
	if failed {
		os.Exit(1)
	}
	return nil
}

func buildFilters() []types.Filter {
	var filters []types.Filter
	add := func(cat types.FilterCategory, values []string) {
		for _, v := range values {
			filters = append(filters, types.Filter{Category: cat, Value: v})
		}
	}
	add(types.FilterCategoryName, flagCategories)
	add(types.FilterRuleset, flagRulesets)
	add(types.FilterLanguage, flagLanguages)
	add(types.FilterRulename, flagRules)
	add(types.FilterEngine, flagEngines)
	return filters
}

// watchRoots picks the filesystem roots worth watching for a target list:
// existing files and directories directly, the working directory for globs.
func watchRoots(wd string, rawTargets []string) []string {
	var roots []string
	sawGlob := false
	for _, t := range rawTargets {
		abs := t
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(wd, t)
		}
		if _, err := os.Stat(abs); err == nil {
			roots = append(roots, abs)
			continue
		}
		sawGlob = true
	}
	if len(roots) == 0 || sawGlob {
		roots = append(roots, wd)
	}
	return roots
}
