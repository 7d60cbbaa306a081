package polylint

import (
	"fmt"
	"os"

	"github.com/polylint/polylint/internal/events"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagCatalog       []string
	flagFormat        string
	flagNoColor       bool
	flagVerbose       bool
	flagLogLevel      string
	flagEnvelope      bool
	flagNoUpdateCheck bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the polylint CLI.
var rootCmd = &cobra.Command{
	Use:           "polylint",
	Short:         "Run multiple static-analysis engines as one",
	Long:          "Polylint routes rule filters and file targets to pluggable analysis engines, runs the eligible ones concurrently, and merges their findings into a single report.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the polylint CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&flagCatalog, "catalog", nil, "rule definition files or directories (repeatable)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "", "output format: table|json|csv|xml|junit|sarif")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "emit verbose diagnostics")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "diagnostic log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&flagEnvelope, "envelope", false, "mirror events as machine-readable JSON lines on stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
}

// newEmitter builds the event emitter shared by a command invocation.
// Diagnostics go to stderr so report output on stdout stays parseable.
func newEmitter() *events.Emitter {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(flagLogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	if flagVerbose && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	opts := []events.Option{events.WithVerbose(flagVerbose)}
	if flagEnvelope {
		opts = append(opts, events.WithEnvelope(os.Stderr))
	}
	return events.New(log, opts...)
}
