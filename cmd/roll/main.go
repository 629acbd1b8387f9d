// Package main provides the roll command, which evaluates dice expressions
// from the command line.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rollkit/internal/app"
	"github.com/cory-johannsen/rollkit/internal/config"
	"github.com/cory-johannsen/rollkit/internal/dice"
	"github.com/cory-johannsen/rollkit/internal/observability"
	"github.com/cory-johannsen/rollkit/internal/report"
)

// errReported marks a failure already printed to stderr.
var errReported = errors.New("error reported")

type options struct {
	count      int
	asJSON     bool
	asYAML     bool
	trace      bool
	modifiers  []string
	seed       int64
	configPath string
	verbose    bool
	noColor    bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "roll EXPRESSION",
		Short: "Roll a dice expression",
		Long: `Roll evaluates tabletop dice notation and prints the result.

Examples:
  roll 1d20                  # simple d20 roll
  roll "2d6 + 3"             # two d6 plus 3
  roll 2d20kh1               # advantage
  roll 1d20 -m Str=2         # named static modifier
  roll 1d6 -n 5 --json       # several rolls as a JSON array
  roll "4d6kh3" --trace      # show every evaluation step`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.count, "count", "n", 1, "number of rolls")
	flags.BoolVar(&opts.asJSON, "json", false, "output results as JSON")
	flags.BoolVar(&opts.asYAML, "yaml", false, "output results as YAML")
	flags.BoolVar(&opts.trace, "trace", false, "include the evaluation trace with each result")
	flags.StringArrayVarP(&opts.modifiers, "modifier", "m", nil, "modifier as label=value; value is an integer or dice expression")
	flags.Int64Var(&opts.seed, "seed", 0, "seed for reproducible rolls (0 = crypto randomness)")
	flags.StringVar(&opts.configPath, "config", "", "path to configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging on stderr")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	return cmd
}

func run(cmd *cobra.Command, expr string, opts options, stdout, stderr io.Writer) error {
	if opts.count < 1 {
		return fmt.Errorf("--count must be >= 1, got %d", opts.count)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("seed") && opts.seed != 0 {
		cfg.Roller.Source = "seeded"
		cfg.Roller.Seed = opts.seed
	}

	logger, err := observability.NewLogger(observability.WithVerbosity(cfg.Logging, opts.verbose))
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	roller, err := app.NewRoller(cfg.Roller, logger)
	if err != nil {
		return fmt.Errorf("creating roller: %w", err)
	}

	mods := make([]dice.Modifier, 0, len(opts.modifiers))
	for _, text := range opts.modifiers {
		m, err := dice.ParseModifier(text)
		if err != nil {
			return err
		}
		mods = append(mods, m)
	}

	errOut := report.NewTextWriter(stderr, !opts.noColor && !color.NoColor)
	records := make([]report.Record, 0, opts.count)
	for range opts.count {
		rollOpts := []dice.RollOption{dice.WithModifiers(mods...)}
		var rec *dice.Recorder
		if opts.trace {
			rec = &dice.Recorder{}
			rollOpts = append(rollOpts, dice.WithTracer(rec))
		}
		if opts.verbose {
			rollOpts = append(rollOpts, dice.WithTracer(dice.NewZapTracer(logger)))
		}

		result, err := roller.Roll(expr, rollOpts...)
		if err != nil {
			logger.Debug("roll failed", zap.String("expression", expr), zap.Error(err))
			_ = errOut.WriteError(err)
			return errReported
		}
		var trace []string
		if rec != nil {
			trace = rec.Lines()
		}
		records = append(records, report.NewRecord(result, trace))
	}

	switch {
	case opts.asJSON:
		return report.WriteJSON(stdout, records)
	case opts.asYAML:
		return report.WriteYAML(stdout, records)
	default:
		return report.NewTextWriter(stdout, !opts.noColor && !color.NoColor).Write(records)
	}
}

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
