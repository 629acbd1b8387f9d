// Package main provides the dicestat command, which estimates the
// distribution of dice expressions by simulation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rollkit/internal/config"
	"github.com/cory-johannsen/rollkit/internal/dice"
	"github.com/cory-johannsen/rollkit/internal/observability"
	"github.com/cory-johannsen/rollkit/internal/stats"
)

type options struct {
	iterations int
	workers    int
	barWidth   int
	seed       int64
	asJSON     bool
	asYAML     bool
	configPath string
	verbose    bool
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "dicestat EXPRESSION...",
		Short: "Simulate dice expressions and print their distribution",
		Long: `Dicestat rolls each expression many times and reports the range,
average, most common result and a probability histogram.

Examples:
  dicestat 2d6
  dicestat 4d6kh3 3d6 -i 500000
  dicestat "1d20 + 5" --json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts, stdout)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.iterations, "iterations", "i", 0, "rolls per expression (default from config)")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "parallel workers (default from config)")
	flags.IntVar(&opts.barWidth, "width", 0, "histogram bar width (default from config)")
	flags.Int64Var(&opts.seed, "seed", 0, "seed for a reproducible run (0 = crypto randomness)")
	flags.BoolVar(&opts.asJSON, "json", false, "output summaries as JSON")
	flags.BoolVar(&opts.asYAML, "yaml", false, "output summaries as YAML")
	flags.StringVar(&opts.configPath, "config", "", "path to configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging on stderr")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	return cmd
}

func run(cmd *cobra.Command, exprs []string, opts options, stdout io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("iterations") {
		cfg.Stats.Iterations = opts.iterations
	}
	if flags.Changed("workers") {
		cfg.Stats.Workers = opts.workers
	}
	if flags.Changed("width") {
		cfg.Stats.BarWidth = opts.barWidth
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	seed := opts.seed
	if !flags.Changed("seed") && cfg.Roller.Source == "seeded" {
		seed = cfg.Roller.Seed
	}

	logger, err := observability.NewLogger(observability.WithVerbosity(cfg.Logging, opts.verbose))
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	simLogger, err := observability.Component(logger, "stats", cfg.Logging.Progress)
	if err != nil {
		return err
	}

	var table dice.Shorthands
	if cfg.Roller.ShorthandsFile != "" {
		table, err = dice.LoadShorthands(cfg.Roller.ShorthandsFile)
		if err != nil {
			return err
		}
	}

	summaries := make([]stats.Summary, 0, len(exprs))
	for _, expr := range exprs {
		logger.Info("simulating", zap.String("expression", expr), zap.Int("iterations", cfg.Stats.Iterations))
		s, err := stats.Simulate(cmd.Context(), expr, stats.Options{
			Iterations: cfg.Stats.Iterations,
			Workers:    cfg.Stats.Workers,
			Seed:       seed,
			Shorthands: table,
			Logger:     simLogger,
		})
		if err != nil {
			return fmt.Errorf("simulating %q: %w", expr, err)
		}
		summaries = append(summaries, s)
	}

	switch {
	case opts.asJSON:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	case opts.asYAML:
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(summaries); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	for i, s := range summaries {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		if err := stats.Render(stdout, s, cfg.Stats.BarWidth); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	// Ctrl-C cancels the running simulation.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
