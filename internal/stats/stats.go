// Package stats estimates the distribution of a dice expression by
// Monte Carlo simulation.
package stats

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/rollkit/internal/dice"
)

// Options controls a simulation run.
type Options struct {
	// Iterations is the total number of rolls.
	Iterations int
	// Workers is the number of goroutines sharing the iterations.
	Workers int
	// Seed makes the run reproducible. Worker i draws from a source seeded
	// with Seed+i. Zero uses crypto randomness.
	Seed int64
	// Shorthands replaces the default shorthand table when non-nil.
	Shorthands dice.Shorthands
	// Logger receives progress entries. Nil disables logging.
	Logger *zap.Logger
}

// Summary describes the simulated distribution of one expression.
type Summary struct {
	Expression string      `json:"expression" yaml:"expression"`
	Rolls      int         `json:"rolls" yaml:"rolls"`
	Min        int         `json:"min" yaml:"min"`
	Max        int         `json:"max" yaml:"max"`
	Mean       float64     `json:"mean" yaml:"mean"`
	StdDev     float64     `json:"std_dev" yaml:"std_dev"`
	Mode       int         `json:"mode" yaml:"mode"`
	ModeCount  int         `json:"mode_count" yaml:"mode_count"`
	Counts     map[int]int `json:"counts" yaml:"counts"`
}

// Unique reports the number of distinct totals observed.
func (s Summary) Unique() int { return len(s.Counts) }

// Outcomes returns the observed totals in ascending order.
func (s Summary) Outcomes() []int {
	return slices.Sorted(maps.Keys(s.Counts))
}

// Probability returns the observed frequency of total.
func (s Summary) Probability(total int) float64 {
	if s.Rolls == 0 {
		return 0
	}
	return float64(s.Counts[total]) / float64(s.Rolls)
}

// Simulate rolls expr opts.Iterations times across opts.Workers goroutines.
// The first evaluation error aborts the run.
//
// Precondition: opts.Iterations >= 1 and opts.Workers >= 1.
// Postcondition: Returns a Summary whose counts sum to opts.Iterations, or a non-nil error.
func Simulate(ctx context.Context, expr string, opts Options) (Summary, error) {
	if opts.Iterations < 1 {
		return Summary{}, fmt.Errorf("iterations must be >= 1, got %d", opts.Iterations)
	}
	if opts.Workers < 1 {
		return Summary{}, fmt.Errorf("workers must be >= 1, got %d", opts.Workers)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := min(opts.Workers, opts.Iterations)

	var (
		mu     sync.Mutex
		counts = make(map[int]int)
	)
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		share := opts.Iterations / workers
		if w < opts.Iterations%workers {
			share++
		}
		roller := newWorkerRoller(opts, w)
		g.Go(func() error {
			local := make(map[int]int)
			for i := range share {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				result, err := roller.Roll(expr)
				if err != nil {
					return err
				}
				local[result.Total()]++
			}
			mu.Lock()
			defer mu.Unlock()
			for total, n := range local {
				counts[total] += n
			}
			logger.Debug("simulation worker finished", zap.Int("worker", w), zap.Int("rolls", share))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("simulation failed", zap.String("expression", expr), zap.Error(err))
		return Summary{}, err
	}

	s := Summarize(expr, counts)
	logger.Info("simulation complete",
		zap.String("expression", expr),
		zap.Int("rolls", s.Rolls),
		zap.Int("workers", workers),
		zap.Float64("mean", s.Mean),
	)
	return s, nil
}

func newWorkerRoller(opts Options, worker int) *dice.Roller {
	var src dice.Source = dice.NewCryptoSource()
	if opts.Seed != 0 {
		src = dice.NewSeededSource(opts.Seed + int64(worker))
	}
	var ropts []dice.RollerOption
	if opts.Shorthands != nil {
		ropts = append(ropts, dice.WithShorthands(opts.Shorthands))
	}
	return dice.NewRoller(src, ropts...)
}

// Summarize computes summary statistics from a table of total -> count.
// Ties for the mode go to the smallest total.
func Summarize(expr string, counts map[int]int) Summary {
	s := Summary{Expression: expr, Counts: maps.Clone(counts)}
	if s.Counts == nil {
		s.Counts = map[int]int{}
	}
	outcomes := s.Outcomes()
	if len(outcomes) == 0 {
		return s
	}
	s.Min, s.Max = outcomes[0], outcomes[len(outcomes)-1]

	var sum float64
	for _, total := range outcomes {
		n := s.Counts[total]
		s.Rolls += n
		sum += float64(total) * float64(n)
		if n > s.ModeCount {
			s.Mode, s.ModeCount = total, n
		}
	}
	s.Mean = sum / float64(s.Rolls)

	var sq float64
	for _, total := range outcomes {
		d := float64(total) - s.Mean
		sq += d * d * float64(s.Counts[total])
	}
	s.StdDev = math.Sqrt(sq / float64(s.Rolls))
	return s
}
