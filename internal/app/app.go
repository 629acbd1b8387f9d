// Package app wires configuration, logging and the dice roller together
// for the command-line tools.
package app

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rollkit/internal/config"
	"github.com/cory-johannsen/rollkit/internal/dice"
)

// NewSource returns the randomness source selected by cfg. A seeded source
// with a zero seed draws its seed at random; the chosen seed is returned so
// the run can be replayed.
//
// Postcondition: Returns a non-nil Source or a non-nil error.
func NewSource(cfg config.RollerConfig) (dice.Source, int64, error) {
	switch cfg.Source {
	case "crypto":
		return dice.NewCryptoSource(), 0, nil
	case "seeded":
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Int64()
		}
		return dice.NewSeededSource(seed), seed, nil
	default:
		return nil, 0, fmt.Errorf("unknown roller source %q", cfg.Source)
	}
}

// NewRoller builds a logged Roller from cfg, loading the shorthand file
// when one is configured.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Roller or a non-nil error.
func NewRoller(cfg config.RollerConfig, logger *zap.Logger) (*dice.Roller, error) {
	src, seed, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Source == "seeded" {
		logger.Info("using seeded source", zap.Int64("seed", seed))
	}
	return NewRollerWithSource(src, cfg.ShorthandsFile, logger)
}

// NewRollerWithSource builds a logged Roller around src. An empty
// shorthandsFile keeps the built-in shorthand table.
//
// Precondition: src and logger must be non-nil.
func NewRollerWithSource(src dice.Source, shorthandsFile string, logger *zap.Logger) (*dice.Roller, error) {
	opts := []dice.RollerOption{dice.WithLogger(logger)}
	if shorthandsFile != "" {
		table, err := dice.LoadShorthands(shorthandsFile)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded shorthands", zap.String("file", shorthandsFile), zap.Int("count", len(table)))
		opts = append(opts, dice.WithShorthands(table))
	}
	return dice.NewRoller(src, opts...), nil
}
