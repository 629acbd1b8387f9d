// Package config provides Viper-based configuration loading for the dice tools.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Progress is the minimum level for simulation progress entries. It can
	// only raise the threshold set by Level.
	Progress string `mapstructure:"progress"`
}

// RollerConfig selects the randomness source and shorthand table.
type RollerConfig struct {
	// Source is "crypto" or "seeded".
	Source string `mapstructure:"source"`
	// Seed drives a seeded source. Zero picks a random seed.
	Seed int64 `mapstructure:"seed"`
	// ShorthandsFile is an optional YAML table merged over the defaults.
	ShorthandsFile string `mapstructure:"shorthands_file"`
}

// StatsConfig holds simulation settings for dicestat.
type StatsConfig struct {
	// Iterations is the number of rolls simulated per expression.
	Iterations int `mapstructure:"iterations"`
	// Workers is the number of goroutines sharing the iterations.
	Workers int `mapstructure:"workers"`
	// BarWidth is the width in characters of the longest histogram bar.
	BarWidth int `mapstructure:"bar_width"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Roller  RollerConfig  `mapstructure:"roller"`
	Stats   StatsConfig   `mapstructure:"stats"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRoller(c.Roller); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStats(c.Stats); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if !validLevels[l.Progress] {
		errs = append(errs, fmt.Sprintf("logging.progress must be one of [debug, info, warn, error], got %q", l.Progress))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRoller(r RollerConfig) error {
	validSources := map[string]bool{"crypto": true, "seeded": true}
	if !validSources[r.Source] {
		return fmt.Errorf("roller.source must be one of [crypto, seeded], got %q", r.Source)
	}
	return nil
}

func validateStats(s StatsConfig) error {
	var errs []string
	if s.Iterations < 1 {
		errs = append(errs, fmt.Sprintf("stats.iterations must be >= 1, got %d", s.Iterations))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("stats.workers must be >= 1, got %d", s.Workers))
	}
	if s.BarWidth < 1 {
		errs = append(errs, fmt.Sprintf("stats.bar_width must be >= 1, got %d", s.BarWidth))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with ROLLKIT_ prefix
	v.SetEnvPrefix("ROLLKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is supplied.
//
// Postcondition: Default().Validate() == nil.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.progress", "info")

	v.SetDefault("roller.source", "crypto")
	v.SetDefault("roller.seed", 0)
	v.SetDefault("roller.shorthands_file", "")

	v.SetDefault("stats.iterations", 100000)
	v.SetDefault("stats.workers", 4)
	v.SetDefault("stats.bar_width", 50)
}
