package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/rollkit/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "json"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_Console(t *testing.T) {
	cfg := config.LoggingConfig{Level: "debug", Format: "console"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := config.LoggingConfig{Level: "trace", Format: "json"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "xml"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_AllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := config.LoggingConfig{Level: level, Format: "json"}
		logger, err := NewLogger(cfg)
		require.NoError(t, err, "level %q should be valid", level)
		assert.NotNil(t, logger)
	}
}

func TestWithVerbosity(t *testing.T) {
	cfg := config.LoggingConfig{Level: "warn", Format: "console"}
	assert.Equal(t, "warn", WithVerbosity(cfg, false).Level)
	assert.Equal(t, "debug", WithVerbosity(cfg, true).Level)
	assert.Equal(t, "warn", cfg.Level)
}

func TestComponent_RaisesThreshold(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	stats, err := Component(zap.New(core), "stats", "info")
	require.NoError(t, err)

	stats.Debug("simulation worker finished")
	stats.Info("simulation complete")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "simulation complete", entries[0].Message)
	assert.Equal(t, "stats", entries[0].LoggerName)
}

func TestComponent_CannotLowerThreshold(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	stats, err := Component(zap.New(core), "stats", "debug")
	require.NoError(t, err)

	stats.Info("simulation complete")
	stats.Warn("simulation failed")

	assert.Equal(t, 0, logs.FilterMessage("simulation complete").Len())
	assert.Equal(t, 1, logs.FilterMessage("simulation failed").Len())
}

func TestComponent_InvalidLevel(t *testing.T) {
	_, err := Component(zap.NewNop(), "stats", "loud")
	assert.Error(t, err)
}
