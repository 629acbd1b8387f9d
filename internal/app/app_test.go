package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/rollkit/internal/app"
	"github.com/cory-johannsen/rollkit/internal/config"
	"github.com/cory-johannsen/rollkit/internal/dice"
	"github.com/cory-johannsen/rollkit/internal/dice/dicetest"
)

func TestNewSource_Seeded(t *testing.T) {
	src, seed, err := app.NewSource(config.RollerConfig{Source: "seeded", Seed: 99})
	require.NoError(t, err)
	assert.Equal(t, int64(99), seed)
	assert.IsType(t, &dice.SeededSource{}, src)
}

func TestNewSource_RandomSeed(t *testing.T) {
	src, _, err := app.NewSource(config.RollerConfig{Source: "seeded"})
	require.NoError(t, err)
	v := src.Uniform(1, 6)
	assert.True(t, v >= 1 && v <= 6)
}

func TestNewSource_Unknown(t *testing.T) {
	_, _, err := app.NewSource(config.RollerConfig{Source: "loaded"})
	assert.Error(t, err)
}

func TestNewRoller_SeedsAreReproducible(t *testing.T) {
	cfg := config.RollerConfig{Source: "seeded", Seed: 1234}
	a, err := app.NewRoller(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	b, err := app.NewRoller(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	ra, err := a.Roll("4d6kh3 + 1d%")
	require.NoError(t, err)
	rb, err := b.Roll("4d6kh3 + 1d%")
	require.NoError(t, err)
	assert.Equal(t, ra.String(), rb.String())
}

func TestNewRoller_LogsSeed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	_, err := app.NewRoller(config.RollerConfig{Source: "seeded", Seed: 5}, zap.New(core))
	require.NoError(t, err)

	entries := logs.FilterMessage("using seeded source").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(5), entries[0].ContextMap()["seed"])
}

func TestNewRollerWithSource_Shorthands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shorthands.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ADV: 2d20kh1\n"), 0o644))

	r, err := app.NewRollerWithSource(dicetest.NewSequence(4, 15), path, zaptest.NewLogger(t))
	require.NoError(t, err)
	result, err := r.Roll("adv + 2")
	require.NoError(t, err)
	assert.Equal(t, 17, result.Total())
}

func TestNewRollerWithSource_BadShorthands(t *testing.T) {
	_, err := app.NewRollerWithSource(dicetest.NewSequence(), filepath.Join(t.TempDir(), "none.yaml"), zaptest.NewLogger(t))
	assert.Error(t, err)
}
