package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/rollkit/internal/stats"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDicestat_Text(t *testing.T) {
	out, err := execute(t, "1d1 + 4", "-i", "250", "-w", "2", "--width", "10", "--seed", "3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Expression: 1d1 + 4\nTotal Rolls: 250\nRange: 5 - 5\n"), out)
	assert.Contains(t, out, "5 | ##########")
	assert.Contains(t, out, "Unique Results: 1")
}

func TestDicestat_MultipleExpressionsJSON(t *testing.T) {
	out, err := execute(t, "2d6", "4d6kh3", "-i", "1000", "--seed", "5", "--json")
	require.NoError(t, err)
	var got []stats.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2d6", got[0].Expression)
	assert.Equal(t, 1000, got[1].Rolls)
	assert.GreaterOrEqual(t, got[1].Min, 3)
	assert.LessOrEqual(t, got[1].Max, 18)
}

func TestDicestat_SeedIsReproducible(t *testing.T) {
	first, err := execute(t, "3d6", "-i", "500", "--seed", "21", "--yaml")
	require.NoError(t, err)
	second, err := execute(t, "3d6", "-i", "500", "--seed", "21", "--yaml")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDicestat_Errors(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)

	_, err = execute(t, "1d0", "-i", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `simulating "1d0"`)

	_, err = execute(t, "1d6", "-i", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stats.iterations")
}

func TestDicestat_RejectsInvalidProgressLevel(t *testing.T) {
	t.Setenv("ROLLKIT_LOGGING_PROGRESS", "loud")
	_, err := execute(t, "1d6", "-i", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.progress")
}
