package dice_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/rollkit/internal/dice"
	"github.com/cory-johannsen/rollkit/internal/dice/dicetest"
)

func TestRecorder_PrecedencePath(t *testing.T) {
	rec := &dice.Recorder{}
	result := rollScripted(t, "1d6 + 2", []int{4}, dice.WithTracer(rec))
	assert.Equal(t, 6, result.Total())

	lines := rec.Lines()
	require.NotEmpty(t, lines)
	assert.Equal(t, "[START] Rolling expression: '1d6 + 2'", lines[0])
	assert.Equal(t, "[COMPLETE] Final result: 6", lines[len(lines)-1])

	out := rec.String()
	assert.Contains(t, out, "[PARSER_SELECTION] Using precedence parser")
	assert.Contains(t, out, "[TOKENIZING] Tokenizing expression: '1d6 + 2'")
	assert.Contains(t, out, "[TOKENS]")
	assert.Contains(t, out, "[PARSING]")
	assert.Contains(t, out, "[EVALUATING]")
	assert.Contains(t, out, "[RESULT] Expression evaluated to: 6")
	assert.Contains(t, out, "[TOTAL]")
	assert.NotContains(t, out, "[FALLBACK]")
}

func TestRecorder_LegacyPath(t *testing.T) {
	rec := &dice.Recorder{}
	rollScripted(t, "4d6kh3", []int{3, 1, 5, 6}, dice.WithTracer(rec))

	out := rec.String()
	assert.Contains(t, out, "[PARSER_SELECTION] Using legacy matcher")
	assert.Contains(t, out, "[KEEP_OPERATIONS]")
	assert.NotContains(t, out, "[TOKENS]")
}

func TestRecorder_ModifiersAndShorthands(t *testing.T) {
	rec := &dice.Recorder{}
	rollScripted(t, "boon", []int{6, 3, 1}, dice.WithTracer(rec), dice.WithModifiers(dice.Static("Skill", 2)))

	out := rec.String()
	assert.Contains(t, out, "[MODIFIERS] Using 1 modifiers")
	assert.Contains(t, out, "[SHORTHAND_EXPANSION] 'boon' -> '3d6kh2'")
	assert.Contains(t, out, "[COMPLETE] Final result: 11")
}

func TestRecorder_Reset(t *testing.T) {
	rec := &dice.Recorder{}
	rec.Step("A", "one")
	rec.Step("B", "two")
	assert.Equal(t, "[A] one\n[B] two", rec.String())
	rec.Reset()
	assert.Empty(t, rec.Lines())
}

func TestRecorder_ErrorStopsBeforeComplete(t *testing.T) {
	rec := &dice.Recorder{}
	_, err := dice.NewRoller(dicetest.NewSequence(3)).Roll("1d6 / 0", dice.WithTracer(rec))
	require.Error(t, err)
	assert.NotContains(t, rec.String(), "[COMPLETE]")
}

func TestWithTracer_CombinesTracers(t *testing.T) {
	first, second := &dice.Recorder{}, &dice.Recorder{}
	rollScripted(t, "1d6", []int{2}, dice.WithTracer(first), dice.WithTracer(second))
	assert.Equal(t, first.Lines(), second.Lines())
	assert.NotEmpty(t, first.Lines())
}

func TestWithDefaultTracer(t *testing.T) {
	def := &dice.Recorder{}
	r := dice.NewRoller(dicetest.NewSequence(3, 5), dice.WithDefaultTracer(def))

	_, err := r.Roll("1d6")
	require.NoError(t, err)
	assert.Contains(t, def.String(), "[COMPLETE] Final result: 3")

	def.Reset()
	extra := &dice.Recorder{}
	_, err = r.Roll("1d8", dice.WithTracer(extra))
	require.NoError(t, err)
	assert.Contains(t, def.String(), "[COMPLETE] Final result: 5")
	assert.Contains(t, extra.String(), "[COMPLETE] Final result: 5")
}

// TestTracer_PerCallIsolation verifies concurrent rolls never leak trace
// lines into each other's tracers.
func TestTracer_PerCallIsolation(t *testing.T) {
	r := dice.NewRoller(dice.NewSeededSource(7))
	const workers = 16
	recorders := make([]*dice.Recorder, workers)
	var wg sync.WaitGroup
	for i := range workers {
		recorders[i] = &dice.Recorder{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Roll(fmt.Sprintf("1d6 + %d", i), dice.WithTracer(recorders[i]))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for i, rec := range recorders {
		starts := 0
		for _, line := range rec.Lines() {
			if strings.HasPrefix(line, "[START]") {
				starts++
				assert.Equal(t, fmt.Sprintf("[START] Rolling expression: '1d6 + %d'", i), line)
			}
		}
		assert.Equal(t, 1, starts)
	}
}

func TestZapTracer_LogsEachStep(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := dice.NewZapTracer(zap.New(core))

	rollScripted(t, "1d6 + 1", []int{5}, dice.WithTracer(tracer))

	traces := logs.FilterMessage("dice trace")
	require.NotZero(t, traces.Len())
	start := traces.FilterField(zap.String("step", dice.StepStart)).All()
	require.Len(t, start, 1)
	assert.Equal(t, "Rolling expression: '1d6 + 1'", start[0].ContextMap()["detail"])
	assert.Equal(t, 1, traces.FilterField(zap.String("step", dice.StepComplete)).Len())
}

func TestNewLoggedRoller_LogsRoll(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := dice.NewLoggedRoller(dicetest.NewSequence(3, 4), zap.New(core))

	result, err := r.Roll("2d6 + 1")
	require.NoError(t, err)
	assert.Equal(t, 8, result.Total())

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "2d6 + 1", fields["expression"])
	assert.Equal(t, int64(8), fields["total"])
	assert.Equal(t, "7 (2d6: 3, 4) + 1", fields["formula"])
}

func TestNewLoggedRoller_LogsRejection(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := dice.NewLoggedRoller(dicetest.NewSequence(), zap.New(core))

	_, err := r.Roll("1d0")
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("dice roll rejected").Len())
	assert.Zero(t, logs.FilterMessage("dice roll").Len())
}

func TestWithLogger_ZaptestLogger(t *testing.T) {
	r := dice.NewRoller(dicetest.NewSequence(2), dice.WithLogger(zaptest.NewLogger(t)))
	result, err := r.Roll("1d4")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total())
}
