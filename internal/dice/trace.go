package dice

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Tracer receives step-by-step notifications while an expression is parsed
// and evaluated. Tracers never influence the outcome of a roll.
type Tracer interface {
	Step(step, detail string)
}

// NopTracer discards every step.
type NopTracer struct{}

// Step implements Tracer.
func (NopTracer) Step(string, string) {}

// ZapTracer forwards steps to a zap logger at debug level.
type ZapTracer struct {
	Logger *zap.Logger
}

// NewZapTracer returns a Tracer that logs to logger.
//
// Precondition: logger must be non-nil.
func NewZapTracer(logger *zap.Logger) ZapTracer {
	return ZapTracer{Logger: logger}
}

// Step implements Tracer.
func (t ZapTracer) Step(step, detail string) {
	t.Logger.Debug("dice trace", zap.String("step", step), zap.String("detail", detail))
}

// Recorder captures steps in memory as "[STEP] detail" lines.
// It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// Step implements Tracer.
func (r *Recorder) Step(step, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf("[%s] %s", step, detail))
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// String joins the recorded lines with newlines.
func (r *Recorder) String() string {
	return strings.Join(r.Lines(), "\n")
}

// Reset discards all recorded lines.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
}

type multiTracer []Tracer

func (m multiTracer) Step(step, detail string) {
	for _, t := range m {
		t.Step(step, detail)
	}
}

// Trace step names.
const (
	StepStart       = "START"
	StepNormalized  = "NORMALIZED"
	StepShorthand   = "SHORTHAND_EXPANSION"
	StepSpecialCase = "SPECIAL_CASE"
	StepParser      = "PARSER_SELECTION"
	StepLegacy      = "LEGACY_MATCHER"
	StepMatching    = "DICE_MATCHING"
	StepTokenizing  = "TOKENIZING"
	StepTokens      = "TOKENS"
	StepParsing     = "PARSING"
	StepEvaluating  = "EVALUATING"
	StepResult      = "RESULT"
	StepFallback    = "FALLBACK"
	StepRoll        = "ROLL"
	StepKeep        = "KEEP_OPERATIONS"
	StepDrop        = "DROP_OPERATIONS"
	StepModifiers   = "MODIFIERS"
	StepTotal       = "TOTAL"
	StepComplete    = "COMPLETE"
)
