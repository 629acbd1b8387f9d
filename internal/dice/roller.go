package dice

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Roller evaluates dice expressions against a Source. A Roller holds no
// per-roll state and is safe for concurrent use when its Source is.
type Roller struct {
	src      Source
	logger   *zap.Logger
	expander *expander
	tracer   Tracer
}

// RollerOption configures a Roller.
type RollerOption func(*Roller)

// WithLogger logs every completed roll at debug level.
func WithLogger(logger *zap.Logger) RollerOption {
	return func(r *Roller) { r.logger = logger }
}

// WithShorthands replaces the shorthand table.
func WithShorthands(table Shorthands) RollerOption {
	return func(r *Roller) { r.expander = newExpander(table) }
}

// WithDefaultTracer sets the tracer used when a roll does not supply one.
func WithDefaultTracer(t Tracer) RollerOption {
	return func(r *Roller) { r.tracer = t }
}

// NewRoller returns a Roller drawing from src.
//
// Precondition: src must be non-nil.
func NewRoller(src Source, opts ...RollerOption) *Roller {
	r := &Roller{
		src:      src,
		logger:   zap.NewNop(),
		expander: newExpander(DefaultShorthands()),
		tracer:   NopTracer{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll
// to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return NewRoller(src, WithLogger(logger))
}

type rollConfig struct {
	modifiers []Modifier
	tracer    Tracer
}

// RollOption configures a single roll.
type RollOption func(*rollConfig)

// WithModifiers applies named modifiers, in order, after the expression.
func WithModifiers(mods ...Modifier) RollOption {
	return func(c *rollConfig) { c.modifiers = append(c.modifiers, mods...) }
}

// WithTracer sends step notifications for this roll to t. Multiple
// tracers all receive every step.
func WithTracer(t Tracer) RollOption {
	return func(c *rollConfig) {
		if _, nop := c.tracer.(NopTracer); nop || c.tracer == nil {
			c.tracer = t
			return
		}
		c.tracer = multiTracer{c.tracer, t}
	}
}

// Roll evaluates expr and returns the result or a *ParseError,
// *DivisionByZeroError or *InfiniteConditionError.
//
// Postcondition: Either a complete ResultSet or a non-nil error; never both.
func (r *Roller) Roll(expr string, opts ...RollOption) (*ResultSet, error) {
	cfg := rollConfig{tracer: r.tracer}
	for _, opt := range opts {
		opt(&cfg)
	}
	tracer := cfg.tracer

	tracer.Step(StepStart, fmt.Sprintf("Rolling expression: '%s'", expr))
	if len(cfg.modifiers) > 0 {
		tracer.Step(StepModifiers, fmt.Sprintf("Using %d modifiers", len(cfg.modifiers)))
	}
	result, err := r.roll(expr, cfg.modifiers, tracer)
	if err != nil {
		r.logger.Debug("dice roll rejected", zap.String("expression", expr), zap.Error(err))
		return nil, err
	}
	tracer.Step(StepComplete, fmt.Sprintf("Final result: %d", result.Total()))
	r.logger.Debug("dice roll",
		zap.String("expression", expr),
		zap.Ints("dice", result.Dice()),
		zap.String("formula", result.Formula()),
		zap.Int("total", result.Total()),
	)
	return result, nil
}

func (r *Roller) roll(expr string, mods []Modifier, tracer Tracer) (*ResultSet, error) {
	text := Normalize(expr)
	tracer.Step(StepNormalized, fmt.Sprintf("'%s'", text))

	var (
		ev      *Evaluation
		statics []int
		err     error
	)
	if good, ok := fluxKind(text); ok {
		name := "BADFLUX"
		if good {
			name = "GOODFLUX"
		}
		tracer.Step(StepSpecialCase, "Handling "+name)
		ev = rollFlux(good, r.src, tracer)
	} else {
		expanded := r.expander.expand(text)
		if expanded != text {
			tracer.Step(StepShorthand, fmt.Sprintf("'%s' -> '%s'", text, expanded))
		}
		ev, statics, err = r.evaluate(expanded, tracer)
		if err != nil {
			return nil, err
		}
	}
	tracer.Step(StepResult, fmt.Sprintf("Expression evaluated to: %d", ev.Value))

	all := make([]Modifier, 0, len(statics)+len(mods))
	for _, n := range statics {
		all = append(all, Static("", n))
	}
	all = append(all, mods...)
	resolved, err := r.resolveModifiers(all, tracer)
	if err != nil {
		return nil, err
	}
	result := newResultSet(expr, ev, resolved)
	tracer.Step(StepTotal, fmt.Sprintf("%d = %d + modifiers(%d)", result.Total(), result.Subtotal(), result.Total()-result.Subtotal()))
	return result, nil
}

// evaluate dispatches between the legacy matcher and the precedence
// parser. Only a *ParseError from the precedence parser falls back to
// the legacy matcher; semantic errors propagate.
func (r *Roller) evaluate(text string, tracer Tracer) (*Evaluation, []int, error) {
	if !needsPrecedence(text) {
		tracer.Step(StepParser, "Using legacy matcher")
		if err := Validate(text); err != nil {
			return nil, nil, err
		}
		return rollLegacy(text, text, r.src, tracer)
	}

	tracer.Step(StepParser, "Using precedence parser")
	rewritten := rewriteNegativeDice(text)
	if err := Validate(rewritten); err != nil {
		return nil, nil, err
	}
	ev, err := r.evaluatePrecedence(rewritten, text, tracer)
	var perr *ParseError
	if errors.As(err, &perr) {
		tracer.Step(StepFallback, fmt.Sprintf("Parser error: %v, falling back to legacy matcher", err))
		tracer.Step(StepLegacy, fmt.Sprintf("'%s'", rewritten))
		return rollLegacy(rewritten, text, r.src, tracer)
	}
	if err != nil {
		return nil, nil, err
	}
	return ev, nil, nil
}

func (r *Roller) evaluatePrecedence(text, reported string, tracer Tracer) (*Evaluation, error) {
	tracer.Step(StepTokenizing, fmt.Sprintf("Tokenizing expression: '%s'", text))
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	tracer.Step(StepTokens, formatTokens(tokens))

	tracer.Step(StepParsing, "Parsing tokens with precedence rules")
	node, err := NewParser(tokens, reported).Parse()
	if err != nil {
		return nil, err
	}

	tracer.Step(StepEvaluating, "Evaluating parsed expression")
	ev, err := node.Eval(r.src, tracer)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

var defaultRoller = NewRoller(NewCryptoSource())

// Roll evaluates expr with a crypto-backed Roller.
func Roll(expr string, opts ...RollOption) (*ResultSet, error) {
	return defaultRoller.Roll(expr, opts...)
}
