package dice

import (
	"fmt"
	"strings"
)

// ResultSet is the immutable result of one top-level roll.
type ResultSet struct {
	// Expression is the text that was rolled, as supplied by the caller.
	Expression string
	outcomes   []*Outcome
	modifiers  []ResolvedModifier
	subtotal   int
	total      int
	formula    string
}

// newResultSet assembles a result from an evaluated expression and its
// resolved modifiers. Modifier fragments are appended to the formula.
func newResultSet(expr string, ev *Evaluation, mods []ResolvedModifier) *ResultSet {
	total := ev.Value
	parts := make([]string, 0, len(mods)+1)
	if ev.Description != "" {
		parts = append(parts, ev.Description)
	}
	for _, m := range mods {
		total += m.Value
		parts = append(parts, m.String())
	}
	return &ResultSet{
		Expression: expr,
		outcomes:   ev.Outcomes,
		modifiers:  mods,
		subtotal:   ev.Value,
		total:      total,
		formula:    strings.Join(parts, " "),
	}
}

// Total is the final value including modifiers.
func (r *ResultSet) Total() int { return r.total }

// Subtotal is the value of the expression before named modifiers.
func (r *ResultSet) Subtotal() int { return r.subtotal }

// Formula is the rendered right-hand side, e.g. "12 (1d20: 12) + 2 (Str Mod)".
func (r *ResultSet) Formula() string { return r.formula }

// Outcomes returns the dice outcomes in evaluation order.
func (r *ResultSet) Outcomes() []*Outcome {
	out := make([]*Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Modifiers returns the resolved modifiers in the order supplied.
func (r *ResultSet) Modifiers() []ResolvedModifier {
	out := make([]ResolvedModifier, len(r.modifiers))
	copy(out, r.modifiers)
	return out
}

// Dice returns the final per-die values of every outcome, flattened.
func (r *ResultSet) Dice() []int {
	var values []int
	for _, o := range r.outcomes {
		values = append(values, o.Values...)
	}
	return values
}

// String renders "<total> = <formula>".
func (r *ResultSet) String() string {
	return fmt.Sprintf("%d = %s", r.total, r.formula)
}
