package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Modifier is a named adjustment applied after the expression is
// evaluated. It is either a static integer or a dice expression rolled
// once per roll.
type Modifier struct {
	Label string
	// Expr is the dice expression for dice-valued modifiers, empty for
	// static ones.
	Expr   string
	Amount int
}

// Static returns a fixed-value modifier.
func Static(label string, amount int) Modifier {
	return Modifier{Label: label, Amount: amount}
}

// DiceExpr returns a modifier rolled from expr. A leading '-' subtracts
// the rolled total; a leading '+' is optional.
func DiceExpr(label, expr string) Modifier {
	return Modifier{Label: label, Expr: expr}
}

// ParseModifier reads "label=value" where value is a signed integer or a
// dice expression. Text without "=" is an unlabelled value.
func ParseModifier(text string) (Modifier, error) {
	label, value, found := strings.Cut(text, "=")
	if !found {
		label, value = "", text
	}
	label, value = strings.TrimSpace(label), strings.TrimSpace(value)
	if value == "" {
		return Modifier{}, fmt.Errorf("modifier %q has no value", text)
	}
	if n, err := strconv.Atoi(value); err == nil {
		return Static(label, n), nil
	}
	return DiceExpr(label, value), nil
}

// IsDice reports whether the modifier is rolled.
func (m Modifier) IsDice() bool {
	return m.Expr != ""
}

// ResolvedModifier is a Modifier with its value fixed for one roll.
type ResolvedModifier struct {
	Modifier
	Value int
	// Roll is the nested result for dice-valued modifiers.
	Roll *ResultSet
}

// String renders the modifier as a formula fragment, e.g. "+ 2 (Str Mod)"
// or "- 3 (Bane: 3 = 3 (1d4: 3))".
func (m ResolvedModifier) String() string {
	sign, abs := "+", m.Value
	if m.Value < 0 {
		sign, abs = "-", -m.Value
	}
	head := fmt.Sprintf("%s %d", sign, abs)
	switch {
	case m.Roll != nil && m.Label != "":
		return fmt.Sprintf("%s (%s: %s)", head, m.Label, m.Roll)
	case m.Roll != nil:
		return fmt.Sprintf("%s (%s)", head, m.Roll)
	case m.Label != "":
		return fmt.Sprintf("%s (%s)", head, m.Label)
	}
	return head
}

// splitModifierExpr strips an optional leading sign from a dice modifier.
func splitModifierExpr(expr string) (negative bool, body string) {
	body = strings.TrimSpace(expr)
	switch {
	case strings.HasPrefix(body, "-"):
		return true, body[1:]
	case strings.HasPrefix(body, "+"):
		return false, body[1:]
	}
	return false, body
}

// resolveModifiers fixes the value of every modifier, rolling dice-valued
// ones through r with the same tracer.
func (r *Roller) resolveModifiers(mods []Modifier, tracer Tracer) ([]ResolvedModifier, error) {
	out := make([]ResolvedModifier, 0, len(mods))
	for _, m := range mods {
		if !m.IsDice() {
			out = append(out, ResolvedModifier{Modifier: m, Value: m.Amount})
			continue
		}
		negative, body := splitModifierExpr(m.Expr)
		nested, err := r.roll(body, nil, tracer)
		if err != nil {
			return nil, fmt.Errorf("modifier %q: %w", m.Label, err)
		}
		value := nested.Total()
		if negative {
			value = -value
		}
		tracer.Step(StepModifiers, fmt.Sprintf("Added modifier '%s': %d", m.Label, value))
		out = append(out, ResolvedModifier{Modifier: m, Value: value, Roll: nested})
	}
	return out, nil
}
