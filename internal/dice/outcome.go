package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Draw is a single random draw made while evaluating a dice atom.
type Draw struct {
	// Value is the face value used in arithmetic: -1, 0 or +1 for fudge
	// dice, 1-100 for percentile dice.
	Value int
	// Raw is the underlying d6 face for fudge dice, otherwise Value.
	Raw int
	// Tens and Ones hold the two digit draws of a percentile die.
	Tens int
	Ones int
}

// Outcome is the immutable result of evaluating one dice atom.
//
// Invariant: Kept and Dropped together are a multiset partition of Values.
type Outcome struct {
	Spec DiceSpec
	// Draws lists every draw in order, including rerolled and exploded dice.
	Draws []Draw
	// Values holds one final value per die after reroll and explode.
	Values  []int
	Kept    []int
	Dropped []int
}

// KeptSum is the sum of the kept dice before scaling.
func (o *Outcome) KeptSum() int {
	total := 0
	for _, v := range o.Kept {
		total += v
	}
	return total
}

// Subtotal is the kept sum scaled by the atom's multiply and divide factors,
// using floor division.
//
// Precondition: o.Spec.Divide != 0.
func (o *Outcome) Subtotal() int {
	return floorDiv(o.KeptSum()*o.Spec.Multiply, o.Spec.Divide)
}

// String renders the outcome as e.g. "14 (4d6kh3: 3, 1, 5, 6)".
func (o *Outcome) String() string {
	body := o.Spec.Notation()
	if draws := o.formatDraws(); draws != "" {
		body += ": " + draws
	}
	if o.Spec.Multiply == 1 && o.Spec.Divide == 1 {
		return fmt.Sprintf("%d (%s)", o.Subtotal(), body)
	}
	s := fmt.Sprintf("%d (%s)", o.KeptSum(), body)
	if o.Spec.Multiply != 1 {
		s += " x " + strconv.Itoa(o.Spec.Multiply)
	}
	if o.Spec.Divide != 1 {
		s += " / " + strconv.Itoa(o.Spec.Divide)
	}
	return s
}

func (o *Outcome) formatDraws() string {
	parts := make([]string, len(o.Draws))
	for i, d := range o.Draws {
		switch o.Spec.Kind {
		case KindFudge:
			parts[i] = fudgeGlyph(d.Raw)
		case KindPercentile:
			parts[i] = fmt.Sprintf("[%02d, %d]", d.Tens, d.Ones)
		default:
			parts[i] = strconv.Itoa(d.Value)
		}
	}
	return strings.Join(parts, ", ")
}

func fudgeGlyph(raw int) string {
	switch {
	case raw <= 2:
		return "-"
	case raw <= 4:
		return "B"
	}
	return "+"
}

// floorDiv divides rounding toward negative infinity, so floorDiv(-7, 4) == -2.
//
// Precondition: b != 0.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
