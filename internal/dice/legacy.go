package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// legacyTerm is one signed dice atom found by the legacy matcher.
type legacyTerm struct {
	negative bool
	spec     DiceSpec
	outcome  *Outcome
}

// legacyPlan is the result of scanning an expression with the legacy
// matcher, before any dice are drawn.
type legacyPlan struct {
	terms []legacyTerm
	// statics are signed plain numbers outside dice atoms.
	statics []int
}

// scanLegacy locates every dice atom in expr, left to right. A sign
// immediately before an atom or number applies to it; unsigned plain
// numbers and other characters are skipped. Atoms separated only by
// whitespace are added.
func scanLegacy(expr string) (*legacyPlan, error) {
	s := compactClauses(expr)
	plan := &legacyPlan{}
	i := 0
	for i < len(s) {
		switch {
		case isAtomStart(s, i):
			spec, end, err := scanAtom(s, i, true)
			if err != nil {
				return nil, err
			}
			if end < len(s) && isLetter(s[end]) {
				return nil, parseErrorAt(end, "unexpected %q after dice expression %q", s[end:end+1], s[i:end])
			}
			plan.terms = append(plan.terms, legacyTerm{negative: i > 0 && s[i-1] == '-', spec: spec})
			i = end
		case isDigit(s[i]):
			j := i
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			if i > 0 && (s[i-1] == '+' || s[i-1] == '-') {
				n, err := strconv.Atoi(s[i:j])
				if err != nil {
					return nil, parseErrorAt(i, "number %q out of range", s[i:j])
				}
				if s[i-1] == '-' {
					n = -n
				}
				plan.statics = append(plan.statics, n)
			}
			i = j
		default:
			i++
		}
	}
	if len(plan.terms) == 0 {
		return nil, newParseError("No valid dice expressions found in: %s", expr)
	}
	return plan, nil
}

// rollLegacy evaluates expr with the legacy matcher. Every atom is checked
// for infinite conditions before the first draw; reported names the
// expression in those errors.
func rollLegacy(expr, reported string, src Source, tracer Tracer) (*Evaluation, []int, error) {
	tracer.Step(StepMatching, fmt.Sprintf("Finding dice expressions in: '%s'", expr))
	plan, err := scanLegacy(expr)
	if err != nil {
		return nil, nil, err
	}
	for _, t := range plan.terms {
		if err := checkInfinite(t.spec, reported); err != nil {
			return nil, nil, err
		}
	}
	tracer.Step(StepMatching, fmt.Sprintf("Found %d dice expressions", len(plan.terms)))

	ev := &Evaluation{}
	var parts []string
	for idx := range plan.terms {
		t := &plan.terms[idx]
		out, err := rollSpec(t.spec, src, tracer)
		if err != nil {
			return nil, nil, err
		}
		t.outcome = out
		ev.Outcomes = append(ev.Outcomes, out)

		sub := out.Subtotal()
		text := out.String()
		op := "+"
		if t.negative {
			op = "-"
			ev.Value -= sub
		} else {
			ev.Value += sub
		}
		if sub < 0 {
			op = flipSign(op)
			text = strings.TrimPrefix(text, "-")
		}
		switch {
		case idx == 0 && t.negative:
			parts = append(parts, "0 "+op+" "+text)
		case idx == 0:
			parts = append(parts, out.String())
		default:
			parts = append(parts, op+" "+text)
		}
	}
	ev.Description = strings.Join(parts, " ")
	return ev, plan.statics, nil
}

func flipSign(op string) string {
	if op == "+" {
		return "-"
	}
	return "+"
}

func isLetter(c byte) bool {
	c = lower(c)
	return c >= 'a' && c <= 'z'
}
