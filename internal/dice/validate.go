package dice

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	anyDiceRe        = regexp.MustCompile(`(?i)\d*d\d*[f%]?`)
	arithmeticOnlyRe = regexp.MustCompile(`^[\d+\-*/\sxX()]+$`)
	countlessDiceRe  = regexp.MustCompile(`(?i)\bd\d*[f%]?\b`)
	countedDiceRe    = regexp.MustCompile(`(?i)\d+d\d*[f%]?\b`)
	atomSpanRe       = regexp.MustCompile(`(?i)\d+d\d*[f%]?[krlehdo\d<>=]*`)
)

type syntaxRule struct {
	re      *regexp.Regexp
	message string
}

var syntaxRules = []syntaxRule{
	{regexp.MustCompile(`(?i)\d+d\s*$`), "Missing die sides"},
	{regexp.MustCompile(`[+\-*/xX]\s*$`), "Trailing operator without operand"},
	{regexp.MustCompile(`^\s*[+*/xX]`), "Leading operator without operand"},
	{regexp.MustCompile(`[+\-*/xX]\s*[+\-*/xX]`), "Double operators not allowed"},
	{regexp.MustCompile(`(?i)\d+\.\d+d\d+|\d+d\d*\.\d+`), "Invalid decimal in dice expression"},
	{regexp.MustCompile(`(?i)\d+d0\b`), "Zero-sided dice not allowed"},
}

// Validate performs the coarse syntax checks run on every expression
// before it is parsed. It returns a *ParseError describing the first
// problem found.
func Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return newParseError("Empty or whitespace-only expression: %q", expr)
	}
	if !anyDiceRe.MatchString(expr) && !arithmeticOnlyRe.MatchString(expr) {
		return newParseError("No valid dice expression found: %s", expr)
	}
	if countlessDiceRe.MatchString(expr) && !countedDiceRe.MatchString(expr) {
		return newParseError("Malformed dice expression - missing dice count: %s", expr)
	}
	for _, rule := range syntaxRules {
		if rule.re.MatchString(expr) {
			return newParseError("%s: %s", rule.message, expr)
		}
	}
	for _, span := range atomSpanRe.FindAllString(expr, -1) {
		if strings.Count(strings.ToLower(span), "e") > 1 {
			return newParseError("Multiple explode conditions not allowed in dice expression: %s", span)
		}
	}
	return nil
}

// checkInfinite rejects reroll and explode conditions that match every
// face of the die, which would never terminate. An explode clause with no
// comparator is only rejected on a one-sided die. Fudge dice cannot carry
// either clause.
func checkInfinite(spec DiceSpec, expr string) error {
	if spec.Kind == KindFudge {
		return nil
	}
	if r := spec.Reroll; r != nil && matchesAll(r.Cmp, r.Target, spec.Sides) {
		return infiniteError("reroll", r.Cmp, r.Target, spec.Sides, expr)
	}
	if e := spec.Explode; e != nil {
		switch {
		case e.Cmp != CmpNone:
			if matchesAll(e.Cmp, e.Target, spec.Sides) {
				return infiniteError("explosion", e.Cmp, e.Target, spec.Sides, expr)
			}
		case spec.Sides == 1 && e.Target == 1:
			// A bare "eN" is otherwise exempt, but on a one-sided die it
			// matches every roll and would never stop.
			return infiniteError("explosion", CmpEqual, e.Target, spec.Sides, expr)
		}
	}
	return nil
}

func matchesAll(cmp Comparator, target, sides int) bool {
	switch cmp {
	case CmpLessEqual:
		return target >= sides
	case CmpGreaterEqual:
		return target <= 1
	case CmpLess:
		return target > sides
	case CmpGreater:
		return target < 1
	case CmpEqual:
		return sides == 1 && target == 1
	}
	return false
}

func infiniteError(condition string, cmp Comparator, target, sides int, expr string) *InfiniteConditionError {
	faces := "1"
	if sides > 1 {
		faces = fmt.Sprintf("1-%d", sides)
	}
	return &InfiniteConditionError{
		Condition:  condition,
		Expression: expr,
		Reason:     fmt.Sprintf("condition '%s %d' matches all possible rolls (%s)", cmp, target, faces),
	}
}
