package dice

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var operatorVariants = map[rune]rune{
	'−': '-', // minus sign
	'×': '*', // multiplication sign
	'÷': '/', // division sign
}

// Normalize maps fullwidth digits, fullwidth plus, the Unicode minus sign,
// the multiplication sign and the division sign to their ASCII forms.
// No other character is altered.
//
// Postcondition: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '０' && r <= '９') || r == '＋' {
			if n := width.LookupRune(r).Narrow(); n != 0 {
				return n
			}
		}
		if n, ok := operatorVariants[r]; ok {
			return n
		}
		return r
	}, text)
}

// fluxKind reports which flux mechanic the text names, if any.
func fluxKind(text string) (good, found bool) {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "GOODFLUX"):
		return true, true
	case strings.Contains(upper, "BADFLUX"):
		return false, true
	}
	return false, false
}

var negativeDiceRe = regexp.MustCompile(`(?i)(^|[+\-*/xX(])(\s*)-(\d+d(?:\d+|f|%)[^\s+\-*/()]*)`)

// rewriteNegativeDice turns "-XdY" into "0 - XdY" so the formula reads as
// a subtraction. After a multiply or divide operator the rewrite is
// grouped, "2 * -1d6" becoming "2 * (0 - 1d6)". A minus preceded by
// another minus is left untouched.
func rewriteNegativeDice(text string) string {
	return negativeDiceRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := negativeDiceRe.FindStringSubmatch(m)
		prefix, space, atom := sub[1], sub[2], sub[3]
		switch prefix {
		case "-":
			return m
		case "":
			return "0 - " + atom
		case "+", "(":
			return prefix + space + "0 - " + atom
		}
		return prefix + space + "(0 - " + atom + ")"
	})
}

// needsPrecedence decides between the precedence parser and the legacy
// matcher: any multiply/divide operator, or any +/- alongside digits.
func needsPrecedence(text string) bool {
	if strings.ContainsAny(text, "xX*/") {
		return true
	}
	if !strings.ContainsAny(text, "+-") {
		return false
	}
	return strings.ContainsAny(text, "0123456789")
}
