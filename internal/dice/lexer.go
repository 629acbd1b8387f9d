package dice

import (
	"strconv"
	"strings"
)

// Tokenize converts an expression into tokens, ending with a TokenEOF.
// Whitespace is removed before scanning so positions refer to the
// stripped text. Dice atoms are consumed whole, including keep, drop,
// reroll and explode clauses; "x" and "/" are always operators.
//
// Postcondition: On success the last token has Kind TokenEOF.
func Tokenize(expr string) ([]Token, error) {
	s := stripSpace(expr)
	var tokens []Token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case isAtomStart(s, i):
			spec, end, err := scanAtom(s, i, false)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{Kind: TokenDice, Text: s[i:end], Spec: spec, Pos: i})
			i = end
			continue
		case isDigit(c):
			j := i
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			n, err := strconv.Atoi(s[i:j])
			if err != nil {
				return nil, parseErrorAt(i, "number %q out of range", s[i:j])
			}
			tokens = append(tokens, Token{Kind: TokenNumber, Text: s[i:j], Value: n, Pos: i})
			i = j
			continue
		}

		kind, ok := operatorKind(c)
		if !ok {
			r := []rune(s[i:])[0]
			return nil, parseErrorAt(i, "Invalid character '%c'", r)
		}
		tokens = append(tokens, Token{Kind: kind, Text: string(c), Pos: i})
		i++
	}
	return append(tokens, Token{Kind: TokenEOF, Pos: len(s)}), nil
}

func operatorKind(c byte) (TokenKind, bool) {
	switch c {
	case '+':
		return TokenPlus, true
	case '-':
		return TokenMinus, true
	case '*', 'x', 'X':
		return TokenMultiply, true
	case '/':
		return TokenDivide, true
	case '(':
		return TokenLParen, true
	case ')':
		return TokenRParen, true
	}
	return 0, false
}

func formatTokens(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == TokenEOF {
			continue
		}
		parts = append(parts, t.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
