package dice

import "fmt"

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenDice
	TokenPlus
	TokenMinus
	TokenMultiply
	TokenDivide
	TokenLParen
	TokenRParen
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:      "EOF",
	TokenNumber:   "NUMBER",
	TokenDice:     "DICE",
	TokenPlus:     "PLUS",
	TokenMinus:    "MINUS",
	TokenMultiply: "MULTIPLY",
	TokenDivide:   "DIVIDE",
	TokenLParen:   "LPAREN",
	TokenRParen:   "RPAREN",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a single lexeme of a dice expression.
type Token struct {
	Kind TokenKind
	// Text is the lexeme as it appeared in the whitespace-stripped input.
	Text string
	// Value is set for TokenNumber.
	Value int
	// Spec is set for TokenDice.
	Spec DiceSpec
	Pos  int
}

func (t Token) String() string {
	switch t.Kind {
	case TokenNumber, TokenDice:
		return fmt.Sprintf("%s(%s)@%d", t.Kind, t.Text, t.Pos)
	}
	return fmt.Sprintf("%s@%d", t.Kind, t.Pos)
}
