package dice

// Parser is a recursive-descent parser over a token stream:
//
//	expression := term (('+'|'-') term)*
//	term       := factor (('*'|'/') factor)*
//	factor     := NUMBER | DICE | '-' factor | '+' factor | '(' expression ')'
//
// Dice atoms are checked for infinite reroll/explode conditions as they
// are parsed, so such errors surface before any dice are drawn.
type Parser struct {
	tokens []Token
	pos    int
	// expr is reported in InfiniteConditionError.
	expr string
}

// NewParser returns a Parser over tokens. expr is the expression the
// tokens came from.
//
// Precondition: tokens ends with a TokenEOF.
func NewParser(tokens []Token, expr string) *Parser {
	return &Parser{tokens: tokens, expr: expr}
}

// Parse parses the complete token stream into an expression tree.
func (p *Parser) Parse() (Node, error) {
	node, err := p.expression()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Kind != TokenEOF {
		return nil, parseErrorAt(tok.Pos, "Unexpected token %s", tok)
	}
	return node, nil
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	p.pos++
}

func (p *Parser) expression() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for k := p.current().Kind; k == TokenPlus || k == TokenMinus; k = p.current().Kind {
		p.advance()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = BinaryNode{Op: k, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) term() (Node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for k := p.current().Kind; k == TokenMultiply || k == TokenDivide; k = p.current().Kind {
		p.advance()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = BinaryNode{Op: k, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) factor() (Node, error) {
	tok := p.current()
	switch tok.Kind {
	case TokenNumber:
		p.advance()
		return NumberNode{Value: tok.Value}, nil
	case TokenDice:
		p.advance()
		if err := checkInfinite(tok.Spec, p.expr); err != nil {
			return nil, err
		}
		return DiceNode{Spec: tok.Spec}, nil
	case TokenMinus:
		p.advance()
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return NegateNode{Operand: operand}, nil
	case TokenPlus:
		p.advance()
		return p.factor()
	case TokenLParen:
		p.advance()
		node, err := p.expression()
		if err != nil {
			return nil, err
		}
		if p.current().Kind != TokenRParen {
			return nil, parseErrorAt(p.current().Pos, "Missing closing parenthesis")
		}
		p.advance()
		return node, nil
	}
	return nil, parseErrorAt(tok.Pos, "Unexpected token %s", tok)
}
