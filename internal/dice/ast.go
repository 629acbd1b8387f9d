package dice

import (
	"strconv"
	"strings"
)

// Evaluation is the value, rendered description and dice outcomes of an
// evaluated expression node.
type Evaluation struct {
	Value       int
	Description string
	Outcomes    []*Outcome
}

// Node is an expression tree node produced by the precedence parser.
type Node interface {
	Eval(src Source, tracer Tracer) (Evaluation, error)
}

// NumberNode is an integer literal.
type NumberNode struct {
	Value int
}

// Eval implements Node.
func (n NumberNode) Eval(Source, Tracer) (Evaluation, error) {
	return Evaluation{Value: n.Value, Description: strconv.Itoa(n.Value)}, nil
}

// DiceNode is a dice atom leaf. Its value is the outcome's subtotal.
type DiceNode struct {
	Spec DiceSpec
}

// Eval implements Node.
func (n DiceNode) Eval(src Source, tracer Tracer) (Evaluation, error) {
	out, err := rollSpec(n.Spec, src, tracer)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		Value:       out.Subtotal(),
		Description: out.String(),
		Outcomes:    []*Outcome{out},
	}, nil
}

// NegateNode is unary minus.
type NegateNode struct {
	Operand Node
}

// Eval implements Node.
func (n NegateNode) Eval(src Source, tracer Tracer) (Evaluation, error) {
	ev, err := n.Operand.Eval(src, tracer)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{Value: -ev.Value, Description: "-" + ev.Description, Outcomes: ev.Outcomes}, nil
}

// BinaryNode applies one of +, -, x or / to two operands.
type BinaryNode struct {
	Op          TokenKind
	Left, Right Node
}

// Eval implements Node. Both operands are evaluated, left first, before
// the operator is applied.
func (n BinaryNode) Eval(src Source, tracer Tracer) (Evaluation, error) {
	left, err := n.Left.Eval(src, tracer)
	if err != nil {
		return Evaluation{}, err
	}
	right, err := n.Right.Eval(src, tracer)
	if err != nil {
		return Evaluation{}, err
	}

	var value int
	switch n.Op {
	case TokenPlus:
		value = left.Value + right.Value
	case TokenMinus:
		value = left.Value - right.Value
	case TokenMultiply:
		value = left.Value * right.Value
	case TokenDivide:
		if right.Value == 0 {
			return Evaluation{}, &DivisionByZeroError{}
		}
		value = floorDiv(left.Value, right.Value)
	default:
		return Evaluation{}, newParseError("Unknown operator: %s", n.Op)
	}

	outcomes := make([]*Outcome, 0, len(left.Outcomes)+len(right.Outcomes))
	outcomes = append(outcomes, left.Outcomes...)
	outcomes = append(outcomes, right.Outcomes...)
	return Evaluation{
		Value:       value,
		Description: describeBinary(n.Op, left, right),
		Outcomes:    outcomes,
	}, nil
}

func opSymbol(op TokenKind) string {
	switch op {
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenMultiply:
		return "x"
	case TokenDivide:
		return "/"
	}
	return "?"
}

// describeBinary renders a binary operation. Products and quotients of two
// literals are parenthesised. Adding or subtracting a negative dice-derived
// value flips the operator instead of printing a doubled sign.
func describeBinary(op TokenKind, left, right Evaluation) string {
	sym := opSymbol(op)
	if len(left.Outcomes) == 0 && len(right.Outcomes) == 0 {
		if (op == TokenMultiply || op == TokenDivide) && isIntLiteral(left.Description) && isIntLiteral(right.Description) {
			return "(" + left.Description + " " + sym + " " + right.Description + ")"
		}
		return left.Description + " " + sym + " " + right.Description
	}
	if right.Value < 0 {
		switch op {
		case TokenPlus:
			return left.Description + " - " + strings.TrimPrefix(right.Description, "-")
		case TokenMinus:
			return left.Description + " + " + strings.TrimPrefix(right.Description, "-")
		}
	}
	return left.Description + " " + sym + " " + right.Description
}

func isIntLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
