package dice

import "fmt"

// ParseError reports malformed notation: unknown characters, missing dice
// count or sides, invalid clause ordering, multiple explode clauses, and
// mechanics that are not allowed on a die kind.
type ParseError struct {
	Msg string
	// Pos is the byte offset in the whitespace-stripped expression, or -1.
	Pos int
	// Condition names the mechanic ("reroll" or "explosion") when the error
	// rejects a mechanic for a die kind, otherwise empty.
	Condition string
}

func (e *ParseError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
	}
	return e.Msg
}

func newParseError(format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Pos: -1}
}

func parseErrorAt(pos int, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// DivisionByZeroError is returned when any division (dice scaling or
// arithmetic) has a right-hand value of zero.
type DivisionByZeroError struct {
	Expression string
}

func (e *DivisionByZeroError) Error() string {
	if e.Expression != "" {
		return fmt.Sprintf("Division by zero in expression '%s'", e.Expression)
	}
	return "Division by zero"
}

// InfiniteConditionError is returned when a reroll or explode condition
// matches every possible face of the die.
type InfiniteConditionError struct {
	// Condition is "reroll" or "explosion".
	Condition  string
	Expression string
	Reason     string
}

func (e *InfiniteConditionError) Error() string {
	return fmt.Sprintf("Infinite %s condition in '%s': %s", e.Condition, e.Expression, e.Reason)
}
