package dice

import (
	"strconv"
	"strings"
)

// DieKind distinguishes the face model of a die.
type DieKind int

const (
	KindStandard DieKind = iota
	KindFudge
	KindPercentile
)

const (
	fudgeSides      = 6
	percentileSides = 100
)

// Comparator is a reroll/explode comparison operator.
type Comparator int

const (
	CmpNone Comparator = iota
	CmpLess
	CmpLessEqual
	CmpGreater
	CmpGreaterEqual
	CmpEqual
)

func (c Comparator) String() string {
	switch c {
	case CmpLess:
		return "<"
	case CmpLessEqual:
		return "<="
	case CmpGreater:
		return ">"
	case CmpGreaterEqual:
		return ">="
	case CmpEqual:
		return "="
	}
	return ""
}

// Match reports whether value compares to target under c.
func (c Comparator) Match(value, target int) bool {
	switch c {
	case CmpLess:
		return value < target
	case CmpLessEqual:
		return value <= target
	case CmpGreater:
		return value > target
	case CmpGreaterEqual:
		return value >= target
	case CmpEqual, CmpNone:
		return value == target
	}
	return false
}

// SelectOp is a single keep or drop operation.
type SelectOp struct {
	Highest bool
	N       int
}

func (op SelectOp) format(prefix byte) string {
	hl := "l"
	if op.Highest {
		hl = "h"
	}
	return string(prefix) + hl + strconv.Itoa(op.N)
}

// RerollClause describes "r[N|o]<cmp><target>".
type RerollClause struct {
	// Limit is the maximum number of rerolls per die, -1 for unlimited.
	Limit int
	// LimitText is the limit as written ("", "o" or digits).
	LimitText string
	Cmp       Comparator
	Target    int
}

// ExplodeClause describes "e", "e<target>" or "e<cmp><target>".
// Cmp is CmpNone for simple equality.
type ExplodeClause struct {
	Cmp    Comparator
	Target int
}

// DiceSpec is the parsed form of a single dice atom such as "4d6kh3r1<2e".
type DiceSpec struct {
	Count int
	Kind  DieKind
	// Sides is 6 for fudge dice and 100 for percentile dice.
	Sides    int
	Keep     []SelectOp
	Drop     []SelectOp
	Reroll   *RerollClause
	Explode  *ExplodeClause
	Multiply int
	Divide   int
}

// Notation renders the canonical atom text without scaling suffixes,
// e.g. "4d6kh3", "1d6r1<=2", "1d6e6".
func (s DiceSpec) Notation() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(s.Count))
	b.WriteByte('d')
	switch s.Kind {
	case KindFudge:
		b.WriteByte('F')
	case KindPercentile:
		b.WriteByte('%')
	default:
		b.WriteString(strconv.Itoa(s.Sides))
	}
	for _, op := range s.Keep {
		b.WriteString(op.format('k'))
	}
	for _, op := range s.Drop {
		b.WriteString(op.format('d'))
	}
	if r := s.Reroll; r != nil {
		b.WriteByte('r')
		b.WriteString(r.LimitText)
		b.WriteString(r.Cmp.String())
		b.WriteString(strconv.Itoa(r.Target))
	}
	if e := s.Explode; e != nil {
		b.WriteByte('e')
		b.WriteString(e.Cmp.String())
		b.WriteString(strconv.Itoa(e.Target))
	}
	return b.String()
}

// ParseAtom parses a complete dice atom, including "xN" and "/N" scaling
// suffixes. The whole lexeme must be consumed.
func ParseAtom(lexeme string) (DiceSpec, error) {
	text := stripSpace(lexeme)
	spec, end, err := scanAtom(text, 0, true)
	if err != nil {
		return DiceSpec{}, err
	}
	if end != len(text) {
		return DiceSpec{}, parseErrorAt(end, "unexpected %q after dice expression %q", text[end:], text[:end])
	}
	return spec, nil
}

// isAtomStart reports whether a dice atom begins at pos: one or more
// digits followed by 'd'.
func isAtomStart(s string, pos int) bool {
	i := pos
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i > pos && i < len(s) && lower(s[i]) == 'd'
}

// scanAtom parses the dice atom starting at pos and returns the spec and
// the offset just past it. allowScale enables the "xN" and "/N" suffixes,
// which the tokenizer leaves to the arithmetic grammar.
//
// Precondition: isAtomStart(s, pos).
func scanAtom(s string, pos int, allowScale bool) (DiceSpec, int, error) {
	spec := DiceSpec{Multiply: 1, Divide: 1}
	i := pos

	count, next, err := readInt(s, i)
	if err != nil {
		return DiceSpec{}, 0, err
	}
	if next == i {
		return DiceSpec{}, 0, parseErrorAt(i, "missing dice count")
	}
	spec.Count = count
	i = next

	if i >= len(s) || lower(s[i]) != 'd' {
		return DiceSpec{}, 0, parseErrorAt(i, "invalid dice expression")
	}
	i++

	switch {
	case i < len(s) && lower(s[i]) == 'f':
		spec.Kind, spec.Sides = KindFudge, fudgeSides
		i++
	case i < len(s) && s[i] == '%':
		spec.Kind, spec.Sides = KindPercentile, percentileSides
		i++
	default:
		sides, next, err := readInt(s, i)
		if err != nil {
			return DiceSpec{}, 0, err
		}
		if next == i {
			return DiceSpec{}, 0, parseErrorAt(i, "missing die sides")
		}
		if sides == 0 {
			return DiceSpec{}, 0, parseErrorAt(i, "zero-sided dice not allowed")
		}
		spec.Sides = sides
		i = next
	}

	// keep and drop operations, in any interleaving
	for i+1 < len(s) {
		c, hl := lower(s[i]), lower(s[i+1])
		if (c != 'k' && c != 'd') || (hl != 'h' && hl != 'l') {
			break
		}
		n, next, err := readInt(s, i+2)
		if err != nil {
			return DiceSpec{}, 0, err
		}
		if next == i+2 {
			n = 1
		}
		op := SelectOp{Highest: hl == 'h', N: n}
		if c == 'k' {
			spec.Keep = append(spec.Keep, op)
		} else {
			spec.Drop = append(spec.Drop, op)
		}
		i = next
	}

	if allowScale {
		if n, next, ok := scaleSuffix(s, i, 'x'); ok {
			spec.Multiply, i = n, next
		}
		if n, next, ok := scaleSuffix(s, i, '/'); ok {
			spec.Divide, i = n, next
		}
	}

	if i < len(s) && lower(s[i]) == 'r' {
		clause, next, err := scanReroll(s, i)
		if err != nil {
			return DiceSpec{}, 0, err
		}
		spec.Reroll, i = clause, next
	}

	if i < len(s) && lower(s[i]) == 'e' {
		clause, next, err := scanExplode(s, i, spec.Sides)
		if err != nil {
			return DiceSpec{}, 0, err
		}
		spec.Explode, i = clause, next
	}

	if spec.Kind == KindFudge && spec.Reroll != nil {
		return DiceSpec{}, 0, &ParseError{Msg: "Reroll is not supported for fudge dice", Pos: -1, Condition: "reroll"}
	}
	if spec.Kind != KindStandard && spec.Explode != nil {
		return DiceSpec{}, 0, &ParseError{Msg: "Explosion is only supported for standard dice", Pos: -1, Condition: "explosion"}
	}
	return spec, i, nil
}

// scaleSuffix reads "<op>N" where N is not itself a dice count.
func scaleSuffix(s string, i int, op byte) (int, int, bool) {
	if i >= len(s) || lower(s[i]) != op {
		return 0, 0, false
	}
	n, next, err := readInt(s, i+1)
	if err != nil || next == i+1 {
		return 0, 0, false
	}
	if next < len(s) && lower(s[next]) == 'd' {
		return 0, 0, false
	}
	return n, next, true
}

func scanReroll(s string, i int) (*RerollClause, int, error) {
	start := i
	i++ // 'r'
	clause := &RerollClause{Limit: -1}
	switch {
	case i < len(s) && lower(s[i]) == 'o':
		clause.Limit, clause.LimitText = 1, "o"
		i++
	case i < len(s) && isDigit(s[i]):
		n, next, err := readInt(s, i)
		if err != nil {
			return nil, 0, err
		}
		clause.Limit, clause.LimitText = n, s[i:next]
		i = next
	}
	cmp, next := readComparator(s, i)
	if cmp == CmpNone {
		return nil, 0, parseErrorAt(start, "reroll clause requires a comparison")
	}
	i = next
	target, next, err := readInt(s, i)
	if err != nil {
		return nil, 0, err
	}
	if next == i {
		return nil, 0, parseErrorAt(i, "reroll clause requires a target")
	}
	clause.Cmp, clause.Target = cmp, target
	return clause, next, nil
}

func scanExplode(s string, i, sides int) (*ExplodeClause, int, error) {
	i++ // 'e'
	cmp, next := readComparator(s, i)
	if cmp != CmpNone {
		target, end, err := readInt(s, next)
		if err != nil {
			return nil, 0, err
		}
		if end == next {
			return nil, 0, parseErrorAt(next, "explode clause requires a target")
		}
		return &ExplodeClause{Cmp: cmp, Target: target}, end, nil
	}
	target, end, err := readInt(s, i)
	if err != nil {
		return nil, 0, err
	}
	if end == i {
		return &ExplodeClause{Target: sides}, i, nil
	}
	return &ExplodeClause{Target: target}, end, nil
}

func readComparator(s string, i int) (Comparator, int) {
	if i >= len(s) {
		return CmpNone, i
	}
	two := ""
	if i+1 < len(s) {
		two = s[i : i+2]
	}
	switch two {
	case "<=":
		return CmpLessEqual, i + 2
	case ">=":
		return CmpGreaterEqual, i + 2
	}
	switch s[i] {
	case '<':
		return CmpLess, i + 1
	case '>':
		return CmpGreater, i + 1
	case '=':
		return CmpEqual, i + 1
	}
	return CmpNone, i
}

// readInt reads a run of ASCII digits at i. It returns next == i when no
// digit is present.
func readInt(s string, i int) (int, int, error) {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == i {
		return 0, i, nil
	}
	n, err := strconv.Atoi(s[i:j])
	if err != nil {
		return 0, 0, parseErrorAt(i, "number %q out of range", s[i:j])
	}
	return n, j, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// compactClauses removes whitespace like stripSpace, except that a space
// between two digits is kept: there it separates adjacent terms, as in
// "2d6 3d6".
func compactClauses(s string) string {
	fields := strings.Fields(s)
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			prev := fields[i-1]
			if isDigit(prev[len(prev)-1]) && isDigit(f[0]) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(f)
	}
	return b.String()
}
