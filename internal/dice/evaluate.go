package dice

import (
	"fmt"
	"strings"
)

// rollSpec performs the draws for one dice atom and applies reroll,
// explode and keep/drop semantics.
//
// Precondition: spec passed checkInfinite; src is non-nil.
// Postcondition: len(out.Values) == spec.Count.
func rollSpec(spec DiceSpec, src Source, tracer Tracer) (*Outcome, error) {
	if spec.Divide == 0 {
		return nil, &DivisionByZeroError{}
	}
	out := &Outcome{Spec: spec, Values: make([]int, 0, spec.Count)}
	for range spec.Count {
		d := drawDie(spec, src)
		out.Draws = append(out.Draws, d)
		value := d.Value

		if r := spec.Reroll; r != nil {
			for used := 0; r.Cmp.Match(value, r.Target) && (r.Limit < 0 || used < r.Limit); used++ {
				d = drawDie(spec, src)
				out.Draws = append(out.Draws, d)
				value = d.Value
			}
		}

		total := value
		if e := spec.Explode; e != nil && spec.Kind == KindStandard {
			for explodes(e, value) {
				d = drawDie(spec, src)
				out.Draws = append(out.Draws, d)
				value = d.Value
				total += value
			}
		}
		out.Values = append(out.Values, total)
	}
	out.Kept, out.Dropped = selectDice(out.Values, spec.Keep, spec.Drop)

	if _, off := tracer.(NopTracer); off {
		return out, nil
	}
	tracer.Step(StepRoll, fmt.Sprintf("%s: %s", spec.Notation(), out.formatDraws()))
	if len(spec.Drop) > 0 {
		tracer.Step(StepDrop, fmt.Sprintf("%s kept %v dropped %v", formatOps('d', spec.Drop), out.Kept, out.Dropped))
	} else if len(spec.Keep) > 0 {
		tracer.Step(StepKeep, fmt.Sprintf("%s kept %v dropped %v", formatOps('k', spec.Keep), out.Kept, out.Dropped))
	}
	return out, nil
}

func drawDie(spec DiceSpec, src Source) Draw {
	switch spec.Kind {
	case KindFudge:
		raw := src.Uniform(1, fudgeSides)
		return Draw{Value: fudgeValue(raw), Raw: raw}
	case KindPercentile:
		tens := src.Uniform(0, 9) * 10
		ones := src.Uniform(0, 9)
		value := tens + ones
		if value == 0 {
			value = percentileSides
		}
		return Draw{Value: value, Raw: value, Tens: tens, Ones: ones}
	}
	v := src.Uniform(1, spec.Sides)
	return Draw{Value: v, Raw: v}
}

func fudgeValue(raw int) int {
	switch {
	case raw <= 2:
		return -1
	case raw <= 4:
		return 0
	}
	return 1
}

func explodes(e *ExplodeClause, value int) bool {
	if e.Cmp == CmpNone {
		return value == e.Target
	}
	return e.Cmp.Match(value, e.Target)
}

func formatOps(prefix byte, ops []SelectOp) string {
	var b strings.Builder
	for _, op := range ops {
		b.WriteString(op.format(prefix))
	}
	return b.String()
}
