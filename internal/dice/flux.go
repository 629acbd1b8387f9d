package dice

import "fmt"

// rollFlux rolls two independent d6. Good flux reports higher minus lower,
// bad flux lower minus higher.
func rollFlux(good bool, src Source, tracer Tracer) *Evaluation {
	a, b := src.Uniform(1, 6), src.Uniform(1, 6)
	higher, lower := max(a, b), min(a, b)
	first, second := higher, lower
	if !good {
		first, second = lower, higher
	}
	tracer.Step(StepRoll, fmt.Sprintf("flux: %d, %d", a, b))
	return &Evaluation{
		Value:       first - second,
		Description: fmt.Sprintf("%d (1d6: %d) - %d (1d6: %d)", first, first, second, second),
		Outcomes:    []*Outcome{fluxOutcome(first), fluxOutcome(second)},
	}
}

func fluxOutcome(face int) *Outcome {
	return &Outcome{
		Spec:   DiceSpec{Count: 1, Kind: KindStandard, Sides: 6, Multiply: 1, Divide: 1},
		Draws:  []Draw{{Value: face, Raw: face}},
		Values: []int{face},
		Kept:   []int{face},
	}
}
