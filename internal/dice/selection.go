package dice

import "slices"

// selectDice partitions values into kept and dropped dice. Drop operations,
// when present, take precedence and the keep operations are ignored.
//
// Postcondition: len(kept)+len(dropped) == len(values).
func selectDice(values []int, keep, drop []SelectOp) (kept, dropped []int) {
	switch {
	case len(drop) > 0:
		return applyDrop(values, drop)
	case len(keep) > 0:
		return applyKeep(values, keep)
	}
	return slices.Clone(values), []int{}
}

// applyKeep applies keep operations in sequence, each over the survivors
// of the previous one. Keeping zero dice drops everything and stops.
func applyKeep(values []int, ops []SelectOp) ([]int, []int) {
	current := sortedCopy(values)
	dropped := []int{}
	for _, op := range ops {
		if op.N == 0 {
			dropped = append(dropped, current...)
			current = []int{}
			break
		}
		if op.N >= len(current) {
			continue
		}
		if op.Highest {
			cut := len(current) - op.N
			dropped = append(dropped, current[:cut]...)
			current = current[cut:]
		} else {
			dropped = append(dropped, current[op.N:]...)
			current = current[:op.N]
		}
	}
	return slices.Clone(current), dropped
}

// applyDrop applies drop operations in sequence. Dropping zero dice is a
// no-op.
func applyDrop(values []int, ops []SelectOp) ([]int, []int) {
	current := sortedCopy(values)
	dropped := []int{}
	for _, op := range ops {
		if op.N == 0 {
			continue
		}
		if op.N >= len(current) {
			dropped = append(dropped, current...)
			current = []int{}
			continue
		}
		if op.Highest {
			cut := len(current) - op.N
			dropped = append(dropped, current[cut:]...)
			current = current[:cut]
		} else {
			dropped = append(dropped, current[:op.N]...)
			current = current[op.N:]
		}
	}
	return slices.Clone(current), dropped
}

func sortedCopy(values []int) []int {
	out := slices.Clone(values)
	if out == nil {
		out = []int{}
	}
	slices.Sort(out)
	return out
}
