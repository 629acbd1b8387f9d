package dice_test

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/rollkit/internal/dice"
)

// TestRoll_BoundsProperty verifies N <= total <= N*M for plain NdM and that
// every die lies in [1, M].
func TestRoll_BoundsProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(rt, "count")
		m := rapid.IntRange(1, 100).Draw(rt, "sides")
		seed := rapid.Int64().Draw(rt, "seed")

		r := dice.NewRoller(dice.NewSeededSource(seed))
		result, err := r.Roll(fmt.Sprintf("%dd%d", n, m))
		if err != nil {
			rt.Fatalf("roll %dd%d: %v", n, m, err)
		}
		if result.Total() < n || result.Total() > n*m {
			rt.Fatalf("total %d outside [%d, %d]", result.Total(), n, n*m)
		}
		for _, v := range result.Dice() {
			if v < 1 || v > m {
				rt.Fatalf("die %d outside [1, %d]", v, m)
			}
		}
	})
}

// TestRoll_KeepDropPartitionProperty verifies |kept| + |dropped| equals the
// dice count for arbitrary keep/drop atoms.
func TestRoll_KeepDropPartitionProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(rt, "count")
		sides := rapid.SampledFrom([]string{"6", "20", "F", "%"}).Draw(rt, "sides")
		op := rapid.SampledFrom([]string{"", "kh", "kl", "dh", "dl"}).Draw(rt, "op")
		k := rapid.IntRange(0, 15).Draw(rt, "n")
		seed := rapid.Int64().Draw(rt, "seed")

		expr := fmt.Sprintf("%dd%s", n, sides)
		if op != "" {
			expr += fmt.Sprintf("%s%d", op, k)
		}
		result, err := dice.NewRoller(dice.NewSeededSource(seed)).Roll(expr)
		if err != nil {
			rt.Fatalf("roll %q: %v", expr, err)
		}
		for _, out := range result.Outcomes() {
			if len(out.Kept)+len(out.Dropped) != out.Spec.Count {
				rt.Fatalf("%q: kept %v dropped %v for %d dice", expr, out.Kept, out.Dropped, out.Spec.Count)
			}
		}
	})
}

// TestRoll_ExplodeRerollPartitionProperty checks the partition holds after
// reroll and explode resolution.
func TestRoll_ExplodeRerollPartitionProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(rt, "count")
		seed := rapid.Int64().Draw(rt, "seed")
		expr := fmt.Sprintf("%dd6r<2e6kh%d", n, rapid.IntRange(0, n).Draw(rt, "keep"))

		result, err := dice.NewRoller(dice.NewSeededSource(seed)).Roll(expr)
		if err != nil {
			rt.Fatalf("roll %q: %v", expr, err)
		}
		out := result.Outcomes()[0]
		if len(out.Values) != n || len(out.Kept)+len(out.Dropped) != n {
			rt.Fatalf("%q: values %v kept %v dropped %v", expr, out.Values, out.Kept, out.Dropped)
		}
		if len(out.Draws) < n {
			rt.Fatalf("%q: %d draws for %d dice", expr, len(out.Draws), n)
		}
	})
}

// TestNormalize_IdempotentProperty verifies Normalize(Normalize(s)) == Normalize(s).
func TestNormalize_IdempotentProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringOf(rapid.SampledFrom([]rune("0123456789d+-*/x ()１２９＋−×÷FkhlreE%<>=abc"))).Draw(rt, "s")
		once := dice.Normalize(s)
		if twice := dice.Normalize(once); twice != once {
			rt.Fatalf("Normalize not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"１d６＋２":   "1d6+2",
		"1d6 − 1": "1d6 - 1",
		"1d6 × 3": "1d6 * 3",
		"1d6 ÷ 3": "1d6 / 3",
		"4dF":     "4dF",
		"２d%kh1":  "2d%kh1",
	}
	for in, want := range cases {
		if got := dice.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestSeededSource_Reproducible verifies equal seeds produce equal rolls.
func TestSeededSource_Reproducible(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		a, err := dice.NewRoller(dice.NewSeededSource(seed)).Roll("10d20kh5 + 2d%")
		if err != nil {
			rt.Fatal(err)
		}
		b, err := dice.NewRoller(dice.NewSeededSource(seed)).Roll("10d20kh5 + 2d%")
		if err != nil {
			rt.Fatal(err)
		}
		if a.String() != b.String() {
			rt.Fatalf("seed %d: %q != %q", seed, a, b)
		}
	})
}

func TestCryptoSource_Range(t *testing.T) {
	src := dice.NewCryptoSource()
	for range 1000 {
		v := src.Uniform(3, 5)
		if v < 3 || v > 5 {
			t.Fatalf("Uniform(3, 5) = %d", v)
		}
	}
	if got := src.Uniform(7, 7); got != 7 {
		t.Fatalf("Uniform(7, 7) = %d", got)
	}
}
