package game

import (
	"math/rand/v2"
	"testing"
)

// scripted replays fixed draws, reduced modulo n, cycling when exhausted.
type scripted struct {
	vals []int
	i    int
}

func (s *scripted) IntN(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func seeded() Source { return rand.New(rand.NewPCG(7, 11)) }

func TestArithmeticRoundInvariants(t *testing.T) {
	src := seeded()
	seen := map[Operator]int{}
	for i := 0; i < 20000; i++ {
		r := GenerateArithmeticRound(src)
		seen[r.Operator]++
		switch r.Operator {
		case OpAdd:
			if r.OperandA < 0 || r.OperandA >= 500 || r.OperandB < 0 || r.OperandB >= 500 {
				t.Fatalf("add operands out of range: %+v", r)
			}
			if r.ExpectedResult != r.OperandA+r.OperandB || r.ExpectedResult > MaxDisplayResult {
				t.Fatalf("bad sum: %+v", r)
			}
		case OpSub:
			if r.ExpectedResult < -99 || r.ExpectedResult > -1 {
				t.Fatalf("difference out of range: %+v", r)
			}
			if r.OperandA < 100 || r.OperandA >= 600 {
				t.Fatalf("minuend out of range: %+v", r)
			}
			if r.OperandB != r.OperandA-r.ExpectedResult || r.OperandA-r.OperandB != r.ExpectedResult {
				t.Fatalf("subtrahend mismatch: %+v", r)
			}
		case OpMul:
			if r.OperandA < 0 || r.OperandA >= 40 || r.OperandB < 0 || r.OperandB >= 20 {
				t.Fatalf("mul operands out of range: %+v", r)
			}
			if r.ExpectedResult != r.OperandA*r.OperandB || r.ExpectedResult > MaxDisplayResult {
				t.Fatalf("bad product: %+v", r)
			}
		case OpDiv:
			if r.OperandB < 1 || r.OperandB > 20 {
				t.Fatalf("divisor out of range: %+v", r)
			}
			if r.ExpectedResult < 0 || r.ExpectedResult >= 40 {
				t.Fatalf("quotient out of range: %+v", r)
			}
			if r.OperandA != r.ExpectedResult*r.OperandB {
				t.Fatalf("inexact division: %+v", r)
			}
		default:
			t.Fatalf("unknown operator %q", r.Operator)
		}
	}
	for _, op := range Operators {
		if n := seen[op]; n < 4000 || n > 6000 {
			t.Errorf("operator %s drawn %d/20000 times, want about a quarter", op, n)
		}
	}
}

// The largest reachable sum and product stay under the cap, so the
// extremes of every operator are accepted on the first draw.
func TestArithmeticExtremesAccepted(t *testing.T) {
	cases := []struct {
		name string
		vals []int
		want int
	}{
		{"max sum", []int{0, 499, 499}, 998},
		{"max product", []int{2, 39, 19}, 741},
		{"min difference", []int{1, 98, 0}, -99},
		{"max quotient", []int{3, 19, 39}, 39},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, ok := drawArithmetic(&scripted{vals: tc.vals})
			if !ok {
				t.Fatalf("round rejected: %+v", r)
			}
			if r.ExpectedResult != tc.want {
				t.Fatalf("result = %d, want %d", r.ExpectedResult, tc.want)
			}
		})
	}
}

func TestColorRoundDistribution(t *testing.T) {
	src := seeded()
	const n = 20000
	equal := 0
	labels := map[Color]int{}
	equalByLabel := map[Color]int{}
	for i := 0; i < n; i++ {
		r := GenerateColorRound(src)
		if _, ok := ColorNameOf(r.RightDisplayColor); !ok {
			t.Fatalf("unknown display color %q", r.RightDisplayColor)
		}
		labels[r.RightLabel]++
		if r.Equal() {
			equal++
			equalByLabel[r.RightLabel]++
		}
	}
	if equal < n*45/100 || equal > n*55/100 {
		t.Errorf("equal rounds = %d/%d, want about half", equal, n)
	}
	for _, c := range Colors {
		if labels[c] < n*20/100 || labels[c] > n*30/100 {
			t.Errorf("right label %s drawn %d/%d times, want about a quarter", c, labels[c], n)
		}
		// Decorative text is independent of the answer.
		frac := float64(equalByLabel[c]) / float64(labels[c])
		if frac < 0.42 || frac > 0.58 {
			t.Errorf("P(equal | label=%s) = %.2f, want about 0.5", c, frac)
		}
	}
}

func TestColorRoundNotEqualPicksOtherColor(t *testing.T) {
	for i := range Colors {
		for j := 0; j < 3; j++ {
			r := GenerateColorRound(&scripted{vals: []int{i, 1, j, 0}})
			if r.Equal() {
				t.Fatalf("tails round is equal: %+v", r)
			}
		}
	}
}

func TestColorRoundEqualScenario(t *testing.T) {
	r := GenerateColorRound(&scripted{vals: []int{0, 0, 1}})
	if r.LeftLabel != Red || r.RightDisplayColor != "red" || r.RightLabel != Blue {
		t.Fatalf("unexpected round %+v", r)
	}
	if !r.Equal() {
		t.Fatal("expected an equal round")
	}
}
