// internal/game/arithmetic.go
//
// TurboMath: solve one integer expression at a time.
//
// Construction per operator keeps numbers friendly:
//   +  operands in [0,500), sum capped at 999
//   -  result in [-99,-1], first operand in [100,600)
//   ×  operands in [0,40) and [0,20), product capped at 999
//   ÷  divisor in [1,20], quotient in [0,40), always exact
//
// Capped results are rejection-sampled: a round over the cap is thrown
// away and a new one drawn, so accepted rounds stay uniform.

package game

import (
	"regexp"
	"strconv"
)

// MaxDisplayResult is the largest result a + or × round may have.
const MaxDisplayResult = 999

// GenerateArithmeticRound draws rounds until one fits the display cap.
func GenerateArithmeticRound(src Source) *ArithmeticRound {
	for {
		if r, ok := drawArithmetic(src); ok {
			return r
		}
	}
}

// drawArithmetic makes one attempt; ok is false if the round was rejected.
func drawArithmetic(src Source) (*ArithmeticRound, bool) {
	r := &ArithmeticRound{Operator: pick(src, Operators)}

	switch r.Operator {
	case OpAdd:
		r.OperandA = src.IntN(500)
		r.OperandB = src.IntN(500)
		r.ExpectedResult = r.OperandA + r.OperandB
		if r.ExpectedResult > MaxDisplayResult {
			return nil, false
		}
	case OpSub:
		r.ExpectedResult = -(src.IntN(99) + 1)
		r.OperandA = src.IntN(500) + 100
		r.OperandB = r.OperandA - r.ExpectedResult
	case OpMul:
		r.OperandA = src.IntN(40)
		r.OperandB = src.IntN(20)
		r.ExpectedResult = r.OperandA * r.OperandB
		if r.ExpectedResult > MaxDisplayResult {
			return nil, false
		}
	case OpDiv:
		r.OperandB = src.IntN(20) + 1
		r.ExpectedResult = src.IntN(40)
		r.OperandA = r.ExpectedResult * r.OperandB
	}
	return r, true
}

var arithmeticInput = regexp.MustCompile(`^-?[0-9]*$`)

// ValidArithmeticInput reports whether text may sit in the answer box:
// digits with an optional leading minus, or nothing at all.
// Shells filter keystrokes with it before calling Submit.
func ValidArithmeticInput(text string) bool {
	return arithmeticInput.MatchString(text)
}

// EvaluateArithmetic judges the current contents of the answer box.
// Empty text is Pending. Anything that doesn't parse (a lone "-") or
// doesn't equal the expected result is Incorrect.
func EvaluateArithmetic(r *ArithmeticRound, text string) Verdict {
	if text == "" {
		return Pending
	}
	n, err := strconv.Atoi(text)
	if err != nil || n != r.ExpectedResult {
		return Incorrect
	}
	return Correct
}
