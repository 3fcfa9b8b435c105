// internal/game/types.go
//
// Core type definitions for the Round Engine.
// Defines:
//   - Mode: which mini-game a session plays (color matching, arithmetic drill).
//   - Color / ColorRound: one color-matching puzzle.
//   - Operator / ArithmeticRound: one arithmetic puzzle.
//   - Verdict: outcome of judging a submitted answer.
//   - Phase: running/finished lifecycle of a session.

package game

// Mode identifies a game mode.
type Mode string

const (
	ModeColor      Mode = "color"
	ModeArithmetic Mode = "arithmetic"
)

// Color is one of the four color-name tokens used by the color game.
type Color string

const (
	Red    Color = "Red"
	Blue   Color = "Blue"
	Green  Color = "Green"
	Yellow Color = "Yellow"
)

// Colors lists every token in a fixed order.
var Colors = []Color{Red, Blue, Green, Yellow}

// renderColors maps a token to the value a shell paints text with.
var renderColors = map[Color]string{
	Red:    "red",
	Blue:   "blue",
	Green:  "green",
	Yellow: "yellow",
}

// Render returns the rendering color value for c ("" for unknown tokens).
func (c Color) Render() string { return renderColors[c] }

// ColorNameOf maps a rendering color value back to its token.
// The second result is false if the value is not one of ours.
func ColorNameOf(render string) (Color, bool) {
	for c, v := range renderColors {
		if v == render {
			return c, true
		}
	}
	return "", false
}

// Round is the puzzle a session currently shows.
// Rounds are immutable; a session replaces them, never edits them.
type Round interface {
	Mode() Mode
}

// ColorRound is a pair of cards: a plain word on the left and a colored
// word on the right. Only the ink color on the right decides the answer.
type ColorRound struct {
	LeftLabel         Color  `json:"leftLabel"`
	RightLabel        Color  `json:"rightLabel"`        // decorative text
	RightDisplayColor string `json:"rightDisplayColor"` // rendering value, e.g. "red"
}

func (ColorRound) Mode() Mode { return ModeColor }

// Equal reports the ground truth of the round.
func (r *ColorRound) Equal() bool {
	name, ok := ColorNameOf(r.RightDisplayColor)
	return ok && name == r.LeftLabel
}

// Operator is an arithmetic operator as displayed to the player.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "×"
	OpDiv Operator = "÷"
)

// Operators lists every operator in a fixed order.
var Operators = []Operator{OpAdd, OpSub, OpMul, OpDiv}

// ArithmeticRound is "OperandA Operator OperandB = ?".
// ExpectedResult is never serialized: it is the answer.
type ArithmeticRound struct {
	OperandA       int      `json:"operandA"`
	OperandB       int      `json:"operandB"`
	Operator       Operator `json:"operator"`
	ExpectedResult int      `json:"-"`
}

func (ArithmeticRound) Mode() Mode { return ModeArithmetic }

// Verdict is the outcome of evaluating an answer.
type Verdict string

const (
	Correct   Verdict = "correct"
	Incorrect Verdict = "incorrect"
	Pending   Verdict = "pending" // arithmetic mode, empty input
)

// Phase is the lifecycle state of a session.
type Phase string

const (
	Running  Phase = "running"
	Finished Phase = "finished"
)
