// internal/game/color.go
//
// Color Logic: the left card shows a color name, the right card shows a
// color name painted in some ink. The player says whether the left word
// matches the right card's ink. The right card's text is a distraction.

package game

import "strings"

// ColorAnswer is the player's claim about a color round.
type ColorAnswer string

const (
	AnswerEqual    ColorAnswer = "equal"
	AnswerNotEqual ColorAnswer = "not_equal"
)

// ParseColorAnswer accepts "equal" and "not_equal" ("not" is an alias).
func ParseColorAnswer(s string) (ColorAnswer, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equal":
		return AnswerEqual, true
	case "not_equal", "not":
		return AnswerNotEqual, true
	}
	return "", false
}

// ColorAnswerForKey maps the arrow keys to answers:
// ArrowLeft is "not equal", ArrowRight is "equal".
func ColorAnswerForKey(code string) (ColorAnswer, bool) {
	switch code {
	case "ArrowLeft":
		return AnswerNotEqual, true
	case "ArrowRight":
		return AnswerEqual, true
	}
	return "", false
}

// GenerateColorRound builds a fresh round. Half the rounds are "equal":
// a fair coin decides whether the ink copies the left word or is drawn
// from the other three colors. The right card's text is drawn on its own.
func GenerateColorRound(src Source) *ColorRound {
	left := pick(src, Colors)

	target := left
	if src.IntN(2) == 1 {
		others := make([]Color, 0, len(Colors)-1)
		for _, c := range Colors {
			if c != left {
				others = append(others, c)
			}
		}
		target = pick(src, others)
	}

	return &ColorRound{
		LeftLabel:         left,
		RightLabel:        pick(src, Colors),
		RightDisplayColor: target.Render(),
	}
}

// EvaluateColor judges an answer against the round's ink color.
func EvaluateColor(r *ColorRound, answer ColorAnswer) Verdict {
	if (answer == AnswerEqual) == r.Equal() {
		return Correct
	}
	return Incorrect
}
