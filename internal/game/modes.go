// internal/game/modes.go
//
// Per-mode rules. Each mode decides its starting time, how rounds are
// built and judged, what a miss costs, and whether a miss ends the round.
//
//   color:      60s, miss costs 1 point, every answer advances.
//   arithmetic: 120s, misses are free and silent, only Correct advances.

package game

const (
	ColorSeconds      = 60
	ArithmeticSeconds = 120
)

// ModeInfo is a menu entry.
type ModeInfo struct {
	ID      Mode   `json:"id"`
	Title   string `json:"title"`
	Seconds int    `json:"seconds"`
}

type rules struct {
	info          ModeInfo
	missPenalty   int
	advanceOnMiss bool
	newRound      func(Source) Round
	judge         func(r Round, answer string) (Verdict, error)
}

var catalog = []*rules{
	{
		info:          ModeInfo{ID: ModeColor, Title: "Color Logic", Seconds: ColorSeconds},
		missPenalty:   1,
		advanceOnMiss: true,
		newRound:      func(src Source) Round { return GenerateColorRound(src) },
		judge: func(r Round, answer string) (Verdict, error) {
			a, ok := ParseColorAnswer(answer)
			if !ok {
				return "", ErrInvalidAnswer
			}
			return EvaluateColor(r.(*ColorRound), a), nil
		},
	},
	{
		info:     ModeInfo{ID: ModeArithmetic, Title: "TurboMath", Seconds: ArithmeticSeconds},
		newRound: func(src Source) Round { return GenerateArithmeticRound(src) },
		judge: func(r Round, answer string) (Verdict, error) {
			if !ValidArithmeticInput(answer) {
				return "", ErrInvalidAnswer
			}
			return EvaluateArithmetic(r.(*ArithmeticRound), answer), nil
		},
	},
}

// Modes returns the menu, in display order.
func Modes() []ModeInfo {
	out := make([]ModeInfo, len(catalog))
	for i, r := range catalog {
		out[i] = r.info
	}
	return out
}

// ParseMode validates a mode id.
func ParseMode(s string) (Mode, bool) {
	if r := rulesFor(Mode(s)); r != nil {
		return r.info.ID, true
	}
	return "", false
}

func rulesFor(m Mode) *rules {
	for _, r := range catalog {
		if r.info.ID == m {
			return r
		}
	}
	return nil
}
