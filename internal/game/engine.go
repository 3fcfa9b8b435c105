// internal/game/engine.go
//
// Round Engine for a single timed session.
// Responsibilities:
//   - Start a session in the Running phase with a fresh round.
//   - Count time down one tick at a time; Running → Finished at zero.
//   - Judge answers, update the score, and replace the round.
//
// Notes:
//   - A Session is not safe for concurrent use. Callers serialize Tick and
//     Submit (the store does this for the HTTP shell).
//   - Finished is terminal. Later ticks are ignored and Submit returns
//     ErrFinished without touching anything.
package game

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrFinished is returned by Submit once time has run out.
	ErrFinished = errors.New("session finished")
	// ErrInvalidAnswer is returned when an answer is outside the mode's
	// answer domain (not equal/not_equal, or not sign-plus-digits).
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrUnknownMode is returned by NewSession for an unsupported mode.
	ErrUnknownMode = errors.New("unknown mode")
)

// Session is one timed play-through of one mode.
type Session struct {
	id      string
	rules   *rules
	src     Source
	clock   Clock
	score   ScoreTracker
	round   Round
	roundNo int
	phase   Phase
}

// Option customizes NewSession.
type Option func(*Session)

// WithSource draws rounds from src instead of DefaultSource.
func WithSource(src Source) Option {
	return func(s *Session) { s.src = src }
}

// WithID fixes the session id (a random UUID otherwise).
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// NewSession starts a Running session for mode with a full clock,
// zero score, and its first round already generated.
func NewSession(mode Mode, opts ...Option) (*Session, error) {
	r := rulesFor(mode)
	if r == nil {
		return nil, ErrUnknownMode
	}
	s := &Session{
		id:    uuid.NewString(),
		rules: r,
		src:   DefaultSource,
		clock: Clock{Remaining: r.info.Seconds},
		score: ScoreTracker{MissPenalty: r.missPenalty},
		phase: Running,
	}
	for _, o := range opts {
		o(s)
	}
	s.nextRound()
	return s, nil
}

// Tick advances time by one second. It returns true if this tick
// finished the session.
func (s *Session) Tick() bool {
	if s.phase == Finished {
		return false
	}
	if s.clock.Tick() {
		s.phase = Finished
		return true
	}
	return false
}

// Submit judges answer against the current round.
//
// Color mode: every answer resolves the round; score moves by ±1 and a new
// round is drawn. Arithmetic mode: only Correct scores and advances;
// Incorrect and Pending leave score and round exactly as they were.
func (s *Session) Submit(answer string) (Verdict, error) {
	if s.phase == Finished {
		return "", ErrFinished
	}
	v, err := s.rules.judge(s.round, answer)
	if err != nil {
		return "", err
	}
	if v == Pending {
		return v, nil
	}
	if v == Incorrect && !s.rules.advanceOnMiss {
		return v, nil
	}
	s.score.Apply(v)
	s.nextRound()
	return v, nil
}

// nextRound replaces the current round with a freshly generated one.
func (s *Session) nextRound() {
	s.round = s.rules.newRound(s.src)
	s.roundNo++
}

func (s *Session) ID() string            { return s.id }
func (s *Session) Mode() Mode            { return s.rules.info.ID }
func (s *Session) Phase() Phase          { return s.phase }
func (s *Session) Score() int            { return s.score.Points }
func (s *Session) RemainingSeconds() int { return s.clock.Remaining }
func (s *Session) Round() Round          { return s.round }
func (s *Session) RoundNumber() int      { return s.roundNo }

// Snapshot is the read-only view a shell renders each frame. Round holds a
// ColorRound or ArithmeticRound value, detached from the session.
type Snapshot struct {
	ID               string `json:"id"`
	Mode             Mode   `json:"mode"`
	Phase            Phase  `json:"phase"`
	RemainingSeconds int    `json:"remainingSeconds"`
	Score            int    `json:"score"`
	RoundNumber      int    `json:"roundNumber"`
	Round            Round  `json:"round"`
}

// Snapshot copies out the session's observable state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:               s.id,
		Mode:             s.Mode(),
		Phase:            s.phase,
		RemainingSeconds: s.clock.Remaining,
		Score:            s.score.Points,
		RoundNumber:      s.roundNo,
		Round:            roundValue(s.round),
	}
}

// roundValue copies r out by value so a snapshot never aliases the live round.
func roundValue(r Round) Round {
	switch r := r.(type) {
	case *ColorRound:
		return *r
	case *ArithmeticRound:
		return *r
	}
	return r
}
