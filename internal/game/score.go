package game

// ScoreTracker accumulates points from verdicts.
// Correct is always +1; Incorrect costs MissPenalty (0 for no penalty).
// Pending never moves the score. The total is unbounded in both directions.
type ScoreTracker struct {
	Points      int
	MissPenalty int
}

// Apply folds one verdict into the total and returns the change.
func (s *ScoreTracker) Apply(v Verdict) int {
	var delta int
	switch v {
	case Correct:
		delta = 1
	case Incorrect:
		delta = -s.MissPenalty
	}
	s.Points += delta
	return delta
}
