package game

// Clock is a whole-second countdown.
type Clock struct {
	Remaining int
}

// Tick takes one second off the clock, never going below zero.
// It reports true only on the tick that reaches zero.
func (c *Clock) Tick() bool {
	if c.Remaining <= 0 {
		return false
	}
	c.Remaining--
	return c.Remaining == 0
}

// Expired reports whether the countdown has run out.
func (c *Clock) Expired() bool { return c.Remaining <= 0 }
