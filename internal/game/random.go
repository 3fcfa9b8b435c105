package game

import "math/rand/v2"

// Source supplies uniform integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it; a *rand.Rand is not safe for
// concurrent use, so a seeded source must stay confined to one goroutine.
type Source interface {
	IntN(n int) int
}

// globalSource draws from the runtime's goroutine-safe generator.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource is shared by every session that doesn't bring its own.
var DefaultSource Source = globalSource{}

// pick returns a uniformly chosen element of items.
func pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}
