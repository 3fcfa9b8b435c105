// Package hub fans session snapshots out to live listeners (websocket
// connections). Listeners subscribe per session id; Publish never blocks:
// a listener whose buffer is full misses that snapshot and catches up on
// the next one, since every snapshot carries the full state.
package hub

import (
	"sync"

	"github.com/robalobadob/skillgames/internal/game"
)

const bufferSize = 8

// Hub routes snapshots by session id.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan game.Snapshot]struct{}
}

func New() *Hub {
	return &Hub{subs: make(map[string]map[chan game.Snapshot]struct{})}
}

// Subscribe registers a listener for id. The returned cancel func
// unsubscribes and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(id string) (<-chan game.Snapshot, func()) {
	ch := make(chan game.Snapshot, bufferSize)

	h.mu.Lock()
	set, ok := h.subs[id]
	if !ok {
		set = make(map[chan game.Snapshot]struct{})
		h.subs[id] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[id]; ok {
				if _, ok := set[ch]; ok {
					delete(set, ch)
					close(ch)
				}
				if len(set) == 0 {
					delete(h.subs, id)
				}
			}
		})
	}
}

// Publish delivers snap to every listener of snap.ID.
func (h *Hub) Publish(snap game.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[snap.ID] {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close drops and closes every listener of id, e.g. when the session is
// discarded.
func (h *Hub) Close(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[id] {
		close(ch)
	}
	delete(h.subs, id)
}

// Listeners reports how many listeners id has.
func (h *Hub) Listeners(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[id])
}
