// internal/timer/timer.go
//
// Server-side clock for live sessions.
//
// The Round Engine only exposes a synchronous Session.Tick. This package is
// the periodic source that calls it: one goroutine per running session,
// ticking through the store so ticks serialize with answers. The goroutine
// ends on its own when the session finishes or disappears, or when Stop is
// called (the player went back to the menu).

package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/skillgames/internal/game"
	"github.com/robalobadob/skillgames/internal/store"
)

// Manager owns the tick subscriptions.
type Manager struct {
	store    store.Store
	interval time.Duration
	onTick   func(game.Snapshot)

	mu      sync.Mutex
	running map[string]*subscription
	wg      sync.WaitGroup
}

type subscription struct {
	cancel context.CancelFunc
}

// New returns a Manager ticking every interval. onTick, if set, receives
// the session's state after each tick (including the finishing one). It is
// called under the session lock and must not block or touch the store.
func New(st store.Store, interval time.Duration, onTick func(game.Snapshot)) *Manager {
	if onTick == nil {
		onTick = func(game.Snapshot) {}
	}
	return &Manager{
		store:    st,
		interval: interval,
		onTick:   onTick,
		running:  make(map[string]*subscription),
	}
}

// Start begins ticking session id. Starting an already ticking session is
// a no-op.
func (m *Manager) Start(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.running[id]; ok {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{cancel: cancel}
	m.running[id] = sub

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.release(id, sub)
		m.run(ctx, id)
	}()
}

// Stop releases the tick subscription of id, if any.
func (m *Manager) Stop(id string) {
	m.mu.Lock()
	sub, ok := m.running[id]
	delete(m.running, id)
	m.mu.Unlock()
	if ok {
		sub.cancel()
	}
}

// StopAll releases every subscription and waits for the goroutines to exit.
func (m *Manager) StopAll() {
	m.mu.Lock()
	for id, sub := range m.running {
		sub.cancel()
		delete(m.running, id)
	}
	m.mu.Unlock()
	m.wg.Wait()
}

// Active reports how many sessions are ticking.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.running)
}

func (m *Manager) release(id string, sub *subscription) {
	sub.cancel()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running[id] == sub {
		delete(m.running, id)
	}
}

func (m *Manager) run(ctx context.Context, id string) {
	t := time.NewTicker(m.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		var (
			snap     game.Snapshot
			finished bool
		)
		err := m.store.Update(ctx, id, func(s *game.Session) error {
			s.Tick()
			snap = s.Snapshot()
			finished = s.Phase() == game.Finished
			m.onTick(snap)
			return nil
		})
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Debug().Err(err).Str("session", id).Msg("stop ticking")
			}
			return
		}
		if finished {
			log.Info().Str("session", id).Str("mode", string(snap.Mode)).Int("score", snap.Score).Msg("session finished")
			return
		}
	}
}

// RunJanitor sweeps sessions untouched for ttl, checking every interval,
// until ctx is done. onGone is called for each removed id.
func RunJanitor(ctx context.Context, st store.Store, ttl, interval time.Duration, onGone func(id string)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			for _, id := range st.Sweep(ctx, now.Add(-ttl)) {
				log.Debug().Str("session", id).Msg("swept")
				if onGone != nil {
					onGone(id)
				}
			}
		}
	}
}
