package httpserver

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/skillgames/internal/config"
	"github.com/robalobadob/skillgames/internal/game"
	"github.com/robalobadob/skillgames/internal/store"
)

// gatedStore holds the next Update caller after its fn has run and the
// session lock is released, until release is closed.
type gatedStore struct {
	store.Store
	armed   atomic.Bool
	held    chan struct{}
	release chan struct{}
}

func (g *gatedStore) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	gate := g.armed.Swap(false)
	err := g.Store.Update(ctx, id, fn)
	if gate {
		close(g.held)
		<-g.release
	}
	return err
}

func TestLastPushedStateIsFinished(t *testing.T) {
	st := &gatedStore{
		Store:   store.NewMemoryStore(),
		held:    make(chan struct{}),
		release: make(chan struct{}),
	}
	s := New(testConfig(config.TickClient, time.Second), st, zerolog.Nop())
	nv := start(t, s, game.ModeColor)
	for i := 0; i < game.ColorSeconds-1; i++ {
		do(t, s, http.MethodPost, "/session/tick", nv.Token, nil)
	}

	updates, cancel := s.hub.Subscribe(nv.State.ID)
	defer cancel()

	// The answer lands with one second left, then stalls before returning
	// while the last tick finishes the session.
	st.armed.Store(true)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		do(t, s, http.MethodPost, "/session/answer", nv.Token, map[string]string{"answer": "equal"})
	}()
	<-st.held
	final := decode[stateView](t, do(t, s, http.MethodPost, "/session/tick", nv.Token, nil))
	close(st.release)
	wg.Wait()

	if final.Phase != "finished" {
		t.Fatalf("last tick: %+v", final)
	}
	var pushed []game.Snapshot
	for len(updates) > 0 {
		pushed = append(pushed, <-updates)
	}
	if len(pushed) != 2 {
		t.Fatalf("pushed %d snapshots, want 2", len(pushed))
	}
	if pushed[0].Phase != game.Running || pushed[0].RemainingSeconds != 1 {
		t.Fatalf("first push = %+v", pushed[0])
	}
	if last := pushed[1]; last.Phase != game.Finished || last.RemainingSeconds != 0 {
		t.Fatalf("last push = %+v, want finished", last)
	}
}
