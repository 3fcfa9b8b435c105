package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/skillgames/internal/game"
)

func newSession(t *testing.T, mode game.Mode) *game.Session {
	t.Helper()
	s, err := game.NewSession(mode)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveUpdateDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t, game.ModeColor)

	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	var seen string
	if err := st.Update(ctx, s.ID(), func(got *game.Session) error {
		seen = got.ID()
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if seen != s.ID() {
		t.Fatalf("Update saw %q", seen)
	}

	boom := errors.New("boom")
	if err := st.Update(ctx, s.ID(), func(*game.Session) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	if err := st.Delete(ctx, s.ID()); err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(ctx, s.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
	if err := st.Update(ctx, s.ID(), func(*game.Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update after delete err = %v", err)
	}
}

func TestUpdateSerializesSession(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t, game.ModeArithmetic)
	_ = st.Save(ctx, s)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.Update(ctx, s.ID(), func(s *game.Session) error {
				s.Tick()
				_, _ = s.Submit("")
				return nil
			})
		}()
	}
	wg.Wait()

	_ = st.Update(ctx, s.ID(), func(s *game.Session) error {
		if got := s.RemainingSeconds(); got != game.ArithmeticSeconds-50 {
			t.Errorf("remaining = %d, want %d", got, game.ArithmeticSeconds-50)
		}
		return nil
	})
}

func TestUpdateHonorsCanceledContext(t *testing.T) {
	st := NewMemoryStore()
	s := newSession(t, game.ModeColor)
	_ = st.Save(context.Background(), s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := st.Update(ctx, s.ID(), func(*game.Session) error { called = true; return nil })
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("err = %v, called = %v", err, called)
	}
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newMemory(func() time.Time { return now })

	old := newSession(t, game.ModeColor)
	_ = m.Save(ctx, old)
	now = now.Add(5 * time.Minute)
	fresh := newSession(t, game.ModeColor)
	_ = m.Save(ctx, fresh)

	gone := m.Sweep(ctx, now.Add(-time.Minute))
	if len(gone) != 1 || gone[0] != old.ID() {
		t.Fatalf("swept %v, want [%s]", gone, old.ID())
	}
	if m.Len() != 1 {
		t.Fatalf("len = %d", m.Len())
	}

	// Touching keeps a session alive.
	now = now.Add(5 * time.Minute)
	_ = m.Update(ctx, fresh.ID(), func(*game.Session) error { return nil })
	if gone := m.Sweep(ctx, now.Add(-time.Minute)); len(gone) != 0 {
		t.Fatalf("swept touched session: %v", gone)
	}
}
