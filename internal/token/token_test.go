package token

import (
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/skillgames/internal/game"
)

func TestIssueParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	raw, exp, err := iss.Issue("abc", game.ModeArithmetic)
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry %v already passed", exp)
	}
	c, err := iss.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if c.SessionID() != "abc" || c.Mode != game.ModeArithmetic {
		t.Fatalf("claims = %+v", c)
	}
}

func TestParseRejects(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	good, _, _ := iss.Issue("abc", game.ModeColor)

	other := NewIssuer("other", time.Hour)
	forged, _, _ := other.Issue("abc", game.ModeColor)

	expired := NewIssuer("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _, _ := expired.Issue("abc", game.ModeColor)

	for name, raw := range map[string]string{
		"garbage":  "not-a-jwt",
		"empty":    "",
		"forged":   forged,
		"expired":  stale,
		"tampered": good + "x",
	} {
		if _, err := iss.Parse(raw); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", name, err)
		}
	}
}
