// internal/token/token.go
//
// Session handles. Starting a session hands the shell an HS256 JWT naming
// the session id and mode; every later call presents it. Holding the token
// is what makes a caller the session's owner.

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/skillgames/internal/game"
)

// ErrInvalid covers every token that fails parsing or verification.
var ErrInvalid = errors.New("invalid token")

// Claims identify one session.
type Claims struct {
	Mode game.Mode `json:"mode"`
	jwt.RegisteredClaims
}

// SessionID is the token subject.
func (c *Claims) SessionID() string { return c.Subject }

// Issuer signs and verifies session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for session id.
func (i *Issuer) Issue(id string, mode game.Mode) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Mode: mode,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return ss, exp, nil
}

// Parse verifies raw and returns its claims.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !t.Valid || claims.Subject == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
