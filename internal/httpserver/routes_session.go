// internal/httpserver/routes_session.go
//
// HTTP routes for playing one session.
//   - POST   /session/new     → start a session, returns its token + state
//   - GET    /session         → current state
//   - POST   /session/answer  → submit an answer, returns verdict + state
//   - POST   /session/tick    → advance one second (TICK_SOURCE=client only)
//   - DELETE /session         → back to menu: discard the session
//
// Every route but /session/new needs the session token, as a bearer header
// or a ?token= query parameter.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/skillgames/internal/config"
	"github.com/robalobadob/skillgames/internal/game"
	"github.com/robalobadob/skillgames/internal/store"
	"github.com/robalobadob/skillgames/internal/token"
)

// errTickSource is returned when a shell tries to tick a server-ticked session.
var errTickSource = errors.New("ticks are driven by the server")

// mountSession registers all /session routes.
func (s *Server) mountSession(r chi.Router) {
	r.Post("/session/new", s.handleNew)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/session", s.handleState)
		r.Post("/session/answer", s.handleAnswer)
		r.Post("/session/tick", s.handleTick)
		r.Delete("/session", s.handleDiscard)
	})
}

// -----------------------------------------------------------------------------
// session token middleware

type ctxSessionKey struct{}

// withSession resolves the token to its claims and puts them in the context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.tokens.Parse(tokenFrom(r))
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionClaims(r *http.Request) *token.Claims {
	c, _ := r.Context().Value(ctxSessionKey{}).(*token.Claims)
	return c
}

// tokenFrom extracts a bearer token from the Authorization header or the
// "token" query parameter (browsers can't set headers on websockets).
func tokenFrom(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return r.URL.Query().Get("token")
}

// -----------------------------------------------------------------------------
// shared session operations (HTTP and websocket)

// apply runs fn on the session and publishes the new state, both under the
// session lock so listeners see snapshots in the order they happened.
func (s *Server) apply(ctx context.Context, id string, fn func(*game.Session) error) (game.Snapshot, error) {
	var snap game.Snapshot
	err := s.store.Update(ctx, id, func(sess *game.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		snap = sess.Snapshot()
		s.hub.Publish(snap)
		return nil
	})
	if err != nil {
		return game.Snapshot{}, err
	}
	return snap, nil
}

func (s *Server) snapshot(ctx context.Context, id string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := s.store.Update(ctx, id, func(sess *game.Session) error {
		snap = sess.Snapshot()
		return nil
	})
	return snap, err
}

func (s *Server) submit(ctx context.Context, id, answer string) (game.Verdict, game.Snapshot, error) {
	var v game.Verdict
	snap, err := s.apply(ctx, id, func(sess *game.Session) error {
		var err error
		v, err = sess.Submit(answer)
		return err
	})
	return v, snap, err
}

func (s *Server) tick(ctx context.Context, id string) (game.Snapshot, error) {
	if s.cfg.TickSource != config.TickClient {
		return game.Snapshot{}, errTickSource
	}
	return s.apply(ctx, id, func(sess *game.Session) error {
		sess.Tick()
		return nil
	})
}

// errorCode maps engine/store errors to a status and a JSON error code.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, game.ErrInvalidAnswer):
		return http.StatusBadRequest, "invalid_answer"
	case errors.Is(err, game.ErrUnknownMode):
		return http.StatusBadRequest, "unknown_mode"
	case errors.Is(err, game.ErrFinished):
		return http.StatusConflict, "finished"
	case errors.Is(err, errTickSource):
		return http.StatusConflict, "tick_source"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "timeout"
	}
	return http.StatusInternalServerError, "server_error"
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorCode(err)
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("session request")
	}
	writeErr(w, status, code)
}

// -----------------------------------------------------------------------------
// /session/new

type newReq struct {
	Mode string `json:"mode"`
}

type newRes struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	State     game.Snapshot `json:"state"`
}

// handleNew starts a Running session for the requested mode.
func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	var req newReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	mode, ok := game.ParseMode(req.Mode)
	if !ok {
		writeErr(w, http.StatusBadRequest, "unknown_mode")
		return
	}

	sess, err := game.NewSession(mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tok, exp, err := s.tokens.Issue(sess.ID(), mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		s.fail(w, r, err)
		return
	}
	if s.cfg.TickSource == config.TickServer {
		s.timers.Start(sess.ID())
	}

	hlog.FromRequest(r).Info().Str("session", sess.ID()).Str("mode", string(mode)).Msg("session started")
	_ = json.NewEncoder(w).Encode(newRes{Token: tok, ExpiresAt: exp, State: sess.Snapshot()})
}

// -----------------------------------------------------------------------------
// /session

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context(), sessionClaims(r).SessionID())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// -----------------------------------------------------------------------------
// /session/answer

type answerReq struct {
	Answer string `json:"answer"`
}

type answerRes struct {
	Verdict game.Verdict  `json:"verdict"`
	State   game.Snapshot `json:"state"`
}

// handleAnswer judges one answer. Color sessions take "equal"/"not_equal";
// arithmetic sessions take the answer box text, which shells should send on
// every change so a right value lands as soon as it is typed. Text that is
// not an optional minus plus digits is refused with invalid_answer.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	claims := sessionClaims(r)
	v, snap, err := s.submit(r.Context(), claims.SessionID(), req.Answer)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(answerRes{Verdict: v, State: snap})
}

// -----------------------------------------------------------------------------
// /session/tick

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	snap, err := s.tick(r.Context(), sessionClaims(r).SessionID())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// -----------------------------------------------------------------------------
// DELETE /session

// handleDiscard is "back to menu": the session is dropped along with its
// tick subscription and live listeners.
func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	id := sessionClaims(r).SessionID()
	s.forget(id)
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
