// internal/httpserver/server.go
//
// HTTP shell for the skill games.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logs).
//   - Public endpoints: "/" (service banner + game menu), "/health".
//   - Session endpoints under /session (see routes_session.go).
//   - Live websocket channel at /session/ws (see ws.go).
//
// Notes:
//   - The shell never edits a session directly. Every change goes through
//     the store's Update, which serializes ticks and answers per session.
//   - After any change the new snapshot is published to the hub so live
//     listeners re-render.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/skillgames/internal/config"
	"github.com/robalobadob/skillgames/internal/game"
	"github.com/robalobadob/skillgames/internal/hub"
	"github.com/robalobadob/skillgames/internal/store"
	"github.com/robalobadob/skillgames/internal/timer"
	"github.com/robalobadob/skillgames/internal/token"
)

// Server bundles router, session store, and the live-play plumbing.
type Server struct {
	r      *chi.Mux
	cfg    config.Config
	store  store.Store
	tokens *token.Issuer
	hub    *hub.Hub
	timers *timer.Manager
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, logger zerolog.Logger) *Server {
	h := hub.New()
	s := &Server{
		r:      chi.NewRouter(),
		cfg:    cfg,
		store:  st,
		tokens: token.NewIssuer(cfg.TokenSecret, cfg.TokenTTL),
		hub:    h,
		timers: timer.New(st, cfg.TickInterval, h.Publish),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)         // add X-Request-ID
	s.r.Use(chimw.RealIP)            // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(logger)) // request-scoped logger
	s.r.Use(requestIDField)          // tag that logger with the request id
	s.r.Use(chimw.Recoverer)         // recover from panics
	s.r.Use(s.cors)                  // credentials-friendly CORS

	// Plain request/response routes get a deadline and access logs; the
	// websocket route lives outside this group.
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(hlog.AccessHandler(accessLog))
		r.Use(jsonContentType)

		r.Get("/", s.handleIndex)
		r.Get("/health", s.handleHealth)
		s.mountSession(r)
	})
	s.r.Get("/session/ws", s.handleWS)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start serves HTTP on addr until ctx is done, then shuts down gracefully
// and releases every tick subscription.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	sweepEvery := max(s.cfg.SessionTTL/2, time.Second)
	go timer.RunJanitor(janitorCtx, s.store, s.cfg.SessionTTL, sweepEvery, s.forget)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		s.timers.StopAll()
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.timers.StopAll()
	return err
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// forget drops everything the server holds for a session besides the store
// entry itself.
func (s *Server) forget(id string) {
	s.timers.Stop(id)
	s.hub.Close(id)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestIDField adds chi's request id to the request logger.
func requestIDField(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			l := hlog.FromRequest(r)
			l.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ----------------------------- diagnostics ---------------------------------

type indexRes struct {
	Service    string          `json:"service"`
	Modes      []game.ModeInfo `json:"modes"`
	TickSource string          `json:"tickSource"`
}

// handleIndex is the menu: which games exist and how long they run.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(indexRes{
		Service:    "skillgames",
		Modes:      game.Modes(),
		TickSource: s.cfg.TickSource,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":       true,
		"sessions": s.store.Len(),
		"ticking":  s.timers.Active(),
	})
}

// ------------------------------- helpers -----------------------------------

// writeErr writes {"error":code} with status.
func writeErr(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
