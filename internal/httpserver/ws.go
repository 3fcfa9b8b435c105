// internal/httpserver/ws.go
//
// Live channel for one session. The server pushes {"event":"state"} after
// every tick or answer; the client sends commands:
//
//   {"type":"answer","answer":"42"}          any mode, same rules as HTTP
//   {"type":"key","key":"ArrowLeft"}         color mode arrow keys
//   {"type":"tick"}                          TICK_SOURCE=client only
//
// Key events flagged "repeat" (a held-down key) are ignored.

package httpserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/skillgames/internal/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// wsMessage is every server → client frame.
type wsMessage struct {
	Event string `json:"event"` // state | verdict | error
	Data  any    `json:"data"`
}

// wsCommand is every client → server frame.
type wsCommand struct {
	Type   string `json:"type"`
	Answer string `json:"answer,omitempty"`
	Key    string `json:"key,omitempty"`
	Repeat bool   `json:"repeat,omitempty"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == s.cfg.ClientOrigin
		},
	}
}

// handleWS upgrades an authenticated request and runs the session channel
// until either side hangs up or the session is discarded.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	claims, err := s.tokens.Parse(tokenFrom(r))
	if err != nil {
		writeErr(w, http.StatusUnauthorized, "invalid_token")
		return
	}
	id := claims.SessionID()
	first, err := s.snapshot(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("websocket upgrade")
		return
	}
	logger := hlog.FromRequest(r).With().Str("session", id).Logger()
	logger.Debug().Msg("websocket open")

	updates, unsubscribe := s.hub.Subscribe(id)
	defer unsubscribe()

	out := make(chan wsMessage, 16)
	done := make(chan struct{})
	out <- wsMessage{Event: "state", Data: first}

	// writer: the only goroutine that writes to conn.
	go func() {
		ping := time.NewTicker(pingPeriod)
		defer func() {
			ping.Stop()
			conn.Close()
			close(done)
		}()
		for {
			var msg wsMessage
			select {
			case snap, ok := <-updates:
				if !ok {
					_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session discarded"))
					return
				}
				msg = wsMessage{Event: "state", Data: snap}
			case m, ok := <-out:
				if !ok {
					return
				}
				msg = m
			case <-ping.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug().Err(err).Msg("websocket write")
				return
			}
		}
	}()

	// reader: runs on the handler goroutine.
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var cmd wsCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Msg("websocket read")
			}
			break
		}
		reply, ok := s.handleCommand(r, id, claims.Mode, cmd)
		if !ok {
			continue
		}
		select {
		case out <- reply:
		case <-done:
		}
	}
	close(out)
	<-done
	logger.Debug().Msg("websocket closed")
}

// handleCommand executes one client frame. ok is false when there is
// nothing to reply (ignored key repeats, ticks whose state goes out via
// the hub).
func (s *Server) handleCommand(r *http.Request, id string, mode game.Mode, cmd wsCommand) (wsMessage, bool) {
	ctx := r.Context()
	switch cmd.Type {
	case "answer":
		v, _, err := s.submit(ctx, id, cmd.Answer)
		if err != nil {
			return wsError(err), true
		}
		return wsMessage{Event: "verdict", Data: map[string]game.Verdict{"verdict": v}}, true

	case "key":
		if cmd.Repeat {
			return wsMessage{}, false
		}
		a, ok := game.ColorAnswerForKey(cmd.Key)
		if !ok || mode != game.ModeColor {
			return wsMessage{}, false
		}
		v, _, err := s.submit(ctx, id, string(a))
		if err != nil {
			return wsError(err), true
		}
		return wsMessage{Event: "verdict", Data: map[string]game.Verdict{"verdict": v}}, true

	case "tick":
		if _, err := s.tick(ctx, id); err != nil {
			return wsError(err), true
		}
		return wsMessage{}, false
	}
	return wsMessage{Event: "error", Data: map[string]string{"error": "unknown_command"}}, true
}

func wsError(err error) wsMessage {
	_, code := errorCode(err)
	return wsMessage{Event: "error", Data: map[string]string{"error": code}}
}
