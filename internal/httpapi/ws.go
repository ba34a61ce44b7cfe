package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

const (
	wsReadLimit    = 64 << 10
	wsIdleTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// handleWS answers each inbound {query, session_id?} text frame with the same
// JSON body POST /query returns. Frames are handled one at a time, so replies
// keep the order of the questions.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	defaultSession := strings.TrimSpace(r.URL.Query().Get("session_id"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if s.metrics != nil {
		s.metrics.WSConnections.Inc()
		defer s.metrics.WSConnections.Dec()
	}

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("websocket closed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		if msgType != websocket.TextMessage {
			continue
		}

		reply := s.answerFrame(r, data, defaultSession)
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			log.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}
}

func (s *Server) answerFrame(r *http.Request, data []byte, defaultSession string) any {
	var req contractx.QueryRequest
	if err := decodeFrame(data, &req); err != nil {
		return wsError{Error: err.Error(), Code: "invalid_request"}
	}
	if strings.TrimSpace(req.SessionID) == "" {
		req.SessionID = defaultSession
	}

	res, err := s.assistant.Handle(r.Context(), req)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			return wsError{Error: err.Error(), Code: "invalid_request"}
		}
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("websocket query failed")
		return wsError{Error: "internal server error", Code: "internal_error"}
	}
	return res
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		allowed = strings.TrimRight(strings.TrimSpace(allowed), "/")
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
