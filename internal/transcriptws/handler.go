package transcriptws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"yuzu/interrupt/internal/auth"
	"yuzu/interrupt/internal/config"
	"yuzu/interrupt/internal/store"

	ws "nhooyr.io/websocket"
)

// Message is the wire format for transcript streams. The host pipeline
// sends interim_transcript while the agent is speaking; decision replies
// tell it to abort or continue the agent's turn.
type Message struct {
	Type        string  `json:"type"`
	TsMs        int64   `json:"ts_ms"`
	SessionID   string  `json:"session_id"`
	UtteranceID string  `json:"utterance_id,omitempty"`
	Text        string  `json:"text,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`

	// decision reply fields
	Suppress bool    `json:"suppress,omitempty"`
	Reason   string  `json:"reason,omitempty"`
	Score    float64 `json:"score,omitempty"`
}

type Server struct {
	Cfg   config.Config
	Store *store.Store
	Reg   *Registry
}

func NewServer(cfg config.Config, st *store.Store, reg *Registry) *Server {
	return &Server{Cfg: cfg, Store: st, Reg: reg}
}

func (s *Server) HandleTranscriptWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sessionID := q.Get("session_id")
	if sessionID == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}
	if s.Store.GetSession(sessionID) == nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	// Auth header
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	token := strings.TrimPrefix(authz, "Bearer ")
	if s.Cfg.WS.TokenSecret == "" {
		http.Error(w, "transcript auth not configured", http.StatusUnauthorized)
		return
	}
	if _, _, err := auth.ValidateSessionToken(s.Cfg.WS.TokenSecret, token, sessionID, time.Now(), s.Cfg.WS.TokenSkewSecs); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	c, err := ws.Accept(w, r, nil)
	if err != nil {
		log.Printf("[ws] accept: %v", err)
		return
	}
	if replaced := s.Reg.Replace(sessionID, c); replaced {
		s.Store.AppendEvent(sessionID, "stream_replaced", nil)
	}
	s.Store.AppendEvent(sessionID, "stream_connected", nil)

	ctx := r.Context()
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			break
		}
		if typ != ws.MessageText && typ != ws.MessageBinary {
			continue
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.Store.AppendEvent(sessionID, "stream_msg_invalid", map[string]any{"error": err.Error()})
			continue
		}
		if msg.Type != "interim_transcript" {
			s.Store.AppendEvent(sessionID, msg.Type, map[string]any{"ts_ms": msg.TsMs})
			continue
		}
		s.handleInterim(ctx, sessionID, msg)
	}
	_ = c.Close(ws.StatusNormalClosure, "done")
	s.Reg.Remove(sessionID)
	s.Store.AppendEvent(sessionID, "stream_disconnected", nil)
}

// handleInterim runs one interim transcript through the session's filter
// and writes the decision back on the same stream.
func (s *Server) handleInterim(ctx context.Context, sessionID string, msg Message) {
	filter := s.Store.Filter(sessionID)
	if filter == nil {
		return
	}
	d := filter.Decide(msg.Text, msg.Confidence)
	s.Store.AppendEvent(sessionID, "decision", map[string]any{
		"utterance_id": msg.UtteranceID,
		"utterance":    msg.Text,
		"confidence":   msg.Confidence,
		"suppress":     d.Suppress,
		"reason":       string(d.Reason),
	})
	reply := Message{
		Type:        "decision",
		TsMs:        time.Now().UnixMilli(),
		SessionID:   sessionID,
		UtteranceID: msg.UtteranceID,
		Suppress:    d.Suppress,
		Reason:      string(d.Reason),
		Score:       d.Score,
	}
	if err := s.Reg.SendJSON(ctx, sessionID, reply); err != nil {
		log.Printf("[ws] decision send failed session=%s: %v", sessionID, err)
	}
}
