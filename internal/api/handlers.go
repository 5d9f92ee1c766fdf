package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"yuzu/interrupt/internal/auth"
	"yuzu/interrupt/internal/config"
	"yuzu/interrupt/internal/interrupt"
	"yuzu/interrupt/internal/store"
	"yuzu/interrupt/internal/types"
)

type Handlers struct {
	cfg   config.Config
	store *store.Store
}

func NewHandlers(cfg config.Config, st *store.Store) *Handlers {
	return &Handlers{cfg: cfg, store: st}
}

type createSessionRequest struct {
	MinimumConfidence *float64 `json:"minimum_confidence,omitempty"`
	UseMLEnhancement  *bool    `json:"use_ml_enhancement,omitempty"`
	BlockedPhrases    []string `json:"blocked_phrases,omitempty"`
}

func (h *Handlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	// Empty body means all defaults; malformed JSON is a client error.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	opts := interrupt.Options{
		MinimumConfidence: h.cfg.Filter.MinimumConfidence,
		UseMLEnhancement:  h.cfg.Filter.UseMLEnhancement,
		DebugMode:         h.cfg.Filter.DebugMode,
		BlockedPhrases:    interrupt.ParsePhraseList(h.cfg.Filter.BlockedPhrases),
	}
	if req.MinimumConfidence != nil {
		opts.MinimumConfidence = *req.MinimumConfidence
	}
	if req.UseMLEnhancement != nil {
		opts.UseMLEnhancement = *req.UseMLEnhancement
	}
	if len(req.BlockedPhrases) > 0 {
		opts.BlockedPhrases = req.BlockedPhrases
	}

	filter, err := interrupt.NewHandler(opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := uuid.New().String()
	sess := &types.Session{
		ID:                id,
		CreatedAt:         time.Now().UTC(),
		Status:            "active",
		MinimumConfidence: opts.MinimumConfidence,
		UseMLEnhancement:  opts.UseMLEnhancement,
		BlockedPhrases:    filter.BlockedPhraseCount(),
	}
	_ = h.store.CreateSession(sess, filter)
	h.store.AppendEvent(id, "session_created", map[string]any{"min_confidence": opts.MinimumConfidence})

	resp := map[string]any{
		"session_id":         sess.ID,
		"created_at":         sess.CreatedAt,
		"status":             sess.Status,
		"minimum_confidence": sess.MinimumConfidence,
		"use_ml_enhancement": sess.UseMLEnhancement,
		"blocked_phrases":    sess.BlockedPhrases,
	}
	// Mint a transcript-stream token when the WS channel is configured.
	if h.cfg.WS.TokenSecret != "" {
		exp := time.Now().Add(12 * time.Hour).Unix()
		if tok, err := auth.GenerateSessionToken(h.cfg.WS.TokenSecret, id, exp); err == nil {
			resp["ws_token"] = tok
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type decideRequest struct {
	Utterance  string  `json:"utterance"`
	Confidence float64 `json:"confidence"`
}

func (h *Handlers) HandleDecide(w http.ResponseWriter, r *http.Request, id string) {
	filter := h.store.Filter(id)
	if filter == nil {
		http.NotFound(w, r)
		return
	}
	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	d := filter.Decide(req.Utterance, req.Confidence)
	h.store.AppendEvent(id, "decision", map[string]any{
		"utterance":  req.Utterance,
		"confidence": req.Confidence,
		"suppress":   d.Suppress,
		"reason":     string(d.Reason),
	})
	writeJSON(w, http.StatusOK, d)
}

type phrasesRequest struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

func (h *Handlers) HandleUpdatePhrases(w http.ResponseWriter, r *http.Request, id string) {
	filter := h.store.Filter(id)
	if filter == nil {
		http.NotFound(w, r)
		return
	}
	var req phrasesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(req.Add) > 0 {
		filter.AddBlockedPhrases(req.Add...)
	}
	if len(req.Remove) > 0 {
		filter.RemoveBlockedPhrases(req.Remove...)
	}
	h.store.AppendEvent(id, "phrases_updated", map[string]any{"added": len(req.Add), "removed": len(req.Remove)})
	writeJSON(w, http.StatusOK, map[string]any{"blocked_phrases": filter.BlockedPhraseCount()})
}

func (h *Handlers) HandleSessionMetrics(w http.ResponseWriter, r *http.Request, id string) {
	filter := h.store.Filter(id)
	if filter == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, filter.Metrics())
}

func (h *Handlers) HandleResetMetrics(w http.ResponseWriter, r *http.Request, id string) {
	filter := h.store.Filter(id)
	if filter == nil {
		http.NotFound(w, r)
		return
	}
	filter.ResetMetrics()
	h.store.AppendEvent(id, "metrics_reset", nil)
	writeJSON(w, http.StatusOK, filter.Metrics())
}

func (h *Handlers) HandleListEvents(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.store.ListEvents(id))
}

func (h *Handlers) HandleEndSession(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	h.store.EndSession(id)
	h.store.AppendEvent(id, "session_ended", nil)
	writeJSON(w, http.StatusOK, h.store.GetSession(id))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
