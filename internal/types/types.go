package types

import "time"

type Event struct {
	Type    string         `json:"type"`
	Ts      time.Time      `json:"timestamp"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Session is one active conversation with its effective filter settings.
type Session struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`

	MinimumConfidence float64 `json:"minimum_confidence"`
	UseMLEnhancement  bool    `json:"use_ml_enhancement"`
	BlockedPhrases    int     `json:"blocked_phrases"`
}
