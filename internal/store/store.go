package store

import (
	"errors"
	"sync"
	"time"

	"yuzu/interrupt/internal/interrupt"
	"yuzu/interrupt/internal/types"
)

var ErrSessionExists = errors.New("session already exists")

// Store holds sessions, their decision engines, and per-session event logs.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*types.Session
	filters   map[string]*interrupt.Handler
	events    map[string][]types.Event
	maxEvents int
}

func New(maxEvents int) *Store {
	if maxEvents < 1 {
		maxEvents = 200
	}
	return &Store{
		sessions:  make(map[string]*types.Session),
		filters:   make(map[string]*interrupt.Handler),
		events:    make(map[string][]types.Event),
		maxEvents: maxEvents,
	}
}

func (s *Store) CreateSession(sess *types.Session, h *interrupt.Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; ok {
		return ErrSessionExists
	}
	s.sessions[sess.ID] = sess
	s.filters[sess.ID] = h
	s.events[sess.ID] = []types.Event{}
	return nil
}

func (s *Store) GetSession(id string) *types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// Filter returns the decision engine owned by a session, or nil.
func (s *Store) Filter(id string) *interrupt.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters[id]
}

func (s *Store) EndSession(id string) {
	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok {
		sess.Status = "ended"
	}
	s.mu.Unlock()
}

func (s *Store) AppendEvent(sessionID, typ string, payload map[string]any) types.Event {
	evt := types.Event{Type: typ, Ts: time.Now().UTC(), Payload: payload}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[sessionID] = append(s.events[sessionID], evt)
	// Cap total events per session to avoid unbounded growth
	if l := len(s.events[sessionID]); l > s.maxEvents {
		// Keep space for a single truncation warning so the total stays at maxEvents
		keep := s.maxEvents - 1
		if keep < 0 {
			keep = 0
		}
		dropped := l - keep
		if keep > 0 {
			s.events[sessionID] = append([]types.Event(nil), s.events[sessionID][l-keep:]...)
		} else {
			s.events[sessionID] = []types.Event{}
		}
		warn := types.Event{Type: "events_truncated", Ts: time.Now().UTC(), Payload: map[string]any{"session_id": sessionID, "dropped": dropped, "kept": keep}}
		s.events[sessionID] = append(s.events[sessionID], warn)
	}
	return evt
}

func (s *Store) ListEvents(sessionID string) []types.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.events[sessionID]
	out := make([]types.Event, len(src))
	copy(out, src)
	return out
}

func (s *Store) ListSessionIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		out = append(out, id)
	}
	return out
}
