package store

import (
	"testing"
	"time"

	"yuzu/interrupt/internal/interrupt"
	"yuzu/interrupt/internal/types"
)

func TestCreateAndGetSession(t *testing.T) {
	st := New(200)
	h, err := interrupt.NewHandler(interrupt.DefaultOptions())
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	s := &types.Session{ID: "abc123", CreatedAt: time.Now()}
	if err := st.CreateSession(s, h); err != nil {
		t.Fatalf("create session: %v", err)
	}
	got := st.GetSession("abc123")
	if got == nil || got.ID != s.ID {
		t.Fatalf("expected session %q, got %#v", s.ID, got)
	}
	if st.Filter("abc123") != h {
		t.Fatal("expected session to own its handler")
	}
	if err := st.CreateSession(s, h); err != ErrSessionExists {
		t.Fatalf("expected ErrSessionExists, got %v", err)
	}
}

func TestEventCapTruncates(t *testing.T) {
	st := New(10)
	h, _ := interrupt.NewHandler(interrupt.DefaultOptions())
	_ = st.CreateSession(&types.Session{ID: "s1"}, h)

	for i := 0; i < 25; i++ {
		st.AppendEvent("s1", "decision", map[string]any{"n": i})
	}
	evts := st.ListEvents("s1")
	if len(evts) > 10 {
		t.Fatalf("event log exceeded cap: %d", len(evts))
	}
	last := evts[len(evts)-1]
	if last.Type != "events_truncated" {
		t.Fatalf("expected truncation warning last, got %q", last.Type)
	}
}
