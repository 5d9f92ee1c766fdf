package transcriptws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yuzu/interrupt/internal/auth"
	"yuzu/interrupt/internal/config"
	"yuzu/interrupt/internal/interrupt"
	"yuzu/interrupt/internal/store"
	"yuzu/interrupt/internal/types"

	ws "nhooyr.io/websocket"
)

func newTestSetup(t *testing.T) (*httptest.Server, config.Config, *store.Store) {
	t.Helper()
	var cfg config.Config
	cfg.WS.TokenSecret = "test-secret"
	cfg.WS.TokenSkewSecs = 30

	st := store.New(200)
	h, err := interrupt.NewHandler(interrupt.DefaultOptions())
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if err := st.CreateSession(&types.Session{ID: "s1", Status: "active"}, h); err != nil {
		t.Fatalf("session: %v", err)
	}

	srv := NewServer(cfg, st, NewRegistry())
	ts := httptest.NewServer(http.HandlerFunc(srv.HandleTranscriptWS))
	t.Cleanup(ts.Close)
	return ts, cfg, st
}

func TestTranscriptDecisionRoundTrip(t *testing.T) {
	ts, cfg, st := newTestSetup(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tok := auth.MustToken(cfg.WS.TokenSecret, "s1", time.Now().Add(time.Minute).Unix())
	c, _, err := ws.Dial(ctx, ts.URL+"?session_id=s1", &ws.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + tok}},
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close(ws.StatusNormalClosure, "done")

	send := func(text string, conf float64) Message {
		out := Message{Type: "interim_transcript", TsMs: time.Now().UnixMilli(), SessionID: "s1", UtteranceID: "u1", Text: text, Confidence: conf}
		b, _ := json.Marshal(out)
		if err := c.Write(ctx, ws.MessageText, b); err != nil {
			t.Fatalf("write: %v", err)
		}
		_, data, err := c.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var reply Message
		if err := json.Unmarshal(data, &reply); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return reply
	}

	reply := send("uh", 0.9)
	if reply.Type != "decision" || !reply.Suppress || reply.Reason != "rule_match" {
		t.Fatalf("expected rule_match suppress, got %+v", reply)
	}
	reply = send("wait, how much was that?", 0.9)
	if reply.Suppress || reply.Reason != "genuine" {
		t.Fatalf("expected genuine allow, got %+v", reply)
	}

	if m := st.Filter("s1").Metrics(); m["total_processed"] != 2 {
		t.Fatalf("expected 2 processed, got %+v", m)
	}
}

func TestTranscriptWSRejectsMissingToken(t *testing.T) {
	ts, _, _ := newTestSetup(t)

	resp, err := http.Get(ts.URL + "?session_id=s1")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestTranscriptWSUnknownSession(t *testing.T) {
	ts, _, _ := newTestSetup(t)

	resp, err := http.Get(ts.URL + "?session_id=nope")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
