package notify

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/pitchside/matchday/internal/usecase"
)

func TestWebhookDispatcher_DeliversSignedEvent(t *testing.T) {
	t.Parallel()

	received := make(chan *http.Request, 1)
	bodies := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- r
		bodies <- body
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher, err := NewWebhookDispatcher(WebhookDispatcherConfig{
		Endpoint:   srv.URL,
		SigningKey: "hook-secret",
	}, logger)
	if err != nil {
		t.Fatalf("create dispatcher: %v", err)
	}
	defer dispatcher.Close()

	occurred := time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)
	dispatcher.Dispatch(context.Background(), usecase.Event{
		Type:       usecase.EventMatchConfirmed,
		MatchID:    "match-1",
		TeamIDs:    []string{"idn-garuda-fc", "idn-rajawali-sc"},
		OccurredAt: occurred,
		Payload:    map[string]any{"opponent_team_id": "idn-rajawali-sc"},
	})

	select {
	case req := <-received:
		if got := req.Header.Get("X-Matchday-Event"); got != usecase.EventMatchConfirmed {
			t.Fatalf("unexpected event header: %s", got)
		}
		body := <-bodies
		if want := signPayload("hook-secret", body); req.Header.Get("X-Matchday-Signature") != want {
			t.Fatalf("signature mismatch: got %s want %s", req.Header.Get("X-Matchday-Signature"), want)
		}

		var decoded eventEnvelope
		if err := sonic.Unmarshal(body, &decoded); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if decoded.MatchID != "match-1" {
			t.Fatalf("unexpected match id: %s", decoded.MatchID)
		}
		if len(decoded.TeamIDs) != 2 {
			t.Fatalf("expected both team ids, got %v", decoded.TeamIDs)
		}
		if !decoded.OccurredAt.Equal(occurred) {
			t.Fatalf("unexpected occurred_at: %s", decoded.OccurredAt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was never delivered")
	}
}

func TestWebhookDispatcher_RetriesFailedDelivery(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	calls := 0
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		current := calls
		mu.Unlock()

		if current == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		close(done)
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher, err := NewWebhookDispatcher(WebhookDispatcherConfig{
		Endpoint: srv.URL,
		Retries:  2,
	}, logger)
	if err != nil {
		t.Fatalf("create dispatcher: %v", err)
	}
	defer dispatcher.Close()

	dispatcher.Dispatch(context.Background(), usecase.Event{
		Type:    usecase.EventMatchCancelled,
		MatchID: "match-1",
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery was never retried to success")
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Fatalf("expected 2 delivery attempts, got %d", calls)
	}
}

func TestEncodeEvent_StreamsIntoBuffer(t *testing.T) {
	t.Parallel()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	err := encodeEvent(buf, usecase.Event{
		Type:    usecase.EventRulesConfirmed,
		MatchID: "match-1",
		TeamIDs: []string{"idn-garuda-fc"},
	})
	if err != nil {
		t.Fatalf("encode event: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected envelope bytes in the buffer")
	}

	var decoded eventEnvelope
	if err := sonic.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if decoded.Type != usecase.EventRulesConfirmed || decoded.MatchID != "match-1" {
		t.Fatalf("unexpected envelope: %+v", decoded)
	}
}

func TestNewWebhookDispatcher_RejectsMissingEndpoint(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := NewWebhookDispatcher(WebhookDispatcherConfig{}, logger); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
	if _, err := NewWebhookDispatcher(WebhookDispatcherConfig{Endpoint: "ftp://hooks"}, logger); err == nil {
		t.Fatal("expected error for non-http endpoint")
	}
}
