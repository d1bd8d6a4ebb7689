package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pitchside/matchday/internal/platform/resilience"
	"github.com/pitchside/matchday/internal/usecase"
)

const (
	defaultDispatchTimeout = 10 * time.Second
	defaultWorkerPoolSize  = 8
)

type WebhookDispatcherConfig struct {
	Endpoint   string
	SigningKey string
	Timeout    time.Duration
	Retries    int
	Workers    int
	Breaker    resilience.CircuitBreakerConfig
}

// WebhookDispatcher delivers lifecycle events to a configured webhook
// endpoint. Delivery happens on a bounded worker pool so callers never
// block on the network, and failures are logged rather than returned.
type WebhookDispatcher struct {
	client     *http.Client
	endpoint   string
	signingKey string
	retries    int
	breaker    *resilience.CircuitBreaker
	pool       *ants.Pool
	logger     *slog.Logger
}

func NewWebhookDispatcher(cfg WebhookDispatcherConfig, logger *slog.Logger) (*WebhookDispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, crerr.New("webhook endpoint is required")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, crerr.Newf("webhook endpoint must be an http(s) URL: %s", endpoint)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = defaultWorkerPoolSize
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, crerr.Wrap(err, "create dispatch worker pool")
	}

	var breaker *resilience.CircuitBreaker
	if cfg.Breaker.Enabled {
		normalized := resilience.NormalizeCircuitBreakerConfig(cfg.Breaker)
		breaker = resilience.NewCircuitBreaker(normalized.FailureThreshold, normalized.OpenTimeout, normalized.HalfOpenMaxReq)
	}

	return &WebhookDispatcher{
		client:     &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		signingKey: strings.TrimSpace(cfg.SigningKey),
		retries:    cfg.Retries,
		breaker:    breaker,
		pool:       pool,
		logger:     logger,
	}, nil
}

// Dispatch hands the event to the worker pool and returns immediately.
// The detached context keeps tracing metadata while outliving the
// originating request.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event usecase.Event) {
	detached := context.WithoutCancel(ctx)

	err := d.pool.Submit(func() {
		d.deliver(detached, event)
	})
	if err != nil {
		d.logger.WarnContext(ctx, "webhook dispatch dropped, worker pool saturated",
			"event_type", event.Type,
			"match_id", event.MatchID,
		)
	}
}

// Close drains the worker pool. Call on shutdown.
func (d *WebhookDispatcher) Close() {
	d.pool.Release()
}

func (d *WebhookDispatcher) deliver(ctx context.Context, event usecase.Event) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := encodeEvent(buf, event); err != nil {
		d.logger.ErrorContext(ctx, "webhook payload encoding failed",
			"event_type", event.Type,
			"match_id", event.MatchID,
			"error", err,
		)
		return
	}
	body := buf.Bytes()

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.endpoint", d.endpoint),
			attribute.String("webhook.event_type", event.Type),
			attribute.String("webhook.match_id", event.MatchID),
		)
	}

	var err error
	attempts := d.retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if d.breaker != nil {
			if err := d.breaker.Allow(); err != nil {
				d.logger.WarnContext(ctx, "webhook delivery skipped, circuit open",
					"event_type", event.Type,
					"match_id", event.MatchID,
				)
				return
			}
		}

		err = d.post(ctx, event, body)
		if d.breaker != nil {
			if err != nil {
				d.breaker.RecordFailure()
			} else {
				d.breaker.RecordSuccess()
			}
		}
		if err == nil {
			d.logger.InfoContext(ctx, "webhook delivered",
				"event_type", event.Type,
				"match_id", event.MatchID,
				"attempt", attempt,
			)
			return
		}

		d.logger.WarnContext(ctx, "webhook delivery attempt failed",
			"event_type", event.Type,
			"match_id", event.MatchID,
			"attempt", attempt,
			"error", err,
		)
	}
}

func (d *WebhookDispatcher) post(ctx context.Context, event usecase.Event, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return crerr.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Matchday-Event", event.Type)
	if d.signingKey != "" {
		req.Header.Set("X-Matchday-Signature", signPayload(d.signingKey, body))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return crerr.Wrap(err, "post webhook")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return crerr.Newf("webhook delivery status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return nil
}

type eventEnvelope struct {
	Type       string         `json:"type"`
	MatchID    string         `json:"match_id"`
	TeamIDs    []string       `json:"team_ids"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// encodeEvent streams the envelope into the pooled buffer. The caller owns
// the buffer for the lifetime of the delivery and returns it to the pool.
func encodeEvent(buf *bytebufferpool.ByteBuffer, event usecase.Event) error {
	envelope := eventEnvelope{
		Type:       event.Type,
		MatchID:    event.MatchID,
		TeamIDs:    event.TeamIDs,
		OccurredAt: event.OccurredAt,
		Payload:    event.Payload,
	}

	return sonic.ConfigDefault.NewEncoder(buf).Encode(envelope)
}

func signPayload(key string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
