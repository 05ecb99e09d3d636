package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

// TooManyRequestsError signals that the receiver asked us to back off.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Publisher delivers outbox events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evt model.Event) error
}

// envelope is the wire format shared by every publisher.
type envelope struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Attempt    int             `json:"attempt"`
	Payload    json.RawMessage `json:"payload"`
}

func encode(evt model.Event) ([]byte, error) {
	payload := evt.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return json.Marshal(envelope{
		EventID:    evt.UUID.String(),
		Type:       string(evt.Type),
		OccurredAt: evt.OccurredAt.UTC(),
		Attempt:    evt.Attempts,
		Payload:    payload,
	})
}

// LogPublisher writes events to the application log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs evt at info level.
func (p *LogPublisher) Publish(ctx context.Context, evt model.Event) error {
	body, err := encode(evt)
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "domain event",
		slog.String("event_id", evt.UUID.String()),
		slog.String("type", string(evt.Type)),
		slog.String("body", string(body)),
	)
	return nil
}
