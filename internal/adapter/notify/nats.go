package notify

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

const subjectPrefix = "bistro."

// Conn is the subset of *nats.Conn used for publishing.
type Conn interface {
	PublishMsg(m *nats.Msg) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes events on bistro.<event type> subjects.
type NATSPublisher struct {
	conn Conn
}

// NewNATSPublisher wraps an established connection.
func NewNATSPublisher(conn Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// Publish sends evt and waits for the server to acknowledge the flush so a
// dispatched event is never acked while still sitting in the client buffer.
func (p *NATSPublisher) Publish(ctx context.Context, evt model.Event) error {
	body, err := encode(evt)
	if err != nil {
		return err
	}
	msg := nats.NewMsg(Subject(evt.Type))
	msg.Data = body
	msg.Header.Set(nats.MsgIdHdr, evt.UUID.String())

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}
	return nil
}

// Close releases the connection.
func (p *NATSPublisher) Close() {
	p.conn.Close()
}

// Subject maps an event type to its NATS subject.
func Subject(t model.EventType) string {
	return subjectPrefix + string(t)
}
