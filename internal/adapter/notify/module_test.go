package notify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/gopherbistro/internal/config"
)

func TestNewPublisherSelection(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	publisher, err := newPublisher(publisherParams{Lifecycle: lc, Config: &config.Config{}, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := publisher.(*LogPublisher); !ok {
		t.Fatalf("expected log publisher, got %T", publisher)
	}

	publisher, err = newPublisher(publisherParams{
		Lifecycle: lc,
		Config:    &config.Config{NotifyWebhookURL: "http://example.com/hook"},
		Logger:    testLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := publisher.(*WebhookPublisher); !ok {
		t.Fatalf("expected webhook publisher, got %T", publisher)
	}
}

func TestNewPublisherNATS(t *testing.T) {
	conn := &connStub{}
	original := connect
	t.Cleanup(func() { connect = original })
	connect = func(url string) (Conn, error) {
		if url != "nats://broker:4222" {
			t.Fatalf("unexpected url %q", url)
		}
		return conn, nil
	}

	lc := fxtest.NewLifecycle(t)
	publisher, err := newPublisher(publisherParams{
		Lifecycle: lc,
		Config:    &config.Config{NATSURL: "nats://broker:4222", NotifyWebhookURL: "http://example.com"},
		Logger:    testLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := publisher.(*NATSPublisher); !ok {
		t.Fatalf("nats must win over webhook, got %T", publisher)
	}

	if err := lc.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := lc.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !conn.closed {
		t.Fatal("connection must be closed on stop")
	}

	connect = func(string) (Conn, error) { return nil, errors.New("no servers") }
	if _, err := newPublisher(publisherParams{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    &config.Config{NATSURL: "nats://broker:4222"},
		Logger:    testLogger(),
	}); err == nil {
		t.Fatal("expected connect error")
	}
}
