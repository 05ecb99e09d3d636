package notify

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/polkiloo/gopherbistro/internal/config"
)

// Module exposes the configured event publisher to the fx graph.
var Module = fx.Provide(newPublisher)

var connect = func(url string) (Conn, error) {
	return nats.Connect(url, nats.Name("gopherbistro"), nats.MaxReconnects(-1))
}

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

// newPublisher prefers NATS, then the webhook, and falls back to logging.
func newPublisher(p publisherParams) (Publisher, error) {
	switch {
	case p.Config.NATSURL != "":
		conn, err := connect(p.Config.NATSURL)
		if err != nil {
			return nil, err
		}
		publisher := NewNATSPublisher(conn)
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				publisher.Close()
				return nil
			},
		})
		p.Logger.Info("publishing domain events to nats", slog.String("url", p.Config.NATSURL))
		return publisher, nil
	case p.Config.NotifyWebhookURL != "":
		return NewWebhookPublisher(p.Config.NotifyWebhookURL, p.Logger)
	default:
		return NewLogPublisher(p.Logger), nil
	}
}
