package catalog

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/gopherbistro/internal/config"
)

// Module seeds the catalog at startup when a catalog file is configured.
var Module = fx.Options(
	fx.Provide(NewSeeder),
	fx.Invoke(seedOnStart),
)

type seedParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Seeder    *Seeder
	Logger    *slog.Logger
}

func seedOnStart(p seedParams) {
	if p.Config.CatalogFile == "" {
		return
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			f, err := Load(p.Config.CatalogFile)
			if err != nil {
				return err
			}
			if err := p.Seeder.Apply(ctx, f); err != nil {
				return err
			}
			p.Logger.Info("catalog seeded",
				slog.String("file", p.Config.CatalogFile),
				slog.Int("menu_items", len(f.Menu)),
				slog.Int("rewards", len(f.Rewards)),
			)
			return nil
		},
	})
}
