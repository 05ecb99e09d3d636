package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/gopherbistro/internal/adapter/notify"
	"github.com/polkiloo/gopherbistro/internal/app"
	"github.com/polkiloo/gopherbistro/internal/catalog"
	"github.com/polkiloo/gopherbistro/internal/config"
	"github.com/polkiloo/gopherbistro/internal/logger"
	"github.com/polkiloo/gopherbistro/internal/pkg/auth"
	"github.com/polkiloo/gopherbistro/internal/server/http/router"
	"github.com/polkiloo/gopherbistro/internal/storage/cache"
	"github.com/polkiloo/gopherbistro/internal/storage/postgres"
	"github.com/polkiloo/gopherbistro/internal/usecase"
)

// Module assembles the application graph. Catalog seeding registers its start
// hook before the app module so the menu exists when the server starts.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		cache.Module,
		notify.Module,
		usecase.Module,
		catalog.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
