package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/gopherbistro/internal/adapter/notify"
	"github.com/polkiloo/gopherbistro/internal/config"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
	"github.com/polkiloo/gopherbistro/internal/pkg/geo"
	"github.com/polkiloo/gopherbistro/internal/server/http/handlers"
	"github.com/polkiloo/gopherbistro/internal/usecase"
	"github.com/polkiloo/gopherbistro/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newBistroFacade,
		func(f *BistroFacade) handlers.BistroFacade { return f },
		newHTTPServer,
		newOutboxDispatcher,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Auth         *usecase.AuthUseCase
	Ledger       *usecase.LedgerUseCase
	Orders       *usecase.OrderUseCase
	Reservations *usecase.ReservationUseCase
	Redemptions  *usecase.RedemptionUseCase
	Outbox       *usecase.OutboxUseCase
	Menu         repository.MenuCatalog
	Zone         geo.Zone
	Publisher    notify.Publisher
}

func newBistroFacade(p facadeParams) *BistroFacade {
	return NewBistroFacade(FacadeDeps{
		Auth:         p.Auth,
		Ledger:       p.Ledger,
		Orders:       p.Orders,
		Reservations: p.Reservations,
		Redemptions:  p.Redemptions,
		Outbox:       p.Outbox,
		Menu:         p.Menu,
		Zone:         p.Zone,
		Publisher:    p.Publisher,
	})
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *BistroFacade
	Config *config.Config
	Logger *slog.Logger
}

func newOutboxDispatcher(p workerParams) *worker.OutboxDispatcher {
	return worker.NewOutboxDispatcher(
		p.Facade,
		p.Config.OutboxPollInterval,
		p.Config.OutboxBatchSize,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.OutboxDispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting gopherbistro", slog.String("addr", p.Server.Addr))
			// the start context expires once fx finishes starting; the dispatcher must outlive it
			p.Dispatcher.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Dispatcher.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("gopherbistro stopped")
			return nil
		},
	})
}
