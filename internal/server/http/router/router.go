package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gopherbistro/internal/config"
	"github.com/polkiloo/gopherbistro/internal/server/http/handlers"
	"github.com/polkiloo/gopherbistro/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.BistroFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	accounts := handlers.NewAccountHandler(facade)
	catalog := handlers.NewCatalogHandler(facade)
	orders := handlers.NewOrderHandler(facade)
	reservations := handlers.NewReservationHandler(facade)
	rewards := handlers.NewRewardHandler(facade)
	staff := handlers.NewStaffHandler(facade)

	requireAuth := middleware.AuthRequired(facade)
	optionalAuth := middleware.OptionalAuth(facade)

	api := engine.Group("/api")
	api.GET("/geofence", catalog.Geofence)
	api.GET("/menu", catalog.Menu)
	api.GET("/rewards", rewards.List)

	account := api.Group("/accounts")
	account.POST("/register", accounts.Register)
	account.POST("/login", accounts.Login)
	me := account.Group("/me", requireAuth)
	me.GET("", accounts.Profile)
	me.GET("/ledger", accounts.Ledger)
	me.GET("/redemptions", rewards.Redemptions)

	api.POST("/orders", optionalAuth, orders.Place)
	api.GET("/orders", requireAuth, orders.List)
	api.GET("/orders/:id", optionalAuth, orders.Get)
	api.POST("/orders/:id/cancel", requireAuth, orders.Cancel)

	api.POST("/reservations", optionalAuth, reservations.Create)
	api.GET("/reservations", requireAuth, reservations.List)
	api.GET("/reservations/:id", optionalAuth, reservations.Get)
	api.POST("/reservations/:id/cancel", optionalAuth, reservations.Cancel)

	api.POST("/rewards/:id/redeem", requireAuth, rewards.Redeem)

	staffAPI := api.Group("/staff", middleware.StaffRequired(cfg.StaffAPIKey))
	staffAPI.POST("/orders/:id/status", staff.AdvanceOrder)
	staffAPI.POST("/orders/:id/complete", staff.CompleteOrder)
	staffAPI.POST("/orders/:id/cancel", staff.CancelOrder)
	staffAPI.POST("/reservations/:id/confirm", staff.ConfirmReservation)
	staffAPI.PATCH("/rewards/:id", staff.UpdateReward)

	return engine
}
