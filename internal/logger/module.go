package logger

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/gopherbistro/internal/config"
)

// Module wires slog logger for dependency injection.
var Module = fx.Provide(provide)

type params struct {
	fx.In

	Config *config.Config `optional:"true"`
}

func provide(p params) *slog.Logger {
	level := slog.LevelInfo
	if p.Config != nil {
		level = p.Config.LogLevel
	}
	return New(level)
}
