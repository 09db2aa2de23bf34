package logger

import (
	"github.com/Vladimir-spb/foodgram-backend/config"
	"go.uber.org/zap"
)

// New builds the application logger: JSON in production, console
// output everywhere else.
func New() (*zap.Logger, error) {
	if config.IsProduction() {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *zap.Logger {
	return zap.NewNop()
}
