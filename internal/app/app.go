// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/Conte777/TikFlow/config"
	"github.com/Conte777/TikFlow/internal/domain"
	"github.com/Conte777/TikFlow/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, telegram bot)
		infrastructure.Module,

		// Domain (download pipeline)
		domain.Module,
	)
}
