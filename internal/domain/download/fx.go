// Package download contains the video download domain module
package download

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/TikFlow/config"
	telegramDelivery "github.com/Conte777/TikFlow/internal/domain/download/delivery/telegram"
	"github.com/Conte777/TikFlow/internal/domain/download/deps"
	"github.com/Conte777/TikFlow/internal/domain/download/repository/cdn"
	"github.com/Conte777/TikFlow/internal/domain/download/repository/memory"
	"github.com/Conte777/TikFlow/internal/domain/download/repository/resolver"
	"github.com/Conte777/TikFlow/internal/domain/download/usecase/buissines"
	"github.com/Conte777/TikFlow/internal/domain/download/workers"
	"github.com/Conte777/TikFlow/internal/infrastructure/telegram"
)

// Module provides download domain components for fx dependency injection
var Module = fx.Module("download",
	// Repository
	fx.Provide(provideStatsRegistry),
	fx.Provide(provideResolver),
	fx.Provide(provideFetcher),

	// Delivery
	fx.Provide(provideMediaSender),
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// UseCase
	fx.Provide(buissines.NewUseCase),

	// Workers
	workers.Module,

	// Register routes and shutdown reporting
	fx.Invoke(registerRoutes),
	fx.Invoke(registerStatsReport),
)

func provideStatsRegistry() deps.StatsRegistry {
	return memory.NewStatsRegistry()
}

func provideResolver(cfg *config.ResolverConfig, stats deps.StatsRegistry, logger zerolog.Logger) deps.Resolver {
	return resolver.NewChain(cfg, stats, logger)
}

func provideFetcher(cfg *config.StorageConfig, logger zerolog.Logger) (deps.AssetFetcher, error) {
	return cdn.NewFetcher(cfg, logger)
}

func provideMediaSender(transport deps.Transport, cfg *config.DeliveryConfig, logger zerolog.Logger) deps.MediaSender {
	return telegramDelivery.NewSender(transport, cfg, logger)
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(uc *buissines.UseCase, bot *telegram.Bot, logger zerolog.Logger) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), logger)
}

// registerRoutes registers Telegram command routes on the raw bot
func registerRoutes(router *telegramDelivery.Router, bot *telegram.Bot) {
	router.RegisterRoutes(bot.Raw())
}

// registerStatsReport logs a final statistics summary on shutdown
func registerStatsReport(lc fx.Lifecycle, stats deps.StatsRegistry, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			snap := stats.Snapshot()
			logger.Info().
				Int64("total_requests", snap.TotalRequests).
				Int64("successful", snap.SuccessfulRequests).
				Int64("failed", snap.FailedRequests).
				Int("unique_requesters", len(snap.Requesters)).
				Msg("Final download statistics")
			return nil
		},
	})
}
