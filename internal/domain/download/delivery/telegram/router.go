package telegram

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/rs/zerolog"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all command handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	// Bare "!t" gets the usage hint through the pipeline's empty-link path
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "!t", tgbot.MatchTypeExact, r.handlers.HandleDownload)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "!t ", tgbot.MatchTypePrefix, r.handlers.HandleDownload)

	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "!help", tgbot.MatchTypeExact, r.handlers.HandleHelp)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "!h", tgbot.MatchTypeExact, r.handlers.HandleHelp)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "!stats", tgbot.MatchTypeExact, r.handlers.HandleStats)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "!mystats", tgbot.MatchTypeExact, r.handlers.HandleMyStats)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "!info", tgbot.MatchTypeExact, r.handlers.HandleInfo)

	r.logger.Info().Msg("All Telegram command handlers registered successfully")
}
