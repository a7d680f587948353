// Package telegram contains Telegram delivery for the download domain
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Conte777/TikFlow/internal/domain/download/dto"
	"github.com/Conte777/TikFlow/internal/domain/download/usecase/buissines"
)

// messageTimeout bounds a single text message send or edit
const messageTimeout = 30 * time.Second

// Handlers contains Telegram command handlers
type Handlers struct {
	uc     *buissines.UseCase
	bot    *tgbot.Bot
	logger zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *buissines.UseCase, bot *tgbot.Bot, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		bot:    bot,
		logger: logger,
	}
}

// HandleDownload handles the !t command and runs the full pipeline
func (h *Handlers) HandleDownload(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	defer h.recoverPanic("!t")

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	req := &dto.DownloadRequest{
		RequestID:   uuid.NewString(),
		RequesterID: userID,
		ChatID:      chatID,
		URL:         strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "!t")),
	}

	h.logCommand(userID, "!t", "processing")
	h.sendChatAction(ctx, chatID, models.ChatActionUploadVideo)

	// Progress message edited in place as the pipeline advances
	progressID := h.sendAndGetID(ctx, chatID, "⏳ Working on it...")
	progress := func(status string) {
		h.editResponse(ctx, chatID, progressID, status)
	}

	resp, err := h.uc.HandleDownload(ctx, req, progress)
	if err != nil {
		h.logError(userID, "!t", err)
	}

	if progressID != 0 {
		h.editResponse(ctx, chatID, progressID, resp.Message)
	} else {
		h.sendResponse(ctx, chatID, resp.Message)
	}

	if err == nil {
		h.logCommand(userID, "!t", "success")
	}
}

// HandleHelp handles the !help and !h commands
func (h *Handlers) HandleHelp(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	defer h.recoverPanic("!help")

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	resp, err := h.uc.HandleHelp(ctx)
	if err != nil {
		h.logError(userID, "!help", err)
		h.sendResponse(ctx, chatID, "❌ Failed to build the help message")
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(userID, "!help", "success")
}

// HandleStats handles the !stats command
func (h *Handlers) HandleStats(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	defer h.recoverPanic("!stats")

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	resp, err := h.uc.HandleStats(ctx)
	if err != nil {
		h.logError(userID, "!stats", err)
		h.sendResponse(ctx, chatID, "❌ Failed to collect statistics")
		return
	}

	h.sendResponse(ctx, chatID, formatStats(resp))
	h.logCommand(userID, "!stats", "success")
}

// HandleMyStats handles the !mystats command
func (h *Handlers) HandleMyStats(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	defer h.recoverPanic("!mystats")

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	resp, err := h.uc.HandleMyStats(ctx, userID)
	if err != nil {
		h.logError(userID, "!mystats", err)
		h.sendResponse(ctx, chatID, "❌ Failed to collect your statistics")
		return
	}

	if resp == nil {
		h.sendResponse(ctx, chatID, "📭 No downloads from you yet. Send <code>!t &lt;url&gt;</code> to start!")
		return
	}

	h.sendResponse(ctx, chatID, formatMyStats(resp))
	h.logCommand(userID, "!mystats", "success")
}

// HandleInfo handles the !info command
func (h *Handlers) HandleInfo(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	defer h.recoverPanic("!info")

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	resp, err := h.uc.HandleInfo(ctx)
	if err != nil {
		h.logError(userID, "!info", err)
		h.sendResponse(ctx, chatID, "❌ Failed to collect bot info")
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(userID, "!info", "success")
}

func formatStats(resp *dto.StatsResponse) string {
	var b strings.Builder

	b.WriteString("📊 <b>Bot statistics</b>\n\n")
	b.WriteString(fmt.Sprintf("Requests: %d (✅ %d / ❌ %d)\n", resp.TotalRequests, resp.SuccessfulRequests, resp.FailedRequests))
	b.WriteString(fmt.Sprintf("Unique users: %d\n", resp.UniqueRequesters))
	b.WriteString(fmt.Sprintf("Uptime: %s\n", resp.Uptime.Round(time.Second)))

	if len(resp.Resolvers) > 0 {
		b.WriteString("\n<b>Resolvers:</b>\n")
		for _, r := range resp.Resolvers {
			b.WriteString(fmt.Sprintf("• <code>%s</code>: %d/%d\n", r.Name, r.Successes, r.Attempts))
		}
	}

	return b.String()
}

func formatMyStats(resp *dto.MyStatsResponse) string {
	return fmt.Sprintf(`📈 <b>Your statistics</b>

Downloads: %d (✅ %d / ❌ %d)
First seen: %s`,
		resp.Downloads, resp.Successful, resp.Failed,
		resp.FirstSeen.Format("2006-01-02 15:04"))
}

func (h *Handlers) sendChatAction(ctx context.Context, chatID int64, action models.ChatAction) {
	msgCtx, cancel := context.WithTimeout(ctx, messageTimeout)
	defer cancel()

	_, err := h.bot.SendChatAction(msgCtx, &tgbot.SendChatActionParams{
		ChatID: chatID,
		Action: action,
	})
	if err != nil {
		h.logger.Warn().Int64("chat_id", chatID).Err(err).Msg("Failed to send chat action")
	}
}

func (h *Handlers) sendResponse(ctx context.Context, chatID int64, text string) {
	if id := h.sendAndGetID(ctx, chatID, text); id == 0 {
		h.logger.Error().Int64("chat_id", chatID).Msg("Failed to send Telegram response")
	}
}

func (h *Handlers) sendAndGetID(ctx context.Context, chatID int64, text string) int {
	msgCtx, cancel := context.WithTimeout(ctx, messageTimeout)
	defer cancel()

	msg, err := h.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Warn().Int64("chat_id", chatID).Err(err).Msg("Failed to send message")
		return 0
	}

	return msg.ID
}

func (h *Handlers) editResponse(ctx context.Context, chatID int64, messageID int, text string) {
	if messageID == 0 {
		return
	}

	msgCtx, cancel := context.WithTimeout(ctx, messageTimeout)
	defer cancel()

	_, err := h.bot.EditMessageText(msgCtx, &tgbot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Warn().Int64("chat_id", chatID).Int("message_id", messageID).Err(err).Msg("Failed to edit message")
	}
}

// recoverPanic keeps a handler panic from taking the whole bot down
func (h *Handlers) recoverPanic(command string) {
	if r := recover(); r != nil {
		h.logger.Error().Str("command", command).Interface("panic", r).Msg("Recovered from handler panic")
	}
}

// logCommand logs processed commands
func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Command processed")
}

// logError logs command errors
func (h *Handlers) logError(userID int64, command string, err error) {
	h.logger.Error().Int64("user_id", userID).Str("command", command).Err(err).Msg("Command failed")
}
