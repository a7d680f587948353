package telegram

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/TikFlow/config"
	"github.com/Conte777/TikFlow/internal/domain/download/entities"
	pkgerrors "github.com/Conte777/TikFlow/pkg/errors"
)

// sendTimeout bounds a single outbound media upload
const sendTimeout = 120 * time.Second

// Transport is the outbound messaging transport boundary over the Telegram
// Bot API. It classifies every send failure into a typed TransportError at
// the source, so the delivery chain never matches on message text.
// Implements deps.Transport.
type Transport struct {
	bot               *Bot
	recoveryPause     time.Duration
	postRecoveryPause time.Duration
	logger            zerolog.Logger
}

// NewTransport creates the transport boundary over the bot wrapper
func NewTransport(bot *Bot, cfg *config.DeliveryConfig, logger zerolog.Logger) *Transport {
	return &Transport{
		bot:               bot,
		recoveryPause:     cfg.RecoveryPause,
		postRecoveryPause: cfg.PostRecoveryPause,
		logger:            logger,
	}
}

// Send delivers the asset to a conversation using the given options
func (t *Transport) Send(ctx context.Context, chatID int64, asset *entities.FetchedAsset, opts entities.SendOptions) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	var err error
	if opts.AsDocument {
		_, err = t.bot.Raw().SendDocument(sendCtx, &tgbot.SendDocumentParams{
			ChatID:    chatID,
			Document:  &models.InputFileUpload{Filename: asset.Filename, Data: bytes.NewReader(asset.Data)},
			Caption:   opts.Caption,
			ParseMode: models.ParseModeHTML,
		})
	} else {
		_, err = t.bot.Raw().SendVideo(sendCtx, &tgbot.SendVideoParams{
			ChatID:    chatID,
			Video:     &models.InputFileUpload{Filename: asset.Filename, Data: bytes.NewReader(asset.Data)},
			Caption:   opts.Caption,
			ParseMode: models.ParseModeHTML,
		})
	}

	if err != nil {
		classified := classifySendError(err)
		t.logger.Warn().
			Int64("chat_id", chatID).
			Bool("as_document", opts.AsDocument).
			Int("fault_code", int(classified.Code())).
			Err(err).
			Msg("Transport send failed")
		return classified
	}

	return nil
}

// Recover attempts a best-effort revival of a wedged transport session:
// pause, probe the API session, pause again to let it settle
func (t *Transport) Recover(ctx context.Context) error {
	t.logger.Info().Msg("Attempting transport session recovery")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(t.recoveryPause):
	}

	if _, err := t.bot.Raw().GetMe(ctx); err != nil {
		t.logger.Warn().Err(err).Msg("Transport session probe failed during recovery")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(t.postRecoveryPause):
	}

	t.logger.Info().Msg("Transport session recovery finished")
	return nil
}

// classifySendError converts a raw Bot API error into a typed TransportError.
// API error text is only inspected here, at the boundary where it originates.
func classifySendError(err error) *pkgerrors.TransportError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return pkgerrors.NewTransportError(pkgerrors.FaultTimeout, "transport call timed out", err)

	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return pkgerrors.NewTransportError(pkgerrors.FaultTimeout, "transport call timed out", err)
		}
		return pkgerrors.NewTransportError(pkgerrors.FaultNetwork, "transport network failure", err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "Too Many Requests"):
		return pkgerrors.NewTransportError(pkgerrors.FaultRateLimited, "transport rate limit exceeded", err)

	case strings.Contains(msg, "Forbidden"), strings.Contains(msg, "chat not found"):
		return pkgerrors.NewTransportError(pkgerrors.FaultForbidden, "chat unavailable or bot blocked", err)

	case strings.Contains(msg, "Request Entity Too Large"), strings.Contains(msg, "file is too big"):
		return pkgerrors.NewTransportError(pkgerrors.FaultPayloadTooLarge, "payload exceeds transport limit", err)

	case strings.Contains(msg, "connection"), strings.Contains(msg, "EOF"):
		return pkgerrors.NewTransportError(pkgerrors.FaultSession, "transport session failure", err)

	default:
		return pkgerrors.NewTransportError(pkgerrors.FaultUnknown, "transport call failed", err)
	}
}
