package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/TikFlow/config"
	"github.com/Conte777/TikFlow/internal/domain/download/deps"
	"github.com/Conte777/TikFlow/internal/domain/download/entities"
	pkgerrors "github.com/Conte777/TikFlow/pkg/errors"
	"github.com/Conte777/TikFlow/pkg/retry"
)

// Sender runs the descending delivery strategy chain over the transport.
// Implements deps.MediaSender.
type Sender struct {
	transport      deps.Transport
	maxAttempts    int
	initialBackoff time.Duration
	logger         zerolog.Logger
}

// NewSender creates the delivery strategy chain
func NewSender(transport deps.Transport, cfg *config.DeliveryConfig, logger zerolog.Logger) *Sender {
	return &Sender{
		transport:      transport,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		logger:         logger,
	}
}

// Deliver tries each delivery profile in fixed order, with bounded retries
// per profile and a transport recovery attempt after any failure that looks
// like a wedged session. Later profiles drop caption fidelity to raise the
// odds of success; exhaustion surfaces a DeliveryError carrying the last
// underlying failure.
func (s *Sender) Deliver(ctx context.Context, chatID int64, asset *entities.FetchedAsset, caption string) error {
	var lastErr error

	for _, profile := range entities.DeliveryProfiles {
		opts := profile.Options(caption)

		_, err := retry.Do(ctx, s.maxAttempts, s.initialBackoff, func(ctx context.Context) (struct{}, error) {
			sendErr := s.transport.Send(ctx, chatID, asset, opts)
			if sendErr != nil {
				// Recovery runs right after the failing attempt, before the
				// next retry or profile gets a chance
				s.maybeRecover(ctx, sendErr)
				return struct{}{}, sendErr
			}
			return struct{}{}, nil
		})

		if err == nil {
			s.logger.Info().
				Int64("chat_id", chatID).
				Str("profile", profile.String()).
				Int64("size_bytes", asset.Size).
				Msg("Media delivered")
			return nil
		}

		lastErr = err
		s.logger.Warn().
			Int64("chat_id", chatID).
			Str("profile", profile.String()).
			Err(err).
			Msg("Delivery profile exhausted, degrading to next")
	}

	s.logger.Error().
		Int64("chat_id", chatID).
		Int("profiles_tried", len(entities.DeliveryProfiles)).
		Err(lastErr).
		Msg("All delivery profiles exhausted")

	return pkgerrors.NewDeliveryError(
		fmt.Sprintf("all %d delivery methods attempted without success: %v", len(entities.DeliveryProfiles), lastErr),
		lastErr,
	)
}

// maybeRecover runs a best-effort transport recovery when the failure
// signals an unhealthy session
func (s *Sender) maybeRecover(ctx context.Context, err error) {
	te, ok := pkgerrors.AsTransportError(err)
	if !ok || !te.SessionUnhealthy() {
		return
	}

	if recErr := s.transport.Recover(ctx); recErr != nil {
		s.logger.Warn().Err(recErr).Msg("Transport recovery aborted")
	}
}
