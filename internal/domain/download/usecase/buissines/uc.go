// Package buissines contains business logic for the download domain
package buissines

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/TikFlow/config"
	"github.com/Conte777/TikFlow/internal/domain/download/consts"
	"github.com/Conte777/TikFlow/internal/domain/download/deps"
	"github.com/Conte777/TikFlow/internal/domain/download/dto"
	"github.com/Conte777/TikFlow/internal/domain/download/entities"
	dlerrors "github.com/Conte777/TikFlow/internal/domain/download/errors"
	"github.com/Conte777/TikFlow/internal/domain/download/validator"
	pkgerrors "github.com/Conte777/TikFlow/pkg/errors"
)

// ProgressFunc reports pipeline stage transitions back to the requester
type ProgressFunc func(status string)

// UseCase orchestrates the download pipeline: validate, resolve, fetch,
// deliver, record. Statistics are updated exactly once per request no matter
// which stage fails.
type UseCase struct {
	resolver    deps.Resolver
	fetcher     deps.AssetFetcher
	sender      deps.MediaSender
	stats       deps.StatsRegistry
	deleteGrace time.Duration
	logger      zerolog.Logger
}

// NewUseCase creates a new UseCase instance
func NewUseCase(
	resolver deps.Resolver,
	fetcher deps.AssetFetcher,
	sender deps.MediaSender,
	stats deps.StatsRegistry,
	storageCfg *config.StorageConfig,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		resolver:    resolver,
		fetcher:     fetcher,
		sender:      sender,
		stats:       stats,
		deleteGrace: storageCfg.DeleteGrace,
		logger:      logger,
	}
}

// HandleDownload runs the full pipeline for one request. The returned
// response always carries a user-facing message; err is the underlying
// failure for logging and never propagates past the command handler.
func (uc *UseCase) HandleDownload(ctx context.Context, req *dto.DownloadRequest, progress ProgressFunc) (*dto.DownloadResponse, error) {
	uc.stats.RecordAttempt(req.RequesterID)

	logger := uc.logger.With().
		Str("request_id", req.RequestID).
		Int64("requester_id", req.RequesterID).
		Str("url", req.URL).
		Logger()

	logger.Info().Msg("Download request received")

	if req.URL == "" {
		uc.stats.RecordOutcome(req.RequesterID, false)
		return &dto.DownloadResponse{Message: userMessage(dlerrors.ErrEmptyLink)}, dlerrors.ErrEmptyLink
	}

	if !validator.IsSupported(req.URL) {
		uc.stats.RecordOutcome(req.RequesterID, false)
		return &dto.DownloadResponse{Message: userMessage(dlerrors.ErrUnsupportedLink)}, dlerrors.ErrUnsupportedLink
	}

	report(progress, "🔎 Resolving video link...")

	media, err := uc.resolver.Resolve(ctx, req.URL)
	if err != nil {
		logger.Error().Err(err).Msg("Resolution failed")
		uc.stats.RecordOutcome(req.RequesterID, false)
		return &dto.DownloadResponse{Message: userMessage(err)}, err
	}

	report(progress, "⬇️ Downloading media...")

	asset, err := uc.fetcher.Fetch(ctx, media.URL, media.Title)
	if err != nil {
		logger.Error().Err(err).Str("resolver", media.Resolver).Msg("Fetch failed")
		uc.stats.RecordOutcome(req.RequesterID, false)
		return &dto.DownloadResponse{Message: userMessage(err)}, err
	}

	report(progress, "📤 Sending video...")

	if err := uc.sender.Deliver(ctx, req.ChatID, asset, formatCaption(media)); err != nil {
		logger.Error().Err(err).Str("resolver", media.Resolver).Msg("Delivery failed")
		uc.stats.RecordOutcome(req.RequesterID, false)
		// The periodic sweeper reclaims the undelivered file later
		return &dto.DownloadResponse{Message: userMessage(err)}, err
	}

	uc.stats.RecordOutcome(req.RequesterID, true)
	uc.scheduleRemoval(asset)

	logger.Info().
		Str("resolver", media.Resolver).
		Int64("size_bytes", asset.Size).
		Msg("Download request completed")

	return &dto.DownloadResponse{
		Message:  "✅ Done! Enjoy your video.",
		Resolver: media.Resolver,
	}, nil
}

// scheduleRemoval deletes the delivered asset after a short grace period
func (uc *UseCase) scheduleRemoval(asset *entities.FetchedAsset) {
	time.AfterFunc(uc.deleteGrace, func() {
		uc.fetcher.Remove(asset)
	})
}

func report(progress ProgressFunc, status string) {
	if progress != nil {
		progress(status)
	}
}

// HandleHelp handles the !help command
func (uc *UseCase) HandleHelp(_ context.Context) (*dto.CommandResponse, error) {
	var b strings.Builder
	b.WriteString("📚 <b>TikFlow Bot</b>\n\nSend me a TikTok link and I will fetch the video for you.\n\n<b>Commands:</b>\n")

	for _, cmd := range consts.AllCommands {
		b.WriteString(fmt.Sprintf("<code>%s</code> - %s\n", cmd.Name, cmd.Description))
	}

	return &dto.CommandResponse{Message: b.String()}, nil
}

// HandleStats handles the !stats command
func (uc *UseCase) HandleStats(_ context.Context) (*dto.StatsResponse, error) {
	snap := uc.stats.Snapshot()

	resp := &dto.StatsResponse{
		TotalRequests:      snap.TotalRequests,
		SuccessfulRequests: snap.SuccessfulRequests,
		FailedRequests:     snap.FailedRequests,
		Uptime:             time.Since(snap.StartedAt),
		UniqueRequesters:   len(snap.Requesters),
	}

	for name, s := range snap.Resolvers {
		resp.Resolvers = append(resp.Resolvers, dto.ResolverReport{
			Name:      name,
			Attempts:  s.Attempts,
			Successes: s.Successes,
		})
	}
	sort.Slice(resp.Resolvers, func(i, j int) bool {
		return resp.Resolvers[i].Name < resp.Resolvers[j].Name
	})

	return resp, nil
}

// HandleMyStats handles the !mystats command
func (uc *UseCase) HandleMyStats(_ context.Context, requesterID int64) (*dto.MyStatsResponse, error) {
	snap := uc.stats.Snapshot()

	rec, ok := snap.Requesters[requesterID]
	if !ok {
		return nil, nil
	}

	return &dto.MyStatsResponse{
		Downloads:  rec.Downloads,
		Successful: rec.Successful,
		Failed:     rec.Failed,
		FirstSeen:  rec.FirstSeen,
	}, nil
}

// HandleInfo handles the !info command
func (uc *UseCase) HandleInfo(_ context.Context) (*dto.CommandResponse, error) {
	snap := uc.stats.Snapshot()

	message := fmt.Sprintf(`🤖 <b>TikFlow Bot</b>

Downloads TikTok videos without watermark and delivers them right here.

⏱ Uptime: %s
📈 Requests served: %d

Send <code>!t &lt;url&gt;</code> to get started.`,
		formatUptime(time.Since(snap.StartedAt)), snap.TotalRequests)

	return &dto.CommandResponse{Message: message}, nil
}

// formatCaption builds the delivered media caption from resolved metadata
func formatCaption(media *entities.ResolvedMedia) string {
	var b strings.Builder

	if media.Title != "" {
		b.WriteString(fmt.Sprintf("🎬 <b>%s</b>\n", media.Title))
	}
	if media.Author != "" {
		b.WriteString(fmt.Sprintf("👤 @%s\n", media.Author))
	}
	if media.Duration > 0 {
		b.WriteString(fmt.Sprintf("⏱ %ds\n", media.Duration))
	}
	if media.PlayCount > 0 {
		b.WriteString(fmt.Sprintf("▶️ %d plays\n", media.PlayCount))
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatUptime renders a duration as a compact human string
func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// userMessage maps a typed pipeline error to user-facing guidance
func userMessage(err error) string {
	switch {
	case errors.Is(err, dlerrors.ErrEmptyLink):
		return "ℹ️ Usage: <code>!t &lt;url&gt;</code>\n\nPaste a TikTok link after the command."

	case pkgerrors.IsValidationError(err):
		return "❌ That does not look like a TikTok link I can handle.\n\nSupported: video links, vm/vt short links and mobile links. Try <code>!help</code>."

	case pkgerrors.IsResolutionError(err):
		return "❌ Could not fetch this video. It may be private, deleted or temporarily unavailable. Please try again later."

	case pkgerrors.IsFetchError(err):
		return "❌ The downloaded file appears to be corrupted or incomplete. Please try again."

	case pkgerrors.IsDeliveryError(err):
		if te, ok := pkgerrors.AsTransportError(errors.Unwrap(err)); ok {
			switch te.Code() {
			case pkgerrors.FaultPayloadTooLarge:
				return "❌ The video is too large to send over this chat. Try a shorter video."
			case pkgerrors.FaultRateLimited:
				return "❌ I am being rate limited right now. Please wait a minute and try again."
			case pkgerrors.FaultTimeout, pkgerrors.FaultNetwork, pkgerrors.FaultSession:
				return "❌ The messaging connection is unstable at the moment. I tried every send method, please retry shortly."
			}
		}
		return fmt.Sprintf("❌ A technical error prevented delivery: %v", err)

	default:
		return "❌ Something went wrong while processing your request. Please try again."
	}
}
