package buissines

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/TikFlow/config"
	"github.com/Conte777/TikFlow/internal/domain/download/dto"
	"github.com/Conte777/TikFlow/internal/domain/download/entities"
	"github.com/Conte777/TikFlow/internal/domain/download/repository/memory"
	pkgerrors "github.com/Conte777/TikFlow/pkg/errors"
)

type fakeResolver struct {
	media *entities.ResolvedMedia
	err   error
	calls int
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) (*entities.ResolvedMedia, error) {
	f.calls++
	return f.media, f.err
}

type fakeFetcher struct {
	asset   *entities.FetchedAsset
	err     error
	removed chan *entities.FetchedAsset
}

func (f *fakeFetcher) Fetch(_ context.Context, _, _ string) (*entities.FetchedAsset, error) {
	return f.asset, f.err
}

func (f *fakeFetcher) Remove(asset *entities.FetchedAsset) {
	if f.removed != nil {
		f.removed <- asset
	}
}

type fakeSender struct {
	err      error
	delivers int
	caption  string
}

func (f *fakeSender) Deliver(_ context.Context, _ int64, _ *entities.FetchedAsset, caption string) error {
	f.delivers++
	f.caption = caption
	return f.err
}

func newTestUseCase(resolver *fakeResolver, fetcher *fakeFetcher, sender *fakeSender, stats *memory.StatsRegistry) *UseCase {
	return NewUseCase(resolver, fetcher, sender, stats,
		&config.StorageConfig{DeleteGrace: 10 * time.Millisecond}, zerolog.Nop())
}

func downloadRequest(url string) *dto.DownloadRequest {
	return &dto.DownloadRequest{
		RequestID:   "req-1",
		RequesterID: 100,
		ChatID:      42,
		URL:         url,
	}
}

func TestHandleDownload_Success(t *testing.T) {
	asset := &entities.FetchedAsset{Data: make([]byte, 2<<20), Size: 2 << 20, Path: "/tmp/x", Filename: "x.mp4"}
	resolver := &fakeResolver{media: &entities.ResolvedMedia{
		URL: "https://cdn/x.mp4", Title: "Funny", Author: "bob", Resolver: "tikwm",
	}}
	fetcher := &fakeFetcher{asset: asset, removed: make(chan *entities.FetchedAsset, 1)}
	sender := &fakeSender{}
	stats := memory.NewStatsRegistry()

	uc := newTestUseCase(resolver, fetcher, sender, stats)

	var stages []string
	resp, err := uc.HandleDownload(context.Background(), downloadRequest("https://www.tiktok.com/@bob/video/42"),
		func(status string) { stages = append(stages, status) })

	require.NoError(t, err)
	require.Equal(t, "tikwm", resp.Resolver)
	require.Contains(t, resp.Message, "Done")
	require.Equal(t, 1, sender.delivers)
	require.Contains(t, sender.caption, "Funny")
	require.Contains(t, sender.caption, "@bob")
	require.Len(t, stages, 3)

	snap := stats.Snapshot()
	require.Equal(t, int64(1), snap.TotalRequests)
	require.Equal(t, int64(1), snap.SuccessfulRequests)
	require.Equal(t, int64(1), snap.Requesters[100].Successful)

	// Asset removal is scheduled after the grace period
	select {
	case removed := <-fetcher.removed:
		require.Same(t, asset, removed)
	case <-time.After(time.Second):
		t.Fatal("asset was not scheduled for removal")
	}
}

func TestHandleDownload_UnsupportedLink(t *testing.T) {
	resolver := &fakeResolver{}
	stats := memory.NewStatsRegistry()
	uc := newTestUseCase(resolver, &fakeFetcher{}, &fakeSender{}, stats)

	resp, err := uc.HandleDownload(context.Background(), downloadRequest("https://example.com/nope"), nil)

	require.Error(t, err)
	require.True(t, pkgerrors.IsValidationError(err))
	require.Contains(t, resp.Message, "TikTok link")

	// No network work happens for invalid links
	require.Zero(t, resolver.calls)

	snap := stats.Snapshot()
	require.Equal(t, int64(1), snap.TotalRequests)
	require.Equal(t, int64(1), snap.FailedRequests)
	require.Equal(t, int64(1), snap.Requesters[100].Failed)
}

func TestHandleDownload_EmptyLink(t *testing.T) {
	stats := memory.NewStatsRegistry()
	uc := newTestUseCase(&fakeResolver{}, &fakeFetcher{}, &fakeSender{}, stats)

	resp, err := uc.HandleDownload(context.Background(), downloadRequest(""), nil)

	require.Error(t, err)
	require.True(t, pkgerrors.IsValidationError(err))
	require.NotEmpty(t, resp.Message)
}

func TestHandleDownload_ResolutionFailure(t *testing.T) {
	resolver := &fakeResolver{err: pkgerrors.NewResolutionError("could not resolve", nil)}
	stats := memory.NewStatsRegistry()
	uc := newTestUseCase(resolver, &fakeFetcher{}, &fakeSender{}, stats)

	resp, err := uc.HandleDownload(context.Background(), downloadRequest("https://vm.tiktok.com/ABC123"), nil)

	require.Error(t, err)
	require.Contains(t, resp.Message, "private, deleted or temporarily unavailable")

	snap := stats.Snapshot()
	require.Equal(t, int64(1), snap.FailedRequests)
	require.Equal(t, int64(0), snap.SuccessfulRequests)
}

func TestHandleDownload_FetchFailure(t *testing.T) {
	resolver := &fakeResolver{media: &entities.ResolvedMedia{URL: "https://cdn/x.mp4", Resolver: "tikwm"}}
	fetcher := &fakeFetcher{err: pkgerrors.NewFetchError("too small", nil)}
	stats := memory.NewStatsRegistry()
	uc := newTestUseCase(resolver, fetcher, &fakeSender{}, stats)

	resp, err := uc.HandleDownload(context.Background(), downloadRequest("https://vm.tiktok.com/ABC123"), nil)

	require.Error(t, err)
	require.Contains(t, resp.Message, "corrupted")
	require.Equal(t, int64(1), stats.Snapshot().FailedRequests)
}

func TestHandleDownload_DeliveryFailureGuidance(t *testing.T) {
	tests := []struct {
		name     string
		cause    error
		contains string
	}{
		{
			name:     "payload too large",
			cause:    pkgerrors.NewTransportError(pkgerrors.FaultPayloadTooLarge, "payload exceeds transport limit", nil),
			contains: "too large",
		},
		{
			name:     "rate limited",
			cause:    pkgerrors.NewTransportError(pkgerrors.FaultRateLimited, "transport rate limit exceeded", nil),
			contains: "rate limited",
		},
		{
			name:     "unstable connection",
			cause:    pkgerrors.NewTransportError(pkgerrors.FaultTimeout, "transport call timed out", nil),
			contains: "unstable",
		},
		{
			name:     "unknown transport fault",
			cause:    pkgerrors.NewTransportError(pkgerrors.FaultUnknown, "transport call failed", nil),
			contains: "technical error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{media: &entities.ResolvedMedia{URL: "https://cdn/x.mp4", Resolver: "tikwm"}}
			fetcher := &fakeFetcher{asset: &entities.FetchedAsset{Size: 2048}}
			sender := &fakeSender{err: pkgerrors.NewDeliveryError("all 4 delivery methods attempted without success", tt.cause)}
			stats := memory.NewStatsRegistry()

			uc := newTestUseCase(resolver, fetcher, sender, stats)

			resp, err := uc.HandleDownload(context.Background(), downloadRequest("https://vm.tiktok.com/ABC123"), nil)
			require.Error(t, err)
			require.Contains(t, resp.Message, tt.contains)
			require.Equal(t, int64(1), stats.Snapshot().FailedRequests)
		})
	}
}

func TestHandleStats(t *testing.T) {
	stats := memory.NewStatsRegistry()
	stats.RecordAttempt(100)
	stats.RecordOutcome(100, true)
	stats.RecordResolverAttempt("tikwm")
	stats.RecordResolverSuccess("tikwm")
	stats.RecordResolverAttempt("tiklydown")

	uc := newTestUseCase(&fakeResolver{}, &fakeFetcher{}, &fakeSender{}, stats)

	resp, err := uc.HandleStats(context.Background())
	require.NoError(t, err)

	require.Equal(t, int64(1), resp.TotalRequests)
	require.Equal(t, int64(1), resp.SuccessfulRequests)
	require.Equal(t, 1, resp.UniqueRequesters)
	require.Len(t, resp.Resolvers, 2)
	// Sorted by name for stable output
	require.Equal(t, "tiklydown", resp.Resolvers[0].Name)
	require.Equal(t, "tikwm", resp.Resolvers[1].Name)
}

func TestHandleMyStats_UnknownRequester(t *testing.T) {
	uc := newTestUseCase(&fakeResolver{}, &fakeFetcher{}, &fakeSender{}, memory.NewStatsRegistry())

	resp, err := uc.HandleMyStats(context.Background(), 999)
	require.NoError(t, err)
	require.Nil(t, resp)
}

func TestHandleMyStats_KnownRequester(t *testing.T) {
	stats := memory.NewStatsRegistry()
	stats.RecordAttempt(100)
	stats.RecordOutcome(100, true)

	uc := newTestUseCase(&fakeResolver{}, &fakeFetcher{}, &fakeSender{}, stats)

	resp, err := uc.HandleMyStats(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Downloads)
	require.Equal(t, int64(1), resp.Successful)
	require.False(t, resp.FirstSeen.IsZero())
}

func TestHandleHelp_ListsCommands(t *testing.T) {
	uc := newTestUseCase(&fakeResolver{}, &fakeFetcher{}, &fakeSender{}, memory.NewStatsRegistry())

	resp, err := uc.HandleHelp(context.Background())
	require.NoError(t, err)
	require.Contains(t, resp.Message, "!t")
	require.Contains(t, resp.Message, "!stats")
	require.Contains(t, resp.Message, "!mystats")
	require.Contains(t, resp.Message, "!info")
}

func TestFormatCaption(t *testing.T) {
	caption := formatCaption(&entities.ResolvedMedia{
		Title:     "Funny",
		Author:    "alice",
		Duration:  17,
		PlayCount: 12345,
	})

	require.Contains(t, caption, "Funny")
	require.Contains(t, caption, "@alice")
	require.Contains(t, caption, "17s")
	require.Contains(t, caption, "12345")
}

func TestFormatCaption_SkipsEmptyFields(t *testing.T) {
	caption := formatCaption(&entities.ResolvedMedia{Title: "Only title"})
	require.Equal(t, "🎬 <b>Only title</b>", caption)
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"minutes only", 5 * time.Minute, "5m"},
		{"hours and minutes", 3*time.Hour + 20*time.Minute, "3h 20m"},
		{"days", 49*time.Hour + 5*time.Minute, "2d 1h 5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, formatUptime(tt.d))
		})
	}
}
