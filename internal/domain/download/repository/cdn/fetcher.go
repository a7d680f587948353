// Package cdn contains the asset fetcher for resolved media URLs
package cdn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/TikFlow/config"
	"github.com/Conte777/TikFlow/internal/domain/download/entities"
	pkgerrors "github.com/Conte777/TikFlow/pkg/errors"
)

// Browser-like headers; many resolver CDNs gate on UA and referer
const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	referer   = "https://www.tiktok.com/"
)

// Fetcher downloads resolved media into the scratch directory.
// Implements deps.AssetFetcher.
type Fetcher struct {
	client  *http.Client
	dir     string
	minSize int64
	logger  zerolog.Logger
}

// NewFetcher creates a fetcher and ensures the scratch directory exists
func NewFetcher(cfg *config.StorageConfig, logger zerolog.Logger) (*Fetcher, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download directory %s: %w", cfg.Dir, err)
	}

	return &Fetcher{
		client:  &http.Client{Timeout: cfg.FetchTimeout},
		dir:     cfg.Dir,
		minSize: cfg.MinAssetSize,
		logger:  logger,
	}, nil
}

// Fetch streams mediaURL to local storage under a name derived from the
// sanitized title plus a timestamp. Bodies under the minimum plausible size
// are rejected as placeholder responses masquerading as media.
func (f *Fetcher) Fetch(ctx context.Context, mediaURL, title string) (*entities.FetchedAsset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, pkgerrors.NewFetchError("build download request", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)
	// Open-ended byte range to support resumable/streamed transfer
	req.Header.Set("Range", "bytes=0-")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pkgerrors.NewFetchError("download request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, pkgerrors.NewFetchError(fmt.Sprintf("CDN returned status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.NewFetchError("read media body", err)
	}

	size := int64(len(data))
	if size < f.minSize {
		return nil, pkgerrors.NewFetchError(
			fmt.Sprintf("downloaded file is implausibly small (%d bytes), likely corrupted", size), nil)
	}

	filename := fmt.Sprintf("%s_%d.mp4", sanitizeTitle(title), time.Now().UnixMilli())
	path := filepath.Join(f.dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, pkgerrors.NewFetchError("persist media to scratch directory", err)
	}

	f.logger.Info().
		Str("filename", filename).
		Int64("size_bytes", size).
		Msg("Media downloaded")

	return &entities.FetchedAsset{
		Data:     data,
		Path:     path,
		Size:     size,
		Filename: filename,
	}, nil
}

// Remove deletes the asset file, tolerating absence; deletion is best-effort
// and never fails the pipeline
func (f *Fetcher) Remove(asset *entities.FetchedAsset) {
	if asset == nil || asset.Path == "" {
		return
	}

	if err := os.Remove(asset.Path); err != nil && !os.IsNotExist(err) {
		f.logger.Warn().Str("path", asset.Path).Err(err).Msg("Failed to delete asset file")
		return
	}

	f.logger.Debug().Str("path", asset.Path).Msg("Asset file deleted")
}

// sanitizeTitle reduces a media title to a safe filename stem
func sanitizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "video"
	}

	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}

	stem := strings.Trim(b.String(), "_")
	if stem == "" {
		return "video"
	}

	const maxStem = 50
	if len(stem) > maxStem {
		stem = stem[:maxStem]
	}

	return stem
}
