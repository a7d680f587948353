package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/TikFlow/config"
	"github.com/Conte777/TikFlow/internal/domain/download/deps"
	"github.com/Conte777/TikFlow/internal/domain/download/entities"
	pkgerrors "github.com/Conte777/TikFlow/pkg/errors"
)

// maxResponseSize bounds resolver response bodies
const maxResponseSize = 1 << 20 // 1MB

// Chain tries an ordered list of resolver services until one yields a usable
// direct media URL. Implements deps.Resolver.
type Chain struct {
	descriptors []Descriptor
	client      *http.Client
	stats       deps.StatsRegistry
	timeout     time.Duration
	cooldown    time.Duration
	logger      zerolog.Logger
}

// NewChain creates the production resolver chain
func NewChain(cfg *config.ResolverConfig, stats deps.StatsRegistry, logger zerolog.Logger) *Chain {
	return newChain(DefaultDescriptors(), cfg.RequestTimeout, cfg.Cooldown, stats, logger)
}

func newChain(descriptors []Descriptor, timeout, cooldown time.Duration, stats deps.StatsRegistry, logger zerolog.Logger) *Chain {
	return &Chain{
		descriptors: descriptors,
		client:      &http.Client{Timeout: timeout},
		stats:       stats,
		timeout:     timeout,
		cooldown:    cooldown,
		logger:      logger,
	}
}

// Resolve iterates the descriptor list in order and returns the first usable
// resolution. Any per-descriptor failure advances the chain; exhaustion pauses
// for the cooldown and returns a ResolutionError.
func (c *Chain) Resolve(ctx context.Context, sourceURL string) (*entities.ResolvedMedia, error) {
	var lastErr error

	for _, d := range c.descriptors {
		c.stats.RecordResolverAttempt(d.Name)

		media, err := c.tryDescriptor(ctx, d, sourceURL)
		if err != nil {
			c.logger.Warn().
				Str("resolver", d.Name).
				Str("source_url", sourceURL).
				Err(err).
				Msg("Resolver failed, advancing to next")
			lastErr = err
			continue
		}

		c.stats.RecordResolverSuccess(d.Name)
		media.Resolver = d.Name

		c.logger.Info().
			Str("resolver", d.Name).
			Str("title", media.Title).
			Str("author", media.Author).
			Msg("Media resolved")

		return media, nil
	}

	c.logger.Error().
		Str("source_url", sourceURL).
		Int("resolvers_tried", len(c.descriptors)).
		Msg("All resolvers exhausted")

	// Short cooldown before surfacing the failure, so a burst of requests
	// against dead upstreams does not hammer them
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.cooldown):
	}

	return nil, pkgerrors.NewResolutionError(
		"could not resolve the video, it may be private, deleted or temporarily unavailable",
		lastErr,
	)
}

// tryDescriptor performs one resolution call against a single service
func (c *Chain) tryDescriptor(ctx context.Context, d Descriptor, sourceURL string) (*entities.ResolvedMedia, error) {
	endpoint, body := d.BuildRequest(sourceURL)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = strings.NewReader(body.Encode())
	}

	req, err := http.NewRequestWithContext(callCtx, d.Method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolver request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("resolver returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "json") {
		return nil, fmt.Errorf("resolver returned non-JSON content type %q", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read resolver response: %w", err)
	}

	media, err := d.Parse(data)
	if err != nil {
		return nil, err
	}

	if media.URL == "" {
		return nil, fmt.Errorf("resolver %s produced empty media URL", d.Name)
	}

	return media, nil
}
