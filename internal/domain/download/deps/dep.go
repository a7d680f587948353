// Package deps contains interface definitions for the download domain dependencies
package deps

import (
	"context"

	"github.com/Conte777/TikFlow/internal/domain/download/entities"
)

// Resolver resolves a source link into a direct media URL by trying an
// ordered chain of external resolver services
type Resolver interface {
	// Resolve returns the first usable resolution, or a ResolutionError
	// after every service has been tried
	Resolve(ctx context.Context, sourceURL string) (*entities.ResolvedMedia, error)
}

// AssetFetcher downloads a resolved media URL into the scratch directory
type AssetFetcher interface {
	// Fetch streams the media body to local storage, rejecting bodies under
	// the minimum plausible size with a FetchError
	Fetch(ctx context.Context, mediaURL, title string) (*entities.FetchedAsset, error)

	// Remove deletes a previously fetched asset, tolerating absence
	Remove(asset *entities.FetchedAsset)
}

// Transport is the outbound messaging transport boundary. Send failures are
// returned as TransportError values classified with a fault code at the
// source, never inferred from message text downstream.
type Transport interface {
	// Send delivers the asset to a conversation using the given options
	Send(ctx context.Context, chatID int64, asset *entities.FetchedAsset, opts entities.SendOptions) error

	// Recover attempts a best-effort revival of a wedged transport session
	Recover(ctx context.Context) error
}

// MediaSender runs the descending delivery strategy chain over a Transport
type MediaSender interface {
	// Deliver tries each delivery profile in fixed order and returns on the
	// first success, or a DeliveryError once all profiles are exhausted
	Deliver(ctx context.Context, chatID int64, asset *entities.FetchedAsset, caption string) error
}

// StatsRegistry is the process-wide statistics registry
type StatsRegistry interface {
	// RecordAttempt registers one inbound download request for a requester
	RecordAttempt(requesterID int64)

	// RecordOutcome registers the final outcome of a request
	RecordOutcome(requesterID int64, success bool)

	// RecordResolverAttempt registers one resolution attempt for a resolver
	RecordResolverAttempt(name string)

	// RecordResolverSuccess registers one successful resolution for a resolver
	RecordResolverSuccess(name string)

	// Snapshot returns an immutable copy of all aggregates
	Snapshot() entities.StatsSnapshot
}
