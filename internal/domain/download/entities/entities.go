// Package entities contains domain entities
package entities

import "time"

// ResolvedMedia is the output of a successful resolution. URL is never empty;
// when a resolver offers both an HD and a standard variant, URL already holds
// the preferred one.
type ResolvedMedia struct {
	URL          string
	Title        string
	Author       string
	ThumbnailURL string
	Duration     int
	PlayCount    int64
	Resolver     string
}

// FetchedAsset is a downloaded media asset persisted to the scratch directory
type FetchedAsset struct {
	Data     []byte
	Path     string
	Size     int64
	Filename string
}

// RequesterStats tracks per-requester counters
type RequesterStats struct {
	Downloads  int64
	Successful int64
	Failed     int64
	FirstSeen  time.Time
}

// ResolverStats tracks per-resolver counters
type ResolverStats struct {
	Attempts  int64
	Successes int64
}

// StatsSnapshot is an immutable copy of the registry aggregates
type StatsSnapshot struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	StartedAt          time.Time
	Resolvers          map[string]ResolverStats
	Requesters         map[int64]RequesterStats
}
