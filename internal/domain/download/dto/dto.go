// Package dto contains data transfer objects for the download domain
package dto

import "time"

// DownloadRequest represents a request to run the full download pipeline
type DownloadRequest struct {
	RequestID   string `json:"requestId"`
	RequesterID int64  `json:"requesterId"`
	ChatID      int64  `json:"chatId"`
	URL         string `json:"url"`
}

// DownloadResponse represents the outcome reported back to the requester
type DownloadResponse struct {
	Message  string `json:"message"`
	Resolver string `json:"resolver,omitempty"`
}

// CommandResponse represents a response for read-only bot commands
type CommandResponse struct {
	Message string `json:"message"`
}

// StatsResponse represents a response for the !stats command
type StatsResponse struct {
	TotalRequests      int64            `json:"totalRequests"`
	SuccessfulRequests int64            `json:"successfulRequests"`
	FailedRequests     int64            `json:"failedRequests"`
	Uptime             time.Duration    `json:"uptime"`
	UniqueRequesters   int              `json:"uniqueRequesters"`
	Resolvers          []ResolverReport `json:"resolvers"`
}

// ResolverReport represents one resolver's counters in !stats output
type ResolverReport struct {
	Name      string `json:"name"`
	Attempts  int64  `json:"attempts"`
	Successes int64  `json:"successes"`
}

// MyStatsResponse represents a response for the !mystats command
type MyStatsResponse struct {
	Downloads  int64     `json:"downloads"`
	Successful int64     `json:"successful"`
	Failed     int64     `json:"failed"`
	FirstSeen  time.Time `json:"firstSeen"`
}
