// Package memory contains in-memory repositories for the download domain
package memory

import (
	"sync"
	"time"

	"github.com/Conte777/TikFlow/internal/domain/download/entities"
)

// StatsRegistry is the process-wide statistics registry. All state is
// in-memory and reset on restart. Mutation happens from multiple handler
// goroutines, so every counter update is mutex-serialized to keep
// successes <= attempts observable at all times.
type StatsRegistry struct {
	mu sync.Mutex

	totalRequests      int64
	successfulRequests int64
	failedRequests     int64
	startedAt          time.Time

	resolvers  map[string]*entities.ResolverStats
	requesters map[int64]*entities.RequesterStats
}

// NewStatsRegistry creates a new registry with the start timestamp fixed at creation
func NewStatsRegistry() *StatsRegistry {
	return &StatsRegistry{
		startedAt:  time.Now(),
		resolvers:  make(map[string]*entities.ResolverStats),
		requesters: make(map[int64]*entities.RequesterStats),
	}
}

// RecordAttempt registers one inbound download request for a requester.
// The per-requester record is lazily created on first observation.
func (r *StatsRegistry) RecordAttempt(requesterID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalRequests++
	r.requester(requesterID).Downloads++
}

// RecordOutcome registers the final outcome of a request
func (r *StatsRegistry) RecordOutcome(requesterID int64, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.requester(requesterID)
	if success {
		r.successfulRequests++
		rec.Successful++
	} else {
		r.failedRequests++
		rec.Failed++
	}
}

// RecordResolverAttempt registers one resolution attempt for a resolver
func (r *StatsRegistry) RecordResolverAttempt(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resolver(name).Attempts++
}

// RecordResolverSuccess registers one successful resolution for a resolver
func (r *StatsRegistry) RecordResolverSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resolver(name).Successes++
}

// Snapshot returns an immutable deep copy of all aggregates
func (r *StatsRegistry) Snapshot() entities.StatsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := entities.StatsSnapshot{
		TotalRequests:      r.totalRequests,
		SuccessfulRequests: r.successfulRequests,
		FailedRequests:     r.failedRequests,
		StartedAt:          r.startedAt,
		Resolvers:          make(map[string]entities.ResolverStats, len(r.resolvers)),
		Requesters:         make(map[int64]entities.RequesterStats, len(r.requesters)),
	}

	for name, s := range r.resolvers {
		snap.Resolvers[name] = *s
	}
	for id, s := range r.requesters {
		snap.Requesters[id] = *s
	}

	return snap
}

// requester returns the record for requesterID, creating it on first observation.
// Caller must hold mu.
func (r *StatsRegistry) requester(requesterID int64) *entities.RequesterStats {
	rec, ok := r.requesters[requesterID]
	if !ok {
		rec = &entities.RequesterStats{FirstSeen: time.Now()}
		r.requesters[requesterID] = rec
	}
	return rec
}

// resolver returns the record for name, creating it on first observation.
// Caller must hold mu.
func (r *StatsRegistry) resolver(name string) *entities.ResolverStats {
	rec, ok := r.resolvers[name]
	if !ok {
		rec = &entities.ResolverStats{}
		r.resolvers[name] = rec
	}
	return rec
}
