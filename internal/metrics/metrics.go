package metrics

import (
	"sync"
	"time"
)

type storeStats struct {
	calls           int
	errors          int
	retries         int
	lastCallLatency time.Duration
}

type leaderboardStats struct {
	builds      int
	errors      int
	lastRows    int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about store calls and leaderboard builds,
// forwarding to OpenTelemetry instruments when configured.
type Recorder struct {
	mu          sync.Mutex
	stores      map[string]*storeStats
	leaderboard leaderboardStats
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stores: make(map[string]*storeStats),
		otel:   otel,
	}
}

// RecordStoreCall increments counters for a store operation and keeps the last observed latency.
func (r *Recorder) RecordStoreCall(backend, op string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(backend)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordStoreCall(backend, op, duration, err)
	}
}

// RecordStoreRetry tracks that a store operation is being attempted again.
func (r *Recorder) RecordStoreRetry(backend, op string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.ensureStats(backend).retries++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordStoreRetry(backend, op)
	}
}

// RecordLeaderboardBuild tracks one leaderboard computation.
func (r *Recorder) RecordLeaderboardBuild(rows int, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.leaderboard.builds++
	r.leaderboard.lastLatency = duration
	if err != nil {
		r.leaderboard.errors++
	} else {
		r.leaderboard.lastRows = rows
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordLeaderboardBuild(rows, duration, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// StoreSnapshot is a copy of the stats recorded for one store backend.
type StoreSnapshot struct {
	Calls           int
	Errors          int
	Retries         int
	LastCallLatency time.Duration
}

// StoreSnapshot returns the current stats for the backend.
func (r *Recorder) StoreSnapshot(backend string) StoreSnapshot {
	if r == nil {
		return StoreSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stores[backend]
	if !ok || stats == nil {
		return StoreSnapshot{}
	}
	return StoreSnapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		Retries:         stats.retries,
		LastCallLatency: stats.lastCallLatency,
	}
}

// LeaderboardSnapshot is a copy of the leaderboard build stats.
type LeaderboardSnapshot struct {
	Builds      int
	Errors      int
	LastRows    int
	LastLatency time.Duration
}

func (r *Recorder) LeaderboardSnapshot() LeaderboardSnapshot {
	if r == nil {
		return LeaderboardSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return LeaderboardSnapshot{
		Builds:      r.leaderboard.builds,
		Errors:      r.leaderboard.errors,
		LastRows:    r.leaderboard.lastRows,
		LastLatency: r.leaderboard.lastLatency,
	}
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(backend string) *storeStats {
	stats, ok := r.stores[backend]
	if !ok {
		stats = &storeStats{}
		r.stores[backend] = stats
	}
	return stats
}
