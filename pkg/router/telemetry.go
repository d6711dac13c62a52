package router

import (
	"strings"
	"sync"
	"time"
)

// HealthStatus is the router's crude view of one profile's backend.
type HealthStatus string

const (
	HealthUnknown     HealthStatus = "unknown"
	HealthHealthy     HealthStatus = "healthy"
	HealthDegraded    HealthStatus = "degraded"
	HealthUnavailable HealthStatus = "unavailable"
)

// ProfileStats holds process-lifetime counters for one profile. Advisory
// telemetry only; routing decisions consult Health solely for the
// unavailable → fallback substitution.
type ProfileStats struct {
	TotalRequests      int
	SuccessfulRequests int
	AvgResponseTime    time.Duration
	Health             HealthStatus
	LastError          string
}

// Telemetry tracks per-profile counters. A mutex keeps updates safe when
// tests exercise the router concurrently; the CLI itself is single-session.
type Telemetry struct {
	mu    sync.Mutex
	stats map[string]*ProfileStats
}

// NewTelemetry creates an empty telemetry store.
func NewTelemetry() *Telemetry {
	return &Telemetry{stats: make(map[string]*ProfileStats)}
}

func (t *Telemetry) get(profile string) *ProfileStats {
	s, ok := t.stats[profile]
	if !ok {
		s = &ProfileStats{Health: HealthUnknown}
		t.stats[profile] = s
	}
	return s
}

// RecordSuccess counts a successful request and nudges health up one level.
func (t *Telemetry) RecordSuccess(profile string, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.get(profile)
	s.TotalRequests++
	s.SuccessfulRequests++
	// Running mean over successful requests.
	n := time.Duration(s.SuccessfulRequests)
	s.AvgResponseTime += (elapsed - s.AvgResponseTime) / n
	switch s.Health {
	case HealthUnavailable:
		s.Health = HealthDegraded
	default:
		s.Health = HealthHealthy
	}
	s.LastError = ""
}

// RecordFailure counts a failed request and nudges health down, keeping the
// error message. Connection errors mark the profile unavailable outright.
func (t *Telemetry) RecordFailure(profile string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.get(profile)
	s.TotalRequests++
	if err != nil {
		s.LastError = err.Error()
		if isConnectionError(err) {
			s.Health = HealthUnavailable
			return
		}
	}
	switch s.Health {
	case HealthHealthy, HealthUnknown:
		s.Health = HealthDegraded
	case HealthDegraded:
		s.Health = HealthUnavailable
	}
}

// Health returns the current health for a profile.
func (t *Telemetry) Health(profile string) HealthStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.get(profile).Health
}

// Snapshot returns a copy of all per-profile stats.
func (t *Telemetry) Snapshot() map[string]ProfileStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]ProfileStats, len(t.stats))
	for name, s := range t.stats {
		out[name] = *s
	}
	return out
}

func isConnectionError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "connection reset")
}
