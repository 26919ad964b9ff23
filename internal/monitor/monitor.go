// Package monitor counts inbound API requests and keeps a capped log of them.
package monitor

import (
	"sync"
	"time"

	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"go.uber.org/zap"
)

const (
	// DefaultLogCapacity is the number of log entries kept before the oldest is evicted.
	DefaultLogCapacity = 500
	// DefaultRecentEntries is the number of entries returned by Snapshot.
	DefaultRecentEntries = 10
)

// Options configures a RequestMonitor. Zero values fall back to the defaults.
type Options struct {
	LogCapacity   int
	RecentEntries int
}

// RequestMonitor holds the request counters and the request log.
// Counters and log are mutated under one lock so a snapshot never sees one without the other.
type RequestMonitor struct {
	mu            sync.Mutex
	total         int64
	perMinute     int64
	log           []types.RequestLogEntry
	capacity      int
	recentEntries int

	now     func() time.Time
	metrics *Metrics
	logger  *logger.Logger
}

// NewRequestMonitor creates a new RequestMonitor. metrics may be nil.
func NewRequestMonitor(opts Options, metrics *Metrics, log *logger.Logger) *RequestMonitor {
	capacity := opts.LogCapacity
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}

	recent := opts.RecentEntries
	if recent <= 0 {
		recent = DefaultRecentEntries
	}

	return &RequestMonitor{
		mu:            sync.Mutex{},
		total:         0,
		perMinute:     0,
		log:           make([]types.RequestLogEntry, 0, capacity),
		capacity:      capacity,
		recentEntries: recent,
		now:           time.Now,
		metrics:       metrics,
		logger:        log,
	}
}

// Record counts one request and appends it to the log.
// Internal calls (the dashboard's own polling) are ignored.
func (m *RequestMonitor) Record(endpoint, method, origin string, internal bool) {
	if internal {
		return
	}

	entry := types.RequestLogEntry{
		Time:     m.now().Format(types.RequestLogTimeLayout),
		Endpoint: endpoint,
		Method:   method,
		Origin:   origin,
	}

	m.mu.Lock()
	m.total++
	m.perMinute++

	if len(m.log) >= m.capacity {
		// drop the oldest entry, keep the backing array
		copy(m.log, m.log[1:])
		m.log = m.log[:len(m.log)-1]
	}

	m.log = append(m.log, entry)
	perMinute := m.perMinute
	m.mu.Unlock()

	m.metrics.ObserveRequest(endpoint, method)
	m.metrics.SetRequestsPerMinute(perMinute)
}

// Snapshot returns the counters and the most recent entries, oldest first.
func (m *RequestMonitor) Snapshot() types.MonitorSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := max(len(m.log)-m.recentEntries, 0)
	recent := make([]types.RequestLogEntry, len(m.log)-start)
	copy(recent, m.log[start:])

	return types.MonitorSnapshot{
		TotalRequests:     m.total,
		RequestsPerMinute: m.perMinute,
		RecentLog:         recent,
	}
}

// Len returns the current number of log entries.
func (m *RequestMonitor) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.log)
}

// ResetMinute zeroes the per-minute counter. The total is left alone.
func (m *RequestMonitor) ResetMinute() {
	m.mu.Lock()
	previous := m.perMinute
	m.perMinute = 0
	m.mu.Unlock()

	m.metrics.ObserveMinuteReset()
	m.metrics.SetRequestsPerMinute(0)
	m.logger.Debug("Reset per-minute request counter", zap.Int64("previous", previous))
}
