// Package monitor aggregates the liveness of the two bus transports
// into one status, with a cached last-known value for cheap reads.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vibeflow/eventbus-go/messaging"
)

// Status is the aggregated health of the bus.
type Status string

const (
	StatusHealthy            Status = "healthy"
	StatusDegradedDurableLog Status = "degraded_durable_log"
	StatusDegradedFastStore  Status = "degraded_fast_store"
	StatusUnhealthy          Status = "unhealthy"
)

// HealthStatus is one aggregated probe result.
type HealthStatus struct {
	DurableLogHealthy bool      `json:"durable_log_healthy"`
	FastStoreHealthy  bool      `json:"fast_store_healthy"`
	Overall           Status    `json:"overall"`
	CheckedAt         time.Time `json:"checked_at"`
}

// probeKey is the fast-store key used for the write/read round trip.
const probeKey = "vibeflow:health:probe"

// HealthMonitor probes both transports and caches the last result.
// Reads far outnumber probes, so the cache sits behind a RWMutex.
type HealthMonitor struct {
	durable  messaging.DurableLogClient // nil when disabled
	fast     messaging.FastStoreClient
	logger   *slog.Logger
	interval time.Duration

	mu   sync.RWMutex
	last HealthStatus
}

// MonitorOption configures the HealthMonitor.
type MonitorOption func(*HealthMonitor)

// WithMonitorLogger sets the logger.
func WithMonitorLogger(logger *slog.Logger) MonitorOption {
	return func(m *HealthMonitor) {
		m.logger = logger
	}
}

// WithProbeInterval sets the period of the background probe loop.
// Non-positive intervals keep the default.
func WithProbeInterval(interval time.Duration) MonitorOption {
	return func(m *HealthMonitor) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

// NewHealthMonitor creates a monitor over the two transport ports. A
// nil durable client marks the durable log as administratively
// disabled: it is treated as healthy and never degrades the aggregate.
func NewHealthMonitor(durable messaging.DurableLogClient, fast messaging.FastStoreClient, options ...MonitorOption) *HealthMonitor {
	m := &HealthMonitor{
		durable:  durable,
		fast:     fast,
		logger:   slog.Default(),
		interval: 30 * time.Second,
	}

	for _, opt := range options {
		opt(m)
	}

	return m
}

// Check probes both transports, updates the cached status and returns
// the fresh result. The fast store probe is a write/read round trip;
// the durable log probe is a broker ping.
func (m *HealthMonitor) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{CheckedAt: time.Now().UTC()}

	status.FastStoreHealthy = m.probeFastStore(ctx)
	status.DurableLogHealthy = m.probeDurableLog(ctx)
	status.Overall = aggregate(status.DurableLogHealthy, status.FastStoreHealthy)

	m.mu.Lock()
	m.last = status
	m.mu.Unlock()

	return status
}

// Last returns the cached status from the most recent probe.
func (m *HealthMonitor) Last() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// Start runs periodic probes until ctx is cancelled.
func (m *HealthMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	go func() {
		defer ticker.Stop()
		m.Check(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				status := m.Check(ctx)
				if status.Overall != StatusHealthy {
					m.logger.Warn("bus health degraded",
						"overall", string(status.Overall),
						"durableLog", status.DurableLogHealthy,
						"fastStore", status.FastStoreHealthy,
					)
				}
			}
		}
	}()
}

func (m *HealthMonitor) probeFastStore(ctx context.Context) bool {
	if m.fast == nil {
		return true
	}
	probe := []byte(time.Now().UTC().Format(time.RFC3339Nano))
	if err := m.fast.SetWithTTL(ctx, probeKey, probe, time.Minute); err != nil {
		m.logger.Warn("fast store health probe failed", "error", err)
		return false
	}
	if _, _, err := m.fast.Get(ctx, probeKey); err != nil {
		m.logger.Warn("fast store health probe read failed", "error", err)
		return false
	}
	return true
}

func (m *HealthMonitor) probeDurableLog(ctx context.Context) bool {
	if m.durable == nil {
		// Disabled transports do not degrade the aggregate.
		return true
	}
	if err := m.durable.Ping(ctx); err != nil {
		m.logger.Warn("durable log health probe failed", "error", err)
		return false
	}
	return true
}

func aggregate(durableHealthy, fastHealthy bool) Status {
	switch {
	case durableHealthy && fastHealthy:
		return StatusHealthy
	case fastHealthy:
		return StatusDegradedDurableLog
	case durableHealthy:
		return StatusDegradedFastStore
	default:
		return StatusUnhealthy
	}
}
