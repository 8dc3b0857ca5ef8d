// Package metrics provides a Prometheus-backed implementation of the
// messaging.MetricsCollector port, without global registry state.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vibeflow/eventbus-go/messaging"
)

// Collector records bus metrics into a private Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	publishTotal    *prometheus.CounterVec
	publishDuration *prometheus.HistogramVec
	consumeTotal    *prometheus.CounterVec
	consumeDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec

	counters messaging.CountingMetricsCollector
}

// NewCollector creates a collector with all metrics registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		publishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventbus_publish_total",
				Help: "Publish attempts per event type and transport",
			},
			[]string{"event_type", "transport", "success"},
		),
		publishDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eventbus_publish_duration_seconds",
				Help:    "Publish latency per transport",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"transport"},
		),
		consumeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventbus_consume_total",
				Help: "Handled deliveries per channel and event type",
			},
			[]string{"channel", "event_type", "success"},
		),
		consumeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eventbus_consume_duration_seconds",
				Help:    "Handler latency per channel",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"channel"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventbus_errors_total",
				Help: "Component errors by type",
			},
			[]string{"component", "error_type"},
		),
	}

	registry.MustRegister(
		c.publishTotal,
		c.publishDuration,
		c.consumeTotal,
		c.consumeDuration,
		c.errorsTotal,
	)

	return c
}

// RecordPublish implements messaging.MetricsCollector.
func (c *Collector) RecordPublish(eventType, transport string, duration time.Duration, success bool) {
	c.publishTotal.WithLabelValues(eventType, transport, strconv.FormatBool(success)).Inc()
	c.publishDuration.WithLabelValues(transport).Observe(duration.Seconds())
	c.counters.RecordPublish(eventType, transport, duration, success)
}

// RecordConsume implements messaging.MetricsCollector.
func (c *Collector) RecordConsume(channel, eventType string, duration time.Duration, success bool) {
	c.consumeTotal.WithLabelValues(channel, eventType, strconv.FormatBool(success)).Inc()
	c.consumeDuration.WithLabelValues(channel).Observe(duration.Seconds())
	c.counters.RecordConsume(channel, eventType, duration, success)
}

// RecordError implements messaging.MetricsCollector.
func (c *Collector) RecordError(component, errorType string) {
	c.errorsTotal.WithLabelValues(component, errorType).Inc()
}

// GetStats implements messaging.MetricsCollector.
func (c *Collector) GetStats() messaging.Stats {
	return c.counters.GetStats()
}

// Handler exposes the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
