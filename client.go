// Package eventbus wires the hybrid event bus together: transports,
// routing strategy, publisher, subscription manager and health monitor
// behind one explicit Client instance. Construct it once at startup and
// hand it to every producer and consumer; there is no ambient global
// bus.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vibeflow/eventbus-go/contracts"
	"github.com/vibeflow/eventbus-go/messaging"
	"github.com/vibeflow/eventbus-go/monitor"
	"github.com/vibeflow/eventbus-go/routing"
	kafkatransport "github.com/vibeflow/eventbus-go/transports/kafka"
	redistransport "github.com/vibeflow/eventbus-go/transports/redis"
)

// Client is the entry point to the hybrid event bus.
type Client struct {
	cfg        Config
	logger     *slog.Logger
	durable    messaging.DurableLogClient
	fast       messaging.FastStoreClient
	publisher  *messaging.HybridPublisher
	subs       *messaging.SubscriptionManager
	dispatcher *messaging.EventDispatcher
	health     *monitor.HealthMonitor
}

type clientConfig struct {
	logger  *slog.Logger
	metrics messaging.MetricsCollector
	durable messaging.DurableLogClient
	fast    messaging.FastStoreClient
}

// ClientOption configures the Client.
type ClientOption func(*clientConfig)

// WithLogger sets the logger used by every bus component.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics collector used by every bus component.
func WithMetrics(collector messaging.MetricsCollector) ClientOption {
	return func(c *clientConfig) {
		c.metrics = collector
	}
}

// WithTransportClients injects pre-built transport clients instead of
// dialing the configured endpoints. Useful for tests and custom
// adapters.
func WithTransportClients(durable messaging.DurableLogClient, fast messaging.FastStoreClient) ClientOption {
	return func(c *clientConfig) {
		c.durable = durable
		c.fast = fast
	}
}

// NewClient builds a bus client from configuration. The fast store is
// always connected; the durable log only when enabled. With the
// durable log disabled, strict-ordering events fail at publish rather
// than degrade to pub/sub.
func NewClient(cfg Config, options ...ClientOption) (*Client, error) {
	cc := &clientConfig{
		logger:  slog.Default(),
		metrics: messaging.NoOpMetricsCollector{},
	}
	for _, opt := range options {
		opt(cc)
	}

	fast := cc.fast
	if fast == nil {
		var err error
		fast, err = redistransport.NewClient(cfg.FastStoreEndpoint)
		if err != nil {
			return nil, fmt.Errorf("create fast store client: %w", err)
		}
	}

	durable := cc.durable
	if durable == nil && cfg.DurableLogEnabled {
		var err error
		durable, err = kafkatransport.NewClientFromEndpoint(cfg.DurableLogEndpoint, cfg.DurableLogClientID)
		if err != nil {
			return nil, fmt.Errorf("create durable log client: %w", err)
		}
	}

	strategy := routing.NewStrategy(routing.Config{
		DurableLogEnabled: durable != nil,
		DefaultCacheTTL:   cfg.DefaultCacheTTL(),
	})

	dispatcher := messaging.NewEventDispatcher(
		messaging.WithDispatcherLogger(cc.logger),
	)

	publisher := messaging.NewHybridPublisher(durable, fast, strategy,
		messaging.WithPublisherLogger(cc.logger),
		messaging.WithMetricsCollector(cc.metrics),
		messaging.WithHotKeyBuckets(cfg.HotKeyBuckets),
	)

	subs := messaging.NewSubscriptionManager(fast,
		messaging.WithSubscriberLogger(cc.logger),
		messaging.WithSubscriberMetrics(cc.metrics),
		messaging.WithDeadLetterChannel(routing.ChannelDeadLetter),
	)

	health := monitor.NewHealthMonitor(durable, fast,
		monitor.WithMonitorLogger(cc.logger),
		monitor.WithProbeInterval(cfg.HealthProbeInterval),
	)

	cc.logger.Info("event bus initialized",
		"service", cfg.ServiceName,
		"durableLog", durable != nil,
		"fastStore", cfg.FastStoreEndpoint,
	)

	return &Client{
		cfg:        cfg,
		logger:     cc.logger,
		durable:    durable,
		fast:       fast,
		publisher:  publisher,
		subs:       subs,
		dispatcher: dispatcher,
		health:     health,
	}, nil
}

// NewEvent builds an envelope attributed to this service.
func (c *Client) NewEvent(aggregateType, aggregateID string, payload contracts.EventPayload) contracts.Envelope {
	return contracts.NewEnvelope(aggregateType, aggregateID, payload).
		WithProducer(c.cfg.ServiceName)
}

// Publish routes and sends one envelope.
func (c *Client) Publish(ctx context.Context, env contracts.Envelope) (messaging.PublishResult, error) {
	return c.publisher.Publish(ctx, env)
}

// Subscribe starts a background consumer on a fast-store channel that
// dispatches to the handlers registered with On.
func (c *Client) Subscribe(ctx context.Context, channel string) error {
	return c.subs.Subscribe(ctx, channel, c.dispatcher)
}

// SubscribeHandler starts a background consumer with a dedicated
// handler, bypassing the shared dispatcher.
func (c *Client) SubscribeHandler(ctx context.Context, channel string, handler messaging.EventHandler) error {
	return c.subs.Subscribe(ctx, channel, handler)
}

// On registers a handler for an event type on the shared dispatcher.
func (c *Client) On(eventType string, handler messaging.EventHandler) error {
	return c.dispatcher.Register(eventType, handler)
}

// RealTimeData reads a cached value from the fast store.
func (c *Client) RealTimeData(ctx context.Context, key string) ([]byte, bool, error) {
	return c.fast.Get(ctx, key)
}

// SetRealTimeData writes a time-boxed value to the fast store.
func (c *Client) SetRealTimeData(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.fast.SetWithTTL(ctx, key, value, ttl)
}

// HealthCheck probes both transports and returns the aggregate status.
func (c *Client) HealthCheck(ctx context.Context) monitor.HealthStatus {
	return c.health.Check(ctx)
}

// Health returns the health monitor for cached reads and background
// probing.
func (c *Client) Health() *monitor.HealthMonitor {
	return c.health
}

// Publisher returns the underlying publisher.
func (c *Client) Publisher() *messaging.HybridPublisher {
	return c.publisher
}

// Dispatcher returns the shared event dispatcher.
func (c *Client) Dispatcher() *messaging.EventDispatcher {
	return c.dispatcher
}

// Close stops all subscription loops, waits for in-flight handlers and
// closes both transport clients.
func (c *Client) Close() error {
	err := c.subs.Close()
	if c.durable != nil {
		if closeErr := c.durable.Close(); err == nil {
			err = closeErr
		}
	}
	if closeErr := c.fast.Close(); err == nil {
		err = closeErr
	}
	return err
}
