package eventbus

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the bus configuration surface. All fields can be populated
// from the environment; defaults start the bus in fast-store-only mode.
type Config struct {
	// ServiceName is stamped into envelope metadata as the producer.
	ServiceName string `env:"EVENTBUS_SERVICE_NAME" envDefault:"vibeflow-api-gateway"`

	// DurableLogEnabled turns the ordered log transport on.
	DurableLogEnabled bool `env:"EVENTBUS_DURABLE_LOG_ENABLED" envDefault:"false"`

	// DurableLogEndpoint lists log brokers, comma separated.
	DurableLogEndpoint string `env:"EVENTBUS_DURABLE_LOG_ENDPOINT" envDefault:"localhost:9092"`

	// DurableLogClientID identifies this service to the log brokers.
	DurableLogClientID string `env:"EVENTBUS_DURABLE_LOG_CLIENT_ID" envDefault:"vibeflow-hybrid"`

	// FastStoreEndpoint is the fast store URL or host:port.
	FastStoreEndpoint string `env:"EVENTBUS_FAST_STORE_ENDPOINT" envDefault:"redis://localhost:6379"`

	// DualWriteEnabled allows Both-mode routing decisions.
	DualWriteEnabled bool `env:"EVENTBUS_DUAL_WRITE_ENABLED" envDefault:"true"`

	// DefaultCacheTTLSeconds bounds cached copies with no dedicated TTL.
	DefaultCacheTTLSeconds int `env:"EVENTBUS_DEFAULT_CACHE_TTL_SECONDS" envDefault:"3600"`

	// HealthProbeInterval is the period of the background health loop.
	HealthProbeInterval time.Duration `env:"EVENTBUS_HEALTH_PROBE_INTERVAL" envDefault:"30s"`

	// HotKeyBuckets enables time-bucketed partition keys for
	// high-frequency non-critical categories.
	HotKeyBuckets bool `env:"EVENTBUS_HOT_KEY_BUCKETS" envDefault:"false"`
}

// LoadConfig parses configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse eventbus config: %w", err)
	}
	return cfg, nil
}

// DefaultCacheTTL returns the default cache TTL as a duration.
func (c Config) DefaultCacheTTL() time.Duration {
	if c.DefaultCacheTTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.DefaultCacheTTLSeconds) * time.Second
}
