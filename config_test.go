package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "vibeflow-api-gateway", cfg.ServiceName)
	assert.False(t, cfg.DurableLogEnabled)
	assert.Equal(t, "localhost:9092", cfg.DurableLogEndpoint)
	assert.Equal(t, "vibeflow-hybrid", cfg.DurableLogClientID)
	assert.Equal(t, "redis://localhost:6379", cfg.FastStoreEndpoint)
	assert.True(t, cfg.DualWriteEnabled)
	assert.Equal(t, 3600, cfg.DefaultCacheTTLSeconds)
	assert.Equal(t, 30*time.Second, cfg.HealthProbeInterval)
	assert.False(t, cfg.HotKeyBuckets)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("EVENTBUS_SERVICE_NAME", "billing-service")
	t.Setenv("EVENTBUS_DURABLE_LOG_ENABLED", "true")
	t.Setenv("EVENTBUS_DURABLE_LOG_ENDPOINT", "kafka-1:9092,kafka-2:9092")
	t.Setenv("EVENTBUS_DEFAULT_CACHE_TTL_SECONDS", "120")
	t.Setenv("EVENTBUS_HEALTH_PROBE_INTERVAL", "5s")
	t.Setenv("EVENTBUS_HOT_KEY_BUCKETS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "billing-service", cfg.ServiceName)
	assert.True(t, cfg.DurableLogEnabled)
	assert.Equal(t, "kafka-1:9092,kafka-2:9092", cfg.DurableLogEndpoint)
	assert.Equal(t, 120, cfg.DefaultCacheTTLSeconds)
	assert.Equal(t, 5*time.Second, cfg.HealthProbeInterval)
	assert.True(t, cfg.HotKeyBuckets)
}

func TestLoadConfigInvalidValue(t *testing.T) {
	t.Setenv("EVENTBUS_DURABLE_LOG_ENABLED", "not-a-bool")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestDefaultCacheTTL(t *testing.T) {
	assert.Equal(t, 2*time.Minute, Config{DefaultCacheTTLSeconds: 120}.DefaultCacheTTL())
	assert.Equal(t, time.Hour, Config{}.DefaultCacheTTL())
	assert.Equal(t, time.Hour, Config{DefaultCacheTTLSeconds: -5}.DefaultCacheTTL())
}
