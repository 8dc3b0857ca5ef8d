package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.RecordPublish("SharesPurchased", "durable-log", 5*time.Millisecond, true)
	c.RecordPublish("SharesPurchased", "durable-log", 5*time.Millisecond, false)
	c.RecordConsume("vibeflow:users:updates", "UserProfileUpdated", time.Millisecond, true)
	c.RecordError("publisher", "validation")

	t.Run("counters track outcomes", func(t *testing.T) {
		stats := c.GetStats()

		assert.Equal(t, int64(1), stats.EventsPublished)
		assert.Equal(t, int64(1), stats.PublishFailures)
		assert.Equal(t, int64(1), stats.EventsConsumed)
	})

	t.Run("scrape exposes the registered series", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

		require.Equal(t, 200, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "eventbus_publish_total")
		assert.Contains(t, body, "eventbus_consume_total")
		assert.Contains(t, body, "eventbus_errors_total")
	})
}

func TestCollectorsAreIsolated(t *testing.T) {
	// Private registries mean two collectors never collide.
	a := NewCollector()
	b := NewCollector()

	a.RecordPublish("UserRegistered", "fast-store", time.Millisecond, true)

	assert.Equal(t, int64(1), a.GetStats().EventsPublished)
	assert.Equal(t, int64(0), b.GetStats().EventsPublished)
}
