package reliability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoff(t *testing.T) {
	t.Run("grows by the multiplier", func(t *testing.T) {
		b := &ExponentialBackoff{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     10 * time.Second,
			Multiplier:      2.0,
		}

		assert.Equal(t, 100*time.Millisecond, b.NextDelay(0))
		assert.Equal(t, 200*time.Millisecond, b.NextDelay(1))
		assert.Equal(t, 400*time.Millisecond, b.NextDelay(2))
	})

	t.Run("caps at the max interval", func(t *testing.T) {
		b := &ExponentialBackoff{
			InitialInterval: time.Second,
			MaxInterval:     5 * time.Second,
			Multiplier:      10.0,
		}

		assert.Equal(t, 5*time.Second, b.NextDelay(3))
	})

	t.Run("jitter stays within fifteen percent", func(t *testing.T) {
		b := NewExponentialBackoff(time.Second, time.Minute, 2.0)

		for i := 0; i < 100; i++ {
			delay := b.NextDelay(0)
			assert.GreaterOrEqual(t, delay, 850*time.Millisecond)
			assert.LessOrEqual(t, delay, 1150*time.Millisecond)
		}
	})
}

func TestConstantBackoff(t *testing.T) {
	b := NewConstantBackoff(250 * time.Millisecond)

	assert.Equal(t, 250*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, 250*time.Millisecond, b.NextDelay(10))
}
