package reliability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerClosed(t *testing.T) {
	cb := NewCircuitBreaker()

	t.Run("passes calls through", func(t *testing.T) {
		called := false
		err := cb.Execute(context.Background(), func() error {
			called = true
			return nil
		})

		assert.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("success resets the failure count", func(t *testing.T) {
		cb := NewCircuitBreaker(WithFailureThreshold(2))
		boom := errors.New("boom")

		_ = cb.Execute(context.Background(), func() error { return boom })
		_ = cb.Execute(context.Background(), func() error { return nil })
		_ = cb.Execute(context.Background(), func() error { return boom })

		assert.Equal(t, StateClosed, cb.State())
	})
}

func TestCircuitBreakerOpens(t *testing.T) {
	cb := NewCircuitBreaker(
		WithName("durable-log"),
		WithFailureThreshold(3),
		WithOpenTimeout(time.Hour),
	)
	boom := errors.New("broker down")

	for i := 0; i < 3; i++ {
		err := cb.Execute(context.Background(), func() error { return boom })
		assert.ErrorIs(t, err, boom)
	}
	require.Equal(t, StateOpen, cb.State())

	// Open breaker fails fast without invoking fn.
	called := false
	err := cb.Execute(context.Background(), func() error {
		called = true
		return nil
	})

	assert.False(t, called)
	var cbErr *CircuitBreakerError
	require.ErrorAs(t, err, &cbErr)
	assert.Equal(t, "durable-log", cbErr.Name)
	assert.Equal(t, StateOpen, cbErr.State)
	assert.Equal(t, 3, cbErr.Failures)
}

func TestCircuitBreakerHalfOpen(t *testing.T) {
	newOpenBreaker := func() *CircuitBreaker {
		cb := NewCircuitBreaker(
			WithFailureThreshold(1),
			WithSuccessThreshold(2),
			WithOpenTimeout(time.Millisecond),
		)
		_ = cb.Execute(context.Background(), func() error { return errors.New("boom") })
		require.Equal(t, StateOpen, cb.State())
		time.Sleep(5 * time.Millisecond)
		return cb
	}

	t.Run("probes after the open timeout", func(t *testing.T) {
		cb := newOpenBreaker()
		assert.Equal(t, StateHalfOpen, cb.State())

		called := false
		err := cb.Execute(context.Background(), func() error {
			called = true
			return nil
		})

		assert.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("closes after enough successes", func(t *testing.T) {
		cb := newOpenBreaker()

		require.NoError(t, cb.Execute(context.Background(), func() error { return nil }))
		assert.Equal(t, StateHalfOpen, cb.State())
		require.NoError(t, cb.Execute(context.Background(), func() error { return nil }))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("reopens on probe failure", func(t *testing.T) {
		cb := newOpenBreaker()

		err := cb.Execute(context.Background(), func() error { return errors.New("still down") })

		assert.Error(t, err)
		assert.Equal(t, StateOpen, cb.State())
	})
}

func TestCircuitBreakerContext(t *testing.T) {
	cb := NewCircuitBreaker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.Execute(ctx, func() error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
