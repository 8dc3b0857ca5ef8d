package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vibeflow/eventbus-go/messaging"
)

type mockDurableLog struct {
	mock.Mock
}

func (m *mockDurableLog) Append(ctx context.Context, topic, key string, value []byte) (messaging.AppendResult, error) {
	args := m.Called(ctx, topic, key, value)
	return args.Get(0).(messaging.AppendResult), args.Error(1)
}

func (m *mockDurableLog) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockDurableLog) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockFastStore struct {
	mock.Mock
}

func (m *mockFastStore) Publish(ctx context.Context, channel string, payload []byte) error {
	args := m.Called(ctx, channel, payload)
	return args.Error(0)
}

func (m *mockFastStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockFastStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	var value []byte
	if v := args.Get(0); v != nil {
		value = v.([]byte)
	}
	return value, args.Bool(1), args.Error(2)
}

func (m *mockFastStore) Subscribe(ctx context.Context, channel string) (messaging.MessageStream, error) {
	args := m.Called(ctx, channel)
	if stream := args.Get(0); stream != nil {
		return stream.(messaging.MessageStream), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFastStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockFastStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func healthyFastStore() *mockFastStore {
	fast := &mockFastStore{}
	fast.On("SetWithTTL", mock.Anything, probeKey, mock.Anything, time.Minute).Return(nil)
	fast.On("Get", mock.Anything, probeKey).Return([]byte("probe"), true, nil)
	return fast
}

func TestCheck(t *testing.T) {
	t.Run("both transports up", func(t *testing.T) {
		durable := &mockDurableLog{}
		durable.On("Ping", mock.Anything).Return(nil)

		m := NewHealthMonitor(durable, healthyFastStore())
		status := m.Check(context.Background())

		assert.True(t, status.DurableLogHealthy)
		assert.True(t, status.FastStoreHealthy)
		assert.Equal(t, StatusHealthy, status.Overall)
		assert.False(t, status.CheckedAt.IsZero())
	})

	t.Run("durable log down degrades", func(t *testing.T) {
		durable := &mockDurableLog{}
		durable.On("Ping", mock.Anything).Return(errors.New("broker unreachable"))

		m := NewHealthMonitor(durable, healthyFastStore())
		status := m.Check(context.Background())

		assert.False(t, status.DurableLogHealthy)
		assert.True(t, status.FastStoreHealthy)
		assert.Equal(t, StatusDegradedDurableLog, status.Overall)
	})

	t.Run("fast store write failure degrades", func(t *testing.T) {
		durable := &mockDurableLog{}
		durable.On("Ping", mock.Anything).Return(nil)
		fast := &mockFastStore{}
		fast.On("SetWithTTL", mock.Anything, probeKey, mock.Anything, time.Minute).
			Return(errors.New("store down"))

		m := NewHealthMonitor(durable, fast)
		status := m.Check(context.Background())

		assert.Equal(t, StatusDegradedFastStore, status.Overall)
		fast.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("fast store read failure degrades", func(t *testing.T) {
		durable := &mockDurableLog{}
		durable.On("Ping", mock.Anything).Return(nil)
		fast := &mockFastStore{}
		fast.On("SetWithTTL", mock.Anything, probeKey, mock.Anything, time.Minute).Return(nil)
		fast.On("Get", mock.Anything, probeKey).Return(nil, false, errors.New("read timeout"))

		m := NewHealthMonitor(durable, fast)
		status := m.Check(context.Background())

		assert.Equal(t, StatusDegradedFastStore, status.Overall)
	})

	t.Run("both transports down", func(t *testing.T) {
		durable := &mockDurableLog{}
		durable.On("Ping", mock.Anything).Return(errors.New("broker unreachable"))
		fast := &mockFastStore{}
		fast.On("SetWithTTL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("store down"))

		m := NewHealthMonitor(durable, fast)

		assert.Equal(t, StatusUnhealthy, m.Check(context.Background()).Overall)
	})

	t.Run("disabled durable log never degrades", func(t *testing.T) {
		m := NewHealthMonitor(nil, healthyFastStore())
		status := m.Check(context.Background())

		assert.True(t, status.DurableLogHealthy)
		assert.Equal(t, StatusHealthy, status.Overall)
	})
}

func TestLast(t *testing.T) {
	t.Run("empty before the first probe", func(t *testing.T) {
		m := NewHealthMonitor(nil, healthyFastStore())
		assert.True(t, m.Last().CheckedAt.IsZero())
	})

	t.Run("caches the most recent probe", func(t *testing.T) {
		durable := &mockDurableLog{}
		durable.On("Ping", mock.Anything).Return(errors.New("broker unreachable"))

		m := NewHealthMonitor(durable, healthyFastStore())
		status := m.Check(context.Background())

		assert.Equal(t, status, m.Last())
	})
}

func TestStart(t *testing.T) {
	durable := &mockDurableLog{}
	durable.On("Ping", mock.Anything).Return(nil)

	m := NewHealthMonitor(durable, healthyFastStore(), WithProbeInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)

	deadline := time.After(2 * time.Second)
	for m.Last().CheckedAt.IsZero() {
		select {
		case <-deadline:
			t.Fatal("no probe ran in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
	assert.Equal(t, StatusHealthy, m.Last().Overall)
}
