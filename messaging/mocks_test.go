package messaging

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// mockDurableLog is a testify mock for DurableLogClient.
type mockDurableLog struct {
	mock.Mock
}

func (m *mockDurableLog) Append(ctx context.Context, topic, key string, value []byte) (AppendResult, error) {
	args := m.Called(ctx, topic, key, value)
	return args.Get(0).(AppendResult), args.Error(1)
}

func (m *mockDurableLog) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockDurableLog) Close() error {
	args := m.Called()
	return args.Error(0)
}

// mockFastStore is a testify mock for FastStoreClient.
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

func (m *mockFastStore) Subscribe(ctx context.Context, channel string) (MessageStream, error) {
	args := m.Called(ctx, channel)
	if stream := args.Get(0); stream != nil {
		return stream.(MessageStream), args.Error(1)
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
