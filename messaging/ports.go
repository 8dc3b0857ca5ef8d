package messaging

import (
	"context"
	"time"
)

// AppendResult reports where the durable log placed a record.
type AppendResult struct {
	Partition int
	Offset    int64
}

// DurableLogClient is the port to the append-only, partition-ordered
// transport. The broker serializes writes per partition key; this layer
// only guarantees it always derives the same key for the same entity.
type DurableLogClient interface {
	// Append writes a record under the given partition key.
	Append(ctx context.Context, topic, key string, value []byte) (AppendResult, error)

	// Ping verifies the broker is reachable.
	Ping(ctx context.Context) error

	// Close releases client resources.
	Close() error
}

// FastStoreClient is the port to the low-latency publish/subscribe and
// ephemeral cache transport. Delivery carries no ordering guarantee.
type FastStoreClient interface {
	// Publish fans a message out to channel subscribers.
	Publish(ctx context.Context, channel string, payload []byte) error

	// SetWithTTL writes a time-boxed cached copy for point lookups.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get reads a cached value; found is false after expiry.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Subscribe opens a message stream for one channel.
	Subscribe(ctx context.Context, channel string) (MessageStream, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases client resources.
	Close() error
}

// MessageStream is an open subscription to one fast-store channel.
type MessageStream interface {
	// Receive blocks until the next message or context cancellation.
	Receive(ctx context.Context) ([]byte, error)

	// Close tears down the subscription.
	Close() error
}
