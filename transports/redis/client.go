// Package redis adapts a Redis server to the messaging.FastStoreClient
// port: pub/sub for low-latency fan-out, SET with TTL for the
// time-boxed event cache, GET for point lookups.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vibeflow/eventbus-go/messaging"
)

// Client implements messaging.FastStoreClient over go-redis.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a fast store client from a redis:// URL or a plain
// host:port address.
func NewClient(endpoint string) (*Client, error) {
	opts, err := redis.ParseURL(endpoint)
	if err != nil {
		// Accept bare host:port endpoints too.
		opts = &redis.Options{Addr: endpoint}
	}
	return &Client{rdb: redis.NewClient(opts)}, nil
}

// Publish fans a message out to all channel subscribers.
func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := c.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}

// SetWithTTL writes a cached copy that expires after ttl.
func (c *Client) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get reads a cached value. A missing or expired key is not an error.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Subscribe opens a pub/sub stream for one channel.
func (c *Client) Subscribe(ctx context.Context, channel string) (messaging.MessageStream, error) {
	pubsub := c.rdb.Subscribe(ctx, channel)

	// Wait for the subscription to be confirmed so no message published
	// after this call returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", channel, err)
	}

	return &stream{pubsub: pubsub}, nil
}

// Ping verifies the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// stream wraps a go-redis PubSub as a messaging.MessageStream.
type stream struct {
	pubsub *redis.PubSub
}

// Receive blocks until the next message or context cancellation.
func (s *stream) Receive(ctx context.Context) ([]byte, error) {
	msg, err := s.pubsub.ReceiveMessage(ctx)
	if err != nil {
		return nil, err
	}
	return []byte(msg.Payload), nil
}

// Close tears down the subscription.
func (s *stream) Close() error {
	return s.pubsub.Close()
}
