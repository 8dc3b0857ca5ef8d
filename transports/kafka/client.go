// Package kafka adapts a Kafka cluster to the messaging.DurableLogClient
// port. Writes are synchronous with full-ISR acknowledgement so an
// accepted append is durable, and partitioning hashes the partition key
// with xxhash so the same key lands on the same partition regardless of
// client library defaults.
package kafka

import (
	"context"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/vibeflow/eventbus-go/messaging"
)

const (
	defaultBatchSize  = 100
	defaultBatchBytes = 1 << 20 // 1MB
)

// Config holds configuration for the Kafka client.
type Config struct {
	// Brokers lists broker addresses.
	Brokers []string
	// ClientID identifies this producer to the cluster.
	ClientID string
	// BatchSize bounds the number of buffered records per batch.
	BatchSize int
	// BatchBytes bounds the byte size of a batch.
	BatchBytes int64
	// AutoCreateTopics creates topics on first write.
	AutoCreateTopics bool
}

// Client publishes envelopes to Kafka. It implements
// messaging.DurableLogClient.
type Client struct {
	writer  *kafka.Writer
	brokers []string
}

type appendAck struct {
	partition int
	offset    int64
	err       error
}

// NewClient creates a Kafka-backed durable log client.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka client requires at least one broker address")
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.BatchBytes == 0 {
		cfg.BatchBytes = defaultBatchBytes
	}

	c := &Client{brokers: cfg.Brokers}

	c.writer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &keyBalancer{},
		BatchSize:              cfg.BatchSize,
		BatchBytes:             cfg.BatchBytes,
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: cfg.AutoCreateTopics,
		Completion:             complete,
	}
	if cfg.ClientID != "" {
		c.writer.Transport = &kafka.Transport{ClientID: cfg.ClientID}
	}

	return c, nil
}

// NewClientFromEndpoint creates a client from a comma-separated broker
// endpoint string.
func NewClientFromEndpoint(endpoint, clientID string) (*Client, error) {
	return NewClient(Config{
		Brokers:          strings.Split(endpoint, ","),
		ClientID:         clientID,
		AutoCreateTopics: true,
	})
}

// Append writes one record under the given partition key and reports
// the partition and offset assigned by the broker. WriterData carries
// an ack channel through to the completion callback so the broker
// placement reaches this caller even though WriteMessages itself does
// not return it.
func (c *Client) Append(ctx context.Context, topic, key string, value []byte) (messaging.AppendResult, error) {
	ack := make(chan appendAck, 1)
	msg := kafka.Message{
		Topic:      topic,
		Key:        []byte(key),
		Value:      value,
		WriterData: ack,
	}

	if err := c.writer.WriteMessages(ctx, msg); err != nil {
		return messaging.AppendResult{}, err
	}

	select {
	case res := <-ack:
		if res.err != nil {
			return messaging.AppendResult{}, res.err
		}
		return messaging.AppendResult{Partition: res.partition, Offset: res.offset}, nil
	case <-ctx.Done():
		return messaging.AppendResult{}, ctx.Err()
	}
}

// complete is the writer completion callback shared by all appends.
func complete(messages []kafka.Message, err error) {
	for _, msg := range messages {
		if ack, ok := msg.WriterData.(chan appendAck); ok {
			ack <- appendAck{partition: msg.Partition, offset: msg.Offset, err: err}
		}
	}
}

// Ping dials a broker and lists cluster brokers to verify reachability.
func (c *Client) Ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", c.brokers[0])
	if err != nil {
		return fmt.Errorf("dial broker %s: %w", c.brokers[0], err)
	}
	defer conn.Close()

	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("list brokers: %w", err)
	}
	return nil
}

// Close flushes and releases the writer.
func (c *Client) Close() error {
	return c.writer.Close()
}
