package contracts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultProducer identifies envelopes built without an explicit producer.
const DefaultProducer = "vibeflow-api-gateway"

// EventMetadata carries routing and tracing information for an envelope.
type EventMetadata struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	AggregateType string            `json:"aggregate_type"`
	AggregateID   string            `json:"aggregate_id"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	CausationID   string            `json:"causation_id,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
	Version       int               `json:"version"`
	Producer      string            `json:"producer"`
	Headers       map[string]string `json:"headers,omitempty"`
}

// Envelope wraps a domain event payload with transport metadata. It is
// the unit handed to the publisher and received by subscribers.
type Envelope struct {
	Metadata EventMetadata
	Payload  EventPayload
}

// NewEnvelope creates an envelope with a generated event id, the current
// UTC time and schema version 1. The event type is taken from the
// payload so metadata and payload variant always agree.
func NewEnvelope(aggregateType, aggregateID string, payload EventPayload) Envelope {
	return Envelope{
		Metadata: EventMetadata{
			EventID:       uuid.New().String(),
			EventType:     payload.EventType(),
			AggregateType: aggregateType,
			AggregateID:   aggregateID,
			OccurredAt:    time.Now().UTC(),
			Version:       1,
			Producer:      DefaultProducer,
		},
		Payload: payload,
	}
}

// WithCorrelation returns a copy of the envelope linked to a workflow.
func (e Envelope) WithCorrelation(correlationID string) Envelope {
	e.Metadata.CorrelationID = correlationID
	return e
}

// WithCausation returns a copy naming the event that triggered this one.
func (e Envelope) WithCausation(causationID string) Envelope {
	e.Metadata.CausationID = causationID
	return e
}

// WithProducer returns a copy attributed to the given service.
func (e Envelope) WithProducer(producer string) Envelope {
	e.Metadata.Producer = producer
	return e
}

// AddHeader returns a copy with an extra routing header. The header map
// is cloned so holders of the original envelope never observe the write.
func (e Envelope) AddHeader(key, value string) Envelope {
	headers := make(map[string]string, len(e.Metadata.Headers)+1)
	for k, v := range e.Metadata.Headers {
		headers[k] = v
	}
	headers[key] = value
	e.Metadata.Headers = headers
	return e
}

// wireEnvelope is the on-the-wire JSON shape.
type wireEnvelope struct {
	Metadata EventMetadata `json:"metadata"`
	Payload  wirePayload   `json:"payload"`
}

type wirePayload struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes the payload as a tagged union under "payload".
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("envelope %s has no payload", e.Metadata.EventID)
	}
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireEnvelope{
		Metadata: e.Metadata,
		Payload:  wirePayload{Type: e.Payload.EventType(), Data: data},
	})
}

// UnmarshalJSON decodes the tagged payload union. Unknown discriminators
// are an error so poison messages surface instead of decoding partially.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var wire wireEnvelope
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	factory, ok := payloadFactories[wire.Payload.Type]
	if !ok {
		return fmt.Errorf("unknown payload type %q", wire.Payload.Type)
	}
	payload := factory()
	if err := json.Unmarshal(wire.Payload.Data, payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", wire.Payload.Type, err)
	}
	e.Metadata = wire.Metadata
	e.Payload = payload
	return nil
}
