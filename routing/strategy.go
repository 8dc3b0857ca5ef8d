package routing

import (
	"strings"
	"time"

	"github.com/vibeflow/eventbus-go/contracts"
)

// Transport identifies which transport(s) a publish should use.
type Transport int

const (
	// TransportDurableLog sends through the append-only ordered log.
	TransportDurableLog Transport = iota
	// TransportFastStore sends through low-latency pub/sub.
	TransportFastStore
	// TransportBoth sends through both for redundancy.
	TransportBoth
	// TransportDirect signals synchronous in-process handling only.
	TransportDirect
)

func (t Transport) String() string {
	switch t {
	case TransportDurableLog:
		return "durable-log"
	case TransportFastStore:
		return "fast-store"
	case TransportBoth:
		return "both"
	case TransportDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// Decision is the routing outcome for one envelope. It is computed
// fresh on every publish and carries no identity of its own.
type Decision struct {
	Transport Transport
	// Reason is a human-readable explanation for observability.
	Reason string
	// Channel is the fast-store pub/sub channel, when one applies.
	Channel string
	// CacheTTL bounds the lifetime of the cached copy.
	CacheTTL time.Duration
	// Store requests a time-boxed cached copy for point lookups.
	Store bool
}

// Fast-store channel names.
const (
	ChannelListenRealTime = "vibeflow:listen:real-time"
	ChannelUserUpdates    = "vibeflow:users:updates"
	ChannelSystemHealth   = "vibeflow:system:health"
	ChannelGeneral        = "vibeflow:events:general"
	ChannelDeadLetter     = "vibeflow:events:dlq"
)

// ChannelForEvent returns the per-type fast-store channel used when no
// dedicated channel applies.
func ChannelForEvent(eventType string) string {
	return "vibeflow:events:" + strings.ToLower(eventType)
}

// Config carries the routing-relevant slice of the bus configuration.
// It is immutable once the strategy is built.
type Config struct {
	DurableLogEnabled bool
	DefaultCacheTTL   time.Duration
}

// Strategy decides per event which transport(s) carry it.
type Strategy struct {
	cfg Config
}

// NewStrategy builds a routing strategy from immutable configuration.
func NewStrategy(cfg Config) *Strategy {
	if cfg.DefaultCacheTTL <= 0 {
		cfg.DefaultCacheTTL = time.Hour
	}
	return &Strategy{cfg: cfg}
}

// Decide computes the routing decision for an envelope. Financial
// correctness overrides all other concerns: strictly ordered events go
// to the durable log alone and are never downgraded to pub/sub.
func (s *Strategy) Decide(env contracts.Envelope) Decision {
	if RequiresStrictOrdering(env) {
		return Decision{
			Transport: TransportDurableLog,
			Reason:    "financial event requires strict ordering",
		}
	}

	switch env.Payload.(type) {
	case *contracts.ListenSessionCompletedPayload:
		d := Decision{
			Transport: TransportFastStore,
			Reason:    "durable log disabled, fast store only",
			Channel:   ChannelListenRealTime,
			CacheTTL:  5 * time.Minute,
			Store:     true,
		}
		if s.cfg.DurableLogEnabled {
			d.Transport = TransportBoth
			d.Reason = "listen session feeds analytics and real-time progress"
		}
		return d

	case *contracts.AnalyticsPayload:
		if s.cfg.DurableLogEnabled {
			return Decision{
				Transport: TransportDurableLog,
				Reason:    "analytics stream for downstream processing",
			}
		}
		return Decision{
			Transport: TransportFastStore,
			Reason:    "durable log disabled, using fast store",
			Channel:   ChannelGeneral,
			CacheTTL:  s.cfg.DefaultCacheTTL,
			Store:     true,
		}

	case *contracts.UserProfileUpdatedPayload:
		return Decision{
			Transport: TransportFastStore,
			Reason:    "profile change needs immediate read-back",
			Channel:   ChannelUserUpdates,
			CacheTTL:  30 * time.Minute,
			Store:     true,
		}

	case *contracts.SystemHealthCheckPayload:
		d := Decision{
			Transport: TransportFastStore,
			Reason:    "health signal, immediate notification only",
			Channel:   ChannelSystemHealth,
			CacheTTL:  time.Minute,
		}
		if s.cfg.DurableLogEnabled {
			d.Transport = TransportBoth
			d.Reason = "health signal needs immediate notification and history"
		}
		return d

	default:
		if s.cfg.DurableLogEnabled {
			return Decision{
				Transport: TransportDurableLog,
				Reason:    "default routing to durable log",
			}
		}
		return Decision{
			Transport: TransportFastStore,
			Reason:    "durable log disabled, using fast store",
			Channel:   ChannelGeneral,
			CacheTTL:  s.cfg.DefaultCacheTTL,
			Store:     true,
		}
	}
}
