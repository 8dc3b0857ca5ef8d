package routing

import (
	"github.com/vibeflow/eventbus-go/contracts"
)

// RequiresStrictOrdering reports whether an event must only ever travel
// through a transport that cannot reorder or drop it. This covers every
// event that moves money or ownership.
func RequiresStrictOrdering(env contracts.Envelope) bool {
	switch env.Payload.(type) {
	case *contracts.SharesPurchasedPayload,
		*contracts.SharesTradedPayload,
		*contracts.RevenueDistributedPayload,
		*contracts.OwnershipContractCreatedPayload,
		*contracts.OwnershipContractTerminatedPayload,
		*contracts.ArtistRoyaltyPaidPayload,
		*contracts.RewardDistributedPayload:
		return true
	default:
		return false
	}
}

// ValidateFinancial checks category-specific financial invariants
// before an event is accepted. A failure aborts the publish entirely:
// the event is neither sent nor cached.
func ValidateFinancial(env contracts.Envelope) error {
	switch p := env.Payload.(type) {
	case *contracts.SharesPurchasedPayload:
		if p.OwnershipPercentage <= 0 || p.OwnershipPercentage > 100 {
			return validationError(env, "ownership percentage must be in (0, 100]")
		}
		if p.PurchasePrice <= 0 {
			return validationError(env, "purchase price must be positive")
		}
	case *contracts.RevenueDistributedPayload:
		if p.TotalDistributed > p.TotalRevenue {
			return validationError(env, "cannot distribute more than total revenue")
		}
		if p.ShareholderCount == 0 {
			return validationError(env, "cannot distribute to zero shareholders")
		}
	case *contracts.SharesTradedPayload:
		if p.OwnershipPercentage <= 0 {
			return validationError(env, "cannot trade zero ownership")
		}
		if p.FromUserID == p.ToUserID {
			return validationError(env, "cannot trade with self")
		}
	}
	return nil
}

func validationError(env contracts.Envelope, reason string) *contracts.ValidationError {
	return &contracts.ValidationError{
		EventID:   env.Metadata.EventID,
		EventType: env.Metadata.EventType,
		Reason:    reason,
	}
}

// OrderingPriority ranks events for priority-aware dispatch and
// backpressure, highest first. Money movement outranks contract
// lifecycle, which outranks user and catalog changes; telemetry sits
// at the bottom.
func OrderingPriority(env contracts.Envelope) uint8 {
	switch env.Payload.(type) {
	case *contracts.RevenueDistributedPayload:
		return 10
	case *contracts.SharesTradedPayload:
		return 9
	case *contracts.SharesPurchasedPayload:
		return 8
	case *contracts.ArtistRoyaltyPaidPayload:
		return 7
	case *contracts.RewardDistributedPayload:
		return 6
	case *contracts.OwnershipContractCreatedPayload,
		*contracts.OwnershipContractTerminatedPayload:
		return 5
	case *contracts.UserRegisteredPayload:
		return 4
	case *contracts.UserProfileUpdatedPayload,
		*contracts.SongUploadedPayload,
		*contracts.AlbumCreatedPayload:
		return 3
	case *contracts.ListenSessionCompletedPayload,
		*contracts.RewardCalculatedPayload:
		return 2
	case *contracts.AnalyticsPayload,
		*contracts.SystemHealthCheckPayload:
		return 1
	default:
		return 0
	}
}
