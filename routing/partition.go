package routing

import (
	"fmt"

	"github.com/vibeflow/eventbus-go/contracts"
)

// PartitionKey derives the ordering key for an envelope. All events for
// one logical entity collapse onto one key regardless of which event
// type touched it, so a single-reader durable log partition observes
// them in causal order. The function is pure and total.
func PartitionKey(env contracts.Envelope) string {
	switch p := env.Payload.(type) {
	// Ownership contract lifecycle and money movement: per contract.
	case *contracts.OwnershipContractCreatedPayload:
		return "contract:" + p.ContractID
	case *contracts.OwnershipContractTerminatedPayload:
		return "contract:" + p.ContractID
	case *contracts.SharesPurchasedPayload:
		return "contract:" + p.ContractID
	case *contracts.SharesTradedPayload:
		return "contract:" + p.ContractID
	case *contracts.RevenueDistributedPayload:
		return "contract:" + p.ContractID

	// User lifecycle, listen sessions and rewards: per user.
	case *contracts.ListenSessionStartedPayload:
		return "user:" + p.UserID
	case *contracts.ListenSessionCompletedPayload:
		return "user:" + p.UserID
	case *contracts.RewardCalculatedPayload:
		return "user:" + p.UserID
	case *contracts.RewardDistributedPayload:
		return "user:" + p.UserID
	case *contracts.UserRegisteredPayload:
		return "user:" + p.UserID
	case *contracts.UserProfileUpdatedPayload:
		return "user:" + p.UserID

	// Catalog: per song.
	case *contracts.SongUploadedPayload:
		return "song:" + p.SongID
	case *contracts.SongListenedPayload:
		return "song:" + p.SongID

	// Royalty payments: per artist.
	case *contracts.ArtistRoyaltyPaidPayload:
		return "artist:" + p.ArtistID

	// Campaign lifecycle and NFT sales: per campaign.
	case *contracts.CampaignCreatedPayload:
		return "campaign:" + p.CampaignID
	case *contracts.CampaignActivatedPayload:
		return "campaign:" + p.CampaignID
	case *contracts.NFTPurchasedPayload:
		return "campaign:" + p.CampaignID

	case *contracts.AlbumCreatedPayload:
		return "album:" + p.AlbumID

	case *contracts.SystemHealthCheckPayload:
		return "service:" + p.Service
	case *contracts.AnalyticsPayload:
		return "entity:" + p.EntityID

	default:
		// Unreachable for the closed payload set; keyed by aggregate so
		// a missed case still partitions deterministically.
		return "aggregate:" + env.Metadata.AggregateID
	}
}

// HighFrequencyPartitionKey buckets very hot keys into time windows to
// spread load across more partitions while preserving order within a
// bucket. It only applies to non-critical categories: listen
// completions get hour buckets, raw analytics five-minute buckets.
// Financial categories always fall through to PartitionKey.
func HighFrequencyPartitionKey(env contracts.Envelope) string {
	switch p := env.Payload.(type) {
	case *contracts.ListenSessionCompletedPayload:
		bucket := p.CompletedAt.Unix() / 3600
		return fmt.Sprintf("user:%s:hour:%d", p.UserID, bucket)
	case *contracts.AnalyticsPayload:
		bucket := p.Timestamp.Unix() / 300
		return fmt.Sprintf("analytics:%s:bucket:%d", p.EntityID, bucket)
	default:
		return PartitionKey(env)
	}
}
