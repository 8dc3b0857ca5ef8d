package routing

// Logical topics of the durable log. The set is fixed; the dead-letter
// topic receives poison messages that could not be decoded or delivered.
const (
	TopicListenSessions      = "vibeflow.listen-sessions"
	TopicRewards             = "vibeflow.rewards"
	TopicFractionalOwnership = "vibeflow.fractional-ownership"
	TopicMusicCatalog        = "vibeflow.music-catalog"
	TopicCampaigns           = "vibeflow.campaigns"
	TopicUsers               = "vibeflow.users"
	TopicAnalytics           = "vibeflow.analytics"
	TopicSystem              = "vibeflow.system"
	TopicAuditLog            = "vibeflow.audit"
	TopicDeadLetter          = "vibeflow.dlq"
)

// TopicForEvent maps an event type to its durable log topic. Unknown
// event types resolve to the system topic: routing fails open so an
// event is never dropped for lack of a route.
func TopicForEvent(eventType string) string {
	switch eventType {
	case "ListenSessionStarted", "ListenSessionCompleted":
		return TopicListenSessions
	case "RewardCalculated", "RewardDistributed", "ArtistRoyaltyPaid":
		return TopicRewards
	case "OwnershipContractCreated", "SharesPurchased", "SharesTraded",
		"RevenueDistributed", "OwnershipContractTerminated":
		return TopicFractionalOwnership
	case "SongUploaded", "SongListened", "AlbumCreated":
		return TopicMusicCatalog
	case "CampaignCreated", "CampaignActivated", "NFTPurchased":
		return TopicCampaigns
	case "UserRegistered", "UserProfileUpdated":
		return TopicUsers
	case "Analytics":
		return TopicAnalytics
	case "SystemHealthCheck":
		return TopicSystem
	default:
		return TopicSystem
	}
}
