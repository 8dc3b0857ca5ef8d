package contracts

import (
	"encoding/json"
	"time"
)

// EventPayload is the closed set of domain event payloads carried by an
// Envelope. Adding a variant requires a new struct here, a factory entry
// in payloadFactories, and explicit cases in the routing tables.
type EventPayload interface {
	// EventType returns the payload discriminator, e.g. "SharesPurchased".
	EventType() string
}

// Listen & reward payloads

type ListenSessionStartedPayload struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	SongID    string    `json:"song_id"`
	ArtistID  string    `json:"artist_id"`
	UserTier  string    `json:"user_tier"`
	StartedAt time.Time `json:"started_at"`
}

func (*ListenSessionStartedPayload) EventType() string { return "ListenSessionStarted" }

type ListenSessionCompletedPayload struct {
	SessionID             string    `json:"session_id"`
	UserID                string    `json:"user_id"`
	SongID                string    `json:"song_id"`
	ListenDurationSeconds int       `json:"listen_duration_seconds"`
	QualityScore          float64   `json:"quality_score"`
	ZKProofHash           string    `json:"zk_proof_hash"`
	CompletedAt           time.Time `json:"completed_at"`
}

func (*ListenSessionCompletedPayload) EventType() string { return "ListenSessionCompleted" }

type RewardCalculatedPayload struct {
	SessionID         string    `json:"session_id"`
	UserID            string    `json:"user_id"`
	SongID            string    `json:"song_id"`
	ArtistID          string    `json:"artist_id"`
	BaseReward        float64   `json:"base_reward"`
	FinalReward       float64   `json:"final_reward"`
	UserTier          string    `json:"user_tier"`
	QualityMultiplier float64   `json:"quality_multiplier"`
	CalculatedAt      time.Time `json:"calculated_at"`
}

func (*RewardCalculatedPayload) EventType() string { return "RewardCalculated" }

type RewardDistributedPayload struct {
	SessionID       string    `json:"session_id"`
	UserID          string    `json:"user_id"`
	RewardAmount    float64   `json:"reward_amount"`
	TransactionHash string    `json:"transaction_hash"`
	DistributedAt   time.Time `json:"distributed_at"`
}

func (*RewardDistributedPayload) EventType() string { return "RewardDistributed" }

type ArtistRoyaltyPaidPayload struct {
	SessionID         string    `json:"session_id"`
	ArtistID          string    `json:"artist_id"`
	SongID            string    `json:"song_id"`
	RoyaltyAmount     float64   `json:"royalty_amount"`
	RoyaltyPercentage float64   `json:"royalty_percentage"`
	TransactionHash   string    `json:"transaction_hash"`
	PaidAt            time.Time `json:"paid_at"`
}

func (*ArtistRoyaltyPaidPayload) EventType() string { return "ArtistRoyaltyPaid" }

// Fractional ownership payloads

type OwnershipContractCreatedPayload struct {
	ContractID               string    `json:"contract_id"`
	SongID                   string    `json:"song_id"`
	ArtistID                 string    `json:"artist_id"`
	TotalShares              int       `json:"total_shares"`
	PricePerShare            float64   `json:"price_per_share"`
	ArtistRetainedPercentage float64   `json:"artist_retained_percentage"`
	SharesAvailableForSale   int       `json:"shares_available_for_sale"`
	CreatedAt                time.Time `json:"created_at"`
}

func (*OwnershipContractCreatedPayload) EventType() string { return "OwnershipContractCreated" }

type SharesPurchasedPayload struct {
	ContractID          string    `json:"contract_id"`
	ShareID             string    `json:"share_id"`
	BuyerID             string    `json:"buyer_id"`
	SongID              string    `json:"song_id"`
	OwnershipPercentage float64   `json:"ownership_percentage"`
	PurchasePrice       float64   `json:"purchase_price"`
	TransactionHash     string    `json:"transaction_hash,omitempty"`
	PurchasedAt         time.Time `json:"purchased_at"`
}

func (*SharesPurchasedPayload) EventType() string { return "SharesPurchased" }

type SharesTradedPayload struct {
	ContractID          string    `json:"contract_id"`
	ShareID             string    `json:"share_id"`
	FromUserID          string    `json:"from_user_id"`
	ToUserID            string    `json:"to_user_id"`
	SongID              string    `json:"song_id"`
	OwnershipPercentage float64   `json:"ownership_percentage"`
	TradePrice          float64   `json:"trade_price"`
	TransactionHash     string    `json:"transaction_hash,omitempty"`
	TradedAt            time.Time `json:"traded_at"`
}

func (*SharesTradedPayload) EventType() string { return "SharesTraded" }

type RevenueDistributedPayload struct {
	ContractID              string    `json:"contract_id"`
	SongID                  string    `json:"song_id"`
	TotalRevenue            float64   `json:"total_revenue"`
	DistributionPeriodStart time.Time `json:"distribution_period_start"`
	DistributionPeriodEnd   time.Time `json:"distribution_period_end"`
	TotalDistributed        float64   `json:"total_distributed"`
	ArtistShare             float64   `json:"artist_share"`
	PlatformFee             float64   `json:"platform_fee"`
	ShareholderCount        int       `json:"shareholder_count"`
	DistributedAt           time.Time `json:"distributed_at"`
}

func (*RevenueDistributedPayload) EventType() string { return "RevenueDistributed" }

type OwnershipContractTerminatedPayload struct {
	ContractID        string    `json:"contract_id"`
	SongID            string    `json:"song_id"`
	TerminationReason string    `json:"termination_reason"`
	TerminatedBy      string    `json:"terminated_by"`
	TerminatedAt      time.Time `json:"terminated_at"`
}

func (*OwnershipContractTerminatedPayload) EventType() string { return "OwnershipContractTerminated" }

// Music catalog payloads

type SongUploadedPayload struct {
	SongID          string    `json:"song_id"`
	ArtistID        string    `json:"artist_id"`
	Title           string    `json:"title"`
	Genre           string    `json:"genre"`
	DurationSeconds int       `json:"duration_seconds"`
	UploadedAt      time.Time `json:"uploaded_at"`
}

func (*SongUploadedPayload) EventType() string { return "SongUploaded" }

type SongListenedPayload struct {
	SongID                string    `json:"song_id"`
	ListenerID            string    `json:"listener_id"`
	ListenCount           int64     `json:"listen_count"`
	ListenDurationSeconds int       `json:"listen_duration_seconds"`
	ListenedAt            time.Time `json:"listened_at"`
}

func (*SongListenedPayload) EventType() string { return "SongListened" }

type AlbumCreatedPayload struct {
	AlbumID   string    `json:"album_id"`
	ArtistID  string    `json:"artist_id"`
	Title     string    `json:"title"`
	SongIDs   []string  `json:"song_ids"`
	CreatedAt time.Time `json:"created_at"`
}

func (*AlbumCreatedPayload) EventType() string { return "AlbumCreated" }

// Campaign payloads

type CampaignCreatedPayload struct {
	CampaignID    string    `json:"campaign_id"`
	SongID        string    `json:"song_id"`
	ArtistID      string    `json:"artist_id"`
	TargetRevenue float64   `json:"target_revenue"`
	NFTPrice      float64   `json:"nft_price"`
	MaxNFTs       int       `json:"max_nfts"`
	CreatedAt     time.Time `json:"created_at"`
}

func (*CampaignCreatedPayload) EventType() string { return "CampaignCreated" }

type CampaignActivatedPayload struct {
	CampaignID  string    `json:"campaign_id"`
	ActivatedAt time.Time `json:"activated_at"`
}

func (*CampaignActivatedPayload) EventType() string { return "CampaignActivated" }

type NFTPurchasedPayload struct {
	CampaignID      string    `json:"campaign_id"`
	BuyerID         string    `json:"buyer_id"`
	NFTID           string    `json:"nft_id"`
	PurchasePrice   float64   `json:"purchase_price"`
	TransactionHash string    `json:"transaction_hash"`
	PurchasedAt     time.Time `json:"purchased_at"`
}

func (*NFTPurchasedPayload) EventType() string { return "NFTPurchased" }

// User payloads

type UserRegisteredPayload struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	UserType     string    `json:"user_type"` // "artist", "fan", "investor"
	RegisteredAt time.Time `json:"registered_at"`
}

func (*UserRegisteredPayload) EventType() string { return "UserRegistered" }

type UserProfileUpdatedPayload struct {
	UserID        string    `json:"user_id"`
	UpdatedFields []string  `json:"updated_fields"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (*UserProfileUpdatedPayload) EventType() string { return "UserProfileUpdated" }

// System payloads

type SystemHealthCheckPayload struct {
	Service        string    `json:"service"`
	Status         string    `json:"status"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	Timestamp      time.Time `json:"timestamp"`
}

func (*SystemHealthCheckPayload) EventType() string { return "SystemHealthCheck" }

type AnalyticsPayload struct {
	Name      string                     `json:"event_type"`
	EntityID  string                     `json:"entity_id"`
	Metrics   map[string]json.RawMessage `json:"metrics,omitempty"`
	Timestamp time.Time                  `json:"timestamp"`
}

func (*AnalyticsPayload) EventType() string { return "Analytics" }

// payloadFactories maps event type discriminators to payload
// constructors for decoding. Every EventPayload variant has an entry.
var payloadFactories = map[string]func() EventPayload{
	"ListenSessionStarted":        func() EventPayload { return &ListenSessionStartedPayload{} },
	"ListenSessionCompleted":      func() EventPayload { return &ListenSessionCompletedPayload{} },
	"RewardCalculated":            func() EventPayload { return &RewardCalculatedPayload{} },
	"RewardDistributed":           func() EventPayload { return &RewardDistributedPayload{} },
	"ArtistRoyaltyPaid":           func() EventPayload { return &ArtistRoyaltyPaidPayload{} },
	"OwnershipContractCreated":    func() EventPayload { return &OwnershipContractCreatedPayload{} },
	"SharesPurchased":             func() EventPayload { return &SharesPurchasedPayload{} },
	"SharesTraded":                func() EventPayload { return &SharesTradedPayload{} },
	"RevenueDistributed":          func() EventPayload { return &RevenueDistributedPayload{} },
	"OwnershipContractTerminated": func() EventPayload { return &OwnershipContractTerminatedPayload{} },
	"SongUploaded":                func() EventPayload { return &SongUploadedPayload{} },
	"SongListened":                func() EventPayload { return &SongListenedPayload{} },
	"AlbumCreated":                func() EventPayload { return &AlbumCreatedPayload{} },
	"CampaignCreated":             func() EventPayload { return &CampaignCreatedPayload{} },
	"CampaignActivated":           func() EventPayload { return &CampaignActivatedPayload{} },
	"NFTPurchased":                func() EventPayload { return &NFTPurchasedPayload{} },
	"UserRegistered":              func() EventPayload { return &UserRegisteredPayload{} },
	"UserProfileUpdated":          func() EventPayload { return &UserProfileUpdatedPayload{} },
	"SystemHealthCheck":           func() EventPayload { return &SystemHealthCheckPayload{} },
	"Analytics":                   func() EventPayload { return &AnalyticsPayload{} },
}

// KnownEventTypes returns the discriminators of all payload variants.
func KnownEventTypes() []string {
	types := make([]string, 0, len(payloadFactories))
	for t := range payloadFactories {
		types = append(types, t)
	}
	return types
}
