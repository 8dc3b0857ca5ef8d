package routing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeflow/eventbus-go/contracts"
)

func TestRequiresStrictOrdering(t *testing.T) {
	strict := []contracts.EventPayload{
		&contracts.SharesPurchasedPayload{},
		&contracts.SharesTradedPayload{},
		&contracts.RevenueDistributedPayload{},
		&contracts.OwnershipContractCreatedPayload{},
		&contracts.OwnershipContractTerminatedPayload{},
		&contracts.ArtistRoyaltyPaidPayload{},
		&contracts.RewardDistributedPayload{},
	}
	for _, payload := range strict {
		t.Run(payload.EventType(), func(t *testing.T) {
			env := contracts.NewEnvelope("Aggregate", "agg", payload)
			assert.True(t, RequiresStrictOrdering(env))
		})
	}

	relaxed := []contracts.EventPayload{
		&contracts.ListenSessionStartedPayload{},
		&contracts.ListenSessionCompletedPayload{},
		&contracts.RewardCalculatedPayload{},
		&contracts.UserRegisteredPayload{},
		&contracts.AnalyticsPayload{},
		&contracts.SystemHealthCheckPayload{},
	}
	for _, payload := range relaxed {
		t.Run(payload.EventType(), func(t *testing.T) {
			env := contracts.NewEnvelope("Aggregate", "agg", payload)
			assert.False(t, RequiresStrictOrdering(env))
		})
	}
}

func TestValidateFinancial(t *testing.T) {
	t.Run("valid purchase passes", func(t *testing.T) {
		env := contracts.NewEnvelope("OwnershipContract", "c-1", &contracts.SharesPurchasedPayload{
			ContractID:          "c-1",
			OwnershipPercentage: 5,
			PurchasePrice:       100,
		})
		assert.NoError(t, ValidateFinancial(env))
	})

	t.Run("purchase rejects out-of-range ownership", func(t *testing.T) {
		for _, pct := range []float64{0, -1, 100.5} {
			env := contracts.NewEnvelope("OwnershipContract", "c-1", &contracts.SharesPurchasedPayload{
				OwnershipPercentage: pct,
				PurchasePrice:       100,
			})
			err := ValidateFinancial(env)
			require.Error(t, err, "pct=%v", pct)

			var verr *contracts.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "SharesPurchased", verr.EventType)
		}
	})

	t.Run("purchase accepts full ownership", func(t *testing.T) {
		env := contracts.NewEnvelope("OwnershipContract", "c-1", &contracts.SharesPurchasedPayload{
			OwnershipPercentage: 100,
			PurchasePrice:       1,
		})
		assert.NoError(t, ValidateFinancial(env))
	})

	t.Run("purchase rejects non-positive price", func(t *testing.T) {
		env := contracts.NewEnvelope("OwnershipContract", "c-1", &contracts.SharesPurchasedPayload{
			OwnershipPercentage: 5,
			PurchasePrice:       0,
		})
		assert.ErrorContains(t, ValidateFinancial(env), "purchase price")
	})

	t.Run("distribution within revenue passes", func(t *testing.T) {
		env := contracts.NewEnvelope("OwnershipContract", "c-1", &contracts.RevenueDistributedPayload{
			TotalRevenue:     1000,
			TotalDistributed: 900,
			ShareholderCount: 12,
		})
		assert.NoError(t, ValidateFinancial(env))
	})

	t.Run("distribution exceeding revenue rejected", func(t *testing.T) {
		env := contracts.NewEnvelope("OwnershipContract", "c-1", &contracts.RevenueDistributedPayload{
			TotalRevenue:     1000,
			TotalDistributed: 1200,
			ShareholderCount: 12,
		})
		assert.ErrorContains(t, ValidateFinancial(env), "more than total revenue")
	})

	t.Run("distribution to zero shareholders rejected", func(t *testing.T) {
		env := contracts.NewEnvelope("OwnershipContract", "c-1", &contracts.RevenueDistributedPayload{
			TotalRevenue:     1000,
			TotalDistributed: 900,
		})
		assert.ErrorContains(t, ValidateFinancial(env), "zero shareholders")
	})

	t.Run("self-trade rejected", func(t *testing.T) {
		env := contracts.NewEnvelope("OwnershipContract", "c-1", &contracts.SharesTradedPayload{
			FromUserID:          "u-1",
			ToUserID:            "u-1",
			OwnershipPercentage: 5,
		})
		assert.ErrorContains(t, ValidateFinancial(env), "trade with self")
	})

	t.Run("zero-ownership trade rejected", func(t *testing.T) {
		env := contracts.NewEnvelope("OwnershipContract", "c-1", &contracts.SharesTradedPayload{
			FromUserID: "u-1",
			ToUserID:   "u-2",
		})
		assert.ErrorContains(t, ValidateFinancial(env), "zero ownership")
	})

	t.Run("non-financial events always pass", func(t *testing.T) {
		env := contracts.NewEnvelope("User", "u-1", &contracts.UserRegisteredPayload{})
		assert.NoError(t, ValidateFinancial(env))
	})
}

func TestValidationErrorUnwraps(t *testing.T) {
	env := contracts.NewEnvelope("OwnershipContract", "c-1", &contracts.SharesPurchasedPayload{})
	err := ValidateFinancial(env)
	require.Error(t, err)

	var verr *contracts.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, env.Metadata.EventID, verr.EventID)
}

func TestOrderingPriority(t *testing.T) {
	env := func(p contracts.EventPayload) contracts.Envelope {
		return contracts.NewEnvelope("Aggregate", "agg", p)
	}

	t.Run("money outranks lifecycle outranks telemetry", func(t *testing.T) {
		revenue := OrderingPriority(env(&contracts.RevenueDistributedPayload{}))
		trade := OrderingPriority(env(&contracts.SharesTradedPayload{}))
		purchase := OrderingPriority(env(&contracts.SharesPurchasedPayload{}))
		lifecycle := OrderingPriority(env(&contracts.OwnershipContractCreatedPayload{}))
		listen := OrderingPriority(env(&contracts.ListenSessionCompletedPayload{}))
		analytics := OrderingPriority(env(&contracts.AnalyticsPayload{}))

		assert.Greater(t, revenue, trade)
		assert.Greater(t, trade, purchase)
		assert.Greater(t, purchase, lifecycle)
		assert.Greater(t, lifecycle, listen)
		assert.Greater(t, listen, analytics)
	})

	t.Run("exact ranks", func(t *testing.T) {
		assert.Equal(t, uint8(10), OrderingPriority(env(&contracts.RevenueDistributedPayload{})))
		assert.Equal(t, uint8(7), OrderingPriority(env(&contracts.ArtistRoyaltyPaidPayload{})))
		assert.Equal(t, uint8(6), OrderingPriority(env(&contracts.RewardDistributedPayload{})))
		assert.Equal(t, uint8(4), OrderingPriority(env(&contracts.UserRegisteredPayload{})))
		assert.Equal(t, uint8(1), OrderingPriority(env(&contracts.SystemHealthCheckPayload{})))
	})
}
