package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "readora/internal/domain/subscription/valueobjects"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(map[vo.PlanTier]PlanConfig{
		vo.TierBasic: {Name: "Basic", Sessions: 12, PriceUSD: 20, PriceID: "pri_basic"},
		vo.TierCore:  {Name: "Core", Sessions: 20, PriceUSD: 30, PriceID: "pri_core"},
		vo.TierPro:   {Name: "Pro", Sessions: 30, PriceUSD: 50, PriceID: "pri_pro"},
	})
	require.NoError(t, err)
	return catalog
}

func TestCatalog_TierForPriceID(t *testing.T) {
	catalog := newTestCatalog(t)

	tier, ok := catalog.TierForPriceID("pri_core")
	require.True(t, ok)
	assert.Equal(t, vo.TierCore, tier)

	_, ok = catalog.TierForPriceID("pri_unknown")
	assert.False(t, ok)
}

func TestCatalog_SessionAllowance(t *testing.T) {
	catalog := newTestCatalog(t)

	tests := []struct {
		tier vo.PlanTier
		want int
	}{
		{vo.TierBasic, 12},
		{vo.TierCore, 20},
		{vo.TierPro, 30},
	}

	for _, tc := range tests {
		t.Run(tc.tier.String(), func(t *testing.T) {
			got, ok := catalog.SessionAllowance(tc.tier)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewCatalog_Empty(t *testing.T) {
	catalog, err := NewCatalog(nil)

	assert.Error(t, err)
	assert.Nil(t, catalog)
}

func TestNewCatalog_DuplicatePriceID(t *testing.T) {
	catalog, err := NewCatalog(map[vo.PlanTier]PlanConfig{
		vo.TierBasic: {Name: "Basic", Sessions: 12, PriceUSD: 20, PriceID: "pri_same"},
		vo.TierCore:  {Name: "Core", Sessions: 20, PriceUSD: 30, PriceID: "pri_same"},
	})

	assert.Error(t, err)
	assert.Nil(t, catalog)
	assert.Contains(t, err.Error(), "pri_same")
}

func TestNewCatalog_NonPositiveSessions(t *testing.T) {
	catalog, err := NewCatalog(map[vo.PlanTier]PlanConfig{
		vo.TierBasic: {Name: "Basic", Sessions: 0, PriceUSD: 20, PriceID: "pri_basic"},
	})

	assert.Error(t, err)
	assert.Nil(t, catalog)
}
