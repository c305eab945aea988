package plans

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLimits(t *testing.T) {
	assert.Equal(t, 0, EventLimit(TierFree))
	assert.Equal(t, 2, EventLimit(TierBasic))
	assert.Equal(t, 2, EventLimit(TierEnhanced))
	assert.Equal(t, 4, EventLimit(TierPremium))
	assert.Equal(t, 0, EventLimit(7))
	assert.False(t, ValidTier(-1))
	assert.True(t, ValidTier(3))
}

func TestCatalogPricesAndOrder(t *testing.T) {
	all := Catalog()
	require.Len(t, all, 4)
	want := []string{"$0", "$50", "$150", "$300"}
	for i, p := range all {
		assert.Equal(t, i, p.Tier)
		assert.Equal(t, want[i], p.PriceLabel())
		assert.Len(t, p.Features, 13)
		assert.Equal(t, EventLimit(p.Tier), p.EventLimit)
	}
	assert.True(t, all[TierEnhanced].Recommended)
}

func TestCatalogReturnsCopy(t *testing.T) {
	all := Catalog()
	all[0].Name = "Changed"
	p, ok := ByTier(0)
	require.True(t, ok)
	assert.Equal(t, "Free", p.Name)
}

func TestCatalogFeaturesAreNotShared(t *testing.T) {
	all := Catalog()
	all[TierPremium].Features[0].Included = false
	all[TierPremium].Features[0].Label = "Changed"

	premium, ok := ByTier(TierPremium)
	require.True(t, ok)
	assert.True(t, premium.Features[0].Included)
	assert.Equal(t, "Clickable Profile", premium.Features[0].Label)

	premium.Features[1].Detail = "edited"
	again, _ := ByTier(TierPremium)
	assert.NotEqual(t, "edited", again.Features[1].Detail)
}

func TestFeatureValues(t *testing.T) {
	free, _ := ByTier(TierFree)
	assert.False(t, free.Features[0].Included)
	assert.Equal(t, "None", free.Features[1].Detail)

	premium, _ := ByTier(TierPremium)
	byKey := map[string]Feature{}
	for _, f := range premium.Features {
		byKey[f.Key] = f
	}
	assert.True(t, byKey["stateAlerts"].Included)
	assert.Equal(t, "", byKey["stateAlerts"].Detail)
	assert.Equal(t, "Unlimited", byKey["shopPhotos"].Detail)
	assert.Equal(t, "Priority", byKey["awardEligible"].Detail)
}

func TestMonthlyDelta(t *testing.T) {
	assert.True(t, MonthlyDelta(TierBasic, TierPremium).Equal(decimal.NewFromInt(250)))
	assert.True(t, MonthlyDelta(TierEnhanced, TierFree).Equal(decimal.NewFromInt(-150)))
}
