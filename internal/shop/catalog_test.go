package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TapQuest_Go/internal/domain"
)

const testCatalogYAML = `
version: "1.0"
items:
  - id: tapStrength
    name: tap strength
    base_cost: 2000
    max_level: 10
  - id: recoverSpeed
    name: recover speed
    base_cost: 2000
    max_level: 10
  - id: energyLevel
    name: energy level
    base_cost: 2000
    max_level: 10
`

func TestLoadCatalog_ShippedFile(t *testing.T) {
	c, err := LoadCatalog("../../configs/shop.yaml")
	require.NoError(t, err)

	items := c.Items()
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, int64(domain.UpgradeBaseCost), item.BaseCost, item.ID)
		assert.Equal(t, domain.MaxItemLevel, item.MaxLevel, item.ID)
	}
	assert.Equal(t, "Tap Strength", items[0].Name)
}

func TestParseCatalog(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"valid", testCatalogYAML, false},
		{"malformed", "items: [", true},
		{"empty", "version: \"1.0\"\nitems: []\n", true},
		{"unknown item", "items:\n  - id: goldenFinger\n    base_cost: 1\n    max_level: 1\n", true},
		{"duplicate item", "items:\n  - id: tapStrength\n    base_cost: 1\n    max_level: 1\n  - id: tapStrength\n    base_cost: 1\n    max_level: 1\n", true},
		{"zero cost", "items:\n  - id: tapStrength\n    base_cost: 0\n    max_level: 1\n", true},
		{"max level too high", "items:\n  - id: tapStrength\n    base_cost: 1\n    max_level: 11\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCatalog([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			_, ok := c.Item(domain.ItemEnergyLevel)
			assert.True(t, ok)
		})
	}
}

func TestOffer(t *testing.T) {
	item := domain.ShopItem{ID: domain.ItemRecoverSpeed, BaseCost: 2000, MaxLevel: 10}

	tests := []struct {
		name       string
		level      int
		balance    int64
		wantCost   int64
		affordable bool
		maxed      bool
	}{
		{"level 0 affordable", 0, 2000, 2000, true, false},
		{"level 0 short", 0, 1999, 2000, false, false},
		{"level 1", 1, 5000, 2400, true, false},
		{"level 2", 2, 0, 2880, false, false},
		{"maxed out", 10, 1_000_000, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := domain.UserProgress{
				Balance:    tt.balance,
				ItemLevels: domain.ItemLevels{}.With(domain.ItemRecoverSpeed, tt.level),
			}
			offer := Offer(item, u)
			assert.Equal(t, tt.level, offer.CurrentLevel)
			assert.Equal(t, tt.wantCost, offer.NextCost)
			assert.Equal(t, tt.affordable, offer.Affordable)
			assert.Equal(t, tt.maxed, offer.MaxedOut)
		})
	}
}
