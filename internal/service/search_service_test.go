package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zivgin/canonical-product-builder/internal/models"
	"github.com/zivgin/canonical-product-builder/internal/utils"
)

func searchRegistry() *RegistrySnapshot {
	return testRegistry(
		map[string]string{"7": "Shufersal", "8": "Rami Levy"},
		map[string]string{"7-1": "Shufersal Deal", "7-2": "", "8-1": "1"},
	)
}

func TestSearch(t *testing.T) {
	store := &fakeListingStore{listings: []models.Listing{
		{ItemCode: "300", ItemName: "Chocolate Milk", FileName: "PriceFull7-002-20240101.xml"},
		{ItemCode: "100", ItemName: "Milk 1L", FileName: "PriceFull7-001-20240101.xml"},
		{ItemCode: "200", ItemName: "Milk", FileName: "PriceFull8-001-20240101.xml"},
		{ItemCode: "400", ItemName: "Milk Powder", FileName: "no-identity.xml"},
	}}
	svc := NewSearchService(store)
	ctx := context.Background()

	t.Run("ranks exact above prefix above contains", func(t *testing.T) {
		candidates, err := svc.Search(ctx, "Milk", nil, nil, searchRegistry())
		require.NoError(t, err)
		require.Len(t, candidates, 3)

		assert.Equal(t, "Milk", candidates[0].ItemName)
		assert.Equal(t, models.TierExact, candidates[0].Tier)
		assert.Equal(t, "Milk 1L", candidates[1].ItemName)
		assert.Equal(t, models.TierPrefix, candidates[1].Tier)
		assert.Equal(t, "Chocolate Milk", candidates[2].ItemName)
		assert.Equal(t, models.TierContains, candidates[2].Tier)
	})

	t.Run("drops listings with no chain identity", func(t *testing.T) {
		candidates, err := svc.Search(ctx, "Milk", nil, nil, searchRegistry())
		require.NoError(t, err)
		for _, cand := range candidates {
			assert.NotEqual(t, "400", cand.ItemCode)
		}
	})

	t.Run("excludes assigned sub-chains", func(t *testing.T) {
		excluded := map[string]struct{}{"7-1": {}}
		candidates, err := svc.Search(ctx, "Milk", excluded, nil, searchRegistry())
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		for _, cand := range candidates {
			assert.NotEqual(t, "7-1", cand.SubChainKey)
		}
	})

	t.Run("exclude words reject listings before the positive match", func(t *testing.T) {
		candidates, err := svc.Search(ctx, "Milk", nil, []string{"Chocolate", "Powder"}, searchRegistry())
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, `Chocolate|Powder`, store.lastExcludePattern)
	})

	t.Run("exact anchors match whole name only", func(t *testing.T) {
		candidates, err := svc.Search(ctx, "^Milk$", nil, nil, searchRegistry())
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "Milk", candidates[0].ItemName)
		assert.Equal(t, models.TierExact, candidates[0].Tier)
	})

	t.Run("case-insensitive exact tier", func(t *testing.T) {
		candidates, err := svc.Search(ctx, "milk", nil, nil, searchRegistry())
		require.NoError(t, err)
		require.NotEmpty(t, candidates)
		assert.Equal(t, models.TierExact, candidates[0].Tier)
		assert.Equal(t, "Milk", candidates[0].ItemName)
	})

	t.Run("regex metacharacters in term are literal", func(t *testing.T) {
		metaStore := &fakeListingStore{listings: []models.Listing{
			{ItemCode: "1", ItemName: "Juice (1L)", FileName: "PriceFull7-001-x"},
			{ItemCode: "2", ItemName: "Juice 1L", FileName: "PriceFull7-002-x"},
		}}
		candidates, err := NewSearchService(metaStore).Search(ctx, "(1L)", nil, nil, searchRegistry())
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "Juice (1L)", candidates[0].ItemName)
	})

	t.Run("blank term returns nothing without hitting the store", func(t *testing.T) {
		candidates, err := svc.Search(ctx, "   ", nil, nil, searchRegistry())
		require.NoError(t, err)
		assert.Empty(t, candidates)

		candidates, err = svc.Search(ctx, "^$", nil, nil, searchRegistry())
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("resolves sub-chain display names", func(t *testing.T) {
		candidates, err := svc.Search(ctx, "Milk", nil, nil, searchRegistry())
		require.NoError(t, err)
		byKey := make(map[string]string)
		for _, cand := range candidates {
			byKey[cand.SubChainKey] = cand.SubChainName
		}
		assert.Equal(t, "Shufersal Deal", byKey["7-1"])
		assert.Equal(t, "Shufersal", byKey["7-2"])
		assert.Equal(t, "Rami Levy", byKey["8-1"])
	})

	t.Run("store failure propagates", func(t *testing.T) {
		failing := NewSearchService(&fakeListingStore{failWith: utils.ErrStoreUnavailable})
		_, err := failing.Search(ctx, "Milk", nil, nil, searchRegistry())
		assert.ErrorIs(t, err, utils.ErrStoreUnavailable)
	})

	t.Run("requests the fixed result cap", func(t *testing.T) {
		_, err := svc.Search(ctx, "Milk", nil, nil, searchRegistry())
		require.NoError(t, err)
		assert.Equal(t, SearchLimit, store.lastLimit)
	})
}

func TestSearchTieBreak(t *testing.T) {
	// Equal tiers order by item code ascending regardless of store order.
	store := &fakeListingStore{listings: []models.Listing{
		{ItemCode: "900", ItemName: "Milk 3%", FileName: "PriceFull7-001-x"},
		{ItemCode: "100", ItemName: "Milk 1%", FileName: "PriceFull7-002-x"},
		{ItemCode: "500", ItemName: "Milk 2%", FileName: "PriceFull8-001-x"},
	}}
	candidates, err := NewSearchService(store).Search(context.Background(), "Milk", nil, nil, searchRegistry())
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	codes := make([]string, 0, 3)
	for _, cand := range candidates {
		assert.Equal(t, models.TierPrefix, cand.Tier)
		codes = append(codes, cand.ItemCode)
	}
	assert.Equal(t, []string{"100", "500", "900"}, codes)
}

func TestRelevanceTier(t *testing.T) {
	cases := []struct {
		name string
		term string
		want int
	}{
		{"Milk 1L", "milk 1l", models.TierExact},
		{"Milk 1L", "Milk", models.TierPrefix},
		{"Chocolate Milk", "Milk", models.TierContains},
		{"MILK", "milk", models.TierExact},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s/%s", tc.name, tc.term), func(t *testing.T) {
			assert.Equal(t, tc.want, relevanceTier(tc.name, tc.term))
		})
	}
}
