package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zivgin/canonical-product-builder/internal/models"
	"github.com/zivgin/canonical-product-builder/internal/utils"
)

func newTestManager(listings []models.Listing, canonical *fakeCanonicalStore) *SessionManager {
	chains := &fakeChainStore{
		chains: []models.Chain{
			{ID: "7", ChainName: "Shufersal"},
			{ID: "8", ChainName: "Rami Levy"},
		},
		subChains: []models.SubChain{
			{ChainID: "7", ID: "001", SubChainName: "Shufersal Deal"},
			{ChainID: "7", ID: "002", SubChainName: "Shufersal Express"},
			{ChainID: "8", ID: "001", SubChainName: ""},
		},
	}
	registry := NewRegistryService(chains, nil)
	search := NewSearchService(&fakeListingStore{listings: listings})
	builder := NewBuilderService(canonical)
	return NewSessionManager(registry, search, builder)
}

func TestSessionWorkflow(t *testing.T) {
	ctx := context.Background()
	listing1 := models.Listing{ItemCode: "100", ItemName: "Milk 1L", FileName: "PriceFull7-001-20240101.xml"}
	listing2 := models.Listing{ItemCode: "200", ItemName: "Milk 1L", FileName: "PriceFull7-002-20240101.xml"}

	mgr := newTestManager([]models.Listing{listing1, listing2}, newFakeCanonicalStore())

	status, err := mgr.Create(ctx)
	require.NoError(t, err)
	id := status.SessionID
	assert.Equal(t, int64(BarcodeFloor), status.SuggestedBarcode)
	assert.Len(t, status.Remaining, 3)
	assert.False(t, status.IsComplete)

	// Both listings surface as prefix matches for "Milk".
	candidates, err := mgr.Search(ctx, id, "Milk", nil)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	for _, cand := range candidates {
		assert.Equal(t, models.TierPrefix, cand.Tier)
	}

	// Assign 7-1; it disappears from the remaining set and from search.
	require.NoError(t, mgr.Assign(id, "7-1", listing1))
	status, err = mgr.Status(id)
	require.NoError(t, err)
	remaining := make([]string, 0, len(status.Remaining))
	for _, r := range status.Remaining {
		remaining = append(remaining, r.SubChainKey)
	}
	assert.Equal(t, []string{"7-2", "8-1"}, remaining)

	candidates, err = mgr.Search(ctx, id, "Milk", nil)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "7-2", candidates[0].SubChainKey)

	// Re-assigning 7-1 is a conflict; the original selection stays.
	err = mgr.Assign(id, "7-1", listing2)
	assert.ErrorIs(t, err, utils.ErrUnknownSubChain)
	err = mgr.Assign(id, "7-1", listing1)
	assert.ErrorIs(t, err, utils.ErrAssignmentConflict)

	require.NoError(t, mgr.Assign(id, "7-2", listing2))

	// Preview maps display names to item codes.
	product, err := mgr.Preview(id, "Milk 1L", "Dairy", "")
	require.NoError(t, err)
	assert.Equal(t, models.ChainBarcodes{
		"Shufersal Deal":    "100",
		"Shufersal Express": "200",
	}, product.Chains)

	// Save persists, resets the assignment state and advances the barcode.
	saved, err := mgr.Save(ctx, id, "Milk 1L", "Dairy", "", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(BarcodeFloor), saved.CanonicalBarcode)

	status, err = mgr.Status(id)
	require.NoError(t, err)
	assert.Empty(t, status.Selected)
	assert.Len(t, status.Remaining, 3)
	assert.Equal(t, int64(BarcodeFloor+1), status.SuggestedBarcode)
}

func TestSessionAutoAssign(t *testing.T) {
	ctx := context.Background()
	listings := []models.Listing{
		{ItemCode: "100", ItemName: "Milk 1L", FileName: "PriceFull7-001-x"},
		{ItemCode: "200", ItemName: "Milk 1L", FileName: "PriceFull7-002-x"},
		{ItemCode: "300", ItemName: "Milk 1L Extra", FileName: "PriceFull8-001-x"},
		{ItemCode: "050", ItemName: "Milk 1L", FileName: "PriceFull7-002-y"},
	}
	mgr := newTestManager(listings, newFakeCanonicalStore())

	status, err := mgr.Create(ctx)
	require.NoError(t, err)
	id := status.SessionID

	// Pre-assign 7-1; auto-assign must not overwrite it.
	preassigned := models.Listing{ItemCode: "999", ItemName: "Milk 1L", FileName: "PriceFull7-001-z"}
	require.NoError(t, mgr.Assign(id, "7-1", preassigned))

	// Exact matching skips "Milk 1L Extra"; the two 7-2 listings compete and
	// the lower item code wins.
	assigned, err := mgr.AutoAssign(ctx, id, "Milk 1L")
	require.NoError(t, err)
	assert.Equal(t, 1, assigned)

	status, err = mgr.Status(id)
	require.NoError(t, err)
	require.Len(t, status.Selected, 2)
	byKey := make(map[string]models.Listing)
	for _, entry := range status.Selected {
		byKey[entry.SubChainKey] = entry.Listing
	}
	assert.Equal(t, "999", byKey["7-1"].ItemCode)
	assert.Equal(t, "050", byKey["7-2"].ItemCode)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(nil, newFakeCanonicalStore())

	t.Run("unknown session", func(t *testing.T) {
		_, err := mgr.Status("nope")
		assert.ErrorIs(t, err, utils.ErrSessionNotFound)
		assert.ErrorIs(t, mgr.Reset("nope"), utils.ErrSessionNotFound)
		assert.ErrorIs(t, mgr.Discard("nope"), utils.ErrSessionNotFound)
	})

	t.Run("discard removes the session", func(t *testing.T) {
		status, err := mgr.Create(ctx)
		require.NoError(t, err)
		require.NoError(t, mgr.Discard(status.SessionID))
		_, err = mgr.Status(status.SessionID)
		assert.ErrorIs(t, err, utils.ErrSessionNotFound)
	})

	t.Run("reap discards only idle sessions", func(t *testing.T) {
		status, err := mgr.Create(ctx)
		require.NoError(t, err)

		assert.Zero(t, mgr.ReapExpired(time.Hour))
		assert.Equal(t, 1, mgr.ReapExpired(0))
		_, err = mgr.Status(status.SessionID)
		assert.ErrorIs(t, err, utils.ErrSessionNotFound)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		listing := models.Listing{ItemCode: "1", ItemName: "Milk", FileName: "PriceFull7-001-x"}
		a, err := mgr.Create(ctx)
		require.NoError(t, err)
		b, err := mgr.Create(ctx)
		require.NoError(t, err)

		require.NoError(t, mgr.Assign(a.SessionID, "7-1", listing))
		statusB, err := mgr.Status(b.SessionID)
		require.NoError(t, err)
		assert.Empty(t, statusB.Selected)
	})
}
