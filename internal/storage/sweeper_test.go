package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingest(t *testing.T, db *DB, chain, sourceID string, storeID uint, obs PriceObservation, now time.Time) *Product {
	t.Helper()
	product := &Product{Chain: chain, SourceProductID: sourceID, Name: sourceID}
	_, _, err := db.IngestItem(context.Background(), product, storeID, obs, now)
	require.NoError(t, err)
	return product
}

func priceRow(t *testing.T, db *DB, productID, storeID uint) Price {
	t.Helper()
	var row Price
	require.NoError(t, db.gorm.First(&row, "product_id = ? AND store_id = ?", productID, storeID).Error)
	return row
}

// TestSweepUnseenClearsOnlyUnseenInScope marks one product seen and
// expects the sweep to clear promo state on the others without touching
// their regular prices or any other chain
func TestSweepUnseenClearsOnlyUnseenInScope(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 2, 3, 10, 0, 0, time.UTC)

	promoObs := PriceObservation{
		Regular:   dec("24.99"),
		Promo:     decPtr("19.99"),
		PromoText: strPtr("Save $5"),
	}
	seen1 := ingest(t, db, "glengarry", "gw-1", ChainWideStoreID, promoObs, now)
	gone2 := ingest(t, db, "glengarry", "gw-2", ChainWideStoreID, promoObs, now)
	member3 := ingest(t, db, "glengarry", "gw-3", ChainWideStoreID, PriceObservation{
		Regular:    dec("54.99"),
		MemberOnly: true,
	}, now)
	other := ingest(t, db, "vinofino", "vf-1", ChainWideStoreID, promoObs, now)

	seen := NewSeenSet()
	seen.Add(seen1.ID)

	sweepTime := now.Add(time.Hour)
	cleared, err := db.SweepUnseen(ctx, Scope{Chain: "glengarry", StoreID: ChainWideStoreID}, seen, sweepTime)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)

	kept := priceRow(t, db, seen1.ID, ChainWideStoreID)
	require.NotNil(t, kept.PromoPrice, "Seen product keeps its promotion")
	assert.True(t, kept.PromoPrice.Equal(dec("19.99")), "got %s", kept.PromoPrice)

	swept := priceRow(t, db, gone2.ID, ChainWideStoreID)
	assert.Nil(t, swept.PromoPrice)
	assert.Nil(t, swept.PromoText)
	assert.True(t, swept.RegularPrice.Equal(dec("24.99")), "Regular price must survive the sweep, got %s", swept.RegularPrice)
	assert.Equal(t, sweepTime.Unix(), swept.LastChangedAt.Unix(), "Clearing promo state is a change")
	assert.Equal(t, now.Unix(), swept.LastSeenAt.Unix(), "Sweeping is not an observation")

	memberSwept := priceRow(t, db, member3.ID, ChainWideStoreID)
	assert.False(t, memberSwept.MemberOnly, "Member pricing clears with the rest of the promo state")

	untouched := priceRow(t, db, other.ID, ChainWideStoreID)
	require.NotNil(t, untouched.PromoPrice, "Other chains are out of scope")
}

// TestSweepUnseenScopedToStore verifies a per-store sweep never reaches
// past its own store slot
func TestSweepUnseenScopedToStore(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 2, 3, 10, 0, 0, time.UTC)

	promoObs := PriceObservation{Regular: dec("26.99"), Promo: decPtr("22.99")}
	product := ingest(t, db, "superliquor", "sl-77", 1, promoObs, now)
	ingest(t, db, "superliquor", "sl-77", 2, promoObs, now)

	cleared, err := db.SweepUnseen(ctx, Scope{Chain: "superliquor", StoreID: 1}, NewSeenSet(), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	sweptStore := priceRow(t, db, product.ID, 1)
	assert.Nil(t, sweptStore.PromoPrice)

	otherStore := priceRow(t, db, product.ID, 2)
	require.NotNil(t, otherStore.PromoPrice, "The other store's batch was not walked")
}

// TestSweepUnseenNothingToClear verifies rows without promo state are
// never candidates
func TestSweepUnseenNothingToClear(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 2, 3, 10, 0, 0, time.UTC)

	ingest(t, db, "glengarry", "gw-1", ChainWideStoreID, PriceObservation{Regular: dec("24.99")}, now)

	cleared, err := db.SweepUnseen(ctx, Scope{Chain: "glengarry", StoreID: ChainWideStoreID}, NewSeenSet(), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, cleared)
}

// TestSweepExpired verifies only promotions past their advertised end
// date are cleared, and a second sweep finds nothing left
func TestSweepExpired(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 2, 3, 10, 0, 0, time.UTC)

	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	expired := ingest(t, db, "glengarry", "gw-1", ChainWideStoreID, PriceObservation{
		Regular:     dec("24.99"),
		Promo:       decPtr("19.99"),
		PromoEndsAt: &yesterday,
	}, yesterday.Add(-time.Hour))
	current := ingest(t, db, "glengarry", "gw-2", ChainWideStoreID, PriceObservation{
		Regular:     dec("34.99"),
		Promo:       decPtr("29.99"),
		PromoEndsAt: &tomorrow,
	}, now)
	open := ingest(t, db, "glengarry", "gw-3", ChainWideStoreID, PriceObservation{
		Regular: dec("44.99"),
		Promo:   decPtr("39.99"),
	}, now)

	cleared, err := db.SweepExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	expiredRow := priceRow(t, db, expired.ID, ChainWideStoreID)
	assert.Nil(t, expiredRow.PromoPrice)
	assert.Nil(t, expiredRow.PromoEndsAt)

	currentRow := priceRow(t, db, current.ID, ChainWideStoreID)
	require.NotNil(t, currentRow.PromoPrice, "A promotion still running stays")

	openRow := priceRow(t, db, open.ID, ChainWideStoreID)
	require.NotNil(t, openRow.PromoPrice, "A promotion with no end date is not the expiry sweep's business")

	cleared, err = db.SweepExpired(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, cleared, "A second sweep should find nothing")
}
