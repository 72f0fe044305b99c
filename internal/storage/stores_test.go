package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSeedAndListStores verifies seeding upserts on (chain, external_id)
// and listing stays scoped to one chain
func TestSeedAndListStores(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, db.SeedStores(ctx, []Store{
		{Chain: "superliquor", ExternalID: "akl-newmarket", Name: "Super Liquor Newmarket"},
		{Chain: "superliquor", ExternalID: "akl-albany", Name: "Super Liquor Albany"},
		{Chain: "liquorland", ExternalID: "wlg-thorndon", Name: "Liquorland Thorndon"},
	}))

	stores, err := db.StoresForChain(ctx, "superliquor")
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "akl-albany", stores[0].ExternalID, "Listing orders by external id")
	assert.Equal(t, "akl-newmarket", stores[1].ExternalID)

	// Re-seeding the same outlet updates in place
	require.NoError(t, db.SeedStores(ctx, []Store{
		{Chain: "superliquor", ExternalID: "akl-albany", Name: "Super Liquor Albany Mega", Region: strPtr("Auckland")},
	}))

	stores, err = db.StoresForChain(ctx, "superliquor")
	require.NoError(t, err)
	require.Len(t, stores, 2, "Re-seeding must not duplicate")
	assert.Equal(t, "Super Liquor Albany Mega", stores[0].Name)
	require.NotNil(t, stores[0].Region)
	assert.Equal(t, "Auckland", *stores[0].Region)

	other, err := db.StoresForChain(ctx, "liquorland")
	require.NoError(t, err)
	require.Len(t, other, 1)

	none, err := db.StoresForChain(ctx, "glengarry")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// TestSeedStoresEmpty verifies an empty seed list is a no-op
func TestSeedStoresEmpty(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SeedStores(context.Background(), nil))
}
