package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AxelMcKenna/Liquorfy-sub000/internal/storage"
)

func TestDryRunStoreAssignsStableIDs(t *testing.T) {
	dry := NewDryRunStore()
	ctx := context.Background()
	now := time.Now()

	first := &storage.Product{Chain: "glengarry", SourceProductID: "p1", Name: "Central Otago Pinot Noir 750ml"}
	obs := storage.PriceObservation{Regular: dec("34.99")}

	outcome, previous, err := dry.IngestItem(ctx, first, storage.ChainWideStoreID, obs, now)
	require.NoError(t, err)
	assert.Equal(t, storage.OutcomeInserted, outcome)
	assert.Nil(t, previous)
	assert.NotZero(t, first.ID)

	again := &storage.Product{Chain: "glengarry", SourceProductID: "p1", Name: "Central Otago Pinot Noir 750ml"}
	outcome, _, err = dry.IngestItem(ctx, again, storage.ChainWideStoreID, obs, now)
	require.NoError(t, err)
	assert.Equal(t, storage.OutcomeUnchanged, outcome, "A repeat sighting in one pass is not new")
	assert.Equal(t, first.ID, again.ID)

	other := &storage.Product{Chain: "glengarry", SourceProductID: "p2", Name: "Marlborough Riesling 750ml"}
	outcome, _, err = dry.IngestItem(ctx, other, storage.ChainWideStoreID, obs, now)
	require.NoError(t, err)
	assert.Equal(t, storage.OutcomeInserted, outcome)
	assert.NotEqual(t, first.ID, other.ID)

	assert.Equal(t, 2, dry.ProductCount())
}

func TestDryRunStorePerStorePairs(t *testing.T) {
	dry := NewDryRunStore()
	ctx := context.Background()
	now := time.Now()
	obs := storage.PriceObservation{Regular: dec("24.99")}

	product := &storage.Product{Chain: "superliquor", SourceProductID: "p1", Name: "Steinlager Classic 12x330ml"}
	outcome, _, err := dry.IngestItem(ctx, product, 4, obs, now)
	require.NoError(t, err)
	assert.Equal(t, storage.OutcomeInserted, outcome)

	// The same product at another outlet is a fresh pair
	outcome, _, err = dry.IngestItem(ctx, product, 9, obs, now)
	require.NoError(t, err)
	assert.Equal(t, storage.OutcomeInserted, outcome)

	assert.Equal(t, 1, dry.ProductCount(), "Two outlets, one product")
}

func TestDryRunStoreSeededStores(t *testing.T) {
	dry := NewDryRunStore()
	dry.AddStore(storage.Store{ID: 1, Chain: "superliquor", ExternalID: "akl-albany", Name: "Albany"})
	dry.AddStore(storage.Store{ID: 2, Chain: "liquorland", ExternalID: "wlg-cbd", Name: "Wellington CBD"})

	stores, err := dry.StoresForChain(context.Background(), "superliquor")
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "akl-albany", stores[0].ExternalID)

	none, err := dry.StoresForChain(context.Background(), "glengarry")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDryRunStoreSweepIsNoOp(t *testing.T) {
	dry := NewDryRunStore()
	seen := storage.NewSeenSet()
	seen.Add(1)

	cleared, err := dry.SweepUnseen(context.Background(), storage.Scope{Chain: "glengarry"}, seen, time.Now())
	require.NoError(t, err)
	assert.Zero(t, cleared)
}
