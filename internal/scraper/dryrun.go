package scraper

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/AxelMcKenna/Liquorfy-sub000/internal/storage"
	"github.com/AxelMcKenna/Liquorfy-sub000/logger"
)

// DryRunStore satisfies Storage without persisting anything. Products
// get synthetic ids, every observation is logged, and sweeps are
// no-ops, so an operator can exercise a chain's fetch and normalize
// path against the live source with no database at hand.
type DryRunStore struct {
	mu       sync.Mutex
	nextID   uint
	products map[string]uint
	prices   map[string]struct{}
	stores   []storage.Store
}

var _ Storage = (*DryRunStore)(nil)

// NewDryRunStore creates an empty in-memory stand-in
func NewDryRunStore() *DryRunStore {
	return &DryRunStore{
		nextID:   1,
		products: make(map[string]uint),
		prices:   make(map[string]struct{}),
	}
}

// AddStore seeds a store row for per-store chains to walk
func (d *DryRunStore) AddStore(store storage.Store) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stores = append(d.stores, store)
}

// ProductCount reports how many distinct products were ingested
func (d *DryRunStore) ProductCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.products)
}

// StoresForChain returns the seeded stores of one chain
func (d *DryRunStore) StoresForChain(ctx context.Context, chain string) ([]storage.Store, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []storage.Store
	for _, s := range d.stores {
		if s.Chain == chain {
			out = append(out, s)
		}
	}
	return out, nil
}

// IngestItem assigns a synthetic product id and logs the normalized
// observation. The first sighting of a (product, store) pair reports
// Inserted, repeats report Unchanged.
func (d *DryRunStore) IngestItem(ctx context.Context, product *storage.Product, storeID uint, obs storage.PriceObservation, now time.Time) (storage.Outcome, *storage.Price, error) {
	d.mu.Lock()
	key := product.Chain + "|" + product.SourceProductID
	id, known := d.products[key]
	if !known {
		id = d.nextID
		d.nextID++
		d.products[key] = id
	}
	product.ID = id

	priceKey := key + "|" + strconv.FormatUint(uint64(storeID), 10)
	_, priceSeen := d.prices[priceKey]
	d.prices[priceKey] = struct{}{}
	d.mu.Unlock()

	event := logger.ForChain(product.Chain).Debug().
		Str("source_id", product.SourceProductID).
		Str("name", product.Name).
		Str("regular", obs.Regular.String())
	if obs.Promo != nil {
		event = event.Str("promo", obs.Promo.String())
	}
	if product.Category != nil {
		event = event.Str("category", *product.Category)
	}
	if product.TotalVolumeML != nil {
		event = event.Int("total_volume_ml", *product.TotalVolumeML)
	}
	event.Msg("Dry run item")

	if priceSeen {
		return storage.OutcomeUnchanged, nil, nil
	}
	return storage.OutcomeInserted, nil, nil
}

// SweepUnseen is a no-op with nothing persisted to sweep
func (d *DryRunStore) SweepUnseen(ctx context.Context, scope storage.Scope, seen *storage.SeenSet, now time.Time) (int64, error) {
	return 0, nil
}
