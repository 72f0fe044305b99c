package scraper

import (
	"context"
	"strconv"
	"time"

	"github.com/AxelMcKenna/Liquorfy-sub000/internal/fetch"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/storage"
	"github.com/AxelMcKenna/Liquorfy-sub000/services/feed"
)

// ingestedItem is one IngestItem call as the mock recorded it
type ingestedItem struct {
	product storage.Product
	storeID uint
	obs     storage.PriceObservation
}

// sweepCall is one SweepUnseen call as the mock recorded it
type sweepCall struct {
	scope storage.Scope
	seen  int
}

// mockStorage implements the Storage interface for testing. First
// sight of a (source id, store) pair reports Inserted, repeats report
// Unchanged; failSource and changed override per source id.
type mockStorage struct {
	stores    []storage.Store
	storesErr error

	failSource map[string]error
	changed    map[string]*storage.Price

	nextID   uint
	products map[string]uint
	seen     map[string]bool
	ingested []ingestedItem

	sweeps   []sweepCall
	sweepErr error
}

var _ Storage = (*mockStorage)(nil)

func newMockStorage() *mockStorage {
	return &mockStorage{
		failSource: make(map[string]error),
		changed:    make(map[string]*storage.Price),
		nextID:     1,
		products:   make(map[string]uint),
		seen:       make(map[string]bool),
	}
}

func (m *mockStorage) StoresForChain(ctx context.Context, chain string) ([]storage.Store, error) {
	if m.storesErr != nil {
		return nil, m.storesErr
	}
	var out []storage.Store
	for _, s := range m.stores {
		if s.Chain == chain {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStorage) IngestItem(ctx context.Context, product *storage.Product, storeID uint, obs storage.PriceObservation, now time.Time) (storage.Outcome, *storage.Price, error) {
	if err, ok := m.failSource[product.SourceProductID]; ok {
		return storage.OutcomeUnchanged, nil, err
	}

	key := product.Chain + "|" + product.SourceProductID
	id, known := m.products[key]
	if !known {
		id = m.nextID
		m.nextID++
		m.products[key] = id
	}
	product.ID = id

	m.ingested = append(m.ingested, ingestedItem{product: *product, storeID: storeID, obs: obs})

	if prev, ok := m.changed[product.SourceProductID]; ok {
		return storage.OutcomeChanged, prev, nil
	}

	pairKey := key + "|" + strconv.FormatUint(uint64(storeID), 10)
	if m.seen[pairKey] {
		return storage.OutcomeUnchanged, &storage.Price{ProductID: id, StoreID: storeID, RegularPrice: obs.Regular}, nil
	}
	m.seen[pairKey] = true
	return storage.OutcomeInserted, nil, nil
}

func (m *mockStorage) SweepUnseen(ctx context.Context, scope storage.Scope, seen *storage.SeenSet, now time.Time) (int64, error) {
	m.sweeps = append(m.sweeps, sweepCall{scope: scope, seen: seen.Len()})
	return 0, m.sweepErr
}

// ingestedSourceIDs lists the source ids that reached storage, in order
func (m *mockStorage) ingestedSourceIDs() []string {
	out := make([]string, 0, len(m.ingested))
	for _, item := range m.ingested {
		out = append(out, item.product.SourceProductID)
	}
	return out
}

// mockStrategy implements fetch.Strategy over canned records keyed by
// request; an error configured for a request surfaces after its records
type mockStrategy struct {
	name     string
	records  map[string][]fetch.RawRecord
	errs     map[string]error
	requests []fetch.Request
}

var _ fetch.Strategy = (*mockStrategy)(nil)

func newMockStrategy() *mockStrategy {
	return &mockStrategy{
		records: make(map[string][]fetch.RawRecord),
		errs:    make(map[string]error),
	}
}

func reqKey(req fetch.Request) string {
	if req.Store == "" {
		return req.Category
	}
	return req.Category + "|" + req.Store
}

func (m *mockStrategy) Name() string {
	if m.name != "" {
		return m.name
	}
	return "html"
}

func (m *mockStrategy) Fetch(ctx context.Context, req fetch.Request, emit fetch.EmitFunc) error {
	m.requests = append(m.requests, req)
	k := reqKey(req)
	for _, rec := range m.records[k] {
		if err := emit(rec); err != nil {
			return err
		}
	}
	return m.errs[k]
}

// strategyFunc adapts a function into a fetch.Strategy
type strategyFunc struct {
	fn func(ctx context.Context, req fetch.Request, emit fetch.EmitFunc) error
}

var _ fetch.Strategy = (*strategyFunc)(nil)

func (s *strategyFunc) Name() string { return "html" }

func (s *strategyFunc) Fetch(ctx context.Context, req fetch.Request, emit fetch.EmitFunc) error {
	return s.fn(ctx, req, emit)
}

// mockFeed implements the feed.Publisher interface for testing
type mockFeed struct {
	changes []feed.PriceChange
	err     error
}

var _ feed.Publisher = (*mockFeed)(nil)

func (m *mockFeed) PublishChange(change feed.PriceChange) error {
	if m.err != nil {
		return m.err
	}
	m.changes = append(m.changes, change)
	return nil
}

func (m *mockFeed) TrimStreams() error { return nil }

func (m *mockFeed) Close() error { return nil }
