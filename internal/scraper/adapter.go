package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AxelMcKenna/Liquorfy-sub000/internal/fetch"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/metrics"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/normalize"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/promo"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/storage"
	"github.com/AxelMcKenna/Liquorfy-sub000/logger"
	apperr "github.com/AxelMcKenna/Liquorfy-sub000/pkg/errors"
	"github.com/AxelMcKenna/Liquorfy-sub000/services/cache"
	"github.com/AxelMcKenna/Liquorfy-sub000/services/feed"
)

// PricingMode says how a chain prices its catalog
type PricingMode string

const (
	// PricingChainWide means one price covers every store; a single
	// fetch pass covers the whole network
	PricingChainWide PricingMode = "chain_wide"

	// PricingPerStore means price varies by outlet; every store gets
	// its own fetch pass and its own sweep
	PricingPerStore PricingMode = "per_store"
)

// Policy defaults
const (
	DefaultEstimatedCategoryItems = 50
	DefaultMinCategorySuccess     = 0.5
)

// CategoryRequest pairs a source-side category identifier with the
// taxonomy hint its listings imply.
type CategoryRequest struct {
	// Slug is the source-side identifier: a URL path for HTML chains, a
	// collection handle for commerce feeds, a category id for APIs
	Slug string

	// Hint is applied to records whose name and brand carry no category
	// signal of their own
	Hint normalize.Category
}

// Storage is the slice of the persistence layer one adapter run uses
type Storage interface {
	StoresForChain(ctx context.Context, chain string) ([]storage.Store, error)
	IngestItem(ctx context.Context, product *storage.Product, storeID uint, obs storage.PriceObservation, now time.Time) (storage.Outcome, *storage.Price, error)
	SweepUnseen(ctx context.Context, scope storage.Scope, seen *storage.SeenSet, now time.Time) (int64, error)
}

// Deps are the collaborators shared by every adapter. Feed may be nil
// to disable change publishing; Cache and Renderer are consumed by
// strategy construction, not by runs.
type Deps struct {
	Storage    Storage
	Normalizer *normalize.Normalizer
	Feed       feed.Publisher
	Cache      cache.CacheService
	Renderer   fetch.Renderer
}

// AdapterConfig declares one retailer chain: identity, pricing mode,
// the categories to walk, and the fetch strategy that talks to it.
type AdapterConfig struct {
	Chain       string
	DisplayName string
	Mode        PricingMode
	Categories  []CategoryRequest
	Strategy    fetch.Strategy

	// EstimatedCategoryItems is charged to items_failed when a category
	// walk must be skipped after its fetch fails
	EstimatedCategoryItems int

	// MinCategorySuccess is the fraction of category walks that must
	// succeed for the run to finish completed rather than failed
	MinCategorySuccess float64
}

// Result is what one adapter run reports to the orchestrator
type Result struct {
	Status storage.RunStatus
	Counts storage.RunCounts

	// Err carries the run-level failure; nil on completed runs
	Err error
}

// Adapter drives one chain's ingestion: fetch raw records category by
// category (and store by store for per-store chains), normalize and
// detect promotions, upsert, then mark-and-sweep each fully covered
// scope.
type Adapter struct {
	cfg  AdapterConfig
	deps Deps
	log  *logger.Logger
}

// NewAdapter creates an adapter for one chain, filling policy defaults
func NewAdapter(cfg AdapterConfig, deps Deps) *Adapter {
	if cfg.EstimatedCategoryItems <= 0 {
		cfg.EstimatedCategoryItems = DefaultEstimatedCategoryItems
	}
	if cfg.MinCategorySuccess <= 0 {
		cfg.MinCategorySuccess = DefaultMinCategorySuccess
	}
	return &Adapter{
		cfg:  cfg,
		deps: deps,
		log:  logger.ForChain(cfg.Chain),
	}
}

// Chain returns the chain slug
func (a *Adapter) Chain() string { return a.cfg.Chain }

// DisplayName returns the chain's human name
func (a *Adapter) DisplayName() string { return a.cfg.DisplayName }

// Mode returns the chain's pricing mode
func (a *Adapter) Mode() PricingMode { return a.cfg.Mode }

// StrategyName returns the fetch strategy family the chain uses
func (a *Adapter) StrategyName() string { return a.cfg.Strategy.Name() }

// Categories returns the configured category requests
func (a *Adapter) Categories() []CategoryRequest { return a.cfg.Categories }

// Run executes one ingestion pass over the whole chain. Item failures
// are counted and skipped; category failures skip the category and
// charge the estimated item count; the run itself fails only on
// cancellation, an authentication dead end, or coverage below the
// configured minimum.
func (a *Adapter) Run(ctx context.Context) Result {
	if a.cfg.Mode == PricingPerStore {
		return a.runPerStore(ctx)
	}
	return a.runChainWide(ctx)
}

func (a *Adapter) runChainWide(ctx context.Context) Result {
	var counts storage.RunCounts
	seen := storage.NewSeenSet()

	walk := a.walkCategories(ctx, storage.ChainWideStoreID, "", seen, &counts)
	if walk.cancelled {
		return Result{Status: storage.RunStatusCancelled, Counts: counts, Err: apperr.NewCancelled(a.cfg.Chain, ctx.Err())}
	}
	if walk.fatal != nil {
		return Result{Status: storage.RunStatusFailed, Counts: counts, Err: walk.fatal}
	}
	if a.belowMinSuccess(walk.succeeded, walk.attempted) {
		return Result{
			Status: storage.RunStatusFailed,
			Counts: counts,
			Err:    fmt.Errorf("only %d of %d category walks succeeded", walk.succeeded, walk.attempted),
		}
	}

	// Sweeping with a partially covered catalog would wipe promotions
	// for products the failed categories never re-observed
	if walk.attempted > 0 && walk.succeeded == walk.attempted {
		a.sweep(ctx, storage.Scope{Chain: a.cfg.Chain, StoreID: storage.ChainWideStoreID}, seen)
	} else {
		a.log.Warn().
			Int("failed_categories", walk.attempted-walk.succeeded).
			Msg("Skipping mark-and-sweep, catalog coverage incomplete")
	}

	return Result{Status: storage.RunStatusCompleted, Counts: counts}
}

func (a *Adapter) runPerStore(ctx context.Context) Result {
	stores, err := a.deps.Storage.StoresForChain(ctx, a.cfg.Chain)
	if err != nil {
		return Result{
			Status: storage.RunStatusFailed,
			Err:    apperr.NewStorage(a.cfg.Chain, "store list unavailable", err),
		}
	}
	if len(stores) == 0 {
		a.log.Warn().Msg("No stores known for per-store chain, nothing to scrape")
		return Result{Status: storage.RunStatusCompleted}
	}

	var counts storage.RunCounts
	attempted, succeeded := 0, 0

	for _, store := range stores {
		if ctx.Err() != nil {
			return Result{Status: storage.RunStatusCancelled, Counts: counts, Err: apperr.NewCancelled(a.cfg.Chain, ctx.Err())}
		}

		// The seen set is scoped to one store batch so a sweep never
		// looks past the stores actually walked
		seen := storage.NewSeenSet()
		walk := a.walkCategories(ctx, store.ID, store.ExternalID, seen, &counts)
		attempted += walk.attempted
		succeeded += walk.succeeded

		if walk.cancelled {
			return Result{Status: storage.RunStatusCancelled, Counts: counts, Err: apperr.NewCancelled(a.cfg.Chain, ctx.Err())}
		}
		if walk.fatal != nil {
			return Result{Status: storage.RunStatusFailed, Counts: counts, Err: walk.fatal}
		}

		if walk.attempted > 0 && walk.succeeded == walk.attempted {
			a.sweep(ctx, storage.Scope{Chain: a.cfg.Chain, StoreID: store.ID}, seen)
		} else {
			a.log.Warn().
				Str("store", store.Name).
				Msg("Skipping mark-and-sweep, store batch incomplete")
		}
	}

	if a.belowMinSuccess(succeeded, attempted) {
		return Result{
			Status: storage.RunStatusFailed,
			Counts: counts,
			Err:    fmt.Errorf("only %d of %d category walks succeeded", succeeded, attempted),
		}
	}
	return Result{Status: storage.RunStatusCompleted, Counts: counts}
}

// walkState tallies one pass over the category list for one scope
type walkState struct {
	attempted int
	succeeded int
	cancelled bool
	fatal     error
}

// walkCategories fetches every configured category for one scope. A
// failed category is skipped and charged EstimatedCategoryItems; an
// authentication failure is a dead end for the whole run since every
// later request would bootstrap and fail the same way.
func (a *Adapter) walkCategories(ctx context.Context, storeID uint, storeExternal string, seen *storage.SeenSet, counts *storage.RunCounts) walkState {
	var w walkState

	for _, cat := range a.cfg.Categories {
		if ctx.Err() != nil {
			w.cancelled = true
			return w
		}

		w.attempted++
		err := a.fetchCategory(ctx, cat, storeID, storeExternal, seen, counts)
		if err == nil {
			w.succeeded++
			continue
		}
		if ctx.Err() != nil {
			w.cancelled = true
			return w
		}
		if apperr.IsAuth(err) {
			w.fatal = err
			return w
		}

		counts.Failed += a.cfg.EstimatedCategoryItems
		a.log.Warn().
			Err(err).
			Str("category", cat.Slug).
			Str("store", storeExternal).
			Bool("rate_limited", apperr.IsRateLimit(err)).
			Msg("Category walk failed, skipping")
	}
	return w
}

// fetchCategory walks one category's record sequence, ingesting each
// record as it arrives. Item failures are counted and never abort the
// walk; only fetch-level failures surface as the returned error.
func (a *Adapter) fetchCategory(ctx context.Context, cat CategoryRequest, storeID uint, storeExternal string, seen *storage.SeenSet, counts *storage.RunCounts) error {
	req := fetch.Request{Category: cat.Slug, Store: storeExternal}

	return a.cfg.Strategy.Fetch(ctx, req, func(raw fetch.RawRecord) error {
		counts.Total++

		outcome, err := a.ingest(ctx, raw, cat, storeID, seen)
		if err != nil {
			// Cancellation surfaces as the storage error of the item in
			// flight; abort the walk instead of counting it
			if ctx.Err() != nil {
				return err
			}
			counts.Failed++
			metrics.RecordItem(a.cfg.Chain, "failed")
			a.log.Warn().
				Err(err).
				Str("source_id", raw.SourceID).
				Str("name", raw.Name).
				Msg("Item failed")
			return nil
		}

		if outcome != storage.OutcomeUnchanged {
			counts.Changed++
		}
		metrics.RecordItem(a.cfg.Chain, outcome.String())
		return nil
	})
}

// ingest normalizes one raw record and writes it in its own
// transaction, marking the product seen for the scope's sweep
func (a *Adapter) ingest(ctx context.Context, raw fetch.RawRecord, cat CategoryRequest, storeID uint, seen *storage.SeenSet) (storage.Outcome, error) {
	product, obs, err := a.normalizeRecord(raw, cat)
	if err != nil {
		return storage.OutcomeUnchanged, err
	}

	now := time.Now()
	outcome, previous, err := a.deps.Storage.IngestItem(ctx, product, storeID, obs, now)
	if err != nil {
		return outcome, err
	}

	seen.Add(product.ID)

	if outcome != storage.OutcomeUnchanged {
		a.publishChange(product, storeID, previous, obs, now)
	}
	return outcome, nil
}

// normalizeRecord turns a raw record into the product row and price
// observation to persist. Records missing an id, a name, or a positive
// price are rejected as item failures.
func (a *Adapter) normalizeRecord(raw fetch.RawRecord, cat CategoryRequest) (*storage.Product, storage.PriceObservation, error) {
	if strings.TrimSpace(raw.SourceID) == "" {
		return nil, storage.PriceObservation{}, apperr.NewNormalize(a.cfg.Chain, "record carries no source product id", nil)
	}
	name := normalize.CleanName(raw.Name)
	if name == "" {
		return nil, storage.PriceObservation{}, apperr.NewNormalize(a.cfg.Chain, "record carries no name", nil)
	}
	if !raw.Price.IsPositive() {
		return nil, storage.PriceObservation{}, apperr.NewNormalize(a.cfg.Chain, "record carries no usable price for "+strconv.Quote(name), nil)
	}

	product := &storage.Product{
		Chain:           a.cfg.Chain,
		SourceProductID: strings.TrimSpace(raw.SourceID),
		Name:            name,
		ImageURL:        raw.ImageURL,
		SourceURL:       raw.SourceURL,
	}

	vol := normalize.ParseVolume(name)
	product.PackCount = vol.PackCount
	product.UnitVolumeML = vol.UnitML
	product.TotalVolumeML = vol.TotalML
	product.ABV = normalize.ParseABV(name)

	brand := strings.TrimSpace(raw.Brand)
	if brand == "" {
		brand = a.deps.Normalizer.InferBrand(name)
	}
	if brand != "" {
		product.Brand = &brand
	}

	// The source's own category copy may carry a taxonomy keyword;
	// failing that, the configured hint for this category stands
	hint := a.deps.Normalizer.InferCategory(raw.CategoryHint, "", cat.Hint)
	category := a.deps.Normalizer.InferCategory(name, brand, hint)
	if category.Top != "" {
		product.Category = &category.Top
		if category.Sub != "" {
			product.Subcategory = &category.Sub
		}
	}

	detected := promo.Detect(promo.Observation{
		Regular:    raw.Price,
		Structured: raw.PromoPrice,
		Badge:      raw.PromoText,
		Member:     raw.MemberOnly,
		EndsAt:     raw.PromoEndsAt,
	}, time.Now())

	obs := storage.PriceObservation{
		Regular:     raw.Price,
		Promo:       detected.Price,
		PromoEndsAt: detected.EndsAt,
		MemberOnly:  detected.MemberOnly,
	}
	if detected.Text != "" {
		obs.PromoText = &detected.Text
	}
	return product, obs, nil
}

// publishChange emits a price change event; feed trouble is logged and
// never fails the item, which is already persisted
func (a *Adapter) publishChange(product *storage.Product, storeID uint, previous *storage.Price, obs storage.PriceObservation, now time.Time) {
	if a.deps.Feed == nil {
		return
	}

	change := feed.PriceChange{
		Chain:      a.cfg.Chain,
		ProductID:  product.ID,
		StoreID:    storeID,
		Name:       product.Name,
		NewRegular: obs.Regular,
		NewPromo:   obs.Promo,
		OccurredAt: now,
	}
	if previous != nil {
		oldRegular := previous.RegularPrice
		change.OldRegular = &oldRegular
		change.OldPromo = previous.PromoPrice
	}

	if err := a.deps.Feed.PublishChange(change); err != nil {
		a.log.Warn().Err(err).Msg("Price change publish failed")
	}
}

// sweep clears promo state on rows the completed scope walk did not
// see. Sweep trouble is logged, not fatal: the expiry sweep and the
// read guard still stand, and the next run sweeps again.
func (a *Adapter) sweep(ctx context.Context, scope storage.Scope, seen *storage.SeenSet) {
	cleared, err := a.deps.Storage.SweepUnseen(ctx, scope, seen, time.Now())
	if err != nil {
		a.log.Error().Err(err).Msg("Mark-and-sweep failed")
		return
	}
	if cleared > 0 {
		a.log.Info().
			Int64("cleared", cleared).
			Uint("store_id", scope.StoreID).
			Msg("Cleared promotions no longer observed")
	}
}

func (a *Adapter) belowMinSuccess(succeeded, attempted int) bool {
	if attempted == 0 {
		return false
	}
	return float64(succeeded)/float64(attempted) < a.cfg.MinCategorySuccess
}
