package storage

import (
	"context"
	"time"

	"github.com/AxelMcKenna/Liquorfy-sub000/internal/metrics"
)

// sweepChunk bounds the id lists sent per update statement
const sweepChunk = 500

// Scope bounds a sweep to one chain and one store slot. Chain-wide
// runs sweep the sentinel slot; per-store runs sweep one store batch
// at a time.
type Scope struct {
	Chain   string
	StoreID uint
}

// SeenSet records the products one scope walk upserted, keyed by
// product row id. Only rows outside the set are sweep candidates.
type SeenSet struct {
	ids map[uint]struct{}
}

// NewSeenSet creates an empty seen set
func NewSeenSet() *SeenSet {
	return &SeenSet{ids: make(map[uint]struct{})}
}

func (s *SeenSet) Add(productID uint) {
	s.ids[productID] = struct{}{}
}

func (s *SeenSet) Contains(productID uint) bool {
	_, ok := s.ids[productID]
	return ok
}

func (s *SeenSet) Len() int {
	return len(s.ids)
}

type priceRef struct {
	ID        uint
	ProductID uint
}

// SweepUnseen is the mark-and-sweep layer: promo state is cleared on
// price rows in scope that the completed walk did not touch. The row
// itself stays (the product may be temporarily delisted) and its
// last_seen_at keeps aging so the read guard can flag it. Returns how
// many rows were cleared.
func (d *DB) SweepUnseen(ctx context.Context, scope Scope, seen *SeenSet, now time.Time) (int64, error) {
	var candidates []priceRef
	err := d.gorm.WithContext(ctx).
		Model(&Price{}).
		Select("prices.id, prices.product_id").
		Joins("JOIN products ON products.id = prices.product_id").
		Where("products.chain = ? AND prices.store_id = ?", scope.Chain, scope.StoreID).
		Where("prices.promo_price IS NOT NULL OR prices.promo_text IS NOT NULL OR prices.promo_ends_at IS NOT NULL OR prices.member_only = ?", true).
		Find(&candidates).Error
	if err != nil {
		return 0, err
	}

	var unseen []uint
	for _, ref := range candidates {
		if !seen.Contains(ref.ProductID) {
			unseen = append(unseen, ref.ID)
		}
	}

	cleared, err := d.clearPromos(ctx, unseen, now)
	metrics.RecordSwept("mark_and_sweep", cleared)
	return cleared, err
}

// SweepExpired is the scheduled expiry layer: promo state is cleared
// wherever the advertised end date has passed. Returns how many rows
// were cleared.
func (d *DB) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	var candidates []uint
	err := d.gorm.WithContext(ctx).
		Model(&Price{}).
		Where("promo_ends_at IS NOT NULL AND promo_ends_at < ?", now).
		Pluck("id", &candidates).Error
	if err != nil {
		return 0, err
	}

	cleared, err := d.clearPromos(ctx, candidates, now)
	metrics.RecordSwept("expiry", cleared)
	return cleared, err
}

func (d *DB) clearPromos(ctx context.Context, ids []uint, now time.Time) (int64, error) {
	assignments := map[string]interface{}{
		"promo_price":     nil,
		"promo_text":      nil,
		"promo_ends_at":   nil,
		"member_only":     false,
		"last_changed_at": now,
	}

	var cleared int64
	for start := 0; start < len(ids); start += sweepChunk {
		end := start + sweepChunk
		if end > len(ids) {
			end = len(ids)
		}
		res := d.gorm.WithContext(ctx).
			Model(&Price{}).
			Where("id IN ?", ids[start:end]).
			Updates(assignments)
		if res.Error != nil {
			return cleared, res.Error
		}
		cleared += res.RowsAffected
	}
	return cleared, nil
}
