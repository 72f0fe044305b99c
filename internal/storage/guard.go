package storage

import (
	"context"
	"time"
)

// ProjectedPrice is the read-model view of a price row after the
// read-time guard has run.
type ProjectedPrice struct {
	Price
	// Stale flags a price nothing has confirmed within the staleness
	// threshold
	Stale bool `json:"stale"`
}

// ProjectPrice applies the read-time guard: promo state is blanked the
// moment its end date passes, whether or not a sweep has caught up,
// and prices outside the staleness threshold are flagged.
func ProjectPrice(p Price, now time.Time, staleAfter time.Duration) ProjectedPrice {
	out := ProjectedPrice{Price: p}

	if p.PromoEndsAt != nil && p.PromoEndsAt.Before(now) {
		out.PromoPrice = nil
		out.PromoText = nil
		out.PromoEndsAt = nil
		out.MemberOnly = false
	}

	if staleAfter > 0 && now.Sub(p.LastSeenAt) > staleAfter {
		out.Stale = true
	}

	return out
}

// PricesForProduct returns every price row of a product through the
// read-time guard, chain-wide row first
func (d *DB) PricesForProduct(ctx context.Context, productID uint, now time.Time, staleAfter time.Duration) ([]ProjectedPrice, error) {
	var rows []Price
	err := d.gorm.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("store_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	projected := make([]ProjectedPrice, 0, len(rows))
	for _, row := range rows {
		projected = append(projected, ProjectPrice(row, now, staleAfter))
	}
	return projected, nil
}
