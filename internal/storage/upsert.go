package storage

import (
	"context"
	"errors"
	"time"

	apperr "github.com/AxelMcKenna/Liquorfy-sub000/pkg/errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceObservation is the price state one scrape saw for a product in
// one scope
type PriceObservation struct {
	Regular     decimal.Decimal
	Promo       *decimal.Decimal
	PromoText   *string
	PromoEndsAt *time.Time
	MemberOnly  bool
}

// UpsertProduct inserts the product on first sight; on a
// (chain, source_product_id) conflict it merges: name and URLs always
// refresh, normalized fields overwrite only when the incoming value is
// present. incoming is overwritten with the authoritative stored row.
func UpsertProduct(tx *gorm.DB, incoming *Product, now time.Time) error {
	incoming.FirstSeenAt = now
	incoming.UpdatedAt = now

	assignments := map[string]interface{}{
		"name":       incoming.Name,
		"updated_at": now,
	}
	if incoming.ImageURL != "" {
		assignments["image_url"] = incoming.ImageURL
	}
	if incoming.SourceURL != "" {
		assignments["source_url"] = incoming.SourceURL
	}
	if incoming.Brand != nil {
		assignments["brand"] = *incoming.Brand
	}
	if incoming.Category != nil {
		assignments["category"] = *incoming.Category
	}
	if incoming.Subcategory != nil {
		assignments["subcategory"] = *incoming.Subcategory
	}
	if incoming.PackCount != nil {
		assignments["pack_count"] = *incoming.PackCount
	}
	if incoming.UnitVolumeML != nil {
		assignments["unit_volume_ml"] = *incoming.UnitVolumeML
	}
	if incoming.TotalVolumeML != nil {
		assignments["total_volume_ml"] = *incoming.TotalVolumeML
	}
	if incoming.ABV != nil {
		assignments["abv"] = *incoming.ABV
	}

	row := *incoming
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chain"}, {Name: "source_product_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&row).Error
	if err != nil {
		return err
	}

	// Re-read for the authoritative row: the conflict path does not
	// report a usable insert id on every driver
	return tx.Where("chain = ? AND source_product_id = ?",
		incoming.Chain, incoming.SourceProductID).First(incoming).Error
}

// UpsertPrice writes the observation for one (product, store) pair and
// reports what happened: first sight inserts, a differing observation
// updates everything and bumps both timestamps, an identical one only
// refreshes last_seen_at. Two writers racing on a new pair serialize
// on the composite unique index, never on application locks. The
// returned row is the pair's previous state, nil on first sight.
func UpsertPrice(tx *gorm.DB, productID, storeID uint, obs PriceObservation, now time.Time) (Outcome, *Price, error) {
	var existing Price
	err := tx.Where("product_id = ? AND store_id = ?", productID, storeID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		row := Price{
			ProductID:     productID,
			StoreID:       storeID,
			RegularPrice:  obs.Regular,
			PromoPrice:    obs.Promo,
			PromoText:     obs.PromoText,
			PromoEndsAt:   obs.PromoEndsAt,
			MemberOnly:    obs.MemberOnly,
			Currency:      DefaultCurrency,
			LastSeenAt:    now,
			LastChangedAt: now,
		}
		// A concurrent first sight turns the losing insert into an
		// update of the winner's row
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "store_id"}},
			DoUpdates: clause.Assignments(priceAssignments(obs, now)),
		}).Create(&row).Error
		if err != nil {
			return OutcomeInserted, nil, err
		}
		return OutcomeInserted, nil, nil
	}
	if err != nil {
		return OutcomeUnchanged, nil, err
	}

	if samePrice(existing, obs) {
		err := tx.Model(&Price{}).Where("id = ?", existing.ID).
			Update("last_seen_at", now).Error
		return OutcomeUnchanged, &existing, err
	}

	err = tx.Model(&Price{}).Where("id = ?", existing.ID).
		Updates(priceAssignments(obs, now)).Error
	return OutcomeChanged, &existing, err
}

func priceAssignments(obs PriceObservation, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"regular_price":   obs.Regular,
		"promo_price":     obs.Promo,
		"promo_text":      obs.PromoText,
		"promo_ends_at":   obs.PromoEndsAt,
		"member_only":     obs.MemberOnly,
		"last_seen_at":    now,
		"last_changed_at": now,
	}
}

func samePrice(existing Price, obs PriceObservation) bool {
	return existing.RegularPrice.Equal(obs.Regular) &&
		sameDecimal(existing.PromoPrice, obs.Promo) &&
		sameText(existing.PromoText, obs.PromoText) &&
		sameTime(existing.PromoEndsAt, obs.PromoEndsAt) &&
		existing.MemberOnly == obs.MemberOnly
}

func sameDecimal(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return (a == nil) == (b == nil)
	}
	return a.Equal(*b)
}

func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return (a == nil) == (b == nil)
	}
	return *a == *b
}

// sameTime compares at second precision; drivers differ below that
func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return (a == nil) == (b == nil)
	}
	return a.Unix() == b.Unix()
}

// IngestItem persists one normalized observation in its own
// transaction: the product row, then the price row for its scope.
// product is overwritten with the stored state; the returned price row
// is the pair's previous state, nil on first sight.
func (d *DB) IngestItem(ctx context.Context, product *Product, storeID uint, obs PriceObservation, now time.Time) (Outcome, *Price, error) {
	outcome := OutcomeUnchanged
	var previous *Price
	err := d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := UpsertProduct(tx, product, now); err != nil {
			return err
		}
		out, prev, err := UpsertPrice(tx, product.ID, storeID, obs, now)
		if err != nil {
			return err
		}
		outcome = out
		previous = prev
		return nil
	})
	if err != nil {
		return outcome, nil, apperr.NewStorage(product.Chain, "item upsert failed", err)
	}
	return outcome, previous, nil
}
