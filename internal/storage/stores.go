package storage

import (
	"context"

	"gorm.io/gorm/clause"
)

// StoresForChain lists a chain's outlets for per-store walks
func (d *DB) StoresForChain(ctx context.Context, chain string) ([]Store, error) {
	var stores []Store
	err := d.gorm.WithContext(ctx).
		Where("chain = ?", chain).
		Order("external_id").
		Find(&stores).Error
	return stores, err
}

// SeedStores upserts outlet rows on (chain, external_id). Store rows
// are owned by an external process; this exists for tests and local
// seeding.
func (d *DB) SeedStores(ctx context.Context, stores []Store) error {
	if len(stores) == 0 {
		return nil
	}
	return d.gorm.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chain"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "region", "latitude", "longitude", "updated_at"}),
		}).
		Create(&stores).Error
}
