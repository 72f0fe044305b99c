package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is what every configured chain trades in
const DefaultCurrency = "NZD"

// ChainWideStoreID marks the price row that applies to every store of
// a chain. A real zero sentinel keeps the composite unique index
// covering both pricing modes; a NULL store would escape it.
const ChainWideStoreID uint = 0

// Product is one catalog item of one chain. Normalized attributes stay
// nullable: absence of a signal is stored as absence.
type Product struct {
	ID              uint             `json:"id" gorm:"primarykey"`
	Chain           string           `json:"chain" gorm:"type:varchar(64);not null;uniqueIndex:idx_products_chain_source"`
	SourceProductID string           `json:"source_product_id" gorm:"type:varchar(128);not null;uniqueIndex:idx_products_chain_source"`
	Name            string           `json:"name" gorm:"type:varchar(255);not null"`
	Brand           *string          `json:"brand,omitempty" gorm:"type:varchar(128)"`
	Category        *string          `json:"category,omitempty" gorm:"type:varchar(64);index"`
	Subcategory     *string          `json:"subcategory,omitempty" gorm:"type:varchar(64)"`
	PackCount       *int             `json:"pack_count,omitempty"`
	UnitVolumeML    *int             `json:"unit_volume_ml,omitempty"`
	TotalVolumeML   *int             `json:"total_volume_ml,omitempty"`
	ABV             *decimal.Decimal `json:"abv,omitempty" gorm:"type:decimal(4,1)"`
	ImageURL        string           `json:"image_url" gorm:"type:text"`
	SourceURL       string           `json:"source_url" gorm:"type:text"`
	FirstSeenAt     time.Time        `json:"first_seen_at" gorm:"not null"`
	UpdatedAt       time.Time        `json:"updated_at" gorm:"not null"`
}

// Store is one physical outlet of a per-store chain. Rows are
// maintained externally; the pipeline reads them and seeds them in
// tests.
type Store struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	Chain      string    `json:"chain" gorm:"type:varchar(64);not null;uniqueIndex:idx_stores_chain_external"`
	ExternalID string    `json:"external_id" gorm:"type:varchar(128);not null;uniqueIndex:idx_stores_chain_external"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Region     *string   `json:"region,omitempty" gorm:"type:varchar(64)"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Price is the current price of a product at a store, or chain-wide
// when StoreID is the sentinel. One row per pair, enforced by the
// composite unique index; concurrent writers serialize on it.
type Price struct {
	ID            uint             `json:"id" gorm:"primarykey"`
	ProductID     uint             `json:"product_id" gorm:"not null;uniqueIndex:idx_prices_product_store"`
	StoreID       uint             `json:"store_id" gorm:"not null;default:0;uniqueIndex:idx_prices_product_store"`
	RegularPrice  decimal.Decimal  `json:"regular_price" gorm:"type:decimal(10,2);not null"`
	PromoPrice    *decimal.Decimal `json:"promo_price,omitempty" gorm:"type:decimal(10,2)"`
	PromoText     *string          `json:"promo_text,omitempty" gorm:"type:text"`
	PromoEndsAt   *time.Time       `json:"promo_ends_at,omitempty" gorm:"index"`
	MemberOnly    bool             `json:"member_only" gorm:"not null;default:false"`
	Currency      string           `json:"currency" gorm:"type:varchar(3);not null;default:'NZD'"`
	LastSeenAt    time.Time        `json:"last_seen_at" gorm:"not null;index"`
	LastChangedAt time.Time        `json:"last_changed_at" gorm:"not null"`
}

// RunStatus is the lifecycle state of an ingestion run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// IngestionRun is the audit row of one chain scrape. A crashed process
// leaves its run in running forever; RunningRuns surfaces the orphans.
type IngestionRun struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Chain        string     `json:"chain" gorm:"type:varchar(64);not null;index"`
	Status       RunStatus  `json:"status" gorm:"type:varchar(16);not null"`
	StartedAt    time.Time  `json:"started_at" gorm:"not null;index"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	ItemsTotal   int        `json:"items_total" gorm:"not null;default:0"`
	ItemsChanged int        `json:"items_changed" gorm:"not null;default:0"`
	ItemsFailed  int        `json:"items_failed" gorm:"not null;default:0"`
	Error        *string    `json:"error,omitempty" gorm:"type:text"`
}

// Outcome classifies what one price upsert did
type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeChanged
	OutcomeUnchanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeChanged:
		return "changed"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}
