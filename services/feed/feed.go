package feed

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceChange is one price movement observed by the pipeline: a price
// row was inserted or its stored values differed from the incoming
// observation. Old fields are nil on first sight.
type PriceChange struct {
	ID         string           `json:"id"`
	Chain      string           `json:"chain"`
	ProductID  uint             `json:"product_id"`
	StoreID    uint             `json:"store_id"`
	Name       string           `json:"name"`
	OldRegular *decimal.Decimal `json:"old_regular,omitempty"`
	NewRegular decimal.Decimal  `json:"new_regular"`
	OldPromo   *decimal.Decimal `json:"old_promo,omitempty"`
	NewPromo   *decimal.Decimal `json:"new_promo,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Publisher represents a service for publishing price change events
type Publisher interface {
	// PublishChange publishes one price change to a stream
	PublishChange(change PriceChange) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
