package fetch

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// defaultPageSize is the feed's maximum page size; fewer round trips
// per category
const defaultPageSize = 250

// ShopifyConfig configures one hosted-commerce chain
type ShopifyConfig struct {
	Source
	PageSize int
	// Client overrides the default resty client, mainly for tests
	Client *resty.Client
}

// Shopify pages through the public products.json feed hosted commerce
// storefronts expose per collection. A compare-at price above the
// selling price marks a structured promotion.
type Shopify struct {
	Source
	pageSize int
	client   *resty.Client
}

var _ Strategy = (*Shopify)(nil)

// NewShopify creates a commerce-feed strategy
func NewShopify(cfg ShopifyConfig) *Shopify {
	client := cfg.Client
	if client == nil {
		client = resty.New().
			SetTimeout(15 * time.Second).
			SetHeader("Accept", "application/json")
	}
	size := cfg.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	return &Shopify{
		Source:   cfg.Source,
		pageSize: size,
		client:   client,
	}
}

func (s *Shopify) Name() string {
	return "commerce_feed"
}

type shopifyPage struct {
	Products []shopifyProduct `json:"products"`
}

type shopifyProduct struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Handle      string           `json:"handle"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Images      []shopifyImage   `json:"images"`
	Variants    []shopifyVariant `json:"variants"`
}

type shopifyVariant struct {
	ID             int64            `json:"id"`
	Title          string           `json:"title"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	Available      bool             `json:"available"`
}

type shopifyImage struct {
	Src string `json:"src"`
}

// Fetch pages through a collection feed until a page comes back empty
func (s *Shopify) Fetch(ctx context.Context, req Request, emit EmitFunc) error {
	for page := 1; page <= s.pageCeiling(); page++ {
		if page > 1 {
			if err := s.pause(ctx); err != nil {
				return err
			}
		}

		var out shopifyPage
		err := s.fetchAttempts(ctx, func() error {
			resp, err := s.client.R().
				SetContext(ctx).
				SetResult(&out).
				Get(s.feedURL(req.Category, page))
			if err != nil {
				return err
			}
			return restyError(resp)
		})
		if err != nil {
			return err
		}
		if len(out.Products) == 0 {
			return nil
		}

		for _, p := range out.Products {
			for _, rec := range s.records(p) {
				if err := emit(rec); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Shopify) feedURL(collection string, page int) string {
	return fmt.Sprintf("%s/collections/%s/products.json?limit=%d&page=%d",
		s.BaseURL, collection, s.pageSize, page)
}

// records expands a feed product into one record per purchasable
// variant; pack-size variants are distinct products to a price reader
func (s *Shopify) records(p shopifyProduct) []RawRecord {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0].Src
	}

	recs := make([]RawRecord, 0, len(p.Variants))
	for _, v := range p.Variants {
		if !v.Available {
			continue
		}

		name := p.Title
		if v.Title != "" && v.Title != "Default Title" {
			name += " " + v.Title
		}

		rec := RawRecord{
			SourceID:     strconv.FormatInt(v.ID, 10),
			Name:         name,
			Brand:        p.Vendor,
			CategoryHint: p.ProductType,
			Price:        v.Price,
			ImageURL:     image,
			SourceURL:    fmt.Sprintf("%s/products/%s?variant=%d", s.BaseURL, p.Handle, v.ID),
		}

		// Compare-at above the selling price: the listed price is
		// promotional and compare-at is the regular shelf price
		if v.CompareAtPrice != nil && v.CompareAtPrice.GreaterThan(v.Price) {
			promo := v.Price
			rec.Price = *v.CompareAtPrice
			rec.PromoPrice = &promo
		}

		recs = append(recs, rec)
	}
	return recs
}
