package fetch

import (
	"context"
	"encoding/json"

	apperr "github.com/AxelMcKenna/Liquorfy-sub000/pkg/errors"

	"github.com/shopspring/decimal"
)

// Renderer loads a page in a real browser context and returns the
// JSON-encoded value of a JavaScript expression evaluated after load.
type Renderer interface {
	Evaluate(ctx context.Context, url, expression string) (json.RawMessage, error)
}

// dataLayerExpr pulls the analytics data layer out of the rendered
// page; listings push their catalog into it even when the markup is a
// moving target
const dataLayerExpr = `window.dataLayer || []`

// AnalyticsConfig configures one analytics-extraction chain
type AnalyticsConfig struct {
	Source
	Renderer Renderer
	PageURL  func(req Request, page int) string
}

// Analytics renders JS-heavy category pages and reads the catalog out
// of the page's analytics data layer instead of its markup.
type Analytics struct {
	Source
	renderer Renderer
	pageURL  func(req Request, page int) string
}

var _ Strategy = (*Analytics)(nil)

// NewAnalytics creates an analytics-extraction strategy
func NewAnalytics(cfg AnalyticsConfig) *Analytics {
	return &Analytics{
		Source:   cfg.Source,
		renderer: cfg.Renderer,
		pageURL:  cfg.PageURL,
	}
}

func (a *Analytics) Name() string {
	return "analytics"
}

type dataLayerEvent struct {
	Event     string `json:"event"`
	Ecommerce *struct {
		Items []analyticsItem `json:"items"`
	} `json:"ecommerce"`
}

type analyticsItem struct {
	ID       string           `json:"item_id"`
	Name     string           `json:"item_name"`
	Brand    string           `json:"item_brand"`
	Category string           `json:"item_category"`
	Price    decimal.Decimal  `json:"price"`
	Discount *decimal.Decimal `json:"discount"`
}

// Fetch renders listing pages and emits the items their
// view_item_list events carry. Items repeat across events and pages,
// so records are deduplicated per request; a page contributing nothing
// new ends the walk, which also catches sites that ignore the page
// parameter.
func (a *Analytics) Fetch(ctx context.Context, req Request, emit EmitFunc) error {
	seen := make(map[string]struct{})

	for page := 1; page <= a.pageCeiling(); page++ {
		if page > 1 {
			if err := a.pause(ctx); err != nil {
				return err
			}
		}

		var raw json.RawMessage
		err := a.fetchAttempts(ctx, func() error {
			out, err := a.renderer.Evaluate(ctx, a.pageURL(req, page), dataLayerExpr)
			if err != nil {
				return err
			}
			raw = out
			return nil
		})
		if err != nil {
			return err
		}

		items, err := a.listedItems(raw)
		if err != nil {
			return err
		}

		emitted := 0
		for _, item := range items {
			if _, dup := seen[item.ID]; dup || item.ID == "" {
				continue
			}
			seen[item.ID] = struct{}{}
			emitted++
			if err := emit(a.record(item)); err != nil {
				return err
			}
		}
		if emitted == 0 {
			return nil
		}
	}
	return nil
}

// listedItems collects view_item_list items from the data layer.
// Entries are heterogeneous (consent pushes, gtag argument arrays), so
// each one is decoded independently and non-event entries are skipped.
func (a *Analytics) listedItems(raw json.RawMessage) ([]analyticsItem, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, apperr.NewParsing(a.Chain, "data layer is not a list", err)
	}

	var items []analyticsItem
	for _, entry := range entries {
		var ev dataLayerEvent
		if err := json.Unmarshal(entry, &ev); err != nil {
			continue
		}
		if ev.Event != "view_item_list" || ev.Ecommerce == nil {
			continue
		}
		items = append(items, ev.Ecommerce.Items...)
	}
	return items, nil
}

func (a *Analytics) record(item analyticsItem) RawRecord {
	rec := RawRecord{
		SourceID:     item.ID,
		Name:         item.Name,
		Brand:        item.Brand,
		CategoryHint: item.Category,
		Price:        item.Price,
	}

	// The data layer carries the selling price plus the discount off
	// the regular price
	if item.Discount != nil && item.Discount.IsPositive() {
		promo := item.Price
		rec.Price = item.Price.Add(*item.Discount)
		rec.PromoPrice = &promo
	}
	return rec
}
