package fetch

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopifyPageOne = `{
	"products": [
		{
			"id": 7001,
			"title": "Black Bull Bourbon & Cola 7%",
			"handle": "black-bull-bourbon-cola",
			"vendor": "Black Bull",
			"product_type": "RTD",
			"images": [{"src": "https://cdn.shopify.com/black-bull.jpg"}],
			"variants": [
				{"id": 9001, "title": "12 Pack", "price": "29.99", "compare_at_price": "34.99", "available": true},
				{"id": 9002, "title": "18 Pack", "price": "39.99", "compare_at_price": null, "available": true},
				{"id": 9003, "title": "24 Pack", "price": "49.99", "compare_at_price": null, "available": false}
			]
		},
		{
			"id": 7002,
			"title": "Garage Project Hapi Daze 330ml 6 Pack",
			"handle": "gp-hapi-daze-6pk",
			"vendor": "Garage Project",
			"product_type": "Craft Beer",
			"images": [],
			"variants": [
				{"id": 9101, "title": "Default Title", "price": "19.99", "compare_at_price": null, "available": true}
			]
		}
	]
}`

func newShopifyStrategy(baseURL string) *Shopify {
	return NewShopify(ShopifyConfig{
		Source: Source{
			Chain:   "blackbull",
			BaseURL: baseURL,
			Cache:   newMockCache(),
		},
	})
}

func TestShopifyFetch(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/collections/rtds/products.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, shopifyPageOne)
			return
		}
		fmt.Fprint(w, `{"products":[]}`)
	}))
	defer srv.Close()

	strategy := newShopifyStrategy(srv.URL)
	recs := collect(t, strategy, Request{Category: "rtds"})

	// Unavailable variants stay out; the rest come through one record
	// per variant
	require.Len(t, recs, 3)
	assert.Equal(t, int32(2), calls.Load(), "an empty page ends the walk")

	twelve := recs[0]
	assert.Equal(t, "9001", twelve.SourceID)
	assert.Equal(t, "Black Bull Bourbon & Cola 7% 12 Pack", twelve.Name)
	assert.Equal(t, "Black Bull", twelve.Brand)
	assert.Equal(t, "RTD", twelve.CategoryHint)
	assert.True(t, twelve.Price.Equal(decimal.RequireFromString("34.99")), "compare-at is the regular price, got %s", twelve.Price)
	require.NotNil(t, twelve.PromoPrice)
	assert.True(t, twelve.PromoPrice.Equal(decimal.RequireFromString("29.99")))
	assert.Equal(t, "https://cdn.shopify.com/black-bull.jpg", twelve.ImageURL)
	assert.Equal(t, srv.URL+"/products/black-bull-bourbon-cola?variant=9001", twelve.SourceURL)

	eighteen := recs[1]
	assert.Equal(t, "9002", eighteen.SourceID)
	assert.True(t, eighteen.Price.Equal(decimal.RequireFromString("39.99")))
	assert.Nil(t, eighteen.PromoPrice)

	// The default variant title adds nothing to the name
	hapi := recs[2]
	assert.Equal(t, "Garage Project Hapi Daze 330ml 6 Pack", hapi.Name)
	assert.Empty(t, hapi.ImageURL)
}

func TestShopifyFeedURL(t *testing.T) {
	strategy := NewShopify(ShopifyConfig{
		Source:   Source{Chain: "bigbarrel", BaseURL: "https://www.bigbarrel.co.nz"},
		PageSize: 100,
	})

	assert.Equal(t,
		"https://www.bigbarrel.co.nz/collections/beer/products.json?limit=100&page=3",
		strategy.feedURL("beer", 3))
}
