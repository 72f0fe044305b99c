package fetch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperr "github.com/AxelMcKenna/Liquorfy-sub000/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A realistic data layer: consent pushes and gtag argument arrays
// surround the listing event
const dataLayerPageOne = `[
	{"event": "gtm.js", "gtm.start": 1756000000000},
	["consent", "default", {"ad_storage": "denied"}],
	{"event": "view_item_list", "ecommerce": {"items": [
		{"item_id": "TL-4410", "item_name": "Coruba Original Dark Rum 1L", "item_brand": "Coruba", "item_category": "Rum", "price": 39.99, "discount": 5.00},
		{"item_id": "TL-2087", "item_name": "Old Mout Berry Cider 1.25L", "item_brand": "Old Mout", "item_category": "Cider", "price": 10.99}
	]}},
	{"event": "view_item_list", "ecommerce": {"items": [
		{"item_id": "TL-4410", "item_name": "Coruba Original Dark Rum 1L", "item_brand": "Coruba", "item_category": "Rum", "price": 39.99, "discount": 5.00}
	]}}
]`

func newAnalyticsStrategy(r Renderer) *Analytics {
	return NewAnalytics(AnalyticsConfig{
		Source: Source{
			Chain: "thirstyliquor",
			Cache: newMockCache(),
		},
		Renderer: r,
		PageURL: func(req Request, page int) string {
			return fmt.Sprintf("https://thirstyliquor.example/%s?page=%d", req.Category, page)
		},
	})
}

func TestAnalyticsFetch(t *testing.T) {
	renderer := &fakeRenderer{responses: []string{dataLayerPageOne, dataLayerPageOne}}
	recs := collect(t, newAnalyticsStrategy(renderer), Request{Category: "rum"})

	require.Len(t, recs, 2, "repeated items collapse to one record")
	assert.Len(t, renderer.calls, 2, "a page with nothing new ends the walk")
	assert.Equal(t, "https://thirstyliquor.example/rum?page=1", renderer.calls[0])

	coruba := recs[0]
	assert.Equal(t, "TL-4410", coruba.SourceID)
	assert.Equal(t, "Coruba", coruba.Brand)
	assert.Equal(t, "Rum", coruba.CategoryHint)
	assert.True(t, coruba.Price.Equal(decimal.RequireFromString("44.99")), "discount reconstructs the regular price, got %s", coruba.Price)
	require.NotNil(t, coruba.PromoPrice)
	assert.True(t, coruba.PromoPrice.Equal(decimal.RequireFromString("39.99")))

	cider := recs[1]
	assert.Equal(t, "TL-2087", cider.SourceID)
	assert.True(t, cider.Price.Equal(decimal.RequireFromString("10.99")))
	assert.Nil(t, cider.PromoPrice)
}

func TestAnalyticsFetchEmptyDataLayer(t *testing.T) {
	renderer := &fakeRenderer{responses: []string{`[]`}}

	var recs []RawRecord
	err := newAnalyticsStrategy(renderer).Fetch(context.Background(), Request{Category: "wine"}, func(r RawRecord) error {
		recs = append(recs, r)
		return nil
	})

	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Len(t, renderer.calls, 1)
}

func TestAnalyticsFetchMalformedDataLayer(t *testing.T) {
	renderer := &fakeRenderer{responses: []string{`{"not":"a list"}`}}

	err := newAnalyticsStrategy(renderer).Fetch(context.Background(), Request{Category: "wine"}, func(RawRecord) error {
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, apperr.ErrorTypeParsing, apperr.TypeOf(err))
}

func TestAnalyticsFetchRendererFailureRetriedOnce(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("browser session lost")}

	err := newAnalyticsStrategy(renderer).Fetch(context.Background(), Request{Category: "wine"}, func(RawRecord) error {
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, apperr.ErrorTypeNetwork, apperr.TypeOf(err))
	assert.Len(t, renderer.calls, 2, "a transient renderer failure gets one retry")
}
