package scraper

import (
	"fmt"

	"github.com/AxelMcKenna/Liquorfy-sub000/config"
	"github.com/AxelMcKenna/Liquorfy-sub000/helpers"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/fetch"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/headless"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/normalize"
)

// cat builds a category request with its taxonomy hint
func cat(slug, top, sub string) CategoryRequest {
	return CategoryRequest{Slug: slug, Hint: normalize.Category{Top: top, Sub: sub}}
}

// BuildAdapters assembles the adapter for every supported chain. The
// strategy family and pricing mode of a chain are static properties
// declared here; adding a chain means adding an entry, not changing
// the pipeline.
func BuildAdapters(cfg *config.Config, deps Deps) *Registry {
	source := func(chain, baseURL string) fetch.Source {
		return fetch.Source{
			Chain:    chain,
			BaseURL:  baseURL,
			Delay:    cfg.RequestDelay,
			MaxPages: cfg.MaxPages,
			Cache:    deps.Cache,
		}
	}

	adapters := []*Adapter{

		// Super Liquor: catalog API behind a bootstrapped bearer token,
		// prices vary by store
		NewAdapter(AdapterConfig{
			Chain:       "superliquor",
			DisplayName: "Super Liquor",
			Mode:        PricingPerStore,
			Strategy: fetch.NewTokenAPI(fetch.TokenConfig{
				Source: source("superliquor", cfg.SuperLiquorURL),
				Tokens: headless.NewTokenBootstrap(deps.Renderer, headless.BootstrapConfig{
					Chain:     "superliquor",
					URL:       cfg.SuperLiquorURL,
					TokenExpr: `window.__APP_STATE__ && window.__APP_STATE__.session.apiToken`,
				}),
				PageURL: func(req fetch.Request, page int) string {
					return fmt.Sprintf("%s/api/catalog/products?category=%s&store=%s&page=%d",
						cfg.SuperLiquorURL, req.Category, req.Store, page)
				},
			}),
			Categories: []CategoryRequest{
				cat("beer", "beer", ""),
				cat("wine", "wine", ""),
				cat("spirits", "spirits", ""),
				cat("rtds", "rtd", ""),
				cat("cider", "cider", ""),
			},
		}, deps),

		// Liquorland: same API style, its own app config location
		NewAdapter(AdapterConfig{
			Chain:       "liquorland",
			DisplayName: "Liquorland",
			Mode:        PricingPerStore,
			Strategy: fetch.NewTokenAPI(fetch.TokenConfig{
				Source: source("liquorland", cfg.LiquorlandURL),
				Tokens: headless.NewTokenBootstrap(deps.Renderer, headless.BootstrapConfig{
					Chain:     "liquorland",
					URL:       cfg.LiquorlandURL,
					TokenExpr: `window.appConfig && window.appConfig.api.bearerToken`,
				}),
				PageURL: func(req fetch.Request, page int) string {
					return fmt.Sprintf("%s/api/products/search?category=%s&store=%s&page=%d",
						cfg.LiquorlandURL, req.Category, req.Store, page)
				},
			}),
			Categories: []CategoryRequest{
				cat("beer-cider", "beer", ""),
				cat("wine", "wine", ""),
				cat("spirits", "spirits", ""),
				cat("premixed", "rtd", ""),
			},
		}, deps),

		// Big Barrel: hosted commerce storefront with public collection
		// feeds, one national price list
		NewAdapter(AdapterConfig{
			Chain:       "bigbarrel",
			DisplayName: "Big Barrel",
			Mode:        PricingChainWide,
			Strategy: fetch.NewShopify(fetch.ShopifyConfig{
				Source: source("bigbarrel", cfg.BigBarrelURL),
			}),
			Categories: []CategoryRequest{
				cat("beer", "beer", ""),
				cat("wine", "wine", ""),
				cat("spirits", "spirits", ""),
				cat("rtds", "rtd", ""),
				cat("cider", "cider", ""),
			},
			EstimatedCategoryItems: 150,
		}, deps),

		// Black Bull Liquor: hosted commerce storefront
		NewAdapter(AdapterConfig{
			Chain:       "blackbull",
			DisplayName: "Black Bull Liquor",
			Mode:        PricingChainWide,
			Strategy: fetch.NewShopify(fetch.ShopifyConfig{
				Source: source("blackbull", cfg.BlackBullURL),
			}),
			Categories: []CategoryRequest{
				cat("beer", "beer", ""),
				cat("wine", "wine", ""),
				cat("spirits", "spirits", ""),
				cat("rtd", "rtd", ""),
			},
		}, deps),

		// The Bottle-O: hosted commerce storefront
		NewAdapter(AdapterConfig{
			Chain:       "bottleo",
			DisplayName: "The Bottle-O",
			Mode:        PricingChainWide,
			Strategy: fetch.NewShopify(fetch.ShopifyConfig{
				Source: source("bottleo", cfg.BottleOURL),
			}),
			Categories: []CategoryRequest{
				cat("beer", "beer", ""),
				cat("wine", "wine", ""),
				cat("spirits", "spirits", ""),
				cat("ready-to-drink", "rtd", ""),
			},
		}, deps),

		// Thirsty Liquor: JS-rendered listings with unstable markup; the
		// analytics data layer is the stable record source
		NewAdapter(AdapterConfig{
			Chain:       "thirstyliquor",
			DisplayName: "Thirsty Liquor",
			Mode:        PricingChainWide,
			Strategy: fetch.NewAnalytics(fetch.AnalyticsConfig{
				Source:   source("thirstyliquor", cfg.ThirstyLiquorURL),
				Renderer: deps.Renderer,
				PageURL: func(req fetch.Request, page int) string {
					return fmt.Sprintf("%s/collections/%s?page=%d", cfg.ThirstyLiquorURL, req.Category, page)
				},
			}),
			Categories: []CategoryRequest{
				cat("beer", "beer", ""),
				cat("wine", "wine", ""),
				cat("spirits", "spirits", ""),
				cat("rtd", "rtd", ""),
				cat("cider", "cider", ""),
			},
		}, deps),

		// Glengarry: server-rendered wine merchant
		NewAdapter(AdapterConfig{
			Chain:       "glengarry",
			DisplayName: "Glengarry Wines",
			Mode:        PricingChainWide,
			Strategy: fetch.NewHTML(fetch.HTMLConfig{
				Source: source("glengarry", cfg.GlengarryURL),
				Selectors: fetch.Selectors{
					Product:  "div.product-tile",
					Name:     "h3.product-title",
					Price:    "span.price",
					WasPrice: "span.price-was",
					Badge:    "div.promo-flash",
					Link:     "a.product-link",
					Image:    "img.product-image",
					NextPage: "li.pagination-next a",
				},
				PageURL: func(req fetch.Request, page int) string {
					return fmt.Sprintf("%s/shop/%s?page=%d", cfg.GlengarryURL, req.Category, page)
				},
				IDExtractor: helpers.LastPathSegment,
			}),
			Categories: []CategoryRequest{
				cat("wine", "wine", ""),
				cat("champagne-sparkling", "wine", "sparkling_wine"),
				cat("spirits", "spirits", ""),
				cat("beer-cider", "beer", ""),
			},
		}, deps),

		// The Liquor Centre: server-rendered listings, product ids live
		// in a query parameter
		NewAdapter(AdapterConfig{
			Chain:       "liquorcentre",
			DisplayName: "The Liquor Centre",
			Mode:        PricingChainWide,
			Strategy: fetch.NewHTML(fetch.HTMLConfig{
				Source: source("liquorcentre", cfg.LiquorCentreURL),
				Selectors: fetch.Selectors{
					Product:  "li.product-cell",
					Name:     "p.product-name",
					Price:    "div.price-now",
					WasPrice: "div.price-was",
					Badge:    "span.special-tag",
					Link:     "a.cell-link",
					Image:    "img.cell-image",
				},
				PageURL: func(req fetch.Request, page int) string {
					return fmt.Sprintf("%s/range/%s?page=%d", cfg.LiquorCentreURL, req.Category, page)
				},
				IDExtractor: func(link string) (string, error) {
					return helpers.GetSplitPart(link, "pid=", 1)
				},
			}),
			Categories: []CategoryRequest{
				cat("beer", "beer", ""),
				cat("wine", "wine", ""),
				cat("spirits", "spirits", ""),
				cat("rtds", "rtd", ""),
			},
		}, deps),

		// Whisky Galore: specialist merchant, server-rendered
		NewAdapter(AdapterConfig{
			Chain:       "whiskygalore",
			DisplayName: "Whisky Galore",
			Mode:        PricingChainWide,
			Strategy: fetch.NewHTML(fetch.HTMLConfig{
				Source: source("whiskygalore", cfg.WhiskyGaloreURL),
				Selectors: fetch.Selectors{
					Product:  "div.product-grid-item",
					Name:     "div.product-name a",
					Price:    "span.product-price",
					WasPrice: "span.compare-price",
					Badge:    "span.sale-flag",
					Link:     "div.product-name a",
					Image:    "img.product-img",
					NextPage: "a.pagination-arrow--next",
				},
				PageURL: func(req fetch.Request, page int) string {
					return fmt.Sprintf("%s/collection/%s?page=%d", cfg.WhiskyGaloreURL, req.Category, page)
				},
				IDExtractor: helpers.LastPathSegment,
			}),
			Categories: []CategoryRequest{
				cat("single-malt", "spirits", "whisky"),
				cat("blended-whisky", "spirits", "whisky"),
				cat("bourbon-american", "spirits", "bourbon"),
				cat("world-whisky", "spirits", "whisky"),
				cat("gin", "spirits", "gin"),
			},
			EstimatedCategoryItems: 80,
		}, deps),

		// Vino Fino: specialist wine merchant, server-rendered
		NewAdapter(AdapterConfig{
			Chain:       "vinofino",
			DisplayName: "Vino Fino",
			Mode:        PricingChainWide,
			Strategy: fetch.NewHTML(fetch.HTMLConfig{
				Source: source("vinofino", cfg.VinoFinoURL),
				Selectors: fetch.Selectors{
					Product:  "li.product",
					Name:     "h2.product-title",
					Price:    "span.price-current",
					WasPrice: "del span.amount",
					Badge:    "span.onsale",
					Link:     "a.product-anchor",
					Image:    "img.attachment-shop",
					NextPage: "a.next.page-numbers",
				},
				PageURL: func(req fetch.Request, page int) string {
					return fmt.Sprintf("%s/product-category/%s/page/%d", cfg.VinoFinoURL, req.Category, page)
				},
				IDExtractor: helpers.LastPathSegment,
			}),
			Categories: []CategoryRequest{
				cat("red-wine", "wine", "red_wine"),
				cat("white-wine", "wine", "white_wine"),
				cat("sparkling", "wine", "sparkling_wine"),
				cat("rose", "wine", "rose_wine"),
				cat("spirits", "spirits", ""),
			},
		}, deps),
	}

	return NewRegistry(adapters...)
}
