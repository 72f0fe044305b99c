package fetch

import (
	"context"
	"net/http"
	"time"

	"github.com/AxelMcKenna/Liquorfy-sub000/helpers"
	apperr "github.com/AxelMcKenna/Liquorfy-sub000/pkg/errors"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// TokenSource yields the bearer token an authenticated catalog API
// expects. Acquisition is expensive (a real browser session), so
// implementations cache the token until Invalidate is called.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	// Invalidate discards the cached token so the next Token call
	// bootstraps a fresh one
	Invalidate()
}

// TokenConfig configures one authenticated-API chain
type TokenConfig struct {
	Source
	Tokens  TokenSource
	PageURL func(req Request, page int) string
	// Client overrides the default resty client, mainly for tests
	Client *resty.Client
}

// TokenAPI pages through a retailer catalog API that authenticates
// with a bootstrapped bearer token. A rejected token triggers one
// re-bootstrap per request before giving up.
type TokenAPI struct {
	Source
	tokens  TokenSource
	pageURL func(req Request, page int) string
	client  *resty.Client
}

var _ Strategy = (*TokenAPI)(nil)

// NewTokenAPI creates a token-API strategy
func NewTokenAPI(cfg TokenConfig) *TokenAPI {
	client := cfg.Client
	if client == nil {
		client = resty.New().
			SetTimeout(15 * time.Second).
			SetHeader("Accept", "application/json")
	}
	return &TokenAPI{
		Source:  cfg.Source,
		tokens:  cfg.Tokens,
		pageURL: cfg.PageURL,
		client:  client,
	}
}

func (t *TokenAPI) Name() string {
	return "token_api"
}

type tokenPage struct {
	Products []tokenProduct `json:"products"`
	HasMore  bool           `json:"hasMore"`
}

type tokenProduct struct {
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Brand       string           `json:"brand"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	PromoPrice  *decimal.Decimal `json:"promoPrice"`
	PromoEndsAt string           `json:"promoEndsAt"`
	LoyaltyOnly bool             `json:"loyaltyOnly"`
	ImageURL    string           `json:"imageUrl"`
	URL         string           `json:"url"`
}

// Fetch pages through the API until it reports no more pages
func (t *TokenAPI) Fetch(ctx context.Context, req Request, emit EmitFunc) error {
	reauthed := false

	for page := 1; page <= t.pageCeiling(); page++ {
		if page > 1 {
			if err := t.pause(ctx); err != nil {
				return err
			}
		}

		var out tokenPage
		err := t.fetchAttempts(ctx, func() error {
			return t.getPage(ctx, req, page, &out)
		})

		// One fresh bootstrap per request when the API stops accepting
		// the cached token mid-walk
		if apperr.IsAuth(err) && !reauthed {
			reauthed = true
			t.tokens.Invalidate()
			err = t.fetchAttempts(ctx, func() error {
				return t.getPage(ctx, req, page, &out)
			})
		}
		if err != nil {
			return err
		}

		for _, p := range out.Products {
			if err := emit(t.record(p)); err != nil {
				return err
			}
		}

		if !out.HasMore || len(out.Products) == 0 {
			return nil
		}
	}
	return nil
}

func (t *TokenAPI) getPage(ctx context.Context, req Request, page int, out *tokenPage) error {
	token, err := t.tokens.Token(ctx)
	if err != nil {
		return apperr.NewAuth(t.Chain, "token bootstrap failed", err)
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(out).
		Get(t.pageURL(req, page))
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return apperr.NewAuth(t.Chain, "token rejected", nil)
	}
	return restyError(resp)
}

func (t *TokenAPI) record(p tokenProduct) RawRecord {
	rec := RawRecord{
		SourceID:     p.SKU,
		Name:         p.Name,
		Brand:        p.Brand,
		CategoryHint: p.Category,
		Price:        p.Price,
		MemberOnly:   p.LoyaltyOnly,
		ImageURL:     p.ImageURL,
		SourceURL:    p.URL,
	}
	if p.PromoPrice != nil {
		promo := *p.PromoPrice
		rec.PromoPrice = &promo
	}
	if p.PromoEndsAt != "" {
		if at, err := time.Parse(time.RFC3339, p.PromoEndsAt); err == nil {
			rec.PromoEndsAt = &at
		}
	}
	return rec
}

// restyError maps a non-2xx catalog API response onto the shared
// transport error types so the retry rule treats resty and plain HTTP
// fetches the same way
func restyError(resp *resty.Response) error {
	code := resp.StatusCode()
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests || code == 430:
		return &helpers.RateLimitedError{
			RetryAfter: helpers.ParseRetryAfter(resp.Header().Get("Retry-After")),
		}
	default:
		return &helpers.StatusError{URL: resp.Request.URL, StatusCode: code}
	}
}
