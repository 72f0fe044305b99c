package fetch

import (
	"context"
	stderrors "errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/AxelMcKenna/Liquorfy-sub000/helpers"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/metrics"
	apperr "github.com/AxelMcKenna/Liquorfy-sub000/pkg/errors"
	"github.com/AxelMcKenna/Liquorfy-sub000/services/cache"

	"github.com/shopspring/decimal"
)

// DefaultMaxPages caps how many listing pages one request may walk
const DefaultMaxPages = 50

// Request identifies one listing sequence: a source category, and for
// per-store chains the source store.
type Request struct {
	// Category is the source-side category identifier: a URL path for
	// HTML chains, a collection handle for commerce feeds, a category
	// id for catalog APIs.
	Category string

	// Store is the source-side store identifier, empty for chains with
	// one price nationwide.
	Store string
}

// RawRecord is one catalog item exactly as the source presented it,
// before normalization. Price is the regular shelf price; PromoPrice
// is set only when the source exposes a promotional price as data
// rather than badge copy.
type RawRecord struct {
	SourceID     string
	Name         string
	Brand        string
	CategoryHint string
	Price        decimal.Decimal
	PromoPrice   *decimal.Decimal
	PromoText    string
	PromoEndsAt  *time.Time
	MemberOnly   bool
	ImageURL     string
	SourceURL    string
}

// EmitFunc receives records one at a time as pages are walked. A
// non-nil return aborts the fetch; the error comes back from Fetch
// unchanged.
type EmitFunc func(RawRecord) error

// Strategy produces the lazy, finite record sequence for one request.
// A sequence is never restarted by the caller.
type Strategy interface {
	// Name identifies the strategy family ("html", "token_api",
	// "commerce_feed", "analytics") for listings and logs
	Name() string

	Fetch(ctx context.Context, req Request, emit EmitFunc) error
}

// Source carries what every strategy family shares: chain identity for
// cache keys and errors, pacing between pages, the page ceiling, and
// the rate-limit block cache.
type Source struct {
	Chain     string
	BaseURL   string
	Delay     time.Duration
	MaxPages  int
	BlockTime time.Duration
	Cache     cache.CacheService
}

func (s *Source) pageCeiling() int {
	if s.MaxPages > 0 {
		return s.MaxPages
	}
	return DefaultMaxPages
}

func (s *Source) blockKey() string {
	return "block:" + s.Chain
}

// blocked returns a rate-limit error while the source sits inside a
// recorded block window
func (s *Source) blocked() error {
	if s.Cache == nil {
		return nil
	}
	val, err := s.Cache.Get(s.blockKey())
	if err != nil {
		return nil
	}
	window := helpers.DefaultBlockDuration
	if secs, convErr := strconv.Atoi(string(val)); convErr == nil && secs > 0 {
		window = time.Duration(secs) * time.Second
	}
	return apperr.NewRateLimit(s.Chain, window)
}

// block records a rate-limit window so every process backs off the
// source until it passes
func (s *Source) block(window time.Duration) {
	if s.Cache == nil {
		return
	}
	if window <= 0 {
		window = s.BlockTime
	}
	if window <= 0 {
		window = helpers.DefaultBlockDuration
	}
	secs := []byte(strconv.Itoa(int(window / time.Second)))
	_ = s.Cache.Set(s.blockKey(), secs, window)
}

// pause sleeps the politeness delay, returning early when ctx ends
func (s *Source) pause(ctx context.Context) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// fetchAttempts runs one page operation under the shared rules: fail
// fast inside a block window, record a new block window on rate
// limiting, and retry exactly once when the failure is transient.
// Client errors and typed pipeline errors never get the retry.
func (s *Source) fetchAttempts(ctx context.Context, op func() error) error {
	if err := s.blocked(); err != nil {
		return err
	}

	defer metrics.TrackFetch(s.Chain)(time.Now())

	err := op()
	if err == nil {
		metrics.RecordPage(s.Chain)
		return nil
	}

	var rl *helpers.RateLimitedError
	if stderrors.As(err, &rl) {
		s.block(rl.RetryAfter)
		return apperr.NewRateLimit(s.Chain, rl.RetryAfter)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !transient(err) {
		return wrapNetwork(s.Chain, err)
	}

	if perr := s.pause(ctx); perr != nil {
		return perr
	}

	if err = op(); err == nil {
		metrics.RecordPage(s.Chain)
		return nil
	}
	if stderrors.As(err, &rl) {
		s.block(rl.RetryAfter)
		return apperr.NewRateLimit(s.Chain, rl.RetryAfter)
	}
	return wrapNetwork(s.Chain, err)
}

// transient reports whether a page failure is worth the single retry:
// transport faults and 5xx responses qualify, client errors do not.
// Errors already typed by an inner layer answer for themselves.
func transient(err error) bool {
	if apperr.TypeOf(err) != "" {
		return apperr.IsRetryable(err)
	}
	var se *helpers.StatusError
	if stderrors.As(err, &se) {
		return helpers.IsRetryableStatus(err)
	}
	return true
}

func wrapNetwork(chain string, err error) error {
	if apperr.TypeOf(err) != "" ||
		stderrors.Is(err, context.Canceled) ||
		stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperr.NewNetwork(chain, "page fetch failed", err)
}

var moneyRe = regexp.MustCompile(`\$?\s*(\d{1,4}(?:,\d{3})*(?:\.\d{1,2})?)`)

// ParseMoney reads the first dollar amount out of price cell text like
// "$43.99", "NZ$1,049.00" or "43.99 each"
func ParseMoney(text string) (decimal.Decimal, error) {
	m := moneyRe.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, apperr.New(apperr.ErrorTypeParsing, "", "no price in "+strconv.Quote(text), nil)
	}
	return decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
}
