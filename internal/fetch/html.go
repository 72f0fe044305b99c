package fetch

import (
	"context"
	"strings"

	"github.com/AxelMcKenna/Liquorfy-sub000/helpers"
	apperr "github.com/AxelMcKenna/Liquorfy-sub000/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// Selectors drive record extraction from server-rendered listing
// markup. Product, Name, Price and Link are required; the rest are
// optional and skipped when empty.
type Selectors struct {
	// Product matches one product cell in the listing
	Product string
	Name    string
	Price   string
	// WasPrice matches the struck-through regular price shown when the
	// cell displays a promotional price
	WasPrice string
	// Badge matches free-text promo copy inside the cell
	Badge string
	Link  string
	Image string
	// NextPage matches the pager element that exists only while more
	// pages remain. Empty means "walk until an empty page".
	NextPage string
}

// IDExtractorFunc derives the retailer-native product id from a
// product URL
type IDExtractorFunc func(link string) (string, error)

// HTMLConfig configures one HTML-listing chain
type HTMLConfig struct {
	Source
	Selectors   Selectors
	PageURL     func(req Request, page int) string
	IDExtractor IDExtractorFunc
}

// HTML walks server-rendered category pages and extracts records with
// goquery selectors.
type HTML struct {
	Source
	selectors   Selectors
	pageURL     func(req Request, page int) string
	idExtractor IDExtractorFunc
}

var _ Strategy = (*HTML)(nil)

// NewHTML creates an HTML listing strategy
func NewHTML(cfg HTMLConfig) *HTML {
	return &HTML{
		Source:      cfg.Source,
		selectors:   cfg.Selectors,
		pageURL:     cfg.PageURL,
		idExtractor: cfg.IDExtractor,
	}
}

func (h *HTML) Name() string {
	return "html"
}

// Fetch walks listing pages until the pager runs out, a page comes
// back empty, or the page ceiling is hit.
func (h *HTML) Fetch(ctx context.Context, req Request, emit EmitFunc) error {
	for page := 1; page <= h.pageCeiling(); page++ {
		if page > 1 {
			if err := h.pause(ctx); err != nil {
				return err
			}
		}

		var doc *goquery.Document
		err := h.fetchAttempts(ctx, func() error {
			body, err := helpers.FetchWithRandomHeaders(ctx, h.pageURL(req, page))
			if err != nil {
				return err
			}
			d, err := goquery.NewDocumentFromReader(body)
			if err != nil {
				return apperr.NewParsing(h.Chain, "unreadable listing markup", err)
			}
			doc = d
			return nil
		})
		if err != nil {
			return err
		}

		cells := doc.Find(h.selectors.Product)
		if cells.Length() == 0 {
			return nil
		}

		var emitErr error
		cells.EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			rec, ok := h.record(cell)
			if !ok {
				return true
			}
			if err := emit(rec); err != nil {
				emitErr = err
				return false
			}
			return true
		})
		if emitErr != nil {
			return emitErr
		}

		if h.selectors.NextPage != "" && doc.Find(h.selectors.NextPage).Length() == 0 {
			return nil
		}
	}
	return nil
}

// record extracts one raw record from a product cell. Cells without a
// name are listing furniture (banners, spacers) and are skipped;
// anything that looks like a product is emitted even when incomplete,
// so missing ids and prices surface as item failures downstream
// instead of vanishing here.
func (h *HTML) record(cell *goquery.Selection) (RawRecord, bool) {
	name := strings.TrimSpace(h.text(cell, h.selectors.Name))
	if name == "" {
		return RawRecord{}, false
	}

	rec := RawRecord{Name: name}

	if link, exists := cell.Find(h.selectors.Link).First().Attr("href"); exists {
		rec.SourceURL = h.resolveURL(strings.TrimSpace(link))
		if h.idExtractor != nil && rec.SourceURL != "" {
			if id, err := h.idExtractor(rec.SourceURL); err == nil {
				rec.SourceID = id
			}
		}
	}

	price, priceErr := ParseMoney(h.text(cell, h.selectors.Price))
	if priceErr == nil {
		rec.Price = price
	}

	// A struck-through "was" price means the displayed price is the
	// promotional one and "was" is the regular shelf price
	if h.selectors.WasPrice != "" && priceErr == nil {
		if was, err := ParseMoney(h.text(cell, h.selectors.WasPrice)); err == nil && was.GreaterThan(price) {
			rec.Price = was
			rec.PromoPrice = &price
		}
	}

	if h.selectors.Badge != "" {
		rec.PromoText = strings.TrimSpace(h.text(cell, h.selectors.Badge))
	}

	if h.selectors.Image != "" {
		if src, exists := cell.Find(h.selectors.Image).First().Attr("src"); exists {
			rec.ImageURL = h.resolveURL(strings.TrimSpace(src))
		}
	}

	return rec, true
}

func (h *HTML) text(cell *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return cell.Find(selector).First().Text()
}

// resolveURL makes relative hrefs absolute against the chain base URL
func (h *HTML) resolveURL(link string) string {
	if link == "" || strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	base := strings.TrimSuffix(h.BaseURL, "/")
	if strings.HasPrefix(link, "/") {
		return base + link
	}
	return base + "/" + link
}
