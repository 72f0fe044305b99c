package normalize

import (
	"regexp"
	"strings"
)

// Normalizer derives structured product attributes from raw catalog
// names. The lookup tables are fixed at construction; a Normalizer is
// safe for concurrent use.
type Normalizer struct {
	tables       Tables
	brandLower   []string
	categoryRes  []*regexp.Regexp
}

// Tables holds the lookup data the normalizer matches against
type Tables struct {
	// Brands, canonical casing; matched as a name prefix at a word
	// boundary, longest match wins
	Brands []string

	// CategoryRules in priority order; the first keyword found in the
	// name decides the category
	CategoryRules []CategoryRule

	// BrandCategories maps a brand to its category when the name alone
	// carries no keyword
	BrandCategories map[string]Category
}

// Category is a two-level taxonomy assignment. The zero value means
// unknown. Sub may be empty when only the top level is known.
type Category struct {
	Top string
	Sub string
}

// CategoryRule maps a name keyword to a category
type CategoryRule struct {
	Keyword string
	Top     string
	Sub     string
}

// NewNormalizer creates a normalizer over the given tables
func NewNormalizer(tables Tables) *Normalizer {
	n := &Normalizer{tables: tables}
	n.brandLower = make([]string, len(tables.Brands))
	for i, b := range tables.Brands {
		n.brandLower[i] = strings.ToLower(b)
	}
	n.categoryRes = make([]*regexp.Regexp, len(tables.CategoryRules))
	for i, rule := range tables.CategoryRules {
		n.categoryRes[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(rule.Keyword) + `\b`)
	}
	return n
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	emptyBracketRe = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
)

// CleanName normalizes whitespace and strips leftover badge debris
// from a product name. Volume tokens are preserved.
func CleanName(name string) string {
	name = strings.ReplaceAll(name, " ", " ")
	name = emptyBracketRe.ReplaceAllString(name, " ")
	name = whitespaceRe.ReplaceAllString(name, " ")
	name = strings.Trim(name, " -|*•")
	return strings.TrimSpace(name)
}
