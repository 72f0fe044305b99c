package normalize

import (
	"strings"
	"unicode"
)

// InferBrand matches the product name against the brand table; the
// longest brand that prefixes the name at a word boundary wins. When
// the table has nothing, the leading capitalized token is used as a
// best-effort fallback. Returns "" when nothing plausible is found.
func (n *Normalizer) InferBrand(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return ""
	}

	best := -1
	bestLen := 0
	for i, bl := range n.brandLower {
		if len(bl) <= bestLen {
			continue
		}
		if strings.HasPrefix(lower, bl) && boundaryAfter(lower, len(bl)) {
			best = i
			bestLen = len(bl)
		}
	}
	if best >= 0 {
		return n.tables.Brands[best]
	}

	return fallbackBrand(name)
}

// boundaryAfter reports whether position i in s ends a word
func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	c := rune(s[i])
	return !unicode.IsLetter(c) && !unicode.IsDigit(c)
}

// fallbackBrand takes the leading capitalized token when it looks like
// a name rather than a number or a descriptor
func fallbackBrand(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	token := strings.Trim(fields[0], "\"'()[]")
	if len(token) < 2 {
		return ""
	}
	runes := []rune(token)
	if !unicode.IsUpper(runes[0]) {
		return ""
	}
	for _, r := range runes {
		if unicode.IsDigit(r) {
			return ""
		}
	}
	return token
}
