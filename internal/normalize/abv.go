package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var percentRe = regexp.MustCompile(`(\d{1,2}(?:\.\d{1,2})?)\s*%`)

// ParseABV extracts an alcohol percentage from a product name. A
// percent token counts when it sits next to alcohol wording (abv, alc,
// vol) or, failing that, when it is a bare percentage in the plausible
// drinking range. Discount phrasing ("20% off", "save 15%") never
// counts. Two conflicting candidates mean the name is ambiguous and
// nothing is returned.
func ParseABV(name string) *decimal.Decimal {
	lower := strings.ToLower(name)

	var strong, weak []string
	for _, m := range percentRe.FindAllStringSubmatchIndex(lower, -1) {
		value := lower[m[2]:m[3]]
		if isDiscountContext(lower, m[0], m[1]) {
			continue
		}
		if isAlcoholContext(lower, m[0], m[1]) {
			strong = appendUnique(strong, value)
			continue
		}
		if d, err := decimal.NewFromString(value); err == nil {
			if d.GreaterThanOrEqual(decimal.RequireFromString("0.5")) &&
				d.LessThanOrEqual(decimal.NewFromInt(85)) {
				weak = appendUnique(weak, value)
			}
		}
	}

	candidates := strong
	if len(candidates) == 0 {
		candidates = weak
	}
	if len(candidates) != 1 {
		return nil
	}
	d, err := decimal.NewFromString(candidates[0])
	if err != nil {
		return nil
	}
	return &d
}

// isDiscountContext checks the text around a percent token for
// discount wording
func isDiscountContext(s string, start, end int) bool {
	after := s[end:min(end+6, len(s))]
	if strings.HasPrefix(strings.TrimLeft(after, " "), "off") {
		return true
	}
	before := s[max(start-12, 0):start]
	return strings.Contains(before, "save") || strings.Contains(before, "was ")
}

// isAlcoholContext checks the text around a percent token for alcohol
// wording
func isAlcoholContext(s string, start, end int) bool {
	window := s[max(start-10, 0):min(end+10, len(s))]
	for _, marker := range []string{"abv", "alc", "vol"} {
		if strings.Contains(window, marker) {
			return true
		}
	}
	return false
}

func appendUnique(values []string, v string) []string {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}
