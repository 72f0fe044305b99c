package promo

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Observation is one price sighting as the adapter scraped it
type Observation struct {
	// Regular is the everyday shelf price
	Regular decimal.Decimal

	// Structured is a promotional price the source exposed as data
	// (feed compare-at, API special field, analytics discount)
	Structured *decimal.Decimal

	// Badge is the free-text promotional copy next to the price
	Badge string

	// Member is a structured member-pricing flag from the source
	Member bool

	// EndsAt is a structured expiry from the source
	EndsAt *time.Time
}

// Promotion is the detected promotional state. The zero value means no
// promotion was found.
type Promotion struct {
	Price      *decimal.Decimal
	Text       string
	EndsAt     *time.Time
	MemberOnly bool
}

var (
	nForRe    = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:for|/)\s*\$\s*(\d+(?:\.\d{1,2})?)\b`)
	saveRe    = regexp.MustCompile(`(?i)\bsave\s*\$\s*(\d+(?:\.\d{1,2})?)\b`)
	wasNowRe  = regexp.MustCompile(`(?i)\bwas\s*\$?\s*(\d+(?:\.\d{1,2})?)\s*,?\s*now\s*\$?\s*(\d+(?:\.\d{1,2})?)\b`)
	memberRe  = regexp.MustCompile(`(?i)\b(members?\b|club\s+price|loyalty|with\s+card)`)
	endsNumRe = regexp.MustCompile(`(?i)\bends?\s+(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	endsDMRe  = regexp.MustCompile(`(?i)\bends?\s+(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]{3,9})\b`)
	endsMDRe  = regexp.MustCompile(`(?i)\bends?\s+([a-z]{3,9})\.?\s+(\d{1,2})\b`)
)

// Detect derives the promotional state of one observation. Price rules
// run in priority order and the first one producing a valid price
// (positive, below regular) wins: structured price, "N for $X",
// "Save $X", "WAS $A NOW $B". The member flag and the expiry date are
// independent of the price rules.
func Detect(obs Observation, now time.Time) Promotion {
	var p Promotion

	p.Price = detectPrice(obs)

	p.MemberOnly = obs.Member || memberRe.MatchString(obs.Badge)

	if obs.EndsAt != nil {
		t := *obs.EndsAt
		p.EndsAt = &t
	} else {
		p.EndsAt = parseEndsDate(obs.Badge, now)
	}

	if p.Price != nil || p.MemberOnly || p.EndsAt != nil {
		p.Text = strings.TrimSpace(obs.Badge)
	}

	return p
}

func detectPrice(obs Observation) *decimal.Decimal {
	if valid(obs.Structured, obs.Regular) {
		d := obs.Structured.Round(2)
		return &d
	}

	if m := nForRe.FindStringSubmatch(obs.Badge); m != nil {
		n, _ := strconv.ParseInt(m[1], 10, 64)
		if n > 0 {
			if total, err := decimal.NewFromString(m[2]); err == nil {
				unit := total.DivRound(decimal.NewFromInt(n), 2)
				if valid(&unit, obs.Regular) {
					return &unit
				}
			}
		}
	}

	if m := saveRe.FindStringSubmatch(obs.Badge); m != nil {
		if amount, err := decimal.NewFromString(m[1]); err == nil {
			discounted := obs.Regular.Sub(amount)
			if valid(&discounted, obs.Regular) {
				return &discounted
			}
		}
	}

	if m := wasNowRe.FindStringSubmatch(obs.Badge); m != nil {
		was, errWas := decimal.NewFromString(m[1])
		nowPrice, errNow := decimal.NewFromString(m[2])
		// A "now" above "was" is a mangled badge, not a discount
		if errWas == nil && errNow == nil && !nowPrice.GreaterThan(was) {
			if valid(&nowPrice, obs.Regular) {
				return &nowPrice
			}
		}
	}

	return nil
}

// valid reports whether p is a usable promo price against the regular
// price: positive and strictly lower
func valid(p *decimal.Decimal, regular decimal.Decimal) bool {
	return p != nil && p.IsPositive() && p.LessThan(regular)
}

// rollGrace is how far in the past a yearless expiry may sit before it
// is read as next year's date
const rollGrace = 72 * time.Hour

// parseEndsDate reads a trailing expiry out of badge copy: "Ends
// 31/08", "Ends 31/08/2026", "Ends 31 Aug", "Ends Aug 31". A date
// without a year gets the current year, rolled forward one year when
// it sits more than a few days in the past.
func parseEndsDate(badge string, now time.Time) *time.Time {
	if badge == "" {
		return nil
	}

	if m := endsNumRe.FindStringSubmatch(badge); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return nil
		}
		if m[3] != "" {
			year, _ := strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
			return endOfDay(year, time.Month(month), day)
		}
		return rolled(time.Month(month), day, now)
	}

	if m := endsDMRe.FindStringSubmatch(badge); m != nil {
		day, _ := strconv.Atoi(m[1])
		if month, ok := monthByName(m[2]); ok && day >= 1 && day <= 31 {
			return rolled(month, day, now)
		}
		return nil
	}

	if m := endsMDRe.FindStringSubmatch(badge); m != nil {
		day, _ := strconv.Atoi(m[2])
		if month, ok := monthByName(m[1]); ok && day >= 1 && day <= 31 {
			return rolled(month, day, now)
		}
		return nil
	}

	return nil
}

func rolled(month time.Month, day int, now time.Time) *time.Time {
	t := endOfDay(now.Year(), month, day)
	if t.Before(now.Add(-rollGrace)) {
		t = endOfDay(now.Year()+1, month, day)
	}
	return t
}

func endOfDay(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 23, 59, 59, 0, time.Local)
	return &t
}

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

func monthByName(name string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(name)]
	return m, ok
}
