package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Volume is the pack structure parsed out of a product name. Fields
// stay nil when the name carries no signal; nothing is guessed.
type Volume struct {
	PackCount *int
	UnitML    *int
	TotalML   *int
}

// Plausibility bounds; anything outside is treated as no signal
const (
	minUnitML = 10
	maxUnitML = 60000
	maxPack   = 60
)

var (
	packVolumeRe = regexp.MustCompile(`(?i)\b(\d{1,3})\s*[x×]\s*(\d+(?:\.\d+)?)\s*(ml|cl|litres?|liters?|ltr|l)\b`)
	volumeRe     = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(ml|cl|litres?|liters?|ltr|l)\b`)
	packRe       = regexp.MustCompile(`(?i)\b(\d{1,3})\s*-?\s*(?:pack|pk)\b`)
)

// ParseVolume extracts pack count, unit volume and total volume from a
// product name. Recognized forms include "12x330ml", "12 x 330mL",
// "700ml", "1.125L", "6 pack 330ml" and "330ml 15 pack". A lone volume
// token implies a pack of one; a pack token without a volume yields
// only the pack count.
func ParseVolume(name string) Volume {
	var v Volume

	if m := packVolumeRe.FindStringSubmatch(name); m != nil {
		pack, _ := strconv.Atoi(m[1])
		unit := toMilliliters(m[2], m[3])
		if validPack(pack) && validUnit(unit) {
			total := pack * unit
			v.PackCount, v.UnitML, v.TotalML = &pack, &unit, &total
		}
		return v
	}

	unit := 0
	if m := volumeRe.FindStringSubmatch(name); m != nil {
		unit = toMilliliters(m[1], m[2])
	}
	pack := 0
	if m := packRe.FindStringSubmatch(name); m != nil {
		pack, _ = strconv.Atoi(m[1])
	}

	switch {
	case validUnit(unit) && validPack(pack):
		total := pack * unit
		v.PackCount, v.UnitML, v.TotalML = &pack, &unit, &total
	case validUnit(unit):
		one := 1
		v.PackCount, v.UnitML, v.TotalML = &one, &unit, &unit
	case validPack(pack):
		v.PackCount = &pack
	}

	return v
}

func toMilliliters(value, unit string) int {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(unit) {
	case "ml":
		return int(math.Round(f))
	case "cl":
		return int(math.Round(f * 10))
	default: // l, ltr, litre(s), liter(s)
		return int(math.Round(f * 1000))
	}
}

func validUnit(unit int) bool {
	return unit >= minUnitML && unit <= maxUnitML
}

func validPack(pack int) bool {
	return pack >= 1 && pack <= maxPack
}
