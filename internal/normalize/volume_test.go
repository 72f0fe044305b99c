package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVolume(t *testing.T) {
	testCases := []struct {
		name       string
		expectPack int
		expectUnit int
		// 0 means the field should be nil
	}{
		{"Asahi Super Dry 12x330ml Cans", 12, 330},
		{"Tui 12 x 330mL Bottles", 12, 330},
		{"Steinlager Classic 330ml", 1, 330},
		{"Absolut Vodka 1L", 1, 1000},
		{"Coruba Original Rum 1.125L", 1, 1125},
		{"Glenfiddich 12YO 70cl", 1, 700},
		{"Emerson's Pilsner 6 pack 330ml bottles", 6, 330},
		{"Speight's Gold Medal Ale 330ml 15 pack", 15, 330},
		{"Heineken 12 Pack", 12, 0},
		{"Somersby Apple Cider 10pk", 10, 0},
		{"Old Mout Berry Cider", 0, 0},
		{"Mystery Box", 0, 0},
	}

	for _, tc := range testCases {
		vol := ParseVolume(tc.name)

		if tc.expectPack == 0 {
			assert.Nil(t, vol.PackCount, "pack should be nil for: "+tc.name)
		} else {
			if assert.NotNil(t, vol.PackCount, "pack should be set for: "+tc.name) {
				assert.Equal(t, tc.expectPack, *vol.PackCount, "pack for: "+tc.name)
			}
		}

		if tc.expectUnit == 0 {
			assert.Nil(t, vol.UnitML, "unit should be nil for: "+tc.name)
			assert.Nil(t, vol.TotalML, "total should be nil for: "+tc.name)
		} else {
			if assert.NotNil(t, vol.UnitML, "unit should be set for: "+tc.name) {
				assert.Equal(t, tc.expectUnit, *vol.UnitML, "unit for: "+tc.name)
			}
			if assert.NotNil(t, vol.TotalML, "total should be set for: "+tc.name) {
				assert.Equal(t, tc.expectPack*tc.expectUnit, *vol.TotalML, "total for: "+tc.name)
			}
		}
	}
}

func TestParseVolumeTotal(t *testing.T) {
	// The documented example: 12x330ml must come out as 3960ml total
	vol := ParseVolume("Asahi Super Dry 12x330ml Cans")
	assert.NotNil(t, vol.TotalML)
	assert.Equal(t, 3960, *vol.TotalML)
}

func TestParseVolumeNeverGuesses(t *testing.T) {
	// Out-of-range values are treated as no signal, not clamped
	testCases := []string{
		"Novelty 999x10ml sampler",
		"Tanker 90000L",
		"Shot 5ml miniature",
	}

	for _, name := range testCases {
		vol := ParseVolume(name)
		assert.Nil(t, vol.UnitML, "unit should be nil for: "+name)
		assert.Nil(t, vol.TotalML, "total should be nil for: "+name)
	}
}
