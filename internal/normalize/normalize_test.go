package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanName(t *testing.T) {
	testCases := []struct {
		input  string
		expect string
	}{
		{"  Asahi   Super Dry  ", "Asahi Super Dry"},
		{"Steinlager Classic () 330ml", "Steinlager Classic 330ml"},
		{"Tui Bottles [] - ", "Tui Bottles"},
		{"Corona Extra 355ml", "Corona Extra 355ml"},
		{"- Mac's Gold * ", "Mac's Gold"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expect, CleanName(tc.input), "clean of %q", tc.input)
	}
}

func TestCleanNameKeepsVolume(t *testing.T) {
	// Volume tokens feed the volume parser afterwards; cleaning must
	// not destroy them
	name := CleanName("  Asahi Super Dry  12x330ml   Cans ")
	assert.Equal(t, "Asahi Super Dry 12x330ml Cans", name)

	vol := ParseVolume(name)
	assert.NotNil(t, vol.TotalML)
	assert.Equal(t, 3960, *vol.TotalML)
}
