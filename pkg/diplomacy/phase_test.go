package diplomacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhase(t *testing.T) {
	p, err := ParsePhase("S1901M")
	require.NoError(t, err)
	assert.Equal(t, byte('S'), p.Season)
	assert.Equal(t, 1901, p.Year)
	assert.Equal(t, byte('M'), p.Type)

	p, err = ParsePhase("W1905A")
	require.NoError(t, err)
	assert.Equal(t, byte('W'), p.Season)
	assert.Equal(t, 1905, p.Year)
	assert.Equal(t, byte('A'), p.Type)
}

func TestParsePhaseRejectsMalformedLabels(t *testing.T) {
	for _, label := range []string{"", "COMPLETED", "X1901M", "S190M", "S1901X", "s1901m", "S1901MM"} {
		_, err := ParsePhase(label)
		assert.Error(t, err, "label %q", label)
	}
}

func TestFractionalYear(t *testing.T) {
	assert.InDelta(t, 1901.3, FractionalYear("S1901M"), 1e-9)
	assert.InDelta(t, 1901.6, FractionalYear("F1901M"), 1e-9)
	assert.InDelta(t, 1901.9, FractionalYear("W1901A"), 1e-9)
	assert.InDelta(t, 1910.3, FractionalYear("S1910R"), 1e-9)
	assert.Equal(t, 0.0, FractionalYear("COMPLETED"))
}

func TestGameYear(t *testing.T) {
	assert.Equal(t, 1901, GameYear("F1901M"))
	assert.Equal(t, 1912, GameYear("W1912A"))
	assert.Equal(t, 0, GameYear("bogus"))
}
