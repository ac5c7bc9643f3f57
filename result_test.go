package qrcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderBestPatterns(t *testing.T) {
	topLeft := ResultPoint{X: 10, Y: 10}
	topRight := ResultPoint{X: 90, Y: 12}
	bottomLeft := ResultPoint{X: 8, Y: 88}
	want := [3]ResultPoint{bottomLeft, topLeft, topRight}

	perms := [][3]ResultPoint{
		{topLeft, topRight, bottomLeft},
		{topLeft, bottomLeft, topRight},
		{topRight, topLeft, bottomLeft},
		{topRight, bottomLeft, topLeft},
		{bottomLeft, topLeft, topRight},
		{bottomLeft, topRight, topLeft},
	}
	for _, p := range perms {
		assert.Equal(t, want, OrderBestPatterns(p), "input %v", p)
	}
}

func TestNewDetection(t *testing.T) {
	alignment := ResultPoint{X: 80, Y: 80}
	d := NewDetection([3]ResultPoint{{X: 90, Y: 10}, {X: 10, Y: 90}, {X: 10, Y: 10}}, &alignment, 25)
	assert.Equal(t, ResultPoint{X: 10, Y: 10}, d.TopLeft)
	assert.Equal(t, ResultPoint{X: 90, Y: 10}, d.TopRight)
	assert.Equal(t, ResultPoint{X: 10, Y: 90}, d.BottomLeft)
	assert.Len(t, d.Points(), 4)

	d.Alignment = nil
	assert.Len(t, d.Points(), 3)
}

func TestSymbolDimension(t *testing.T) {
	for estimate, want := range map[int]int{21: 21, 20: 21, 22: 21, 24: 25, 25: 25, 177: 177, 176: 177} {
		got, err := Detection{Dimension: estimate}.SymbolDimension()
		require.NoError(t, err, "estimate %d", estimate)
		assert.Equal(t, want, got, "estimate %d", estimate)
	}
	for _, estimate := range []int{23, 27, 16, 181, 0} {
		_, err := Detection{Dimension: estimate}.SymbolDimension()
		assert.ErrorIs(t, err, ErrStructural, "estimate %d", estimate)
	}
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(ResultPoint{X: 1, Y: 1}, ResultPoint{X: 4, Y: 5}), 1e-12)
}
