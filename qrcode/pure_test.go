package qrcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rsc.io/qr"

	qrcore "github.com/ericlevine/qrcore"
	"github.com/ericlevine/qrcore/bitutil"
)

func pureImage(t *testing.T, text string, level qr.Level, scale, border int) (*bitutil.BitMatrix, *qr.Code) {
	t.Helper()
	code, err := qr.Encode(text, level)
	require.NoError(t, err)
	size := code.Size*scale + 2*border
	image := bitutil.NewBitMatrix(size)
	for y := 0; y < code.Size; y++ {
		for x := 0; x < code.Size; x++ {
			if code.Black(x, y) {
				image.SetRegion(border+x*scale, border+y*scale, scale, scale)
			}
		}
	}
	return image, code
}

func TestPureDetection(t *testing.T) {
	for _, tc := range []struct {
		text  string
		level qr.Level
		scale int
	}{
		{"pure", qr.L, 4},
		{"https://example.com/a/somewhat/longer/path?with=query", qr.M, 3},
		{"0123456789012345678901234567890123456789", qr.H, 5},
	} {
		image, code := pureImage(t, tc.text, tc.level, tc.scale, 7)
		d, err := PureDetection(image)
		require.NoError(t, err, tc.text)
		assert.Equal(t, code.Size, d.Dimension)
		inset := 7 + 3.5*float64(tc.scale)
		assert.InDelta(t, inset, d.TopLeft.X, 1e-9)
		assert.InDelta(t, inset, d.TopLeft.Y, 1e-9)

		result, err := NewReader(nil).Decode(image, d)
		require.NoError(t, err, tc.text)
		assert.Equal(t, code.Size, 17+4*result.Version)
	}
}

func TestPureDetectionRejectsEmptyImage(t *testing.T) {
	_, err := PureDetection(bitutil.NewBitMatrix(50))
	assert.ErrorIs(t, err, qrcore.ErrStructural)
}
