package decoder

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rsc.io/qr/coding"

	qrcore "github.com/ericlevine/qrcore"
	"github.com/ericlevine/qrcore/bitutil"
)

// encodedSymbol encodes text with an independent encoder and returns the
// module grid together with the data codewords it carries.
func encodedSymbol(t *testing.T, text string, version int, level coding.Level, mask int) (*bitutil.BitMatrix, []byte) {
	t.Helper()
	v := coding.Version(version)
	plan, err := coding.NewPlan(v, level, coding.Mask(mask))
	require.NoError(t, err)
	code, err := plan.Encode(coding.String(text))
	require.NoError(t, err)

	bm := bitutil.NewBitMatrix(code.Size)
	for y := 0; y < code.Size; y++ {
		for x := 0; x < code.Size; x++ {
			if code.Black(x, y) {
				bm.Set(x, y)
			}
		}
	}

	var b coding.Bits
	coding.String(text).Encode(&b, v)
	b.AddCheckBytes(v, level)
	return bm, b.Bytes()[:v.DataBytes(level)]
}

func TestDecodeEncodedSymbols(t *testing.T) {
	long := strings.Repeat("sampled grids ", 4)
	for _, tc := range []struct {
		text    string
		version int
		level   coding.Level
		mask    int
	}{
		{"hello", 1, coding.L, 0},
		{"qrcore", 1, coding.H, 7},
		{"reading codewords", 2, coding.M, 3},
		{"five blocks", 5, coding.Q, 4},
		{long, 7, coding.Q, 5},
		{long, 10, coding.H, 6},
		{long, 14, coding.M, 1},
	} {
		bm, want := encodedSymbol(t, tc.text, tc.version, tc.level, tc.mask)
		sampled := bm.Clone()

		result, err := NewDecoder(nil).Decode(bm)
		require.NoError(t, err, "version %d %s mask %d", tc.version, tc.level, tc.mask)
		assert.Equal(t, want, result.DataCodewords, "version %d", tc.version)
		assert.Equal(t, tc.version, result.Version)
		assert.Equal(t, tc.level.String(), result.ECLevel)
		assert.Equal(t, tc.mask, result.DataMask)
		assert.Equal(t, 0, result.ErrorsCorrected)
		assert.Equal(t, 8*len(want), result.NumBits)

		v, _ := VersionForNumber(tc.version)
		assert.Len(t, result.RawCodewords, v.TotalCodewords)
		assert.True(t, sampled.Equals(bm), "matrix restored after decode")
	}
}

func TestDecodeCorrectsDamagedCodeword(t *testing.T) {
	bm, want := encodedSymbol(t, "reading codewords", 2, coding.M, 2)
	// The bottom-right corner holds the first codeword.
	bm.Flip(24, 24)
	bm.Flip(23, 24)
	bm.Flip(24, 23)

	result, err := NewDecoder(nil).Decode(bm)
	require.NoError(t, err)
	assert.Equal(t, want, result.DataCodewords)
	assert.Equal(t, 1, result.ErrorsCorrected)
}

func TestDecodeUncorrectable(t *testing.T) {
	bm, _ := encodedSymbol(t, "reading codewords", 2, coding.M, 2)
	for y := 9; y < 16; y++ {
		for x := 9; x < 25; x++ {
			bm.Flip(x, y)
		}
	}
	_, err := NewDecoder(nil).Decode(bm)
	assert.ErrorIs(t, err, qrcore.ErrChecksum)
}

func TestDecodeRejectsBadMatrix(t *testing.T) {
	_, err := NewDecoder(nil).Decode(bitutil.NewBitMatrix(22))
	assert.ErrorIs(t, err, qrcore.ErrStructural)

	bm, _ := encodedSymbol(t, "hello", 1, coding.L, 0)
	writeFormat(bm, farFormatWord, farFormatWord)
	_, err = NewDecoder(nil).Decode(bm)
	assert.ErrorIs(t, err, qrcore.ErrFormatDecode)
}

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestDecodeEncodedSymbolFromSecondFormatCopy(t *testing.T) {
	for _, tc := range []struct {
		version int
		level   coding.Level
		mask    int
	}{
		{1, coding.H, 3},
		{2, coding.Q, 5},
		{7, coding.L, 6},
	} {
		bm, want := encodedSymbol(t, "qrcore", tc.version, tc.level, tc.mask)
		topLeft, _ := formatInfoPositions(bm.Height())
		writeWord(bm, topLeft[:], farFormatWord)

		var buf bytes.Buffer
		result, err := NewDecoder(debugLogger(&buf)).Decode(bm)
		require.NoError(t, err, "version %d %s", tc.version, tc.level)
		assert.Equal(t, want, result.DataCodewords)
		assert.Equal(t, tc.level.String(), result.ECLevel)
		assert.Equal(t, tc.mask, result.DataMask)
		assert.Contains(t, buf.String(), "format information read from second copy")
	}
}

func TestDecodeEncodedSymbolFromBottomLeftVersion(t *testing.T) {
	long := strings.Repeat("bottom-left block ", 3)
	for _, tc := range []struct {
		version int
		level   coding.Level
	}{
		{7, coding.M},
		{10, coding.Q},
		{20, coding.L},
	} {
		bm, want := encodedSymbol(t, long, tc.version, tc.level, 2)
		topRight, _ := versionInfoPositions(bm.Height())
		writeWord(bm, topRight[:], 0)

		var buf bytes.Buffer
		result, err := NewDecoder(debugLogger(&buf)).Decode(bm)
		require.NoError(t, err, "version %d", tc.version)
		assert.Equal(t, want, result.DataCodewords)
		assert.Equal(t, tc.version, result.Version)
		assert.Contains(t, buf.String(), "version read from bottom-left block")
	}
}
