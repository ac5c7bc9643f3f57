package decoder

import (
	qrcore "github.com/ericlevine/qrcore"
	"github.com/ericlevine/qrcore/bitutil"
)

// DataMask is one of the eight XOR patterns a QR encoder applies to the data
// region. Applying the same mask twice restores the original modules.
type DataMask int

// DataMaskForReference returns the mask for a 3-bit reference.
func DataMaskForReference(reference int) (DataMask, error) {
	if reference < 0 || reference > 7 {
		return 0, &qrcore.Error{Kind: qrcore.KindFormatDecode, Op: "DataMaskForReference", Bits: []int{reference}}
	}
	return DataMask(reference), nil
}

// IsMasked reports whether the module at row i, column j is flipped.
func (m DataMask) IsMasked(i, j int) bool {
	switch m {
	case 0:
		return (i+j)&0x01 == 0
	case 1:
		return i&0x01 == 0
	case 2:
		return j%3 == 0
	case 3:
		return (i+j)%3 == 0
	case 4:
		return ((i/2)+(j/3))&0x01 == 0
	case 5:
		return (i*j)%6 == 0
	case 6:
		return (i*j)%6 < 3
	case 7:
		return (i+j+(i*j)%3)&0x01 == 0
	}
	return false
}

// Unmask flips every masked module of the top-left dimension x dimension
// square in place. Function patterns are flipped too; readers skip them.
func (m DataMask) Unmask(bits *bitutil.BitMatrix, dimension int) {
	for i := 0; i < dimension; i++ {
		for j := 0; j < dimension; j++ {
			if m.IsMasked(i, j) {
				bits.Flip(j, i)
			}
		}
	}
}
