package decoder

import (
	"fmt"
	"math/bits"
)

// formatInfoMaskQR is XORed onto the 15-bit format word before it is placed
// in the symbol.
const formatInfoMaskQR = 0x5412

// maxFormatInfoBitErrors is the most bit errors a 15-bit format word may
// carry and still be accepted.
const maxFormatInfoBitErrors = 3

// FormatInformation encapsulates a QR code's format info (EC level + data mask).
type FormatInformation struct {
	ECLevel  ErrorCorrectionLevel
	DataMask DataMask
}

func (fi *FormatInformation) String() string {
	return fmt.Sprintf("%s/mask%d", fi.ECLevel, fi.DataMask)
}

// formatInfoDecodeLookup pairs every valid masked format word with the five
// data bits it carries.
var formatInfoDecodeLookup = [32][2]int{
	{0x5412, 0x00}, {0x5125, 0x01}, {0x5E7C, 0x02}, {0x5B4B, 0x03},
	{0x45F9, 0x04}, {0x40CE, 0x05}, {0x4F97, 0x06}, {0x4AA0, 0x07},
	{0x77C4, 0x08}, {0x72F3, 0x09}, {0x7DAA, 0x0A}, {0x789D, 0x0B},
	{0x662F, 0x0C}, {0x6318, 0x0D}, {0x6C41, 0x0E}, {0x6976, 0x0F},
	{0x1689, 0x10}, {0x13BE, 0x11}, {0x1CE7, 0x12}, {0x19D0, 0x13},
	{0x0762, 0x14}, {0x0255, 0x15}, {0x0D0C, 0x16}, {0x083B, 0x17},
	{0x355F, 0x18}, {0x3068, 0x19}, {0x3F31, 0x1A}, {0x3A06, 0x1B},
	{0x24B4, 0x1C}, {0x2183, 0x1D}, {0x2EDA, 0x1E}, {0x2BED, 0x1F},
}

func newFormatInformation(formatInfo int) *FormatInformation {
	// Two bits can only produce a valid level.
	ecLevel, _ := ECLevelForBits((formatInfo >> 3) & 0x03)
	return &FormatInformation{
		ECLevel:  ecLevel,
		DataMask: DataMask(formatInfo & 0x07),
	}
}

// DecodeFormatInformation decodes one 15-bit format word read from a symbol,
// tolerating up to three bit errors. Some encoders forget the 0x5412 mask, so
// the word is also tried unmasked. It returns nil when no entry is close
// enough.
func DecodeFormatInformation(maskedFormatInfo int) *FormatInformation {
	if fi := decodeFormatWord(maskedFormatInfo); fi != nil {
		return fi
	}
	return decodeFormatWord(maskedFormatInfo ^ formatInfoMaskQR)
}

func decodeFormatWord(word int) *FormatInformation {
	bestDifference := 32
	bestFormatInfo := 0
	for _, entry := range formatInfoDecodeLookup {
		target := entry[0]
		if target == word {
			return newFormatInformation(entry[1])
		}
		if diff := bits.OnesCount(uint(word ^ target)); diff < bestDifference {
			bestFormatInfo = entry[1]
			bestDifference = diff
		}
	}
	if bestDifference <= maxFormatInfoBitErrors {
		return newFormatInformation(bestFormatInfo)
	}
	return nil
}

// encodeFormatInformation returns the masked 15-bit word for a level and mask.
func encodeFormatInformation(ecLevel ErrorCorrectionLevel, mask DataMask) int {
	data := ecLevel.Bits()<<3 | int(mask)
	for _, entry := range formatInfoDecodeLookup {
		if entry[1] == data {
			return entry[0]
		}
	}
	return -1
}

// modulePosition is an (x, y) module coordinate; x is the column.
type modulePosition struct {
	x, y int
}

// formatInfoPositions lists, most significant bit first, where the two
// copies of the format word sit in a symbol of the given dimension. The
// first copy wraps around the top-left finder and skips the timing modules
// in row and column 6. The second is split between the bottom-left column
// and the top-right row.
func formatInfoPositions(dimension int) (topLeft, split [15]modulePosition) {
	n := 0
	for x := 0; x < 6; x++ {
		topLeft[n] = modulePosition{x, 8}
		n++
	}
	topLeft[n] = modulePosition{7, 8}
	topLeft[n+1] = modulePosition{8, 8}
	topLeft[n+2] = modulePosition{8, 7}
	n += 3
	for y := 5; y >= 0; y-- {
		topLeft[n] = modulePosition{8, y}
		n++
	}

	n = 0
	for y := dimension - 1; y >= dimension-7; y-- {
		split[n] = modulePosition{8, y}
		n++
	}
	for x := dimension - 8; x < dimension; x++ {
		split[n] = modulePosition{x, 8}
		n++
	}
	return topLeft, split
}
