// Package internal provides the result types passed between the sampling and
// decoding stages.
package internal

// DecoderResult encapsulates the result of decoding a matrix of bits.
type DecoderResult struct {
	// RawCodewords are the codewords in reading order, before
	// de-interleaving and correction.
	RawCodewords []byte
	// DataCodewords are the corrected data codewords of every block,
	// concatenated in block order.
	DataCodewords   []byte
	NumBits         int
	ECLevel         string
	Version         int
	DataMask        int
	ErrorsCorrected int
}

// NewDecoderResult creates a DecoderResult with the basic fields.
func NewDecoderResult(raw, data []byte, ecLevel string, version, dataMask int) *DecoderResult {
	return &DecoderResult{
		RawCodewords:  raw,
		DataCodewords: data,
		NumBits:       8 * len(data),
		ECLevel:       ecLevel,
		Version:       version,
		DataMask:      dataMask,
	}
}
