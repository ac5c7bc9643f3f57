package decoder

import qrcore "github.com/ericlevine/qrcore"

// DataBlock is one Reed-Solomon block: its data codewords followed by its
// error correction codewords.
type DataBlock struct {
	NumDataCodewords int
	Codewords        []byte
}

// GetDataBlocks undoes the interleaving of rawCodewords. Data codewords are
// interleaved across blocks first, with the extra codeword of the longer
// blocks last, then the EC codewords.
func GetDataBlocks(rawCodewords []byte, version *Version, ecLevel ErrorCorrectionLevel) ([]DataBlock, error) {
	if len(rawCodewords) != version.TotalCodewords {
		return nil, &qrcore.Error{Kind: qrcore.KindCodewordCount, Op: "GetDataBlocks",
			Dimension: version.DimensionForVersion(), Want: version.TotalCodewords, Got: len(rawCodewords)}
	}
	ecBlocks := version.ECBlocksForLevel(ecLevel)

	result := make([]DataBlock, 0, ecBlocks.NumBlocks())
	for _, block := range ecBlocks.Blocks {
		for i := 0; i < block.Count; i++ {
			result = append(result, DataBlock{
				NumDataCodewords: block.DataCodewords,
				Codewords:        make([]byte, ecBlocks.ECCodewordsPerBlock+block.DataCodewords),
			})
		}
	}
	numResultBlocks := len(result)

	// Blocks are listed shortest first; at most two lengths occur.
	shorterBlocksTotalCodewords := len(result[0].Codewords)
	longerBlocksStartAt := numResultBlocks
	for longerBlocksStartAt > 0 && len(result[longerBlocksStartAt-1].Codewords) != shorterBlocksTotalCodewords {
		longerBlocksStartAt--
	}
	shorterBlocksNumDataCodewords := shorterBlocksTotalCodewords - ecBlocks.ECCodewordsPerBlock

	offset := 0
	for i := 0; i < shorterBlocksNumDataCodewords; i++ {
		for j := 0; j < numResultBlocks; j++ {
			result[j].Codewords[i] = rawCodewords[offset]
			offset++
		}
	}
	for j := longerBlocksStartAt; j < numResultBlocks; j++ {
		result[j].Codewords[shorterBlocksNumDataCodewords] = rawCodewords[offset]
		offset++
	}
	for i := shorterBlocksNumDataCodewords; i < shorterBlocksTotalCodewords; i++ {
		for j := 0; j < numResultBlocks; j++ {
			iOffset := i
			if j >= longerBlocksStartAt {
				iOffset++
			}
			result[j].Codewords[iOffset] = rawCodewords[offset]
			offset++
		}
	}
	return result, nil
}
