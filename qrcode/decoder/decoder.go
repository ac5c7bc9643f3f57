package decoder

import (
	"log/slog"

	qrcore "github.com/ericlevine/qrcore"
	"github.com/ericlevine/qrcore/bitutil"
	"github.com/ericlevine/qrcore/internal"
	"github.com/ericlevine/qrcore/reedsolomon"
)

// Decoder turns a sampled symbol grid into its corrected data codewords.
// A Decoder holds no per-symbol state and may be shared between goroutines.
type Decoder struct {
	rsDecoder *reedsolomon.Decoder
	logger    *slog.Logger
}

// NewDecoder creates a new QR code Decoder. A nil logger selects
// slog.Default().
func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{
		rsDecoder: reedsolomon.NewDecoder(reedsolomon.QRCodeField256),
		logger:    logger,
	}
}

// Decode reads and corrects the codewords of bits. The matrix is unmasked
// while reading and restored before Decode returns.
func (d *Decoder) Decode(bits *bitutil.BitMatrix) (*internal.DecoderResult, error) {
	parser, err := NewBitMatrixParser(bits)
	if err != nil {
		return nil, err
	}
	parser.SetLogger(d.logger)
	defer parser.Remask()
	return d.decodeParser(parser)
}

func (d *Decoder) decodeParser(parser *BitMatrixParser) (*internal.DecoderResult, error) {
	formatInfo, err := parser.ReadFormatInformation()
	if err != nil {
		return nil, err
	}
	version, err := parser.ReadVersion()
	if err != nil {
		return nil, err
	}
	ecLevel := formatInfo.ECLevel

	codewords, err := parser.ReadCodewords()
	if err != nil {
		return nil, err
	}

	dataBlocks, err := GetDataBlocks(codewords, version, ecLevel)
	if err != nil {
		return nil, err
	}

	resultBytes := make([]byte, 0, version.ECBlocksForLevel(ecLevel).TotalDataCodewords())
	errorsCorrected := 0
	for i, db := range dataBlocks {
		corrected, err := d.correctErrors(db.Codewords, db.NumDataCodewords)
		if err != nil {
			d.logger.Debug("block not correctable", "block", i, "version", version.Number, "ecLevel", ecLevel.String())
			return nil, err
		}
		errorsCorrected += corrected
		resultBytes = append(resultBytes, db.Codewords[:db.NumDataCodewords]...)
	}

	result := internal.NewDecoderResult(codewords, resultBytes, ecLevel.String(), version.Number, int(formatInfo.DataMask))
	result.ErrorsCorrected = errorsCorrected
	return result, nil
}

// correctErrors corrects one block in place and returns how many codewords
// were repaired.
func (d *Decoder) correctErrors(codewordBytes []byte, numDataCodewords int) (int, error) {
	numCodewords := len(codewordBytes)
	codewordsInts := make([]int, numCodewords)
	for i, b := range codewordBytes {
		codewordsInts[i] = int(b)
	}
	corrected, err := d.rsDecoder.Decode(codewordsInts, numCodewords-numDataCodewords)
	if err != nil {
		if qrcore.KindOf(err) == qrcore.KindChecksum {
			return 0, err
		}
		return 0, &qrcore.Error{Kind: qrcore.KindChecksum, Op: "correctErrors", Err: err}
	}
	for i := 0; i < numDataCodewords; i++ {
		codewordBytes[i] = byte(codewordsInts[i])
	}
	return corrected, nil
}
