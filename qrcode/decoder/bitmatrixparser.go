package decoder

import (
	"log/slog"

	qrcore "github.com/ericlevine/qrcore"
	"github.com/ericlevine/qrcore/bitutil"
)

// BitMatrixParser reads the metadata and codewords of one sampled symbol.
// It owns the matrix for the duration of a decode attempt: ReadCodewords
// unmasks it in place and Remask restores it. A parser is not safe for
// concurrent use.
type BitMatrixParser struct {
	bitMatrix        *bitutil.BitMatrix
	parsedVersion    *Version
	parsedFormatInfo *FormatInformation
	unmasked         bool
	logger           *slog.Logger
}

// NewBitMatrixParser creates a new parser for a square symbol grid whose
// dimension is a legal QR size.
func NewBitMatrixParser(bitMatrix *bitutil.BitMatrix) (*BitMatrixParser, error) {
	dimension := bitMatrix.Height()
	if bitMatrix.Width() != dimension {
		return nil, &qrcore.Error{Kind: qrcore.KindStructural, Op: "NewBitMatrixParser",
			Dimension: dimension, Want: dimension, Got: bitMatrix.Width()}
	}
	if dimension < 21 || (dimension&0x03) != 1 {
		return nil, &qrcore.Error{Kind: qrcore.KindStructural, Op: "NewBitMatrixParser", Dimension: dimension}
	}
	return &BitMatrixParser{bitMatrix: bitMatrix, logger: slog.Default()}, nil
}

// SetLogger sets the logger for metadata fallback records. A nil logger
// selects slog.Default().
func (p *BitMatrixParser) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	p.logger = logger
}

// Dimension returns the number of modules per side.
func (p *BitMatrixParser) Dimension() int {
	return p.bitMatrix.Height()
}

// readBit shifts acc left and ORs in the module at column i, row j.
func (p *BitMatrixParser) readBit(i, j, acc int) int {
	if p.bitMatrix.Get(i, j) {
		return (acc << 1) | 0x1
	}
	return acc << 1
}

func (p *BitMatrixParser) readPositions(positions []modulePosition) int {
	acc := 0
	for _, pos := range positions {
		acc = p.readBit(pos.x, pos.y, acc)
	}
	return acc
}

// ReadFormatInformation reads the format word from the copy around the
// top-left finder and, only if that copy does not decode, from the copy split
// between the other two finders.
func (p *BitMatrixParser) ReadFormatInformation() (*FormatInformation, error) {
	if p.parsedFormatInfo != nil {
		return p.parsedFormatInfo, nil
	}

	topLeft, split := formatInfoPositions(p.Dimension())
	first := p.readPositions(topLeft[:])
	if fi := DecodeFormatInformation(first); fi != nil {
		p.parsedFormatInfo = fi
		return fi, nil
	}

	second := p.readPositions(split[:])
	if fi := DecodeFormatInformation(second); fi != nil {
		p.logger.Debug("format information read from second copy",
			"first", first, "second", second, "format", fi.String())
		p.parsedFormatInfo = fi
		return fi, nil
	}
	return nil, &qrcore.Error{Kind: qrcore.KindFormatDecode, Op: "ReadFormatInformation",
		Dimension: p.Dimension(), Bits: []int{first, second}}
}

// ReadVersion determines the symbol version. Versions 1 to 6 carry no
// version word and follow from the dimension. Larger symbols are read from
// the 3x6 block beside the top-right finder and then, if that does not
// decode to a version of this dimension, from the 6x3 block above the
// bottom-left finder.
func (p *BitMatrixParser) ReadVersion() (*Version, error) {
	if p.parsedVersion != nil {
		return p.parsedVersion, nil
	}

	dimension := p.Dimension()
	provisionalVersion := (dimension - 17) / 4
	if provisionalVersion <= 6 {
		version, err := VersionForNumber(provisionalVersion)
		if err != nil {
			return nil, err
		}
		p.parsedVersion = version
		return version, nil
	}

	topRightPositions, bottomLeftPositions := versionInfoPositions(dimension)
	topRight := p.readPositions(topRightPositions[:])
	if version := DecodeVersionInformation(topRight); version != nil && version.DimensionForVersion() == dimension {
		p.parsedVersion = version
		return version, nil
	}

	bottomLeft := p.readPositions(bottomLeftPositions[:])
	if version := DecodeVersionInformation(bottomLeft); version != nil && version.DimensionForVersion() == dimension {
		p.logger.Debug("version read from bottom-left block",
			"topRight", topRight, "bottomLeft", bottomLeft, "version", version.Number)
		p.parsedVersion = version
		return version, nil
	}
	return nil, &qrcore.Error{Kind: qrcore.KindVersionDecode, Op: "ReadVersion",
		Dimension: dimension, Bits: []int{topRight, bottomLeft}}
}

// ReadCodewords removes the data mask and reads every codeword in the
// symbol's reading order: two-module-wide columns from right to left,
// stepping over the vertical timing column, alternately upwards and
// downwards, skipping function pattern modules. It returns exactly
// TotalCodewords bytes or an error.
func (p *BitMatrixParser) ReadCodewords() ([]byte, error) {
	formatInfo, err := p.ReadFormatInformation()
	if err != nil {
		return nil, err
	}
	version, err := p.ReadVersion()
	if err != nil {
		return nil, err
	}

	dimension := p.Dimension()
	if !p.unmasked {
		formatInfo.DataMask.Unmask(p.bitMatrix, dimension)
		p.unmasked = true
	}

	functionPattern := version.BuildFunctionPattern()

	readingUp := true
	result := make([]byte, version.TotalCodewords)
	resultOffset := 0
	currentByte := 0
	bitsRead := 0

	for j := dimension - 1; j > 0; j -= 2 {
		if j == 6 {
			j--
		}
		for count := 0; count < dimension; count++ {
			i := count
			if readingUp {
				i = dimension - 1 - count
			}
			for col := 0; col < 2; col++ {
				if functionPattern.Get(j-col, i) {
					continue
				}
				bitsRead++
				currentByte <<= 1
				if p.bitMatrix.Get(j-col, i) {
					currentByte |= 1
				}
				if bitsRead == 8 {
					if resultOffset < len(result) {
						result[resultOffset] = byte(currentByte)
					}
					resultOffset++
					bitsRead = 0
					currentByte = 0
				}
			}
		}
		readingUp = !readingUp
	}

	if resultOffset != version.TotalCodewords {
		return nil, &qrcore.Error{Kind: qrcore.KindCodewordCount, Op: "ReadCodewords",
			Dimension: dimension, Want: version.TotalCodewords, Got: resultOffset}
	}
	return result, nil
}

// Remask re-applies the data mask removed by ReadCodewords, restoring the
// matrix as sampled.
func (p *BitMatrixParser) Remask() {
	if !p.unmasked {
		return
	}
	p.parsedFormatInfo.DataMask.Unmask(p.bitMatrix, p.Dimension())
	p.unmasked = false
}
