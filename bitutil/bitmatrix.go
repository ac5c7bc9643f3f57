// Package bitutil provides the packed bit grid shared by the sampler and the
// symbol parser.
package bitutil

import (
	"errors"
	"math/bits"
	"strings"
)

var errRowLength = errors.New("bitutil: row lengths do not match")

// BitMatrix represents a 2D matrix of bits.
// x is the column position, y is the row position. The origin is at the top-left.
// The same type holds both a two-tone source image and a sampled symbol grid.
type BitMatrix struct {
	width   int
	height  int
	rowSize int
	data    []uint32
}

// NewBitMatrix creates a new square BitMatrix with the given dimension.
func NewBitMatrix(dimension int) *BitMatrix {
	return NewBitMatrixWithSize(dimension, dimension)
}

// NewBitMatrixWithSize creates a new BitMatrix with the given width and height.
func NewBitMatrixWithSize(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitmatrix: dimensions must be greater than 0")
	}
	rowSize := (width + 31) / 32
	return &BitMatrix{
		width:   width,
		height:  height,
		rowSize: rowSize,
		data:    make([]uint32, rowSize*height),
	}
}

// ParseBoolMatrix creates a BitMatrix from rows of booleans.
func ParseBoolMatrix(image [][]bool) (*BitMatrix, error) {
	if len(image) == 0 || len(image[0]) == 0 {
		return nil, errRowLength
	}
	height := len(image)
	width := len(image[0])
	bm := NewBitMatrixWithSize(width, height)
	for y, row := range image {
		if len(row) != width {
			return nil, errRowLength
		}
		for x, on := range row {
			if on {
				bm.Set(x, y)
			}
		}
	}
	return bm, nil
}

// ParseStringMatrix creates a BitMatrix from a string representation in which
// setStr marks an on module and unsetStr an off one, one row per line.
func ParseStringMatrix(repr, setStr, unsetStr string) (*BitMatrix, error) {
	var rows [][]bool
	for _, line := range strings.Split(strings.ReplaceAll(repr, "\r", ""), "\n") {
		if line == "" {
			continue
		}
		var row []bool
		for pos := 0; pos < len(line); {
			switch {
			case strings.HasPrefix(line[pos:], setStr):
				row = append(row, true)
				pos += len(setStr)
			case strings.HasPrefix(line[pos:], unsetStr):
				row = append(row, false)
				pos += len(unsetStr)
			default:
				return nil, errors.New("bitutil: illegal character encountered")
			}
		}
		rows = append(rows, row)
	}
	return ParseBoolMatrix(rows)
}

// Get returns true if the bit at (x, y) is set.
func (bm *BitMatrix) Get(x, y int) bool {
	offset := y*bm.rowSize + x/32
	return (bm.data[offset]>>uint(x&0x1f))&1 != 0
}

// Set sets the bit at (x, y).
func (bm *BitMatrix) Set(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] |= 1 << uint(x&0x1f)
}

// Unset clears the bit at (x, y).
func (bm *BitMatrix) Unset(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] &^= 1 << uint(x&0x1f)
}

// SetTo sets or clears the bit at (x, y).
func (bm *BitMatrix) SetTo(x, y int, on bool) {
	if on {
		bm.Set(x, y)
	} else {
		bm.Unset(x, y)
	}
}

// Flip flips the bit at (x, y).
func (bm *BitMatrix) Flip(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] ^= 1 << uint(x&0x1f)
}

// SetRegion sets a rectangular region of bits.
func (bm *BitMatrix) SetRegion(left, top, width, height int) {
	if top < 0 || left < 0 {
		panic("bitmatrix: left and top must be nonnegative")
	}
	if height < 1 || width < 1 {
		panic("bitmatrix: height and width must be at least 1")
	}
	right := left + width
	bottom := top + height
	if bottom > bm.height || right > bm.width {
		panic("bitmatrix: region must fit inside the matrix")
	}
	for y := top; y < bottom; y++ {
		offset := y * bm.rowSize
		for x := left; x < right; x++ {
			bm.data[offset+x/32] |= 1 << uint(x&0x1f)
		}
	}
}

// TopLeftOnBit returns the x, y of the first set bit in row-major order.
// ok is false when no bit is set.
func (bm *BitMatrix) TopLeftOnBit() (x, y int, ok bool) {
	offset := 0
	for offset < len(bm.data) && bm.data[offset] == 0 {
		offset++
	}
	if offset == len(bm.data) {
		return 0, 0, false
	}
	y = offset / bm.rowSize
	x = (offset%bm.rowSize)*32 + bits.TrailingZeros32(bm.data[offset])
	return x, y, true
}

// BottomRightOnBit returns the x, y of the last set bit in row-major order.
// ok is false when no bit is set.
func (bm *BitMatrix) BottomRightOnBit() (x, y int, ok bool) {
	offset := len(bm.data) - 1
	for offset >= 0 && bm.data[offset] == 0 {
		offset--
	}
	if offset < 0 {
		return 0, 0, false
	}
	y = offset / bm.rowSize
	x = (offset%bm.rowSize)*32 + 31 - bits.LeadingZeros32(bm.data[offset])
	return x, y, true
}

// Width returns the width.
func (bm *BitMatrix) Width() int { return bm.width }

// Height returns the height.
func (bm *BitMatrix) Height() int { return bm.height }

// Clone returns a deep copy of the BitMatrix.
func (bm *BitMatrix) Clone() *BitMatrix {
	d := make([]uint32, len(bm.data))
	copy(d, bm.data)
	return &BitMatrix{width: bm.width, height: bm.height, rowSize: bm.rowSize, data: d}
}

// String returns a string representation using "X " for set and "  " for unset.
func (bm *BitMatrix) String() string {
	return bm.StringWithChars("X ", "  ")
}

// StringWithChars returns a string representation using the given set/unset strings.
func (bm *BitMatrix) StringWithChars(setString, unsetString string) string {
	var sb strings.Builder
	sb.Grow(bm.height * (bm.width*len(setString) + 1))
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				sb.WriteString(setString)
			} else {
				sb.WriteString(unsetString)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Equals returns true if two BitMatrices are equal.
func (bm *BitMatrix) Equals(other *BitMatrix) bool {
	if bm.width != other.width || bm.height != other.height || bm.rowSize != other.rowSize {
		return false
	}
	for i := range bm.data {
		if bm.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
