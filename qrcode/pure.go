package qrcode

import (
	"math"

	qrcore "github.com/ericlevine/qrcore"
	"github.com/ericlevine/qrcore/bitutil"
)

func notPure(op string) error {
	return &qrcore.Error{Kind: qrcore.KindStructural, Op: op}
}

// PureDetection describes a "pure" image: one holding a single unrotated,
// unskewed symbol on a white border and nothing else, such as a rendered
// code. The finder centers follow from the symbol's bounding box and module
// size, so no pattern search is needed.
func PureDetection(image *bitutil.BitMatrix) (qrcore.Detection, error) {
	left, top, ok := image.TopLeftOnBit()
	if !ok {
		return qrcore.Detection{}, notPure("PureDetection")
	}
	right, bottom, ok := image.BottomRightOnBit()
	if !ok || left >= right || top >= bottom {
		return qrcore.Detection{}, notPure("PureDetection")
	}

	moduleSize, err := moduleSizePure(image, left, top)
	if err != nil {
		return qrcore.Detection{}, err
	}

	// The top-left on bit is the finder corner, but the bottom-right on bit
	// need not be the symbol's corner; the symbol is square.
	if bottom-top != right-left {
		right = left + (bottom - top)
		if right >= image.Width() {
			return qrcore.Detection{}, notPure("PureDetection")
		}
	}

	size := float64(right - left + 1)
	dimension := int(math.Round(size / moduleSize))
	if dimension < 21 {
		return qrcore.Detection{}, &qrcore.Error{Kind: qrcore.KindStructural, Op: "PureDetection", Dimension: dimension}
	}
	// Re-derive the module size from the whole symbol for sub-pixel accuracy.
	moduleSize = size / float64(dimension)
	inset := 3.5 * moduleSize
	x0, y0 := float64(left), float64(top)
	x1, y1 := float64(right+1), float64(top)+size

	return qrcore.NewDetection([3]qrcore.ResultPoint{
		{X: x0 + inset, Y: y0 + inset},
		{X: x1 - inset, Y: y0 + inset},
		{X: x0 + inset, Y: y1 - inset},
	}, nil, dimension), nil
}

// moduleSizePure walks the diagonal from the top-left on bit through the
// finder pattern; its 1:1:3:1:1 rings span seven modules.
func moduleSizePure(image *bitutil.BitMatrix, left, top int) (float64, error) {
	height := image.Height()
	width := image.Width()
	x, y := left, top
	inBlack := true
	transitions := 0
	for x < width && y < height {
		if inBlack != image.Get(x, y) {
			transitions++
			if transitions == 5 {
				break
			}
			inBlack = !inBlack
		}
		x++
		y++
	}
	if x == width || y == height {
		return 0, notPure("moduleSizePure")
	}
	return float64(x-left) / 7.0, nil
}
