package transform

import (
	"math"

	qrcore "github.com/ericlevine/qrcore"
	"github.com/ericlevine/qrcore/bitutil"
)

// GridSampler samples an image to reconstruct a barcode, accounting for
// perspective distortion.
type GridSampler interface {
	SampleGridQuadrilateral(image *bitutil.BitMatrix, dimensionX, dimensionY int,
		p1ToX, p1ToY, p2ToX, p2ToY, p3ToX, p3ToY, p4ToX, p4ToY float64,
		p1FromX, p1FromY, p2FromX, p2FromY, p3FromX, p3FromY, p4FromX, p4FromY float64,
	) (*bitutil.BitMatrix, error)

	SampleGrid(image *bitutil.BitMatrix, dimensionX, dimensionY int,
		transform *PerspectiveTransform,
	) (*bitutil.BitMatrix, error)
}

// DefaultGridSampler is the standard GridSampler implementation. It has no
// state and may be shared.
type DefaultGridSampler struct{}

func geometryError(op string, x, y float64) error {
	return &qrcore.Error{Kind: qrcore.KindGeometry, Op: op, X: x, Y: y}
}

// SampleGridQuadrilateral builds the transform taking the "to" points (ideal
// grid space) onto the "from" points (image space) and samples through it.
func (s *DefaultGridSampler) SampleGridQuadrilateral(image *bitutil.BitMatrix, dimensionX, dimensionY int,
	p1ToX, p1ToY, p2ToX, p2ToY, p3ToX, p3ToY, p4ToX, p4ToY float64,
	p1FromX, p1FromY, p2FromX, p2FromY, p3FromX, p3FromY, p4FromX, p4FromY float64,
) (*bitutil.BitMatrix, error) {
	transform := QuadrilateralToQuadrilateral(
		p1ToX, p1ToY, p2ToX, p2ToY, p3ToX, p3ToY, p4ToX, p4ToY,
		p1FromX, p1FromY, p2FromX, p2FromY, p3FromX, p3FromY, p4FromX, p4FromY)
	return s.SampleGrid(image, dimensionX, dimensionY, transform)
}

// SampleGrid samples the center of every module of a dimensionX by
// dimensionY grid using a pre-computed transform.
func (s *DefaultGridSampler) SampleGrid(image *bitutil.BitMatrix, dimensionX, dimensionY int,
	transform *PerspectiveTransform,
) (*bitutil.BitMatrix, error) {
	if dimensionX <= 0 || dimensionY <= 0 {
		return nil, &qrcore.Error{Kind: qrcore.KindStructural, Op: "SampleGrid", Dimension: min(dimensionX, dimensionY)}
	}
	if !transform.IsFinite() {
		return nil, geometryError("SampleGrid", math.NaN(), math.NaN())
	}
	bits := bitutil.NewBitMatrixWithSize(dimensionX, dimensionY)
	points := make([]float64, 2*dimensionX)
	width := image.Width()
	height := image.Height()
	for y := 0; y < dimensionY; y++ {
		iValue := float64(y) + 0.5
		for x := 0; x < len(points); x += 2 {
			points[x] = float64(x/2) + 0.5
			points[x+1] = iValue
		}
		transform.TransformPoints(points)
		// Checking the row ends is enough for a sane transform; the per-point
		// bounds check below catches twisted ones.
		if err := CheckAndNudgePoints(image, points); err != nil {
			return nil, err
		}
		for x := 0; x < len(points); x += 2 {
			px, py := points[x], points[x+1]
			if !isFinite(px) || !isFinite(py) {
				return nil, geometryError("SampleGrid", px, py)
			}
			ix := int(math.Floor(px))
			iy := int(math.Floor(py))
			if ix < 0 || ix >= width || iy < 0 || iy >= height {
				return nil, geometryError("SampleGrid", px, py)
			}
			if image.Get(ix, iy) {
				bits.Set(x/2, y)
			}
		}
	}
	return bits, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CheckAndNudgePoints checks that transformed points are within image bounds,
// nudging slightly if they are barely outside. A coordinate that floors to -1
// moves to 0 and one that floors to width (height) moves to width-1
// (height-1); anything further out is a geometry error.
//
// Points are scanned from each end of the slice inward and the scan stops at
// the first point that needed no nudge.
func CheckAndNudgePoints(image *bitutil.BitMatrix, points []float64) error {
	width := image.Width()
	height := image.Height()
	maxOffset := len(points) - 1

	nudged := true
	for offset := 0; offset < maxOffset && nudged; offset += 2 {
		var err error
		if nudged, err = nudgePoint(points, offset, width, height); err != nil {
			return err
		}
	}

	nudged = true
	for offset := len(points) - 2; offset >= 0 && nudged; offset -= 2 {
		var err error
		if nudged, err = nudgePoint(points, offset, width, height); err != nil {
			return err
		}
	}
	return nil
}

func nudgePoint(points []float64, offset, width, height int) (bool, error) {
	fx, fy := points[offset], points[offset+1]
	if !isFinite(fx) || !isFinite(fy) {
		return false, geometryError("CheckAndNudgePoints", fx, fy)
	}
	fx, fy = math.Floor(fx), math.Floor(fy)
	if fx < -1 || fx > float64(width) || fy < -1 || fy > float64(height) {
		return false, geometryError("CheckAndNudgePoints", points[offset], points[offset+1])
	}
	x, y := int(fx), int(fy)
	nudged := false
	if x == -1 {
		points[offset] = 0
		nudged = true
	} else if x == width {
		points[offset] = float64(width - 1)
		nudged = true
	}
	if y == -1 {
		points[offset+1] = 0
		nudged = true
	} else if y == height {
		points[offset+1] = float64(height - 1)
		nudged = true
	}
	return nudged, nil
}
