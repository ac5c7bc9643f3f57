// Package qrcore recovers the codeword stream of a QR symbol from a two-tone
// image and the positions of its finder patterns.
//
// The root package holds the types shared by every stage: the error
// taxonomy, detection input, decode results and image adapters.
package qrcore

import (
	"math"
	"time"
)

// ResultPoint represents a point of interest in an image.
type ResultPoint struct {
	X, Y float64
}

// Distance returns the distance between two points.
func Distance(a, b ResultPoint) float64 {
	return math.Sqrt((a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y))
}

// crossProductZ returns the z component of (a-b) x (c-b).
func crossProductZ(a, b, c ResultPoint) float64 {
	return (c.X-b.X)*(a.Y-b.Y) - (c.Y-b.Y)*(a.X-b.X)
}

// OrderBestPatterns orders three finder pattern centers as bottom-left,
// top-left, top-right. The top-left pattern is the one opposite the longest
// side; the cross product then fixes which neighbour is which, so mirrored
// input is handled as well as rotated input.
func OrderBestPatterns(patterns [3]ResultPoint) [3]ResultPoint {
	d01 := Distance(patterns[0], patterns[1])
	d12 := Distance(patterns[1], patterns[2])
	d02 := Distance(patterns[0], patterns[2])

	var pointA, pointB, pointC ResultPoint
	if d12 >= d01 && d12 >= d02 {
		pointB, pointA, pointC = patterns[0], patterns[1], patterns[2]
	} else if d02 >= d12 && d02 >= d01 {
		pointB, pointA, pointC = patterns[1], patterns[0], patterns[2]
	} else {
		pointB, pointA, pointC = patterns[2], patterns[0], patterns[1]
	}

	if crossProductZ(pointA, pointB, pointC) < 0 {
		pointA, pointC = pointC, pointA
	}

	return [3]ResultPoint{pointA, pointB, pointC}
}

// Detection is what a pattern detector reports about one candidate symbol:
// the centers of the three finder patterns, optionally a fourth
// correspondence near the bottom-right corner (the alignment pattern
// center), and an estimated number of modules per side.
type Detection struct {
	TopLeft    ResultPoint
	TopRight   ResultPoint
	BottomLeft ResultPoint
	// Alignment is nil when the symbol has no alignment pattern or none was
	// found; the bottom-right corner is then extrapolated.
	Alignment *ResultPoint
	Dimension int
}

// NewDetection orders three finder centers given in any order.
func NewDetection(finders [3]ResultPoint, alignment *ResultPoint, dimension int) Detection {
	ordered := OrderBestPatterns(finders)
	return Detection{
		BottomLeft: ordered[0],
		TopLeft:    ordered[1],
		TopRight:   ordered[2],
		Alignment:  alignment,
		Dimension:  dimension,
	}
}

// SymbolDimension rounds the estimated dimension to the nearest legal symbol
// size (17 + 4*version). An estimate of 3 mod 4 is equally far from two
// sizes and is rejected.
func (d Detection) SymbolDimension() (int, error) {
	dimension := d.Dimension
	switch dimension % 4 {
	case 0:
		dimension++
	case 2:
		dimension--
	case 3:
		return 0, &Error{Kind: KindStructural, Op: "SymbolDimension", Dimension: d.Dimension}
	}
	if dimension < 21 || dimension > 177 {
		return 0, &Error{Kind: KindStructural, Op: "SymbolDimension", Dimension: d.Dimension}
	}
	return dimension, nil
}

// Points returns the correspondences in detector order: bottom-left,
// top-left, top-right and, when present, the alignment center.
func (d Detection) Points() []ResultPoint {
	points := []ResultPoint{d.BottomLeft, d.TopLeft, d.TopRight}
	if d.Alignment != nil {
		points = append(points, *d.Alignment)
	}
	return points
}

// Result is the outcome of one successful decode attempt.
type Result struct {
	// Data holds the corrected data codewords, in block order.
	Data []byte
	// Codewords holds every codeword as read from the symbol, before
	// de-interleaving and correction.
	Codewords []byte
	Version   int
	ECLevel   string
	DataMask  int
	// ErrorsCorrected counts codewords repaired by Reed-Solomon correction.
	ErrorsCorrected int
	Points          []ResultPoint
	// AttemptID identifies the attempt in log records.
	AttemptID string
	Timestamp time.Time
}
