package internal

import (
	qrcore "github.com/ericlevine/qrcore"
	"github.com/ericlevine/qrcore/bitutil"
	"github.com/ericlevine/qrcore/transform"
)

// DetectorResult encapsulates a sampled symbol grid together with the
// correspondences and mapping it was sampled through.
type DetectorResult struct {
	Bits      *bitutil.BitMatrix
	Points    []qrcore.ResultPoint
	Transform *transform.PerspectiveTransform
}

// NewDetectorResult creates a new DetectorResult.
func NewDetectorResult(bits *bitutil.BitMatrix, points []qrcore.ResultPoint, t *transform.PerspectiveTransform) *DetectorResult {
	return &DetectorResult{Bits: bits, Points: points, Transform: t}
}
