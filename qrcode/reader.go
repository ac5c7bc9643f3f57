// Package qrcode ties the stages together: it maps detector output onto a
// symbol grid, samples it and decodes the codewords.
package qrcode

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	qrcore "github.com/ericlevine/qrcore"
	"github.com/ericlevine/qrcore/bitutil"
	"github.com/ericlevine/qrcore/internal"
	"github.com/ericlevine/qrcore/qrcode/decoder"
	"github.com/ericlevine/qrcore/transform"
)

// Reader decodes QR symbols from two-tone images given the detector's view
// of where the symbol is. The zero value is ready to use. A Reader may be
// shared by concurrent decode attempts as long as its fields are not changed.
type Reader struct {
	// Sampler defaults to transform.DefaultGridSampler.
	Sampler transform.GridSampler
	// Decoder defaults to a decoder logging through Logger.
	Decoder *decoder.Decoder
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Concurrency bounds DecodeBatch. Values below 1 mean GOMAXPROCS.
	Concurrency int
}

// NewReader creates a Reader that logs through logger.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		Sampler: &transform.DefaultGridSampler{},
		Decoder: decoder.NewDecoder(logger),
		Logger:  logger,
	}
}

func (r *Reader) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Reader) sampler() transform.GridSampler {
	if r.Sampler == nil {
		return &transform.DefaultGridSampler{}
	}
	return r.Sampler
}

func (r *Reader) decoder() *decoder.Decoder {
	if r.Decoder == nil {
		return decoder.NewDecoder(r.logger())
	}
	return r.Decoder
}

// Sample maps the symbol described by detection onto its module grid and
// samples image at the center of every module.
func (r *Reader) Sample(image *bitutil.BitMatrix, detection qrcore.Detection) (*internal.DetectorResult, error) {
	dimension, err := detection.SymbolDimension()
	if err != nil {
		return nil, err
	}
	t := createTransform(detection, dimension)
	bits, err := r.sampler().SampleGrid(image, dimension, dimension, t)
	if err != nil {
		return nil, err
	}
	return internal.NewDetectorResult(bits, detection.Points(), t), nil
}

// Decode samples and decodes one symbol. Every call is one attempt with its
// own id, reported in Result.AttemptID and in log records.
func (r *Reader) Decode(image *bitutil.BitMatrix, detection qrcore.Detection) (*qrcore.Result, error) {
	return r.decode(image, detection, uuid.NewString())
}

func (r *Reader) decode(image *bitutil.BitMatrix, detection qrcore.Detection, attemptID string) (*qrcore.Result, error) {
	logger := r.logger().With("attempt", attemptID)
	start := time.Now()

	dr, err := r.Sample(image, detection)
	if err != nil {
		logger.Debug("sampling failed", "dimension", detection.Dimension, "err", err)
		return nil, err
	}
	res, err := r.decoder().Decode(dr.Bits)
	if err != nil {
		logger.Debug("decoding failed", "dimension", dr.Bits.Height(), "kind", qrcore.KindOf(err).String(), "err", err)
		return nil, err
	}

	logger.Debug("decoded",
		"version", res.Version,
		"ecLevel", res.ECLevel,
		"mask", res.DataMask,
		"errorsCorrected", res.ErrorsCorrected,
		"elapsed", time.Since(start))
	return &qrcore.Result{
		Data:            res.DataCodewords,
		Codewords:       res.RawCodewords,
		Version:         res.Version,
		ECLevel:         res.ECLevel,
		DataMask:        res.DataMask,
		ErrorsCorrected: res.ErrorsCorrected,
		Points:          dr.Points,
		AttemptID:       attemptID,
		Timestamp:       start,
	}, nil
}

// Job is one symbol to decode in a batch.
type Job struct {
	Image     *bitutil.BitMatrix
	Detection qrcore.Detection
}

// BatchResult is the outcome of one Job. Exactly one of Result and Err is set.
type BatchResult struct {
	AttemptID string
	Result    *qrcore.Result
	Err       error
}

// DecodeBatch decodes independent jobs in parallel and returns their results
// in job order. Jobs may share an image; it is only read. Cancelling ctx
// stops jobs that have not started yet, which report ctx.Err(); an attempt
// already running always completes. The returned error is ctx.Err().
func (r *Reader) DecodeBatch(ctx context.Context, jobs []Job) ([]BatchResult, error) {
	limit := r.Concurrency
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(jobs))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			id := uuid.NewString()
			res, err := r.decode(job.Image, job.Detection, id)
			results[i] = BatchResult{AttemptID: id, Result: res, Err: err}
			return nil
		})
	}
	// Jobs report failures in their BatchResult, never through the group.
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	r.logger().Debug("batch finished", "jobs", len(jobs), "failed", failed)
	return results, ctx.Err()
}

// createTransform maps ideal grid coordinates onto the image. The finder
// centers sit 3.5 modules in from their corners and the alignment center
// 6.5 modules in from the bottom-right corner. Without an alignment center
// the fourth corner is extrapolated as a parallelogram.
func createTransform(detection qrcore.Detection, dimension int) *transform.PerspectiveTransform {
	topLeft := detection.TopLeft
	topRight := detection.TopRight
	bottomLeft := detection.BottomLeft

	dimMinusThree := float64(dimension) - 3.5
	var bottomRightX, bottomRightY, sourceBottomRightX, sourceBottomRightY float64
	if detection.Alignment != nil {
		bottomRightX = detection.Alignment.X
		bottomRightY = detection.Alignment.Y
		sourceBottomRightX = dimMinusThree - 3.0
		sourceBottomRightY = sourceBottomRightX
	} else {
		bottomRightX = (topRight.X - topLeft.X) + bottomLeft.X
		bottomRightY = (topRight.Y - topLeft.Y) + bottomLeft.Y
		sourceBottomRightX = dimMinusThree
		sourceBottomRightY = dimMinusThree
	}

	return transform.QuadrilateralToQuadrilateral(
		3.5, 3.5, dimMinusThree, 3.5, sourceBottomRightX, sourceBottomRightY, 3.5, dimMinusThree,
		topLeft.X, topLeft.Y, topRight.X, topRight.Y, bottomRightX, bottomRightY, bottomLeft.X, bottomLeft.Y,
	)
}
