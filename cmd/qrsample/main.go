// Command qrsample samples and decodes QR symbols in two-tone images, given
// the finder pattern centers reported by a detector.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	qrcore "github.com/ericlevine/qrcore"
	"github.com/ericlevine/qrcore/bitutil"
	"github.com/ericlevine/qrcore/qrcode"
)

const logLevelEnv = "QRSAMPLE_LOG_LEVEL"

type options struct {
	finders   []string
	alignment string
	dimension int
	pure      bool
	logLevel  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "qrsample",
		Short: "Sample and decode QR symbols from detector corner points",
		Long: `qrsample maps a QR symbol onto its module grid from three finder pattern
centers (and optionally the alignment pattern center), samples a two-tone
image and reads the error-corrected codewords.

Images are PNG, JPEG or GIF; pixels darker than mid-grey are on.`,
		SilenceUsage: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringArrayVar(&opts.finders, "finder", nil, "finder pattern center as x,y (give three, any order)")
	pf.StringVar(&opts.alignment, "alignment", "", "alignment pattern center as x,y")
	pf.IntVar(&opts.dimension, "dimension", 0, "estimated modules per side")
	pf.BoolVar(&opts.pure, "pure", false, "image holds one unrotated symbol on a white border; derive the corners")
	pf.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (default $"+logLevelEnv+" or info)")

	rootCmd.AddCommand(newSampleCmd(opts), newDecodeCmd(opts))
	return rootCmd
}

func newSampleCmd(opts *options) *cobra.Command {
	var out string
	var scale int
	cmd := &cobra.Command{
		Use:   "sample <image>",
		Short: "Print the sampled module grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := newReader(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			image, err := loadImage(args[0])
			if err != nil {
				return err
			}
			detection, err := opts.detection(image)
			if err != nil {
				return err
			}
			dr, err := reader.Sample(image, detection)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if out != "" {
				return writePNG(out, dr.Bits, scale)
			}
			fmt.Fprint(cmd.OutOrStdout(), dr.Bits.StringWithChars("##", "  "))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the grid as a PNG instead of printing it")
	cmd.Flags().IntVar(&scale, "scale", 8, "pixels per module for --out")
	return cmd
}

func newDecodeCmd(opts *options) *cobra.Command {
	var raw bool
	var concurrency int
	cmd := &cobra.Command{
		Use:   "decode <image> [image...]",
		Short: "Decode the codewords of one symbol per image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := newReader(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			reader.Concurrency = concurrency

			jobs := make([]qrcode.Job, len(args))
			for i, path := range args {
				image, err := loadImage(path)
				if err != nil {
					return err
				}
				detection, err := opts.detection(image)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				jobs[i] = qrcode.Job{Image: image, Detection: detection}
			}

			results, err := reader.DecodeBatch(cmd.Context(), jobs)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			failed := 0
			for i, res := range results {
				prefix := ""
				if len(args) > 1 {
					prefix = args[i] + ": "
				}
				if res.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%serror: %v\n", prefix, res.Err)
					failed++
					continue
				}
				printResult(w, prefix, res.Result, raw)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d images failed to decode", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "also print the codewords as read, before correction")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "images decoded in parallel (default GOMAXPROCS)")
	return cmd
}

func printResult(w io.Writer, prefix string, r *qrcore.Result, raw bool) {
	fmt.Fprintf(w, "%sversion %d, EC level %s, mask %d, %d errors corrected\n",
		prefix, r.Version, r.ECLevel, r.DataMask, r.ErrorsCorrected)
	fmt.Fprintf(w, "%sdata: %s\n", prefix, hex.EncodeToString(r.Data))
	if raw {
		fmt.Fprintf(w, "%sraw: %s\n", prefix, hex.EncodeToString(r.Codewords))
	}
}

func newReader(opts *options, stderr io.Writer) (*qrcode.Reader, error) {
	level, err := parseLogLevel(opts.logLevel)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return qrcode.NewReader(logger), nil
}

func parseLogLevel(flagValue string) (slog.Level, error) {
	value := flagValue
	if value == "" {
		value = os.Getenv(logLevelEnv)
	}
	if value == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", value)
	}
	return level, nil
}

func (o *options) detection(image *bitutil.BitMatrix) (qrcore.Detection, error) {
	if o.pure {
		return qrcode.PureDetection(image)
	}
	if len(o.finders) != 3 {
		return qrcore.Detection{}, fmt.Errorf("need exactly three --finder points, got %d", len(o.finders))
	}
	if o.dimension <= 0 {
		return qrcore.Detection{}, fmt.Errorf("--dimension is required with --finder")
	}
	var finders [3]qrcore.ResultPoint
	for i, s := range o.finders {
		p, err := parsePoint(s)
		if err != nil {
			return qrcore.Detection{}, err
		}
		finders[i] = p
	}
	var alignment *qrcore.ResultPoint
	if o.alignment != "" {
		p, err := parsePoint(o.alignment)
		if err != nil {
			return qrcore.Detection{}, err
		}
		alignment = &p
	}
	return qrcore.NewDetection(finders, alignment, o.dimension), nil
}

func parsePoint(s string) (qrcore.ResultPoint, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return qrcore.ResultPoint{}, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return qrcore.ResultPoint{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return qrcore.ResultPoint{}, fmt.Errorf("point %q: %w", s, err)
	}
	return qrcore.ResultPoint{X: x, Y: y}, nil
}

func loadImage(path string) (*bitutil.BitMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return qrcore.NewImageMatrix(img)
}

func writePNG(path string, bits *bitutil.BitMatrix, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, qrcore.MatrixToImage(bits, scale, 4)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
