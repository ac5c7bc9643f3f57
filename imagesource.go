package qrcore

import (
	"image"
	"image/color"

	"github.com/ericlevine/qrcore/bitutil"
)

// luminance converts a pixel to 8-bit greyscale with the weights
// (306*R + 601*G + 117*B + 0x200) >> 10. Fully transparent pixels are white.
func luminance(c color.Color) byte {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return 0xFF
	}
	r8 := r >> 8
	g8 := g >> 8
	b8 := b >> 8
	return byte((306*r8 + 601*g8 + 117*b8 + 0x200) >> 10)
}

// NewImageMatrix converts an already two-tone image into a BitMatrix. Pixels
// darker than the midpoint are on.
func NewImageMatrix(img image.Image) (*bitutil.BitMatrix, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w < 1 || h < 1 {
		return nil, &Error{Kind: KindStructural, Op: "NewImageMatrix", Want: 1, Got: min(w, h)}
	}
	matrix := bitutil.NewBitMatrixWithSize(w, h)

	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < h; y++ {
			row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
			for x, v := range row {
				if v < 0x80 {
					matrix.Set(x, y)
				}
			}
		}
		return matrix, nil
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if luminance(img.At(bounds.Min.X+x, bounds.Min.Y+y)) < 0x80 {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

// NewPixelMatrix wraps a row-major buffer of width*height pixels, one byte
// per pixel, where any non-zero value is on.
func NewPixelMatrix(pixels []byte, width, height int) (*bitutil.BitMatrix, error) {
	if width < 1 || height < 1 || len(pixels) != width*height {
		return nil, &Error{Kind: KindStructural, Op: "NewPixelMatrix", Want: width * height, Got: len(pixels)}
	}
	matrix := bitutil.NewBitMatrixWithSize(width, height)
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			if pixels[offset+x] != 0 {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

// MatrixToImage renders a BitMatrix as a greyscale image with on modules
// black (0) and off modules white (255), scaled by scale pixels per module
// and surrounded by a quiet zone of quiet modules.
func MatrixToImage(matrix *bitutil.BitMatrix, scale, quiet int) *image.Gray {
	if scale < 1 {
		scale = 1
	}
	if quiet < 0 {
		quiet = 0
	}
	w := (matrix.Width() + 2*quiet) * scale
	h := (matrix.Height() + 2*quiet) * scale
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	for y := 0; y < matrix.Height(); y++ {
		for x := 0; x < matrix.Width(); x++ {
			if !matrix.Get(x, y) {
				continue
			}
			px := (x + quiet) * scale
			py := (y + quiet) * scale
			for dy := 0; dy < scale; dy++ {
				row := img.Pix[(py+dy)*img.Stride:]
				for dx := 0; dx < scale; dx++ {
					row[px+dx] = 0
				}
			}
		}
	}
	return img
}
