// Package ppm creates portable pixmap (PPM) image files in the plain P3
// format, with optional compression of the output stream.
package ppm

import (
	"github.com/magnetar-io/magnetar/pkg/errors"
)

// Pixel is an RGB color with channels in the [0,1] range. Values outside
// the range are tolerated and clamped at encoding time.
type Pixel struct {
	R, G, B float64
}

// Add returns the channel-wise sum of two pixels.
func (p Pixel) Add(q Pixel) Pixel {
	return Pixel{p.R + q.R, p.G + q.G, p.B + q.B}
}

// Sub returns the channel-wise difference of two pixels.
func (p Pixel) Sub(q Pixel) Pixel {
	return Pixel{p.R - q.R, p.G - q.G, p.B - q.B}
}

// Scale returns the pixel with every channel multiplied by t.
func (p Pixel) Scale(t float64) Pixel {
	return Pixel{t * p.R, t * p.G, t * p.B}
}

// Div returns the pixel with every channel divided by t.
func (p Pixel) Div(t float64) Pixel {
	return p.Scale(1 / t)
}

// Clamp limits x to the [min, max] range.
func Clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// Image is a raster of pixels in row-major order with row 0 at the top.
type Image struct {
	Width  int
	Height int
	Pixels []Pixel
}

// NewImage allocates an image of the given dimensions.
func NewImage(width, height int) (*Image, error) {
	if width < 1 || height < 1 {
		return nil, errors.New(errors.ErrorTypeValidation, "image dimensions must be positive").
			WithDetail("width", width).
			WithDetail("height", height)
	}
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]Pixel, width*height),
	}, nil
}

// Set stores a pixel at column x, row y. Coordinates outside the image
// panic like any out-of-range slice index.
func (img *Image) Set(x, y int, p Pixel) {
	img.Pixels[y*img.Width+x] = p
}

// At returns the pixel at column x, row y.
func (img *Image) At(x, y int) Pixel {
	return img.Pixels[y*img.Width+x]
}

// Gradient fills the image with the classic test pattern: red rises left
// to right, green rises bottom to top, blue stays at a quarter. Useful to
// verify the whole write path end to end.
func Gradient(img *Image) {
	for y := 0; y < img.Height; y++ {
		g := 0.0
		if img.Height > 1 {
			g = float64(img.Height-1-y) / float64(img.Height-1)
		}
		for x := 0; x < img.Width; x++ {
			r := 0.0
			if img.Width > 1 {
				r = float64(x) / float64(img.Width-1)
			}
			img.Set(x, y, Pixel{R: r, G: g, B: 0.25})
		}
	}
}
