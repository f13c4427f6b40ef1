// Package color provides an RGBA color value with float channels in the
// [0,1] range and conversions to and from 8-bit channels.
package color

// Inv255 is the multiplier that maps an 8-bit channel onto [0,1].
const Inv255 = float32(1.0 / 255.0)

// Color is an RGBA color. Channels range over [0,1]; values outside the
// range are kept as-is and only clamped when converting to 8-bit.
type Color struct {
	R, G, B, A float32
}

// New returns a color from [0,1] channel values.
func New(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Opaque returns a fully opaque color from [0,1] channel values.
func Opaque(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// FromRGBA8 returns a color from 8-bit channel values.
func FromRGBA8(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) * Inv255,
		G: float32(g) * Inv255,
		B: float32(b) * Inv255,
		A: float32(a) * Inv255,
	}
}

// FromRGB8 returns a fully opaque color from 8-bit channel values.
func FromRGB8(r, g, b uint8) Color {
	return FromRGBA8(r, g, b, 255)
}

// RGBA8 converts the color to 8-bit channels, clamping each channel to
// [0,1] first.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return quantize(c.R), quantize(c.G), quantize(c.B), quantize(c.A)
}

func quantize(ch float32) uint8 {
	switch {
	case ch <= 0:
		return 0
	case ch >= 1:
		return 255
	default:
		return uint8(ch*255 + 0.5)
	}
}
