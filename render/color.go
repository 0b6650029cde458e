package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB stores explicit 8-bit color channels
type RGB struct {
	R, G, B uint8
}

// Color is an RGB painted with straight alpha in [0, 1]
type Color struct {
	RGB
	A float64
}

// WithAlpha pairs the color with an alpha value
func (c RGB) WithAlpha(a float64) Color {
	return Color{RGB: c, A: a}
}

// NRGBA converts to a straight-alpha image color
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: channel(c.A * 255)}
}

// Hex returns the #rrggbb form
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// channel rounds half away from zero and saturates to 0..255, like a canvas fill style
func channel(v float64) uint8 {
	r := math.Round(v)
	if r >= 255 {
		return 255
	}
	if r <= 0 {
		return 0
	}
	return uint8(r)
}

// Lerp interpolates a→b by t, rounding each channel
// t is not clamped, out-of-gamut results saturate
func Lerp(a, b RGB, t float64) RGB {
	return RGB{
		R: channel(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: channel(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: channel(float64(a.B) + t*(float64(b.B)-float64(a.B))),
	}
}

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
func Blend(dst, src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return dst
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: channel(float64(src.R)*alpha + float64(dst.R)*inv),
		G: channel(float64(src.G)*alpha + float64(dst.G)*inv),
		B: channel(float64(src.B)*alpha + float64(dst.B)*inv),
	}
}
