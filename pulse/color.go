package pulse

import (
	"math"

	"github.com/oliverbestmann/webgpu/wgpu"
)

var ColorWhite = ColorLinearRGBA(1, 1, 1, 1)
var ColorBlack = ColorLinearRGBA(0, 0, 0, 1)
var ColorTransparent = ColorLinearRGBA(0, 0, 0, 0)

// Color is a straight rgba color value with alpha in linear rgb color space.
type Color struct {
	R, G, B, A float32
}

func ColorLinearRGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ColorSRGBA creates a Color value from non linear srgb encoded values,
// e.g. a color picked from a jpeg image.
func ColorSRGBA(r, g, b, a float32) Color {
	return ColorLinearRGBA(degamma(r), degamma(g), degamma(b), a)
}

// ToWGPU converts the color into a premultiplied clear value.
func (c Color) ToWGPU() wgpu.Color {
	return wgpu.Color{
		R: float64(c.R * c.A),
		G: float64(c.G * c.A),
		B: float64(c.B * c.A),
		A: float64(c.A),
	}
}

func degamma(value float32) float32 {
	x := float64(value)

	// https://www.w3.org/TR/css-color-4/#color-conversion-code
	sign := math.Copysign(1, x)
	abs := math.Abs(x)
	if abs <= 0.04045 {
		return float32(x / 12.92)
	}

	return float32(sign * math.Pow((abs+0.055)/1.055, 2.4))
}
