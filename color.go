package gridfx

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an opaque 8-bit sRGB color. Opacity travels separately as a
// float alpha in Cell.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	Black   = Color{0, 0, 0}
	White   = Color{255, 255, 255}
	Emerald = Color{0x10, 0xb9, 0x81} // fallback for invalid hex input
)

// ParseHex parses "#RGB" or "#RRGGBB" (the '#' is optional).
func ParseHex(hex string) (Color, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var v [6]uint8
	switch len(s) {
	case 3, 6:
	default:
		return Color{}, fmt.Errorf("gridfx: invalid hex color %q", hex)
	}
	for i := 0; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return Color{}, fmt.Errorf("gridfx: invalid hex color %q", hex)
		}
		v[i] = d
	}
	if len(s) == 3 {
		return Color{v[0] * 17, v[1] * 17, v[2] * 17}, nil
	}
	return Color{v[0]<<4 | v[1], v[2]<<4 | v[3], v[4]<<4 | v[5]}, nil
}

// Hex parses a hex color, returning Emerald when hex is invalid.
func Hex(hex string) Color {
	c, err := ParseHex(hex)
	if err != nil {
		return Emerald
	}
	return c
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// String returns the color as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Invert returns 255-c per channel.
func (c Color) Invert() Color {
	return Color{255 - c.R, 255 - c.G, 255 - c.B}
}

// Shift raises red and lowers blue by n steps, clamped to [0, 255].
func (c Color) Shift(n float64) Color {
	if n == 0 {
		return c
	}
	return Color{
		R: clamp255(float64(c.R) + n),
		G: c.G,
		B: clamp255(float64(c.B) - n),
	}
}

// Lerp interpolates linearly from c to other.
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: clamp255(float64(c.R) + (float64(other.R)-float64(c.R))*t),
		G: clamp255(float64(c.G) + (float64(other.G)-float64(c.G))*t),
		B: clamp255(float64(c.B) + (float64(other.B)-float64(c.B))*t),
	}
}

// NRGBA converts c with the given opacity in [0, 1].
func (c Color) NRGBA(alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: clamp255(alpha * 255)}
}

// RGBA implements color.Color for the opaque color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA(1).RGBA()
}

// Floats returns the channels in [0, 1].
func (c Color) Floats() (r, g, b float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
}

func clamp255(x float64) uint8 {
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(math.Round(x))
}
