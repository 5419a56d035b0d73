package charset

import (
	"image"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// MaxBrightness is the top of the brightness scale used by BrightnessToChar.
const MaxBrightness = 255

// BrightnessToChar maps a brightness in [0, 255] to a glyph of s.
// 0 yields the first (lightest) glyph and 255 the last (heaviest).
func BrightnessToChar(b float64, s Set) rune {
	return s.Glyph(b / MaxBrightness)
}

// RGBToBrightness returns the perceived luminance of an 8-bit color.
func RGBToBrightness(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// GenerateASCII renders rows of brightness values as lines of glyphs.
func GenerateASCII(data [][]float64, s Set) string {
	var sb strings.Builder
	for y, row := range data {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, v := range row {
			sb.WriteRune(BrightnessToChar(v, s))
		}
	}
	return sb.String()
}

// WavePattern returns a width×height brightness field of a standing wave.
func WavePattern(width, height int, t, frequency, amplitude float64) [][]float64 {
	out := make([][]float64, height)
	for y := range out {
		row := make([]float64, width)
		for x := range row {
			w := math.Sin(float64(x)*frequency+t) * math.Cos(float64(y)*frequency+t)
			row[x] = math.Floor((w*amplitude + 1) / 2 * MaxBrightness)
		}
		out[y] = row
	}
	return out
}

// FromImage downsamples img to cols×rows and converts it to ASCII art.
func FromImage(img image.Image, cols, rows int, s Set) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	small := image.NewRGBA(image.Rect(0, 0, cols, rows))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)

	data := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		row := make([]float64, cols)
		for x := 0; x < cols; x++ {
			c := small.RGBAAt(x, y)
			row[x] = RGBToBrightness(c.R, c.G, c.B)
		}
		data[y] = row
	}
	return GenerateASCII(data, s)
}
