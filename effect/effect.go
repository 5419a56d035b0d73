// Package effect contains the per-cell field functions of the grid
// renderer.
//
// Each function maps a cell, the simulation time and the pointer position
// to a Sample: a density used to pick a glyph, a base alpha already scaled
// by intensity, and a few optional color and position modifiers. The
// functions are pure except for the matrix rain and the pointer trail,
// which carry state between frames.
package effect

import (
	"math"
	"strings"
)

// Kind names an effect function.
type Kind int

// Available effects. The zero value is Wave.
const (
	Wave Kind = iota
	Matrix
	Pulse
	Glitch
)

// Kinds lists every effect.
var Kinds = [...]Kind{Wave, Matrix, Pulse, Glitch}

func (k Kind) String() string {
	switch k {
	case Matrix:
		return "matrix"
	case Pulse:
		return "pulse"
	case Glitch:
		return "glitch"
	default:
		return "wave"
	}
}

// Parse maps an effect name to a Kind. Unknown names yield Wave and false.
func Parse(name string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "wave":
		return Wave, true
	case "matrix":
		return Matrix, true
	case "pulse":
		return Pulse, true
	case "glitch":
		return Glitch, true
	}
	return Wave, false
}

// Grid is the cell grid an effect is evaluated on.
type Grid struct {
	Cols, Rows int
}

// Norm returns the normalized centre of cell (x, y).
func (g Grid) Norm(x, y int) (nx, ny float64) {
	return (float64(x) + 0.5) / float64(g.Cols), (float64(y) + 0.5) / float64(g.Rows)
}

// Pointer is a normalized pointer position.
type Pointer struct {
	X, Y float64
}

// Params are the per-frame inputs shared by every effect.
type Params struct {
	Time      float64
	Pointer   Pointer
	Intensity float64

	// Detail enables the pointer-driven terms (ripples, rings, trail).
	Detail bool
}

// Sample is the output of an effect for one cell.
type Sample struct {
	// Density selects the glyph.
	Density float64

	// Alpha is the base opacity, already scaled by intensity.
	Alpha float64

	// Boost is added to alpha after disturbances are applied.
	Boost float64

	// Shift moves red up and blue down by this many 8-bit steps.
	Shift float64

	// Invert inverts the cell color.
	Invert bool

	// Highlight paints the cell in the highlight color instead of the
	// primary color.
	Highlight bool

	// OffsetX displaces the cell horizontally, in cells.
	OffsetX float64
}

// WaveAt evaluates the wave effect: a standing wave anchored at the grid
// centre plus a ripple that spreads from the pointer and decays with
// distance.
func WaveAt(g Grid, x, y int, p Params) Sample {
	u := float64(x) + 0.5 - float64(g.Cols)/2
	v := float64(y) + 0.5 - float64(g.Rows)/2
	wave := math.Cos(u*0.1+p.Time) * math.Cos(v*0.1+p.Time)

	ripple := 0.0
	if p.Detail {
		nx, ny := g.Norm(x, y)
		d := math.Hypot(nx-p.Pointer.X, ny-p.Pointer.Y)
		ripple = math.Sin(d*10-p.Time*2) * math.Exp(-d*3)
	}

	value := clamp01((wave + ripple + 1) / 2)
	return Sample{
		Density: value,
		Alpha:   (0.2 + value*0.5) * p.Intensity,
	}
}

// PulseAt evaluates the pulse effect: rings spreading from the grid centre,
// modulated by a slow global beat, combined by max with weaker rings
// around the pointer.
func PulseAt(g Grid, x, y int, p Params) Sample {
	beat := (math.Sin(p.Time*2) + 1) / 2
	cx, cy := float64(g.Cols)/2, float64(g.Rows)/2
	maxDist := math.Hypot(cx, cy)
	if maxDist == 0 {
		return Sample{}
	}
	dist := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
	nd := dist / maxDist

	ring := math.Sin(nd*10 - p.Time*3)
	value := (ring + 1) / 2 * (1 - nd*0.5) * (0.5 + beat*0.5)

	if p.Detail {
		px, py := p.Pointer.X*float64(g.Cols), p.Pointer.Y*float64(g.Rows)
		pd := math.Hypot(float64(x)+0.5-px, float64(y)+0.5-py)
		if mnd := pd / (maxDist * 0.5); mnd < 1 {
			mv := (math.Sin(mnd*8-p.Time*4) + 1) / 2 * (1 - mnd) * 0.5
			value = math.Max(value, mv)
		}
	}

	value = clamp01(value)
	return Sample{
		Density: value,
		Alpha:   value * 0.7 * p.Intensity,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
