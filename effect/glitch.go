package effect

import (
	"math"
	"time"
)

const (
	scanlineWidth  = 0.08
	pointerRadius  = 0.08
	chromaSteps    = 20
	burstThreshold = 0.97
)

// GlitchFrame holds the per-frame state of the glitch effect: the scanline
// position and the burst strength. Build one per frame with NewGlitchFrame
// and sample every cell through it.
type GlitchFrame struct {
	params   Params
	scanline float64
	burst    float64
	trail    *Trail
	now      time.Time
}

// NewGlitchFrame prepares the glitch effect for one frame. trail may be nil.
func NewGlitchFrame(p Params, trail *Trail, now time.Time) *GlitchFrame {
	gt := p.Time * 0.5
	f := &GlitchFrame{
		params:   p,
		scanline: math.Mod(gt*0.3, 1.4) - 0.2,
		trail:    trail,
		now:      now,
	}
	if math.Sin(gt*0.7) > burstThreshold {
		f.burst = (math.Sin(gt*50) + 1) * 0.5
	}
	return f
}

// Scanline returns the normalized vertical position of the scanline band.
func (f *GlitchFrame) Scanline() float64 { return f.scanline }

// Burst returns the burst strength, zero outside bursts.
func (f *GlitchFrame) Burst() float64 { return f.burst }

// At evaluates the glitch effect for cell (x, y). rnd decides which cells
// light up during a burst.
func (f *GlitchFrame) At(g Grid, x, y int, rnd func() float64) Sample {
	p := f.params
	t := p.Time
	fx, fy := float64(x), float64(y)
	nx, ny := g.Norm(x, y)

	strength := 0.0
	if d := math.Abs(ny - f.scanline); d < scanlineWidth {
		strength = 1 - d/scanlineWidth
	}

	n1 := math.Sin(fx*0.15+t*0.5) * math.Cos(fy*0.12+t*0.3)
	n2 := math.Sin((fx+fy)*0.08 + t*0.2)
	base := (n1 + n2 + 2) / 4
	charNoise := math.Sin(fx*0.3 + fy*0.2 + t*0.1)

	s := Sample{
		Density: clamp01(base + charNoise*0.2),
		Alpha:   (0.15 + base*0.25) * p.Intensity,
	}
	if strength > 0 {
		s.Alpha += strength * 0.4 * p.Intensity
		s.Shift = strength * chromaSteps
		s.OffsetX = math.Sin(fy*0.5+t*10) * strength * 3
	}
	if f.burst > 0 && rnd() < f.burst*0.3 {
		s.Alpha = math.Min(1, s.Alpha+f.burst*0.5)
	}

	if !p.Detail {
		return s
	}
	if d := math.Hypot(nx-p.Pointer.X, ny-p.Pointer.Y); d < pointerRadius {
		s.Invert = true
		s.Boost = (1 - d/pointerRadius) * 0.6
	}
	if f.trail != nil {
		inv, boost := f.trail.influence(f.now, nx, ny, pointerRadius)
		s.Invert = s.Invert || inv
		s.Boost = math.Max(s.Boost, boost)
	}
	return s
}
