// Package intro implements the staggered wipe-in played when the renderer
// starts.
package intro

import (
	"math"
	"time"

	"github.com/gogpu/gridfx/internal/anim"
)

// Reveal timing constants.
const (
	Duration = time.Second

	edgeDelay  = 0.4 // delay for a column at the grid edge
	jitter     = 0.3 // random delay added per column
	startScale = 0.5 // delays are squeezed into the front half of the duration
	frontReach = 1.3 // front travel so the bottom row is passed before cp reaches 1
	fadeBand   = 0.2 // soft band under the front
)

// Reveal gates cell visibility during the intro.
type Reveal struct {
	active bool
	start  time.Time
	delays []float64
}

// Reset assigns a fresh delay to each of cols columns. Delays grow with
// distance from the horizontal centre, so the edges start late, plus up
// to jitter of random offset drawn from rnd.
func (r *Reveal) Reset(cols int, rnd func() float64) {
	r.delays = make([]float64, cols)
	center := float64(cols) / 2
	for i := range r.delays {
		dist := 0.0
		if center > 0 {
			dist = math.Abs(float64(i)-center) / center
		}
		r.delays[i] = dist*edgeDelay + rnd()*jitter
	}
}

// Start activates the reveal at now.
func (r *Reveal) Start(now time.Time) {
	r.active = true
	r.start = now
}

// Skip deactivates the reveal immediately.
func (r *Reveal) Skip() { r.active = false }

// Active reports whether the reveal is still gating cells.
func (r *Reveal) Active() bool { return r.active }

// Delays returns the per-column delays.
func (r *Reveal) Delays() []float64 { return r.delays }

// Update deactivates the reveal once global progress reaches 1.
func (r *Reveal) Update(now time.Time) {
	if r.active && r.progress(now) >= 1 {
		r.active = false
	}
}

func (r *Reveal) progress(now time.Time) float64 {
	p := float64(now.Sub(r.start)) / float64(Duration)
	if p < 0 {
		return 0
	}
	return math.Min(p, 1)
}

// Alpha returns the visibility factor in [0, 1] for the cell in column col
// at normalized row position ny.
func (r *Reveal) Alpha(now time.Time, col int, ny float64) float64 {
	if !r.active {
		return 1
	}
	g := r.progress(now)
	if g >= 1 {
		return 1
	}

	delay := 0.0
	if col >= 0 && col < len(r.delays) {
		delay = r.delays[col]
	}
	colStart := delay * startScale
	cp := math.Max(0, (g-colStart)/(1-colStart))
	if cp <= 0 {
		return 0
	}

	d := ny - cp*frontReach
	switch {
	case d > fadeBand:
		return 0
	case d > 0:
		return anim.Smoothstep(1 - d/fadeBand)
	default:
		return 1
	}
}
