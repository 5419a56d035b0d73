// Package explosion implements the disturbance subsystem: radial events
// that blow a hole in the grid and then heal it with a cascading wipe.
//
// Every explosion follows the same fixed timeline regardless of how many
// are active:
//
//	expanding   [0, 1.5s)    radius grows linearly
//	holding     [1.5s, 2.5s) radius frozen, hole stays open
//	recovering  [2.5s, 5.5s) heal front sweeps top to bottom
//	removed     >= 5.5s
package explosion

import (
	"math"
	"time"
)

// Phase is the stage of an explosion's timeline.
type Phase int

// Explosion phases in timeline order.
const (
	Expanding Phase = iota
	Holding
	Recovering
	Removed
)

func (p Phase) String() string {
	switch p {
	case Expanding:
		return "expanding"
	case Holding:
		return "holding"
	case Recovering:
		return "recovering"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// Timeline boundaries measured from creation.
const (
	ExpandEnd  = 1500 * time.Millisecond
	HoldEnd    = 2500 * time.Millisecond
	RecoverEnd = 5500 * time.Millisecond
	Lifetime   = RecoverEnd
)

const (
	growthPerMs  = 0.002 // radius units per millisecond
	bandWidth    = 0.2   // shockwave band inside the radius
	pushPixels   = 50    // peak outward displacement at full intensity
	flashGain    = 0.5
	maxOffset    = 0.15  // per-column recovery delay
	frontReach   = 1.3
	frontWobble  = 0.02
	fadeBand     = 0.15  // still-fading region under the heal front
	crestBand    = 0.08  // bright region just above the heal front
	crestGain    = 0.6
	surfacePixel = 3
)

// Explosion is one disturbance event.
type Explosion struct {
	X, Y     float64 // origin, normalized
	Start    time.Time
	Phase    Phase
	Radius   float64
	Recovery float64 // recovering progress in [0, 1]

	offsets []float64
}

// Offsets returns the per-column recovery delays of e.
func (e *Explosion) Offsets() []float64 { return e.offsets }

// PhaseAt returns the phase for an explosion of the given age.
func PhaseAt(age time.Duration) Phase {
	switch {
	case age < ExpandEnd:
		return Expanding
	case age < HoldEnd:
		return Holding
	case age < RecoverEnd:
		return Recovering
	default:
		return Removed
	}
}

func (e *Explosion) update(now time.Time, speed float64) bool {
	age := now.Sub(e.Start)
	if age < 0 {
		age = 0
	}
	e.Phase = PhaseAt(age)
	scale := math.Max(1, speed)
	switch e.Phase {
	case Expanding:
		e.Radius = ms(age) * growthPerMs * scale
	case Holding:
		e.Radius = ms(ExpandEnd) * growthPerMs * scale
	case Recovering:
		e.Recovery = ms(age-HoldEnd) / ms(RecoverEnd-HoldEnd)
	case Removed:
		return false
	}
	return true
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Set holds the active explosions in creation order.
type Set struct {
	items []*Explosion
}

// Trigger adds an explosion at normalized (x, y). Each explosion draws its
// own per-column recovery delays from rnd.
func (s *Set) Trigger(now time.Time, x, y float64, cols int, rnd func() float64) *Explosion {
	offsets := make([]float64, cols)
	for i := range offsets {
		offsets[i] = rnd() * maxOffset
	}
	e := &Explosion{X: x, Y: y, Start: now, Phase: Expanding, offsets: offsets}
	s.items = append(s.items, e)
	return e
}

// Update advances every explosion to now and drops finished ones.
func (s *Set) Update(now time.Time, speed float64) {
	kept := s.items[:0]
	for _, e := range s.items {
		if e.update(now, speed) {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = kept
}

// Len returns the number of active explosions.
func (s *Set) Len() int { return len(s.items) }

// Active returns the active explosions. The slice must not be modified.
func (s *Set) Active() []*Explosion { return s.items }

// Clear removes every explosion.
func (s *Set) Clear() { s.items = nil }

// Cell carries the per-cell inputs and outputs of Apply.
type Cell struct {
	Col    int
	NX, NY float64 // normalized position
	Aspect float64 // cols/rows
	X, Y   float64 // pixel position, displaced in place
	Alpha  float64
}

// Apply folds every active explosion into c in creation order. Recovery
// terms scale the undisturbed alpha, so a later explosion can re-occlude
// what an earlier one restored.
func (s *Set) Apply(c *Cell, intensity float64) {
	base := c.Alpha
	for _, e := range s.items {
		dx := (c.NX - e.X) * c.Aspect
		dy := c.NY - e.Y
		dist := math.Hypot(dx, dy)

		switch e.Phase {
		case Expanding, Holding:
			switch {
			case dist < e.Radius && dist > e.Radius-bandWidth:
				force := 1 - (e.Radius-dist)/bandWidth
				push := force * pushPixels * intensity
				c.X += dx * push
				c.Y += dy * push
				c.Alpha = math.Min(1, c.Alpha+force*flashGain)
			case dist <= e.Radius-bandWidth:
				c.Alpha = 0
			}
		case Recovering:
			offset := 0.0
			if c.Col >= 0 && c.Col < len(e.offsets) {
				offset = e.offsets[c.Col]
			}
			front := e.Recovery*frontReach - offset +
				math.Sin(float64(c.Col)*0.3+e.Recovery*10)*frontWobble
			d := c.NY - front
			switch {
			case d > fadeBand:
				c.Alpha = 0
			case d > 0:
				f := 1 - d/fadeBand
				c.Alpha = base * f * f
			case d > -crestBand:
				lift := 1 + d/crestBand
				c.Alpha = math.Min(1, base*(1+lift*crestGain))
				c.Y -= lift * surfacePixel
			}
		}
	}
}
