package effect

import (
	"math"
	"time"
)

// Trail limits.
const (
	TrailLifetime  = 1500 * time.Millisecond
	TrailMaxPoints = 30
	trailStep      = 0.01 // minimum pointer movement per axis to record a point
)

// TrailPoint is a recorded pointer position.
type TrailPoint struct {
	X, Y float64
	At   time.Time
}

// Trail remembers recent pointer positions for the glitch inversion.
type Trail struct {
	points []TrailPoint
}

// Update records p if it moved far enough from the newest point and drops
// points that are too old or beyond the size limit.
func (t *Trail) Update(now time.Time, p Pointer) {
	n := len(t.points)
	if n == 0 ||
		math.Abs(t.points[n-1].X-p.X) > trailStep ||
		math.Abs(t.points[n-1].Y-p.Y) > trailStep {
		t.points = append(t.points, TrailPoint{X: p.X, Y: p.Y, At: now})
	}

	kept := t.points[:0]
	for _, pt := range t.points {
		if now.Sub(pt.At) < TrailLifetime {
			kept = append(kept, pt)
		}
	}
	if len(kept) > TrailMaxPoints {
		kept = kept[len(kept)-TrailMaxPoints:]
	}
	t.points = kept
}

// Len returns the number of recorded points.
func (t *Trail) Len() int { return len(t.points) }

// Points returns the recorded points, oldest first.
func (t *Trail) Points() []TrailPoint { return t.points }

// Reset forgets every point.
func (t *Trail) Reset() { t.points = t.points[:0] }

// influence returns whether the trail inverts the cell at (nx, ny) and the
// strongest alpha boost it contributes. Points shrink and weaken with age.
func (t *Trail) influence(now time.Time, nx, ny, radius float64) (invert bool, boost float64) {
	for _, pt := range t.points {
		age := float64(now.Sub(pt.At)) / float64(TrailLifetime)
		r := radius * (1 - age*0.5)
		if r <= 0 {
			continue
		}
		d := math.Hypot(nx-pt.X, ny-pt.Y)
		if d >= r {
			continue
		}
		strength := (1 - d/r) * (1 - age)
		if strength > 0.3 {
			invert = true
		}
		boost = math.Max(boost, strength*0.4)
	}
	return invert, boost
}
