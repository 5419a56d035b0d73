package anim

import "time"

// DefaultTween is the intensity tween length when none is given.
const DefaultTween = 500 * time.Millisecond

// Tween eases a scalar from a start value to a target with EaseOutCubic.
type Tween struct {
	value    float64
	from     float64
	target   float64
	start    time.Time
	duration time.Duration
	running  bool
}

// NewTween returns a settled tween at v.
func NewTween(v float64) Tween {
	return Tween{value: v, from: v, target: v}
}

// Value returns the current value.
func (tw *Tween) Value() float64 { return tw.value }

// Target returns the value the tween is heading to.
func (tw *Tween) Target() float64 { return tw.target }

// Running reports whether the tween is still moving.
func (tw *Tween) Running() bool { return tw.running }

// Set jumps to v and stops any running tween.
func (tw *Tween) Set(v float64) {
	tw.value, tw.from, tw.target = v, v, v
	tw.running = false
}

// To starts easing from the current value to target over d. A target
// equal to the current value settles there, cancelling any running tween.
func (tw *Tween) To(target float64, now time.Time, d time.Duration) {
	if target == tw.value {
		tw.Set(target)
		return
	}
	if d <= 0 {
		d = DefaultTween
	}
	tw.from = tw.value
	tw.target = target
	tw.start = now
	tw.duration = d
	tw.running = true
}

// Update advances the tween to now and returns the current value.
func (tw *Tween) Update(now time.Time) float64 {
	if !tw.running {
		return tw.value
	}
	p := clamp01(float64(now.Sub(tw.start)) / float64(tw.duration))
	tw.value = tw.from + (tw.target-tw.from)*EaseOutCubic(p)
	if p >= 1 {
		tw.value = tw.target
		tw.running = false
	}
	return tw.value
}
