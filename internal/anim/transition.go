package anim

import "time"

// DefaultTransition is the crossfade length between effects.
const DefaultTransition = 800 * time.Millisecond

// Transition crossfades from an outgoing value to the active one.
// The zero value is an inactive transition.
type Transition[T comparable] struct {
	old      T
	start    time.Time
	duration time.Duration
	active   bool
}

// Begin starts a crossfade away from old at now.
func (tr *Transition[T]) Begin(old T, now time.Time, d time.Duration) {
	if d <= 0 {
		d = DefaultTransition
	}
	tr.old = old
	tr.start = now
	tr.duration = d
	tr.active = true
}

// Active reports whether a crossfade is in progress.
func (tr *Transition[T]) Active() bool { return tr.active }

// Old returns the outgoing value. It is meaningful only while Active.
func (tr *Transition[T]) Old() T { return tr.old }

// Progress returns elapsed/duration clamped to [0, 1].
func (tr *Transition[T]) Progress(now time.Time) float64 {
	if !tr.active {
		return 1
	}
	return clamp01(float64(now.Sub(tr.start)) / float64(tr.duration))
}

// Update advances the transition and discards it once progress reaches 1.
// It returns the opacities of the outgoing and incoming layers, which
// always sum to 1.
func (tr *Transition[T]) Update(now time.Time) (oldOpacity, newOpacity float64) {
	p := tr.Progress(now)
	if p >= 1 {
		tr.Cancel()
		return 0, 1
	}
	return Crossfade(p)
}

// Cancel drops the transition.
func (tr *Transition[T]) Cancel() {
	var zero T
	tr.old = zero
	tr.active = false
}

// Crossfade returns (1-e, e) with e = EaseInOutCubic(p).
func Crossfade(p float64) (oldOpacity, newOpacity float64) {
	e := EaseInOutCubic(p)
	return 1 - e, e
}
