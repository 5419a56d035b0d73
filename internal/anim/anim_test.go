package anim

import (
	"math"
	"testing"
	"time"
)

func TestEasingEndpoints(t *testing.T) {
	funcs := map[string]func(float64) float64{
		"EaseInOutCubic": EaseInOutCubic,
		"EaseOutCubic":   EaseOutCubic,
		"Smoothstep":     Smoothstep,
	}
	for name, f := range funcs {
		if got := f(0); got != 0 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := f(1); got != 1 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
		if got := f(-3); got != 0 {
			t.Errorf("%s(-3) = %v, want 0", name, got)
		}
	}
	if got := EaseInOutCubic(0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("EaseInOutCubic(0.5) = %v, want 0.5", got)
	}
}

func TestCrossfadeConservation(t *testing.T) {
	for i := 0; i <= 100; i++ {
		p := float64(i) / 100
		o, n := Crossfade(p)
		if math.Abs(o+n-1) > 1e-12 {
			t.Fatalf("Crossfade(%v) = %v + %v, want sum 1", p, o, n)
		}
	}
}

func TestTransitionLifecycle(t *testing.T) {
	var tr Transition[string]
	start := time.Unix(0, 0)
	tr.Begin("matrix", start, 800*time.Millisecond)

	if !tr.Active() || tr.Old() != "matrix" {
		t.Fatalf("after Begin: active=%v old=%q", tr.Active(), tr.Old())
	}
	o, n := tr.Update(start.Add(400 * time.Millisecond))
	if math.Abs(o-0.5) > 1e-12 || math.Abs(n-0.5) > 1e-12 {
		t.Errorf("midpoint opacities = %v, %v; want 0.5, 0.5", o, n)
	}
	o, n = tr.Update(start.Add(800 * time.Millisecond))
	if o != 0 || n != 1 {
		t.Errorf("end opacities = %v, %v; want 0, 1", o, n)
	}
	if tr.Active() {
		t.Error("transition still active at progress 1")
	}
	if tr.Old() != "" {
		t.Errorf("Old() after end = %q, want empty", tr.Old())
	}
}

func TestTransitionDefaultDuration(t *testing.T) {
	var tr Transition[int]
	start := time.Unix(0, 0)
	tr.Begin(1, start, 0)
	if got := tr.Progress(start.Add(DefaultTransition / 2)); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Progress at half default = %v, want 0.5", got)
	}
}

func TestTween(t *testing.T) {
	start := time.Unix(0, 0)
	tw := NewTween(0.6)
	tw.To(0.2, start, 0)
	if !tw.Running() {
		t.Fatal("tween not running after To")
	}
	mid := tw.Update(start.Add(DefaultTween / 2))
	if mid >= 0.6 || mid <= 0.2 {
		t.Errorf("midpoint value = %v, want strictly between 0.2 and 0.6", mid)
	}
	// Ease-out moves more than half way in the first half.
	if mid > 0.4 {
		t.Errorf("midpoint value = %v, want below linear 0.4", mid)
	}
	if got := tw.Update(start.Add(DefaultTween)); got != 0.2 {
		t.Errorf("end value = %v, want 0.2", got)
	}
	if tw.Running() {
		t.Error("tween still running after duration")
	}
}

func TestTweenSameTargetIsNoop(t *testing.T) {
	tw := NewTween(0.5)
	tw.To(0.5, time.Unix(0, 0), time.Second)
	if tw.Running() {
		t.Error("To(current) started a tween")
	}
}

func TestTweenBackToCurrentCancels(t *testing.T) {
	start := time.Unix(0, 0)
	tw := NewTween(0.6)
	tw.To(1, start, time.Second)
	tw.To(0.6, start, time.Second)
	if tw.Running() || tw.Target() != 0.6 {
		t.Fatalf("running=%v target=%v, want settled at 0.6", tw.Running(), tw.Target())
	}
	if got := tw.Update(start.Add(2 * time.Second)); got != 0.6 {
		t.Errorf("Update() = %v, want 0.6", got)
	}
}

func TestTweenSetStops(t *testing.T) {
	start := time.Unix(0, 0)
	tw := NewTween(0.1)
	tw.To(1, start, time.Second)
	tw.Set(0.3)
	if tw.Running() || tw.Value() != 0.3 || tw.Target() != 0.3 {
		t.Errorf("after Set: running=%v value=%v target=%v", tw.Running(), tw.Value(), tw.Target())
	}
}
