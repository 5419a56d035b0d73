package intro

import (
	"testing"
	"time"
)

func fixed(v float64) func() float64 { return func() float64 { return v } }

func TestDelaysGrowTowardEdges(t *testing.T) {
	var r Reveal
	r.Reset(10, fixed(0))
	d := r.Delays()
	if len(d) != 10 {
		t.Fatalf("len(Delays) = %d, want 10", len(d))
	}
	if d[5] != 0 {
		t.Errorf("centre delay = %v, want 0", d[5])
	}
	if d[0] <= d[3] {
		t.Errorf("edge delay %v not greater than inner delay %v", d[0], d[3])
	}
	if d[0] != edgeDelay {
		t.Errorf("edge delay = %v, want %v", d[0], edgeDelay)
	}
}

func TestAlphaBeforeStartIsHidden(t *testing.T) {
	var r Reveal
	r.Reset(10, fixed(0))
	start := time.Unix(0, 0)
	r.Start(start)
	if got := r.Alpha(start, 0, 0.5); got != 0 {
		t.Errorf("Alpha at t=0 = %v, want 0", got)
	}
}

func TestRevealOpensTopFirst(t *testing.T) {
	var r Reveal
	r.Reset(10, fixed(0))
	start := time.Unix(0, 0)
	r.Start(start)

	now := start.Add(400 * time.Millisecond)
	top := r.Alpha(now, 5, 0.05)
	bottom := r.Alpha(now, 5, 0.95)
	if top != 1 {
		t.Errorf("top alpha = %v, want 1", top)
	}
	if bottom != 0 {
		t.Errorf("bottom alpha = %v, want 0", bottom)
	}
}

func TestFadeBandIsSmooth(t *testing.T) {
	var r Reveal
	r.Reset(10, fixed(0))
	start := time.Unix(0, 0)
	r.Start(start)

	// Centre column: cp = 0.5, front at 0.65. A cell 0.1 below the front
	// sits in the middle of the fade band.
	got := r.Alpha(start.Add(500*time.Millisecond), 5, 0.75)
	if got <= 0 || got >= 1 {
		t.Errorf("fade band alpha = %v, want strictly between 0 and 1", got)
	}
}

func TestDeactivatesAfterDuration(t *testing.T) {
	var r Reveal
	r.Reset(10, fixed(0.9))
	start := time.Unix(0, 0)
	r.Start(start)
	r.Update(start.Add(Duration))
	if r.Active() {
		t.Fatal("reveal still active after Duration")
	}
	for col := 0; col < 10; col++ {
		if got := r.Alpha(start.Add(Duration), col, 0.99); got != 1 {
			t.Errorf("col %d alpha = %v, want 1", col, got)
		}
	}
}

func TestSkip(t *testing.T) {
	var r Reveal
	r.Reset(4, fixed(0))
	start := time.Unix(0, 0)
	r.Start(start)
	r.Skip()
	if got := r.Alpha(start, 0, 0.9); got != 1 {
		t.Errorf("Alpha after Skip = %v, want 1", got)
	}
}
