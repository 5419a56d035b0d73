package gridfx

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gridfx/effect"
	"github.com/gogpu/gridfx/quality"
)

// recordPainter keeps a copy of the last painted frame.
type recordPainter struct {
	resizes [][2]int
	frames  int
	last    []Cell
	closed  int
	err     error
}

func (p *recordPainter) Resize(w, h int) error {
	p.resizes = append(p.resizes, [2]int{w, h})
	return nil
}

func (p *recordPainter) Paint(f *Frame) error {
	p.frames++
	p.last = append(p.last[:0], f.Cells...)
	return p.err
}

func (p *recordPainter) Close() error {
	p.closed++
	return nil
}

var epoch = time.Unix(1_700_000_000, 0)

func newTestRenderer(t *testing.T, opts ...Option) (*Renderer, *recordPainter, *ManualScheduler) {
	t.Helper()
	p := &recordPainter{}
	s := NewManualScheduler(epoch)
	base := []Option{WithScheduler(s), WithRand(NewSeededRand(7)), WithSize(800, 600)}
	r, err := New(p, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return r, p, s
}

func TestNewNilPainter(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrContextUnavailable) {
		t.Errorf("New(nil) error = %v, want ErrContextUnavailable", err)
	}
}

func TestNewDefaults(t *testing.T) {
	r, p, _ := newTestRenderer(t)
	if r.Effect() != "wave" || r.Speed() != 1 || r.Intensity() != 0.6 || r.FontSize() != 14 {
		t.Errorf("defaults: effect=%s speed=%v intensity=%v font=%v", r.Effect(), r.Speed(), r.Intensity(), r.FontSize())
	}
	if r.Quality() != quality.High {
		t.Errorf("Quality() = %v, want high", r.Quality())
	}
	if g := r.Grid(); g != (effect.Grid{Cols: 95, Rows: 42}) {
		t.Errorf("Grid() = %+v, want 95x42", g)
	}
	if len(p.resizes) != 1 {
		t.Errorf("painter resized %d times, want 1", len(p.resizes))
	}
}

func TestSetSpeedClamps(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	tests := []struct{ in, want float64 }{
		{0, 0.25}, {0.1, 0.25}, {1.5, 1.5}, {3, 3}, {10, 3},
	}
	for _, tt := range tests {
		r.SetSpeed(tt.in)
		if r.Speed() != tt.want {
			t.Errorf("SetSpeed(%v): Speed() = %v, want %v", tt.in, r.Speed(), tt.want)
		}
	}
}

func TestSetIntensityClamps(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	tests := []struct{ in, want float64 }{
		{-1, 0.1}, {0.05, 0.1}, {0.5, 0.5}, {1, 1}, {4, 1},
	}
	for _, tt := range tests {
		r.SetIntensity(tt.in)
		if r.Intensity() != tt.want {
			t.Errorf("SetIntensity(%v): Intensity() = %v, want %v", tt.in, r.Intensity(), tt.want)
		}
	}
}

func TestSetFontSizeRebuildsGrid(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	r.SetFontSize(40)
	if r.FontSize() != 20 {
		t.Fatalf("FontSize() = %v, want 20", r.FontSize())
	}
	if g := r.Grid(); g != (effect.Grid{Cols: 66, Rows: 30}) {
		t.Errorf("Grid() = %+v, want 66x30", g)
	}
	if n := len(r.rain.Columns()); n != 66 {
		t.Errorf("rain columns = %d, want 66", n)
	}
}

func TestResizeIdempotent(t *testing.T) {
	r, p, _ := newTestRenderer(t)
	r.Step(epoch)
	g, tm := r.Grid(), r.Time()

	r.NotifyResize(800, 600)
	if err := r.RenderStaticFrame(); err != nil {
		t.Fatal(err)
	}
	r.NotifyResize(800, 600)
	if err := r.RenderStaticFrame(); err != nil {
		t.Fatal(err)
	}
	if r.Grid() != g || r.Time() != tm {
		t.Errorf("after same-size resize: grid %+v time %v, want %+v %v", r.Grid(), r.Time(), g, tm)
	}
	if len(p.resizes) != 1 {
		t.Errorf("painter resized %d times, want 1", len(p.resizes))
	}

	r.NotifyResize(400, 280)
	r.NotifyResize(430, 280) // last write wins
	if err := r.RenderStaticFrame(); err != nil {
		t.Fatal(err)
	}
	if got := r.Grid(); got != (effect.Grid{Cols: 51, Rows: 20}) {
		t.Errorf("Grid() = %+v, want 51x20", got)
	}
	if r.Time() != tm {
		t.Errorf("resize changed time: %v, want %v", r.Time(), tm)
	}
}

func TestResizeToZero(t *testing.T) {
	r, p, _ := newTestRenderer(t)
	r.NotifyResize(0, 0)
	if err := r.RenderStaticFrame(); err != nil {
		t.Fatal(err)
	}
	if g := r.Grid(); g.Cols != 0 || g.Rows != 0 {
		t.Errorf("Grid() = %+v, want empty", g)
	}
	if len(p.last) != 0 {
		t.Errorf("painted %d cells on an empty grid", len(p.last))
	}
}

func TestStepPacing(t *testing.T) {
	r, p, _ := newTestRenderer(t, WithQuality(quality.Medium)) // 33ms
	if !r.Step(epoch) {
		t.Fatal("first Step should paint")
	}
	if r.Step(epoch.Add(16 * time.Millisecond)) {
		t.Error("Step under the interval painted")
	}
	if !r.Step(epoch.Add(34 * time.Millisecond)) {
		t.Error("Step past the interval did not paint")
	}
	if p.frames != 2 {
		t.Errorf("frames = %d, want 2", p.frames)
	}
	if want := 2 * timeStep; r.Time() != want {
		t.Errorf("Time() = %v, want %v", r.Time(), want)
	}

	r.SetSpeed(2)
	r.Step(epoch.Add(70 * time.Millisecond))
	if want := 4 * timeStep; r.Time() < want-1e-12 || r.Time() > want+1e-12 {
		t.Errorf("Time() = %v, want %v", r.Time(), want)
	}
}

func TestLoopRunsThroughScheduler(t *testing.T) {
	r, p, s := newTestRenderer(t)
	r.Start()
	s.Run(10, 40*time.Millisecond)
	if p.frames != 10 {
		t.Errorf("frames = %d, want 10", p.frames)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want one rescheduled frame", s.Pending())
	}
	if m := r.PerformanceMetrics(); m.FPS != 25 || m.FrameTime != 40 {
		t.Errorf("PerformanceMetrics() = %+v, want 25 fps, 40ms", m)
	}
}

func TestQualityDowngradesUnderSlowFrames(t *testing.T) {
	r, _, s := newTestRenderer(t)
	r.Start()
	s.Run(quality.DefaultWindow+4, 60*time.Millisecond)
	if r.Quality() != quality.Low {
		t.Errorf("Quality() = %v, want low", r.Quality())
	}

	r.LockQuality(quality.Ultra)
	s.Run(quality.DefaultWindow+2, 60*time.Millisecond)
	if r.Quality() != quality.Ultra {
		t.Errorf("locked Quality() = %v, want ultra", r.Quality())
	}
}

func TestQualityUpgradesOnFastHost(t *testing.T) {
	r, _, s := newTestRenderer(t)
	r.Start()
	// Ticks every 8ms; High paces paints to 16ms, about 62 fps.
	s.Run(4*quality.DefaultWindow, 8*time.Millisecond)
	if r.Quality() != quality.Ultra {
		t.Errorf("Quality() = %v, want ultra", r.Quality())
	}
	if m := r.PerformanceMetrics(); m.FPS < int(quality.UpgradeAbove) {
		t.Errorf("FPS = %d, want above %v", m.FPS, quality.UpgradeAbove)
	}
}

func TestLowQualitySkipsCells(t *testing.T) {
	r, p, _ := newTestRenderer(t)
	r.LockQuality(quality.Low)
	r.Step(epoch)
	if len(p.last) == 0 {
		t.Fatal("no cells painted")
	}
	cw, ch := r.cellSize()
	for _, c := range p.last {
		col, row := roundInt(c.X/cw), roundInt(c.Y/ch)
		if col%2 != 0 || row%2 != 0 {
			t.Fatalf("cell at (%d,%d) painted with CellSkip 2", col, row)
		}
	}
}

func TestReducedMotionStaticFrame(t *testing.T) {
	r, p, s := newTestRenderer(t, WithReducedMotion(true))
	r.Start()
	if p.frames != 1 {
		t.Errorf("frames = %d, want 1", p.frames)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
	if r.IntroActive() {
		t.Error("intro should be skipped under reduced motion")
	}
	if r.Time() != 0 {
		t.Errorf("static frame advanced time to %v", r.Time())
	}
}

func TestVisibilityResume(t *testing.T) {
	r, _, s := newTestRenderer(t)
	r.Start()

	r.NotifyVisibility(false)
	if s.Pending() != 0 {
		t.Fatalf("hidden: Pending() = %d, want 0", s.Pending())
	}
	r.NotifyVisibility(true)
	if s.Pending() != 1 {
		t.Fatalf("shown: Pending() = %d, want 1", s.Pending())
	}

	r.Stop()
	r.NotifyVisibility(true)
	if s.Pending() != 0 {
		t.Errorf("stopped renderer resumed on visibility")
	}
	if r.Running() {
		t.Error("Running() after Stop")
	}
}

func TestPauseKeepsRunning(t *testing.T) {
	r, p, s := newTestRenderer(t)
	r.Start()
	r.Pause()
	s.Run(3, 40*time.Millisecond)
	if p.frames != 0 {
		t.Errorf("paused renderer painted %d frames", p.frames)
	}
	if !r.Running() {
		t.Error("Pause cleared Running")
	}
}

func TestPointerCoalescing(t *testing.T) {
	r, _, s := newTestRenderer(t)
	r.NotifyPointer(0, 0)
	r.NotifyPointer(800, 600) // dropped: same instant
	r.applyPending()
	if r.pointer != (effect.Pointer{}) {
		t.Errorf("pointer = %+v, want origin", r.pointer)
	}

	s.Advance(PointerInterval)
	r.NotifyPointer(400, 150)
	r.applyPending()
	if r.pointer != (effect.Pointer{X: 0.5, Y: 0.25}) {
		t.Errorf("pointer = %+v, want {0.5 0.25}", r.pointer)
	}
}

func TestCrossfadeLayers(t *testing.T) {
	r, _, s := newTestRenderer(t)
	r.Step(epoch)
	r.SetEffect("pulse")
	if !r.transition.Active() || r.transition.Old() != effect.Wave {
		t.Fatalf("transition = active %v old %v", r.transition.Active(), r.transition.Old())
	}
	r.SetEffect("pulse")
	if !r.transition.Active() || r.transition.Old() != effect.Wave {
		t.Errorf("re-selecting mid-transition: active %v old %v, want wave fading out", r.transition.Active(), r.transition.Old())
	}

	s.Advance(900 * time.Millisecond)
	r.Step(s.Now())
	if r.transition.Active() {
		t.Error("transition still active after its duration")
	}
}

func TestSetEffectSameIsNoop(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	r.SetEffect("wave")
	if r.transition.Active() {
		t.Error("SetEffect to the current effect started a transition")
	}
	r.SetEffect("sparkle")
	if r.Effect() != "wave" || r.transition.Active() {
		t.Errorf("unknown effect: Effect() = %s, transition %v", r.Effect(), r.transition.Active())
	}
}

func TestMatrixThenWaveSettlesOnWave(t *testing.T) {
	r, p, s := newTestRenderer(t, WithColor("#00ff00"))
	r.LockQuality(quality.High)
	r.Step(epoch)

	r.SetEffect("matrix")
	r.SetEffect("wave")
	if r.transition.Old() != effect.Matrix {
		t.Fatalf("old = %v, want matrix", r.transition.Old())
	}

	for i := 0; i < 60; i++ {
		s.Advance(20 * time.Millisecond)
		r.Step(s.Now())
	}
	if r.transition.Active() || r.Effect() != "wave" {
		t.Fatalf("steady state: effect %s, transition %v", r.Effect(), r.transition.Active())
	}
	if r.uses(effect.Matrix) {
		t.Error("matrix still in use")
	}
	for _, c := range p.last {
		if c.Color == White {
			t.Fatal("matrix head painted after the transition finished")
		}
	}
}

func TestExplosionLifetimeRestoresFrame(t *testing.T) {
	disturbed, dp, ds := newTestRenderer(t)
	calm, cp, cs := newTestRenderer(t)
	for _, r := range []*Renderer{disturbed, calm} {
		r.LockQuality(quality.High)
	}

	disturbed.TriggerExplosion(0.5, 0.5)
	step := 20 * time.Millisecond
	sawHole := false
	for i := 0; i < 300; i++ {
		ds.Advance(step)
		cs.Advance(step)
		disturbed.Step(ds.Now())
		calm.Step(cs.Now())
		if i == 50 && len(dp.last) < len(cp.last) {
			sawHole = true
		}
	}
	if !sawHole {
		t.Error("explosion did not occlude any cells")
	}
	if disturbed.Explosions() != 0 {
		t.Fatalf("Explosions() = %d after lifetime, want 0", disturbed.Explosions())
	}
	if len(dp.last) != len(cp.last) {
		t.Fatalf("cells = %d, want %d", len(dp.last), len(cp.last))
	}
	for i := range dp.last {
		if dp.last[i] != cp.last[i] {
			t.Fatalf("cell %d = %+v, want %+v", i, dp.last[i], cp.last[i])
		}
	}
}

func TestExplosionOccludesGlitchPointerBoost(t *testing.T) {
	for _, name := range []string{"wave", "glitch"} {
		t.Run(name, func(t *testing.T) {
			r, p, s := newTestRenderer(t, WithEffect(name))
			r.LockQuality(quality.High)
			r.NotifyPointer(400, 300)
			r.TriggerExplosion(0.5, 0.5)
			// 1.2s into the expanding phase the radius is 2.4, so every
			// cell lies inside the hole.
			for i := 0; i < 60; i++ {
				s.Advance(20 * time.Millisecond)
				r.Step(s.Now())
			}
			if r.Explosions() != 1 {
				t.Fatalf("Explosions() = %d, want 1", r.Explosions())
			}
			if len(p.last) != 0 {
				t.Errorf("%d cells visible inside the explosion hole, first %+v", len(p.last), p.last[0])
			}
		})
	}
}

func TestIntensityTweenEndpoint(t *testing.T) {
	r, _, s := newTestRenderer(t)
	r.SetIntensityAnimated(1, 0)
	s.Advance(250 * time.Millisecond)
	r.Step(s.Now())
	mid := r.Intensity()
	if mid <= 0.6 || mid >= 1 {
		t.Errorf("mid-tween Intensity() = %v, want in (0.6, 1)", mid)
	}
	s.Advance(300 * time.Millisecond)
	r.Step(s.Now())
	if r.Intensity() != 1 {
		t.Errorf("Intensity() = %v, want 1", r.Intensity())
	}

	r.SetIntensityAnimated(0.3, time.Second)
	r.SetIntensity(0.5)
	s.Advance(2 * time.Second)
	r.Step(s.Now())
	if r.Intensity() != 0.5 {
		t.Errorf("SetIntensity did not cancel the tween: %v", r.Intensity())
	}
}

func TestIntroOpensAfterOneSecond(t *testing.T) {
	r, p, s := newTestRenderer(t)
	r.LockQuality(quality.High)
	r.Start()
	s.Advance(20 * time.Millisecond)
	early := len(p.last)
	s.Run(60, 20*time.Millisecond)
	if r.IntroActive() {
		t.Fatal("intro still active after 1.2s")
	}
	if early >= len(p.last) {
		t.Errorf("intro did not hide cells: early %d, final %d", early, len(p.last))
	}

	r.SkipIntro()
	r.Start()
	r.SkipIntro()
	if r.IntroActive() {
		t.Error("SkipIntro left the intro active")
	}
}

func TestDestroyIdempotent(t *testing.T) {
	attached, detached := 0, 0
	l := func() func() {
		attached++
		return func() { detached++ }
	}
	r, p, s := newTestRenderer(t, WithListener(l), WithListener(l))
	if attached != 2 {
		t.Fatalf("attached = %d, want 2", attached)
	}
	r.Start()

	for i := 0; i < 3; i++ {
		if err := r.Destroy(); err != nil {
			t.Fatalf("Destroy() = %v", err)
		}
	}
	if detached != 2 {
		t.Errorf("detached = %d, want 2", detached)
	}
	if p.closed != 1 {
		t.Errorf("painter closed %d times, want 1", p.closed)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after Destroy", s.Pending())
	}
	if err := r.RenderStaticFrame(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("RenderStaticFrame() = %v, want ErrDestroyed", err)
	}
	if r.Step(s.Now()) {
		t.Error("Step painted after Destroy")
	}
}

func TestPaintErrorKeepsLooping(t *testing.T) {
	r, p, s := newTestRenderer(t)
	p.err = errors.New("surface lost")
	r.Start()
	s.Run(3, 40*time.Millisecond)
	if p.frames != 3 || s.Pending() != 1 {
		t.Errorf("frames = %d pending = %d, want 3 and 1", p.frames, s.Pending())
	}
}

func TestGlitchColorsCells(t *testing.T) {
	r, p, _ := newTestRenderer(t, WithEffect("glitch"), WithColor("#102030"))
	r.LockQuality(quality.High)
	r.NotifyPointer(400, 300)
	r.Step(epoch)
	inverted := false
	for _, c := range p.last {
		if c.Color == (Color{0x10, 0x20, 0x30}).Invert() {
			inverted = true
		}
	}
	if !inverted {
		t.Error("no inverted cell under the pointer")
	}
}
