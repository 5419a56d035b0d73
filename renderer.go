package gridfx

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gridfx/charset"
	"github.com/gogpu/gridfx/effect"
	"github.com/gogpu/gridfx/internal/anim"
	"github.com/gogpu/gridfx/internal/explosion"
	"github.com/gogpu/gridfx/internal/intro"
	"github.com/gogpu/gridfx/quality"
)

// Cell footprint relative to the font size.
const (
	cellWidthRatio  = 0.6
	cellHeightRatio = 1.0
)

// Renderer animates a character grid and paints it through a Painter.
//
// A Renderer is driven by its Scheduler. Except for NotifyResize and
// NotifyPointer, methods must be called from the goroutine that runs the
// scheduler's callbacks.
type Renderer struct {
	painter Painter
	sched   Scheduler
	clock   Clock
	rnd     Rand

	mu          sync.Mutex // guards pending and lastPointer
	pending     pendingInput
	lastPointer time.Time

	glyphs        charset.Set
	fontSize      float64
	primary       Color
	background    Color
	effect        effect.Kind
	speed         float64
	intensity     anim.Tween
	reducedMotion bool
	transitionDur time.Duration

	width, height int
	grid          effect.Grid
	pointer       effect.Pointer

	time      float64
	quality   *quality.Controller
	lastFrame time.Time
	metrics   quality.Metrics

	transition anim.Transition[effect.Kind]
	rain       *effect.Rain
	trail      effect.Trail
	explosions explosion.Set
	intro      intro.Reveal

	frame     Frame
	frameID   FrameID
	scheduled bool
	running   bool
	paused    bool
	destroyed bool
	detach    []func()
}

// New creates a renderer painting through p. It returns
// ErrContextUnavailable when p is nil.
func New(p Painter, opts ...Option) (*Renderer, error) {
	if p == nil {
		return nil, fmt.Errorf("gridfx: new renderer: %w", ErrContextUnavailable)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{
		painter:       p,
		sched:         o.scheduler,
		clock:         o.clock,
		rnd:           o.rand,
		glyphs:        charset.Get(o.charset),
		fontSize:      clamp(o.fontSize, MinFontSize, MaxFontSize),
		primary:       Hex(o.color),
		background:    Hex(o.background),
		speed:         clamp(o.speed, MinSpeed, MaxSpeed),
		intensity:     anim.NewTween(clamp(o.intensity, MinIntensity, MaxIntensity)),
		reducedMotion: o.reducedMotion,
		transitionDur: o.transition,
		pointer:       effect.Pointer{X: 0.5, Y: 0.5},
		rain:          effect.NewRain(charset.Get(charset.Matrix)),
	}
	r.effect, _ = effect.Parse(o.effect)

	if r.sched == nil {
		r.sched = NewTickerScheduler(0)
	}
	if r.clock == nil {
		if c, ok := r.sched.(Clock); ok {
			r.clock = c
		} else {
			r.clock = SystemClock{}
		}
	}
	if r.rnd == nil {
		r.rnd = globalRand{}
	}

	level := quality.DefaultLevel
	if o.quality != nil {
		level = *o.quality
	}
	r.quality = quality.NewController(level)
	r.metrics = r.quality.Metrics()

	if o.width > 0 || o.height > 0 {
		r.applyResize(o.width, o.height)
	}
	for _, l := range o.listeners {
		if l == nil {
			continue
		}
		if d := l(); d != nil {
			r.detach = append(r.detach, d)
		}
	}

	Logger().Debug("gridfx: renderer created",
		"effect", r.effect.String(),
		"charset", r.glyphs.Name(),
		"quality", level.String())
	return r, nil
}

// Scheduler returns the scheduler driving the renderer. Hosts that did not
// supply one run the returned *TickerScheduler themselves.
func (r *Renderer) Scheduler() Scheduler { return r.sched }

// Start resets the intro and starts the frame loop. Under reduced motion
// it paints one static frame instead.
func (r *Renderer) Start() {
	if r.destroyed {
		return
	}
	r.applyPending()
	r.running = true
	r.paused = false
	r.intro.Reset(r.grid.Cols, r.rnd.Float64)
	r.intro.Start(r.clock.Now())

	if r.reducedMotion {
		r.intro.Skip()
		if err := r.RenderStaticFrame(); err != nil {
			Logger().Warn("gridfx: static frame failed", "err", err)
		}
		return
	}
	Logger().Info("gridfx: started", "cols", r.grid.Cols, "rows", r.grid.Rows)
	r.schedule()
}

// Pause cancels the pending frame. The renderer stays running, so a later
// visibility change can resume it.
func (r *Renderer) Pause() {
	if r.scheduled {
		r.sched.CancelFrame(r.frameID)
		r.scheduled = false
	}
	r.paused = true
}

// Stop halts the loop and suppresses visibility-driven resume.
func (r *Renderer) Stop() {
	r.running = false
	r.Pause()
}

// Running reports whether the renderer was started and not stopped.
func (r *Renderer) Running() bool { return r.running }

// RenderStaticFrame applies pending input and paints exactly one frame
// without starting the loop or advancing time.
func (r *Renderer) RenderStaticFrame() error {
	if r.destroyed {
		return ErrDestroyed
	}
	r.applyPending()
	return r.paint(r.clock.Now())
}

// SetEffect switches effects with a crossfade. Unknown names select wave.
func (r *Renderer) SetEffect(name string) {
	k, ok := effect.Parse(name)
	if !ok {
		Logger().Debug("gridfx: unknown effect, using wave", "name", name)
	}
	if k == r.effect {
		return
	}
	r.transition.Begin(r.effect, r.clock.Now(), r.transitionDur)
	r.effect = k
	if k == effect.Matrix {
		r.rain.Reset(r.grid.Cols, r.grid.Rows, r.rnd.Float64)
	}
}

// Effect returns the name of the active effect.
func (r *Renderer) Effect() string { return r.effect.String() }

// SetColor sets the primary color. Invalid input selects Emerald.
func (r *Renderer) SetColor(hex string) { r.primary = Hex(hex) }

// SetBackground sets the background color. Invalid input selects Emerald.
func (r *Renderer) SetBackground(hex string) { r.background = Hex(hex) }

// SetSpeed sets the animation speed, clamped to [0.25, 3].
func (r *Renderer) SetSpeed(v float64) { r.speed = clamp(v, MinSpeed, MaxSpeed) }

// Speed returns the animation speed.
func (r *Renderer) Speed() float64 { return r.speed }

// SetIntensity sets the intensity immediately, clamped to [0.1, 1]. Any
// running tween is cancelled.
func (r *Renderer) SetIntensity(v float64) {
	r.intensity.Set(clamp(v, MinIntensity, MaxIntensity))
}

// SetIntensityAnimated eases the intensity toward v over d with an
// ease-out curve. d <= 0 uses 500ms.
func (r *Renderer) SetIntensityAnimated(v float64, d time.Duration) {
	r.intensity.To(clamp(v, MinIntensity, MaxIntensity), r.clock.Now(), d)
}

// Intensity returns the current intensity.
func (r *Renderer) Intensity() float64 { return r.intensity.Value() }

// SetFontSize changes the font size, clamped to [10, 20], and rebuilds the
// grid.
func (r *Renderer) SetFontSize(px float64) {
	px = clamp(px, MinFontSize, MaxFontSize)
	if px == r.fontSize {
		return
	}
	r.fontSize = px
	r.updateGrid(true)
}

// FontSize returns the font size in pixels.
func (r *Renderer) FontSize() float64 { return r.fontSize }

// TriggerExplosion starts a disturbance at normalized (x, y).
func (r *Renderer) TriggerExplosion(x, y float64) {
	e := r.explosions.Trigger(r.clock.Now(), clamp(x, 0, 1), clamp(y, 0, 1), r.grid.Cols, r.rnd.Float64)
	Logger().Debug("gridfx: explosion", "x", e.X, "y", e.Y, "active", r.explosions.Len())
}

// Explosions returns the number of active explosions.
func (r *Renderer) Explosions() int { return r.explosions.Len() }

// SkipIntro ends the intro reveal immediately.
func (r *Renderer) SkipIntro() { r.intro.Skip() }

// IntroActive reports whether the intro still gates cell visibility.
func (r *Renderer) IntroActive() bool { return r.intro.Active() }

// PerformanceMetrics returns the latest frame-rate snapshot.
func (r *Renderer) PerformanceMetrics() quality.Metrics { return r.metrics }

// LockQuality pins the quality level and stops adaptation.
func (r *Renderer) LockQuality(l quality.Level) {
	r.quality.Lock(l)
	r.metrics.Quality = r.quality.Level()
}

// UnlockQuality resumes adaptation.
func (r *Renderer) UnlockQuality() { r.quality.Unlock() }

// Quality returns the current quality level.
func (r *Renderer) Quality() quality.Level { return r.quality.Level() }

// Grid returns the current grid size.
func (r *Renderer) Grid() effect.Grid { return r.grid }

// Time returns the simulation time.
func (r *Renderer) Time() float64 { return r.time }

// Destroy stops the loop, detaches every listener and closes the painter.
// Calls after the first do nothing.
func (r *Renderer) Destroy() error {
	if r.destroyed {
		return nil
	}
	r.Stop()
	r.destroyed = true
	for _, d := range r.detach {
		d()
	}
	r.detach = nil
	r.explosions.Clear()

	Logger().Info("gridfx: destroyed")
	if err := r.painter.Close(); err != nil {
		return fmt.Errorf("gridfx: close painter: %w", err)
	}
	return nil
}

// updateGrid recomputes cols and rows from the pixel size. Per-column
// state is rebuilt when the grid changed or force is set.
func (r *Renderer) updateGrid(force bool) {
	cw, ch := r.cellSize()
	g := effect.Grid{
		Cols: int(math.Floor(float64(r.width) / cw)),
		Rows: int(math.Floor(float64(r.height) / ch)),
	}
	if g.Cols < 0 {
		g.Cols = 0
	}
	if g.Rows < 0 {
		g.Rows = 0
	}
	if g == r.grid && !force {
		return
	}
	colsChanged := g.Cols != r.grid.Cols
	r.grid = g
	r.rain.Reset(g.Cols, g.Rows, r.rnd.Float64)
	if colsChanged || force {
		r.intro.Reset(g.Cols, r.rnd.Float64)
	}
	Logger().Debug("gridfx: grid", "cols", g.Cols, "rows", g.Rows, "font_size", r.fontSize)
}

func (r *Renderer) cellSize() (w, h float64) {
	return r.fontSize * cellWidthRatio, r.fontSize * cellHeightRatio
}
