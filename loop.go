package gridfx

import (
	"time"

	"github.com/gogpu/gridfx/effect"
)

// timeStep is the simulation time added per painted frame at speed 1.
const timeStep = 0.016

// PointerInterval is the minimum spacing between accepted pointer
// notifications. Closer ones are dropped.
const PointerInterval = 33 * time.Millisecond

// pendingInput collects host notifications between ticks. Last write wins.
type pendingInput struct {
	resize        bool
	width, height int

	pointer bool
	px, py  float64
}

// NotifyResize records a new surface size in pixels. It is applied at the
// start of the next tick or static frame. Safe from any goroutine.
func (r *Renderer) NotifyResize(width, height int) {
	r.mu.Lock()
	r.pending.resize = true
	r.pending.width, r.pending.height = width, height
	r.mu.Unlock()
}

// NotifyPointer records the pointer position in surface pixels.
// Notifications closer than PointerInterval to the previously accepted
// one are dropped. Safe from any goroutine.
func (r *Renderer) NotifyPointer(x, y float64) {
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.lastPointer.IsZero() && now.Sub(r.lastPointer) < PointerInterval {
		return
	}
	r.lastPointer = now
	r.pending.pointer = true
	r.pending.px, r.pending.py = x, y
}

// NotifyVisibility pauses the loop when the surface is hidden and resumes
// it when shown again, unless the renderer was stopped.
func (r *Renderer) NotifyVisibility(visible bool) {
	if r.destroyed {
		return
	}
	if !visible {
		r.Pause()
		return
	}
	if !r.running || !r.paused {
		return
	}
	r.paused = false
	r.lastFrame = time.Time{}
	r.quality.Resume()
	r.schedule()
}

func (r *Renderer) applyPending() {
	r.mu.Lock()
	in := r.pending
	r.pending = pendingInput{}
	r.mu.Unlock()

	if in.resize {
		r.applyResize(in.width, in.height)
	}
	if in.pointer && r.width > 0 && r.height > 0 {
		r.pointer = effect.Pointer{
			X: clamp(in.px/float64(r.width), 0, 1),
			Y: clamp(in.py/float64(r.height), 0, 1),
		}
	}
}

func (r *Renderer) applyResize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	if err := r.painter.Resize(width, height); err != nil {
		Logger().Warn("gridfx: painter resize failed", "width", width, "height", height, "err", err)
	}
	r.updateGrid(false)
}

func (r *Renderer) schedule() {
	if r.scheduled || r.destroyed {
		return
	}
	r.frameID = r.sched.RequestFrame(r.onFrame)
	r.scheduled = true
}

func (r *Renderer) onFrame(now time.Time) {
	r.scheduled = false
	if r.destroyed || !r.running || r.paused {
		return
	}
	r.schedule()
	r.Step(now)
}

// Step runs one tick: it applies pending input, paces against the quality
// interval, adapts quality, advances the simulation and paints. It returns
// true when a frame was painted.
func (r *Renderer) Step(now time.Time) bool {
	if r.destroyed {
		return false
	}
	r.applyPending()

	interval := r.quality.Settings().FrameInterval
	if !r.lastFrame.IsZero() {
		elapsed := now.Sub(r.lastFrame)
		if elapsed < interval {
			return false
		}
		r.lastFrame = now.Add(-(elapsed % interval))
	} else {
		r.lastFrame = now
	}

	r.metrics = r.quality.Tick(now)
	before := r.quality.Level()
	if after := r.quality.CheckAndAdapt(); after != before {
		r.metrics.Quality = after
		Logger().Info("gridfx: quality changed", "from", before.String(), "to", after.String(), "fps", r.metrics.FPS)
	}

	r.time += timeStep * r.speed
	r.advance(now)

	if err := r.paint(now); err != nil {
		Logger().Warn("gridfx: paint failed", "err", err)
	}
	return true
}

// advance updates the time-dependent state that is not a pure function of
// the simulation clock.
func (r *Renderer) advance(now time.Time) {
	r.intensity.Update(now)
	r.explosions.Update(now, r.speed)
	if r.quality.Settings().EffectsEnabled && r.uses(effect.Glitch) {
		r.trail.Update(now, r.pointer)
	}
	if r.uses(effect.Matrix) {
		r.rain.Step(r.speed, r.rnd.Float64)
	}
}

// uses reports whether k is drawn this frame, as the active effect or the
// outgoing side of a crossfade.
func (r *Renderer) uses(k effect.Kind) bool {
	return r.effect == k || (r.transition.Active() && r.transition.Old() == k)
}
