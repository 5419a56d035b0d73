// Package gridfx renders procedural character-grid backgrounds.
//
// # Overview
//
// A Renderer divides a pixel surface into cells, computes a glyph, color
// and opacity for every cell from analytic functions of time and pointer
// position, and hands the result to a Painter as a backend-neutral Frame.
// Four effects are built in: wave, matrix, pulse and glitch. Switching
// effects crossfades between them.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/gridfx"
//	    "github.com/gogpu/gridfx/raster"
//	)
//
//	p, err := raster.New(800, 600)
//	if err != nil {
//	    return err
//	}
//	r, err := gridfx.New(p,
//	    gridfx.WithEffect("pulse"),
//	    gridfx.WithColor("#10b981"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer r.Destroy()
//	r.NotifyResize(800, 600)
//	r.RenderStaticFrame()
//
// # Loop
//
// The renderer is single-threaded. A Scheduler delivers frame callbacks and
// every callback calls Step. Host notifications (NotifyResize,
// NotifyPointer) may arrive from any goroutine; they are recorded as
// pending input and applied at the start of the next tick. Everything else
// must be called from the goroutine that runs the scheduler.
//
// Pacing and level of detail are adapted to the measured frame rate by the
// quality package. Pointer clicks become explosions: a ring that pushes
// glyphs outward, holds a hole open, then heals column by column.
//
// # Backends
//
// Painters live in sub-packages: raster draws into an *image.RGBA, gpu
// builds one textured quad per cell on a wgpu HAL device, and terminal
// writes cells to a tcell screen. The backend package selects one by
// priority and falls back when a backend reports ErrContextUnavailable.
//
// # Logging
//
// gridfx is silent by default. Call SetLogger to route diagnostics from the
// renderer and every backend to a slog.Logger.
package gridfx
