package gridfx

import (
	"math"
	"time"

	"github.com/gogpu/gridfx/effect"
	"github.com/gogpu/gridfx/internal/explosion"
)

// minAlpha is the opacity at or below which a cell is not emitted.
const minAlpha = 0.01

func (r *Renderer) paint(now time.Time) error {
	return r.painter.Paint(r.compose(now))
}

// compose builds the frame for now: the outgoing effect (during a
// crossfade) then the active one, each cell passed through explosions,
// the intro gate and the layer opacity.
func (r *Renderer) compose(now time.Time) *Frame {
	cw, ch := r.cellSize()
	f := &r.frame
	f.Reset()
	f.Width, f.Height = r.width, r.height
	f.CellWidth, f.CellHeight = cw, ch
	f.FontSize = r.fontSize
	f.Cols, f.Rows = r.grid.Cols, r.grid.Rows
	f.Background = r.background
	f.Primary = r.primary
	f.Charset = r.glyphs
	f.Matrix = r.rain.Glyphs()

	if r.grid.Cols > 0 && r.grid.Rows > 0 {
		oldOpacity, newOpacity := r.transition.Update(now)
		settings := r.quality.Settings()
		p := effect.Params{
			Time:      r.time,
			Pointer:   r.pointer,
			Intensity: r.intensity.Value(),
			Detail:    settings.EffectsEnabled,
		}
		if r.transition.Active() {
			r.layer(f, r.transition.Old(), oldOpacity, p, settings.CellSkip, now)
		}
		r.layer(f, r.effect, newOpacity, p, settings.CellSkip, now)
	}

	r.intro.Update(now)
	return f
}

func (r *Renderer) layer(f *Frame, k effect.Kind, opacity float64, p effect.Params, skip int, now time.Time) {
	if opacity <= 0 {
		return
	}
	if skip < 1 {
		skip = 1
	}
	g := r.grid

	switch k {
	case effect.Matrix:
		r.rain.Each(g, p, func(c effect.Cell) {
			r.emit(f, c.Col, c.Row, c.Glyph, c.Sample, opacity, p.Intensity, now)
		})
		return
	case effect.Glitch:
		trail := &r.trail
		if !p.Detail {
			trail = nil
		}
		gf := effect.NewGlitchFrame(p, trail, now)
		r.each(g, skip, func(x, y int) {
			s := gf.At(g, x, y, r.rnd.Float64)
			r.emit(f, x, y, r.glyphs.Glyph(s.Density), s, opacity, p.Intensity, now)
		})
	case effect.Pulse:
		r.each(g, skip, func(x, y int) {
			s := effect.PulseAt(g, x, y, p)
			r.emit(f, x, y, r.glyphs.Glyph(s.Density), s, opacity, p.Intensity, now)
		})
	default:
		r.each(g, skip, func(x, y int) {
			s := effect.WaveAt(g, x, y, p)
			r.emit(f, x, y, r.glyphs.Glyph(s.Density), s, opacity, p.Intensity, now)
		})
	}
}

func (r *Renderer) each(g effect.Grid, skip int, fn func(x, y int)) {
	for y := 0; y < g.Rows; y += skip {
		for x := 0; x < g.Cols; x += skip {
			fn(x, y)
		}
	}
}

func (r *Renderer) emit(f *Frame, col, row int, glyph rune, s effect.Sample, opacity, intensity float64, now time.Time) {
	if glyph == ' ' {
		return
	}
	nx, ny := r.grid.Norm(col, row)
	c := explosion.Cell{
		Col:    col,
		NX:     nx,
		NY:     ny,
		Aspect: float64(r.grid.Cols) / float64(r.grid.Rows),
		X:      (float64(col) + s.OffsetX) * f.CellWidth,
		Y:      float64(row) * f.CellHeight,
		Alpha:  s.Alpha,
	}
	r.explosions.Apply(&c, intensity)
	// Occluded cells stay hidden; the boost only lifts survivors.
	if c.Alpha <= minAlpha {
		return
	}

	alpha := math.Min(1, c.Alpha+s.Boost)
	alpha *= r.intro.Alpha(now, col, ny)
	alpha *= opacity
	if alpha <= minAlpha {
		return
	}

	color := r.primary
	if s.Highlight {
		color = White
	}
	color = color.Shift(s.Shift)
	if s.Invert {
		color = color.Invert()
	}
	f.Cells = append(f.Cells, Cell{X: c.X, Y: c.Y, Glyph: glyph, Color: color, Alpha: alpha})
}
