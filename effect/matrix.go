package effect

import (
	"math"

	"github.com/gogpu/gridfx/charset"
)

// Matrix rain tuning.
const (
	minStreak       = 5
	streakSpread    = 15
	minFallSpeed    = 0.3
	fallSpeedSpread = 0.5
	headMutation    = 0.08
	trailMutation   = 0.02
	headAlpha       = 0.95
	trailAlpha      = 0.6
	glowRadius      = 0.15
	glowGain        = 0.4
)

// Column is one falling streak. Glyphs[len-1] is the head.
type Column struct {
	Y      float64
	Speed  float64
	Glyphs []rune
}

// Rain is the matrix effect state: one column per grid column.
type Rain struct {
	columns []Column
	glyphs  charset.Set
	rows    int
}

// NewRain returns an empty rain drawing glyphs from set.
func NewRain(set charset.Set) *Rain {
	return &Rain{glyphs: set}
}

// Reset rebuilds every column for a cols×rows grid.
func (r *Rain) Reset(cols, rows int, rnd func() float64) {
	r.rows = rows
	r.columns = make([]Column, cols)
	for i := range r.columns {
		n := int(math.Floor(rnd()*streakSpread)) + minStreak
		glyphs := make([]rune, n)
		for j := range glyphs {
			glyphs[j] = r.randomGlyph(rnd)
		}
		r.columns[i] = Column{
			Y:      -rnd() * float64(rows),
			Speed:  rnd()*fallSpeedSpread + minFallSpeed,
			Glyphs: glyphs,
		}
	}
}

func (r *Rain) randomGlyph(rnd func() float64) rune {
	return r.glyphs.At(int(rnd() * float64(r.glyphs.Len())))
}

// Columns returns the columns. The slice must not be modified.
func (r *Rain) Columns() []Column { return r.columns }

// Glyphs returns the glyph set the rain draws from.
func (r *Rain) Glyphs() charset.Set { return r.glyphs }

// Step mutates visible glyphs and advances every column by its speed
// times speedMul. A column that has fully left the grid restarts above
// the top with a new speed.
func (r *Rain) Step(speedMul float64, rnd func() float64) {
	for i := range r.columns {
		col := &r.columns[i]
		n := len(col.Glyphs)
		top := int(math.Floor(col.Y))
		for j := range col.Glyphs {
			if row := top + j; row < 0 || row >= r.rows {
				continue
			}
			chance := trailMutation
			if j == n-1 {
				chance = headMutation
			}
			if rnd() < chance {
				col.Glyphs[j] = r.randomGlyph(rnd)
			}
		}

		col.Y += col.Speed * speedMul
		if col.Y > float64(r.rows+n) {
			col.Y = -float64(n)
			col.Speed = rnd()*fallSpeedSpread + minFallSpeed
		}
	}
}

// Cell is one visible glyph of the rain.
type Cell struct {
	Col, Row int
	Glyph    rune
	Sample   Sample
}

// Each calls fn for every glyph of every column that lies inside the grid.
func (r *Rain) Each(g Grid, p Params, fn func(Cell)) {
	for i, col := range r.columns {
		n := len(col.Glyphs)
		top := int(math.Floor(col.Y))
		for j, glyph := range col.Glyphs {
			row := top + j
			if row < 0 || row >= r.rows || row >= g.Rows {
				continue
			}
			s := Sample{Density: float64(j) / float64(n)}
			if j == n-1 {
				s.Alpha = headAlpha * p.Intensity
				s.Highlight = true
			} else {
				s.Alpha = float64(j) / float64(n) * trailAlpha * p.Intensity
			}
			if p.Detail {
				nx, ny := g.Norm(i, row)
				if d := math.Hypot(nx-p.Pointer.X, ny-p.Pointer.Y); d < glowRadius {
					s.Alpha = math.Min(1, s.Alpha+(1-d/glowRadius)*glowGain*p.Intensity)
				}
			}
			fn(Cell{Col: i, Row: row, Glyph: glyph, Sample: s})
		}
	}
}
