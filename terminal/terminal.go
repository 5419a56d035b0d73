// Package terminal paints gridfx frames onto a tcell screen, one frame
// cell per terminal cell.
package terminal

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/gridfx"
)

// cellAspect is the width of a glyph cell relative to the font size.
const cellAspect = 0.6

// Painter draws frames on a tcell screen. The screen is owned by the host;
// Close does not finalize it.
type Painter struct {
	screen tcell.Screen
	cols   int
	rows   int
	best   []slot
	frames int
}

// slot is the strongest cell that landed on a terminal cell.
type slot struct {
	glyph rune
	color gridfx.Color
	alpha float64
	set   bool
}

// New returns a painter on screen, which must already be initialized.
func New(screen tcell.Screen) (*Painter, error) {
	if screen == nil {
		return nil, fmt.Errorf("terminal: %w", gridfx.ErrContextUnavailable)
	}
	return &Painter{screen: screen}, nil
}

// PixelSize returns the virtual pixel size that makes a renderer with
// fontSize lay out exactly cols×rows cells.
func PixelSize(cols, rows int, fontSize float64) (width, height int) {
	cw := fontSize * cellAspect
	width = int(float64(cols)*cw + cw/2)
	height = int(float64(rows)*fontSize + fontSize/2)
	return width, height
}

// Frames returns the number of painted frames.
func (p *Painter) Frames() int { return p.frames }

// Resize is a no-op; the grid follows the screen size.
func (p *Painter) Resize(int, int) error { return nil }

// Paint maps every frame cell to the nearest terminal cell. When several
// land on the same cell the most opaque wins. The foreground is the cell
// color blended over the background by alpha.
func (p *Painter) Paint(f *gridfx.Frame) error {
	p.frames++
	p.cols, p.rows = p.screen.Size()
	n := p.cols * p.rows
	if cap(p.best) < n {
		p.best = make([]slot, n)
	}
	p.best = p.best[:n]
	clear(p.best)

	for _, c := range f.Cells {
		col, row := f.Col(c), f.Row(c)
		if col < 0 || row < 0 || col >= p.cols || row >= p.rows {
			continue
		}
		s := &p.best[row*p.cols+col]
		if !s.set || c.Alpha > s.alpha {
			*s = slot{glyph: c.Glyph, color: c.Color, alpha: c.Alpha, set: true}
		}
	}

	bg := tcellColor(f.Background)
	blank := tcell.StyleDefault.Background(bg).Foreground(bg)
	for row := 0; row < p.rows; row++ {
		for col := 0; col < p.cols; col++ {
			s := p.best[row*p.cols+col]
			if !s.set {
				p.screen.SetContent(col, row, ' ', nil, blank)
				continue
			}
			fg := Blend(f.Background, s.color, s.alpha)
			p.screen.SetContent(col, row, s.glyph, nil, tcell.StyleDefault.Background(bg).Foreground(tcellColor(fg)))
		}
	}
	p.screen.Show()
	return nil
}

// Close releases the cell buffer.
func (p *Painter) Close() error {
	p.best = nil
	return nil
}

// Blend returns fg over bg at opacity alpha.
func Blend(bg, fg gridfx.Color, alpha float64) gridfx.Color {
	return bg.Lerp(fg, math.Max(0, math.Min(1, alpha)))
}

func tcellColor(c gridfx.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
