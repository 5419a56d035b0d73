package gridfx

import "github.com/gogpu/gridfx/charset"

// Painter draws composed frames onto a surface. Backends implement it in
// the raster, gpu and terminal packages.
type Painter interface {
	// Resize is called when the surface changes pixel size.
	Resize(width, height int) error
	// Paint draws one frame. The frame and its cells are reused by the
	// renderer and must not be retained after Paint returns.
	Paint(f *Frame) error
	// Close releases the surface. The renderer calls it once, from Destroy.
	Close() error
}

// Cell is one visible glyph in a frame.
type Cell struct {
	// X, Y is the top-left corner of the cell in pixels, after displacement.
	X, Y  float64
	Glyph rune
	Color Color
	// Alpha is the final opacity in (0.01, 1].
	Alpha float64
}

// Frame is the backend-neutral output of one tick.
type Frame struct {
	Width, Height         int
	CellWidth, CellHeight float64
	FontSize              float64
	Cols, Rows            int

	Background Color
	Primary    Color

	// Charset is the glyph set of the procedural effects. Matrix holds the
	// rain glyphs. Atlases cover both.
	Charset charset.Set
	Matrix  charset.Set

	Cells []Cell
}

// Reset truncates the cell list, keeping its storage.
func (f *Frame) Reset() {
	f.Cells = f.Cells[:0]
}

// Col returns the grid column of c, rounding the displaced position.
func (f *Frame) Col(c Cell) int {
	if f.CellWidth <= 0 {
		return 0
	}
	return roundInt(c.X / f.CellWidth)
}

// Row returns the grid row of c.
func (f *Frame) Row(c Cell) int {
	if f.CellHeight <= 0 {
		return 0
	}
	return roundInt(c.Y / f.CellHeight)
}

func roundInt(v float64) int {
	if v < 0 {
		return -int(-v + 0.5)
	}
	return int(v + 0.5)
}
