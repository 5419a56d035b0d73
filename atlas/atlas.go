package atlas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/gridfx"
	"github.com/gogpu/gridfx/charset"
)

// Key identifies an atlas. Anything that changes atlas pixels is part of it.
type Key struct {
	Color gridfx.Color
	Size  float64
	Set   string
}

// KeyFor returns the key of the atlas needed to paint f.
func KeyFor(f *gridfx.Frame) Key {
	return Key{Color: f.Primary, Size: f.FontSize, Set: f.Charset.Name() + "+" + f.Matrix.Name()}
}

// Atlas is a horizontal strip of glyph cells.
type Atlas struct {
	Key        Key
	CellWidth  int
	CellHeight int

	// Mask holds glyph coverage. Tinted is Mask painted in Key.Color.
	Mask   *image.Alpha
	Tinted *image.RGBA

	runes       []rune
	slots       map[rune]int
	folded      int
	synthesized int
}

// Len returns the number of slots.
func (a *Atlas) Len() int { return len(a.runes) }

// Runes returns the runes in slot order.
func (a *Atlas) Runes() []rune { return a.runes }

// Slot returns the slot of r.
func (a *Atlas) Slot(r rune) (int, bool) {
	i, ok := a.slots[r]
	return i, ok
}

// Rect returns the pixel rectangle of slot i in the strip.
func (a *Atlas) Rect(i int) image.Rectangle {
	x := i * a.CellWidth
	return image.Rect(x, 0, x+a.CellWidth, a.CellHeight)
}

// UV returns the normalized texture rectangle of slot i.
func (a *Atlas) UV(i int) (u0, v0, u1, v1 float32) {
	w := float32(a.Mask.Bounds().Dx())
	if w == 0 {
		return 0, 0, 0, 0
	}
	r := a.Rect(i)
	return float32(r.Min.X) / w, 0, float32(r.Max.X) / w, 1
}

// Folded returns how many runes were drawn from their width-folded form.
func (a *Atlas) Folded() int { return a.folded }

// Synthesized returns how many runes got a synthesized block glyph.
func (a *Atlas) Synthesized() int { return a.synthesized }

// Build rasterizes the union of sets with f at key.Size. Cells measure
// cellW×cellH pixels, rounded up.
func Build(f *Font, key Key, cellW, cellH float64, sets ...charset.Set) (*Atlas, error) {
	cw, ch := int(math.Ceil(cellW)), int(math.Ceil(cellH))
	if cw <= 0 || ch <= 0 {
		return nil, fmt.Errorf("atlas: invalid cell size %vx%v", cellW, cellH)
	}
	face, err := f.Face(key.Size)
	if err != nil {
		return nil, err
	}

	a := &Atlas{Key: key, CellWidth: cw, CellHeight: ch, slots: make(map[rune]int)}
	for _, s := range sets {
		for _, r := range s.Runes() {
			if r == ' ' {
				continue
			}
			if _, dup := a.slots[r]; dup {
				continue
			}
			a.slots[r] = len(a.runes)
			a.runes = append(a.runes, r)
		}
	}

	a.Mask = image.NewAlpha(image.Rect(0, 0, len(a.runes)*cw, ch))
	ascent := face.Metrics().Ascent
	baseline := (fixed.I(ch) + ascent - face.Metrics().Descent) / 2
	for i, r := range a.runes {
		cell := a.Mask.SubImage(a.Rect(i)).(*image.Alpha)
		glyph := r
		if !f.Has(r) {
			folded, ok := charset.Fold(r)
			if !ok || !f.Has(folded) {
				synthesize(cell, r)
				a.synthesized++
				continue
			}
			glyph = folded
			a.folded++
		}
		drawGlyph(cell, face, glyph, baseline)
	}

	a.Tinted = image.NewRGBA(a.Mask.Bounds())
	tint := image.NewUniform(color.NRGBA{R: key.Color.R, G: key.Color.G, B: key.Color.B, A: 255})
	draw.DrawMask(a.Tinted, a.Tinted.Bounds(), tint, image.Point{}, a.Mask, image.Point{}, draw.Src)

	gridfx.Logger().Debug("atlas: built",
		"set", key.Set,
		"size", key.Size,
		"color", key.Color.String(),
		"slots", len(a.runes),
		"folded", a.folded,
		"synthesized", a.synthesized)
	return a, nil
}

// drawGlyph centers r horizontally in cell. Pixels outside the cell are
// clipped by the sub-image bounds.
func drawGlyph(cell *image.Alpha, face font.Face, r rune, baseline fixed.Int26_6) {
	b := cell.Bounds()
	adv, ok := face.GlyphAdvance(r)
	if !ok {
		adv = fixed.I(b.Dx())
	}
	x := fixed.I(b.Min.X) + (fixed.I(b.Dx())-adv)/2
	d := font.Drawer{
		Dst:  cell,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: fixed.I(b.Min.Y) + baseline},
	}
	d.DrawString(string(r))
}

// Synthesized glyphs are a blockRows×blockCols pattern chosen by the rune.
const (
	blockCols = 3
	blockRows = 4
)

// synthesize fills cell with a block pattern derived from r. The same rune
// always yields the same pattern and at least one block is set.
func synthesize(cell *image.Alpha, r rune) {
	bits := uint32(r) * 2654435761
	bits ^= bits >> 13
	if bits&(1<<(blockCols*blockRows)-1) == 0 {
		bits = 1 << 5
	}

	b := cell.Bounds().Inset(1)
	if b.Empty() {
		b = cell.Bounds()
	}
	for by := 0; by < blockRows; by++ {
		for bx := 0; bx < blockCols; bx++ {
			if bits&(1<<(by*blockCols+bx)) == 0 {
				continue
			}
			block := image.Rect(
				b.Min.X+bx*b.Dx()/blockCols,
				b.Min.Y+by*b.Dy()/blockRows,
				b.Min.X+(bx+1)*b.Dx()/blockCols,
				b.Min.Y+(by+1)*b.Dy()/blockRows,
			)
			draw.Draw(cell, block, image.Opaque, image.Point{}, draw.Src)
		}
	}
}
