package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gridfx"
	"github.com/gogpu/gridfx/atlas"
)

const (
	// vertexStride is the byte size of one vertex: pos.xy, uv.xy, color.rgba.
	vertexStride = 32

	// VerticesPerCell is the vertex count of one cell quad.
	VerticesPerCell = 6

	cellBytes = vertexStride * VerticesPerCell

	// uniformSize: viewport vec2, pad vec2, tint vec4.
	uniformSize = 32

	// initialCells sizes the first vertex buffer.
	initialCells = 256
)

// quadBuilder packs cell quads into a flat vertex slice. Cells in the
// atlas primary color come first and carry a white vertex color so the
// tint uniform colors them. Every other cell carries its own color and is
// drawn with a white tint.
type quadBuilder struct {
	data    []byte
	primary int
	other   int
	skipped int
}

func (b *quadBuilder) reset() {
	b.data = b.data[:0]
	b.primary, b.other, b.skipped = 0, 0, 0
}

// cells returns the number of packed quads.
func (b *quadBuilder) cells() int { return b.primary + b.other }

// build packs f against a. Runes missing from the atlas are skipped.
func (b *quadBuilder) build(f *gridfx.Frame, a *atlas.Atlas) {
	b.reset()
	for _, c := range f.Cells {
		if c.Color == a.Key.Color {
			if b.add(a, c, 1, 1, 1) {
				b.primary++
			}
		}
	}
	for _, c := range f.Cells {
		if c.Color != a.Key.Color {
			r, g, bl := c.Color.Floats()
			if b.add(a, c, r, g, bl) {
				b.other++
			}
		}
	}
}

func (b *quadBuilder) add(a *atlas.Atlas, c gridfx.Cell, r, g, bl float32) bool {
	slot, ok := a.Slot(c.Glyph)
	if !ok {
		b.skipped++
		return false
	}
	u0, v0, u1, v1 := a.UV(slot)
	x0 := float32(math.Round(c.X))
	y0 := float32(math.Round(c.Y))
	x1 := x0 + float32(a.CellWidth)
	y1 := y0 + float32(a.CellHeight)
	alpha := float32(math.Max(0, math.Min(1, c.Alpha)))

	// Two triangles: TL, TR, BL and BL, TR, BR.
	b.vertex(x0, y0, u0, v0, r, g, bl, alpha)
	b.vertex(x1, y0, u1, v0, r, g, bl, alpha)
	b.vertex(x0, y1, u0, v1, r, g, bl, alpha)
	b.vertex(x0, y1, u0, v1, r, g, bl, alpha)
	b.vertex(x1, y0, u1, v0, r, g, bl, alpha)
	b.vertex(x1, y1, u1, v1, r, g, bl, alpha)
	return true
}

func (b *quadBuilder) vertex(vals ...float32) {
	for _, v := range vals {
		b.data = binary.LittleEndian.AppendUint32(b.data, math.Float32bits(v))
	}
}

// uniformData packs the viewport size and tint.
func uniformData(width, height int, r, g, b float32) []byte {
	buf := make([]byte, uniformSize)
	vals := [8]float32{float32(width), float32(height), 0, 0, r, g, b, 1}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// atlasPixels expands the coverage mask to RGBA8 with white color.
func atlasPixels(a *atlas.Atlas) []byte {
	m := a.Mask
	w, h := m.Bounds().Dx(), m.Bounds().Dy()
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+w]
		for x, cov := range row {
			i := (y*w + x) * 4
			out[i], out[i+1], out[i+2], out[i+3] = 0xff, 0xff, 0xff, cov
		}
	}
	return out
}

// growCapacity doubles from current until need fits.
func growCapacity(current, need uint64) uint64 {
	if current == 0 {
		current = initialCells * cellBytes
	}
	for current < need {
		current *= 2
	}
	return current
}
