// Package raster paints gridfx frames into an *image.RGBA.
//
// Glyphs are blitted from a cached atlas strip: cells in the primary color
// copy the pre-tinted strip, other cells (matrix heads, inverted or
// chroma-shifted glyphs) are masked with their own color. Runes outside the
// atlas are drawn directly with the font face.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/gridfx"
	"github.com/gogpu/gridfx/atlas"
)

// Painter is the raster backend. It is not safe for concurrent use.
type Painter struct {
	img       *image.RGBA
	owned     bool
	atlases   *atlas.Cache
	ownsCache bool

	frames int
	direct int
}

// Option configures a Painter.
type Option func(*Painter)

// WithAtlasCache shares an atlas cache between painters.
func WithAtlasCache(c *atlas.Cache) Option {
	return func(p *Painter) { p.atlases = c }
}

// New returns a painter drawing into its own width×height image.
func New(width, height int, opts ...Option) (*Painter, error) {
	p := &Painter{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))), owned: true}
	return p.init(opts)
}

// NewFromImage returns a painter drawing into img, which the host owns.
// Resize does not reallocate a host image.
func NewFromImage(img *image.RGBA, opts ...Option) (*Painter, error) {
	if img == nil {
		return nil, fmt.Errorf("raster: %w", gridfx.ErrContextUnavailable)
	}
	return (&Painter{img: img}).init(opts)
}

func (p *Painter) init(opts []Option) (*Painter, error) {
	for _, opt := range opts {
		opt(p)
	}
	if p.atlases == nil {
		f, err := atlas.DefaultFont()
		if err != nil {
			return nil, fmt.Errorf("raster: load font: %w", err)
		}
		p.atlases = atlas.NewCache(f, 0)
		p.ownsCache = true
	}
	return p, nil
}

// Image returns the target image.
func (p *Painter) Image() *image.RGBA { return p.img }

// Atlases returns the painter's atlas cache.
func (p *Painter) Atlases() *atlas.Cache { return p.atlases }

// Frames returns the number of painted frames.
func (p *Painter) Frames() int { return p.frames }

// DirectDraws returns how many cells bypassed the atlas.
func (p *Painter) DirectDraws() int { return p.direct }

// Resize reallocates an owned image to width×height.
func (p *Painter) Resize(width, height int) error {
	if !p.owned {
		return nil
	}
	if b := p.img.Bounds(); b.Dx() == width && b.Dy() == height {
		return nil
	}
	p.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	return nil
}

// Paint clears to the frame background and draws every cell.
func (p *Painter) Paint(f *gridfx.Frame) error {
	p.frames++
	draw.Draw(p.img, p.img.Bounds(), image.NewUniform(f.Background), image.Point{}, draw.Src)
	if len(f.Cells) == 0 {
		return nil
	}

	a, err := p.atlases.Get(f)
	if err != nil {
		gridfx.Logger().Warn("raster: atlas unavailable, drawing directly", "err", err)
		a = nil
	}

	ch := int(math.Ceil(f.CellHeight))
	for _, c := range f.Cells {
		x, y := int(math.Round(c.X)), int(math.Round(c.Y))
		slot, ok := -1, false
		if a != nil {
			slot, ok = a.Slot(c.Glyph)
		}
		if !ok {
			if err := p.drawDirect(f, c, x, y, ch); err != nil {
				return err
			}
			continue
		}

		src := a.Rect(slot)
		dst := image.Rect(x, y, x+src.Dx(), y+src.Dy())
		if c.Color == a.Key.Color {
			draw.DrawMask(p.img, dst, a.Tinted, src.Min, image.NewUniform(color.Alpha{A: alpha8(c.Alpha)}), image.Point{}, draw.Over)
			continue
		}
		draw.DrawMask(p.img, dst, image.NewUniform(c.Color.NRGBA(c.Alpha)), image.Point{}, a.Mask, src.Min, draw.Over)
	}
	return nil
}

func (p *Painter) drawDirect(f *gridfx.Frame, c gridfx.Cell, x, y, ch int) error {
	face, err := p.atlases.Font().Face(f.FontSize)
	if err != nil {
		return fmt.Errorf("raster: direct draw: %w", err)
	}
	p.direct++
	atlas.DrawDirect(p.img, face, float64(x), float64(y), ch, c.Glyph, c.Color.NRGBA(c.Alpha))
	return nil
}

// WritePNG encodes the current image.
func (p *Painter) WritePNG(w io.Writer) error {
	return png.Encode(w, p.img)
}

// Close drops the cached atlases of an owned cache. A cache passed with
// WithAtlasCache is left to its other users. The image stays readable.
func (p *Painter) Close() error {
	if p.ownsCache {
		p.atlases.Clear()
	}
	return nil
}

func alpha8(a float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))
}
