package atlas

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DrawDirect draws r straight into dst with face, without an atlas. The
// cell's top-left corner is (x, y) and c carries the opacity.
func DrawDirect(dst draw.Image, face font.Face, x, y float64, cellH int, r rune, c color.NRGBA) {
	m := face.Metrics()
	baseline := (fixed.I(cellH) + m.Ascent - m.Descent) / 2
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y*64) + baseline,
		},
	}
	d.DrawString(string(r))
}
