package text

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// aliasThreshold is the coverage above which an aliased pixel is lit.
const aliasThreshold = 0x80

// DrawGlyph renders r in white into cell of dst using the w × s format.
// The pen starts at the left edge of cell with the baseline one ascent
// below its top. Drawing is clipped to cell; pixels outside it are
// untouched.
//
// Coverage ends up in every channel (premultiplied white), so the result is
// valid as either RGBA or BGRA texel data.
func (t *FormatTable) DrawGlyph(dst *image.RGBA, cell image.Rectangle, r rune, w Weight, s Style) {
	f := t.formats[w][s]
	if f == nil {
		return
	}
	sub, ok := dst.SubImage(cell).(*image.RGBA)
	if !ok || sub.Rect.Empty() {
		return
	}

	d := &font.Drawer{
		Dst:  sub,
		Src:  image.White,
		Face: f.face,
		Dot: fixed.Point26_6{
			X: fixed.I(cell.Min.X),
			Y: fixed.I(cell.Min.Y) + f.ascent,
		},
	}
	d.DrawString(string(r))

	if t.antialiasing == AntialiasAliased {
		snapCoverage(sub)
	}
}

// snapCoverage quantizes every pixel of img to fully opaque or transparent.
func snapCoverage(img *image.RGBA) {
	b := img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			v := uint8(0)
			if row[i+3] >= aliasThreshold {
				v = 0xff
			}
			row[i], row[i+1], row[i+2], row[i+3] = v, v, v, v
		}
	}
}

// PointsToPixels converts a point size to pixels per em at dpi.
func PointsToPixels(points float64, dpi int) float64 {
	return points * float64(dpi) / 72
}
