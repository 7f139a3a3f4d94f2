package text

import (
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Format is one weight × style variant of a family at a fixed pixel size.
type Format struct {
	Weight Weight
	Style  Style

	face   font.Face
	ascent fixed.Int26_6
}

// Face returns the x/image face backing the format.
func (f *Format) Face() font.Face { return f.face }

// FormatTable holds the four text formats for a family at one size,
// indexed by weight and style.
//
// A FormatTable is not safe for concurrent use: the underlying faces keep
// scratch buffers.
type FormatTable struct {
	family       *Family
	sizePx       float64
	antialiasing Antialiasing
	formats      [2][2]*Format
}

// NewFormatTable creates one face per variant of fam at sizePx pixels per em.
func NewFormatTable(fam *Family, sizePx float64, opts ...FormatOption) (*FormatTable, error) {
	if sizePx <= 0 {
		return nil, ErrInvalidSize
	}
	cfg := defaultFormatConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &FormatTable{family: fam, sizePx: sizePx, antialiasing: cfg.antialiasing}
	for _, w := range []Weight{WeightRegular, WeightBold} {
		for _, s := range []Style{StyleUpright, StyleItalic} {
			face, err := fam.Font(w, s).NewFace(sizePx, cfg.hinting)
			if err != nil {
				t.Close()
				return nil, &VariantError{Weight: w, Style: s, Err: err}
			}
			t.formats[w][s] = &Format{
				Weight: w,
				Style:  s,
				face:   face,
				ascent: face.Metrics().Ascent,
			}
		}
	}
	return t, nil
}

// HasGlyph reports whether the w × s font of the family maps r to a glyph.
func (t *FormatTable) HasGlyph(r rune, w Weight, s Style) bool {
	f := t.family.Font(w, s)
	return f != nil && f.HasGlyph(r)
}

// Get returns the format for w × s.
func (t *FormatTable) Get(w Weight, s Style) *Format { return t.formats[w][s] }

// Family returns the family the table was built from.
func (t *FormatTable) Family() *Family { return t.family }

// SizePx returns the pixel size of every format in the table.
func (t *FormatTable) SizePx() float64 { return t.sizePx }

// Antialiasing returns the coverage mode used by DrawGlyph.
func (t *FormatTable) Antialiasing() Antialiasing { return t.antialiasing }

// Close releases the faces.
func (t *FormatTable) Close() {
	for w := range t.formats {
		for s := range t.formats[w] {
			if f := t.formats[w][s]; f != nil {
				_ = f.face.Close()
				t.formats[w][s] = nil
			}
		}
	}
}
