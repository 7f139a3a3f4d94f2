package text

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// freetypeParser implements FontParser using the freetype TrueType reader.
// It only understands TrueType outlines; CFF-flavored OpenType fails to parse.
type freetypeParser struct{}

// Parse implements FontParser.Parse.
func (p *freetypeParser) Parse(data []byte) (ParsedFont, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	return &freetypeParsedFont{font: f}, nil
}

type freetypeParsedFont struct {
	font *truetype.Font
}

func (f *freetypeParsedFont) Name() string {
	return f.font.Name(truetype.NameIDFontFamily)
}

func (f *freetypeParsedFont) HasGlyph(r rune) bool {
	return f.font.Index(r) != 0
}

func (f *freetypeParsedFont) NewFace(sizePx float64, hinting Hinting) (font.Face, error) {
	return truetype.NewFace(f.font, &truetype.Options{
		Size:    sizePx,
		DPI:     72,
		Hinting: hinting.toXImage(),
	}), nil
}
