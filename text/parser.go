package text

import "golang.org/x/image/font"

// FontParser is an interface for font parsing backends.
// This abstraction allows swapping the font parsing library
// (golang.org/x/image/font/opentype vs github.com/golang/freetype).
type FontParser interface {
	// Parse parses font data (TTF or OTF) and returns a ParsedFont.
	Parse(data []byte) (ParsedFont, error)
}

// ParsedFont represents a parsed font file.
type ParsedFont interface {
	// Name returns the font family name.
	// Returns empty string if not available.
	Name() string

	// HasGlyph reports whether the font maps r to a real glyph.
	HasGlyph(r rune) bool

	// NewFace returns a face rendering at sizePx pixels per em.
	NewFace(sizePx float64, hinting Hinting) (font.Face, error)
}

// parserRegistry holds registered font parsers.
var parserRegistry = map[string]FontParser{
	"ximage":   &ximageParser{},
	"freetype": &freetypeParser{},
}

// defaultParserName is the name of the default parser.
const defaultParserName = "ximage"

// RegisterParser registers a custom font parser.
// It is not safe for concurrent use with Family creation.
func RegisterParser(name string, parser FontParser) {
	parserRegistry[name] = parser
}

// lookupParser returns the parser by name.
func lookupParser(name string) (FontParser, bool) {
	p, ok := parserRegistry[name]
	return p, ok
}
