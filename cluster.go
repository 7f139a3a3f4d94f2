package gridtext

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cluster is one grapheme cluster of a buffer line and the number of grid
// columns it covers.
type Cluster struct {
	Text    string
	Columns int
}

// ClustersFromString splits s into grapheme clusters with their column
// widths. Zero-width clusters are dropped.
func ClustersFromString(s string) []Cluster {
	var out []Cluster
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if w <= 0 {
			continue
		}
		out = append(out, Cluster{Text: g.Str(), Columns: w})
	}
	return out
}

// glyphRune picks the code point a cluster is drawn with. The atlas holds a
// single code point per cell, so only the first one counts, and anything
// beyond Latin-1 is drawn as a space.
func (c Cluster) glyphRune() rune {
	for _, r := range c.Text {
		if r >= 0x100 {
			return ' '
		}
		return r
	}
	return ' '
}

// IsGlyphWideByFont reports whether the glyph of s occupies two columns.
func IsGlyphWideByFont(s string) bool {
	for _, r := range s {
		return runewidth.RuneWidth(r) == 2
	}
	return false
}
