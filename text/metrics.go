package text

import (
	"bytes"
	"fmt"
	"image"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// cellGauge is laid out to measure a cell: the full block covers the whole
// advance and line height of a well-behaved monospace font.
const (
	cellGauge         = '█'
	cellGaugeFallback = 'M'
)

// ProposeCellSize lays out the cell gauge glyph of fam's regular variant at
// sizePx and returns the ceiled advance and line height, in pixels.
// locale is used as the shaping language; an empty locale means "en".
func ProposeCellSize(fam *Family, sizePx float64, locale string) (image.Point, error) {
	if sizePx <= 0 {
		return image.Point{}, ErrInvalidSize
	}

	face, err := font.ParseTTF(bytes.NewReader(fam.regularData()))
	if err != nil {
		return image.Point{}, fmt.Errorf("text: failed to parse font for shaping: %w", err)
	}

	gauge := cellGauge
	if _, ok := face.NominalGlyph(gauge); !ok {
		gauge = cellGaugeFallback
	}
	if locale == "" {
		locale = "en"
	}

	runes := []rune{gauge}
	var shaper shaping.HarfbuzzShaper
	out := shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      face,
		Size:      floatToFixed(sizePx),
		Script:    language.LookupScript(gauge),
		Language:  language.NewLanguage(locale),
	})

	size := image.Point{
		X: ceilFixed(out.Advance),
		Y: ceilFixed(out.LineBounds.Ascent - out.LineBounds.Descent),
	}
	if size.X <= 0 || size.Y <= 0 {
		return image.Point{}, fmt.Errorf("%w: %v", ErrNoMetrics, size)
	}
	return size, nil
}

// floatToFixed converts a float64 to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// ceilFixed rounds a 26.6 value up to whole pixels.
func ceilFixed(v fixed.Int26_6) int {
	return v.Ceil()
}
