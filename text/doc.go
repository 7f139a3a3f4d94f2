// Package text provides the glyph rasterization backend for gridtext.
//
// The pipeline is split the same way a terminal renderer thinks about fonts:
//
//   - Family: one font family with its four weight × style variants
//   - FontParser: pluggable parsing backend (default: golang.org/x/image)
//   - FormatTable: the per-size text formats, one per variant
//   - ProposeCellSize: layout metrics for a fixed-width grid cell
//
// # Example usage
//
//	// Bundled Go Mono family
//	fam, err := text.GoMono()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Cell size for 12pt at 96 DPI
//	cell, err := text.ProposeCellSize(fam, text.PointsToPixels(12, 96), text.SystemLocale())
//
//	// Rasterize 'A' into the first cell of an image
//	formats, err := text.NewFormatTable(fam, text.PointsToPixels(12, 96))
//	defer formats.Close()
//	formats.DrawGlyph(img, image.Rectangle{Max: cell}, 'A', text.WeightRegular, text.StyleUpright)
//
// # Pluggable Parser Backend
//
// Two parsers are registered by default: "ximage" (golang.org/x/image/font/opentype)
// and "freetype" (github.com/golang/freetype/truetype). Both produce an
// x/image font.Face, so everything downstream is backend-agnostic:
//
//	fam, err := text.GoMono(text.WithParser("freetype"))
//
// Custom parsers can be registered with RegisterParser.
package text
