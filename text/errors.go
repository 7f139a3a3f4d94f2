package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrUnknownParser is returned when a family asks for an unregistered parser.
	ErrUnknownParser = errors.New("text: unknown font parser")

	// ErrInvalidSize is returned for non-positive font sizes.
	ErrInvalidSize = errors.New("text: font size must be positive")

	// ErrNoMetrics is returned when a font yields an empty cell.
	ErrNoMetrics = errors.New("text: font produced empty cell metrics")
)

// VariantError reports which weight × style variant failed to load.
type VariantError struct {
	Weight Weight
	Style  Style
	Err    error
}

func (e *VariantError) Error() string {
	return "text: variant " + e.Weight.String() + "/" + e.Style.String() + ": " + e.Err.Error()
}

func (e *VariantError) Unwrap() error { return e.Err }
