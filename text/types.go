package text

import "golang.org/x/image/font"

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Weight selects the regular or bold variant of a family.
type Weight uint8

const (
	// WeightRegular is the normal stroke weight.
	WeightRegular Weight = iota
	// WeightBold is the bold stroke weight.
	WeightBold
)

// String returns the string representation of the weight.
func (w Weight) String() string {
	switch w {
	case WeightRegular:
		return "Regular"
	case WeightBold:
		return "Bold"
	default:
		return unknownStr
	}
}

// Style selects the upright or italic variant of a family.
type Style uint8

const (
	// StyleUpright is the roman style.
	StyleUpright Style = iota
	// StyleItalic is the italic (or oblique) style.
	StyleItalic
)

// String returns the string representation of the style.
func (s Style) String() string {
	switch s {
	case StyleUpright:
		return "Upright"
	case StyleItalic:
		return "Italic"
	default:
		return unknownStr
	}
}

// VariantOf maps the bold/italic attribute pair onto the variant enums.
func VariantOf(bold, italic bool) (Weight, Style) {
	w, s := WeightRegular, StyleUpright
	if bold {
		w = WeightBold
	}
	if italic {
		s = StyleItalic
	}
	return w, s
}

// Antialiasing specifies how glyph coverage is quantized.
type Antialiasing uint8

const (
	// AntialiasGrayscale keeps 8-bit coverage.
	AntialiasGrayscale Antialiasing = iota
	// AntialiasCleartype requests subpixel coverage. The atlas stores a single
	// coverage channel, so it renders like AntialiasGrayscale.
	AntialiasCleartype
	// AntialiasAliased snaps coverage to fully on or off.
	AntialiasAliased
)

// String returns the string representation of the antialiasing mode.
func (a Antialiasing) String() string {
	switch a {
	case AntialiasGrayscale:
		return "Grayscale"
	case AntialiasCleartype:
		return "Cleartype"
	case AntialiasAliased:
		return "Aliased"
	default:
		return unknownStr
	}
}

// Hinting specifies font hinting mode.
type Hinting int

const (
	// HintingNone disables hinting.
	HintingNone Hinting = iota
	// HintingVertical applies vertical hinting only.
	HintingVertical
	// HintingFull applies full hinting.
	HintingFull
)

// String returns the string representation of the hinting mode.
func (h Hinting) String() string {
	switch h {
	case HintingNone:
		return "None"
	case HintingVertical:
		return "Vertical"
	case HintingFull:
		return "Full"
	default:
		return unknownStr
	}
}

// toXImage converts to the x/image hinting enum shared by both parsers.
func (h Hinting) toXImage() font.Hinting {
	switch h {
	case HintingVertical:
		return font.HintingVertical
	case HintingFull:
		return font.HintingFull
	default:
		return font.HintingNone
	}
}
