package text

// FamilyOption configures Family creation.
type FamilyOption func(*familyConfig)

// familyConfig holds configuration for Family.
type familyConfig struct {
	parserName string
}

// defaultFamilyConfig returns the default family configuration.
func defaultFamilyConfig() familyConfig {
	return familyConfig{
		parserName: defaultParserName, // ximage
	}
}

// WithParser specifies the font parser backend.
// The default is "ximage" which uses golang.org/x/image/font/opentype;
// "freetype" selects github.com/golang/freetype/truetype.
//
// Custom parsers can be registered with RegisterParser.
func WithParser(name string) FamilyOption {
	return func(c *familyConfig) {
		c.parserName = name
	}
}

// FormatOption configures FormatTable creation.
type FormatOption func(*formatConfig)

// formatConfig holds configuration for FormatTable.
type formatConfig struct {
	antialiasing Antialiasing
	hinting      Hinting
}

// defaultFormatConfig returns the default format configuration.
func defaultFormatConfig() formatConfig {
	return formatConfig{
		antialiasing: AntialiasGrayscale,
		hinting:      HintingFull,
	}
}

// WithAntialiasing sets the glyph antialiasing mode.
func WithAntialiasing(mode Antialiasing) FormatOption {
	return func(c *formatConfig) {
		c.antialiasing = mode
	}
}

// WithHinting sets the outline hinting mode.
func WithHinting(h Hinting) FormatOption {
	return func(c *formatConfig) {
		c.hinting = h
	}
}
