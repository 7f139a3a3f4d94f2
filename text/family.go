package text

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
)

// DefaultFamilyName is the family used when the requested one is unknown.
const DefaultFamilyName = "Go Mono"

// FamilyData holds the raw font files of a family.
// Only Regular is required; missing variants reuse Regular.
type FamilyData struct {
	Regular    []byte
	Bold       []byte
	Italic     []byte
	BoldItalic []byte
}

// variant returns the file for w × s.
func (d FamilyData) variant(w Weight, s Style) []byte {
	var data []byte
	switch {
	case w == WeightBold && s == StyleItalic:
		data = d.BoldItalic
	case w == WeightBold:
		data = d.Bold
	case s == StyleItalic:
		data = d.Italic
	default:
		data = d.Regular
	}
	if len(data) == 0 {
		return d.Regular
	}
	return data
}

// Family is a parsed font family with all four weight × style variants.
// Family is immutable and safe for concurrent use.
type Family struct {
	name   string
	parser string
	data   FamilyData
	fonts  [2][2]ParsedFont
}

// NewFamily parses every variant of data.
func NewFamily(name string, data FamilyData, opts ...FamilyOption) (*Family, error) {
	if len(data.Regular) == 0 {
		return nil, ErrEmptyFontData
	}

	cfg := defaultFamilyConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	parser, ok := lookupParser(cfg.parserName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParser, cfg.parserName)
	}

	f := &Family{name: name, parser: cfg.parserName, data: data}
	for _, w := range []Weight{WeightRegular, WeightBold} {
		for _, s := range []Style{StyleUpright, StyleItalic} {
			parsed, err := parser.Parse(data.variant(w, s))
			if err != nil {
				return nil, &VariantError{Weight: w, Style: s, Err: err}
			}
			f.fonts[w][s] = parsed
		}
	}
	if f.name == "" {
		f.name = f.fonts[WeightRegular][StyleUpright].Name()
	}
	return f, nil
}

// Name returns the family name.
func (f *Family) Name() string { return f.name }

// Parser returns the name of the parser backend the family was built with.
func (f *Family) Parser() string { return f.parser }

// Font returns the parsed font of one variant.
func (f *Family) Font(w Weight, s Style) ParsedFont { return f.fonts[w][s] }

// regularData returns the raw Regular/Upright file, used for shaping.
func (f *Family) regularData() []byte { return f.data.Regular }

// GoMono returns the bundled Go Mono family.
func GoMono(opts ...FamilyOption) (*Family, error) {
	return NewFamily(DefaultFamilyName, FamilyData{
		Regular:    gomono.TTF,
		Bold:       gomonobold.TTF,
		Italic:     gomonoitalic.TTF,
		BoldItalic: gomonobolditalic.TTF,
	}, opts...)
}

var (
	familyMu       sync.RWMutex
	familyRegistry = map[string]FamilyData{}
)

// RegisterFamily makes data available to LookupFamily under name.
// Names are matched case-insensitively.
func RegisterFamily(name string, data FamilyData) {
	familyMu.Lock()
	defer familyMu.Unlock()
	familyRegistry[strings.ToLower(name)] = data
}

// LookupFamily resolves a family by name. Unknown names resolve to Go Mono,
// and the returned family reports the name it actually uses.
func LookupFamily(name string, opts ...FamilyOption) (*Family, error) {
	familyMu.RLock()
	data, ok := familyRegistry[strings.ToLower(name)]
	familyMu.RUnlock()
	if !ok {
		return GoMono(opts...)
	}
	return NewFamily(name, data, opts...)
}
