package text

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
)

func TestParsers(t *testing.T) {
	for _, name := range []string{"ximage", "freetype"} {
		t.Run(name, func(t *testing.T) {
			p, ok := lookupParser(name)
			if !ok {
				t.Fatalf("parser %q not registered", name)
			}
			f, err := p.Parse(gomono.TTF)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if f.Name() != "Go Mono" {
				t.Errorf("Name() = %q, want %q", f.Name(), "Go Mono")
			}
			if !f.HasGlyph('A') {
				t.Error("HasGlyph('A') = false")
			}
			if f.HasGlyph('\U0001F600') {
				t.Error("HasGlyph(emoji) = true for Go Mono")
			}

			face, err := f.NewFace(16, HintingFull)
			if err != nil {
				t.Fatalf("NewFace failed: %v", err)
			}
			defer face.Close()
			adv, ok := face.GlyphAdvance('M')
			if !ok || adv <= 0 {
				t.Errorf("GlyphAdvance('M') = %v, %v", adv, ok)
			}
		})
	}
}

func TestParserRejectsGarbage(t *testing.T) {
	for _, name := range []string{"ximage", "freetype"} {
		p, _ := lookupParser(name)
		if _, err := p.Parse([]byte("not a font")); err == nil {
			t.Errorf("%s: Parse(garbage) succeeded", name)
		}
	}
}

type stubParser struct{ err error }

func (p stubParser) Parse([]byte) (ParsedFont, error) { return nil, p.err }

func TestRegisterParser(t *testing.T) {
	want := errors.New("stub")
	RegisterParser("stub", stubParser{err: want})
	t.Cleanup(func() { delete(parserRegistry, "stub") })

	_, err := NewFamily("x", FamilyData{Regular: gomono.TTF}, WithParser("stub"))
	if !errors.Is(err, want) {
		t.Errorf("NewFamily with stub parser = %v, want %v", err, want)
	}
	if _, err := NewFamily("x", FamilyData{Regular: gomono.TTF}, WithParser("missing")); !errors.Is(err, ErrUnknownParser) {
		t.Errorf("NewFamily with unknown parser = %v, want ErrUnknownParser", err)
	}
}
