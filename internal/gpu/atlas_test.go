package gpu

import (
	"image"
	"testing"

	"github.com/gogpu/gridtext/internal/gputest"
	"github.com/gogpu/gridtext/text"
)

func newTestAtlas(t *testing.T, faults *gputest.Faults, cell image.Point) (*GlyphAtlas, *recordingSource) {
	t.Helper()
	a := NewGlyphAtlas(newTestDevice(t, faults))
	src := &recordingSource{}
	if err := a.Rebuild(src, cell); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	t.Cleanup(a.Destroy)
	return a, src
}

func TestGlyphAtlasRebuildRegularRange(t *testing.T) {
	a, src := newTestAtlas(t, nil, image.Pt(8, 16))

	if a.Rasterized() != GlyphRange {
		t.Errorf("Rasterized() = %d, want %d", a.Rasterized(), GlyphRange)
	}
	for _, k := range src.calls {
		if k.w != text.WeightRegular || k.s != text.StyleUpright {
			t.Fatalf("Rebuild drew variant %v/%v eagerly", k.w, k.s)
		}
	}
	if a.View() == nil {
		t.Error("View() = nil after Rebuild")
	}
	if a.CellSize() != image.Pt(8, 16) {
		t.Errorf("CellSize() = %v", a.CellSize())
	}
}

func TestGlyphAtlasSlots(t *testing.T) {
	a, _ := newTestAtlas(t, nil, image.Pt(8, 16))

	tests := []struct {
		name string
		r    rune
		w    text.Weight
		s    text.Style
		want AtlasSlot
	}{
		{"regular A", 'A', text.WeightRegular, text.StyleUpright, AtlasSlot{X: 520, Y: 0}},
		{"regular space", ' ', text.WeightRegular, text.StyleUpright, AtlasSlot{X: 256, Y: 0}},
		{"italic A", 'A', text.WeightRegular, text.StyleItalic, AtlasSlot{X: 1544, Y: 0}},
		{"bold A", 'A', text.WeightBold, text.StyleUpright, AtlasSlot{X: 520, Y: 16}},
		{"bold italic A", 'A', text.WeightBold, text.StyleItalic, AtlasSlot{X: 1544, Y: 16}},
		{"latin-1 is blank", 'é', text.WeightRegular, text.StyleUpright, AtlasSlot{X: 256, Y: 0}},
		{"cjk is blank", '世', text.WeightBold, text.StyleItalic, AtlasSlot{X: 256, Y: 0}},
		{"negative is blank", -1, text.WeightRegular, text.StyleUpright, AtlasSlot{X: 256, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.EnsureGlyph(tt.r, tt.w, tt.s)
			if err != nil {
				t.Fatalf("EnsureGlyph failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("EnsureGlyph(%q) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
	if a.Blank() != (AtlasSlot{X: 256, Y: 0}) {
		t.Errorf("Blank() = %v", a.Blank())
	}
}

func TestGlyphAtlasCacheHit(t *testing.T) {
	a, src := newTestAtlas(t, nil, image.Pt(8, 16))

	first, err := a.EnsureGlyph('x', text.WeightBold, text.StyleUpright)
	if err != nil {
		t.Fatalf("EnsureGlyph failed: %v", err)
	}
	calls := len(src.calls)
	second, err := a.EnsureGlyph('x', text.WeightBold, text.StyleUpright)
	if err != nil {
		t.Fatalf("EnsureGlyph failed: %v", err)
	}
	if first != second {
		t.Errorf("slot changed between calls: %v then %v", first, second)
	}
	if len(src.calls) != calls {
		t.Error("cache hit rasterized again")
	}
	if _, err := a.EnsureGlyph('x', text.WeightRegular, text.StyleUpright); err != nil {
		t.Fatal(err)
	}
	if len(src.calls) != calls {
		t.Error("eagerly drawn regular glyph rasterized again")
	}
}

func TestGlyphAtlasSlotIndex(t *testing.T) {
	a, _ := newTestAtlas(t, nil, image.Pt(10, 20))

	slot, err := a.EnsureGlyph('A', text.WeightRegular, text.StyleUpright)
	if err != nil {
		t.Fatal(err)
	}
	if got := slot.GlyphIndex(); got != 65*10 {
		t.Errorf("GlyphIndex() = %d, want %d", got, 65*10)
	}
	bold, err := a.EnsureGlyph('A', text.WeightBold, text.StyleUpright)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := bold.GlyphIndex(), uint32(bold.X)|uint32(bold.Y)<<16; got != want {
		t.Errorf("GlyphIndex() = %#x, want %#x", got, want)
	}
}

func TestGlyphAtlasOverflowUsesBlank(t *testing.T) {
	// 10 slots per row, 10 rows: only code points below 100 fit.
	a, _ := newTestAtlas(t, nil, image.Pt(200, 200))

	if a.Rasterized() != 100 {
		t.Errorf("Rasterized() = %d, want 100", a.Rasterized())
	}
	got, err := a.EnsureGlyph('x', text.WeightRegular, text.StyleUpright)
	if err != nil {
		t.Fatal(err)
	}
	if got != a.Blank() {
		t.Errorf("overflowing glyph = %v, want blank %v", got, a.Blank())
	}
	got, err = a.EnsureGlyph('A', text.WeightBold, text.StyleItalic)
	if err != nil {
		t.Fatal(err)
	}
	if got != a.Blank() {
		t.Errorf("overflowing variant = %v, want blank %v", got, a.Blank())
	}
}

func TestGlyphAtlasMissingGlyphUsesBlank(t *testing.T) {
	a := NewGlyphAtlas(newTestDevice(t, nil))
	defer a.Destroy()
	src := &recordingSource{missing: map[rune]bool{'A': true, 0x7F: true}}
	if err := a.Rebuild(src, image.Pt(8, 16)); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	if a.Rasterized() != GlyphRange-2 {
		t.Errorf("Rasterized() = %d, want %d", a.Rasterized(), GlyphRange-2)
	}
	tests := []struct {
		name string
		r    rune
		w    text.Weight
		s    text.Style
	}{
		{"regular A", 'A', text.WeightRegular, text.StyleUpright},
		{"bold italic A", 'A', text.WeightBold, text.StyleItalic},
		{"delete", 0x7F, text.WeightRegular, text.StyleItalic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.EnsureGlyph(tt.r, tt.w, tt.s)
			if err != nil {
				t.Fatalf("EnsureGlyph failed: %v", err)
			}
			if got != a.Blank() {
				t.Errorf("EnsureGlyph(%q) = %v, want blank %v", tt.r, got, a.Blank())
			}
		})
	}
	for _, k := range src.calls {
		if src.missing[k.r] {
			t.Errorf("drew missing glyph %q", k.r)
		}
	}
	if got, _ := a.EnsureGlyph('B', text.WeightBold, text.StyleUpright); got == a.Blank() {
		t.Error("present glyph resolved to the blank slot")
	}
}

func TestGlyphAtlasRebuildRejectsBadCells(t *testing.T) {
	a := NewGlyphAtlas(newTestDevice(t, nil))
	for _, cell := range []image.Point{{0, 16}, {8, 0}, {-1, 16}, {AtlasSize + 1, 16}} {
		if err := a.Rebuild(&recordingSource{}, cell); err == nil {
			t.Errorf("Rebuild(%v) succeeded", cell)
		}
	}
}

func TestGlyphAtlasRebuildResetsSlots(t *testing.T) {
	a, _ := newTestAtlas(t, nil, image.Pt(8, 16))
	if _, err := a.EnsureGlyph('A', text.WeightBold, text.StyleUpright); err != nil {
		t.Fatal(err)
	}

	src := &recordingSource{}
	if err := a.Rebuild(src, image.Pt(10, 20)); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if a.Rasterized() != GlyphRange {
		t.Errorf("Rasterized() = %d after rebuild, want %d", a.Rasterized(), GlyphRange)
	}
	slot, err := a.EnsureGlyph('A', text.WeightRegular, text.StyleUpright)
	if err != nil {
		t.Fatal(err)
	}
	if slot != (AtlasSlot{X: 650, Y: 0}) {
		t.Errorf("slot after rebuild = %v", slot)
	}
}

func TestGlyphAtlasWithFormatTable(t *testing.T) {
	fam, err := text.GoMono()
	if err != nil {
		t.Fatalf("GoMono failed: %v", err)
	}
	formats, err := text.NewFormatTable(fam, 16)
	if err != nil {
		t.Fatalf("NewFormatTable failed: %v", err)
	}
	defer formats.Close()

	cell, err := text.ProposeCellSize(fam, 16, "en")
	if err != nil {
		t.Fatalf("ProposeCellSize failed: %v", err)
	}

	a := NewGlyphAtlas(newTestDevice(t, nil))
	defer a.Destroy()
	if err := a.Rebuild(formats, cell); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	covered := func(slot AtlasSlot) bool {
		for y := slot.Y; y < slot.Y+cell.Y; y++ {
			for x := slot.X; x < slot.X+cell.X; x++ {
				if a.pixels.RGBAAt(x, y).A != 0 {
					return true
				}
			}
		}
		return false
	}

	slotA, _ := a.EnsureGlyph('A', text.WeightRegular, text.StyleUpright)
	if !covered(slotA) {
		t.Error("glyph 'A' has no coverage")
	}
	if covered(a.Blank()) {
		t.Error("blank slot has coverage")
	}
	slotB, _ := a.EnsureGlyph('B', text.WeightBold, text.StyleItalic)
	if !covered(slotB) {
		t.Error("lazy bold italic 'B' has no coverage")
	}
}
