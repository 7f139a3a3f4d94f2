package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gridtext/text"
)

// Atlas geometry.
const (
	// AtlasSize is the atlas dimension (2048x2048 texels).
	AtlasSize = 2048

	// GlyphRange is the number of representable code points, starting at 0.
	GlyphRange = 128

	// blankRune is the code point whose slot stands in for everything the
	// atlas cannot represent.
	blankRune = ' '
)

// atlasFormat is the texel format of the atlas. Coverage is replicated into
// every channel, so the fragment stage can read any of them.
const atlasFormat = gputypes.TextureFormatRGBA8Unorm

// AtlasSlot is the top-left texel of a glyph cell in the atlas.
type AtlasSlot struct {
	X int
	Y int
}

// GlyphIndex packs the slot into the Cell.GlyphIndex encoding.
func (s AtlasSlot) GlyphIndex() uint32 {
	return uint32(s.X) | uint32(s.Y)<<16
}

// String returns a string representation of the slot.
func (s AtlasSlot) String() string {
	return fmt.Sprintf("Slot(%d,%d)", s.X, s.Y)
}

// GlyphSource rasterizes single code points into fixed cells.
// *text.FormatTable implements it.
type GlyphSource interface {
	HasGlyph(r rune, w text.Weight, s text.Style) bool
	DrawGlyph(dst *image.RGBA, cell image.Rectangle, r rune, w text.Weight, s text.Style)
}

// glyphKey identifies one rasterized glyph.
type glyphKey struct {
	r rune
	w text.Weight
	s text.Style
}

// GlyphAtlas is the glyph texture plus its lookup table.
//
// Slots are fixed-size cells laid out linearly: variant v occupies slot
// indices [v*GlyphRange, (v+1)*GlyphRange), code point r of that variant
// sits at index v*GlyphRange+r, and indices fill the texture row by row.
// There is no eviction; code points outside [0, GlyphRange), code points
// the font has no glyph for, and slots that fall off the texture resolve to
// the blank slot.
type GlyphAtlas struct {
	device *Device

	texture hal.Texture
	view    hal.TextureView
	pixels  *image.RGBA

	source   GlyphSource
	cellSize image.Point
	slots    map[glyphKey]AtlasSlot
	blank    AtlasSlot

	rasterized int
}

// NewGlyphAtlas returns an empty atlas bound to d. Call Rebuild before use.
func NewGlyphAtlas(d *Device) *GlyphAtlas {
	return &GlyphAtlas{device: d}
}

// View returns the atlas texture view for binding.
func (a *GlyphAtlas) View() hal.TextureView { return a.view }

// CellSize returns the slot size in texels.
func (a *GlyphAtlas) CellSize() image.Point { return a.cellSize }

// Blank returns the placeholder slot.
func (a *GlyphAtlas) Blank() AtlasSlot { return a.blank }

// Rasterized returns how many glyphs were drawn since the last Rebuild.
func (a *GlyphAtlas) Rasterized() int { return a.rasterized }

// Rebuild recreates a zeroed atlas for cellSize cells drawn by src, and
// eagerly rasterizes the representable range of the regular upright
// variant. Other variants are drawn on first use by EnsureGlyph.
func (a *GlyphAtlas) Rebuild(src GlyphSource, cellSize image.Point) error {
	if cellSize.X <= 0 || cellSize.Y <= 0 || cellSize.X > AtlasSize || cellSize.Y > AtlasSize {
		return fmt.Errorf("gpu: glyph cell %v does not fit a %d atlas", cellSize, AtlasSize)
	}

	a.destroyTexture()
	if err := a.createTexture(); err != nil {
		return err
	}

	a.source = src
	a.cellSize = cellSize
	a.pixels = image.NewRGBA(image.Rect(0, 0, AtlasSize, AtlasSize))
	a.slots = make(map[glyphKey]AtlasSlot, GlyphRange)
	a.rasterized = 0

	blank, _ := a.slotFor(blankRune, text.WeightRegular, text.StyleUpright)
	a.blank = blank

	for r := rune(0); r < GlyphRange; r++ {
		slot, ok := a.slotFor(r, text.WeightRegular, text.StyleUpright)
		if !ok {
			break
		}
		key := glyphKey{r, text.WeightRegular, text.StyleUpright}
		if !src.HasGlyph(r, key.w, key.s) {
			a.slots[key] = a.blank
			continue
		}
		a.draw(key, slot)
	}

	if err := a.upload(0, AtlasSize); err != nil {
		return err
	}
	slogger().Debug("gpu: glyph atlas rebuilt", "cell", cellSize, "glyphs", a.rasterized)
	return nil
}

// EnsureGlyph returns the slot of r in the w × s variant, rasterizing and
// uploading it on first use.
func (a *GlyphAtlas) EnsureGlyph(r rune, w text.Weight, s text.Style) (AtlasSlot, error) {
	key := glyphKey{r, w, s}
	if slot, ok := a.slots[key]; ok {
		return slot, nil
	}
	if r < 0 || r >= GlyphRange {
		return a.blank, nil
	}
	slot, ok := a.slotFor(r, w, s)
	if !ok {
		return a.blank, nil
	}
	if !a.source.HasGlyph(r, w, s) {
		a.slots[key] = a.blank
		return a.blank, nil
	}

	a.draw(key, slot)
	if err := a.upload(slot.Y, a.cellSize.Y); err != nil {
		delete(a.slots, key)
		return a.blank, err
	}
	return slot, nil
}

// slotFor computes the fixed slot of r in the w × s variant and reports
// whether it lies inside the texture.
func (a *GlyphAtlas) slotFor(r rune, w text.Weight, s text.Style) (AtlasSlot, bool) {
	perRow := AtlasSize / a.cellSize.X
	idx := variantIndex(w, s)*GlyphRange + int(r)
	slot := AtlasSlot{
		X: (idx % perRow) * a.cellSize.X,
		Y: (idx / perRow) * a.cellSize.Y,
	}
	return slot, slot.Y+a.cellSize.Y <= AtlasSize
}

func variantIndex(w text.Weight, s text.Style) int {
	return int(w)*2 + int(s)
}

// draw rasterizes key into slot on the CPU copy and records it.
func (a *GlyphAtlas) draw(key glyphKey, slot AtlasSlot) {
	cell := image.Rectangle{Min: image.Pt(slot.X, slot.Y), Max: image.Pt(slot.X+a.cellSize.X, slot.Y+a.cellSize.Y)}
	a.source.DrawGlyph(a.pixels, cell, key.r, key.w, key.s)
	a.slots[key] = slot
	a.rasterized++
}

// upload copies full-width rows [y, y+h) of the CPU copy to the texture.
func (a *GlyphAtlas) upload(y, h int) error {
	if y+h > AtlasSize {
		h = AtlasSize - y
	}
	start := a.pixels.PixOffset(0, y)
	end := start + h*a.pixels.Stride
	err := a.device.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  a.texture,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: 0, Y: uint32(y), Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		a.pixels.Pix[start:end],
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(a.pixels.Stride),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: AtlasSize, Height: uint32(h), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("upload glyph atlas rows %d..%d: %w", y, y+h, err)
	}
	return nil
}

func (a *GlyphAtlas) createTexture() error {
	dev := a.device.device
	tex, err := dev.CreateTexture(&hal.TextureDescriptor{
		Label:         "gridtext_glyph_atlas",
		Size:          hal.Extent3D{Width: AtlasSize, Height: AtlasSize, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        atlasFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create glyph atlas: %w", err)
	}
	view, err := dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "gridtext_glyph_atlas_view",
		Format:        atlasFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		dev.DestroyTexture(tex)
		return fmt.Errorf("create glyph atlas view: %w", err)
	}
	a.texture, a.view = tex, view
	return nil
}

func (a *GlyphAtlas) destroyTexture() {
	dev := a.device.device
	if dev == nil {
		a.texture, a.view = nil, nil
		return
	}
	if a.view != nil {
		dev.DestroyTextureView(a.view)
		a.view = nil
	}
	if a.texture != nil {
		dev.DestroyTexture(a.texture)
		a.texture = nil
	}
}

// Destroy releases the texture and forgets every slot.
func (a *GlyphAtlas) Destroy() {
	a.destroyTexture()
	a.pixels = nil
	a.slots = nil
	a.source = nil
}
