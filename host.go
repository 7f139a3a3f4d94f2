package gridtext

import (
	"image"

	"github.com/gogpu/gridtext/text"
)

// RenderEngine is the contract between a terminal host and a grid
// renderer. *Engine implements it.
type RenderEngine interface {
	// Paint cycle.
	StartPaint() error
	EndPaint() error
	Present() error
	WaitUntilCanRender()
	RequiresContinuousRedraw() bool
	PrepareForTeardown() (forcePaint bool)
	ScrollFrame() error

	// Paint calls.
	PaintBackground() error
	UpdateDrawingBrushes(fg, bg Color, attr Attributes)
	PaintBufferLine(clusters []Cluster, coord image.Point) error
	PaintBufferGridLines(lines GridLines, color Color, cells int, coord image.Point) error
	PaintSelection(rect image.Rectangle) error
	PaintCursor(rect image.Rectangle) error

	// Invalidation calls.
	Invalidate(rect image.Rectangle) error
	InvalidateCursor(rect image.Rectangle) error
	InvalidateSelection(rects []image.Rectangle) error
	InvalidateScroll(delta image.Point) error
	InvalidateAll() error
	InvalidateCircling() (forcePaint bool)
	InvalidateTitle()

	// Mutation.
	SetWindowSize(size image.Point) error
	UpdateFont(desired FontInfo) (FontInfo, error)
	UpdateDpi(dpi int) error
	UpdateViewport(viewport image.Rectangle) error
	UpdateTitle(title string) error
	SetAntialiasingMode(mode text.Antialiasing)

	// Queries.
	DirtyArea() image.Rectangle
	FontSize() image.Point
	IsGlyphWideByFont(glyph string) bool
	ViewportInCharacters(px image.Rectangle) image.Rectangle
	ViewportInPixels(chars image.Rectangle) image.Rectangle
}

var _ RenderEngine = (*Engine)(nil)

// GridLines selects decoration lines drawn around cells.
type GridLines uint8

// Grid line kinds.
const (
	GridLineTop GridLines = 1 << iota
	GridLineBottom
	GridLineLeft
	GridLineRight
	GridLineUnderline
	GridLineStrikethrough
)

// The engine draws text cells only. Cursor, selection, grid lines and
// effects are accepted and ignored so that hosts written against the full
// RenderEngine contract keep working.

// RequiresContinuousRedraw reports false: frames are only drawn on demand.
func (e *Engine) RequiresContinuousRedraw() bool { return false }

// PrepareForTeardown reports that no final frame is needed.
func (e *Engine) PrepareForTeardown() bool { return false }

// ScrollFrame does nothing; every frame redraws the whole grid.
func (e *Engine) ScrollFrame() error { return nil }

// PaintBackground does nothing; cell backgrounds are drawn with the text.
func (e *Engine) PaintBackground() error { return nil }

// PaintBufferGridLines does nothing.
func (e *Engine) PaintBufferGridLines(GridLines, Color, int, image.Point) error { return nil }

// PaintSelection does nothing.
func (e *Engine) PaintSelection(image.Rectangle) error { return nil }

// PaintCursor does nothing.
func (e *Engine) PaintCursor(image.Rectangle) error { return nil }

// Invalidate does nothing; see DirtyArea.
func (e *Engine) Invalidate(image.Rectangle) error { return nil }

// InvalidateCursor does nothing.
func (e *Engine) InvalidateCursor(image.Rectangle) error { return nil }

// InvalidateSelection does nothing.
func (e *Engine) InvalidateSelection([]image.Rectangle) error { return nil }

// InvalidateScroll does nothing.
func (e *Engine) InvalidateScroll(image.Point) error { return nil }

// InvalidateAll does nothing.
func (e *Engine) InvalidateAll() error { return nil }

// InvalidateCircling reports that no repaint is forced.
func (e *Engine) InvalidateCircling() bool { return false }

// UpdateViewport does nothing.
func (e *Engine) UpdateViewport(image.Rectangle) error { return nil }

// UpdateTitle does nothing; hosts observe title changes through
// WithTitleChanged.
func (e *Engine) UpdateTitle(string) error { return nil }

// IsGlyphWideByFont reports whether glyph occupies two columns.
func (e *Engine) IsGlyphWideByFont(glyph string) bool { return IsGlyphWideByFont(glyph) }

// SetRetroTerminalEffect does nothing.
func (e *Engine) SetRetroTerminalEffect(bool) {}

// RetroTerminalEffect reports false.
func (e *Engine) RetroTerminalEffect() bool { return false }

// SetPixelShaderPath does nothing.
func (e *Engine) SetPixelShaderPath(string) {}

// ToggleShaderEffects does nothing.
func (e *Engine) ToggleShaderEffects() {}

// SetSelectionBackground does nothing.
func (e *Engine) SetSelectionBackground(Color, float32) {}

// SetDefaultTextBackgroundOpacity does nothing.
func (e *Engine) SetDefaultTextBackgroundOpacity(float32) {}

// SetForceFullRepaintRendering does nothing; every frame is a full repaint.
func (e *Engine) SetForceFullRepaintRendering(bool) {}

// UpdateHyperlinkHoveredID does nothing.
func (e *Engine) UpdateHyperlinkHoveredID(uint16) {}
