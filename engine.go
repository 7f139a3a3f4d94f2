package gridtext

import (
	"fmt"
	"image"
	"strings"
	"unsafe"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/gridtext/internal/gpu"
	"github.com/gogpu/gridtext/text"
)

// Cell is one grid position as stored in the cell buffer.
type Cell = gpu.Cell

// CompositionSurface is the offscreen target of an engine created with
// WithCompositionTarget.
type CompositionSurface = gpu.CompositionSurface

// PaintState is the phase of the frame cycle an Engine is in.
type PaintState uint8

const (
	// StateIdle is the state between frames.
	StateIdle PaintState = iota
	// StateResolving means StartPaint is checking the invalidations.
	StateResolving
	// StateRebuilding means stale resources are being recreated.
	StateRebuilding
	// StateWriting means per-line paint calls are accepted.
	StateWriting
	// StateDrawing means EndPaint was called and the frame awaits Present.
	StateDrawing
	// StatePresenting means Present is encoding and submitting the frame.
	StatePresenting
	// StateDeviceLost means the last call lost the device. The next
	// StartPaint recreates it.
	StateDeviceLost
)

// String returns the string representation of the state.
func (s PaintState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateResolving:
		return "Resolving"
	case StateRebuilding:
		return "Rebuilding"
	case StateWriting:
		return "Writing"
	case StateDrawing:
		return "Drawing"
	case StatePresenting:
		return "Presenting"
	case StateDeviceLost:
		return "DeviceLost"
	default:
		return "Unknown"
	}
}

// FontInfo describes a font request or the font actually in use.
type FontInfo struct {
	// Family is the family name. Unknown names resolve to Go Mono.
	Family string
	// SizePt is the size in points.
	SizePt float64
	// SizePx is the size in pixels at the engine DPI. Ignored in requests.
	SizePx float64
	// CellSize is the resulting cell size in pixels. Ignored in requests.
	CellSize image.Point
}

// Attributes select the font variant of subsequent paint calls.
type Attributes struct {
	Bold   bool
	Italic bool
}

// Engine renders a character grid with the GPU.
//
// Mutation calls (SetWindowSize, UpdateFont, UpdateDpi, SetAntialiasingMode,
// InvalidateTitle) only record what became stale. All rebuilding happens in
// StartPaint, at most once per frame, in the order device, size, font.
//
// Engine is not safe for concurrent use.
type Engine struct {
	cfg config

	invalid Invalidations
	state   PaintState
	geom    Geometry

	dpi          int
	antialiasing text.Antialiasing
	locale       string
	family       *text.Family
	font         FontInfo

	device   *gpu.Device
	surface  *gpu.Surface
	pipeline *gpu.GridPipeline
	cells    *gpu.CellBuffer
	atlas    *gpu.GlyphAtlas
	formats  *text.FormatTable
	waiter   *gpu.LatencyWaiter

	fg, bg Color
	attr   Attributes
	line   []Cell
	skip   bool

	frames uint64
	closed bool
}

// New creates an engine. No GPU work happens until the first StartPaint.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.hasTarget {
		return nil, ErrNoTarget
	}
	if cfg.window == nil && (cfg.compSize.X <= 0 || cfg.compSize.Y <= 0) {
		return nil, fmt.Errorf("%w: composition target %v", ErrInvalidSize, cfg.compSize)
	}
	if cfg.sizePt <= 0 {
		return nil, fmt.Errorf("%w: size %vpt", ErrInvalidFont, cfg.sizePt)
	}

	e := &Engine{
		cfg:          cfg,
		invalid:      invalidateAll,
		dpi:          cfg.dpi,
		antialiasing: cfg.antialiasing,
		locale:       resolveLocale(cfg.locale),
	}

	fam, err := e.loadFamily(cfg.family)
	if err != nil {
		return nil, err
	}
	e.family = fam

	size := cfg.compSize
	if cfg.window != nil {
		size = pixelSize(cfg.window)
	}
	info, err := e.proposeFont(fam, cfg.sizePt)
	if err != nil {
		return nil, err
	}
	e.font = info
	e.geom = Geometry{}.withCellSize(info.CellSize).withSize(size)

	slogger().Info("gridtext: engine created",
		"font", info.Family, "sizePt", info.SizePt, "cell", info.CellSize,
		"size", size, "locale", e.locale)
	return e, nil
}

// resolveLocale normalizes an explicit locale or reads the system one.
func resolveLocale(locale string) string {
	if locale == "" {
		return text.SystemLocale()
	}
	if tag, ok := text.NormalizeLocale(locale); ok {
		return tag
	}
	return text.DefaultLocale
}

// loadFamily resolves name, preferring font data given through options.
func (e *Engine) loadFamily(name string) (*text.Family, error) {
	var opts []text.FamilyOption
	if e.cfg.parser != "" {
		opts = append(opts, text.WithParser(e.cfg.parser))
	}
	if e.cfg.fontData != nil && (name == "" || strings.EqualFold(name, e.cfg.family)) {
		fam, err := text.NewFamily(e.cfg.family, *e.cfg.fontData, opts...)
		if err != nil {
			return nil, fmt.Errorf("gridtext: load font data: %w", err)
		}
		return fam, nil
	}
	fam, err := text.LookupFamily(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("gridtext: load font %q: %w", name, err)
	}
	return fam, nil
}

// proposeFont computes the pixel size and cell size of fam at sizePt.
func (e *Engine) proposeFont(fam *text.Family, sizePt float64) (FontInfo, error) {
	sizePx := text.PointsToPixels(sizePt, e.dpi)
	cell, err := text.ProposeCellSize(fam, sizePx, e.locale)
	if err != nil {
		return FontInfo{}, fmt.Errorf("gridtext: cell metrics for %q: %w", fam.Name(), err)
	}
	return FontInfo{
		Family:   fam.Name(),
		SizePt:   sizePt,
		SizePx:   sizePx,
		CellSize: cell,
	}, nil
}

// resolve rebuilds every stale resource group in dependency order. A group's
// flag is cleared only after its rebuild succeeded.
func (e *Engine) resolve() error {
	if !e.invalid.Has(invalidateAll) {
		return nil
	}
	e.state = StateRebuilding

	if e.invalid.Has(InvalidateDevice) {
		if err := e.createDevice(); err != nil {
			return e.fail(err)
		}
		e.invalid.Clear(InvalidateDevice)
		e.invalid.Set(InvalidateSize | InvalidateFont)
		if fn := e.cfg.onDeviceRecreated; fn != nil {
			fn(e)
		}
	}
	if e.invalid.Has(InvalidateSize) {
		if err := e.recreateSizeDependent(); err != nil {
			return e.fail(err)
		}
		e.invalid.Clear(InvalidateSize)
	}
	if e.invalid.Has(InvalidateFont) {
		if err := e.recreateFontDependent(); err != nil {
			return e.fail(err)
		}
		e.invalid.Clear(InvalidateFont)
	}
	return nil
}

// createDevice replaces every device resource with fresh ones.
func (e *Engine) createDevice() error {
	e.dropDevice()

	dev, err := gpu.NewDevice(e.cfg.device)
	if err != nil {
		return err
	}
	e.device = dev

	w, h := e.geom.SizeInPixel.X, e.geom.SizeInPixel.Y
	surface, err := gpu.NewSurface(dev, e.target(), uint32(w), uint32(h))
	if err != nil {
		e.dropDevice()
		return err
	}
	e.surface = surface

	pipeline, err := gpu.NewGridPipeline(dev, surface.Format())
	if err != nil {
		e.dropDevice()
		return err
	}
	e.pipeline = pipeline
	e.cells = gpu.NewCellBuffer(dev)
	e.atlas = gpu.NewGlyphAtlas(dev)
	e.waiter = dev.FrameLatencyWaiter()
	return nil
}

// target returns where frames go: the window handles, or nothing for a
// composition surface.
func (e *Engine) target() gpu.Target {
	if e.cfg.window == nil {
		return gpu.Target{}
	}
	display, window := e.cfg.window.NativeHandle()
	return gpu.Target{Display: display, Window: window}
}

// recreateSizeDependent resizes the surface, reallocates the cell buffer
// when the cell count changed, and rewrites the grid constants.
func (e *Engine) recreateSizeDependent() error {
	size := e.geom.SizeInPixel
	if w, h := e.surface.Size(); int(w) != size.X || int(h) != size.Y {
		if err := e.surface.Resize(uint32(size.X), uint32(size.Y)); err != nil {
			return err
		}
	}
	changed, err := e.cells.Resize(e.geom.bufferCount())
	if err != nil {
		return err
	}
	if changed {
		e.pipeline.Unbind()
	}
	return e.pipeline.UpdateConstants(e.geom.CellSize, e.geom.CellCount)
}

// recreateFontDependent rebuilds the text formats and the glyph atlas.
func (e *Engine) recreateFontDependent() error {
	formats, err := text.NewFormatTable(e.family, e.font.SizePx, text.WithAntialiasing(e.antialiasing))
	if err != nil {
		return fmt.Errorf("gridtext: text formats: %w", err)
	}
	if e.formats != nil {
		e.formats.Close()
	}
	e.formats = formats

	if err := e.atlas.Rebuild(formats, e.geom.CellSize); err != nil {
		return err
	}
	e.pipeline.Unbind()
	return nil
}

// dropDevice releases every device resource, newest first.
func (e *Engine) dropDevice() {
	if e.pipeline != nil {
		e.pipeline.Destroy()
		e.pipeline = nil
	}
	if e.atlas != nil {
		e.atlas.Destroy()
		e.atlas = nil
	}
	if e.cells != nil {
		e.cells.Destroy()
		e.cells = nil
	}
	if e.surface != nil {
		e.surface.Destroy()
		e.surface = nil
	}
	if e.device != nil {
		e.device.Destroy()
		e.device = nil
	}
	e.waiter = nil
}

// fail turns err into the result of a paint call. A device loss drops every
// device resource and re-arms device creation, so the next StartPaint
// starts over.
func (e *Engine) fail(err error) error {
	if gpu.IsDeviceLoss(err) {
		slogger().Warn("gridtext: device lost, recreating on next paint", "err", err)
		e.dropDevice()
		e.invalid.Set(InvalidateDevice)
		e.state = StateDeviceLost
		return &RetryError{Cause: err}
	}
	e.state = StateIdle
	return err
}

// Close releases every resource. The engine cannot be used afterwards.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.dropDevice()
	if e.formats != nil {
		e.formats.Close()
		e.formats = nil
	}
	e.closed = true
	e.state = StateIdle
}

// SetWindowSize records a new surface size in pixels.
func (e *Engine) SetWindowSize(size image.Point) error {
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	e.setSize(size)
	return nil
}

func (e *Engine) setSize(size image.Point) {
	if size == e.geom.SizeInPixel {
		return
	}
	e.geom = e.geom.withSize(size)
	e.invalid.Set(InvalidateSize)
}

// UpdateFont applies desired and returns the font actually used. An empty
// family keeps the current one. The atlas is always rebuilt; the size
// dependent resources only if the cell size changed.
func (e *Engine) UpdateFont(desired FontInfo) (FontInfo, error) {
	if desired.SizePt <= 0 {
		return e.font, fmt.Errorf("%w: size %vpt", ErrInvalidFont, desired.SizePt)
	}
	fam := e.family
	if desired.Family != "" && !strings.EqualFold(desired.Family, fam.Name()) {
		loaded, err := e.loadFamily(desired.Family)
		if err != nil {
			return e.font, err
		}
		fam = loaded
	}
	info, err := e.proposeFont(fam, desired.SizePt)
	if err != nil {
		return e.font, err
	}
	e.applyFont(fam, info)
	return info, nil
}

func (e *Engine) applyFont(fam *text.Family, info FontInfo) {
	e.family = fam
	e.font = info
	e.invalid.Set(InvalidateFont)
	if info.CellSize != e.geom.CellSize {
		e.geom = e.geom.withCellSize(info.CellSize)
		e.invalid.Set(InvalidateSize)
	}
}

// UpdateDpi changes the resolution the font size is converted with.
func (e *Engine) UpdateDpi(dpi int) error {
	if dpi <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDPI, dpi)
	}
	if dpi == e.dpi {
		return nil
	}
	prev := e.dpi
	e.dpi = dpi
	info, err := e.proposeFont(e.family, e.font.SizePt)
	if err != nil {
		e.dpi = prev
		return err
	}
	e.applyFont(e.family, info)
	return nil
}

// SetAntialiasingMode changes how glyphs are rasterized.
func (e *Engine) SetAntialiasingMode(mode text.Antialiasing) {
	if mode == e.antialiasing {
		return
	}
	e.antialiasing = mode
	e.invalid.Set(InvalidateFont)
}

// InvalidateTitle asks for a title refresh during the next StartPaint.
func (e *Engine) InvalidateTitle() {
	e.invalid.Set(InvalidateTitle)
}

// Invalidations returns the resource groups that are currently stale.
func (e *Engine) Invalidations() Invalidations { return e.invalid }

// State returns the current frame phase.
func (e *Engine) State() PaintState { return e.state }

// Geometry returns the grid layout.
func (e *Engine) Geometry() Geometry { return e.geom }

// CellSize returns the cell size in pixels.
func (e *Engine) CellSize() image.Point { return e.geom.CellSize }

// CellCount returns the grid size in cells.
func (e *Engine) CellCount() image.Point { return e.geom.CellCount }

// FontSize returns the cell size in pixels, the size a terminal font
// occupies on the grid.
func (e *Engine) FontSize() image.Point { return e.geom.CellSize }

// Font returns the font in use.
func (e *Engine) Font() FontInfo { return e.font }

// DPI returns the current resolution.
func (e *Engine) DPI() int { return e.dpi }

// Scaling returns the DPI relative to DefaultDPI.
func (e *Engine) Scaling() float32 { return float32(e.dpi) / DefaultDPI }

// Antialiasing returns the current antialiasing mode.
func (e *Engine) Antialiasing() text.Antialiasing { return e.antialiasing }

// Locale returns the language tag used for cell metrics.
func (e *Engine) Locale() string { return e.locale }

// Frames returns the number of frames presented.
func (e *Engine) Frames() uint64 { return e.frames }

// AdapterInfo describes the adapter in use. It is zero before the first
// StartPaint and after a device loss.
func (e *Engine) AdapterInfo() gpucontext.AdapterInfo {
	if e.device == nil {
		return gpucontext.AdapterInfo{}
	}
	return e.device.ContextInfo()
}

// CompositionSurface returns the offscreen target, or nil for window
// targets and before the device exists. The handle stays the same across
// SetWindowSize; it only changes when the device is recreated, which
// WithDeviceRecreated reports.
func (e *Engine) CompositionSurface() *CompositionSurface {
	if e.surface == nil {
		return nil
	}
	return e.surface.Composition()
}

// CompositionView returns the composition surface as a gpucontext handle.
// Consumers convert it back with (*gridtext.CompositionSurface)(tv.Pointer()).
func (e *Engine) CompositionView() gpucontext.TextureView {
	c := e.CompositionSurface()
	if c == nil {
		return gpucontext.TextureView{}
	}
	return gpucontext.NewTextureView(unsafe.Pointer(c))
}

// DirtyArea returns the region redrawn by the next frame, in cells. Every
// frame redraws the whole grid.
func (e *Engine) DirtyArea() image.Rectangle {
	return image.Rectangle{Max: e.geom.CellCount}
}

// ViewportInCharacters converts a pixel viewport to cells. The origin is
// kept; the size is divided by the cell size.
func (e *Engine) ViewportInCharacters(px image.Rectangle) image.Rectangle {
	cell := e.geom.CellSize
	if cell.X <= 0 || cell.Y <= 0 {
		return image.Rectangle{Min: px.Min, Max: px.Min}
	}
	size := image.Pt(px.Dx()/cell.X, px.Dy()/cell.Y)
	return image.Rectangle{Min: px.Min, Max: px.Min.Add(size)}
}

// ViewportInPixels converts a cell viewport to pixels. The origin is kept;
// the size is multiplied by the cell size.
func (e *Engine) ViewportInPixels(chars image.Rectangle) image.Rectangle {
	cell := e.geom.CellSize
	size := image.Pt(chars.Dx()*cell.X, chars.Dy()*cell.Y)
	return image.Rectangle{Min: chars.Min, Max: chars.Min.Add(size)}
}
