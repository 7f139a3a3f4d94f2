package gridtext

import (
	"image"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gridtext/internal/gpu"
	"github.com/gogpu/gridtext/text"
)

// Defaults used when no option overrides them.
const (
	// DefaultDPI is the reference resolution; Scaling is 1 at this value.
	DefaultDPI = 96

	// DefaultFontSize is the default font size in points.
	DefaultFontSize = 12.0
)

// Option configures an Engine during creation.
//
// Example:
//
//	e, err := gridtext.New(
//	    gridtext.WithCompositionTarget(1280, 800),
//	    gridtext.WithFont("Go Mono", 14),
//	)
type Option func(*config)

// config holds the options of an Engine.
type config struct {
	window    Window
	compSize  image.Point
	hasTarget bool

	family   string
	sizePt   float64
	fontData *text.FamilyData
	parser   string
	locale   string

	dpi          int
	antialiasing text.Antialiasing
	clear        Color

	device gpu.DeviceConfig

	onDeviceRecreated func(*Engine)
	onTitleChanged    func(*Engine)
}

// defaultConfig returns the default engine options.
func defaultConfig() config {
	return config{
		family:       text.DefaultFamilyName,
		sizePt:       DefaultFontSize,
		dpi:          DefaultDPI,
		antialiasing: text.AntialiasGrayscale,
		device:       gpu.DefaultDeviceConfig(),
	}
}

// WithWindow binds the engine to a native window. The window size is
// re-read on every StartPaint.
func WithWindow(w Window) Option {
	return func(c *config) {
		c.window = w
		c.hasTarget = w != nil
	}
}

// WithCompositionTarget renders into an offscreen composition surface of
// the given pixel size instead of a window. The host retrieves it through
// Engine.CompositionSurface.
func WithCompositionTarget(width, height int) Option {
	return func(c *config) {
		c.window = nil
		c.compSize = image.Pt(width, height)
		c.hasTarget = true
	}
}

// WithFont selects a registered font family and its size in points.
// Unknown families resolve to Go Mono.
func WithFont(family string, sizePt float64) Option {
	return func(c *config) {
		c.family = family
		c.sizePt = sizePt
	}
}

// WithFontData supplies the font file of one variant directly. The family
// name given to WithFont labels it. Variants without data reuse Regular.
func WithFontData(w text.Weight, s text.Style, ttf []byte) Option {
	return func(c *config) {
		if c.fontData == nil {
			c.fontData = &text.FamilyData{}
		}
		switch {
		case w == text.WeightBold && s == text.StyleItalic:
			c.fontData.BoldItalic = ttf
		case w == text.WeightBold:
			c.fontData.Bold = ttf
		case s == text.StyleItalic:
			c.fontData.Italic = ttf
		default:
			c.fontData.Regular = ttf
		}
	}
}

// WithDPI sets the initial resolution. Values <= 0 are ignored.
func WithDPI(dpi int) Option {
	return func(c *config) {
		if dpi > 0 {
			c.dpi = dpi
		}
	}
}

// WithAntialiasing sets the initial glyph antialiasing mode.
func WithAntialiasing(mode text.Antialiasing) Option {
	return func(c *config) {
		c.antialiasing = mode
	}
}

// WithBackends replaces the hardware backends tried, in order, before the
// software fallback.
func WithBackends(backends ...hal.Backend) Option {
	return func(c *config) {
		c.device.Backends = backends
	}
}

// WithSoftwareFallback replaces the backend used when no hardware backend
// opens a device. nil disables the fallback.
func WithSoftwareFallback(b hal.Backend) Option {
	return func(c *config) {
		c.device.Software = b
	}
}

// WithRasterizer selects the font parser backend by name ("ximage" or
// "freetype", or anything added with text.RegisterParser).
func WithRasterizer(name string) Option {
	return func(c *config) {
		c.parser = name
	}
}

// WithLocale overrides the locale used for cell metrics. The default is
// text.SystemLocale.
func WithLocale(locale string) Option {
	return func(c *config) {
		c.locale = locale
	}
}

// WithDeviceRecreated registers a callback run after every successful
// device creation, including the first one.
func WithDeviceRecreated(fn func(*Engine)) Option {
	return func(c *config) {
		c.onDeviceRecreated = fn
	}
}

// WithTitleChanged registers the callback run by StartPaint after
// InvalidateTitle. Windows implementing TitleUpdater are notified as well.
func WithTitleChanged(fn func(*Engine)) Option {
	return func(c *config) {
		c.onTitleChanged = fn
	}
}

// WithClearColor sets the color of the area not covered by whole cells.
func WithClearColor(col Color) Option {
	return func(c *config) {
		c.clear = col
	}
}
