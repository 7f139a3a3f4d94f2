package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// SurfaceFormat is the texel format of every presentation target.
const SurfaceFormat = gputypes.TextureFormatBGRA8Unorm

// Target identifies where frames are presented. A zero Window means there
// is no native window and frames go to a composition surface instead.
type Target struct {
	Display uintptr
	Window  uintptr
}

// IsWindow reports whether the target is a native window.
func (t Target) IsWindow() bool { return t.Window != 0 }

// CompositionSurface is the offscreen render target used when no native
// window is available. The host samples or copies Texture into its own
// composition tree. The pointer survives resizes, which swap Texture and
// View in place; a new device brings a new CompositionSurface.
type CompositionSurface struct {
	Texture hal.Texture
	View    hal.TextureView
	Format  gputypes.TextureFormat

	width, height uint32
}

// Width returns the surface width in pixels.
func (c *CompositionSurface) Width() int { return int(c.width) }

// Height returns the surface height in pixels.
func (c *CompositionSurface) Height() int { return int(c.height) }

var _ gpucontext.Texture = (*CompositionSurface)(nil)

// Surface is the double-buffered presentation target of a Device.
type Surface struct {
	device *Device
	target Target
	width  uint32
	height uint32

	// window targets
	surface  hal.Surface
	config   hal.SurfaceConfiguration
	fallback bool

	// composition targets
	comp *CompositionSurface

	// current frame, window targets only
	acquired *hal.AcquiredSurfaceTexture
	view     hal.TextureView
}

// NewSurface creates the presentation target for target at width × height.
// A zero area is a caller bug and panics.
func NewSurface(d *Device, target Target, width, height uint32) (*Surface, error) {
	if width == 0 || height == 0 {
		panic(fmt.Sprintf("gpu: NewSurface with zero area %dx%d", width, height))
	}
	s := &Surface{device: d, target: target, width: width, height: height}
	if target.IsWindow() {
		if err := s.createSwapChain(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err := s.createComposition(); err != nil {
		return nil, err
	}
	return s, nil
}

// createSwapChain configures a window surface, retrying once with the
// adapter's fallback configuration.
func (s *Surface) createSwapChain() error {
	surface, err := s.device.instance.CreateSurface(s.target.Display, s.target.Window)
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}

	preferred := hal.SurfaceConfiguration{
		Width:       s.width,
		Height:      s.height,
		Format:      SurfaceFormat,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: gputypes.PresentModeFifo,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	}
	err = surface.Configure(s.device.device, &preferred)
	if err == nil {
		s.surface, s.config = surface, preferred
		return nil
	}

	fallback := fallbackConfig(preferred, s.device.adapter.SurfaceCapabilities(surface))
	slogger().Warn("gpu: preferred surface configuration rejected, retrying with fallback",
		"err", err, "format", fallback.Format, "alpha", fallback.AlphaMode)
	if err2 := surface.Configure(s.device.device, &fallback); err2 != nil {
		surface.Destroy()
		return fmt.Errorf("%w: %w", ErrSurfaceConfigure, errors.Join(err, err2))
	}
	s.surface, s.config, s.fallback = surface, fallback, true
	return nil
}

// fallbackConfig relaxes alpha handling to the first other mode the surface
// advertises (Auto when it lists none), and the format to its first one if
// BGRA8 is not listed.
func fallbackConfig(preferred hal.SurfaceConfiguration, caps *hal.SurfaceCapabilities) hal.SurfaceConfiguration {
	cfg := preferred
	cfg.AlphaMode = gputypes.CompositeAlphaModeAuto
	if caps == nil {
		return cfg
	}
	for _, m := range caps.AlphaModes {
		if m != preferred.AlphaMode {
			cfg.AlphaMode = m
			break
		}
	}
	if len(caps.Formats) > 0 && !containsFormat(caps.Formats, preferred.Format) {
		cfg.Format = caps.Formats[0]
	}
	return cfg
}

func containsFormat(formats []gputypes.TextureFormat, f gputypes.TextureFormat) bool {
	for _, x := range formats {
		if x == f {
			return true
		}
	}
	return false
}

// createComposition allocates the offscreen render target.
func (s *Surface) createComposition() error {
	caps := s.device.adapter.TextureFormatCapabilities(SurfaceFormat)
	need := hal.TextureFormatCapabilityRenderAttachment | hal.TextureFormatCapabilitySampled
	if caps.Flags&need != need {
		return ErrCompositionUnsupported
	}

	dev := s.device.device
	tex, err := dev.CreateTexture(&hal.TextureDescriptor{
		Label:         "gridtext_composition",
		Size:          hal.Extent3D{Width: s.width, Height: s.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        SurfaceFormat,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create composition texture: %w", err)
	}
	view, err := dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "gridtext_composition_view",
		Format:        SurfaceFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		dev.DestroyTexture(tex)
		return fmt.Errorf("create composition view: %w", err)
	}
	if s.comp == nil {
		s.comp = &CompositionSurface{Format: SurfaceFormat}
	}
	s.comp.Texture, s.comp.View = tex, view
	s.comp.width, s.comp.height = s.width, s.height
	return nil
}

// Format returns the texel format render pipelines must target.
func (s *Surface) Format() gputypes.TextureFormat {
	if s.comp != nil {
		return s.comp.Format
	}
	return s.config.Format
}

// Size returns the backing size in pixels.
func (s *Surface) Size() (width, height uint32) { return s.width, s.height }

// UsesFallback reports whether the window surface runs on the fallback
// configuration.
func (s *Surface) UsesFallback() bool { return s.fallback }

// Composition returns the composition surface, or nil for window targets.
func (s *Surface) Composition() *CompositionSurface { return s.comp }

// Resize drops the current render-target view and resizes the backing
// buffers. Views are recreated on the next AcquireView. A composition
// target keeps its *CompositionSurface; only its texture is replaced.
func (s *Surface) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		panic(fmt.Sprintf("gpu: Surface.Resize with zero area %dx%d", width, height))
	}
	s.releaseFrame(true)
	s.width, s.height = width, height

	if s.surface != nil {
		s.surface.Unconfigure(s.device.device)
		s.config.Width, s.config.Height = width, height
		if err := s.surface.Configure(s.device.device, &s.config); err != nil {
			return fmt.Errorf("resize surface: %w", err)
		}
		return nil
	}

	s.releaseCompositionTextures()
	return s.createComposition()
}

// AcquireView returns the view to render the current frame into. Window
// targets acquire a new swap-chain texture once per frame.
func (s *Surface) AcquireView() (hal.TextureView, error) {
	if s.comp != nil {
		return s.comp.View, nil
	}
	if s.view != nil {
		return s.view, nil
	}

	acq, err := s.surface.AcquireTexture(nil)
	if err != nil {
		return nil, fmt.Errorf("acquire surface texture: %w", err)
	}
	if acq.Suboptimal {
		slogger().Debug("gpu: suboptimal surface texture")
	}
	view, err := s.device.device.CreateTextureView(acq.Texture, &hal.TextureViewDescriptor{
		Label:         "gridtext_frame_view",
		Format:        s.config.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.surface.DiscardTexture(acq.Texture)
		return nil, fmt.Errorf("create frame view: %w", err)
	}
	s.acquired, s.view = acq, view
	return view, nil
}

// Present shows the current frame and drops its render-target view, so the
// next frame never loads the previous contents.
func (s *Surface) Present() error {
	if s.comp != nil {
		return nil
	}
	if s.acquired == nil {
		return ErrNotReady
	}
	err := s.device.queue.Present(s.surface, s.acquired.Texture, nil)
	s.releaseFrame(err != nil)
	return err
}

// releaseFrame destroys the per-frame view and, when the texture was not
// presented, hands it back to the swap chain.
func (s *Surface) releaseFrame(discard bool) {
	if s.view != nil {
		s.device.device.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.acquired != nil {
		if discard {
			s.surface.DiscardTexture(s.acquired.Texture)
		}
		s.acquired = nil
	}
}

// releaseCompositionTextures frees the offscreen texture but keeps the
// CompositionSurface itself, so handles given to the host stay valid across
// resizes.
func (s *Surface) releaseCompositionTextures() {
	if s.comp == nil {
		return
	}
	dev := s.device.device
	if s.comp.View != nil {
		dev.DestroyTextureView(s.comp.View)
		s.comp.View = nil
	}
	if s.comp.Texture != nil {
		dev.DestroyTexture(s.comp.Texture)
		s.comp.Texture = nil
	}
}

func (s *Surface) destroyComposition() {
	s.releaseCompositionTextures()
	s.comp = nil
}

// Destroy releases every surface resource.
func (s *Surface) Destroy() {
	if s.device.device == nil {
		return
	}
	s.releaseFrame(true)
	if s.surface != nil {
		s.surface.Unconfigure(s.device.device)
		s.surface.Destroy()
		s.surface = nil
	}
	s.destroyComposition()
}
