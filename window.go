package gridtext

import (
	"image"
	"math"

	"github.com/gogpu/gpucontext"
)

// Window is a native host window. Size and ScaleFactor come from
// gpucontext.WindowProvider; NativeHandle returns the platform handles the
// presentation surface is created from.
type Window interface {
	gpucontext.WindowProvider
	NativeHandle() (display, window uintptr)
}

// TitleUpdater is implemented by windows that refresh their title when the
// engine processes InvalidateTitle.
type TitleUpdater interface {
	UpdateTitle()
}

// pixelSize returns the client area of w in physical pixels.
func pixelSize(w gpucontext.WindowProvider) image.Point {
	width, height := w.Size()
	scale := w.ScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	return image.Pt(
		int(math.Round(float64(width)*scale)),
		int(math.Round(float64(height)*scale)),
	)
}
