package gpu

import (
	"errors"

	"github.com/gogpu/wgpu/hal"
)

// Sentinel errors for the device and surface layer.
var (
	// ErrNoAdapter is returned when no backend, adapter and limit tier
	// combination could open a device.
	ErrNoAdapter = errors.New("gpu: no usable adapter")

	// ErrCompositionUnsupported is returned when a composition target is
	// requested but the adapter cannot render into the composition format.
	ErrCompositionUnsupported = errors.New("gpu: composition surface not supported by adapter")

	// ErrSurfaceConfigure is returned when neither the preferred nor the
	// fallback surface configuration is accepted.
	ErrSurfaceConfigure = errors.New("gpu: surface configuration rejected")

	// ErrNoTarget is returned when a surface is created without a target.
	ErrNoTarget = errors.New("gpu: no presentation target")

	// ErrNotReady is returned when a resource is used before creation.
	ErrNotReady = errors.New("gpu: resource not created")
)

// IsDeviceLoss reports whether err means every resource created on the
// device must be recreated: device lost or reset, or a surface that has to
// be rebuilt from scratch.
func IsDeviceLoss(err error) bool {
	return errors.Is(err, hal.ErrDeviceLost) ||
		errors.Is(err, hal.ErrSurfaceLost) ||
		errors.Is(err, hal.ErrSurfaceOutdated)
}
