package gridtext

import (
	"errors"
	"fmt"

	"github.com/gogpu/gridtext/internal/gpu"
)

// Sentinel errors.
var (
	// ErrRetry marks a frame that failed because the device was lost.
	// Every device resource has been dropped and will be recreated by the
	// next StartPaint; the host should simply repaint.
	ErrRetry = errors.New("gridtext: device lost, repaint required")

	// ErrInvalidSize is returned by SetWindowSize for negative or empty sizes.
	ErrInvalidSize = errors.New("gridtext: invalid window size")

	// ErrInvalidDPI is returned by UpdateDpi for non-positive values.
	ErrInvalidDPI = errors.New("gridtext: invalid dpi")

	// ErrInvalidFont is returned by UpdateFont for non-positive sizes.
	ErrInvalidFont = errors.New("gridtext: invalid font request")

	// ErrNoTarget is returned by New when neither a window nor a
	// composition target was configured.
	ErrNoTarget = errors.New("gridtext: no window or composition target")

	// ErrNotPainting is returned by paint calls outside StartPaint/EndPaint.
	ErrNotPainting = errors.New("gridtext: paint call outside StartPaint/EndPaint")

	// ErrClosed is returned by paint calls after Close.
	ErrClosed = errors.New("gridtext: engine closed")

	// ErrNoAdapter is returned when no device could be opened.
	ErrNoAdapter = gpu.ErrNoAdapter

	// ErrCompositionUnsupported is returned when the adapter cannot render
	// into a composition surface.
	ErrCompositionUnsupported = gpu.ErrCompositionUnsupported
)

// RetryError reports a device loss. The engine has already dropped its
// device resources and re-armed device creation for the next paint.
type RetryError struct {
	Cause error
}

func (e *RetryError) Error() string {
	if e.Cause == nil {
		return ErrRetry.Error()
	}
	return fmt.Sprintf("%s: %v", ErrRetry.Error(), e.Cause)
}

// Unwrap returns the underlying device error.
func (e *RetryError) Unwrap() error { return e.Cause }

// Is makes errors.Is(err, ErrRetry) hold for every RetryError.
func (e *RetryError) Is(target error) bool { return target == ErrRetry }

// Outcome classifies the result of an engine call.
type Outcome uint8

const (
	// OutcomeOK means the call succeeded.
	OutcomeOK Outcome = iota
	// OutcomeRetry means the device was lost and the next paint recovers.
	OutcomeRetry
	// OutcomeFatal means the engine cannot render.
	OutcomeFatal
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "OK"
	case OutcomeRetry:
		return "Retry"
	case OutcomeFatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// Classify maps an error returned by the engine to its outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrRetry):
		return OutcomeRetry
	default:
		return OutcomeFatal
	}
}
