package gridtext

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/wgpu/hal"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"nil", nil, OutcomeOK},
		{"retry", &RetryError{Cause: hal.ErrDeviceLost}, OutcomeRetry},
		{"wrapped retry", fmt.Errorf("present: %w", &RetryError{Cause: hal.ErrSurfaceLost}), OutcomeRetry},
		{"bare sentinel", ErrRetry, OutcomeRetry},
		{"no adapter", ErrNoAdapter, OutcomeFatal},
		{"raw device lost", hal.ErrDeviceLost, OutcomeFatal},
		{"other", errors.New("boom"), OutcomeFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryError(t *testing.T) {
	err := error(&RetryError{Cause: hal.ErrDeviceLost})

	if !errors.Is(err, ErrRetry) {
		t.Error("RetryError does not match ErrRetry")
	}
	if !errors.Is(err, hal.ErrDeviceLost) {
		t.Error("RetryError does not unwrap to its cause")
	}
	if got, want := err.Error(), ErrRetry.Error()+": "+hal.ErrDeviceLost.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := (&RetryError{}).Error(); got != ErrRetry.Error() {
		t.Errorf("Error() without cause = %q", got)
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		o    Outcome
		want string
	}{
		{OutcomeOK, "OK"},
		{OutcomeRetry, "Retry"},
		{OutcomeFatal, "Fatal"},
		{Outcome(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.o, got, tt.want)
		}
	}
}
