package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/gridtext/internal/gputest"
)

func TestNewDeviceNoop(t *testing.T) {
	d := newTestDevice(t, nil)

	if d.HAL() == nil || d.Queue() == nil || d.Instance() == nil || d.Adapter() == nil {
		t.Fatal("device has nil handles")
	}
	if got := d.Info().Name; got != "Noop Adapter" {
		t.Errorf("Info().Name = %q, want %q", got, "Noop Adapter")
	}
	if d.IsSoftware() {
		t.Error("IsSoftware() = true for a configured backend")
	}
	info := d.ContextInfo()
	if info.Name != "Noop Adapter" || info.Type != gpucontext.AdapterTypeUnknown {
		t.Errorf("ContextInfo() = %+v", info)
	}
}

func TestNewDeviceSoftwareFallback(t *testing.T) {
	failing := gputest.Backend{Backend: noop.API{}, Faults: &gputest.Faults{FailInstance: true}}

	d, err := NewDevice(DeviceConfig{
		Backends: []hal.Backend{failing},
		Software: noop.API{},
	})
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}
	defer d.Destroy()

	if !d.IsSoftware() {
		t.Error("IsSoftware() = false after falling back")
	}
}

func TestNewDeviceNoAdapter(t *testing.T) {
	cause := errors.New("driver missing")
	faults := &gputest.Faults{Err: cause, FailInstance: true}

	tests := []struct {
		name string
		cfg  DeviceConfig
	}{
		{"nothing configured", DeviceConfig{}},
		{"backend fails", DeviceConfig{Backends: []hal.Backend{gputest.Backend{Backend: noop.API{}, Faults: faults}}}},
		{"software fails", DeviceConfig{Software: gputest.Backend{Backend: noop.API{}, Faults: faults}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDevice(tt.cfg)
			if err == nil {
				d.Destroy()
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrNoAdapter) {
				t.Errorf("error %v does not wrap ErrNoAdapter", err)
			}
			if len(tt.cfg.Backends)+btoi(tt.cfg.Software != nil) > 0 && !errors.Is(err, cause) {
				t.Errorf("error %v does not wrap the backend error", err)
			}
		})
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestNewDeviceLimitTiers(t *testing.T) {
	faults := &gputest.Faults{FailOpen: 1}
	tiers := []gputypes.Limits{gputypes.DownlevelLimits(), gputypes.DefaultLimits()}

	d, err := NewDevice(DeviceConfig{
		Backends: []hal.Backend{gputest.Backend{Backend: noop.API{}, Faults: faults}},
		Limits:   tiers,
	})
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}
	defer d.Destroy()

	if faults.Opens != 2 {
		t.Errorf("Opens = %d, want 2", faults.Opens)
	}
	if d.Limits() != tiers[1] {
		t.Error("device did not settle on the second limit tier")
	}
}

func TestAdapterOrder(t *testing.T) {
	exposed := func(types ...gputypes.DeviceType) []hal.ExposedAdapter {
		out := make([]hal.ExposedAdapter, len(types))
		for i, dt := range types {
			out[i].Info.DeviceType = dt
		}
		return out
	}

	tests := []struct {
		name     string
		adapters []hal.ExposedAdapter
		want     []int
	}{
		{"empty", nil, []int{}},
		{"hardware kept in order", exposed(gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU), []int{0, 1}},
		{"cpu last", exposed(gputypes.DeviceTypeCPU, gputypes.DeviceTypeIntegratedGPU), []int{1, 0}},
		{"mixed", exposed(gputypes.DeviceTypeOther, gputypes.DeviceTypeCPU, gputypes.DeviceTypeDiscreteGPU), []int{2, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapterOrder(tt.adapters)
			if len(got) != len(tt.want) {
				t.Fatalf("adapterOrder() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("adapterOrder() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSubmitRetiresCommandBuffers(t *testing.T) {
	faults := &gputest.Faults{}
	d := newTestDevice(t, faults)

	for i := 0; i < 3; i++ {
		enc, err := d.HAL().CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "test"})
		if err != nil {
			t.Fatalf("CreateCommandEncoder failed: %v", err)
		}
		if err := enc.BeginEncoding("test"); err != nil {
			t.Fatalf("BeginEncoding failed: %v", err)
		}
		cmd, err := enc.EndEncoding()
		if err != nil {
			t.Fatalf("EndEncoding failed: %v", err)
		}
		if err := d.Submit([]hal.CommandBuffer{cmd}); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	if d.lastSubmit != 3 {
		t.Errorf("lastSubmit = %d, want 3", d.lastSubmit)
	}
	if len(d.pending) != 0 {
		t.Errorf("pending = %d, want 0 on a synchronous queue", len(d.pending))
	}
	if faults.Submits != 3 {
		t.Errorf("Submits = %d, want 3", faults.Submits)
	}
}

func TestSubmitKeepsPendingWhileStalled(t *testing.T) {
	faults := &gputest.Faults{StallCompletion: true}
	d := newTestDevice(t, faults)

	if err := d.Submit(nil); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(d.pending) != 1 {
		t.Errorf("pending = %d, want 1", len(d.pending))
	}
}

func TestSubmitError(t *testing.T) {
	faults := &gputest.Faults{Err: hal.ErrDeviceLost, FailSubmit: 1}
	d := newTestDevice(t, faults)

	err := d.Submit(nil)
	if !errors.Is(err, hal.ErrDeviceLost) {
		t.Fatalf("Submit() = %v, want ErrDeviceLost", err)
	}
	if d.lastSubmit != 0 {
		t.Errorf("lastSubmit = %d after failed submit", d.lastSubmit)
	}
}

func TestDeviceDestroyIdempotent(t *testing.T) {
	d := newTestDevice(t, nil)
	d.Destroy()
	d.Destroy()
	if d.HAL() != nil || d.Queue() != nil {
		t.Error("handles not cleared by Destroy")
	}
}

func TestIsDeviceLoss(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("other"), false},
		{hal.ErrDeviceLost, true},
		{hal.ErrSurfaceLost, true},
		{hal.ErrSurfaceOutdated, true},
		{errors.Join(errors.New("present"), hal.ErrDeviceLost), true},
		{ErrNoAdapter, false},
	}
	for _, tt := range tests {
		if got := IsDeviceLoss(tt.err); got != tt.want {
			t.Errorf("IsDeviceLoss(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
