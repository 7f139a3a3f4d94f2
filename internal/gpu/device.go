package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/software"

	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// hardwareBackends lists the registry variants tried before the software
// fallback, in preference order.
var hardwareBackends = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
}

// DeviceConfig selects where a Device comes from.
type DeviceConfig struct {
	// Backends are tried in order.
	Backends []hal.Backend

	// Software is tried after every backend in Backends failed.
	// nil disables the fallback.
	Software hal.Backend

	// Limits are the tiers requested from each adapter, lowest first.
	// The first tier the adapter accepts wins.
	Limits []gputypes.Limits
}

// DefaultDeviceConfig returns every registered hardware backend, the
// software rasterizer as fallback, and the downlevel then default limit tiers.
func DefaultDeviceConfig() DeviceConfig {
	var hw []hal.Backend
	for _, v := range hardwareBackends {
		if b, ok := hal.GetBackend(v); ok {
			hw = append(hw, b)
		}
	}
	return DeviceConfig{
		Backends: hw,
		Software: software.API{},
		Limits:   []gputypes.Limits{gputypes.DownlevelLimits(), gputypes.DefaultLimits()},
	}
}

// Device owns one HAL instance, the adapter picked from it, and the opened
// logical device and queue. Everything created on the device becomes
// invalid when the device is destroyed or lost.
type Device struct {
	instance hal.Instance
	adapter  hal.Adapter
	info     gputypes.AdapterInfo
	device   hal.Device
	queue    hal.Queue
	limits   gputypes.Limits
	software bool

	lastSubmit uint64
	pending    []pendingCommands
}

// pendingCommands are command buffers owned by an in-flight submission.
type pendingCommands struct {
	index uint64
	cmds  []hal.CommandBuffer
}

// NewDevice opens the first adapter and limit tier that works, trying the
// configured hardware backends before the software fallback.
func NewDevice(cfg DeviceConfig) (*Device, error) {
	if len(cfg.Limits) == 0 {
		cfg.Limits = []gputypes.Limits{gputypes.DefaultLimits()}
	}

	var errs []error
	for _, b := range cfg.Backends {
		d, err := openDevice(b, cfg.Limits, false)
		if err == nil {
			return d, nil
		}
		errs = append(errs, err)
	}

	if cfg.Software != nil {
		if len(cfg.Backends) > 0 {
			slogger().Warn("gpu: no hardware adapter, falling back to software", "attempts", len(errs))
		}
		d, err := openDevice(cfg.Software, cfg.Limits, true)
		if err == nil {
			return d, nil
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil, ErrNoAdapter
	}
	return nil, fmt.Errorf("%w: %w", ErrNoAdapter, errors.Join(errs...))
}

// openDevice creates an instance on backend and opens its best adapter.
func openDevice(backend hal.Backend, tiers []gputypes.Limits, sw bool) (*Device, error) {
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance (%v): %w", backend.Variant(), err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("backend %v: no adapters found", backend.Variant())
	}

	var errs []error
	for _, i := range adapterOrder(adapters) {
		exposed := adapters[i]
		for _, limits := range tiers {
			openDev, err := exposed.Adapter.Open(gputypes.Features(0), limits)
			if err != nil {
				errs = append(errs, fmt.Errorf("open %q: %w", exposed.Info.Name, err))
				continue
			}
			d := &Device{
				instance: instance,
				adapter:  exposed.Adapter,
				info:     exposed.Info,
				device:   openDev.Device,
				queue:    openDev.Queue,
				limits:   limits,
				software: sw || exposed.Info.DeviceType == gputypes.DeviceTypeCPU,
			}
			slogger().Info("gpu: device created",
				"adapter", exposed.Info.Name,
				"type", exposed.Info.DeviceType,
				"backend", exposed.Info.Backend,
				"software", d.software)
			return d, nil
		}
	}
	instance.Destroy()
	return nil, errors.Join(errs...)
}

// adapterOrder returns adapter indices with discrete and integrated GPUs
// first, keeping enumeration order otherwise.
func adapterOrder(adapters []hal.ExposedAdapter) []int {
	order := make([]int, 0, len(adapters))
	for i := range adapters {
		if isHardware(adapters[i].Info.DeviceType) {
			order = append(order, i)
		}
	}
	for i := range adapters {
		if !isHardware(adapters[i].Info.DeviceType) {
			order = append(order, i)
		}
	}
	return order
}

func isHardware(t gputypes.DeviceType) bool {
	return t == gputypes.DeviceTypeDiscreteGPU || t == gputypes.DeviceTypeIntegratedGPU
}

// HAL returns the logical device.
func (d *Device) HAL() hal.Device { return d.device }

// Queue returns the device queue.
func (d *Device) Queue() hal.Queue { return d.queue }

// Instance returns the instance the device was created from.
func (d *Device) Instance() hal.Instance { return d.instance }

// Adapter returns the physical adapter.
func (d *Device) Adapter() hal.Adapter { return d.adapter }

// Info returns the adapter description.
func (d *Device) Info() gputypes.AdapterInfo { return d.info }

// Limits returns the limit tier the device was opened with.
func (d *Device) Limits() gputypes.Limits { return d.limits }

// IsSoftware reports whether the device rasterizes on the CPU.
func (d *Device) IsSoftware() bool { return d.software }

// ContextInfo returns the adapter description in gpucontext form, for hosts
// that integrate through gpucontext.
func (d *Device) ContextInfo() gpucontext.AdapterInfo {
	t := gpucontext.AdapterTypeUnknown
	switch d.info.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		t = gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		t = gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		t = gpucontext.AdapterTypeSoftware
	}
	return gpucontext.AdapterInfo{Name: d.info.Name, Type: t}
}

// Submit submits command buffers and records the submission index used for
// frame pacing. The buffers are freed once the queue reports them complete.
func (d *Device) Submit(cmds []hal.CommandBuffer) error {
	idx, err := d.queue.Submit(cmds)
	if err != nil {
		return err
	}
	d.lastSubmit = idx
	d.pending = append(d.pending, pendingCommands{index: idx, cmds: cmds})
	d.retire()
	return nil
}

// retire frees the command buffers of completed submissions.
func (d *Device) retire() {
	done := d.queue.PollCompleted()
	keep := d.pending[:0]
	for _, p := range d.pending {
		if p.index > done {
			keep = append(keep, p)
			continue
		}
		for _, c := range p.cmds {
			d.device.FreeCommandBuffer(c)
		}
	}
	d.pending = keep
}

// Destroy releases the device and its instance. It does not wait for the
// GPU: after a device loss there is nothing left to wait for.
func (d *Device) Destroy() {
	d.pending = nil
	if d.device != nil {
		d.device.Destroy()
		d.device = nil
	}
	d.queue = nil
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
	d.adapter = nil
}

// FrameLatencyWaiter returns the pacing object for this device.
func (d *Device) FrameLatencyWaiter() *LatencyWaiter {
	return &LatencyWaiter{device: d, poll: time.Millisecond}
}
