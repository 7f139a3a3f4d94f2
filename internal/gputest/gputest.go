// Package gputest wraps a HAL backend so tests can inject GPU failures and
// observe the calls that reach the queue and the surface.
//
// Only the objects whose failures matter to gridtext are wrapped: instance,
// adapter, device, command encoder, queue and surface. Resources pass
// through untouched.
//
//	faults := &gputest.Faults{FailSubmit: 1}
//	backend := gputest.Backend{Backend: noop.API{}, Faults: faults}
package gputest

import (
	"errors"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrInjected is the default injected error when Faults.Err is nil.
var ErrInjected = errors.New("gputest: injected failure")

// Faults configures injected failures and records calls. Counters named
// Fail* fail that many upcoming calls and then let calls through.
type Faults struct {
	// Err is returned by every injected failure. nil means ErrInjected.
	Err error

	FailInstance    bool
	FailOpen        int
	FailConfigure   int
	FailAcquire     int
	FailSubmit      int
	FailPresent     int
	FailWriteBuffer int
	FailBeginEncode int

	// StallCompletion makes PollCompleted report no finished submission.
	StallCompletion bool

	// NoRenderFormats makes the adapter report no texture capabilities.
	NoRenderFormats bool

	Opens    int
	Submits  int
	Presents int
	Writes   int
	Discards int
	Configs  []hal.SurfaceConfiguration
}

func (f *Faults) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// take consumes one pending failure from counter n.
func (f *Faults) take(n *int) error {
	if *n <= 0 {
		return nil
	}
	*n--
	return f.err()
}

// Backend wraps a hal.Backend.
type Backend struct {
	hal.Backend
	Faults *Faults
}

// CreateInstance wraps the instance of the underlying backend.
func (b Backend) CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	if b.Faults.FailInstance {
		return nil, b.Faults.err()
	}
	inst, err := b.Backend.CreateInstance(desc)
	if err != nil {
		return nil, err
	}
	return &instance{Instance: inst, f: b.Faults}, nil
}

type instance struct {
	hal.Instance
	f *Faults
}

func (i *instance) CreateSurface(display, window uintptr) (hal.Surface, error) {
	s, err := i.Instance.CreateSurface(display, window)
	if err != nil {
		return nil, err
	}
	return &surface{Surface: s, f: i.f}, nil
}

func (i *instance) EnumerateAdapters(hint hal.Surface) []hal.ExposedAdapter {
	adapters := i.Instance.EnumerateAdapters(unwrapSurface(hint))
	for k := range adapters {
		adapters[k].Adapter = &adapter{Adapter: adapters[k].Adapter, f: i.f}
	}
	return adapters
}

type adapter struct {
	hal.Adapter
	f *Faults
}

func (a *adapter) Open(features gputypes.Features, limits gputypes.Limits) (hal.OpenDevice, error) {
	a.f.Opens++
	if err := a.f.take(&a.f.FailOpen); err != nil {
		return hal.OpenDevice{}, err
	}
	od, err := a.Adapter.Open(features, limits)
	if err != nil {
		return od, err
	}
	od.Device = &device{Device: od.Device, f: a.f}
	od.Queue = &queue{Queue: od.Queue, f: a.f}
	return od, nil
}

func (a *adapter) TextureFormatCapabilities(format gputypes.TextureFormat) hal.TextureFormatCapabilities {
	if a.f.NoRenderFormats {
		return hal.TextureFormatCapabilities{}
	}
	return a.Adapter.TextureFormatCapabilities(format)
}

func (a *adapter) SurfaceCapabilities(s hal.Surface) *hal.SurfaceCapabilities {
	return a.Adapter.SurfaceCapabilities(unwrapSurface(s))
}

type device struct {
	hal.Device
	f *Faults
}

func (d *device) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &encoder{CommandEncoder: enc, f: d.f}, nil
}

type encoder struct {
	hal.CommandEncoder
	f *Faults
}

func (e *encoder) BeginEncoding(label string) error {
	if err := e.f.take(&e.f.FailBeginEncode); err != nil {
		return err
	}
	return e.CommandEncoder.BeginEncoding(label)
}

func (e *encoder) DiscardEncoding() {
	e.f.Discards++
	e.CommandEncoder.DiscardEncoding()
}

type queue struct {
	hal.Queue
	f *Faults
}

func (q *queue) Submit(cmds []hal.CommandBuffer) (uint64, error) {
	if err := q.f.take(&q.f.FailSubmit); err != nil {
		return 0, err
	}
	q.f.Submits++
	return q.Queue.Submit(cmds)
}

func (q *queue) PollCompleted() uint64 {
	if q.f.StallCompletion {
		return 0
	}
	return q.Queue.PollCompleted()
}

func (q *queue) WriteBuffer(buffer hal.Buffer, offset uint64, data []byte) error {
	if err := q.f.take(&q.f.FailWriteBuffer); err != nil {
		return err
	}
	q.f.Writes++
	return q.Queue.WriteBuffer(buffer, offset, data)
}

func (q *queue) Present(s hal.Surface, texture hal.SurfaceTexture, damage []image.Rectangle) error {
	if err := q.f.take(&q.f.FailPresent); err != nil {
		return err
	}
	q.f.Presents++
	return q.Queue.Present(unwrapSurface(s), texture, damage)
}

type surface struct {
	hal.Surface
	f *Faults
}

func (s *surface) Configure(device hal.Device, config *hal.SurfaceConfiguration) error {
	s.f.Configs = append(s.f.Configs, *config)
	if err := s.f.take(&s.f.FailConfigure); err != nil {
		return err
	}
	return s.Surface.Configure(device, config)
}

func (s *surface) AcquireTexture(fence hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	if err := s.f.take(&s.f.FailAcquire); err != nil {
		return nil, err
	}
	return s.Surface.AcquireTexture(fence)
}

func unwrapSurface(s hal.Surface) hal.Surface {
	if w, ok := s.(*surface); ok {
		return w.Surface
	}
	return s
}
