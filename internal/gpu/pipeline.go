package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gridtext/internal/native"
)

//go:embed shaders/grid.wgsl
var gridShaderSource string

// constantsSize is the size of the WGSL Constants uniform.
const constantsSize = 16

// fullscreenVertices is the vertex count of the fullscreen triangle.
const fullscreenVertices = 3

// GridPipeline draws the whole cell grid with a single fullscreen triangle.
// Geometry is generated in the vertex stage; the fragment stage resolves
// every pixel from the cell buffer, the atlas and the constants uniform.
type GridPipeline struct {
	device *Device
	format gputypes.TextureFormat

	res       native.GPUResources
	layout    hal.BindGroupLayout
	pipeline  hal.RenderPipeline
	constants hal.Buffer
	bindGroup hal.BindGroup

	viewport image.Point
}

// NewGridPipeline compiles the grid shader and creates a pipeline writing
// to format targets.
func NewGridPipeline(d *Device, format gputypes.TextureFormat) (*GridPipeline, error) {
	p := &GridPipeline{
		device: d,
		format: format,
		res:    native.GPUResources{Device: d.device},
	}
	if err := p.create(); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *GridPipeline) create() error {
	dev := p.device.device

	spirv, err := native.CompileShaderToSPIRV(gridShaderSource)
	if err != nil {
		// WGSL is still handed to the device; only SPIR-V consumers lose
		// the precompiled module.
		slogger().Debug("gpu: grid shader SPIR-V unavailable", "err", err)
		spirv = nil
	}
	shader, err := native.CreateShaderModule(dev, "grid_shader", gridShaderSource, spirv)
	if err != nil {
		return fmt.Errorf("compile grid shader: %w", err)
	}
	p.res.ShaderModule = shader

	layout, err := dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "grid_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageFragment, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageFragment, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageFragment, Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeUnfilterableFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create grid bind layout: %w", err)
	}
	p.layout = layout
	p.res.BindLayouts = []hal.BindGroupLayout{layout}

	pipeLayout, err := dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "grid_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{layout},
	})
	if err != nil {
		return fmt.Errorf("create grid pipeline layout: %w", err)
	}
	p.res.PipelineLayout = pipeLayout

	pipeline, err := dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "grid_pipeline",
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create grid pipeline: %w", err)
	}
	p.pipeline = pipeline
	p.res.Pipelines = []hal.RenderPipeline{pipeline}

	constants, err := dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "grid_constants",
		Size:  constantsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create grid constants: %w", err)
	}
	p.constants = constants
	return nil
}

// Format returns the target format the pipeline was built for.
func (p *GridPipeline) Format() gputypes.TextureFormat { return p.format }

// Constants returns the uniform buffer holding cell size and cell count.
func (p *GridPipeline) Constants() hal.Buffer { return p.constants }

// UpdateConstants writes the grid geometry uniform and sets the viewport to
// the area covered by whole cells.
func (p *GridPipeline) UpdateConstants(cellSize, cellCount image.Point) error {
	var data [constantsSize]byte
	binary.LittleEndian.PutUint32(data[0:], uint32(cellSize.X))
	binary.LittleEndian.PutUint32(data[4:], uint32(cellSize.Y))
	binary.LittleEndian.PutUint32(data[8:], uint32(cellCount.X))
	binary.LittleEndian.PutUint32(data[12:], uint32(cellCount.Y))
	if err := p.device.queue.WriteBuffer(p.constants, 0, data[:]); err != nil {
		return fmt.Errorf("upload grid constants: %w", err)
	}
	p.viewport = image.Pt(cellSize.X*cellCount.X, cellSize.Y*cellCount.Y)
	return nil
}

// Viewport returns the drawn area in pixels.
func (p *GridPipeline) Viewport() image.Point { return p.viewport }

// Bind points the pipeline at cells and atlas. It must be called again
// whenever either reallocates its GPU resource.
func (p *GridPipeline) Bind(cells *CellBuffer, atlas *GlyphAtlas) error {
	if cells.Buffer() == nil || atlas.View() == nil {
		return ErrNotReady
	}
	group, err := p.device.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "grid_bind_group",
		Layout: p.layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: p.constants.NativeHandle(), Offset: 0, Size: constantsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: cells.Buffer().NativeHandle(), Offset: 0, Size: uint64(cells.Len() * CellSize)}},
			{Binding: 2, Resource: gputypes.TextureViewBinding{TextureView: atlas.View().NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("create grid bind group: %w", err)
	}
	p.destroyBindGroup()
	p.bindGroup = group
	return nil
}

// Bound reports whether Bind has succeeded since the last invalidation.
func (p *GridPipeline) Bound() bool { return p.bindGroup != nil }

// Unbind drops the bind group so the next frame rebinds.
func (p *GridPipeline) Unbind() { p.destroyBindGroup() }

// Encode records one frame into target: clear, then the fullscreen triangle.
func (p *GridPipeline) Encode(target hal.TextureView, clear gputypes.Color) (hal.CommandBuffer, error) {
	if p.bindGroup == nil {
		return nil, ErrNotReady
	}
	encoder, err := p.device.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "grid_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("grid_frame"); err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "grid_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	})
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, p.bindGroup, nil)
	rp.SetViewport(0, 0, float32(p.viewport.X), float32(p.viewport.Y), 0, 1)
	rp.Draw(fullscreenVertices, 1, 0, 0)
	rp.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	return cmd, nil
}

func (p *GridPipeline) destroyBindGroup() {
	if p.bindGroup != nil && p.device.device != nil {
		p.device.device.DestroyBindGroup(p.bindGroup)
	}
	p.bindGroup = nil
}

// Destroy releases all pipeline resources in reverse creation order.
func (p *GridPipeline) Destroy() {
	p.destroyBindGroup()
	if p.device.device == nil {
		return
	}
	if p.constants != nil {
		p.device.device.DestroyBuffer(p.constants)
		p.constants = nil
	}
	p.res.Destroy()
	p.pipeline = nil
	p.layout = nil
}
