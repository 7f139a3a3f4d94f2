package native

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// CompileShaderToSPIRV compiles WGSL source to SPIR-V words.
func CompileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("failed to compile shader: SPIR-V length %d is not word aligned", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	if len(spirvCode) == 0 || spirvCode[0] != spirvMagic {
		return nil, fmt.Errorf("failed to compile shader: missing SPIR-V magic")
	}
	return spirvCode, nil
}

// CreateShaderModule creates a HAL shader module. The WGSL source is always
// passed through; SPIR-V is attached when naga could produce it, so backends
// that consume SPIR-V skip their own translation.
func CreateShaderModule(device hal.Device, label, wgslSource string, spirvCode []uint32) (hal.ShaderModule, error) {
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			WGSL:  wgslSource,
			SPIRV: spirvCode,
		},
	})
}

// GPUResources groups the objects of one render pipeline so they can be
// destroyed together.
type GPUResources struct {
	Device         hal.Device
	ShaderModule   hal.ShaderModule
	PipelineLayout hal.PipelineLayout
	BindLayouts    []hal.BindGroupLayout
	Pipelines      []hal.RenderPipeline
}

// Destroy cleans up all GPU resources in reverse creation order and clears
// the handles so a second call is a no-op.
func (r *GPUResources) Destroy() {
	if r.Device == nil {
		return
	}

	for _, p := range r.Pipelines {
		if p != nil {
			r.Device.DestroyRenderPipeline(p)
		}
	}
	r.Pipelines = nil

	if r.PipelineLayout != nil {
		r.Device.DestroyPipelineLayout(r.PipelineLayout)
		r.PipelineLayout = nil
	}

	for _, l := range r.BindLayouts {
		if l != nil {
			r.Device.DestroyBindGroupLayout(l)
		}
	}
	r.BindLayouts = nil

	if r.ShaderModule != nil {
		r.Device.DestroyShaderModule(r.ShaderModule)
		r.ShaderModule = nil
	}
}
