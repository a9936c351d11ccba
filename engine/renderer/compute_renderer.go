package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-trace/common"
	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-trace/engine/world"
)

// ComputeRenderer runs the ray tracing compute program over a render target.
// Each Render pushes the camera snapshot, binds the target as a storage image, dispatches enough
// workgroups to cover every pixel and issues an image access barrier before returning.
type ComputeRenderer struct {
	backend Backend
	program Program
	camera  *UniformBuffer

	groupSize [3]uint32
	imageUnit uint32

	// scene is held for the ray tracer but not uploaded yet.
	scene world.VoxelSource
}

// ComputeRendererOption is a functional option applied to a ComputeRenderer during construction.
type ComputeRendererOption func(*ComputeRenderer)

// WithScene attaches the voxel world the renderer traces against.
//
// Parameters:
//   - scene: the voxel source
//
// Returns:
//   - ComputeRendererOption: a function that applies the scene option
func WithScene(scene world.VoxelSource) ComputeRendererOption {
	return func(r *ComputeRenderer) {
		r.scene = scene
	}
}

// WithImageUnit overrides the storage image unit the target is bound to.
// By default the unit is taken from the compute shader's outputImage binding.
//
// Parameters:
//   - unit: the image unit
//
// Returns:
//   - ComputeRendererOption: a function that applies the image unit option
func WithImageUnit(unit uint32) ComputeRendererOption {
	return func(r *ComputeRenderer) {
		r.imageUnit = unit
	}
}

// NewComputeRenderer links the compute program and allocates the camera uniform buffer.
// Linking failures are returned here so they surface at startup rather than per frame.
//
// Parameters:
//   - backend: the backend to issue commands on
//   - program: a program holding exactly one compute shader
//   - options: functional options
//
// Returns:
//   - *ComputeRenderer: the renderer
//   - error: a compile, link or allocation error
func NewComputeRenderer(backend Backend, program shader.Program, options ...ComputeRendererOption) (*ComputeRenderer, error) {
	if len(program.Shaders) != 1 || program.Shaders[0].ShaderType() != shader.ShaderTypeCompute {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStages, program.Label)
	}
	cs := program.Shaders[0]

	r := &ComputeRenderer{
		backend:   backend,
		groupSize: cs.WorkgroupSize(),
	}
	if b, ok := cs.BindingFromVarName("outputImage"); ok {
		r.imageUnit = b.Binding
	}
	for _, opt := range options {
		opt(r)
	}

	p, err := backend.CreateProgram(program.Label, cs)
	if err != nil {
		return nil, err
	}
	r.program = p

	cameraBinding := uint32(0)
	if b, ok := cameraBlock(cs); ok {
		cameraBinding = b.Binding
	}
	var record camera.GPUCameraUniform
	buf, err := NewUniformBuffer(backend, "camera", record.Size(), cameraBinding)
	if err != nil {
		p.Release()
		return nil, err
	}
	r.camera = buf

	rendererLogger.Infof("compute program %q ready, workgroup %v, image unit %d, camera binding %d",
		program.Label, r.groupSize, r.imageUnit, cameraBinding)
	return r, nil
}

// cameraBlock finds the camera uniform by instance name (WGSL) or block name (GLSL).
func cameraBlock(s shader.Shader) (shader.Binding, bool) {
	if b, ok := s.BindingFromVarName("camera"); ok {
		return b, true
	}
	return s.BindingFromVarName("Camera")
}

// Render writes one frame of the ray traced image into target.
//
// Parameters:
//   - target: the render target, written through a storage image binding
//   - cam: the camera, snapshotted once
//   - width: pixels to cover horizontally, at most the target width
//   - height: pixels to cover vertically, at most the target height
//
// Returns:
//   - error: ErrTargetReleased, ErrInvalidSize or ErrUniformOverflow; all are programmer faults
func (r *ComputeRenderer) Render(target *RenderTarget, cam camera.Camera, width, height int) error {
	if target.Released() {
		return ErrTargetReleased
	}
	if width <= 0 || height <= 0 || width > target.Width() || height > target.Height() {
		return fmt.Errorf("%w: render area %dx%d on %dx%d target", ErrInvalidSize, width, height, target.Width(), target.Height())
	}

	r.backend.UseProgram(r.program)

	snapshot := cam.Snapshot()
	if err := r.camera.Write(snapshot.Marshal()); err != nil {
		return err
	}

	r.backend.BindImage(target.Image(), r.imageUnit, AccessReadWrite)
	r.backend.DispatchCompute(
		common.WorkgroupCount(uint32(width), r.groupSize[0]),
		common.WorkgroupCount(uint32(height), r.groupSize[1]),
		1,
	)
	target.markWritten()

	r.backend.MemoryBarrier(BarrierImageAccess)
	target.markSynchronized()
	return nil
}

// Scene returns the attached voxel world, or nil.
func (r *ComputeRenderer) Scene() world.VoxelSource {
	return r.scene
}

// GroupSize returns the compute shader's workgroup size.
func (r *ComputeRenderer) GroupSize() [3]uint32 {
	return r.groupSize
}

// Release frees the camera buffer and the program.
func (r *ComputeRenderer) Release() {
	r.camera.Release()
	r.program.Release()
}
