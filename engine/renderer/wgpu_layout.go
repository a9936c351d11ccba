package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// resourceKind is the category of a reflected WGSL binding.
type resourceKind int

const (
	resourceUniform resourceKind = iota
	resourceStorageTexture
	resourceTexture
	resourceSampler
)

// wgpuEntry is one reflected group 0 binding and the layout entry derived from it.
type wgpuEntry struct {
	binding shader.Binding
	kind    resourceKind
	layout  wgpu.BindGroupLayoutEntry
}

// wgslVertexFormats maps reflected vertex component counts to float vertex formats.
var wgslVertexFormats = map[int]wgpu.VertexFormat{
	1: wgpu.VertexFormatFloat32,
	2: wgpu.VertexFormatFloat32x2,
	3: wgpu.VertexFormatFloat32x3,
	4: wgpu.VertexFormatFloat32x4,
}

func shaderStage(t shader.ShaderType) wgpu.ShaderStage {
	switch t {
	case shader.ShaderTypeCompute:
		return wgpu.ShaderStageCompute
	case shader.ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	default:
		return wgpu.ShaderStageFragment
	}
}

// classifyBinding builds the layout entry for one reflected binding.
// Render targets are RGBA32F, which core WebGPU cannot filter, so sampled textures are declared
// unfilterable and samplers non-filtering. Storage textures are write-only.
//
// Parameters:
//   - b: the reflected binding
//   - visibility: the stage the binding was found in
//
// Returns:
//   - wgpuEntry: the classified entry
//   - error: ErrUnsupportedBinding for groups other than 0 and resources the backend cannot bind
func classifyBinding(b shader.Binding, visibility wgpu.ShaderStage) (wgpuEntry, error) {
	if b.Group != 0 {
		return wgpuEntry{}, fmt.Errorf("%w: %q in group %d", ErrUnsupportedBinding, b.Name, b.Group)
	}

	e := wgpuEntry{
		binding: b,
		layout: wgpu.BindGroupLayoutEntry{
			Binding:    b.Binding,
			Visibility: visibility,
		},
	}

	switch {
	case b.AddressSpace == "uniform":
		e.kind = resourceUniform
		e.layout.Buffer.Type = wgpu.BufferBindingTypeUniform
	case b.Type == "sampler":
		e.kind = resourceSampler
		e.layout.Sampler.Type = wgpu.SamplerBindingTypeNonFiltering
	case strings.HasPrefix(b.Type, "texture_storage_2d<rgba32float"):
		e.kind = resourceStorageTexture
		e.layout.StorageTexture.Access = wgpu.StorageTextureAccessWriteOnly
		e.layout.StorageTexture.Format = wgpu.TextureFormatRGBA32Float
		e.layout.StorageTexture.ViewDimension = wgpu.TextureViewDimension2D
	case strings.HasPrefix(b.Type, "texture_2d<f32"):
		e.kind = resourceTexture
		e.layout.Texture.SampleType = wgpu.TextureSampleTypeUnfilterableFloat
		e.layout.Texture.ViewDimension = wgpu.TextureViewDimension2D
	default:
		return wgpuEntry{}, fmt.Errorf("%w: %q of type %q", ErrUnsupportedBinding, b.Name, b.Type)
	}
	return e, nil
}

// reflectEntries classifies the bindings of every shader in a program.
// Entries with the same binding number have their visibility ORed together.
//
// Parameters:
//   - shaders: the program's shaders
//
// Returns:
//   - []wgpuEntry: entries sorted by binding number
//   - error: the first classification failure
func reflectEntries(shaders []shader.Shader) ([]wgpuEntry, error) {
	byBinding := make(map[uint32]wgpuEntry)
	for _, s := range shaders {
		visibility := shaderStage(s.ShaderType())
		for _, b := range s.Bindings() {
			e, err := classifyBinding(b, visibility)
			if err != nil {
				return nil, err
			}
			if existing, ok := byBinding[b.Binding]; ok {
				existing.layout.Visibility |= visibility
				byBinding[b.Binding] = existing
				continue
			}
			byBinding[b.Binding] = e
		}
	}

	entries := make([]wgpuEntry, 0, len(byBinding))
	for _, e := range byBinding {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].binding.Binding < entries[j].binding.Binding
	})
	return entries, nil
}

// vertexBufferLayout derives an interleaved vertex buffer layout from reflected vertex inputs.
//
// Parameters:
//   - attrs: the vertex shader inputs, in location order
//
// Returns:
//   - wgpu.VertexBufferLayout: one interleaved buffer
//   - error: ErrInvalidLayout for inputs that are not 1 to 4 floats
func vertexBufferLayout(attrs []shader.VertexAttribute) (wgpu.VertexBufferLayout, error) {
	layout := wgpu.VertexBufferLayout{
		StepMode:   wgpu.VertexStepModeVertex,
		Attributes: make([]wgpu.VertexAttribute, 0, len(attrs)),
	}
	var offset uint64
	for _, a := range attrs {
		format, ok := wgslVertexFormats[a.Components]
		if !ok {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("%w: input %q of type %q", ErrInvalidLayout, a.Name, a.Type)
		}
		layout.Attributes = append(layout.Attributes, wgpu.VertexAttribute{
			Format:         format,
			Offset:         offset,
			ShaderLocation: a.Location,
		})
		offset += uint64(a.Components) * 4
	}
	layout.ArrayStride = offset
	return layout, nil
}

// samplerTexture picks the texture entry a sampler reads: the one named like the sampler without
// its "Sampler" suffix, otherwise the first texture.
func samplerTexture(sampler shader.Binding, entries []wgpuEntry) (shader.Binding, bool) {
	var first *shader.Binding
	want := strings.TrimSuffix(sampler.Name, "Sampler")
	for i := range entries {
		if entries[i].kind != resourceTexture {
			continue
		}
		if entries[i].binding.Name == want {
			return entries[i].binding, true
		}
		if first == nil {
			first = &entries[i].binding
		}
	}
	if first == nil {
		return shader.Binding{}, false
	}
	return *first, true
}
