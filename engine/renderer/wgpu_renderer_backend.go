package renderer

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-trace/common"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-trace/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuRendererBackend issues commands through wgpu-native.
//
// Compute dispatches are recorded into one command encoder that MemoryBarrier submits; queue
// submission order makes the storage texture writes visible to the render pass submitted after it.
// Resources are bound by binding number: a buffer created for binding N, an image bound to unit N
// and a texture bound to unit N fill the group 0 entry with binding N. A sampler reads the sampler
// of the texture it pairs with.
type wgpuRendererBackend struct {
	instance      *wgpu.Instance
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surface       *wgpu.Surface
	surfaceFormat wgpu.TextureFormat
	validate      bool

	active     *wgpuProgram
	buffers    map[uint32]*wgpuBuffer
	storage    map[uint32]*wgpuImage
	sampled    map[uint32]*wgpuImage
	clearColor wgpu.Color

	computeEncoder *wgpu.CommandEncoder

	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView

	errs []GPUError
}

type wgpuProgram struct {
	label           string
	entries         []wgpuEntry
	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout
	modules         []*wgpu.ShaderModule
	compute         *wgpu.ComputePipeline
	render          *wgpu.RenderPipeline

	// textureUnits redirects a sampled texture to the unit assigned with SetUniformInt.
	textureUnits map[string]uint32

	bindGroup    *wgpu.BindGroup
	boundHandles []any
	released     bool
}

func (p *wgpuProgram) Label() string { return p.label }

func (p *wgpuProgram) Release() {
	if p.released {
		return
	}
	p.released = true
	if p.bindGroup != nil {
		p.bindGroup.Release()
	}
	if p.compute != nil {
		p.compute.Release()
	}
	if p.render != nil {
		p.render.Release()
	}
	p.pipelineLayout.Release()
	p.bindGroupLayout.Release()
	for _, m := range p.modules {
		m.Release()
	}
}

type wgpuImage struct {
	label         string
	width, height int
	texture       *wgpu.Texture
	view          *wgpu.TextureView
	sampler       *wgpu.Sampler
	released      bool
}

func (i *wgpuImage) Label() string { return i.label }
func (i *wgpuImage) Width() int { return i.width }
func (i *wgpuImage) Height() int { return i.height }

func (i *wgpuImage) Release() {
	if i.released {
		return
	}
	i.released = true
	i.sampler.Release()
	i.view.Release()
	i.texture.Release()
}

type wgpuBuffer struct {
	label    string
	size     int
	binding  uint32
	buffer   *wgpu.Buffer
	released bool
}

func (b *wgpuBuffer) Label() string { return b.label }
func (b *wgpuBuffer) Size() int { return b.size }
func (b *wgpuBuffer) Binding() uint32 { return b.binding }

func (b *wgpuBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.buffer.Release()
}

type wgpuMesh struct {
	label        string
	indexCount   int
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	released     bool
}

func (m *wgpuMesh) Label() string { return m.label }
func (m *wgpuMesh) IndexCount() int { return m.indexCount }

func (m *wgpuMesh) Release() {
	if m.released {
		return
	}
	m.released = true
	m.vertexBuffer.Release()
	m.indexBuffer.Release()
}

var _ Backend = &wgpuRendererBackend{}

// newWGPURendererBackend creates the instance, surface, adapter and device for a window created
// without a client API, and configures the surface for immediate presentation.
func newWGPURendererBackend(win window.Window, cfg *backendConfig) (*wgpuRendererBackend, error) {
	runtime.LockOSThread()

	desc := win.SurfaceDescriptor()
	if desc == nil {
		return nil, ErrNoSurface
	}

	b := &wgpuRendererBackend{
		instance: wgpu.CreateInstance(nil),
		validate: cfg.validateShaders,
		buffers:  make(map[uint32]*wgpuBuffer),
		storage:  make(map[uint32]*wgpuImage),
		sampled:  make(map[uint32]*wgpuImage),
	}
	b.surface = b.instance.CreateSurface(desc)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("renderer: requesting adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("renderer: requesting device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		b.Release()
		return nil, fmt.Errorf("%w: surface reports no formats", ErrNoSurface)
	}
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(win.Width()),
		Height:      uint32(win.Height()),
		PresentMode: wgpu.PresentModeImmediate,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	return b, nil
}

func (b *wgpuRendererBackend) Name() string {
	return "WebGPU"
}

// report queues an error for the next DrainErrors.
func (b *wgpuRendererBackend) report(format string, args ...any) {
	b.errs = append(b.errs, GPUError{Message: fmt.Sprintf(format, args...)})
}

func (b *wgpuRendererBackend) CreateProgram(label string, shaders ...shader.Shader) (Program, error) {
	if !validStages(shaders) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStages, label)
	}

	p := &wgpuProgram{label: label, textureUnits: make(map[string]uint32)}
	fail := func(err error) (Program, error) {
		p.releasePartial()
		return nil, err
	}

	stages := make(map[shader.ShaderType]*wgpu.ShaderModule, len(shaders))
	entryPoints := make(map[shader.ShaderType]string, len(shaders))
	var vertexShader shader.Shader
	for _, s := range shaders {
		if s.Language() != shader.LanguageWGSL {
			return fail(fmt.Errorf("%w: %s shader %q for WebGPU", shader.ErrUnsupportedLanguage, s.Language(), s.Key()))
		}
		if b.validate {
			if _, err := shader.Validate(s); err != nil {
				return fail(err)
			}
		}

		m, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label:          s.Key(),
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: s.Source()},
		})
		if err != nil {
			return fail(&shader.CompilationError{Key: s.Key(), Stage: s.ShaderType(), Log: err.Error()})
		}
		p.modules = append(p.modules, m)
		stages[s.ShaderType()] = m
		entryPoints[s.ShaderType()] = s.EntryPoint()
		if s.ShaderType() == shader.ShaderTypeVertex {
			vertexShader = s
		}
	}

	entries, err := reflectEntries(shaders)
	if err != nil {
		return fail(err)
	}
	p.entries = entries

	layoutEntries := make([]wgpu.BindGroupLayoutEntry, len(entries))
	for i, e := range entries {
		layoutEntries[i] = e.layout
	}
	p.bindGroupLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label + " Bind Group Layout",
		Entries: layoutEntries,
	})
	if err != nil {
		return fail(&shader.LinkError{Program: label, Log: err.Error()})
	}

	p.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + " Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.bindGroupLayout},
	})
	if err != nil {
		return fail(&shader.LinkError{Program: label, Log: err.Error()})
	}

	if cs, ok := stages[shader.ShaderTypeCompute]; ok {
		p.compute, err = b.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
			Label:  label + " Compute Pipeline",
			Layout: p.pipelineLayout,
			Compute: wgpu.ProgrammableStageDescriptor{
				Module:     cs,
				EntryPoint: entryPoints[shader.ShaderTypeCompute],
			},
		})
		if err != nil {
			return fail(&shader.LinkError{Program: label, Log: err.Error()})
		}
		return p, nil
	}

	vertexLayout, err := vertexBufferLayout(vertexShader.VertexAttributes())
	if err != nil {
		return fail(err)
	}
	p.render, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: p.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     stages[shader.ShaderTypeVertex],
			EntryPoint: entryPoints[shader.ShaderTypeVertex],
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     stages[shader.ShaderTypeFragment],
			EntryPoint: entryPoints[shader.ShaderTypeFragment],
			Targets: []wgpu.ColorTargetState{{
				Format:    b.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fail(&shader.LinkError{Program: label, Log: err.Error()})
	}
	return p, nil
}

// releasePartial frees whatever a failed CreateProgram managed to create.
func (p *wgpuProgram) releasePartial() {
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
	}
	for _, m := range p.modules {
		m.Release()
	}
	p.released = true
}

func (b *wgpuRendererBackend) CreateImage(desc ImageDescriptor) (Image, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: image %dx%d", ErrInvalidSize, desc.Width, desc.Height)
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     desc.Label,
		Usage:     wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA32Float,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: creating texture %q: %w", desc.Label, err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("renderer: creating view of %q: %w", desc.Label, err)
	}

	if desc.MinFilter == FilterLinear || desc.MagFilter == FilterLinear {
		rendererLogger.Debugf("image %q: RGBA32F is not filterable, sampling with nearest", desc.Label)
	}
	address := wgpu.AddressModeClampToEdge
	if desc.Wrap == WrapRepeat {
		address = wgpu.AddressModeRepeat
	}
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         desc.Label + " Sampler",
		AddressModeU:  address,
		AddressModeV:  address,
		AddressModeW:  address,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, fmt.Errorf("renderer: creating sampler for %q: %w", desc.Label, err)
	}

	return &wgpuImage{
		label:   desc.Label,
		width:   desc.Width,
		height:  desc.Height,
		texture: tex,
		view:    view,
		sampler: samp,
	}, nil
}

func (b *wgpuRendererBackend) CreateBuffer(label string, size int, binding uint32) (Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: buffer %q of %d bytes", ErrInvalidSize, label, size)
	}

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(size),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: creating buffer %q: %w", label, err)
	}

	wb := &wgpuBuffer{label: label, size: size, binding: binding, buffer: buf}
	b.buffers[binding] = wb
	return wb, nil
}

func (b *wgpuRendererBackend) CreateMesh(label string, vertices []float32, indices []uint32, attributeSizes []int) (Mesh, error) {
	layout, err := NewVertexLayout(vertices, attributeSizes)
	if err != nil {
		return nil, err
	}
	if err := layout.CheckIndices(indices); err != nil {
		return nil, err
	}

	vertexData := common.SliceToBytes(vertices)
	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: creating vertex buffer %q: %w", label, err)
	}
	b.queue.WriteBuffer(vb, 0, vertexData)

	indexData := common.SliceToBytes(indices)
	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("renderer: creating index buffer %q: %w", label, err)
	}
	b.queue.WriteBuffer(ib, 0, indexData)

	return &wgpuMesh{label: label, indexCount: len(indices), vertexBuffer: vb, indexBuffer: ib}, nil
}

func (b *wgpuRendererBackend) SetUniformInt(p Program, name string, value int32) error {
	prog := p.(*wgpuProgram)
	for _, e := range prog.entries {
		if e.kind == resourceTexture && e.binding.Name == name {
			prog.textureUnits[name] = uint32(value)
			return nil
		}
	}
	return fmt.Errorf("%w: %q in program %q", ErrUnknownUniform, name, prog.label)
}

func (b *wgpuRendererBackend) UseProgram(p Program) {
	b.active = p.(*wgpuProgram)
}

func (b *wgpuRendererBackend) WriteBuffer(buf Buffer, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	b.queue.WriteBuffer(buf.(*wgpuBuffer).buffer, uint64(offset), data)
}

func (b *wgpuRendererBackend) BindImage(img Image, unit uint32, _ ImageAccess) {
	b.storage[unit] = img.(*wgpuImage)
}

func (b *wgpuRendererBackend) BindTexture(img Image, unit uint32) {
	b.sampled[unit] = img.(*wgpuImage)
}

// bindGroup returns a bind group for p's entries over the currently bound resources.
// The group is cached on the program until a different resource is bound.
func (b *wgpuRendererBackend) bindGroup(p *wgpuProgram) (*wgpu.BindGroup, error) {
	handles := make([]any, len(p.entries))
	groupEntries := make([]wgpu.BindGroupEntry, len(p.entries))

	textureFor := func(binding shader.Binding) (*wgpuImage, error) {
		unit, ok := p.textureUnits[binding.Name]
		if !ok {
			unit = binding.Binding
		}
		img, ok := b.sampled[unit]
		if !ok {
			return nil, fmt.Errorf("no texture bound to unit %d for %q", unit, binding.Name)
		}
		return img, nil
	}

	for i, e := range p.entries {
		ge := wgpu.BindGroupEntry{Binding: e.binding.Binding}
		switch e.kind {
		case resourceUniform:
			buf, ok := b.buffers[e.binding.Binding]
			if !ok || buf.released {
				return nil, fmt.Errorf("no buffer for uniform %q at binding %d", e.binding.Name, e.binding.Binding)
			}
			ge.Buffer = buf.buffer
			ge.Offset = 0
			ge.Size = wgpu.WholeSize
			handles[i] = buf
		case resourceStorageTexture:
			img, ok := b.storage[e.binding.Binding]
			if !ok {
				return nil, fmt.Errorf("no image bound to unit %d for %q", e.binding.Binding, e.binding.Name)
			}
			ge.TextureView = img.view
			handles[i] = img
		case resourceTexture:
			img, err := textureFor(e.binding)
			if err != nil {
				return nil, err
			}
			ge.TextureView = img.view
			handles[i] = img
		case resourceSampler:
			tex, ok := samplerTexture(e.binding, p.entries)
			if !ok {
				return nil, fmt.Errorf("sampler %q has no texture to pair with", e.binding.Name)
			}
			img, err := textureFor(tex)
			if err != nil {
				return nil, err
			}
			ge.Sampler = img.sampler
			handles[i] = img.sampler
		}
		groupEntries[i] = ge
	}

	if p.bindGroup != nil && sameHandles(p.boundHandles, handles) {
		return p.bindGroup, nil
	}

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.label + " Bind Group",
		Layout:  p.bindGroupLayout,
		Entries: groupEntries,
	})
	if err != nil {
		return nil, err
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
	p.boundHandles = handles
	return bg, nil
}

func sameHandles(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (b *wgpuRendererBackend) DispatchCompute(x, y, z uint32) {
	p := b.active
	if p == nil || p.compute == nil {
		b.report("dispatch without an active compute program")
		return
	}

	bg, err := b.bindGroup(p)
	if err != nil {
		b.report("dispatch %q: %v", p.label, err)
		return
	}

	if b.computeEncoder == nil {
		encoder, err := b.device.CreateCommandEncoder(nil)
		if err != nil {
			b.report("creating compute encoder: %v", err)
			return
		}
		b.computeEncoder = encoder
	}

	pass := b.computeEncoder.BeginComputePass(nil)
	pass.SetPipeline(p.compute)
	pass.SetBindGroup(0, bg, nil)
	pass.DispatchWorkgroups(x, y, z)
	pass.End()
}

// MemoryBarrier submits the recorded compute work. Later submissions observe its writes.
func (b *wgpuRendererBackend) MemoryBarrier(_ BarrierBits) {
	if b.computeEncoder == nil {
		return
	}

	commandBuffer, err := b.computeEncoder.Finish(nil)
	if err != nil {
		b.report("finishing compute encoder: %v", err)
		b.computeEncoder.Release()
		b.computeEncoder = nil
		return
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.computeEncoder.Release()
	b.computeEncoder = nil
}

func (b *wgpuRendererBackend) Clear(color [4]float32) {
	b.clearColor = wgpu.Color{R: float64(color[0]), G: float64(color[1]), B: float64(color[2]), A: float64(color[3])}
}

// acquireFrame gets the surface texture the next draw renders into.
func (b *wgpuRendererBackend) acquireFrame() error {
	if b.frameView != nil {
		return nil
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	b.frameTexture = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackend) DrawIndexed(m Mesh) {
	p := b.active
	if p == nil || p.render == nil {
		b.report("draw without an active render program")
		return
	}
	mesh := m.(*wgpuMesh)

	if b.computeEncoder != nil {
		b.report("draw %q with compute work not yet submitted", p.label)
		b.MemoryBarrier(BarrierImageAccess)
	}

	bg, err := b.bindGroup(p)
	if err != nil {
		b.report("draw %q: %v", p.label, err)
		return
	}
	if err := b.acquireFrame(); err != nil {
		b.report("acquiring surface texture: %v", err)
		return
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		b.report("creating render encoder: %v", err)
		return
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       b.frameView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: b.clearColor,
		}},
	})
	pass.SetPipeline(p.render)
	pass.SetBindGroup(0, bg, nil)
	pass.SetVertexBuffer(0, mesh.vertexBuffer, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(mesh.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(uint32(mesh.indexCount), 1, 0, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		b.report("finishing render encoder: %v", err)
		return
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
}

// Finish waits for the device to drain its queue.
func (b *wgpuRendererBackend) Finish() {
	b.device.Poll(true, nil)
}

func (b *wgpuRendererBackend) Present() {
	if b.frameTexture == nil {
		return
	}

	b.surface.Present()

	b.frameView.Release()
	b.frameView = nil
	b.frameTexture.Release()
	b.frameTexture = nil
}

func (b *wgpuRendererBackend) DrainErrors() []GPUError {
	errs := b.errs
	b.errs = nil
	return errs
}

func (b *wgpuRendererBackend) Release() {
	if b.computeEncoder != nil {
		b.computeEncoder.Release()
		b.computeEncoder = nil
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameTexture != nil {
		b.frameTexture.Release()
		b.frameTexture = nil
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}
