package renderer

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-trace/engine/window"
	"github.com/go-gl/gl/v4.3-core/gl"
)

// glBackend issues commands on the OpenGL 4.3 core context current on the calling thread.
type glBackend struct {
	win   window.Window
	debug bool
}

type glProgram struct {
	id       uint32
	label    string
	released bool
}

func (p *glProgram) Label() string { return p.label }

func (p *glProgram) Release() {
	if p.released {
		return
	}
	p.released = true
	gl.DeleteProgram(p.id)
}

type glImage struct {
	id            uint32
	label         string
	width, height int
	released      bool
}

func (i *glImage) Label() string { return i.label }
func (i *glImage) Width() int { return i.width }
func (i *glImage) Height() int { return i.height }

func (i *glImage) Release() {
	if i.released {
		return
	}
	i.released = true
	gl.DeleteTextures(1, &i.id)
}

type glBuffer struct {
	id       uint32
	label    string
	size     int
	binding  uint32
	released bool
}

func (b *glBuffer) Label() string { return b.label }
func (b *glBuffer) Size() int { return b.size }
func (b *glBuffer) Binding() uint32 { return b.binding }

func (b *glBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	gl.DeleteBuffers(1, &b.id)
}

type glMesh struct {
	vao, vbo, ebo uint32
	label         string
	indexCount    int
	released      bool
}

func (m *glMesh) Label() string { return m.label }
func (m *glMesh) IndexCount() int { return m.indexCount }

func (m *glMesh) Release() {
	if m.released {
		return
	}
	m.released = true
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

var _ Backend = &glBackend{}

// newGLBackend loads the GL function pointers for the window's current context.
//
// OpenGL 4.3 reference: https://registry.khronos.org/OpenGL/specs/gl/glspec43.core.pdf
func newGLBackend(win window.Window, cfg *backendConfig) (*glBackend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("renderer: initializing OpenGL: %w", err)
	}
	rendererLogger.Infof("OpenGL %s on %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	b := &glBackend{win: win, debug: cfg.debugMessages}
	if b.debug {
		gl.Enable(gl.DEBUG_OUTPUT)
		gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
		gl.DebugMessageCallback(logDebugMessage, nil)
	}
	gl.Viewport(0, 0, int32(win.Width()), int32(win.Height()))
	return b, nil
}

// logDebugMessage receives KHR_debug messages from the driver.
func logDebugMessage(source, gltype, id, severity uint32, _ int32, message string, _ unsafe.Pointer) {
	line := fmt.Sprintf("GL debug [%s/%s #%d]: %s", debugSourceName(source), debugTypeName(gltype), id, strings.TrimSpace(message))
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		rendererLogger.Error(line)
	case gl.DEBUG_SEVERITY_MEDIUM:
		rendererLogger.Warning(line)
	case gl.DEBUG_SEVERITY_LOW:
		rendererLogger.Info(line)
	default:
		rendererLogger.Debug(line)
	}
}

func debugSourceName(source uint32) string {
	switch source {
	case gl.DEBUG_SOURCE_API:
		return "api"
	case gl.DEBUG_SOURCE_WINDOW_SYSTEM:
		return "window"
	case gl.DEBUG_SOURCE_SHADER_COMPILER:
		return "compiler"
	case gl.DEBUG_SOURCE_THIRD_PARTY:
		return "third-party"
	case gl.DEBUG_SOURCE_APPLICATION:
		return "application"
	default:
		return "other"
	}
}

func debugTypeName(gltype uint32) string {
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		return "error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		return "deprecated"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		return "undefined"
	case gl.DEBUG_TYPE_PORTABILITY:
		return "portability"
	case gl.DEBUG_TYPE_PERFORMANCE:
		return "performance"
	case gl.DEBUG_TYPE_MARKER:
		return "marker"
	default:
		return "other"
	}
}

// glErrorName maps glGetError codes to their enum names.
func glErrorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.STACK_OVERFLOW:
		return "GL_STACK_OVERFLOW"
	case gl.STACK_UNDERFLOW:
		return "GL_STACK_UNDERFLOW"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return ""
	}
}

func glStage(t shader.ShaderType) uint32 {
	switch t {
	case shader.ShaderTypeCompute:
		return gl.COMPUTE_SHADER
	case shader.ShaderTypeVertex:
		return gl.VERTEX_SHADER
	default:
		return gl.FRAGMENT_SHADER
	}
}

func glAccess(a ImageAccess) uint32 {
	switch a {
	case AccessReadOnly:
		return gl.READ_ONLY
	case AccessWriteOnly:
		return gl.WRITE_ONLY
	default:
		return gl.READ_WRITE
	}
}

func glBarrierBits(bits BarrierBits) uint32 {
	var out uint32
	if bits&BarrierImageAccess != 0 {
		out |= gl.SHADER_IMAGE_ACCESS_BARRIER_BIT
	}
	if bits&BarrierTextureFetch != 0 {
		out |= gl.TEXTURE_FETCH_BARRIER_BIT
	}
	if bits&BarrierUniform != 0 {
		out |= gl.UNIFORM_BARRIER_BIT
	}
	return out
}

func glFilter(f FilterMode) int32 {
	if f == FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func glWrap(w WrapMode) int32 {
	if w == WrapRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func (b *glBackend) Name() string {
	return "OpenGL 4.3"
}

// compileShader compiles one stage and returns the native log on failure.
func compileShader(s shader.Shader) (uint32, error) {
	handle := gl.CreateShader(glStage(s.ShaderType()))

	csources, free := gl.Strs(s.Source() + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)

		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteShader(handle)

		return 0, &shader.CompilationError{Key: s.Key(), Stage: s.ShaderType(), Log: strings.TrimRight(msg, "\x00\n")}
	}
	return handle, nil
}

func (b *glBackend) CreateProgram(label string, shaders ...shader.Shader) (Program, error) {
	if !validStages(shaders) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStages, label)
	}
	for _, s := range shaders {
		if s.Language() != shader.LanguageGLSL {
			return nil, fmt.Errorf("%w: %s shader %q for OpenGL", shader.ErrUnsupportedLanguage, s.Language(), s.Key())
		}
	}

	handles := make([]uint32, 0, len(shaders))
	defer func() {
		for _, h := range handles {
			gl.DeleteShader(h)
		}
	}()
	for _, s := range shaders {
		h, err := compileShader(s)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}

	id := gl.CreateProgram()
	for _, h := range handles {
		gl.AttachShader(id, h)
	}
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)

		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(id, logLength, nil, gl.Str(msg))
		gl.DeleteProgram(id)

		return nil, &shader.LinkError{Program: label, Log: strings.TrimRight(msg, "\x00\n")}
	}

	for _, h := range handles {
		gl.DetachShader(id, h)
	}
	return &glProgram{id: id, label: label}, nil
}

// validStages accepts one compute shader, or exactly one vertex and one fragment shader.
func validStages(shaders []shader.Shader) bool {
	switch len(shaders) {
	case 1:
		return shaders[0].ShaderType() == shader.ShaderTypeCompute
	case 2:
		var vertex, fragment int
		for _, s := range shaders {
			switch s.ShaderType() {
			case shader.ShaderTypeVertex:
				vertex++
			case shader.ShaderTypeFragment:
				fragment++
			}
		}
		return vertex == 1 && fragment == 1
	default:
		return false
	}
}

func (b *glBackend) CreateImage(desc ImageDescriptor) (Image, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: image %dx%d", ErrInvalidSize, desc.Width, desc.Height)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(desc.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(desc.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(desc.MagFilter))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(desc.Width), int32(desc.Height), 0, gl.RGBA, gl.FLOAT, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &glImage{id: id, label: desc.Label, width: desc.Width, height: desc.Height}, nil
}

func (b *glBackend) CreateBuffer(label string, size int, binding uint32) (Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: buffer %q of %d bytes", ErrInvalidSize, label, size)
	}

	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.UNIFORM_BUFFER, id)
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, id)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	return &glBuffer{id: id, label: label, size: size, binding: binding}, nil
}

func (b *glBackend) CreateMesh(label string, vertices []float32, indices []uint32, attributeSizes []int) (Mesh, error) {
	layout, err := NewVertexLayout(vertices, attributeSizes)
	if err != nil {
		return nil, err
	}
	if err := layout.CheckIndices(indices); err != nil {
		return nil, err
	}

	m := &glMesh{label: label, indexCount: len(indices)}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	for i, size := range layout.Sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), int32(size), gl.FLOAT, false, int32(layout.Stride), uintptr(layout.Offsets[i]))
		gl.EnableVertexAttribArray(uint32(i))
	}

	gl.BindVertexArray(0)
	return m, nil
}

func (b *glBackend) SetUniformInt(p Program, name string, value int32) error {
	prog := p.(*glProgram)
	loc := gl.GetUniformLocation(prog.id, gl.Str(name+"\x00"))
	if loc < 0 {
		return fmt.Errorf("%w: %q in program %q", ErrUnknownUniform, name, prog.label)
	}
	gl.ProgramUniform1i(prog.id, loc, value)
	return nil
}

func (b *glBackend) UseProgram(p Program) {
	gl.UseProgram(p.(*glProgram).id)
}

func (b *glBackend) WriteBuffer(buf Buffer, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gb := buf.(*glBuffer)
	gl.BindBuffer(gl.UNIFORM_BUFFER, gb.id)
	gl.BufferSubData(gl.UNIFORM_BUFFER, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

func (b *glBackend) BindImage(img Image, unit uint32, access ImageAccess) {
	gl.BindImageTexture(unit, img.(*glImage).id, 0, false, 0, glAccess(access), gl.RGBA32F)
}

func (b *glBackend) DispatchCompute(x, y, z uint32) {
	gl.DispatchCompute(x, y, z)
}

func (b *glBackend) MemoryBarrier(bits BarrierBits) {
	gl.MemoryBarrier(glBarrierBits(bits))
}

func (b *glBackend) BindTexture(img Image, unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, img.(*glImage).id)
}

func (b *glBackend) Clear(color [4]float32) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (b *glBackend) DrawIndexed(m Mesh) {
	mesh := m.(*glMesh)
	gl.BindVertexArray(mesh.vao)
	gl.DrawElements(gl.TRIANGLES, int32(mesh.indexCount), gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (b *glBackend) Finish() {
	gl.Finish()
}

func (b *glBackend) Present() {
	b.win.SwapBuffers()
}

func (b *glBackend) DrainErrors() []GPUError {
	var errs []GPUError
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		errs = append(errs, GPUError{Code: code, Message: glErrorName(code)})
	}
	return errs
}

func (b *glBackend) Release() {
	if b.debug {
		gl.Disable(gl.DEBUG_OUTPUT)
	}
}
