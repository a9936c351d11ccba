// Package trace provides a renderer.Backend that records every call instead of talking to a GPU.
// It backs the frame loop tests and the headless replay command.
package trace

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-trace/engine/renderer"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
)

// Names of recorded operations.
const (
	OpCreateProgram   = "CreateProgram"
	OpCreateImage     = "CreateImage"
	OpCreateBuffer    = "CreateBuffer"
	OpCreateMesh      = "CreateMesh"
	OpSetUniformInt   = "SetUniformInt"
	OpUseProgram      = "UseProgram"
	OpWriteBuffer     = "WriteBuffer"
	OpBindImage       = "BindImage"
	OpDispatchCompute = "DispatchCompute"
	OpMemoryBarrier   = "MemoryBarrier"
	OpBindTexture     = "BindTexture"
	OpClear           = "Clear"
	OpDrawIndexed     = "DrawIndexed"
	OpFinish          = "Finish"
	OpPresent         = "Present"
	OpDrainErrors     = "DrainErrors"
	OpRelease         = "Release"
)

// Op is one recorded call.
type Op struct {
	Name string
	Args []any
}

func (o Op) String() string {
	if len(o.Args) == 0 {
		return o.Name
	}
	args := make([]string, len(o.Args))
	for i, a := range o.Args {
		args[i] = fmt.Sprint(a)
	}
	return o.Name + "(" + strings.Join(args, ", ") + ")"
}

// Backend records calls in order. It is not safe for concurrent use, matching the single
// thread that owns a real context.
type Backend struct {
	ops     []Op
	handles []*handle

	pendingErrors   []renderer.GPUError
	compileFailures map[string]string
	linkFailures    map[string]string
}

var _ renderer.Backend = &Backend{}

// New returns an empty recording backend.
func New() *Backend {
	return &Backend{
		compileFailures: make(map[string]string),
		linkFailures:    make(map[string]string),
	}
}

// handle is the recording stand-in for every native object.
type handle struct {
	kind          string
	label         string
	width, height int
	size          int
	binding       uint32
	indexCount    int
	uniforms      map[string]bool
	released      bool
}

func (h *handle) Label() string { return h.label }
func (h *handle) Width() int { return h.width }
func (h *handle) Height() int { return h.height }
func (h *handle) Size() int { return h.size }
func (h *handle) Binding() uint32 { return h.binding }
func (h *handle) IndexCount() int { return h.indexCount }
func (h *handle) Release() { h.released = true }
func (h *handle) String() string { return h.kind + ":" + h.label }

func (b *Backend) record(name string, args ...any) {
	b.ops = append(b.ops, Op{Name: name, Args: args})
}

func (b *Backend) track(h *handle) *handle {
	b.handles = append(b.handles, h)
	return h
}

// InjectError queues a GPU error for the next DrainErrors.
func (b *Backend) InjectError(err renderer.GPUError) {
	b.pendingErrors = append(b.pendingErrors, err)
}

// FailCompile makes CreateProgram fail with a CompilationError for the shader with key.
func (b *Backend) FailCompile(key, log string) {
	b.compileFailures[key] = log
}

// FailLink makes CreateProgram fail with a LinkError for the program with label.
func (b *Backend) FailLink(label, log string) {
	b.linkFailures[label] = log
}

// Mark records a caller-defined marker, used to interleave non-GPU steps into the trace.
func (b *Backend) Mark(name string, args ...any) {
	b.record(name, args...)
}

// Ops returns a copy of the recorded operations.
func (b *Backend) Ops() []Op {
	out := make([]Op, len(b.ops))
	copy(out, b.ops)
	return out
}

// Names returns the recorded operation names in order.
func (b *Backend) Names() []string {
	out := make([]string, len(b.ops))
	for i, op := range b.ops {
		out[i] = op.Name
	}
	return out
}

// Count returns how many operations named name were recorded.
func (b *Backend) Count(name string) int {
	n := 0
	for _, op := range b.ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Counts returns the number of recorded operations per name.
func (b *Backend) Counts() map[string]int {
	out := make(map[string]int)
	for _, op := range b.ops {
		out[op.Name]++
	}
	return out
}

// Reset clears the recorded operations. Handles stay alive.
func (b *Backend) Reset() {
	b.ops = nil
}

// Live returns the number of created handles not yet released.
func (b *Backend) Live() int {
	n := 0
	for _, h := range b.handles {
		if !h.released {
			n++
		}
	}
	return n
}

func (b *Backend) Name() string {
	return "trace"
}

func (b *Backend) CreateProgram(label string, shaders ...shader.Shader) (renderer.Program, error) {
	b.record(OpCreateProgram, label, len(shaders))

	uniforms := make(map[string]bool)
	for _, s := range shaders {
		if log, ok := b.compileFailures[s.Key()]; ok {
			return nil, &shader.CompilationError{Key: s.Key(), Stage: s.ShaderType(), Log: log}
		}
		for _, binding := range s.Bindings() {
			uniforms[binding.Name] = true
		}
	}
	if log, ok := b.linkFailures[label]; ok {
		return nil, &shader.LinkError{Program: label, Log: log}
	}
	return b.track(&handle{kind: "program", label: label, uniforms: uniforms}), nil
}

func (b *Backend) CreateImage(desc renderer.ImageDescriptor) (renderer.Image, error) {
	b.record(OpCreateImage, desc.Label, desc.Width, desc.Height)
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: image %dx%d", renderer.ErrInvalidSize, desc.Width, desc.Height)
	}
	return b.track(&handle{kind: "image", label: desc.Label, width: desc.Width, height: desc.Height}), nil
}

func (b *Backend) CreateBuffer(label string, size int, binding uint32) (renderer.Buffer, error) {
	b.record(OpCreateBuffer, label, size, binding)
	if size <= 0 {
		return nil, fmt.Errorf("%w: buffer %q of %d bytes", renderer.ErrInvalidSize, label, size)
	}
	return b.track(&handle{kind: "buffer", label: label, size: size, binding: binding}), nil
}

func (b *Backend) CreateMesh(label string, vertices []float32, indices []uint32, attributeSizes []int) (renderer.Mesh, error) {
	b.record(OpCreateMesh, label, len(vertices), len(indices))
	layout, err := renderer.NewVertexLayout(vertices, attributeSizes)
	if err != nil {
		return nil, err
	}
	if err := layout.CheckIndices(indices); err != nil {
		return nil, err
	}
	return b.track(&handle{kind: "mesh", label: label, indexCount: len(indices)}), nil
}

func (b *Backend) SetUniformInt(p renderer.Program, name string, value int32) error {
	b.record(OpSetUniformInt, p, name, value)
	if !p.(*handle).uniforms[name] {
		return fmt.Errorf("%w: %q in program %q", renderer.ErrUnknownUniform, name, p.Label())
	}
	return nil
}

func (b *Backend) UseProgram(p renderer.Program) {
	b.record(OpUseProgram, p)
}

func (b *Backend) WriteBuffer(buf renderer.Buffer, offset int, data []byte) {
	payload := make([]byte, len(data))
	copy(payload, data)
	b.record(OpWriteBuffer, buf, offset, payload)
}

func (b *Backend) BindImage(img renderer.Image, unit uint32, access renderer.ImageAccess) {
	b.record(OpBindImage, img, unit, access)
}

func (b *Backend) DispatchCompute(x, y, z uint32) {
	b.record(OpDispatchCompute, x, y, z)
}

func (b *Backend) MemoryBarrier(bits renderer.BarrierBits) {
	b.record(OpMemoryBarrier, bits)
}

func (b *Backend) BindTexture(img renderer.Image, unit uint32) {
	b.record(OpBindTexture, img, unit)
}

func (b *Backend) Clear(color [4]float32) {
	b.record(OpClear, color)
}

func (b *Backend) DrawIndexed(m renderer.Mesh) {
	b.record(OpDrawIndexed, m, m.IndexCount())
}

func (b *Backend) Finish() {
	b.record(OpFinish)
}

func (b *Backend) Present() {
	b.record(OpPresent)
}

func (b *Backend) DrainErrors() []renderer.GPUError {
	b.record(OpDrainErrors, len(b.pendingErrors))
	errs := b.pendingErrors
	b.pendingErrors = nil
	return errs
}

func (b *Backend) Release() {
	b.record(OpRelease)
}
