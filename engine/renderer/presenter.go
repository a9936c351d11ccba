package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
)

// ScreenSamplerName is the sampler uniform the presentation program reads the render target from.
const ScreenSamplerName = "screen"

// DefaultClearColor is the color behind the quad.
var DefaultClearColor = [4]float32{0.1, 0.2, 0.3, 1.0}

// QuadVertices is a full clip-space quad, interleaved as position.xy then uv.
var QuadVertices = []float32{
	1, 1, 1, 1,
	1, -1, 1, 0,
	-1, -1, 0, 0,
	-1, 1, 0, 1,
}

// QuadIndices splits the quad into two triangles.
var QuadIndices = []uint32{0, 1, 2, 2, 3, 0}

// QuadAttributeSizes is the component count of the position and uv attributes.
var QuadAttributeSizes = []int{2, 2}

// Presenter draws the render target onto the window with a textured full-screen quad.
type Presenter struct {
	backend     Backend
	program     Program
	quad        Mesh
	clearColor  [4]float32
	textureUnit uint32
	unitSet     bool
}

// PresenterOption is a functional option applied to a Presenter during construction.
type PresenterOption func(*Presenter)

// WithClearColor sets the color the frame is cleared to before the quad is drawn.
//
// Parameters:
//   - color: RGBA in [0, 1]
//
// Returns:
//   - PresenterOption: a function that applies the clear color option
func WithClearColor(color [4]float32) PresenterOption {
	return func(p *Presenter) {
		p.clearColor = color
	}
}

// WithTextureUnit sets the texture unit the screen sampler reads from.
//
// Parameters:
//   - unit: the texture unit
//
// Returns:
//   - PresenterOption: a function that applies the texture unit option
func WithTextureUnit(unit uint32) PresenterOption {
	return func(p *Presenter) {
		p.textureUnit = unit
		p.unitSet = true
	}
}

// NewPresenter links the presentation program, uploads the quad and points the screen sampler at
// its texture unit. The sampler assignment happens once here and is not repeated per frame.
//
// Parameters:
//   - backend: the backend to issue commands on
//   - program: a vertex and fragment shader pair
//   - options: functional options
//
// Returns:
//   - *Presenter: the presenter
//   - error: a compile, link, upload or uniform error
func NewPresenter(backend Backend, program shader.Program, options ...PresenterOption) (*Presenter, error) {
	var fragment shader.Shader
	for _, s := range program.Shaders {
		if s.ShaderType() == shader.ShaderTypeFragment {
			fragment = s
		}
	}
	if len(program.Shaders) != 2 || fragment == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStages, program.Label)
	}

	p := &Presenter{backend: backend, clearColor: DefaultClearColor}
	for _, opt := range options {
		opt(p)
	}
	if !p.unitSet {
		if b, ok := fragment.BindingFromVarName(ScreenSamplerName); ok {
			p.textureUnit = b.Binding
		}
	}

	prog, err := backend.CreateProgram(program.Label, program.Shaders...)
	if err != nil {
		return nil, err
	}

	quad, err := backend.CreateMesh("screen quad", QuadVertices, QuadIndices, QuadAttributeSizes)
	if err != nil {
		prog.Release()
		return nil, fmt.Errorf("renderer: uploading screen quad: %w", err)
	}

	if err := backend.SetUniformInt(prog, ScreenSamplerName, int32(p.textureUnit)); err != nil {
		quad.Release()
		prog.Release()
		return nil, err
	}

	p.program = prog
	p.quad = quad
	return p, nil
}

// Present clears the frame and draws target over the whole viewport.
// It does not swap or present the surface; the caller does that once drawing is done.
//
// Parameters:
//   - target: a synchronized render target
//
// Returns:
//   - error: ErrTargetReleased, or ErrTargetNotSynchronized if compute writes are not yet covered by a barrier
func (p *Presenter) Present(target *RenderTarget) error {
	if target.Released() {
		return ErrTargetReleased
	}
	if !target.Synchronized() {
		return ErrTargetNotSynchronized
	}

	p.backend.Clear(p.clearColor)
	p.backend.UseProgram(p.program)
	p.backend.BindTexture(target.Image(), p.textureUnit)
	p.backend.DrawIndexed(p.quad)
	return nil
}

// TextureUnit returns the unit the screen sampler reads from.
func (p *Presenter) TextureUnit() uint32 {
	return p.textureUnit
}

// ClearColor returns the color each frame is cleared to.
func (p *Presenter) ClearColor() [4]float32 {
	return p.clearColor
}

// Release frees the quad and the program.
func (p *Presenter) Release() {
	p.quad.Release()
	p.program.Release()
}
