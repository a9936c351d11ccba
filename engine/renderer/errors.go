package renderer

import "errors"

var (
	// ErrTargetReleased is returned when a released render target is rendered to or presented.
	ErrTargetReleased = errors.New("renderer: render target released")

	// ErrTargetNotSynchronized is returned when a target with compute writes not yet covered
	// by a memory barrier is about to be sampled.
	ErrTargetNotSynchronized = errors.New("renderer: render target sampled before memory barrier")

	// ErrUniformOverflow is returned when a write does not match the uniform buffer's fixed size.
	ErrUniformOverflow = errors.New("renderer: uniform write size does not match buffer size")

	// ErrUnknownUniform is returned when a program declares no uniform with the requested name.
	ErrUnknownUniform = errors.New("renderer: unknown uniform")

	// ErrUnsupportedStages is returned for shader sets that are neither one compute shader
	// nor a vertex and fragment pair.
	ErrUnsupportedStages = errors.New("renderer: program needs one compute shader or a vertex and fragment shader")

	// ErrUnsupportedBinding is returned for shader resources the backend cannot bind.
	ErrUnsupportedBinding = errors.New("renderer: unsupported shader binding")

	// ErrInvalidSize is returned for non-positive image sizes and render areas outside the target.
	ErrInvalidSize = errors.New("renderer: invalid size")

	// ErrInvalidLayout is returned when vertex attribute sizes do not divide the vertex data.
	ErrInvalidLayout = errors.New("renderer: invalid vertex layout")

	// ErrNoSurface is returned when a backend that presents to a window is given none.
	ErrNoSurface = errors.New("renderer: no presentation surface")
)
