package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-trace/engine/window"
	"github.com/Carmen-Shannon/oxy-trace/log"
)

var rendererLogger = log.New("renderer")

// BackendType names a native Backend implementation.
type BackendType string

const (
	// BackendTypeGL is OpenGL 4.3 core, the first version with compute shaders.
	BackendTypeGL BackendType = "gl"

	// BackendTypeWGPU is WebGPU through wgpu-native.
	BackendTypeWGPU BackendType = "wgpu"
)

// backendConfig collects builder options before a backend is created.
type backendConfig struct {
	debugMessages        bool
	validateShaders      bool
	forceFallbackAdapter bool
}

// NewBackend creates a native backend presenting to win.
// The window must have been created for the matching graphics API: a current OpenGL context for
// BackendTypeGL, no client API for BackendTypeWGPU.
//
// Parameters:
//   - backendType: the backend to create
//   - win: the window to present to
//   - options: variadic list of BackendBuilderOption functions
//
// Returns:
//   - Backend: the ready backend, viewport set to the window size
//   - error: error if the API cannot be initialized on this system
func NewBackend(backendType BackendType, win window.Window, options ...BackendBuilderOption) (Backend, error) {
	if win == nil {
		return nil, ErrNoSurface
	}

	cfg := &backendConfig{}
	for _, opt := range options {
		opt(cfg)
	}

	var (
		b   Backend
		err error
	)
	switch backendType {
	case BackendTypeGL:
		b, err = newGLBackend(win, cfg)
	case BackendTypeWGPU:
		b, err = newWGPURendererBackend(win, cfg)
	default:
		return nil, fmt.Errorf("renderer: unknown backend %q", backendType)
	}
	if err != nil {
		return nil, err
	}

	rendererLogger.Noticef("%s backend ready at %dx%d", b.Name(), win.Width(), win.Height())
	return b, nil
}
