package shader

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// Names of the embedded programs' shader files.
const (
	RayTracerGLSL  = "ray_tracer.comp"
	ScreenVertGLSL = "screen.vert"
	ScreenFragGLSL = "screen.frag"

	RayTracerWGSL  = "ray_tracer.comp.wgsl"
	ScreenVertWGSL = "screen.vert.wgsl"
	ScreenFragWGSL = "screen.frag.wgsl"
)

//go:embed assets/*
var assets embed.FS

// Assets returns the embedded shader sources rooted at their file names.
func Assets() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(fmt.Sprintf("shader assets: %v", err))
	}
	return sub
}

// Load reflects one embedded shader by file name.
//
// Parameters:
//   - name: one of the embedded file names, e.g. RayTracerGLSL
//
// Returns:
//   - Shader: the reflected shader
//   - error: error if the name is unknown or reflection fails
func Load(name string) (Shader, error) {
	return NewShaderFromFS(Assets(), name)
}

// LoadAll reflects every embedded shader, sorted by file name.
//
// Returns:
//   - []Shader: all embedded shaders
//   - error: the first reflection failure
func LoadAll() ([]Shader, error) {
	names, err := fs.Glob(Assets(), "*")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Shader, 0, len(names))
	for _, name := range names {
		s, err := Load(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Program names a set of shaders linked together.
type Program struct {
	Label   string
	Shaders []Shader
}

// ProgramSet holds the two programs the renderer needs.
type ProgramSet struct {
	Compute Program
	Present Program
}

// LoadPrograms reflects the ray tracing and presentation programs for a language.
//
// Parameters:
//   - language: GLSL for the OpenGL backend, WGSL for the WebGPU backend
//
// Returns:
//   - ProgramSet: the compute and presentation programs
//   - error: the first reflection failure
func LoadPrograms(language Language) (ProgramSet, error) {
	names := [3]string{RayTracerGLSL, ScreenVertGLSL, ScreenFragGLSL}
	if language == LanguageWGSL {
		names = [3]string{RayTracerWGSL, ScreenVertWGSL, ScreenFragWGSL}
	}

	var loaded [3]Shader
	for i, name := range names {
		s, err := Load(name)
		if err != nil {
			return ProgramSet{}, err
		}
		loaded[i] = s
	}

	return ProgramSet{
		Compute: Program{Label: "ray tracer", Shaders: []Shader{loaded[0]}},
		Present: Program{Label: "screen", Shaders: []Shader{loaded[1], loaded[2]}},
	}, nil
}
