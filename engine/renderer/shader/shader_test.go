package shader

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedGLSL(t *testing.T) {
	programs, err := LoadPrograms(LanguageGLSL)
	require.NoError(t, err)

	compute := programs.Compute.Shaders[0]
	assert.Equal(t, ShaderTypeCompute, compute.ShaderType())
	assert.Equal(t, "main", compute.EntryPoint())
	assert.Equal(t, [3]uint32{8, 8, 1}, compute.WorkgroupSize())
	assert.NotContains(t, compute.Source(), "@oxy:include")
	assert.Contains(t, compute.Source(), "uniform Camera")

	img, ok := compute.BindingFromVarName("outputImage")
	require.True(t, ok)
	assert.Equal(t, "image2D", img.Type)
	assert.Equal(t, uint32(0), img.Binding)

	cam, ok := compute.BindingFromVarName("Camera")
	require.True(t, ok)
	assert.Equal(t, "uniform", cam.AddressSpace)

	vert := programs.Present.Shaders[0]
	require.Len(t, vert.VertexAttributes(), 2)
	assert.Equal(t, "position", vert.VertexAttributes()[0].Name)
	assert.Equal(t, 2, vert.VertexAttributes()[1].Components)

	frag := programs.Present.Shaders[1]
	screen, ok := frag.BindingFromVarName("screen")
	require.True(t, ok)
	assert.Equal(t, "sampler2D", screen.Type)
}

func TestLoadEmbeddedWGSL(t *testing.T) {
	programs, err := LoadPrograms(LanguageWGSL)
	require.NoError(t, err)

	compute := programs.Compute.Shaders[0]
	assert.Equal(t, "cs_main", compute.EntryPoint())
	assert.Equal(t, [3]uint32{8, 8, 1}, compute.WorkgroupSize())
	assert.Contains(t, compute.Source(), "struct Camera")

	bindings := compute.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, Binding{Group: 0, Binding: 0, Name: "camera", AddressSpace: "uniform", Type: "Camera"}, bindings[0])
	assert.Equal(t, "texture_storage_2d<rgba32float, write>", bindings[1].Type)

	vert := programs.Present.Shaders[0]
	assert.Equal(t, "vs_main", vert.EntryPoint())
	attrs := vert.VertexAttributes()
	require.Len(t, attrs, 2)
	assert.Equal(t, VertexAttribute{Location: 1, Name: "uv", Type: "vec2<f32>", Components: 2}, attrs[1])

	frag := programs.Present.Shaders[1]
	assert.Equal(t, "fs_main", frag.EntryPoint())
	sampler, ok := frag.BindingFromVarName("screenSampler")
	require.True(t, ok)
	assert.Equal(t, "sampler", sampler.Type)
}

func TestLoadAll(t *testing.T) {
	all, err := LoadAll()
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestWorkgroupSizeDefaults(t *testing.T) {
	src := "@compute @workgroup_size(64)\nfn main() {}\n"
	s, err := NewShader("k", ShaderTypeCompute, LanguageWGSL, src)
	require.NoError(t, err)
	assert.Equal(t, [3]uint32{64, 1, 1}, s.WorkgroupSize())
}

func TestReflectionErrors(t *testing.T) {
	tests := []struct {
		name     string
		stage    ShaderType
		language Language
		source   string
	}{
		{"wgsl missing entry", ShaderTypeFragment, LanguageWGSL, "fn helper() {}"},
		{"wgsl compute without size", ShaderTypeCompute, LanguageWGSL, "@compute fn main() {}"},
		{"glsl missing version", ShaderTypeVertex, LanguageGLSL, "void main() {}"},
		{"glsl missing main", ShaderTypeVertex, LanguageGLSL, "#version 430 core\nvoid run() {}"},
		{"glsl compute without size", ShaderTypeCompute, LanguageGLSL, "#version 430 core\nvoid main() {}"},
		{"unknown include", ShaderTypeVertex, LanguageGLSL, "#version 430 core\n// @oxy:include lights\nvoid main() {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader("broken", tt.stage, tt.language, tt.source)
			var compileErr *CompilationError
			require.True(t, errors.As(err, &compileErr), "got %v", err)
			assert.Equal(t, "broken", compileErr.Key)
			assert.Equal(t, tt.stage, compileErr.Stage)
			assert.NotEmpty(t, compileErr.Log)
		})
	}
}

func TestNewShaderFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"a.vert":      {Data: []byte("#version 430 core\nvoid main() {}\n")},
		"b.frag.wgsl": {Data: []byte("@fragment fn fs() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }")},
		"c.txt":       {Data: []byte("nope")},
	}

	s, err := NewShaderFromFS(fsys, "a.vert")
	require.NoError(t, err)
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, LanguageGLSL, s.Language())
	assert.Equal(t, "a.vert", s.Key())

	s, err = NewShaderFromFS(fsys, "b.frag.wgsl")
	require.NoError(t, err)
	assert.Equal(t, ShaderTypeFragment, s.ShaderType())
	assert.Equal(t, LanguageWGSL, s.Language())
	assert.Equal(t, "fs", s.EntryPoint())

	_, err = NewShaderFromFS(fsys, "c.txt")
	assert.ErrorIs(t, err, ErrUnknownShaderFile)
}

func TestPreProcessorKeepsOtherComments(t *testing.T) {
	src := "// regular comment\n// @oxy:include camera\nfn f() {}\n"
	out, err := NewPreProcessor().Process(src, LanguageWGSL)
	require.NoError(t, err)
	assert.Contains(t, out, "// regular comment")
	assert.Contains(t, out, "rot: mat3x3<f32>")
	assert.NotContains(t, out, "@oxy:include")
}

func TestValidateRejectsGLSL(t *testing.T) {
	s, err := Load(ScreenFragGLSL)
	require.NoError(t, err)
	_, err = Validate(s)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestValidateReportsCompilationError(t *testing.T) {
	s, err := NewShader("bad", ShaderTypeFragment, LanguageWGSL,
		"@fragment fn fs() -> @location(0) vec4<f32> { return undefined_symbol; }")
	require.NoError(t, err)

	_, err = Validate(s)
	var compileErr *CompilationError
	assert.True(t, errors.As(err, &compileErr))
}

func TestErrorMessages(t *testing.T) {
	err := &CompilationError{Key: "ray_tracer.comp", Stage: ShaderTypeCompute, Log: "0:12: syntax error"}
	assert.Equal(t, `shader: compiling compute shader "ray_tracer.comp": 0:12: syntax error`, err.Error())

	link := &LinkError{Program: "screen", Log: "varying mismatch"}
	assert.Equal(t, `shader: linking program "screen": varying mismatch`, link.Error())
}
