package shader

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ShaderType identifies the pipeline stage a shader runs in.
type ShaderType int

const (
	// ShaderTypeCompute indicates a shader containing a compute entry point.
	ShaderTypeCompute ShaderType = iota

	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeCompute:
		return "compute"
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// Language is the source language of a shader.
type Language int

const (
	// LanguageGLSL is OpenGL Shading Language, consumed by the OpenGL backend.
	LanguageGLSL Language = iota

	// LanguageWGSL is WebGPU Shading Language, consumed by the WebGPU backend.
	LanguageWGSL
)

func (l Language) String() string {
	if l == LanguageWGSL {
		return "wgsl"
	}
	return "glsl"
}

// Binding is one resource declaration found in a shader source.
type Binding struct {
	Group   uint32
	Binding uint32
	Name    string

	// AddressSpace holds the WGSL var<> qualifier or the GLSL storage keyword ("uniform", "buffer").
	AddressSpace string

	// Type is the declared type, e.g. "Camera", "texture_2d<f32>", "image2D".
	Type string
}

// VertexAttribute is one vertex shader input.
type VertexAttribute struct {
	Location   uint32
	Name       string
	Type       string
	Components int
}

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	source        string
	shaderType    ShaderType
	language      Language
	entryPoint    string
	workGroupSize [3]uint32
	bindings      []Binding
	attributes    []VertexAttribute
}

// Shader is a pre-processed and reflected shader source. It exposes what the backends need to
// build programs and pipelines: the source, entry point, workgroup size, resource bindings and
// vertex inputs.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for labels and error messages.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed source code.
	//
	// Returns:
	//   - string: the source with all includes expanded
	Source() string

	// ShaderType retrieves the stage of the shader.
	//
	// Returns:
	//   - ShaderType: the shader stage
	ShaderType() ShaderType

	// Language retrieves the source language.
	//
	// Returns:
	//   - Language: GLSL or WGSL
	Language() Language

	// EntryPoint retrieves the name of the stage entry function. Always "main" for GLSL.
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// WorkgroupSize retrieves the compute workgroup dimensions, [1, 1, 1] for other stages.
	//
	// Returns:
	//   - [3]uint32: workgroup size in x, y, z
	WorkgroupSize() [3]uint32

	// Bindings retrieves all resource declarations sorted by group then binding.
	//
	// Returns:
	//   - []Binding: the declared resources
	Bindings() []Binding

	// BindingFromVarName looks up a resource declaration by its variable name.
	//
	// Parameters:
	//   - name: the variable (or GLSL block) name
	//
	// Returns:
	//   - Binding: the declaration
	//   - bool: false if no declaration has that name
	BindingFromVarName(name string) (Binding, bool)

	// VertexAttributes retrieves the vertex inputs sorted by location. Empty for non-vertex stages.
	//
	// Returns:
	//   - []VertexAttribute: the vertex inputs
	VertexAttributes() []VertexAttribute
}

var _ Shader = &shader{}

// NewShader pre-processes and reflects a shader source.
// Reflection failures, such as a compute shader without a workgroup size, are returned as a
// *CompilationError since the native compiler would reject the same source.
//
// Parameters:
//   - key: unique identifier for the shader
//   - shaderType: the pipeline stage
//   - language: the source language
//   - source: the raw source, possibly containing include directives
//
// Returns:
//   - Shader: the reflected shader
//   - error: error if an include is unknown or the source cannot be reflected
func NewShader(key string, shaderType ShaderType, language Language, source string) (Shader, error) {
	processed, err := NewPreProcessor().Process(source, language)
	if err != nil {
		return nil, &CompilationError{Key: key, Stage: shaderType, Log: err.Error()}
	}

	s := &shader{
		key:           key,
		source:        processed,
		shaderType:    shaderType,
		language:      language,
		workGroupSize: [3]uint32{1, 1, 1},
	}

	var reflectErr error
	switch language {
	case LanguageWGSL:
		reflectErr = reflectWGSL(s)
	default:
		reflectErr = reflectGLSL(s)
	}
	if reflectErr != nil {
		return nil, &CompilationError{Key: key, Stage: shaderType, Log: reflectErr.Error()}
	}
	return s, nil
}

// NewShaderFromFS loads a shader file from fsys. The stage and language come from the file
// extension: .comp/.vert/.frag are GLSL, .wgsl files use a .comp.wgsl/.vert.wgsl/.frag.wgsl suffix.
//
// Parameters:
//   - fsys: the filesystem holding the source
//   - name: path of the source within fsys
//
// Returns:
//   - Shader: the reflected shader keyed by its base name
//   - error: error if the file cannot be read, has an unknown extension or fails reflection
func NewShaderFromFS(fsys fs.FS, name string) (Shader, error) {
	shaderType, language, err := classifyFileName(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("shader: reading %s: %w", name, err)
	}
	return NewShader(path.Base(name), shaderType, language, string(data))
}

func classifyFileName(name string) (ShaderType, Language, error) {
	base := path.Base(name)
	language := LanguageGLSL
	if trimmed, ok := strings.CutSuffix(base, ".wgsl"); ok {
		language = LanguageWGSL
		base = trimmed
	}

	switch path.Ext(base) {
	case ".comp":
		return ShaderTypeCompute, language, nil
	case ".vert":
		return ShaderTypeVertex, language, nil
	case ".frag":
		return ShaderTypeFragment, language, nil
	}
	return 0, 0, fmt.Errorf("%w: %s", ErrUnknownShaderFile, name)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Language() Language {
	return s.language
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) WorkgroupSize() [3]uint32 {
	return s.workGroupSize
}

func (s *shader) Bindings() []Binding {
	return s.bindings
}

func (s *shader) BindingFromVarName(name string) (Binding, bool) {
	for _, b := range s.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

func (s *shader) VertexAttributes() []VertexAttribute {
	return s.attributes
}
