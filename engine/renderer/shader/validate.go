package shader

import "github.com/gogpu/naga"

// Validate compiles a WGSL shader with naga to catch errors before the source reaches the
// device. GLSL sources return ErrUnsupportedLanguage.
//
// Parameters:
//   - s: the shader to validate
//
// Returns:
//   - int: size in bytes of the SPIR-V naga produced, 0 on failure
//   - error: a *CompilationError carrying the naga diagnostic, or ErrUnsupportedLanguage
func Validate(s Shader) (int, error) {
	if s.Language() != LanguageWGSL {
		return 0, ErrUnsupportedLanguage
	}
	spirv, err := naga.Compile(s.Source())
	if err != nil {
		return 0, &CompilationError{Key: s.Key(), Stage: s.ShaderType(), Log: err.Error()}
	}
	return len(spirv), nil
}
