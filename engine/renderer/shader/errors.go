package shader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownShaderFile is returned for a file name whose extension names no stage.
	ErrUnknownShaderFile = errors.New("shader: unknown shader file extension")

	// ErrUnsupportedLanguage is returned by Validate for sources naga cannot parse.
	ErrUnsupportedLanguage = errors.New("shader: validation not supported for language")
)

// CompilationError carries the compiler log of a shader that failed to compile.
type CompilationError struct {
	Key   string
	Stage ShaderType
	Log   string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("shader: compiling %s shader %q: %s", e.Stage, e.Key, e.Log)
}

// LinkError carries the linker log of a program that failed to link.
type LinkError struct {
	Program string
	Log     string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("shader: linking program %q: %s", e.Program, e.Log)
}
