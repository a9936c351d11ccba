// pre_processor.go expands include directives in shader sources. A line of the form
//
//	// @oxy:include camera
//
// is replaced with the registered struct source for the shader's language, so the CPU-side
// GPU types and the shaders share a single definition.
package shader

import (
	"fmt"
	"regexp"

	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
)

// includeRegex matches a whole include directive line and captures the include name.
var includeRegex = regexp.MustCompile(`(?m)^[ \t]*//[ \t]*@oxy:include[ \t]+(\w+)[ \t]*$`)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// registry maps include names to their source per language.
	registry map[string]map[Language]string
}

// PreProcessor expands @oxy:include directives in shader sources.
type PreProcessor interface {
	// Process replaces every include directive with the registered source for language.
	//
	// Parameters:
	//   - source: the raw shader source
	//   - language: selects which registered variant is injected
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error naming the first unknown include
	Process(source string, language Language) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU type sources registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		registry: map[string]map[Language]string{
			"camera": {
				LanguageWGSL: camera.GPUCameraUniformSource,
				LanguageGLSL: camera.GPUCameraUniformGLSLSource,
			},
		},
	}
}

func (p *preProcessor) Process(source string, language Language) (string, error) {
	var err error
	out := includeRegex.ReplaceAllStringFunc(source, func(line string) string {
		name := includeRegex.FindStringSubmatch(line)[1]
		src, ok := p.registry[name][language]
		if !ok {
			if err == nil {
				err = fmt.Errorf("unknown include %q for %s", name, language)
			}
			return line
		}
		return src
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
