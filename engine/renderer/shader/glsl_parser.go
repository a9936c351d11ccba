package shader

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// glslVersionRegex matches the mandatory #version directive
	glslVersionRegex = regexp.MustCompile(`(?m)^\s*#version\s+(\d+)`)

	// glslMainRegex matches the entry function
	glslMainRegex = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(?:void\s*)?\)`)

	// glslLocalSizeRegex captures the local_size_* qualifiers of a compute input layout
	glslLocalSizeRegex = regexp.MustCompile(`layout\s*\(([^)]*local_size_[^)]*)\)\s*in\s*;`)

	// glslQualifierRegex captures one name[=value] pair from a layout qualifier list
	glslQualifierRegex = regexp.MustCompile(`(\w+)\s*(?:=\s*(\d+))?`)

	// glslUniformRegex captures the optional layout qualifiers, storage keyword, type/block name and variable name
	// of declarations like: layout(binding = 0, rgba32f) uniform image2D target;
	// or blocks: layout(std140, binding = 0) uniform Camera {
	glslUniformRegex = regexp.MustCompile(`(?:layout\s*\(([^)]*)\)\s*)?(?:(?:readonly|writeonly|restrict|coherent)\s+)*(uniform|buffer)\s+(\w+)\s*(\w+)?\s*[;{]`)

	// glslInputRegex captures vertex inputs: layout(location = N) in vec2 position;
	glslInputRegex = regexp.MustCompile(`layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*in\s+(\w+)\s+(\w+)\s*;`)
)

// glslVertexComponents maps GLSL vertex input types to their component counts
var glslVertexComponents = map[string]int{
	"float": 1, "vec2": 2, "vec3": 3, "vec4": 4,
}

// reflectGLSL fills entry point, workgroup size, bindings and vertex inputs from GLSL source.
func reflectGLSL(s *shader) error {
	cleaned := stripComments(s.source)

	if !glslVersionRegex.MatchString(cleaned) {
		return errors.New("missing #version directive")
	}
	if !glslMainRegex.MatchString(cleaned) {
		return errors.New("no main function")
	}
	s.entryPoint = "main"

	if s.shaderType == ShaderTypeCompute {
		m := glslLocalSizeRegex.FindStringSubmatch(cleaned)
		if m == nil {
			return errors.New("compute shader has no local_size layout")
		}
		qualifiers := parseGLSLQualifiers(m[1])
		for i, name := range []string{"local_size_x", "local_size_y", "local_size_z"} {
			if v, ok := qualifiers[name]; ok {
				if v == 0 {
					return errors.New(name + " must be positive")
				}
				s.workGroupSize[i] = v
			}
		}
	}

	for _, m := range glslUniformRegex.FindAllStringSubmatch(cleaned, -1) {
		qualifiers := parseGLSLQualifiers(m[1])
		name := m[4]
		if name == "" {
			name = m[3]
		}
		s.bindings = append(s.bindings, Binding{
			Binding:      qualifiers["binding"],
			Name:         name,
			AddressSpace: m[2],
			Type:         m[3],
		})
	}
	sortBindings(s.bindings)

	if s.shaderType == ShaderTypeVertex {
		for _, m := range glslInputRegex.FindAllStringSubmatch(cleaned, -1) {
			loc, _ := strconv.Atoi(m[1])
			s.attributes = append(s.attributes, VertexAttribute{
				Location:   uint32(loc),
				Type:       m[2],
				Name:       m[3],
				Components: glslVertexComponents[m[2]],
			})
		}
		sort.Slice(s.attributes, func(i, j int) bool { return s.attributes[i].Location < s.attributes[j].Location })
	}
	return nil
}

// parseGLSLQualifiers turns "std140, binding = 2" into {"std140": 0, "binding": 2}.
func parseGLSLQualifiers(list string) map[string]uint32 {
	out := make(map[string]uint32)
	for _, part := range strings.Split(list, ",") {
		m := glslQualifierRegex.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		var v uint64
		if m[2] != "" {
			v, _ = strconv.ParseUint(m[2], 10, 32)
		}
		out[m[1]] = uint32(v)
	}
	return out
}
