package shader

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field: optional attributes, name, colon, type.
	fieldRegex = regexp.MustCompile(`(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)`)

	// wgslEntryRegexes match the stage attribute of an entry function and capture its name
	wgslEntryRegexes = map[ShaderType]*regexp.Regexp{
		ShaderTypeCompute:  regexp.MustCompile(`(?s)@compute\b.*?\bfn\s+(\w+)`),
		ShaderTypeVertex:   regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`),
		ShaderTypeFragment: regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`),
	}

	// workgroupSizeRegex captures 1-3 integer dimensions from @workgroup_size(x[, y[, z]])
	workgroupSizeRegex = regexp.MustCompile(`@workgroup_size\(\s*(\d+)\s*(?:,\s*(\d+)\s*(?:,\s*(\d+)\s*)?)?\)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> camera: Camera;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)

	lineCommentRegex  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// wgslVertexComponents maps WGSL vertex input types to their component counts
var wgslVertexComponents = map[string]int{
	"f32": 1, "vec2f": 2, "vec2<f32>": 2, "vec3f": 3, "vec3<f32>": 3, "vec4f": 4, "vec4<f32>": 4,
}

type parsedField struct {
	name     string
	typeName string
	location int
	builtin  bool
}

type parsedStruct struct {
	name   string
	fields []parsedField
}

// reflectWGSL fills entry point, workgroup size, bindings and vertex inputs from WGSL source.
func reflectWGSL(s *shader) error {
	cleaned := stripComments(s.source)

	match := wgslEntryRegexes[s.shaderType].FindStringSubmatch(cleaned)
	if match == nil {
		return errors.New("no @" + s.shaderType.String() + " entry point")
	}
	s.entryPoint = match[1]

	if s.shaderType == ShaderTypeCompute {
		size, ok := parseWorkgroupSize(cleaned)
		if !ok {
			return errors.New("compute entry point has no @workgroup_size")
		}
		s.workGroupSize = size
	}

	s.bindings = parseWGSLBindings(cleaned)

	if s.shaderType == ShaderTypeVertex {
		s.attributes = parseWGSLVertexInputs(cleaned)
	}
	return nil
}

// parseWorkgroupSize extracts the @workgroup_size(x, y, z) dimensions.
// Omitted dimensions default to 1.
func parseWorkgroupSize(source string) ([3]uint32, bool) {
	size := [3]uint32{1, 1, 1}
	match := workgroupSizeRegex.FindStringSubmatch(source)
	if match == nil {
		return size, false
	}
	for i := range 3 {
		if match[i+1] == "" {
			continue
		}
		v, err := strconv.ParseUint(match[i+1], 10, 32)
		if err != nil || v == 0 {
			return size, false
		}
		size[i] = uint32(v)
	}
	return size, true
}

func parseWGSLBindings(source string) []Binding {
	var bindings []Binding
	for _, m := range bindGroupDeclRegex.FindAllStringSubmatch(source, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		bindings = append(bindings, Binding{
			Group:        uint32(group),
			Binding:      uint32(binding),
			AddressSpace: strings.TrimSpace(m[3]),
			Name:         strings.TrimSpace(m[4]),
			Type:         strings.TrimSpace(m[5]),
		})
	}
	sortBindings(bindings)
	return bindings
}

// parseWGSLVertexInputs reads the first struct whose fields all carry @location attributes.
func parseWGSLVertexInputs(source string) []VertexAttribute {
	for _, ps := range parseStructBlocks(source) {
		if !isVertexInputStruct(ps) {
			continue
		}
		attrs := make([]VertexAttribute, 0, len(ps.fields))
		for _, f := range ps.fields {
			attrs = append(attrs, VertexAttribute{
				Location:   uint32(f.location),
				Name:       f.name,
				Type:       f.typeName,
				Components: wgslVertexComponents[f.typeName],
			})
		}
		sort.Slice(attrs, func(i, j int) bool { return attrs[i].Location < attrs[j].Location })
		return attrs
	}
	return nil
}

func parseStructBlocks(source string) []parsedStruct {
	var out []parsedStruct
	for _, m := range structBlockRegex.FindAllStringSubmatch(source, -1) {
		ps := parsedStruct{name: m[1]}
		for _, raw := range strings.Split(m[2], ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			fm := fieldRegex.FindStringSubmatch(raw)
			if fm == nil {
				continue
			}
			f := parsedField{
				name:     fm[1],
				typeName: strings.TrimSpace(fm[2]),
				location: -1,
				builtin:  builtinRegex.MatchString(raw),
			}
			if lm := locationRegex.FindStringSubmatch(raw); lm != nil {
				f.location, _ = strconv.Atoi(lm[1])
			}
			ps.fields = append(ps.fields, f)
		}
		out = append(out, ps)
	}
	return out
}

func isVertexInputStruct(ps parsedStruct) bool {
	if len(ps.fields) == 0 {
		return false
	}
	for _, f := range ps.fields {
		if f.builtin || f.location < 0 {
			return false
		}
	}
	return true
}

func stripComments(source string) string {
	return lineCommentRegex.ReplaceAllString(blockCommentRegex.ReplaceAllString(source, ""), "")
}

func sortBindings(bindings []Binding) {
	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].Group != bindings[j].Group {
			return bindings[i].Group < bindings[j].Group
		}
		return bindings[i].Binding < bindings[j].Binding
	})
}
