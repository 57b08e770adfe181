package program

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslVertexFormatMap maps WGSL attribute type names to their wgpu vertex format.
var wgslVertexFormatMap = map[string]wgpu.VertexFormat{
	"f32":       wgpu.VertexFormatFloat32,
	"vec2f":     wgpu.VertexFormatFloat32x2,
	"vec2<f32>": wgpu.VertexFormatFloat32x2,
	"vec3f":     wgpu.VertexFormatFloat32x3,
	"vec3<f32>": wgpu.VertexFormatFloat32x3,
	"vec4f":     wgpu.VertexFormatFloat32x4,
	"vec4<f32>": wgpu.VertexFormatFloat32x4,
	"i32":       wgpu.VertexFormatSint32,
	"vec2i":     wgpu.VertexFormatSint32x2,
	"vec2<i32>": wgpu.VertexFormatSint32x2,
	"vec3i":     wgpu.VertexFormatSint32x3,
	"vec3<i32>": wgpu.VertexFormatSint32x3,
	"vec4i":     wgpu.VertexFormatSint32x4,
	"vec4<i32>": wgpu.VertexFormatSint32x4,
	"u32":       wgpu.VertexFormatUint32,
	"vec2u":     wgpu.VertexFormatUint32x2,
	"vec2<u32>": wgpu.VertexFormatUint32x2,
	"vec3u":     wgpu.VertexFormatUint32x3,
	"vec3<u32>": wgpu.VertexFormatUint32x3,
	"vec4u":     wgpu.VertexFormatUint32x4,
	"vec4<u32>": wgpu.VertexFormatUint32x4,
}

// wgslInputTypeMap maps WGSL scalar, vector and matrix type names to input types.
var wgslInputTypeMap = map[string]InputType{
	"i32":         InputTypeInt1,
	"u32":         InputTypeInt1,
	"vec2i":       InputTypeInt2,
	"vec2<i32>":   InputTypeInt2,
	"vec2u":       InputTypeInt2,
	"vec2<u32>":   InputTypeInt2,
	"vec3i":       InputTypeInt3,
	"vec3<i32>":   InputTypeInt3,
	"vec3u":       InputTypeInt3,
	"vec3<u32>":   InputTypeInt3,
	"vec4i":       InputTypeInt4,
	"vec4<i32>":   InputTypeInt4,
	"vec4u":       InputTypeInt4,
	"vec4<u32>":   InputTypeInt4,
	"f32":         InputTypeFloat1,
	"vec2f":       InputTypeFloat2,
	"vec2<f32>":   InputTypeFloat2,
	"vec3f":       InputTypeFloat3,
	"vec3<f32>":   InputTypeFloat3,
	"vec4f":       InputTypeFloat4,
	"vec4<f32>":   InputTypeFloat4,
	"mat3x3f":     InputTypeFloat9,
	"mat3x3<f32>": InputTypeFloat9,
	"mat4x4f":     InputTypeFloat16,
	"mat4x4<f32>": InputTypeFloat16,
	"bool":        InputTypeBool1,
	"vec2<bool>":  InputTypeBool2,
	"vec3<bool>":  InputTypeBool3,
	"vec4<bool>":  InputTypeBool4,
}

// wgslTextureTypeMap maps WGSL texture base names to sampler input types.
var wgslTextureTypeMap = map[string]InputType{
	"texture_2d":       InputTypeSampler2D,
	"texture_cube":     InputTypeSamplerCube,
	"texture_depth_2d": InputTypeSampler2D,
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field: optional attributes, name, colon, type
	fieldRegex = regexp.MustCompile(`(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)`)

	// vertexEntryRegex captures the name of the @vertex entry point
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex captures the name of the @fragment entry point
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// resourceDeclRegex captures group, binding, address space, name and type of a module-scope
	// resource such as: @group(0) @binding(1) var<uniform> diffuseColor: vec4f;
	resourceDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parsedField is a single field of a WGSL struct.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a WGSL struct block.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// reflectAttributes returns the vertex attributes declared by the first pure vertex-input struct
// (at least one @location field, no @builtin field), sorted by location.
func reflectAttributes(source string) []Input {
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if !isVertexInputStruct(ps) {
			continue
		}

		attrs := make([]Input, 0, len(ps.fields))
		for _, f := range ps.fields {
			if f.location < 0 {
				continue
			}
			attrs = append(attrs, Input{
				Name:     f.name,
				Type:     wgslInputTypeMap[f.typeName],
				Location: f.location,
				Element:  -1,
				Format:   wgslVertexFormatMap[f.typeName],
			})
		}
		sort.SliceStable(attrs, func(i, j int) bool {
			return attrs[i].Location < attrs[j].Location
		})
		return attrs
	}
	return nil
}

// reflectUniforms returns the uniform and texture resources declared by the source, in declaration
// order. Uniform arrays with a constant length expand to one input per element. Storage buffers and
// sampler objects are not inputs and are skipped.
func reflectUniforms(source string) []Input {
	cleaned := stripComments(source)

	structs := make(map[string]bool)
	for _, ps := range parseStructBlocks(cleaned) {
		structs[ps.name] = true
	}

	var inputs []Input
	for _, m := range resourceDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		addressSpace := strings.TrimSpace(m[3])
		name := m[4]
		typeName := strings.TrimSpace(m[5])

		switch {
		case addressSpace == "uniform":
			if elem, n, ok := splitArrayType(typeName); ok {
				t := classifyType(elem, structs)
				for i := 0; i < n; i++ {
					inputs = append(inputs, Input{
						Name:     name + "[" + strconv.Itoa(i) + "]",
						Type:     t,
						Location: binding,
						Group:    group,
						Element:  i,
					})
				}
				continue
			}
			inputs = append(inputs, Input{
				Name:     name,
				Type:     classifyType(typeName, structs),
				Location: binding,
				Group:    group,
				Element:  -1,
			})
		case addressSpace == "":
			base, _ := splitTypeParams(typeName)
			t, ok := wgslTextureTypeMap[base]
			if !ok {
				continue
			}
			inputs = append(inputs, Input{
				Name:     name,
				Type:     t,
				Location: binding,
				Group:    group,
				Element:  -1,
			})
		}
	}
	return inputs
}

// classifyType maps a WGSL uniform type to an input type.
func classifyType(typeName string, structs map[string]bool) InputType {
	if t, ok := wgslInputTypeMap[typeName]; ok {
		return t
	}
	if structs[typeName] {
		return InputTypeStruct
	}
	return InputTypeUnknown
}

// splitArrayType splits "array<T, N>" into T and N. Runtime-sized arrays report false.
func splitArrayType(typeName string) (string, int, bool) {
	base, params := splitTypeParams(typeName)
	if base != "array" {
		return "", 0, false
	}
	parts := splitAtTopLevelCommas(params)
	if len(parts) != 2 {
		return "", 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || n <= 0 {
		return "", 0, false
	}
	return strings.TrimSpace(parts[0]), n, true
}

// splitTypeParams splits "base<params>" into base and params. Types without parameters return
// the whole name and "".
func splitTypeParams(typeName string) (string, string) {
	open := strings.IndexByte(typeName, '<')
	if open < 0 || !strings.HasSuffix(typeName, ">") {
		return typeName, ""
	}
	return strings.TrimSpace(typeName[:open]), typeName[open+1 : len(typeName)-1]
}

// entryPoint returns the name of the first function carrying the given stage attribute.
func entryPoint(source string, re *regexp.Regexp) string {
	if m := re.FindStringSubmatch(stripComments(source)); m != nil {
		return m[1]
	}
	return ""
}

func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, m := range matches {
		structs = append(structs, parsedStruct{name: m[1], fields: parseStructFields(m[2])})
	}
	return structs
}

func parseStructFields(body string) []parsedField {
	parts := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		fm := fieldRegex.FindStringSubmatch(part)
		if fm == nil {
			continue
		}
		field := parsedField{
			name:      fm[1],
			typeName:  strings.TrimSpace(fm[2]),
			location:  -1,
			isBuiltin: builtinRegex.MatchString(part),
		}
		if lm := locationRegex.FindStringSubmatch(part); lm != nil {
			field.location, _ = strconv.Atoi(lm[1])
		}
		fields = append(fields, field)
	}
	return fields
}

// isVertexInputStruct distinguishes vertex inputs from vertex outputs, which mix @location fields
// with @builtin(position).
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// splitAtTopLevelCommas splits s at commas not nested inside angle brackets, so that
// array<vec4f, 4> stays a single type.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes /* ... */ comments, which nest in WGSL.
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i++
				continue
			}
			if source[i] == '*' && source[i+1] == '/' && depth > 0 {
				depth--
				i++
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
