package program

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// InputType is the declared type of a program attribute or uniform.
type InputType int

const (
	InputTypeUnknown InputType = iota
	InputTypeInt1
	InputTypeInt2
	InputTypeInt3
	InputTypeInt4
	InputTypeFloat1
	InputTypeFloat2
	InputTypeFloat3
	InputTypeFloat4
	InputTypeFloat9
	InputTypeFloat16
	InputTypeBool1
	InputTypeBool2
	InputTypeBool3
	InputTypeBool4
	InputTypeSampler2D
	InputTypeSamplerCube
	InputTypeStruct
)

var inputTypeNames = map[InputType]string{
	InputTypeUnknown:     "unknown",
	InputTypeInt1:        "int1",
	InputTypeInt2:        "int2",
	InputTypeInt3:        "int3",
	InputTypeInt4:        "int4",
	InputTypeFloat1:      "float1",
	InputTypeFloat2:      "float2",
	InputTypeFloat3:      "float3",
	InputTypeFloat4:      "float4",
	InputTypeFloat9:      "float9",
	InputTypeFloat16:     "float16",
	InputTypeBool1:       "bool1",
	InputTypeBool2:       "bool2",
	InputTypeBool3:       "bool3",
	InputTypeBool4:       "bool4",
	InputTypeSampler2D:   "sampler2d",
	InputTypeSamplerCube: "samplercube",
	InputTypeStruct:      "struct",
}

func (t InputType) String() string {
	if name, ok := inputTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("inputtype(%d)", int(t))
}

// Components returns the number of scalar components of the type, or 0 for samplers, structs and
// unknown types.
//
// Returns:
//   - int: the component count
func (t InputType) Components() int {
	switch t {
	case InputTypeInt1, InputTypeFloat1, InputTypeBool1:
		return 1
	case InputTypeInt2, InputTypeFloat2, InputTypeBool2:
		return 2
	case InputTypeInt3, InputTypeFloat3, InputTypeBool3:
		return 3
	case InputTypeInt4, InputTypeFloat4, InputTypeBool4:
		return 4
	case InputTypeFloat9:
		return 9
	case InputTypeFloat16:
		return 16
	default:
		return 0
	}
}

// IsInt reports whether the type is a 1 to 4 component integer type.
func (t InputType) IsInt() bool {
	return t >= InputTypeInt1 && t <= InputTypeInt4
}

// IsFloat reports whether the type is a float scalar, vector or matrix type.
func (t InputType) IsFloat() bool {
	return t >= InputTypeFloat1 && t <= InputTypeFloat16
}

// IsBool reports whether the type is a 1 to 4 component boolean type.
func (t InputType) IsBool() bool {
	return t >= InputTypeBool1 && t <= InputTypeBool4
}

// Input describes one attribute or uniform declared by a program.
type Input struct {
	// Name is the input name. Elements of uniform arrays are named "base[i]".
	Name string

	// Type is the declared type.
	Type InputType

	// Location is the shader location of an attribute, or the binding index of a uniform.
	Location int

	// Group is the bind group of a uniform. Always 0 for attributes.
	Group int

	// Element is the index of the element within a uniform array, or -1 for non-array inputs.
	Element int

	// Format is the vertex format of an attribute. Undefined for uniforms.
	Format wgpu.VertexFormat
}
