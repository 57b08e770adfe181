package effect

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	blendFactors = map[string]wgpu.BlendFactor{
		"zero":                wgpu.BlendFactorZero,
		"one":                 wgpu.BlendFactorOne,
		"src":                 wgpu.BlendFactorSrc,
		"one_minus_src":       wgpu.BlendFactorOneMinusSrc,
		"src_alpha":           wgpu.BlendFactorSrcAlpha,
		"one_minus_src_alpha": wgpu.BlendFactorOneMinusSrcAlpha,
		"dst":                 wgpu.BlendFactorDst,
		"one_minus_dst":       wgpu.BlendFactorOneMinusDst,
		"dst_alpha":           wgpu.BlendFactorDstAlpha,
		"one_minus_dst_alpha": wgpu.BlendFactorOneMinusDstAlpha,
		"src_alpha_saturated": wgpu.BlendFactorSrcAlphaSaturated,
		"constant":            wgpu.BlendFactorConstant,
		"one_minus_constant":  wgpu.BlendFactorOneMinusConstant,
	}
	compareFunctions = map[string]wgpu.CompareFunction{
		"never":         wgpu.CompareFunctionNever,
		"less":          wgpu.CompareFunctionLess,
		"equal":         wgpu.CompareFunctionEqual,
		"less_equal":    wgpu.CompareFunctionLessEqual,
		"greater":       wgpu.CompareFunctionGreater,
		"not_equal":     wgpu.CompareFunctionNotEqual,
		"greater_equal": wgpu.CompareFunctionGreaterEqual,
		"always":        wgpu.CompareFunctionAlways,
	}
	stencilOperations = map[string]wgpu.StencilOperation{
		"keep":            wgpu.StencilOperationKeep,
		"zero":            wgpu.StencilOperationZero,
		"replace":         wgpu.StencilOperationReplace,
		"invert":          wgpu.StencilOperationInvert,
		"increment_clamp": wgpu.StencilOperationIncrementClamp,
		"decrement_clamp": wgpu.StencilOperationDecrementClamp,
		"increment_wrap":  wgpu.StencilOperationIncrementWrap,
		"decrement_wrap":  wgpu.StencilOperationDecrementWrap,
	}
	cullModes = map[string]wgpu.CullMode{
		"none":  wgpu.CullModeNone,
		"front": wgpu.CullModeFront,
		"back":  wgpu.CullModeBack,
	}
	wrapModes = map[string]wgpu.AddressMode{
		"repeat":        wgpu.AddressModeRepeat,
		"mirror_repeat": wgpu.AddressModeMirrorRepeat,
		"clamp":         wgpu.AddressModeClampToEdge,
	}
	filterModes = map[string]wgpu.FilterMode{
		"nearest": wgpu.FilterModeNearest,
		"linear":  wgpu.FilterModeLinear,
	}
	mipFilterModes = map[string]wgpu.MipmapFilterMode{
		"nearest": wgpu.MipmapFilterModeNearest,
		"linear":  wgpu.MipmapFilterModeLinear,
	}
)

// value converts a default declared in an effect file to the Go type the binder uploads.
func (l *loader) value(d defaultFile) (any, error) {
	switch d.Type {
	case "float", "float1":
		return toFloat(d.Value)
	case "float2":
		return floats[[2]float32](d.Value)
	case "float3":
		return floats[[3]float32](d.Value)
	case "float4":
		return floats[[4]float32](d.Value)
	case "float16":
		return floats[[16]float32](d.Value)
	case "int", "int1":
		n, err := toInt(d.Value)
		return int32(n), err
	case "int2":
		return ints[[2]int32](d.Value)
	case "int3":
		return ints[[3]int32](d.Value)
	case "int4":
		return ints[[4]int32](d.Value)
	case "box":
		return ints[[4]int32](d.Value)
	case "uint":
		n, err := toInt(d.Value)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative uint %d", n)
		}
		return uint32(n), nil
	case "bool", "bool1":
		return toBool(d.Value)
	case "bool2":
		return bools[[2]bool](d.Value)
	case "bool3":
		return bools[[3]bool](d.Value)
	case "bool4":
		return bools[[4]bool](d.Value)
	case "texture":
		return l.texture(d.Value)
	case "blend_factor":
		return enum(blendFactors, d.Value)
	case "compare":
		return enum(compareFunctions, d.Value)
	case "stencil_op":
		return enum(stencilOperations, d.Value)
	case "cull":
		return enum(cullModes, d.Value)
	case "wrap":
		return enum(wrapModes, d.Value)
	case "filter":
		return enum(filterModes, d.Value)
	case "mip_filter":
		return enum(mipFilterModes, d.Value)
	}
	return nil, fmt.Errorf("unknown type %q", d.Type)
}

// texture accepts a texture id, or an image path when a texture loader is configured.
func (l *loader) texture(v any) (any, error) {
	path, ok := v.(string)
	if !ok {
		n, err := toInt(v)
		if err != nil {
			return nil, err
		}
		return uint32(n), nil
	}
	if l.textureLoader == nil {
		return nil, fmt.Errorf("texture %q needs a texture loader", path)
	}
	img, err := common.LoadImage(l.resolve(path))
	if err != nil {
		return nil, err
	}
	return l.textureLoader(img)
}

func enum[T any](names map[string]T, v any) (T, error) {
	s, ok := v.(string)
	if !ok {
		var zero T
		return zero, fmt.Errorf("expected a name, got %T", v)
	}
	out, ok := names[strings.ToLower(s)]
	if !ok {
		return out, fmt.Errorf("unknown value %q", s)
	}
	return out, nil
}

// YAML decodes numbers to int or float64, TOML to int64 or float64.
func toFloat(v any) (float32, error) {
	switch n := v.(type) {
	case float64:
		return float32(n), nil
	case int:
		return float32(n), nil
	case int64:
		return float32(n), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("expected an integer, got %v", n)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("expected an integer, got %T", v)
}

func toBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected a bool, got %T", v)
	}
	return b, nil
}

func list(v any, n int) ([]any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of %d, got %T", n, v)
	}
	if len(items) != n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(items))
	}
	return items, nil
}

func floats[A [2]float32 | [3]float32 | [4]float32 | [16]float32](v any) (A, error) {
	var out A
	items, err := list(v, len(out))
	if err != nil {
		return out, err
	}
	for i, item := range items {
		if out[i], err = toFloat(item); err != nil {
			return out, err
		}
	}
	return out, nil
}

func ints[A [2]int32 | [3]int32 | [4]int32](v any) (A, error) {
	var out A
	items, err := list(v, len(out))
	if err != nil {
		return out, err
	}
	for i, item := range items {
		n, err := toInt(item)
		if err != nil {
			return out, err
		}
		out[i] = int32(n)
	}
	return out, nil
}

func bools[A [2]bool | [3]bool | [4]bool](v any) (A, error) {
	var out A
	items, err := list(v, len(out))
	if err != nil {
		return out, err
	}
	for i, item := range items {
		if out[i], err = toBool(item); err != nil {
			return out, err
		}
	}
	return out, nil
}
