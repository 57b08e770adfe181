package drawcall

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/program"
)

// supported reports whether the binder can upload inputs of type t.
func supported(t program.InputType) bool {
	switch t {
	case program.InputTypeFloat9, program.InputTypeSamplerCube, program.InputTypeStruct, program.InputTypeUnknown:
		return false
	}
	return t.IsInt() || t.IsFloat() || t.IsBool() || t == program.InputTypeSampler2D
}

// accepts reports whether a property value can be uploaded as an input of type t.
func accepts(t program.InputType, v any) bool {
	switch t {
	case program.InputTypeFloat1:
		_, ok := v.(float32)
		return ok
	case program.InputTypeFloat2:
		_, ok := v.([2]float32)
		return ok
	case program.InputTypeFloat3:
		_, ok := v.([3]float32)
		return ok
	case program.InputTypeFloat4:
		_, ok := v.([4]float32)
		return ok
	case program.InputTypeFloat16:
		switch v.(type) {
		case *[16]float32, [16]float32:
			return true
		}
		return false
	case program.InputTypeInt1:
		switch v.(type) {
		case int32, int:
			return true
		}
		return false
	case program.InputTypeInt2:
		_, ok := v.([2]int32)
		return ok
	case program.InputTypeInt3:
		_, ok := v.([3]int32)
		return ok
	case program.InputTypeInt4:
		_, ok := v.([4]int32)
		return ok
	case program.InputTypeBool1:
		_, ok := v.(bool)
		return ok
	case program.InputTypeBool2:
		_, ok := v.([2]bool)
		return ok
	case program.InputTypeBool3:
		_, ok := v.([3]bool)
		return ok
	case program.InputTypeBool4:
		_, ok := v.([4]bool)
		return ok
	case program.InputTypeSampler2D:
		_, ok := v.(uint32)
		return ok
	}
	return false
}

// uploadFloat issues the float setter matching the slot type. Values of the wrong type are skipped.
func uploadFloat(ctx renderer.Context, u *uniformSlot) {
	switch v := u.value.Value().(type) {
	case float32:
		ctx.SetUniformFloat1(u.loc, v)
	case [2]float32:
		ctx.SetUniformFloat2(u.loc, v)
	case [3]float32:
		ctx.SetUniformFloat3(u.loc, v)
	case [4]float32:
		ctx.SetUniformFloat4(u.loc, v)
	case *[16]float32:
		ctx.SetUniformMatrix4x4(u.loc, v)
	case [16]float32:
		ctx.SetUniformMatrix4x4(u.loc, &v)
	}
}

func uploadInt(ctx renderer.Context, u *uniformSlot) {
	switch v := u.value.Value().(type) {
	case int32:
		ctx.SetUniformInt1(u.loc, v)
	case int:
		ctx.SetUniformInt1(u.loc, int32(v))
	case [2]int32:
		ctx.SetUniformInt2(u.loc, v)
	case [3]int32:
		ctx.SetUniformInt3(u.loc, v)
	case [4]int32:
		ctx.SetUniformInt4(u.loc, v)
	}
}

// uploadBool sends booleans through the integer setters as 0 or 1.
func uploadBool(ctx renderer.Context, u *uniformSlot) {
	switch v := u.value.Value().(type) {
	case bool:
		ctx.SetUniformInt1(u.loc, boolToInt(v))
	case [2]bool:
		ctx.SetUniformInt2(u.loc, [2]int32{boolToInt(v[0]), boolToInt(v[1])})
	case [3]bool:
		ctx.SetUniformInt3(u.loc, [3]int32{boolToInt(v[0]), boolToInt(v[1]), boolToInt(v[2])})
	case [4]bool:
		ctx.SetUniformInt4(u.loc, [4]int32{boolToInt(v[0]), boolToInt(v[1]), boolToInt(v[2]), boolToInt(v[3])})
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// read returns the value behind h as a T, or fallback when the handle is empty or holds another type.
func read[T any](h data.Handle, fallback T) T {
	if v, ok := data.Value[T](h); ok {
		return v
	}
	return fallback
}
