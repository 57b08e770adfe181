package signature

import (
	"fmt"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scopes(target, renderer, root map[string]any) data.Scopes {
	return data.Scopes{
		Target:   data.NewStore(data.WithName("target"), data.WithProperties(target)),
		Renderer: data.NewStore(data.WithName("renderer"), data.WithProperties(renderer)),
		Root:     data.NewStore(data.WithName("root"), data.WithProperties(root)),
	}
}

func boolMacro(name, property string, scope data.Scope) data.MacroBinding {
	return data.MacroBinding{Name: name, PropertyName: property, Scope: scope, Min: math.MinInt32, Max: math.MaxInt32}
}

func intMacro(name, property string, scope data.Scope, min, max int) data.MacroBinding {
	return data.MacroBinding{Name: name, PropertyName: property, Scope: scope, Min: min, Max: max}
}

func TestBuildBooleanAndIntegerMacros(t *testing.T) {
	macros := []data.MacroBinding{
		boolMacro("HAS_DIFFUSE_MAP", "material.diffuseMap", data.ScopeTarget),
		boolMacro("HAS_NORMAL_MAP", "material.normalMap", data.ScopeTarget),
		intMacro("NUM_LIGHTS", "lights.count", data.ScopeRoot, 0, 8),
		boolMacro("SHADOWS", "renderer.shadows", data.ScopeRenderer),
	}
	sc := scopes(
		map[string]any{"material.diffuseMap": uint32(3)},
		map[string]any{"renderer.shadows": true},
		map[string]any{"lights.count": 2},
	)

	res, err := NewCompiler().Build(macros, nil, sc, nil)
	require.NoError(t, err)

	assert.Equal(t, uint32(0b1101), res.Signature.Mask())
	assert.Equal(t, 2, res.Signature.Value(2))
	assert.Equal(t, 3, res.Signature.Len())
	assert.Equal(t, "#define HAS_DIFFUSE_MAP\n#define NUM_LIGHTS 2\n#define SHADOWS\n", res.Defines)
	assert.Equal(t, []string{"HAS_DIFFUSE_MAP", "SHADOWS"}, res.BooleanMacros)
	assert.Equal(t, []string{"NUM_LIGHTS"}, res.IntegerMacros)
	assert.Empty(t, res.IncorrectIntegerMacros)
}

func TestBuildIsDeterministic(t *testing.T) {
	macros := []data.MacroBinding{
		boolMacro("A", "a", data.ScopeTarget),
		intMacro("B", "b", data.ScopeTarget, 0, 4),
	}
	sc := scopes(map[string]any{"a": true, "b": 3, "unrelated": 1}, nil, nil)
	c := NewCompiler()

	first, err := c.Build(macros, nil, sc, nil)
	require.NoError(t, err)
	second, err := c.Build(macros, nil, sc, nil)
	require.NoError(t, err)
	assert.True(t, first.Signature.Equal(second.Signature))

	sc.Target.Set("unrelated", 99)
	third, err := c.Build(macros, nil, sc, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Signature.Mask(), third.Signature.Mask())
	assert.True(t, first.Signature.Equal(third.Signature))

	sc.Target.Set("b", 4)
	fourth, err := c.Build(macros, nil, sc, nil)
	require.NoError(t, err)
	assert.False(t, first.Signature.Equal(fourth.Signature))
}

func TestBuildDefaults(t *testing.T) {
	exists := boolMacro("FOG", "scene.fog", data.ScopeRoot)
	exists.Default = data.MacroDefault{Semantic: data.MacroDefaultPropertyExists}
	value := intMacro("QUALITY", "scene.quality", data.ScopeRoot, 0, 3)
	value.Default = data.MacroDefault{Semantic: data.MacroDefaultValue, Value: 1}
	none := boolMacro("SKIN", "geometry.skin", data.ScopeTarget)

	res, err := NewCompiler().Build([]data.MacroBinding{exists, value, none}, nil, scopes(nil, nil, nil), nil)
	require.NoError(t, err)

	assert.Equal(t, uint32(0b011), res.Signature.Mask())
	assert.Equal(t, 1, res.Signature.Value(1))
	assert.Equal(t, "#define FOG\n#define QUALITY 1\n", res.Defines)
	assert.Empty(t, res.BooleanMacros)
	assert.Empty(t, res.IntegerMacros)
}

func TestBuildVariables(t *testing.T) {
	macros := []data.MacroBinding{boolMacro("HAS_TANGENTS", "geometry[${geometryUuid}].tangent", data.ScopeTarget)}
	sc := scopes(map[string]any{"geometry[7].tangent": true}, nil, nil)

	res, err := NewCompiler().Build(macros, nil, sc, map[string]string{"geometryUuid": "7"})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), res.Signature.Mask())

	res, err = NewCompiler().Build(macros, nil, sc, map[string]string{"geometryUuid": "8"})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), res.Signature.Mask())
}

func TestBuildExplicitDefinitions(t *testing.T) {
	macros := []data.MacroBinding{
		intMacro("NUM_LIGHTS", "lights.count", data.ScopeRoot, 0, 8),
		boolMacro("FOG", "scene.fog", data.ScopeRoot),
	}
	explicit := []ExplicitDefinition{
		{Name: "NUM_LIGHTS", Default: data.MacroDefault{Semantic: data.MacroDefaultValue, Value: 4}},
		{Name: "DEBUG", Default: data.MacroDefault{Semantic: data.MacroDefaultPropertyExists}},
		{Name: "LEVEL", Default: data.MacroDefault{Semantic: data.MacroDefaultValue, Value: 2}},
	}
	sc := scopes(nil, nil, map[string]any{"lights.count": 1})

	res, err := NewCompiler().Build(macros, explicit, sc, nil)
	require.NoError(t, err)

	// slot 0 comes from the explicit definition, slot 1 (FOG) is absent, slots 2 and 3 are the
	// remaining explicit definitions
	assert.Equal(t, uint32(0b1101), res.Signature.Mask())
	assert.Equal(t, 4, res.Signature.Value(0))
	assert.Equal(t, 2, res.Signature.Value(3))
	assert.Equal(t, "#define NUM_LIGHTS 4\n#define DEBUG\n#define LEVEL 2\n", res.Defines)
	assert.Equal(t, []string{"NUM_LIGHTS"}, res.IntegerMacros)
}

func TestBuildUndefined(t *testing.T) {
	macros := []data.MacroBinding{
		boolMacro("A", "a", data.ScopeTarget),
		boolMacro("B", "b", data.ScopeTarget),
	}
	sc := scopes(map[string]any{"a": true, "b": true}, nil, nil)

	res, err := NewCompiler(WithUndefined("A")).Build(macros, nil, sc, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b10), res.Signature.Mask())
	assert.Equal(t, "#define B\n", res.Defines)
}

func TestBuildIntegerRange(t *testing.T) {
	macros := []data.MacroBinding{intMacro("NUM_LIGHTS", "lights.count", data.ScopeRoot, 0, 8)}
	sc := scopes(nil, nil, map[string]any{"lights.count": 12})

	res, err := NewCompiler().Build(macros, nil, sc, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"NUM_LIGHTS"}, res.IncorrectIntegerMacros)
	assert.Empty(t, res.IntegerMacros)
	assert.Equal(t, "#define NUM_LIGHTS 12\n", res.Defines)
	assert.Equal(t, 12, res.Signature.Value(0))

	_, err = NewCompiler(WithStrict(true)).Build(macros, nil, sc, nil)
	assert.ErrorIs(t, err, ErrMacroOutOfRange)

	sc.Root.Set("lights.count", 0)
	res, err = NewCompiler(WithStrict(true)).Build(macros, nil, sc, nil)
	require.NoError(t, err)
	assert.Empty(t, res.IntegerMacros)
	assert.Equal(t, "#define NUM_LIGHTS 0\n", res.Defines)
}

func TestBuildSlotLimit(t *testing.T) {
	macros := make([]data.MacroBinding, MaxMacros)
	props := make(map[string]any)
	for i := range macros {
		name := fmt.Sprintf("M%d", i)
		macros[i] = boolMacro(name, name, data.ScopeTarget)
		props[name] = true
	}
	sc := scopes(props, nil, nil)

	res, err := NewCompiler().Build(macros, nil, sc, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), res.Signature.Mask())

	_, err = NewCompiler().Build(append(macros, boolMacro("M32", "M32", data.ScopeTarget)), nil, sc, nil)
	assert.ErrorIs(t, err, ErrMacroOverflow)

	explicit := []ExplicitDefinition{{Name: "EXTRA"}}
	_, err = NewCompiler().Build(macros, explicit, sc, nil)
	assert.ErrorIs(t, err, ErrMacroOverflow)
}

func TestSignatureEqualIgnoresUnmaskedSlots(t *testing.T) {
	var a, b Signature
	a.set(0, 3)
	b.set(0, 3)
	a.values[5] = 1
	b.values[5] = 2
	assert.True(t, a.Equal(b))

	b.set(1, 0)
	assert.False(t, a.Equal(b))

	a.set(1, 1)
	assert.False(t, a.Equal(b))
}
