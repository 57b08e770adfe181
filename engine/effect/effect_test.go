package effect

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/drawcall"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pass"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/program"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicShader = `
struct VertexInput {
    @location(0) position: vec3f,
}

@group(0) @binding(0) var<uniform> modelToWorld: mat4x4f;
@group(0) @binding(1) var<uniform> diffuseColor: vec4f;
#if NUM_LIGHTS
@group(0) @binding(2) var<uniform> lightCount: i32;
#endif

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4f {
    return modelToWorld * vec4f(in.position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4f {
    return diffuseColor;
}
`

const basicYAML = `
name: basic
passes:
  - name: forward
    vertex: basic.wgsl
    fragment: basic.wgsl
    macros:
      - {name: HAS_DIFFUSE_MAP, property: material.diffuseMap, scope: target, default: exists}
      - {name: NUM_LIGHTS, property: lights.count, scope: root, default: value, value: 0, min: 0, max: 8}
    defines: {SHADOWS: 1}
    undefines: [FOG]
    attributes:
      position: {property: "geometry[${geometryUuid}].position", scope: target}
    uniforms:
      modelToWorld: {property: transform.modelToWorldMatrix, scope: target}
      diffuseColor: {property: material.diffuseColor}
    states:
      blendingSource: {property: material.blendingSource, scope: target}
    defaults:
      diffuseColor: {type: float4, value: [1, 0.5, 1, 1]}
      blendingSource: {type: blend_factor, value: src_alpha}
      depthFunction: {type: compare, value: less_equal}
      scissorBox: {type: box, value: [0, 0, 64, 32]}
      diffuseMap/wrapMode: {type: wrap, value: clamp}
`

const basicTOML = `
name = "basic"

[[passes]]
name = "forward"
vertex = "basic.wgsl"
fragment = "basic.wgsl"
macros = [
  {name = "NUM_LIGHTS", property = "lights.count", scope = "root", default = "value", value = 0, min = 0, max = 8},
]

[passes.uniforms]
modelToWorld = {property = "transform.modelToWorldMatrix", scope = "target"}
diffuseColor = {property = "material.diffuseColor"}

[passes.defaults]
diffuseColor = {type = "float4", value = [1, 0.5, 1, 1]}
triangleCulling = {type = "cull", value = "none"}
`

func writeEffect(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "basic.wgsl"), []byte(basicShader), 0o644))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func forward(t *testing.T, e Effect) pass.Pass {
	t.Helper()
	p, ok := e.Pass("forward")
	require.True(t, ok)
	return p
}

func TestLoadYAML(t *testing.T) {
	path := writeEffect(t, "basic.yaml", basicYAML)

	e, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "basic", e.Name())
	assert.Equal(t, path, e.Path())
	assert.Equal(t, []string{path, filepath.Join(filepath.Dir(path), "basic.wgsl")}, e.Files())
	require.Len(t, e.Passes(), 1)

	p := forward(t, e)
	require.Len(t, p.Macros(), 2)
	assert.Equal(t, data.MacroDefaultPropertyExists, p.Macros()[0].Default.Semantic)
	assert.Equal(t, data.MacroBinding{
		Name: "NUM_LIGHTS", PropertyName: "lights.count", Scope: data.ScopeRoot,
		Default: data.MacroDefault{Semantic: data.MacroDefaultValue}, Min: 0, Max: 8,
	}, p.Macros()[1])

	b, ok := p.Attributes().Binding("position")
	require.True(t, ok)
	assert.Equal(t, "geometry[${geometryUuid}].position", b.PropertyName)

	b, ok = p.Uniforms().Binding("diffuseColor")
	require.True(t, ok)
	assert.Equal(t, data.ScopeTarget, b.Scope, "the scope defaults to target")

	col, err := data.Get[[4]float32](p.Uniforms().Defaults, "diffuseColor")
	require.NoError(t, err)
	assert.Equal(t, [4]float32{1, 0.5, 1, 1}, col)

	wrap, err := data.Get[wgpu.AddressMode](p.Uniforms().Defaults, "diffuseMap/wrapMode")
	require.NoError(t, err)
	assert.Equal(t, wgpu.AddressModeClampToEdge, wrap)

	src, err := data.Get[wgpu.BlendFactor](p.States().Defaults, drawcall.StateBlendingSource)
	require.NoError(t, err)
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, src)
	depth, err := data.Get[wgpu.CompareFunction](p.States().Defaults, drawcall.StateDepthFunction)
	require.NoError(t, err)
	assert.Equal(t, wgpu.CompareFunctionLessEqual, depth)
	box, err := data.Get[[4]int32](p.States().Defaults, drawcall.StateScissorBox)
	require.NoError(t, err)
	assert.Equal(t, [4]int32{0, 0, 64, 32}, box)
}

func TestLoadedPassSelectsPrograms(t *testing.T) {
	e, err := Load(writeEffect(t, "basic.yaml", basicYAML))
	require.NoError(t, err)
	p := forward(t, e)

	scopes := data.Scopes{Target: data.NewStore(), Renderer: data.NewStore(), Root: data.NewStore()}
	prog, err := p.SelectProgram(scopes, nil)
	require.NoError(t, err)
	assert.Contains(t, prog.Defines(), "#define SHADOWS 1")
	assert.Contains(t, prog.Defines(), "#define NUM_LIGHTS 0")
	assert.Contains(t, prog.Defines(), "#define HAS_DIFFUSE_MAP\n", "an exists default defines the macro when the property is absent")
	assert.Len(t, prog.Uniforms(), 2)

	scopes.Root.Set("lights.count", 3)
	lit, err := p.SelectProgram(scopes, nil)
	require.NoError(t, err)
	assert.NotSame(t, prog, lit)
	assert.Len(t, lit.Uniforms(), 3)
}

func TestLoadTOML(t *testing.T) {
	e, err := Load(writeEffect(t, "basic.toml", basicTOML))
	require.NoError(t, err)
	p := forward(t, e)

	require.Len(t, p.Macros(), 1)
	assert.Equal(t, 8, p.Macros()[0].Max)
	col, err := data.Get[[4]float32](p.Uniforms().Defaults, "diffuseColor")
	require.NoError(t, err)
	assert.Equal(t, [4]float32{1, 0.5, 1, 1}, col)
	cull, err := data.Get[wgpu.CullMode](p.States().Defaults, drawcall.StateTriangleCulling)
	require.NoError(t, err)
	assert.Equal(t, wgpu.CullModeNone, cull)
}

func TestInvalidEffects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no name", "passes: [{name: p, vertexSource: x, fragmentSource: x}]", "missing name"},
		{"no passes", "name: e", "no passes"},
		{"unknown field", "name: e\nbogus: 1", "bogus"},
		{"no source", "name: e\npasses: [{name: p}]", "vertex"},
		{"bad scope", "name: e\npasses: [{name: p, vertexSource: x, fragmentSource: x, uniforms: {a: {property: b, scope: world}}}]", "world"},
		{"bad macro default", "name: e\npasses: [{name: p, vertexSource: x, fragmentSource: x, macros: [{name: M, property: m, default: maybe}]}]", "maybe"},
		{"inverted range", "name: e\npasses: [{name: p, vertexSource: x, fragmentSource: x, macros: [{name: M, property: m, min: 3, max: 1}]}]", "above max"},
		{"bad default type", "name: e\npasses: [{name: p, vertexSource: x, fragmentSource: x, defaults: {a: {type: quaternion, value: 1}}}]", "quaternion"},
		{"bad arity", "name: e\npasses: [{name: p, vertexSource: x, fragmentSource: x, defaults: {a: {type: float3, value: [1, 2]}}}]", "defaults.a"},
		{"bad enum", "name: e\npasses: [{name: p, vertexSource: x, fragmentSource: x, defaults: {a: {type: compare, value: sometimes}}}]", "sometimes"},
		{"texture path without loader", "name: e\npasses: [{name: p, vertexSource: x, fragmentSource: x, defaults: {a: {type: texture, value: a.png}}}]", "texture loader"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body), FormatYAML)
			require.ErrorIs(t, err, ErrInvalidEffect)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	_, err := FormatOf("effect.json")
	assert.ErrorIs(t, err, ErrInvalidEffect)
}

func TestDefaultValueTypes(t *testing.T) {
	l := &loader{}
	tests := []struct {
		typ   string
		value any
		want  any
	}{
		{"float", 2, float32(2)},
		{"float2", []any{1, 2.5}, [2]float32{1, 2.5}},
		{"int", int64(-3), int32(-3)},
		{"int3", []any{1, 2, 3}, [3]int32{1, 2, 3}},
		{"uint", 7, uint32(7)},
		{"bool", true, true},
		{"bool2", []any{true, false}, [2]bool{true, false}},
		{"texture", 4, uint32(4)},
		{"stencil_op", "replace", wgpu.StencilOperationReplace},
		{"filter", "nearest", wgpu.FilterModeNearest},
		{"mip_filter", "linear", wgpu.MipmapFilterModeLinear},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got, err := l.value(defaultFile{Type: tt.typ, Value: tt.value})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := l.value(defaultFile{Type: "int", Value: 1.5})
	assert.Error(t, err)
	_, err = l.value(defaultFile{Type: "uint", Value: -1})
	assert.Error(t, err)
}

func TestTextureLoader(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 2))))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "white.png"), buf.Bytes(), 0o644))

	var loaded []common.Image
	body := "name: e\npasses: [{name: p, vertexSource: x, fragmentSource: x, defaults: {diffuseMap: {type: texture, value: white.png}}}]"
	e, err := Parse([]byte(body), FormatYAML, WithBaseDir(dir), WithTextureLoader(func(img common.Image) (uint32, error) {
		loaded = append(loaded, img)
		return 11, nil
	}))
	require.NoError(t, err)

	require.Len(t, loaded, 1)
	assert.Equal(t, uint32(4), loaded[0].Width)
	p, _ := e.Pass("p")
	id, err := data.Get[uint32](p.Uniforms().Defaults, "diffuseMap")
	require.NoError(t, err)
	assert.Equal(t, uint32(11), id)
}

func TestPassOptionsApplyToEveryPass(t *testing.T) {
	var compiled int
	body := "name: e\npasses:\n  - {name: a, vertexSource: x, fragmentSource: x}\n  - {name: b, vertexSource: x, fragmentSource: x}"
	e, err := Parse([]byte(body), FormatYAML, WithPassOptions(pass.WithOnCompile(func(program.Program) error {
		compiled++
		return nil
	})))
	require.NoError(t, err)

	scopes := data.Scopes{Target: data.NewStore(), Renderer: data.NewStore(), Root: data.NewStore()}
	for _, p := range e.Passes() {
		_, err := p.SelectProgram(scopes, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, compiled)
}

func TestWatcherReloadsOnShaderChange(t *testing.T) {
	path := writeEffect(t, "basic.yaml", basicYAML)

	var reloaded []Effect
	w, err := NewWatcher(func(e Effect) { reloaded = append(reloaded, e) })
	require.NoError(t, err)
	defer w.Close()

	first, err := w.Watch(path)
	require.NoError(t, err)
	assert.Equal(t, 0, w.Drain())

	shader := filepath.Join(filepath.Dir(path), "basic.wgsl")
	require.NoError(t, os.WriteFile(shader, []byte(basicShader+"\n// edited\n"), 0o644))

	require.Eventually(t, func() bool { return w.Drain() > 0 }, 5*time.Second, 20*time.Millisecond)
	require.NotEmpty(t, reloaded)
	current, ok := w.Effect(path)
	require.True(t, ok)
	assert.NotSame(t, first, current)
	assert.Same(t, reloaded[len(reloaded)-1], current)
}

func TestWatcherKeepsEffectOnFailedReload(t *testing.T) {
	path := writeEffect(t, "basic.yaml", basicYAML)

	w, err := NewWatcher(nil)
	require.NoError(t, err)
	defer w.Close()

	first, err := w.Watch(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("name: [broken"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, w.Drain())

	current, _ := w.Effect(path)
	assert.Same(t, first, current)
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := NewWatcher(nil)
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NotPanics(t, func() { assert.NoError(t, w.Close()) })
}
