package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/program"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contextShader = `
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) uv: vec2<f32>,
}

@group(0) @binding(0) var<uniform> modelToWorld: mat4x4<f32>;
@group(0) @binding(1) var<uniform> tint: vec3<f32>;
@group(1) @binding(0) var<uniform> lightColors: array<vec3<f32>, 3>;
@group(1) @binding(1) var<uniform> lightCount: i32;
@group(2) @binding(0) var diffuseMap: texture_2d<f32>;
@group(2) @binding(1) var diffuseSampler: sampler;

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return modelToWorld * vec4<f32>(in.position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(tint, 1.0);
}
`

func TestLayoutBlocks(t *testing.T) {
	p, err := program.NewProgram("ctx", contextShader, contextShader)
	require.NoError(t, err)

	blocks := layoutBlocks(p.Uniforms())

	assert.Equal(t, blockLayout{size: 64, stride: 64}, blocks[blockKey{0, 0}])
	assert.Equal(t, blockLayout{size: 16, stride: 12}, blocks[blockKey{0, 1}])
	assert.Equal(t, blockLayout{size: 48, stride: 16}, blocks[blockKey{1, 0}])
	assert.Equal(t, blockLayout{size: 16, stride: 4}, blocks[blockKey{1, 1}])
	assert.NotContains(t, blocks, blockKey{2, 0}, "textures have no uniform buffer")

	assert.Equal(t, []int{0, 1, 2}, usedGroups(p.Uniforms()))
}

func TestUniformStaging(t *testing.T) {
	p, err := program.NewProgram("ctx", contextShader, contextShader)
	require.NoError(t, err)

	ctx := newWGPUContext(nil, nil, pipeline.NewCache(), wgpu.TextureFormatBGRA8Unorm)
	ctx.programs[p.ID()] = &gpuProgram{program: p, blocks: layoutBlocks(p.Uniforms())}

	ctx.SetProgram(p.ID())
	require.NoError(t, ctx.err)

	ctx.SetUniformFloat3(UniformLocation{Group: 1, Binding: 0, Element: 2}, [3]float32{1, 2, 3})
	ctx.SetUniformInt1(UniformLocation{Group: 1, Binding: 1, Element: -1}, -4)
	ctx.SetUniformFloat1(UniformLocation{Group: 5, Binding: 0, Element: -1}, 9)

	lights := ctx.uniforms[blockKey{1, 0}]
	require.Len(t, lights, 48)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(lights[32:])))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(lights[40:])))
	assert.Equal(t, int32(-4), int32(binary.LittleEndian.Uint32(ctx.uniforms[blockKey{1, 1}])))
	assert.NotContains(t, ctx.uniforms, blockKey{5, 0}, "writes to undeclared bindings are dropped")

	ctx.SetProgram(p.ID())
	assert.Empty(t, ctx.uniforms, "selecting a program starts a new draw")
}

func TestSetProgramUnknown(t *testing.T) {
	ctx := newWGPUContext(nil, nil, pipeline.NewCache(), wgpu.TextureFormatBGRA8Unorm)
	ctx.SetProgram(42)
	assert.True(t, errors.Is(ctx.err, ErrUnknownResource))

	// Without a program, uniform writes and draws are ignored.
	ctx.SetUniformFloat1(UniformLocation{Element: -1}, 1)
	ctx.DrawTriangles(1, 0, 1)
	assert.Empty(t, ctx.uniforms)
}

func TestFixedFunctionStateTracking(t *testing.T) {
	ctx := newWGPUContext(nil, nil, pipeline.NewCache(), wgpu.TextureFormatBGRA8Unorm)
	assert.Equal(t, pipeline.DefaultState(), ctx.state)

	ctx.SetColorMask(false)
	ctx.SetBlendingMode(wgpu.BlendFactorSrcAlpha, wgpu.BlendFactorOneMinusSrcAlpha)
	ctx.SetDepthTest(false, wgpu.CompareFunctionLessEqual)
	ctx.SetStencilTest(wgpu.CompareFunctionEqual, 3, 0xFF, wgpu.StencilOperationKeep, wgpu.StencilOperationKeep, wgpu.StencilOperationReplace)
	ctx.SetTriangleCulling(wgpu.CullModeNone)
	ctx.SetScissorTest(true, [4]int32{1, 2, 3, 4})

	want := pipeline.DefaultState()
	want.ColorMask = false
	want.BlendSrc, want.BlendDst = wgpu.BlendFactorSrcAlpha, wgpu.BlendFactorOneMinusSrcAlpha
	want.DepthWrite, want.DepthCompare = false, wgpu.CompareFunctionLessEqual
	want.StencilCompare, want.StencilReadMask = wgpu.CompareFunctionEqual, 0xFF
	want.StencilPass = wgpu.StencilOperationReplace
	want.CullMode = wgpu.CullModeNone

	assert.Equal(t, want, ctx.state)
	assert.Equal(t, uint32(3), ctx.stencilRef)
	assert.True(t, ctx.scissorOn)
}

func TestVertexLayouts(t *testing.T) {
	slots := map[uint32]vertexSlot{
		3: {location: 1, attr: VertexAttribute{Buffer: 7, Size: 2, Stride: 5, Offset: 3}},
		2: {location: 0, attr: VertexAttribute{Buffer: 7, Size: 3, Stride: 5, Offset: 0}},
	}
	formats := map[int]wgpu.VertexFormat{0: wgpu.VertexFormatFloat32x3}

	positions := sortedPositions(slots)
	assert.Equal(t, []uint32{2, 3}, positions)

	layouts, key := vertexLayouts(positions, slots, formats)
	require.Len(t, layouts, 2)
	assert.Equal(t, uint64(20), layouts[0].ArrayStride)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[0].Format)
	assert.Equal(t, uint64(12), layouts[1].Attributes[0].Offset)
	assert.Equal(t, uint32(1), layouts[1].Attributes[0].ShaderLocation)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layouts[1].Attributes[0].Format, "format falls back to the attribute size")

	_, same := vertexLayouts(positions, slots, formats)
	assert.Equal(t, key, same)
}

func TestScissorRect(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		box        [4]int32
		x, y, w, h uint32
	}{
		{"disabled", false, [4]int32{5, 5, 5, 5}, 0, 0, 800, 600},
		{"full box", true, [4]int32{0, 0, -1, -1}, 0, 0, 800, 600},
		{"inside", true, [4]int32{10, 20, 100, 50}, 10, 20, 100, 50},
		{"clipped", true, [4]int32{700, -10, 500, 1000}, 700, 0, 100, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := scissorRect(tt.enabled, tt.box, 800, 600)
			assert.Equal(t, [4]uint32{tt.x, tt.y, tt.w, tt.h}, [4]uint32{x, y, w, h})
		})
	}
}
