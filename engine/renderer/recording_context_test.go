package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestRecordingContextRecordsInOrder(t *testing.T) {
	ctx := NewRecordingContext()
	m := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

	ctx.SetProgram(3)
	ctx.SetUniformMatrix4x4(UniformLocation{Binding: 1, Element: -1}, &m)
	ctx.SetBlendingMode(wgpu.BlendFactorSrcAlpha, wgpu.BlendFactorOneMinusSrcAlpha)
	ctx.DrawTriangles(7, 0, 2)

	assert.Equal(t, []string{"SetProgram", "SetUniformMatrix4x4", "SetBlendingMode", "DrawTriangles"}, ctx.Methods())
	assert.Equal(t, []any{wgpu.BlendFactorSrcAlpha, wgpu.BlendFactorOneMinusSrcAlpha}, ctx.Find("SetBlendingMode")[0].Args)

	m[0] = 5
	assert.Equal(t, float32(1), ctx.Calls[1].Args[1].([16]float32)[0], "matrices are copied when recorded")

	ctx.Reset()
	assert.Empty(t, ctx.Calls)
	assert.Empty(t, ctx.Find("SetProgram"))
}
