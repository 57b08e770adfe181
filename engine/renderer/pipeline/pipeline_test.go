package pipeline

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStateIsOpaque(t *testing.T) {
	s := DefaultState()

	assert.Nil(t, s.BlendState())
	assert.Equal(t, wgpu.ColorWriteMaskAll, s.WriteMask())

	ds := s.DepthStencil(wgpu.TextureFormatDepth24PlusStencil8)
	assert.Equal(t, wgpu.TextureFormatDepth24PlusStencil8, ds.Format)
	assert.True(t, ds.DepthWriteEnabled)
	assert.Equal(t, wgpu.CompareFunctionLess, ds.DepthCompare)
	assert.Equal(t, wgpu.CompareFunctionAlways, ds.StencilFront.Compare)
	assert.Equal(t, uint32(0), ds.StencilWriteMask)
}

func TestStateBlendAndMasks(t *testing.T) {
	s := DefaultState()
	s.BlendSrc = wgpu.BlendFactorSrcAlpha
	s.BlendDst = wgpu.BlendFactorOneMinusSrcAlpha
	s.ColorMask = false
	s.StencilPass = wgpu.StencilOperationReplace

	blend := s.BlendState()
	require.NotNil(t, blend)
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, blend.Color.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, blend.Alpha.DstFactor)
	assert.Equal(t, wgpu.ColorWriteMaskNone, s.WriteMask())

	ds := s.DepthStencil(wgpu.TextureFormatDepth24PlusStencil8)
	assert.Equal(t, wgpu.StencilOperationReplace, ds.StencilBack.PassOp)
	assert.Equal(t, uint32(0xFFFFFFFF), ds.StencilWriteMask)
}

func TestNewPipelineOptions(t *testing.T) {
	p := NewPipeline(DefaultState())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())

	p = NewPipeline(DefaultState(),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithFrontFace(wgpu.FrontFaceCW),
		WithDepthBias(2, 1.5),
	)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, int32(2), p.DepthBias())
	assert.Equal(t, float32(1.5), p.DepthBiasSlopeScale())
	assert.Nil(t, p.RenderPipeline())
}

func TestCacheCreatesOncePerState(t *testing.T) {
	c := NewCache(WithFrontFace(wgpu.FrontFaceCW))
	created := 0
	create := func(Pipeline) error {
		created++
		return nil
	}

	a := DefaultState()
	a.Program = 1
	b := a
	b.CullMode = wgpu.CullModeNone

	p1, err := c.Get(a, create)
	require.NoError(t, err)
	p2, err := c.Get(a, create)
	require.NoError(t, err)
	p3, err := c.Get(b, create)
	require.NoError(t, err)

	assert.Same(t, p1, p2)
	assert.NotSame(t, p1, p3)
	assert.Equal(t, 2, created)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, wgpu.FrontFaceCW, p1.FrontFace())
	assert.Equal(t, b, p3.State())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	c := NewCache()
	boom := errors.New("boom")

	_, err := c.Get(DefaultState(), func(Pipeline) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	_, err = c.Get(DefaultState(), func(Pipeline) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}
