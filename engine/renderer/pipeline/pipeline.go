package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// State is the fixed-function state baked into a render pipeline. It is comparable and is used as the
// pipeline cache key, so two draw calls with equal State share one pipeline.
type State struct {
	// Program is the id of the program the pipeline runs.
	Program uint32

	// VertexLayout identifies the vertex buffer layout the pipeline was created for.
	VertexLayout string

	// ColorFormat and SampleCount describe the render target the pipeline draws into.
	ColorFormat wgpu.TextureFormat
	SampleCount uint32

	ColorMask          bool
	BlendSrc, BlendDst wgpu.BlendFactor

	DepthWrite   bool
	DepthCompare wgpu.CompareFunction

	StencilCompare   wgpu.CompareFunction
	StencilReadMask  uint32
	StencilFail      wgpu.StencilOperation
	StencilDepthFail wgpu.StencilOperation
	StencilPass      wgpu.StencilOperation

	CullMode wgpu.CullMode
}

// DefaultState returns the state of a draw call that sets no fixed-function state: opaque blending,
// color writes on, depth writes on with a less-than test, no stencil test and back-face culling.
//
// Returns:
//   - State: the default state
func DefaultState() State {
	return State{
		SampleCount:      1,
		ColorMask:        true,
		BlendSrc:         wgpu.BlendFactorOne,
		BlendDst:         wgpu.BlendFactorZero,
		DepthWrite:       true,
		DepthCompare:     wgpu.CompareFunctionLess,
		StencilCompare:   wgpu.CompareFunctionAlways,
		StencilReadMask:  0xFFFFFFFF,
		StencilFail:      wgpu.StencilOperationKeep,
		StencilDepthFail: wgpu.StencilOperationKeep,
		StencilPass:      wgpu.StencilOperationKeep,
		CullMode:         wgpu.CullModeBack,
	}
}

// String returns a readable form of the state for labels and logs.
func (s State) String() string {
	return fmt.Sprintf("program=%d layout=%q blend=%d/%d depth=%t/%d stencil=%d cull=%d",
		s.Program, s.VertexLayout, s.BlendSrc, s.BlendDst, s.DepthWrite, s.DepthCompare, s.StencilCompare, s.CullMode)
}

// BlendState returns the color target blend state, or nil when the factors describe a plain
// overwrite (One, Zero).
//
// Returns:
//   - *wgpu.BlendState: the blend state, or nil if blending is disabled
func (s State) BlendState() *wgpu.BlendState {
	if s.BlendSrc == wgpu.BlendFactorOne && s.BlendDst == wgpu.BlendFactorZero {
		return nil
	}
	component := wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: s.BlendSrc,
		DstFactor: s.BlendDst,
	}
	return &wgpu.BlendState{Color: component, Alpha: component}
}

// WriteMask returns the color write mask of the state.
//
// Returns:
//   - wgpu.ColorWriteMask: ColorWriteMaskAll when color writes are on, ColorWriteMaskNone otherwise
func (s State) WriteMask() wgpu.ColorWriteMask {
	if s.ColorMask {
		return wgpu.ColorWriteMaskAll
	}
	return wgpu.ColorWriteMaskNone
}

// DepthStencil returns the depth-stencil state of the pipeline for the given attachment format.
// Both faces use the same stencil operations. Stencil writes are enabled only when an operation
// other than Keep is configured.
//
// Parameters:
//   - format: the depth-stencil attachment format
//
// Returns:
//   - *wgpu.DepthStencilState: the depth-stencil state
func (s State) DepthStencil(format wgpu.TextureFormat) *wgpu.DepthStencilState {
	face := wgpu.StencilFaceState{
		Compare:     s.StencilCompare,
		FailOp:      s.StencilFail,
		DepthFailOp: s.StencilDepthFail,
		PassOp:      s.StencilPass,
	}
	var writeMask uint32
	if s.StencilFail != wgpu.StencilOperationKeep ||
		s.StencilDepthFail != wgpu.StencilOperationKeep ||
		s.StencilPass != wgpu.StencilOperationKeep {
		writeMask = 0xFFFFFFFF
	}
	return &wgpu.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: s.DepthWrite,
		DepthCompare:      s.DepthCompare,
		StencilFront:      face,
		StencilBack:       face,
		StencilReadMask:   s.StencilReadMask,
		StencilWriteMask:  writeMask,
	}
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	state State

	renderPipeline *wgpu.RenderPipeline

	depthBias           int32
	depthBiasSlopeScale float32
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
}

// Pipeline wraps one WebGPU render pipeline created for a fixed-function State. The options that
// are not part of State (topology, winding, depth bias) are shared by every pipeline of a Cache.
type Pipeline interface {
	// State returns the state the pipeline was created for.
	//
	// Returns:
	//   - State: the pipeline state
	State() State

	// RenderPipeline returns the underlying render pipeline, or nil if it has not been created yet.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline sets the underlying render pipeline.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Topology returns the primitive topology of the pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order of the pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the winding order
	FrontFace() wgpu.FrontFace

	// DepthBias returns the constant depth bias of the pipeline.
	//
	// Returns:
	//   - int32: the depth bias
	DepthBias() int32

	// DepthBiasSlopeScale returns the slope-scaled depth bias of the pipeline.
	//
	// Returns:
	//   - float32: the depth bias slope scale
	DepthBiasSlopeScale() float32

	// Release releases the underlying render pipeline, if any.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline for the given state. The render pipeline itself is created by the
// GPU context and attached with SetRenderPipeline.
//
// Parameters:
//   - state: the fixed-function state
//   - options: functional options configuring the pipeline
//
// Returns:
//   - Pipeline: the new pipeline
func NewPipeline(state State, options ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		state:     state,
		topology:  wgpu.PrimitiveTopologyTriangleList,
		frontFace: wgpu.FrontFaceCCW,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *pipeline) State() State {
	return p.state
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) DepthBias() int32 {
	return p.depthBias
}

func (p *pipeline) DepthBiasSlopeScale() float32 {
	return p.depthBiasSlopeScale
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
