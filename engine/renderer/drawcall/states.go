package drawcall

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/cogentcore/webgpu/wgpu"
)

// Fixed-function state binding names.
const (
	StatePriority              = "priority"
	StateZSorted               = "zSorted"
	StateBlendingSource        = "blendingSource"
	StateBlendingDestination   = "blendingDestination"
	StateColorMask             = "colorMask"
	StateDepthMask             = "depthMask"
	StateDepthFunction         = "depthFunction"
	StateTriangleCulling       = "triangleCulling"
	StateStencilFunction       = "stencilFunction"
	StateStencilReference      = "stencilReference"
	StateStencilMask           = "stencilMask"
	StateStencilFailOperation  = "stencilFailOperation"
	StateStencilZFailOperation = "stencilZFailOperation"
	StateStencilZPassOperation = "stencilZPassOperation"
	StateScissorTest           = "scissorTest"
	StateScissorBox            = "scissorBox"
)

// Sampler state suffixes. The sub-binding of a sampler named "diffuseMap" is "diffuseMap/wrapMode".
const (
	SamplerWrapMode      = "wrapMode"
	SamplerTextureFilter = "textureFilter"
	SamplerMipFilter     = "mipFilter"
)

// Render priorities. Draw calls with a higher priority render first.
const (
	PriorityFirst       float32 = 4000
	PriorityBackground  float32 = 3000
	PriorityOpaque      float32 = 2000
	PriorityTransparent float32 = 1000
	PriorityLast        float32 = 0
)

const (
	statePriority = iota
	stateZSorted
	stateBlendingSource
	stateBlendingDestination
	stateColorMask
	stateDepthMask
	stateDepthFunction
	stateTriangleCulling
	stateStencilFunction
	stateStencilReference
	stateStencilMask
	stateStencilFailOperation
	stateStencilZFailOperation
	stateStencilZPassOperation
	stateScissorTest
	stateScissorBox
	numStates
)

// stateNames is indexed by the state constants above.
var stateNames = [numStates]string{
	StatePriority,
	StateZSorted,
	StateBlendingSource,
	StateBlendingDestination,
	StateColorMask,
	StateDepthMask,
	StateDepthFunction,
	StateTriangleCulling,
	StateStencilFunction,
	StateStencilReference,
	StateStencilMask,
	StateStencilFailOperation,
	StateStencilZFailOperation,
	StateStencilZPassOperation,
	StateScissorTest,
	StateScissorBox,
}

// StateNames returns every fixed-function state binding name in resolution order.
//
// Returns:
//   - []string: the state names
func StateNames() []string {
	out := make([]string, numStates)
	copy(out, stateNames[:])
	return out
}

// DefaultStates creates a store holding the value used for every state that is neither bound nor
// given a default by the state binding map: opaque priority, no z-sorting, replace blending, color
// and depth writes with a less-than depth test, back-face culling, an always-passing stencil test
// and no scissor.
//
// Returns:
//   - data.Store: the default state store
func DefaultStates() data.Store {
	return data.NewStore(data.WithName("states"), data.WithProperties(map[string]any{
		StatePriority:              PriorityOpaque,
		StateZSorted:               false,
		StateBlendingSource:        wgpu.BlendFactorOne,
		StateBlendingDestination:   wgpu.BlendFactorZero,
		StateColorMask:             true,
		StateDepthMask:             true,
		StateDepthFunction:         wgpu.CompareFunctionLess,
		StateTriangleCulling:       wgpu.CullModeBack,
		StateStencilFunction:       wgpu.CompareFunctionAlways,
		StateStencilReference:      int32(0),
		StateStencilMask:           uint32(0xFFFFFFFF),
		StateStencilFailOperation:  wgpu.StencilOperationKeep,
		StateStencilZFailOperation: wgpu.StencilOperationKeep,
		StateStencilZPassOperation: wgpu.StencilOperationKeep,
		StateScissorTest:           false,
		StateScissorBox:            [4]int32{0, 0, -1, -1},
	}))
}

// samplerStateName returns the binding name of one sampler sub-state.
func samplerStateName(sampler, state string) string {
	return sampler + "/" + state
}
