package renderer

import "github.com/cogentcore/webgpu/wgpu"

// UniformLocation addresses one uniform value of the bound program.
type UniformLocation struct {
	// Group is the bind group index.
	Group int

	// Binding is the binding index within the group.
	Binding int

	// Element is the array element written, or -1 for non-array uniforms.
	Element int
}

// SamplerState holds the sampling modes of one texture slot. A mode whose Has flag is false was
// left unset by the draw call and falls back to the context's own default.
type SamplerState struct {
	WrapMode      wgpu.AddressMode
	HasWrapMode   bool
	TextureFilter wgpu.FilterMode
	HasFilter     bool
	MipFilter     wgpu.MipmapFilterMode
	HasMipFilter  bool
}

// VertexAttribute describes one vertex attribute stream as stored in geometry properties.
type VertexAttribute struct {
	// Buffer is the id of the vertex buffer holding the attribute.
	Buffer uint32

	// Size is the number of float32 components of the attribute.
	Size uint32

	// Stride is the vertex size in float32 components.
	Stride uint32

	// Offset is the component offset of the attribute within one vertex.
	Offset uint32
}

// RenderTarget is an offscreen texture a draw call can render into.
type RenderTarget interface {
	// ID returns the texture id of the render target.
	//
	// Returns:
	//   - uint32: the texture id
	ID() uint32
}

// Context is the GPU context a resolved draw call issues its state and draw commands to. Calls
// apply immediately to the context's current state, in the order they are made.
type Context interface {
	// SetProgram selects the program subsequent uniform and draw calls apply to.
	//
	// Parameters:
	//   - id: the program id
	SetProgram(id uint32)

	// SetRenderTarget redirects output to an offscreen texture until the end of the frame.
	//
	// Parameters:
	//   - id: the render target texture id
	SetRenderTarget(id uint32)

	// SetUniformFloat1 uploads one float.
	//
	// Parameters:
	//   - loc: the uniform location
	//   - v: the value
	SetUniformFloat1(loc UniformLocation, v float32)

	// SetUniformFloat2 uploads a 2-component float vector.
	//
	// Parameters:
	//   - loc: the uniform location
	//   - v: the value
	SetUniformFloat2(loc UniformLocation, v [2]float32)

	// SetUniformFloat3 uploads a 3-component float vector.
	//
	// Parameters:
	//   - loc: the uniform location
	//   - v: the value
	SetUniformFloat3(loc UniformLocation, v [3]float32)

	// SetUniformFloat4 uploads a 4-component float vector.
	//
	// Parameters:
	//   - loc: the uniform location
	//   - v: the value
	SetUniformFloat4(loc UniformLocation, v [4]float32)

	// SetUniformMatrix4x4 uploads a column-major 4x4 matrix.
	//
	// Parameters:
	//   - loc: the uniform location
	//   - m: the matrix
	SetUniformMatrix4x4(loc UniformLocation, m *[16]float32)

	// SetUniformInt1 uploads one integer.
	//
	// Parameters:
	//   - loc: the uniform location
	//   - v: the value
	SetUniformInt1(loc UniformLocation, v int32)

	// SetUniformInt2 uploads a 2-component integer vector.
	//
	// Parameters:
	//   - loc: the uniform location
	//   - v: the value
	SetUniformInt2(loc UniformLocation, v [2]int32)

	// SetUniformInt3 uploads a 3-component integer vector.
	//
	// Parameters:
	//   - loc: the uniform location
	//   - v: the value
	SetUniformInt3(loc UniformLocation, v [3]int32)

	// SetUniformInt4 uploads a 4-component integer vector.
	//
	// Parameters:
	//   - loc: the uniform location
	//   - v: the value
	SetUniformInt4(loc UniformLocation, v [4]int32)

	// SetTextureAt binds a texture to a texture slot.
	//
	// Parameters:
	//   - position: the texture slot
	//   - texture: the texture id
	//   - loc: the sampler uniform location
	SetTextureAt(position uint32, texture uint32, loc UniformLocation)

	// SetSamplerStateAt sets the sampling modes of a texture slot.
	//
	// Parameters:
	//   - position: the texture slot
	//   - state: the sampling modes
	SetSamplerStateAt(position uint32, state SamplerState)

	// SetVertexBufferAt binds a vertex attribute stream.
	//
	// Parameters:
	//   - position: the vertex buffer slot
	//   - location: the shader location of the attribute
	//   - attr: the attribute stream
	SetVertexBufferAt(position uint32, location int, attr VertexAttribute)

	// SetColorMask enables or disables writes to the color attachment.
	//
	// Parameters:
	//   - enabled: true to write color
	SetColorMask(enabled bool)

	// SetBlendingMode sets the blend factors applied to the color attachment.
	//
	// Parameters:
	//   - src: the source factor
	//   - dst: the destination factor
	SetBlendingMode(src, dst wgpu.BlendFactor)

	// SetDepthTest sets depth writes and the depth comparison.
	//
	// Parameters:
	//   - mask: true to write depth
	//   - fn: the depth comparison
	SetDepthTest(mask bool, fn wgpu.CompareFunction)

	// SetStencilTest sets the stencil comparison and operations.
	//
	// Parameters:
	//   - fn: the stencil comparison
	//   - ref: the stencil reference value
	//   - mask: the stencil read and write mask
	//   - fail: the operation when the stencil test fails
	//   - zfail: the operation when the depth test fails
	//   - zpass: the operation when both tests pass
	SetStencilTest(fn wgpu.CompareFunction, ref int32, mask uint32, fail, zfail, zpass wgpu.StencilOperation)

	// SetScissorTest enables or disables the scissor rectangle.
	//
	// Parameters:
	//   - enabled: true to clip to box
	//   - box: the rectangle as x, y, width, height; a negative size means the full target
	SetScissorTest(enabled bool, box [4]int32)

	// SetTriangleCulling selects which triangle faces are culled.
	//
	// Parameters:
	//   - mode: the cull mode
	SetTriangleCulling(mode wgpu.CullMode)

	// DrawTriangles draws indexed triangles with the current state.
	//
	// Parameters:
	//   - indexBuffer: the index buffer id
	//   - firstIndex: the first index read
	//   - triangleCount: the number of triangles
	DrawTriangles(indexBuffer, firstIndex, triangleCount uint32)
}
