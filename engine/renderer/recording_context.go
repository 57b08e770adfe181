package renderer

import "github.com/cogentcore/webgpu/wgpu"

// Call is one recorded context call.
type Call struct {
	Method string
	Args   []any
}

// RecordingContext is a Context that records every call in order instead of issuing it to a GPU.
// It backs headless rendering and tests.
type RecordingContext struct {
	Calls []Call
}

var _ Context = &RecordingContext{}

// NewRecordingContext creates an empty recording context.
//
// Returns:
//   - *RecordingContext: the new context
func NewRecordingContext() *RecordingContext {
	return &RecordingContext{}
}

// Reset drops every recorded call.
func (r *RecordingContext) Reset() {
	r.Calls = r.Calls[:0]
}

// Methods returns the method names of the recorded calls, in order.
//
// Returns:
//   - []string: the method names
func (r *RecordingContext) Methods() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Method
	}
	return out
}

// Find returns the recorded calls of one method, in order.
//
// Parameters:
//   - method: the method name
//
// Returns:
//   - []Call: the matching calls
func (r *RecordingContext) Find(method string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (r *RecordingContext) record(method string, args ...any) {
	r.Calls = append(r.Calls, Call{Method: method, Args: args})
}

func (r *RecordingContext) SetProgram(id uint32) {
	r.record("SetProgram", id)
}

func (r *RecordingContext) SetRenderTarget(id uint32) {
	r.record("SetRenderTarget", id)
}

func (r *RecordingContext) SetUniformFloat1(loc UniformLocation, v float32) {
	r.record("SetUniformFloat1", loc, v)
}

func (r *RecordingContext) SetUniformFloat2(loc UniformLocation, v [2]float32) {
	r.record("SetUniformFloat2", loc, v)
}

func (r *RecordingContext) SetUniformFloat3(loc UniformLocation, v [3]float32) {
	r.record("SetUniformFloat3", loc, v)
}

func (r *RecordingContext) SetUniformFloat4(loc UniformLocation, v [4]float32) {
	r.record("SetUniformFloat4", loc, v)
}

func (r *RecordingContext) SetUniformMatrix4x4(loc UniformLocation, m *[16]float32) {
	r.record("SetUniformMatrix4x4", loc, *m)
}

func (r *RecordingContext) SetUniformInt1(loc UniformLocation, v int32) {
	r.record("SetUniformInt1", loc, v)
}

func (r *RecordingContext) SetUniformInt2(loc UniformLocation, v [2]int32) {
	r.record("SetUniformInt2", loc, v)
}

func (r *RecordingContext) SetUniformInt3(loc UniformLocation, v [3]int32) {
	r.record("SetUniformInt3", loc, v)
}

func (r *RecordingContext) SetUniformInt4(loc UniformLocation, v [4]int32) {
	r.record("SetUniformInt4", loc, v)
}

func (r *RecordingContext) SetTextureAt(position uint32, texture uint32, loc UniformLocation) {
	r.record("SetTextureAt", position, texture, loc)
}

func (r *RecordingContext) SetSamplerStateAt(position uint32, state SamplerState) {
	r.record("SetSamplerStateAt", position, state)
}

func (r *RecordingContext) SetVertexBufferAt(position uint32, location int, attr VertexAttribute) {
	r.record("SetVertexBufferAt", position, location, attr)
}

func (r *RecordingContext) SetColorMask(enabled bool) {
	r.record("SetColorMask", enabled)
}

func (r *RecordingContext) SetBlendingMode(src, dst wgpu.BlendFactor) {
	r.record("SetBlendingMode", src, dst)
}

func (r *RecordingContext) SetDepthTest(mask bool, fn wgpu.CompareFunction) {
	r.record("SetDepthTest", mask, fn)
}

func (r *RecordingContext) SetStencilTest(fn wgpu.CompareFunction, ref int32, mask uint32, fail, zfail, zpass wgpu.StencilOperation) {
	r.record("SetStencilTest", fn, ref, mask, fail, zfail, zpass)
}

func (r *RecordingContext) SetScissorTest(enabled bool, box [4]int32) {
	r.record("SetScissorTest", enabled, box)
}

func (r *RecordingContext) SetTriangleCulling(mode wgpu.CullMode) {
	r.record("SetTriangleCulling", mode)
}

func (r *RecordingContext) DrawTriangles(indexBuffer, firstIndex, triangleCount uint32) {
	r.record("DrawTriangles", indexBuffer, firstIndex, triangleCount)
}
