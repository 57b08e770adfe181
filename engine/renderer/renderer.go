package renderer

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-bind/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	context     *wgpuContext
	pipelines   *pipeline.Cache

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pipelineOptions      []pipeline.PipelineBuilderOption
}

// Renderer owns the GPU device and the resources draw calls refer to by id: programs, vertex and
// index buffers, textures and render targets. Each frame hands a Context to a draw function which
// renders the frame's draw calls into it.
type Renderer interface {
	// Resize reconfigures the surface for a new window size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPresentMode changes the surface present mode.
	//
	// Parameters:
	//   - mode: the present mode
	SetPresentMode(mode PresentMode)

	// RegisterProgram creates the shader modules of a program so draw calls can select it by id.
	// Registering the same program twice is a no-op.
	//
	// Parameters:
	//   - p: the program
	//
	// Returns:
	//   - error: an error if a shader module fails to compile
	RegisterProgram(p program.Program) error

	// CreateVertexBuffer uploads interleaved float32 vertex data.
	//
	// Parameters:
	//   - data: the vertex data
	//
	// Returns:
	//   - uint32: the buffer id to store in a VertexAttribute
	//   - error: an error if the buffer could not be created
	CreateVertexBuffer(data []float32) (uint32, error)

	// CreateIndexBuffer uploads 32-bit triangle indices.
	//
	// Parameters:
	//   - data: the indices
	//
	// Returns:
	//   - uint32: the buffer id to store as a geometry's indices property
	//   - error: an error if the buffer could not be created
	CreateIndexBuffer(data []uint32) (uint32, error)

	// CreateTexture uploads an RGBA8 texture.
	//
	// Parameters:
	//   - width: the texture width in pixels
	//   - height: the texture height in pixels
	//   - pixels: the texel data, 4 bytes per texel
	//
	// Returns:
	//   - uint32: the texture id to store as a sampler property
	//   - error: an error if the texture could not be created
	CreateTexture(width, height uint32, pixels []byte) (uint32, error)

	// CreateRenderTarget creates an offscreen color and depth-stencil target. Its id is also a
	// texture id, so later draw calls can sample what was rendered into it.
	//
	// Parameters:
	//   - width: the target width in pixels
	//   - height: the target height in pixels
	//
	// Returns:
	//   - RenderTarget: the render target
	//   - error: an error if the textures could not be created
	CreateRenderTarget(width, height uint32) (RenderTarget, error)

	// Frame acquires the next surface image, calls draw with the frame's Context, then submits and
	// presents the frame.
	//
	// Parameters:
	//   - draw: renders the frame's draw calls into the context
	//
	// Returns:
	//   - error: the first error of the frame, including draws skipped for unknown resources
	Frame(draw func(ctx Context)) error

	// PipelineCount returns the number of render pipelines created so far.
	//
	// Returns:
	//   - int: the pipeline count
	PipelineCount() int

	// Release releases every GPU resource owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into the surface of the given window.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - window: the window providing the surface
//   - options: functional options configuring the renderer
//
// Returns:
//   - Renderer: the new renderer
//   - error: an error if no adapter or device could be acquired
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	// Options first so config flags such as forceFallbackAdapter are known before the adapter
	// request.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}
	if err != nil {
		return nil, err
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(window.Width(), window.Height())

	r.pipelines = pipeline.NewCache(r.pipelineOptions...)
	r.context = newWGPUContext(r.backend.Device(), r.backend.Queue(), r.pipelines, r.backend.SurfaceFormat())
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) RegisterProgram(p program.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.context.registerProgram(p)
}

func (r *renderer) CreateVertexBuffer(data []float32) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.context.createBuffer("Vertex Buffer", wgpu.BufferUsageVertex, common.SliceToBytes(data))
}

func (r *renderer) CreateIndexBuffer(data []uint32) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.context.createBuffer("Index Buffer", wgpu.BufferUsageIndex, common.SliceToBytes(data))
}

func (r *renderer) CreateTexture(width, height uint32, pixels []byte) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, id, err := r.context.createTexture(width, height, pixels, false)
	return id, err
}

func (r *renderer) CreateRenderTarget(width, height uint32) (RenderTarget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.context.createRenderTarget(width, height)
}

func (r *renderer) Frame(draw func(ctx Context)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	encoder, screen, err := r.backend.BeginFrame()
	if err != nil {
		return err
	}
	r.context.beginFrame(encoder, screen)
	draw(r.context)
	drawErr := r.context.endFrame()
	submitErr := r.backend.EndFrame()
	r.backend.Present()
	r.context.releaseFrame()
	return errors.Join(drawErr, submitErr)
}

func (r *renderer) PipelineCount() int {
	return r.pipelines.Len()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.context.release()
	r.backend.Release()
}
