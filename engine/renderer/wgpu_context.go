package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/program"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrUnknownResource is reported when a draw references a program, buffer or texture id the
// context never created.
var ErrUnknownResource = errors.New("unknown gpu resource")

// blockKey addresses one uniform buffer binding.
type blockKey struct {
	group, binding int
}

// blockLayout is the byte size of a uniform buffer and the stride between its array elements.
type blockLayout struct {
	size, stride int
}

type gpuProgram struct {
	program  program.Program
	vertex   *wgpu.ShaderModule
	fragment *wgpu.ShaderModule
	formats  map[int]wgpu.VertexFormat
	blocks   map[blockKey]blockLayout
	groups   []int
}

type gpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	depth   *wgpu.TextureView

	width, height uint32
}

type textureSlot struct {
	texture uint32
	loc     UniformLocation
}

type vertexSlot struct {
	location int
	attr     VertexAttribute
}

type renderTarget struct {
	id uint32
}

func (t renderTarget) ID() uint32 {
	return t.id
}

// wgpuContext implements Context on top of a WebGPU device. Fixed-function state selects a cached
// render pipeline when a draw is issued. Scissor box and stencil reference are dynamic pass state.
type wgpuContext struct {
	device      *wgpu.Device
	queue       *wgpu.Queue
	pipelines   *pipeline.Cache
	colorFormat wgpu.TextureFormat

	nextID   uint32
	programs map[uint32]*gpuProgram
	buffers  map[uint32]*wgpu.Buffer
	textures map[uint32]*gpuTexture
	samplers map[SamplerState]*wgpu.Sampler

	// Frame state.
	encoder   *wgpu.CommandEncoder
	screen    frameTarget
	pass      *wgpu.RenderPassEncoder
	passOn    uint32
	target    uint32
	cleared   map[uint32]bool
	transient []func()
	err       error

	// Draw state.
	program      *gpuProgram
	uniforms     map[blockKey][]byte
	textureSlots map[uint32]textureSlot
	samplerSlots map[uint32]SamplerState
	vertexSlots  map[uint32]vertexSlot
	state        pipeline.State
	stencilRef   uint32
	scissorOn    bool
	scissorBox   [4]int32
}

var _ Context = &wgpuContext{}

func newWGPUContext(device *wgpu.Device, queue *wgpu.Queue, pipelines *pipeline.Cache, colorFormat wgpu.TextureFormat) *wgpuContext {
	return &wgpuContext{
		device:       device,
		queue:        queue,
		pipelines:    pipelines,
		colorFormat:  colorFormat,
		programs:     make(map[uint32]*gpuProgram),
		buffers:      make(map[uint32]*wgpu.Buffer),
		textures:     make(map[uint32]*gpuTexture),
		samplers:     make(map[SamplerState]*wgpu.Sampler),
		cleared:      make(map[uint32]bool),
		uniforms:     make(map[blockKey][]byte),
		textureSlots: make(map[uint32]textureSlot),
		samplerSlots: make(map[uint32]SamplerState),
		vertexSlots:  make(map[uint32]vertexSlot),
		state:        pipeline.DefaultState(),
	}
}

func (c *wgpuContext) id() uint32 {
	c.nextID++
	return c.nextID
}

func (c *wgpuContext) registerProgram(p program.Program) error {
	if _, ok := c.programs[p.ID()]; ok {
		return nil
	}
	vs, err := c.device.CreateShaderModule(p.Module(wgpu.ShaderStageVertex))
	if err != nil {
		return fmt.Errorf("program %q vertex module: %w", p.Key(), err)
	}
	fs, err := c.device.CreateShaderModule(p.Module(wgpu.ShaderStageFragment))
	if err != nil {
		vs.Release()
		return fmt.Errorf("program %q fragment module: %w", p.Key(), err)
	}

	gp := &gpuProgram{
		program:  p,
		vertex:   vs,
		fragment: fs,
		formats:  make(map[int]wgpu.VertexFormat),
		blocks:   layoutBlocks(p.Uniforms()),
		groups:   usedGroups(p.Uniforms()),
	}
	for _, a := range p.Attributes() {
		gp.formats[a.Location] = a.Format
	}
	c.programs[p.ID()] = gp
	common.Logger().Debug("program registered", "key", p.Key(), "id", p.ID(), "uniformBlocks", len(gp.blocks))
	return nil
}

func (c *wgpuContext) createBuffer(label string, usage wgpu.BufferUsage, contents []byte) (uint32, error) {
	buf, err := c.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, err
	}
	id := c.id()
	c.buffers[id] = buf
	return id, nil
}

func (c *wgpuContext) createTexture(width, height uint32, pixels []byte, renderable bool) (*gpuTexture, uint32, error) {
	usage := wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst
	format := wgpu.TextureFormatRGBA8Unorm
	if renderable {
		usage |= wgpu.TextureUsageRenderAttachment
		format = c.colorFormat
	}
	tex, err := c.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     "Texture",
		Usage:     usage,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, 0, err
	}

	if len(pixels) > 0 {
		c.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  width * 4,
				RowsPerImage: height,
			},
			&wgpu.Extent3D{
				Width:              width,
				Height:             height,
				DepthOrArrayLayers: 1,
			},
		)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, 0, err
	}
	gt := &gpuTexture{texture: tex, view: view, width: width, height: height}
	id := c.id()
	c.textures[id] = gt
	return gt, id, nil
}

func (c *wgpuContext) createRenderTarget(width, height uint32) (RenderTarget, error) {
	gt, id, err := c.createTexture(width, height, nil, true)
	if err != nil {
		return nil, err
	}
	depth, err := c.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Render Target Depth",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthStencilFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, err
	}
	gt.depth, err = depth.CreateView(nil)
	if err != nil {
		return nil, err
	}
	return renderTarget{id: id}, nil
}

func (c *wgpuContext) beginFrame(encoder *wgpu.CommandEncoder, screen frameTarget) {
	c.encoder = encoder
	c.screen = screen
	c.target = 0
	c.err = nil
	clear(c.cleared)
}

// endFrame closes the open render pass. Per-frame resources are released by releaseFrame once the
// frame was submitted.
func (c *wgpuContext) endFrame() error {
	c.endPass()
	c.encoder = nil
	return c.err
}

func (c *wgpuContext) releaseFrame() {
	for _, release := range c.transient {
		release()
	}
	c.transient = c.transient[:0]
}

func (c *wgpuContext) fail(err error) {
	common.Logger().Warn("draw skipped", "error", err)
	if c.err == nil {
		c.err = err
	}
}

func (c *wgpuContext) endPass() {
	if c.pass != nil {
		c.pass.End()
		c.pass.Release()
		c.pass = nil
	}
}

func (c *wgpuContext) attachments(target uint32) (frameTarget, error) {
	if target == 0 {
		return c.screen, nil
	}
	gt, ok := c.textures[target]
	if !ok || gt.depth == nil {
		return frameTarget{}, fmt.Errorf("%w: render target %d", ErrUnknownResource, target)
	}
	return frameTarget{
		color:       gt.view,
		depth:       gt.depth,
		width:       gt.width,
		height:      gt.height,
		sampleCount: 1,
		format:      c.colorFormat,
	}, nil
}

func (c *wgpuContext) beginPass() (frameTarget, error) {
	ft, err := c.attachments(c.target)
	if err != nil {
		return ft, err
	}
	if c.pass != nil && c.passOn == c.target {
		return ft, nil
	}
	c.endPass()

	load := wgpu.LoadOpLoad
	if !c.cleared[c.target] {
		load = wgpu.LoadOpClear
		c.cleared[c.target] = true
	}
	storeOp := wgpu.StoreOpStore
	if ft.resolve != nil {
		storeOp = wgpu.StoreOpDiscard
	}
	c.pass = c.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:          ft.color,
			ResolveTarget: ft.resolve,
			LoadOp:        load,
			StoreOp:       storeOp,
			ClearValue:    wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:              ft.depth,
			DepthLoadOp:       load,
			DepthStoreOp:      wgpu.StoreOpStore,
			DepthClearValue:   1.0,
			StencilLoadOp:     load,
			StencilStoreOp:    wgpu.StoreOpStore,
			StencilClearValue: 0,
		},
	})
	c.passOn = c.target
	return ft, nil
}

func (c *wgpuContext) SetProgram(id uint32) {
	c.program = c.programs[id]
	c.target = 0
	clear(c.uniforms)
	clear(c.textureSlots)
	clear(c.samplerSlots)
	clear(c.vertexSlots)
	if c.program == nil {
		c.fail(fmt.Errorf("%w: program %d", ErrUnknownResource, id))
	}
}

func (c *wgpuContext) SetRenderTarget(id uint32) {
	c.target = id
}

func (c *wgpuContext) writeUniform(loc UniformLocation, words ...uint32) {
	if c.program == nil {
		return
	}
	key := blockKey{loc.Group, loc.Binding}
	layout, ok := c.program.blocks[key]
	if !ok {
		return
	}
	buf, ok := c.uniforms[key]
	if !ok {
		buf = make([]byte, layout.size)
		c.uniforms[key] = buf
	}
	putWords(buf, layout, loc.Element, words)
}

func (c *wgpuContext) SetUniformFloat1(loc UniformLocation, v float32) {
	c.writeUniform(loc, math.Float32bits(v))
}

func (c *wgpuContext) SetUniformFloat2(loc UniformLocation, v [2]float32) {
	c.writeUniform(loc, floatWords(v[:])...)
}

func (c *wgpuContext) SetUniformFloat3(loc UniformLocation, v [3]float32) {
	c.writeUniform(loc, floatWords(v[:])...)
}

func (c *wgpuContext) SetUniformFloat4(loc UniformLocation, v [4]float32) {
	c.writeUniform(loc, floatWords(v[:])...)
}

func (c *wgpuContext) SetUniformMatrix4x4(loc UniformLocation, m *[16]float32) {
	c.writeUniform(loc, floatWords(m[:])...)
}

func (c *wgpuContext) SetUniformInt1(loc UniformLocation, v int32) {
	c.writeUniform(loc, uint32(v))
}

func (c *wgpuContext) SetUniformInt2(loc UniformLocation, v [2]int32) {
	c.writeUniform(loc, intWords(v[:])...)
}

func (c *wgpuContext) SetUniformInt3(loc UniformLocation, v [3]int32) {
	c.writeUniform(loc, intWords(v[:])...)
}

func (c *wgpuContext) SetUniformInt4(loc UniformLocation, v [4]int32) {
	c.writeUniform(loc, intWords(v[:])...)
}

func (c *wgpuContext) SetTextureAt(position, texture uint32, loc UniformLocation) {
	c.textureSlots[position] = textureSlot{texture: texture, loc: loc}
}

func (c *wgpuContext) SetSamplerStateAt(position uint32, state SamplerState) {
	c.samplerSlots[position] = state
}

func (c *wgpuContext) SetVertexBufferAt(position uint32, location int, attr VertexAttribute) {
	c.vertexSlots[position] = vertexSlot{location: location, attr: attr}
}

func (c *wgpuContext) SetColorMask(mask bool) {
	c.state.ColorMask = mask
}

func (c *wgpuContext) SetBlendingMode(src, dst wgpu.BlendFactor) {
	c.state.BlendSrc, c.state.BlendDst = src, dst
}

func (c *wgpuContext) SetDepthTest(mask bool, fn wgpu.CompareFunction) {
	c.state.DepthWrite, c.state.DepthCompare = mask, fn
}

func (c *wgpuContext) SetStencilTest(fn wgpu.CompareFunction, ref int32, mask uint32, fail, zfail, zpass wgpu.StencilOperation) {
	c.state.StencilCompare = fn
	c.state.StencilReadMask = mask
	c.state.StencilFail, c.state.StencilDepthFail, c.state.StencilPass = fail, zfail, zpass
	c.stencilRef = uint32(ref)
}

func (c *wgpuContext) SetScissorTest(enabled bool, box [4]int32) {
	c.scissorOn, c.scissorBox = enabled, box
}

func (c *wgpuContext) SetTriangleCulling(mode wgpu.CullMode) {
	c.state.CullMode = mode
}

func (c *wgpuContext) DrawTriangles(indexBuffer, firstIndex, triangleCount uint32) {
	if c.encoder == nil || c.program == nil || triangleCount == 0 {
		return
	}
	indices, ok := c.buffers[indexBuffer]
	if !ok {
		c.fail(fmt.Errorf("%w: index buffer %d", ErrUnknownResource, indexBuffer))
		return
	}

	ft, err := c.beginPass()
	if err != nil {
		c.fail(err)
		return
	}

	positions := sortedPositions(c.vertexSlots)
	layouts, key := vertexLayouts(positions, c.vertexSlots, c.program.formats)

	state := c.state
	state.Program = c.program.program.ID()
	state.VertexLayout = key
	state.ColorFormat = ft.format
	state.SampleCount = ft.sampleCount

	p, err := c.pipelines.Get(state, func(p pipeline.Pipeline) error {
		return c.createPipeline(p, c.program, layouts)
	})
	if err != nil {
		c.fail(err)
		return
	}
	rp := p.RenderPipeline()

	groups, err := c.bindGroups(rp)
	if err != nil {
		c.fail(err)
		return
	}

	c.pass.SetPipeline(rp)
	for i, g := range c.program.groups {
		c.pass.SetBindGroup(uint32(g), groups[i], nil)
	}
	for i, pos := range positions {
		buf, ok := c.buffers[c.vertexSlots[pos].attr.Buffer]
		if !ok {
			c.fail(fmt.Errorf("%w: vertex buffer %d", ErrUnknownResource, c.vertexSlots[pos].attr.Buffer))
			return
		}
		c.pass.SetVertexBuffer(uint32(i), buf, 0, wgpu.WholeSize)
	}
	c.pass.SetIndexBuffer(indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	x, y, w, h := scissorRect(c.scissorOn, c.scissorBox, ft.width, ft.height)
	c.pass.SetScissorRect(x, y, w, h)
	c.pass.SetStencilReference(c.stencilRef)
	c.pass.DrawIndexed(triangleCount*3, 1, firstIndex, 0, 0)
}

func (c *wgpuContext) createPipeline(p pipeline.Pipeline, gp *gpuProgram, layouts []wgpu.VertexBufferLayout) error {
	s := p.State()
	ds := s.DepthStencil(depthStencilFormat)
	ds.DepthBias = p.DepthBias()
	ds.DepthBiasSlopeScale = p.DepthBiasSlopeScale()

	rp, err := c.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: gp.program.Key() + " Render Pipeline",
		Vertex: wgpu.VertexState{
			Module:     gp.vertex,
			EntryPoint: gp.program.VertexEntryPoint(),
			Buffers:    layouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     gp.fragment,
			EntryPoint: gp.program.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{{
				Format:    s.ColorFormat,
				Blend:     s.BlendState(),
				WriteMask: s.WriteMask(),
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  s.CullMode,
		},
		DepthStencil: ds,
		Multisample: wgpu.MultisampleState{
			Count: s.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline %s: %w", s, err)
	}
	p.SetRenderPipeline(rp)
	return nil
}

// bindGroups creates one bind group per group used by the program. Uniform buffers are created per
// draw so that queued writes of later draws cannot overwrite the values of earlier ones. A texture
// at binding b is paired with its sampler at binding b+1.
func (c *wgpuContext) bindGroups(rp *wgpu.RenderPipeline) ([]*wgpu.BindGroup, error) {
	entries := make(map[int][]wgpu.BindGroupEntry)

	for key, layout := range c.program.blocks {
		data, ok := c.uniforms[key]
		if !ok {
			data = make([]byte, layout.size)
		}
		buf, err := c.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "Uniforms",
			Contents: data,
			Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, err
		}
		c.transient = append(c.transient, buf.Release)
		entries[key.group] = append(entries[key.group], wgpu.BindGroupEntry{
			Binding: uint32(key.binding),
			Buffer:  buf,
			Size:    wgpu.WholeSize,
		})
	}

	for position, slot := range c.textureSlots {
		gt, ok := c.textures[slot.texture]
		if !ok {
			return nil, fmt.Errorf("%w: texture %d", ErrUnknownResource, slot.texture)
		}
		sampler, err := c.sampler(c.samplerSlots[position])
		if err != nil {
			return nil, err
		}
		entries[slot.loc.Group] = append(entries[slot.loc.Group],
			wgpu.BindGroupEntry{Binding: uint32(slot.loc.Binding), TextureView: gt.view},
			wgpu.BindGroupEntry{Binding: uint32(slot.loc.Binding + 1), Sampler: sampler},
		)
	}

	groups := make([]*wgpu.BindGroup, 0, len(c.program.groups))
	for _, g := range c.program.groups {
		layout := rp.GetBindGroupLayout(uint32(g))
		bg, err := c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   fmt.Sprintf("%s group %d", c.program.program.Key(), g),
			Layout:  layout,
			Entries: entries[g],
		})
		layout.Release()
		if err != nil {
			return nil, err
		}
		c.transient = append(c.transient, bg.Release)
		groups = append(groups, bg)
	}
	return groups, nil
}

func (c *wgpuContext) sampler(state SamplerState) (*wgpu.Sampler, error) {
	if s, ok := c.samplers[state]; ok {
		return s, nil
	}
	wrap, filter, mip := wgpu.AddressModeRepeat, wgpu.FilterModeLinear, wgpu.MipmapFilterModeLinear
	if state.HasWrapMode {
		wrap = state.WrapMode
	}
	if state.HasFilter {
		filter = state.TextureFilter
	}
	if state.HasMipFilter {
		mip = state.MipFilter
	}
	s, err := c.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Sampler",
		AddressModeU:  wrap,
		AddressModeV:  wrap,
		AddressModeW:  wrap,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  mip,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}
	c.samplers[state] = s
	return s, nil
}

func (c *wgpuContext) release() {
	c.releaseFrame()
	for _, s := range c.samplers {
		s.Release()
	}
	for _, t := range c.textures {
		if t.depth != nil {
			t.depth.Release()
		}
		t.view.Release()
		t.texture.Release()
	}
	for _, b := range c.buffers {
		b.Release()
	}
	for _, p := range c.programs {
		p.vertex.Release()
		p.fragment.Release()
	}
	c.pipelines.Clear()
}

// layoutBlocks computes the size of every uniform buffer declared by the inputs. Array elements are
// laid out on a 16-byte stride, as WGSL requires for arrays in the uniform address space.
func layoutBlocks(inputs []program.Input) map[blockKey]blockLayout {
	blocks := make(map[blockKey]blockLayout)
	for _, in := range inputs {
		n := in.Type.Components()
		if n == 0 {
			continue
		}
		key := blockKey{in.Group, in.Location}
		l := blocks[key]
		size := n * 4
		count := 1
		if in.Element >= 0 {
			size = align16(size)
			count = in.Element + 1
		}
		l.stride = max(l.stride, size)
		l.size = max(l.size, align16(l.stride*count))
		blocks[key] = l
	}
	return blocks
}

func usedGroups(inputs []program.Input) []int {
	seen := make(map[int]bool)
	var groups []int
	for _, in := range inputs {
		if in.Type == program.InputTypeUnknown || seen[in.Group] {
			continue
		}
		seen[in.Group] = true
		groups = append(groups, in.Group)
	}
	sort.Ints(groups)
	return groups
}

func align16(n int) int {
	return (n + 15) &^ 15
}

func putWords(buf []byte, layout blockLayout, element int, words []uint32) {
	offset := max(element, 0) * layout.stride
	for i, w := range words {
		at := offset + i*4
		if at+4 > len(buf) {
			return
		}
		binary.LittleEndian.PutUint32(buf[at:], w)
	}
}

func floatWords(v []float32) []uint32 {
	out := make([]uint32, len(v))
	for i, f := range v {
		out[i] = math.Float32bits(f)
	}
	return out
}

func intWords(v []int32) []uint32 {
	out := make([]uint32, len(v))
	for i, n := range v {
		out[i] = uint32(n)
	}
	return out
}

func sortedPositions(slots map[uint32]vertexSlot) []uint32 {
	positions := make([]uint32, 0, len(slots))
	for p := range slots {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
	return positions
}

// vertexLayouts returns one vertex buffer layout per bound position, in position order, together
// with a key identifying the layout for pipeline caching.
func vertexLayouts(positions []uint32, slots map[uint32]vertexSlot, formats map[int]wgpu.VertexFormat) ([]wgpu.VertexBufferLayout, string) {
	layouts := make([]wgpu.VertexBufferLayout, 0, len(positions))
	var key strings.Builder
	for _, pos := range positions {
		slot := slots[pos]
		format, ok := formats[slot.location]
		if !ok {
			format = floatFormat(slot.attr.Size)
		}
		layouts = append(layouts, wgpu.VertexBufferLayout{
			ArrayStride: uint64(slot.attr.Stride) * 4,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{{
				Format:         format,
				Offset:         uint64(slot.attr.Offset) * 4,
				ShaderLocation: uint32(slot.location),
			}},
		})
		fmt.Fprintf(&key, "%d:%d:%d:%d;", slot.location, slot.attr.Stride, slot.attr.Offset, format)
	}
	return layouts, key.String()
}

func floatFormat(size uint32) wgpu.VertexFormat {
	switch size {
	case 1:
		return wgpu.VertexFormatFloat32
	case 2:
		return wgpu.VertexFormatFloat32x2
	case 3:
		return wgpu.VertexFormatFloat32x3
	default:
		return wgpu.VertexFormatFloat32x4
	}
}

// scissorRect clips the scissor box to the target. A negative width or height extends the box to
// the edge of the target. A disabled scissor test covers the whole target.
func scissorRect(enabled bool, box [4]int32, width, height uint32) (x, y, w, h uint32) {
	if !enabled {
		return 0, 0, width, height
	}
	x = uint32(min(max(box[0], 0), int32(width)))
	y = uint32(min(max(box[1], 0), int32(height)))
	w, h = width-x, height-y
	if box[2] >= 0 {
		w = min(w, uint32(box[2]))
	}
	if box[3] >= 0 {
		h = min(h, uint32(box[3]))
	}
	return x, y, w, h
}
