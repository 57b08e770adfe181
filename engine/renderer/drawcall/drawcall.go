package drawcall

import (
	"fmt"
	"reflect"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/program"
	"github.com/cogentcore/webgpu/wgpu"
)

// Index buffer properties read from the target scope.
const (
	IndicesProperty    = "geometry[${geometryUuid}].indices"
	FirstIndexProperty = "geometry[${geometryUuid}].firstIndex"
	NumIndicesProperty = "geometry[${geometryUuid}].numIndices"
)

// uniformSlot is one resolved uniform value.
type uniformSlot struct {
	input program.Input
	loc   renderer.UniformLocation
	value data.Handle
}

// samplerSlot is one resolved 2D sampler. Zero sub-state handles are left unset.
type samplerSlot struct {
	position uint32
	loc      renderer.UniformLocation
	texture  data.Handle
	wrap     data.Handle
	filter   data.Handle
	mip      data.Handle
}

// attributeSlot is one resolved vertex attribute stream.
type attributeSlot struct {
	position uint32
	location int
	value    data.Handle
}

// lookup is one input resolved with the scope and default rule.
type lookup struct {
	store       data.Store
	property    string
	defaults    data.Store
	defaultName string
	present     bool
	handle      data.Handle
	// check rejects property values of the wrong type once bound.
	check       func(any) bool
}

const changedKey = "#changed"

// drawCall is the implementation of the DrawCall interface.
type drawCall struct {
	scopes        data.Scopes
	vars          map[string]string
	defaultStates data.Store
	sorterFactory SorterFactory
	sorter        Sorter

	program     program.Program
	indexBuffer data.Handle
	firstIndex  data.Handle
	numIndices  data.Handle
	floats      []*uniformSlot
	ints        []*uniformSlot
	bools       []*uniformSlot
	samplers    []*samplerSlot
	attributes  []*attributeSlot
	states      [numStates]data.Handle

	subs map[string]*data.Subscription
}

// DrawCall resolves the inputs of a compiled program against the target, renderer and root
// property stores and renders the result.
//
// Resolved values are held as handles into the stores, so later Set calls are observed on the
// next Render without rebinding. When a bound property with a default is removed the slot falls
// back to the default, and when a missing property is added the slot switches to it. Each binding
// keeps at most one such listener at a time.
type DrawCall interface {
	// Bind drops every previous binding and resolves the attributes, uniforms, samplers and
	// fixed-function states of p. On failure the draw call is left unbound.
	//
	// Parameters:
	//   - p: the compiled program
	//   - attributes: bindings for vertex attributes
	//   - uniforms: bindings for uniforms, samplers and sampler states
	//   - states: bindings for fixed-function states
	//
	// Returns:
	//   - error: a *BindingError wrapping ErrMissingBinding, ErrUnsupportedInputType or
	//     data.ErrPropertyType
	Bind(p program.Program, attributes, uniforms, states *data.BindingMap) error

	// Render issues the draw call to ctx: program, render target, float, int and bool uniforms,
	// textures with their sampler states, vertex buffers, color mask, blending, depth, stencil,
	// scissor and culling states, then the indexed draw. Rendering an unbound draw call does nothing.
	//
	// Parameters:
	//   - ctx: the GPU context
	//   - target: the render target, or nil for the default output
	Render(ctx renderer.Context, target renderer.RenderTarget)

	// EyeSpacePosition returns the camera-space position of the drawn geometry.
	//
	// Returns:
	//   - [3]float32: the eye-space position
	EyeSpacePosition() [3]float32

	// Program returns the bound program.
	//
	// Returns:
	//   - program.Program: the program, or nil when unbound
	Program() program.Program

	// Priority returns the bound render priority.
	//
	// Returns:
	//   - float32: the priority
	Priority() float32

	// ZSorted reports whether the draw call is ordered by depth within its priority.
	//
	// Returns:
	//   - bool: the bound z-sorted flag
	ZSorted() bool

	// Scopes returns the stores the draw call resolves against.
	//
	// Returns:
	//   - data.Scopes: the scopes
	Scopes() data.Scopes

	// Variables returns the variable table used to resolve property paths.
	//
	// Returns:
	//   - map[string]string: the variables
	Variables() map[string]string

	// Close drops every binding and releases every store listener.
	Close()
}

var _ DrawCall = &drawCall{}

// NewDrawCall creates an unbound draw call over the given scopes. Every scope store must be set.
//
// Parameters:
//   - scopes: the target, renderer and root stores
//   - options: functional options configuring the draw call
//
// Returns:
//   - DrawCall: the new draw call
func NewDrawCall(scopes data.Scopes, options ...DrawCallBuilderOption) DrawCall {
	if scopes.Target == nil || scopes.Renderer == nil || scopes.Root == nil {
		panic("drawcall: every scope store must be set")
	}

	d := &drawCall{
		scopes:        scopes,
		vars:          make(map[string]string),
		sorterFactory: NewZSorter,
		subs:          make(map[string]*data.Subscription),
	}
	for _, opt := range options {
		opt(d)
	}
	if d.defaultStates == nil {
		d.defaultStates = DefaultStates()
	}
	d.sorter = d.sorterFactory(d.scopes, d.vars)

	return d
}

func (d *drawCall) Program() program.Program {
	return d.program
}

func (d *drawCall) Scopes() data.Scopes {
	return d.scopes
}

func (d *drawCall) Variables() map[string]string {
	return d.vars
}

func (d *drawCall) Priority() float32 {
	return read(d.states[statePriority], PriorityOpaque)
}

func (d *drawCall) ZSorted() bool {
	return read(d.states[stateZSorted], false)
}

func (d *drawCall) EyeSpacePosition() [3]float32 {
	return d.sorter.EyeSpacePosition()
}

func (d *drawCall) Close() {
	d.reset()
}

func (d *drawCall) Bind(p program.Program, attributes, uniforms, states *data.BindingMap) error {
	d.reset()

	if err := d.bind(p, attributes, uniforms, states); err != nil {
		d.reset()
		return err
	}

	common.Logger().Debug("draw call bound",
		"program", p.Key(),
		"uniforms", len(d.floats)+len(d.ints)+len(d.bools),
		"samplers", len(d.samplers),
		"attributes", len(d.attributes),
		"listeners", len(d.subs),
	)
	return nil
}

func (d *drawCall) bind(p program.Program, attributes, uniforms, states *data.BindingMap) error {
	d.program = p
	d.bindIndexBuffer()

	if err := d.bindStates(states); err != nil {
		return err
	}
	if err := d.bindUniforms(p, uniforms); err != nil {
		return err
	}
	return d.bindAttributes(p, attributes)
}

func (d *drawCall) reset() {
	for _, sub := range d.subs {
		sub.Disconnect()
	}
	clear(d.subs)

	d.program = nil
	d.indexBuffer = data.Handle{}
	d.firstIndex = data.Handle{}
	d.numIndices = data.Handle{}
	d.floats = nil
	d.ints = nil
	d.bools = nil
	d.samplers = nil
	d.attributes = nil
	d.states = [numStates]data.Handle{}
}

func (d *drawCall) bindIndexBuffer() {
	d.indexBuffer, _ = d.scopes.Target.Handle(data.ResolvePropertyName(IndicesProperty, d.vars))
	d.firstIndex, _ = d.scopes.Target.Handle(data.ResolvePropertyName(FirstIndexProperty, d.vars))
	d.numIndices, _ = d.scopes.Target.Handle(data.ResolvePropertyName(NumIndicesProperty, d.vars))
}

func (d *drawCall) bindStates(m *data.BindingMap) error {
	for i, name := range stateNames {
		defaults := d.defaultStates
		if m.HasDefault(name) {
			defaults = m.Defaults
		}

		l, err := d.resolve("state", name, m, name, "", defaults, name)
		if err != nil {
			return err
		}

		want, _ := d.defaultStates.Get(name)
		if reflect.TypeOf(l.handle.Value()) != reflect.TypeOf(want) {
			return typeError("state", name, name, l, fmt.Sprintf("%T", want))
		}

		l.check = func(v any) bool { return reflect.TypeOf(v) == reflect.TypeOf(want) }
		d.states[i] = l.handle
		d.track("state:"+name, l, &d.states[i])
	}
	return nil
}

func (d *drawCall) bindUniforms(p program.Program, m *data.BindingMap) error {
	if m == nil {
		return nil
	}
	for _, in := range p.Uniforms() {
		base, suffix := common.SplitArrayName(in.Name)
		if _, ok := m.Binding(base); !ok {
			continue
		}
		if !supported(in.Type) {
			return &BindingError{
				Kind:    "uniform",
				Input:   in.Name,
				Binding: base,
				Err:     fmt.Errorf("%w: %s", ErrUnsupportedInputType, in.Type),
			}
		}

		l, err := d.resolve("uniform", in.Name, m, base, suffix, m.Defaults, in.Name)
		if err != nil {
			return err
		}
		if !accepts(in.Type, l.handle.Value()) {
			return typeError("uniform", in.Name, base, l, in.Type.String())
		}

		l.check = func(v any) bool { return accepts(in.Type, v) }

		loc := renderer.UniformLocation{Group: in.Group, Binding: in.Location, Element: in.Element}
		key := "uniform:" + in.Name

		if in.Type == program.InputTypeSampler2D {
			s := &samplerSlot{
				position: uint32(p.ClaimedTextureSlots() + len(d.samplers)),
				loc:      loc,
				texture:  l.handle,
			}
			d.track(key, l, &s.texture)
			if err := d.bindSamplerStates(s, in.Name, base, m); err != nil {
				return err
			}
			d.samplers = append(d.samplers, s)
			continue
		}

		u := &uniformSlot{input: in, loc: loc, value: l.handle}
		d.track(key, l, &u.value)
		switch {
		case in.Type.IsFloat():
			d.floats = append(d.floats, u)
		case in.Type.IsInt():
			d.ints = append(d.ints, u)
		case in.Type.IsBool():
			d.bools = append(d.bools, u)
		}
	}
	return nil
}

func (d *drawCall) bindSamplerStates(s *samplerSlot, input, base string, m *data.BindingMap) error {
	sub := []struct {
		state  string
		target *data.Handle
		check  func(any) bool
	}{
		{SamplerWrapMode, &s.wrap, func(v any) bool { _, ok := v.(wgpu.AddressMode); return ok }},
		{SamplerTextureFilter, &s.filter, func(v any) bool { _, ok := v.(wgpu.FilterMode); return ok }},
		{SamplerMipFilter, &s.mip, func(v any) bool { _, ok := v.(wgpu.MipmapFilterMode); return ok }},
	}

	for _, st := range sub {
		name := samplerStateName(base, st.state)
		_, bound := m.Binding(name)
		if !bound && !m.HasDefault(name) {
			continue
		}

		l, err := d.resolve("sampler state", name, m, name, "", m.Defaults, name)
		if err != nil {
			return err
		}
		if !st.check(l.handle.Value()) {
			return typeError("sampler state", name, name, l, st.state)
		}

		l.check = st.check
		*st.target = l.handle
		d.track("sampler state:"+samplerStateName(input, st.state), l, st.target)
	}
	return nil
}

func (d *drawCall) bindAttributes(p program.Program, m *data.BindingMap) error {
	if m == nil {
		return nil
	}
	for _, in := range p.Attributes() {
		if _, ok := m.Binding(in.Name); !ok {
			continue
		}

		l, err := d.resolve("attribute", in.Name, m, in.Name, "", m.Defaults, in.Name)
		if err != nil {
			return err
		}
		if _, ok := l.handle.Value().(renderer.VertexAttribute); !ok {
			return typeError("attribute", in.Name, in.Name, l, "vertex attribute")
		}

		l.check = func(v any) bool { _, ok := v.(renderer.VertexAttribute); return ok }

		a := &attributeSlot{
			position: uint32(p.ClaimedAttributeSlots() + len(d.attributes)),
			location: in.Location,
			value:    l.handle,
		}
		d.track("attribute:"+in.Name, l, &a.value)
		d.attributes = append(d.attributes, a)
	}
	return nil
}

// resolve applies the scope and default rule to one input. A bound property that exists wins,
// then the default named defaultName. Unbound inputs resolve to their default directly.
func (d *drawCall) resolve(kind, input string, m *data.BindingMap, bindingName, suffix string, defaults data.Store, defaultName string) (lookup, error) {
	l := lookup{defaults: defaults, defaultName: defaultName}
	hasDefault := defaults != nil && defaults.Has(defaultName)

	if b, ok := m.Binding(bindingName); ok {
		l.store = d.scopes.Store(b.Scope)
		l.property = data.ResolvePropertyName(b.PropertyName, d.vars) + suffix

		if l.store != nil && l.store.Has(l.property) {
			l.handle, l.present = l.store.Handle(l.property)
			return l, nil
		}
	}

	if !hasDefault {
		return l, &BindingError{Kind: kind, Input: input, Binding: bindingName, Property: l.property, Err: ErrMissingBinding}
	}
	l.handle, _ = defaults.Handle(defaultName)
	return l, nil
}

// track keeps target pointing at the bound property while it exists and holds an accepted value,
// and at the default otherwise. A property without a default is only watched for type changes,
// which are reported since the value cannot be uploaded.
func (d *drawCall) track(key string, l lookup, target *data.Handle) {
	d.unlisten(key)
	if l.store == nil {
		return
	}

	if l.defaults == nil || !l.defaults.Has(l.defaultName) {
		if l.present && l.check != nil {
			d.subs[key+changedKey] = l.store.PropertyChanged(l.property).Connect(func(data.PropertyEvent) {
				if v := target.Value(); !l.check(v) {
					common.Logger().Warn("bound property has the wrong type, value skipped",
						"binding", key, "property", l.property, "type", fmt.Sprintf("%T", v))
				}
			})
		}
		return
	}

	if !l.present {
		d.subs[key] = l.store.PropertyAdded(l.property).Connect(func(data.PropertyEvent) {
			l.present = true
			d.adopt(key, l, target)
			common.Logger().Debug("binding switched to property", "binding", key, "property", l.property)
			d.track(key, l, target)
		})
		return
	}

	d.subs[key] = l.store.PropertyRemoved(l.property).Connect(func(data.PropertyEvent) {
		l.handle, _ = l.defaults.Handle(l.defaultName)
		l.present = false
		*target = l.handle
		common.Logger().Debug("binding fell back to default", "binding", key, "property", l.property)
		d.track(key, l, target)
	})
	if l.check != nil {
		d.subs[key+changedKey] = l.store.PropertyChanged(l.property).Connect(func(data.PropertyEvent) {
			d.adopt(key, l, target)
		})
	}
}

// adopt points target at the present property, or at the default when the property value is
// rejected by the binding's type check.
func (d *drawCall) adopt(key string, l lookup, target *data.Handle) {
	h, _ := l.store.Handle(l.property)
	if l.check != nil && !l.check(h.Value()) {
		common.Logger().Warn("bound property has the wrong type, using the default",
			"binding", key, "property", l.property, "type", fmt.Sprintf("%T", h.Value()))
		h, _ = l.defaults.Handle(l.defaultName)
	}
	*target = h
}

func (d *drawCall) unlisten(key string) {
	for _, k := range []string{key, key + changedKey} {
		if sub, ok := d.subs[k]; ok {
			sub.Disconnect()
			delete(d.subs, k)
		}
	}
}

func typeError(kind, input, binding string, l lookup, want string) error {
	name := l.property
	if !l.present {
		name = l.defaultName
	}
	return &BindingError{
		Kind:     kind,
		Input:    input,
		Binding:  binding,
		Property: name,
		Err:      fmt.Errorf("%w: %T is not a %s", data.ErrPropertyType, l.handle.Value(), want),
	}
}

func (d *drawCall) Render(ctx renderer.Context, target renderer.RenderTarget) {
	if d.program == nil {
		return
	}

	ctx.SetProgram(d.program.ID())
	if target != nil {
		ctx.SetRenderTarget(target.ID())
	}

	for _, u := range d.floats {
		uploadFloat(ctx, u)
	}
	for _, u := range d.ints {
		uploadInt(ctx, u)
	}
	for _, u := range d.bools {
		uploadBool(ctx, u)
	}

	for _, s := range d.samplers {
		ctx.SetTextureAt(s.position, read(s.texture, uint32(0)), s.loc)

		var state renderer.SamplerState
		state.WrapMode, state.HasWrapMode = data.Value[wgpu.AddressMode](s.wrap)
		state.TextureFilter, state.HasFilter = data.Value[wgpu.FilterMode](s.filter)
		state.MipFilter, state.HasMipFilter = data.Value[wgpu.MipmapFilterMode](s.mip)
		ctx.SetSamplerStateAt(s.position, state)
	}

	for _, a := range d.attributes {
		if attr, ok := data.Value[renderer.VertexAttribute](a.value); ok {
			ctx.SetVertexBufferAt(a.position, a.location, attr)
		}
	}

	st := &d.states
	ctx.SetColorMask(read(st[stateColorMask], true))
	ctx.SetBlendingMode(
		read(st[stateBlendingSource], wgpu.BlendFactorOne),
		read(st[stateBlendingDestination], wgpu.BlendFactorZero),
	)
	ctx.SetDepthTest(read(st[stateDepthMask], true), read(st[stateDepthFunction], wgpu.CompareFunctionLess))
	ctx.SetStencilTest(
		read(st[stateStencilFunction], wgpu.CompareFunctionAlways),
		read(st[stateStencilReference], int32(0)),
		read(st[stateStencilMask], uint32(0xFFFFFFFF)),
		read(st[stateStencilFailOperation], wgpu.StencilOperationKeep),
		read(st[stateStencilZFailOperation], wgpu.StencilOperationKeep),
		read(st[stateStencilZPassOperation], wgpu.StencilOperationKeep),
	)
	ctx.SetScissorTest(read(st[stateScissorTest], false), read(st[stateScissorBox], [4]int32{0, 0, -1, -1}))
	ctx.SetTriangleCulling(read(st[stateTriangleCulling], wgpu.CullModeBack))

	ctx.DrawTriangles(
		read(d.indexBuffer, uint32(0)),
		read(d.firstIndex, uint32(0)),
		read(d.numIndices, uint32(0))/3,
	)
}
