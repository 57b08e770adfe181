package pass

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/drawcall"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/signature"
)

// pass is the implementation of the Pass interface.
type pass struct {
	mu sync.Mutex

	name                         string
	vertexSource, fragmentSource string

	macros    []data.MacroBinding
	explicit  []signature.ExplicitDefinition
	undefined []string
	strict    bool

	attributes, uniforms, states *data.BindingMap

	compiler       signature.Compiler
	variants       *program.VariantCache
	programOptions []program.ProgramBuilderOption
	onCompile      func(program.Program) error
}

// Pass is one rendering pass of an effect: the program sources, the macro bindings that select a
// program variant, and the binding maps draw calls are bound with.
type Pass interface {
	// Name returns the pass name.
	//
	// Returns:
	//   - string: the pass name
	Name() string

	// SelectProgram evaluates the macro bindings against the scopes and returns the program variant
	// for the resulting signature, compiling it on a cache miss. Incorrect integer macros are logged.
	//
	// Parameters:
	//   - scopes: the target, renderer and root stores
	//   - vars: the variable table used to resolve macro property names
	//
	// Returns:
	//   - program.Program: the selected variant
	//   - error: a signature error (overflow, or out-of-range in strict mode) or a compile error
	SelectProgram(scopes data.Scopes, vars map[string]string) (program.Program, error)

	// Bind selects the program for a draw call's scopes and variables and binds the draw call with
	// the pass binding maps. The returned DrawCallBinding tracks the macro properties that were
	// evaluated and rebuilds the draw call from Prepare when one of them changes.
	//
	// Parameters:
	//   - dc: the draw call to bind
	//
	// Returns:
	//   - *DrawCallBinding: the live binding of dc to this pass
	//   - error: a program selection or draw call binding error
	Bind(dc drawcall.DrawCall) (*DrawCallBinding, error)

	// Attributes returns the attribute binding map.
	//
	// Returns:
	//   - *data.BindingMap: the attribute bindings
	Attributes() *data.BindingMap

	// Uniforms returns the uniform binding map.
	//
	// Returns:
	//   - *data.BindingMap: the uniform bindings
	Uniforms() *data.BindingMap

	// States returns the state binding map.
	//
	// Returns:
	//   - *data.BindingMap: the state bindings
	States() *data.BindingMap

	// Macros returns the ordered macro bindings.
	//
	// Returns:
	//   - []data.MacroBinding: the macro bindings
	Macros() []data.MacroBinding

	// Variants returns the cache of compiled program variants.
	//
	// Returns:
	//   - *program.VariantCache: the variant cache
	Variants() *program.VariantCache
}

var _ Pass = &pass{}

// NewPass creates a Pass from its program sources. When both stages live in one file the same
// source is passed twice.
//
// Parameters:
//   - name: the pass name, also used as the key of its programs
//   - vertexSource: the WGSL source of the vertex stage
//   - fragmentSource: the WGSL source of the fragment stage
//   - options: functional options configuring the pass
//
// Returns:
//   - Pass: the new pass
func NewPass(name, vertexSource, fragmentSource string, options ...PassBuilderOption) Pass {
	p := &pass{
		name:           name,
		vertexSource:   vertexSource,
		fragmentSource: fragmentSource,
		attributes:     data.NewBindingMap(),
		uniforms:       data.NewBindingMap(),
		states:         data.NewBindingMap(),
		variants:       program.NewVariantCache(),
	}
	for _, opt := range options {
		opt(p)
	}
	p.compiler = signature.NewCompiler(
		signature.WithStrict(p.strict),
		signature.WithUndefined(p.undefined...),
	)
	return p
}

func (p *pass) Name() string {
	return p.name
}

func (p *pass) Attributes() *data.BindingMap {
	return p.attributes
}

func (p *pass) Uniforms() *data.BindingMap {
	return p.uniforms
}

func (p *pass) States() *data.BindingMap {
	return p.states
}

func (p *pass) Macros() []data.MacroBinding {
	return p.macros
}

func (p *pass) Variants() *program.VariantCache {
	return p.variants
}

func (p *pass) SelectProgram(scopes data.Scopes, vars map[string]string) (program.Program, error) {
	res, err := p.compiler.Build(p.macros, p.explicit, scopes, vars)
	if err != nil {
		return nil, fmt.Errorf("pass %q: %w", p.name, err)
	}
	if len(res.IncorrectIntegerMacros) > 0 {
		common.Logger().Warn("incorrect integer macros", "pass", p.name, "macros", res.IncorrectIntegerMacros)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if prog, ok := p.variants.Find(res.Signature); ok {
		return prog, nil
	}

	opts := append([]program.ProgramBuilderOption{program.WithDefines(res.Defines)}, p.programOptions...)
	prog, err := program.NewProgram(p.name, p.vertexSource, p.fragmentSource, opts...)
	if err != nil {
		return nil, err
	}
	if p.onCompile != nil {
		if err := p.onCompile(prog); err != nil {
			return nil, fmt.Errorf("pass %q: %w", p.name, err)
		}
	}
	p.variants.Add(res.Signature, prog)
	common.Logger().Debug("program variant compiled", "pass", p.name, "mask", res.Signature.Mask(), "variants", p.variants.Len())
	return prog, nil
}

func (p *pass) Bind(dc drawcall.DrawCall) (*DrawCallBinding, error) {
	prog, err := p.SelectProgram(dc.Scopes(), dc.Variables())
	if err != nil {
		return nil, err
	}
	if err := dc.Bind(prog, p.attributes, p.uniforms, p.states); err != nil {
		return nil, err
	}

	b := &DrawCallBinding{pass: p, drawCall: dc, program: prog}
	b.watchMacros()
	return b, nil
}
