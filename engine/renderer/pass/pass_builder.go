package pass

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/signature"
)

// PassBuilderOption is a functional option used to configure a Pass during construction.
type PassBuilderOption func(*pass)

// WithMacros appends macro bindings. Their order fixes their signature slots.
//
// Parameters:
//   - macros: the macro bindings
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithMacros(macros ...data.MacroBinding) PassBuilderOption {
	return func(p *pass) {
		p.macros = append(p.macros, macros...)
	}
}

// WithDefinition adds an explicit definition. It overrides a macro binding of the same name.
//
// Parameters:
//   - name: the macro name
//   - def: how the macro is defined
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithDefinition(name string, def data.MacroDefault) PassBuilderOption {
	return func(p *pass) {
		p.explicit = append(p.explicit, signature.ExplicitDefinition{Name: name, Default: def})
	}
}

// WithUndefined keeps the named macros undefined whatever the scene data says.
//
// Parameters:
//   - names: the macro names
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithUndefined(names ...string) PassBuilderOption {
	return func(p *pass) {
		p.undefined = append(p.undefined, names...)
	}
}

// WithStrict makes out-of-range integer macros fail program selection.
//
// Parameters:
//   - strict: true to enable strict mode
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithStrict(strict bool) PassBuilderOption {
	return func(p *pass) {
		p.strict = strict
	}
}

// WithAttributeBindings sets the attribute binding map.
//
// Parameters:
//   - m: the attribute bindings
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithAttributeBindings(m *data.BindingMap) PassBuilderOption {
	return func(p *pass) {
		p.attributes = m
	}
}

// WithUniformBindings sets the uniform binding map.
//
// Parameters:
//   - m: the uniform bindings
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithUniformBindings(m *data.BindingMap) PassBuilderOption {
	return func(p *pass) {
		p.uniforms = m
	}
}

// WithStateBindings sets the state binding map.
//
// Parameters:
//   - m: the state bindings
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithStateBindings(m *data.BindingMap) PassBuilderOption {
	return func(p *pass) {
		p.states = m
	}
}

// WithProgramOptions sets options applied to every program variant the pass compiles.
//
// Parameters:
//   - options: the program options
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithProgramOptions(options ...program.ProgramBuilderOption) PassBuilderOption {
	return func(p *pass) {
		p.programOptions = append(p.programOptions, options...)
	}
}

// WithOnCompile sets a callback run for each newly compiled variant before it is cached, typically
// the renderer's program registration. A failing callback fails the selection and the variant is
// not cached.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - PassBuilderOption: option function to apply
func WithOnCompile(fn func(program.Program) error) PassBuilderOption {
	return func(p *pass) {
		p.onCompile = fn
	}
}
