package data

import (
	"fmt"
	"strings"
)

// Scope selects which of the three property stores a binding resolves against.
type Scope int

const (
	// ScopeTarget resolves against the properties of the object being drawn.
	ScopeTarget Scope = iota

	// ScopeRenderer resolves against the properties of the renderer or pass issuing the draw.
	ScopeRenderer

	// ScopeRoot resolves against scene-wide properties.
	ScopeRoot
)

// String returns the lower-case name of the scope as used in effect files.
func (s Scope) String() string {
	switch s {
	case ScopeTarget:
		return "target"
	case ScopeRenderer:
		return "renderer"
	case ScopeRoot:
		return "root"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// ParseScope converts an effect-file scope name into a Scope.
//
// Parameters:
//   - name: "target", "renderer" or "root" (case-insensitive)
//
// Returns:
//   - Scope: the parsed scope
//   - error: an error if the name is unknown
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(name) {
	case "", "target":
		return ScopeTarget, nil
	case "renderer":
		return ScopeRenderer, nil
	case "root":
		return ScopeRoot, nil
	default:
		return 0, fmt.Errorf("unknown binding scope %q", name)
	}
}

// Scopes groups the three stores a draw call or signature is evaluated against.
type Scopes struct {
	Target   Store
	Renderer Store
	Root     Store
}

// Store returns the store backing the given scope.
//
// Parameters:
//   - scope: the scope to look up
//
// Returns:
//   - Store: the store for the scope, or nil if the scope is unknown
func (s Scopes) Store(scope Scope) Store {
	switch scope {
	case ScopeTarget:
		return s.Target
	case ScopeRenderer:
		return s.Renderer
	case ScopeRoot:
		return s.Root
	default:
		return nil
	}
}

// Binding links a shader input to a property path in one scope.
type Binding struct {
	// PropertyName is the property path, possibly containing ${variable} placeholders.
	PropertyName string

	// Scope selects the store the property is looked up in.
	Scope Scope
}

// BindingMap associates shader input names with bindings, plus a store of default values keyed by
// input name used when the bound property is absent.
type BindingMap struct {
	// Bindings maps an input name to its binding.
	Bindings map[string]Binding

	// Defaults holds fallback values keyed by input name.
	Defaults Store
}

// NewBindingMap creates a BindingMap configured by the given options.
//
// Parameters:
//   - options: functional options adding bindings and defaults
//
// Returns:
//   - *BindingMap: the new binding map
func NewBindingMap(options ...BindingMapBuilderOption) *BindingMap {
	m := &BindingMap{
		Bindings: make(map[string]Binding),
		Defaults: NewStore(WithName("defaults")),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Binding returns the binding configured for an input name.
//
// Parameters:
//   - input: the shader input name
//
// Returns:
//   - Binding: the binding
//   - bool: true if the input is bound
func (m *BindingMap) Binding(input string) (Binding, bool) {
	if m == nil {
		return Binding{}, false
	}
	b, ok := m.Bindings[input]
	return b, ok
}

// HasDefault reports whether a default value exists for an input name.
//
// Parameters:
//   - input: the shader input name
//
// Returns:
//   - bool: true if a default exists
func (m *BindingMap) HasDefault(input string) bool {
	return m != nil && m.Defaults != nil && m.Defaults.Has(input)
}

// MacroSemantic describes how a macro behaves when its bound property is absent.
type MacroSemantic int

const (
	// MacroDefaultNone leaves the macro undefined when its property is absent.
	MacroDefaultNone MacroSemantic = iota

	// MacroDefaultPropertyExists defines the macro without a value when its property is absent.
	MacroDefaultPropertyExists

	// MacroDefaultValue defines the macro with MacroDefault.Value when its property is absent.
	MacroDefaultValue
)

// MacroDefault is the fallback used for a macro whose property is absent, and the form of an
// explicit pass-level definition.
type MacroDefault struct {
	Semantic MacroSemantic
	Value    int
}

// MacroBinding binds a conditional-compilation macro to a property. Integer-valued macros are
// range-checked against [Min, Max].
type MacroBinding struct {
	// Name is the macro name emitted in the define text.
	Name string

	// PropertyName is the property path, possibly containing ${variable} placeholders.
	PropertyName string

	// Scope selects the store the property is looked up in.
	Scope Scope

	// Default is used when the property is absent.
	Default MacroDefault

	// Min and Max bound integer values. Values outside the range are reported as incorrect.
	Min, Max int
}

// ResolvePropertyName substitutes every ${key} placeholder in name with vars[key]. Placeholders
// with no matching variable are left untouched.
//
// Parameters:
//   - name: the property path
//   - vars: the variable table
//
// Returns:
//   - string: the resolved property path
func ResolvePropertyName(name string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(name, "${") {
		return name
	}

	var b strings.Builder
	b.Grow(len(name))
	for {
		start := strings.Index(name, "${")
		if start < 0 {
			break
		}
		end := strings.IndexByte(name[start+2:], '}')
		if end < 0 {
			break
		}
		end += start + 2

		b.WriteString(name[:start])
		if v, ok := vars[name[start+2:end]]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(name[start : end+1])
		}
		name = name[end+1:]
	}
	b.WriteString(name)
	return b.String()
}
