package signature

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-bind/engine/data"
)

// ExplicitDefinition is a macro defined by the pass itself rather than by scene data. It takes
// precedence over a macro binding of the same name.
type ExplicitDefinition struct {
	Name    string
	Default data.MacroDefault
}

// Result is the output of a signature build.
type Result struct {
	// Signature is the comparable variant key.
	Signature Signature

	// Defines holds one "#define NAME [value]" line per defined macro, in slot order.
	Defines string

	// BooleanMacros lists the bound macros defined without a value because their property exists.
	BooleanMacros []string

	// IntegerMacros lists the bound macros whose property holds an in-range value greater than 0.
	IntegerMacros []string

	// IncorrectIntegerMacros lists the bound macros whose property holds an out-of-range value.
	IncorrectIntegerMacros []string
}

// compiler is the implementation of the Compiler interface.
type compiler struct {
	strict    bool
	undefined map[string]bool
}

// Compiler derives program signatures and define text from macro bindings evaluated against the
// three binding scopes.
type Compiler interface {
	// Build walks macros in order, assigning slot i to macros[i], then assigns the following slots to
	// the explicit definitions no macro binding consumed. A macro is defined when an explicit
	// definition names it, when its property exists in the scope store, or when its default is
	// PropertyExists or Value, unless the compiler was configured to leave it undefined.
	//
	// Integer macros are range-checked against [Min, Max]. Out-of-range values are reported in
	// IncorrectIntegerMacros and still defined, or fail the build in strict mode.
	//
	// Parameters:
	//   - macros: the ordered macro bindings
	//   - explicit: the explicit definitions of the pass, in declaration order
	//   - scopes: the target, renderer and root stores
	//   - vars: the variable table used to resolve ${variable} placeholders in property names
	//
	// Returns:
	//   - Result: the signature, define text and categorized macro lists
	//   - error: ErrMacroOverflow if more than MaxMacros slots are needed, ErrMacroOutOfRange in strict mode
	Build(macros []data.MacroBinding, explicit []ExplicitDefinition, scopes data.Scopes, vars map[string]string) (Result, error)

	// Strict reports whether out-of-range integer macros fail the build.
	//
	// Returns:
	//   - bool: true in strict mode
	Strict() bool
}

var _ Compiler = &compiler{}

// NewCompiler creates a Compiler configured by the given options.
//
// Parameters:
//   - options: functional options configuring the compiler
//
// Returns:
//   - Compiler: the new compiler
func NewCompiler(options ...CompilerBuilderOption) Compiler {
	c := &compiler{undefined: make(map[string]bool)}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *compiler) Strict() bool {
	return c.strict
}

func (c *compiler) Build(macros []data.MacroBinding, explicit []ExplicitDefinition, scopes data.Scopes, vars map[string]string) (Result, error) {
	var res Result
	var defines strings.Builder

	pending := make(map[string]data.MacroDefault, len(explicit))
	for _, e := range explicit {
		pending[e.Name] = e.Default
	}

	for slot, mb := range macros {
		if slot >= MaxMacros {
			return Result{}, fmt.Errorf("%w: macro %q needs slot %d of %d", ErrMacroOverflow, mb.Name, slot+1, MaxMacros)
		}

		var (
			exists, isInt bool
			value         int
			def           data.MacroDefault
		)
		if d, ok := pending[mb.Name]; ok {
			exists = true
			def = d
			isInt = d.Semantic == data.MacroDefaultValue
			value = d.Value
			delete(pending, mb.Name)
		} else {
			if store := scopes.Store(mb.Scope); store != nil {
				var v any
				if v, exists = store.Get(data.ResolvePropertyName(mb.PropertyName, vars)); exists {
					value, isInt = intValue(v)
				}
			}
			def = mb.Default
		}

		defaultExists := def.Semantic == data.MacroDefaultPropertyExists
		defaultInt := def.Semantic == data.MacroDefaultValue
		if !exists && !defaultExists && !defaultInt {
			continue
		}
		if c.undefined[mb.Name] {
			continue
		}

		if !isInt && !defaultInt {
			res.Signature.set(slot, 0)
			defines.WriteString("#define " + mb.Name + "\n")
			if exists {
				res.BooleanMacros = append(res.BooleanMacros, mb.Name)
			}
			continue
		}

		if !isInt {
			value = def.Value
		}
		res.Signature.set(slot, value)

		if value < mb.Min || value > mb.Max {
			if c.strict {
				return Result{}, fmt.Errorf("%w: %s = %d not in [%d, %d]", ErrMacroOutOfRange, mb.Name, value, mb.Min, mb.Max)
			}
			if exists {
				res.IncorrectIntegerMacros = append(res.IncorrectIntegerMacros, mb.Name)
			}
		} else if exists && value > 0 {
			res.IntegerMacros = append(res.IntegerMacros, mb.Name)
		}
		defines.WriteString("#define " + mb.Name + " " + strconv.Itoa(value) + "\n")
	}

	slot := len(macros)
	for _, e := range explicit {
		d, ok := pending[e.Name]
		if !ok {
			continue
		}
		delete(pending, e.Name)

		if slot >= MaxMacros {
			return Result{}, fmt.Errorf("%w: explicit definition %q needs slot %d of %d", ErrMacroOverflow, e.Name, slot+1, MaxMacros)
		}

		if d.Semantic == data.MacroDefaultValue {
			res.Signature.set(slot, d.Value)
			defines.WriteString("#define " + e.Name + " " + strconv.Itoa(d.Value) + "\n")
		} else {
			res.Signature.set(slot, 0)
			defines.WriteString("#define " + e.Name + "\n")
		}
		slot++
	}

	res.Defines = defines.String()
	return res, nil
}

// intValue reports whether v holds a signed integer and returns it. Unsigned values are resource
// ids (textures, buffers) and only count as present.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
