// pre_processor.go implements conditional compilation for WGSL sources. WGSL has no preprocessor of
// its own, so program variants are produced by prepending the define text computed from a program
// signature and evaluating C-style directives line by line:
//
//	#define NAME [value]
//	#undef NAME
//	#ifdef NAME / #ifndef NAME
//	#if EXPR / #elif EXPR   (EXPR: NAME, integer literal, defined(NAME), or !EXPR)
//	#else
//	#endif
//
// Identifiers outside directives that name a macro with a value are replaced by that value.
package program

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var identifierRegex = regexp.MustCompile(`\b[A-Za-z_]\w*\b`)

// condFrame is one level of #if nesting.
type condFrame struct {
	// parentActive is true if the enclosing block emits lines.
	parentActive bool

	// active is true while the current branch emits lines.
	active bool

	// taken is true once any branch of this block has been selected.
	taken bool

	// sawElse is true after #else, after which only #endif is legal.
	sawElse bool
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	macros map[string]string
}

// PreProcessor expands conditional-compilation directives in shader source.
type PreProcessor interface {
	// Process evaluates the directives of defines followed by source and returns the lines of
	// source selected by the active branches, with macro values substituted.
	//
	// Parameters:
	//   - defines: the define text, one "#define NAME [value]" per line
	//   - source: the shader source
	//
	// Returns:
	//   - string: the processed source
	//   - error: an ErrPreProcess error for malformed or unbalanced directives
	Process(defines, source string) (string, error)

	// Macros returns the macros defined at the end of the last Process call.
	//
	// Returns:
	//   - map[string]string: macro values keyed by name; valueless macros map to ""
	Macros() map[string]string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{macros: make(map[string]string)}
}

func (p *preProcessor) Macros() map[string]string {
	out := make(map[string]string, len(p.macros))
	for k, v := range p.macros {
		out[k] = v
	}
	return out
}

func (p *preProcessor) Process(defines, source string) (string, error) {
	clear(p.macros)

	if _, err := p.run(defines, false); err != nil {
		return "", fmt.Errorf("defines: %w", err)
	}
	return p.run(source, true)
}

func (p *preProcessor) run(source string, emit bool) (string, error) {
	var out strings.Builder
	var stack []condFrame
	active := true

	for i, line := range strings.Split(source, "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if !strings.HasPrefix(trimmed, "#") {
			if active && emit {
				out.WriteString(p.substitute(line))
				out.WriteByte('\n')
			}
			continue
		}

		directive, rest, _ := strings.Cut(strings.TrimSpace(trimmed[1:]), " ")
		rest = strings.TrimSpace(rest)

		switch directive {
		case "define":
			if !active {
				continue
			}
			name, value, _ := strings.Cut(rest, " ")
			if name == "" {
				return "", fmt.Errorf("%w: line %d: #define without a name", ErrPreProcess, lineNo)
			}
			p.macros[name] = strings.TrimSpace(value)
		case "undef":
			if active {
				delete(p.macros, rest)
			}
		case "ifdef", "ifndef", "if":
			cond := false
			if active {
				var err error
				switch directive {
				case "ifdef":
					_, cond = p.macros[rest]
				case "ifndef":
					_, defined := p.macros[rest]
					cond = !defined
				default:
					if cond, err = p.eval(rest); err != nil {
						return "", fmt.Errorf("%w: line %d: %v", ErrPreProcess, lineNo, err)
					}
				}
			}
			stack = append(stack, condFrame{parentActive: active, active: active && cond, taken: cond})
			active = active && cond
		case "elif":
			if len(stack) == 0 {
				return "", fmt.Errorf("%w: line %d: #elif without #if", ErrPreProcess, lineNo)
			}
			top := &stack[len(stack)-1]
			if top.sawElse {
				return "", fmt.Errorf("%w: line %d: #elif after #else", ErrPreProcess, lineNo)
			}
			top.active = false
			if top.parentActive && !top.taken {
				cond, err := p.eval(rest)
				if err != nil {
					return "", fmt.Errorf("%w: line %d: %v", ErrPreProcess, lineNo, err)
				}
				top.active, top.taken = cond, cond
			}
			active = top.active
		case "else":
			if len(stack) == 0 {
				return "", fmt.Errorf("%w: line %d: #else without #if", ErrPreProcess, lineNo)
			}
			top := &stack[len(stack)-1]
			if top.sawElse {
				return "", fmt.Errorf("%w: line %d: duplicate #else", ErrPreProcess, lineNo)
			}
			top.sawElse = true
			top.active = top.parentActive && !top.taken
			top.taken = true
			active = top.active
		case "endif":
			if len(stack) == 0 {
				return "", fmt.Errorf("%w: line %d: #endif without #if", ErrPreProcess, lineNo)
			}
			active = stack[len(stack)-1].parentActive
			stack = stack[:len(stack)-1]
		default:
			return "", fmt.Errorf("%w: line %d: unknown directive #%s", ErrPreProcess, lineNo, directive)
		}
	}

	if len(stack) != 0 {
		return "", fmt.Errorf("%w: %d unterminated conditional block(s)", ErrPreProcess, len(stack))
	}
	return strings.TrimSuffix(out.String(), "\n"), nil
}

// eval evaluates an #if / #elif expression.
func (p *preProcessor) eval(expr string) (bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false, fmt.Errorf("empty expression")
	}
	if neg, ok := strings.CutPrefix(expr, "!"); ok {
		v, err := p.eval(neg)
		return !v, err
	}
	if inner, ok := strings.CutPrefix(expr, "defined"); ok {
		inner = strings.TrimSpace(inner)
		inner = strings.TrimSuffix(strings.TrimPrefix(inner, "("), ")")
		_, defined := p.macros[strings.TrimSpace(inner)]
		return defined, nil
	}
	if n, err := strconv.Atoi(expr); err == nil {
		return n != 0, nil
	}

	value, defined := p.macros[expr]
	if !defined || value == "" {
		return false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return false, fmt.Errorf("macro %s has non-integer value %q", expr, value)
	}
	return n != 0, nil
}

func (p *preProcessor) substitute(line string) string {
	if len(p.macros) == 0 {
		return line
	}
	return identifierRegex.ReplaceAllStringFunc(line, func(id string) string {
		if v, ok := p.macros[id]; ok && v != "" {
			return v
		}
		return id
	})
}
