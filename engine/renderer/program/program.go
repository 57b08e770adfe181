package program

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrPreProcess is returned when conditional-compilation directives are malformed.
var ErrPreProcess = errors.New("shader pre-processing failed")

// nextProgramID hands out process-unique program ids. 0 is never used.
var nextProgramID atomic.Uint32

// program is the implementation of the Program interface.
type program struct {
	id  uint32
	key string

	vertexSource, fragmentSource string
	vertexEntry, fragmentEntry   string
	defines                      string

	attributes []Input
	uniforms   []Input

	claimedAttributeSlots int
	claimedTextureSlots   int
}

// Program is a compiled program variant: the processed vertex and fragment sources together with
// the ordered input descriptors reflected from them.
type Program interface {
	// ID returns the process-unique id of the program, used as the program handle by GPU contexts.
	//
	// Returns:
	//   - uint32: the program id
	ID() uint32

	// Key returns the key of the pass or effect this program was compiled for.
	//
	// Returns:
	//   - string: the program key
	Key() string

	// Defines returns the define text the variant was compiled with.
	//
	// Returns:
	//   - string: the define text
	Defines() string

	// VertexSource returns the processed vertex stage source.
	//
	// Returns:
	//   - string: the WGSL source
	VertexSource() string

	// FragmentSource returns the processed fragment stage source.
	//
	// Returns:
	//   - string: the WGSL source
	FragmentSource() string

	// VertexEntryPoint returns the name of the @vertex function.
	//
	// Returns:
	//   - string: the entry point name, or "" if none was found
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	//
	// Returns:
	//   - string: the entry point name, or "" if none was found
	FragmentEntryPoint() string

	// Attributes returns the vertex attribute inputs, ordered by location.
	//
	// Returns:
	//   - []Input: the attribute inputs
	Attributes() []Input

	// Uniforms returns the uniform and texture inputs in declaration order, vertex stage first.
	//
	// Returns:
	//   - []Input: the uniform inputs
	Uniforms() []Input

	// ClaimedAttributeSlots returns the number of attribute slots the program itself already uses.
	// Draw calls number their vertex buffer positions after these.
	//
	// Returns:
	//   - int: the claimed attribute slot count
	ClaimedAttributeSlots() int

	// ClaimedTextureSlots returns the number of texture slots the program itself already uses.
	// Draw calls number their texture positions after these.
	//
	// Returns:
	//   - int: the claimed texture slot count
	ClaimedTextureSlots() int

	// Module returns the shader module descriptor for the given stage.
	//
	// Parameters:
	//   - stage: wgpu.ShaderStageVertex or wgpu.ShaderStageFragment
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor, or nil for other stages
	Module(stage wgpu.ShaderStage) *wgpu.ShaderModuleDescriptor
}

var _ Program = &program{}

// NewProgram pre-processes the vertex and fragment sources with the configured define text and
// reflects their inputs. When both stages live in one file the same source may be passed twice;
// uniforms declared by both stages are reported once.
//
// Parameters:
//   - key: the key of the pass or effect the program belongs to
//   - vertexSource: the WGSL source of the vertex stage
//   - fragmentSource: the WGSL source of the fragment stage
//   - options: functional options configuring the program
//
// Returns:
//   - Program: the compiled program
//   - error: an ErrPreProcess error if either source has malformed directives
func NewProgram(key, vertexSource, fragmentSource string, options ...ProgramBuilderOption) (Program, error) {
	p := &program{key: key}
	for _, opt := range options {
		opt(p)
	}

	pp := NewPreProcessor()
	vs, err := pp.Process(p.defines, vertexSource)
	if err != nil {
		return nil, fmt.Errorf("program %q vertex stage: %w", key, err)
	}
	fs, err := pp.Process(p.defines, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("program %q fragment stage: %w", key, err)
	}

	p.vertexSource, p.fragmentSource = vs, fs
	p.vertexEntry = entryPoint(vs, vertexEntryRegex)
	p.fragmentEntry = entryPoint(fs, fragmentEntryRegex)
	p.attributes = reflectAttributes(vs)
	p.uniforms = mergeUniforms(reflectUniforms(vs), reflectUniforms(fs))
	p.id = nextProgramID.Add(1)

	return p, nil
}

func (p *program) ID() uint32 {
	return p.id
}

func (p *program) Key() string {
	return p.key
}

func (p *program) Defines() string {
	return p.defines
}

func (p *program) VertexSource() string {
	return p.vertexSource
}

func (p *program) FragmentSource() string {
	return p.fragmentSource
}

func (p *program) VertexEntryPoint() string {
	return p.vertexEntry
}

func (p *program) FragmentEntryPoint() string {
	return p.fragmentEntry
}

func (p *program) Attributes() []Input {
	return p.attributes
}

func (p *program) Uniforms() []Input {
	return p.uniforms
}

func (p *program) ClaimedAttributeSlots() int {
	return p.claimedAttributeSlots
}

func (p *program) ClaimedTextureSlots() int {
	return p.claimedTextureSlots
}

func (p *program) Module(stage wgpu.ShaderStage) *wgpu.ShaderModuleDescriptor {
	var code string
	switch stage {
	case wgpu.ShaderStageVertex:
		code = p.vertexSource
	case wgpu.ShaderStageFragment:
		code = p.fragmentSource
	default:
		return nil
	}
	return &wgpu.ShaderModuleDescriptor{
		Label:          fmt.Sprintf("%s#%d", p.key, p.id),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	}
}

// mergeUniforms appends the inputs of b not already present in a, keyed by name.
func mergeUniforms(a, b []Input) []Input {
	seen := make(map[string]bool, len(a))
	for _, in := range a {
		seen[in.Name] = true
	}
	for _, in := range b {
		if !seen[in.Name] {
			a = append(a, in)
			seen[in.Name] = true
		}
	}
	return a
}
