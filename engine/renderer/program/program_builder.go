package program

// ProgramBuilderOption is a functional option used to configure a Program during construction.
type ProgramBuilderOption func(*program)

// WithDefines sets the define text evaluated before both stage sources, typically the output of
// signature compilation.
//
// Parameters:
//   - defines: the define text, one "#define NAME [value]" per line
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithDefines(defines string) ProgramBuilderOption {
	return func(p *program) {
		p.defines = defines
	}
}

// WithClaimedAttributeSlots sets the number of attribute slots already used by the program.
//
// Parameters:
//   - n: the claimed attribute slot count
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithClaimedAttributeSlots(n int) ProgramBuilderOption {
	return func(p *program) {
		p.claimedAttributeSlots = max(n, 0)
	}
}

// WithClaimedTextureSlots sets the number of texture slots already used by the program.
//
// Parameters:
//   - n: the claimed texture slot count
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithClaimedTextureSlots(n int) ProgramBuilderOption {
	return func(p *program) {
		p.claimedTextureSlots = max(n, 0)
	}
}
