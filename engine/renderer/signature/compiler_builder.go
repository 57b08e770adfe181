package signature

// CompilerBuilderOption is a functional option used to configure a Compiler during construction.
type CompilerBuilderOption func(*compiler)

// WithStrict makes out-of-range integer macros fail the build instead of being reported.
//
// Parameters:
//   - strict: true to enable strict mode
//
// Returns:
//   - CompilerBuilderOption: option function to apply
func WithStrict(strict bool) CompilerBuilderOption {
	return func(c *compiler) {
		c.strict = strict
	}
}

// WithUndefined marks macros that must stay undefined even when their property exists. Their slot
// is still reserved so the slots of the following macros do not move.
//
// Parameters:
//   - names: the macro names
//
// Returns:
//   - CompilerBuilderOption: option function to apply
func WithUndefined(names ...string) CompilerBuilderOption {
	return func(c *compiler) {
		for _, n := range names {
			c.undefined[n] = true
		}
	}
}
