package drawcall

import "github.com/Carmen-Shannon/oxy-bind/engine/data"

// DrawCallBuilderOption is a functional option used to configure a DrawCall during construction.
type DrawCallBuilderOption func(*drawCall)

// WithVariables sets the variable table used to resolve ${variable} placeholders in property paths.
//
// Parameters:
//   - vars: the variables, e.g. {"geometryUuid": "7"}
//
// Returns:
//   - DrawCallBuilderOption: option function to apply
func WithVariables(vars map[string]string) DrawCallBuilderOption {
	return func(d *drawCall) {
		for k, v := range vars {
			d.vars[k] = v
		}
	}
}

// WithSorter replaces the default eye-space sorter.
//
// Parameters:
//   - factory: creates the sorter from the scopes and variables of the draw call
//
// Returns:
//   - DrawCallBuilderOption: option function to apply
func WithSorter(factory SorterFactory) DrawCallBuilderOption {
	return func(d *drawCall) {
		d.sorterFactory = factory
	}
}

// WithDefaultStates replaces the store consulted for fixed-function states that are neither bound
// nor given a default. The store must hold a value of the expected type for every state name.
//
// Parameters:
//   - states: the default state store
//
// Returns:
//   - DrawCallBuilderOption: option function to apply
func WithDefaultStates(states data.Store) DrawCallBuilderOption {
	return func(d *drawCall) {
		d.defaultStates = states
	}
}
