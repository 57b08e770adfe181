package drawcall

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBinding is returned when a bound input has no property in its scope and no default.
	ErrMissingBinding = errors.New("bound property is not defined and no default value was provided")

	// ErrUnsupportedInputType is returned for program inputs the binder cannot upload.
	ErrUnsupportedInputType = errors.New("unsupported program input type")
)

// BindingError describes why one program input could not be bound.
type BindingError struct {
	// Kind is the input category: "attribute", "uniform", "sampler state" or "state".
	Kind string

	// Input is the program input name.
	Input string

	// Binding is the binding name the input was looked up under.
	Binding string

	// Property is the resolved property path that was tried, if any.
	Property string

	// Err is the underlying sentinel.
	Err error
}

func (e *BindingError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Input, e.Err)
	}
	return fmt.Sprintf("%s %q is bound to the %q property: %v", e.Kind, e.Input, e.Property, e.Err)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}
