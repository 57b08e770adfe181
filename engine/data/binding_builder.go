package data

// BindingMapBuilderOption is a functional option used to configure a BindingMap during construction.
type BindingMapBuilderOption func(*BindingMap)

// WithBinding binds a shader input to a property in the given scope.
//
// Parameters:
//   - input: the shader input name
//   - propertyName: the property path, possibly containing ${variable} placeholders
//   - scope: the scope the property is looked up in
//
// Returns:
//   - BindingMapBuilderOption: option function to apply
func WithBinding(input, propertyName string, scope Scope) BindingMapBuilderOption {
	return func(m *BindingMap) {
		m.Bindings[input] = Binding{PropertyName: propertyName, Scope: scope}
	}
}

// WithDefault sets the fallback value used for an input when its bound property is absent.
//
// Parameters:
//   - input: the shader input name
//   - value: the default value
//
// Returns:
//   - BindingMapBuilderOption: option function to apply
func WithDefault(input string, value any) BindingMapBuilderOption {
	return func(m *BindingMap) {
		m.Defaults.Set(input, value)
	}
}
