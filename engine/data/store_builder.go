package data

// StoreBuilderOption is a functional option used to configure a Store during construction.
type StoreBuilderOption func(*store)

// WithName sets the diagnostic name of the store, used in error messages.
//
// Parameters:
//   - name: the store name
//
// Returns:
//   - StoreBuilderOption: option function to apply
func WithName(name string) StoreBuilderOption {
	return func(s *store) {
		s.name = name
	}
}

// WithProperty seeds the store with a property. No signal fires for seeded properties.
//
// Parameters:
//   - name: the property name
//   - value: the property value
//
// Returns:
//   - StoreBuilderOption: option function to apply
func WithProperty(name string, value any) StoreBuilderOption {
	return func(s *store) {
		if i, ok := s.index[name]; ok {
			s.slots[i].value = value
			s.slots[i].live = true
			return
		}
		s.index[name] = int32(len(s.slots))
		s.slots = append(s.slots, slot{name: name, value: value, live: true})
	}
}

// WithProperties seeds the store with every entry of props.
//
// Parameters:
//   - props: the properties to seed
//
// Returns:
//   - StoreBuilderOption: option function to apply
func WithProperties(props map[string]any) StoreBuilderOption {
	return func(s *store) {
		for name, value := range props {
			WithProperty(name, value)(s)
		}
	}
}
