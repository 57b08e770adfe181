package scene

import "reflect"

// AddComponent registers c as the capability of type T on id, replacing a previous one.
//
// Parameters:
//   - g: the graph
//   - id: the node
//   - c: the capability
//
// Returns:
//   - error: ErrInvalidNode if id is not live
func AddComponent[T any](g Graph, id NodeID, c T) error {
	return g.SetComponent(id, reflect.TypeFor[T](), c)
}

// Component returns the capability of type T on id.
//
// Parameters:
//   - g: the graph
//   - id: the node
//
// Returns:
//   - T: the capability, the zero value if absent
//   - bool: true if present
func Component[T any](g Graph, id NodeID) (T, bool) {
	c, ok := g.LookupComponent(id, reflect.TypeFor[T]())
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := c.(T)
	return v, ok
}

// HasComponent reports whether id carries a capability of type T.
func HasComponent[T any](g Graph, id NodeID) bool {
	_, ok := g.LookupComponent(id, reflect.TypeFor[T]())
	return ok
}

// RemoveComponent removes the capability of type T from id.
//
// Returns:
//   - bool: true if a capability was removed
func RemoveComponent[T any](g Graph, id NodeID) bool {
	return g.DeleteComponent(id, reflect.TypeFor[T]())
}

// TypeOf returns the registry key of capabilities of type T, for comparison with ComponentEvent.Type.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
