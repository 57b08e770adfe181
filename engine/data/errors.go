package data

import "errors"

var (
	// ErrPropertyNotFound is returned when a property does not exist in the queried store.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrPropertyType is returned when a property exists but holds a value of another type.
	ErrPropertyType = errors.New("property has unexpected type")
)
