package common

import "cmp"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// SplitArrayName splits an indexed input name such as "lights[2].color" into its base name
// ("lights") and the remaining suffix ("[2].color"). Names without '[' return an empty suffix.
//
// Parameters:
//   - name: the possibly indexed name
//
// Returns:
//   - string: the base name
//   - string: the suffix starting at the first '[' or ""
func SplitArrayName(name string) (string, string) {
	for i := 0; i < len(name); i++ {
		if name[i] == '[' {
			return name[:i], name[i:]
		}
	}
	return name, ""
}

// Clamp limits v to the closed range [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
