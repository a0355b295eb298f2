// Package util holds small generic helpers shared across the demo apps.
package util

// Deref returns the value pointed to by p, or the zero value if p is nil.
func Deref[T any](p *T) T {
	if p != nil {
		return *p
	}
	var zero T
	return zero
}

// DerefOr returns the value pointed to by p, or def if p is nil. Used for
// optional request fields with non-zero defaults.
func DerefOr[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}

// NonNilSlice returns s, or an empty slice if s is nil, so list responses
// encode as [] rather than null.
func NonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// MaskSecret hides sensitive parts of a string for safe display in logs.
// If the string is shorter than visiblePrefix, it is fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
