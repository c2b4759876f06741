// Package ptr has helpers for optional values carried as pointers.
package ptr

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// ValueOr returns *p, or fallback when p is nil.
func ValueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
