package utils

// DereferencePtr returns the pointed-to value, or def (zero value if omitted).
func DereferencePtr[T any](p *T, def ...T) T {
	if p != nil {
		return *p
	}
	if len(def) > 0 {
		return def[0]
	}
	var zero T
	return zero
}

func Ptr[T any](v T) *T {
	return &v
}
