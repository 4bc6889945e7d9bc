package utils

// Value dereferences v, returning the zero value for nil. The payments SDK
// leaves optional sub-objects nil.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}
