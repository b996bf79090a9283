package pointers

func Float64(v float64) *float64 { return &v }
func Int64(v int64) *int64       { return &v }
func Uint(v uint) *uint          { return &v }
func String(v string) *string    { return &v }

// Deref returns the pointed-to value or the zero value for nil.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// StringOrNil returns nil for blank strings.
func StringOrNil(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
