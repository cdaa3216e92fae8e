package util

// CopyToAny copies a slice of any element type into a fresh []any. The
// second result is false when v is not a slice.
func CopyToAny(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil:
		return []any{}, true
	case []any:
		return append(make([]any, 0, len(t)+1), t...), true
	case []string:
		return toAny(t), true
	case []int:
		return toAny(t), true
	case []float64:
		return toAny(t), true
	case []bool:
		return toAny(t), true
	}
	return nil, false
}

func toAny[T any](s []T) []any {
	out := make([]any, len(s), len(s)+1)
	for i, item := range s {
		out[i] = item
	}
	return out
}
