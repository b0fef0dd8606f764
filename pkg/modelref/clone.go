package modelref

// Clone returns a deep copy of maps and slices so buffered values never share
// storage with the model they were read from. Scalars are returned as-is.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = Clone(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = Clone(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

// CloneMap deep copies a model root. A nil input yields an empty map.
func CloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return make(map[string]any)
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = Clone(v)
	}
	return out
}
