package object

// IsScalar reports whether v is a native scalar: a plain Go numeric or
// boolean value the kernels can broadcast directly.
//
// Native scalars never participate in override dispatch, mirroring how
// native arrays are skipped during candidate discovery.
func IsScalar(v any) bool {
	switch v.(type) {
	case float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		complex64, complex128,
		bool:
		return true
	default:
		return false
	}
}

// ScalarValue converts a native scalar to float64 for kernel broadcast.
// The second return is false for non-scalars and for scalar kinds the
// float64 kernels cannot represent (complex values).
func ScalarValue(v any) (float64, bool) {
	switch s := v.(type) {
	case float64:
		return s, true
	case float32:
		return float64(s), true
	case int:
		return float64(s), true
	case int8:
		return float64(s), true
	case int16:
		return float64(s), true
	case int32:
		return float64(s), true
	case int64:
		return float64(s), true
	case uint:
		return float64(s), true
	case uint8:
		return float64(s), true
	case uint16:
		return float64(s), true
	case uint32:
		return float64(s), true
	case uint64:
		return float64(s), true
	case bool:
		if s {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
