package reactive

import "reflect"

// identical reports whether old and new count as the same value for the
// engine's write paths. Comparable values compare with ==, which gives
// reference identity for pointers and value identity for scalars. Maps and
// slices compare by data pointer, so a mutated-in-place container still
// counts as changed only when rebound. Values that cannot be compared never
// count as identical; their writes always go through.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	switch ta.Kind() {
	case reflect.Map:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	default:
		return false
	}
}
