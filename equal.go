package jsonvalue

import "github.com/reoring/jsonvalue/num"

// Equal reports structural equality. Numbers compare by exact value across
// representations, so Number(2) equals an Int128 2, and NaN equals NaN.
// Object members compare by key regardless of order.
func Equal(a, b *Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return num.Equal(a.n, b.n)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(&a.arr[i], &b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for i, k := range a.obj.keys {
			m, ok := b.obj.Get(k)
			if !ok || !Equal(&a.obj.vals[i], m) {
				return false
			}
		}
		return true
	}
	return false
}
