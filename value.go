package jsonvalue

import (
	"fmt"
	"math"

	"github.com/reoring/jsonvalue/num"
)

// Kind tags the active variant of a Value. The four numeric kinds are
// mutually exclusive.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber // float64
	KindFloat128
	KindInt128
	KindUint128
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{"null", "bool", "number", "float128", "int128", "uint128", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is a JSON value. A Value exclusively owns its children; copying a
// Value that holds an array or object shares them, use Clone for a deep copy.
// The zero Value is null, and so is a nil *Value for every reading method.
type Value struct {
	kind Kind
	b    bool
	n    num.Number
	s    string
	arr  []Value
	obj  *Object
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a double-valued number.
func Number(f float64) Value { return Value{kind: KindNumber, n: num.Double(f)} }

func Float128(f num.Float128) Value { return Value{kind: KindFloat128, n: num.FromFloat128(f)} }

func Int128(i num.Int128) Value { return Value{kind: KindInt128, n: num.FromInt128(i)} }

func Uint128(u num.Uint128) Value { return Value{kind: KindUint128, n: num.FromUint128(u)} }

// FromNumber wraps n in a Value of the matching numeric kind.
func FromNumber(n num.Number) Value {
	switch n.Kind() {
	case num.KindFloat128:
		return Value{kind: KindFloat128, n: n}
	case num.KindInt128:
		return Value{kind: KindInt128, n: n}
	case num.KindUint128:
		return Value{kind: KindUint128, n: n}
	}
	return Value{kind: KindNumber, n: n}
}

func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array holding elems. The slice is retained.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, arr: elems}
}

// ObjectOf wraps o; a nil o yields an empty object.
func ObjectOf(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// NewObjectValue returns an empty object value.
func NewObjectValue() Value { return ObjectOf(nil) }

func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

func (v *Value) IsNull() bool   { return v.Kind() == KindNull }
func (v *Value) IsBool() bool   { return v.Kind() == KindBool }
func (v *Value) IsString() bool { return v.Kind() == KindString }
func (v *Value) IsArray() bool  { return v.Kind() == KindArray }
func (v *Value) IsObject() bool { return v.Kind() == KindObject }

// IsNumber reports any numeric kind.
func (v *Value) IsNumber() bool {
	switch v.Kind() {
	case KindNumber, KindFloat128, KindInt128, KindUint128:
		return true
	}
	return false
}

// IsNumber128 reports a Float128 value.
func (v *Value) IsNumber128() bool { return v.Kind() == KindFloat128 }
func (v *Value) IsInt128() bool    { return v.Kind() == KindInt128 }
func (v *Value) IsUint128() bool   { return v.Kind() == KindUint128 }

// Num returns the numeric payload.
func (v *Value) Num() (num.Number, bool) {
	if !v.IsNumber() {
		return num.Number{}, false
	}
	return v.n, true
}

// AsNumber is AsFloat64.
func (v *Value) AsNumber() float64 { return v.AsFloat64() }

// AsFloat64 converts any numeric kind to float64. Non-numbers and Float128
// values outside the float64 range return NaN.
func (v *Value) AsFloat64() float64 {
	if !v.IsNumber() {
		return math.NaN()
	}
	return v.n.Float64()
}

// AsInt64 truncates toward zero and saturates; non-numbers and NaN return 0.
func (v *Value) AsInt64() int64 {
	if !v.IsNumber() {
		return 0
	}
	return v.n.Int64()
}

// AsUint64 is AsInt64 for unsigned results; negative values return 0.
func (v *Value) AsUint64() uint64 {
	if !v.IsNumber() {
		return 0
	}
	return v.n.Uint64()
}

func (v *Value) AsInt128() num.Int128 {
	if !v.IsNumber() {
		return num.Int128{}
	}
	return v.n.Int128()
}

func (v *Value) AsUint128() num.Uint128 {
	if !v.IsNumber() {
		return num.Uint128{}
	}
	return v.n.Uint128()
}

// AsFloat128 returns NaN for non-numbers.
func (v *Value) AsFloat128() num.Float128 {
	if !v.IsNumber() {
		return num.NaN128()
	}
	return v.n.Float128()
}

func (v *Value) AsBool() bool { return v.Kind() == KindBool && v.b }

func (v *Value) AsString() string {
	if v.Kind() != KindString {
		return ""
	}
	return v.s
}

// AsArray returns the elements of an array, or nil.
func (v *Value) AsArray() []Value {
	if v.Kind() != KindArray {
		return nil
	}
	return v.arr
}

// AsObject returns the object container, or nil.
func (v *Value) AsObject() *Object {
	if v.Kind() != KindObject {
		return nil
	}
	return v.obj
}

// Len returns the element count of an array or object, and 0 otherwise.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	}
	return 0
}

// Index returns the i-th array element.
func (v *Value) Index(i int) (*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("%w: index on %s", ErrWrongType, v.Kind())
	}
	if i < 0 || i >= len(v.arr) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(v.arr))
	}
	return &v.arr[i], nil
}

// Get returns the member named key. ErrWrongType and ErrKeyNotFound are
// distinct.
func (v *Value) Get(key string) (*Value, error) {
	if v.Kind() != KindObject {
		return nil, fmt.Errorf("%w: key %q on %s", ErrWrongType, key, v.Kind())
	}
	m, ok := v.obj.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return m, nil
}

// Append adds elements to an array.
func (v *Value) Append(elems ...Value) error {
	if v.Kind() != KindArray {
		return fmt.Errorf("%w: append on %s", ErrWrongType, v.Kind())
	}
	v.arr = append(v.arr, elems...)
	return nil
}

// Set stores key in an object, replacing any previous member in place.
func (v *Value) Set(key string, m Value) error {
	if v.Kind() != KindObject {
		return fmt.Errorf("%w: set %q on %s", ErrWrongType, key, v.Kind())
	}
	v.obj.Set(key, m)
	return nil
}

// Delete removes key from an object.
func (v *Value) Delete(key string) error {
	if v.Kind() != KindObject {
		return fmt.Errorf("%w: delete %q on %s", ErrWrongType, key, v.Kind())
	}
	if !v.obj.Delete(key) {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return nil
}

// Clone returns a deep copy.
func (v *Value) Clone() Value {
	if v == nil {
		return Value{}
	}
	out := *v
	switch v.kind {
	case KindArray:
		out.arr = make([]Value, len(v.arr))
		for i := range v.arr {
			out.arr[i] = v.arr[i].Clone()
		}
	case KindObject:
		out.obj = v.obj.Clone()
	}
	return out
}

// String renders compact JSON. Trees nested beyond DefaultMaxDepth render
// an error marker instead.
func (v *Value) String() string {
	b, err := AppendSerialize(nil, v, EncodeOpt{})
	if err != nil {
		return "!(" + err.Error() + ")"
	}
	return string(b)
}
