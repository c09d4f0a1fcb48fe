package jsonvalue

import (
	"fmt"
	"unsafe"

	"github.com/reoring/jsonvalue/internal/scan"
)

// Serialize renders v as JSON text. Non-finite numbers render as null.
// Trees nested deeper than the depth guard fail with an error wrapping
// ErrDepthExceeded instead of recursing further.
func Serialize(v *Value, opts ...EncodeOpt) ([]byte, error) {
	var opt EncodeOpt
	if len(opts) > 0 {
		opt = opts[0]
	}
	return AppendSerialize(nil, v, opt)
}

// MustString is Serialize for trees known to be within the depth guard.
func MustString(v *Value, opts ...EncodeOpt) string {
	b, err := Serialize(v, opts...)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// AppendSerialize appends the rendering of v to dst.
func AppendSerialize(dst []byte, v *Value, opt EncodeOpt) ([]byte, error) {
	e := encoder{
		pretty:   opt.Pretty,
		indent:   opt.indent(),
		maxDepth: opt.maxDepth(),
	}
	return e.value(dst, v, 0)
}

type encoder struct {
	pretty   bool
	indent   int
	maxDepth int
}

func (e *encoder) newline(dst []byte, depth int) []byte {
	if !e.pretty {
		return dst
	}
	dst = append(dst, '\n')
	for i := 0; i < depth*e.indent; i++ {
		dst = append(dst, ' ')
	}
	return dst
}

func (e *encoder) value(dst []byte, v *Value, depth int) ([]byte, error) {
	switch v.Kind() {
	case KindNull:
		return append(dst, "null"...), nil
	case KindBool:
		if v.b {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case KindNumber, KindFloat128, KindInt128, KindUint128:
		if !v.n.IsFinite() {
			return append(dst, "null"...), nil
		}
		return v.n.AppendText(dst), nil
	case KindString:
		return appendQuoted(dst, v.s), nil
	case KindArray:
		return e.array(dst, v.arr, depth)
	case KindObject:
		return e.object(dst, v.obj, depth)
	}
	return dst, fmt.Errorf("jsonvalue: cannot serialize %s", v.Kind())
}

func (e *encoder) enter(depth int) error {
	if depth >= e.maxDepth {
		return fmt.Errorf("%w: serializer nesting exceeds %d", ErrDepthExceeded, e.maxDepth)
	}
	return nil
}

func (e *encoder) array(dst []byte, elems []Value, depth int) ([]byte, error) {
	if err := e.enter(depth); err != nil {
		return dst, err
	}
	if len(elems) == 0 {
		return append(dst, "[]"...), nil
	}
	dst = append(dst, '[')
	var err error
	for i := range elems {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = e.newline(dst, depth+1)
		if dst, err = e.value(dst, &elems[i], depth+1); err != nil {
			return dst, err
		}
	}
	dst = e.newline(dst, depth)
	return append(dst, ']'), nil
}

func (e *encoder) object(dst []byte, o *Object, depth int) ([]byte, error) {
	if err := e.enter(depth); err != nil {
		return dst, err
	}
	if o.Len() == 0 {
		return append(dst, "{}"...), nil
	}
	dst = append(dst, '{')
	var err error
	for i := range o.keys {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = e.newline(dst, depth+1)
		dst = appendQuoted(dst, o.keys[i])
		dst = append(dst, ':')
		if e.pretty {
			dst = append(dst, ' ')
		}
		if dst, err = e.value(dst, &o.vals[i], depth+1); err != nil {
			return dst, err
		}
	}
	dst = e.newline(dst, depth)
	return append(dst, '}'), nil
}

const hexDigits = "0123456789abcdef"

// appendQuoted writes s as a JSON string. Only quote, backslash and control
// bytes are escaped; everything else is copied verbatim.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	data := stringBytes(s)
	for i := 0; ; {
		j := scan.FindStringEnd(data, i)
		dst = append(dst, data[i:j]...)
		if j >= len(data) {
			break
		}
		switch c := data[j]; c {
		case '"', '\\':
			dst = append(dst, '\\', c)
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		i = j + 1
	}
	return append(dst, '"')
}

// stringBytes views s as bytes; the result must not be modified.
func stringBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
