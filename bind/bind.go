// Package bind moves data between Go values and jsonvalue trees using
// goccy/go-json for the Go side.
package bind

import (
	"bytes"
	"fmt"
	"io"

	j "github.com/goccy/go-json"

	jsonvalue "github.com/reoring/jsonvalue"
	"github.com/reoring/jsonvalue/num"
)

// FromGo encodes x with go-json and parses the result, so integers beyond
// 15 digits keep their exact value as Int128/Uint128.
func FromGo(x any, opts ...jsonvalue.ParseOpt) (jsonvalue.Value, error) {
	b, err := j.Marshal(x)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("bind: marshal %T: %w", x, err)
	}
	return jsonvalue.Parse(b, opts...)
}

// Into serializes v and decodes it into dst, which must be a pointer.
func Into(v *jsonvalue.Value, dst any) error {
	b, err := jsonvalue.Serialize(v)
	if err != nil {
		return err
	}
	dec := j.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("bind: decode into %T: %w", dst, err)
	}
	return nil
}

// ToAny converts a tree to map[string]any / []any form. Numbers become
// go-json Numbers carrying their canonical text; non-finite ones become nil.
func ToAny(v *jsonvalue.Value) any {
	switch v.Kind() {
	case jsonvalue.KindBool:
		return v.AsBool()
	case jsonvalue.KindNumber, jsonvalue.KindFloat128, jsonvalue.KindInt128, jsonvalue.KindUint128:
		n, _ := v.Num()
		if !n.IsFinite() {
			return nil
		}
		return j.Number(n.String())
	case jsonvalue.KindString:
		return v.AsString()
	case jsonvalue.KindArray:
		elems := v.AsArray()
		out := make([]any, len(elems))
		for i := range elems {
			out[i] = ToAny(&elems[i])
		}
		return out
	case jsonvalue.KindObject:
		o := v.AsObject()
		out := make(map[string]any, o.Len())
		o.Range(func(k string, m *jsonvalue.Value) bool {
			out[k] = ToAny(m)
			return true
		})
		return out
	}
	return nil
}

// Decode reads exactly one JSON value from r through go-json's token
// decoder. Numbers arrive as literals and are classified the same way
// Parse classifies them. Depth is limited by the options' MaxDepth.
func Decode(r io.Reader, opts ...jsonvalue.ParseOpt) (jsonvalue.Value, error) {
	var opt jsonvalue.ParseOpt
	if len(opts) > 0 {
		opt = opts[0]
	}
	maxDepth := opt.MaxDepth
	if maxDepth <= 0 {
		maxDepth = jsonvalue.DefaultMaxDepth
	}
	dec := j.NewDecoder(r)
	dec.UseNumber()
	b := &builder{lim: opt.Limits, rejectDups: opt.Dialect.Has(jsonvalue.DialectRejectDuplicateKeys)}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return jsonvalue.Value{}, fmt.Errorf("bind: unexpected end of input: %w", jsonvalue.ErrInvalidSyntax)
		}
		if err != nil {
			return jsonvalue.Value{}, fmt.Errorf("bind: %v: %w", err, jsonvalue.ErrInvalidSyntax)
		}
		switch t := tok.(type) {
		case j.Delim:
			switch t {
			case '{', '[':
				if len(b.stack) >= maxDepth {
					return jsonvalue.Value{}, fmt.Errorf("bind: nesting exceeds %d: %w", maxDepth, jsonvalue.ErrDepthExceeded)
				}
				fr := frame{object: t == '{'}
				if fr.object {
					fr.v = jsonvalue.NewObjectValue()
				} else {
					fr.v = jsonvalue.Array()
				}
				b.stack = append(b.stack, fr)
			default:
				n := len(b.stack) - 1
				closed := b.stack[n].v
				b.stack = b.stack[:n]
				if err := b.add(closed); err != nil {
					return jsonvalue.Value{}, err
				}
			}
		case string:
			if n := len(b.stack); n > 0 && b.stack[n-1].object && !b.stack[n-1].haveKey {
				b.stack[n-1].key, b.stack[n-1].haveKey = t, true
				continue
			}
			if err := b.add(jsonvalue.String(t)); err != nil {
				return jsonvalue.Value{}, err
			}
		case j.Number:
			v, err := numberValue(string(t), b.lim)
			if err != nil {
				return jsonvalue.Value{}, err
			}
			if err := b.add(v); err != nil {
				return jsonvalue.Value{}, err
			}
		case bool:
			if err := b.add(jsonvalue.Bool(t)); err != nil {
				return jsonvalue.Value{}, err
			}
		case nil:
			if err := b.add(jsonvalue.Null()); err != nil {
				return jsonvalue.Value{}, err
			}
		default:
			return jsonvalue.Value{}, fmt.Errorf("bind: unexpected token %T: %w", tok, jsonvalue.ErrInvalidSyntax)
		}
		if b.done {
			if _, err := dec.Token(); err != io.EOF {
				return jsonvalue.Value{}, fmt.Errorf("bind: unexpected data after top-level value: %w", jsonvalue.ErrInvalidSyntax)
			}
			return b.root, nil
		}
	}
}

type frame struct {
	v       jsonvalue.Value
	object  bool
	key     string
	haveKey bool
}

type builder struct {
	stack []frame
	root  jsonvalue.Value
	done  bool
	lim   num.Limits

	rejectDups bool
}

// add attaches a completed value to the open container, or makes it the root.
func (b *builder) add(v jsonvalue.Value) error {
	n := len(b.stack)
	if n == 0 {
		b.root, b.done = v, true
		return nil
	}
	top := &b.stack[n-1]
	if !top.object {
		return top.v.Append(v)
	}
	top.haveKey = false
	if b.rejectDups && top.v.AsObject().Has(top.key) {
		return fmt.Errorf("bind: duplicate key %q: %w", top.key, jsonvalue.ErrDuplicateKey)
	}
	return top.v.Set(top.key, v)
}

func numberValue(lit string, lim num.Limits) (jsonvalue.Value, error) {
	data := []byte(lit)
	sp, err := num.ScanLiteral(data, 0)
	if err != nil || sp.End != len(data) {
		return jsonvalue.Value{}, fmt.Errorf("bind: malformed number %q: %w", lit, jsonvalue.ErrInvalidSyntax)
	}
	n, err := num.Parse(data, sp, lim)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("bind: %s: %w", lit, jsonvalue.ErrIntegerOverflow)
	}
	return jsonvalue.FromNumber(n), nil
}
