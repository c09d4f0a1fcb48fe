package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	eng "github.com/reoring/jsonvalue/internal/engine"
	"github.com/reoring/jsonvalue/internal/stream"
)

// splitPointer decodes an RFC 6901 JSON Pointer into reference tokens.
// The empty pointer refers to the whole document.
func splitPointer(ptr string) ([]string, error) {
	if ptr == "" {
		return nil, nil
	}
	if ptr[0] != '/' {
		return nil, fmt.Errorf("%w: %q must start with '/'", ErrInvalidPointer, ptr)
	}
	refs := strings.Split(ptr[1:], "/")
	for i, r := range refs {
		if !strings.Contains(r, "~") {
			continue
		}
		var b strings.Builder
		for j := 0; j < len(r); j++ {
			if r[j] != '~' {
				b.WriteByte(r[j])
				continue
			}
			if j+1 == len(r) || (r[j+1] != '0' && r[j+1] != '1') {
				return nil, fmt.Errorf("%w: bad escape in %q", ErrInvalidPointer, ptr)
			}
			if r[j+1] == '0' {
				b.WriteByte('~')
			} else {
				b.WriteByte('/')
			}
			j++
		}
		refs[i] = b.String()
	}
	return refs, nil
}

// arrayIndex accepts the RFC 6901 index form: "0" or digits without a
// leading zero.
func arrayIndex(ref string) (int, bool) {
	if ref == "" || (len(ref) > 1 && ref[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(ref); i++ {
		if ref[i] < '0' || ref[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(ref)
	return n, err == nil
}

// At resolves a JSON Pointer inside the tree.
func (v *Value) At(ptr string) (*Value, error) {
	refs, err := splitPointer(ptr)
	if err != nil {
		return nil, err
	}
	cur, path := v, ""
	for _, ref := range refs {
		path = eng.JoinPointer(path, ref)
		switch cur.Kind() {
		case KindObject:
			if cur, err = cur.Get(ref); err != nil {
				return nil, &LookupError{Err: ErrKeyNotFound, Path: path, Offset: -1, Message: fmt.Sprintf("no member %q", ref)}
			}
		case KindArray:
			n := len(cur.arr)
			i, ok := arrayIndex(ref)
			if !ok || i >= n {
				return nil, &LookupError{Err: ErrIndexOutOfRange, Path: path, Offset: -1, Message: indexMessage(ref, n)}
			}
			cur = &cur.arr[i]
		default:
			return nil, &LookupError{Err: ErrWrongType, Path: path, Offset: -1, Message: fmt.Sprintf("%s has no members", cur.Kind())}
		}
	}
	return cur, nil
}

func indexMessage(ref string, n int) string {
	return fmt.Sprintf("%q is not an index into %d elements", ref, n)
}

// Extract returns the value at ptr without building the rest of the
// document. The whole input is still validated: syntax errors anywhere win
// over a missing member, and duplicate keys resolve last-wins as in Parse.
func Extract(data []byte, ptr string, opts ...ParseOpt) (Value, error) {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[0]
	}
	refs, err := splitPointer(ptr)
	if err != nil {
		return Value{}, err
	}
	if opt.Dialect.Has(DialectAllowBOM) && bytes.HasPrefix(data, utf8BOM) {
		data = data[len(utf8BOM):]
	}
	dup := Ignore
	if opt.Dialect.Has(DialectRejectDuplicateKeys) {
		dup = Error
	}
	src := EnforceSource(Tokens(data), EnforceOpt{MaxDepth: opt.maxDepth(), OnDuplicateKey: dup})

	x := extractor{opt: opt}
	v, miss, err := x.value(src, "", refs)
	if err != nil {
		return Value{}, err
	}
	if _, err := src.NextToken(); err == nil {
		return Value{}, &ParseError{Kind: InvalidSyntax, Offset: src.Location(), Message: "unexpected data after top-level value"}
	} else if !errors.Is(err, io.EOF) {
		return Value{}, err
	}
	if miss != nil {
		return Value{}, miss
	}
	return v, nil
}

type extractor struct {
	opt ParseOpt
}

// value consumes exactly one value from src and resolves refs inside it.
// A lookup miss is returned separately so that it only surfaces once the
// value has been read in full.
func (x *extractor) value(src Source, path string, refs []string) (v Value, miss, err error) {
	if len(refs) == 0 {
		v, err = FromTokens(src, x.opt)
		return v, nil, err
	}
	tok, err := src.NextToken()
	if err != nil {
		return Value{}, nil, err
	}
	ref := refs[0]
	path = eng.JoinPointer(path, ref)
	switch tok.Kind {
	case TokenBeginObject:
		miss = &LookupError{Err: ErrKeyNotFound, Path: path, Offset: tok.Offset, Message: fmt.Sprintf("no member %q", ref)}
		for {
			if tok, err = src.NextToken(); err != nil {
				return Value{}, nil, err
			}
			if tok.Kind == TokenEndObject {
				return v, miss, nil
			}
			key, err := DecodeToken(src.Input(), tok)
			if err != nil {
				return Value{}, nil, err
			}
			sub := stream.NewSubtree(src)
			if key == ref {
				if v, miss, err = x.value(sub, path, refs[1:]); err != nil {
					return Value{}, nil, err
				}
			}
			if err := sub.Drain(); err != nil {
				return Value{}, nil, err
			}
		}
	case TokenBeginArray:
		idx, ok := arrayIndex(ref)
		start := tok.Offset
		for i := 0; ; i++ {
			if tok, err = src.NextToken(); err != nil {
				return Value{}, nil, err
			}
			if tok.Kind == TokenEndArray {
				if !ok || idx >= i {
					miss = &LookupError{Err: ErrIndexOutOfRange, Path: path, Offset: start, Message: indexMessage(ref, i)}
				}
				return v, miss, nil
			}
			sub := stream.Preloaded(src, tok)
			if ok && i == idx {
				if v, miss, err = x.value(sub, path, refs[1:]); err != nil {
					return Value{}, nil, err
				}
			}
			if err := sub.Drain(); err != nil {
				return Value{}, nil, err
			}
		}
	}
	miss = &LookupError{Err: ErrWrongType, Path: path, Offset: tok.Offset, Message: fmt.Sprintf("%s has no members", tok.Kind)}
	return Value{}, miss, nil
}
