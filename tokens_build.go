package jsonvalue

import (
	"errors"
	"fmt"
	"io"

	eng "github.com/reoring/jsonvalue/internal/engine"
	"github.com/reoring/jsonvalue/num"
)

// FromTokens reads exactly one value from src and builds its tree. Scalars
// are decoded from src.Input() the same way Parse decodes them. Nothing past
// the value is read, so src may be positioned inside a larger document.
func FromTokens(src Source, opts ...ParseOpt) (Value, error) {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[0]
	}
	b := tokenBuilder{data: src.Input(), opt: opt, lim: opt.limits(), maxDepth: opt.maxDepth()}
	for {
		tok, err := src.NextToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Value{}, &ParseError{Kind: InvalidSyntax, Offset: src.Location(), Message: "unexpected end of input"}
			}
			return Value{}, err
		}
		done, err := b.push(tok)
		if err != nil {
			return Value{}, err
		}
		if done {
			return b.root, nil
		}
	}
}

type buildFrame struct {
	v      Value
	key    string
	keyOff int64
}

type tokenBuilder struct {
	data     []byte
	opt      ParseOpt
	lim      num.Limits
	maxDepth int
	stack    []buildFrame
	root     Value
	buf      []byte
}

// push consumes one token and reports whether the value is complete.
func (b *tokenBuilder) push(tok Token) (bool, error) {
	var v Value
	switch tok.Kind {
	case TokenBeginObject, TokenBeginArray:
		if len(b.stack) >= b.maxDepth {
			return false, &ParseError{Kind: DepthExceeded, Offset: tok.Offset,
				Message: fmt.Sprintf("nesting exceeds maximum depth %d", b.maxDepth)}
		}
		fr := buildFrame{v: Array()}
		if tok.Kind == TokenBeginObject {
			fr.v = NewObjectValue()
		}
		b.stack = append(b.stack, fr)
		return false, nil
	case TokenEndObject, TokenEndArray:
		if len(b.stack) == 0 {
			return false, b.stray(tok)
		}
		n := len(b.stack) - 1
		v = b.stack[n].v
		b.stack = b.stack[:n]
	case TokenKey:
		if len(b.stack) == 0 {
			return false, b.stray(tok)
		}
		s, err := b.str(tok)
		if err != nil {
			return false, err
		}
		top := &b.stack[len(b.stack)-1]
		top.key, top.keyOff = s, tok.Offset
		return false, nil
	case TokenString:
		s, err := b.str(tok)
		if err != nil {
			return false, err
		}
		v = String(s)
	case TokenNumber:
		sp, err := num.ScanLiteral(b.data, int(tok.Offset))
		if err != nil {
			return false, &ParseError{Kind: InvalidSyntax, Offset: tok.Offset, Message: "malformed number"}
		}
		n, err := num.Parse(b.data[sp.Start:sp.End], sp, b.lim)
		if err != nil {
			return false, &ParseError{Kind: IntegerOverflow, Offset: tok.Offset,
				Message: "integer literal exceeds the 128-bit range", Cause: err}
		}
		v = FromNumber(n)
	case TokenBool:
		v = Bool(tok.Bool())
	case TokenNull:
		v = Null()
	default:
		return false, &ParseError{Kind: InvalidSyntax, Offset: tok.Offset, Message: "unexpected token " + tok.Kind.String()}
	}

	n := len(b.stack)
	if n == 0 {
		b.root = v
		return true, nil
	}
	top := &b.stack[n-1]
	if top.v.kind == KindArray {
		top.v.arr = append(top.v.arr, v)
		return false, nil
	}
	if b.opt.Dialect.Has(DialectRejectDuplicateKeys) && top.v.obj.Has(top.key) {
		return false, &ParseError{Kind: DuplicateKey, Offset: top.keyOff, Message: fmt.Sprintf("duplicate key %q", top.key)}
	}
	top.v.obj.Set(top.key, v)
	return false, nil
}

// stray reports a token that cannot start a value, as seen when src is
// positioned after a value's first token.
func (b *tokenBuilder) stray(tok Token) error {
	return &ParseError{Kind: InvalidSyntax, Offset: tok.Offset, Message: "unexpected token " + tok.Kind.String()}
}

func (b *tokenBuilder) str(tok Token) (string, error) {
	var err error
	b.buf, _, err = eng.DecodeString(b.buf[:0], b.data, int(tok.Offset)+1, b.opt.Dialect.Has(DialectValidateUTF8))
	if err != nil {
		return "", fromEngineError(err)
	}
	if limit := b.opt.MaxStringLength; limit > 0 && len(b.buf) > limit {
		return "", &ParseError{Kind: StringTooLong, Offset: tok.Offset,
			Message: fmt.Sprintf("string of %d bytes exceeds limit %d", len(b.buf), limit)}
	}
	return string(b.buf), nil
}
