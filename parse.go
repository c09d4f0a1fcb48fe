package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	eng "github.com/reoring/jsonvalue/internal/engine"
	"github.com/reoring/jsonvalue/internal/scan"
	"github.com/reoring/jsonvalue/num"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Parse decodes exactly one JSON value surrounded by optional whitespace.
// It returns the complete tree or the first error as a *ParseError; no partial
// tree is ever returned. Parse keeps no state between calls and is safe for
// concurrent use on independent buffers.
func Parse(data []byte, opts ...ParseOpt) (Value, error) {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[0]
	}
	p := parser{
		data:     data,
		opt:      opt,
		lim:      opt.limits(),
		maxDepth: opt.maxDepth(),
	}
	if opt.Dialect.Has(DialectAllowBOM) && bytes.HasPrefix(data, utf8BOM) {
		p.pos = len(utf8BOM)
	}
	p.skip()
	v, err := p.value("top level: awaiting value")
	if err != nil {
		return Value{}, err
	}
	p.skip()
	if p.pos < len(p.data) {
		return Value{}, p.unexpected("done: awaiting end of input")
	}
	return v, nil
}

// ParseString is Parse over a string.
func ParseString(s string, opts ...ParseOpt) (Value, error) {
	return Parse([]byte(s), opts...)
}

// ParseReader reads r to the end and parses the result.
func ParseReader(r io.Reader, opts ...ParseOpt) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Value{}, err
	}
	return Parse(data, opts...)
}

type parser struct {
	data     []byte
	pos      int
	opt      ParseOpt
	lim      num.Limits
	depth    int
	maxDepth int
	buf      []byte
}

func (p *parser) skip() { p.pos = scan.SkipWhitespace(p.data, p.pos) }

// peek returns the byte at the cursor, or 0 at the end of input.
func (p *parser) peek() byte {
	if p.pos < len(p.data) {
		return p.data[p.pos]
	}
	return 0
}

func (p *parser) fail(kind ErrorKind, off int, msg string) *ParseError {
	return &ParseError{Kind: kind, Offset: int64(off), Message: msg}
}

func (p *parser) unexpected(state string) error {
	if p.pos >= len(p.data) {
		return p.fail(InvalidSyntax, p.pos, "unexpected end of input ("+state+")")
	}
	return p.fail(InvalidSyntax, p.pos, fmt.Sprintf("unexpected character %q (%s)", p.data[p.pos], state))
}

// value dispatches on the lookahead byte: structural bytes by their scanner
// class, literals by their first character.
func (p *parser) value(state string) (Value, error) {
	c := p.peek()
	switch scan.Classify(c) {
	case scan.KindBeginObject:
		return p.object()
	case scan.KindBeginArray:
		return p.array()
	case scan.KindQuote:
		s, err := p.str()
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	case scan.KindNone:
	default:
		return Value{}, p.unexpected(state)
	}
	switch c {
	case 't':
		return Bool(true), p.keyword("true")
	case 'f':
		return Bool(false), p.keyword("false")
	case 'n':
		return Null(), p.keyword("null")
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return p.number()
	}
	return Value{}, p.unexpected(state)
}

func (p *parser) keyword(lit string) error {
	if !bytes.HasPrefix(p.data[p.pos:], []byte(lit)) {
		return p.fail(InvalidSyntax, p.pos, "invalid literal, expected "+lit)
	}
	p.pos += len(lit)
	return nil
}

func (p *parser) number() (Value, error) {
	sp, err := num.ScanLiteral(p.data, p.pos)
	if err != nil {
		var se *num.SyntaxError
		if errors.As(err, &se) {
			return Value{}, p.fail(InvalidSyntax, se.Offset, "malformed number: "+se.Msg)
		}
		return Value{}, p.fail(InvalidSyntax, p.pos, "malformed number")
	}
	n, err := num.Parse(p.data[sp.Start:sp.End], sp, p.lim)
	if err != nil {
		pe := p.fail(IntegerOverflow, sp.Start, "integer literal exceeds the 128-bit range")
		pe.Cause = err
		return Value{}, pe
	}
	p.pos = sp.End
	return FromNumber(n), nil
}

// str decodes the string at the cursor.
func (p *parser) str() (string, error) {
	start := p.pos
	validate := p.opt.Dialect.Has(DialectValidateUTF8)
	body := start + 1

	// unescaped strings are copied straight out of the input
	if q := scan.FindStringEnd(p.data, body); q < len(p.data) && p.data[q] == '"' &&
		(!validate || utf8.Valid(p.data[body:q])) {
		if err := p.checkLength(start, q-body); err != nil {
			return "", err
		}
		p.pos = q + 1
		return string(p.data[body:q]), nil
	}

	var (
		end int
		err error
	)
	p.buf, end, err = eng.DecodeString(p.buf[:0], p.data, body, validate)
	if err != nil {
		var se *eng.SyntaxError
		if errors.As(err, &se) {
			return "", p.fail(InvalidSyntax, int(se.Offset), se.Msg)
		}
		return "", p.fail(InvalidSyntax, start, err.Error())
	}
	if err := p.checkLength(start, len(p.buf)); err != nil {
		return "", err
	}
	p.pos = end
	return string(p.buf), nil
}

func (p *parser) checkLength(start, n int) error {
	if limit := p.opt.MaxStringLength; limit > 0 && n > limit {
		return p.fail(StringTooLong, start, fmt.Sprintf("string of %d bytes exceeds limit %d", n, limit))
	}
	return nil
}

// enter is checked before descending, so nesting exactly at the limit parses.
func (p *parser) enter() error {
	if p.depth >= p.maxDepth {
		return p.fail(DepthExceeded, p.pos, fmt.Sprintf("nesting exceeds maximum depth %d", p.maxDepth))
	}
	p.depth++
	return nil
}

func (p *parser) array() (Value, error) {
	if err := p.enter(); err != nil {
		return Value{}, err
	}
	p.pos++
	p.skip()
	elems := []Value{}
	if p.peek() == ']' {
		p.pos++
		p.depth--
		return Array(elems...), nil
	}
	for {
		v, err := p.value("array: awaiting value")
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
		p.skip()
		switch p.peek() {
		case ',':
			p.pos++
			p.skip()
		case ']':
			p.pos++
			p.depth--
			return Array(elems...), nil
		default:
			return Value{}, p.unexpected("array: awaiting ',' or ']'")
		}
	}
}

func (p *parser) object() (Value, error) {
	if err := p.enter(); err != nil {
		return Value{}, err
	}
	p.pos++
	p.skip()
	o := NewObject()
	if p.peek() == '}' {
		p.pos++
		p.depth--
		return ObjectOf(o), nil
	}
	reject := p.opt.Dialect.Has(DialectRejectDuplicateKeys)
	for {
		if p.peek() != '"' {
			return Value{}, p.unexpected("object: awaiting key")
		}
		keyOff := p.pos
		key, err := p.str()
		if err != nil {
			return Value{}, err
		}
		if reject && o.Has(key) {
			return Value{}, p.fail(DuplicateKey, keyOff, fmt.Sprintf("duplicate key %q", key))
		}
		p.skip()
		if p.peek() != ':' {
			return Value{}, p.unexpected("object: awaiting ':'")
		}
		p.pos++
		p.skip()
		v, err := p.value("object: awaiting value")
		if err != nil {
			return Value{}, err
		}
		o.Set(key, v)
		p.skip()
		switch p.peek() {
		case ',':
			p.pos++
			p.skip()
		case '}':
			p.pos++
			p.depth--
			return ObjectOf(o), nil
		default:
			return Value{}, p.unexpected("object: awaiting ',' or '}'")
		}
	}
}
