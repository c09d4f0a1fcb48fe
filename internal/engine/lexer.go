package engine

import (
	"bytes"
	"errors"
	"io"

	"github.com/reoring/jsonvalue/internal/scan"
	"github.com/reoring/jsonvalue/num"
)

type lexState uint8

const (
	stateValue lexState = iota // a value is required
	stateFirst                 // just after '{' or '['
	stateNext                  // after a container element: ',' or close
	stateKey                   // after ',' inside an object
	stateColon                 // after an object key
	stateDone                  // top-level value complete
)

// Lexer is a TokenSource over an in-memory buffer. Scalar literals are
// delimited with the buffer's structural layout; string interiors are
// skipped before the layout is consulted again, so quotes and brackets
// inside strings never reach the grammar.
type Lexer struct {
	data   []byte
	layout *scan.Layout
	pos    int
	state  lexState
	stack  []bool // true for objects
	err    error
}

var _ TokenSource = (*Lexer)(nil)

// NewLexer returns a Lexer positioned at the start of data.
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data, layout: scan.NewLayout(data)}
}

// Location returns the offset of the next unread byte.
func (l *Lexer) Location() int64 { return int64(l.pos) }

// Input returns the lexed buffer.
func (l *Lexer) Input() []byte { return l.data }

// NextToken returns the next token, io.EOF after a complete top-level value
// followed only by whitespace, or a *SyntaxError. Errors are sticky.
func (l *Lexer) NextToken() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	tok, err := l.next()
	if err != nil {
		l.err = err
	}
	return tok, err
}

func (l *Lexer) next() (Token, error) {
	for {
		p := scan.SkipWhitespace(l.data, l.pos)
		l.pos = p
		if p >= len(l.data) {
			if l.state == stateDone {
				return Token{}, io.EOF
			}
			return Token{}, syntaxErr(p, "unexpected end of input")
		}
		c := l.data[p]
		switch l.state {
		case stateDone:
			return Token{}, syntaxErr(p, "unexpected data after top-level value")
		case stateColon:
			if c != ':' {
				return Token{}, syntaxErr(p, "expected ':' after object key")
			}
			l.pos++
			l.state = stateValue
		case stateNext:
			object := l.stack[len(l.stack)-1]
			switch {
			case c == ',':
				l.pos++
				l.state = stateValue
				if object {
					l.state = stateKey
				}
			case object && c == '}', !object && c == ']':
				return l.close(p), nil
			case object:
				return Token{}, syntaxErr(p, "expected ',' or '}' in object")
			default:
				return Token{}, syntaxErr(p, "expected ',' or ']' in array")
			}
		case stateFirst:
			object := l.stack[len(l.stack)-1]
			if object && c == '}' || !object && c == ']' {
				return l.close(p), nil
			}
			if object {
				return l.key(p)
			}
			return l.value(p)
		case stateKey:
			return l.key(p)
		default:
			return l.value(p)
		}
	}
}

func (l *Lexer) close(p int) Token {
	kind := KindEndArray
	if l.stack[len(l.stack)-1] {
		kind = KindEndObject
	}
	l.stack = l.stack[:len(l.stack)-1]
	l.pos = p + 1
	l.afterValue()
	return Token{Kind: kind, Offset: int64(p), Length: 1}
}

func (l *Lexer) afterValue() {
	if len(l.stack) == 0 {
		l.state = stateDone
		return
	}
	l.state = stateNext
}

func (l *Lexer) key(p int) (Token, error) {
	if l.data[p] != '"' {
		return Token{}, syntaxErr(p, "expected string for object key")
	}
	end, err := StringEnd(l.data, p+1)
	if err != nil {
		return Token{}, err
	}
	l.pos = end
	l.state = stateColon
	return Token{Kind: KindKey, Offset: int64(p), Length: end - p}, nil
}

func (l *Lexer) value(p int) (Token, error) {
	switch c := l.data[p]; c {
	case '{', '[':
		kind := KindBeginArray
		if c == '{' {
			kind = KindBeginObject
		}
		l.stack = append(l.stack, c == '{')
		l.pos = p + 1
		l.state = stateFirst
		return Token{Kind: kind, Offset: int64(p), Length: 1}, nil
	case '"':
		end, err := StringEnd(l.data, p+1)
		if err != nil {
			return Token{}, err
		}
		l.pos = end
		l.afterValue()
		return Token{Kind: KindString, Offset: int64(p), Length: end - p}, nil
	}
	return l.literal(p)
}

var (
	litTrue  = []byte("true")
	litFalse = []byte("false")
	litNull  = []byte("null")
)

// literal lexes a number or keyword. Its extent runs to the next structural
// byte with trailing whitespace trimmed, and must be consumed exactly.
func (l *Lexer) literal(p int) (Token, error) {
	l.layout.Seek(p)
	s, _ := l.layout.Next()
	end := p
	for end < s.Offset && scan.SkipWhitespace(l.data, end) == end {
		end++
	}

	var kind Kind
	switch text := l.data[p:end]; {
	case len(text) == 0:
		return Token{}, syntaxErr(p, "expected value")
	case bytes.Equal(text, litTrue), bytes.Equal(text, litFalse):
		kind = KindBool
	case bytes.Equal(text, litNull):
		kind = KindNull
	case text[0] != '-' && (text[0] < '0' || text[0] > '9'):
		return Token{}, syntaxErr(p, "invalid literal")
	default:
		sp, err := num.ScanLiteral(l.data, p)
		if err != nil {
			var se *num.SyntaxError
			if errors.As(err, &se) {
				return Token{}, syntaxErr(se.Offset, se.Msg)
			}
			return Token{}, syntaxErr(p, err.Error())
		}
		if sp.End != end {
			return Token{}, syntaxErr(sp.End, "unexpected character after number")
		}
		kind = KindNumber
	}
	l.pos = end
	l.afterValue()
	return Token{Kind: kind, Offset: int64(p), Length: end - p}, nil
}
