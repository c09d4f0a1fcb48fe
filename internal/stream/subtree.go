// Package stream narrows a token source to a single value.
package stream

import (
	"errors"
	"io"

	eng "github.com/reoring/jsonvalue/internal/engine"
)

// Subtree exposes exactly one value of an underlying TokenSource: a single
// scalar token, or a container through its matching end token. After that
// it returns io.EOF and leaves the rest of inner unread.
type Subtree struct {
	inner eng.TokenSource
	first *eng.Token
	depth int
	done  bool
}

// NewSubtree views the next value of inner.
func NewSubtree(inner eng.TokenSource) *Subtree { return &Subtree{inner: inner} }

// Preloaded views a value whose first token was already read from inner.
func Preloaded(inner eng.TokenSource, first eng.Token) *Subtree {
	return &Subtree{inner: inner, first: &first}
}

func (s *Subtree) NextToken() (eng.Token, error) {
	if s.done {
		return eng.Token{}, io.EOF
	}
	var tok eng.Token
	if s.first != nil {
		tok, s.first = *s.first, nil
	} else {
		var err error
		if tok, err = s.inner.NextToken(); err != nil {
			return eng.Token{}, err
		}
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		s.depth++
	case eng.KindEndObject, eng.KindEndArray:
		s.depth--
	case eng.KindKey:
		return tok, nil
	}
	if s.depth <= 0 {
		s.done = true
	}
	return tok, nil
}

func (s *Subtree) Location() int64 { return s.inner.Location() }

func (s *Subtree) Input() []byte { return s.inner.Input() }

// Done reports whether the whole value has been read.
func (s *Subtree) Done() bool { return s.done }

// Drain reads whatever remains of the value.
func (s *Subtree) Drain() error {
	for !s.done {
		if _, err := s.NextToken(); err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
	}
	return nil
}

// Skip consumes the next value of src without materializing it.
func Skip(src eng.TokenSource) error { return NewSubtree(src).Drain() }
