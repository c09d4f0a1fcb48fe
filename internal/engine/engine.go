// Package engine turns JSON bytes into a stream of positional tokens and
// layers runtime enforcement (depth, duplicate keys, consumed bytes) on top.
// Tokens index into the caller's buffer and never own data.
package engine

import "fmt"

// Kind represents token kinds.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

var kindNames = [...]string{"begin_object", "end_object", "begin_array", "end_array", "key", "string", "number", "bool", "null"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Token is a transient view of one lexical element. Key and String tokens
// span their quotes.
type Token struct {
	Kind   Kind
	Offset int64
	Length int
}

// End returns the offset just past the token.
func (t Token) End() int64 { return t.Offset + int64(t.Length) }

// Text returns the raw bytes of the token within data.
func (t Token) Text(data []byte) []byte { return data[t.Offset:t.End()] }

// Bool reports the value of a KindBool token.
func (t Token) Bool() bool { return t.Kind == KindBool && t.Length == 4 }

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
	// Input returns the buffer tokens index into.
	Input() []byte
}

// SyntaxError reports malformed input at a byte offset.
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Offset)
}

func syntaxErr(off int, msg string) *SyntaxError {
	return &SyntaxError{Offset: int64(off), Msg: msg}
}
