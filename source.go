package jsonvalue

import (
	"bytes"
	"errors"
	"io"

	eng "github.com/reoring/jsonvalue/internal/engine"
)

// TokenKind classifies a Token.
type TokenKind = eng.Kind

const (
	TokenBeginObject TokenKind = eng.KindBeginObject
	TokenEndObject   TokenKind = eng.KindEndObject
	TokenBeginArray  TokenKind = eng.KindBeginArray
	TokenEndArray    TokenKind = eng.KindEndArray
	TokenKey         TokenKind = eng.KindKey
	TokenString      TokenKind = eng.KindString
	TokenNumber      TokenKind = eng.KindNumber
	TokenBool        TokenKind = eng.KindBool
	TokenNull        TokenKind = eng.KindNull
)

// Token is a transient {kind, offset, length} view into the input. Key and
// string tokens include their quotes; use DecodeToken for the contents.
type Token = eng.Token

// Source yields tokens in document order and io.EOF after the top-level
// value. Commas and colons are validated but not reported.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // offset of the next unread byte
	Input() []byte
}

// Tokens returns a Source over data. Errors are reported as *ParseError.
func Tokens(data []byte) Source {
	return errorSource{eng.NewLexer(data)}
}

// EnforceOpt configures EnforceSource.
type EnforceOpt struct {
	MaxDepth       int   // 0 disables the check
	MaxBytes       int64 // 0 disables the check
	OnDuplicateKey Severity
	// IssueSink receives non-fatal issues (duplicate keys under Warn).
	IssueSink func(Issue)
}

// EnforceSource wraps src with depth, size and duplicate-key enforcement.
func EnforceSource(src Source, opt EnforceOpt) Source {
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
	}
	if opt.IssueSink != nil {
		eo.IssueSink = func(si eng.SimpleIssue) { opt.IssueSink(fromEngineIssue(si)) }
	}
	return errorSource{eng.WrapWithEnforcement(src, eo)}
}

// Tokenize lexes data completely under the depth limit and dialect of opt.
func Tokenize(data []byte, opts ...ParseOpt) ([]Token, error) {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.Dialect.Has(DialectAllowBOM) && bytes.HasPrefix(data, utf8BOM) {
		data = data[len(utf8BOM):]
	}
	dup := Ignore
	if opt.Dialect.Has(DialectRejectDuplicateKeys) {
		dup = Error
	}
	src := EnforceSource(Tokens(data), EnforceOpt{MaxDepth: opt.maxDepth(), OnDuplicateKey: dup})
	toks := make([]Token, 0, len(data)/4+1)
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return toks, nil
		}
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// DecodeToken returns the decoded contents of a key or string token, or the
// raw text of any other token.
func DecodeToken(data []byte, tok Token) (string, error) {
	if tok.Kind != TokenKey && tok.Kind != TokenString {
		return string(tok.Text(data)), nil
	}
	b, _, err := eng.DecodeString(nil, data, int(tok.Offset)+1, false)
	if err != nil {
		return "", fromEngineError(err)
	}
	return string(b), nil
}

// errorSource converts engine errors into the public error model.
type errorSource struct{ eng.TokenSource }

func (s errorSource) NextToken() (Token, error) {
	tok, err := s.TokenSource.NextToken()
	if err != nil {
		return Token{}, fromEngineError(err)
	}
	return tok, nil
}

func fromEngineError(err error) error {
	var se *eng.SyntaxError
	if errors.As(err, &se) {
		return &ParseError{Kind: InvalidSyntax, Offset: se.Offset, Message: se.Msg}
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		switch ie.Code {
		case CodeDepthExceeded:
			return &ParseError{Kind: DepthExceeded, Offset: ie.Offset, Message: ie.Message, Path: ie.Path}
		case CodeDuplicateKey:
			return &ParseError{Kind: DuplicateKey, Offset: ie.Offset, Message: ie.Message, Path: ie.Path}
		}
		return Issues{fromEngineIssue(ie.SimpleIssue)}
	}
	return err
}
