package engine

import (
	"strconv"
	"strings"
)

// Enforcement wrapper for TokenSource to apply duplicate key handling,
// max depth checks, and max bytes truncation in a streaming fashion.

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink is an optional callback to receive lightweight issues when in collect mode.
	// If nil, issues are not reported unless they are fatal.
	IssueSink func(SimpleIssue)
	// FailFast stops at the first issue encountered (duplicate/depth/bytes), returning an error immediately.
	FailFast bool
}

type frame struct {
	object    bool
	keys      map[string]struct{}
	path      string
	key       string // last key seen in an object
	nextIndex int
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
	buf   []byte
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	var path string
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		path = e.valuePath()
		f := frame{object: tok.Kind == KindBeginObject, path: path}
		if f.object && e.opt.OnDuplicate != DupIgnore {
			f.keys = make(map[string]struct{})
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			si := SimpleIssue{Code: "depth_exceeded", Path: normalizeIssuePath(path), Offset: tok.Offset, Message: "max depth exceeded"}
			e.report(si)
			return Token{}, IssueError{si}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			path = e.stack[n-1].path
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if err := e.key(tok); err != nil {
			return Token{}, err
		}
	default:
		path = e.valuePath()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			si := SimpleIssue{Code: "truncated", Path: normalizeIssuePath(path), Offset: e.opt.MaxBytes, Message: "max bytes exceeded"}
			e.report(si)
			return Token{}, IssueError{si}
		}
	}

	return tok, nil
}

func (e *enforcingTokenSource) key(tok Token) error {
	n := len(e.stack)
	if n == 0 || !e.stack[n-1].object {
		return nil
	}
	top := &e.stack[n-1]
	var err error
	e.buf, _, err = DecodeString(e.buf[:0], e.inner.Input(), int(tok.Offset)+1, false)
	if err != nil {
		return err
	}
	top.key = string(e.buf)
	if top.keys == nil {
		return nil
	}
	if _, ok := top.keys[top.key]; ok {
		si := SimpleIssue{
			Code:    "duplicate_key",
			Path:    joinJSONPointer(top.path, top.key),
			Key:     top.key,
			Offset:  tok.Offset,
			Message: "key '" + top.key + "' duplicated",
		}
		e.report(si)
		if e.opt.OnDuplicate == DupError || e.opt.FailFast {
			return IssueError{si}
		}
	}
	top.keys[top.key] = struct{}{}
	return nil
}

// valuePath returns the JSON Pointer of the value starting at the current
// token and advances the array index.
func (e *enforcingTokenSource) valuePath() string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.object {
		return joinJSONPointer(top.path, top.key)
	}
	p := joinJSONPointer(top.path, strconv.Itoa(top.nextIndex))
	top.nextIndex++
	return p
}

func (e *enforcingTokenSource) report(si SimpleIssue) {
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
}

func normalizeIssuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// JoinPointer appends an escaped reference token to a JSON Pointer.
func JoinPointer(base, token string) string { return joinJSONPointer(base, token) }

func joinJSONPointer(base, token string) string {
	return base + "/" + jsonPointerEscaper.Replace(token)
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

func (e *enforcingTokenSource) Input() []byte { return e.inner.Input() }
