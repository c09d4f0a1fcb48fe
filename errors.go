package jsonvalue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/jsonvalue/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidSyntax   = "invalid_syntax"
	CodeDepthExceeded   = "depth_exceeded"
	CodeIntegerOverflow = "integer_overflow"
	CodeStringTooLong   = "string_too_long"
	CodeDuplicateKey    = "duplicate_key"
	CodeTruncated       = "truncated"
	CodeWrongType       = "wrong_type"
	CodeKeyNotFound     = "key_not_found"
	CodeIndexOutOfRange = "index_out_of_range"
)

// Issue represents a single diagnostic entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	Offset  int64 // Byte offset in the input (-1 when unknown).
	// Params carries structured parameters (e.g., {"key":"a"}) for i18n.
	Params map[string]any
}

// Issues is a collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. duplicate_key at /a
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	InvalidSyntax ErrorKind = iota + 1
	DepthExceeded
	IntegerOverflow
	StringTooLong
	DuplicateKey
)

var errorKindCodes = [...]string{
	InvalidSyntax:   CodeInvalidSyntax,
	DepthExceeded:   CodeDepthExceeded,
	IntegerOverflow: CodeIntegerOverflow,
	StringTooLong:   CodeStringTooLong,
	DuplicateKey:    CodeDuplicateKey,
}

// Code returns the issue code of the kind.
func (k ErrorKind) Code() string {
	if k > 0 && int(k) < len(errorKindCodes) {
		return errorKindCodes[k]
	}
	return "error_kind(" + strconv.Itoa(int(k)) + ")"
}

func (k ErrorKind) String() string { return k.Code() }

// Sentinels matched by errors.Is against a *ParseError of the same kind.
var (
	ErrInvalidSyntax   = errors.New("jsonvalue: invalid syntax")
	ErrDepthExceeded   = errors.New("jsonvalue: depth exceeded")
	ErrIntegerOverflow = errors.New("jsonvalue: integer overflow")
	ErrStringTooLong   = errors.New("jsonvalue: string too long")
	ErrDuplicateKey    = errors.New("jsonvalue: duplicate key")
)

// Lookup errors returned by Value accessors that can fail.
var (
	ErrWrongType       = errors.New("jsonvalue: wrong type")
	ErrKeyNotFound     = errors.New("jsonvalue: key not found")
	ErrIndexOutOfRange = errors.New("jsonvalue: index out of range")
	ErrInvalidPointer  = errors.New("jsonvalue: invalid JSON pointer")
)

var lookupCodes = map[error]string{
	ErrWrongType:       CodeWrongType,
	ErrKeyNotFound:     CodeKeyNotFound,
	ErrIndexOutOfRange: CodeIndexOutOfRange,
}

// LookupError reports a JSON Pointer that does not resolve. Path is the
// pointer prefix ending at the reference that failed; Err is one of the
// lookup sentinels.
type LookupError struct {
	Err     error
	Path    string
	Offset  int64 // of the container in the input, -1 for tree lookups
	Message string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v at %s: %s", e.Err, e.Path, e.Message)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Issue projects the error into the Issue model.
func (e *LookupError) Issue() Issue {
	code := lookupCodes[e.Err]
	return Issue{
		Path:    e.Path,
		Code:    code,
		Message: i18n.T(code, map[string]string{"detail": e.Message}),
		Cause:   e,
		Offset:  e.Offset,
	}
}

var kindSentinels = map[ErrorKind]error{
	InvalidSyntax:   ErrInvalidSyntax,
	DepthExceeded:   ErrDepthExceeded,
	IntegerOverflow: ErrIntegerOverflow,
	StringTooLong:   ErrStringTooLong,
	DuplicateKey:    ErrDuplicateKey,
}

// ParseError is the single error a failed parse reports. Offset is the byte
// position in the input where the problem was detected.
type ParseError struct {
	Kind    ErrorKind
	Offset  int64
	Message string
	// Path locates the failing value when known (duplicate keys).
	Path  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jsonvalue: %s at offset %d", e.Message, e.Offset)
}

// Is reports whether target is the sentinel for e.Kind.
func (e *ParseError) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Issue projects the error into the Issue model.
func (e *ParseError) Issue() Issue {
	path := e.Path
	if path == "" {
		path = "/"
	}
	return Issue{
		Path:    path,
		Code:    e.Kind.Code(),
		Message: i18n.T(e.Kind.Code(), map[string]string{"detail": e.Message}),
		Cause:   e,
		Offset:  e.Offset,
	}
}

// LineColumn converts a byte offset into 1-based line and column numbers.
func LineColumn(data []byte, offset int64) (line, col int) {
	offset = max(0, min(offset, int64(len(data))))
	line, col = 1, 1
	for _, c := range data[:offset] {
		if c == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
