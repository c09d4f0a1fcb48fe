package engine

import (
	"errors"
	"io"
)

// DuplicateStrictness controls duplicate key handling in detection helpers.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Key     string // duplicate_key only
	Offset  int64
	Message string
}

// DetectDuplicateKeys lexes data and reports duplicate object keys with their
// JSON Pointer paths. If onDup is DupIgnore, no issues are produced; DupError
// stops at the first duplicate. maxIssues < 0 means unlimited; 0 means
// disabled; >0 sets a limit after which a truncated issue closes the list.
// A syntax error ends detection and is returned alongside the issues found so far.
func DetectDuplicateKeys(data []byte, onDup DuplicateStrictness, maxIssues int) ([]SimpleIssue, error) {
	if onDup == DupIgnore || maxIssues == 0 {
		return nil, nil
	}
	var issues []SimpleIssue
	full := false
	src := WrapWithEnforcement(NewLexer(data), EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink: func(si SimpleIssue) {
			if full {
				return
			}
			issues = append(issues, si)
			if maxIssues > 0 && len(issues) >= maxIssues {
				full = true
			}
		},
	})

	for {
		_, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return issues, nil
		}
		if err != nil {
			return issues, err
		}
		if onDup == DupError && len(issues) > 0 {
			return issues, nil
		}
		if full {
			return append(issues, SimpleIssue{Code: "truncated", Path: "/", Offset: src.Location(), Message: "max issues reached"}), nil
		}
	}
}
