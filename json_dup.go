package jsonvalue

import (
	"io"

	"github.com/reoring/jsonvalue/i18n"
	eng "github.com/reoring/jsonvalue/internal/engine"
)

// DetectDuplicateKeys reports every duplicate object key in data with its
// JSON Pointer path. maxIssues < 0 means unlimited; 0 means disabled; >0 sets
// a limit after which a truncated issue closes the list. Malformed input
// returns the issues found so far together with a *ParseError.
func DetectDuplicateKeys(data []byte, maxIssues int) (Issues, error) {
	si, err := eng.DetectDuplicateKeys(data, eng.DupWarn, maxIssues)
	iss := fromEngineIssues(si)
	if err != nil {
		return iss, fromEngineError(err)
	}
	return iss, nil
}

// DetectDuplicateKeysReader is DetectDuplicateKeys over the full contents of r.
func DetectDuplicateKeysReader(r io.Reader, maxIssues int) (Issues, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DetectDuplicateKeys(data, maxIssues)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func fromEngineIssue(s eng.SimpleIssue) Issue {
	it := Issue{Code: s.Code, Path: s.Path, Offset: s.Offset, Message: s.Message}
	if s.Code == CodeDuplicateKey {
		it.Params = map[string]any{"key": s.Key}
		it.Message = i18n.T(s.Code, map[string]string{"key": s.Key})
	}
	return it
}

func fromEngineIssues(si []eng.SimpleIssue) Issues {
	var iss Issues
	for _, s := range si {
		iss = AppendIssues(iss, fromEngineIssue(s))
	}
	return iss
}
