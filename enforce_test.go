package jsonvalue_test

import (
	"errors"
	"io"
	"testing"

	jsonvalue "github.com/reoring/jsonvalue"
)

func drain(src jsonvalue.Source) error {
	for {
		if _, err := src.NextToken(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func TestEnforceSource_DuplicateKeyPaths(t *testing.T) {
	for _, c := range []struct {
		in, path string
	}{
		{`{"a":1,"a":2}`, "/a"},
		{`[{"a":1,"a":2}]`, "/0/a"},
		{`{"x~y":{"s/t":1,"s/t":2}}`, "/x~0y/s~1t"},
	} {
		err := drain(jsonvalue.EnforceSource(jsonvalue.Tokens([]byte(c.in)), jsonvalue.EnforceOpt{OnDuplicateKey: jsonvalue.Error}))
		var pe *jsonvalue.ParseError
		if !errors.As(err, &pe) || pe.Kind != jsonvalue.DuplicateKey {
			t.Fatalf("%s: %v", c.in, err)
		}
		if pe.Path != c.path {
			t.Fatalf("%s: path %q want %q", c.in, pe.Path, c.path)
		}
	}
}

func TestEnforceSource_MaxDepthPath(t *testing.T) {
	err := drain(jsonvalue.EnforceSource(jsonvalue.Tokens([]byte(`{"a":{"b":{"c":1}}}`)), jsonvalue.EnforceOpt{MaxDepth: 2}))
	var pe *jsonvalue.ParseError
	if !errors.As(err, &pe) || pe.Kind != jsonvalue.DepthExceeded {
		t.Fatalf("got %v", err)
	}
	if pe.Path != "/a/b" || pe.Offset != 10 {
		t.Fatalf("path %q offset %d", pe.Path, pe.Offset)
	}
}

func TestEnforceSource_IgnoreLeavesStreamAlone(t *testing.T) {
	var n int
	src := jsonvalue.EnforceSource(jsonvalue.Tokens([]byte(`{"a":1,"a":2}`)), jsonvalue.EnforceOpt{
		IssueSink: func(jsonvalue.Issue) { n++ },
	})
	if err := drain(src); err != nil || n != 0 {
		t.Fatalf("err %v, issues %d", err, n)
	}
}
