package jsonvalue_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	jsonvalue "github.com/reoring/jsonvalue"
	"github.com/reoring/jsonvalue/num"
)

// plain converts a tree into comparable Go values. Doubles stay float64;
// 128-bit numbers are tagged strings.
func plain(v *jsonvalue.Value) any {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return nil
	case jsonvalue.KindBool:
		return v.AsBool()
	case jsonvalue.KindNumber:
		return v.AsFloat64()
	case jsonvalue.KindFloat128, jsonvalue.KindInt128, jsonvalue.KindUint128:
		n, _ := v.Num()
		return v.Kind().String() + ":" + n.String()
	case jsonvalue.KindString:
		return v.AsString()
	case jsonvalue.KindArray:
		out := []any{}
		for i := range v.AsArray() {
			out = append(out, plain(&v.AsArray()[i]))
		}
		return out
	case jsonvalue.KindObject:
		out := map[string]any{}
		v.AsObject().Range(func(k string, m *jsonvalue.Value) bool {
			out[k] = plain(m)
			return true
		})
		return out
	}
	return nil
}

func mustParse(t *testing.T, in string, opts ...jsonvalue.ParseOpt) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.ParseString(in, opts...)
	if err != nil {
		t.Fatalf("parse %q: %v", in, err)
	}
	return v
}

func parseError(t *testing.T, in string, opts ...jsonvalue.ParseOpt) *jsonvalue.ParseError {
	t.Helper()
	_, err := jsonvalue.ParseString(in, opts...)
	var pe *jsonvalue.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("parse %q: expected *ParseError, got %v", in, err)
	}
	return pe
}

func TestParse_ObjectWithArray(t *testing.T) {
	v := mustParse(t, `{"a": 1, "b": [1,2,3]}`)
	want := map[string]any{"a": 1.0, "b": []any{1.0, 2.0, 3.0}}
	if diff := cmp.Diff(want, plain(&v)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Scalars(t *testing.T) {
	cases := map[string]any{
		`null`:           nil,
		` true `:         true,
		"\tfalse\n":      false,
		`"hé\n"`:         "hé\n",
		`-0.5`:           -0.5,
		`[]`:             []any{},
		`{}`:             map[string]any{},
		`[[],{"":null}]`: []any{[]any{}, map[string]any{"": nil}},
		`"😀 ok"`:         "😀 ok",
	}
	for in, want := range cases {
		v := mustParse(t, in)
		if diff := cmp.Diff(want, plain(&v)); diff != "" {
			t.Fatalf("%q (-want +got):\n%s", in, diff)
		}
	}
}

func TestParse_DuplicateKeysLastWins(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":0,"a":2}`)
	a, err := v.Get("a")
	if err != nil || a.AsNumber() != 2 {
		t.Fatalf("a=%v err=%v", a, err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, v.AsObject().Keys()); diff != "" {
		t.Fatalf("key order (-want +got):\n%s", diff)
	}
}

// 2^64 fits the signed range, so it is an Int128 and not a UInt128;
// UInt128 is reserved for magnitudes above MaxInt128.
func TestParse_TwoToThe64(t *testing.T) {
	v := mustParse(t, "18446744073709551616")
	if !v.IsInt128() {
		t.Fatalf("kind=%s", v.Kind())
	}
	if got := v.AsUint128(); got != (num.Uint128{Hi: 1}) {
		t.Fatalf("uint128=%v", got)
	}
	if got := v.AsInt64(); got != math.MaxInt64 {
		t.Fatalf("as_int64=%d", got)
	}
}

func TestParse_IntegerRanges(t *testing.T) {
	v := mustParse(t, "170141183460469231731687303715884105727")
	if !v.IsInt128() || v.AsInt128() != num.MaxInt128 {
		t.Fatalf("2^127-1: %s", v.Kind())
	}
	v = mustParse(t, "-170141183460469231731687303715884105727")
	if !v.IsInt128() || v.AsInt128() != num.MaxInt128.Neg() {
		t.Fatalf("-(2^127-1): %s", v.Kind())
	}
	v = mustParse(t, "170141183460469231731687303715884105728")
	if !v.IsUint128() || v.AsUint128() != (num.Uint128{Hi: 1 << 63}) {
		t.Fatalf("2^127: %s", v.Kind())
	}
	v = mustParse(t, "340282366920938463463374607431768211455")
	if !v.IsUint128() || v.AsUint128() != num.MaxUint128 {
		t.Fatalf("2^128-1: %s", v.Kind())
	}

	for _, in := range []string{
		"340282366920938463463374607431768211456",
		"999999999999999999999999999999999999999999",
		"[1, -999999999999999999999999999999999999999999]",
	} {
		pe := parseError(t, in)
		if pe.Kind != jsonvalue.IntegerOverflow || !errors.Is(pe, jsonvalue.ErrIntegerOverflow) {
			t.Fatalf("%q: %v", in, pe)
		}
		if !errors.Is(pe, num.ErrIntegerOverflow) {
			t.Fatalf("%q: cause not kept", in)
		}
	}
	if pe := parseError(t, "[1, -999999999999999999999999999999999999999999]"); pe.Offset != 4 {
		t.Fatalf("offset=%d", pe.Offset)
	}
}

func TestParse_FloatPromotion(t *testing.T) {
	v := mustParse(t, "1.5e400")
	if !v.IsNumber() || !v.IsNumber128() {
		t.Fatalf("kind=%s", v.Kind())
	}
	if !math.IsNaN(v.AsNumber()) {
		t.Fatalf("as_number=%v", v.AsNumber())
	}

	v = mustParse(t, "0.1234567890123456789")
	if !v.IsNumber128() {
		t.Fatalf("kind=%s", v.Kind())
	}
	f := v.AsFloat64()
	if math.IsNaN(f) || math.Abs(f-0.1234567890123456789)/0.1234567890123456789 > 1e-15 {
		t.Fatalf("as_float64=%v", f)
	}

	v = mustParse(t, "1e5000")
	if v.Kind() != jsonvalue.KindNumber || !math.IsNaN(v.AsNumber()) {
		t.Fatalf("floating overflow: kind=%s %v", v.Kind(), v.AsNumber())
	}
}

func TestParse_ConfigurableLimits(t *testing.T) {
	v := mustParse(t, "12345", jsonvalue.ParseOpt{Limits: num.Limits{MaxDoubleDigits: 3, MaxDoubleExponent: 308}})
	if !v.IsInt128() || v.AsInt64() != 12345 {
		t.Fatalf("kind=%s", v.Kind())
	}
}

func TestAccessors_NonNumericSentinels(t *testing.T) {
	for _, in := range []string{`null`, `true`, `"7"`, `[1]`, `{"a":1}`} {
		v := mustParse(t, in)
		if !math.IsNaN(v.AsNumber()) || v.AsInt64() != 0 || v.AsUint64() != 0 {
			t.Fatalf("%s: %v %d", in, v.AsNumber(), v.AsInt64())
		}
		if !v.AsInt128().IsZero() || !v.AsUint128().IsZero() || !v.AsFloat128().IsNaN() {
			t.Fatalf("%s: 128-bit sentinels", in)
		}
	}
	var nilValue *jsonvalue.Value
	if !nilValue.IsNull() || !math.IsNaN(nilValue.AsNumber()) || nilValue.Len() != 0 {
		t.Fatal("nil value must read as null")
	}
}

func TestParse_DepthBoundary(t *testing.T) {
	nested := func(n int) string { return strings.Repeat("[", n) + strings.Repeat("]", n) }

	mustParse(t, nested(256))
	pe := parseError(t, nested(257))
	if pe.Kind != jsonvalue.DepthExceeded || !errors.Is(pe, jsonvalue.ErrDepthExceeded) || pe.Offset != 256 {
		t.Fatalf("257 levels: %v", pe)
	}

	mustParse(t, nested(3), jsonvalue.ParseOpt{MaxDepth: 3})
	if pe := parseError(t, `{"a":{"b":[1]}}`, jsonvalue.ParseOpt{MaxDepth: 2}); pe.Kind != jsonvalue.DepthExceeded || pe.Offset != 10 {
		t.Fatalf("objects: %v", pe)
	}
	mustParse(t, nested(1000), jsonvalue.ParseOpt{MaxDepth: 1000})
}

func TestParse_SyntaxErrors(t *testing.T) {
	cases := []struct {
		in  string
		off int64
	}{
		{``, 0},
		{`   `, 3},
		{`{"a":1,}`, 7},
		{`[1,2`, 4},
		{`{"a" 1}`, 5},
		{`[1 2]`, 3},
		{`"abc`, 0},
		{`tru`, 0},
		{`1 2`, 2},
		{`-`, 1},
		{`[01]`, 2},
		{"\"a\x01\"", 2},
		{`nulls`, 4},
		{`{"a":1}}`, 7},
		{`[1,]`, 3},
		{`{1:2}`, 1},
		{`"\q"`, 1},
		{`1.`, 2},
		{`[.5]`, 1},
		{"\xef\xbb\xbf[1]", 0},
	}
	for _, c := range cases {
		pe := parseError(t, c.in)
		if pe.Kind != jsonvalue.InvalidSyntax || !errors.Is(pe, jsonvalue.ErrInvalidSyntax) {
			t.Fatalf("%q: kind %s", c.in, pe.Kind)
		}
		if pe.Offset != c.off {
			t.Fatalf("%q: offset %d want %d (%v)", c.in, pe.Offset, c.off, pe)
		}
	}
}

func TestParse_ErrorMessageNamesState(t *testing.T) {
	pe := parseError(t, `{"a":1 "b":2}`)
	if !strings.Contains(pe.Message, "object: awaiting ',' or '}'") {
		t.Fatalf("message %q", pe.Message)
	}
	is := pe.Issue()
	if is.Code != jsonvalue.CodeInvalidSyntax || is.Offset != 7 || is.Path != "/" {
		t.Fatalf("issue %+v", is)
	}
}

func TestParse_Dialects(t *testing.T) {
	v := mustParse(t, "\xef\xbb\xbf [true]", jsonvalue.ParseOpt{Dialect: jsonvalue.DialectAllowBOM})
	if v.Len() != 1 {
		t.Fatalf("bom: %v", v.String())
	}

	pe := parseError(t, `{"a":1,"a":2}`, jsonvalue.ParseOpt{Dialect: jsonvalue.DialectRejectDuplicateKeys})
	if pe.Kind != jsonvalue.DuplicateKey || pe.Offset != 7 || !errors.Is(pe, jsonvalue.ErrDuplicateKey) {
		t.Fatalf("duplicate: %v", pe)
	}

	mustParse(t, "\"\xff\"")
	pe = parseError(t, "[\"ok\", \"a\xffb\"]", jsonvalue.ParseOpt{Dialect: jsonvalue.DialectValidateUTF8})
	if pe.Kind != jsonvalue.InvalidSyntax || pe.Offset != 9 {
		t.Fatalf("utf8: %v", pe)
	}
	mustParse(t, `"é é"`, jsonvalue.ParseOpt{Dialect: jsonvalue.DialectValidateUTF8})
}

func TestParse_MaxStringLength(t *testing.T) {
	opt := jsonvalue.ParseOpt{MaxStringLength: 3}
	mustParse(t, `["abc", "abc", {"xyz": 1}]`, opt)
	for in, off := range map[string]int64{
		`["abcd"]`:        1,
		`[1, "ab\ncd"]`:   4,
		`{"long key": 1}`: 1,
	} {
		pe := parseError(t, in, opt)
		if pe.Kind != jsonvalue.StringTooLong || pe.Offset != off || !errors.Is(pe, jsonvalue.ErrStringTooLong) {
			t.Fatalf("%q: %v", in, pe)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	docs := []string{
		`{"a": 1, "b": [1,2,3]}`,
		`{"name":"café","tags":["x","y\"z"],"ratio":0.125,"n":-42,"big":1e300,"tiny":2.5e-300}`,
		`[null,true,false,"",{},[],{"nested":{"deeper":[0.1,0.2,0.3]}}]`,
		`{"ctl":"\u0001\b\f\n\r\t","slash":"\/","uni":"日本語"}`,
		`123456789012345`,
		`[1e-7, 1e21, 100, -0.000001, 999999999999999]`,
		`{"i":170141183460469231731687303715884105727,"u":340282366920938463463374607431768211455,"f":3.14159265358979323846264338327950288}`,
	}
	for _, in := range docs {
		first := mustParse(t, in)
		for _, opt := range []jsonvalue.EncodeOpt{{}, {Pretty: true}, {Pretty: true, Indent: 4}} {
			text, err := jsonvalue.Serialize(&first, opt)
			if err != nil {
				t.Fatalf("%q: serialize: %v", in, err)
			}
			second := mustParse(t, string(text))
			if !jsonvalue.Equal(&first, &second) {
				t.Fatalf("%q: round trip through %s changed the tree", in, text)
			}
			if diff := cmp.Diff(plain(&first), plain(&second)); diff != "" {
				t.Fatalf("%q (-first +second):\n%s", in, diff)
			}
		}
	}
}

func TestParseReader(t *testing.T) {
	v, err := jsonvalue.ParseReader(strings.NewReader(`{"k":[1]}`))
	if err != nil {
		t.Fatal(err)
	}
	k, _ := v.Get("k")
	if k.Len() != 1 {
		t.Fatalf("got %s", v.String())
	}
}
