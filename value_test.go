package jsonvalue_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	jsonvalue "github.com/reoring/jsonvalue"
	"github.com/reoring/jsonvalue/num"
)

func TestValue_Lookup(t *testing.T) {
	v := mustParse(t, `{"list":[10,20],"obj":{"k":"v"},"s":"x"}`)

	list, err := v.Get("list")
	if err != nil {
		t.Fatal(err)
	}
	second, err := list.Index(1)
	if err != nil || second.AsInt64() != 20 {
		t.Fatalf("index 1: %v %v", second, err)
	}
	if _, err := list.Index(2); !errors.Is(err, jsonvalue.ErrIndexOutOfRange) {
		t.Fatalf("index 2: %v", err)
	}
	if _, err := list.Index(-1); !errors.Is(err, jsonvalue.ErrIndexOutOfRange) {
		t.Fatalf("index -1: %v", err)
	}
	if _, err := v.Get("missing"); !errors.Is(err, jsonvalue.ErrKeyNotFound) || errors.Is(err, jsonvalue.ErrWrongType) {
		t.Fatalf("missing key: %v", err)
	}
	if _, err := list.Get("k"); !errors.Is(err, jsonvalue.ErrWrongType) || errors.Is(err, jsonvalue.ErrKeyNotFound) {
		t.Fatalf("get on array: %v", err)
	}
	s, _ := v.Get("s")
	if _, err := s.Index(0); !errors.Is(err, jsonvalue.ErrWrongType) {
		t.Fatalf("index on string: %v", err)
	}
	if s.AsString() != "x" || s.Len() != 0 || v.Len() != 3 {
		t.Fatalf("string accessors: %q %d %d", s.AsString(), s.Len(), v.Len())
	}
}

func TestValue_Predicates(t *testing.T) {
	cases := []struct {
		v    jsonvalue.Value
		kind jsonvalue.Kind
	}{
		{jsonvalue.Null(), jsonvalue.KindNull},
		{jsonvalue.Bool(true), jsonvalue.KindBool},
		{jsonvalue.Number(1), jsonvalue.KindNumber},
		{jsonvalue.Float128(num.Float128FromFloat64(1)), jsonvalue.KindFloat128},
		{jsonvalue.Int128(num.I128(-1)), jsonvalue.KindInt128},
		{jsonvalue.Uint128(num.U128(1)), jsonvalue.KindUint128},
		{jsonvalue.String(""), jsonvalue.KindString},
		{jsonvalue.Array(), jsonvalue.KindArray},
		{jsonvalue.NewObjectValue(), jsonvalue.KindObject},
	}
	for _, c := range cases {
		v := c.v
		got := map[string]bool{
			"null":   v.IsNull(),
			"bool":   v.IsBool(),
			"number": v.IsNumber(),
			"n128":   v.IsNumber128(),
			"i128":   v.IsInt128(),
			"u128":   v.IsUint128(),
			"string": v.IsString(),
			"array":  v.IsArray(),
			"object": v.IsObject(),
		}
		want := map[string]bool{
			"null":   c.kind == jsonvalue.KindNull,
			"bool":   c.kind == jsonvalue.KindBool,
			"number": c.kind >= jsonvalue.KindNumber && c.kind <= jsonvalue.KindUint128,
			"n128":   c.kind == jsonvalue.KindFloat128,
			"i128":   c.kind == jsonvalue.KindInt128,
			"u128":   c.kind == jsonvalue.KindUint128,
			"string": c.kind == jsonvalue.KindString,
			"array":  c.kind == jsonvalue.KindArray,
			"object": c.kind == jsonvalue.KindObject,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", c.kind, diff)
		}
	}
}

func TestValue_NumericConversions(t *testing.T) {
	d := jsonvalue.Number(-7.9)
	if d.AsInt64() != -7 || d.AsUint64() != 0 || d.AsInt128() != num.I128(-7) {
		t.Fatalf("double: %d %d %v", d.AsInt64(), d.AsUint64(), d.AsInt128())
	}
	i := jsonvalue.Int128(num.MinInt128)
	if i.AsInt64() != math.MinInt64 || !i.AsUint128().IsZero() || i.AsNumber() != -0x1p127 {
		t.Fatalf("int128: %d %v %v", i.AsInt64(), i.AsUint128(), i.AsNumber())
	}
	u := jsonvalue.Uint128(num.MaxUint128)
	if u.AsUint64() != math.MaxUint64 || u.AsInt128() != num.MaxInt128 || u.AsNumber() != 0x1p128 {
		t.Fatalf("uint128: %d %v %v", u.AsUint64(), u.AsInt128(), u.AsNumber())
	}
	f := mustParse(t, "-12345678901234567890.75")
	if f.AsInt128().String() != "-12345678901234567890" || f.AsInt64() != math.MinInt64 {
		t.Fatalf("float128: %v %d", f.AsInt128(), f.AsInt64())
	}
}

func TestObject_OrderAndMutation(t *testing.T) {
	v := jsonvalue.NewObjectValue()
	for i := 0; i < 20; i++ {
		if err := v.Set(fmt.Sprintf("k%02d", i), jsonvalue.Number(float64(i))); err != nil {
			t.Fatal(err)
		}
	}
	_ = v.Set("k03", jsonvalue.String("replaced"))
	if err := v.Delete("k05"); err != nil {
		t.Fatal(err)
	}
	if err := v.Delete("k05"); !errors.Is(err, jsonvalue.ErrKeyNotFound) {
		t.Fatalf("second delete: %v", err)
	}

	o := v.AsObject()
	keys := o.Keys()
	if len(keys) != 19 || keys[3] != "k03" || keys[5] != "k06" {
		t.Fatalf("keys: %v", keys)
	}
	if m, ok := o.Get("k03"); !ok || m.AsString() != "replaced" {
		t.Fatal("replacement lost")
	}
	if m, ok := o.Get("k19"); !ok || m.AsInt64() != 19 {
		t.Fatal("lookup after delete")
	}

	var seen []string
	for k := range o.All() {
		seen = append(seen, k)
		if len(seen) == 3 {
			break
		}
	}
	if diff := cmp.Diff([]string{"k00", "k01", "k02"}, seen); diff != "" {
		t.Fatalf("iteration (-want +got):\n%s", diff)
	}

	arr := jsonvalue.Number(1)
	if err := arr.Append(jsonvalue.Null()); !errors.Is(err, jsonvalue.ErrWrongType) {
		t.Fatalf("append on number: %v", err)
	}
	if err := arr.Set("a", jsonvalue.Null()); !errors.Is(err, jsonvalue.ErrWrongType) {
		t.Fatalf("set on number: %v", err)
	}
}

func TestValue_CloneIsDeep(t *testing.T) {
	v := mustParse(t, `{"a":[1,{"b":2}]}`)
	c := v.Clone()
	a, _ := c.Get("a")
	inner, _ := a.Index(1)
	_ = inner.Set("b", jsonvalue.Number(3))
	_ = a.Append(jsonvalue.Null())

	if got := v.String(); got != `{"a":[1,{"b":2}]}` {
		t.Fatalf("original changed: %s", got)
	}
	if got := c.String(); got != `{"a":[1,{"b":3},null]}` {
		t.Fatalf("clone: %s", got)
	}
}

func TestEqual(t *testing.T) {
	a := mustParse(t, `{"x":2,"y":[true,"s",null]}`)
	b := mustParse(t, `{"y":[true,"s",null],"x":2.0}`)
	if !jsonvalue.Equal(&a, &b) {
		t.Fatal("member order must not matter")
	}
	two := jsonvalue.Int128(num.I128(2))
	if x, _ := b.Get("x"); !jsonvalue.Equal(x, &two) {
		t.Fatal("2.0 == int128 2")
	}
	c := mustParse(t, `{"x":2,"y":[true,"s"]}`)
	if jsonvalue.Equal(&a, &c) {
		t.Fatal("different arrays")
	}
	n1, n2 := jsonvalue.Number(math.NaN()), jsonvalue.Number(math.NaN())
	if !jsonvalue.Equal(&n1, &n2) {
		t.Fatal("NaN equals NaN structurally")
	}
	s, z := jsonvalue.String("0"), jsonvalue.Number(0)
	if jsonvalue.Equal(&s, &z) {
		t.Fatal("string vs number")
	}
}

type envelope struct {
	ID      int             `json:"id"`
	Payload jsonvalue.Value `json:"payload"`
}

func TestValue_JSONMarshalers(t *testing.T) {
	in := []byte(`{"id":7,"payload":{"big":340282366920938463463374607431768211455,"list":[1.5,"x"]}}`)
	var env envelope
	if err := gojson.Unmarshal(in, &env); err != nil {
		t.Fatal(err)
	}
	big, err := env.Payload.Get("big")
	if err != nil || !big.IsUint128() || big.AsUint128() != num.MaxUint128 {
		t.Fatalf("payload: %v %v", big, err)
	}
	out, err := gojson.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != string(in) {
		t.Fatalf("got %s", out)
	}
}
