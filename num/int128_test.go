package num

import (
	"math"
	"math/big"
	"testing"
)

func TestUint128_Text(t *testing.T) {
	cases := map[Uint128]string{
		{}:                   "0",
		U128(42):             "42",
		{Hi: 1}:              "18446744073709551616",
		MaxUint128:           "340282366920938463463374607431768211455",
		{Hi: 5, Lo: 1 << 62}: "96845406386975145984",
	}
	for u, want := range cases {
		if got := u.String(); got != want {
			t.Fatalf("%#v: got %s want %s", u, got, want)
		}
		if got := u.Big().String(); got != want {
			t.Fatalf("%#v: big %s want %s", u, got, want)
		}
		back, err := ParseUint128(want)
		if err != nil || back != u {
			t.Fatalf("parse %s: %v %#v", want, err, back)
		}
	}
}

func TestUint128_Arithmetic(t *testing.T) {
	u, over := MaxUint128.Add64(1)
	if !over || !u.IsZero() {
		t.Fatalf("add wrap: %v %v", u, over)
	}
	if _, over = (Uint128{Hi: 1 << 62}).Mul64(4); !over {
		t.Fatal("mul overflow not detected")
	}
	m, over := (Uint128{Lo: math.MaxUint64}).Mul64(2)
	if over || m != (Uint128{Hi: 1, Lo: math.MaxUint64 - 1}) {
		t.Fatalf("mul carry: %#v", m)
	}
	q, r := (Uint128{Hi: 1}).QuoRem64(10)
	if q.String() != "1844674407370955161" || r != 6 {
		t.Fatalf("quorem: %v %d", q, r)
	}
	if _, err := ParseUint128("340282366920938463463374607431768211456"); err == nil {
		t.Fatal("2^128 must not parse")
	}
}

func TestInt128_Magnitude(t *testing.T) {
	if MinInt128.Abs() != (Uint128{Hi: 1 << 63}) {
		t.Fatal("abs(min)")
	}
	if MinInt128.Neg() != MinInt128 {
		t.Fatal("neg(min) wraps")
	}
	if v, ok := Int128FromMagnitude(true, Uint128{Hi: 1 << 63}); !ok || v != MinInt128 {
		t.Fatal("-2^127 fits")
	}
	if _, ok := Int128FromMagnitude(false, Uint128{Hi: 1 << 63}); ok {
		t.Fatal("2^127 does not fit")
	}
	if I128(-5).Cmp(I128(3)) >= 0 || I128(3).Cmp(I128(-5)) <= 0 {
		t.Fatal("signed compare")
	}
	if I128(-1).Int64() != -1 || I128(math.MinInt64).Int64() != math.MinInt64 {
		t.Fatal("int64 narrowing")
	}
}

func TestInt128_ParseAndBig(t *testing.T) {
	for _, s := range []string{"0", "-1", "12345678901234567890123", "-170141183460469231731687303715884105728"} {
		v, err := ParseInt128(s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if v.String() != s {
			t.Fatalf("%s: text %s", s, v.String())
		}
		b, _ := new(big.Int).SetString(s, 10)
		if v.Big().Cmp(b) != 0 {
			t.Fatalf("%s: big %s", s, v.Big())
		}
		back, ok := Int128FromBig(b)
		if !ok || back != v {
			t.Fatalf("%s: from big %v", s, back)
		}
	}
	if v, err := ParseInt128("170141183460469231731687303715884105728"); err == nil || v != MaxInt128 {
		t.Fatalf("2^127: %v %v", v, err)
	}
}
