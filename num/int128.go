package num

import (
	"math"
	"math/big"
)

// Int128 is a signed 128-bit integer in two's complement. Hi carries the sign.
type Int128 struct {
	Hi int64
	Lo uint64
}

var (
	MaxInt128 = Int128{Hi: math.MaxInt64, Lo: math.MaxUint64}
	MinInt128 = Int128{Hi: math.MinInt64, Lo: 0}
)

// I128 widens an int64.
func I128(v int64) Int128 {
	if v < 0 {
		return Int128{Hi: -1, Lo: uint64(v)}
	}
	return Int128{Lo: uint64(v)}
}

func (i Int128) bits() Uint128 { return Uint128{Hi: uint64(i.Hi), Lo: i.Lo} }

func fromBits(u Uint128) Int128 { return Int128{Hi: int64(u.Hi), Lo: u.Lo} }

// Sign returns -1, 0 or +1.
func (i Int128) Sign() int {
	switch {
	case i.Hi < 0:
		return -1
	case i.Hi == 0 && i.Lo == 0:
		return 0
	}
	return 1
}

func (i Int128) IsZero() bool { return i.Hi == 0 && i.Lo == 0 }

// Abs returns the magnitude. MinInt128 maps to 2^127, which fits.
func (i Int128) Abs() Uint128 {
	if i.Hi < 0 {
		return i.bits().neg()
	}
	return i.bits()
}

// Neg returns -i. Negating MinInt128 yields MinInt128.
func (i Int128) Neg() Int128 { return fromBits(i.bits().neg()) }

// Cmp returns -1, 0 or +1.
func (i Int128) Cmp(j Int128) int {
	switch {
	case i.Hi < j.Hi:
		return -1
	case i.Hi > j.Hi:
		return 1
	case i.Lo < j.Lo:
		return -1
	case i.Lo > j.Lo:
		return 1
	}
	return 0
}

// Int128FromMagnitude builds a signed value from a sign and magnitude. It
// reports false when the magnitude does not fit.
func Int128FromMagnitude(neg bool, m Uint128) (Int128, bool) {
	limit := Uint128{Hi: 1 << 63}
	if neg {
		if m.Cmp(limit) > 0 {
			return MinInt128, false
		}
		return fromBits(m.neg()), true
	}
	if m.Cmp(limit) >= 0 {
		return MaxInt128, false
	}
	return fromBits(m), true
}

// Int64 saturates at the int64 bounds.
func (i Int128) Int64() int64 {
	switch {
	case i.Hi == 0 && i.Lo <= math.MaxInt64:
		return int64(i.Lo)
	case i.Hi == -1 && i.Lo >= 1<<63:
		return int64(i.Lo)
	case i.Hi < 0:
		return math.MinInt64
	}
	return math.MaxInt64
}

// Uint128 returns i for non-negative values and 0 otherwise.
func (i Int128) Uint128() Uint128 {
	if i.Hi < 0 {
		return Uint128{}
	}
	return i.bits()
}

// Float64 rounds i to the nearest float64.
func (i Int128) Float64() float64 {
	f := i.Abs().Float64()
	if i.Hi < 0 {
		return -f
	}
	return f
}

// Big returns i as a big.Int.
func (i Int128) Big() *big.Int {
	b := i.Abs().Big()
	if i.Hi < 0 {
		b.Neg(b)
	}
	return b
}

// Int128FromBig converts b, saturating when it does not fit.
func Int128FromBig(b *big.Int) (Int128, bool) {
	m, ok := Uint128FromBig(new(big.Int).Abs(b))
	if !ok {
		if b.Sign() < 0 {
			return MinInt128, false
		}
		return MaxInt128, false
	}
	return Int128FromMagnitude(b.Sign() < 0, m)
}

// ParseInt128 parses an optionally '-' prefixed decimal string.
func ParseInt128(s string) (Int128, error) {
	neg := len(s) > 0 && s[0] == '-'
	if neg {
		s = s[1:]
	}
	m, err := ParseUint128(s)
	if err != nil {
		if err == errRange {
			if neg {
				return MinInt128, err
			}
			return MaxInt128, err
		}
		return Int128{}, err
	}
	v, ok := Int128FromMagnitude(neg, m)
	if !ok {
		return v, errRange
	}
	return v, nil
}

func (i Int128) String() string { return string(i.AppendText(nil)) }

// AppendText appends the decimal form of i.
func (i Int128) AppendText(dst []byte) []byte {
	if i.Hi < 0 {
		dst = append(dst, '-')
	}
	return i.Abs().AppendText(dst)
}
