package num

import (
	"errors"
	"math"
	"math/big"
	"math/bits"
	"strconv"
)

// Uint128 is an unsigned 128-bit integer held as two 64-bit limbs.
type Uint128 struct {
	Hi, Lo uint64
}

// MaxUint128 is 2^128-1.
var MaxUint128 = Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64}

var (
	errSyntax = errors.New("num: invalid integer syntax")
	errRange  = errors.New("num: value out of range")
)

// U128 widens a uint64.
func U128(v uint64) Uint128 { return Uint128{Lo: v} }

func (u Uint128) IsZero() bool { return u.Hi == 0 && u.Lo == 0 }

// Cmp returns -1, 0 or +1.
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

// BitLen returns the number of bits required to represent u.
func (u Uint128) BitLen() int {
	if u.Hi != 0 {
		return 64 + bits.Len64(u.Hi)
	}
	return bits.Len64(u.Lo)
}

// Add64 returns u+v and whether the sum wrapped.
func (u Uint128) Add64(v uint64) (Uint128, bool) {
	lo, carry := bits.Add64(u.Lo, v, 0)
	hi, carry := bits.Add64(u.Hi, 0, carry)
	return Uint128{Hi: hi, Lo: lo}, carry != 0
}

// Mul64 returns u*v and whether the product overflowed.
func (u Uint128) Mul64(v uint64) (Uint128, bool) {
	carryHi, lo := bits.Mul64(u.Lo, v)
	over, hiLo := bits.Mul64(u.Hi, v)
	hi, carry := bits.Add64(hiLo, carryHi, 0)
	return Uint128{Hi: hi, Lo: lo}, over != 0 || carry != 0
}

// QuoRem64 divides u by a non-zero v.
func (u Uint128) QuoRem64(v uint64) (Uint128, uint64) {
	var q Uint128
	var r uint64
	q.Hi, r = bits.Div64(0, u.Hi, v)
	q.Lo, r = bits.Div64(r, u.Lo, v)
	return q, r
}

// neg returns the two's complement of u.
func (u Uint128) neg() Uint128 {
	lo, borrow := bits.Sub64(0, u.Lo, 0)
	hi, _ := bits.Sub64(0, u.Hi, borrow)
	return Uint128{Hi: hi, Lo: lo}
}

// Float64 rounds u to the nearest float64.
func (u Uint128) Float64() float64 {
	if u.Hi == 0 {
		return float64(u.Lo)
	}
	f, _ := new(big.Float).SetInt(u.Big()).Float64()
	return f
}

// Uint64 saturates at math.MaxUint64.
func (u Uint128) Uint64() uint64 {
	if u.Hi != 0 {
		return math.MaxUint64
	}
	return u.Lo
}

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(u.Lo))
}

// Uint128FromBig converts a non-negative b that fits in 128 bits. Values
// outside the range saturate and report false.
func Uint128FromBig(b *big.Int) (Uint128, bool) {
	if b.Sign() < 0 {
		return Uint128{}, false
	}
	if b.BitLen() > 128 {
		return MaxUint128, false
	}
	lo := new(big.Int).And(b, new(big.Int).SetUint64(math.MaxUint64))
	hi := new(big.Int).Rsh(b, 64)
	return Uint128{Hi: hi.Uint64(), Lo: lo.Uint64()}, true
}

// ParseUint128 parses a plain decimal string with no sign.
func ParseUint128(s string) (Uint128, error) {
	if s == "" {
		return Uint128{}, errSyntax
	}
	var u Uint128
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return Uint128{}, errSyntax
		}
		var over bool
		if u, over = u.mulAdd10(uint64(c - '0')); over {
			return MaxUint128, errRange
		}
	}
	return u, nil
}

// mulAdd10 returns u*10+d.
func (u Uint128) mulAdd10(d uint64) (Uint128, bool) {
	m, over := u.Mul64(10)
	if over {
		return m, true
	}
	return m.Add64(d)
}

const pow10_19 = 10_000_000_000_000_000_000

func (u Uint128) String() string { return string(u.AppendText(nil)) }

// AppendText appends the decimal form of u.
func (u Uint128) AppendText(dst []byte) []byte {
	if u.Hi == 0 {
		return strconv.AppendUint(dst, u.Lo, 10)
	}
	// at most three base-10^19 chunks
	var chunks [3]uint64
	n := 0
	for !u.IsZero() {
		var r uint64
		u, r = u.QuoRem64(pow10_19)
		chunks[n] = r
		n++
	}
	dst = strconv.AppendUint(dst, chunks[n-1], 10)
	for i := n - 2; i >= 0; i-- {
		var buf [19]byte
		v := chunks[i]
		for j := 18; j >= 0; j-- {
			buf[j] = byte('0' + v%10)
			v /= 10
		}
		dst = append(dst, buf[:]...)
	}
	return dst
}
