// Package num holds the adaptive-precision numeric representations used by
// jsonvalue: float64, Float128, Int128 and Uint128, plus the literal scanner
// that decides which one a JSON number needs.
package num

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"unsafe"
)

// Kind tags the active representation of a Number.
type Kind uint8

const (
	KindDouble Kind = iota
	KindFloat128
	KindInt128
	KindUint128
)

func (k Kind) String() string {
	switch k {
	case KindDouble:
		return "double"
	case KindFloat128:
		return "float128"
	case KindInt128:
		return "int128"
	case KindUint128:
		return "uint128"
	}
	return "unknown"
}

// ErrIntegerOverflow is returned for integer literals whose magnitude is
// beyond the 128-bit range.
var ErrIntegerOverflow = errors.New("num: integer literal exceeds 128 bits")

// Limits sets the thresholds for the float64 fast path. Literals with more
// significant digits, or a decimal exponent of larger magnitude, are promoted.
type Limits struct {
	MaxDoubleDigits   int
	MaxDoubleExponent int
}

// DefaultLimits keeps 15 digits (always exact in a float64) and the float64
// exponent range.
var DefaultLimits = Limits{MaxDoubleDigits: 15, MaxDoubleExponent: 308}

// Decimal exponent window for Float128; outside it the value overflows or
// underflows before any digits are converted.
const (
	float128MaxDecimalExp = 4932
	float128MinDecimalExp = -4966
)

// Number is a sum type over the four numeric representations. The zero value
// is the double 0.
type Number struct {
	kind Kind
	f    float64
	// w holds Int128/Uint128 bits, or the Float128 significand.
	w   Uint128
	exp int32
	neg bool
	fm  form
}

func Double(f float64) Number { return Number{kind: KindDouble, f: f} }

func FromInt128(i Int128) Number { return Number{kind: KindInt128, w: i.bits()} }

func FromUint128(u Uint128) Number { return Number{kind: KindUint128, w: u} }

func FromFloat128(f Float128) Number {
	return Number{kind: KindFloat128, w: f.mant, exp: f.exp, neg: f.neg, fm: f.form}
}

func (n Number) Kind() Kind { return n.kind }

// Parse converts the literal lit described by sp to the narrowest sufficient
// representation. The only error is ErrIntegerOverflow; floating literals
// beyond the Float128 range become a float64 NaN.
func Parse(lit []byte, sp Span, lim Limits) (Number, error) {
	if lim.MaxDoubleDigits <= 0 {
		lim.MaxDoubleDigits = DefaultLimits.MaxDoubleDigits
	}
	if lim.MaxDoubleExponent <= 0 {
		lim.MaxDoubleExponent = DefaultLimits.MaxDoubleExponent
	}
	s := bytesToString(lit)

	if sp.SignificantDigits <= lim.MaxDoubleDigits && abs(sp.Exponent) <= lim.MaxDoubleExponent {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return Double(f), nil
		}
		// out of float64 range near the threshold; fall through to wider types
	}

	if sp.IsInteger() {
		return parseInteger(lit, sp.Negative)
	}

	switch {
	case sp.Exponent > float128MaxDecimalExp:
		return Double(math.NaN()), nil
	case sp.Exponent < float128MinDecimalExp:
		return FromFloat128(Float128{neg: sp.Negative}), nil
	}
	bf, _, err := big.ParseFloat(s, 10, Float128Precision, big.ToNearestEven)
	if err != nil {
		return Double(math.NaN()), nil
	}
	f, ok := Float128FromBig(bf)
	if !ok {
		return Double(math.NaN()), nil
	}
	return FromFloat128(f), nil
}

func parseInteger(lit []byte, neg bool) (Number, error) {
	if neg {
		lit = lit[1:]
	}
	var m Uint128
	for _, c := range lit {
		var over bool
		if m, over = m.mulAdd10(uint64(c - '0')); over {
			return Number{}, ErrIntegerOverflow
		}
	}
	if i, ok := Int128FromMagnitude(neg, m); ok {
		return FromInt128(i), nil
	}
	if neg {
		return Number{}, ErrIntegerOverflow
	}
	return FromUint128(m), nil
}

// Float64 converts to float64. Float128 values beyond the float64 range
// yield NaN.
func (n Number) Float64() float64 {
	switch n.kind {
	case KindInt128:
		return fromBits(n.w).Float64()
	case KindUint128:
		return n.w.Float64()
	case KindFloat128:
		return n.Float128().Float64()
	}
	return n.f
}

// Int64 truncates toward zero and saturates at the int64 bounds. NaN yields 0.
func (n Number) Int64() int64 {
	switch n.kind {
	case KindInt128:
		return fromBits(n.w).Int64()
	case KindUint128:
		if n.w.Hi != 0 || n.w.Lo > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(n.w.Lo)
	case KindFloat128:
		return n.Float128().Int128().Int64()
	}
	switch f := n.f; {
	case math.IsNaN(f):
		return 0
	case f >= 0x1p63:
		return math.MaxInt64
	case f < -0x1p63:
		return math.MinInt64
	default:
		return int64(f)
	}
}

// Uint64 truncates toward zero and saturates; negative values yield 0.
func (n Number) Uint64() uint64 {
	switch n.kind {
	case KindInt128:
		return fromBits(n.w).Uint128().Uint64()
	case KindUint128:
		return n.w.Uint64()
	case KindFloat128:
		return n.Float128().Uint128().Uint64()
	}
	switch f := n.f; {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= 0x1p64:
		return math.MaxUint64
	default:
		return uint64(f)
	}
}

// Int128 truncates toward zero and saturates.
func (n Number) Int128() Int128 {
	switch n.kind {
	case KindInt128:
		return fromBits(n.w)
	case KindUint128:
		if n.w.Hi >= 1<<63 {
			return MaxInt128
		}
		return fromBits(n.w)
	case KindFloat128:
		return n.Float128().Int128()
	}
	if math.Abs(n.f) < 0x1p63 {
		return I128(int64(n.f))
	}
	return Float128FromFloat64(n.f).Int128()
}

// Uint128 truncates toward zero and saturates; negative values yield 0.
func (n Number) Uint128() Uint128 {
	switch n.kind {
	case KindInt128:
		return fromBits(n.w).Uint128()
	case KindUint128:
		return n.w
	case KindFloat128:
		return n.Float128().Uint128()
	}
	if n.f >= 0 && n.f < 0x1p64 {
		return U128(uint64(n.f))
	}
	return Float128FromFloat64(n.f).Uint128()
}

// Float128 widens (exactly for doubles) or rounds integers to 113 bits.
func (n Number) Float128() Float128 {
	switch n.kind {
	case KindFloat128:
		return Float128{mant: n.w, exp: n.exp, neg: n.neg, form: n.fm}
	case KindInt128:
		f, _ := Float128FromBig(new(big.Float).SetInt(fromBits(n.w).Big()))
		return f
	case KindUint128:
		f, _ := Float128FromBig(new(big.Float).SetInt(n.w.Big()))
		return f
	}
	return Float128FromFloat64(n.f)
}

// IsFinite reports whether the value has a JSON spelling.
func (n Number) IsFinite() bool {
	switch n.kind {
	case KindDouble:
		return !math.IsNaN(n.f) && !math.IsInf(n.f, 0)
	case KindFloat128:
		return n.fm == finite
	}
	return true
}

// Equal compares numeric values exactly across representations. Two NaNs
// are equal.
func Equal(a, b Number) bool {
	if a.kind == b.kind {
		switch a.kind {
		case KindDouble:
			return a.f == b.f || (math.IsNaN(a.f) && math.IsNaN(b.f))
		case KindInt128, KindUint128:
			return a.w == b.w
		}
	}
	if !a.IsFinite() || !b.IsFinite() {
		return a.Float128().Cmp(b.Float128()) == 0
	}
	return exact(a).Cmp(exact(b)) == 0
}

// exact returns n as a big.Float without rounding.
func exact(n Number) *big.Float {
	switch n.kind {
	case KindInt128:
		return new(big.Float).SetInt(fromBits(n.w).Big())
	case KindUint128:
		return new(big.Float).SetInt(n.w.Big())
	case KindFloat128:
		return n.Float128().Big()
	}
	return new(big.Float).SetFloat64(n.f)
}

func (n Number) String() string { return string(n.AppendText(nil)) }

// AppendText appends a JSON spelling of n. Integral doubles below 1e15 and
// all integer kinds are written without a fraction or exponent. Integral
// doubles of 1e15 and above take the exponent form (1e+21), since a bare
// digit string that long would parse back as Int128 instead of a double.
// Float128 values always keep a fraction or an exponent. Non-finite
// values are written as NaN, +Inf or -Inf, which callers must not emit as JSON.
func (n Number) AppendText(dst []byte) []byte {
	switch n.kind {
	case KindInt128:
		return fromBits(n.w).AppendText(dst)
	case KindUint128:
		return n.w.AppendText(dst)
	case KindFloat128:
		return n.Float128().AppendText(dst)
	}
	return appendDouble(dst, n.f)
}

func appendDouble(dst []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "NaN"...)
	case math.IsInf(f, 1):
		return append(dst, "+Inf"...)
	case math.IsInf(f, -1):
		return append(dst, "-Inf"...)
	}
	a := math.Abs(f)
	if a == 0 || (a >= 1e-6 && a < 1e15) {
		return strconv.AppendFloat(dst, f, 'f', -1, 64)
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'e', -1, 64)
	// e-07 -> e-7
	if len(dst)-start >= 4 && dst[len(dst)-4] == 'e' && dst[len(dst)-2] == '0' {
		dst[len(dst)-2] = dst[len(dst)-1]
		dst = dst[:len(dst)-1]
	}
	return dst
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
