package num

import (
	"math"
	"math/big"
	"strconv"
)

const (
	// Float128Precision is the significand width in bits, as in IEEE 754 binary128.
	Float128Precision = 113

	// Binary exponent bounds: finite magnitudes are below 2^16384 and the
	// smallest subnormal is 2^-16494.
	float128MaxExp    = 16384
	float128MinNormal = -16382
	float128MinExp    = -16494

	// float128Digits decimal digits always recover the exact binary value.
	float128Digits = 36
	// minTextDigits is one past the double fast path of DefaultLimits.
	minTextDigits = 16
)

// MaxFloat128RelativeError bounds |x-y|/|x| when a Float128 x is rendered to
// text and parsed back as y.
const MaxFloat128RelativeError = 0x1p-112

type form uint8

const (
	finite form = iota
	inf
	nan
)

// Float128 is a binary floating-point number with a 113-bit significand and
// the exponent range of binary128. The value is mant * 2^exp.
type Float128 struct {
	mant Uint128
	exp  int32
	neg  bool
	form form
}

// NaN128 returns a Float128 not-a-number.
func NaN128() Float128 { return Float128{form: nan} }

func (f Float128) IsNaN() bool { return f.form == nan }

func (f Float128) IsInf() bool { return f.form == inf }

func (f Float128) IsZero() bool { return f.form == finite && f.mant.IsZero() }

// Signbit reports whether f is negative or negative zero.
func (f Float128) Signbit() bool { return f.neg }

// Float128FromFloat64 converts x exactly.
func Float128FromFloat64(x float64) Float128 {
	switch {
	case math.IsNaN(x):
		return NaN128()
	case math.IsInf(x, 0):
		return Float128{form: inf, neg: x < 0}
	}
	f, _ := Float128FromBig(new(big.Float).SetFloat64(x))
	if x == 0 {
		f.neg = math.Signbit(x)
	}
	return f
}

// Float128FromBig rounds x to 113 bits. It reports false, returning an
// infinity, when the magnitude is beyond the binary128 range. Magnitudes
// below the smallest subnormal round to a signed zero.
func Float128FromBig(x *big.Float) (Float128, bool) {
	neg := x.Signbit()
	if x.IsInf() {
		return Float128{form: inf, neg: neg}, false
	}
	if x.Sign() == 0 {
		return Float128{neg: neg}, true
	}
	r := new(big.Float).SetMode(big.ToNearestEven).SetPrec(Float128Precision).Set(x)
	e := r.MantExp(nil)
	if e-1 < float128MinNormal {
		// subnormal range: fewer significand bits are available
		prec := Float128Precision - (float128MinNormal - (e - 1))
		if prec <= 0 {
			return Float128{neg: neg}, true
		}
		r = new(big.Float).SetMode(big.ToNearestEven).SetPrec(uint(prec)).Set(x)
		e = r.MantExp(nil)
	}
	if e > float128MaxExp {
		return Float128{form: inf, neg: neg}, false
	}
	// r = m * 2^e with 0.5 <= |m| < 1, so m * 2^113 is an integer.
	m := new(big.Float).SetMantExp(r, Float128Precision-e)
	mi, _ := m.Int(nil)
	mag, _ := Uint128FromBig(mi.Abs(mi))
	return Float128{mant: mag, exp: int32(e - Float128Precision), neg: neg}, true
}

// Big returns f as a big.Float. NaN has no big.Float form and yields nil.
func (f Float128) Big() *big.Float {
	switch f.form {
	case nan:
		return nil
	case inf:
		return new(big.Float).SetInf(f.neg)
	}
	z := new(big.Float).SetPrec(Float128Precision).SetInt(f.mant.Big())
	z.SetMantExp(z, int(f.exp))
	if f.neg {
		z.Neg(z)
	}
	return z
}

// Float64 rounds f to a float64. Magnitudes beyond the float64 range yield
// NaN rather than an infinity.
func (f Float128) Float64() float64 {
	switch f.form {
	case nan:
		return math.NaN()
	case inf:
		return math.NaN()
	}
	if f.mant.IsZero() {
		if f.neg {
			return math.Copysign(0, -1)
		}
		return 0
	}
	x, _ := f.Big().Float64()
	if math.IsInf(x, 0) {
		return math.NaN()
	}
	return x
}

// Int128 truncates toward zero and saturates. NaN yields zero.
func (f Float128) Int128() Int128 {
	switch f.form {
	case nan:
		return Int128{}
	case inf:
		if f.neg {
			return MinInt128
		}
		return MaxInt128
	}
	bi, _ := f.Big().Int(nil)
	v, _ := Int128FromBig(bi)
	return v
}

// Uint128 truncates toward zero and saturates; negative values yield zero.
func (f Float128) Uint128() Uint128 {
	if f.form == nan || f.neg {
		return Uint128{}
	}
	if f.form == inf {
		return MaxUint128
	}
	bi, _ := f.Big().Int(nil)
	v, _ := Uint128FromBig(bi)
	return v
}

// Cmp compares two non-NaN values. NaN compares equal only to NaN and below
// everything else.
func (f Float128) Cmp(g Float128) int {
	switch {
	case f.form == nan && g.form == nan:
		return 0
	case f.form == nan:
		return -1
	case g.form == nan:
		return 1
	}
	return f.Big().Cmp(g.Big())
}

func (f Float128) String() string { return string(f.AppendText(nil)) }

// AppendText renders f with enough digits to recover it exactly. Values with
// a decimal exponent in [-5, 36) and a fractional part use positional
// notation; everything else uses an exponent.
//
// At least minTextDigits significant digits are kept, so that Parse with
// DefaultLimits reads the text back as a Float128 rather than a double.
// Zero is the exception and renders as 0.
func (f Float128) AppendText(dst []byte) []byte {
	switch f.form {
	case nan:
		return append(dst, "NaN"...)
	case inf:
		if f.neg {
			return append(dst, "-Inf"...)
		}
		return append(dst, "+Inf"...)
	}
	if f.neg {
		dst = append(dst, '-')
	}
	if f.mant.IsZero() {
		return append(dst, '0')
	}
	abs := f.Big()
	abs.Abs(abs)
	// d.ddd...e±N, using the fewest digits that still parse back to f
	var text string
	for p := float128Digits - 3; p <= float128Digits; p++ {
		text = abs.Text('e', p-1)
		back, _, err := big.ParseFloat(text, 10, Float128Precision, big.ToNearestEven)
		if err == nil && back.Cmp(abs) == 0 {
			break
		}
	}
	epos := len(text) - 1
	for text[epos] != 'e' {
		epos--
	}
	exp, _ := strconv.Atoi(text[epos+1:])
	digits := make([]byte, 0, float128Digits)
	for i := 0; i < epos; i++ {
		if text[i] != '.' {
			digits = append(digits, text[i])
		}
	}
	for len(digits) > minTextDigits && digits[len(digits)-1] == '0' {
		digits = digits[:len(digits)-1]
	}
	return appendDecimal(dst, digits, exp)
}

// appendDecimal renders the significant digits d with decimal exponent exp
// (the exponent of d[0]).
func appendDecimal(dst, d []byte, exp int) []byte {
	switch {
	case exp >= 0 && exp < float128Digits && len(d) > exp+1:
		dst = append(dst, d[:exp+1]...)
		dst = append(dst, '.')
		return append(dst, d[exp+1:]...)
	case exp < 0 && exp >= -5:
		dst = append(dst, '0', '.')
		for i := -1; i > exp; i-- {
			dst = append(dst, '0')
		}
		return append(dst, d...)
	}
	dst = append(dst, d[0])
	if len(d) > 1 {
		dst = append(dst, '.')
		dst = append(dst, d[1:]...)
	}
	dst = append(dst, 'e')
	if exp >= 0 {
		dst = append(dst, '+')
	}
	return strconv.AppendInt(dst, int64(exp), 10)
}
