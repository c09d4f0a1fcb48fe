package num

import "fmt"

// exponentCap bounds the decimal exponent tracked while scanning. Anything
// past it is far outside every supported range.
const exponentCap = 1 << 30

// Span describes a numeric literal inside an input buffer. It is transient:
// it indexes the buffer and never outlives a single parse.
type Span struct {
	Start, End  int
	Negative    bool
	HasFraction bool
	HasExponent bool
	// SignificantDigits counts digits excluding leading zeros.
	SignificantDigits int
	// Exponent is the decimal exponent of the leading significant digit,
	// clamped to ±2^30. Zero literals report 0.
	Exponent int
}

// IsInteger reports whether the literal has neither fraction nor exponent.
func (s Span) IsInteger() bool { return !s.HasFraction && !s.HasExponent }

// SyntaxError reports a malformed literal.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("num: %s at offset %d", e.Msg, e.Offset)
}

// ScanLiteral reads the JSON number starting at data[pos]. The literal ends
// at the first byte that cannot continue it; the caller decides whether that
// byte is an acceptable delimiter.
func ScanLiteral(data []byte, pos int) (Span, error) {
	sp := Span{Start: pos}
	i := pos
	n := len(data)
	if i < n && data[i] == '-' {
		sp.Negative = true
		i++
	}
	if i >= n {
		return sp, &SyntaxError{Offset: i, Msg: "missing digits"}
	}

	leading := 0 // zeros before the first non-zero digit
	seenNonZero := false
	intDigits := 0
	switch c := data[i]; {
	case c == '0':
		intDigits = 1
		leading = 1
		i++
		if i < n && data[i] >= '0' && data[i] <= '9' {
			return sp, &SyntaxError{Offset: i, Msg: "leading zero"}
		}
	case c >= '1' && c <= '9':
		seenNonZero = true
		for i < n && data[i] >= '0' && data[i] <= '9' {
			intDigits++
			i++
		}
	default:
		return sp, &SyntaxError{Offset: i, Msg: "missing digits"}
	}

	fracDigits := 0
	if i < n && data[i] == '.' {
		sp.HasFraction = true
		i++
		start := i
		for i < n && data[i] >= '0' && data[i] <= '9' {
			if !seenNonZero {
				if data[i] == '0' {
					leading++
				} else {
					seenNonZero = true
				}
			}
			i++
		}
		fracDigits = i - start
		if fracDigits == 0 {
			return sp, &SyntaxError{Offset: i, Msg: "missing fraction digits"}
		}
	}

	exp := 0
	if i < n && (data[i] == 'e' || data[i] == 'E') {
		sp.HasExponent = true
		i++
		expNeg := false
		if i < n && (data[i] == '+' || data[i] == '-') {
			expNeg = data[i] == '-'
			i++
		}
		start := i
		for i < n && data[i] >= '0' && data[i] <= '9' {
			if exp < exponentCap {
				exp = exp*10 + int(data[i]-'0')
			}
			i++
		}
		if i == start {
			return sp, &SyntaxError{Offset: i, Msg: "missing exponent digits"}
		}
		if exp > exponentCap {
			exp = exponentCap
		}
		if expNeg {
			exp = -exp
		}
	}

	sp.End = i
	total := intDigits + fracDigits
	if !seenNonZero {
		return sp, nil
	}
	sp.SignificantDigits = total - leading
	// position of the first significant digit relative to the decimal point
	e := intDigits - 1 - leading + exp
	switch {
	case e > exponentCap:
		e = exponentCap
	case e < -exponentCap:
		e = -exponentCap
	}
	sp.Exponent = e
	return sp, nil
}
