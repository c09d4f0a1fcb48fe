// Package scan locates the bytes that drive JSON parsing: whitespace runs,
// string boundaries and structural punctuation. Each search has a scalar
// reference form and a word-at-a-time bulk form that must agree on every
// input. None of the functions fail; a missing match returns len(data).
package scan

import (
	"encoding/binary"
	"math/bits"
)

// Bulk widths in bytes. The wide loop checks four words per iteration and is
// selected on CPUs with 256-bit vector units, where the unrolled loop is
// cheapest.
const (
	wordWidth = 8
	wideWidth = 32
)

// bulkWidth is set per architecture in cpu_*.go.
var bulkWidth = wordWidth

// BulkWidth reports the block size used by the bulk scanners.
func BulkWidth() int { return bulkWidth }

const (
	lsb  = 0x0101010101010101
	msb  = 0x8080808080808080
	low7 = 0x7f7f7f7f7f7f7f7f
)

// zeroBytes sets the high bit of every byte of x that is zero, and of no other
// byte. Unlike the classic (x-lsb)&^x trick it has no false positives, so the
// mask can be iterated bit by bit.
func zeroBytes(x uint64) uint64 { return ^(((x & low7) + low7) | x | low7) }

func eqBytes(x uint64, c byte) uint64 { return zeroBytes(x ^ (lsb * uint64(c))) }

// ctlBytes flags bytes below 0x20.
func ctlBytes(x uint64) uint64 { return zeroBytes(x & (lsb * 0xe0)) }

func firstByte(mask uint64) int { return bits.TrailingZeros64(mask) >> 3 }

func load(data []byte, pos int) uint64 { return binary.LittleEndian.Uint64(data[pos : pos+8]) }

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

// nonSpace flags bytes that are not JSON whitespace.
func nonSpace(x uint64) uint64 {
	return ^(eqBytes(x, ' ') | eqBytes(x, '\t') | eqBytes(x, '\n') | eqBytes(x, '\r')) & msb
}

// stringStop flags a quote, a backslash or a control byte.
func stringStop(x uint64) uint64 {
	return eqBytes(x, '"') | eqBytes(x, '\\') | ctlBytes(x)
}

// SkipWhitespace returns the first offset at or after pos that is not
// whitespace.
func SkipWhitespace(data []byte, pos int) int {
	if pos >= len(data) {
		return len(data)
	}
	// most calls land directly on a token
	if !isSpace(data[pos]) {
		return pos
	}
	return skipWhitespaceBulk(data, pos, bulkWidth)
}

func skipWhitespaceBulk(data []byte, pos, width int) int {
	n := len(data)
	if width >= wideWidth {
		for pos+wideWidth <= n {
			if m := nonSpace(load(data, pos)); m != 0 {
				return pos + firstByte(m)
			}
			if m := nonSpace(load(data, pos+8)); m != 0 {
				return pos + 8 + firstByte(m)
			}
			if m := nonSpace(load(data, pos+16)); m != 0 {
				return pos + 16 + firstByte(m)
			}
			if m := nonSpace(load(data, pos+24)); m != 0 {
				return pos + 24 + firstByte(m)
			}
			pos += wideWidth
		}
	}
	for pos+wordWidth <= n {
		if m := nonSpace(load(data, pos)); m != 0 {
			return pos + firstByte(m)
		}
		pos += wordWidth
	}
	return skipWhitespaceScalar(data, pos)
}

func skipWhitespaceScalar(data []byte, pos int) int {
	for pos < len(data) && isSpace(data[pos]) {
		pos++
	}
	return pos
}

// FindStringEnd returns the offset of the first quote, backslash or control
// byte at or after pos, where pos is just past an opening quote. A quote found
// this way is never escaped, because any escape stops the search first.
func FindStringEnd(data []byte, pos int) int {
	if pos >= len(data) {
		return len(data)
	}
	return findStringEndBulk(data, pos, bulkWidth)
}

func findStringEndBulk(data []byte, pos, width int) int {
	n := len(data)
	if width >= wideWidth {
		for pos+wideWidth <= n {
			if m := stringStop(load(data, pos)); m != 0 {
				return pos + firstByte(m)
			}
			if m := stringStop(load(data, pos+8)); m != 0 {
				return pos + 8 + firstByte(m)
			}
			if m := stringStop(load(data, pos+16)); m != 0 {
				return pos + 16 + firstByte(m)
			}
			if m := stringStop(load(data, pos+24)); m != 0 {
				return pos + 24 + firstByte(m)
			}
			pos += wideWidth
		}
	}
	for pos+wordWidth <= n {
		if m := stringStop(load(data, pos)); m != 0 {
			return pos + firstByte(m)
		}
		pos += wordWidth
	}
	return findStringEndScalar(data, pos)
}

func findStringEndScalar(data []byte, pos int) int {
	for ; pos < len(data); pos++ {
		if c := data[pos]; c == '"' || c == '\\' || c < 0x20 {
			return pos
		}
	}
	return pos
}
