package engine

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/reoring/jsonvalue/internal/scan"
)

// DecodeString appends the unescaped contents of the string starting at pos,
// which is just past the opening quote, to dst. It returns the extended
// buffer and the offset just past the closing quote. Lone surrogates decode to
// U+FFFD. With validUTF8 set, raw bytes must form valid UTF-8.
func DecodeString(dst, data []byte, pos int, validUTF8 bool) ([]byte, int, error) {
	start := pos - 1
	for {
		q := scan.FindStringEnd(data, pos)
		if validUTF8 {
			if i := invalidUTF8(data[pos:q]); i >= 0 {
				return dst, pos + i, syntaxErr(pos+i, "invalid UTF-8 in string")
			}
		}
		dst = append(dst, data[pos:q]...)
		if q >= len(data) {
			return dst, q, syntaxErr(start, "unterminated string")
		}
		switch c := data[q]; {
		case c == '"':
			return dst, q + 1, nil
		case c == '\\':
			var err error
			if dst, pos, err = decodeEscape(dst, data, q); err != nil {
				return dst, q, err
			}
		default:
			return dst, q, syntaxErr(q, "control character in string")
		}
	}
}

// StringEnd validates the string starting at pos (just past the opening
// quote) without decoding it and returns the offset past the closing quote.
func StringEnd(data []byte, pos int) (int, error) {
	start := pos - 1
	for {
		q := scan.FindStringEnd(data, pos)
		if q >= len(data) {
			return q, syntaxErr(start, "unterminated string")
		}
		switch c := data[q]; {
		case c == '"':
			return q + 1, nil
		case c == '\\':
			n, err := escapeLen(data, q)
			if err != nil {
				return q, err
			}
			pos = q + n
		default:
			return q, syntaxErr(q, "control character in string")
		}
	}
}

func escapeLen(data []byte, q int) (int, error) {
	if q+1 >= len(data) {
		return 0, syntaxErr(q, "unterminated escape")
	}
	switch data[q+1] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return 2, nil
	case 'u':
		if hex4(data, q+2) < 0 {
			return 0, syntaxErr(q, "invalid unicode escape")
		}
		return 6, nil
	}
	return 0, syntaxErr(q, "invalid escape")
}

var simpleEscapes = [256]byte{'"': '"', '\\': '\\', '/': '/', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t'}

func decodeEscape(dst, data []byte, q int) ([]byte, int, error) {
	n, err := escapeLen(data, q)
	if err != nil {
		return dst, q, err
	}
	if n == 2 {
		return append(dst, simpleEscapes[data[q+1]]), q + 2, nil
	}
	r := rune(hex4(data, q+2))
	if !utf16.IsSurrogate(r) {
		return utf8.AppendRune(dst, r), q + 6, nil
	}
	if r < 0xdc00 && q+12 <= len(data) && data[q+6] == '\\' && data[q+7] == 'u' {
		if lo := hex4(data, q+8); lo >= 0xdc00 && lo < 0xe000 {
			return utf8.AppendRune(dst, utf16.DecodeRune(r, rune(lo))), q + 12, nil
		}
	}
	return utf8.AppendRune(dst, utf8.RuneError), q + 6, nil
}

// hex4 decodes four hex digits at pos, or returns -1.
func hex4(data []byte, pos int) int {
	if pos+4 > len(data) {
		return -1
	}
	v := 0
	for _, c := range data[pos : pos+4] {
		switch {
		case c >= '0' && c <= '9':
			c -= '0'
		case c >= 'a' && c <= 'f':
			c -= 'a' - 10
		case c >= 'A' && c <= 'F':
			c -= 'A' - 10
		default:
			return -1
		}
		v = v<<4 | int(c)
	}
	return v
}

// invalidUTF8 returns the index of the first invalid sequence in b, or -1.
func invalidUTF8(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
