package scan

// Kind classifies a structural byte.
type Kind uint8

const (
	KindNone Kind = iota
	KindBeginObject
	KindEndObject
	KindBeginArray
	KindEndArray
	KindColon
	KindComma
	KindQuote
	KindBackslash
)

var kindNames = [...]string{"none", "{", "}", "[", "]", ":", ",", "\"", "\\"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

var structuralTable = func() (t [256]Kind) {
	t['{'] = KindBeginObject
	t['}'] = KindEndObject
	t['['] = KindBeginArray
	t[']'] = KindEndArray
	t[':'] = KindColon
	t[','] = KindComma
	t['"'] = KindQuote
	t['\\'] = KindBackslash
	return t
}()

// Classify returns the structural kind of c, or KindNone.
func Classify(c byte) Kind { return structuralTable[c] }

// Structural is one entry of a structural layout.
type Structural struct {
	Offset int
	Kind   Kind
}

func structuralMask(x uint64) uint64 {
	return eqBytes(x, '{') | eqBytes(x, '}') | eqBytes(x, '[') | eqBytes(x, ']') |
		eqBytes(x, ':') | eqBytes(x, ',') | eqBytes(x, '"') | eqBytes(x, '\\')
}

// Layout iterates the structural bytes of a buffer in offset order. Bytes
// are reported wherever they occur, inside strings included; telling string
// interiors apart is the consumer's job. A Layout can be rewound with Reset or
// repositioned with Seek.
type Layout struct {
	data []byte
	base int    // offset of the word held in mask
	mask uint64 // pending flags for the word at base
}

// NewLayout returns a Layout positioned at the start of data.
func NewLayout(data []byte) *Layout {
	l := &Layout{data: data}
	l.Reset()
	return l
}

// Reset rewinds to the first structural byte.
func (l *Layout) Reset() { l.Seek(0) }

// Seek positions the iterator so that Next returns the first structural byte
// at or after off.
func (l *Layout) Seek(off int) {
	if off < 0 {
		off = 0
	}
	l.base = off &^ (wordWidth - 1)
	l.mask = 0
	if l.base < len(l.data) {
		l.mask = l.wordMask(l.base)
		// drop flags below off
		l.mask &^= (uint64(1) << (uint(off-l.base) * 8)) - 1
	}
}

func (l *Layout) wordMask(base int) uint64 {
	if base+wordWidth <= len(l.data) {
		return structuralMask(load(l.data, base))
	}
	// tail: zero padding never matches a structural byte
	var buf [wordWidth]byte
	copy(buf[:], l.data[base:])
	return structuralMask(load(buf[:], 0))
}

// Next returns the next structural byte, or false at the end of the buffer.
func (l *Layout) Next() (Structural, bool) {
	for l.mask == 0 {
		l.base += wordWidth
		if l.base >= len(l.data) {
			l.base = len(l.data)
			return Structural{Offset: len(l.data)}, false
		}
		l.mask = l.wordMask(l.base)
	}
	off := l.base + firstByte(l.mask)
	l.mask &= l.mask - 1
	return Structural{Offset: off, Kind: structuralTable[l.data[off]]}, true
}

// FindStructuralLayout collects the full layout of data.
func FindStructuralLayout(data []byte) []Structural {
	out := make([]Structural, 0, len(data)/8+1)
	l := NewLayout(data)
	for {
		s, ok := l.Next()
		if !ok {
			return out
		}
		out = append(out, s)
	}
}

func structuralLayoutScalar(data []byte) []Structural {
	var out []Structural
	for i, c := range data {
		if k := structuralTable[c]; k != KindNone {
			out = append(out, Structural{Offset: i, Kind: k})
		}
	}
	return out
}
