package jsonvalue

import "github.com/reoring/jsonvalue/num"

// DefaultMaxDepth bounds container nesting when no limit is configured.
const DefaultMaxDepth = 256

// Dialect selects strictness refinements. None of them extend the JSON
// grammar.
type Dialect uint8

const (
	// DialectAllowBOM skips a leading UTF-8 byte order mark.
	DialectAllowBOM Dialect = 1 << iota
	// DialectRejectDuplicateKeys fails the parse with DuplicateKey instead of
	// keeping the last occurrence.
	DialectRejectDuplicateKeys
	// DialectValidateUTF8 rejects strings that are not valid UTF-8.
	DialectValidateUTF8
)

// Has reports whether all flags in f are set.
func (d Dialect) Has(f Dialect) bool { return d&f == f }

// ParseOpt bundles parsing options. The zero value selects the defaults.
type ParseOpt struct {
	MaxDepth        int // 0 means DefaultMaxDepth.
	MaxStringLength int // decoded bytes per string or key; 0 means unlimited.
	Dialect         Dialect
	// Limits overrides the double fast-path thresholds; the zero value means
	// num.DefaultLimits.
	Limits num.Limits
}

func (o ParseOpt) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o ParseOpt) limits() num.Limits {
	if o.Limits == (num.Limits{}) {
		return num.DefaultLimits
	}
	return o.Limits
}

// EncodeOpt bundles serialization options. The zero value renders compact
// output with the default depth guard.
type EncodeOpt struct {
	Pretty   bool
	Indent   int // spaces per level when Pretty; 0 means 2.
	MaxDepth int // 0 means DefaultMaxDepth.
}

func (o EncodeOpt) indent() int {
	if o.Indent <= 0 {
		return 2
	}
	return o.Indent
}

func (o EncodeOpt) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)
