// Package jsonvalue parses JSON text into an in-memory tree and renders trees
// back to text without losing numeric precision.
//
// Numbers use the narrowest sufficient representation: a float64 when the
// literal has at most 15 significant digits and a decimal exponent within
// ±308, otherwise a 128-bit integer (Int128, or Uint128 above 2^127-1) for
// pure integer literals, and a 113-bit-significand Float128 for the rest.
// Integer literals beyond 128 bits fail the parse with IntegerOverflow;
// floating literals beyond the Float128 range become a float64 NaN.
//
// Design policy:
//   - Keep only public APIs in the root package; put detailed implementations under internal/.
//   - Numeric types live in num/, the CLI under cmd/jsonvalue.
//   - Accessors are total: non-numeric sources read as NaN or 0.
//
// Typical usage:
//
//	v, err := jsonvalue.Parse(data)
//	id, err := v.Get("id")
//	out, err := jsonvalue.Serialize(&v, jsonvalue.EncodeOpt{Pretty: true})
//
// Errors from Parse are *ParseError values carrying a kind and a byte offset;
// errors.Is matches them against ErrInvalidSyntax, ErrDepthExceeded and the
// other sentinels.
package jsonvalue
