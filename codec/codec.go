// Package codec converts between the wire representations used by the Graph
// API and Go domain values.
package codec

import "context"

// Codec converts a wire value A into a domain value B and back.
type Codec[A, B any] interface {
	Decode(ctx context.Context, a A) (B, error)
	Encode(ctx context.Context, b B) (A, error)
}

// FormatError reports a wire value that does not match any accepted format.
type FormatError struct {
	Value  string
	Format string // human readable description of what was expected
	Err    error
}

func (e *FormatError) Error() string {
	return "codec: invalid " + e.Format + " " + quote(e.Value)
}

func (e *FormatError) Unwrap() error { return e.Err }

func quote(s string) string {
	const max = 64
	if len(s) > max {
		s = s[:max] + "..."
	}
	return "\"" + s + "\""
}
