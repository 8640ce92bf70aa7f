// Package restfb binds Graph API JSON to Go values.
//
// The package provides:
//
//   - A pluggable token Source (encoding/json by default, go-json via the
//     source package) with duplicate-key, depth and size enforcement
//   - ParseValue for raw JSON value trees and Decode/ParseFrom for mapping
//     documents onto structs tagged `facebook:"key"`
//   - A stable error model via Issues (JSON Pointer, code, localized message,
//     line and column)
//   - Presence metadata through DecodeWithMeta and preserving output
//   - Typed field selectors that render the "fields" query parameter
//
// Resource types live in types/, the mapper in mapper/, the value tree in
// jsonvalue/ and the HTTP client in client/.
//
// Typical usage:
//
//	post, err := restfb.Decode[types.Post](ctx, restfb.JSONBytes(data))
//	dm, err := restfb.DecodeWithMeta[types.Post](ctx, restfb.JSONBytes(data))
//	fields := restfb.FieldsParam(
//		restfb.PathOf(func(p *types.Post) *string { return &p.Message }),
//		restfb.PathOf(func(p *types.Post) *string { return &p.From.Name }),
//	)
package restfb
