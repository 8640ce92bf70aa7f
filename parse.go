package restfb

import (
	"context"
	"io"

	slogctx "github.com/veqryn/slog-context"

	"github.com/restfb/restfb-sub000/jsonvalue"
	"github.com/restfb/restfb-sub000/mapper"
)

// ParseValue consumes one JSON document from src and returns its value tree.
// Duplicate keys at Warn severity are logged through the context logger;
// at Error severity they fail the parse.
func ParseValue(ctx context.Context, src Source, opts ...ParseOpt) (jsonvalue.Value, error) {
	opt := lastOpt(opts)
	if opt.MaxDepth == 0 {
		opt.MaxDepth = jsonvalue.DefaultMaxDepth
	}
	v, err := jsonvalue.Build(EnforceSource(src, opt, warnSink(ctx, opt)))
	if err != nil {
		return nil, toIssues(err)
	}
	return v, nil
}

// warnSink logs Warn-level duplicate keys through the context logger.
func warnSink(ctx context.Context, opt ParseOpt) func(Issue) {
	if opt.Strictness.OnDuplicateKey != Warn {
		return nil
	}
	logger := slogctx.FromCtx(ctx)
	return func(it Issue) {
		if it.Code != CodeDuplicateKey {
			return
		}
		logger.WarnContext(ctx, "duplicate key in JSON input",
			"path", it.Path, "line", it.Line, "column", it.Column)
	}
}

// ParseFrom parses src and maps the document into dst, which must be a
// non-nil pointer. A top-level {"data": [...]} envelope is unwrapped when dst
// points to a slice.
func ParseFrom(ctx context.Context, src Source, dst any, opts ...ParseOpt) error {
	_, err := parseInto(ctx, src, dst, opts)
	return err
}

func parseInto(ctx context.Context, src Source, dst any, opts []ParseOpt) (jsonvalue.Value, error) {
	if src == nil {
		return nil, singleIssue(CodeParseError, "nil source")
	}
	v, err := ParseValue(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	if err := MapValue(v, dst, opts...); err != nil {
		return nil, err
	}
	return v, nil
}

// MapValue maps an already parsed tree into dst and reports failures as
// Issues.
func MapValue(v jsonvalue.Value, dst any, opts ...ParseOpt) error {
	if err := lastOpt(opts).resolveMapper().UnmarshalValue(v, dst); err != nil {
		return toIssues(err)
	}
	return nil
}

// Decode parses src into a new T.
func Decode[T any](ctx context.Context, src Source, opts ...ParseOpt) (T, error) {
	var v T
	if err := ParseFrom(ctx, src, &v, opts...); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// DecodeWithMeta parses src into a new T and records which JSON Pointers were
// present or null in the input.
func DecodeWithMeta[T any](ctx context.Context, src Source, opts ...ParseOpt) (Decoded[T], error) {
	var dm Decoded[T]
	tree, err := parseInto(ctx, src, &dm.Value, opts)
	if err != nil {
		return Decoded[T]{}, err
	}
	dm.Presence = collectPresence(tree, lastOpt(opts).Presence)
	return dm, nil
}

// StreamParse decodes a T from r. When MaxBytes is set the size cap is
// enforced up front, otherwise tokens are streamed through the current driver.
func StreamParse[T any](ctx context.Context, r io.Reader, opts ...ParseOpt) (T, error) {
	var zero T
	if limit := lastOpt(opts).MaxBytes; limit > 0 {
		data, err := io.ReadAll(io.LimitReader(r, limit+1))
		if err != nil {
			return zero, err
		}
		if int64(len(data)) > limit {
			return zero, singleIssue(CodeTruncated, "max bytes exceeded")
		}
		return Decode[T](ctx, JSONBytes(data), opts...)
	}
	return Decode[T](ctx, JSONReader(r), opts...)
}

// Unmarshal maps JSON data into v with the default options.
func Unmarshal(data []byte, v any) error {
	return ParseFrom(context.Background(), JSONBytes(data), v)
}

// Marshal renders v as compact JSON.
func Marshal(v any) ([]byte, error) {
	b, err := mapper.MarshalWith(v, jsonvalue.Minimal)
	if err != nil {
		return nil, toIssues(err)
	}
	return b, nil
}

// MarshalIndent renders v as JSON indented by indent spaces per level.
func MarshalIndent(v any, indent int) ([]byte, error) {
	b, err := mapper.MarshalWith(v, jsonvalue.Pretty(indent))
	if err != nil {
		return nil, toIssues(err)
	}
	return b, nil
}

// Compact re-emits a JSON document without insignificant whitespace.
func Compact(ctx context.Context, data []byte, opts ...ParseOpt) ([]byte, error) {
	v, err := ParseValue(ctx, JSONBytes(data), opts...)
	if err != nil {
		return nil, err
	}
	return jsonvalue.Compact(v)
}
