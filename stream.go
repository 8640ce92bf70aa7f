package restfb

import (
	"context"
	"errors"
	"io"

	eng "github.com/restfb/restfb-sub000/internal/engine"
	"github.com/restfb/restfb-sub000/internal/stream"
	"github.com/restfb/restfb-sub000/jsonvalue"
	"github.com/restfb/restfb-sub000/mapper"
)

// StreamEach decodes the elements of a top-level array, or of the "data"
// array of a connection page, one at a time and passes each to fn. Only the
// current element is held in memory. The other top-level members, such as
// paging and summary, are returned. An error from fn stops the walk and is
// returned as is.
func StreamEach[T any](ctx context.Context, r io.Reader, fn func(i int, v T) error, opts ...ParseOpt) (*jsonvalue.Object, error) {
	opt := lastOpt(opts)
	if opt.MaxDepth == 0 {
		opt.MaxDepth = jsonvalue.DefaultMaxDepth
	}
	src := EnforceSource(JSONReader(r), opt, warnSink(ctx, opt))
	m := opt.resolveMapper()
	rest := jsonvalue.NewObject()

	err := stream.Elements(src, "data",
		func(e stream.Element) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := jsonvalue.Build(e.Source)
			if err != nil {
				return err
			}
			var item T
			if err := m.UnmarshalValue(v, &item); err != nil {
				base := RootPath()
				if e.Member != "" {
					base = base.Field(e.Member)
				}
				return rebase(err, base.Index(e.Index))
			}
			return fn(e.Index, item)
		},
		func(name string, sub eng.TokenSource) error {
			v, err := jsonvalue.Build(sub)
			if err != nil {
				return err
			}
			rest.Set(name, v)
			return nil
		})
	if err != nil {
		var se *stream.ShapeError
		if errors.As(err, &se) {
			p := RootPath()
			if se.Member != "" {
				p = p.Field(se.Member)
			}
			return nil, Issues{p.Issue(CodeInvalidType, se.Msg)}
		}
		pos, _ := eng.FindPositioner(src)
		return nil, toIssues(eng.ToParseError(err, src.Location(), pos))
	}
	return rest, nil
}

// rebase moves the path of a mapping failure under base.
func rebase(err error, base PathRef) error {
	var me *mapper.Error
	if errors.As(err, &me) {
		me.Path = base.Join(PathAt(me.Path)).Pointer()
	}
	return err
}
