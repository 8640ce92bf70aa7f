package client

import (
	"context"
	"net/http"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	restfb "github.com/restfb/restfb-sub000"
	"github.com/restfb/restfb-sub000/jsonvalue"
	"github.com/restfb/restfb-sub000/types"
)

// DefaultConcurrency bounds FetchEach when no limit is given.
const DefaultConcurrency = 4

func (c *Client) mapInto(v jsonvalue.Value, dst any) error {
	opt := c.cfg.ParseOpt
	opt.Mapper = c.mapper
	return restfb.MapValue(v, dst, opt)
}

// Fetch reads a single object, for example "me" or a post id, into dst.
func (c *Client) Fetch(ctx context.Context, object string, dst any, params ...Parameter) error {
	if object == "" {
		return errors.New("object is empty")
	}
	v, err := c.call(ctx, http.MethodGet, object, params)
	if err != nil {
		return err
	}
	if err := c.mapInto(v, dst); err != nil {
		return errors.Errorf("fetch %s: %w", object, err)
	}
	return nil
}

// FetchObjects reads several objects in one request with the ids parameter.
// dst is usually a map[string]T keyed by id, or a struct with one field per
// id.
func (c *Client) FetchObjects(ctx context.Context, ids []string, dst any, params ...Parameter) error {
	if len(ids) == 0 {
		return errors.New("no ids")
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return errors.New("blank id")
		}
	}
	v, err := c.call(ctx, http.MethodGet, "", append([]Parameter{Param("ids", ids)}, params...))
	if err != nil {
		return err
	}
	if err := c.mapInto(v, dst); err != nil {
		return errors.Errorf("fetch objects: %w", err)
	}
	return nil
}

// FetchConnection reads the first page of a connection such as "me/feed".
func FetchConnection[T any](ctx context.Context, c *Client, connection string, params ...Parameter) (*types.Connection[T], error) {
	v, err := c.call(ctx, http.MethodGet, connection, params)
	if err != nil {
		return nil, err
	}
	var page types.Connection[T]
	if err := c.mapInto(v, &page); err != nil {
		return nil, errors.Errorf("fetch connection %s: %w", connection, err)
	}
	return &page, nil
}

// FetchNextPage follows the paging.next link of page. It returns nil without
// an error when page is the last one.
func FetchNextPage[T any](ctx context.Context, c *Client, page *types.Connection[T]) (*types.Connection[T], error) {
	next := page.NextURL()
	if next == "" {
		return nil, nil
	}
	return FetchConnection[T](ctx, c, next)
}

// FetchAll collects every page of a connection, stopping after maxPages pages
// when maxPages is positive.
func FetchAll[T any](ctx context.Context, c *Client, connection string, maxPages int, params ...Parameter) ([]T, error) {
	page, err := FetchConnection[T](ctx, c, connection, params...)
	var out []T
	for n := 1; page != nil && err == nil; n++ {
		out = append(out, page.Data...)
		if maxPages > 0 && n >= maxPages {
			break
		}
		page, err = FetchNextPage(ctx, c, page)
	}
	return out, err
}

// FetchEach fetches ids one request each, at most limit at a time, and
// returns the results in the order of ids. The first failure cancels the
// remaining requests.
func FetchEach[T any](ctx context.Context, c *Client, ids []string, limit int, params ...Parameter) ([]T, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	out := make([]T, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			return c.Fetch(gctx, id, &out[i], params...)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Publish posts params to a connection such as "me/feed" and maps the
// response, typically {"id": ...}, into dst. dst may be nil.
func (c *Client) Publish(ctx context.Context, connection string, dst any, params ...Parameter) error {
	v, err := c.call(ctx, http.MethodPost, connection, params)
	if err != nil {
		return err
	}
	if dst == nil {
		return nil
	}
	if err := c.mapInto(v, dst); err != nil {
		return errors.Errorf("publish %s: %w", connection, err)
	}
	return nil
}

// Delete removes object and reports whether the API confirmed it.
func (c *Client) Delete(ctx context.Context, object string) (bool, error) {
	v, err := c.call(ctx, http.MethodDelete, object, nil)
	if err != nil {
		return false, err
	}
	switch v := v.(type) {
	case jsonvalue.Bool:
		return bool(v), nil
	case *jsonvalue.Object:
		ok, _ := v.GetBool("success")
		return ok, nil
	}
	return false, nil
}
