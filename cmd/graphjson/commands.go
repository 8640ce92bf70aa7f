package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	restfb "github.com/restfb/restfb-sub000"
	"github.com/restfb/restfb-sub000/client"
	"github.com/restfb/restfb-sub000/internal/config"
	"github.com/restfb/restfb-sub000/internal/yamlvalue"
	"github.com/restfb/restfb-sub000/jsonschema"
	"github.com/restfb/restfb-sub000/jsonvalue"
	"github.com/restfb/restfb-sub000/mapper"
	"github.com/restfb/restfb-sub000/types"
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func readInput(file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(stdin)
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}

// report logs every issue of err and returns a short error for the exit
// message.
func report(ctx context.Context, err error) error {
	iss, ok := restfb.AsIssues(err)
	if !ok {
		return err
	}
	log := slogctx.FromCtx(ctx)
	for _, it := range iss {
		log.ErrorContext(ctx, it.Message, "code", it.Code, "path", it.Path, "line", it.Line, "column", it.Column)
	}
	return errors.Errorf("%d issue(s) in input", len(iss))
}

func writerConfig(indent int) jsonvalue.WriterConfig {
	if indent > 0 {
		return jsonvalue.Pretty(indent)
	}
	return jsonvalue.Minimal
}

func writeValue(v jsonvalue.Value, cfg jsonvalue.WriterConfig) error {
	w := jsonvalue.NewWriter(stdout, cfg)
	if err := w.Value(v); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(stdout, "\n")
	return err
}

func writeBytes(b []byte) error {
	if !bytes.HasSuffix(b, []byte("\n")) {
		b = append(b, '\n')
	}
	_, err := stdout.Write(b)
	return err
}

func lookupType(name string) (any, error) {
	v, ok := types.New(name)
	if !ok {
		return nil, errors.Errorf("unknown type %q (known: %s)", name, strings.Join(types.Names(), ", "))
	}
	return v, nil
}

type FmtCmd struct {
	File       string `kong:"arg,optional,default='-',help='Input file, - for stdin.'"`
	Indent     int    `kong:"short='i',help='Indent width; 0 prints compact output.'"`
	Sort       bool   `kong:"help='Sort object members by name.'"`
	EscapeHTML bool   `kong:"name='escape-html',help='Escape <, > and &.'"`
	ASCII      bool   `kong:"name='ascii',help='Escape non-ASCII characters.'"`
	YAML       bool   `kong:"name='yaml',help='Write YAML instead of JSON.'"`
	FromYAML   bool   `kong:"name='from-yaml',help='Read YAML instead of JSON.'"`
}

func (c *FmtCmd) Run(ctx context.Context, g *config.Globals) error {
	data, err := readInput(c.File)
	if err != nil {
		return err
	}
	var v jsonvalue.Value
	if c.FromYAML {
		v, err = yamlvalue.Decode(data)
	} else {
		v, err = restfb.ParseValue(ctx, restfb.JSONBytes(data), g.ParseOpt())
	}
	if err != nil {
		return report(ctx, err)
	}
	if c.YAML {
		b, err := yamlvalue.Marshal(v)
		if err != nil {
			return err
		}
		return writeBytes(b)
	}
	cfg := writerConfig(c.Indent)
	cfg.SortKeys = c.Sort
	cfg.EscapeHTML = c.EscapeHTML
	cfg.EscapeNonASCII = c.ASCII
	return writeValue(v, cfg)
}

type QueryCmd struct {
	Expr   string `kong:"arg,help='JSONPath expression such as $.data[*].id.'"`
	File   string `kong:"arg,optional,default='-',help='Input file, - for stdin.'"`
	Indent int    `kong:"short='i',help='Indent width; 0 prints compact output.'"`
}

func (c *QueryCmd) Run(ctx context.Context, g *config.Globals) error {
	data, err := readInput(c.File)
	if err != nil {
		return err
	}
	v, err := restfb.ParseValue(ctx, restfb.JSONBytes(data), g.ParseOpt())
	if err != nil {
		return report(ctx, err)
	}
	res, err := jsonpath.Get(c.Expr, jsonvalue.ToAny(v))
	if err != nil {
		return errors.Errorf("jsonpath %s: %w", c.Expr, err)
	}
	out, err := jsonvalue.FromAny(res)
	if err != nil {
		return errors.Errorf("jsonpath result: %w", err)
	}
	return writeValue(out, writerConfig(c.Indent))
}

type MapCmd struct {
	Type     string `kong:"short='t',required,help='Resource type, see the types command.'"`
	File     string `kong:"arg,optional,default='-',help='Input file, - for stdin.'"`
	List     bool   `kong:"help='Input is an array or a paged data envelope.'"`
	Indent   int    `kong:"short='i',default='2',help='Indent width; 0 prints compact output.'"`
	KeepNull bool   `kong:"help='Keep null members in the output.'"`
	Strict   bool   `kong:"help='Fail on keys the type does not map.'"`
}

func (c *MapCmd) Run(ctx context.Context, g *config.Globals) error {
	dst, err := lookupType(c.Type)
	if err != nil {
		return err
	}
	if c.List {
		dst = reflect.New(reflect.SliceOf(reflect.TypeOf(dst).Elem())).Interface()
	}
	data, err := readInput(c.File)
	if err != nil {
		return err
	}
	m := mapper.New(mapper.WithLogger(slogctx.FromCtx(ctx)), mapper.WithIgnoreNullValues(!c.KeepNull))
	opt := g.ParseOpt()
	opt.Mapper = m
	if c.Strict {
		opt.Unknown = mapper.UnknownStrict
	}
	if err := restfb.ParseFrom(ctx, restfb.JSONBytes(data), dst, opt); err != nil {
		return report(ctx, err)
	}
	b, err := m.MarshalWith(dst, writerConfig(c.Indent))
	if err != nil {
		return err
	}
	return writeBytes(b)
}

type SchemaCmd struct {
	Type string `kong:"short='t',required,help='Resource type, see the types command.'"`
}

func (c *SchemaCmd) Run() error {
	v, err := lookupType(c.Type)
	if err != nil {
		return err
	}
	b, err := jsonschema.Generate(reflect.TypeOf(v)).MarshalIndent()
	if err != nil {
		return errors.WithStack(err)
	}
	return writeBytes(b)
}

type TypesCmd struct{}

func (TypesCmd) Run() error {
	return writeBytes([]byte(strings.Join(types.Names(), "\n")))
}

type FetchCmd struct {
	Object string            `kong:"arg,help='Object id or connection path such as me/feed.'"`
	Fields string            `kong:"short='f',help='Comma separated fields parameter.'"`
	Type   string            `kong:"short='t',help='Map the response into a resource type.'"`
	Param  map[string]string `kong:"short='p',help='Extra parameter as key=value, repeatable.'"`
	Pages  int               `kong:"help='Follow paging.next and print all items of up to this many pages.'"`
	Indent int               `kong:"short='i',default='2',help='Indent width; 0 prints compact output.'"`
}

func (c *FetchCmd) params() []client.Parameter {
	var ps []client.Parameter
	if c.Fields != "" {
		ps = append(ps, client.Fields(c.Fields))
	}
	for k, v := range c.Param {
		ps = append(ps, client.Param(k, v))
	}
	return ps
}

func (c *FetchCmd) Run(ctx context.Context, g *config.Globals) error {
	cfg := g.ClientConfig()
	cfg.Logger = slogctx.FromCtx(ctx)
	gc, err := client.New(cfg)
	if err != nil {
		return err
	}
	if c.Pages > 0 {
		items, err := client.FetchAll[jsonvalue.Value](ctx, gc, c.Object, c.Pages, c.params()...)
		if err != nil {
			return report(ctx, err)
		}
		return writeValue(jsonvalue.NewArray(items...), writerConfig(c.Indent))
	}
	var dst any = new(jsonvalue.Value)
	if c.Type != "" {
		if dst, err = lookupType(c.Type); err != nil {
			return err
		}
	}
	if err := gc.Fetch(ctx, c.Object, dst, c.params()...); err != nil {
		return report(ctx, err)
	}
	b, err := gc.Mapper().With(mapper.WithIgnoreNullValues(true)).MarshalWith(dst, writerConfig(c.Indent))
	if err != nil {
		return err
	}
	return writeBytes(b)
}
