package restfb_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	slogctx "github.com/veqryn/slog-context"

	restfb "github.com/restfb/restfb-sub000"
	"github.com/restfb/restfb-sub000/jsonvalue"
	"github.com/restfb/restfb-sub000/types"
)

func TestParse_DuplicateKey_Error(t *testing.T) {
	cases := []struct {
		in   string
		path string
	}{
		{`{"a":1,"a":2}`, "/a"},
		{`{"a":{"b":1,"b":2}}`, "/a/b"},
		{`[{"x":1},{"x":1,"x":2}]`, "/1/x"},
	}
	opt := restfb.ParseOpt{Strictness: restfb.Strictness{OnDuplicateKey: restfb.Error}}
	for _, tc := range cases {
		_, err := restfb.ParseValue(context.Background(), restfb.JSONBytes([]byte(tc.in)), opt)
		iss, ok := restfb.AsIssues(err)
		if !ok || iss[0].Code != restfb.CodeDuplicateKey || iss[0].Path != tc.path {
			t.Fatalf("%s: expected duplicate_key at %s, got %v", tc.in, tc.path, err)
		}
	}
}

func TestParse_DuplicateKey_WarnLogsAndLastWins(t *testing.T) {
	var buf bytes.Buffer
	ctx := slogctx.NewCtx(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	opt := restfb.ParseOpt{Strictness: restfb.Strictness{OnDuplicateKey: restfb.Warn}}
	v, err := restfb.ParseValue(ctx, restfb.JSONBytes([]byte(`{"a":1,"b":2,"a":3}`)), opt)
	if err != nil {
		t.Fatalf("warn must not fail: %v", err)
	}
	obj := v.(*jsonvalue.Object)
	if n, _ := obj.GetNumber("a"); n != "3" {
		t.Fatalf("last value should win, got %q", n)
	}
	if names := obj.Names(); names[0] != "a" || names[1] != "b" {
		t.Fatalf("first position should be kept, got %v", names)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "path=/a") {
		t.Fatalf("missing warning log: %q", out)
	}
}

func TestParse_DuplicateKey_IgnoreIsSilent(t *testing.T) {
	var buf bytes.Buffer
	ctx := slogctx.NewCtx(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	if _, err := restfb.ParseValue(ctx, restfb.JSONBytes([]byte(`{"a":1,"a":2}`))); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
}

func TestParse_MaxDepth(t *testing.T) {
	_, err := restfb.ParseValue(context.Background(), restfb.JSONBytes([]byte(`{"a":{"b":{"c":1}}}`)),
		restfb.ParseOpt{MaxDepth: 2})
	iss, ok := restfb.AsIssues(err)
	if !ok || iss[0].Code != restfb.CodeMaxDepth || iss[0].Path != "/a/b" {
		t.Fatalf("expected max_depth at /a/b, got %v", err)
	}
}

func TestParse_DefaultDepthLimit(t *testing.T) {
	deep := strings.Repeat("[", jsonvalue.DefaultMaxDepth+1) + strings.Repeat("]", jsonvalue.DefaultMaxDepth+1)
	_, err := restfb.ParseValue(context.Background(), restfb.JSONBytes([]byte(deep)))
	iss, ok := restfb.AsIssues(err)
	if !ok || iss[0].Code != restfb.CodeMaxDepth {
		t.Fatalf("expected max_depth, got %v", err)
	}
}

func TestStreamParse_List(t *testing.T) {
	r := strings.NewReader(`[{"id":"a","name":"A"},{"id":"b","name":"B"}]`)
	got, err := restfb.StreamParse[[]types.NamedFacebookType](context.Background(), r)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(got) != 2 || got[1].Name != "B" {
		t.Fatalf("got %+v", got)
	}
}

func TestStreamParse_ElementError(t *testing.T) {
	r := strings.NewReader(`[{"count":1},{"count":"many"},{"count":3}]`)
	_, err := restfb.StreamParse[[]types.Shares](context.Background(), r)
	iss, ok := restfb.AsIssues(err)
	if !ok || iss[0].Path != "/1/count" {
		t.Fatalf("want issue at /1/count, got %v", err)
	}
}

func TestStreamParse_MaxBytes_Truncated(t *testing.T) {
	r := strings.NewReader(`[{"id":"x"}]`)
	_, err := restfb.StreamParse[[]types.FacebookType](context.Background(), r, restfb.ParseOpt{MaxBytes: 8})
	iss, ok := restfb.AsIssues(err)
	if !ok || iss[0].Code != restfb.CodeTruncated {
		t.Fatalf("want truncated, got %v", err)
	}
}

func TestDetectDuplicateKeys(t *testing.T) {
	in := []byte(`{"a":1,"a":2,"o":{"k":1,"k":2,"k":3}}`)
	iss, err := restfb.DetectDuplicateKeys(restfb.JSONBytes(in), 0)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	var paths []string
	for _, it := range iss {
		paths = append(paths, it.Path)
	}
	if strings.Join(paths, ",") != "/a,/o/k,/o/k" {
		t.Fatalf("paths: %v", paths)
	}

	iss, err = restfb.DetectDuplicateKeys(restfb.JSONBytes(in), 1)
	if err != nil || len(iss) != 1 {
		t.Fatalf("limit: %v %v", iss, err)
	}

	_, err = restfb.DetectDuplicateKeys(restfb.JSONBytes([]byte(`{"a":1,"a":`)), 0)
	if got, ok := restfb.AsIssues(err); !ok || got[0].Code != restfb.CodeParseError {
		t.Fatalf("truncated input should fail, got %v", err)
	}
}
