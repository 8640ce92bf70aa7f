package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/restfb/restfb-sub000/internal/config"
)

func run(t *testing.T, in string, fn func(context.Context, *config.Globals) error, g *config.Globals) string {
	t.Helper()
	var out bytes.Buffer
	stdin, stdout = strings.NewReader(in), &out
	t.Cleanup(func() { stdin, stdout = nil, nil })
	if g == nil {
		g = &config.Globals{}
	}
	if err := fn(context.Background(), g); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestFmt(t *testing.T) {
	in := `{"b":1, "a":[true,null], "h":"<é>"}`
	cases := []struct {
		name string
		in   string
		cmd  FmtCmd
		want string
	}{
		{"compact", in, FmtCmd{}, `{"b":1,"a":[true,null],"h":"<é>"}` + "\n"},
		{"sorted", in, FmtCmd{Sort: true}, `{"a":[true,null],"b":1,"h":"<é>"}` + "\n"},
		{"escaped", in, FmtCmd{EscapeHTML: true, ASCII: true}, `{"b":1,"a":[true,null],"h":"\u003c\u00e9\u003e"}` + "\n"},
		{"yaml", `{"b":1,"a":[true,null],"id":"10"}`, FmtCmd{YAML: true}, "b: 1\na:\n  - true\n  - null\nid: \"10\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := run(t, tc.in, tc.cmd.Run, nil)
			if got != tc.want {
				t.Fatalf("got %q\nwant %q", got, tc.want)
			}
		})
	}
}

func TestFmt_FromYAMLPretty(t *testing.T) {
	cmd := FmtCmd{FromYAML: true, Indent: 2}
	got := run(t, "id: \"1\"\nlikes: 3\n", cmd.Run, nil)
	if want := "{\n  \"id\": \"1\",\n  \"likes\": 3\n}\n"; got != want {
		t.Fatalf("got %q", got)
	}
}

func TestFmt_DuplicateKeyFails(t *testing.T) {
	stdin, stdout = strings.NewReader(`{"a":1,"a":2}`), io.Discard
	defer func() { stdin, stdout = nil, nil }()
	cmd := FmtCmd{}
	err := cmd.Run(context.Background(), &config.Globals{Duplicates: "error"})
	if err == nil || !strings.Contains(err.Error(), "1 issue(s)") {
		t.Fatalf("want issue error, got %v", err)
	}
}

func TestQuery(t *testing.T) {
	in := `{"data":[{"id":"1","likes":2},{"id":"2","likes":5}]}`
	cmd := QueryCmd{Expr: "$.data[*].id"}
	if got := run(t, in, cmd.Run, nil); got != `["1","2"]`+"\n" {
		t.Fatalf("ids: %q", got)
	}
	cmd = QueryCmd{Expr: "$.data[1].likes"}
	if got := run(t, in, cmd.Run, nil); got != "5\n" {
		t.Fatalf("likes: %q", got)
	}
}

func TestMap(t *testing.T) {
	in := `{"id":"1","message":"hi","likes":{"data":[],"count":4},"unknown":true}`
	cmd := MapCmd{Type: "post"}
	got := run(t, in, cmd.Run, nil)
	if !strings.Contains(got, `"message": "hi"`) || strings.Contains(got, "unknown") {
		t.Fatalf("mapped: %s", got)
	}

	list := MapCmd{Type: "user", List: true}
	got = run(t, `{"data":[{"id":"1","name":"A"},{"id":"2","name":"B"}]}`, list.Run, nil)
	if !strings.HasPrefix(got, "[") || !strings.Contains(got, `"name": "B"`) {
		t.Fatalf("list: %s", got)
	}
}

func TestSchemaAndTypes(t *testing.T) {
	var out bytes.Buffer
	stdout = &out
	defer func() { stdout = nil }()
	cmd := SchemaCmd{Type: "Photo"}
	if err := cmd.Run(); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(out.String(), `"title": "Photo"`) {
		t.Fatalf("schema: %s", out.String())
	}

	out.Reset()
	if err := (TypesCmd{}).Run(); err != nil {
		t.Fatalf("types: %v", err)
	}
	if !strings.Contains(out.String(), "post\n") {
		t.Fatalf("types: %q", out.String())
	}

	if err := (&SchemaCmd{Type: "nope"}).Run(); err == nil {
		t.Fatalf("unknown type should fail")
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fields") != "id,name" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"id":"4","name":"Zuck","extra":null}`)
	}))
	defer srv.Close()

	g := &config.Globals{BaseURL: srv.URL, AccessToken: "tok"}
	raw := FetchCmd{Object: "4", Fields: "id,name", Indent: 0}
	if got := run(t, "", raw.Run, g); got != `{"id":"4","name":"Zuck","extra":null}`+"\n" {
		t.Fatalf("raw: %q", got)
	}
	typed := FetchCmd{Object: "4", Fields: "id,name", Type: "user", Indent: 0}
	got := run(t, "", typed.Run, g)
	if !strings.Contains(got, `"name":"Zuck"`) || strings.Contains(got, "extra") {
		t.Fatalf("typed: %q", got)
	}
}
