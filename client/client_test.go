package client_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	restfb "github.com/restfb/restfb-sub000"
	"github.com/restfb/restfb-sub000/client"
	"github.com/restfb/restfb-sub000/internal/signing"
	"github.com/restfb/restfb-sub000/types"
)

func newClient(t *testing.T, h http.HandlerFunc, cfg client.Config) *client.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	cfg.HTTPClient = srv.Client()
	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestFetch_TokenProofAndFields(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery url.Values
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotAuth, gotQuery = r.URL.Path, r.Header.Get("Authorization"), r.URL.Query()
		_, _ = io.WriteString(w, `{"id":"4","name":"Zuck","birthday":"05/14/1984"}`)
	}, client.Config{AccessToken: "tok", AppSecret: "sec"})

	var u types.User
	fields := restfb.FieldsParam(
		restfb.PathOf(func(u *types.User) *string { return &u.Name }),
		restfb.PathOf(func(u *types.User) *string { return &u.Birthday }),
	)
	if err := c.Fetch(context.Background(), "me", &u, client.Fields(fields)); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotPath != "/"+client.DefaultVersion+"/me" {
		t.Fatalf("path: %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("authorization: %q", gotAuth)
	}
	if gotQuery.Get("fields") != "name,birthday" || gotQuery.Get("appsecret_proof") != signing.AppSecretProof("tok", "sec") {
		t.Fatalf("query: %v", gotQuery)
	}
	if u.Name != "Zuck" || u.BirthdayAsDate.Year() != 1984 {
		t.Fatalf("user: %+v", u)
	}
}

func TestFetch_ParamSerialization(t *testing.T) {
	var got url.Values
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = io.WriteString(w, `{}`)
	}, client.Config{Version: "-"})

	var out types.FacebookType
	err := c.Fetch(context.Background(), "search", &out,
		client.Param("limit", 5),
		client.Param("flag", true),
		client.Param("privacy", map[string]string{"value": "SELF"}),
	)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := url.Values{"limit": {"5"}, "flag": {"true"}, "privacy": {`{"value":"SELF"}`}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("query (-want +got):\n%s", diff)
	}

	if err := c.Fetch(context.Background(), "me", &out, client.Param("access_token", "x")); err == nil {
		t.Fatalf("access_token must be rejected")
	}
}

func TestFetch_APIErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"oauth", 400, `{"error":{"message":"Invalid token","type":"OAuthException","code":190,"fbtrace_id":"A"}}`, client.IsOAuthError},
		{"rate", 400, `{"error":{"message":"slow down","type":"OAuthException","code":4}}`, client.IsRateLimited},
		{"legacy", 200, `{"error_code":190,"error_msg":"expired"}`, client.IsOAuthError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}, client.Config{})
			var u types.User
			err := c.Fetch(context.Background(), "me", &u)
			if err == nil || !tc.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFetch_QueryParseAndHTTPError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v21.0/bad" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"message":"Syntax error","type":"QueryParseException","code":803}}`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}, client.Config{Version: "v21.0"})

	var out types.FacebookType
	err := c.Fetch(context.Background(), "bad", &out)
	var ae *client.APIError
	if !errorsAs(err, &ae) || ae.Category != client.CategoryQueryParse || ae.Code != 803 || ae.StatusCode != 400 {
		t.Fatalf("query parse: %v", err)
	}

	err = c.Fetch(context.Background(), "other", &out)
	var he *client.HTTPError
	if !errorsAs(err, &he) || he.StatusCode != http.StatusBadGateway || !strings.Contains(he.Body, "bad gateway") {
		t.Fatalf("http error: %v", err)
	}
}

func TestFetch_MappingIssues(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"1","width":"wide"}`)
	}, client.Config{})
	var p types.Photo
	err := c.Fetch(context.Background(), "1", &p)
	iss, ok := restfb.AsIssues(err)
	if !ok || iss[0].Path != "/width" {
		t.Fatalf("want issue at /width, got %v", err)
	}
}

func TestFetchConnection_Paging(t *testing.T) {
	var srvURL string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("after") == "" {
			_, _ = io.WriteString(w, `{"data":[{"id":"1","message":"a"},{"id":"2","message":"b"}],`+
				`"paging":{"next":"`+srvURL+`/v21.0/me/feed?after=c2"},"summary":{"total_count":3}}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":[{"id":"3","message":"c"}],"paging":{}}`)
	}, client.Config{AccessToken: "tok"})
	srvURL = strings.TrimSuffix(c.BaseURL(), "/")

	page, err := client.FetchConnection[types.Post](context.Background(), c, "me/feed")
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(page.Data) != 2 || page.TotalCount() != 3 || !page.HasNext() {
		t.Fatalf("first page: %+v", page)
	}
	next, err := client.FetchNextPage(context.Background(), c, page)
	if err != nil || next == nil || next.Data[0].ID != "3" || next.HasNext() {
		t.Fatalf("next page: %+v %v", next, err)
	}
	last, err := client.FetchNextPage(context.Background(), c, next)
	if last != nil || err != nil {
		t.Fatalf("past the end: %+v %v", last, err)
	}

	all, err := client.FetchAll[types.Post](context.Background(), c, "me/feed", 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("all: %d %v", len(all), err)
	}
}

func TestFetchObjectsAndEach(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if ids := r.URL.Query().Get("ids"); ids != "" {
			_, _ = io.WriteString(w, `{"1":{"id":"1","name":"A"},"2":{"id":"2","name":"B"}}`)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/"+client.DefaultVersion+"/")
		_, _ = io.WriteString(w, `{"id":"`+id+`","name":"N`+id+`"}`)
	}, client.Config{})

	var byID map[string]types.NamedFacebookType
	if err := c.FetchObjects(context.Background(), []string{"1", "2"}, &byID); err != nil {
		t.Fatalf("fetch objects: %v", err)
	}
	if byID["2"].Name != "B" {
		t.Fatalf("objects: %+v", byID)
	}

	got, err := client.FetchEach[types.NamedFacebookType](context.Background(), c, []string{"7", "8", "9"}, 2)
	if err != nil {
		t.Fatalf("fetch each: %v", err)
	}
	if got[0].Name != "N7" || got[2].Name != "N9" {
		t.Fatalf("order: %+v", got)
	}
	if calls.Load() != 4 {
		t.Fatalf("calls: %d", calls.Load())
	}
}

func TestPublishAndDelete(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if err := r.ParseForm(); err != nil || r.PostForm.Get("message") != "hello" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = io.WriteString(w, `{"id":"10_5"}`)
		case http.MethodDelete:
			_, _ = io.WriteString(w, `{"success":true}`)
		}
	}, client.Config{AccessToken: "tok"})

	var created types.FacebookType
	if err := c.Publish(context.Background(), "me/feed", &created, client.Param("message", "hello")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if created.ID != "10_5" {
		t.Fatalf("created: %+v", created)
	}
	ok, err := c.Delete(context.Background(), created.ID)
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
}
