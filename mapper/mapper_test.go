package mapper_test

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/restfb/restfb-sub000/jsonvalue"
	"github.com/restfb/restfb-sub000/mapper"
)

type base struct {
	ID   string `facebook:"id"`
	Type string `facebook:"type"`
}

type owner struct {
	base
	Name string `facebook:"name"`
	Age  int    `facebook:"age"`
}

type record struct {
	base
	Count       int             `facebook:"count"`
	Ratio       float64         `facebook:"ratio"`
	Small       int8            `facebook:"small"`
	Enabled     bool            `facebook:"enabled"`
	Label       string          `facebook:"label"`
	Raw         string          `facebook:"raw"`
	CreatedTime time.Time       `facebook:""`
	Owner       *owner          `facebook:"from"`
	Tags        []string        `facebook:"tags"`
	Counts      map[string]int  `facebook:"counts"`
	Tree        jsonvalue.Value `facebook:"tree"`
	Any         any             `facebook:"any"`
	Ignored     string          `facebook:"-"`
	Untagged    string
	completed   int
	Extra       map[string]jsonvalue.Value `facebook:",extra"`
}

func (r *record) MappingCompleted(*mapper.Mapper) error {
	r.completed++
	if r.Owner != nil && r.Owner.completedBefore() {
		r.Label += "+owner"
	}
	return nil
}

func (o *owner) completedBefore() bool { return o.Name != "" }

func TestUnmarshal_Scalars(t *testing.T) {
	in := `{
		"id":"42","type":"post","count":"7","ratio":1.25,"small":12,"enabled":"true",
		"label":"x","raw":{"b":[1,2]},"created_time":"2025-01-02T03:04:05+0000",
		"from":{"id":"9","name":"Ann"},"tags":["a","b"],"counts":{"x":1},
		"tree":{"k":null},"any":[1,"s"],"Untagged":"u","Ignored":"i"
	}`
	var r record
	if err := mapper.Unmarshal([]byte(in), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := record{
		base:        base{ID: "42", Type: "post"},
		Count:       7,
		Ratio:       1.25,
		Small:       12,
		Enabled:     true,
		Label:       "x+owner",
		Raw:         `{"b":[1,2]}`,
		CreatedTime: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Owner:       &owner{base: base{ID: "9"}, Name: "Ann"},
		Tags:        []string{"a", "b"},
		Counts:      map[string]int{"x": 1},
		Any:         []any{int64(1), "s"},
		completed:   1,
	}
	opts := []cmp.Option{
		cmp.AllowUnexported(record{}, owner{}),
		cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) }),
		cmp.FilterPath(func(p cmp.Path) bool { return p.Last().String() == ".Tree" }, cmp.Ignore()),
	}
	if diff := cmp.Diff(want, r, opts...); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	tree, ok := r.Tree.(*jsonvalue.Object)
	if !ok || !tree.IsNull("k") {
		t.Fatalf("raw tree not preserved: %#v", r.Tree)
	}
}

func TestUnmarshal_NullLeavesZero(t *testing.T) {
	r := record{Label: "keep", Count: 3}
	if err := mapper.Unmarshal([]byte(`{"label":null,"count":null,"from":null,"tags":null}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Label != "" || r.Count != 0 || r.Owner != nil || r.Tags != nil {
		t.Fatalf("null must reset to zero: %+v", r)
	}
}

func TestUnmarshal_ApiQuirks(t *testing.T) {
	var r record
	in := `{"from":false,"tags":{},"counts":[],"count":""}`
	if err := mapper.Unmarshal([]byte(in), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Owner != nil {
		t.Fatalf("false must leave the pointer nil, got %+v", r.Owner)
	}
	r.Owner = &owner{Name: "stale"}
	if err := mapper.Unmarshal([]byte(`{"from":[]}`), &r); err != nil || r.Owner != nil {
		t.Fatalf("[] must reset the pointer to nil, got %+v %v", r.Owner, err)
	}
	var byValue struct {
		Owner owner `facebook:"from"`
	}
	if err := mapper.Unmarshal([]byte(`{"from":false}`), &byValue); err != nil || byValue.Owner != (owner{}) {
		t.Fatalf("false into a struct value: %+v %v", byValue.Owner, err)
	}
	if r.Tags == nil || len(r.Tags) != 0 || r.Counts == nil || len(r.Counts) != 0 {
		t.Fatalf("empty containers expected: %+v %+v", r.Tags, r.Counts)
	}

	var c struct {
		Likes []owner `facebook:"likes"`
	}
	if err := mapper.Unmarshal([]byte(`{"likes":{"data":[{"id":"1","name":"A"}],"paging":{}}}`), &c); err != nil {
		t.Fatalf("connection shape: %v", err)
	}
	if len(c.Likes) != 1 || c.Likes[0].Name != "A" {
		t.Fatalf("connection not unwrapped: %+v", c.Likes)
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	cases := []struct {
		name, in, path, field string
	}{
		{"string into int", `{"count":"abc"}`, "/count", "record.Count"},
		{"overflow", `{"small":300}`, "/small", "record.Small"},
		{"fraction into int", `{"count":1.5}`, "/count", "record.Count"},
		{"object into bool", `{"enabled":{}}`, "/enabled", "record.Enabled"},
		{"bad date", `{"created_time":"soon"}`, "/created_time", "record.CreatedTime"},
		{"nested", `{"from":{"age":"old"}}`, "/from/age", "owner.Age"},
		{"array into struct", `{"from":[1]}`, "/from", "record.Owner"},
		{"array element", `{"tags":["a",{}]}`, "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var r record
			err := mapper.Unmarshal([]byte(c.in), &r)
			var me *mapper.Error
			if c.path == "" {
				// strings accept objects as compact JSON text
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.As(err, &me) {
				t.Fatalf("expected *mapper.Error, got %v", err)
			}
			if me.Path != c.path || me.Field != c.field || me.Code != mapper.CodeInvalidType {
				t.Fatalf("unexpected error details: %+v", me)
			}
		})
	}
}

func TestUnmarshal_ErrorFieldOfAnonymousStruct(t *testing.T) {
	var v struct {
		N int `facebook:"n"`
	}
	err := mapper.Unmarshal([]byte(`{"n":"x"}`), &v)
	var me *mapper.Error
	if !errors.As(err, &me) {
		t.Fatalf("want mapper error, got %v", err)
	}
	if !strings.HasPrefix(me.Field, "struct {") || !strings.HasSuffix(me.Field, ".N") {
		t.Fatalf("field: %q", me.Field)
	}
}

func TestUnmarshal_InvalidTarget(t *testing.T) {
	var r record
	err := mapper.Unmarshal([]byte(`{}`), r)
	var me *mapper.Error
	if !errors.As(err, &me) || me.Code != mapper.CodeInvalidTarget {
		t.Fatalf("expected invalid_target, got %v", err)
	}
	var pe *jsonvalue.ParseError
	if err := mapper.Unmarshal([]byte(`{`), &r); !errors.As(err, &pe) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

type sharedKey struct {
	Location       *struct{ City string `facebook:"city"` } `facebook:"location"`
	LocationString string                                   `facebook:"location"`
	Count          int                                      `facebook:"total"`
	CountText      bool                                     `facebook:"total"`
}

func TestUnmarshal_SharedKeys(t *testing.T) {
	var logs bytes.Buffer
	m := mapper.New(mapper.WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))

	var s sharedKey
	if err := m.Unmarshal([]byte(`{"location":"Berlin","total":"x"}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Location != nil || s.LocationString != "Berlin" {
		t.Fatalf("string shape: %+v", s)
	}
	if s.Count != 0 {
		t.Fatalf("failed shared field must be reset: %+v", s)
	}
	if !strings.Contains(logs.String(), "field=Location") {
		t.Fatalf("expected debug log for skipped field, got %q", logs.String())
	}

	s = sharedKey{}
	if err := m.Unmarshal([]byte(`{"location":{"city":"Oslo"}}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Location == nil || s.Location.City != "Oslo" {
		t.Fatalf("object shape: %+v", s)
	}
}

func TestUnmarshal_UnknownPolicies(t *testing.T) {
	in := []byte(`{"id":"1","surprise":{"a":1}}`)

	var r record
	err := mapper.New(mapper.WithUnknownPolicy(mapper.UnknownStrict)).Unmarshal(in, &r)
	var me *mapper.Error
	if !errors.As(err, &me) || me.Code != mapper.CodeUnknownKey || me.Path != "/surprise" {
		t.Fatalf("strict: got %v", err)
	}

	r = record{}
	if err := mapper.New(mapper.WithUnknownPolicy(mapper.UnknownPassthrough)).Unmarshal(in, &r); err != nil {
		t.Fatalf("passthrough: %v", err)
	}
	if _, ok := r.Extra["surprise"]; !ok || len(r.Extra) != 1 {
		t.Fatalf("extra members not kept: %v", r.Extra)
	}
	out, err := mapper.New(mapper.WithIgnoreNullValues(true)).Marshal(&r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"surprise":{"a":1}`) {
		t.Fatalf("extra members not written back: %s", out)
	}

	r = record{}
	if err := mapper.Unmarshal(in, &r); err != nil || r.Extra != nil {
		t.Fatalf("strip: err=%v extra=%v", err, r.Extra)
	}
}

type failingHook struct {
	ID string `facebook:"id"`
}

func (f *failingHook) MappingCompleted(*mapper.Mapper) error { return errors.New("nope") }

func TestUnmarshal_HookFailure(t *testing.T) {
	var v struct {
		Items []failingHook `facebook:"items"`
	}
	err := mapper.Unmarshal([]byte(`{"items":[{"id":"1"}]}`), &v)
	var me *mapper.Error
	if !errors.As(err, &me) || me.Code != mapper.CodeHookFailed || me.Path != "/items/0" {
		t.Fatalf("expected hook_failed at /items/0, got %v", err)
	}
}

func TestUnmarshalList(t *testing.T) {
	cases := map[string]string{
		"array":      `[{"id":"1"},{"id":"2"}]`,
		"data":       `{"data":[{"id":"1"},{"id":"2"}],"paging":{"next":"x"}}`,
		"single key": `{"1234":[{"id":"1"},{"id":"2"}]}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			var list []base
			if err := mapper.UnmarshalList([]byte(in), &list); err != nil {
				t.Fatalf("unmarshal list: %v", err)
			}
			if diff := cmp.Diff([]base{{ID: "1"}, {ID: "2"}}, list, cmp.AllowUnexported(base{})); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}

	var list []base
	if err := mapper.UnmarshalList([]byte(`{}`), &list); err != nil || list == nil || len(list) != 0 {
		t.Fatalf("empty object: %v %v", list, err)
	}
	if err := mapper.UnmarshalList([]byte(`{"a":1,"b":2}`), &list); err == nil {
		t.Fatalf("expected error for non-list object")
	}
	var notSlice base
	if err := mapper.UnmarshalList([]byte(`[]`), &notSlice); err == nil {
		t.Fatalf("expected error for non-slice target")
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	r := record{
		base:        base{ID: "1"},
		Count:       2,
		Ratio:       0.5,
		Label:       "l",
		CreatedTime: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Owner:       &owner{Name: "Bob"},
		Counts:      map[string]int{"b": 2, "a": 1},
	}
	out, err := mapper.New(mapper.WithIgnoreNullValues(true)).Marshal(&r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"1","type":"","count":2,"ratio":0.5,"small":0,"enabled":false,"label":"l","raw":"",` +
		`"created_time":"2025-01-02T03:04:05+0000","from":{"id":"","type":"","name":"Bob","age":0},"counts":{"a":1,"b":2}}`
	if string(out) != want {
		t.Fatalf("got  %s\nwant %s", out, want)
	}

	var back record
	if err := mapper.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Count != r.Count || !back.CreatedTime.Equal(r.CreatedTime) || back.Owner.Name != "Bob" {
		t.Fatalf("round trip mismatch: %+v", back)
	}

	withNulls, err := mapper.Marshal(&record{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(withNulls), `"from":null`) || !strings.Contains(string(withNulls), `"created_time":null`) {
		t.Fatalf("nil values must be null by default: %s", withNulls)
	}
}

func TestFields(t *testing.T) {
	var names []string
	for _, f := range mapper.Fields(reflect.TypeOf(record{})) {
		names = append(names, f.Name)
	}
	want := []string{"id", "type", "count", "ratio", "small", "enabled", "label", "raw", "created_time",
		"from", "tags", "counts", "tree", "any", "extra"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
}

func TestSnakeCase(t *testing.T) {
	for in, want := range map[string]string{
		"ID":            "id",
		"CreatedTime":   "created_time",
		"PictureURL":    "picture_url",
		"HTTPStatus":    "http_status",
		"Name":          "name",
		"Image2x":       "image2x",
		"AppSecretHash": "app_secret_hash",
	} {
		if got := mapper.SnakeCase(in); got != want {
			t.Fatalf("SnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
