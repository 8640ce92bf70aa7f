package engine_test

import (
	"testing"

	eng "github.com/restfb/restfb-sub000/internal/engine"
)

type step struct {
	kind eng.Kind
	sep  string
}

func run(steps []step) ([]eng.Kind, error) {
	var g eng.Grammar
	var out []eng.Kind
	for _, s := range steps {
		k, err := g.Accept(s.kind, []byte(s.sep))
		if err != nil {
			return out, err
		}
		out = append(out, k)
	}
	return out, nil
}

func TestGrammar_Valid(t *testing.T) {
	// {"a":[1,{}],"b":"x"}
	got, err := run([]step{
		{eng.KindBeginObject, ""},
		{eng.KindString, ""},
		{eng.KindBeginArray, ":"},
		{eng.KindNumber, ""},
		{eng.KindBeginObject, ","},
		{eng.KindEndObject, ""},
		{eng.KindEndArray, ""},
		{eng.KindString, ","},
		{eng.KindString, ":"},
		{eng.KindEndObject, ""},
	})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got[1] != eng.KindKey || got[7] != eng.KindKey || got[8] != eng.KindString {
		t.Fatalf("key detection: %v", got)
	}
}

func TestGrammar_Rejects(t *testing.T) {
	cases := map[string][]step{
		"[1 2]":    {{eng.KindBeginArray, ""}, {eng.KindNumber, ""}, {eng.KindNumber, ""}},
		"[1,,2]":   {{eng.KindBeginArray, ""}, {eng.KindNumber, ""}, {eng.KindNumber, ",,"}},
		"[,1]":     {{eng.KindBeginArray, ""}, {eng.KindNumber, ","}},
		"[1,]":     {{eng.KindBeginArray, ""}, {eng.KindNumber, ""}, {eng.KindEndArray, ","}},
		`{"a" 1}`:  {{eng.KindBeginObject, ""}, {eng.KindString, ""}, {eng.KindNumber, ""}},
		`{"a",1}`:  {{eng.KindBeginObject, ""}, {eng.KindString, ""}, {eng.KindNumber, ","}},
		`{"a":}`:   {{eng.KindBeginObject, ""}, {eng.KindString, ""}, {eng.KindEndObject, ":"}},
		`{1:2}`:    {{eng.KindBeginObject, ""}, {eng.KindNumber, ""}},
		`[1}`:      {{eng.KindBeginArray, ""}, {eng.KindNumber, ""}, {eng.KindEndObject, ""}},
		`]`:        {{eng.KindEndArray, ""}},
		`,1`:       {{eng.KindNumber, ","}},
		`{"a":1,}`: {{eng.KindBeginObject, ""}, {eng.KindString, ""}, {eng.KindNumber, ":"}, {eng.KindEndObject, ","}},
	}
	for doc, steps := range cases {
		if _, err := run(steps); err == nil {
			t.Fatalf("%s: expected an error", doc)
		}
	}
}

func TestGrammar_End(t *testing.T) {
	var g eng.Grammar
	if err := g.End(nil); err != nil {
		t.Fatalf("clean end: %v", err)
	}
	if err := g.End([]byte(",")); err == nil {
		t.Fatalf("trailing comma should fail")
	}
}
