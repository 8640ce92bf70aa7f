package restfb_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	restfb "github.com/restfb/restfb-sub000"
	"github.com/restfb/restfb-sub000/types"
)

func TestDecodeWithMeta_Presence(t *testing.T) {
	in := `{"id":"1","message":null,"from":{"name":"Ann"},"to":[{"id":"9"}]}`
	dm, err := restfb.DecodeWithMeta[types.Post](context.Background(), restfb.JSONBytes([]byte(in)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := restfb.PresenceMap{
		"/":          restfb.PresenceSeen,
		"/id":        restfb.PresenceSeen,
		"/message":   restfb.PresenceSeen | restfb.PresenceWasNull,
		"/from":      restfb.PresenceSeen,
		"/from/name": restfb.PresenceSeen,
		"/to":        restfb.PresenceSeen,
		"/to/0":      restfb.PresenceSeen,
		"/to/0/id":   restfb.PresenceSeen,
	}
	if diff := cmp.Diff(want, dm.Presence); diff != "" {
		t.Fatalf("presence mismatch (-want +got):\n%s", diff)
	}
	if dm.Value.ID != "1" || dm.Value.From.Name != "Ann" {
		t.Fatalf("value: %+v", dm.Value)
	}
	if !dm.Presence.AnySeenUnder("/from") || dm.Presence.AnySeenUnder("/likes") {
		t.Fatalf("AnySeenUnder mismatch")
	}
}

func TestDecodeWithMeta_Filters(t *testing.T) {
	in := `{"id":"1","from":{"id":"2","name":"Ann"},"message":"m"}`
	opt := restfb.ParseOpt{Presence: restfb.PresenceOpt{Include: []string{"/from"}, Exclude: []string{"/from/id"}, Intern: true}}
	dm, err := restfb.DecodeWithMeta[types.Post](context.Background(), restfb.JSONBytes([]byte(in)), opt)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := restfb.PresenceMap{"/from": restfb.PresenceSeen, "/from/name": restfb.PresenceSeen}
	if diff := cmp.Diff(want, dm.Presence); diff != "" {
		t.Fatalf("presence mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalPreserving(t *testing.T) {
	in := `{"id":"1","message":null,"from":{"name":"Ann"}}`
	dm, err := restfb.DecodeWithMeta[types.Post](context.Background(), restfb.JSONBytes([]byte(in)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	dm.Value.Story = "set after decoding"
	dm.Value.From.Name = "Bob"
	b, err := restfb.MarshalPreserving(dm)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"id":"1","message":null,"from":{"name":"Bob"}}` {
		t.Fatalf("preserving output: %s", b)
	}
}
