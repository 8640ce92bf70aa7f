package restfb_test

import (
	"testing"

	restfb "github.com/restfb/restfb-sub000"
	"github.com/restfb/restfb-sub000/types"
)

func TestFieldOf(t *testing.T) {
	if k := restfb.FieldOf(func(p *types.Post) *string { return &p.Message }).Key(); k != "message" {
		t.Fatalf("message: %q", k)
	}
	// promoted through the embedded FacebookType
	if k := restfb.FieldNameOf(func(p *types.Post) *string { return &p.ID }); k != "id" {
		t.Fatalf("id: %q", k)
	}
	tok := restfb.FieldOf(func(a *types.Album) *string { return &a.CoverPhotoID })
	if tok.Key() != "cover_photo" || tok.Pointer() != "/cover_photo" {
		t.Fatalf("cover photo: %q %q", tok.Key(), tok.Pointer())
	}
}

func TestFieldOf_PanicsOnUnmapped(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an untagged field")
		}
	}()
	restfb.FieldOf(func(p *types.Post) *int64 { return &p.LikesCount })
}

func TestPathOf(t *testing.T) {
	p := restfb.PathOf(func(p *types.Post) *string { return &p.From.Name })
	if got := p.Pointer(); got != "/from/name" {
		t.Fatalf("pointer: %q", got)
	}
	p2 := restfb.PathOf(func(p *types.Post) *int64 { return &p.Comments.Summary.TotalCount })
	if got := p2.Keys(); len(got) != 3 || got[2] != "total_count" {
		t.Fatalf("keys: %v", got)
	}
}

func TestFieldsParam(t *testing.T) {
	got := restfb.FieldsParam(
		restfb.FieldOf(func(p *types.Post) *string { return &p.ID }).Path(),
		restfb.PathOf(func(p *types.Post) *string { return &p.Message }),
		restfb.PathOf(func(p *types.Post) *string { return &p.From.Name }),
		restfb.PathOf(func(p *types.Post) *string { return &p.From.ID }),
		restfb.PathOf(func(p *types.Post) *int64 { return &p.Comments.Summary.TotalCount }),
	)
	if want := "id,message,from{name,id},comments{summary{total_count}}"; got != want {
		t.Fatalf("fields:\n got %q\nwant %q", got, want)
	}
}

func TestAllFields(t *testing.T) {
	if got := restfb.AllFields[types.Cursors](); got != "before,after" {
		t.Fatalf("cursors: %q", got)
	}
	if got := restfb.AllFields[types.NamedFacebookType](); got != "id,type,metadata,name" {
		t.Fatalf("named: %q", got)
	}
}
