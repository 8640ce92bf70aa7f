package restfb_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	restfb "github.com/restfb/restfb-sub000"
	"github.com/restfb/restfb-sub000/types"
)

func TestStreamEach_Page(t *testing.T) {
	in := `{"data":[{"id":"1","message":"a"},{"id":"2","message":"b"}],"paging":{"next":"https://x/next"}}`
	var got []string
	rest, err := restfb.StreamEach(context.Background(), strings.NewReader(in), func(i int, p types.Post) error {
		got = append(got, p.ID+":"+p.Message)
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if strings.Join(got, ",") != "1:a,2:b" {
		t.Fatalf("items: %v", got)
	}
	var paging types.Paging
	pv, _ := rest.Get("paging")
	if err := restfb.MapValue(pv, &paging); err != nil || paging.Next != "https://x/next" {
		t.Fatalf("paging: %+v %v", paging, err)
	}
}

func TestStreamEach_IssuePaths(t *testing.T) {
	_, err := restfb.StreamEach(context.Background(), strings.NewReader(`[{"width":1},{"width":"x"}]`),
		func(int, types.Photo) error { return nil })
	iss, ok := restfb.AsIssues(err)
	if !ok || iss[0].Path != "/1/width" || iss[0].Code != restfb.CodeInvalidType {
		t.Fatalf("want invalid_type at /1/width, got %v", err)
	}

	_, err = restfb.StreamEach(context.Background(), strings.NewReader(`{"data":[{"id":"1","id":"2"}]}`),
		func(int, types.Post) error { return nil },
		restfb.ParseOpt{Strictness: restfb.Strictness{OnDuplicateKey: restfb.Error}})
	iss, ok = restfb.AsIssues(err)
	if !ok || iss[0].Code != restfb.CodeDuplicateKey || iss[0].Path != "/data/0/id" {
		t.Fatalf("want duplicate_key at /data/0/id, got %v", err)
	}

	_, err = restfb.StreamEach(context.Background(), strings.NewReader(`{"data":{}}`),
		func(int, types.Post) error { return nil })
	iss, ok = restfb.AsIssues(err)
	if !ok || iss[0].Path != "/data" {
		t.Fatalf("want issue at /data, got %v", err)
	}
}

func TestStreamEach_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("enough")
	n := 0
	_, err := restfb.StreamEach(context.Background(), strings.NewReader(`[{},{},{}]`), func(int, types.FacebookType) error {
		n++
		if n == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || n != 2 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}
