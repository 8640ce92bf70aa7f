package webhook_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	restfb "github.com/restfb/restfb-sub000"
	"github.com/restfb/restfb-sub000/internal/signing"
	"github.com/restfb/restfb-sub000/webhook"
)

const feedBody = `{"object":"page","entry":[{"id":"10","time":1700000000,"changes":[` +
	`{"field":"feed","value":{"item":"comment","verb":"add","post_id":"10_1","comment_id":"10_1_2",` +
	`"message":"hi","created_time":1700000000,"from":{"id":"7","name":"Ann"}}}]}]}`

func TestHandler_Handshake(t *testing.T) {
	h := webhook.Handler(webhook.Config{VerifyToken: "tok"}, http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?hub.mode=subscribe&hub.verify_token=tok&hub.challenge=42", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "42" {
		t.Fatalf("handshake: %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=42", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong token should be rejected, got %d", rec.Code)
	}
}

func TestHandler_SignedFeedChange(t *testing.T) {
	var got webhook.Payload
	var seen bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, seen = webhook.PayloadFromRequest(r)
		w.WriteHeader(http.StatusNoContent)
	})
	h := webhook.Handler(webhook.Config{AppSecret: "s3cret"}, next)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(feedBody))
	req.Header.Set(signing.SignatureHeader, signing.Sign("s3cret", []byte(feedBody)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || !seen {
		t.Fatalf("status %d, payload seen %v", rec.Code, seen)
	}
	if got.Object != "page" || len(got.Entry) != 1 || len(got.Entry[0].Changes) != 1 {
		t.Fatalf("payload: %+v", got)
	}
	if want := time.Unix(1700000000, 0).UTC(); !got.Entry[0].When().Equal(want) {
		t.Fatalf("when: %v", got.Entry[0].When())
	}
	var fv webhook.FeedValue
	if err := got.Entry[0].Changes[0].Decode(&fv); err != nil {
		t.Fatalf("decode change: %v", err)
	}
	if fv.Item != "comment" || fv.CommentID != "10_1_2" || fv.From == nil || fv.From.Name != "Ann" {
		t.Fatalf("feed value: %+v", fv)
	}
}

func TestHandler_BadSignature(t *testing.T) {
	h := webhook.Handler(webhook.Config{AppSecret: "s3cret"}, http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(feedBody))
	req.Header.Set(signing.SignatureHeader, signing.Sign("other", []byte(feedBody)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d", rec.Code)
	}
}

func TestHandler_DuplicateKeyIssues(t *testing.T) {
	h := webhook.Handler(webhook.Config{}, http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"object":"page","object":"user"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, `{"issues":[{"path":"/object","code":"duplicate_key"`) {
		t.Fatalf("issues body: %s", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type: %q", ct)
	}
}

func TestHandler_LenientParseOpt(t *testing.T) {
	opt := restfb.ParseOpt{}
	var got webhook.Payload
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = webhook.PayloadFromRequest(r)
	})
	h := webhook.Handler(webhook.Config{ParseOpt: &opt}, next)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"object":"page","object":"user"}`)))
	if rec.Code != http.StatusOK || got.Object != "user" {
		t.Fatalf("status %d, object %q", rec.Code, got.Object)
	}
}

func TestHandler_LimitsAndMethods(t *testing.T) {
	h := webhook.Handler(webhook.Config{MaxBytes: 16}, http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(feedBody)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != "GET, POST" {
		t.Fatalf("want 405, got %d", rec.Code)
	}
}

func TestEntryWhen_Milliseconds(t *testing.T) {
	m := webhook.Messaging{Timestamp: 1700000000123}
	if got := m.When(); got.UnixMilli() != 1700000000123 {
		t.Fatalf("when: %v", got)
	}
}
