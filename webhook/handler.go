package webhook

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	restfb "github.com/restfb/restfb-sub000"
	"github.com/restfb/restfb-sub000/internal/signing"
	"github.com/restfb/restfb-sub000/jsonvalue"
)

// DefaultMaxBytes caps a webhook body when Config.MaxBytes is zero.
const DefaultMaxBytes = 1 << 20

// Config configures Handler.
type Config struct {
	// VerifyToken must match hub.verify_token during the subscription
	// handshake.
	VerifyToken string
	// AppSecret enables the X-Hub-Signature-256 check when set.
	AppSecret string
	MaxBytes  int64
	// ParseOpt overrides DefaultParseOpt.
	ParseOpt *restfb.ParseOpt
}

// DefaultParseOpt rejects duplicate keys at the HTTP boundary.
func DefaultParseOpt() restfb.ParseOpt {
	return restfb.ParseOpt{
		Strictness: restfb.Strictness{OnDuplicateKey: restfb.Error},
	}
}

type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a Decoded[T] to the context.
func ContextWithDecoded[T any](ctx context.Context, d restfb.Decoded[T]) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, d)
}

// DecodedFromContext retrieves a Decoded[T] stored by ContextWithDecoded.
func DecodedFromContext[T any](ctx context.Context) (restfb.Decoded[T], bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(restfb.Decoded[T])
	return v, ok
}

// PayloadFromRequest returns the payload decoded by Handler.
func PayloadFromRequest(r *http.Request) (Payload, bool) {
	d, ok := DecodedFromContext[Payload](r.Context())
	return d.Value, ok
}

// Handler answers the subscription handshake on GET and decodes signed
// change notifications on POST before passing them to next.
func Handler(cfg Config, next http.Handler) http.Handler {
	limit := cfg.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	opt := DefaultParseOpt()
	if cfg.ParseOpt != nil {
		opt = *cfg.ParseOpt
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			verify(cfg, w, r)
		case http.MethodPost:
			receive(cfg, limit, opt, next, w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})
}

func verify(cfg Config, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") != "subscribe" || cfg.VerifyToken == "" || q.Get("hub.verify_token") != cfg.VerifyToken {
		slogctx.FromCtx(r.Context()).WarnContext(r.Context(), "webhook verification rejected", "mode", q.Get("hub.mode"))
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, q.Get("hub.challenge"))
}

func receive(cfg Config, limit int64, opt restfb.ParseOpt, next http.Handler, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogctx.FromCtx(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		log.WarnContext(ctx, "webhook body read failed", "error", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if cfg.AppSecret != "" && !signing.Verify(cfg.AppSecret, body, r.Header.Get(signing.SignatureHeader)) {
		log.WarnContext(ctx, "webhook signature mismatch")
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	d, err := restfb.DecodeWithMeta[Payload](ctx, restfb.JSONReader(bytes.NewReader(body)), opt)
	if err != nil {
		iss, ok := restfb.AsIssues(err)
		if !ok {
			log.ErrorContext(ctx, "webhook decode failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		log.InfoContext(ctx, "webhook payload rejected", "issues", len(iss), "first", iss[0].String())
		writeIssues(w, http.StatusBadRequest, iss)
		return
	}
	log.DebugContext(ctx, "webhook payload accepted", "object", d.Value.Object, "entries", len(d.Value.Entry))
	next.ServeHTTP(w, r.WithContext(ContextWithDecoded(ctx, d)))
}

// ErrorPayload renders issues as {"issues":[{"path":...,"code":...,"message":...}]}.
func ErrorPayload(iss restfb.Issues) jsonvalue.Value {
	arr := jsonvalue.NewArray()
	for _, it := range iss {
		o := jsonvalue.NewObject()
		o.Set("path", jsonvalue.String(it.Path))
		o.Set("code", jsonvalue.String(it.Code))
		o.Set("message", jsonvalue.String(it.Message))
		if it.Line > 0 {
			o.Set("line", jsonvalue.Int(int64(it.Line)))
			o.Set("column", jsonvalue.Int(int64(it.Column)))
		}
		arr.Append(o)
	}
	root := jsonvalue.NewObject()
	root.Set("issues", arr)
	return root
}

func writeIssues(w http.ResponseWriter, status int, iss restfb.Issues) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	jw := jsonvalue.NewWriter(w, jsonvalue.Minimal)
	_ = jw.Value(ErrorPayload(iss))
	_ = jw.Close()
}
