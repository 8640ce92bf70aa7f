// Package client talks to the Graph API over HTTP and maps the responses into
// resource types.
package client

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"

	restfb "github.com/restfb/restfb-sub000"
	"github.com/restfb/restfb-sub000/internal/signing"
	"github.com/restfb/restfb-sub000/jsonvalue"
	"github.com/restfb/restfb-sub000/mapper"
)

const (
	DefaultBaseURL = "https://graph.facebook.com"
	DefaultVersion = "v21.0"
)

// Requestor executes HTTP requests. *http.Client satisfies it.
type Requestor interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a Client. Only AccessToken is usually needed.
type Config struct {
	AccessToken string
	// AppSecret adds appsecret_proof to every request when set.
	AppSecret string
	// Version is the path prefix such as "v21.0". Use "-" for unversioned
	// calls.
	Version string
	BaseURL string
	// HTTPClient is the base client wrapped by the bearer-token transport.
	HTTPClient *http.Client
	// Logger falls back to the context logger when nil.
	Logger *slog.Logger
	// Requestor replaces the whole transport, token handling included.
	Requestor Requestor
	Mapper    *mapper.Mapper
	// ParseOpt applies to every response body.
	ParseOpt restfb.ParseOpt
}

// Client is safe for concurrent use.
type Client struct {
	cfg     Config
	base    *url.URL
	req     Requestor
	mapper  *mapper.Mapper
	logger  *slog.Logger
	proof   string
	version string
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Errorf("parse base url: %w", err)
	}
	c := &Client{cfg: cfg, base: base, req: cfg.Requestor, mapper: cfg.Mapper, logger: cfg.Logger}
	switch cfg.Version {
	case "":
		c.version = DefaultVersion
	case "-":
	default:
		c.version = cfg.Version
	}
	if c.mapper == nil {
		c.mapper = mapper.Default()
		if cfg.Logger != nil {
			c.mapper = c.mapper.With(mapper.WithLogger(cfg.Logger))
		}
	}
	if c.req == nil {
		c.req = newHTTPClient(cfg)
	}
	if cfg.AppSecret != "" && cfg.AccessToken != "" {
		c.proof = signing.AppSecretProof(cfg.AccessToken, cfg.AppSecret)
	}
	return c, nil
}

func newHTTPClient(cfg Config) *http.Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	if cfg.AccessToken == "" {
		return hc
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.AccessToken,
		TokenType:   "Bearer",
	}))
}

func (c *Client) log(ctx context.Context) *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slogctx.FromCtx(ctx)
}

// BaseURL returns the API root requests are resolved against.
func (c *Client) BaseURL() string { return c.base.String() }

// Mapper returns the mapper used for responses and parameters.
func (c *Client) Mapper() *mapper.Mapper { return c.mapper }

// endpoint resolves a Graph path such as "me/feed" or an absolute paging URL.
func (c *Client) endpoint(path string) (*url.URL, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		u, err := url.Parse(path)
		if err != nil {
			return nil, errors.Errorf("parse url: %w", err)
		}
		return u, nil
	}
	path = strings.TrimPrefix(path, "/")
	if c.version == "" {
		return c.base.JoinPath(path), nil
	}
	return c.base.JoinPath(c.version, path), nil
}

// call performs one request and returns the parsed body. Graph error objects
// become *APIError, other failed responses *HTTPError.
func (c *Client) call(ctx context.Context, method, path string, params []Parameter) (jsonvalue.Value, error) {
	u, err := c.endpoint(path)
	if err != nil {
		return nil, err
	}
	vals, err := encodeParams(c.mapper, params)
	if err != nil {
		return nil, err
	}
	if c.proof != "" {
		vals.Set("appsecret_proof", c.proof)
	}

	var body io.Reader
	if method == http.MethodPost {
		body = strings.NewReader(vals.Encode())
	} else if len(vals) > 0 {
		q := u.Query()
		for k, vs := range vals {
			q[k] = vs
		}
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.req.Do(req)
	if err != nil {
		return nil, errors.Errorf("%s %s: %w", method, u.Path, err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Errorf("read response: %w", err)
	}
	c.log(ctx).DebugContext(ctx, "graph request",
		"method", method, "path", u.Path, "status", res.StatusCode,
		"bytes", len(data), "duration", time.Since(start))

	v, perr := restfb.ParseValue(ctx, restfb.JSONBytes(bytes.TrimSpace(data)), c.cfg.ParseOpt)
	if perr == nil {
		if apiErr := apiError(c.mapper, res.StatusCode, v); apiErr != nil {
			return nil, errors.WithStack(apiErr)
		}
	}
	if res.StatusCode >= http.StatusBadRequest {
		return nil, errors.WithStack(&HTTPError{StatusCode: res.StatusCode, Body: string(data)})
	}
	if perr != nil {
		return nil, errors.Errorf("%s %s: decode response: %w", method, u.Path, perr)
	}
	return v, nil
}

func apiError(m *mapper.Mapper, status int, v jsonvalue.Value) *APIError {
	obj, ok := v.(*jsonvalue.Object)
	if !ok {
		return nil
	}
	if ev, ok := obj.GetObject("error"); ok {
		var eb errorBody
		if m.UnmarshalValue(ev, &eb) != nil {
			return &APIError{Category: CategoryGeneric, StatusCode: status, Message: "unreadable error object"}
		}
		return &APIError{
			Category:    classify(eb.Type, eb.Code),
			StatusCode:  status,
			Type:        eb.Type,
			Code:        eb.Code,
			Subcode:     eb.ErrorSubcode,
			Message:     eb.Message,
			UserTitle:   eb.ErrorUserTitle,
			UserMessage: eb.ErrorUserMsg,
			TraceID:     eb.FBTraceID,
			IsTransient: eb.IsTransient,
		}
	}
	if obj.Has("error_code") {
		var lb legacyErrorBody
		_ = m.UnmarshalValue(obj, &lb)
		return &APIError{Category: classify("", lb.ErrorCode), StatusCode: status, Code: lb.ErrorCode, Message: lb.ErrorMsg}
	}
	return nil
}
