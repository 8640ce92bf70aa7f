package client

import (
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Category groups Graph API errors by how a caller should react.
type Category int

const (
	CategoryGeneric Category = iota
	// CategoryOAuth covers invalid, expired or insufficient access tokens.
	CategoryOAuth
	// CategoryQueryParse covers malformed requests: unknown fields, bad ids.
	CategoryQueryParse
	// CategoryRateLimit covers application, user and page throttling.
	CategoryRateLimit
)

func (c Category) String() string {
	switch c {
	case CategoryOAuth:
		return "oauth"
	case CategoryQueryParse:
		return "query_parse"
	case CategoryRateLimit:
		return "rate_limit"
	default:
		return "generic"
	}
}

// APIError is an error object returned by the Graph API, either in the
// {"error":{...}} form or the legacy {"error_code":..,"error_msg":..} form.
type APIError struct {
	Category    Category
	StatusCode  int
	Type        string
	Code        int
	Subcode     int
	Message     string
	UserTitle   string
	UserMessage string
	TraceID     string
	IsTransient bool
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("graph api ")
	b.WriteString(e.Category.String())
	b.WriteString(" error")
	if e.Type != "" {
		b.WriteString(" (" + e.Type + ")")
	}
	b.WriteString(": code " + strconv.Itoa(e.Code))
	if e.Subcode != 0 {
		b.WriteString("/" + strconv.Itoa(e.Subcode))
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	return b.String()
}

// HTTPError is a non-success response whose body is not a Graph error object.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return "graph api http " + strconv.Itoa(e.StatusCode) + ": " + e.Body
}

// IsOAuthError reports whether err carries an APIError of CategoryOAuth.
func IsOAuthError(err error) bool { return isCategory(err, CategoryOAuth) }

// IsRateLimited reports whether err carries an APIError of CategoryRateLimit.
func IsRateLimited(err error) bool { return isCategory(err, CategoryRateLimit) }

func isCategory(err error, c Category) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Category == c
}

// errorBody is the "error" member of a failed response.
type errorBody struct {
	Message        string `facebook:"message"`
	Type           string `facebook:"type"`
	Code           int    `facebook:"code"`
	ErrorSubcode   int    `facebook:"error_subcode"`
	ErrorUserTitle string `facebook:"error_user_title"`
	ErrorUserMsg   string `facebook:"error_user_msg"`
	FBTraceID      string `facebook:"fbtrace_id"`
	IsTransient    bool   `facebook:"is_transient"`
}

type legacyErrorBody struct {
	ErrorCode int    `facebook:"error_code"`
	ErrorMsg  string `facebook:"error_msg"`
}

// rateLimitCodes are the throttling codes documented for the Graph API.
var rateLimitCodes = map[int]bool{4: true, 17: true, 32: true, 341: true, 613: true, 80001: true, 80002: true, 80003: true, 80004: true, 80005: true, 80006: true, 80008: true, 80009: true, 80014: true}

func classify(typ string, code int) Category {
	switch {
	case rateLimitCodes[code]:
		return CategoryRateLimit
	case typ == "OAuthException", code == 190, code == 102:
		return CategoryOAuth
	case typ == "QueryParseException", code == 803:
		return CategoryQueryParse
	default:
		return CategoryGeneric
	}
}
