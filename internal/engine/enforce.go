package engine

import (
	"strconv"
	"strings"
)

// Enforcement wrapper for TokenSource to apply duplicate key handling,
// max depth checks, and max bytes truncation in a streaming fashion.

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives every issue, including warnings that do not stop the
	// stream. Nil drops warnings.
	IssueSink func(SimpleIssue)
}

// Disabled reports whether wrapping with these options would be a no-op.
func (o EnforceOptions) Disabled() bool {
	return o.OnDuplicate == DupIgnore && o.MaxDepth <= 0 && o.MaxBytes <= 0
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind       containerKind
	keys       map[string]struct{}
	path       string
	nextIndex  int
	pendingKey string
	hasKey     bool
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) Unwrap() TokenSource { return e.inner }

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	path := e.pathFor(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		f := frame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f.kind = kindObject
			if e.opt.OnDuplicate != DupIgnore {
				f.keys = make(map[string]struct{})
			}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, e.fail(CodeMaxDepth, path, "max depth of "+strconv.Itoa(e.opt.MaxDepth)+" exceeded", tok.Offset)
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 && e.stack[n-1].kind == kindObject {
			top := &e.stack[n-1]
			if top.keys != nil {
				if _, dup := top.keys[tok.String]; dup {
					si := SimpleIssue{Code: CodeDuplicateKey, Path: path, Message: "duplicate key " + strconv.Quote(tok.String), Offset: tok.Offset}
					if e.opt.OnDuplicate == DupError {
						return Token{}, e.fail(si.Code, si.Path, si.Message, si.Offset)
					}
					e.report(si)
				}
				top.keys[tok.String] = struct{}{}
			}
			top.pendingKey = tok.String
			top.hasKey = true
		}
	default:
		e.valueDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off > e.opt.MaxBytes {
			return Token{}, e.fail(CodeTruncated, path, "max bytes of "+strconv.FormatInt(e.opt.MaxBytes, 10)+" exceeded", off)
		}
	}
	return tok, nil
}

func (e *enforcingTokenSource) fail(code, path, msg string, offset int64) error {
	si := SimpleIssue{Code: code, Path: path, Message: msg, Offset: offset}
	e.report(si)
	return IssueError{si}
}

func (e *enforcingTokenSource) report(si SimpleIssue) {
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
}

// valueDone marks the pending key of the enclosing object as consumed.
func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindObject {
			top.hasKey = false
			top.pendingKey = ""
		}
	}
}

// pathFor returns the JSON Pointer of the value a token starts (or, for keys,
// of the member the key names).
func (e *enforcingTokenSource) pathFor(tok Token) string {
	if len(e.stack) == 0 {
		return "/"
	}
	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindKey:
		return JoinPointer(top.path, tok.String)
	case KindEndObject, KindEndArray:
		return top.path
	}
	if top.kind == kindArray {
		p := JoinPointer(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	if top.hasKey {
		return JoinPointer(top.path, top.pendingKey)
	}
	return top.path
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// JoinPointer appends one reference token to a JSON Pointer. The root pointer
// is "/".
func JoinPointer(base, token string) string {
	token = pointerEscaper.Replace(token)
	if base == "" || base == "/" {
		return "/" + token
	}
	return base + "/" + token
}
