package restfb

import (
	"io"
	"sync"

	eng "github.com/restfb/restfb-sub000/internal/engine"
	jsonsrc "github.com/restfb/restfb-sub000/source/json"
)

// Token describes a token in the input stream. Offset records the byte
// position when known (-1 otherwise).
type Token = eng.Token

// TokenKind enumerates JSON token kinds.
type TokenKind = eng.Kind

const (
	TokenBeginObject = eng.KindBeginObject
	TokenEndObject   = eng.KindEndObject
	TokenBeginArray  = eng.KindBeginArray
	TokenEndArray    = eng.KindEndArray
	TokenKey         = eng.KindKey
	TokenString      = eng.KindString
	TokenNumber      = eng.KindNumber
	TokenBool        = eng.KindBool
	TokenNull        = eng.KindNull
)

// Source produces JSON tokens. NextToken returns io.EOF after the last token
// and Location reports the byte offset consumed so far (-1 if unknown).
type Source = eng.TokenSource

// JSONDriver converts JSON input into a Source via a pluggable SPI. The default
// implementation is based on encoding/json and may be swapped with SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default encoding/json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

// CurrentJSONDriver returns the driver JSONBytes and JSONReader use.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// defaultJSONDriver wraps the encoding/json implementation.
type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source { return jsonsrc.NewReader(r) }
func (defaultJSONDriver) NewBytes(b []byte) Source     { return jsonsrc.NewBytes(b) }
func (defaultJSONDriver) Name() string                 { return "encoding/json" }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return CurrentJSONDriver().NewBytes(b) }

// EnforceSource wraps a Source with duplicate key, depth and size enforcement.
// Warnings that do not stop the stream are passed to sink when it is non-nil.
func EnforceSource(s Source, opt ParseOpt, sink func(Issue)) Source {
	var forward func(eng.SimpleIssue)
	if sink != nil {
		pos, _ := eng.FindPositioner(s)
		forward = func(si eng.SimpleIssue) {
			it := newIssue(si.Code, si.Path, si.Message)
			it.Offset = si.Offset
			if it.Offset < 0 {
				it.Offset = s.Location()
			}
			if pos != nil && it.Offset >= 0 {
				it.Line, it.Column = pos.Position(it.Offset)
			}
			sink(it)
		}
	}
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   forward,
	}
	if eo.Disabled() {
		return s
	}
	return eng.WrapWithEnforcement(s, eo)
}
