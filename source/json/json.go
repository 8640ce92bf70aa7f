// Package json adapts encoding/json's streaming Decoder into an
// engine.TokenSource.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	eng "github.com/restfb/restfb-sub000/internal/engine"
)

type jsonSource struct {
	dec        *json.Decoder
	lines      *eng.LineCounter
	keys       eng.KeyTracker
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	lc := eng.NewLineCounter(r)
	dec := json.NewDecoder(lc)
	dec.UseNumber()
	return &jsonSource{dec: dec, lines: lc, lastOffset: 0}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (eng.Token, error) {
	start := s.dec.InputOffset()
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return eng.Token{}, io.EOF
		}
		var se *json.SyntaxError
		if errors.As(err, &se) {
			pe := eng.NewSyntaxError(stripPrefix(se.Error()), se.Offset)
			pe.Line, pe.Column = s.lines.Position(pe.Offset)
			return eng.Token{}, pe
		}
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
		// a delimiter is the single byte just consumed
		start = s.lastOffset - 1
		switch v {
		case '{':
			s.keys.Open(true)
			return eng.Token{Kind: eng.KindBeginObject, Offset: start}, nil
		case '[':
			s.keys.Open(false)
			return eng.Token{Kind: eng.KindBeginArray, Offset: start}, nil
		case '}':
			s.keys.Close()
			return eng.Token{Kind: eng.KindEndObject, Offset: start}, nil
		default:
			s.keys.Close()
			return eng.Token{Kind: eng.KindEndArray, Offset: start}, nil
		}
	case string:
		if s.keys.IsKey() {
			return eng.Token{Kind: eng.KindKey, String: v, Offset: start}, nil
		}
		return eng.Token{Kind: eng.KindString, String: v, Offset: start}, nil
	case json.Number:
		s.keys.Value()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: start}, nil
	case float64:
		s.keys.Value()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: start}, nil
	case bool:
		s.keys.Value()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: start}, nil
	default:
		s.keys.Value()
		return eng.Token{Kind: eng.KindNull, Offset: start}, nil
	}
}

func (s *jsonSource) Location() int64 { return s.lastOffset }

func (s *jsonSource) Position(offset int64) (int, int) { return s.lines.Position(offset) }

func stripPrefix(msg string) string {
	const p = "json: "
	if len(msg) >= len(p) && msg[:len(p)] == p {
		return msg[len(p):]
	}
	return msg
}
