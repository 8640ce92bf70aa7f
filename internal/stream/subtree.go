// Package stream walks large documents one subtree at a time.
package stream

import (
	"io"

	eng "github.com/restfb/restfb-sub000/internal/engine"
)

// Subtree exposes a single value of inner whose first token was already
// read. It returns io.EOF once the value is complete; running out of input
// before that is io.ErrUnexpectedEOF.
type Subtree struct {
	inner eng.TokenSource
	first *eng.Token
	depth int
	done  bool
}

// NewSubtree returns the subtree that starts with first.
func NewSubtree(inner eng.TokenSource, first eng.Token) *Subtree {
	return &Subtree{inner: inner, first: &first}
}

func (s *Subtree) NextToken() (eng.Token, error) {
	if s.done {
		return eng.Token{}, io.EOF
	}
	if s.first != nil {
		tok := *s.first
		s.first = nil
		switch tok.Kind {
		case eng.KindBeginObject, eng.KindBeginArray:
			s.depth = 1
		default:
			s.done = true
		}
		return tok, nil
	}
	tok, err := s.inner.NextToken()
	if err == io.EOF {
		return eng.Token{}, io.ErrUnexpectedEOF
	}
	if err != nil {
		return eng.Token{}, err
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		s.depth++
	case eng.KindEndObject, eng.KindEndArray:
		s.depth--
		if s.depth == 0 {
			s.done = true
		}
	}
	return tok, nil
}

func (s *Subtree) Location() int64 { return s.inner.Location() }

func (s *Subtree) Unwrap() eng.TokenSource { return s.inner }

// Drain consumes whatever is left of the subtree.
func (s *Subtree) Drain() error {
	for {
		_, err := s.NextToken()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
