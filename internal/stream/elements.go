package stream

import (
	"io"

	eng "github.com/restfb/restfb-sub000/internal/engine"
)

// Element is one array element handed to an Elements callback. Member is
// the top-level key holding the array, or "" for a top-level array.
type Element struct {
	Member string
	Index  int
	Source eng.TokenSource
}

// ShapeError reports a document without an array to walk.
type ShapeError struct {
	Member string
	Msg    string
}

func (e *ShapeError) Error() string { return e.Msg }

// Elements walks the top-level array of src, or the array under member key
// of a top-level object, and calls each once per element. Other members of
// the object go to other, or are skipped when other is nil. Tokens a callback
// leaves unread are skipped.
func Elements(src eng.TokenSource, key string, each func(Element) error, other func(name string, sub eng.TokenSource) error) error {
	tok, err := src.NextToken()
	if err == io.EOF {
		return eng.NewSyntaxError("empty input", 0)
	}
	if err != nil {
		return err
	}
	switch tok.Kind {
	case eng.KindBeginArray:
		err = walkArray(src, "", each)
	case eng.KindBeginObject:
		err = walkObject(src, key, each, other)
	default:
		return &ShapeError{Msg: "expected a JSON array or object"}
	}
	if err != nil {
		return err
	}
	_, err = src.NextToken()
	switch {
	case err == io.EOF:
		return nil
	case err != nil:
		return err
	}
	return eng.NewSyntaxError("unexpected data after top-level value", src.Location())
}

func next(src eng.TokenSource) (eng.Token, error) {
	tok, err := src.NextToken()
	if err == io.EOF {
		return eng.Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}

func walkArray(src eng.TokenSource, member string, each func(Element) error) error {
	for i := 0; ; i++ {
		tok, err := next(src)
		if err != nil {
			return err
		}
		if tok.Kind == eng.KindEndArray {
			return nil
		}
		sub := NewSubtree(src, tok)
		if err := each(Element{Member: member, Index: i, Source: sub}); err != nil {
			return err
		}
		if err := sub.Drain(); err != nil {
			return err
		}
	}
}

func walkObject(src eng.TokenSource, key string, each func(Element) error, other func(string, eng.TokenSource) error) error {
	found := false
	for {
		tok, err := next(src)
		if err != nil {
			return err
		}
		if tok.Kind == eng.KindEndObject {
			if !found {
				return &ShapeError{Member: key, Msg: "missing " + key + " array"}
			}
			return nil
		}
		name := tok.String
		vt, err := next(src)
		if err != nil {
			return err
		}
		if name == key && !found {
			if vt.Kind != eng.KindBeginArray {
				return &ShapeError{Member: key, Msg: "expected a JSON array"}
			}
			found = true
			if err := walkArray(src, key, each); err != nil {
				return err
			}
			continue
		}
		sub := NewSubtree(src, vt)
		if other != nil {
			if err := other(name, sub); err != nil {
				return err
			}
		}
		if err := sub.Drain(); err != nil {
			return err
		}
	}
}
