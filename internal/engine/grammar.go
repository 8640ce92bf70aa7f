package engine

import (
	"fmt"
	"strconv"
)

// Grammar validates the separators between tokens for tokenizers that skip
// ',' and ':' without checking them. Sep passed to Accept holds the
// separator bytes found between the previous token and the current one,
// whitespace removed. The zero value is ready for a new document.
type Grammar struct {
	stack []grammarFrame
}

type grammarFrame struct {
	object bool
	state  grammarState
}

type grammarState int

const (
	afterOpen grammarState = iota
	afterKey
	afterValue
)

// Depth reports the number of open containers.
func (g *Grammar) Depth() int { return len(g.stack) }

// Accept checks the next token of kind k preceded by sep. String tokens are
// passed as KindString; the returned kind is KindKey when the string is an
// object key.
func (g *Grammar) Accept(k Kind, sep []byte) (Kind, error) {
	closing := k == KindEndObject || k == KindEndArray
	if len(g.stack) == 0 {
		if len(sep) > 0 {
			return k, unexpected(sep[0], "before top-level value")
		}
		if closing {
			return k, fmt.Errorf("invalid character %s looking for beginning of value", quoteDelim(k))
		}
		g.open(k)
		return k, nil
	}

	top := &g.stack[len(g.stack)-1]
	want := ","
	switch {
	case closing:
		if (k == KindEndObject) != top.object {
			return k, fmt.Errorf("invalid character %s after %s", quoteDelim(k), containerName(top.object))
		}
		if top.state == afterKey {
			return k, fmt.Errorf("invalid character %s looking for beginning of value", quoteDelim(k))
		}
		want = ""
	case top.state == afterOpen:
		want = ""
	case top.state == afterKey:
		want = ":"
	}
	if string(sep) != want {
		switch {
		case want == "" && closing:
			return k, fmt.Errorf("invalid character %s after %s", quoteDelim(k), strconv.QuoteRune(rune(sep[len(sep)-1])))
		case want == "":
			return k, unexpected(sep[0], "looking for beginning of value")
		case len(sep) == 0:
			return k, fmt.Errorf("missing %q after %s", want, previousName(top))
		default:
			return k, unexpected(sep[len(sep)-1], "after "+previousName(top))
		}
	}

	if closing {
		g.stack = g.stack[:len(g.stack)-1]
		return k, nil
	}
	if top.object && top.state != afterKey {
		if k != KindString {
			return k, fmt.Errorf("invalid %s looking for beginning of object key string", k)
		}
		top.state = afterKey
		return KindKey, nil
	}
	top.state = afterValue
	g.open(k)
	return k, nil
}

// End checks the input remaining after the last token.
func (g *Grammar) End(sep []byte) error {
	if len(sep) > 0 {
		return unexpected(sep[0], "at end of input")
	}
	return nil
}

func (g *Grammar) open(k Kind) {
	switch k {
	case KindBeginObject:
		g.stack = append(g.stack, grammarFrame{object: true})
	case KindBeginArray:
		g.stack = append(g.stack, grammarFrame{})
	}
}

func unexpected(c byte, where string) error {
	return fmt.Errorf("invalid character %s %s", strconv.QuoteRune(rune(c)), where)
}

func quoteDelim(k Kind) string {
	if k == KindEndObject {
		return "'}'"
	}
	return "']'"
}

func containerName(object bool) string {
	if object {
		return "object"
	}
	return "array"
}

func previousName(f *grammarFrame) string {
	switch {
	case f.state == afterKey:
		return "object key"
	case f.object:
		return "object key:value pair"
	default:
		return "array element"
	}
}
