package restfb

import (
	"strconv"
	"strings"
)

// PathRef builds JSON Pointers one reference token at a time. The zero
// value is the document root.
type PathRef struct {
	tokens []string
}

// RootPath returns the document root.
func RootPath() PathRef { return PathRef{} }

// PathAt parses a JSON Pointer such as "/data/0/from".
func PathAt(pointer string) PathRef {
	if pointer == "" || pointer == "/" {
		return PathRef{}
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(p, "~1", "/"), "~0", "~")
	}
	return PathRef{tokens: parts}
}

// Field appends a member name.
func (p PathRef) Field(name string) PathRef {
	return PathRef{tokens: append(p.tokens[:len(p.tokens):len(p.tokens)], name)}
}

// Index appends an array index.
func (p PathRef) Index(i int) PathRef { return p.Field(strconv.Itoa(i)) }

// Join appends every token of rel.
func (p PathRef) Join(rel PathRef) PathRef {
	out := make([]string, 0, len(p.tokens)+len(rel.tokens))
	return PathRef{tokens: append(append(out, p.tokens...), rel.tokens...)}
}

// Tokens returns the unescaped reference tokens.
func (p PathRef) Tokens() []string { return append([]string(nil), p.tokens...) }

// Pointer renders p with "~" and "/" escaped; the root is "/".
func (p PathRef) Pointer() string {
	if len(p.tokens) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, t := range p.tokens {
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(t, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

func (p PathRef) String() string { return p.Pointer() }

// Issue creates an Issue at p.
func (p PathRef) Issue(code, detail string) Issue { return newIssue(code, p.Pointer(), detail) }
