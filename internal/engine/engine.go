package engine

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

var kindNames = [...]string{
	KindBeginObject: "'{'",
	KindEndObject:   "'}'",
	KindBeginArray:  "'['",
	KindEndArray:    "']'",
	KindKey:         "object key",
	KindString:      "string",
	KindNumber:      "number",
	KindBool:        "boolean",
	KindNull:        "null",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown token"
}

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Positioner is implemented by sources that can resolve a byte offset into a
// 1-based line and column.
type Positioner interface {
	Position(offset int64) (line, column int)
}

// Unwrapper is implemented by wrapping sources so callers can reach the
// tokenizer underneath (for example to resolve positions).
type Unwrapper interface {
	Unwrap() TokenSource
}

// FindPositioner walks a chain of wrapped sources and returns the first one
// able to resolve positions.
func FindPositioner(src TokenSource) (Positioner, bool) {
	for src != nil {
		if p, ok := src.(Positioner); ok {
			return p, true
		}
		u, ok := src.(Unwrapper)
		if !ok {
			return nil, false
		}
		src = u.Unwrap()
	}
	return nil, false
}
