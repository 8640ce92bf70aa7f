package restfb

import (
	"reflect"
	"strings"

	eng "github.com/restfb/restfb-sub000/internal/engine"
	"github.com/restfb/restfb-sub000/mapper"
)

// FieldToken identifies a top-level field of T by its JSON key. Obtain it via
// FieldOf to keep compile-time linkage to the struct field.
type FieldToken[T any] struct {
	key string
}

// Key returns the JSON key associated with this field token.
func (t FieldToken[T]) Key() string { return t.key }

// Pointer returns the JSON Pointer of the field.
func (t FieldToken[T]) Pointer() string { return eng.JoinPointer("/", t.key) }

// FieldPathToken identifies a nested field of T. Produced by PathOf. Keys are
// top-level-first.
type FieldPathToken[T any] struct {
	keys []string
}

// Keys returns the key path segments.
func (t FieldPathToken[T]) Keys() []string { return append([]string(nil), t.keys...) }

// Pointer returns the JSON Pointer of the field.
func (t FieldPathToken[T]) Pointer() string {
	p := "/"
	for _, k := range t.keys {
		p = eng.JoinPointer(p, k)
	}
	return p
}

// Path converts a top-level token into a path token.
func (t FieldToken[T]) Path() FieldPathToken[T] { return FieldPathToken[T]{keys: []string{t.key}} }

// selectorDepth bounds how many pointer hops a PathOf selector may take.
const selectorDepth = 4

// FieldNameOf returns the JSON key for a top-level field of S selected by selector.
// Example: FieldNameOf[types.Post](func(p *types.Post) *string { return &p.Message }) -> "message".
func FieldNameOf[S any, F any](selector func(*S) *F) string {
	return FieldOf(selector).Key()
}

// FieldOf builds a FieldToken for a top-level field of T, including fields
// promoted from embedded structs:
//
//	FieldOf[types.Post](func(p *types.Post) *string { return &p.ID })
func FieldOf[T any, F any](selector func(*T) *F) FieldToken[T] {
	keys := selectKeys(selector, false)
	if len(keys) != 1 {
		panic("restfb.FieldOf: selector must return the address of a mapped top-level field of T")
	}
	return FieldToken[T]{key: keys[0]}
}

// PathOf builds a FieldPathToken for a nested field of T. Struct pointers
// are followed up to a small fixed depth:
//
//	PathOf[types.Post](func(p *types.Post) *string { return &p.From.Name })
func PathOf[T any, F any](selector func(*T) *F) FieldPathToken[T] {
	keys := selectKeys(selector, true)
	if len(keys) == 0 {
		panic("restfb.PathOf: selector must return the address of a mapped field of T")
	}
	return FieldPathToken[T]{keys: keys}
}

func selectKeys[T any, F any](selector func(*T) *F, nested bool) []string {
	if selector == nil {
		panic("restfb: selector must not be nil")
	}
	zp := new(T)
	root := reflect.ValueOf(zp).Elem()
	prefill(root, selectorDepth)
	fp := selector(zp)
	if fp == nil {
		return nil
	}
	target := reflect.ValueOf(fp).Pointer()
	ft := reflect.TypeOf((*F)(nil)).Elem()
	keys, _ := findPathKeys(root, target, ft, nested, 0)
	return keys
}

func findPathKeys(v reflect.Value, target uintptr, ft reflect.Type, nested bool, depth int) ([]string, bool) {
	if depth > 2*selectorDepth+8 || v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)
		if flattened(sf) {
			inner := fv
			if inner.Kind() == reflect.Pointer {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if keys, ok := findPathKeys(inner, target, ft, nested, depth+1); ok {
				return keys, true
			}
			continue
		}
		name := ResolveStructKey(sf)
		if name == "" {
			continue
		}
		if fv.CanAddr() && fv.Addr().Pointer() == target && fv.Type() == ft {
			return []string{name}, true
		}
		if !nested {
			continue
		}
		inner := fv
		if inner.Kind() == reflect.Pointer && !inner.IsNil() {
			inner = inner.Elem()
		}
		if inner.Kind() == reflect.Struct {
			if rest, ok := findPathKeys(inner, target, ft, nested, depth+1); ok {
				return append([]string{name}, rest...), true
			}
		}
	}
	return nil, false
}

// FieldsParam renders path tokens as the value of a Graph API "fields" query
// parameter, nesting shared prefixes: id,name,from{id,name}.
func FieldsParam[T any](paths ...FieldPathToken[T]) string {
	root := &fieldNode{}
	for _, p := range paths {
		n := root
		for _, k := range p.keys {
			n = n.child(k)
		}
	}
	var b strings.Builder
	root.render(&b)
	return b.String()
}

// AllFields lists the top-level JSON keys of T in declaration order, suitable
// for a "fields" parameter requesting every mapped field.
func AllFields[T any]() string {
	seen := map[string]bool{}
	var names []string
	for _, f := range mapper.Fields(reflect.TypeOf((*T)(nil)).Elem()) {
		if f.Extra || seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		names = append(names, f.Name)
	}
	return strings.Join(names, ",")
}

type fieldNode struct {
	name     string
	children []*fieldNode
}

func (n *fieldNode) child(name string) *fieldNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	c := &fieldNode{name: name}
	n.children = append(n.children, c)
	return c
}

func (n *fieldNode) render(b *strings.Builder) {
	for i, c := range n.children {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.name)
		if len(c.children) > 0 {
			b.WriteByte('{')
			c.render(b)
			b.WriteByte('}')
		}
	}
}
