package jsonschema

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	eng "github.com/restfb/restfb-sub000/internal/engine"
	"github.com/restfb/restfb-sub000/jsonvalue"
	"github.com/restfb/restfb-sub000/mapper"
)

var (
	timeType  = reflect.TypeOf(time.Time{})
	valueType = reflect.TypeOf((*jsonvalue.Value)(nil)).Elem()
)

// Generate projects t onto a schema. Struct fields are listed under their
// JSON keys; nested struct types are placed in $defs and referenced, so
// self-referencing types terminate. Fields sharing one key become a oneOf.
func Generate(t reflect.Type) *Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	g := &generator{names: map[reflect.Type]string{}, defs: map[string]*Schema{}}
	var root *Schema
	if t.Kind() == reflect.Struct && t != timeType {
		g.names[t] = "#"
		root = g.object(t)
		root.Title = t.Name()
	} else {
		root = g.schema(t)
	}
	root.Schema = Draft
	if len(g.defs) > 0 {
		root.Defs = g.defs
	}
	return root
}

type generator struct {
	names map[reflect.Type]string // struct type -> $ref target
	defs  map[string]*Schema
}

func (g *generator) schema(t reflect.Type) *Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == timeType:
		return &Schema{Type: "string", Format: "date-time"}
	case t == valueType:
		return &Schema{}
	}
	switch t.Kind() {
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string", Format: "byte"}
		}
		return &Schema{Type: "array", Items: g.schema(t.Elem())}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: g.schema(t.Elem())}
	case reflect.Struct:
		return &Schema{Ref: g.ref(t)}
	}
	return &Schema{}
}

func (g *generator) ref(t reflect.Type) string {
	if name, ok := g.names[t]; ok {
		return name
	}
	name := defName(t)
	base := name
	for i := 2; g.defs[name] != nil; i++ {
		name = base + strconv.Itoa(i)
	}
	target := "#" + eng.JoinPointer("/$defs", name)
	g.names[t] = target
	g.defs[name] = &Schema{} // reserve before recursing
	*g.defs[name] = *g.object(t)
	return target
}

// defName names t in $defs. Type arguments of generic types are reduced to
// their unqualified names: Connection[x/types.Post] becomes Connection_Post.
func defName(t reflect.Type) string {
	name := t.Name()
	if name == "" {
		return "anonymous"
	}
	i := strings.IndexByte(name, '[')
	if i < 0 {
		return name
	}
	parts := []string{name[:i]}
	args := strings.FieldsFunc(name[i:], func(r rune) bool {
		return strings.ContainsRune("[]*, ", r)
	})
	for _, a := range args {
		a = a[strings.LastIndexByte(a, '/')+1:]
		a = a[strings.LastIndexByte(a, '.')+1:]
		parts = append(parts, a)
	}
	return strings.Join(parts, "_")
}

func (g *generator) object(t reflect.Type) *Schema {
	s := &Schema{Type: "object", Properties: map[string]*Schema{}}
	for _, f := range mapper.Fields(t) {
		if f.Extra {
			s.AdditionalProperties = true
			continue
		}
		fs := g.schema(f.Type)
		prev, ok := s.Properties[f.Name]
		switch {
		case !ok:
			s.Properties[f.Name] = fs
		case prev.OneOf != nil:
			prev.OneOf = append(prev.OneOf, fs)
		default:
			s.Properties[f.Name] = &Schema{OneOf: []*Schema{prev, fs}}
		}
	}
	return s
}
