package mapper

import (
	"reflect"
	"strings"
	"sync"
	"unicode"
)

// TagName is the struct tag consulted for JSON keys.
const TagName = "facebook"

// Field describes one mapped struct field.
type Field struct {
	Name   string       // JSON key
	GoName string       // Go field name
	Index  []int        // index path from the outer struct, through embedded structs
	Type   reflect.Type // field type
	Extra  bool         // receives members no other field claimed
}

var fieldCache sync.Map // reflect.Type -> []Field

// Fields returns the mapped fields of struct type t (or pointer to struct) in
// declaration order. Embedded structs are flattened in place.
func Fields(t reflect.Type) []Field {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]Field)
	}
	fs := collectFields(t, nil, map[reflect.Type]bool{t: true})
	actual, _ := fieldCache.LoadOrStore(t, fs)
	return actual.([]Field)
}

func collectFields(t reflect.Type, prefix []int, visiting map[reflect.Type]bool) []Field {
	var out []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), prefix...), i)
		if sf.Anonymous {
			et := sf.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			tag, tagged := sf.Tag.Lookup(TagName)
			if et.Kind() == reflect.Struct && (!tagged || tag == "") {
				if visiting[et] {
					continue
				}
				visiting[et] = true
				out = append(out, collectFields(et, index, visiting)...)
				delete(visiting, et)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		name, ok := FieldKey(sf)
		if !ok {
			continue
		}
		out = append(out, Field{
			Name:   name,
			GoName: sf.Name,
			Index:  index,
			Type:   sf.Type,
			Extra:  hasOption(sf.Tag.Get(TagName), "extra"),
		})
	}
	return out
}

// FieldKey resolves the JSON key of a struct field from its facebook tag.
// Untagged fields and fields tagged "-" are not mapped. An empty tag name
// defaults to the snake_case form of the Go name.
func FieldKey(sf reflect.StructField) (string, bool) {
	tag, ok := sf.Tag.Lookup(TagName)
	if !ok || tag == "-" {
		return "", false
	}
	name := tag
	if i := strings.IndexByte(tag, ','); i >= 0 {
		name = tag[:i]
	}
	if name == "" {
		name = SnakeCase(sf.Name)
	}
	return name, true
}

func hasOption(tag, opt string) bool {
	i := strings.IndexByte(tag, ',')
	if i < 0 {
		return false
	}
	for _, o := range strings.Split(tag[i+1:], ",") {
		if strings.TrimSpace(o) == opt {
			return true
		}
	}
	return false
}

// SnakeCase converts a Go identifier to snake_case, keeping acronyms together:
// "CreatedTime" -> "created_time", "PictureURL" -> "picture_url".
func SnakeCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := rs[i-1]
				nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fieldByIndex walks index from v, allocating nil embedded pointers when
// alloc is set. It reports false when a nil pointer blocks the path.
func fieldByIndex(v reflect.Value, index []int, alloc bool) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc || !v.CanSet() {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}
