package restfb

import (
	"reflect"

	"github.com/restfb/restfb-sub000/mapper"
)

// ResolveStructKey returns the JSON key a struct field is mapped to, or ""
// when the field takes no part in mapping.
func ResolveStructKey(sf reflect.StructField) string {
	if !sf.IsExported() {
		return ""
	}
	name, ok := mapper.FieldKey(sf)
	if !ok {
		return ""
	}
	return name
}

// flattened reports whether sf is an embedded struct whose fields are
// promoted into the enclosing JSON object.
func flattened(sf reflect.StructField) bool {
	if !sf.Anonymous {
		return false
	}
	t := sf.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	tag, tagged := sf.Tag.Lookup(mapper.TagName)
	return t.Kind() == reflect.Struct && (!tagged || tag == "")
}

// prefill allocates nil struct pointers below v, depth levels deep, so that
// selectors may walk through them.
func prefill(v reflect.Value, depth int) {
	if depth < 0 || v.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < v.NumField(); i++ {
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}
		switch fv.Kind() {
		case reflect.Pointer:
			if fv.IsNil() && fv.Type().Elem().Kind() == reflect.Struct {
				fv.Set(reflect.New(fv.Type().Elem()))
				prefill(fv.Elem(), depth-1)
			}
		case reflect.Struct:
			prefill(fv, depth)
		}
	}
}
