package mapper

import (
	"context"
	"encoding"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/restfb/restfb-sub000/jsonvalue"
)

const maxEncodeDepth = 512

func (m *Mapper) encode(path string, rv reflect.Value, depth int) (jsonvalue.Value, error) {
	if !rv.IsValid() {
		return jsonvalue.Null{}, nil
	}
	t := rv.Type()
	if depth > maxEncodeDepth {
		return nil, &Error{Code: CodeInvalidTarget, Path: path, Type: t, Msg: "value nesting too deep"}
	}

	if t.Implements(valueType) {
		if (t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface) && rv.IsNil() {
			return jsonvalue.Null{}, nil
		}
		return rv.Interface().(jsonvalue.Value), nil
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return jsonvalue.Null{}, nil
		}
	}

	if v, ok, err := m.encodeCustom(path, rv); ok {
		return v, err
	}

	if t == timeType {
		tm := rv.Interface().(time.Time)
		if tm.IsZero() {
			return jsonvalue.Null{}, nil
		}
		s, err := m.timeCodec.Encode(context.Background(), tm)
		if err != nil {
			return nil, &Error{Code: CodeInvalidType, Path: path, Type: t, Msg: "cannot encode date", Err: err}
		}
		return jsonvalue.String(s), nil
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		return m.encode(path, rv.Elem(), depth+1)
	case reflect.String:
		return jsonvalue.String(rv.String()), nil
	case reflect.Bool:
		return jsonvalue.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return jsonvalue.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return jsonvalue.Number(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &Error{Code: CodeInvalidType, Path: path, Type: t, Msg: "unsupported float value " + strconv.FormatFloat(f, 'g', -1, 64)}
		}
		if t.Kind() == reflect.Float32 {
			return jsonvalue.Number(strconv.FormatFloat(f, 'g', -1, 32)), nil
		}
		n, _ := jsonvalue.Float(f)
		return n, nil
	case reflect.Struct:
		return m.encodeStruct(path, rv, depth)
	case reflect.Slice:
		if rv.IsNil() {
			return jsonvalue.Null{}, nil
		}
		fallthrough
	case reflect.Array:
		arr := jsonvalue.NewArray()
		for i := 0; i < rv.Len(); i++ {
			ev, err := m.encode(join(path, strconv.Itoa(i)), rv.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			arr.Append(ev)
		}
		return arr, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, &Error{Code: CodeInvalidTarget, Path: path, Type: t, Msg: "map keys must be strings"}
		}
		if rv.IsNil() {
			return jsonvalue.Null{}, nil
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		obj := &jsonvalue.Object{}
		for _, k := range keys {
			ev, err := m.encode(join(path, k.String()), rv.MapIndex(k), depth+1)
			if err != nil {
				return nil, err
			}
			if m.ignoreNull && jsonvalue.IsNull(ev) {
				continue
			}
			obj.Set(k.String(), ev)
		}
		return obj, nil
	}
	return nil, &Error{Code: CodeInvalidTarget, Path: path, Type: t, Msg: "unsupported type"}
}

// encodeCustom applies ValueMarshaler and encoding.TextMarshaler, including
// pointer receivers on addressable values.
func (m *Mapper) encodeCustom(path string, rv reflect.Value) (jsonvalue.Value, bool, error) {
	cand := rv
	if !cand.Type().Implements(valueMarshalerType) && !cand.Type().Implements(textMarshalerType) && cand.CanAddr() {
		cand = cand.Addr()
	}
	t := cand.Type()
	if t.Implements(valueMarshalerType) {
		v, err := cand.Interface().(ValueMarshaler).MarshalGraphValue()
		if err != nil {
			return nil, true, &Error{Code: CodeInvalidType, Path: path, Type: rv.Type(), Msg: "custom marshaler failed", Err: err}
		}
		if v == nil {
			v = jsonvalue.Null{}
		}
		return v, true, nil
	}
	if rv.Type() != timeType && t.Implements(textMarshalerType) {
		b, err := cand.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, true, &Error{Code: CodeInvalidType, Path: path, Type: rv.Type(), Msg: "text marshaler failed", Err: err}
		}
		return jsonvalue.String(b), true, nil
	}
	return nil, false, nil
}

func (m *Mapper) encodeStruct(path string, rv reflect.Value, depth int) (jsonvalue.Value, error) {
	obj := &jsonvalue.Object{}
	var extra reflect.Value
	fields := Fields(rv.Type())
	counts := make(map[string]int, len(fields))
	for _, f := range fields {
		if !f.Extra {
			counts[f.Name]++
		}
	}
	for _, f := range fields {
		fv, ok := fieldByIndex(rv, f.Index, false)
		if !ok {
			continue
		}
		if f.Extra {
			if !extra.IsValid() {
				extra = fv
			}
			continue
		}
		ev, err := m.encode(join(path, f.Name), fv, depth+1)
		if err != nil {
			if me, ok := err.(*Error); ok && me.Field == "" {
				me.Field = typeName(rv.Type()) + "." + f.GoName
			}
			return nil, err
		}
		if str, ok := ev.(jsonvalue.String); ok && str == "" && counts[f.Name] > 1 {
			// an empty alternative of a shared key carries nothing
			ev = jsonvalue.Null{}
		}
		if existing, ok := obj.Get(f.Name); ok {
			// shared key: the first non-null value wins
			if !jsonvalue.IsNull(existing) || jsonvalue.IsNull(ev) {
				continue
			}
		}
		obj.Set(f.Name, ev)
	}
	if extra.IsValid() && extra.Kind() == reflect.Map && !extra.IsNil() {
		keys := extra.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			if obj.Has(k.String()) {
				continue
			}
			ev, err := m.encode(join(path, k.String()), extra.MapIndex(k), depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(k.String(), ev)
		}
	}
	if m.ignoreNull {
		for _, name := range obj.Names() {
			if obj.IsNull(name) {
				obj.Remove(name)
			}
		}
	}
	return obj, nil
}
