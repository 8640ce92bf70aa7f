package mapper

import (
	"encoding"
	"reflect"
	"strconv"
	"strings"

	eng "github.com/restfb/restfb-sub000/internal/engine"
	"github.com/restfb/restfb-sub000/jsonvalue"
)

func join(path, token string) string { return eng.JoinPointer(path, token) }

// decode maps val into the settable value rv.
func (m *Mapper) decode(path string, val jsonvalue.Value, rv reflect.Value) error {
	t := rv.Type()

	// raw trees are handed over as they are, null included
	switch t {
	case valueType:
		if val == nil {
			val = jsonvalue.Null{}
		}
		rv.Set(reflect.ValueOf(&val).Elem())
		return nil
	case objectType, arrayType:
		if jsonvalue.IsNull(val) {
			rv.Set(reflect.Zero(t))
			return nil
		}
		if reflect.TypeOf(val) != t {
			want := "expected a JSON array"
			if t == objectType {
				want = "expected a JSON object"
			}
			return typeError(path, val, t, want)
		}
		rv.Set(reflect.ValueOf(val))
		return nil
	}

	if jsonvalue.IsNull(val) {
		rv.Set(reflect.Zero(t))
		return nil
	}

	if t.Kind() == reflect.Pointer {
		if noObject(val) && plainStruct(t.Elem()) {
			rv.Set(reflect.Zero(t))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(t.Elem()))
		}
		return m.decode(path, val, rv.Elem())
	}

	if rv.CanAddr() {
		pt := reflect.PointerTo(t)
		if pt.Implements(valueUnmarshalerType) {
			if err := rv.Addr().Interface().(ValueUnmarshaler).UnmarshalGraphValue(m, val); err != nil {
				if me, ok := err.(*Error); ok {
					me.Path = rebase(path, me.Path)
					return me
				}
				return &Error{Code: CodeInvalidType, Path: path, Type: t, Msg: "custom unmarshaler failed", Err: err}
			}
			return m.complete(path, rv)
		}
		if t != timeType && pt.Implements(textUnmarshalerType) {
			text, ok := scalarText(val)
			if !ok {
				return typeError(path, val, t, "expected a scalar")
			}
			if err := rv.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
				return &Error{Code: CodeInvalidType, Path: path, Type: t, Msg: "text unmarshaler failed", Err: err}
			}
			return nil
		}
	}

	if t == timeType {
		return m.decodeTime(path, val, rv)
	}

	switch t.Kind() {
	case reflect.String:
		switch v := val.(type) {
		case jsonvalue.String:
			rv.SetString(string(v))
		case jsonvalue.Number:
			rv.SetString(string(v))
		case jsonvalue.Bool:
			rv.SetString(strconv.FormatBool(bool(v)))
		default:
			b, err := jsonvalue.Compact(val)
			if err != nil {
				return &Error{Code: CodeInvalidType, Path: path, Type: t, Msg: "cannot render nested JSON", Err: err}
			}
			rv.SetString(string(b))
		}
		return nil

	case reflect.Bool:
		switch v := val.(type) {
		case jsonvalue.Bool:
			rv.SetBool(bool(v))
			return nil
		case jsonvalue.String:
			b, err := strconv.ParseBool(strings.TrimSpace(string(v)))
			if err != nil {
				return &Error{Code: CodeInvalidType, Path: path, Type: t, Msg: "invalid boolean string " + strconv.Quote(string(v))}
			}
			rv.SetBool(b)
			return nil
		case jsonvalue.Number:
			f, err := v.Float64()
			if err != nil {
				return &Error{Code: CodeInvalidType, Path: path, Type: t, Msg: "invalid number", Err: err}
			}
			rv.SetBool(f != 0)
			return nil
		}
		return typeError(path, val, t, "expected a boolean")

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok, err := numberOf(val)
		if err != nil || !ok {
			return m.numberError(path, val, t, err)
		}
		if n == "" {
			rv.SetInt(0)
			return nil
		}
		i, err := n.Int64()
		if err != nil || rv.OverflowInt(i) {
			return &Error{Code: CodeInvalidType, Path: path, Type: t, Msg: "number " + string(n) + " does not fit", Err: err}
		}
		rv.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, ok, err := numberOf(val)
		if err != nil || !ok {
			return m.numberError(path, val, t, err)
		}
		if n == "" {
			rv.SetUint(0)
			return nil
		}
		u, err := n.Uint64()
		if err != nil || rv.OverflowUint(u) {
			return &Error{Code: CodeInvalidType, Path: path, Type: t, Msg: "number " + string(n) + " does not fit", Err: err}
		}
		rv.SetUint(u)
		return nil

	case reflect.Float32, reflect.Float64:
		n, ok, err := numberOf(val)
		if err != nil || !ok {
			return m.numberError(path, val, t, err)
		}
		if n == "" {
			rv.SetFloat(0)
			return nil
		}
		f, err := n.Float64()
		if err != nil || rv.OverflowFloat(f) {
			return &Error{Code: CodeInvalidType, Path: path, Type: t, Msg: "number " + string(n) + " does not fit", Err: err}
		}
		rv.SetFloat(f)
		return nil

	case reflect.Struct:
		switch v := val.(type) {
		case *jsonvalue.Object:
			return m.decodeStruct(path, v, rv)
		case jsonvalue.Bool:
			if !bool(v) {
				rv.Set(reflect.Zero(t))
				return nil
			}
		case *jsonvalue.Array:
			if v.Len() == 0 {
				rv.Set(reflect.Zero(t))
				return nil
			}
		}
		return typeError(path, val, t, "expected a JSON object")

	case reflect.Slice:
		switch v := val.(type) {
		case *jsonvalue.Array:
			return m.decodeArray(path, v, rv)
		case *jsonvalue.Object:
			if v.Len() == 0 {
				rv.Set(reflect.MakeSlice(t, 0, 0))
				return nil
			}
			if data, ok := v.GetArray("data"); ok {
				return m.decodeArray(join(path, "data"), data, rv)
			}
		}
		return typeError(path, val, t, "expected a JSON array")

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return &Error{Code: CodeInvalidTarget, Path: path, Type: t, Msg: "map keys must be strings"}
		}
		switch v := val.(type) {
		case *jsonvalue.Object:
			mv := reflect.MakeMapWithSize(t, v.Len())
			for _, mem := range v.Members() {
				ev := reflect.New(t.Elem()).Elem()
				if err := m.decode(join(path, mem.Name), mem.Value, ev); err != nil {
					return err
				}
				mv.SetMapIndex(reflect.ValueOf(mem.Name).Convert(t.Key()), ev)
			}
			rv.Set(mv)
			return nil
		case *jsonvalue.Array:
			if v.Len() == 0 {
				rv.Set(reflect.MakeMap(t))
				return nil
			}
		}
		return typeError(path, val, t, "expected a JSON object")

	case reflect.Interface:
		if t.NumMethod() == 0 {
			if a := jsonvalue.ToAny(val); a != nil {
				rv.Set(reflect.ValueOf(a))
			}
			return nil
		}
	}
	return &Error{Code: CodeInvalidTarget, Path: path, Type: t, Msg: "unsupported target type"}
}

func (m *Mapper) decodeArray(path string, arr *jsonvalue.Array, rv reflect.Value) error {
	n := arr.Len()
	sv := reflect.MakeSlice(rv.Type(), n, n)
	for i, ev := range arr.Values() {
		if err := m.decode(join(path, strconv.Itoa(i)), ev, sv.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(sv)
	return nil
}

func (m *Mapper) decodeStruct(path string, obj *jsonvalue.Object, rv reflect.Value) error {
	t := rv.Type()
	fields := Fields(t)

	counts := make(map[string]int, len(fields))
	var extra *Field
	for i := range fields {
		if fields[i].Extra {
			if extra == nil {
				extra = &fields[i]
			}
			continue
		}
		counts[fields[i].Name]++
	}

	for _, f := range fields {
		if f.Extra {
			continue
		}
		member, ok := obj.Get(f.Name)
		if !ok {
			continue
		}
		fv, ok := fieldByIndex(rv, f.Index, true)
		if !ok || !fv.CanSet() {
			continue
		}
		fpath := join(path, f.Name)
		if err := m.decode(fpath, member, fv); err != nil {
			if counts[f.Name] > 1 {
				m.logger.Debug("skipping field sharing its key with another field",
					"type", t.String(), "field", f.GoName, "key", f.Name, "error", err)
				fv.Set(reflect.Zero(fv.Type()))
				continue
			}
			if me, ok := err.(*Error); ok && me.Field == "" {
				me.Field = typeName(t) + "." + f.GoName
			}
			return err
		}
	}

	if m.unknown != UnknownStrip {
		for _, mem := range obj.Members() {
			if _, claimed := counts[mem.Name]; claimed {
				continue
			}
			switch m.unknown {
			case UnknownStrict:
				return &Error{Code: CodeUnknownKey, Path: join(path, mem.Name), Type: t, Msg: "unknown key " + strconv.Quote(mem.Name)}
			case UnknownPassthrough:
				if extra == nil {
					continue
				}
				if err := m.storeExtra(rv, extra, mem); err != nil {
					return err
				}
			}
		}
	}

	return m.complete(path, rv)
}

func (m *Mapper) storeExtra(rv reflect.Value, f *Field, mem jsonvalue.Member) error {
	fv, ok := fieldByIndex(rv, f.Index, true)
	if !ok || !fv.CanSet() {
		return nil
	}
	if fv.Kind() != reflect.Map || fv.Type().Key().Kind() != reflect.String || fv.Type().Elem() != valueType {
		return &Error{Code: CodeInvalidTarget, Field: typeName(rv.Type()) + "." + f.GoName, Type: fv.Type(), Msg: "extra field must be map[string]jsonvalue.Value"}
	}
	if fv.IsNil() {
		fv.Set(reflect.MakeMap(fv.Type()))
	}
	fv.SetMapIndex(reflect.ValueOf(mem.Name).Convert(fv.Type().Key()), reflect.ValueOf(&mem.Value).Elem())
	return nil
}

// complete runs the MappingCompleted hook of rv when it has one.
func (m *Mapper) complete(path string, rv reflect.Value) error {
	if !rv.CanAddr() || !reflect.PointerTo(rv.Type()).Implements(completerType) {
		return nil
	}
	if err := rv.Addr().Interface().(MappingCompleter).MappingCompleted(m); err != nil {
		return &Error{Code: CodeHookFailed, Path: path, Type: rv.Type(), Msg: "mapping completed hook failed", Err: err}
	}
	return nil
}

// noObject reports the API's placeholders for a missing object: false and [].
func noObject(val jsonvalue.Value) bool {
	switch v := val.(type) {
	case jsonvalue.Bool:
		return !bool(v)
	case *jsonvalue.Array:
		return v.Len() == 0
	}
	return false
}

// plainStruct reports whether t is decoded field by field, without a custom
// unmarshaler.
func plainStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t == timeType {
		return false
	}
	pt := reflect.PointerTo(t)
	return !pt.Implements(valueUnmarshalerType) && !pt.Implements(textUnmarshalerType)
}

// rebase prefixes the pointer rel, produced relative to a nested value, with
// the pointer of that value.
func rebase(base, rel string) string {
	switch {
	case base == "" || base == "/":
		return rel
	case rel == "" || rel == "/":
		return base
	}
	return base + rel
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// numberOf extracts a number literal from numbers and numeric strings. An
// empty or blank string yields an empty literal, meaning zero.
func numberOf(val jsonvalue.Value) (jsonvalue.Number, bool, error) {
	switch v := val.(type) {
	case jsonvalue.Number:
		return v, true, nil
	case jsonvalue.String:
		s := strings.TrimSpace(string(v))
		if s == "" {
			return "", true, nil
		}
		if !jsonvalue.IsValidNumber(s) {
			return "", false, &jsonvalue.NumberError{Literal: s, Msg: "not a number"}
		}
		return jsonvalue.Number(s), true, nil
	}
	return "", false, nil
}

func (m *Mapper) numberError(path string, val jsonvalue.Value, t reflect.Type, err error) error {
	if err != nil {
		return &Error{Code: CodeInvalidType, Path: path, Type: t, Msg: "invalid numeric string", Err: err}
	}
	return typeError(path, val, t, "expected a number")
}

func scalarText(val jsonvalue.Value) (string, bool) {
	switch v := val.(type) {
	case jsonvalue.String:
		return string(v), true
	case jsonvalue.Number:
		return string(v), true
	case jsonvalue.Bool:
		return strconv.FormatBool(bool(v)), true
	}
	return "", false
}
