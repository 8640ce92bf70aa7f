package jsonvalue

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// ToAny converts v into plain Go values: nil, bool, string, int64 (integral
// numbers that fit), float64, []any and map[string]any.
func ToAny(v Value) any {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case String:
		return string(v)
	case Number:
		if v.IsInteger() {
			if i, err := strconv.ParseInt(string(v), 10, 64); err == nil {
				return i
			}
		}
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case *Array:
		out := make([]any, 0, v.Len())
		for _, e := range v.Values() {
			out = append(out, ToAny(e))
		}
		return out
	case *Object:
		out := make(map[string]any, v.Len())
		for _, m := range v.Members() {
			out[m.Name] = ToAny(m.Value)
		}
		return out
	}
	return nil
}

// FromAny converts plain Go values into a Value tree. Maps must have string
// keys; their members are ordered by key.
func FromAny(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		if !IsValidNumber(string(x)) {
			return nil, fmt.Errorf("jsonvalue: invalid number literal %q", string(x))
		}
		return Number(x), nil
	case float64:
		if n, ok := Float(x); ok {
			return n, nil
		}
		return nil, fmt.Errorf("jsonvalue: unsupported float value %v", x)
	case float32:
		if n, ok := Float(float64(x)); ok {
			return n, nil
		}
		return nil, fmt.Errorf("jsonvalue: unsupported float value %v", x)
	case []any:
		arr := NewArray()
		for i, e := range x {
			ev, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr.Append(ev)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := &Object{}
		for _, k := range keys {
			ev, err := FromAny(x[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			obj.Set(k, ev)
		}
		return obj, nil
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("jsonvalue: unsupported float value %v", f)
		}
		n, _ := Float(f)
		return n, nil
	}
	return nil, fmt.Errorf("jsonvalue: unsupported type %T", x)
}

// MarshalJSON renders the object compactly, keeping member order.
func (o *Object) MarshalJSON() ([]byte, error) { return Compact(o) }

// UnmarshalJSON replaces o with the parsed object.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := Parse(data)
	if err != nil {
		return err
	}
	obj, ok := v.(*Object)
	if !ok {
		return fmt.Errorf("jsonvalue: cannot unmarshal %s into object", v.Kind())
	}
	*o = *obj
	return nil
}

// MarshalJSON renders the array compactly.
func (a *Array) MarshalJSON() ([]byte, error) { return Compact(a) }

// UnmarshalJSON replaces a with the parsed array.
func (a *Array) UnmarshalJSON(data []byte) error {
	v, err := Parse(data)
	if err != nil {
		return err
	}
	arr, ok := v.(*Array)
	if !ok {
		return fmt.Errorf("jsonvalue: cannot unmarshal %s into array", v.Kind())
	}
	*a = *arr
	return nil
}
