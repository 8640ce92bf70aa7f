// Package mapper populates Go values from JSON value trees and renders them
// back, driven by `facebook:"name"` struct tags.
//
// Only tagged fields take part in mapping. Several fields may carry the same
// key; each one is tried and those whose type does not fit the incoming value
// are left at their zero value. After a struct has been populated its
// MappingCompleted hook runs, so derived fields can be computed from the
// mapped ones.
package mapper

import (
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/restfb/restfb-sub000/codec"
	"github.com/restfb/restfb-sub000/jsonvalue"
)

// Error codes carried by *Error.
const (
	CodeInvalidType   = "invalid_type"
	CodeUnknownKey    = "unknown_key"
	CodeHookFailed    = "hook_failed"
	CodeInvalidTarget = "invalid_target"
)

// Error reports a value that could not be mapped.
type Error struct {
	Code  string
	Path  string       // JSON Pointer of the offending value
	Field string       // Go field, as Type.Field, when known
	Type  reflect.Type // target type
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	s := "mapper: " + e.Msg
	if e.Path != "" {
		s += " at " + e.Path
	}
	if e.Field != "" {
		s += " (field " + e.Field + ")"
	}
	if e.Type != nil {
		s += " into " + e.Type.String()
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// MappingCompleter is implemented by types that derive fields after mapping.
// Nested values complete before the values that contain them.
type MappingCompleter interface {
	MappingCompleted(m *Mapper) error
}

// ValueUnmarshaler is implemented by types that decode themselves from a raw
// JSON value. It takes precedence over tag based mapping. m is the mapper in
// use, for decoding nested parts with the same options.
type ValueUnmarshaler interface {
	UnmarshalGraphValue(m *Mapper, v jsonvalue.Value) error
}

// ValueMarshaler is implemented by types that render themselves.
type ValueMarshaler interface {
	MarshalGraphValue() (jsonvalue.Value, error)
}

// UnknownPolicy selects the handling of JSON members no field claims.
type UnknownPolicy int

const (
	// UnknownStrip drops unclaimed members.
	UnknownStrip UnknownPolicy = iota
	// UnknownStrict fails mapping on the first unclaimed member.
	UnknownStrict
	// UnknownPassthrough stores unclaimed members in the struct's
	// map[string]jsonvalue.Value field tagged ",extra".
	UnknownPassthrough
)

// Mapper holds mapping configuration. A Mapper is safe for concurrent use.
type Mapper struct {
	logger     *slog.Logger
	unknown    UnknownPolicy
	ignoreNull bool
	timeCodec  codec.Codec[string, time.Time]
	parseOpts  []jsonvalue.ParseOption
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger used for debug output about skipped fields.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithUnknownPolicy sets the policy for unclaimed JSON members.
func WithUnknownPolicy(p UnknownPolicy) Option { return func(m *Mapper) { m.unknown = p } }

// WithIgnoreNullValues omits null members when writing JSON.
func WithIgnoreNullValues(ignore bool) Option { return func(m *Mapper) { m.ignoreNull = ignore } }

// WithTimeCodec replaces the codec used for time.Time fields.
func WithTimeCodec(c codec.Codec[string, time.Time]) Option {
	return func(m *Mapper) {
		if c != nil {
			m.timeCodec = c
		}
	}
}

// WithParseOptions sets the options used when Unmarshal parses raw bytes.
func WithParseOptions(opts ...jsonvalue.ParseOption) Option {
	return func(m *Mapper) { m.parseOpts = append(m.parseOpts, opts...) }
}

// New returns a Mapper configured by opts.
func New(opts ...Option) *Mapper {
	m := &Mapper{logger: slog.Default(), timeCodec: codec.FacebookDate()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// With returns a copy of m with additional options applied.
func (m *Mapper) With(opts ...Option) *Mapper {
	c := *m
	c.parseOpts = append([]jsonvalue.ParseOption(nil), m.parseOpts...)
	for _, o := range opts {
		o(&c)
	}
	return &c
}

// Logger returns the logger the mapper reports to.
func (m *Mapper) Logger() *slog.Logger { return m.logger }

var defaultMapper = New()

// Default returns the package level Mapper.
func Default() *Mapper { return defaultMapper }

// Unmarshal parses data and maps it into v, which must be a non-nil pointer.
func (m *Mapper) Unmarshal(data []byte, v any) error {
	val, err := jsonvalue.Parse(data, m.parseOpts...)
	if err != nil {
		return err
	}
	return m.UnmarshalValue(val, v)
}

// UnmarshalValue maps an already parsed value into v, which must be a non-nil
// pointer.
func (m *Mapper) UnmarshalValue(val jsonvalue.Value, v any) error {
	rv, err := target(v)
	if err != nil {
		return err
	}
	return m.decode("/", val, rv.Elem())
}

// UnmarshalList parses data as a list and maps it into v, which must point to
// a slice. Besides plain arrays it accepts {} (no elements), objects with a
// "data" array, and objects whose single member is an array.
func (m *Mapper) UnmarshalList(data []byte, v any) error {
	val, err := jsonvalue.Parse(data, m.parseOpts...)
	if err != nil {
		return err
	}
	return m.UnmarshalListValue(val, v)
}

// UnmarshalListValue is UnmarshalList for an already parsed value.
func (m *Mapper) UnmarshalListValue(val jsonvalue.Value, v any) error {
	rv, err := target(v)
	if err != nil {
		return err
	}
	sv := rv.Elem()
	if sv.Kind() != reflect.Slice {
		return &Error{Code: CodeInvalidTarget, Type: rv.Type(), Msg: "list target must point to a slice"}
	}
	path := "/"
	if obj, ok := val.(*jsonvalue.Object); ok {
		switch {
		case obj.Len() == 0:
			sv.Set(reflect.MakeSlice(sv.Type(), 0, 0))
			return nil
		case hasArray(obj, "data"):
			val, _ = obj.Get("data")
			path = "/data"
		case obj.Len() == 1:
			only := obj.Members()[0]
			if _, isArr := only.Value.(*jsonvalue.Array); isArr {
				val = only.Value
				path = "/" + only.Name
			}
		}
	}
	arr, ok := val.(*jsonvalue.Array)
	if !ok {
		return typeError(path, val, sv.Type(), "expected a JSON array")
	}
	return m.decodeArray(path, arr, sv)
}

func hasArray(obj *jsonvalue.Object, name string) bool {
	_, ok := obj.GetArray(name)
	return ok
}

func target(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, &Error{Code: CodeInvalidTarget, Type: reflect.TypeOf(v), Msg: "target must be a non-nil pointer"}
	}
	return rv, nil
}

// ToValue renders v as a JSON value tree.
func (m *Mapper) ToValue(v any) (jsonvalue.Value, error) {
	return m.encode("/", reflect.ValueOf(v), 0)
}

// Marshal renders v as compact JSON.
func (m *Mapper) Marshal(v any) ([]byte, error) { return m.MarshalWith(v, jsonvalue.Minimal) }

// MarshalWith renders v as JSON formatted by cfg.
func (m *Mapper) MarshalWith(v any, cfg jsonvalue.WriterConfig) ([]byte, error) {
	val, err := m.ToValue(v)
	if err != nil {
		return nil, err
	}
	return jsonvalue.Marshal(val, cfg)
}

// Package level shortcuts using Default.

func Unmarshal(data []byte, v any) error { return defaultMapper.Unmarshal(data, v) }

func UnmarshalValue(val jsonvalue.Value, v any) error { return defaultMapper.UnmarshalValue(val, v) }

func UnmarshalList(data []byte, v any) error { return defaultMapper.UnmarshalList(data, v) }

func ToValue(v any) (jsonvalue.Value, error) { return defaultMapper.ToValue(v) }

func Marshal(v any) ([]byte, error) { return defaultMapper.Marshal(v) }

func MarshalWith(v any, cfg jsonvalue.WriterConfig) ([]byte, error) {
	return defaultMapper.MarshalWith(v, cfg)
}

var (
	valueType            = reflect.TypeOf((*jsonvalue.Value)(nil)).Elem()
	objectType           = reflect.TypeOf((*jsonvalue.Object)(nil))
	arrayType            = reflect.TypeOf((*jsonvalue.Array)(nil))
	timeType             = reflect.TypeOf(time.Time{})
	valueUnmarshalerType = reflect.TypeOf((*ValueUnmarshaler)(nil)).Elem()
	valueMarshalerType   = reflect.TypeOf((*ValueMarshaler)(nil)).Elem()
	textUnmarshalerType  = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	textMarshalerType    = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	completerType        = reflect.TypeOf((*MappingCompleter)(nil)).Elem()
)

func typeError(path string, val jsonvalue.Value, t reflect.Type, msg string) *Error {
	k := "null"
	if val != nil {
		k = val.Kind().String()
	}
	return &Error{Code: CodeInvalidType, Path: path, Type: t, Msg: fmt.Sprintf("cannot map %s: %s", k, msg)}
}

func (m *Mapper) decodeTime(path string, val jsonvalue.Value, rv reflect.Value) error {
	switch v := val.(type) {
	case jsonvalue.String:
		if v == "" {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		t, err := m.timeCodec.Decode(context.Background(), string(v))
		if err != nil {
			return &Error{Code: CodeInvalidType, Path: path, Type: rv.Type(), Msg: "invalid date", Err: err}
		}
		rv.Set(reflect.ValueOf(t))
		return nil
	case jsonvalue.Number:
		sec, err := v.Int64()
		if err != nil {
			return &Error{Code: CodeInvalidType, Path: path, Type: rv.Type(), Msg: "invalid unix timestamp", Err: err}
		}
		rv.Set(reflect.ValueOf(time.Unix(sec, 0).UTC()))
		return nil
	}
	return typeError(path, val, rv.Type(), "expected a date string or unix seconds")
}
