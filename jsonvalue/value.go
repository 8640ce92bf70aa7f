// Package jsonvalue holds a mutable JSON value tree together with a parser
// that builds it from a token stream and a streaming writer that renders it.
//
// A Value is one of Null, Bool, Number, String, *Array or *Object. Objects
// keep their members in insertion order.
package jsonvalue

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a node of a JSON document. The set of implementations is closed.
type Value interface {
	Kind() Kind
	isValue()
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number kept as its literal text so that no precision is
// lost between parsing and writing.
type Number string

// String is a JSON string.
type String string

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}

// IsNull reports whether v is nil or the null literal.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Int returns a Number for i.
func Int(i int64) Number { return Number(strconv.FormatInt(i, 10)) }

// Float returns a Number for f. NaN and infinities have no JSON form and are
// reported as false.
func Float(f float64) (Number, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	return Number(appendFloat(nil, f)), true
}

// IsInteger reports whether the literal has neither fraction nor exponent.
func (n Number) IsInteger() bool {
	return n != "" && !strings.ContainsAny(string(n), ".eE")
}

// Int64 converts the literal to an int64. Literals with a fraction or exponent
// are accepted when they denote an integral value in range.
func (n Number) Int64() (int64, error) {
	i, err := strconv.ParseInt(string(n), 10, 64)
	if err == nil {
		return i, nil
	}
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return 0, &NumberError{Literal: string(n), Msg: "out of range for int64"}
	}
	f, ferr := strconv.ParseFloat(string(n), 64)
	if ferr != nil {
		return 0, &NumberError{Literal: string(n), Msg: "not a number"}
	}
	if f != math.Trunc(f) {
		return 0, &NumberError{Literal: string(n), Msg: "not an integer"}
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, &NumberError{Literal: string(n), Msg: "out of range for int64"}
	}
	return int64(f), nil
}

// Uint64 converts the literal to a uint64 with the same rules as Int64.
func (n Number) Uint64() (uint64, error) {
	u, err := strconv.ParseUint(string(n), 10, 64)
	if err == nil {
		return u, nil
	}
	if strings.HasPrefix(string(n), "-") {
		if f, ferr := strconv.ParseFloat(string(n), 64); ferr == nil && f == 0 {
			return 0, nil // -0
		}
		return 0, &NumberError{Literal: string(n), Msg: "negative value for unsigned integer"}
	}
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return 0, &NumberError{Literal: string(n), Msg: "out of range for uint64"}
	}
	f, ferr := strconv.ParseFloat(string(n), 64)
	if ferr != nil {
		return 0, &NumberError{Literal: string(n), Msg: "not a number"}
	}
	if f != math.Trunc(f) {
		return 0, &NumberError{Literal: string(n), Msg: "not an integer"}
	}
	if f >= math.MaxUint64 {
		return 0, &NumberError{Literal: string(n), Msg: "out of range for uint64"}
	}
	return uint64(f), nil
}

// Float64 converts the literal to a float64.
func (n Number) Float64() (float64, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, &NumberError{Literal: string(n), Msg: "not a representable float64"}
	}
	return f, nil
}

// NumberError reports a number literal that cannot be converted.
type NumberError struct {
	Literal string
	Msg     string
}

func (e *NumberError) Error() string { return "jsonvalue: number " + e.Literal + ": " + e.Msg }

// Equal reports whether a and b hold the same JSON data. Object member order
// is not significant; number literals are compared numerically when their
// text differs.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Bool:
		return av == b.(Bool)
	case String:
		return av == b.(String)
	case Number:
		bv := b.(Number)
		if av == bv {
			return true
		}
		af, aerr := av.Float64()
		bf, berr := bv.Float64()
		return aerr == nil && berr == nil && af == bf
	case *Array:
		return av.Equal(b.(*Array))
	case *Object:
		return av.Equal(b.(*Object))
	}
	return false
}
