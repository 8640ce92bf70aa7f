package client

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/restfb/restfb-sub000/mapper"
)

// Parameter is one query or form parameter of a Graph request.
type Parameter struct {
	Name  string
	Value any
}

// Param builds a Parameter. Strings, numbers, booleans and times are sent as
// text; any other value is serialized to JSON with the mapper, dropping
// null members.
func Param(name string, value any) Parameter { return Parameter{Name: name, Value: value} }

// Fields is shorthand for the "fields" parameter, usually built with
// restfb.FieldsParam.
func Fields(list string) Parameter { return Param("fields", list) }

var reservedParams = map[string]bool{"access_token": true, "appsecret_proof": true}

func (p Parameter) text(m *mapper.Mapper) (string, error) {
	switch v := p.Value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		return strconv.FormatInt(v.Unix(), 10), nil
	case []string:
		return strings.Join(v, ","), nil
	}
	b, err := m.With(mapper.WithIgnoreNullValues(true)).Marshal(p.Value)
	if err != nil {
		return "", errors.Errorf("parameter %q: %w", p.Name, err)
	}
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			s = u
		}
	}
	return s, nil
}

func encodeParams(m *mapper.Mapper, params []Parameter) (url.Values, error) {
	vals := url.Values{}
	for _, p := range params {
		if p.Name == "" {
			return nil, errors.New("parameter name is empty")
		}
		if reservedParams[p.Name] {
			return nil, errors.Errorf("parameter %q is set by the client", p.Name)
		}
		s, err := p.text(m)
		if err != nil {
			return nil, err
		}
		vals.Set(p.Name, s)
	}
	return vals, nil
}
