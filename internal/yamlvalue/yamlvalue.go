// Package yamlvalue converts between YAML documents and jsonvalue trees,
// keeping member order in both directions.
package yamlvalue

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/restfb/restfb-sub000/jsonvalue"
)

// Marshal renders v as a YAML document indented by two spaces.
func Marshal(v jsonvalue.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ToNode(v)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToNode builds the YAML node for v. Strings that would read back as another
// type are quoted.
func ToNode(v jsonvalue.Value) *yaml.Node {
	switch v := v.(type) {
	case *jsonvalue.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v.Members() {
			n.Content = append(n.Content, scalar("!!str", m.Name), ToNode(m.Value))
		}
		return n
	case *jsonvalue.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v.Values() {
			n.Content = append(n.Content, ToNode(e))
		}
		return n
	case jsonvalue.String:
		return scalar("!!str", string(v))
	case jsonvalue.Number:
		if v.IsInteger() {
			return scalar("!!int", string(v))
		}
		return scalar("!!float", string(v))
	case jsonvalue.Bool:
		return scalar("!!bool", strconv.FormatBool(bool(v)))
	}
	return scalar("!!null", "null")
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// Decode reads the first YAML document in data. Mapping keys become member
// names in document order; anchors and aliases are expanded.
func Decode(data []byte) (jsonvalue.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, errors.New("yamlvalue: empty document")
	}
	return FromNode(&doc)
}

// FromNode converts a decoded YAML node.
func FromNode(n *yaml.Node) (jsonvalue.Value, error) {
	return fromNode(n, 0)
}

const maxAliasDepth = 64

func fromNode(n *yaml.Node, aliases int) (jsonvalue.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return jsonvalue.Null{}, nil
		}
		return fromNode(n.Content[0], aliases)
	case yaml.AliasNode:
		if aliases >= maxAliasDepth {
			return nil, fmt.Errorf("yamlvalue: line %d: alias nesting too deep", n.Line)
		}
		return fromNode(n.Alias, aliases+1)
	case yaml.MappingNode:
		obj := jsonvalue.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, val := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("yamlvalue: line %d: mapping key must be a scalar", k.Line)
			}
			if k.ShortTag() == "!!merge" {
				if err := merge(obj, val, aliases); err != nil {
					return nil, err
				}
				continue
			}
			jv, err := fromNode(val, aliases)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, jv)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := jsonvalue.NewArray()
		for _, c := range n.Content {
			jv, err := fromNode(c, aliases)
			if err != nil {
				return nil, err
			}
			arr.Append(jv)
		}
		return arr, nil
	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return nil, fmt.Errorf("yamlvalue: line %d: unsupported node kind %d", n.Line, n.Kind)
}

// merge applies a "<<" key: members already present win.
func merge(dst *jsonvalue.Object, n *yaml.Node, aliases int) error {
	v, err := fromNode(n, aliases)
	if err != nil {
		return err
	}
	var srcs []jsonvalue.Value
	if arr, ok := v.(*jsonvalue.Array); ok {
		srcs = arr.Values()
	} else {
		srcs = []jsonvalue.Value{v}
	}
	for _, s := range srcs {
		obj, ok := s.(*jsonvalue.Object)
		if !ok {
			return fmt.Errorf("yamlvalue: line %d: merge value must be a mapping", n.Line)
		}
		for _, m := range obj.Members() {
			if !dst.Has(m.Name) {
				dst.Set(m.Name, m.Value)
			}
		}
	}
	return nil
}

func fromScalar(n *yaml.Node) (jsonvalue.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return jsonvalue.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return jsonvalue.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return jsonvalue.Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return nil, err
		}
		return jsonvalue.Number(strconv.FormatUint(u, 10)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		num, ok := jsonvalue.Float(f)
		if !ok {
			return nil, fmt.Errorf("yamlvalue: line %d: %s has no JSON form", n.Line, n.Value)
		}
		return num, nil
	}
	return jsonvalue.String(n.Value), nil
}
