// Package jsonschema projects resource types onto a JSON Schema subset.
package jsonschema

import (
	gojson "github.com/goccy/go-json"
)

// Draft is the dialect written into generated root schemas.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	// Core
	Schema      string `json:"$schema,omitempty"`
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Default     any    `json:"default,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`

	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// MarshalIndent renders s with two-space indentation and sorted keys.
func (s *Schema) MarshalIndent() ([]byte, error) {
	return gojson.MarshalIndent(s, "", "  ")
}
