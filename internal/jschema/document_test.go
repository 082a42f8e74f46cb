// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExtractKeyOrderFromJSON(t *testing.T) {
	data := []byte(`{
  "properties": {"b": {"type": "string"}, "a": {"type": "integer"}},
  "$defs": {"x/y": {"properties": {"z": {}, "y": {}}}},
  "anyOf": [{"properties": {"second": {}, "first": {}}}]
}`)

	order, err := ExtractKeyOrderFromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"properties", "$defs", "anyOf"}, order[""])
	assert.Equal(t, []string{"b", "a"}, order["/properties"])
	assert.Equal(t, []string{"z", "y"}, order["/$defs/x~1y/properties"])
	assert.Equal(t, []string{"second", "first"}, order["/anyOf/0/properties"])
}

func TestExtractKeyOrderFromYAML(t *testing.T) {
	var root yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(`
properties:
  b: {type: string}
  a: {type: integer}
items:
  - properties:
      second: {}
      first: {}
`), &root))

	order := ExtractKeyOrderFromYAML(&root)
	assert.Equal(t, []string{"b", "a"}, order["/properties"])
	assert.Equal(t, []string{"second", "first"}, order["/items/0/properties"])
}

func TestPointerEscaping(t *testing.T) {
	assert.Equal(t, "a~1b~0c", EscapePointer("a/b~c"))
	assert.Equal(t, "a/b~c", UnescapePointer("a~1b~0c"))
}

func TestDocumentLookup(t *testing.T) {
	doc, err := parseDocument("doc.json", []byte(`{"$defs": {"a/b": {"anyOf": [{"type": "string"}]}}}`))
	require.NoError(t, err)

	v, ok := doc.lookup("/$defs/a~1b/anyOf/0")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"type": "string"}, v)

	_, ok = doc.lookup("/$defs/missing")
	assert.False(t, ok)
	_, ok = doc.lookup("/$defs/a~1b/anyOf/3")
	assert.False(t, ok)
	_, ok = doc.lookup("relative")
	assert.False(t, ok)
}

func TestIsYAML(t *testing.T) {
	assert.True(t, isYAML("a.yaml", []byte("{}")))
	assert.True(t, isYAML("a.yml", nil))
	assert.False(t, isYAML("a.json", []byte("type: x")))
	assert.False(t, isYAML("https://example.com/schema", []byte(` {"type": "string"}`)))
	assert.True(t, isYAML("https://example.com/schema", []byte("type: string")))
}
