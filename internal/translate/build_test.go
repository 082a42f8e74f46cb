// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/dacolabs/schemagen/internal/jschema"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildModel(t *testing.T, schema string, opts ...jschema.Option) (*Model, error) {
	t.Helper()
	fsys := fstest.MapFS{"schema.json": &fstest.MapFile{Data: []byte(schema)}}
	g, err := jschema.NewLoader(fsys, opts...).Load(context.Background(), "schema.json#/definitions/")
	require.NoError(t, err)
	return Build(g)
}

func mustBuild(t *testing.T, schema string, opts ...jschema.Option) *Model {
	t.Helper()
	m, err := buildModel(t, schema, opts...)
	require.NoError(t, err)
	return m
}

func TestBuild_Record(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "User": {
    "type": "object",
    "description": "A user.",
    "required": ["id"],
    "properties": {
      "id": {"type": "integer"},
      "name": {"type": "string"},
      "born": {"type": "string", "format": "date"},
      "tags": {"type": "array", "items": {"type": "string"}},
      "extra": {"type": "object", "additionalProperties": {"type": "number"}},
      "blob": {}
    }
  }
}}`)

	require.Len(t, m.Decls, 1)
	user := m.Decls[0]
	assert.Equal(t, DeclRecord, user.Kind)
	assert.Equal(t, "A user.", user.Description)
	assert.Equal(t, []string{"User"}, m.Roots)
	assert.Equal(t,
		"record User id:integer name?:string born?:string(date) tags?:[]string extra?:map[string]number blob?:any\n",
		m.Summary())
	assert.True(t, user.Fields[0].Required)
	assert.True(t, user.Fields[1].Optional())
}

func TestBuild_InlineObjectsNamedAfterParent(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "Order": {
    "type": "object",
    "properties": {
      "shipping_address": {"type": "object", "properties": {"street": {"type": "string"}}},
      "lines": {"type": "array", "items": {"type": "object", "properties": {"sku": {"type": "string"}}}}
    }
  }
}}`)

	assert.Equal(t, `record Order shipping_address?:OrderShippingAddress lines?:[]OrderLines
record OrderShippingAddress street?:string
record OrderLines sku?:string
`, m.Summary())
}

func TestBuild_NameCollisionsGetSuffix(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "A": {"type": "object", "properties": {"b": {"type": "object", "properties": {"x": {"type": "string"}}}}},
  "AB": {"type": "object", "properties": {"y": {"type": "string"}}}
}}`)

	var names []string
	for _, d := range m.Decls {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"A", "AB", "AB2"}, names)
	assert.Equal(t, []string{"A", "AB2"}, m.Roots)
}

func TestBuild_Deterministic(t *testing.T) {
	schema := `{"definitions": {
  "Pet": {"oneOf": [{"$ref": "#/definitions/Cat"}, {"$ref": "#/definitions/Dog"}]},
  "Cat": {"type": "object", "properties": {"lives": {"type": "integer"}, "owner": {"type": "object", "properties": {"n": {"type": "string"}}}}},
  "Dog": {"type": "object", "properties": {"breed": {"enum": ["lab", "pug"]}}}
}}`

	first := mustBuild(t, schema)
	for range 10 {
		again := mustBuild(t, schema)
		if diff := cmp.Diff(first.Summary(), again.Summary()); diff != "" {
			t.Fatalf("model changed between builds (-first +again):\n%s", diff)
		}
	}
}

func TestBuild_Union(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "Shape": {"oneOf": [
    {"$ref": "#/definitions/Circle"},
    {"type": "object", "properties": {"side": {"type": "number"}}},
    {"type": "string"},
    {"type": "array", "items": {"type": "integer"}}
  ]},
  "Circle": {"type": "object", "properties": {"r": {"type": "number"}}}
}}`)

	shape, ok := m.Lookup("Shape")
	require.True(t, ok)
	assert.Equal(t, DeclUnion, shape.Kind)

	var labels []string
	for _, v := range shape.Variants {
		labels = append(labels, v.Name+":"+v.Type.String())
	}
	assert.Equal(t, []string{
		"Circle:Circle",
		"ShapeOption2:ShapeOption2",
		"String:string",
		"IntegerArray:[]integer",
	}, labels)
}

func TestBuild_NullableUnionCollapses(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "Box": {"type": "object", "required": ["label", "size"], "properties": {
    "label": {"anyOf": [{"type": "string"}, {"type": "null"}]},
    "size": {"type": ["integer", "null"]},
    "both": {"anyOf": [{"type": "string"}, {"type": "integer"}, {"type": "null"}]}
  }}
}}`)

	assert.Equal(t, `record Box label:?string size:?integer both?:?BoxBoth
union BoxBoth String:string Integer:integer
`, m.Summary())

	box, _ := m.Lookup("Box")
	assert.True(t, box.Fields[0].Optional())
}

func TestBuild_DuplicateVariantsCollapse(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "Name": {"anyOf": [{"type": "string"}, {"type": "string"}]}
}}`)

	assert.Equal(t, "alias Name = string\n", m.Summary())
}

func TestBuild_Enums(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "Status": {"enum": ["active", "on-hold", "", "2fa"]},
  "Level": {"enum": [1, 2, 3]},
  "Ratio": {"enum": [1, 2.5]},
  "Item": {"type": "object", "properties": {"state": {"enum": ["new", "done"]}}}
}}`)

	assert.Equal(t, `enum Status Active=active OnHold=on-hold Empty= V2fa=2fa
alias Level = integer
alias Ratio = number
record Item state?:ItemState
enum ItemState New=new Done=done
`, m.Summary())
}

func TestBuild_AllOfMerges(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "Base": {"type": "object", "required": ["id"], "properties": {"id": {"type": "string"}, "kind": {"type": "string"}}},
  "Derived": {
    "allOf": [{"$ref": "#/definitions/Base"}],
    "required": ["kind"],
    "properties": {"kind": {"type": "integer"}, "extra": {"type": "boolean"}}
  }
}}`)

	derived, ok := m.Lookup("Derived")
	require.True(t, ok)
	assert.Equal(t, DeclRecord, derived.Kind)

	var got []string
	for _, f := range derived.Fields {
		got = append(got, f.Name+":"+f.Type.String())
	}
	assert.Equal(t, []string{"id:string", "kind:integer", "extra:boolean"}, got)
	assert.True(t, derived.Fields[0].Required)
	assert.True(t, derived.Fields[1].Required)
	assert.False(t, derived.Fields[2].Required)
}

func TestBuild_RootAliases(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "Tags": {"type": "array", "items": {"type": "string"}},
  "Id": {"type": "string", "format": "uuid"},
  "Anything": true
}}`)

	assert.Equal(t, `alias Tags = []string
alias Id = string(uuid)
alias Anything = any
`, m.Summary())
}

func TestBuild_SharedRefsDeclaredOnce(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "Pair": {"type": "object", "properties": {
    "a": {"$ref": "#/definitions/Point"},
    "b": {"$ref": "#/definitions/Point"}
  }},
  "Point": {"type": "object", "properties": {"x": {"type": "number"}}}
}}`)

	assert.Len(t, m.Decls, 2)
	assert.Equal(t, []string{"Point"}, m.Decls[0].Dependencies())
}

func TestBuild_Recursive(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "Node": {"type": "object", "properties": {
    "children": {"type": "array", "items": {"$ref": "#/definitions/Node"}},
    "leaf": {"$ref": "#/definitions/Leaf"}
  }},
  "Leaf": {"type": "object", "properties": {"v": {"type": "string"}}}
}}`, jschema.AllowRecursive(true))

	assert.True(t, m.Recursive("Node"))
	assert.False(t, m.Recursive("Leaf"))
	assert.True(t, m.SameCycle("Node", "Node"))
	assert.False(t, m.SameCycle("Node", "Leaf"))
}

func TestBuild_SelfContainingContainers(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "Forest": {"type": "object", "properties": {
    "tree": {"$ref": "#/definitions/Tree"},
    "index": {"$ref": "#/definitions/Dict"}
  }},
  "Tree": {"type": "array", "items": {"$ref": "#/definitions/Tree"}},
  "Dict": {"type": "object", "additionalProperties": {"$ref": "#/definitions/Dict"}}
}}`, jschema.AllowRecursive(true))

	assert.Equal(t, `record Forest tree?:Tree index?:Dict
alias Tree = []Tree
alias Dict = map[string]Dict
`, m.Summary())
	assert.True(t, m.Recursive("Tree"))
	assert.True(t, m.Recursive("Dict"))
	assert.False(t, m.Recursive("Forest"))
	assert.Equal(t, []string{"Forest", "Tree", "Dict"}, m.Roots)
}

func TestBuild_DeclaredContainerNamesItsElement(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "Points": {"type": "array", "items": {"type": "object", "properties": {"x": {"type": "number"}}}},
  "Scores": {"type": "object", "additionalProperties": {"type": "object", "properties": {"v": {"type": "integer"}}}}
}}`)

	assert.Equal(t, `alias Points = []PointsItem
record PointsItem x?:number
alias Scores = map[string]ScoresValue
record ScoresValue v?:integer
`, m.Summary())
}

func TestBuild_Unsupported(t *testing.T) {
	tests := []struct {
		name      string
		schema    string
		construct string
	}{
		{
			name:      "not keyword",
			schema:    `{"definitions": {"X": {"not": {"type": "string"}}}}`,
			construct: "not",
		},
		{
			name:      "mixed enum",
			schema:    `{"definitions": {"X": {"enum": ["a", 1]}}}`,
			construct: "enum of mixed types",
		},
		{
			name:      "object enum",
			schema:    `{"definitions": {"X": {"enum": [{"a": 1}]}}}`,
			construct: "enum of non-scalar values",
		},
		{
			name:      "allOf with primitive",
			schema:    `{"definitions": {"X": {"allOf": [{"type": "string"}]}}}`,
			construct: "allOf with non-object part",
		},
		{
			name:      "only null",
			schema:    `{"definitions": {"X": {"type": "object", "properties": {"n": {"anyOf": [{"type": "null"}]}}}}}`,
			construct: "union of only null",
		},
		{
			name:      "nested unsupported",
			schema:    `{"definitions": {"X": {"type": "object", "properties": {"y": {"if": {"type": "string"}}}}}}`,
			construct: "if/then/else",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildModel(t, tt.schema)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedConstruct))

			var terr *Error
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, tt.construct, terr.Construct)
			assert.NotEmpty(t, terr.Pointer)
		})
	}
}

func TestBuild_NoDanglingReferences(t *testing.T) {
	m := mustBuild(t, `{"definitions": {
  "A": {"type": "object", "properties": {
    "b": {"type": "object", "properties": {"c": {"oneOf": [{"type": "string"}, {"type": "object", "properties": {"d": {"type": "integer"}}}]}}}
  }}
}}`)

	for _, d := range m.Decls {
		for _, dep := range d.Dependencies() {
			_, ok := m.Lookup(dep)
			assert.True(t, ok, "%s refers to missing %s", d.Name, dep)
		}
	}
}
