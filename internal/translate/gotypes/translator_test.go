// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package gotypes

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/dacolabs/schemagen/internal/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prim(p translate.Primitive) translate.TypeRef {
	return translate.TypeRef{Kind: translate.RefPrimitive, Primitive: p}
}

func named(name string) translate.TypeRef {
	return translate.TypeRef{Kind: translate.RefNamed, Name: name}
}

// render translates m, checks the output parses as Go and returns it with
// whitespace runs collapsed.
func render(t *testing.T, m *translate.Model, opts translate.Options) string {
	t.Helper()
	files, err := (&Translator{}).Translate(m, opts)
	require.NoError(t, err)
	require.Len(t, files, 1)

	src := string(files[0].Content)
	_, err = parser.ParseFile(token.NewFileSet(), files[0].Name, src, parser.ParseComments)
	require.NoError(t, err, src)
	return strings.Join(strings.Fields(src), " ")
}

func TestTranslate_Struct(t *testing.T) {
	dt := prim(translate.String)
	dt.Format = "date-time"
	nullable := prim(translate.Integer)
	nullable.Nullable = true
	m := translate.NewModel([]*translate.TypeDecl{{
		Name:        "User",
		Kind:        translate.DeclRecord,
		Description: "A registered user.",
		Fields: []translate.Field{
			{Name: "user_id", Type: prim(translate.Integer), Required: true},
			{Name: "name", Type: prim(translate.String)},
			{Name: "created_at", Type: dt, Required: true},
			{Name: "score", Type: nullable, Required: true},
			{Name: "tags", Type: translate.TypeRef{Kind: translate.RefArray, Elem: &dt}},
		},
	}}, []string{"User"})

	out := render(t, m, translate.Options{Namespace: "github.com/acme/models"})
	assert.Contains(t, out, "// Code generated by schemagen. DO NOT EDIT.")
	assert.Contains(t, out, "package models")
	assert.Contains(t, out, `import "time"`)
	assert.Contains(t, out, "// User: A registered user. type User struct {")
	assert.Contains(t, out, "UserID int64 `json:\"user_id\"`")
	assert.Contains(t, out, "Name *string `json:\"name,omitempty\"`")
	assert.Contains(t, out, "CreatedAt time.Time `json:\"created_at\"`")
	assert.Contains(t, out, "Score *int64 `json:\"score\"`")
	assert.Contains(t, out, "Tags []time.Time `json:\"tags,omitempty\"`")
}

func TestTranslate_FileAndPackage(t *testing.T) {
	m := translate.NewModel([]*translate.TypeDecl{{Name: "OrderLine", Kind: translate.DeclRecord}}, []string{"OrderLine"})

	files, err := (&Translator{}).Translate(m, translate.Options{})
	require.NoError(t, err)
	assert.Equal(t, "order_line.go", files[0].Name)
	assert.Contains(t, string(files[0].Content), "package schema")
}

func TestTranslate_Union(t *testing.T) {
	m := translate.NewModel([]*translate.TypeDecl{
		{
			Name: "Shape",
			Kind: translate.DeclUnion,
			Variants: []translate.Variant{
				{Name: "Circle", Type: named("Circle")},
				{Name: "String", Type: prim(translate.String)},
				{Name: "NumberArray", Type: translate.TypeRef{Kind: translate.RefArray, Elem: &translate.TypeRef{Kind: translate.RefPrimitive, Primitive: translate.Number}}},
			},
		},
		{Name: "Circle", Kind: translate.DeclRecord, Fields: []translate.Field{
			{Name: "r", Type: prim(translate.Number), Required: true},
		}},
	}, []string{"Shape"})

	out := render(t, m, translate.Options{})
	assert.Contains(t, out, "type Shape struct { Circle *Circle String *string NumberArray []float64 }")
	assert.Contains(t, out, "func (u Shape) MarshalJSON() ([]byte, error) {")
	assert.Contains(t, out, "case u.Circle != nil: return json.Marshal(u.Circle)")
	assert.Contains(t, out, "func (u *Shape) UnmarshalJSON(data []byte) error {")
	assert.Contains(t, out, "var v1 Circle if err := decodeVariant(data, &v1); err == nil { u.Circle = &v1 return nil }")
	assert.Contains(t, out, "var v3 []float64 if err := decodeVariant(data, &v3); err == nil { u.NumberArray = v3 return nil }")
	assert.Contains(t, out, "func decodeVariant(data []byte, v any) error {")
	assert.Contains(t, out, "dec.DisallowUnknownFields()")
}

func TestTranslate_Enum(t *testing.T) {
	m := translate.NewModel([]*translate.TypeDecl{{
		Name: "Status",
		Kind: translate.DeclEnum,
		Values: []translate.EnumValue{
			{Name: "Active", Value: "active"},
			{Name: "OnHold", Value: "on-hold"},
		},
	}}, []string{"Status"})

	out := render(t, m, translate.Options{})
	assert.Contains(t, out, "type Status string")
	assert.Contains(t, out, `StatusActive Status = "active"`)
	assert.Contains(t, out, `StatusOnHold Status = "on-hold"`)
	assert.NotContains(t, out, "decodeVariant")
}

func TestTranslate_RecursiveUsesPointers(t *testing.T) {
	m := translate.NewModel([]*translate.TypeDecl{
		{Name: "Node", Kind: translate.DeclRecord, Fields: []translate.Field{
			{Name: "next", Type: named("Node"), Required: true},
			{Name: "children", Type: translate.TypeRef{Kind: translate.RefArray, Elem: &translate.TypeRef{Kind: translate.RefNamed, Name: "Node"}}, Required: true},
			{Name: "leaf", Type: named("Leaf"), Required: true},
		}},
		{Name: "Leaf", Kind: translate.DeclRecord},
	}, []string{"Node"})

	out := render(t, m, translate.Options{})
	assert.Contains(t, out, "Next *Node `json:\"next\"`")
	assert.Contains(t, out, "Children []Node `json:\"children\"`")
	assert.Contains(t, out, "Leaf Leaf `json:\"leaf\"`")
}

func TestTranslate_Aliases(t *testing.T) {
	str := prim(translate.String)
	m := translate.NewModel([]*translate.TypeDecl{
		{Name: "Tags", Kind: translate.DeclAlias, Target: translate.TypeRef{Kind: translate.RefArray, Elem: &str}},
		{Name: "Tree", Kind: translate.DeclAlias, Target: translate.TypeRef{Kind: translate.RefMap, Elem: &translate.TypeRef{Kind: translate.RefNamed, Name: "Tree"}}},
		{Name: "Blob", Kind: translate.DeclAlias, Target: translate.TypeRef{Kind: translate.RefAny}},
	}, []string{"Tags", "Tree", "Blob"})

	out := render(t, m, translate.Options{})
	assert.Contains(t, out, "type Tags = []string")
	assert.Contains(t, out, "type Tree map[string]Tree")
	assert.Contains(t, out, "type Blob = any")
}

func TestTranslate_FieldNameCollisions(t *testing.T) {
	m := translate.NewModel([]*translate.TypeDecl{{
		Name: "Row",
		Kind: translate.DeclRecord,
		Fields: []translate.Field{
			{Name: "user-id", Type: prim(translate.String), Required: true},
			{Name: "user_id", Type: prim(translate.String), Required: true},
			{Name: "9lives", Type: prim(translate.Integer), Required: true},
		},
	}}, []string{"Row"})

	out := render(t, m, translate.Options{})
	assert.Contains(t, out, "UserID string `json:\"user-id\"`")
	assert.Contains(t, out, "UserID2 string `json:\"user_id\"`")
	assert.Contains(t, out, "X9lives int64 `json:\"9lives\"`")
}

func TestGoName(t *testing.T) {
	assert.Equal(t, "UserID", goName("user_id"))
	assert.Equal(t, "Identity", goName("identity"))
	assert.Equal(t, "HTTPURL", goName("http_url"))
	assert.Equal(t, "APIKey", goName("apiKey"))
	assert.Equal(t, "X", goName(""))
}
