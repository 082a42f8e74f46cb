// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"math"
	"slices"
	"strconv"

	"github.com/dacolabs/schemagen/internal/jschema"
)

// builder holds the naming state of one Build call.
type builder struct {
	decls      []*TypeDecl
	names      map[*jschema.SchemaNode]string
	namer      *Namer
	collapsing map[*jschema.SchemaNode]bool
	merging    map[*jschema.SchemaNode]bool
	// containers are arrays and maps being inlined. One that reaches itself
	// again is declared, and its pending alias is filled once inlined.
	containers map[*jschema.SchemaNode]bool
	pending    map[*jschema.SchemaNode]*TypeDecl
}

// Build converts a resolved schema graph into a Model.
//
// Objects, multi-variant unions and string enums become named declarations;
// primitives, arrays and maps are referenced inline unless they are roots.
// Anonymous nodes are named after their parent and field; collisions get a
// numeric suffix. The result depends only on the graph, never on map order.
func Build(g *jschema.Graph) (*Model, error) {
	b := &builder{
		names:      make(map[*jschema.SchemaNode]string),
		namer:      NewNamer(true),
		collapsing: make(map[*jschema.SchemaNode]bool),
		merging:    make(map[*jschema.SchemaNode]bool),
		containers: make(map[*jschema.SchemaNode]bool),
		pending:    make(map[*jschema.SchemaNode]*TypeDecl),
	}

	// Unsupported keywords fail the build wherever they sit in the graph.
	for node := range g.Nodes() {
		if err := b.check(node); err != nil {
			return nil, err
		}
	}

	var roots []string
	for _, root := range g.Roots {
		name, err := b.declare(root, root.Name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(roots, name) {
			roots = append(roots, name)
		}
	}
	return NewModel(b.decls, roots), nil
}

func unsupported(node *jschema.SchemaNode, construct string) error {
	return &Error{Kind: ErrUnsupportedConstruct, Construct: construct, Pointer: node.Pointer}
}

func (b *builder) check(node *jschema.SchemaNode) error {
	if len(node.Unsupported) > 0 {
		return unsupported(node, node.Unsupported[0])
	}
	return nil
}

// typeName turns a suggestion into a PascalCase type name.
func typeName(suggested string) string {
	name := ToPascalCase(suggested)
	if name == "" {
		return "Type"
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "T" + name
	}
	return name
}

// declare returns the declaration name for node, creating the declaration
// on first use.
func (b *builder) declare(node *jschema.SchemaNode, suggested string) (string, error) {
	if name, ok := b.names[node]; ok {
		return name, nil
	}
	if err := b.check(node); err != nil {
		return "", err
	}
	decl := b.newDecl(node, suggested)
	name := decl.Name

	switch node.Kind {
	case jschema.KindObject, jschema.KindAllOf:
		decl.Kind = DeclRecord
		fields, err := b.recordFields(node, name)
		if err != nil {
			return "", err
		}
		decl.Fields = fields

	case jschema.KindUnion:
		variants, err := b.variants(node, name)
		if err != nil {
			return "", err
		}
		if len(variants) == 1 {
			_, hasNull := splitNull(node.Variants)
			decl.Kind = DeclAlias
			decl.Target = variants[0].Type
			decl.Target.Nullable = node.Nullable || hasNull
			break
		}
		decl.Kind = DeclUnion
		decl.Variants = variants

	case jschema.KindEnum:
		prim, err := enumPrimitive(node)
		if err != nil {
			return "", err
		}
		if prim != String {
			decl.Kind = DeclAlias
			decl.Target = TypeRef{Kind: RefPrimitive, Primitive: prim, Nullable: node.Nullable}
			break
		}
		decl.Kind = DeclEnum
		decl.Values = enumValues(node)

	default:
		decl.Kind = DeclAlias
		target, err := b.inline(node, name)
		if err != nil {
			return "", err
		}
		decl.Target = target
	}
	return name, nil
}

// newDecl names node and appends an empty declaration for it.
func (b *builder) newDecl(node *jschema.SchemaNode, suggested string) *TypeDecl {
	if node.Name != "" {
		suggested = node.Name
	}
	name := b.namer.Name(typeName(suggested))
	b.names[node] = name
	decl := &TypeDecl{Name: name, Description: node.Description, Pointer: node.Pointer}
	b.decls = append(b.decls, decl)
	return decl
}

// ref returns the reference used wherever node appears as a field, element
// or variant type.
func (b *builder) ref(node *jschema.SchemaNode, suggested string) (TypeRef, error) {
	if err := b.check(node); err != nil {
		return TypeRef{}, err
	}
	if name, ok := b.names[node]; ok {
		nullable := node.Nullable
		if node.Kind == jschema.KindUnion {
			_, hasNull := splitNull(node.Variants)
			nullable = nullable || hasNull
		}
		return TypeRef{Kind: RefNamed, Name: name, Nullable: nullable}, nil
	}
	return b.inline(node, suggested)
}

// inline builds the reference for a node that has no declaration yet.
func (b *builder) inline(node *jschema.SchemaNode, suggested string) (TypeRef, error) {
	switch node.Kind {
	case jschema.KindObject, jschema.KindAllOf:
		name, err := b.declare(node, suggested)
		if err != nil {
			return TypeRef{}, err
		}
		return TypeRef{Kind: RefNamed, Name: name, Nullable: node.Nullable}, nil

	case jschema.KindEnum:
		prim, err := enumPrimitive(node)
		if err != nil {
			return TypeRef{}, err
		}
		if prim != String {
			return TypeRef{Kind: RefPrimitive, Primitive: prim, Nullable: node.Nullable}, nil
		}
		name, err := b.declare(node, suggested)
		if err != nil {
			return TypeRef{}, err
		}
		return TypeRef{Kind: RefNamed, Name: name, Nullable: node.Nullable}, nil

	case jschema.KindUnion:
		nonNull, hasNull := splitNull(node.Variants)
		nullable := node.Nullable || hasNull
		switch len(nonNull) {
		case 0:
			return TypeRef{}, unsupported(node, "union of only null")
		case 1:
			if b.collapsing[node] {
				return TypeRef{}, unsupported(node, "self-referential union")
			}
			b.collapsing[node] = true
			r, err := b.ref(nonNull[0], suggested)
			delete(b.collapsing, node)
			if err != nil {
				return TypeRef{}, err
			}
			r.Nullable = r.Nullable || nullable
			return r, nil
		}
		name, err := b.declare(node, suggested)
		if err != nil {
			return TypeRef{}, err
		}
		return TypeRef{Kind: RefNamed, Name: name, Nullable: nullable}, nil

	case jschema.KindArray:
		return b.container(node, RefArray, node.Items, suggested, "Item")

	case jschema.KindMap:
		return b.container(node, RefMap, node.Values, suggested, "Value")

	case jschema.KindPrimitive:
		if node.Type == "null" {
			return TypeRef{}, unsupported(node, "null type")
		}
		return TypeRef{
			Kind:      RefPrimitive,
			Primitive: Primitive(node.Type),
			Format:    node.Format,
			Nullable:  node.Nullable,
		}, nil

	default:
		return TypeRef{Kind: RefAny, Nullable: node.Nullable}, nil
	}
}

// container builds an array or map reference. A declared container names
// its anonymous element after itself plus suffix, since its own name is
// taken. A container that contains itself becomes a named alias so the
// cycle passes through a declaration.
func (b *builder) container(node *jschema.SchemaNode, kind RefKind, elem *jschema.SchemaNode, suggested, suffix string) (TypeRef, error) {
	if b.containers[node] {
		decl := b.newDecl(node, suggested)
		decl.Kind = DeclAlias
		b.pending[node] = decl
		return TypeRef{Kind: RefNamed, Name: decl.Name, Nullable: node.Nullable}, nil
	}
	if name, ok := b.names[node]; ok {
		suggested = name + suffix
	}

	b.containers[node] = true
	e, err := b.ref(elem, suggested)
	delete(b.containers, node)
	if err != nil {
		return TypeRef{}, err
	}
	r := TypeRef{Kind: kind, Elem: &e, Nullable: node.Nullable}

	if decl, ok := b.pending[node]; ok {
		delete(b.pending, node)
		decl.Target = r
		return TypeRef{Kind: RefNamed, Name: decl.Name, Nullable: node.Nullable}, nil
	}
	return r, nil
}

func (b *builder) recordFields(node *jschema.SchemaNode, parent string) ([]Field, error) {
	if node.Kind == jschema.KindAllOf {
		return b.mergeParts(node, parent)
	}

	fields := make([]Field, 0, len(node.Fields))
	for _, name := range node.OrderedFields() {
		child := node.Fields[name]
		t, err := b.ref(child, parent+ToPascalCase(name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{
			Name:        name,
			Type:        t,
			Required:    node.Required[name],
			Description: child.Description,
		})
	}
	return fields, nil
}

// mergeParts flattens allOf parts into one field list. A later part
// overrides the type of a field declared earlier; required-ness accumulates.
func (b *builder) mergeParts(node *jschema.SchemaNode, parent string) ([]Field, error) {
	if b.merging[node] {
		return nil, unsupported(node, "recursive allOf")
	}
	b.merging[node] = true
	defer delete(b.merging, node)

	var fields []Field
	position := make(map[string]int)
	for _, part := range node.Parts {
		if err := b.check(part); err != nil {
			return nil, err
		}
		if part.Kind != jschema.KindObject && part.Kind != jschema.KindAllOf {
			return nil, unsupported(part, "allOf with non-object part")
		}
		partFields, err := b.recordFields(part, parent)
		if err != nil {
			return nil, err
		}
		for _, f := range partFields {
			if i, ok := position[f.Name]; ok {
				f.Required = f.Required || fields[i].Required
				fields[i] = f
				continue
			}
			position[f.Name] = len(fields)
			fields = append(fields, f)
		}
	}
	return fields, nil
}

func (b *builder) variants(node *jschema.SchemaNode, union string) ([]Variant, error) {
	labels := NewNamer(true)
	seen := make(map[string]bool)
	var variants []Variant
	for i, v := range node.Variants {
		if isNull(v) {
			continue
		}
		r, err := b.ref(v, union+"Option"+strconv.Itoa(i+1))
		if err != nil {
			return nil, err
		}
		r.Nullable = false
		key := r.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		variants = append(variants, Variant{Name: labels.Name(variantLabel(r)), Type: r})
	}
	if len(variants) == 0 {
		return nil, unsupported(node, "union of only null")
	}
	return variants, nil
}

func isNull(n *jschema.SchemaNode) bool {
	return n.Kind == jschema.KindPrimitive && n.Type == "null"
}

func splitNull(nodes []*jschema.SchemaNode) ([]*jschema.SchemaNode, bool) {
	var out []*jschema.SchemaNode
	hasNull := false
	for _, n := range nodes {
		if isNull(n) {
			hasNull = true
			continue
		}
		out = append(out, n)
	}
	return out, hasNull
}

func variantLabel(r TypeRef) string {
	switch r.Kind {
	case RefNamed:
		return r.Name
	case RefPrimitive:
		return ToPascalCase(string(r.Primitive))
	case RefArray:
		return variantLabel(*r.Elem) + "Array"
	case RefMap:
		return variantLabel(*r.Elem) + "Map"
	}
	return "Any"
}

// enumPrimitive reports the common JSON type of an enum's literals.
func enumPrimitive(node *jschema.SchemaNode) (Primitive, error) {
	if len(node.Enum) == 0 {
		return "", unsupported(node, "empty enum")
	}
	var kind Primitive
	for _, v := range node.Enum {
		var k Primitive
		switch t := v.(type) {
		case string:
			k = String
		case bool:
			k = Boolean
		case float64:
			k = Integer
			if t != math.Trunc(t) {
				k = Number
			}
		default:
			return "", unsupported(node, "enum of non-scalar values")
		}
		switch {
		case kind == "":
			kind = k
		case kind == k:
		case (kind == Integer && k == Number) || (kind == Number && k == Integer):
			kind = Number
		default:
			return "", unsupported(node, "enum of mixed types")
		}
	}
	return kind, nil
}

func enumValues(node *jschema.SchemaNode) []EnumValue {
	labels := NewNamer(true)
	seen := make(map[string]bool, len(node.Enum))
	values := make([]EnumValue, 0, len(node.Enum))
	for _, v := range node.Enum {
		s := v.(string)
		if seen[s] {
			continue
		}
		seen[s] = true
		label := ToPascalCase(s)
		switch {
		case label == "":
			label = "Empty"
		case label[0] >= '0' && label[0] <= '9':
			label = "V" + label
		}
		values = append(values, EnumValue{Name: labels.Name(label), Value: s})
	}
	return values
}
