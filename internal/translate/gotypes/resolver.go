// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package gotypes

import (
	"strings"

	"github.com/dacolabs/schemagen/internal/translate"
	"github.com/dave/jennifer/jen"
)

// resolver builds jennifer type expressions for model references.
type resolver struct {
	m     *translate.Model
	names map[string]string // declaration name to Go type name
	decl  *translate.TypeDecl
}

func newResolver(m *translate.Model) *resolver {
	r := &resolver{m: m, names: make(map[string]string, len(m.Decls))}
	namer := translate.NewNamer(false)
	for _, d := range m.Decls {
		r.names[d.Name] = namer.Name(goName(d.Name))
	}
	return r
}

func (r *resolver) typeName(name string) string {
	return r.names[name]
}

func (r *resolver) primitive(p translate.Primitive, format string) jen.Code {
	if format == "date-time" {
		return jen.Qual("time", "Time")
	}
	switch p {
	case translate.String:
		return jen.String()
	case translate.Integer:
		return jen.Int64()
	case translate.Number:
		return jen.Float64()
	case translate.Boolean:
		return jen.Bool()
	}
	return jen.Id("any")
}

// typ returns the plain Go type of ref, ignoring nullability at the top level.
func (r *resolver) typ(ref translate.TypeRef) *jen.Statement {
	switch ref.Kind {
	case translate.RefPrimitive:
		return jen.Add(r.primitive(ref.Primitive, ref.Format))
	case translate.RefNamed:
		return jen.Id(r.typeName(ref.Name))
	case translate.RefArray:
		return jen.Index().Add(r.elem(*ref.Elem))
	case translate.RefMap:
		return jen.Map(jen.String()).Add(r.elem(*ref.Elem))
	}
	return jen.Id("any")
}

// elem renders an array element or map value; nullable scalars become pointers.
func (r *resolver) elem(ref translate.TypeRef) *jen.Statement {
	if ref.Nullable && pointable(ref) {
		return jen.Op("*").Add(r.typ(ref))
	}
	return r.typ(ref)
}

// field renders a struct field type. Optional and nullable values become
// pointers, as do required references back into the enclosing cycle.
func (r *resolver) field(f translate.Field) *jen.Statement {
	if !pointable(f.Type) {
		return r.typ(f.Type)
	}
	if f.Optional() || r.recursive(f.Type) {
		return jen.Op("*").Add(r.typ(f.Type))
	}
	return r.typ(f.Type)
}

func (r *resolver) recursive(ref translate.TypeRef) bool {
	return ref.Kind == translate.RefNamed && r.m.SameCycle(r.decl.Name, ref.Name)
}

// pointable reports whether absence needs a pointer; slices, maps and
// interfaces already have a nil value.
func pointable(ref translate.TypeRef) bool {
	switch ref.Kind {
	case translate.RefArray, translate.RefMap, translate.RefAny:
		return false
	}
	return true
}

// goName converts a schema name to an exported Go identifier.
func goName(s string) string {
	name := translate.ToPascalCase(s)
	for _, a := range acronyms {
		name = replaceWord(name, a)
	}
	if name == "" || !isLetter(name[0]) {
		name = "X" + name
	}
	return name
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// acronyms are fully uppercased when they form a whole word.
var acronyms = []string{"Api", "Cpu", "Html", "Http", "Id", "Ip", "Json", "Sql", "Ssh", "Tcp", "Tls", "Udp", "Uri", "Url", "Uuid", "Xml"}

// replaceWord uppercases every occurrence of word in a PascalCase name that
// ends at a word boundary.
func replaceWord(name, word string) string {
	var sb strings.Builder
	for i := 0; i < len(name); {
		if strings.HasPrefix(name[i:], word) {
			end := i + len(word)
			if end == len(name) || !isLower(name[end]) {
				sb.WriteString(strings.ToUpper(word))
				i = end
				continue
			}
		}
		sb.WriteByte(name[i])
		i++
	}
	return sb.String()
}

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}
