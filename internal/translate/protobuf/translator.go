// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package protobuf provides Protocol Buffers (proto3) schema translation utilities.
package protobuf

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/dacolabs/schemagen/internal/translate"
)

const targetName = "protobuf"

//go:embed protobuf.proto.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("protobuf.proto.tmpl").Funcs(template.FuncMap{
	"comment": comment,
}).ParseFS(tmplFS, "protobuf.proto.tmpl"))

var keywords = translate.NewKeywords(
	"syntax", "import", "weak", "public", "package", "option", "message",
	"enum", "service", "rpc", "returns", "stream", "oneof", "map", "reserved",
	"to", "max", "extensions", "extend", "optional", "repeated", "required",
	"true", "false", "inf", "nan",
	"double", "float", "int32", "int64", "uint32", "uint64", "sint32",
	"sint64", "fixed32", "fixed64", "sfixed32", "sfixed64", "bool", "string",
	"bytes", "group",
)

// Translator translates a type model to proto3 message definitions.
type Translator struct{}

// Name returns the target name.
func (t *Translator) Name() string {
	return targetName
}

type file struct {
	Package string
	Imports []string
	Decls   []decl
}

type decl struct {
	Kind        string
	Name        string
	Description string
	Oneof       bool
	Fields      []field
	Values      []value
}

type field struct {
	Type        string
	Name        string
	Number      int
	Options     string
	Description string
}

type value struct {
	Name    string
	Number  int
	Comment string
}

// Translate converts the model into a single .proto file. Field numbers
// follow document order starting at 1.
func (t *Translator) Translate(m *translate.Model, opts translate.Options) ([]translate.File, error) {
	pkg, err := packageName(opts.Namespace)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(m.Decls))
	namer := translate.NewNamer(false)
	for _, d := range m.Decls {
		names[d.Name] = namer.Name(keywords.Escape(translate.SafeIdent(translate.Sanitize(d.Name))))
	}

	r := &resolver{names: names, imports: make(map[string]bool)}
	out := file{Package: pkg}
	for _, d := range m.Ordered() {
		r.decl = d
		dd := decl{Kind: d.Kind.String(), Name: names[d.Name], Description: d.Description}
		switch d.Kind {
		case translate.DeclRecord:
			dd.Fields, err = fields(r, d, opts.FieldCasing)
		case translate.DeclUnion:
			dd.Oneof = true
			dd.Fields, err = variants(r, d)
		case translate.DeclEnum:
			dd.Values = values(dd.Name, d)
		case translate.DeclAlias:
			var typ string
			typ, err = r.fieldType("value", d.Target, d.Target.Nullable)
			dd.Fields = []field{{Type: typ, Name: "value", Number: 1}}
		}
		if err != nil {
			return nil, err
		}
		out.Decls = append(out.Decls, dd)
	}

	for imp := range r.imports {
		out.Imports = append(out.Imports, imp)
	}
	sort.Strings(out.Imports)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "protobuf.proto.tmpl", out); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return []translate.File{{
		Name:    translate.ToSnakeCase(opts.BaseName(m)) + ".proto",
		Content: buf.Bytes(),
	}}, nil
}

func packageName(ns string) (string, error) {
	if ns == "" {
		return "schema", nil
	}
	for _, part := range strings.Split(ns, ".") {
		if !translate.IsIdentifier(part) || strings.Contains(part, "$") {
			return "", fmt.Errorf("invalid protobuf package %q", ns)
		}
	}
	return ns, nil
}

func fields(r *resolver, d *translate.TypeDecl, casing translate.Casing) ([]field, error) {
	names := translate.NewNamer(false)
	out := make([]field, 0, len(d.Fields))
	for i, f := range d.Fields {
		name := casing.Apply(f.Name, translate.CasingSnake)
		name = names.Name(keywords.Escape(translate.SafeIdent(translate.Sanitize(name))))
		typ, err := r.fieldType(f.Name, f.Type, f.Optional())
		if err != nil {
			return nil, err
		}
		fd := field{Type: typ, Name: name, Number: i + 1, Description: f.Description}
		if jsonName(name) != f.Name {
			fd.Options = " [json_name = " + strconv.Quote(f.Name) + "]"
		}
		out = append(out, fd)
	}
	return out, nil
}

func variants(r *resolver, d *translate.TypeDecl) ([]field, error) {
	names := translate.NewNamer(false)
	out := make([]field, 0, len(d.Variants))
	for i, v := range d.Variants {
		typ, err := r.variantType(v)
		if err != nil {
			return nil, err
		}
		name := names.Name(keywords.Escape(translate.SafeIdent(translate.ToSnakeCase(v.Name))))
		out = append(out, field{Type: typ, Name: name, Number: i + 1})
	}
	return out, nil
}

// values prefixes every constant with the enum name, since proto3 enum
// constants share the enclosing package scope.
func values(enum string, d *translate.TypeDecl) []value {
	prefix := translate.ToScreamingSnakeCase(enum) + "_"
	names := translate.NewNamer(false, prefix+"UNSPECIFIED")
	out := []value{{Name: prefix + "UNSPECIFIED", Number: 0}}
	for i, v := range d.Values {
		name := translate.Sanitize(translate.ToScreamingSnakeCase(v.Name))
		if name == "" {
			name = "EMPTY"
		}
		out = append(out, value{
			Name:    names.Name(prefix + name),
			Number:  i + 1,
			Comment: strconv.Quote(v.Value),
		})
	}
	return out
}

// comment renders text as // lines at the given indentation.
func comment(indent, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var sb strings.Builder
	for _, l := range strings.Split(text, "\n") {
		sb.WriteString(strings.TrimRight(indent+"// "+l, " ") + "\n")
	}
	return sb.String()
}
