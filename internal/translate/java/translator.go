// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package java provides Java class translation with Jackson annotations.
package java

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dacolabs/schemagen/internal/translate"
)

//go:embed java.java.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.ParseFS(tmplFS, "java.java.tmpl"))

const defaultPackage = "schema"

// Translator translates a type model to Java classes, one file per type.
type Translator struct{}

// Name returns the target name.
func (t *Translator) Name() string {
	return "java"
}

type unit struct {
	Package  string
	Imports  []string
	Kind     string
	Name     string
	Doc      string
	Records  bool
	Members  []member
	Values   []constant
	Target   string
	LastName string // name of the last member, for record component commas
}

type member struct {
	Name     string
	JSON     string
	Type     string
	Required bool
	Accessor string
	Doc      string
}

type constant struct {
	Name  string
	Value string
}

// Translate renders one compilation unit per declaration, placed under the
// directory of its package.
func (t *Translator) Translate(m *translate.Model, opts translate.Options) ([]translate.File, error) {
	records, err := useRecords(opts.LanguageVersion)
	if err != nil {
		return nil, err
	}
	pkg := opts.Namespace
	if pkg == "" {
		pkg = defaultPackage
	}
	dir := strings.ReplaceAll(pkg, ".", "/")

	names := make(map[string]string, len(m.Decls))
	namer := translate.NewNamer(false)
	for _, d := range m.Decls {
		names[d.Name] = namer.Name(classNames.Escape(d.Name))
	}

	files := make([]translate.File, 0, len(m.Decls))
	for _, d := range m.Decls {
		r := &resolver{names: names, imports: make(map[string]bool)}
		u := unit{
			Package: pkg,
			Kind:    d.Kind.String(),
			Name:    names[d.Name],
			Doc:     javadoc("", d.Description),
			Records: records,
		}

		switch d.Kind {
		case translate.DeclRecord:
			r.use("com.fasterxml.jackson.annotation.JsonProperty")
			u.Members = recordMembers(r, d, opts.FieldCasing)
		case translate.DeclUnion:
			for _, imp := range unionImports {
				r.use(imp)
			}
			u.Members = unionMembers(r, d)
		case translate.DeclEnum:
			r.use("com.fasterxml.jackson.annotation.JsonCreator")
			r.use("com.fasterxml.jackson.annotation.JsonValue")
			u.Values = enumConstants(d)
		case translate.DeclAlias:
			r.use("com.fasterxml.jackson.annotation.JsonCreator")
			r.use("com.fasterxml.jackson.annotation.JsonValue")
			u.Target = translate.TypeString(r, d.Target)
		}
		if n := len(u.Members); n > 0 {
			u.LastName = u.Members[n-1].Name
		}
		u.Imports = r.sortedImports()

		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, "unit", u); err != nil {
			return nil, fmt.Errorf("failed to execute template for %s: %w", u.Name, err)
		}
		files = append(files, translate.File{Name: dir + "/" + u.Name + ".java", Content: buf.Bytes()})
	}
	return files, nil
}

func useRecords(version string) (bool, error) {
	switch version {
	case "", "8":
		return false, nil
	case "17":
		return true, nil
	}
	return false, fmt.Errorf("java: unsupported language version %q (want 8 or 17)", version)
}

var unionImports = []string{
	"com.fasterxml.jackson.annotation.JsonValue",
	"com.fasterxml.jackson.core.JsonParser",
	"com.fasterxml.jackson.core.ObjectCodec",
	"com.fasterxml.jackson.core.type.TypeReference",
	"com.fasterxml.jackson.databind.DeserializationContext",
	"com.fasterxml.jackson.databind.JsonDeserializer",
	"com.fasterxml.jackson.databind.JsonMappingException",
	"com.fasterxml.jackson.databind.JsonNode",
	"com.fasterxml.jackson.databind.annotation.JsonDeserialize",
	"java.io.IOException",
}

func recordMembers(r *resolver, d *translate.TypeDecl, casing translate.Casing) []member {
	names := translate.NewNamer(false)
	out := make([]member, 0, len(d.Fields))
	for _, f := range d.Fields {
		name := names.Name(memberName(f.Name, casing))
		out = append(out, member{
			Name:     name,
			JSON:     quote(f.Name),
			Type:     translate.TypeString(r, f.Type),
			Required: f.Required,
			Accessor: capitalize(name),
			Doc:      javadoc("    ", f.Description),
		})
	}
	return out
}

func unionMembers(r *resolver, d *translate.TypeDecl) []member {
	names := translate.NewNamer(false)
	out := make([]member, 0, len(d.Variants))
	for _, v := range d.Variants {
		name := names.Name(translate.ToCamelCase(v.Name) + "Value")
		out = append(out, member{
			Name:     name,
			Type:     translate.TypeString(r, v.Type),
			Accessor: capitalize(name),
		})
	}
	return out
}

func enumConstants(d *translate.TypeDecl) []constant {
	names := translate.NewNamer(false)
	out := make([]constant, 0, len(d.Values))
	for _, v := range d.Values {
		name := translate.SafeIdent(translate.ToScreamingSnakeCase(v.Name))
		out = append(out, constant{Name: names.Name(name), Value: quote(v.Value)})
	}
	return out
}

// quote renders s as a Java string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, c)
				continue
			}
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func javadoc(indent, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(indent + "/**\n")
	for _, l := range strings.Split(text, "\n") {
		l = strings.ReplaceAll(l, "*/", "*&#47;")
		sb.WriteString(strings.TrimRight(indent+" * "+l, " ") + "\n")
	}
	sb.WriteString(indent + " */\n")
	return sb.String()
}
