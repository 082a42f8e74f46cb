// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package typescript provides TypeScript type declaration translation.
package typescript

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dacolabs/schemagen/internal/translate"
)

//go:embed typescript.ts.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("typescript.ts.tmpl").Funcs(template.FuncMap{
	"doc": doc,
}).ParseFS(tmplFS, "typescript.ts.tmpl"))

// Translator translates a type model to TypeScript interfaces and types.
type Translator struct{}

// Name returns the target name.
func (t *Translator) Name() string {
	return "typescript"
}

type decl struct {
	Kind        string
	Name        string
	Description string
	Fields      []field
	Type        string // union and alias right-hand side
	Values      []value
}

type field struct {
	Name        string
	Optional    bool
	Type        string
	Description string
}

type value struct {
	Name  string
	Value string
}

// Translate renders every declaration of m into one .ts module.
func (t *Translator) Translate(m *translate.Model, opts translate.Options) ([]translate.File, error) {
	r := &resolver{}
	decls := make([]decl, 0, len(m.Decls))
	for _, d := range m.Decls {
		out := decl{
			Kind:        d.Kind.String(),
			Name:        typeName(d.Name),
			Description: d.Description,
		}
		switch d.Kind {
		case translate.DeclRecord:
			out.Fields = fields(r, d, opts.FieldCasing)
		case translate.DeclUnion:
			parts := make([]string, 0, len(d.Variants))
			for _, v := range d.Variants {
				parts = append(parts, translate.TypeString(r, v.Type))
			}
			out.Type = strings.Join(parts, " | ")
		case translate.DeclEnum:
			for _, v := range d.Values {
				out.Values = append(out.Values, value{Name: v.Name, Value: quote(v.Value)})
			}
		case translate.DeclAlias:
			out.Type = translate.TypeString(r, d.Target)
		}
		decls = append(decls, out)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "typescript.ts.tmpl", decls); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return []translate.File{{Name: opts.BaseName(m) + ".ts", Content: buf.Bytes()}}, nil
}

func fields(r *resolver, d *translate.TypeDecl, casing translate.Casing) []field {
	names := translate.NewNamer(false)
	out := make([]field, 0, len(d.Fields))
	for _, f := range d.Fields {
		name := f.Name
		if casing != translate.CasingDefault && casing != translate.CasingPreserve {
			name = casing.Apply(name, translate.CasingPreserve)
		}
		out = append(out, field{
			Name:        propertyName(names.Name(name)),
			Optional:    !f.Required,
			Type:        translate.TypeString(r, f.Type),
			Description: f.Description,
		})
	}
	return out
}

// doc renders a JSDoc block at the given indentation, or nothing.
func doc(indent, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return indent + "/** " + strings.ReplaceAll(lines[0], "*/", "* /") + " */\n"
	}
	var sb strings.Builder
	sb.WriteString(indent + "/**\n")
	for _, l := range lines {
		sb.WriteString(strings.TrimRight(indent+" * "+strings.ReplaceAll(l, "*/", "* /"), " ") + "\n")
	}
	sb.WriteString(indent + " */\n")
	return sb.String()
}
