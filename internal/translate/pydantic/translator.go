// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package pydantic provides Pydantic v2 model translation.
package pydantic

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/dacolabs/schemagen/internal/translate"
)

//go:embed pydantic.py.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("pydantic.py.tmpl").Funcs(template.FuncMap{
	"join": func(s []string) string { return strings.Join(s, ", ") },
}).ParseFS(tmplFS, "pydantic.py.tmpl"))

// Translator translates a type model to Pydantic models.
type Translator struct{}

// Name returns the target name.
func (t *Translator) Name() string {
	return "pydantic"
}

type module struct {
	Imports  []string // standard library imports, sorted
	Pydantic []string
	Decls    []decl
	Rebuild  []string
}

type decl struct {
	Kind    string
	Name    string
	Doc     string // class docstring
	Comment string // leading comment for module-level aliases
	Fields  []field
	Values  []value
	Type    string
	ByName  bool // any field carries an alias
	Empty   bool
}

type field struct {
	Name    string
	Type    string
	Default string // right-hand side, empty for required fields without options
}

type value struct {
	Name  string
	Value string
}

// Translate renders every declaration of m into one Python module, in
// dependency order.
func (t *Translator) Translate(m *translate.Model, opts translate.Options) ([]translate.File, error) {
	names := make(map[string]string, len(m.Decls))
	namer := translate.NewNamer(false)
	for _, d := range m.Decls {
		names[d.Name] = namer.Name(imported.Escape(d.Name))
	}

	r := &resolver{m: m, names: names, typing: make(map[string]bool), other: make(map[string]bool)}
	mod := module{}
	pydantic := make(map[string]bool)
	for _, d := range m.Ordered() {
		r.decl = d
		out := decl{
			Kind:    d.Kind.String(),
			Name:    names[d.Name],
			Doc:     docstring(d.Description),
			Comment: comment(d.Description),
		}

		switch d.Kind {
		case translate.DeclRecord:
			pydantic["BaseModel"] = true
			r.quote = false
			out.Fields = fields(r, d, opts.FieldCasing)
			for _, f := range out.Fields {
				if strings.Contains(f.Default, "Field(") {
					pydantic["Field"] = true
				}
				if strings.Contains(f.Default, "alias=") {
					out.ByName = true
				}
			}
			if out.ByName {
				pydantic["ConfigDict"] = true
			}
			out.Empty = len(out.Fields) == 0 && out.Doc == ""
			if m.Recursive(d.Name) {
				mod.Rebuild = append(mod.Rebuild, out.Name)
			}
		case translate.DeclEnum:
			r.other["from enum import Enum"] = true
			out.Values = values(d)
			out.Empty = len(out.Values) == 0 && out.Doc == ""
		case translate.DeclUnion:
			r.quote = true
			parts := make([]string, 0, len(d.Variants))
			for _, v := range d.Variants {
				parts = append(parts, translate.TypeString(r, v.Type))
			}
			r.useTyping("Union")
			out.Type = "Union[" + strings.Join(parts, ", ") + "]"
		case translate.DeclAlias:
			r.quote = true
			out.Type = translate.TypeString(r, d.Target)
		}
		mod.Decls = append(mod.Decls, out)
	}

	mod.Imports = r.imports()
	for _, name := range []string{"BaseModel", "ConfigDict", "Field"} {
		if pydantic[name] {
			mod.Pydantic = append(mod.Pydantic, name)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "pydantic.py.tmpl", mod); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return []translate.File{{
		Name:    translate.ToSnakeCase(opts.BaseName(m)) + ".py",
		Content: buf.Bytes(),
	}}, nil
}

func fields(r *resolver, d *translate.TypeDecl, casing translate.Casing) []field {
	names := translate.NewNamer(false)
	out := make([]field, 0, len(d.Fields))
	for _, f := range d.Fields {
		name := names.Name(fieldName(f.Name, casing))
		typ := translate.TypeString(r, f.Type)
		if !f.Required && !f.Type.Nullable {
			typ = r.Nullable(typ)
		}

		var args []string
		if !f.Required {
			args = append(args, "default=None")
		}
		if name != f.Name {
			args = append(args, "alias="+strconv.Quote(f.Name))
		}
		if desc := strings.TrimSpace(f.Description); desc != "" {
			args = append(args, "description="+strconv.Quote(desc))
		}

		var def string
		switch {
		case len(args) == 1 && args[0] == "default=None":
			def = "None"
		case len(args) > 0:
			def = "Field(" + strings.Join(args, ", ") + ")"
		}
		out = append(out, field{Name: name, Type: typ, Default: def})
	}
	return out
}

func values(d *translate.TypeDecl) []value {
	names := translate.NewNamer(false)
	out := make([]value, 0, len(d.Values))
	for _, v := range d.Values {
		name := keywords.Escape(translate.SafeIdent(translate.ToScreamingSnakeCase(v.Name)))
		out = append(out, value{Name: names.Name(name), Value: strconv.Quote(v.Value)})
	}
	return out
}

func docstring(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `"""`, `\"\"\"`)
	if !strings.Contains(text, "\n") {
		return `"""` + text + `"""`
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = "    " + lines[i]
		}
	}
	return `"""` + strings.Join(lines, "\n") + "\n    " + `"""`
}

func comment(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var sb strings.Builder
	for _, l := range strings.Split(text, "\n") {
		sb.WriteString(strings.TrimRight("# "+l, " ") + "\n")
	}
	return sb.String()
}
