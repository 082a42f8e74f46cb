// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package cpp provides C++17 header translation with nlohmann::json
// serialization.
package cpp

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dacolabs/schemagen/internal/translate"
)

//go:embed cpp.hpp.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.ParseFS(tmplFS, "cpp.hpp.tmpl"))

const (
	targetName       = "cpp"
	defaultNamespace = "schema"
)

// Translator translates a type model to a single C++17 header.
type Translator struct{}

// Name returns the target name.
func (t *Translator) Name() string {
	return targetName
}

type header struct {
	Include     string
	Namespace   string
	Forward     []string
	Decls       []decl
	Serializers []serializer
}

type decl struct {
	Kind    string // struct, enum, using or box
	Name    string
	Doc     string
	Members []member
	Values  []value
	Type    string
}

type member struct {
	Name     string
	JSON     string
	Type     string
	Optional bool
	Check    string // presence test for optional members
	Doc      string
}

type value struct {
	Name string
	JSON string
}

// serializer is an adl_serializer specialization for one std::variant type.
type serializer struct {
	Type         string
	Label        string
	Alternatives []alternative
}

type alternative struct {
	Type  string
	Guard string
}

// Translate renders every declaration of m into one header, types first in
// dependency order, then the JSON conversion functions.
func (t *Translator) Translate(m *translate.Model, opts translate.Options) ([]translate.File, error) {
	include, err := includeLine(opts.IncludeStyle)
	if err != nil {
		return nil, err
	}
	ns, err := namespace(opts.Namespace)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(m.Decls))
	namer := translate.NewNamer(false)
	for _, d := range m.Decls {
		names[d.Name] = namer.Name(reserved.Escape(d.Name))
	}
	r := &resolver{m: m, names: names, qualifier: "::" + ns + "::"}

	h := header{Include: include, Namespace: ns}
	seen := make(map[string]bool)
	for _, d := range m.Ordered() {
		r.decl = d
		out := decl{Name: names[d.Name], Doc: comment("", d.Description)}
		recursive := m.Recursive(d.Name)

		switch d.Kind {
		case translate.DeclRecord:
			out.Kind = "struct"
			out.Members = members(r, d, opts.FieldCasing)
			if recursive {
				h.Forward = append(h.Forward, out.Name)
			}
		case translate.DeclEnum:
			out.Kind = "enum"
			out.Values = values(d)
		case translate.DeclUnion:
			s, local, err := variant(r, d)
			if err != nil {
				return nil, err
			}
			if !seen[s.Type] {
				seen[s.Type] = true
				h.Serializers = append(h.Serializers, s)
			}
			out.Kind, out.Type = "using", local
		case translate.DeclAlias:
			out.Kind, out.Type = "using", r.elem(d.Target, false)
		}
		if recursive && out.Kind == "using" {
			out.Kind = "box"
			h.Forward = append(h.Forward, out.Name)
		}
		h.Decls = append(h.Decls, out)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "cpp.hpp.tmpl", h); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return []translate.File{{Name: opts.BaseName(m) + ".hpp", Content: buf.Bytes()}}, nil
}

func includeLine(style string) (string, error) {
	switch style {
	case "", "global":
		return "<nlohmann/json.hpp>", nil
	case "local":
		return `"json.hpp"`, nil
	}
	return "", fmt.Errorf("cpp: unknown include style %q (want global or local)", style)
}

// namespace normalizes "Imagekit::Sdk" or "imagekit.sdk" into a C++17
// nested namespace name.
func namespace(ns string) (string, error) {
	if ns == "" {
		return defaultNamespace, nil
	}
	parts := strings.FieldsFunc(ns, func(r rune) bool { return r == ':' || r == '.' })
	for i, p := range parts {
		if !translate.IsIdentifier(p) || strings.Contains(p, "$") {
			return "", fmt.Errorf("cpp: invalid namespace %q", ns)
		}
		parts[i] = reserved.Escape(p)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("cpp: invalid namespace %q", ns)
	}
	return strings.Join(parts, "::"), nil
}

func members(r *resolver, d *translate.TypeDecl, casing translate.Casing) []member {
	names := translate.NewNamer(false)
	out := make([]member, 0, len(d.Fields))
	for _, f := range d.Fields {
		n := names.Name(memberName(f.Name, casing))
		check := "x." + n
		if f.Type.Kind == translate.RefAny {
			check = "!x." + n + ".is_null()"
		}
		out = append(out, member{
			Name:     n,
			JSON:     quote(f.Name),
			Type:     r.field(f),
			Optional: !f.Required,
			Check:    check,
			Doc:      comment("    ", f.Description),
		})
	}
	return out
}

func values(d *translate.TypeDecl) []value {
	names := translate.NewNamer(false)
	out := make([]value, 0, len(d.Values))
	for _, v := range d.Values {
		out = append(out, value{Name: names.Name(reserved.Escape(v.Name)), JSON: quote(v.Value)})
	}
	return out
}

// variant builds the serializer for a union and returns it together with
// the unqualified std::variant type used inside the namespace.
func variant(r *resolver, d *translate.TypeDecl) (serializer, string, error) {
	s := serializer{Label: r.names[d.Name]}
	local := make([]string, 0, len(d.Variants))
	qualified := make([]string, 0, len(d.Variants))
	underlying := make(map[string]bool, len(d.Variants))
	for _, v := range d.Variants {
		q := r.elem(v.Type, true)
		// Aliases are plain using declarations, so two of them over the same
		// type would make the variant ambiguous.
		u := r.underlying(v.Type)
		if underlying[u] {
			return s, "", translate.Unrenderable(targetName, d, v.Name, "duplicate variant type "+u)
		}
		underlying[u] = true
		qualified = append(qualified, q)
		local = append(local, r.elem(v.Type, false))
		s.Alternatives = append(s.Alternatives, alternative{Type: q, Guard: r.guard(v.Type)})
	}
	s.Type = "std::variant<" + strings.Join(qualified, ", ") + ">"
	return s, "std::variant<" + strings.Join(local, ", ") + ">", nil
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&sb, `\%03o`, c)
				continue
			}
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// comment renders text as /// lines with a trailing newline, or nothing.
func comment(indent, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var sb strings.Builder
	for _, l := range strings.Split(text, "\n") {
		sb.WriteString(strings.TrimRight(indent+"/// "+l, " ") + "\n")
	}
	return sb.String()
}
