// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package gotypes provides Go struct type translation.
package gotypes

import (
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/dacolabs/schemagen/internal/translate"
	"github.com/dave/jennifer/jen"
)

const (
	idDecodeVariant = "decodeVariant"
	idReceiver      = "u"
	idData          = "data"
	idErr           = "err"
	defaultPackage  = "schema"
)

// Translator translates a type model to Go type definitions.
type Translator struct{}

// Name returns the target name.
func (t *Translator) Name() string {
	return "gotypes"
}

// Translate renders every declaration of m into one gofmt'd Go file.
func (t *Translator) Translate(m *translate.Model, opts translate.Options) ([]translate.File, error) {
	r := newResolver(m)
	f := jen.NewFile(packageName(opts.Namespace))
	f.HeaderComment("Code generated by schemagen. DO NOT EDIT.")

	consts := translate.NewNamer(false, idDecodeVariant)
	for _, name := range r.names {
		consts.Name(name)
	}

	hasUnion := false
	for _, d := range m.Decls {
		r.decl = d
		name := r.typeName(d.Name)
		genDoc(f, name, d.Description)

		switch d.Kind {
		case translate.DeclRecord:
			genStruct(f, r, name, d)
		case translate.DeclUnion:
			hasUnion = true
			genUnion(f, r, name, d)
		case translate.DeclEnum:
			genEnum(f, name, d, consts)
		case translate.DeclAlias:
			genAlias(f, r, name, d)
		}
		f.Line()
	}
	if hasUnion {
		genDecodeVariant(f)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render Go source: %w", err)
	}
	return []translate.File{{
		Name:    translate.ToSnakeCase(opts.BaseName(m)) + ".go",
		Content: buf.Bytes(),
	}}, nil
}

// packageName derives a Go package name from a namespace such as
// "github.com/acme/api/schema".
func packageName(ns string) string {
	if ns == "" {
		return defaultPackage
	}
	name := strings.ToLower(translate.Sanitize(path.Base(ns)))
	name = strings.ReplaceAll(name, "_", "")
	if name == "" || !isLetter(name[0]) {
		return defaultPackage
	}
	return name
}

func genDoc(f *jen.File, name, description string) {
	description = strings.TrimSpace(description)
	if description == "" {
		return
	}
	for i, line := range strings.Split(description, "\n") {
		if i == 0 {
			line = name + ": " + line
		}
		f.Comment(strings.TrimRight(line, " "))
	}
}

func genStruct(f *jen.File, r *resolver, name string, d *translate.TypeDecl) {
	fields := translate.NewNamer(false)
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		for _, field := range d.Fields {
			if desc := strings.TrimSpace(field.Description); desc != "" {
				for _, line := range strings.Split(desc, "\n") {
					g.Comment(line)
				}
			}
			tag := field.Name
			if !field.Required {
				tag += ",omitempty"
			}
			g.Id(fields.Name(goName(field.Name))).Add(r.field(field)).Tag(map[string]string{"json": tag})
		}
	})
}

// variantField renders the wrapper field for one union alternative.
func variantField(r *resolver, v translate.Variant) *jen.Statement {
	if pointable(v.Type) {
		return jen.Op("*").Add(r.typ(v.Type))
	}
	return r.typ(v.Type)
}

func genUnion(f *jen.File, r *resolver, name string, d *translate.TypeDecl) {
	fields := translate.NewNamer(false, "MarshalJSON", "UnmarshalJSON")
	labels := make([]string, len(d.Variants))
	for i, v := range d.Variants {
		labels[i] = fields.Name(goName(v.Name))
	}

	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		for i, v := range d.Variants {
			g.Id(labels[i]).Add(variantField(r, v))
		}
	})
	f.Line()

	f.Comment("MarshalJSON encodes the variant that is set, or null.")
	f.Func().Params(jen.Id(idReceiver).Id(name)).Id("MarshalJSON").Params().Params(
		jen.Index().Byte(),
		jen.Error(),
	).Block(
		jen.Switch().BlockFunc(func(g *jen.Group) {
			for _, label := range labels {
				g.Case(jen.Id(idReceiver).Dot(label).Op("!=").Nil()).Block(
					jen.Return(jen.Qual("encoding/json", "Marshal").Call(jen.Id(idReceiver).Dot(label))),
				)
			}
		}),
		jen.Return(jen.Index().Byte().Call(jen.Lit("null")), jen.Nil()),
	)
	f.Line()

	f.Comment("UnmarshalJSON sets the first variant that decodes data without unknown fields.")
	f.Func().Params(jen.Id(idReceiver).Op("*").Id(name)).Id("UnmarshalJSON").Params(
		jen.Id(idData).Index().Byte(),
	).Error().BlockFunc(func(g *jen.Group) {
		g.Op("*").Id(idReceiver).Op("=").Id(name).Values()
		g.If(jen.String().Call(jen.Id(idData)).Op("==").Lit("null")).Block(
			jen.Return(jen.Nil()),
		)
		for i, v := range d.Variants {
			local := "v" + strconv.Itoa(i+1)
			value := jen.Id(local)
			if pointable(v.Type) {
				value = jen.Op("&").Id(local)
			}
			g.Var().Id(local).Add(r.typ(v.Type))
			g.If(
				jen.Id(idErr).Op(":=").Id(idDecodeVariant).Call(jen.Id(idData), jen.Op("&").Id(local)),
				jen.Id(idErr).Op("==").Nil(),
			).Block(
				jen.Id(idReceiver).Dot(labels[i]).Op("=").Add(value),
				jen.Return(jen.Nil()),
			)
		}
		g.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("no variant of "+name+" matches %s"), jen.Id(idData)))
	})
}

func genDecodeVariant(f *jen.File) {
	f.Comment(idDecodeVariant + " decodes data into v, rejecting unknown object fields.")
	f.Func().Id(idDecodeVariant).Params(
		jen.Id(idData).Index().Byte(),
		jen.Id("v").Id("any"),
	).Error().Block(
		jen.Id("dec").Op(":=").Qual("encoding/json", "NewDecoder").Call(
			jen.Qual("bytes", "NewReader").Call(jen.Id(idData)),
		),
		jen.Id("dec").Dot("DisallowUnknownFields").Call(),
		jen.Return(jen.Id("dec").Dot("Decode").Call(jen.Id("v"))),
	)
}

func genEnum(f *jen.File, name string, d *translate.TypeDecl, consts *translate.Namer) {
	f.Type().Id(name).String()
	f.Line()
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, v := range d.Values {
			g.Id(consts.Name(name + goName(v.Name))).Id(name).Op("=").Lit(v.Value)
		}
	})
}

func genAlias(f *jen.File, r *resolver, name string, d *translate.TypeDecl) {
	target := r.elem(d.Target)
	if r.m.Recursive(d.Name) {
		f.Type().Id(name).Add(target)
		return
	}
	f.Type().Id(name).Op("=").Add(target)
}
