// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typescript

import (
	"strings"

	"github.com/dacolabs/schemagen/internal/translate"
)

// globals are built-in type names a declaration must not shadow.
var globals = translate.NewKeywords(
	"Array", "Boolean", "Date", "Error", "Function", "Map", "Number",
	"Object", "Promise", "Record", "Set", "String", "Symbol",
)

type resolver struct{}

func (r *resolver) PrimitiveType(p translate.Primitive, _ string) string {
	switch p {
	case translate.String:
		return "string"
	case translate.Integer, translate.Number:
		return "number"
	case translate.Boolean:
		return "boolean"
	default:
		return "any"
	}
}

func (r *resolver) ArrayType(elem string) string {
	if strings.Contains(elem, " | ") {
		return "(" + elem + ")[]"
	}
	return elem + "[]"
}

func (r *resolver) MapType(elem string) string {
	return "{ [key: string]: " + elem + " }"
}

func (r *resolver) RefType(name string) string {
	return typeName(name)
}

func (r *resolver) AnyType() string {
	return "any"
}

func (r *resolver) Nullable(t string) string {
	return t + " | null"
}

func typeName(name string) string {
	return globals.Escape(name)
}

// propertyName returns a property key, quoted when it is not a plain
// identifier.
func propertyName(name string) string {
	if translate.IsIdentifier(name) {
		return name
	}
	return quote(name)
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}
