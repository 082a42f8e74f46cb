// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package pydantic

import (
	"sort"
	"strings"

	"github.com/dacolabs/schemagen/internal/translate"
)

var keywords = translate.NewKeywords(
	"False", "None", "True", "and", "as", "assert", "async", "await", "break",
	"class", "continue", "def", "del", "elif", "else", "except", "finally",
	"for", "from", "global", "if", "import", "in", "is", "lambda", "nonlocal",
	"not", "or", "pass", "raise", "return", "try", "while", "with", "yield",
	// BaseModel members a field must not shadow.
	"copy", "dict", "json", "schema", "construct", "validate", "fields",
	"model_config", "model_fields", "model_dump", "model_validate",
)

// imported names that generated classes must not shadow.
var imported = translate.NewKeywords(
	"Any", "BaseModel", "ConfigDict", "Dict", "Enum", "Field", "List",
	"Optional", "UUID", "Union", "date", "datetime", "None", "True", "False",
)

type resolver struct {
	m      *translate.Model
	names  map[string]string
	decl   *translate.TypeDecl
	typing map[string]bool
	other  map[string]bool // import lines other than typing
	quote  bool            // quote references into the current cycle
}

func (r *resolver) useTyping(name string) {
	r.typing[name] = true
}

func (r *resolver) PrimitiveType(p translate.Primitive, format string) string {
	switch format {
	case "date-time":
		r.other["from datetime import datetime"] = true
		return "datetime"
	case "date":
		r.other["from datetime import date"] = true
		return "date"
	case "uuid":
		r.other["from uuid import UUID"] = true
		return "UUID"
	}
	switch p {
	case translate.String:
		return "str"
	case translate.Integer:
		return "int"
	case translate.Number:
		return "float"
	case translate.Boolean:
		return "bool"
	}
	return r.AnyType()
}

func (r *resolver) ArrayType(elem string) string {
	r.useTyping("List")
	return "List[" + elem + "]"
}

func (r *resolver) MapType(elem string) string {
	r.useTyping("Dict")
	return "Dict[str, " + elem + "]"
}

func (r *resolver) RefType(name string) string {
	n := r.names[name]
	if r.quote && r.decl != nil && r.m.SameCycle(r.decl.Name, name) {
		return `"` + n + `"`
	}
	return n
}

func (r *resolver) AnyType() string {
	r.useTyping("Any")
	return "Any"
}

func (r *resolver) Nullable(t string) string {
	if t == "Any" {
		return t
	}
	r.useTyping("Optional")
	return "Optional[" + t + "]"
}

// imports returns the sorted standard library import lines.
func (r *resolver) imports() []string {
	out := make([]string, 0, len(r.other)+1)
	for line := range r.other {
		out = append(out, line)
	}
	if len(r.typing) > 0 {
		names := make([]string, 0, len(r.typing))
		for name := range r.typing {
			names = append(names, name)
		}
		sort.Strings(names)
		out = append(out, "from typing import "+strings.Join(names, ", "))
	}
	sort.Strings(out)
	return out
}

// fieldName converts a property name to a Python attribute name.
func fieldName(name string, casing translate.Casing) string {
	n := casing.Apply(name, translate.CasingSnake)
	if n[0] == '_' {
		n = "field" + n
	}
	return keywords.Escape(n)
}
