// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package java

import (
	"sort"

	"github.com/dacolabs/schemagen/internal/translate"
)

var keywords = translate.NewKeywords(
	"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
	"class", "const", "continue", "default", "do", "double", "else", "enum",
	"extends", "final", "finally", "float", "for", "goto", "if", "implements",
	"import", "instanceof", "int", "interface", "long", "native", "new",
	"package", "private", "protected", "public", "return", "short", "static",
	"strictfp", "super", "switch", "synchronized", "this", "throw", "throws",
	"transient", "try", "void", "volatile", "while", "true", "false", "null",
	"record", "var", "yield",
)

// classNames clash with java.lang or with the generated imports.
var classNames = translate.NewKeywords(
	// java.lang
	"Boolean", "Byte", "Character", "Class", "Deprecated", "Double", "Enum",
	"Error", "Exception", "Float", "Integer", "Iterable", "Long", "Math",
	"Number", "Object", "Override", "Record", "Short", "String", "System",
	"Thread", "Void",
	// imports
	"List", "Map", "UUID", "LocalDate", "OffsetDateTime", "IOException",
	"JsonCreator", "JsonProperty", "JsonValue", "JsonParser", "ObjectCodec",
	"TypeReference", "DeserializationContext", "JsonDeserializer",
	"JsonMappingException", "JsonNode", "JsonDeserialize",
	// nested union deserializer
	"Deserializer",
)

// resolver maps references to boxed Java types and records the imports
// each compilation unit needs.
type resolver struct {
	names   map[string]string
	imports map[string]bool
}

func (r *resolver) use(imp string) {
	r.imports[imp] = true
}

func (r *resolver) PrimitiveType(p translate.Primitive, format string) string {
	switch format {
	case "date-time":
		r.use("java.time.OffsetDateTime")
		return "OffsetDateTime"
	case "date":
		r.use("java.time.LocalDate")
		return "LocalDate"
	case "uuid":
		r.use("java.util.UUID")
		return "UUID"
	}
	switch p {
	case translate.String:
		return "String"
	case translate.Integer:
		return "Long"
	case translate.Number:
		return "Double"
	case translate.Boolean:
		return "Boolean"
	}
	return "Object"
}

func (r *resolver) ArrayType(elem string) string {
	r.use("java.util.List")
	return "List<" + elem + ">"
}

func (r *resolver) MapType(elem string) string {
	r.use("java.util.Map")
	return "Map<String, " + elem + ">"
}

func (r *resolver) RefType(name string) string {
	return r.names[name]
}

func (r *resolver) AnyType() string {
	return "Object"
}

// Nullable is a no-op: every generated type is a reference type.
func (r *resolver) Nullable(t string) string {
	return t
}

func (r *resolver) sortedImports() []string {
	out := make([]string, 0, len(r.imports))
	for imp := range r.imports {
		out = append(out, imp)
	}
	sort.Strings(out)
	return out
}

// memberName converts a property name to a Java field or component name.
func memberName(name string, casing translate.Casing) string {
	return keywords.Escape(casing.Apply(name, translate.CasingCamel))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
