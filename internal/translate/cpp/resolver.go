// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package cpp

import (
	"github.com/dacolabs/schemagen/internal/translate"
)

// reserved holds C++ keywords and macros from common system headers that
// break plain identifiers (<math.h> defines DOMAIN, for one).
var reserved = translate.NewKeywords(
	"alignas", "alignof", "and", "and_eq", "asm", "auto", "bitand", "bitor",
	"bool", "break", "case", "catch", "char", "char16_t", "char32_t", "class",
	"compl", "const", "constexpr", "const_cast", "continue", "decltype",
	"default", "delete", "do", "double", "dynamic_cast", "else", "enum",
	"explicit", "export", "extern", "false", "float", "for", "friend", "goto",
	"if", "inline", "int", "long", "mutable", "namespace", "new", "noexcept",
	"not", "not_eq", "nullptr", "operator", "or", "or_eq", "private",
	"protected", "public", "register", "reinterpret_cast", "return", "short",
	"signed", "sizeof", "static", "static_assert", "static_cast", "struct",
	"switch", "template", "this", "thread_local", "throw", "true", "try",
	"typedef", "typeid", "typename", "union", "unsigned", "using", "virtual",
	"void", "volatile", "wchar_t", "while", "xor", "xor_eq",
	"json", "j", "x",
	"DOMAIN", "EOF", "NULL", "TRUE", "FALSE", "OVERFLOW", "UNDERFLOW",
	"SING", "TLOSS", "PLOSS", "EDOM", "ERANGE", "errno", "assert",
	"stdin", "stdout", "stderr",
)

// resolver renders model references as C++17 types. References from a
// declaration into its own reference cycle are held through std::shared_ptr.
type resolver struct {
	m         *translate.Model
	names     map[string]string
	qualifier string // prefix for named types outside the namespace
	decl      *translate.TypeDecl
}

func (r *resolver) shared(ref translate.TypeRef) bool {
	return ref.Kind == translate.RefNamed && r.decl != nil && r.m.SameCycle(r.decl.Name, ref.Name)
}

func (r *resolver) primitive(p translate.Primitive) string {
	switch p {
	case translate.String:
		return "std::string"
	case translate.Integer:
		return "int64_t"
	case translate.Number:
		return "double"
	case translate.Boolean:
		return "bool"
	}
	return "json"
}

// base renders ref without top-level nullability.
func (r *resolver) base(ref translate.TypeRef, qualified bool) string {
	switch ref.Kind {
	case translate.RefPrimitive:
		return r.primitive(ref.Primitive)
	case translate.RefNamed:
		name := r.names[ref.Name]
		if qualified {
			name = r.qualifier + name
		}
		if r.shared(ref) {
			return "std::shared_ptr<" + name + ">"
		}
		return name
	case translate.RefArray:
		return "std::vector<" + r.elem(*ref.Elem, qualified) + ">"
	case translate.RefMap:
		return "std::map<std::string, " + r.elem(*ref.Elem, qualified) + ">"
	}
	return "json"
}

// elem renders a container element, variant alternative or alias target.
func (r *resolver) elem(ref translate.TypeRef, qualified bool) string {
	t := r.base(ref, qualified)
	if ref.Nullable && !r.shared(ref) && ref.Kind != translate.RefAny {
		return "std::optional<" + t + ">"
	}
	return t
}

// underlying renders ref with every non-recursive alias replaced by its
// target, giving the type the compiler actually sees.
func (r *resolver) underlying(ref translate.TypeRef) string {
	var t string
	switch ref.Kind {
	case translate.RefNamed:
		d, ok := r.m.Lookup(ref.Name)
		if !ok || d.Kind != translate.DeclAlias || r.m.Recursive(d.Name) {
			return r.elem(ref, true)
		}
		target := d.Target
		target.Nullable = target.Nullable || ref.Nullable
		return r.underlying(target)
	case translate.RefArray:
		t = "std::vector<" + r.underlying(*ref.Elem) + ">"
	case translate.RefMap:
		t = "std::map<std::string, " + r.underlying(*ref.Elem) + ">"
	default:
		return r.elem(ref, true)
	}
	if ref.Nullable {
		return "std::optional<" + t + ">"
	}
	return t
}

// field renders a struct member type.
func (r *resolver) field(f translate.Field) string {
	t := r.base(f.Type, false)
	if f.Optional() && !r.shared(f.Type) && f.Type.Kind != translate.RefAny {
		return "std::optional<" + t + ">"
	}
	return t
}

// guard returns the JSON type test that must hold before a variant
// alternative is attempted.
func (r *resolver) guard(ref translate.TypeRef) string {
	switch ref.Kind {
	case translate.RefPrimitive:
		switch ref.Primitive {
		case translate.String:
			return "j.is_string()"
		case translate.Integer:
			return "j.is_number_integer()"
		case translate.Number:
			return "j.is_number()"
		case translate.Boolean:
			return "j.is_boolean()"
		}
	case translate.RefArray:
		return "j.is_array()"
	case translate.RefMap:
		return "j.is_object()"
	case translate.RefNamed:
		d, ok := r.m.Lookup(ref.Name)
		if !ok {
			break
		}
		switch d.Kind {
		case translate.DeclRecord:
			return "j.is_object()"
		case translate.DeclEnum:
			return "j.is_string()"
		}
	}
	return "true"
}

func memberName(name string, casing translate.Casing) string {
	return reserved.Escape(casing.Apply(name, translate.CasingSnake))
}
