// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

// TypeResolver converts model type references to target-language type strings.
// Each translator implements this interface to control how references map to
// its output format.
type TypeResolver interface {
	// PrimitiveType maps a primitive and its format to a target type string.
	// Format is checked first, allowing "date-time" to override "string".
	PrimitiveType(p Primitive, format string) string

	// ArrayType wraps an element type string in an array type.
	ArrayType(elem string) string

	// MapType wraps a value type string in a string-keyed map type.
	MapType(elem string) string

	// RefType returns the type string for a named declaration.
	RefType(name string) string

	// AnyType returns the type used for unconstrained values.
	AnyType() string

	// Nullable wraps a type string that may hold null.
	Nullable(t string) string
}

// TypeString renders ref through r, applying Nullable at every level that
// carries the flag.
func TypeString(r TypeResolver, ref TypeRef) string {
	var s string
	switch ref.Kind {
	case RefPrimitive:
		s = r.PrimitiveType(ref.Primitive, ref.Format)
	case RefNamed:
		s = r.RefType(ref.Name)
	case RefArray:
		s = r.ArrayType(TypeString(r, *ref.Elem))
	case RefMap:
		s = r.MapType(TypeString(r, *ref.Elem))
	default:
		s = r.AnyType()
	}
	if ref.Nullable {
		s = r.Nullable(s)
	}
	return s
}
