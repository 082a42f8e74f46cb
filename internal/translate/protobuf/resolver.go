// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package protobuf

import (
	"strings"

	"github.com/dacolabs/schemagen/internal/translate"
)

const (
	importStruct    = "google/protobuf/struct.proto"
	importTimestamp = "google/protobuf/timestamp.proto"
)

// resolver maps model references to proto3 field types. Unlike the other
// targets it validates as it goes, since proto3 has no nested repeated
// fields and no repeated members inside a oneof.
type resolver struct {
	names   map[string]string
	imports map[string]bool
	decl    *translate.TypeDecl
}

func (r *resolver) scalar(ref translate.TypeRef) string {
	switch ref.Kind {
	case translate.RefPrimitive:
		if ref.Format == "date-time" {
			r.imports[importTimestamp] = true
			return "google.protobuf.Timestamp"
		}
		switch ref.Primitive {
		case translate.String:
			return "string"
		case translate.Integer:
			return "int64"
		case translate.Number:
			return "double"
		case translate.Boolean:
			return "bool"
		}
	case translate.RefNamed:
		return r.names[ref.Name]
	}
	r.imports[importStruct] = true
	return "google.protobuf.Value"
}

// fieldType returns the type with its label ("repeated", "optional" or
// none) for a message field named field.
func (r *resolver) fieldType(field string, ref translate.TypeRef, optional bool) (string, error) {
	switch ref.Kind {
	case translate.RefArray:
		if ref.Elem.Elem != nil {
			return "", translate.Unrenderable(targetName, r.decl, field, "nested repeated")
		}
		return "repeated " + r.scalar(*ref.Elem), nil
	case translate.RefMap:
		switch ref.Elem.Kind {
		case translate.RefArray:
			return "", translate.Unrenderable(targetName, r.decl, field, "map of repeated")
		case translate.RefMap:
			return "", translate.Unrenderable(targetName, r.decl, field, "map of map")
		}
		return "map<string, " + r.scalar(*ref.Elem) + ">", nil
	}
	t := r.scalar(ref)
	if optional && hasScalarPresence(ref) {
		return "optional " + t, nil
	}
	return t, nil
}

// variantType returns the type of a oneof member.
func (r *resolver) variantType(v translate.Variant) (string, error) {
	if v.Type.Kind == translate.RefArray || v.Type.Kind == translate.RefMap {
		return "", translate.Unrenderable(targetName, r.decl, v.Name, "repeated inside oneof")
	}
	return r.scalar(v.Type), nil
}

// hasScalarPresence reports whether "optional" is needed to track presence;
// message fields always have it.
func hasScalarPresence(ref translate.TypeRef) bool {
	return ref.Kind == translate.RefPrimitive && ref.Format != "date-time"
}

// jsonName mirrors protoc's default JSON name for a field.
func jsonName(field string) string {
	var sb strings.Builder
	upper := false
	for i := 0; i < len(field); i++ {
		c := field[i]
		if c == '_' {
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		sb.WriteByte(c)
	}
	return sb.String()
}
