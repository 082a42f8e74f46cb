// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package jschema loads JSON Schema documents and resolves them into a graph
// of SchemaNodes with every $ref replaced by its target.
package jschema

import (
	"slices"
	"strings"
)

// Kind classifies a SchemaNode.
type Kind int

// Node kinds.
const (
	KindAny Kind = iota
	KindObject
	KindMap
	KindArray
	KindPrimitive
	KindEnum
	KindUnion
	KindAllOf
)

var kindNames = [...]string{
	KindAny:       "any",
	KindObject:    "object",
	KindMap:       "map",
	KindArray:     "array",
	KindPrimitive: "primitive",
	KindEnum:      "enum",
	KindUnion:     "union",
	KindAllOf:     "allOf",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// SchemaNode is one node of a resolved schema graph.
// Nodes reached through $ref are shared, so the graph may contain cycles
// when the loader allows recursion.
type SchemaNode struct {
	Kind        Kind
	Name        string // definition key or document title; empty when inline
	Pointer     string // document + "#" + JSON pointer
	Title       string
	Description string

	// Object
	Fields     map[string]*SchemaNode
	FieldOrder []string
	Required   map[string]bool

	// Map
	Values *SchemaNode

	// Array
	Items *SchemaNode

	// Primitive
	Type   string
	Format string

	// Enum
	Enum []any

	// Union
	Variants []*SchemaNode

	// AllOf
	Parts []*SchemaNode

	// Nullable is set when null is one of the accepted types.
	Nullable bool

	// Unsupported lists keywords that were present but cannot be modeled.
	Unsupported []string
}

// OrderedFields returns field names in document order. Names missing from
// FieldOrder are appended sorted, so the result never depends on map order.
func (n *SchemaNode) OrderedFields() []string {
	seen := make(map[string]bool, len(n.Fields))
	result := make([]string, 0, len(n.Fields))
	for _, name := range n.FieldOrder {
		if _, ok := n.Fields[name]; ok && !seen[name] {
			result = append(result, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range n.Fields {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(result, rest...)
}

// Graph is the output of Loader.Load.
type Graph struct {
	// Roots are the requested top-level definitions in document order.
	Roots []*SchemaNode
	// Sources lists every document fetched while resolving, in fetch order.
	Sources []string
}

// IsFileRef returns true if ref points into another document.
func IsFileRef(ref string) bool {
	return ref != "" && !strings.HasPrefix(ref, "#")
}
