// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"slices"
	"strings"
)

// Primitive is a scalar JSON Schema type.
type Primitive string

// Primitive types.
const (
	String  Primitive = "string"
	Integer Primitive = "integer"
	Number  Primitive = "number"
	Boolean Primitive = "boolean"
)

// RefKind classifies a TypeRef.
type RefKind int

// Reference kinds.
const (
	RefPrimitive RefKind = iota
	RefNamed
	RefArray
	RefMap
	RefAny
)

// TypeRef is the type of a field, union variant, array element or map value.
type TypeRef struct {
	Kind      RefKind
	Primitive Primitive // RefPrimitive
	Format    string    // RefPrimitive, e.g. "date-time"
	Name      string    // RefNamed
	Elem      *TypeRef  // RefArray and RefMap
	Nullable  bool
}

// String renders the reference in a compact, language-neutral notation used
// for diagnostics and de-duplication.
func (t TypeRef) String() string {
	var s string
	switch t.Kind {
	case RefPrimitive:
		s = string(t.Primitive)
		if t.Format != "" {
			s += "(" + t.Format + ")"
		}
	case RefNamed:
		s = t.Name
	case RefArray:
		s = "[]" + t.Elem.String()
	case RefMap:
		s = "map[string]" + t.Elem.String()
	case RefAny:
		s = "any"
	}
	if t.Nullable {
		s = "?" + s
	}
	return s
}

// Walk calls fn for t and every nested element reference.
func (t TypeRef) Walk(fn func(TypeRef)) {
	fn(t)
	if t.Elem != nil {
		t.Elem.Walk(fn)
	}
}

// Depth returns how many array or map levels wrap the innermost type.
func (t TypeRef) Depth() int {
	if t.Elem == nil {
		return 0
	}
	return 1 + t.Elem.Depth()
}

// DeclKind classifies a TypeDecl.
type DeclKind int

// Declaration kinds.
const (
	DeclRecord DeclKind = iota
	DeclUnion
	DeclEnum
	DeclAlias
)

func (k DeclKind) String() string {
	switch k {
	case DeclRecord:
		return "record"
	case DeclUnion:
		return "union"
	case DeclEnum:
		return "enum"
	case DeclAlias:
		return "alias"
	}
	return "unknown"
}

// TypeDecl is a named type in the model.
type TypeDecl struct {
	Name        string
	Kind        DeclKind
	Description string
	Pointer     string // schema location the declaration came from

	Fields   []Field     // DeclRecord, in document order
	Variants []Variant   // DeclUnion, in document order
	Values   []EnumValue // DeclEnum, in document order
	Target   TypeRef     // DeclAlias
}

// Field is a single property of a record.
type Field struct {
	Name        string // property name as it appears in the schema
	Type        TypeRef
	Required    bool
	Description string
}

// Optional reports whether the field may be absent or null.
func (f Field) Optional() bool {
	return !f.Required || f.Type.Nullable
}

// Variant is one alternative of a union.
type Variant struct {
	Name string // PascalCase label, unique within the union
	Type TypeRef
}

// EnumValue is one literal of a string enum.
type EnumValue struct {
	Name  string // PascalCase label, unique within the enum
	Value string
}

// Model is the language-neutral type model handed to translators.
// Translators must treat it as read-only.
type Model struct {
	Decls []*TypeDecl // in deterministic build order
	Roots []string    // names of the top-level declarations

	index map[string]*TypeDecl
	sccs  map[string]int
}

// Lookup returns the declaration with the given name.
func (m *Model) Lookup(name string) (*TypeDecl, bool) {
	d, ok := m.index[name]
	return d, ok
}

// IsRoot reports whether name is one of the top-level declarations.
func (m *Model) IsRoot(name string) bool {
	return slices.Contains(m.Roots, name)
}

// Refs returns every type reference held by a declaration.
func (d *TypeDecl) Refs() []TypeRef {
	var refs []TypeRef
	for _, f := range d.Fields {
		refs = append(refs, f.Type)
	}
	for _, v := range d.Variants {
		refs = append(refs, v.Type)
	}
	if d.Kind == DeclAlias {
		refs = append(refs, d.Target)
	}
	return refs
}

// Dependencies returns the names of declarations d refers to, in order of
// first use.
func (d *TypeDecl) Dependencies() []string {
	var deps []string
	for _, ref := range d.Refs() {
		ref.Walk(func(t TypeRef) {
			if t.Kind == RefNamed && !slices.Contains(deps, t.Name) {
				deps = append(deps, t.Name)
			}
		})
	}
	return deps
}

// Uses reports whether any reference in the model satisfies pred.
func (m *Model) Uses(pred func(TypeRef) bool) bool {
	for _, d := range m.Decls {
		for _, ref := range d.Refs() {
			found := false
			ref.Walk(func(t TypeRef) {
				if pred(t) {
					found = true
				}
			})
			if found {
				return true
			}
		}
	}
	return false
}

// UsesFormat reports whether any string reference carries one of formats.
func (m *Model) UsesFormat(formats ...string) bool {
	return m.Uses(func(t TypeRef) bool {
		return t.Kind == RefPrimitive && slices.Contains(formats, t.Format)
	})
}

// Ordered returns declarations so that every declaration follows the ones
// it depends on, except where a reference cycle makes that impossible.
func (m *Model) Ordered() []*TypeDecl {
	visited := make(map[string]bool, len(m.Decls))
	out := make([]*TypeDecl, 0, len(m.Decls))
	var visit func(d *TypeDecl)
	visit = func(d *TypeDecl) {
		if visited[d.Name] {
			return
		}
		visited[d.Name] = true
		for _, dep := range d.Dependencies() {
			if next, ok := m.index[dep]; ok {
				visit(next)
			}
		}
		out = append(out, d)
	}
	for _, d := range m.Decls {
		visit(d)
	}
	return out
}

// Recursive reports whether the named declaration is part of a reference
// cycle, including a reference to itself.
func (m *Model) Recursive(name string) bool {
	return m.cycleID(name) != 0
}

// SameCycle reports whether a and b belong to the same reference cycle.
func (m *Model) SameCycle(a, b string) bool {
	id := m.cycleID(a)
	return id != 0 && id == m.cycleID(b)
}

func (m *Model) cycleID(name string) int {
	return m.sccs[name]
}

// NewModel indexes decls and precomputes reference cycles. The returned
// model is safe for concurrent readers.
func NewModel(decls []*TypeDecl, roots []string) *Model {
	m := &Model{
		Decls: decls,
		Roots: roots,
		index: make(map[string]*TypeDecl, len(decls)),
	}
	for _, d := range decls {
		m.index[d.Name] = d
	}
	m.sccs = findCycles(m)
	return m
}

// findCycles runs Tarjan's algorithm and numbers every strongly connected
// component that contains a cycle. Declarations outside cycles map to 0.
func findCycles(m *Model) map[string]int {
	var (
		index   = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		stack   []string
		next    = 1
		nextSCC = 1
		result  = make(map[string]int)
	)

	var connect func(name string)
	connect = func(name string) {
		index[name] = next
		lowlink[name] = next
		next++
		stack = append(stack, name)
		onStack[name] = true

		d := m.index[name]
		deps := d.Dependencies()
		for _, dep := range deps {
			if _, ok := m.index[dep]; !ok {
				continue
			}
			if _, seen := index[dep]; !seen {
				connect(dep)
				lowlink[name] = min(lowlink[name], lowlink[dep])
			} else if onStack[dep] {
				lowlink[name] = min(lowlink[name], index[dep])
			}
		}

		if lowlink[name] != index[name] {
			return
		}
		var members []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			members = append(members, top)
			if top == name {
				break
			}
		}
		if len(members) > 1 || slices.Contains(deps, name) {
			for _, member := range members {
				result[member] = nextSCC
			}
			nextSCC++
		}
	}

	for _, d := range m.Decls {
		if _, seen := index[d.Name]; !seen {
			connect(d.Name)
		}
	}
	return result
}

// Summary renders the model in a compact text form, one declaration per
// line. It is stable and used to compare models.
func (m *Model) Summary() string {
	var sb strings.Builder
	for _, d := range m.Decls {
		sb.WriteString(d.Kind.String() + " " + d.Name)
		switch d.Kind {
		case DeclRecord:
			for _, f := range d.Fields {
				sb.WriteString(" " + f.Name)
				if !f.Required {
					sb.WriteString("?")
				}
				sb.WriteString(":" + f.Type.String())
			}
		case DeclUnion:
			for _, v := range d.Variants {
				sb.WriteString(" " + v.Name + ":" + v.Type.String())
			}
		case DeclEnum:
			for _, v := range d.Values {
				sb.WriteString(" " + v.Name + "=" + v.Value)
			}
		case DeclAlias:
			sb.WriteString(" = " + d.Target.String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
