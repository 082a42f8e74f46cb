// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package translate builds a language-neutral type model from a resolved
// schema graph and defines the translators that render it.
package translate

import (
	"fmt"
	"sort"
)

// File is one generated output file.
type File struct {
	Name    string // path relative to the target's output directory
	Content []byte
}

// Options configures a single translator run. Translators receive it by
// value and must not retain it.
type Options struct {
	// Namespace is the package, module or namespace of the generated code
	// (e.g. "com.example.schema" for Java, "Imagekit::Sdk" for C++).
	Namespace string

	// FieldCasing overrides the translator's default identifier casing
	// for fields.
	FieldCasing Casing

	// IncludeStyle selects how C++ headers include the JSON library:
	// "global" (<...>) or "local" ("...").
	IncludeStyle string

	// LanguageVersion selects a target dialect (e.g. Java "8" or "17").
	LanguageVersion string

	// TopLevel is the base name for single-file outputs.
	TopLevel string
}

// BaseName returns TopLevel or, when unset, the first root of m.
func (o Options) BaseName(m *Model) string {
	if o.TopLevel != "" {
		return o.TopLevel
	}
	if len(m.Roots) > 0 {
		return m.Roots[0]
	}
	return "schema"
}

// Translator defines the interface all target translators must implement.
type Translator interface {
	// Name returns the translator's identifier (e.g., "typescript", "java")
	Name() string

	// Translate renders the model. Output must be deterministic: the same
	// model and options always produce byte-identical files.
	Translate(m *Model, opts Options) ([]File, error)
}

// Register maps target names to translators.
type Register map[string]Translator

// Add registers t under its own name.
func (r Register) Add(t Translator) {
	r[t.Name()] = t
}

// Get retrieves a translator by name.
func (r Register) Get(name string) (Translator, error) {
	t, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown target: %s", name)
	}
	return t, nil
}

// Available returns all registered translator names, sorted.
func (r Register) Available() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
