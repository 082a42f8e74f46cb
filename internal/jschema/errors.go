// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaNotFound indicates the schema source could not be fetched.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrSchemaParse indicates the schema document is not well-formed.
	ErrSchemaParse = errors.New("schema parse error")

	// ErrUnresolvedReference indicates a $ref that points nowhere.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrCyclicReference indicates a $ref cycle.
	ErrCyclicReference = errors.New("cyclic reference")

	// ErrSchemaFetchTimeout indicates a remote fetch exceeded its deadline.
	ErrSchemaFetchTimeout = errors.New("schema fetch timeout")
)

// Error describes a loader failure and where in the schema it happened.
type Error struct {
	// Kind is one of the sentinel errors above.
	Kind error
	// Source is the document the failure belongs to.
	Source string
	// Pointer is the JSON pointer inside Source, if known.
	Pointer string
	// Ref is the $ref string being resolved, if any.
	Ref string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	loc := e.Source
	if e.Pointer != "" {
		loc += "#" + e.Pointer
	}
	msg := e.Kind.Error()
	if loc != "" {
		msg += " at " + loc
	}
	if e.Ref != "" {
		msg += fmt.Sprintf(" ($ref %q)", e.Ref)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, source, pointer string, err error) *Error {
	return &Error{Kind: kind, Source: source, Pointer: pointer, Err: err}
}
