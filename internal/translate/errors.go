// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedConstruct indicates a schema feature the model cannot represent.
	ErrUnsupportedConstruct = errors.New("unsupported schema construct")

	// ErrUnrenderableType indicates a model construct a target cannot express.
	ErrUnrenderableType = errors.New("unrenderable type")
)

// Error describes a builder or translator failure and the construct that
// caused it.
type Error struct {
	Kind      error  // ErrUnsupportedConstruct or ErrUnrenderableType
	Target    string // translator name, empty for builder errors
	Type      string // declaration name, if known
	Field     string // field name, if known
	Construct string // the offending construct, e.g. "not" or "nested array"
	Pointer   string // schema location, if known
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Target != "" {
		msg = e.Target + ": " + msg
	}
	if e.Construct != "" {
		msg += fmt.Sprintf(" %q", e.Construct)
	}
	if e.Type != "" {
		msg += " in " + e.Type
		if e.Field != "" {
			msg += "." + e.Field
		}
	}
	if e.Pointer != "" {
		msg += " at " + e.Pointer
	}
	return msg
}

// Unwrap returns the sentinel kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Unrenderable returns an ErrUnrenderableType error for target.
func Unrenderable(target string, d *TypeDecl, field, construct string) *Error {
	return &Error{
		Kind:      ErrUnrenderableType,
		Target:    target,
		Type:      d.Name,
		Field:     field,
		Construct: construct,
		Pointer:   d.Pointer,
	}
}
