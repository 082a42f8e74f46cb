// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package targets registers every built-in translator.
package targets

import (
	"github.com/dacolabs/schemagen/internal/translate"
	"github.com/dacolabs/schemagen/internal/translate/cpp"
	"github.com/dacolabs/schemagen/internal/translate/gotypes"
	"github.com/dacolabs/schemagen/internal/translate/java"
	"github.com/dacolabs/schemagen/internal/translate/protobuf"
	"github.com/dacolabs/schemagen/internal/translate/pydantic"
	"github.com/dacolabs/schemagen/internal/translate/typescript"
)

// Register returns a register with all built-in translators.
func Register() translate.Register {
	translators := make(translate.Register)
	translators.Add(&typescript.Translator{})
	translators.Add(&gotypes.Translator{})
	translators.Add(&java.Translator{})
	translators.Add(&cpp.Translator{})
	translators.Add(&pydantic.Translator{})
	translators.Add(&protobuf.Translator{})
	return translators
}
