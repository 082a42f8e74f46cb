// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"errors"

	"github.com/charmbracelet/huh"
)

func targetOptions(available []string) []huh.Option[string] {
	options := make([]huh.Option[string], len(available))
	for i, name := range available {
		options[i] = huh.NewOption(name, name)
	}
	return options
}

func requiredValidator(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

// TargetsSelect returns a multi-select field for choosing target languages.
func TargetsSelect(value *[]string, available []string) *huh.MultiSelect[string] {
	return huh.NewMultiSelect[string]().
		Title("Target languages").
		Options(targetOptions(available)...).
		Validate(func(s []string) error {
			if len(s) == 0 {
				return errors.New("select at least one target")
			}
			return nil
		}).
		Value(value)
}

// RunGenerateForm prompts for the schema source and targets that are not
// already set.
func RunGenerateForm(source *string, targets *[]string, output *string, available []string) error {
	var groups []*huh.Group
	if *source == "" {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Schema source").
				Description("File path or URL, optionally with a #/definitions/ fragment").
				Placeholder("schema.json").
				Validate(requiredValidator("schema source")).
				Value(source),
		))
	}
	if len(*targets) == 0 {
		groups = append(groups, huh.NewGroup(TargetsSelect(targets, available)))
	}
	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("Output directory").
			Description("Leave empty to print to stdout").
			Value(output),
	))
	return huh.NewForm(groups...).WithTheme(Theme()).Run()
}

// RunInitForm prompts for the values of a new schemagen.yaml.
func RunInitForm(source, output *string, targets *[]string, available []string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Schema source").
				Placeholder("schema.json#/definitions/").
				Value(source),
			huh.NewInput().
				Title("Output directory").
				Placeholder("generated").
				Validate(requiredValidator("output directory")).
				Value(output),
		),
		huh.NewGroup(TargetsSelect(targets, available)),
	).WithTheme(Theme()).Run()
}
