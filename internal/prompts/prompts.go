// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package prompts provides interactive terminal prompts for CLI commands.
package prompts

import (
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Theme returns the shared huh theme used across all CLI forms.
func Theme() *huh.Theme {
	theme := huh.ThemeBase16()
	theme.FieldSeparator = lipgloss.NewStyle().SetString("\n").MarginBottom(1)
	theme.Form.Base = theme.Form.Base.MarginTop(1)
	theme.Group.Base = theme.Group.Base.MarginTop(1)
	theme.Focused.Title = theme.Focused.Title.Foreground(lipgloss.Color("#f9ca24"))
	theme.Blurred.Title = theme.Blurred.Title.Foreground(lipgloss.Color("#bababa"))
	return theme
}

// ResultField is a label-value pair for PrintResult.
type ResultField struct {
	Label string
	Value string
	// Failed marks the line with a red cross instead of a green check.
	Failed bool
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#27ca3f"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f56"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#bababa"))
)

// PrintResult prints a styled summary to w with one line per field and an
// optional closing message.
func PrintResult(w io.Writer, fields []ResultField, msg string) {
	fmt.Fprintln(w)
	for _, f := range fields {
		mark := successStyle.Render("✓")
		if f.Failed {
			mark = failureStyle.Render("✗")
		}
		fmt.Fprintf(w, "%s %s %s\n", mark, labelStyle.Render(f.Label+":"), f.Value)
	}

	if msg != "" {
		fmt.Fprintln(w, successStyle.Render("\n"+msg))
	}
}

// PrintFailure prints msg styled as an error.
func PrintFailure(w io.Writer, msg string) {
	fmt.Fprintln(w, failureStyle.Render("\n"+msg))
}
