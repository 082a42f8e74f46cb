// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"github.com/dacolabs/schemagen/internal/session"
	"github.com/dacolabs/schemagen/internal/translate"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	config  string
	verbose bool
}

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd(translators translate.Register) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "schemagen",
		Short: "Generate typed models from JSON Schema",
		Long: `schemagen reads a JSON Schema (JSON or YAML, local or over HTTP) and
generates equivalent type declarations for several languages in one run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := session.NewLogger(opts.verbose)
			if err != nil {
				return err
			}
			ctx, err := session.Load(cmd.Context(), opts.config, logger)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if sc := session.From(cmd.Context()); sc != nil {
				_ = sc.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.config, "config", "", "Path to the config file (default ./schemagen.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newGenerateCmd(translators))
	rootCmd.AddCommand(newTargetsCmd(translators))
	rootCmd.AddCommand(newInitCmd(translators))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
