// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"os"

	"github.com/dacolabs/schemagen/internal/config"
	"github.com/dacolabs/schemagen/internal/prompts"
	"github.com/dacolabs/schemagen/internal/session"
	"github.com/dacolabs/schemagen/internal/translate"
	"github.com/spf13/cobra"
)

type initOptions struct {
	source         string
	output         string
	targets        []string
	force          bool
	nonInteractive bool
}

func newInitCmd(translators translate.Register) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a schemagen.yaml configuration file",
		Long: `Create a schemagen.yaml configuration file in the current directory,
or at the path given with --config.`,
		Example: `  # Interactive mode
  schemagen init

  # Non-interactive
  schemagen init --source schema.json#/definitions/ -t typescript -t gotypes --non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runInit(cmd, sc, translators, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "Schema source")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "generated", "Output directory")
	cmd.Flags().StringArrayVarP(&opts.targets, "target", "t", nil, "Target language, repeatable")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing config file")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts")

	return cmd
}

func runInit(cmd *cobra.Command, sc *session.Context, translators translate.Register, opts *initOptions) error {
	if _, err := os.Stat(sc.ConfigPath); err == nil && !opts.force {
		return fmt.Errorf("%s already exists; use --force to overwrite", sc.ConfigPath)
	}

	if !opts.nonInteractive {
		if err := prompts.RunInitForm(&opts.source, &opts.output, &opts.targets, translators.Available()); err != nil {
			return err
		}
	}

	cfg := config.Default()
	cfg.Source = opts.source
	cfg.Output = opts.output
	if len(opts.targets) > 0 {
		cfg.Targets = nil
		for _, name := range opts.targets {
			if _, err := translators.Get(name); err != nil {
				return err
			}
			cfg.Targets = append(cfg.Targets, config.Target{Language: name})
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(sc.ConfigPath); err != nil {
		return fmt.Errorf("config file couldn't be saved: %w", err)
	}

	fields := []prompts.ResultField{{Label: "Config", Value: sc.ConfigPath}}
	for _, t := range cfg.Targets {
		fields = append(fields, prompts.ResultField{Label: "Target", Value: t.Language})
	}
	prompts.PrintResult(cmd.ErrOrStderr(), fields, "Initialization completed")
	return nil
}
