// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"

	"github.com/dacolabs/schemagen/internal/translate"
	"github.com/spf13/cobra"
)

func newTargetsCmd(translators translate.Register) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List available target languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range translators.Available() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
