// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/radiakml/radiakml/colormap"
	"github.com/spf13/cobra"
)

var gradientsCmd = &cobra.Command{
	Use:   "gradients",
	Short: "List the gradients accepted by --cmap",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range colormap.Names() {
			if name == colormap.DefaultGradient {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", name)

				continue
			}

			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(gradientsCmd)
}
