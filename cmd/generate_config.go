// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/KerlinMichel/tawhiri/ctl"
)

func newGenerateConfigCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewGenerateConfigCommand(stdin, stdout, stderr)
	return &cobra.Command{
		Use:   "generate-config",
		Short: "Print the default configuration.",
		Long: `
Prints the default configuration as toml, suitable for use with --config.
`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(context.Background())
		},
	}
}
