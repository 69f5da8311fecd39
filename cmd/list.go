// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	tawhiri "github.com/KerlinMichel/tawhiri"
	"github.com/KerlinMichel/tawhiri/ctl"
)

func newListCommand(conf *tawhiri.Config, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewListCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "list",
		Short: "List dataset files in a directory.",
		Long: `
Lists every file in the directory whose name starts with a dataset
timestamp, with its suffix, size and path. Other files are skipped.
`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			stats, err := setupCommand(conf, cmd.CmdIO)
			if err != nil {
				return err
			}
			cmd.Dir = conf.DataDir
			cmd.Stats = stats
			return cmd.Run(context.Background())
		},
	}
	ccmd.Flags().StringSliceVar(&cmd.Suffixes, "suffix", nil, "Only list entries with these suffixes.")
	return ccmd
}
