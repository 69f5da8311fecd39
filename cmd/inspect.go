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

func newInspectCommand(conf *tawhiri.Config, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewInspectCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "inspect <timestamp>",
		Short: "Report stats on a dataset file.",
		Long: `
Maps a dataset read-only and reports its shape, size and how many
(hour, pressure, variable) slots hold any nonzero value. The count is a
diagnostic: only the ingestion run's checklist decides slot validity.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			stats, err := setupCommand(conf, cmd.CmdIO)
			if err != nil {
				return err
			}
			cmd.Dir = conf.DataDir
			cmd.Stats = stats
			cmd.Timestamp = args[0]
			return cmd.Run(context.Background())
		},
	}
	ccmd.Flags().StringVar(&cmd.Suffix, "suffix", "", "Optional dataset filename suffix.")
	return ccmd
}
