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

func newCreateCommand(conf *tawhiri.Config, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewCreateCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "create <timestamp>",
		Short: "Allocate a fresh dataset file.",
		Long: `
Allocates a dataset file of exactly the fixed array byte length for the
given timestamp (` + "`2006010215`" + ` format), truncating any existing file.
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
