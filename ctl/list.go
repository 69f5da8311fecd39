// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package ctl

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	tawhiri "github.com/KerlinMichel/tawhiri"
	"github.com/KerlinMichel/tawhiri/errors"
)

// ListCommand represents a command for listing dataset files in a directory.
type ListCommand struct {
	// Directory datasets live in.
	Dir string

	// Suffixes restricts the listing to the given suffixes, if any.
	Suffixes []string

	// Stats receives operation counts.
	Stats tawhiri.StatsClient

	// Standard input/output
	*tawhiri.CmdIO
}

// NewListCommand returns a new instance of ListCommand.
func NewListCommand(stdin io.Reader, stdout, stderr io.Writer) *ListCommand {
	return &ListCommand{
		Stats: tawhiri.NopStatsClient,
		CmdIO: tawhiri.NewCmdIO(stdin, stdout, stderr),
	}
}

// Run lists every file whose name parses as a dataset timestamp plus
// suffix, skipping anything else in the directory.
func (cmd *ListCommand) Run(_ context.Context) error {
	entries, err := tawhiri.ListDatasets(cmd.Dir, cmd.Suffixes...)
	if err != nil {
		return errors.Wrap(err, "listing datasets")
	}
	cmd.Stats.Count("datasetsListed", int64(len(entries)), 1)

	tw := tabwriter.NewWriter(cmd.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "TIMESTAMP\tSUFFIX\tSIZE\tPATH\n")
	for _, e := range entries {
		size := int64(-1)
		if fi, err := os.Stat(e.Path); err == nil {
			size = fi.Size()
		}
		suffix := e.Suffix
		if suffix == "" {
			suffix = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Time.Format(tawhiri.TimestampFormat), suffix, size, e.Path)
	}
	return tw.Flush()
}
