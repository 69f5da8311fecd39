// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package ctl

import (
	"context"
	"fmt"
	"io"

	tawhiri "github.com/KerlinMichel/tawhiri"
	"github.com/KerlinMichel/tawhiri/errors"
)

// CreateCommand represents a command for allocating a fresh dataset file.
type CreateCommand struct {
	// Directory datasets live in.
	Dir string

	// Timestamp identifying the dataset, in TimestampFormat.
	Timestamp string

	// Optional filename suffix.
	Suffix string

	// Stats receives operation counts.
	Stats tawhiri.StatsClient

	// Standard input/output
	*tawhiri.CmdIO
}

// NewCreateCommand returns a new instance of CreateCommand.
func NewCreateCommand(stdin io.Reader, stdout, stderr io.Writer) *CreateCommand {
	return &CreateCommand{
		Stats: tawhiri.NopStatsClient,
		CmdIO: tawhiri.NewCmdIO(stdin, stdout, stderr),
	}
}

// Run allocates the dataset file: exactly the fixed array byte length,
// zero-filled (sparse where the filesystem allows).
func (cmd *CreateCommand) Run(_ context.Context) error {
	if cmd.Timestamp == "" {
		return errors.Wrap(UsageError, "timestamp required")
	}
	t, err := parseTimestamp(cmd.Timestamp)
	if err != nil {
		return err
	}

	ds, err := tawhiri.CreateDataset(cmd.Dir, t, cmd.Suffix, cmd.Logger())
	if err != nil {
		return errors.Wrap(err, "creating dataset")
	}
	path := ds.Path()
	if err := ds.Close(); err != nil {
		return err
	}

	cmd.Stats.Count("datasetsCreated", 1, 1)
	fmt.Fprintf(cmd.Stdout, "created %s (%d bytes)\n", path, tawhiri.DatasetByteSize)
	return nil
}
