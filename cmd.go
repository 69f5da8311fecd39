// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package tawhiri

import (
	"io"

	"github.com/KerlinMichel/tawhiri/logger"
)

// CmdIO holds standard unix inputs and outputs.
type CmdIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	logger logger.Logger
}

// NewCmdIO returns a new instance of CmdIO with inputs and outputs set to the
// arguments.
func NewCmdIO(stdin io.Reader, stdout, stderr io.Writer) *CmdIO {
	return &CmdIO{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		logger: logger.NewStandardLogger(stderr),
	}
}

func (c *CmdIO) Logger() logger.Logger {
	return c.logger
}

// SetLogger replaces the command's logger, e.g. with a verbose one.
func (c *CmdIO) SetLogger(l logger.Logger) {
	c.logger = l
}
