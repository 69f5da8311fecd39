// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

// Package ctl contains the commands behind the tawhiri binary: allocating,
// listing and inspecting dataset files. Codec-backed ingestion is a library
// concern (see tawhiri.Ingestor); no command here decodes source files.
package ctl

import (
	"time"

	tawhiri "github.com/KerlinMichel/tawhiri"
	"github.com/KerlinMichel/tawhiri/errors"
)

// UsageError is wrapped by command validation failures.
var UsageError = errors.Errorf("usage error")

// parseTimestamp parses the fixed-width date-hour string identifying a
// dataset.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(tawhiri.TimestampFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(UsageError, "bad timestamp %q (want %s)", s, tawhiri.TimestampFormat)
	}
	return t, nil
}
