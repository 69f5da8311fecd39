// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package tawhiri implements the ingestion and storage layer for gridded
wind-field data feeding the trajectory predictor.

Decoded meteorological records (produced by an external codec) are deposited
into a fixed-shape, memory-mapped five dimensional array addressed by
(forecast hour, pressure level, variable, latitude, longitude). A shared
Checklist tracks which (hour, pressure, variable) slots have been validly
populated; the Ingestor commits each source file's contribution to the
checklist only if the whole file validates, so partially-ingested files never
corrupt the shared record of what has been unpacked.
*/
package tawhiri

import "fmt"

// Version is the current version of the ingestion layer.
var Version = "0.2.0"

// VersionInfo returns the version string for display.
func VersionInfo() string {
	return fmt.Sprintf("tawhiri %s", Version)
}
