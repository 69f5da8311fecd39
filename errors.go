// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package tawhiri

import (
	"github.com/KerlinMichel/tawhiri/errors"
)

// Error codes returned by the ingestion and storage layer. All are
// synchronous, file-scoped failures: IngestFile aborts with the specific
// code and the shared checklist is guaranteed unchanged.
const (
	// ErrAxisValue: a value is absent from the named axis.
	ErrAxisValue errors.Code = "AxisValue"

	// ErrUnknownLocation: a record's (hour, pressure, variable) triple has
	// no position on the dataset axes.
	ErrUnknownLocation errors.Code = "UnknownLocation"

	// ErrDuplicateInFile: two records in one file map to the same slot.
	ErrDuplicateInFile errors.Code = "DuplicateInFile"

	// ErrAlreadyUnpacked: a record's slot was already committed to the
	// shared checklist by another file.
	ErrAlreadyUnpacked errors.Code = "AlreadyUnpacked"

	// ErrChecklistRace: another ingestion committed an overlapping slot
	// between this file's per-record checks and its commit.
	ErrChecklistRace errors.Code = "ChecklistRace"

	// ErrUnexpectedHour: a record's forecast hour differs from the
	// configured expected hour.
	ErrUnexpectedHour errors.Code = "UnexpectedHour"

	// ErrUnexpectedRecord: a record's triple is not in the file's manifest.
	ErrUnexpectedRecord errors.Code = "UnexpectedRecord"

	// ErrMissingRecords: the file's stream ended with manifest entries
	// still unsatisfied.
	ErrMissingRecords errors.Code = "MissingRecords"

	// ErrDatasetSize: an existing dataset file's size does not match the
	// fixed array byte length.
	ErrDatasetSize errors.Code = "DatasetSize"

	// ErrGridShape: a grid does not match the latitude x longitude extent.
	ErrGridShape errors.Code = "GridShape"

	// ErrGridAxes: a record's latitude/longitude axes do not match the
	// dataset's.
	ErrGridAxes errors.Code = "GridAxes"
)
