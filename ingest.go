// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package tawhiri

import (
	"context"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KerlinMichel/tawhiri/errors"
	"github.com/KerlinMichel/tawhiri/logger"
)

// isobaricLevelType is the GRIB level type of the records the ingestor
// consumes; everything else is skipped.
const isobaricLevelType = "isobaricInhPa"

// gribNameToVariable maps GRIB long names to variable axis names.
var gribNameToVariable = map[string]string{
	"Geopotential Height": VariableHeight,
	"U component of wind": VariableWindU,
	"V component of wind": VariableWindV,
}

// Record is one decoded gridded meteorological field as produced by the
// external format decoder. Records are consumed, never retained.
type Record interface {
	// LevelType returns the GRIB level type, e.g. "isobaricInhPa".
	LevelType() string
	// Name returns the GRIB long variable name, e.g. "Geopotential Height".
	Name() string
	ForecastHour() int
	PressureLevel() int
	// Latitudes and Longitudes return the record's distinct axis values.
	Latitudes() []float64
	Longitudes() []float64
	// Values returns the latitude x longitude grid, row-major.
	Values() []float64
	// Bytes returns the raw encoded record, for mirroring.
	Bytes() []byte
}

// RecordIterator yields the decoded records of one source file. Next returns
// io.EOF after the last record.
type RecordIterator interface {
	Next() (Record, error)
	Close() error
}

// Codec decodes source files into record streams. Decoding the wire format
// is outside this layer; implementations wrap an external decoder.
// Cancellation and timeouts belong to the codec's I/O, not to the ingestion
// protocol, so the context is handed straight through.
type Codec interface {
	Records(ctx context.Context, path string) (RecordIterator, error)
}

// Manifest is the set of triples a source file is expected to supply. It is
// consumed (via a working copy) during one file's ingestion.
type Manifest map[Triple]struct{}

func (m Manifest) Add(t Triple)           { m[t] = struct{}{} }
func (m Manifest) Remove(t Triple)        { delete(m, t) }
func (m Manifest) Contains(t Triple) bool { _, ok := m[t]; return ok }
func (m Manifest) Len() int               { return len(m) }

func (m Manifest) Clone() Manifest {
	c := make(Manifest, len(m))
	for t := range m {
		c[t] = struct{}{}
	}
	return c
}

// ProgressFunc is invoked after each record is unpacked. It is not required
// for correctness. It may block, letting other ingestions run and commit in
// the meantime; Checklist.Commit's overlap re-check exists to catch exactly
// that.
type ProgressFunc func(loc Location, triple Triple)

// IngestOptions configures one call to IngestFile. Checklist is required;
// everything else is optional.
type IngestOptions struct {
	// Checklist is the shared occupancy bitmap the file commits to.
	Checklist *Checklist

	// Dataset, if non-nil, receives each record's grid.
	Dataset *Dataset

	// Mirror, if non-nil, receives each record's raw bytes in arrival order.
	Mirror io.Writer

	// ExpectedHour, if >= 0, requires every record's forecast hour to match.
	ExpectedHour int

	// Manifest, if non-nil, is the exact set of triples the file must
	// supply. The caller's map is not modified.
	Manifest Manifest

	// Progress, if non-nil, is called after each record.
	Progress ProgressFunc
}

// NewIngestOptions returns options committing to checklist with every
// optional feature disabled.
func NewIngestOptions(checklist *Checklist) IngestOptions {
	return IngestOptions{
		Checklist:    checklist,
		ExpectedHour: -1,
	}
}

// Ingestor consumes decoded record streams and deposits them into datasets
// under the checklist protocol.
type Ingestor struct {
	codec  Codec
	logger logger.Logger
	stats  StatsClient
}

// IngestorOption is a functional option for NewIngestor.
type IngestorOption func(*Ingestor)

func OptIngestorLogger(l logger.Logger) IngestorOption {
	return func(ing *Ingestor) { ing.logger = l }
}

func OptIngestorStats(s StatsClient) IngestorOption {
	return func(ing *Ingestor) { ing.stats = s }
}

// NewIngestor returns an ingestor reading record streams from codec.
func NewIngestor(codec Codec, opts ...IngestorOption) *Ingestor {
	ing := &Ingestor{
		codec:  codec,
		logger: logger.NopLogger,
		stats:  NopStatsClient,
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// IngestFile consumes the record stream of one source file, validates every
// record against the shared checklist (and the manifest, if given), writes
// grids into the dataset and raw bytes into the mirror, and commits the
// file's contribution to the shared checklist only if the entire file
// validates. Any failure aborts the file and leaves the shared checklist
// unchanged.
//
// The dataset array is NOT rolled back on failure: grids written before a
// later record fails remain physically present. The checklist, not array
// contents, is the sole source of truth for slot validity.
func (ing *Ingestor) IngestFile(ctx context.Context, path string, opt IngestOptions) error {
	start := time.Now()
	err := ing.ingestFile(ctx, path, opt)
	if err != nil {
		ing.stats.Count("ingestFilesFailed", 1, 1)
		return err
	}
	ing.stats.Count("ingestFiles", 1, 1)
	ing.stats.Timing("ingestFile", time.Since(start), 1)
	return nil
}

func (ing *Ingestor) ingestFile(ctx context.Context, path string, opt IngestOptions) error {
	if opt.Checklist == nil {
		return errors.Errorf("ingesting %s: a shared checklist is required", path)
	}

	var manifest Manifest
	if opt.Manifest != nil {
		manifest = opt.Manifest.Clone()
	}
	local := NewChecklist()

	itr, err := ing.codec.Records(ctx, path)
	if err != nil {
		return errors.Wrapf(err, "opening record stream for %s", path)
	}
	defer itr.Close()

	checkedAxes := false
	unpacked := 0
	for {
		rec, err := itr.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return errors.Wrapf(err, "reading record from %s", path)
		}

		variable, ok := gribNameToVariable[rec.Name()]
		if rec.LevelType() != isobaricLevelType || !ok {
			continue
		}
		triple := Triple{Hour: rec.ForecastHour(), Pressure: rec.PressureLevel(), Variable: variable}

		loc, err := Axes.LocateTriple(triple)
		if err != nil {
			return err
		}
		if local.Contains(loc) {
			return errors.Newf(ErrDuplicateInFile, "repeated in file: %s", triple)
		}
		if opt.Checklist.Contains(loc) {
			return errors.Newf(ErrAlreadyUnpacked, "record already unpacked (from other file): %s", triple)
		}
		if opt.ExpectedHour >= 0 && rec.ForecastHour() != opt.ExpectedHour {
			return errors.Newf(ErrUnexpectedHour, "record %s has forecast hour %d, want %d",
				triple, rec.ForecastHour(), opt.ExpectedHour)
		}
		if manifest != nil {
			if !manifest.Contains(triple) {
				return errors.Newf(ErrUnexpectedRecord, "unexpected record: %s", triple)
			}
			manifest.Remove(triple)
		}

		// Checking axes can be slow on some codecs, so do it once as a
		// small sanity check; axis consistency is assumed uniform within
		// one file.
		if !checkedAxes {
			if err := checkRecordAxes(rec); err != nil {
				return err
			}
			checkedAxes = true
		}

		if opt.Dataset != nil {
			if err := opt.Dataset.WriteGrid(loc, rec.Values()); err != nil {
				return err
			}
		}
		if opt.Mirror != nil {
			if _, err := opt.Mirror.Write(rec.Bytes()); err != nil {
				return errors.Wrapf(err, "mirroring record %s", triple)
			}
		}

		// The shared checklist is not updated until the whole file has
		// been scanned and validated.
		local.Set(loc)
		unpacked++
		ing.logger.Debugf("unpacked %s %s %+v", path, triple, loc)
		ing.stats.Count("recordsUnpacked", 1, 1)

		if opt.Progress != nil {
			opt.Progress(loc, triple)
		}
	}

	if manifest != nil && manifest.Len() > 0 {
		return errors.Newf(ErrMissingRecords, "%d records missing from file %s", manifest.Len(), path)
	}

	if err := opt.Checklist.Commit(local); err != nil {
		return err
	}

	ing.logger.Infof("unpacked %s (%d records)", path, unpacked)
	return nil
}

// IngestFiles ingests many source files concurrently against one shared
// checklist, one goroutine per file. options is called once per path to
// build that file's IngestOptions (each file typically has its own manifest
// and mirror). The first failure cancels the context handed to the codec;
// files that already committed stay committed.
func (ing *Ingestor) IngestFiles(ctx context.Context, paths []string, options func(path string) IngestOptions) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			return ing.IngestFile(ctx, path, options(path))
		})
	}
	return g.Wait()
}

func checkRecordAxes(rec Record) error {
	if !float64sEqual(rec.Latitudes(), Axes.Latitude) {
		return errors.New(ErrGridAxes, "unexpected axes on record (latitudes)")
	}
	if !float64sEqual(rec.Longitudes(), Axes.Longitude) {
		return errors.New(ErrGridAxes, "unexpected axes on record (longitudes)")
	}
	return nil
}

func float64sEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
