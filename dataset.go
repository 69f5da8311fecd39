// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package tawhiri

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
	"unsafe"

	"github.com/KerlinMichel/tawhiri/errors"
	"github.com/KerlinMichel/tawhiri/logger"
	"github.com/KerlinMichel/tawhiri/syswrap"
)

const (
	// TimestampFormat is the fixed-width date-hour format used as the
	// leading 10 characters of every dataset filename.
	TimestampFormat = "2006010215"

	// SuffixGribMirror is the filename suffix for mirror files holding the
	// raw bytes of ingested records.
	SuffixGribMirror = ".gribmirror"
)

// gridValues is the number of float64 values in one (latitude, longitude)
// grid slice.
const gridValues = LatitudeCount * LongitudeCount

// DatasetByteSize is the exact on-disk size of a dataset file: a header-less
// row-major array of 64-bit floats in the fixed shape.
const DatasetByteSize = int64(HourCount*PressureCount*VariableCount*gridValues) * 8

func init() {
	if DatasetByteSize != 19057334400 {
		panic("dataset array has incorrect byte size")
	}
}

// Dataset owns one fixed-shape memory-mapped array of float64 values. The
// mapping is acquired at open and released at Close. The type does not
// enforce single-writer access to the backing file; that is caller
// discipline. It offers no synchronization of its own either: safety of
// concurrent writes relies on the checklist protocol guaranteeing that no
// two validated files ever claim the same slot.
type Dataset struct {
	Time   time.Time
	Suffix string

	path     string
	file     *os.File
	data     []byte
	array    []float64
	writable bool
	closed   bool
	logger   logger.Logger
}

// DatasetPath returns the backing file path for a dataset identified by
// timestamp and suffix.
func DatasetPath(directory string, t time.Time, suffix string) string {
	return filepath.Join(directory, t.Format(TimestampFormat)+suffix)
}

// CreateDataset allocates a fresh dataset file of exactly DatasetByteSize
// bytes (truncating any existing file) and maps it read-write. The mapping
// starts zero-filled; on most filesystems the file is sparse until written.
func CreateDataset(directory string, t time.Time, suffix string, log logger.Logger) (*Dataset, error) {
	return openDataset(directory, t, suffix, true, true, log)
}

// OpenDataset maps an existing dataset file, read-only unless writable is
// set. It fails with ErrDatasetSize if the file's size does not match the
// fixed array byte length.
func OpenDataset(directory string, t time.Time, suffix string, writable bool, log logger.Logger) (*Dataset, error) {
	return openDataset(directory, t, suffix, false, writable, log)
}

func openDataset(directory string, t time.Time, suffix string, create, writable bool, log logger.Logger) (*Dataset, error) {
	if log == nil {
		log = logger.NopLogger
	}
	path := DatasetPath(directory, t, suffix)

	flag := os.O_RDONLY
	if create {
		flag = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	} else if writable {
		flag = os.O_RDWR
	}

	mode := "read"
	if create {
		mode = "truncate and write"
	} else if writable {
		mode = "write"
	}
	log.Infof("opening dataset %s %s (%s)", t.Format(TimestampFormat), path, mode)

	f, mustClose, err := syswrap.OpenFile(path, flag, 0o666)
	if err != nil {
		return nil, errors.Wrap(err, "opening dataset file")
	}

	if create {
		if err := f.Truncate(DatasetByteSize); err != nil {
			syswrap.CloseFile(f)
			return nil, errors.Wrap(err, "allocating dataset file")
		}
	} else {
		fi, err := f.Stat()
		if err != nil {
			syswrap.CloseFile(f)
			return nil, errors.Wrap(err, "statting dataset file")
		}
		if fi.Size() != DatasetByteSize {
			syswrap.CloseFile(f)
			return nil, errors.Newf(ErrDatasetSize, "dataset file %s is %d bytes, want %d",
				path, fi.Size(), DatasetByteSize)
		}
	}

	prot := syscall.PROT_READ
	if create || writable {
		prot |= syscall.PROT_WRITE
	}
	data, err := syswrap.Mmap(int(f.Fd()), 0, int(DatasetByteSize), prot, syscall.MAP_SHARED)
	if err != nil {
		syswrap.CloseFile(f)
		return nil, errors.Wrap(err, "mmapping dataset file")
	}

	// The mapping stays valid after the descriptor is closed, so when the
	// process is near its open-file limit the descriptor is released now
	// rather than held for the life of the dataset.
	if mustClose {
		if err := syswrap.CloseFile(f); err != nil {
			syswrap.Munmap(data)
			return nil, errors.Wrap(err, "closing dataset file early")
		}
		f = nil
	}

	return &Dataset{
		Time:     t,
		Suffix:   suffix,
		path:     path,
		file:     f,
		data:     data,
		array:    unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), int(DatasetByteSize/8)),
		writable: create || writable,
		logger:   log,
	}, nil
}

// Path returns the dataset's backing file path.
func (d *Dataset) Path() string {
	return d.path
}

// ReadGrid returns a copy of the latitude x longitude grid slice at loc.
func (d *Dataset) ReadGrid(loc Location) ([]float64, error) {
	src, err := d.gridAt(loc)
	if err != nil {
		return nil, err
	}
	grid := make([]float64, gridValues)
	copy(grid, src)
	return grid, nil
}

// WriteGrid replaces the whole grid slice at loc. The grid must exactly
// match the latitude x longitude extent.
func (d *Dataset) WriteGrid(loc Location, grid []float64) error {
	if !d.writable {
		return errors.Errorf("dataset %s is not writable", d.path)
	}
	if len(grid) != gridValues {
		return errors.Newf(ErrGridShape, "grid has %d values, want %d", len(grid), gridValues)
	}
	dst, err := d.gridAt(loc)
	if err != nil {
		return err
	}
	copy(dst, grid)
	return nil
}

func (d *Dataset) gridAt(loc Location) ([]float64, error) {
	if d.closed {
		return nil, errors.Errorf("dataset %s is closed", d.path)
	}
	if loc.Hour < 0 || loc.Hour >= HourCount ||
		loc.Pressure < 0 || loc.Pressure >= PressureCount ||
		loc.Variable < 0 || loc.Variable >= VariableCount {
		return nil, errors.Errorf("location %+v out of range", loc)
	}
	start := loc.slot() * gridValues
	return d.array[start : start+gridValues], nil
}

// Close releases the mapping and the file handle. It is idempotent.
func (d *Dataset) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.logger.Infof("closing dataset %s %s", d.Time.Format(TimestampFormat), d.path)

	d.array = nil
	err := syswrap.Munmap(d.data)
	d.data = nil
	if d.file != nil {
		if cerr := syswrap.CloseFile(d.file); err == nil {
			err = cerr
		}
		d.file = nil
	}
	return errors.Wrap(err, "closing dataset")
}

// DatasetEntry describes one dataset-related file found in a directory.
type DatasetEntry struct {
	Time     time.Time
	Suffix   string
	Filename string
	Path     string
}

// ListDatasets enumerates the entries of directory whose filename's leading
// 10 characters parse as a TimestampFormat date-hour. Entries with an
// unparseable prefix are skipped. If any onlySuffixes are given, only
// entries whose remaining suffix is among them are returned.
func ListDatasets(directory string, onlySuffixes ...string) ([]DatasetEntry, error) {
	dirents, err := os.ReadDir(directory)
	if err != nil {
		return nil, errors.Wrap(err, "listing dataset directory")
	}

	var entries []DatasetEntry
	for _, de := range dirents {
		name := de.Name()
		if len(name) < 10 {
			continue
		}
		t, err := time.ParseInLocation(TimestampFormat, name[:10], time.UTC)
		if err != nil {
			continue
		}
		suffix := name[10:]
		if len(onlySuffixes) > 0 {
			ok := false
			for _, s := range onlySuffixes {
				if suffix == s {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		entries = append(entries, DatasetEntry{
			Time:     t,
			Suffix:   suffix,
			Filename: name,
			Path:     filepath.Join(directory, name),
		})
	}
	return entries, nil
}
