// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package tawhiri_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tawhiri "github.com/KerlinMichel/tawhiri"
	"github.com/KerlinMichel/tawhiri/errors"
	"github.com/KerlinMichel/tawhiri/syswrap"
)

func mustDatasetTime(t testing.TB, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation(tawhiri.TimestampFormat, s, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestDatasetPath(t *testing.T) {
	ts := mustDatasetTime(t, "2024010100")
	got := tawhiri.DatasetPath("/srv/ds", ts, tawhiri.SuffixGribMirror)
	want := filepath.Join("/srv/ds", "2024010100.gribmirror")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// Ensure a created dataset has exactly the fixed byte length and round-trips
// a grid slice. The backing file is sparse, so only written pages cost
// actual space.
func TestDataset_CreateWriteRead(t *testing.T) {
	if testing.Short() {
		t.Skip("maps a full-size dataset file")
	}
	dir := t.TempDir()
	ts := mustDatasetTime(t, "2024010106")

	ds, err := tawhiri.CreateDataset(dir, ts, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	fi, err := os.Stat(ds.Path())
	if err != nil {
		t.Fatal(err)
	} else if fi.Size() != tawhiri.DatasetByteSize {
		t.Fatalf("file is %d bytes, want %d", fi.Size(), tawhiri.DatasetByteSize)
	}

	loc := tawhiri.Location{Hour: 5, Pressure: 12, Variable: 2}
	grid := make([]float64, tawhiri.LatitudeCount*tawhiri.LongitudeCount)
	for i := range grid {
		grid[i] = float64(i%97) / 3
	}
	if err := ds.WriteGrid(loc, grid); err != nil {
		t.Fatal(err)
	}

	got, err := ds.ReadGrid(loc)
	if err != nil {
		t.Fatal(err)
	}
	for i := range grid {
		if got[i] != grid[i] {
			t.Fatalf("value %d: got %v, want %v", i, got[i], grid[i])
		}
	}

	// A fresh mapping is zero-filled everywhere else.
	other, err := ds.ReadGrid(tawhiri.Location{Hour: 5, Pressure: 12, Variable: 1})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range other {
		if v != 0 {
			t.Fatalf("untouched slot has nonzero value %v at %d", v, i)
		}
	}
}

func TestDataset_WriteGrid_BadShape(t *testing.T) {
	if testing.Short() {
		t.Skip("maps a full-size dataset file")
	}
	dir := t.TempDir()
	ds, err := tawhiri.CreateDataset(dir, mustDatasetTime(t, "2024010112"), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	err = ds.WriteGrid(tawhiri.Location{}, make([]float64, 10))
	if !errors.Is(err, tawhiri.ErrGridShape) {
		t.Fatalf("expected grid shape error, got %v", err)
	}
}

// Ensure reopening an existing dataset sees earlier writes and that a
// read-only dataset rejects writes.
func TestDataset_Reopen(t *testing.T) {
	if testing.Short() {
		t.Skip("maps a full-size dataset file")
	}
	dir := t.TempDir()
	ts := mustDatasetTime(t, "2024010118")
	loc := tawhiri.Location{Hour: 1, Pressure: 1, Variable: 1}

	ds, err := tawhiri.CreateDataset(dir, ts, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	grid := make([]float64, tawhiri.LatitudeCount*tawhiri.LongitudeCount)
	grid[42] = 42.5
	if err := ds.WriteGrid(loc, grid); err != nil {
		t.Fatal(err)
	}
	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}

	ro, err := tawhiri.OpenDataset(dir, ts, "", false, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ro.Close()

	got, err := ro.ReadGrid(loc)
	if err != nil {
		t.Fatal(err)
	} else if got[42] != 42.5 {
		t.Fatalf("got %v, want 42.5", got[42])
	}

	if err := ro.WriteGrid(loc, grid); err == nil {
		t.Fatal("write to read-only dataset succeeded")
	}
}

func TestOpenDataset_SizeMismatch(t *testing.T) {
	dir := t.TempDir()
	ts := mustDatasetTime(t, "2024010200")

	if err := os.WriteFile(tawhiri.DatasetPath(dir, ts, ""), []byte("too small"), 0o666); err != nil {
		t.Fatal(err)
	}
	_, err := tawhiri.OpenDataset(dir, ts, "", false, nil)
	if !errors.Is(err, tawhiri.ErrDatasetSize) {
		t.Fatalf("expected dataset size error, got %v", err)
	}
}

func TestDataset_Close_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("maps a full-size dataset file")
	}
	dir := t.TempDir()
	ds, err := tawhiri.CreateDataset(dir, mustDatasetTime(t, "2024010206"), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ds.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := ds.ReadGrid(tawhiri.Location{}); err == nil {
		t.Fatal("read after close succeeded")
	}
}

// Ensure a dataset opened past the open-file soft limit releases its
// descriptor early and still works: the mapping outlives the descriptor.
func TestDataset_OverFileLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("maps a full-size dataset file")
	}
	syswrap.SetMaxFileCount(0)
	defer syswrap.SetMaxFileCount(500000)

	dir := t.TempDir()
	ds, err := tawhiri.CreateDataset(dir, mustDatasetTime(t, "2024010212"), "", nil)
	if err != nil {
		t.Fatal(err)
	}

	loc := tawhiri.Location{Hour: 4, Pressure: 4, Variable: 0}
	grid := make([]float64, tawhiri.LatitudeCount*tawhiri.LongitudeCount)
	grid[11] = 11.5
	if err := ds.WriteGrid(loc, grid); err != nil {
		t.Fatal(err)
	}
	got, err := ds.ReadGrid(loc)
	if err != nil {
		t.Fatal(err)
	} else if got[11] != 11.5 {
		t.Fatalf("got %v, want 11.5", got[11])
	}

	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ds.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestListDatasets(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2024010100", "2024010100.gribmirror", "notadate.tmp"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o666); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := tawhiri.ListDatasets(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	want := mustDatasetTime(t, "2024010100")
	for _, e := range entries {
		if !e.Time.Equal(want) {
			t.Fatalf("entry %q has time %v", e.Filename, e.Time)
		}
		if e.Path != filepath.Join(dir, e.Filename) {
			t.Fatalf("entry %q has path %q", e.Filename, e.Path)
		}
		if e.Suffix != "" && e.Suffix != tawhiri.SuffixGribMirror {
			t.Fatalf("entry %q has suffix %q", e.Filename, e.Suffix)
		}
	}

	// Restartable: a second enumeration yields the same entries.
	again, err := tawhiri.ListDatasets(dir)
	if err != nil {
		t.Fatal(err)
	} else if len(again) != len(entries) {
		t.Fatalf("second listing has %d entries, want %d", len(again), len(entries))
	}

	// Suffix filter.
	mirrors, err := tawhiri.ListDatasets(dir, tawhiri.SuffixGribMirror)
	if err != nil {
		t.Fatal(err)
	}
	if len(mirrors) != 1 || mirrors[0].Filename != "2024010100.gribmirror" {
		t.Fatalf("unexpected mirror listing: %+v", mirrors)
	}
}
