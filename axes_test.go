// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package tawhiri_test

import (
	"testing"

	tawhiri "github.com/KerlinMichel/tawhiri"
	"github.com/KerlinMichel/tawhiri/errors"
)

// Ensure the axes match the fixed dataset shape.
func TestAxes_Shape(t *testing.T) {
	a := tawhiri.Axes
	if len(a.Hour) != tawhiri.HourCount {
		t.Fatalf("hour axis has %d values, want %d", len(a.Hour), tawhiri.HourCount)
	} else if len(a.Pressure) != tawhiri.PressureCount {
		t.Fatalf("pressure axis has %d values, want %d", len(a.Pressure), tawhiri.PressureCount)
	} else if len(a.Variable) != tawhiri.VariableCount {
		t.Fatalf("variable axis has %d values, want %d", len(a.Variable), tawhiri.VariableCount)
	} else if len(a.Latitude) != tawhiri.LatitudeCount {
		t.Fatalf("latitude axis has %d values, want %d", len(a.Latitude), tawhiri.LatitudeCount)
	} else if len(a.Longitude) != tawhiri.LongitudeCount {
		t.Fatalf("longitude axis has %d values, want %d", len(a.Longitude), tawhiri.LongitudeCount)
	}

	// The pressure axis is sorted descending with no duplicates.
	for i := 1; i < len(a.Pressure); i++ {
		if a.Pressure[i] >= a.Pressure[i-1] {
			t.Fatalf("pressure axis not descending at %d: %d >= %d", i, a.Pressure[i], a.Pressure[i-1])
		}
	}
}

func TestAxes_HourIndex(t *testing.T) {
	a := tawhiri.Axes
	for _, tt := range []struct {
		hour int
		idx  int
	}{
		{0, 0},
		{3, 1},
		{96, 32},
		{192, 64},
	} {
		idx, err := a.HourIndex(tt.hour)
		if err != nil {
			t.Fatalf("HourIndex(%d): %v", tt.hour, err)
		} else if idx != tt.idx {
			t.Fatalf("HourIndex(%d)=%d, want %d", tt.hour, idx, tt.idx)
		}
	}

	for _, hour := range []int{-3, 1, 2, 193, 195} {
		if _, err := a.HourIndex(hour); !errors.Is(err, tawhiri.ErrAxisValue) {
			t.Fatalf("HourIndex(%d): expected axis value error, got %v", hour, err)
		}
	}
}

func TestAxes_PressureIndex(t *testing.T) {
	a := tawhiri.Axes

	// 1000 is the largest level, so it sorts first on the descending axis.
	idx, err := a.PressureIndex(1000)
	if err != nil {
		t.Fatal(err)
	} else if idx != 0 {
		t.Fatalf("PressureIndex(1000)=%d, want 0", idx)
	}

	// 1 is the smallest level.
	idx, err = a.PressureIndex(1)
	if err != nil {
		t.Fatal(err)
	} else if idx != tawhiri.PressureCount-1 {
		t.Fatalf("PressureIndex(1)=%d, want %d", idx, tawhiri.PressureCount-1)
	}

	// Every level on the axis resolves to its own position.
	for i, level := range a.Pressure {
		idx, err := a.PressureIndex(level)
		if err != nil {
			t.Fatal(err)
		} else if idx != i {
			t.Fatalf("PressureIndex(%d)=%d, want %d", level, idx, i)
		}
	}

	if _, err := a.PressureIndex(999); !errors.Is(err, tawhiri.ErrAxisValue) {
		t.Fatalf("expected axis value error, got %v", err)
	}
}

func TestAxes_VariableIndex(t *testing.T) {
	a := tawhiri.Axes
	for i, name := range []string{"height", "wind_u", "wind_v"} {
		idx, err := a.VariableIndex(name)
		if err != nil {
			t.Fatal(err)
		} else if idx != i {
			t.Fatalf("VariableIndex(%q)=%d, want %d", name, idx, i)
		}
	}
	if _, err := a.VariableIndex("temperature"); !errors.Is(err, tawhiri.ErrAxisValue) {
		t.Fatalf("expected axis value error, got %v", err)
	}
}

func TestAxes_LatitudeLongitudeIndex(t *testing.T) {
	a := tawhiri.Axes

	for _, tt := range []struct {
		lat float64
		idx int
	}{
		{-90, 0},
		{-89.5, 1},
		{0, 180},
		{90, 360},
	} {
		idx, err := a.LatitudeIndex(tt.lat)
		if err != nil {
			t.Fatalf("LatitudeIndex(%v): %v", tt.lat, err)
		} else if idx != tt.idx {
			t.Fatalf("LatitudeIndex(%v)=%d, want %d", tt.lat, idx, tt.idx)
		}
	}
	for _, lat := range []float64{-90.5, 90.5, 0.25} {
		if _, err := a.LatitudeIndex(lat); !errors.Is(err, tawhiri.ErrAxisValue) {
			t.Fatalf("LatitudeIndex(%v): expected axis value error, got %v", lat, err)
		}
	}

	for _, tt := range []struct {
		lon float64
		idx int
	}{
		{0, 0},
		{0.5, 1},
		{180, 360},
		{359.5, 719},
	} {
		idx, err := a.LongitudeIndex(tt.lon)
		if err != nil {
			t.Fatalf("LongitudeIndex(%v): %v", tt.lon, err)
		} else if idx != tt.idx {
			t.Fatalf("LongitudeIndex(%v)=%d, want %d", tt.lon, idx, tt.idx)
		}
	}
	for _, lon := range []float64{-0.5, 360, 12.3} {
		if _, err := a.LongitudeIndex(lon); !errors.Is(err, tawhiri.ErrAxisValue) {
			t.Fatalf("LongitudeIndex(%v): expected axis value error, got %v", lon, err)
		}
	}
}

func TestAxes_LocateTriple(t *testing.T) {
	loc, err := tawhiri.Axes.LocateTriple(tawhiri.Triple{Hour: 0, Pressure: 1000, Variable: "height"})
	if err != nil {
		t.Fatal(err)
	} else if loc != (tawhiri.Location{Hour: 0, Pressure: 0, Variable: 0}) {
		t.Fatalf("unexpected location: %+v", loc)
	}

	for _, triple := range []tawhiri.Triple{
		{Hour: 1, Pressure: 1000, Variable: "height"},
		{Hour: 0, Pressure: 999, Variable: "height"},
		{Hour: 0, Pressure: 1000, Variable: "temperature"},
	} {
		if _, err := tawhiri.Axes.LocateTriple(triple); !errors.Is(err, tawhiri.ErrUnknownLocation) {
			t.Fatalf("LocateTriple(%s): expected unknown location error, got %v", triple, err)
		}
	}
}
