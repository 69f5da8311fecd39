// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package tawhiri

import (
	"fmt"
	"math"
	"sort"

	"github.com/KerlinMichel/tawhiri/errors"
)

// The fixed extent of every dataset array, in axis order
// (hour, pressure, variable, latitude, longitude). These are load-time
// constants; they are never derived from data.
const (
	HourCount      = 65
	PressureCount  = 47
	VariableCount  = 3
	LatitudeCount  = 361
	LongitudeCount = 720
)

// Shape is the dataset array shape in axis order.
var Shape = [5]int{HourCount, PressureCount, VariableCount, LatitudeCount, LongitudeCount}

// The pressure levels present in each of the two GFS file sets. Their merged,
// descending-sorted union forms the pressure axis.
var (
	pressuresPgrb2f = []int{10, 20, 30, 50, 70, 100, 150, 200, 250, 300, 350, 400,
		450, 500, 550, 600, 650, 700, 750, 800, 850, 900, 925,
		950, 975, 1000}
	pressuresPgrb2bf = []int{1, 2, 3, 5, 7, 125, 175, 225, 275, 325, 375, 425,
		475, 525, 575, 625, 675, 725, 775, 825, 875}
)

// Variable names, in axis order.
const (
	VariableHeight = "height"
	VariableWindU  = "wind_u"
	VariableWindV  = "wind_v"
)

// AxisSet holds the five ordered axes of the dataset array.
type AxisSet struct {
	Hour      []int
	Pressure  []int
	Variable  []string
	Latitude  []float64
	Longitude []float64
}

// Axes is the fixed axis description shared by all datasets.
var Axes = newAxes()

func newAxes() *AxisSet {
	a := &AxisSet{
		Hour:      make([]int, 0, HourCount),
		Pressure:  make([]int, 0, PressureCount),
		Variable:  []string{VariableHeight, VariableWindU, VariableWindV},
		Latitude:  make([]float64, 0, LatitudeCount),
		Longitude: make([]float64, 0, LongitudeCount),
	}

	for hour := 0; hour <= 192; hour += 3 {
		a.Hour = append(a.Hour, hour)
	}
	a.Pressure = append(a.Pressure, pressuresPgrb2f...)
	a.Pressure = append(a.Pressure, pressuresPgrb2bf...)
	sort.Sort(sort.Reverse(sort.IntSlice(a.Pressure)))
	for i := 0; i < LatitudeCount; i++ {
		a.Latitude = append(a.Latitude, -90+float64(i)*0.5)
	}
	for i := 0; i < LongitudeCount; i++ {
		a.Longitude = append(a.Longitude, float64(i)*0.5)
	}

	if len(a.Hour) != HourCount || len(a.Pressure) != PressureCount ||
		len(a.Variable) != VariableCount || len(a.Latitude) != LatitudeCount ||
		len(a.Longitude) != LongitudeCount {
		panic("axes do not match the fixed dataset shape")
	}
	return a
}

// HourIndex returns the position of hour on the hour axis (0..192 step 3).
// The axis is evenly spaced, so the position is computed directly.
func (a *AxisSet) HourIndex(hour int) (int, error) {
	if hour < 0 || hour > 192 || hour%3 != 0 {
		return 0, errors.Newf(ErrAxisValue, "hour %d is not on the hour axis", hour)
	}
	return hour / 3, nil
}

// PressureIndex returns the position of level on the descending-sorted
// pressure axis. The axis has 47 entries; a linear scan is fine.
func (a *AxisSet) PressureIndex(level int) (int, error) {
	for i, p := range a.Pressure {
		if p == level {
			return i, nil
		}
	}
	return 0, errors.Newf(ErrAxisValue, "pressure level %d is not on the pressure axis", level)
}

// VariableIndex returns the position of name on the variable axis.
func (a *AxisSet) VariableIndex(name string) (int, error) {
	for i, v := range a.Variable {
		if v == name {
			return i, nil
		}
	}
	return 0, errors.Newf(ErrAxisValue, "variable %q is not on the variable axis", name)
}

// LatitudeIndex returns the position of lat on the latitude axis
// (-90..90 step 0.5), computed directly from the uniform spacing.
func (a *AxisSet) LatitudeIndex(lat float64) (int, error) {
	i, ok := uniformIndex(lat, -90, 0.5, LatitudeCount)
	if !ok {
		return 0, errors.Newf(ErrAxisValue, "latitude %v is not on the latitude axis", lat)
	}
	return i, nil
}

// LongitudeIndex returns the position of lon on the longitude axis
// (0..359.5 step 0.5), computed directly from the uniform spacing.
func (a *AxisSet) LongitudeIndex(lon float64) (int, error) {
	i, ok := uniformIndex(lon, 0, 0.5, LongitudeCount)
	if !ok {
		return 0, errors.Newf(ErrAxisValue, "longitude %v is not on the longitude axis", lon)
	}
	return i, nil
}

func uniformIndex(value, start, step float64, count int) (int, bool) {
	pos := (value - start) / step
	i := int(math.Round(pos))
	if i < 0 || i >= count || math.Abs(pos-float64(i)) > 1e-9 {
		return 0, false
	}
	return i, true
}

// Location is one (hour, pressure, variable) position in the dataset array
// and the checklist, expressed as axis indices.
type Location struct {
	Hour     int
	Pressure int
	Variable int
}

// slot flattens the location into the row-major slot number shared by the
// checklist bitmap and the dataset array layout.
func (l Location) slot() int {
	return (l.Hour*PressureCount+l.Pressure)*VariableCount + l.Variable
}

// Triple identifies a record by its axis values rather than indices: the
// forecast hour, pressure level and variable name.
type Triple struct {
	Hour     int
	Pressure int
	Variable string
}

func (t Triple) String() string {
	return fmt.Sprintf("(%d, %d, %s)", t.Hour, t.Pressure, t.Variable)
}

// LocateTriple resolves a triple to its array location. It fails with
// ErrUnknownLocation if any axis lookup misses.
func (a *AxisSet) LocateTriple(t Triple) (Location, error) {
	hour, err := a.HourIndex(t.Hour)
	if err != nil {
		return Location{}, errors.Newf(ErrUnknownLocation, "no position for record %s: %v", t, err)
	}
	pressure, err := a.PressureIndex(t.Pressure)
	if err != nil {
		return Location{}, errors.Newf(ErrUnknownLocation, "no position for record %s: %v", t, err)
	}
	variable, err := a.VariableIndex(t.Variable)
	if err != nil {
		return Location{}, errors.Newf(ErrUnknownLocation, "no position for record %s: %v", t, err)
	}
	return Location{Hour: hour, Pressure: pressure, Variable: variable}, nil
}
