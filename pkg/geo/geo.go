// Copyright 2018-2019 The logrange Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package geo maps pairs of time ranges onto 2D boxes and back. The validity
// range is laid along the X axis, the system time range is laid along the Y
// axis. A coordinate is the number of days since the reference epoch scaled
// down by 2^ScaleExp, so the whole day space fits the latitude-like domain
// [-90, 90].
package geo

import (
	"math"
	"time"

	"github.com/logrange/geotime/pkg/instant"
	"github.com/logrange/geotime/pkg/trange"
)

type (
	// Box is a two corner box, (X1, Y1) is the lower left corner and (X2, Y2)
	// is the upper right one. The coordinates are in [-90, 90], which is the
	// [MinGeoFlt, MaxGeoFlt] day space scaled down by 2^ScaleExp. Coordinates
	// beyond it saturate.
	Box struct {
		X1, Y1 float64
		X2, Y2 float64
	}

	// Mapper converts boxes to ranges and back against the reference instant
	// Ref. Now is used as the beginning of the system time range when it is
	// omitted.
	Mapper struct {
		Ref instant.Instant
		Now instant.Instant
	}
)

const (
	// MaxGeoFlt is the biggest value in the day space, everything at or beyond
	// it is the +inf duration
	MaxGeoFlt = 90. * 128.
	// MinGeoFlt is the smallest value in the day space
	MinGeoFlt = -MaxGeoFlt
	// ScaleExp is the binary exponent between the day space and the box
	// coordinates
	ScaleExp = 7
)

// RefEpoch is the default reference instant, 2000-01-01T00:00:00.000
var RefEpoch = instant.New(2000, 1, 1, 0, 0, 0, 0)

// NewMapper returns the Mapper with the default reference epoch. The now
// time is taken with the second precision.
func NewMapper(now time.Time) *Mapper {
	return &Mapper{Ref: RefEpoch, Now: instant.FromTime(now.Truncate(time.Second))}
}

// DurationToGeo returns the fractional number of days in d clamped to the
// [MinGeoFlt, MaxGeoFlt] domain
func DurationToGeo(d instant.Duration) float64 {
	switch {
	case d.IsMax():
		return MaxGeoFlt
	case d.IsMin():
		return MinGeoFlt
	}

	r := float64(d.Days) + float64(d.Intra)/instant.MsecsPerDay
	switch {
	case r >= MaxGeoFlt:
		return MaxGeoFlt
	case r <= MinGeoFlt:
		return MinGeoFlt
	}
	return r
}

// GeoToDuration is the inverse of DurationToGeo. The whole part of v (rounded
// down) is the days, the fraction is rounded to milliseconds. Values at or
// beyond the domain bounds saturate to the infinite durations, NaN is the
// -inf one.
func GeoToDuration(v float64) instant.Duration {
	switch {
	case math.IsNaN(v) || v <= MinGeoFlt:
		return instant.MinDuration
	case v >= MaxGeoFlt:
		return instant.MaxDuration
	}

	days := math.Floor(v)
	intra := math.Round((v - days) * instant.MsecsPerDay)
	if intra >= instant.MsecsPerDay {
		days++
		intra = 0
	}
	return instant.Duration{Days: int32(days), Intra: uint32(intra)}
}

// ToRanges returns the validity and the system time ranges encoded by b.
//
// When both validity bounds are whole days from a midnight reference, the
// validity range is a range of days: its upper bound is moved one day back
// (the box is end-exclusive, the range is not) and both ends become date-only
// instants. The system time range is always exact.
func (m *Mapper) ToRanges(b Box) (valid, sys trange.Range) {
	vl := GeoToDuration(math.Ldexp(b.X1, ScaleExp))
	vu := GeoToDuration(math.Ldexp(b.X2, ScaleExp))
	sl := GeoToDuration(math.Ldexp(b.Y1, ScaleExp))
	su := GeoToDuration(math.Ldexp(b.Y2, ScaleExp))

	allDay := vl.Intra == 0 && vu.Intra == 0 && m.Ref.IsMidnight()
	if allDay {
		vu = vu.AddDays(-1)
	}

	valid = trange.Add(trange.DurationRange{Lower: vl, Upper: vu}, m.Ref)
	if allDay {
		valid.Beg = valid.Beg.WithPrecision(instant.AllDay)
		valid.End = valid.End.WithPrecision(instant.AllDay)
	}
	sys = trange.Add(trange.DurationRange{Lower: sl, Upper: su}, m.Ref)
	return valid, sys
}

// ToBox returns the box for the validity and the system time ranges. The
// system time range with no beginning is replaced by [Now, Max].
func (m *Mapper) ToBox(valid, sys trange.Range) Box {
	if sys.Beg.IsNul() {
		sys = trange.New(m.Now, instant.Max)
	}
	v := trange.Diff(valid, m.Ref)
	s := trange.Diff(sys, m.Ref)
	return Box{
		X1: math.Ldexp(DurationToGeo(v.Lower), -ScaleExp),
		Y1: math.Ldexp(DurationToGeo(s.Lower), -ScaleExp),
		X2: math.Ldexp(DurationToGeo(v.Upper), -ScaleExp),
		Y2: math.Ldexp(DurationToGeo(s.Upper), -ScaleExp),
	}
}
