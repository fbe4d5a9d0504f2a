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

package geo

import (
	"math"
	"testing"
	"time"

	"github.com/logrange/geotime/pkg/instant"
	"github.com/logrange/geotime/pkg/trange"
	"github.com/stretchr/testify/assert"
)

func TestGeoToDuration(t *testing.T) {
	testGeoToDuration(t, 0, instant.NulDuration)
	testGeoToDuration(t, 1.5, instant.Duration{Days: 1, Intra: instant.MsecsPerDay / 2})
	testGeoToDuration(t, -0.25, instant.Duration{Days: -1, Intra: instant.MsecsPerDay * 3 / 4})
	testGeoToDuration(t, 11519.75, instant.Duration{Days: 11519, Intra: instant.MsecsPerDay * 3 / 4})
	testGeoToDuration(t, MaxGeoFlt, instant.MaxDuration)
	testGeoToDuration(t, 20000, instant.MaxDuration)
	testGeoToDuration(t, MinGeoFlt, instant.MinDuration)
	testGeoToDuration(t, -20000, instant.MinDuration)
	testGeoToDuration(t, math.NaN(), instant.MinDuration)
	testGeoToDuration(t, math.Inf(1), instant.MaxDuration)
	// the fraction is rounded up to the next day
	testGeoToDuration(t, 2.9999999999, instant.Duration{Days: 3})
}

func testGeoToDuration(t *testing.T, v float64, exp instant.Duration) {
	assert.Equal(t, exp, GeoToDuration(v), "value %f", v)
}

func TestDurationToGeo(t *testing.T) {
	assert.Equal(t, 0.0, DurationToGeo(instant.NulDuration))
	assert.Equal(t, 1.5, DurationToGeo(instant.Duration{Days: 1, Intra: instant.MsecsPerDay / 2}))
	assert.Equal(t, -0.25, DurationToGeo(instant.Duration{Days: -1, Intra: instant.MsecsPerDay * 3 / 4}))
	assert.Equal(t, MaxGeoFlt, DurationToGeo(instant.MaxDuration))
	assert.Equal(t, MinGeoFlt, DurationToGeo(instant.MinDuration))
	assert.Equal(t, MaxGeoFlt, DurationToGeo(instant.Duration{Days: 100000}))
	assert.Equal(t, MinGeoFlt, DurationToGeo(instant.Duration{Days: -100000}))

	for _, v := range []float64{0, 1, 100, 200, -3.5, 1234.125, MaxGeoFlt, MinGeoFlt} {
		assert.Equal(t, v, DurationToGeo(GeoToDuration(v)), "value %f", v)
	}
}

func TestRoundTripDays(t *testing.T) {
	m := &Mapper{Ref: RefEpoch}
	// 100 and 200 days
	b := Box{X1: 0, Y1: 0, X2: 100. / 128., Y2: 200. / 128.}

	valid, sys := m.ToRanges(b)
	assert.Equal(t, trange.New(instant.Date(2000, 1, 1), instant.Date(2000, 4, 9)), valid)
	assert.Equal(t, trange.New(RefEpoch, instant.New(2000, 7, 19, 0, 0, 0, 0)), sys)
	assert.Equal(t, b, m.ToBox(valid, sys))
}

func TestRoundTripFractions(t *testing.T) {
	m := &Mapper{Ref: RefEpoch}
	b := Box{X1: -1. / 128., Y1: 0.5 / 128., X2: 100.25 / 128., Y2: 200.125 / 128.}

	valid, sys := m.ToRanges(b)
	assert.Equal(t, trange.New(instant.New(1999, 12, 31, 0, 0, 0, 0), instant.New(2000, 4, 10, 6, 0, 0, 0)), valid)
	assert.Equal(t, trange.New(instant.New(2000, 1, 1, 12, 0, 0, 0), instant.New(2000, 7, 19, 3, 0, 0, 0)), sys)
	assert.Equal(t, b, m.ToBox(valid, sys))
}

func TestSaturation(t *testing.T) {
	m := &Mapper{Ref: RefEpoch}

	valid, sys := m.ToRanges(Box{X1: 0, Y1: 0, X2: 90, Y2: 1000})
	assert.Equal(t, trange.New(instant.Date(2000, 1, 1), instant.Max), valid)
	assert.Equal(t, trange.New(RefEpoch, instant.Max), sys)
	assert.Equal(t, Box{X1: 0, Y1: 0, X2: 90, Y2: 90}, m.ToBox(valid, sys))

	// coordinates beyond 90 are beyond MaxGeoFlt days
	valid, sys = m.ToRanges(Box{X1: 0, Y1: 0, X2: 100, Y2: 200})
	assert.Equal(t, "2000-01-01--", valid.String())
	assert.Equal(t, "2000-01-01T00:00:00.000--", sys.String())
	assert.Equal(t, Box{X1: 0, Y1: 0, X2: 90, Y2: 90}, m.ToBox(valid, sys))

	valid, sys = m.ToRanges(Box{X1: 0, Y1: 0, X2: MaxGeoFlt, Y2: MaxGeoFlt})
	assert.Equal(t, Box{X1: 0, Y1: 0, X2: 90, Y2: 90}, m.ToBox(valid, sys))
	assert.Equal(t, MaxGeoFlt, math.Ldexp(90, ScaleExp))
	assert.Equal(t, MaxGeoFlt, DurationToGeo(GeoToDuration(math.Ldexp(90, ScaleExp))))

	valid, _ = m.ToRanges(Box{X1: -90, Y1: 0, X2: 90, Y2: 0})
	assert.True(t, valid.IsMax())
	b := m.ToBox(trange.Max, trange.New(RefEpoch, RefEpoch))
	assert.Equal(t, -90.0, b.X1)
	assert.Equal(t, 90.0, b.X2)
}

func TestNowSystemRange(t *testing.T) {
	m := NewMapper(time.Date(2000, 1, 11, 0, 0, 0, 500*int(time.Millisecond), time.UTC))
	assert.Equal(t, instant.New(2000, 1, 11, 0, 0, 0, 0), m.Now)

	valid := trange.New(instant.Date(2000, 1, 1), instant.Date(2000, 1, 1))
	b := m.ToBox(valid, trange.Nul)
	assert.Equal(t, Box{X1: 0, Y1: 10. / 128., X2: 1. / 128., Y2: 90}, b)

	// an omitted begin is an omitted range
	b = m.ToBox(valid, trange.Max)
	assert.Equal(t, Box{X1: 0, Y1: 10. / 128., X2: 1. / 128., Y2: 90}, b)
}
