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

// Package instant contains the calendar instant used for encoding validity and
// system time intervals, together with its difference type Duration.
//
// An Instant is a naive (UTC) calendar date and time of day with millisecond
// resolution. Besides concrete values there are a few distinguished ones which
// take part in the ordinary arithmetic:
//
//	Nul (also Min) - the zero value, "no value" or the unbounded past
//	Max            - the unbounded future
//	AllDay         - a date without a time of day
//	AllSecond      - a time of day without milliseconds
//
// Diff and Add absorb Nul and Max, so the code which works with ranges can
// treat the unbounded ends uniformly with the concrete ones.
package instant

import (
	"math"
)

type (
	// Precision defines which fields of an Instant are significant.
	Precision uint8

	// Instant is a calendar timestamp. Fields are not checked on construction,
	// Fixup carries values which exceed their natural bounds into the next
	// unit.
	Instant struct {
		Year        int
		Month       int
		Day         int
		Hour        int
		Minute      int
		Second      int
		Millisecond int
		Precision   Precision

		max bool
	}
)

const (
	// Exact instants have all the fields significant
	Exact Precision = iota
	// AllSecond instants have no millisecond part, the instant covers the
	// whole second
	AllSecond
	// AllDay instants have no time of day, the instant covers the whole day
	AllDay
)

const (
	HoursPerDay = 24
	MinsPerHour = 60
	SecsPerMin  = 60
	MsecsPerSec = 1000
	SecsPerDay  = HoursPerDay * MinsPerHour * SecsPerMin
	MsecsPerDay = SecsPerDay * MsecsPerSec
	DaysPerYear = 365

	// MaxYear is the biggest year an Instant holds, results of the arithmetic
	// beyond it saturate to Max
	MaxYear = math.MaxUint16
)

var (
	// Nul is the zero Instant, it is the "unset" value and the minimum
	Nul = Instant{}
	// Min is the unbounded past, same as Nul
	Min = Nul
	// Max is the unbounded future
	Max = Instant{max: true}
)

// New returns an exact instant
func New(y, m, d, hour, min, sec, ms int) Instant {
	return Instant{Year: y, Month: m, Day: d, Hour: hour, Minute: min, Second: sec, Millisecond: ms}
}

// Date returns the instant which covers the whole day y-m-d
func Date(y, m, d int) Instant {
	return Instant{Year: y, Month: m, Day: d, Precision: AllDay}
}

// Seconds returns the instant which covers the whole second
func Seconds(y, m, d, hour, min, sec int) Instant {
	return Instant{Year: y, Month: m, Day: d, Hour: hour, Minute: min, Second: sec, Precision: AllSecond}
}

// IsNul returns whether i is the Nul (Min) instant
func (i Instant) IsNul() bool {
	return i == Nul
}

// IsMax returns whether i is the Max instant
func (i Instant) IsMax() bool {
	return i.max
}

// IsFinite returns true if i is neither Nul nor Max
func (i Instant) IsFinite() bool {
	return !i.max && i != Nul
}

// IsAllDay returns whether i is a finite date-only instant
func (i Instant) IsAllDay() bool {
	return i.IsFinite() && i.Precision == AllDay
}

// IsAllSecond returns whether i is a finite instant without milliseconds
func (i Instant) IsAllSecond() bool {
	return i.IsFinite() && i.Precision == AllSecond
}

// IsMidnight returns whether i is an exact instant at 00:00:00.000
func (i Instant) IsMidnight() bool {
	return i.IsFinite() && i.Precision == Exact &&
		i.Hour == 0 && i.Minute == 0 && i.Second == 0 && i.Millisecond == 0
}

// IsWholeSecond returns whether i is an exact instant with zero milliseconds
func (i Instant) IsWholeSecond() bool {
	return i.IsFinite() && i.Precision == Exact && i.Millisecond == 0
}

// Key packs the instant into a 64-bit value whose unsigned order is the order
// of instants. The hour and the millisecond slots are shifted by one, so the
// precision markers, which occupy 0 there, sort before every concrete value
// of the same date (second). Max is packed to all ones.
func (i Instant) Key() uint64 {
	if i.max {
		return math.MaxUint64
	}

	h := uint64(i.Hour) + 1
	mi := uint64(i.Minute)
	s := uint64(i.Second)
	ms := uint64(i.Millisecond) + 1
	switch i.Precision {
	case AllDay:
		h, mi, s, ms = 0, 0, 0, 0
	case AllSecond:
		ms = 0
	}
	return uint64(i.Year&0xffff)<<48 |
		uint64(i.Month&0xff)<<40 |
		uint64(i.Day&0xff)<<32 |
		(h&0xff)<<24 |
		(mi&0xff)<<16 |
		(s&0x3f)<<10 |
		ms&0x3ff
}

// Compare returns -1, 0 or 1 if i is less, equal or greater than other
func (i Instant) Compare(other Instant) int {
	k1, k2 := i.Key(), other.Key()
	switch {
	case k1 < k2:
		return -1
	case k1 > k2:
		return 1
	}
	return 0
}

// Less returns whether i is strictly before other
func (i Instant) Less(other Instant) bool {
	return i.Key() < other.Key()
}

// LessEq returns whether i is not after other
func (i Instant) LessEq(other Instant) bool {
	return i.Key() <= other.Key()
}

// Equal returns whether i and other are the same instant, including the
// precision
func (i Instant) Equal(other Instant) bool {
	return i == other
}

// Floor returns the exact instant where i begins: the midnight for a date-only
// instant, the .000 millisecond for a second-only one. Nul and Max are
// returned as is.
func (i Instant) Floor() Instant {
	if !i.IsFinite() {
		return i
	}
	switch i.Precision {
	case AllDay:
		i.Hour, i.Minute, i.Second, i.Millisecond = 0, 0, 0, 0
	case AllSecond:
		i.Millisecond = 0
	}
	i.Precision = Exact
	return i
}

// Ceil returns the exact instant where i ends (exclusive): the next midnight
// for a date-only instant, the next second for a second-only one.
func (i Instant) Ceil() Instant {
	if !i.IsFinite() {
		return i
	}
	switch i.Precision {
	case AllDay:
		i.Day++
		i.Hour, i.Minute, i.Second, i.Millisecond = 0, 0, 0, 0
	case AllSecond:
		i.Second++
		i.Millisecond = 0
	default:
		return i
	}
	i.Precision = Exact
	return Fixup(i)
}

// WithPrecision returns i with the precision p, the fields which are not
// significant for p are zeroed. Nul and Max are returned as is.
func (i Instant) WithPrecision(p Precision) Instant {
	if !i.IsFinite() {
		return i
	}
	switch p {
	case AllDay:
		i.Hour, i.Minute, i.Second, i.Millisecond = 0, 0, 0, 0
	case AllSecond:
		i.Millisecond = 0
	}
	i.Precision = p
	return i
}
