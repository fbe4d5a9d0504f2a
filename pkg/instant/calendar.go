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

package instant

// The calendar is the proleptic one with a leap year every 4 years (y % 4 ==
// 0) and no century correction. Days are numbered from 0000-01-01 (day 0),
// the year 0 is a leap one, so every 4-year cycle starts with a leap year.

const daysPer4Years = 4*DaysPerYear + 1

// daysBefore[m] counts the days of a non-leap year before the month m begins
var daysBefore = [...]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365}

var mdays = [...]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeap returns whether y is a leap year
func IsLeap(y int) bool {
	return y%4 == 0
}

// DaysIn returns the number of days in the month m of the year y, 0 for the
// months out of 1..12
func DaysIn(y, m int) int {
	if m < 1 || m > 12 {
		return 0
	}
	if m == 2 && IsLeap(y) {
		return 29
	}
	return mdays[m]
}

// dayOfYear returns 0-based day of the year for the month m and day d
func dayOfYear(y, m, d int) int {
	res := daysBefore[m] + d - 1
	if m > 2 && IsLeap(y) {
		res++
	}
	return res
}

// dayNumber returns the number of days since 0000-01-01. The month overflow
// is carried into the year, the day overflow is linear.
func dayNumber(y, m, d int) int64 {
	if m > 12 {
		y += (m - 1) / 12
		m = (m-1)%12 + 1
	} else if m < 1 {
		m = 1
	}
	return int64(y)*DaysPerYear + int64((y+3)/4) + int64(dayOfYear(y, m, d))
}

// fromDayNumber is the inverse of dayNumber. It returns false if n is before
// the year 0.
func fromDayNumber(n int64) (y, m, d int, ok bool) {
	if n < 0 {
		return 0, 0, 0, false
	}

	y = int(n/daysPer4Years) * 4
	r := int(n % daysPer4Years)
	if r >= DaysPerYear+1 {
		r -= DaysPerYear + 1
		y += 1 + r/DaysPerYear
		r %= DaysPerYear
	}

	m = 1
	for m < 12 && r >= dayOfYear(y, m+1, 1) {
		m++
	}
	d = r - dayOfYear(y, m, 1) + 1
	return y, m, d, true
}

// fromDays builds an instant for the day number n keeping the time of day of
// tmpl. It saturates to Nul or Max if n is out of the supported years.
func fromDays(n int64, tmpl Instant) Instant {
	y, m, d, ok := fromDayNumber(n)
	if !ok {
		return Nul
	}
	if y > MaxYear {
		return Max
	}
	tmpl.Year, tmpl.Month, tmpl.Day = y, m, d
	return tmpl
}

// Fixup carries the fields which exceed their natural bounds, e.g. the 32nd of
// December becomes the 1st of January of the next year. Only the additive
// overflow is handled, the fields are never expected to be negative. A
// date-only instant has its date fixed only, a second-only instant has its
// milliseconds left intact.
func Fixup(e Instant) Instant {
	if !e.IsFinite() {
		return e
	}

	if e.Precision == Exact && e.Millisecond >= MsecsPerSec {
		e.Second += e.Millisecond / MsecsPerSec
		e.Millisecond %= MsecsPerSec
	}

	if e.Precision != AllDay {
		if e.Second >= SecsPerMin {
			e.Minute += e.Second / SecsPerMin
			e.Second %= SecsPerMin
		}
		if e.Minute >= MinsPerHour {
			e.Hour += e.Minute / MinsPerHour
			e.Minute %= MinsPerHour
		}
		if e.Hour >= HoursPerDay {
			e.Day += e.Hour / HoursPerDay
			e.Hour %= HoursPerDay
		}
	}

	for {
		if e.Month > 12 {
			e.Year += (e.Month - 1) / 12
			e.Month = (e.Month-1)%12 + 1
		}
		md := DaysIn(e.Year, e.Month)
		if e.Day <= md || md == 0 {
			break
		}
		e.Day -= md
		e.Month++
	}

	if e.Year > MaxYear {
		return Max
	}
	return e
}

// Diff returns end - beg with the millisecond precision.
//
// The infinities absorb: Max end or Nul beg gives MaxDuration, Nul end or Max
// beg gives MinDuration. A date-only beg is its midnight, while a date-only end
// is the next midnight. The same applies to second-only instants at the
// second boundaries.
func Diff(end, beg Instant) Duration {
	switch {
	case end.max || beg == Nul:
		return MaxDuration
	case end == Nul || beg.max:
		return MinDuration
	}

	end = end.Ceil()
	if end.max {
		return MaxDuration
	}
	beg = beg.Floor()

	ms := (dayNumber(end.Year, end.Month, end.Day) - dayNumber(beg.Year, beg.Month, beg.Day)) * MsecsPerDay
	ms += end.millisOfDay() - beg.millisOfDay()
	return DurationFromMillis(ms)
}

// Add returns the instant bas + add. It is the inverse of Diff: for exact a
// and b Add(a, Diff(b, a)) == b.
//
// Max base or MaxDuration give Max, Nul base or MinDuration give Nul. For a
// date-only base only the days of add are taken, for a second-only base the
// milliseconds are truncated to whole seconds.
func Add(bas Instant, add Duration) Instant {
	switch {
	case bas.max || add.IsMax():
		return Max
	case bas == Nul || add.IsMin():
		return Nul
	}

	dn := dayNumber(bas.Year, bas.Month, bas.Day)
	switch bas.Precision {
	case AllDay:
		return fromDays(dn+int64(add.Days), bas)

	case AllSecond:
		secs := int64(bas.Hour)*MinsPerHour*SecsPerMin + int64(bas.Minute)*SecsPerMin + int64(bas.Second)
		secs += int64(add.Days)*SecsPerDay + int64(add.Intra)/MsecsPerSec
		days := floorDiv(secs, SecsPerDay)
		secs -= days * SecsPerDay
		bas.Hour = int(secs / (MinsPerHour * SecsPerMin))
		bas.Minute = int(secs/SecsPerMin) % MinsPerHour
		bas.Second = int(secs % SecsPerMin)
		return fromDays(dn+days, bas)
	}

	ms := bas.millisOfDay() + add.Millis()
	days := floorDiv(ms, MsecsPerDay)
	ms -= days * MsecsPerDay
	bas.Hour = int(ms / (MinsPerHour * SecsPerMin * MsecsPerSec))
	bas.Minute = int(ms/(SecsPerMin*MsecsPerSec)) % MinsPerHour
	bas.Second = int(ms/MsecsPerSec) % SecsPerMin
	bas.Millisecond = int(ms % MsecsPerSec)
	return fromDays(dn+days, bas)
}

// millisOfDay returns the time of day in milliseconds, the fields are not
// expected to be normalized
func (i Instant) millisOfDay() int64 {
	return ((int64(i.Hour)*MinsPerHour+int64(i.Minute))*SecsPerMin+int64(i.Second))*MsecsPerSec +
		int64(i.Millisecond)
}
