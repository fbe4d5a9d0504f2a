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

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// ErrMalformed is returned when a text could not be parsed as an instant
var ErrMalformed = errors.New("malformed instant")

var instantRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:T(\d{2}):(\d{2})(?::(\d{2})(?:\.(\d{1,3}))?)?Z?)?$`)

// Parse parses the text form of an instant, one of
//
//	YYYY-MM-DD                   date-only (AllDay)
//	YYYY-MM-DDTHH:MM[:SS][Z]     second-only (AllSecond)
//	YYYY-MM-DDTHH:MM:SS.sss[Z]   exact, 1 to 3 fraction digits
func Parse(s string) (Instant, error) {
	mm := instantRe.FindStringSubmatch(s)
	if mm == nil {
		return Nul, errors.Wrapf(ErrMalformed, "could not parse %q", s)
	}

	var f [7]int
	for idx, v := range mm[1:] {
		if v == "" {
			continue
		}
		if idx == 6 {
			// fraction digits, .5 is 500ms
			for len(v) < 3 {
				v += "0"
			}
		}
		f[idx], _ = strconv.Atoi(v)
	}

	var res Instant
	switch {
	case mm[4] == "":
		res = Date(f[0], f[1], f[2])
	case mm[7] == "":
		res = Seconds(f[0], f[1], f[2], f[3], f[4], f[5])
	default:
		res = New(f[0], f[1], f[2], f[3], f[4], f[5], f[6])
	}

	if err := res.check(); err != nil {
		return Nul, errors.Wrapf(err, "could not parse %q", s)
	}
	return res, nil
}

// MustParse is like Parse, but panics if s could not be parsed
func MustParse(s string) Instant {
	i, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return i
}

func (i Instant) check() error {
	if i.Month < 1 || i.Month > 12 {
		return errors.Errorf("month %d is out of range", i.Month)
	}
	if i.Day < 1 || i.Day > DaysIn(i.Year, i.Month) {
		return errors.Errorf("day %d is out of range for %04d-%02d", i.Day, i.Year, i.Month)
	}
	if i.Hour >= HoursPerDay || i.Minute >= MinsPerHour || i.Second >= SecsPerMin {
		return errors.Errorf("time %02d:%02d:%02d is out of range", i.Hour, i.Minute, i.Second)
	}
	return nil
}

// String returns the text form of i, which is accepted by Parse. Nul and Max
// have no text form, "nul" and "max" are returned for them.
func (i Instant) String() string {
	switch {
	case i.max:
		return "max"
	case i == Nul:
		return "nul"
	}

	switch i.Precision {
	case AllDay:
		return fmt.Sprintf("%04d-%02d-%02d", i.Year, i.Month, i.Day)
	case AllSecond:
		return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", i.Year, i.Month, i.Day, i.Hour, i.Minute, i.Second)
	}
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%03d",
		i.Year, i.Month, i.Day, i.Hour, i.Minute, i.Second, i.Millisecond)
}

// FromTime returns the exact instant of t in UTC. The times out of the
// supported years saturate to Nul or Max.
func FromTime(t time.Time) Instant {
	t = t.UTC()
	switch {
	case t.Year() < 0:
		return Nul
	case t.Year() > MaxYear:
		return Max
	}
	return New(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(),
		t.Nanosecond()/int(time.Millisecond))
}

// Time returns i as UTC time, the date-only and second-only instants give
// their beginning. Nul and Max give the zero time. The dates which are leap
// days only under the y%4 rule (e.g. 2100-02-29) are normalized by the time
// package.
func (i Instant) Time() time.Time {
	if !i.IsFinite() {
		return time.Time{}
	}
	i = Fixup(i.Floor())
	return time.Date(i.Year, time.Month(i.Month), i.Day, i.Hour, i.Minute, i.Second,
		i.Millisecond*int(time.Millisecond), time.UTC)
}
