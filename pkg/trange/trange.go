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

// Package trange provides closed intervals of instants and the operations on
// them: the difference against a reference instant, the reconstruction from
// durations and the coalescing of overlapping or adjacent intervals.
package trange

import (
	"github.com/logrange/geotime/pkg/instant"
)

type (
	// Range is the closed interval [Beg, End]. Beg <= End is not enforced by
	// the constructor, but Coalesce gives Nul for an inverted range.
	Range struct {
		Beg instant.Instant
		End instant.Instant
	}

	// DurationRange is the image of a Range in the durations space relative to
	// some reference instant
	DurationRange struct {
		Lower instant.Duration
		Upper instant.Duration
	}
)

var (
	// Nul is the "no interval" range, it is returned by Coalesce when the
	// ranges could not be merged
	Nul = Range{}

	// Max is the unbounded range
	Max = Range{Beg: instant.Min, End: instant.Max}
)

// New returns the range [beg, end]
func New(beg, end instant.Instant) Range {
	return Range{Beg: beg, End: end}
}

// IsNul returns whether r is the Nul range
func (r Range) IsNul() bool {
	return r.Beg.IsNul() && r.End.IsNul()
}

// IsMax returns whether r is the unbounded range
func (r Range) IsMax() bool {
	return r.Beg.IsNul() && r.End.IsMax()
}

// String returns the text form of the range: BEG--END, where an unbounded end
// is omitted. A range of one instant is just the instant.
func (r Range) String() string {
	if r.IsNul() {
		return ""
	}
	if r.Beg == r.End {
		return r.Beg.String()
	}

	var beg, end string
	if !r.Beg.IsNul() {
		beg = r.Beg.String()
	}
	if !r.End.IsMax() {
		end = r.End.String()
	}
	return beg + "--" + end
}

// Diff returns the durations from rel to the ends of r. The beginning of a
// date-only (second-only) begin is taken, while the end of a date-only
// (second-only) end is taken.
func Diff(r Range, rel instant.Instant) DurationRange {
	return DurationRange{
		Lower: instant.Diff(r.Beg.Floor(), rel),
		Upper: instant.Diff(r.End, rel),
	}
}

// Add is the inverse of Diff, it returns the range of instants rel + dr
func Add(dr DurationRange, rel instant.Instant) Range {
	return Range{
		Beg: instant.Add(rel, dr.Lower),
		End: instant.Add(rel, dr.Upper),
	}
}

// Unfix returns r with the precision markers replaced by concrete fields: the
// begin becomes the first millisecond it covers, the end becomes the first
// millisecond after it (an all day end turns into the next midnight). The
// result is end-exclusive and may be compared with other unfixed ranges
// without any precision ambiguity.
func Unfix(r Range) Range {
	return Range{Beg: r.Beg.Floor(), End: r.End.Ceil()}
}

// Fixup is the inverse of Unfix. If both finite ends of the unfixed r are at
// midnight, they are turned into all day instants and the end is rolled back
// one day. Otherwise, if both are at whole seconds, they become all second
// instants with the end rolled back one second. The infinite ends take no
// part in the decision and are kept as is.
func Fixup(r Range) Range {
	r = Unfix(r)
	bf, ef := r.Beg.IsFinite(), r.End.IsFinite()
	if !bf && !ef {
		return r
	}
	if bf && ef && !r.Beg.Less(r.End) {
		return r
	}

	switch {
	case (!bf || r.Beg.IsMidnight()) && (!ef || r.End.IsMidnight()):
		if bf {
			r.Beg = r.Beg.WithPrecision(instant.AllDay)
		}
		if ef {
			r.End = instant.Add(r.End, instant.Duration{Days: -1}).WithPrecision(instant.AllDay)
		}
	case (!bf || r.Beg.IsWholeSecond()) && (!ef || r.End.IsWholeSecond()):
		if bf {
			r.Beg = r.Beg.WithPrecision(instant.AllSecond)
		}
		if ef {
			r.End = instant.Add(r.End, instant.DurationFromMillis(-instant.MsecsPerSec)).WithPrecision(instant.AllSecond)
		}
	}
	return r
}

// Coalesce merges r1 and r2 if they overlap or touch each other. The range
// which ends first (r1 on a tie) extends the other one: the result spans from
// the extender's begin to the other range's end, with the precision markers
// re-introduced (see Fixup). A range nested into the other one therefore
// keeps its own begin. Nul is returned if the ranges are disjoint or one of
// them is empty or inverted.
func Coalesce(r1, r2 Range) Range {
	r1, r2 = Unfix(r1), Unfix(r2)
	if r1.IsNul() || r2.IsNul() || r2.End.Less(r2.Beg) || r1.End.Less(r1.Beg) {
		return Nul
	}

	switch {
	case r1.End.LessEq(r2.End) && r2.Beg.LessEq(r1.End):
		return Fixup(Range{Beg: r1.Beg, End: r2.End})
	case r2.End.Less(r1.End) && r1.Beg.LessEq(r2.End):
		return Fixup(Range{Beg: r2.Beg, End: r1.End})
	}
	return Nul
}
