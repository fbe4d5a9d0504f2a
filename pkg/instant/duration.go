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
	"math"
)

// Duration is the directed difference between two instants: a signed number
// of whole days and a non-negative number of milliseconds within the day.
// math.MaxInt32 days is the +inf duration, its negation is -inf. Arithmetic on
// Duration saturates to the infinities instead of wrapping.
type Duration struct {
	Days  int32
	Intra uint32
}

var (
	// NulDuration is the zero duration
	NulDuration = Duration{}
	// MaxDuration is the +inf duration
	MaxDuration = Duration{Days: math.MaxInt32}
	// MinDuration is the -inf duration
	MinDuration = Duration{Days: -math.MaxInt32}
)

// DurationFromMillis returns the duration of ms milliseconds, values which
// don't fit the day range saturate to MinDuration or MaxDuration
func DurationFromMillis(ms int64) Duration {
	days := floorDiv(ms, MsecsPerDay)
	if days >= math.MaxInt32 {
		return MaxDuration
	}
	if days <= -math.MaxInt32 {
		return MinDuration
	}
	return Duration{Days: int32(days), Intra: uint32(ms - days*MsecsPerDay)}
}

// IsNul returns whether d is zero
func (d Duration) IsNul() bool {
	return d == NulDuration
}

// IsMax returns whether d is +inf
func (d Duration) IsMax() bool {
	return d.Days == math.MaxInt32
}

// IsMin returns whether d is -inf
func (d Duration) IsMin() bool {
	return d.Days == -math.MaxInt32
}

// IsFinite returns whether d is neither of the infinities
func (d Duration) IsFinite() bool {
	return !d.IsMax() && !d.IsMin()
}

// Millis returns the total number of milliseconds in d. Must not be called
// for the infinities.
func (d Duration) Millis() int64 {
	return int64(d.Days)*MsecsPerDay + int64(d.Intra)
}

// Less returns whether d is shorter than other
func (d Duration) Less(other Duration) bool {
	return d.Days < other.Days || d.Days == other.Days && d.Intra < other.Intra
}

// LessEq returns whether d is not longer than other
func (d Duration) LessEq(other Duration) bool {
	return d.Days < other.Days || d.Days == other.Days && d.Intra <= other.Intra
}

// Neg returns -d, the infinities swap
func (d Duration) Neg() Duration {
	switch {
	case d.IsMax():
		return MinDuration
	case d.IsMin():
		return MaxDuration
	case d.Intra == 0:
		return Duration{Days: -d.Days}
	}
	return Duration{Days: -d.Days - 1, Intra: MsecsPerDay - d.Intra}
}

// AddDays returns d shifted by n days. The infinities are absorbing, the
// finite results which reach them saturate.
func (d Duration) AddDays(n int32) Duration {
	if !d.IsFinite() {
		return d
	}
	days := int64(d.Days) + int64(n)
	switch {
	case days >= math.MaxInt32:
		return MaxDuration
	case days <= -math.MaxInt32:
		return MinDuration
	}
	return Duration{Days: int32(days), Intra: d.Intra}
}

func (d Duration) String() string {
	switch {
	case d.IsMax():
		return "+inf"
	case d.IsMin():
		return "-inf"
	}
	return fmt.Sprintf("%dd%+dms", d.Days, d.Intra)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
