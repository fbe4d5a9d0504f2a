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
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrder(t *testing.T) {
	d := Date(2000, 1, 1)
	s := Seconds(2000, 1, 1, 0, 0, 0)
	e := New(2000, 1, 1, 0, 0, 0, 0)

	assert.True(t, Nul.Less(d))
	assert.True(t, d.Less(s))
	assert.True(t, s.Less(e))
	assert.True(t, e.Less(New(2000, 1, 1, 0, 0, 0, 1)))
	assert.True(t, New(2000, 1, 1, 23, 59, 59, 999).Less(Date(2000, 1, 2)))
	assert.True(t, New(9999, 12, 31, 23, 59, 59, 999).Less(Max))
	assert.True(t, Date(2000, 1, 1).LessEq(Date(2000, 1, 1)))
	assert.False(t, Max.Less(Max))
	assert.Equal(t, 0, e.Compare(New(2000, 1, 1, 0, 0, 0, 0)))
	assert.Equal(t, 1, Max.Compare(e))
	assert.Equal(t, -1, Nul.Compare(e))
}

func TestSentinels(t *testing.T) {
	assert.True(t, Instant{}.IsNul())
	assert.True(t, Min.IsNul())
	assert.False(t, Max.IsNul())
	assert.True(t, Max.IsMax())
	assert.False(t, Max.IsFinite())
	assert.True(t, Date(2000, 1, 1).IsAllDay())
	assert.True(t, Seconds(2000, 1, 1, 1, 1, 1).IsAllSecond())
	assert.True(t, New(2000, 1, 1, 0, 0, 0, 0).IsMidnight())
	assert.False(t, Date(2000, 1, 1).IsMidnight())
}

func TestFixup(t *testing.T) {
	testFixup(t, New(2000, 12, 32, 0, 0, 0, 0), New(2001, 1, 1, 0, 0, 0, 0))
	testFixup(t, New(2000, 1, 1, 23, 59, 59, 1000), New(2000, 1, 2, 0, 0, 0, 0))
	testFixup(t, New(2000, 2, 30, 0, 0, 0, 0), New(2000, 3, 1, 0, 0, 0, 0))
	testFixup(t, New(2001, 2, 29, 0, 0, 0, 0), New(2001, 3, 1, 0, 0, 0, 0))
	testFixup(t, New(2000, 14, 1, 0, 0, 0, 0), New(2001, 2, 1, 0, 0, 0, 0))
	testFixup(t, New(2000, 1, 1, 48, 120, 61, 2500), New(2000, 1, 3, 2, 1, 3, 500))
	testFixup(t, Date(2000, 1, 32), Date(2000, 2, 1))
	testFixup(t, Seconds(2000, 1, 1, 23, 59, 60), Seconds(2000, 1, 2, 0, 0, 0))
	testFixup(t, Max, Max)
	testFixup(t, Nul, Nul)
	testFixup(t, New(MaxYear, 12, 32, 0, 0, 0, 0), Max)
}

func testFixup(t *testing.T, in, exp Instant) {
	act := Fixup(in)
	assert.Equal(t, exp, act, "fixup of %s", in)
	assert.Equal(t, act, Fixup(act), "fixup of %s is not idempotent", in)
}

func TestDiff(t *testing.T) {
	ref := New(2000, 1, 1, 0, 0, 0, 0)
	testDiff(t, New(2000, 1, 2, 0, 0, 0, 0), ref, Duration{Days: 1})
	testDiff(t, New(2001, 1, 1, 0, 0, 0, 0), ref, Duration{Days: 366})
	testDiff(t, New(2002, 1, 1, 0, 0, 0, 0), ref, Duration{Days: 731})
	testDiff(t, New(2000, 3, 1, 0, 0, 0, 0), ref, Duration{Days: 60})
	testDiff(t, New(2000, 1, 1, 12, 0, 0, 1), ref, Duration{Days: 0, Intra: MsecsPerDay/2 + 1})
	testDiff(t, New(1999, 12, 31, 12, 0, 0, 0), ref, Duration{Days: -1, Intra: MsecsPerDay / 2})
	testDiff(t, ref, New(1999, 12, 31, 12, 0, 0, 0), Duration{Days: 0, Intra: MsecsPerDay / 2})

	// date-only end is the next midnight, date-only begin is the midnight
	testDiff(t, Date(2000, 1, 1), ref, Duration{Days: 1})
	testDiff(t, ref, Date(2000, 1, 1), NulDuration)
	testDiff(t, Seconds(2000, 1, 1, 0, 0, 0), ref, Duration{Intra: 1000})
	testDiff(t, ref, Seconds(2000, 1, 1, 0, 0, 0), NulDuration)

	// saturation
	testDiff(t, Max, ref, MaxDuration)
	testDiff(t, ref, Nul, MaxDuration)
	testDiff(t, Nul, ref, MinDuration)
	testDiff(t, ref, Max, MinDuration)
}

func testDiff(t *testing.T, end, beg Instant, exp Duration) {
	assert.Equal(t, exp, Diff(end, beg), "%s - %s", end, beg)
}

func TestAdd(t *testing.T) {
	testAdd(t, New(2000, 2, 28, 0, 0, 0, 0), Duration{Days: 1}, New(2000, 2, 29, 0, 0, 0, 0))
	testAdd(t, New(2001, 2, 28, 0, 0, 0, 0), Duration{Days: 1}, New(2001, 3, 1, 0, 0, 0, 0))
	testAdd(t, New(2100, 2, 28, 0, 0, 0, 0), Duration{Days: 1}, New(2100, 2, 29, 0, 0, 0, 0))
	testAdd(t, Date(2000, 2, 28), Duration{Days: 1}, Date(2000, 2, 29))
	testAdd(t, Date(2001, 2, 28), Duration{Days: 1, Intra: 1000}, Date(2001, 3, 1))
	testAdd(t, New(2000, 12, 31, 23, 59, 59, 999), Duration{Intra: 1}, New(2001, 1, 1, 0, 0, 0, 0))
	testAdd(t, New(2000, 1, 1, 0, 0, 0, 0), Duration{Days: -1, Intra: MsecsPerDay - 1}, New(1999, 12, 31, 23, 59, 59, 999))
	testAdd(t, New(2000, 3, 1, 0, 0, 0, 0), Duration{Days: -1}, New(2000, 2, 29, 0, 0, 0, 0))
	testAdd(t, Seconds(2000, 1, 1, 23, 59, 59), Duration{Intra: 1999}, Seconds(2000, 1, 2, 0, 0, 0))
	testAdd(t, New(2000, 1, 1, 0, 0, 0, 0), Duration{Days: 366 + 365}, New(2002, 1, 1, 0, 0, 0, 0))

	// saturation
	testAdd(t, Max, Duration{Days: -10}, Max)
	testAdd(t, Nul, Duration{Days: 10}, Nul)
	testAdd(t, Nul, MaxDuration, Max)
	testAdd(t, Date(2000, 1, 1), MinDuration, Nul)
	testAdd(t, New(0, 1, 1, 0, 0, 0, 0), Duration{Days: -1}, Nul)
	testAdd(t, New(MaxYear, 12, 31, 0, 0, 0, 0), Duration{Days: 1}, Max)
}

func testAdd(t *testing.T, bas Instant, d Duration, exp Instant) {
	assert.Equal(t, exp, Add(bas, d), "%s + %s", bas, d)
}

func TestAddDiffRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		a := randomInstant(rnd)
		b := randomInstant(rnd)
		d := Diff(b, a)
		assert.Equal(t, b, Add(a, d), "%s + (%s - %s)", a, b, a)
	}
}

func TestDiffAddRoundTrip(t *testing.T) {
	ref := New(2000, 1, 1, 0, 0, 0, 0)
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		d := Duration{Days: int32(rnd.Intn(2000000) - 700000), Intra: uint32(rnd.Intn(MsecsPerDay))}
		assert.Equal(t, d, Diff(Add(ref, d), ref), "duration %s", d)
	}
}

func TestFromTime(t *testing.T) {
	tm := time.Date(2019, 3, 4, 5, 6, 7, 8000000, time.UTC)
	i := FromTime(tm)
	assert.Equal(t, New(2019, 3, 4, 5, 6, 7, 8), i)
	assert.Equal(t, tm, i.Time())

	// the day counts agree with the time package inside 1901..2099
	ref := New(2000, 1, 1, 0, 0, 0, 0)
	d := Diff(i, ref)
	assert.Equal(t, tm.Sub(ref.Time()).Milliseconds(), d.Millis())
}

func TestDuration(t *testing.T) {
	assert.Equal(t, Duration{Days: -1, Intra: MsecsPerDay - 5}, Duration{Intra: 5}.Neg())
	assert.Equal(t, Duration{Days: -3}, Duration{Days: 3}.Neg())
	assert.Equal(t, MinDuration, MaxDuration.Neg())
	assert.Equal(t, MaxDuration, Duration{Days: 5}.AddDays(2147483642))
	assert.Equal(t, MaxDuration, MaxDuration.AddDays(-1))
	assert.Equal(t, Duration{Days: 4, Intra: 3}, Duration{Days: 5, Intra: 3}.AddDays(-1))
	assert.True(t, Duration{Days: -1, Intra: 5}.Less(NulDuration))
	assert.True(t, MinDuration.Less(MaxDuration))
	assert.Equal(t, Duration{Days: -2, Intra: MsecsPerDay - 1}, DurationFromMillis(-MsecsPerDay-1))
}

func randomInstant(rnd *rand.Rand) Instant {
	y := 1900 + rnd.Intn(300)
	m := 1 + rnd.Intn(12)
	d := 1 + rnd.Intn(DaysIn(y, m))
	return New(y, m, d, rnd.Intn(24), rnd.Intn(60), rnd.Intn(60), rnd.Intn(1000))
}
