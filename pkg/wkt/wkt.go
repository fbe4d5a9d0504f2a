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

package wkt

import (
	"fmt"
	"strings"

	"github.com/logrange/geotime/pkg/geo"
	"github.com/logrange/geotime/pkg/instant"
	"github.com/logrange/geotime/pkg/trange"
	"github.com/pkg/errors"
)

type (
	// Box is a box literal. It holds either the coordinates (Timed is false)
	// or the validity and the system time ranges (Timed is true). Sys is
	// trange.Nul if the system time range is omitted.
	Box struct {
		// Kind is the upper cased literal name: BOX, BOX2D or TBOX2D
		Kind   string
		Timed  bool
		Coords geo.Box
		Valid  trange.Range
		Sys    trange.Range
	}

	// GeoLine is a line of box literals. Seps[i] is the separator between
	// Boxes[i] and Boxes[i+1].
	GeoLine struct {
		Collection bool
		Boxes      []Box
		Seps       []string
	}

	// TimeItem is a validity range with an optional system time range. Semi
	// is set if the item was terminated by a semicolon.
	TimeItem struct {
		Valid trange.Range
		Sys   trange.Range
		Semi  bool
	}
)

// ErrNoBoxes is returned when a geo line contains no box literals
var ErrNoBoxes = errors.New("no boxes")

const (
	KindBox    = "BOX"
	KindBox2D  = "BOX2D"
	KindTBox2D = "TBOX2D"
)

// ParseGeoLine parses a line of box literals
func ParseGeoLine(s string) (*GeoLine, error) {
	gl := &geoLine{}
	if err := geoParser.ParseString(s, gl); err != nil {
		return nil, errors.Wrapf(err, "could not parse boxes %q", s)
	}

	res := &GeoLine{}
	bl := gl.Plain
	if gl.Wrapped != nil {
		res.Collection = true
		bl = gl.Wrapped
	}
	if bl == nil || bl.First == nil {
		return nil, errors.Wrapf(ErrNoBoxes, "could not parse boxes %q", s)
	}

	b, err := bl.First.toBox()
	if err != nil {
		return nil, err
	}
	res.Boxes = append(res.Boxes, b)
	for _, sb := range bl.Rest {
		b, err := sb.Box.toBox()
		if err != nil {
			return nil, err
		}
		res.Boxes = append(res.Boxes, b)
		res.Seps = append(res.Seps, sb.Sep)
	}
	return res, nil
}

// ParseTimeLine parses the list of validity and system time range pairs
func ParseTimeLine(s string) ([]TimeItem, error) {
	if strings.TrimSpace(s) == "" {
		return []TimeItem{}, nil
	}
	tl := &timeLine{}
	if err := timeParser.ParseString(s, tl); err != nil {
		return nil, errors.Wrapf(err, "could not parse time ranges %q", s)
	}

	res := make([]TimeItem, 0, len(tl.Items))
	for _, it := range tl.Items {
		ti := TimeItem{Semi: it.Semi}
		var err error
		if ti.Valid, ti.Sys, err = toRanges(it.Valid, it.Sys); err != nil {
			return nil, err
		}
		res = append(res, ti)
	}
	return res, nil
}

// ParseRanges parses the whitespace separated list of ranges
func ParseRanges(s string) ([]trange.Range, error) {
	if strings.TrimSpace(s) == "" {
		return []trange.Range{}, nil
	}
	rl := &rangeList{}
	if err := rangesParser.ParseString(s, rl); err != nil {
		return nil, errors.Wrapf(err, "could not parse ranges %q", s)
	}

	res := make([]trange.Range, 0, len(rl.Ranges))
	for _, re := range rl.Ranges {
		r, err := re.toRange()
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}

// ParseRange parses exactly one range
func ParseRange(s string) (trange.Range, error) {
	rr, err := ParseRanges(s)
	if err != nil {
		return trange.Nul, err
	}
	if len(rr) != 1 {
		return trange.Nul, errors.Errorf("expecting one range, but got %d in %q", len(rr), s)
	}
	return rr[0], nil
}

// FormatBox returns the BOX literal for b
func FormatBox(b geo.Box) string {
	return fmt.Sprintf("BOX(%.17f %.17f, %.17f %.17f)", b.X1, b.Y1, b.X2, b.Y2)
}

// FormatRanges returns the text form of the validity and the system time
// ranges pair
func FormatRanges(valid, sys trange.Range) string {
	return valid.String() + ", " + sys.String()
}

// FormatCollection wraps the literals into GEOMETRYCOLLECTION
func FormatCollection(items []string) string {
	return "GEOMETRYCOLLECTION(" + strings.Join(items, ", ") + ")"
}

func (be *boxExpr) toBox() (Box, error) {
	res := Box{Kind: strings.ToUpper(be.Kind)}
	if be.Coords != nil {
		if res.Kind == KindTBox2D {
			return res, errors.Errorf("%s expects time ranges, but got coordinates", res.Kind)
		}
		c := be.Coords
		res.Coords = geo.Box{X1: c.X1, Y1: c.Y1, X2: c.X2, Y2: c.Y2}
		return res, nil
	}

	var err error
	res.Timed = true
	res.Valid, res.Sys, err = toRanges(be.Times.Valid, be.Times.Sys)
	return res, err
}

func toRanges(valid, sys *rangeExpr) (trange.Range, trange.Range, error) {
	v, err := valid.toRange()
	if err != nil {
		return trange.Nul, trange.Nul, err
	}
	if sys == nil {
		return v, trange.Nul, nil
	}
	s, err := sys.toRange()
	return v, s, err
}

func (re *rangeExpr) toRange() (trange.Range, error) {
	if re.Lead {
		end, err := parseInstant(re.Till, instant.Max)
		if err != nil {
			return trange.Nul, err
		}
		return trange.New(instant.Min, end), nil
	}

	beg, err := instant.Parse(re.Beg)
	if err != nil {
		return trange.Nul, err
	}
	if !re.Open {
		return trange.New(beg, beg), nil
	}
	end, err := parseInstant(re.End, instant.Max)
	if err != nil {
		return trange.Nul, err
	}
	return trange.New(beg, end), nil
}

// parseInstant returns def for the empty s
func parseInstant(s string, def instant.Instant) (instant.Instant, error) {
	if s == "" {
		return def, nil
	}
	return instant.Parse(s)
}
