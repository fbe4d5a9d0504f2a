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

// Package transcode contains the line processors which convert the box
// literals to time ranges and back, and the Runner which applies a processor
// to every line of a stream.
package transcode

import (
	"strings"

	"github.com/logrange/geotime/pkg/geo"
	"github.com/logrange/geotime/pkg/norm"
	"github.com/logrange/geotime/pkg/trange"
	"github.com/logrange/geotime/pkg/wkt"
)

type (
	// LineProcessor converts one line of text. The line comes without the
	// line terminator and the pass-through prefix.
	LineProcessor interface {
		Process(line string) (string, error)
	}

	// Geo2T converts the coordinate boxes to the validity and system time
	// ranges. The boxes which carry time ranges are converted backwards, to
	// the coordinate boxes.
	Geo2T struct {
		m *geo.Mapper
	}

	// T2Geo converts the validity and system time range pairs to the
	// coordinate boxes
	T2Geo struct {
		m *geo.Mapper
	}

	// Norm merges the overlapping and adjacent ranges of a line
	Norm struct {
	}
)

// NewGeo2T returns new Geo2T which uses the mapper m
func NewGeo2T(m *geo.Mapper) *Geo2T {
	return &Geo2T{m: m}
}

// Process is part of LineProcessor
func (g *Geo2T) Process(line string) (string, error) {
	gl, err := wkt.ParseGeoLine(line)
	if err != nil {
		return "", err
	}

	res := make([]string, len(gl.Boxes))
	allBoxes := true
	for i, b := range gl.Boxes {
		if b.Timed {
			res[i] = wkt.FormatBox(g.m.ToBox(b.Valid, b.Sys))
			continue
		}
		allBoxes = false
		res[i] = wkt.FormatRanges(g.m.ToRanges(b.Coords))
	}

	if len(res) == 1 {
		return res[0], nil
	}
	if gl.Collection && allBoxes {
		return wkt.FormatCollection(res), nil
	}

	var sb strings.Builder
	for i, r := range res {
		if i > 0 {
			sb.WriteString(gl.Seps[i-1])
			sb.WriteByte(' ')
		}
		sb.WriteString(r)
	}
	return sb.String(), nil
}

// NewT2Geo returns new T2Geo which uses the mapper m
func NewT2Geo(m *geo.Mapper) *T2Geo {
	return &T2Geo{m: m}
}

// Process is part of LineProcessor. Several pairs, or one pair terminated by
// semicolon, give GEOMETRYCOLLECTION. An empty line gives an empty result.
func (t *T2Geo) Process(line string) (string, error) {
	items, err := wkt.ParseTimeLine(line)
	if err != nil || len(items) == 0 {
		return "", err
	}

	res := make([]string, len(items))
	for i, it := range items {
		res[i] = wkt.FormatBox(t.m.ToBox(it.Valid, it.Sys))
	}
	if len(res) > 1 || items[0].Semi {
		return wkt.FormatCollection(res), nil
	}
	return res[0], nil
}

// Process is part of LineProcessor
func (n Norm) Process(line string) (string, error) {
	rr, err := wkt.ParseRanges(line)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	nz := norm.NewNormalizer(func(r trange.Range) {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(r.String())
	})
	for _, r := range rr {
		nz.Push(r)
	}
	nz.Flush()
	return sb.String(), nil
}
