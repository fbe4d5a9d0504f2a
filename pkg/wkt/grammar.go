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

// Package wkt reads and writes the text forms which are transcoded: the
// WKT-like box literals (BOX, BOX2D, TBOX2D, optionally wrapped into a
// GEOMETRYCOLLECTION) and the lists of time ranges.
//
// A time range is written as BEG--END, where BEG and END are instants in one
// of the forms
//
//	2000-01-01                whole day
//	2000-01-01T10:00[:00][Z]  whole second
//	2000-01-01T10:00:00.000   exact
//
// An omitted END means the unbounded future, an omitted BEG means the
// unbounded past. A single instant is the range of that instant only.
package wkt

import (
	"github.com/alecthomas/participle"
)

var (
	wktLexer = mustLongestDef(`(\s+)` +
		`|(?P<Keyword>(?i)GEOMETRYCOLLECTION|TBOX2D|BOX2D|BOX)` +
		`|(?P<Instant>\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}(:\d{2}(\.\d{1,3})?)?Z?)?)` +
		`|(?P<Number>[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?)` +
		`|(?P<Operator>--|[(),;])`,
	)

	geoParser = participle.MustBuild(
		&geoLine{},
		participle.Lexer(wktLexer),
		participle.CaseInsensitive("Keyword"),
	)

	timeParser = participle.MustBuild(
		&timeLine{},
		participle.Lexer(wktLexer),
		participle.CaseInsensitive("Keyword"),
	)

	rangesParser = participle.MustBuild(
		&rangeList{},
		participle.Lexer(wktLexer),
		participle.CaseInsensitive("Keyword"),
	)
)

type (
	geoLine struct {
		Wrapped *boxList `parser:"  \"GEOMETRYCOLLECTION\" \"(\" @@ \")\""`
		Plain   *boxList `parser:"| @@"`
	}

	boxList struct {
		First *boxExpr  `parser:"@@"`
		Rest  []*sepBox `parser:"{ @@ }"`
	}

	sepBox struct {
		Sep string   `parser:"@( \",\" | \";\" )"`
		Box *boxExpr `parser:"@@"`
	}

	boxExpr struct {
		Kind   string      `parser:"@( \"TBOX2D\" | \"BOX2D\" | \"BOX\" ) \"(\""`
		Coords *coordsExpr `parser:"( @@"`
		Times  *timesExpr  `parser:"| @@ ) \")\""`
	}

	coordsExpr struct {
		X1 float64 `parser:"@Number"`
		Y1 float64 `parser:"@Number \",\""`
		X2 float64 `parser:"@Number"`
		Y2 float64 `parser:"@Number"`
	}

	timesExpr struct {
		Valid *rangeExpr `parser:"@@"`
		Sys   *rangeExpr `parser:"[ \",\" @@ ]"`
	}

	rangeExpr struct {
		Beg  string `parser:"( @Instant"`
		Open bool   `parser:"  [ @\"--\""`
		End  string `parser:"    [ @Instant ] ]"`
		Lead bool   `parser:"| @\"--\""`
		Till string `parser:"  [ @Instant ] )"`
	}

	timeLine struct {
		Items []*timeItemExpr `parser:"{ @@ }"`
	}

	timeItemExpr struct {
		Valid *rangeExpr `parser:"@@"`
		Sys   *rangeExpr `parser:"[ \",\" @@ ]"`
		Semi  bool       `parser:"[ @\";\" ]"`
	}

	rangeList struct {
		Ranges []*rangeExpr `parser:"{ @@ }"`
	}
)
