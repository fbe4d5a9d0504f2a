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
	"io"
	"io/ioutil"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/lexer"
	"github.com/pkg/errors"
)

// longestDef is the regexp lexer definition which picks the longest
// alternative at every position, so a date like 2000-01-01 is never split into
// numbers. Every named group is a token type, the anonymous groups (spaces)
// are skipped.
type longestDef struct {
	re      *regexp.Regexp
	names   []string
	symbols map[string]rune
}

type longestLexer struct {
	def *longestDef
	pos lexer.Position
	s   string
}

func newLongestDef(pattern string) (*longestDef, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	re.Longest()

	names := re.SubexpNames()
	symbols := map[string]rune{"EOF": lexer.EOF}
	for i, n := range names {
		if i > 0 && n != "" {
			symbols[n] = lexer.EOF - rune(i)
		}
	}
	return &longestDef{re: re, names: names, symbols: symbols}, nil
}

func mustLongestDef(pattern string) *longestDef {
	d, err := newLongestDef(pattern)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *longestDef) Lex(r io.Reader) (lexer.Lexer, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &longestLexer{
		def: d,
		pos: lexer.Position{Filename: lexer.NameOfReader(r), Line: 1, Column: 1},
		s:   string(b),
	}, nil
}

func (d *longestDef) Symbols() map[string]rune {
	return d.symbols
}

func (l *longestLexer) Next() (lexer.Token, error) {
	for len(l.s) > 0 {
		m := l.def.re.FindStringSubmatchIndex(l.s)
		if m == nil || m[0] != 0 {
			rn, _ := utf8.DecodeRuneInString(l.s)
			return lexer.Token{}, errors.Errorf("unexpected %q at %s", rn, l.pos)
		}

		val := l.s[:m[1]]
		tok := lexer.Token{Pos: l.pos, Value: val}
		l.advance(val)

		typ := rune(0)
		for g := 1; g < len(m)/2; g++ {
			if m[2*g] >= 0 && l.def.names[g] != "" {
				typ = lexer.EOF - rune(g)
				break
			}
		}
		if typ == 0 {
			continue
		}
		tok.Type = typ
		return tok, nil
	}
	return lexer.EOFToken(l.pos), nil
}

func (l *longestLexer) advance(val string) {
	l.s = l.s[len(val):]
	l.pos.Offset += len(val)
	if nl := strings.Count(val, "\n"); nl > 0 {
		l.pos.Line += nl
		l.pos.Column = utf8.RuneCountInString(val[strings.LastIndex(val, "\n")+1:]) + 1
		return
	}
	l.pos.Column += utf8.RuneCountInString(val)
}
