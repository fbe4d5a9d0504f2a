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

package norm

import (
	"github.com/logrange/geotime/pkg/trange"
)

// Normalizer merges a stream of ranges into the minimal set of disjoint
// ranges in one pass. Every pushed range is coalesced with the accumulated
// one, if they are disjoint the accumulated range is emitted and the pushed
// one starts a new accumulation. Only neighbours are compared, so the ranges
// which are not ordered by time may give more results than a sorting merge.
type Normalizer struct {
	acc  trange.Range
	has  bool
	emit func(r trange.Range)
}

// NewNormalizer returns the Normalizer which calls emit for every merged
// range, the ranges are emitted in the fixed form (see trange.Fixup)
func NewNormalizer(emit func(r trange.Range)) *Normalizer {
	return &Normalizer{emit: emit}
}

// Push adds r to the stream, the Nul range is skipped
func (n *Normalizer) Push(r trange.Range) {
	if r.IsNul() {
		return
	}
	if !n.has {
		n.acc = trange.Unfix(r)
		n.has = true
		return
	}

	if c := trange.Coalesce(n.acc, r); !c.IsNul() {
		n.acc = trange.Unfix(c)
		return
	}
	n.emit(trange.Fixup(n.acc))
	n.acc = trange.Unfix(r)
}

// Flush emits the accumulated range, if any, and resets the Normalizer
func (n *Normalizer) Flush() {
	if n.has && !n.acc.IsNul() {
		n.emit(trange.Fixup(n.acc))
	}
	n.acc = trange.Nul
	n.has = false
}

// Normalize returns the merged ranges of rr
func Normalize(rr []trange.Range) []trange.Range {
	var res []trange.Range
	n := NewNormalizer(func(r trange.Range) {
		res = append(res, r)
	})
	for _, r := range rr {
		n.Push(r)
	}
	n.Flush()
	return res
}
