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

package util

import (
	"github.com/jrivets/gorivets"
)

// FormatSize returns the short form of a bytes count, 1000 based and rounded:
// 999 gives "999", 23450 gives "23kb"
func FormatSize(val int64) string {
	return gorivets.FormatInt64(val, 1000)
}
