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
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/logrange/range/pkg/utils/strutil"
	"github.com/pkg/errors"
)

// ExpandPaths turns the provided paths to the list of files. A path can be a
// pattern with "**" for any number of directories, for instance
// ["/var/data/**/*.wkt"] gives all the .wkt files under /var/data. The files
// are returned in the order of the patterns, every file meets only once.
// A path which is not a pattern must exist.
func ExpandPaths(paths []string) ([]string, error) {
	result := make([]string, 0, len(paths))
	for _, pp := range paths {
		if !doublestar.ValidatePathPattern(pp) {
			return nil, errors.Errorf("bad path pattern %q", pp)
		}

		base, pat := doublestar.SplitPattern(filepath.ToSlash(pp))
		if pat == "" || !hasMeta(pat) {
			if _, err := os.Stat(pp); err != nil {
				return nil, errors.Wrapf(err, "could not use %q", pp)
			}
			result = append(result, pp)
			continue
		}

		gg, err := doublestar.Glob(os.DirFS(base), pat, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "could not expand %q", pp)
		}
		for _, g := range gg {
			result = append(result, filepath.Join(base, filepath.FromSlash(g)))
		}
	}
	return strutil.RemoveDups(result), nil
}

func hasMeta(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', '{', '\\':
			return true
		}
	}
	return false
}
