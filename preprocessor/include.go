// Copyright 2026 EngFlow Inc. All rights reserved.
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

package preprocessor

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandSearchPaths resolves a configured default search-path list into a
// concrete, order-preserving directory list: entries with no glob
// metacharacters pass through unchanged, entries containing doublestar-style
// globs (e.g. "vendor/**/include") are expanded against the filesystem, per
// SPEC_FULL.md §4.5.1.
func ExpandSearchPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if !doublestar.ValidatePattern(p) || !hasGlobMeta(p) {
			out = append(out, p)
			continue
		}
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}

func hasGlobMeta(p string) bool {
	for _, c := range p {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// resolveQuoted resolves a "#include \"name\"" against the caller-local
// directory only (the directory containing the including file).
func (p *Preprocessor) resolveQuoted(name string) (string, bool) {
	dir := filepath.Dir(p.currentName())
	candidate := filepath.Join(dir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, true
	}
	return "", false
}

// resolveAngled resolves a "#include <name>" against the configured default
// search paths, in order.
func (p *Preprocessor) resolveAngled(name string) (string, bool) {
	for _, dir := range p.searchPaths {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// seenOnIncludeStack counts how many open scanners currently have the given
// resolved path, used by handleInclude to reject circular includes.
func (p *Preprocessor) seenOnIncludeStack(path string) int {
	n := 0
	for _, s := range p.includeStack {
		if s.Name() == path {
			n++
		}
	}
	if p.scanner != nil && p.scanner.Name() == path {
		n++
	}
	return n
}
