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

package scanner

import "github.com/cppscan/cppscan/token"

// scanPunctuation delegates to the configured punct.Table, which already
// implements the "longest match wins" chain ordering (spec.md §4.1).
func (s *Scanner) scanPunctuation(startLine, linesCrossed int) (token.Token, error) {
	id, text, ok := s.table.Match(s.buf[s.pos:s.end])
	if !ok {
		return token.Token{}, s.reportError("unrecognized character %q", s.cur())
	}
	s.advance(len(text))
	return token.New(text, token.Punctuation, token.FlagsFromPunctID(int(id)), startLine, linesCrossed), nil
}
