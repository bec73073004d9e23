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

// scanIdentifier implements spec.md §4.2's identifier sub-scanner: letters,
// digits, underscore, plus path characters and '-' under the relevant flags.
func (s *Scanner) scanIdentifier(startLine, linesCrossed int) (token.Token, error) {
	start := s.pos
	for s.identChar() {
		s.advance(1)
	}
	text := string(s.buf[start:s.pos])
	flags := token.Flags(0)
	if text == "true" || text == "false" {
		flags |= token.Boolean
	}
	return token.New(text, token.Identifier, flags, startLine, linesCrossed), nil
}

func (s *Scanner) identChar() bool {
	c := s.cur()
	if isIdentCont(c) {
		return true
	}
	if s.flags.has(AllowPathNames) {
		switch c {
		case '/', '\\', ':', '.':
			return true
		}
	}
	if s.flags.has(OnlyStrings) && c == '-' {
		return true
	}
	return false
}
