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

import (
	"strconv"
	"strings"

	"github.com/cppscan/cppscan/token"
)

// scanStringOrLiteral implements spec.md §4.2's string/literal sub-scanner,
// including same-kind concatenation across re-skipped whitespace.
func (s *Scanner) scanStringOrLiteral(startLine, linesCrossed int) (token.Token, error) {
	quote := s.cur()
	var text strings.Builder

	for {
		body, err := s.scanQuotedBody(quote)
		if err != nil {
			return token.Token{}, err
		}
		text.WriteString(body)

		cont, err := s.tryConcatenate(quote)
		if err != nil {
			return token.Token{}, err
		}
		if !cont {
			break
		}
	}

	category := token.String
	if quote == '\'' {
		category = token.Literal
	}
	flags := token.Flags(0)
	if category == token.Literal && len(text.String()) > 1 && !s.flags.has(AllowMultiCharLiterals) {
		return token.Token{}, s.reportError("multi-character literal requires allow_multi_char_literals")
	}
	return token.New(text.String(), category, flags, startLine, linesCrossed), nil
}

// tryConcatenate re-skips whitespace after a closing quote and decides
// whether scanning should continue into a following string of the same
// kind, per spec.md §4.2's concatenation rules.
func (s *Scanner) tryConcatenate(quote byte) (bool, error) {
	if s.flags.has(NoStringConcat) {
		if s.flags.has(AllowBackslashStringConcat) && s.cur() == '\\' {
			save, saveLine, saveLogical := s.pos, s.line, s.logicalLine
			s.advance(1)
			if err := s.skipWhitespaceAndComments(); err != nil {
				return false, err
			}
			if s.cur() == quote {
				return true, nil
			}
			s.pos, s.line, s.logicalLine = save, saveLine, saveLogical
		}
		return false, nil
	}
	save, saveLine, saveLogical := s.pos, s.line, s.logicalLine
	if err := s.skipWhitespaceAndComments(); err != nil {
		return false, err
	}
	if s.cur() == quote {
		return true, nil
	}
	s.pos, s.line, s.logicalLine = save, saveLine, saveLogical
	return false, nil
}

// scanQuotedBody reads one quote...quote span (the opening quote must be at
// the cursor) and returns its decoded contents.
func (s *Scanner) scanQuotedBody(quote byte) (string, error) {
	s.advance(1) // opening quote
	var out strings.Builder
	for {
		if s.atEnd() {
			return "", s.reportError("unterminated string or character literal")
		}
		c := s.cur()
		if c == '\n' {
			return "", s.reportError("newline inside string or character literal")
		}
		if c == quote {
			s.advance(1)
			return out.String(), nil
		}
		if c == '\\' && !s.flags.has(NoStringEscapeChars) {
			r, err := s.scanEscape()
			if err != nil {
				return "", err
			}
			out.WriteByte(r)
			continue
		}
		out.WriteByte(c)
		s.advance(1)
	}
}

// scanEscape decodes one backslash escape. The cursor must be on the '\'.
// Digit runs are decimal (NOT octal, per spec.md §4.2's intentional ISO C
// divergence); values beyond 0xFF saturate with a warning.
func (s *Scanner) scanEscape() (byte, error) {
	s.advance(1) // backslash
	if s.atEnd() {
		return 0, s.reportError("unterminated escape sequence")
	}
	c := s.cur()
	switch c {
	case '0':
		s.advance(1)
		return 0, nil
	case 'n':
		s.advance(1)
		return '\n', nil
	case 'r':
		s.advance(1)
		return '\r', nil
	case 't':
		s.advance(1)
		return '\t', nil
	case 'v':
		s.advance(1)
		return '\v', nil
	case 'b':
		s.advance(1)
		return '\b', nil
	case 'f':
		s.advance(1)
		return '\f', nil
	case 'a':
		s.advance(1)
		return '\a', nil
	case '\\', '\'', '"', '?':
		s.advance(1)
		return c, nil
	case 'x', 'X':
		s.advance(1)
		start := s.pos
		for isHexDigit(s.cur()) {
			s.advance(1)
		}
		if s.pos == start {
			return 0, s.reportError("\\x escape with no hex digits")
		}
		v, err := strconv.ParseUint(string(s.buf[start:s.pos]), 16, 64)
		if err != nil {
			return 0, s.reportError("malformed \\x escape: %v", err)
		}
		return s.saturate(v), nil
	default:
		if isDigit(c) {
			start := s.pos
			for isDigit(s.cur()) {
				s.advance(1)
			}
			v, _ := strconv.ParseUint(string(s.buf[start:s.pos]), 10, 64)
			return s.saturate(v), nil
		}
		s.advance(1)
		s.reportWarning("unrecognized escape sequence '\\%c'", c)
		return c, nil
	}
}

func (s *Scanner) saturate(v uint64) byte {
	if v > 0xFF {
		s.reportWarning("escape value %d exceeds 0xFF, saturating", v)
		return 0xFF
	}
	return byte(v)
}

// scanOnlyStringsToken implements the only_strings mode: every whitespace-
// delimited run becomes a single String token, with quoted runs still
// respecting their own quoting.
func (s *Scanner) scanOnlyStringsToken(startLine, linesCrossed int) (token.Token, error) {
	if s.cur() == '"' || s.cur() == '\'' {
		return s.scanStringOrLiteral(startLine, linesCrossed)
	}
	start := s.pos
	for !s.atEnd() && !isSpace(s.cur()) {
		s.advance(1)
	}
	text := string(s.buf[start:s.pos])
	return token.New(text, token.String, 0, startLine, linesCrossed), nil
}
