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

// scanNumber implements spec.md §4.2's number sub-scanner: hex/binary/octal/
// decimal integers, decimal/exceptional floats, and IPv4[:port] addresses.
func (s *Scanner) scanNumber(startLine, linesCrossed int) (token.Token, error) {
	start := s.pos

	if s.cur() == '0' && (s.peekIs(1, 'x') || s.peekIs(1, 'X')) {
		s.advance(2)
		for isHexDigit(s.cur()) {
			s.advance(1)
		}
		return s.finishInteger(start, startLine, linesCrossed, token.Hexadecimal)
	}
	if s.cur() == '0' && (s.peekIs(1, 'b') || s.peekIs(1, 'B')) {
		s.advance(2)
		for s.cur() == '0' || s.cur() == '1' {
			s.advance(1)
		}
		return s.finishInteger(start, startLine, linesCrossed, token.Binary)
	}

	for isDigit(s.cur()) {
		s.advance(1)
	}

	dots := 0
	for s.cur() == '.' {
		dots++
		s.advance(1)
		for isDigit(s.cur()) {
			s.advance(1)
		}
	}

	hasExp := false
	if dots <= 1 && (s.cur() == 'e' || s.cur() == 'E') {
		save := s.pos
		s.advance(1)
		if s.cur() == '+' || s.cur() == '-' {
			s.advance(1)
		}
		if isDigit(s.cur()) {
			for isDigit(s.cur()) {
				s.advance(1)
			}
			hasExp = true
		} else {
			s.pos = save
		}
	}

	switch {
	case dots >= 3:
		return s.finishIPAddress(start, startLine, linesCrossed)
	case dots == 2:
		return token.Token{}, s.reportError("malformed IPv4 address %q: expected 3 dots", s.buf[start:s.pos])
	case dots == 1 || hasExp:
		return s.finishFloat(start, startLine, linesCrossed)
	default:
		text := string(s.buf[start:s.pos])
		flags := token.Decimal | token.Integer
		if text == "0" {
			flags = token.Octal | token.Integer
		} else if text[0] == '0' && allOctalDigits(text) {
			flags = token.Octal | token.Integer
		}
		return s.finishInteger(start, startLine, linesCrossed, flagsBase(flags))
	}
}

func flagsBase(f token.Flags) token.Flags { return f &^ token.Integer }

func allOctalDigits(text string) bool {
	for _, c := range text {
		if c < '0' || c > '7' {
			return false
		}
	}
	return true
}

// finishInteger consumes trailing u/U/l/L suffixes (up to two, either order)
// and emits an Integer token with the given representation flag.
func (s *Scanner) finishInteger(start, startLine, linesCrossed int, baseFlag token.Flags) (token.Token, error) {
	flags := baseFlag | token.Integer | token.Signed
	for i := 0; i < 2; i++ {
		switch s.cur() {
		case 'u', 'U':
			flags = flags &^ token.Signed
			flags |= token.Unsigned
			s.advance(1)
		case 'l', 'L':
			s.advance(1)
		default:
			i = 2
		}
	}
	text := string(s.buf[start:s.pos])
	return token.New(text, token.Number, flags, startLine, linesCrossed), nil
}

// finishFloat consumes the 1.#INF/IND/NAN exceptional spellings (if present
// at this position) or falls through to an ordinary decimal float, then
// consumes a trailing f/F or l/L precision suffix.
func (s *Scanner) finishFloat(start, startLine, linesCrossed int) (token.Token, error) {
	flags := token.FloatingPoint | token.DoublePrecision

	if exc, ok := s.matchExceptionalFloatSuffix(); ok {
		if !s.flags.has(AllowFloatExceptions) {
			return token.Token{}, s.reportError("exceptional float %q requires allow_float_exceptions", exc)
		}
		flags |= exceptionalFlag(exc)
	}

	switch s.cur() {
	case 'f', 'F':
		flags = (flags &^ token.DoublePrecision) | token.SinglePrecision
		s.advance(1)
	case 'l', 'L':
		flags = (flags &^ token.DoublePrecision) | token.ExtendedPrecision
		s.advance(1)
	}
	text := string(s.buf[start:s.pos])
	return token.New(text, token.Number, flags, startLine, linesCrossed), nil
}

var exceptionalFloatSuffixes = []string{"#INF", "#IND", "#QNAN", "#SNAN", "#NAN"}

// matchExceptionalFloatSuffix consumes a "#INF"/"#IND"/"#NAN"/"#QNAN"/"#SNAN"
// spelling immediately at the cursor, if present.
func (s *Scanner) matchExceptionalFloatSuffix() (string, bool) {
	for _, suf := range exceptionalFloatSuffixes {
		if s.hasPrefixFold(suf) {
			s.advance(len(suf))
			return suf, true
		}
	}
	return "", false
}

func (s *Scanner) hasPrefixFold(want string) bool {
	for i := 0; i < len(want); i++ {
		b, ok := s.byteAt(i)
		if !ok {
			return false
		}
		if toLower(b) != toLower(want[i]) {
			return false
		}
	}
	return true
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func exceptionalFlag(suffix string) token.Flags {
	switch suffix {
	case "#INF":
		return token.Infinite
	case "#IND":
		return token.Indefinite
	default:
		return token.NaN
	}
}

// finishIPAddress consumes the remaining dotted-quad bytes and an optional
// ":port" suffix.
func (s *Scanner) finishIPAddress(start, startLine, linesCrossed int) (token.Token, error) {
	if !s.flags.has(AllowIPAddresses) {
		return token.Token{}, s.reportError("IPv4 address literal requires allow_ip_addresses")
	}
	flags := token.IPAddress
	if s.cur() == ':' {
		s.advance(1)
		if !isDigit(s.cur()) {
			return token.Token{}, s.reportError("malformed IP port: expected digits after ':'")
		}
		for isDigit(s.cur()) {
			s.advance(1)
		}
		flags |= token.IPPort
	}
	text := string(s.buf[start:s.pos])
	return token.New(text, token.Number, flags, startLine, linesCrossed), nil
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// continueAsIdentifier is used when allow_number_names lets a numeric lead
// run directly into identifier characters (e.g. "123abc"); the combined span
// is re-emitted as a single Identifier token.
func (s *Scanner) continueAsIdentifier(numTok token.Token, startLine, linesCrossed int) (token.Token, error) {
	start := s.pos - len(numTok.Text)
	for isIdentCont(s.cur()) {
		s.advance(1)
	}
	text := string(s.buf[start:s.pos])
	flags := token.Flags(0)
	if text == "true" || text == "false" {
		flags |= token.Boolean
	}
	return token.New(text, token.Identifier, flags, startLine, linesCrossed), nil
}
