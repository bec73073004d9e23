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

// PeekToken returns the next token without consuming it: NextToken followed
// by a PushBack of the token, when one was read.
func (s *Scanner) PeekToken() (token.Token, bool, error) {
	tok, ok, err := s.NextToken()
	if ok {
		s.PushBack(tok)
	}
	return tok, ok, err
}

// CheckPunctuation reports whether the next token is the named punctuator,
// rewinding (via pushback) on a miss so the caller can try something else.
func (s *Scanner) CheckPunctuation(text string) (bool, error) {
	tok, ok, err := s.NextToken()
	if err != nil {
		return false, err
	}
	if ok && tok.Category == token.Punctuation && tok.Text == text {
		return true, nil
	}
	if ok {
		s.PushBack(tok)
	}
	return false, nil
}

// CheckIdentifier reports whether the next token is the named identifier,
// rewinding on a miss.
func (s *Scanner) CheckIdentifier(text string) (bool, error) {
	tok, ok, err := s.NextToken()
	if err != nil {
		return false, err
	}
	if ok && tok.Category == token.Identifier && tok.Text == text {
		return true, nil
	}
	if ok {
		s.PushBack(tok)
	}
	return false, nil
}

// ExpectPunctuation consumes the next token and fails with a descriptive
// error if it is not the named punctuator.
func (s *Scanner) ExpectPunctuation(text string) error {
	tok, ok, err := s.NextToken()
	if err != nil {
		return err
	}
	if !ok {
		return s.reportError("expected %q, found end of input", text)
	}
	if tok.Category != token.Punctuation || tok.Text != text {
		return s.reportError("expected %q, found %q", text, tok.Text)
	}
	return nil
}

// ExpectIdentifier consumes the next token and fails with a descriptive
// error if it is not an Identifier.
func (s *Scanner) ExpectIdentifier() (token.Token, error) {
	tok, ok, err := s.NextToken()
	if err != nil {
		return token.Token{}, err
	}
	if !ok || tok.Category != token.Identifier {
		return token.Token{}, s.reportError("expected identifier, found %q", tok.Text)
	}
	return tok, nil
}

// NextTokenOnLine returns the next token only if it appears on the current
// line (no newline crossed); otherwise it is pushed back and ok is false.
func (s *Scanner) NextTokenOnLine() (tok token.Token, ok bool, err error) {
	tok, ok, err = s.NextToken()
	if err != nil || !ok {
		return token.Token{}, false, err
	}
	if tok.LinesCrossed > 0 {
		s.PushBack(tok)
		return token.Token{}, false, nil
	}
	return tok, true, nil
}

// SkipBracketedSection consumes tokens until the matching close punctuator
// for a currently-open bracket is found, tracking nesting depth. The opening
// bracket must already have been consumed by the caller.
func (s *Scanner) SkipBracketedSection(open, close string) error {
	depth := 1
	for {
		tok, ok, err := s.NextToken()
		if err != nil {
			return err
		}
		if !ok {
			return s.reportError("unterminated bracketed section, expected %q", close)
		}
		if tok.Category != token.Punctuation {
			continue
		}
		switch tok.Text {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

// ScanBracketedSectionExact returns the raw source text of a bracketed
// section (the opening bracket must already have been consumed), preserving
// original formatting/indentation rather than re-tokenizing and re-printing.
func (s *Scanner) ScanBracketedSectionExact(open, close byte) (string, error) {
	start := s.pos
	depth := 1
	for {
		if s.atEnd() {
			return "", s.reportError("unterminated bracketed section, expected %q", close)
		}
		c := s.cur()
		switch c {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				text := string(s.buf[start:s.pos])
				s.advance(1)
				return text, nil
			}
		}
		s.advance(1)
	}
}

// ScanMatrix1D reads a "open x[, x...[,]] close" sequence, calling elem for
// each element token.
func (s *Scanner) ScanMatrix1D(open, close, commaSep string, elem func(token.Token) error) error {
	if err := s.ExpectPunctuation(open); err != nil {
		return err
	}
	for {
		if done, err := s.CheckPunctuation(close); err != nil {
			return err
		} else if done {
			return nil
		}
		tok, ok, err := s.NextToken()
		if err != nil {
			return err
		}
		if !ok {
			return s.reportError("unterminated matrix, expected %q", close)
		}
		if err := elem(tok); err != nil {
			return err
		}
		if matched, err := s.CheckPunctuation(commaSep); err != nil {
			return err
		} else if !matched {
			return s.ExpectPunctuation(close)
		}
	}
}

// ScanMatrix2D reads "open row[, row...[,]] close" where each row is itself
// a ScanMatrix1D span.
func (s *Scanner) ScanMatrix2D(open, close, commaSep string, row func() error) error {
	if err := s.ExpectPunctuation(open); err != nil {
		return err
	}
	for {
		if done, err := s.CheckPunctuation(close); err != nil {
			return err
		} else if done {
			return nil
		}
		if err := row(); err != nil {
			return err
		}
		if matched, err := s.CheckPunctuation(commaSep); err != nil {
			return err
		} else if !matched {
			return s.ExpectPunctuation(close)
		}
	}
}

// ScanMatrix3D reads "open plane[, plane...[,]] close" where each plane is
// itself a ScanMatrix2D span.
func (s *Scanner) ScanMatrix3D(open, close, commaSep string, plane func() error) error {
	return s.ScanMatrix2D(open, close, commaSep, plane)
}
