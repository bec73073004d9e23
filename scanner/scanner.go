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

// Package scanner implements the lexical scanner state machine: it consumes
// a character buffer and emits token.Tokens, skipping comments and
// whitespace, recognizing numbers/strings/identifiers/punctuation, and
// supporting a single token of pushback.
//
// A Scanner either owns a buffer it read from a file (Open) or borrows one
// supplied by the caller (FromBuffer); the caller must keep a borrowed
// buffer alive and unmodified for the Scanner's lifetime. Every method is
// synchronous and single-threaded - see spec.md §5.
package scanner

import (
	"fmt"
	"os"

	"github.com/cppscan/cppscan/diag"
	"github.com/cppscan/cppscan/punct"
	"github.com/cppscan/cppscan/token"
)

// Option configures a Scanner at construction time.
type Option func(*Scanner)

// WithPunctTable overrides the punctuation table used for the punctuation
// sub-scanner. Without this option, Scanners use the process-wide default
// from punct.Default() - see spec.md §4.1's reentrancy caveat.
func WithPunctTable(t *punct.Table) Option {
	return func(s *Scanner) { s.table = t }
}

// WithDiagHandler overrides the diagnostic sink. Defaults to diag.NopHandler.
func WithDiagHandler(h diag.Handler) Option {
	return func(s *Scanner) { s.diag = h }
}

type pushback struct {
	tok   token.Token
	valid bool
}

// Scanner is a lexical scanner over a single character buffer.
type Scanner struct {
	buf   []byte
	owned bool

	pos int // current read offset into buf
	end int // len(buf)

	line        int // physical line, bumped on every newline consumed (incl. spliced)
	logicalLine int // same-logical-line bookkeeping: not bumped across a "\"-newline splice
	name        string
	flags       Flags

	startLine int // line the buffer begins at (for FromBuffer callers mid-file)

	lastPos         int // read offset before the most recently returned token
	lastLine        int
	lastLogicalLine int

	wsStart, wsEnd int // span of the whitespace immediately preceding the current token

	pb pushback

	table *punct.Table
	diag  diag.Handler

	errorCount int
	warnCount  int
}

// Open reads the whole file at path into memory and returns a Scanner that
// owns the resulting buffer.
func Open(path string, flags Flags, opts ...Option) (*Scanner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.Wrap(diag.IO, true, err)
	}
	s := newScanner(data, path, flags, 1, opts...)
	s.owned = true
	return s, nil
}

// FromBuffer constructs a Scanner over a caller-owned buffer. data must
// remain valid and unmodified for the Scanner's lifetime. startLine sets the
// initial line number, for scanning a fragment extracted from a larger file.
func FromBuffer(data []byte, name string, flags Flags, startLine int, opts ...Option) *Scanner {
	return newScanner(data, name, flags, startLine, opts...)
}

func newScanner(data []byte, name string, flags Flags, startLine int, opts ...Option) *Scanner {
	s := &Scanner{
		buf:         data,
		end:         len(data),
		line:        startLine,
		logicalLine: startLine,
		startLine:   startLine,
		name:        name,
		flags:       flags,
		table:       punct.Default(),
		diag:        diag.NopHandler{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the file or buffer name used for diagnostics and __FILE__.
func (s *Scanner) Name() string { return s.name }

// Line returns the current line number.
func (s *Scanner) Line() int { return s.line }

// ErrorCount and WarnCount are monotonically non-decreasing (spec.md §8).
func (s *Scanner) ErrorCount() int { return s.errorCount }
func (s *Scanner) WarnCount() int  { return s.warnCount }

// ImmediatelyPreceded reports whether the most recently returned token had
// no intervening whitespace or comments before it. The preprocessor uses
// this to distinguish "#define NAME(params)" (function-like, no space
// before "(") from "#define NAME (body starting with a paren)".
func (s *Scanner) ImmediatelyPreceded() bool { return s.wsStart == s.wsEnd }

// Flags returns the scanner's current behavior bitmask.
func (s *Scanner) Flags() Flags { return s.flags }

// SetFlags replaces the scanner's behavior bitmask. Used by the preprocessor
// to implement "#pragma warning:(enable|disable)" (spec.md §4.4).
func (s *Scanner) SetFlags(f Flags) { s.flags = f }

// Reset rewinds the scanner to the beginning of its buffer.
func (s *Scanner) Reset() {
	s.pos = 0
	s.line = s.startLine
	s.logicalLine = s.startLine
	s.lastPos, s.lastLine, s.lastLogicalLine = 0, s.startLine, s.startLine
	s.pb = pushback{}
}

// Clear releases the scanner's buffer. For an owned buffer this drops the
// only reference (allowing it to be GC'd); for a borrowed buffer it is a
// no-op beyond resetting position, present so callers can treat owned and
// borrowed scanners identically in a defer.
func (s *Scanner) Clear() {
	if s.owned {
		s.buf = nil
	}
	s.pos, s.end = 0, 0
	s.pb = pushback{}
}

func (s *Scanner) atEnd() bool { return s.pos >= s.end }

func (s *Scanner) byteAt(offset int) (byte, bool) {
	i := s.pos + offset
	if i < 0 || i >= s.end {
		return 0, false
	}
	return s.buf[i], true
}

func (s *Scanner) cur() byte {
	b, _ := s.byteAt(0)
	return b
}

func (s *Scanner) advance(n int) {
	for i := 0; i < n && !s.atEnd(); i++ {
		if s.buf[s.pos] == '\n' {
			s.line++
			s.logicalLine++
		}
		s.pos++
	}
}

func (s *Scanner) reportError(format string, args ...any) error {
	s.errorCount++
	msg := fmt.Sprintf("%s:%d: %s", s.name, s.line, fmt.Sprintf(format, args...))
	fatal := !s.flags.has(NoFatalErrors)
	if !s.flags.has(NoErrors) {
		s.diag.Error(msg, fatal)
	}
	return diag.New(diag.Syntax, fatal, msg)
}

func (s *Scanner) reportWarning(format string, args ...any) {
	s.warnCount++
	if s.flags.has(NoWarnings) {
		return
	}
	s.diag.Warning(fmt.Sprintf("%s:%d: %s", s.name, s.line, fmt.Sprintf(format, args...)))
}

// PushBack returns tok to the scanner so the next NextToken call returns it
// verbatim. At most one token may be pending; pushing a second overwrites the
// first with a warning, per spec.md §5.
func (s *Scanner) PushBack(tok token.Token) {
	if s.pb.valid {
		s.reportWarning("pushback slot already occupied, overwriting")
	}
	s.pb = pushback{tok: tok, valid: true}
}

// NextToken returns the next token from the buffer. ok is false (with a nil
// error) at end of input; err is non-nil only on a scanning failure.
func (s *Scanner) NextToken() (tok token.Token, ok bool, err error) {
	if s.pb.valid {
		tok, s.pb = s.pb.tok, pushback{}
		return tok, true, nil
	}

	s.lastPos, s.lastLine, s.lastLogicalLine = s.pos, s.line, s.logicalLine

	if err := s.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, false, err
	}
	if s.atEnd() {
		return token.Token{}, false, nil
	}

	// startLine is the true physical line, reported on the token and used
	// for __LINE__/diagnostics. linesCrossed tracks the same-logical-line
	// question (used by NextTokenOnLine to find a directive's end): a
	// "\"-newline splice advances startLine but must not count as a line
	// crossed, so it is computed from logicalLine instead.
	startLine := s.line
	linesCrossed := s.logicalLine - s.lastLogicalLine

	if s.flags.has(OnlyStrings) {
		tok, err := s.scanOnlyStringsToken(startLine, linesCrossed)
		return tok, true, err
	}

	c := s.cur()
	var next byte
	if b, have := s.byteAt(1); have {
		next = b
	}

	switch {
	case c == '"' || c == '\'':
		tok, err = s.scanStringOrLiteral(startLine, linesCrossed)
	case isDigit(c) || (c == '.' && isDigit(next)):
		tok, err = s.scanNumber(startLine, linesCrossed)
		if err == nil && s.flags.has(AllowNumberNames) && isIdentStart(s.cur()) {
			tok, err = s.continueAsIdentifier(tok, startLine, linesCrossed)
		}
	case isIdentStart(c):
		tok, err = s.scanIdentifier(startLine, linesCrossed)
	case (c == '/' || c == '\\' || c == '.') && s.flags.has(AllowPathNames):
		tok, err = s.scanIdentifier(startLine, linesCrossed)
	default:
		tok, err = s.scanPunctuation(startLine, linesCrossed)
	}
	if err != nil {
		return token.Token{}, false, err
	}
	return tok, true, nil
}

// skipWhitespaceAndComments advances past whitespace, "// ..." line comments,
// and "/* ... */" block comments (warning at most once per block comment that
// contains a nested "/*"), updating s.line on every newline crossed.
func (s *Scanner) skipWhitespaceAndComments() error {
	s.wsStart = s.pos
	for !s.atEnd() {
		c := s.cur()
		switch {
		case isSpace(c):
			s.advance(1)
		case c == '/' && s.peekIs(1, '/'):
			for !s.atEnd() && s.cur() != '\n' {
				s.advance(1)
			}
		case c == '\\' && s.lineContinuationAhead():
			s.consumeLineContinuation()
		case c == '/' && s.peekIs(1, '*'):
			s.advance(2)
			warned := false
			for {
				if s.atEnd() {
					return s.reportError("unterminated block comment")
				}
				if s.cur() == '/' && s.peekIs(1, '*') && !warned {
					s.reportWarning("nested /* inside block comment")
					warned = true
				}
				if s.cur() == '*' && s.peekIs(1, '/') {
					s.advance(2)
					break
				}
				s.advance(1)
			}
		default:
			s.wsEnd = s.pos
			return nil
		}
	}
	s.wsEnd = s.pos
	return nil
}

// lineContinuationAhead reports whether the cursor is on a '\' immediately
// followed by a newline (optionally preceded by '\r').
func (s *Scanner) lineContinuationAhead() bool {
	if s.peekIs(1, '\n') {
		return true
	}
	return s.peekIs(1, '\r') && s.peekIs(2, '\n')
}

// consumeLineContinuation swallows a "\<newline>" splice. The physical line
// counter (s.line) still advances, so __LINE__ and diagnostics stay accurate
// for everything after the splice; s.logicalLine does not, so directive
// bodies that span a continuation are still considered part of the same
// logical line (spec.md §4.4's "\ immediately before end-of-line continues
// the body") and NextTokenOnLine's LinesCrossed check keeps working.
func (s *Scanner) consumeLineContinuation() {
	s.pos++ // backslash
	if s.cur() == '\r' {
		s.pos++
	}
	if s.cur() == '\n' {
		s.pos++
		s.line++
	}
}

func (s *Scanner) peekIs(offset int, want byte) bool {
	b, ok := s.byteAt(offset)
	return ok && b == want
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
