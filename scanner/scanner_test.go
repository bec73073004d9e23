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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppscan/cppscan/token"
)

func allTokens(t *testing.T, s *Scanner) []token.Token {
	t.Helper()
	var out []token.Token
	for {
		tok, ok, err := s.NextToken()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

func TestSkipsWhitespaceAndComments(t *testing.T) {
	s := FromBuffer([]byte("  foo // trailing comment\n/* block\ncomment */ bar"), "test", 0, 1)
	toks := allTokens(t, s)
	require.Len(t, toks, 2)
	assert.Equal(t, "foo", toks[0].Text)
	assert.Equal(t, "bar", toks[1].Text)
	assert.Equal(t, 3, toks[1].Line)
}

func TestNestedBlockCommentWarns(t *testing.T) {
	s := FromBuffer([]byte("/* outer /* inner */ x"), "test", 0, 1)
	_ = allTokens(t, s)
	assert.Equal(t, 1, s.WarnCount())
}

func TestUnterminatedBlockCommentIsFatal(t *testing.T) {
	s := FromBuffer([]byte("/* never closes"), "test", 0, 1)
	_, _, err := s.NextToken()
	require.Error(t, err)
}

func TestPushBackReturnsSameToken(t *testing.T) {
	s := FromBuffer([]byte("alpha beta"), "test", 0, 1)
	first, ok, err := s.NextToken()
	require.NoError(t, err)
	require.True(t, ok)
	s.PushBack(first)
	again, ok, err := s.NextToken()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, again)
}

func TestPeekTokenDoesNotConsume(t *testing.T) {
	s := FromBuffer([]byte("alpha beta"), "test", 0, 1)
	peeked, ok, err := s.PeekToken()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alpha", peeked.Text)
	next, ok, err := s.NextToken()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alpha", next.Text)
}

func TestLinesCrossedCounted(t *testing.T) {
	s := FromBuffer([]byte("a\n\n\nb"), "test", 0, 1)
	toks := allTokens(t, s)
	require.Len(t, toks, 2)
	assert.Equal(t, 0, toks[0].LinesCrossed)
	assert.Equal(t, 3, toks[1].LinesCrossed)
	assert.Equal(t, 4, toks[1].Line)
}

func TestLineContinuationAdvancesPhysicalLineButNotLinesCrossed(t *testing.T) {
	s := FromBuffer([]byte("X \\\n1\nY"), "test", 0, 1)
	toks := allTokens(t, s)
	require.Len(t, toks, 3)
	assert.Equal(t, "X", toks[0].Text)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, "1", toks[1].Text)
	assert.Equal(t, 2, toks[1].Line, "the splice still advances the physical line")
	assert.Equal(t, 0, toks[1].LinesCrossed, "the splice keeps X and 1 on the same logical line")
	assert.Equal(t, "Y", toks[2].Text)
	assert.Equal(t, 3, toks[2].Line, "Y is on the 3rd physical line despite the earlier splice")
	assert.Equal(t, 1, toks[2].LinesCrossed)
}

func TestNumberDispatch(t *testing.T) {
	cases := []struct {
		text  string
		flags Flags
	}{
		{"0x2A", 0},
		{"0b101010", 0},
		{"052", 0},
		{"42", 0},
		{"42u", 0},
		{"3.14", 0},
		{"3.14f", 0},
		{"2e10", 0},
	}
	for _, c := range cases {
		s := FromBuffer([]byte(c.text), "test", c.flags, 1)
		tok, ok, err := s.NextToken()
		require.NoError(t, err, c.text)
		require.True(t, ok, c.text)
		assert.Equal(t, token.Number, tok.Category, c.text)
		assert.Equal(t, c.text, tok.Text, c.text)
	}
}

func TestExceptionalFloatRequiresFlag(t *testing.T) {
	s := FromBuffer([]byte("1.#INF"), "test", 0, 1)
	_, _, err := s.NextToken()
	require.Error(t, err)

	s2 := FromBuffer([]byte("1.#INF"), "test", AllowFloatExceptions, 1)
	tok, ok, err := s2.NextToken()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, tok.Flags.Has(token.Infinite))
}

func TestIPAddressRequiresFlag(t *testing.T) {
	s := FromBuffer([]byte("192.168.1.1"), "test", 0, 1)
	_, _, err := s.NextToken()
	require.Error(t, err)

	s2 := FromBuffer([]byte("192.168.1.1:8080"), "test", AllowIPAddresses, 1)
	tok, ok, err := s2.NextToken()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, tok.Flags.Has(token.IPPort))
}

func TestMalformedIPAddressTwoDots(t *testing.T) {
	s := FromBuffer([]byte("1.2.3"), "test", AllowIPAddresses, 1)
	_, _, err := s.NextToken()
	require.Error(t, err)
}

func TestStringConcatenation(t *testing.T) {
	s := FromBuffer([]byte(`"hello " "world"`), "test", 0, 1)
	tok, ok, err := s.NextToken()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hello world", tok.Text)
}

func TestStringNoConcatenationFlag(t *testing.T) {
	s := FromBuffer([]byte(`"hello " "world"`), "test", NoStringConcat, 1)
	toks := allTokens(t, s)
	require.Len(t, toks, 2)
}

func TestStringEscapes(t *testing.T) {
	s := FromBuffer([]byte(`"a\nb\x41\101"`), "test", 0, 1)
	tok, ok, err := s.NextToken()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a\nbAe", tok.Text)
}

func TestNewlineInStringIsFatal(t *testing.T) {
	s := FromBuffer([]byte("\"abc\ndef\""), "test", 0, 1)
	_, _, err := s.NextToken()
	require.Error(t, err)
}

func TestMultiCharLiteralRequiresFlag(t *testing.T) {
	s := FromBuffer([]byte("'ab'"), "test", 0, 1)
	_, _, err := s.NextToken()
	require.Error(t, err)

	s2 := FromBuffer([]byte("'ab'"), "test", AllowMultiCharLiterals, 1)
	tok, ok, err := s2.NextToken()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, token.Literal, tok.Category)
}

func TestIdentifierBooleanFlag(t *testing.T) {
	s := FromBuffer([]byte("true false other"), "test", 0, 1)
	toks := allTokens(t, s)
	require.Len(t, toks, 3)
	assert.True(t, toks[0].IsBoolean())
	assert.True(t, toks[1].IsBoolean())
	assert.False(t, toks[2].IsBoolean())
}

func TestPathNameIdentifier(t *testing.T) {
	s := FromBuffer([]byte("foo/bar.h"), "test", AllowPathNames, 1)
	tok, ok, err := s.NextToken()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "foo/bar.h", tok.Text)
}

func TestPunctuationLongestMatch(t *testing.T) {
	s := FromBuffer([]byte("<<= < <<"), "test", 0, 1)
	toks := allTokens(t, s)
	require.Len(t, toks, 3)
	assert.Equal(t, "<<=", toks[0].Text)
	assert.Equal(t, "<", toks[1].Text)
	assert.Equal(t, "<<", toks[2].Text)
}

func TestUnrecognizedCharacterErrors(t *testing.T) {
	s := FromBuffer([]byte("@"), "test", 0, 1)
	_, _, err := s.NextToken()
	require.Error(t, err)
}

func TestOnlyStringsMode(t *testing.T) {
	s := FromBuffer([]byte(`plain "quoted text" more`), "test", OnlyStrings, 1)
	toks := allTokens(t, s)
	require.Len(t, toks, 3)
	for _, tok := range toks {
		assert.Equal(t, token.String, tok.Category)
	}
	assert.Equal(t, "quoted text", toks[1].Text)
}

func TestExpectPunctuationFailsWithMessage(t *testing.T) {
	s := FromBuffer([]byte(")"), "test", 0, 1)
	err := s.ExpectPunctuation("(")
	require.Error(t, err)
}

func TestNextTokenOnLineRewindsAcrossNewline(t *testing.T) {
	s := FromBuffer([]byte("a\nb"), "test", 0, 1)
	_, ok, err := s.NextToken()
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = s.NextTokenOnLine()
	require.NoError(t, err)
	assert.False(t, ok)
	next, ok, err := s.NextToken()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", next.Text)
}

func TestSkipBracketedSectionTracksDepth(t *testing.T) {
	s := FromBuffer([]byte("{ a { b } c } tail"), "test", 0, 1)
	require.NoError(t, s.ExpectPunctuation("{"))
	require.NoError(t, s.SkipBracketedSection("{", "}"))
	tok, ok, err := s.NextToken()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tail", tok.Text)
}

func TestScanBracketedSectionExactPreservesFormatting(t *testing.T) {
	s := FromBuffer([]byte("{\n  indented\n}"), "test", 0, 1)
	require.NoError(t, s.ExpectPunctuation("{"))
	text, err := s.ScanBracketedSectionExact('{', '}')
	require.NoError(t, err)
	assert.Equal(t, "\n  indented\n", text)
}

func TestScanMatrix1D(t *testing.T) {
	s := FromBuffer([]byte("[1, 2, 3,]"), "test", 0, 1)
	var got []string
	err := s.ScanMatrix1D("[", "]", ",", func(tok token.Token) error {
		got = append(got, tok.Text)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestResetRewindsToStart(t *testing.T) {
	s := FromBuffer([]byte("a b"), "test", 0, 1)
	first, _, _ := s.NextToken()
	s.Reset()
	again, _, _ := s.NextToken()
	assert.Equal(t, first.Text, again.Text)
}
