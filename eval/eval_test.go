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

package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppscan/cppscan/scanner"
	"github.com/cppscan/cppscan/token"
)

func tokenize(t *testing.T, expr string) []token.Token {
	t.Helper()
	s := scanner.FromBuffer([]byte(expr), "test", 0, 1)
	var toks []token.Token
	for {
		tok, ok, err := s.NextToken()
		require.NoError(t, err)
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}

func evalInt(t *testing.T, flags Flags, expr string) int64 {
	t.Helper()
	v, err := New(flags, nil).Eval(tokenize(t, expr))
	require.NoError(t, err, expr)
	i, err := valueAsInt(v)
	require.NoError(t, err)
	return i
}

func valueAsInt(v Value) (int64, error) {
	if v.IsInt {
		return v.I, nil
	}
	return int64(v.F), nil
}

func TestPrecedenceTable(t *testing.T) {
	cases := []struct {
		expr string
		want int64
	}{
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"1 << 1 ^ 1 << 2", (1 << 1) ^ (1 << 2)},
		{"1 == 1 && 2 == 2", 1},
		{"1 == 2 || 3 == 3", 1},
		{"~0 & 0xF", int64(^0) & 0xF},
		{"!0", 1},
		{"!1", 0},
		{"1 ? 2 : 3", 2},
		{"0 ? 2 : 3", 3},
		{"1 ? 2 : 3 ? 4 : 5", 2},
		{"0 ? 2 : 1 ? 4 : 5", 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, evalInt(t, 0, c.expr), c.expr)
	}
}

func TestDivisionByZeroErrors(t *testing.T) {
	_, err := New(0, nil).Eval(tokenize(t, "1 / 0"))
	require.ErrorIs(t, err, token.ErrDivisionByZero)
}

func TestBitwiseRejectsFloat(t *testing.T) {
	_, err := New(0, nil).Eval(tokenize(t, "1.5 & 1"))
	require.ErrorIs(t, err, token.ErrBitwiseOnFloat)
}

func TestFloatPromotion(t *testing.T) {
	v, err := New(0, nil).Eval(tokenize(t, "1 + 2.5"))
	require.NoError(t, err)
	assert.False(t, v.IsInt)
	assert.Equal(t, 3.5, v.F)
}

func TestDefinedWithLookup(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "FOO" {
			return "1", true
		}
		return "", false
	}
	v, err := New(0, lookup).Eval(tokenize(t, "defined(FOO)"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.I)

	v, err = New(0, lookup).Eval(tokenize(t, "defined BAR"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.I)
}

func TestUndefinedConstantErrorsByDefault(t *testing.T) {
	_, err := New(0, nil).Eval(tokenize(t, "UNKNOWN"))
	require.ErrorIs(t, err, token.ErrUndefinedConstant)
}

func TestUndefinedConstsAreZero(t *testing.T) {
	v, err := New(UndefinedConstsAreZero, nil).Eval(tokenize(t, "UNKNOWN + 1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.I)
}

func TestLogicalAndShortCircuitsOnFalseLeft(t *testing.T) {
	lookup := func(name string) (string, bool) { return "", false }
	v, err := New(0, lookup).Eval(tokenize(t, "defined(FOO) && FOO > 0"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.I)
}

func TestLogicalOrShortCircuitsOnTrueLeft(t *testing.T) {
	lookup := func(name string) (string, bool) { return "", false }
	v, err := New(0, lookup).Eval(tokenize(t, "!defined(FOO) || FOO > 0"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.I)
}

func TestLogicalAndStillEvaluatesRightWhenLeftTrue(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "FOO" {
			return "1", true
		}
		return "", false
	}
	v, err := New(0, lookup).Eval(tokenize(t, "defined(FOO) && UNKNOWN > 0"))
	require.ErrorIs(t, err, token.ErrUndefinedConstant)
	assert.Equal(t, Value{}, v)
}

func TestMathFuncsAndConsts(t *testing.T) {
	v, err := New(AllowMathFuncs|AllowMathConsts, nil).Eval(tokenize(t, "2 * cos(0)"))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v.asFloat(), 1e-9)

	v, err = New(AllowMathConsts, nil).Eval(tokenize(t, "PI"))
	require.NoError(t, err)
	assert.InDelta(t, 3.14159265, v.F, 1e-6)
}

func TestMacroLookupSingleToken(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "N" {
			return "42", true
		}
		return "", false
	}
	v, err := New(0, lookup).Eval(tokenize(t, "N + 1"))
	require.NoError(t, err)
	assert.Equal(t, int64(43), v.I)
}

// TestUnaryPlusNestedNegation pins down spec.md's open question: unary "+"
// is a no-op and each unary "-" negates, so "+ - - x" equals "x".
func TestUnaryPlusNestedNegation(t *testing.T) {
	assert.Equal(t, int64(5), evalInt(t, 0, "+ - - 5"))
	assert.Equal(t, int64(-5), evalInt(t, 0, "- - - 5"))
	assert.Equal(t, int64(-5), evalInt(t, 0, "+ - 5"))
}

func TestRenderForceInt(t *testing.T) {
	e := New(ForceInt, nil)
	tok := e.Render(floatVal(3.7))
	assert.Equal(t, token.Number, tok.Category)
	assert.Equal(t, "3", tok.Text)
}

func TestRenderForceFloat(t *testing.T) {
	e := New(ForceFloat, nil)
	tok := e.Render(intVal(2))
	assert.Equal(t, "2.00000000000000000000", tok.Text)
}
