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

package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppscan/cppscan/token"
)

func tok(text string) token.Token {
	return token.New(text, token.Identifier, 0, 1, 0)
}

func TestDefineAndLookup(t *testing.T) {
	tbl := NewTable()
	replaced := tbl.Define(Definition{Name: "FOO"}, []token.Token{tok("1")})
	assert.False(t, replaced)

	def, ok := tbl.Lookup("FOO")
	require.True(t, ok)
	assert.Equal(t, []token.Token{tok("1")}, tbl.Body(def))
}

func TestRedefinitionReplacesWithoutCompacting(t *testing.T) {
	tbl := NewTable()
	tbl.Define(Definition{Name: "FOO"}, []token.Token{tok("1")})
	replaced := tbl.Define(Definition{Name: "FOO"}, []token.Token{tok("2"), tok("3")})
	assert.True(t, replaced)

	def, ok := tbl.Lookup("FOO")
	require.True(t, ok)
	assert.Equal(t, []token.Token{tok("2"), tok("3")}, tbl.Body(def))
	// The old span for "1" remains in the arena, unreferenced.
	assert.GreaterOrEqual(t, len(tbl.arena), 3)
}

func TestUndefRemoves(t *testing.T) {
	tbl := NewTable()
	tbl.Define(Definition{Name: "FOO"}, nil)
	assert.True(t, tbl.Undef("FOO"))
	_, ok := tbl.Lookup("FOO")
	assert.False(t, ok)
	assert.False(t, tbl.Undef("FOO"))
}

func TestHashCollisionsResolvedByName(t *testing.T) {
	// "M120180" and "M135623" share the same Jenkins one-at-a-time hash.
	require.Equal(t, Hash("M120180"), Hash("M135623"))
	tbl := NewTable()
	tbl.Define(Definition{Name: "M120180"}, []token.Token{tok("1")})
	tbl.Define(Definition{Name: "M135623"}, []token.Token{tok("2")})
	a, ok := tbl.Lookup("M120180")
	require.True(t, ok)
	b, ok := tbl.Lookup("M135623")
	require.True(t, ok)
	assert.Equal(t, "1", tbl.Body(a)[0].Text)
	assert.Equal(t, "2", tbl.Body(b)[0].Text)
}

func TestValidateBodyRejectsHashAtEdges(t *testing.T) {
	hashTok := token.New("#", token.Punctuation, 0, 1, 0)
	require.Error(t, ValidateBody([]token.Token{hashTok, tok("x")}))
	require.Error(t, ValidateBody([]token.Token{tok("x"), hashTok}))
	require.NoError(t, ValidateBody([]token.Token{tok("x")}))
	require.NoError(t, ValidateBody(nil))
}

func TestHashIsDeterministic(t *testing.T) {
	assert.Equal(t, Hash("FOO"), Hash("FOO"))
	assert.NotEqual(t, Hash("FOO"), Hash("BAR"))
}
