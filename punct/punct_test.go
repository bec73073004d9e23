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

package punct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRejectsEmptyText(t *testing.T) {
	_, err := Build([]Entry{{Text: "", ID: 1}})
	require.Error(t, err)
}

func TestBuildRejectsReservedNoneID(t *testing.T) {
	_, err := Build([]Entry{{Text: "+", ID: None}})
	require.Error(t, err)
}

func TestLongestMatchWinsRegardlessOfDefinitionOrder(t *testing.T) {
	// ">" is defined before ">>" and ">>=" here; Build must still prefer the
	// longest match, proving insertion order does not leak into lookup order.
	table, err := Build([]Entry{
		{Text: ">", ID: 1},
		{Text: ">>", ID: 2},
		{Text: ">>=", ID: 3},
	})
	require.NoError(t, err)

	id, text, ok := table.Match([]byte(">>=rest"))
	require.True(t, ok)
	assert.Equal(t, ID(3), id)
	assert.Equal(t, ">>=", text)

	id, text, ok = table.Match([]byte(">> "))
	require.True(t, ok)
	assert.Equal(t, ID(2), id)
	assert.Equal(t, ">>", text)

	id, text, ok = table.Match([]byte("> "))
	require.True(t, ok)
	assert.Equal(t, ID(1), id)
	assert.Equal(t, ">", text)
}

func TestMatchNoCandidate(t *testing.T) {
	table, err := Build([]Entry{{Text: "+", ID: 1}})
	require.NoError(t, err)

	_, _, ok := table.Match([]byte("@"))
	assert.False(t, ok)

	_, _, ok = table.Match(nil)
	assert.False(t, ok)
}

func TestDefaultTableHas52Entries(t *testing.T) {
	assert.Len(t, DefaultEntries, 52)
}

func TestDefaultTableLongestMatch(t *testing.T) {
	id, text, ok := Default().Match([]byte(">>=1"))
	require.True(t, ok)
	assert.Equal(t, RShiftAssign, id)
	assert.Equal(t, ">>=", text)

	id, text, ok = Default().Match([]byte("##paste"))
	require.True(t, ok)
	assert.Equal(t, Paste, id)
	assert.Equal(t, "##", text)
}

func TestLookupUnknownID(t *testing.T) {
	_, ok := Default().Lookup(None)
	assert.False(t, ok)
	_, ok = Default().Lookup(ID(10000))
	assert.False(t, ok)
}
