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

package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIfElifElseOnlyOneBranchTaken exercises end-to-end scenario 8 from
// spec.md §8: #if defined(FOO) / #elif defined(BAR) / #else, with only BAR
// defined, takes only the #elif branch.
func TestIfElifElseOnlyOneBranchTaken(t *testing.T) {
	var c condStack

	c.pushIf(false) // #if defined(FOO) -> false
	assert.True(t, c.skipping())

	require.NoError(t, c.elif(true)) // #elif defined(BAR) -> true
	assert.False(t, c.skipping())

	require.NoError(t, c.else_())
	assert.True(t, c.skipping())

	require.NoError(t, c.endif())
	assert.Equal(t, 0, c.depth())
}

func TestIfTrueSuppressesElifAndElse(t *testing.T) {
	var c condStack

	c.pushIf(true)
	assert.False(t, c.skipping())

	require.NoError(t, c.elif(true))
	assert.True(t, c.skipping(), "elif must be skipped once the #if already succeeded")

	require.NoError(t, c.else_())
	assert.True(t, c.skipping(), "else must be skipped once an earlier branch succeeded")
}

func TestDuplicateElseErrors(t *testing.T) {
	var c condStack
	c.pushIf(false)
	require.NoError(t, c.else_())
	err := c.else_()
	require.Error(t, err)
}

func TestElifAfterElseErrors(t *testing.T) {
	var c condStack
	c.pushIf(false)
	require.NoError(t, c.else_())
	err := c.elif(true)
	require.Error(t, err)
}

func TestNestedConditionalsSkipInsideSkippedOuter(t *testing.T) {
	var c condStack
	c.pushIf(false) // outer false: skipping
	c.pushIf(true)  // inner true, but outer is skipping so should still read as skipping overall
	assert.True(t, c.skipping())
	require.NoError(t, c.endif())
	assert.True(t, c.skipping())
	require.NoError(t, c.endif())
	assert.False(t, c.skipping())
}

func TestEndifWithoutIfErrors(t *testing.T) {
	var c condStack
	require.Error(t, c.endif())
}
