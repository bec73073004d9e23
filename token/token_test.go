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

package token

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsIntAsFloatAgreeAcrossRepresentations(t *testing.T) {
	testCases := []struct {
		name  string
		text  string
		flags Flags
	}{
		{"decimal", "42", Decimal | Integer | Signed},
		{"hex", "0x2A", Hexadecimal | Integer | Signed},
		{"octal", "052", Octal | Integer | Signed},
		{"binary", "0b101010", Binary | Integer | Signed},
		{"float", "42.0", Decimal | FloatingPoint | DoublePrecision},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tok := New(tc.text, Number, tc.flags, 1, 0)
			i, err := tok.AsInt()
			require.NoError(t, err)
			f, err := tok.AsFloat()
			require.NoError(t, err)
			assert.Equal(t, int64(42), i)
			assert.Equal(t, int64(f), i)
		})
	}
}

func TestAsIntUnsignedSuffix(t *testing.T) {
	tok := New("10ul", Number, Decimal|Integer|Unsigned, 1, 0)
	i, err := tok.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(10), i)
}

func TestIPAddressValue(t *testing.T) {
	tok := New("1.2.3.4", Number, IPAddress, 1, 0)
	i, err := tok.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(0x01020304), i)

	_, err = tok.AsFloat()
	assert.ErrorIs(t, err, ErrIPAddressNotInt)
}

func TestIPAddressWithPort(t *testing.T) {
	tok := New("1.2.3.4:80", Number, IPAddress|IPPort, 1, 0)
	i, err := tok.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(80)<<32|0x01020304, i)
}

func TestExceptionalFloats(t *testing.T) {
	testCases := []struct {
		text  string
		flags Flags
		bits  uint32
	}{
		{"1.#INF", Infinite, bitsInfinite},
		{"1.#IND", Indefinite, bitsIndefinite},
		{"1.#NAN", NaN, bitsNaN},
	}
	for _, tc := range testCases {
		tok := New(tc.text, Number, FloatingPoint|tc.flags, 1, 0)
		f, err := tok.AsFloat()
		require.NoError(t, err)
		assert.Equal(t, math.Float32bits(float32(f)), tc.bits)
	}
}

func TestCacheInvalidatedBySetText(t *testing.T) {
	tok := New("1", Number, Decimal|Integer|Signed, 1, 0)

	i, err := tok.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(1), i)

	tok.SetText("2")
	i, err = tok.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(2), i)
}
