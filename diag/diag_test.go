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

package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(Semantic, true, cause)
	assert.Same(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "semantic", Semantic.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestNopHandlerDoesNotPanic(t *testing.T) {
	var h Handler = NopHandler{}
	h.Error("ignored", true)
	h.Warning("ignored")
}
