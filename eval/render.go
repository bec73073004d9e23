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
	"fmt"

	"github.com/cppscan/cppscan/token"
)

// Render converts v into a Number token for text emission, per spec.md
// §4.3: force_int formats as a decimal integer, force_float as a
// fixed-point double with 20 fractional digits, and detect_type picks
// whichever Value.IsInt says.
func (e *Evaluator) Render(v Value) token.Token {
	asInt := v.IsInt
	switch {
	case e.Flags.has(ForceInt):
		asInt = true
	case e.Flags.has(ForceFloat):
		asInt = false
	}

	if asInt {
		i := v.I
		if !v.IsInt {
			i = int64(v.F)
		}
		text := fmt.Sprintf("%d", i)
		return token.New(text, token.Number, token.Decimal|token.Integer|token.Signed, 0, 0)
	}

	f := v.F
	if v.IsInt {
		f = float64(v.I)
	}
	text := fmt.Sprintf("%.20f", f)
	return token.New(text, token.Number, token.FloatingPoint|token.DoublePrecision, 0, 0)
}
