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

import "math"

// mathFuncs is the allow_math_funcs table: unary double->double functions
// callable from an expression, per spec.md §4.3.
var mathFuncs = map[string]func(float64) float64{
	"abs":   math.Abs,
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"ceil":  math.Ceil,
	"floor": math.Floor,
	"round": math.Round,
	"exp":   math.Exp,
	"exp2":  math.Exp2,
	"ln":    math.Log,
	"log2":  math.Log2,
	"log10": math.Log10,
}

// mathConsts is the allow_math_consts table, per spec.md §4.3.
var mathConsts = map[string]float64{
	"PI":      math.Pi,
	"E":       math.E,
	"TAU":     2 * math.Pi,
	"INV_TAU": 1 / (2 * math.Pi),
	"HALF_PI": math.Pi / 2,
	"INV_PI":  1 / math.Pi,
	"DEG2RAD": math.Pi / 180,
	"RAD2DEG": 180 / math.Pi,
}
