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

// Package preprocessor implements macro expansion, conditional compilation,
// and textual output generation over a scanner.Scanner, per spec.md §4.4.
package preprocessor

// Flags is the Preprocessor behavior bitmask, per spec.md §6: the three
// error controls shared with scanner.Flags, plus preprocessor-specific
// knobs.
type Flags uint32

const (
	NoErrors Flags = 1 << iota
	NoWarnings
	NoFatalErrors
	NoDollarPreproc
	NoBaseIncludes
	NoIncludes
	WarnMacroRedefinitions
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// DefaultLineHint is the output minifier's default column hint (spec.md §6).
const DefaultLineHint = 128
