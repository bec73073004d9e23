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

// Package diag models the scanner/preprocessor error-reporting boundary as a
// pluggable interface (spec.md §6 "Error callback"): the core only ever
// reports through a Handler, never writes directly to stderr or panics on
// its own. This package ships the default sink; the interface itself is the
// part spec.md treats as an external collaborator.
package diag

// Kind classifies a reported error, per spec.md §7.
type Kind int

const (
	Syntax Kind = iota
	Grammar
	Semantic
	IO
	State
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Grammar:
		return "grammar"
	case Semantic:
		return "semantic"
	case IO:
		return "io"
	case State:
		return "state"
	default:
		return "unknown"
	}
}

// Error wraps a reported error with its Kind, so callers can inspect the
// taxonomy from spec.md §7 with errors.As instead of string-matching
// messages.
type Error struct {
	Kind  Kind
	Msg   string
	Fatal bool
	Err   error // wrapped cause, if any
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Err }

// New builds a diag.Error of the given kind.
func New(kind Kind, fatal bool, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Fatal: fatal}
}

// Wrap builds a diag.Error of the given kind around an existing error.
func Wrap(kind Kind, fatal bool, err error) *Error {
	return &Error{Kind: kind, Msg: err.Error(), Fatal: fatal, Err: err}
}

// Handler is the pluggable error/warning sink. Implementations must not
// assume Error/Warning calls are synchronized; the core only ever calls
// them from the single goroutine operating a given Scanner/Preprocessor,
// per spec.md §5.
type Handler interface {
	// Error reports a fatal or non-fatal error. fatal mirrors spec.md §7
	// propagation rules: the caller still decides whether to abort.
	Error(msg string, fatal bool)
	// Warning reports a non-aborting diagnostic.
	Warning(msg string)
}

// NopHandler discards every diagnostic. Counters (spec.md §8's "monotonically
// non-decreasing" invariant) live on the Scanner/Preprocessor, not the
// Handler, so using NopHandler never breaks that invariant - it just means
// nothing is printed.
type NopHandler struct{}

func (NopHandler) Error(string, bool) {}
func (NopHandler) Warning(string)     {}
