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
	"fmt"
	"strings"
	"time"

	"github.com/cppscan/cppscan/diag"
	"github.com/cppscan/cppscan/eval"
	"github.com/cppscan/cppscan/internal/collections"
	"github.com/cppscan/cppscan/macro"
	"github.com/cppscan/cppscan/scanner"
	"github.com/cppscan/cppscan/token"
)

// Option configures a Preprocessor at construction time.
type Option func(*Preprocessor)

// WithDiagHandler overrides the diagnostic sink. Defaults to diag.NopHandler.
func WithDiagHandler(h diag.Handler) Option {
	return func(p *Preprocessor) { p.diag = h }
}

// WithSearchPaths sets the default "#include <name>" search directories,
// already expanded (see ExpandSearchPaths).
func WithSearchPaths(paths []string) Option {
	return func(p *Preprocessor) { p.searchPaths = paths }
}

// WithLineHint overrides the output minifier's column hint. Defaults to
// DefaultLineHint.
func WithLineHint(hint int) Option {
	return func(p *Preprocessor) { p.lineHint = hint }
}

// WithEvalFlags configures the shared expression evaluator used for
// "#if"/"#elif" and "$eval*" directives.
func WithEvalFlags(flags eval.Flags) Option {
	return func(p *Preprocessor) { p.evalFlags = flags }
}

// WithMacros seeds the Preprocessor with a pre-populated macro table
// (for example, one carrying project-wide built-in definitions).
func WithMacros(t *macro.Table) Option {
	return func(p *Preprocessor) { p.macros = t }
}

// withClock overrides the clock used for __DATE__/__TIME__; exposed only to
// tests so they can pin expected output.
func withClock(now func() time.Time) Option {
	return func(p *Preprocessor) { p.now = now }
}

// Preprocessor expands macros and conditional-compilation directives over a
// Scanner, producing minified text output, per spec.md §4.4.
type Preprocessor struct {
	flags     Flags
	evalFlags eval.Flags
	diag      diag.Handler

	macros       *macro.Table
	expanding    collections.Set[string]
	varargsStack [][]token.Token

	scanner      *scanner.Scanner
	includeStack []*scanner.Scanner
	searchPaths  []string
	pragmaOnce   map[string]bool

	out          strings.Builder
	outCol       int
	lineHint     int
	lastWasPunct bool

	cond condStack

	errorCount int
	warnCount  int

	now func() time.Time
}

// New builds a Preprocessor reading from scn.
func New(scn *scanner.Scanner, flags Flags, opts ...Option) *Preprocessor {
	p := &Preprocessor{
		flags:     flags,
		diag:      diag.NopHandler{},
		macros:    macro.NewTable(),
		expanding: make(collections.Set[string]),
		scanner:   scn,
		lineHint:  DefaultLineHint,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Preprocessor) currentName() string {
	if p.scanner == nil {
		return ""
	}
	return p.scanner.Name()
}

func (p *Preprocessor) currentLine() int {
	if p.scanner == nil {
		return 0
	}
	return p.scanner.Line()
}

func (p *Preprocessor) reportError(fatal bool, format string, args ...interface{}) error {
	p.errorCount++
	err := diag.New(diag.State, fatal, fmt.Sprintf(format, args...))
	if !p.flags.has(NoErrors) {
		p.diag.Error(err.Msg, fatal)
	}
	return err
}

func (p *Preprocessor) reportWarning(format string, args ...interface{}) {
	p.warnCount++
	if p.flags.has(NoWarnings) {
		return
	}
	p.diag.Warning(fmt.Sprintf(format, args...))
}

// ErrorCount and WarnCount are monotonically non-decreasing (spec.md §8).
func (p *Preprocessor) ErrorCount() int { return p.errorCount }
func (p *Preprocessor) WarnCount() int  { return p.warnCount }

// Macros exposes the underlying macro table, e.g. so callers can pre-seed
// built-in definitions before Run.
func (p *Preprocessor) Macros() *macro.Table { return p.macros }

// Run drives the full token stream to completion, expanding macros and
// directives, and returns the minified output text.
func (p *Preprocessor) Run() (string, error) {
	for {
		tok, ok, err := p.nextRaw()
		if err != nil {
			return p.out.String(), err
		}
		if !ok {
			break
		}

		if tok.Category == token.Punctuation && (tok.Text == "#" || (tok.Text == "$" && !p.flags.has(NoDollarPreproc))) {
			if err := p.handleDirective(tok); err != nil {
				return p.out.String(), err
			}
			continue
		}

		if p.cond.skipping() {
			continue
		}

		if tok.Category == token.Identifier {
			if err := p.expandIdentifier(tok, p.scanner); err != nil {
				return p.out.String(), err
			}
			continue
		}
		p.emit(tok)
	}
	return p.out.String(), nil
}

// nextRaw pulls the next token from the top of the include stack, popping
// exhausted scanners until one yields a token or the stack is empty.
func (p *Preprocessor) nextRaw() (token.Token, bool, error) {
	for {
		if p.scanner == nil {
			return token.Token{}, false, nil
		}
		tok, ok, err := p.scanner.NextToken()
		if err != nil {
			return token.Token{}, false, err
		}
		if ok {
			return tok, true, nil
		}
		if len(p.includeStack) == 0 {
			p.scanner = nil
			return token.Token{}, false, nil
		}
		p.scanner = p.includeStack[len(p.includeStack)-1]
		p.includeStack = p.includeStack[:len(p.includeStack)-1]
	}
}
