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
	"strings"

	"github.com/cppscan/cppscan/eval"
	"github.com/cppscan/cppscan/internal/collections"
	"github.com/cppscan/cppscan/macro"
	"github.com/cppscan/cppscan/scanner"
	"github.com/cppscan/cppscan/token"
)

// handleDirective dispatches on the name following a "#" or "$" introducer,
// per spec.md §4.4. While the conditional stack is skipping, only the
// conditional directives themselves ("#if"/"#ifdef"/"#ifndef"/"#elif"/
// "#else"/"#endif") are still processed; everything else, including "$eval*",
// is silently dropped (after consuming its tokens so the stream stays in
// sync).
func (p *Preprocessor) handleDirective(introducer token.Token) error {
	nameTok, ok, err := p.scanner.NextTokenOnLine()
	if err != nil {
		return err
	}
	if !ok {
		return p.fatal("%q with no directive name", introducer.Text)
	}
	name := nameTok.Text

	if introducer.Text == "$" {
		return p.handleDollar(name)
	}

	switch name {
	case "if":
		return p.handleIf()
	case "ifdef":
		return p.handleIfdef(true)
	case "ifndef":
		return p.handleIfdef(false)
	case "elif":
		return p.handleElif()
	case "else":
		return p.handleElse()
	case "endif":
		return p.handleEndif()
	}

	if p.cond.skipping() {
		// Still drain the rest of the directive's line so following tokens
		// aren't misread as directive content.
		_, err := p.collectLineTokens()
		return err
	}

	switch name {
	case "include":
		return p.handleInclude()
	case "define":
		return p.handleDefine()
	case "undef":
		return p.handleUndef()
	case "line":
		return p.handleLine()
	case "error":
		return p.handleErrorDirective()
	case "warning", "warn":
		return p.handleWarningDirective()
	case "pragma":
		return p.handlePragma()
	default:
		if strings.HasPrefix(name, "eval") {
			return p.fatal("unknown directive %q; did you mean \"$%s\"?", name, name)
		}
		return p.fatal("unknown directive %q", name)
	}
}

func (p *Preprocessor) fatal(format string, args ...interface{}) error {
	return p.reportError(!p.flags.has(NoFatalErrors), format, args...)
}

// collectLineTokens gathers every remaining token on the directive's current
// line, honoring the scanner's backslash-newline splicing.
func (p *Preprocessor) collectLineTokens() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, ok, err := p.scanner.NextTokenOnLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// collectParenExpr consumes a balanced "(...)" span, returning the tokens
// strictly between the outer parentheses (nested parens are included as
// ordinary tokens): the argument form of "$eval*".
func (p *Preprocessor) collectParenExpr() ([]token.Token, error) {
	if err := p.scanner.ExpectPunctuation("("); err != nil {
		return nil, err
	}
	var toks []token.Token
	depth := 0
	for {
		tok, ok, err := p.scanner.NextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, p.fatal("unterminated $eval expression, expected ')'")
		}
		if tok.Category == token.Punctuation {
			if tok.Text == "(" {
				depth++
			}
			if tok.Text == ")" {
				if depth == 0 {
					return toks, nil
				}
				depth--
			}
		}
		toks = append(toks, tok)
	}
}

// constLookup bridges the macro table into eval.ConstLookup: a macro whose
// body is not exactly one token is still reported as "defined" (for
// defined()) but yields an empty value text, which parseConstText will
// reject if actually evaluated as a number.
func (p *Preprocessor) constLookup(name string) (string, bool) {
	def, ok := p.macros.Lookup(name)
	if !ok {
		return "", false
	}
	body := p.macros.Body(def)
	if len(body) != 1 {
		return "", true
	}
	return body[0].Text, true
}

func (p *Preprocessor) evaluator() *eval.Evaluator {
	return eval.New(p.evalFlags, p.constLookup)
}

func (p *Preprocessor) handleDollar(name string) error {
	if p.cond.skipping() {
		_, err := p.collectParenExpr()
		return err
	}

	var flag eval.Flags
	switch name {
	case "eval":
		flag = eval.DetectType
	case "evalint":
		flag = eval.ForceInt
	case "evalfloat":
		flag = eval.ForceFloat
	default:
		return p.fatal("unknown directive %q", "$"+name)
	}

	toks, err := p.collectParenExpr()
	if err != nil {
		return err
	}
	e := eval.New(p.evalFlags|flag, p.constLookup)
	v, err := e.Eval(toks)
	if err != nil {
		return p.fatal("%v", err)
	}
	p.emit(e.Render(v))
	return nil
}

// handleIf implements "#if EXPR". A nested "#if" encountered while already
// inside a skipped branch pushes a frame that stays skipped unconditionally,
// without evaluating EXPR - code inside a disabled branch may reference
// macros that don't exist there, and evaluating it would misreport an error.
func (p *Preprocessor) handleIf() error {
	toks, err := p.collectLineTokens()
	if err != nil {
		return err
	}
	if p.cond.skipping() {
		p.cond.push(condFrame{skipBody: true, parentState: false})
		return nil
	}
	v, err := p.evaluator().Eval(toks)
	if err != nil {
		return p.fatal("%v", err)
	}
	p.cond.pushIf(v.truthy())
	return nil
}

func (p *Preprocessor) handleIfdef(wantDefined bool) error {
	nameTok, ok, err := p.scanner.NextTokenOnLine()
	if err != nil {
		return err
	}
	if !ok || nameTok.Category != token.Identifier {
		return p.fatal("#ifdef/#ifndef requires a macro name")
	}
	if p.cond.skipping() {
		p.cond.push(condFrame{skipBody: true, parentState: false})
		return nil
	}
	_, defined := p.macros.Lookup(nameTok.Text)
	p.cond.pushIf(defined == wantDefined)
	return nil
}

// handleElif evaluates EXPR only when the enclosing branch chain is still
// reachable (the prior frame's parentState && skipBody); otherwise the
// result is moot and evaluation is skipped entirely, per the same
// disabled-code reasoning as handleIf.
func (p *Preprocessor) handleElif() error {
	toks, err := p.collectLineTokens()
	if err != nil {
		return err
	}
	top, ok := p.cond.peek()
	if !ok {
		return p.fatal("#elif without #if")
	}
	available := top.parentState && top.skipBody
	result := false
	if available {
		v, err := p.evaluator().Eval(toks)
		if err != nil {
			return p.fatal("%v", err)
		}
		result = v.truthy()
	}
	return p.cond.elif(result)
}

func (p *Preprocessor) handleElse() error {
	if _, err := p.collectLineTokens(); err != nil {
		return err
	}
	return p.cond.else_()
}

func (p *Preprocessor) handleEndif() error {
	if _, err := p.collectLineTokens(); err != nil {
		return err
	}
	return p.cond.endif()
}

// handleInclude implements "#include \"name\"" and "#include <name>", per
// spec.md §4.4: quoted names resolve against the including file's directory
// first, angle-bracket names resolve against the configured search paths.
// "#pragma once" is honored here through the pragmaOnce set, which
// handlePragma fills; a file still open on the include stack is rejected as
// a circular include (seenOnIncludeStack).
func (p *Preprocessor) handleInclude() error {
	if p.flags.has(NoIncludes) {
		_, err := p.collectLineTokens()
		return err
	}

	nameTok, ok, err := p.scanner.NextTokenOnLine()
	if err != nil {
		return err
	}
	if !ok {
		return p.fatal("#include requires a filename")
	}

	var path string
	var found bool
	switch {
	case nameTok.Category == token.String:
		path, found = p.resolveQuoted(nameTok.Text)
	case nameTok.Category == token.Punctuation && nameTok.Text == "<":
		angled, err := p.scanAngledName()
		if err != nil {
			return err
		}
		if !p.flags.has(NoBaseIncludes) {
			path, found = p.resolveAngled(angled)
		}
	default:
		return p.fatal("#include: expected a quoted or angle-bracketed filename, got %q", nameTok.Text)
	}
	if _, err := p.collectLineTokens(); err != nil { // drain trailing junk, if any
		return err
	}
	if !found {
		return p.fatal("#include: cannot find %q", nameTok.Text)
	}

	if p.pragmaOnce[path] {
		return nil
	}
	if p.seenOnIncludeStack(path) > 0 {
		return p.fatal("circular #include of %q", path)
	}

	scn, err := scanner.Open(path, p.scanner.Flags(), scanner.WithDiagHandler(p.diag))
	if err != nil {
		return err
	}
	p.includeStack = append(p.includeStack, p.scanner)
	p.scanner = scn
	return nil
}

// scanAngledName re-reads raw tokens up to a closing ">" and joins their text,
// for "#include <a/b.h>"-style names the scanner would otherwise tokenize as
// several punctuation/identifier tokens.
func (p *Preprocessor) scanAngledName() (string, error) {
	var sb strings.Builder
	for {
		tok, ok, err := p.scanner.NextTokenOnLine()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", p.fatal("#include: unterminated <...>")
		}
		if tok.Category == token.Punctuation && tok.Text == ">" {
			return sb.String(), nil
		}
		sb.WriteString(tok.Text)
	}
}

// handleDefine implements "#define NAME body", "#define NAME(params) body",
// and the variadic "..." parameter, per spec.md §4.4. A macro is
// function-like only when "(" immediately follows NAME with no whitespace;
// otherwise a leading "(" belongs to the body.
func (p *Preprocessor) handleDefine() error {
	nameTok, err := p.scanner.ExpectIdentifier()
	if err != nil {
		return err
	}

	def := macro.Definition{Name: nameTok.Text, Line: p.currentLine()}

	openParen, ok, err := p.scanner.NextTokenOnLine()
	if err != nil {
		return err
	}
	functionLike := ok && openParen.Category == token.Punctuation && openParen.Text == "(" && p.scanner.ImmediatelyPreceded()
	if !functionLike {
		if ok {
			p.scanner.PushBack(openParen)
		}
	} else {
		def.FunctionLike = true
		params, variadic, empty, err := p.parseParamList()
		if err != nil {
			return err
		}
		if dups := collections.FindDuplicates(params); len(dups) > 0 {
			return p.fatal("#define %s: duplicate parameter name %q", def.Name, dups[0])
		}
		def.ParamNames = params
		def.Variadic = variadic
		def.EmptyFunctionLike = empty
	}

	body, err := p.collectLineTokens()
	if err != nil {
		return err
	}

	replaced := p.macros.Define(def, body)
	if replaced && p.flags.has(WarnMacroRedefinitions) {
		p.reportWarning("macro %q redefined", def.Name)
	}
	return nil
}

// parseParamList reads a function-like macro's "(" already-consumed
// parameter list up to and including its closing ")".
func (p *Preprocessor) parseParamList() (params []string, variadic bool, empty bool, err error) {
	first, ok, err := p.scanner.NextTokenOnLine()
	if err != nil {
		return nil, false, false, err
	}
	if ok && first.Category == token.Punctuation && first.Text == ")" {
		return nil, false, true, nil
	}
	if !ok {
		return nil, false, false, p.fatal("#define: unterminated parameter list")
	}
	p.scanner.PushBack(first)

	for {
		tok, ok, err := p.scanner.NextTokenOnLine()
		if err != nil {
			return nil, false, false, err
		}
		if !ok {
			return nil, false, false, p.fatal("#define: unterminated parameter list")
		}
		if tok.Category == token.Punctuation && tok.Text == "..." {
			variadic = true
			if err := p.scanner.ExpectPunctuation(")"); err != nil {
				return nil, false, false, err
			}
			return params, variadic, false, nil
		}
		if tok.Category != token.Identifier {
			return nil, false, false, p.fatal("#define: expected parameter name, got %q", tok.Text)
		}
		params = append(params, tok.Text)

		next, ok, err := p.scanner.NextTokenOnLine()
		if err != nil {
			return nil, false, false, err
		}
		if !ok {
			return nil, false, false, p.fatal("#define: unterminated parameter list")
		}
		if next.Category == token.Punctuation && next.Text == ")" {
			return params, variadic, false, nil
		}
		if next.Category != token.Punctuation || next.Text != "," {
			return nil, false, false, p.fatal("#define: expected ',' or ')' in parameter list, got %q", next.Text)
		}
	}
}

func (p *Preprocessor) handleUndef() error {
	nameTok, err := p.scanner.ExpectIdentifier()
	if err != nil {
		return err
	}
	if _, err := p.collectLineTokens(); err != nil {
		return err
	}
	p.macros.Undef(nameTok.Text)
	return nil
}

func (p *Preprocessor) handleLine() error {
	_, err := p.collectLineTokens()
	return err
}

func (p *Preprocessor) handleErrorDirective() error {
	toks, err := p.collectLineTokens()
	if err != nil {
		return err
	}
	return p.fatal("#error: %s", joinText(toks))
}

func (p *Preprocessor) handleWarningDirective() error {
	toks, err := p.collectLineTokens()
	if err != nil {
		return err
	}
	p.reportWarning("%s", joinText(toks))
	return nil
}

func joinText(toks []token.Token) string {
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// handlePragma implements "#pragma once" and "#pragma warning:(enable|disable)",
// per spec.md §4.4. Unrecognized pragmas are consumed silently, matching the
// "unknown pragmas are ignored" convention this family of preprocessors uses.
func (p *Preprocessor) handlePragma() error {
	nameTok, ok, err := p.scanner.NextTokenOnLine()
	if err != nil {
		return err
	}
	if !ok {
		return p.fatal("#pragma requires a name")
	}

	switch nameTok.Text {
	case "once":
		if p.pragmaOnce == nil {
			p.pragmaOnce = make(map[string]bool)
		}
		p.pragmaOnce[p.currentName()] = true
		_, err := p.collectLineTokens()
		return err
	case "warning":
		return p.handlePragmaWarning()
	default:
		_, err := p.collectLineTokens()
		return err
	}
}

func (p *Preprocessor) handlePragmaWarning() error {
	if err := p.scanner.ExpectPunctuation(":"); err != nil {
		return err
	}
	if err := p.scanner.ExpectPunctuation("("); err != nil {
		return err
	}
	modeTok, ok, err := p.scanner.NextTokenOnLine()
	if err != nil {
		return err
	}
	if !ok {
		return p.fatal("#pragma warning: expected 'enable' or 'disable'")
	}
	if err := p.scanner.ExpectPunctuation(")"); err != nil {
		return err
	}

	flags := p.scanner.Flags()
	switch modeTok.Text {
	case "disable":
		flags |= scanner.NoWarnings
	case "enable":
		flags &^= scanner.NoWarnings
	default:
		return p.fatal("#pragma warning: expected 'enable' or 'disable', got %q", modeTok.Text)
	}
	p.scanner.SetFlags(flags)
	return nil
}
