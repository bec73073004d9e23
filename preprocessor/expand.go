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

	"github.com/cppscan/cppscan/macro"
	"github.com/cppscan/cppscan/token"
)

// expandIdentifier is the entry point used by the main loop: tok names an
// identifier encountered outside of any macro body. It resolves built-ins
// and user macros (consuming a following "(...)" from src for function-like
// macros) and emits the fully expanded result; plain identifiers are
// emitted unchanged.
func (p *Preprocessor) expandIdentifier(tok token.Token, src tokenStream) error {
	toks, expanded, err := p.expandMacroToTokens(tok, src)
	if err != nil {
		return err
	}
	if !expanded {
		p.emit(tok)
		return nil
	}
	for _, out := range toks {
		p.emit(out)
	}
	return nil
}

// expandMacroToTokens resolves tok (a candidate macro name) against
// built-ins and the macro table, returning its fully expanded token
// sequence. expanded is false (with a nil, unused token slice) when tok
// does not name anything - the caller should treat it as a plain token.
func (p *Preprocessor) expandMacroToTokens(tok token.Token, src tokenStream) ([]token.Token, bool, error) {
	name := tok.Text

	if toks, ok, err := p.expandBuiltin(name); ok || err != nil {
		return toks, ok, err
	}

	def, ok := p.macros.Lookup(name)
	if !ok {
		return nil, false, nil
	}
	if p.expanding.Contains(name) {
		return nil, false, p.fatal("%s: %q", token.ErrSelfReferentialRef, name)
	}
	body := p.macros.Body(def)
	if err := macro.ValidateBody(body); err != nil {
		return nil, false, p.fatal("%v", err)
	}

	p.expanding.Add(name)
	defer delete(p.expanding, name)

	if !def.FunctionLike {
		out, err := p.substituteBody(body, nil, nil)
		return out, true, err
	}

	if src == nil {
		return nil, false, p.fatal("function-like macro %q used without an argument list", name)
	}
	next, have, err := peekToken(src)
	if err != nil {
		return nil, false, err
	}
	if !have || next.Category != token.Punctuation || next.Text != "(" {
		return nil, false, p.fatal("macro %q requires (...)", name)
	}
	src.NextToken() // consume "("

	rawArgs, err := collectArgs(src)
	if err != nil {
		return nil, false, p.fatal("%v", err)
	}
	rawArgs = p.spliceParentVarArgs(rawArgs)

	if def.Variadic {
		if len(rawArgs) < len(def.ParamNames) {
			return nil, false, p.fatal("macro %q expects at least %d arguments, got %d", name, len(def.ParamNames), len(rawArgs))
		}
	} else if len(rawArgs) != len(def.ParamNames) {
		return nil, false, p.fatal("macro %q expects %d arguments, got %d", name, len(def.ParamNames), len(rawArgs))
	}

	paramMap := make(map[string][]token.Token, len(def.ParamNames))
	for i, pname := range def.ParamNames {
		paramMap[pname] = rawArgs[i]
	}
	var varargs []token.Token
	if def.Variadic {
		varargs = joinWithComma(rawArgs[len(def.ParamNames):])
	}

	expandedParams := make(map[string][]token.Token, len(paramMap))
	for pname, raw := range paramMap {
		ex, err := p.expandArgument(raw)
		if err != nil {
			return nil, false, err
		}
		expandedParams[pname] = ex
	}
	var expandedVarargs []token.Token
	if def.Variadic {
		expandedVarargs, err = p.expandArgument(varargs)
		if err != nil {
			return nil, false, err
		}
	}

	if def.Variadic {
		p.varargsStack = append(p.varargsStack, expandedVarargs)
		defer func() { p.varargsStack = p.varargsStack[:len(p.varargsStack)-1] }()
	}

	out, err := p.substituteBody(body, paramMap, expandedParams)
	return out, true, err
}

// expandArgument fully macro-expands a collected (raw) argument's tokens,
// for substitution into a body position that isn't behind "#" or "##".
func (p *Preprocessor) expandArgument(raw []token.Token) ([]token.Token, error) {
	var out []token.Token
	src := newSliceStream(raw)
	for {
		tok, ok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		if tok.Category == token.Identifier {
			toks, expanded, err := p.expandMacroToTokens(tok, src)
			if err != nil {
				return nil, err
			}
			if expanded {
				out = append(out, toks...)
				continue
			}
		}
		out = append(out, tok)
	}
}

// spliceParentVarArgs implements spec.md §4.4's special case: when a raw
// argument is the single identifier "__VA_ARGS__", the enclosing macro's
// varargs (still comma-separated) are spliced into the argument list at
// that position instead of being treated as one argument.
func (p *Preprocessor) spliceParentVarArgs(args [][]token.Token) [][]token.Token {
	if len(p.varargsStack) == 0 {
		return args
	}
	parent := p.varargsStack[len(p.varargsStack)-1]
	var out [][]token.Token
	for _, a := range args {
		if len(a) == 1 && a[0].Category == token.Identifier && a[0].Text == "__VA_ARGS__" {
			out = append(out, splitOnTopLevelComma(parent)...)
			continue
		}
		out = append(out, a)
	}
	return out
}

func splitOnTopLevelComma(toks []token.Token) [][]token.Token {
	var out [][]token.Token
	var cur []token.Token
	depth := 0
	for _, t := range toks {
		if t.Category == token.Punctuation {
			switch t.Text {
			case "(":
				depth++
			case ")":
				depth--
			case ",":
				if depth == 0 {
					out = append(out, cur)
					cur = nil
					continue
				}
			}
		}
		cur = append(cur, t)
	}
	out = append(out, cur)
	return out
}

func joinWithComma(groups [][]token.Token) []token.Token {
	var out []token.Token
	for i, g := range groups {
		if i > 0 {
			out = append(out, token.New(",", token.Punctuation, 0, 0, 0))
		}
		out = append(out, g...)
	}
	return out
}

// substituteBody walks body performing "#" stringize, "##" paste, parameter
// substitution (using already-expanded argument tokens), "__VA_ARGS__"
// substitution, and recursive expansion of any other identifier, per
// spec.md §4.4.
func (p *Preprocessor) substituteBody(body []token.Token, rawParams, expandedParams map[string][]token.Token) ([]token.Token, error) {
	var out []token.Token
	for i := 0; i < len(body); i++ {
		tok := body[i]

		if tok.Category == token.Punctuation && tok.Text == "#" && i+1 < len(body) {
			pname := body[i+1].Text
			raw, ok := rawParams[pname]
			if !ok {
				return nil, p.fatal("'#' must be followed by a parameter name, got %q", pname)
			}
			out = append(out, stringize(raw))
			i++
			continue
		}

		if i+1 < len(body) && body[i+1].Category == token.Punctuation && body[i+1].Text == "##" {
			leftText := pasteOperandText(tok, rawParams)
			if i+2 >= len(body) {
				return nil, p.fatal("'##' has no right-hand operand")
			}
			rightText := pasteOperandText(body[i+2], rawParams)
			pasted := leftText + rightText
			out = append(out, pasteToken(pasted))
			i += 2
			continue
		}

		if tok.Category == token.Identifier {
			if expanded, ok := expandedParams[tok.Text]; ok {
				out = append(out, expanded...)
				continue
			}
			if tok.Text == "__VA_ARGS__" {
				if len(p.varargsStack) == 0 {
					return nil, p.fatal("__VA_ARGS__ used outside a variadic macro expansion")
				}
				out = append(out, p.varargsStack[len(p.varargsStack)-1]...)
				continue
			}
			src := newSliceStream(body[i+1:])
			toks, expanded, err := p.expandMacroToTokens(tok, src)
			if err != nil {
				return nil, err
			}
			if expanded {
				consumed := len(body[i+1:]) - src.remaining()
				i += consumed
				out = append(out, toks...)
				continue
			}
		}

		out = append(out, tok)
	}
	return out, nil
}

func (s *sliceStream) remaining() int {
	n := len(s.toks) - s.pos
	if s.hasPB {
		n++
	}
	return n
}

func pasteOperandText(tok token.Token, rawParams map[string][]token.Token) string {
	if tok.Category == token.Identifier {
		if raw, ok := rawParams[tok.Text]; ok {
			var sb strings.Builder
			for i, t := range raw {
				if i > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(t.Text)
			}
			return sb.String()
		}
	}
	return tok.Text
}

func pasteToken(text string) token.Token {
	if text == "" {
		return token.New(text, token.Identifier, 0, 0, 0)
	}
	category := token.Identifier
	if isAllDigits(text) {
		category = token.Number
	}
	return token.New(text, category, 0, 0, 0)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// stringize implements "# P": the argument's joined source spelling,
// trimmed, per spec.md §4.4. String/Literal tokens only carry their decoded
// body in Text (the scanner strips the surrounding quotes), so each token is
// re-rendered through renderToken to recover its original quoting before
// joining - otherwise STR("hi") would stringize as "hi" instead of the
// spec-mandated double-escaped "\"hi\"". The result is itself a String
// token, so the normal output-minifier escaping in emit/renderToken applies
// once more on the way out; this function must not pre-escape.
func stringize(raw []token.Token) token.Token {
	var sb strings.Builder
	for i, t := range raw {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(renderToken(t))
	}
	text := strings.TrimSpace(sb.String())
	return token.New(text, token.String, 0, 0, 0)
}

// expandBuiltin resolves the fixed built-in macro names, per spec.md §4.4.
func (p *Preprocessor) expandBuiltin(name string) ([]token.Token, bool, error) {
	switch name {
	case "__FILE__":
		return []token.Token{token.New(p.currentName(), token.String, 0, p.currentLine(), 0)}, true, nil
	case "__LINE__":
		return []token.Token{token.New(fmt.Sprintf("%d", p.currentLine()), token.Number, token.Decimal|token.Integer|token.Signed, p.currentLine(), 0)}, true, nil
	case "__DATE__":
		return []token.Token{token.New(p.clock().Format("Jan 02 2006"), token.String, 0, p.currentLine(), 0)}, true, nil
	case "__TIME__":
		return []token.Token{token.New(p.clock().Format("15:04:05"), token.String, 0, p.currentLine(), 0)}, true, nil
	case "__VA_ARGS__":
		if len(p.varargsStack) == 0 {
			return nil, false, p.fatal("__VA_ARGS__ used outside a variadic macro expansion")
		}
		return p.varargsStack[len(p.varargsStack)-1], true, nil
	default:
		return nil, false, nil
	}
}

func (p *Preprocessor) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}
