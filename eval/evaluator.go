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
	"strconv"

	"github.com/cppscan/cppscan/token"
)

// Evaluator evaluates a fixed token sequence into a Value, per spec.md
// §4.3. The source hand-rolls a two-pass scan-then-reduce over a linked
// list to keep allocation off the hot path; this reimplementation uses
// precedence-climbing recursive descent instead, a standard Go idiom that
// produces the same precedence/associativity/type-rule contract (spec.md
// §9 "the observable behavior... is the contract").
type Evaluator struct {
	Flags   Flags
	Lookup  ConstLookup // may be nil
}

// New builds an Evaluator with the given flags and optional macro lookup.
func New(flags Flags, lookup ConstLookup) *Evaluator {
	return &Evaluator{Flags: flags, Lookup: lookup}
}

// Eval evaluates toks, a fully collected expression (balanced parens, no
// directive introducer), and returns the resulting Value.
func (e *Evaluator) Eval(toks []token.Token) (Value, error) {
	p := &parser{e: e, toks: toks}
	v, err := p.expr(0)
	if err != nil {
		return Value{}, err
	}
	if !p.atEnd() {
		return Value{}, fmt.Errorf("eval: unexpected trailing token %q", p.cur().Text)
	}
	return v, nil
}

type parser struct {
	e    *Evaluator
	toks []token.Token
	pos  int

	// discardDepth is nonzero while parsing a "&&"/"||" operand whose value
	// is already known from the other side (see exprMaybeDiscarding):
	// evaluation errors raised while discarding are swallowed rather than
	// aborting the whole expression, implementing short-circuit evaluation.
	discardDepth int
}

func (p *parser) discarding() bool { return p.discardDepth > 0 }

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *parser) cur() token.Token { return p.toks[p.pos] }

func (p *parser) advance() token.Token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

// binaryPrec returns the precedence of tok if it names a binary operator
// (including "?"/":"), per spec.md §4.3's table.
func binaryPrec(tok token.Token) (int, bool) {
	if tok.Category != token.Punctuation {
		return 0, false
	}
	switch tok.Text {
	case "*", "/", "%":
		return 15, true
	case "+", "-":
		return 14, true
	case "<<", ">>":
		return 13, true
	case "<", ">", "<=", ">=":
		return 12, true
	case "==", "!=":
		return 11, true
	case "&":
		return 10, true
	case "^":
		return 9, true
	case "|":
		return 8, true
	case "&&":
		return 7, true
	case "||":
		return 6, true
	case "?", ":":
		return 5, true
	default:
		return 0, false
	}
}

// expr implements precedence climbing: it parses a unary operand, then
// repeatedly consumes binary operators (and the "?:" pair) whose precedence
// is at least minPrec.
func (p *parser) expr(minPrec int) (Value, error) {
	left, err := p.unary()
	if err != nil {
		return Value{}, err
	}
	for !p.atEnd() {
		prec, ok := binaryPrec(p.cur())
		if !ok || prec < minPrec {
			break
		}
		op := p.advance().Text

		if op == ":" {
			// Belongs to an enclosing "?"; let the caller that owns the
			// "?" consume it.
			p.pos--
			break
		}
		if op == "?" {
			thenVal, err := p.expr(0)
			if err != nil {
				return Value{}, err
			}
			if p.atEnd() || p.cur().Category != token.Punctuation || p.cur().Text != ":" {
				return Value{}, fmt.Errorf("eval: expected ':' to match '?'")
			}
			p.advance()
			elseVal, err := p.expr(prec)
			if err != nil {
				return Value{}, err
			}
			if left.truthy() {
				left = thenVal
			} else {
				left = elseVal
			}
			continue
		}

		if op == "&&" || op == "||" {
			// Short-circuit: once the left operand already determines the
			// result, the right operand is still parsed but in discard
			// mode, where its value is ignored and its errors are
			// swallowed, so an idiom like "defined(FOO) && FOO > 0"
			// doesn't fail on an undefined FOO.
			shortCircuit := (op == "&&" && !left.truthy()) || (op == "||" && left.truthy())
			right, err := p.exprMaybeDiscarding(prec+1, shortCircuit)
			if err != nil {
				return Value{}, err
			}
			if shortCircuit {
				left = boolVal(left.truthy())
			} else {
				left, err = applyBinary(op, left, right)
				if err != nil {
					return Value{}, err
				}
			}
			continue
		}

		right, err := p.expr(prec + 1)
		if err != nil {
			return Value{}, err
		}
		left, err = applyBinary(op, left, right)
		if err != nil {
			return Value{}, err
		}
	}
	return left, nil
}

// exprMaybeDiscarding parses a "&&"/"||" right operand. When discard is
// true the result is already determined by the left operand: undefined
// identifiers in the operand evaluate to 0 (see identifierValue), so the
// whole operand is walked and the parser ends up past it, and any other
// evaluation error it raises is swallowed instead of propagated.
func (p *parser) exprMaybeDiscarding(minPrec int, discard bool) (Value, error) {
	if !discard {
		return p.expr(minPrec)
	}
	p.discardDepth++
	v, err := p.expr(minPrec)
	p.discardDepth--
	if err != nil {
		return Value{}, nil
	}
	return v, nil
}

// unary parses a (possibly chained) prefix operator followed by a primary
// expression. Spec.md §9 leaves "+ - - x" undocumented; this implementation
// treats unary "+" as a no-op and unary "-" as negation applied at each
// level, so "+ - - x" evaluates to "x" (the two negations cancel and the
// leading "+" changes nothing) - see eval_test.go for the test that pins
// this choice down.
func (p *parser) unary() (Value, error) {
	if p.atEnd() {
		return Value{}, fmt.Errorf("eval: unexpected end of expression")
	}
	tok := p.cur()
	if tok.Category == token.Punctuation {
		switch tok.Text {
		case "!":
			p.advance()
			v, err := p.unary()
			if err != nil {
				return Value{}, err
			}
			return boolVal(!v.truthy()), nil
		case "~":
			p.advance()
			v, err := p.unary()
			if err != nil {
				return Value{}, err
			}
			if !v.IsInt {
				return Value{}, token.ErrBitwiseOnFloat
			}
			return intVal(^v.I), nil
		case "-":
			p.advance()
			v, err := p.unary()
			if err != nil {
				return Value{}, err
			}
			return v.negate(), nil
		case "+":
			p.advance()
			return p.unary()
		case "(":
			p.advance()
			v, err := p.expr(0)
			if err != nil {
				return Value{}, err
			}
			if p.atEnd() || p.cur().Category != token.Punctuation || p.cur().Text != ")" {
				return Value{}, fmt.Errorf("eval: expected ')'")
			}
			p.advance()
			return v, nil
		}
	}
	return p.primary()
}

func (p *parser) primary() (Value, error) {
	tok := p.advance()
	switch tok.Category {
	case token.Number:
		return p.numberValue(tok)
	case token.Identifier:
		return p.identifierValue(tok)
	default:
		return Value{}, fmt.Errorf("eval: unexpected token %q", tok.Text)
	}
}

func (p *parser) numberValue(tok token.Token) (Value, error) {
	t := tok
	if t.Flags.Has(token.FloatingPoint) {
		f, err := t.AsFloat()
		if err != nil {
			return Value{}, err
		}
		return floatVal(f), nil
	}
	i, err := t.AsInt()
	if err != nil {
		return Value{}, err
	}
	return intVal(i), nil
}

func (p *parser) identifierValue(tok token.Token) (Value, error) {
	switch tok.Text {
	case "true":
		return intVal(1), nil
	case "false":
		return intVal(0), nil
	case "defined":
		return p.definedValue()
	}

	if p.e.Flags.has(AllowMathFuncs) {
		if fn, ok := mathFuncs[tok.Text]; ok && !p.atEnd() && p.cur().Category == token.Punctuation && p.cur().Text == "(" {
			p.advance()
			arg, err := p.expr(0)
			if err != nil {
				return Value{}, err
			}
			if p.atEnd() || p.cur().Category != token.Punctuation || p.cur().Text != ")" {
				return Value{}, fmt.Errorf("eval: expected ')' after %s(...)", tok.Text)
			}
			p.advance()
			return floatVal(fn(arg.asFloat())), nil
		}
	}

	if p.e.Lookup != nil {
		if text, ok := p.e.Lookup(tok.Text); ok {
			return parseConstText(text)
		}
	}

	if p.e.Flags.has(AllowMathConsts) {
		if c, ok := mathConsts[tok.Text]; ok {
			return floatVal(c), nil
		}
	}

	if p.e.Flags.has(UndefinedConstsAreZero) || p.discarding() {
		return intVal(0), nil
	}
	return Value{}, fmt.Errorf("%w: %q", token.ErrUndefinedConstant, tok.Text)
}

func (p *parser) definedValue() (Value, error) {
	parenthesized := !p.atEnd() && p.cur().Category == token.Punctuation && p.cur().Text == "("
	if parenthesized {
		p.advance()
	}
	if p.atEnd() || p.cur().Category != token.Identifier {
		return Value{}, fmt.Errorf("eval: defined(...) requires an identifier")
	}
	name := p.advance().Text
	if parenthesized {
		if p.atEnd() || p.cur().Category != token.Punctuation || p.cur().Text != ")" {
			return Value{}, fmt.Errorf("eval: expected ')' after defined(%s", name)
		}
		p.advance()
	}
	if p.e.Lookup == nil {
		return intVal(0), nil
	}
	_, ok := p.e.Lookup(name)
	return boolVal(ok), nil
}

// parseConstText interprets a single-token macro value as a number, per
// spec.md §4.3's "single-token value required" rule.
func parseConstText(text string) (Value, error) {
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return intVal(i), nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return floatVal(f), nil
	}
	return Value{}, fmt.Errorf("eval: macro value %q is not a single numeric token", text)
}

// applyBinary implements spec.md §4.3's type-promotion and operator-domain
// rules: integer op integer stays integer, any double operand promotes to
// double, relational/logical operators always yield integer, and bitwise/
// shift/modulo operators reject double operands.
func applyBinary(op string, l, r Value) (Value, error) {
	switch op {
	case "&&":
		return boolVal(l.truthy() && r.truthy()), nil
	case "||":
		return boolVal(l.truthy() || r.truthy()), nil
	case "==", "!=", "<", ">", "<=", ">=":
		return compare(op, l, r), nil
	case "&", "|", "^", "<<", ">>", "%":
		if !l.IsInt || !r.IsInt {
			return Value{}, token.ErrBitwiseOnFloat
		}
		return intVal(intBinary(op, l.I, r.I)), nil
	case "+", "-", "*", "/":
		return arith(op, l, r)
	default:
		return Value{}, fmt.Errorf("eval: unsupported operator %q", op)
	}
}

func compare(op string, l, r Value) Value {
	var cmp int
	if l.IsInt && r.IsInt {
		switch {
		case l.I < r.I:
			cmp = -1
		case l.I > r.I:
			cmp = 1
		}
	} else {
		lf, rf := l.asFloat(), r.asFloat()
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	}
	switch op {
	case "==":
		return boolVal(cmp == 0)
	case "!=":
		return boolVal(cmp != 0)
	case "<":
		return boolVal(cmp < 0)
	case ">":
		return boolVal(cmp > 0)
	case "<=":
		return boolVal(cmp <= 0)
	default: // ">="
		return boolVal(cmp >= 0)
	}
}

func intBinary(op string, l, r int64) int64 {
	switch op {
	case "&":
		return l & r
	case "|":
		return l | r
	case "^":
		return l ^ r
	case "<<":
		return l << uint(r)
	case ">>":
		return l >> uint(r)
	default: // "%"
		return l % r
	}
}

func arith(op string, l, r Value) (Value, error) {
	if l.IsInt && r.IsInt {
		switch op {
		case "+":
			return intVal(l.I + r.I), nil
		case "-":
			return intVal(l.I - r.I), nil
		case "*":
			return intVal(l.I * r.I), nil
		default: // "/"
			if r.I == 0 {
				return Value{}, token.ErrDivisionByZero
			}
			return intVal(l.I / r.I), nil
		}
	}
	lf, rf := l.asFloat(), r.asFloat()
	switch op {
	case "+":
		return floatVal(lf + rf), nil
	case "-":
		return floatVal(lf - rf), nil
	case "*":
		return floatVal(lf * rf), nil
	default: // "/"
		if rf == 0 {
			return Value{}, token.ErrDivisionByZero
		}
		return floatVal(lf / rf), nil
	}
}
