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

package macro

import (
	"errors"
	"fmt"

	"github.com/cppscan/cppscan/token"
)

var ErrBadBodyEdge = errors.New("macro: body must not start or end with '#' or '##'")

// Definition is a single macro record. Params and the body both live in the
// owning Table's arena as [first,count) slices - stable under append, per
// spec.md §9's "append-only macro token pool" note.
type Definition struct {
	Name     string
	Hash     uint32
	Line     int
	FunctionLike      bool
	EmptyFunctionLike bool // declared as NAME() - call site must supply "()"
	Variadic          bool

	ParamNames []string // parameter names, in order; "..." is not included here

	bodyFirst, bodyCount int
}

// Table stores macro definitions. The zero value is not usable; use
// NewTable.
type Table struct {
	arena   []token.Token
	buckets map[uint32][]*Definition
}

// NewTable builds an empty macro table.
func NewTable() *Table {
	return &Table{buckets: make(map[uint32][]*Definition)}
}

// Body returns the token span recorded for def.
func (t *Table) Body(def *Definition) []token.Token {
	return t.arena[def.bodyFirst : def.bodyFirst+def.bodyCount]
}

// Define records (or replaces) a macro named def.Name with the given body
// tokens. The body is appended to the arena; a prior definition's arena span
// is abandoned rather than reclaimed (spec.md §4.4: "the vector is not
// compacted"). replaced reports whether a definition with this name already
// existed.
func (t *Table) Define(def Definition, body []token.Token) (replaced bool) {
	def.Hash = Hash(def.Name)
	def.bodyFirst = len(t.arena)
	def.bodyCount = len(body)
	t.arena = append(t.arena, body...)

	bucket := t.buckets[def.Hash]
	for i, existing := range bucket {
		if existing.Name == def.Name {
			nd := def
			bucket[i] = &nd
			return true
		}
	}
	nd := def
	t.buckets[def.Hash] = append(bucket, &nd)
	return false
}

// Undef removes the macro named name, if present, reporting whether it was
// found. Only definitions added through Define are stored here; the
// preprocessor resolves its built-in names (__FILE__, __LINE__, ...) without
// a Table, so Undef never finds them.
func (t *Table) Undef(name string) bool {
	h := Hash(name)
	bucket := t.buckets[h]
	for i, existing := range bucket {
		if existing.Name == name {
			t.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup finds the macro named name.
func (t *Table) Lookup(name string) (*Definition, bool) {
	h := Hash(name)
	for _, existing := range t.buckets[h] {
		if existing.Name == name {
			return existing, true
		}
	}
	return nil, false
}

// ValidateBody checks the "must not start or end with # or ##" rule,
// applied at expansion time rather than definition time per spec.md §4.4.
func ValidateBody(body []token.Token) error {
	if len(body) == 0 {
		return nil
	}
	if isHashPunct(body[0]) || isHashPunct(body[len(body)-1]) {
		return fmt.Errorf("%w", ErrBadBodyEdge)
	}
	return nil
}

func isHashPunct(tok token.Token) bool {
	return tok.Category == token.Punctuation && (tok.Text == "#" || tok.Text == "##")
}
