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

// Package punct implements the longest-first punctuation lookup table used by
// the scanner: given an ordered array of (text, id) pairs, Build produces an
// ASCII-indexed table of head-of-chain indices plus a parallel chain-next
// array so that, for any first character c, walking the chain yields every
// punctuator beginning with c in strictly decreasing length order. Ties
// within a bucket resolve by definition order.
package punct

import "fmt"

// ID identifies a punctuation variant. The zero value, None, is the sentinel
// for "no punctuator matched".
type ID int

const None ID = 0

// Entry is one (text, id) pair fed to Build. id must be non-zero for all
// entries except the implicit None sentinel at index 0.
type Entry struct {
	Text string
	ID   ID
}

// Table is a built, immutable punctuation lookup table.
type Table struct {
	entries []Entry       // entries[id] is the definition for that id; entries[None] is unused
	head    [256]ID       // head[c] is the id of the longest punctuator starting with byte c, or None
	next    map[ID]ID     // chain-next: next[id] is the next (shorter or same-length, later-defined) candidate after id
}

// Build constructs a Table from entries, which need not be pre-sorted by
// length: Build inserts each entry into its first-character chain ahead of
// the first shorter existing entry (or at the tail), producing the
// strictly-decreasing-length order Match relies on.
func Build(entries []Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 1, len(entries)+1), // index 0 reserved for None
		next:    make(map[ID]ID, len(entries)),
	}
	for _, e := range entries {
		if e.Text == "" {
			return nil, fmt.Errorf("punct: entry for id %d has empty text", e.ID)
		}
		if e.ID == None {
			return nil, fmt.Errorf("punct: entry %q reuses the reserved None id", e.Text)
		}
		t.entries = append(t.entries, e)
		t.insert(e)
	}
	return t, nil
}

func (t *Table) insert(e Entry) {
	c := e.Text[0]
	cur := t.head[c]
	if cur == None {
		t.head[c] = e.ID
		return
	}

	// Walk the existing chain for this byte, looking for the first entry
	// shorter than e so e can be inserted just before it.
	var prev ID
	for cur != None {
		if len(t.entries[cur].Text) < len(e.Text) {
			break
		}
		prev = cur
		cur = t.next[cur]
	}

	if prev == None {
		t.head[c] = e.ID
	} else {
		t.next[prev] = e.ID
	}
	t.next[e.ID] = cur
}

// Lookup returns the Entry registered for id, or the zero Entry and false for
// None or an unknown id.
func (t *Table) Lookup(id ID) (Entry, bool) {
	if id == None || int(id) >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[id], true
}

// Match finds the longest punctuator that is a prefix of data, returning its
// id, text, and true; or (None, "", false) if no punctuator in the table
// matches.
func (t *Table) Match(data []byte) (ID, string, bool) {
	if len(data) == 0 {
		return None, "", false
	}
	for id := t.head[data[0]]; id != None; id = t.next[id] {
		text := t.entries[id].Text
		if len(text) <= len(data) && string(data[:len(text)]) == text {
			return id, text, true
		}
	}
	return None, "", false
}
