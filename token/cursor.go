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

package token

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Cursor is a position in a source buffer. Line and Column are 1-based,
// matching how humans and editors report positions.
type Cursor struct {
	Line, Column int
}

var (
	// CursorInit is the position at the beginning of a file or buffer.
	CursorInit = Cursor{Line: 1, Column: 1}
	// CursorEOF is the special cursor value for the end of a file or buffer.
	CursorEOF = Cursor{}
)

func (c Cursor) String() string {
	if c == CursorEOF {
		return "EOF"
	}
	return fmt.Sprintf("%d:%d", c.Line, c.Column)
}

// AdvancedBy returns a new Cursor advanced past lookAhead, which is assumed to
// begin at c. Newlines increment the line and reset the column; any other
// rune increments the column.
func (c Cursor) AdvancedBy(lookAhead string) Cursor {
	newlines := strings.Count(lookAhead, "\n")
	tailBegin := 1 + strings.LastIndex(lookAhead, "\n")
	tailLength := utf8.RuneCountInString(lookAhead[tailBegin:])

	if newlines == 0 {
		c.Column += tailLength
	} else {
		c.Line += newlines
		c.Column = 1 + tailLength
	}
	return c
}
