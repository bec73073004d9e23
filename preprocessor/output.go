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

	"github.com/cppscan/cppscan/token"
)

// emit implements the output minifier (spec.md §4.4): a single space
// separates consecutive non-punctuation tokens; once the output column
// exceeds the configured line hint, a newline follows a just-emitted ";".
// String and character-literal tokens are re-escaped/re-quoted on the way
// out rather than copied verbatim.
func (p *Preprocessor) emit(tok token.Token) {
	text := renderToken(tok)

	if p.outCol > 0 {
		if !p.lastWasPunct && tok.Category != token.Punctuation {
			p.out.WriteByte(' ')
			p.outCol++
		}
	}

	p.out.WriteString(text)
	p.outCol += len(text)
	p.lastWasPunct = tok.Category == token.Punctuation

	if tok.Category == token.Punctuation && tok.Text == ";" && p.outCol > p.lineHint {
		p.out.WriteByte('\n')
		p.outCol = 0
	}
}

func renderToken(tok token.Token) string {
	switch tok.Category {
	case token.String:
		return `"` + escapeQuoted(tok.Text) + `"`
	case token.Literal:
		return `'` + escapeQuoted(tok.Text) + `'`
	default:
		return tok.Text
	}
}

func escapeQuoted(s string) string {
	var sb strings.Builder
	for _, c := range s {
		switch c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
