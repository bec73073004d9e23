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

	"github.com/cppscan/cppscan/token"
)

// tokenStream is satisfied by both *scanner.Scanner and the in-memory
// sliceStream below, so macro-argument collection and expansion work
// identically whether the tokens come from the live file or from an
// already-collected macro body.
type tokenStream interface {
	NextToken() (token.Token, bool, error)
	PushBack(token.Token)
}

// sliceStream adapts a fixed []token.Token (a macro body, or a collected
// argument) to the tokenStream interface.
type sliceStream struct {
	toks  []token.Token
	pos   int
	pb    token.Token
	hasPB bool
}

func newSliceStream(toks []token.Token) *sliceStream {
	return &sliceStream{toks: toks}
}

func (s *sliceStream) NextToken() (token.Token, bool, error) {
	if s.hasPB {
		t := s.pb
		s.hasPB = false
		return t, true, nil
	}
	if s.pos >= len(s.toks) {
		return token.Token{}, false, nil
	}
	t := s.toks[s.pos]
	s.pos++
	return t, true, nil
}

func (s *sliceStream) PushBack(t token.Token) {
	s.pb = t
	s.hasPB = true
}

func peekToken(src tokenStream) (token.Token, bool, error) {
	tok, ok, err := src.NextToken()
	if err != nil || !ok {
		return tok, ok, err
	}
	src.PushBack(tok)
	return tok, true, nil
}

// collectArgs reads a macro call's argument list from src, whose opening
// "(" has already been consumed. Arguments are split on top-level commas
// with balanced-parenthesis tracking, per spec.md §4.4. A call written as
// "NAME()" (a single, entirely empty argument) collects to zero arguments.
func collectArgs(src tokenStream) ([][]token.Token, error) {
	var args [][]token.Token
	var cur []token.Token
	depth := 0
	for {
		tok, ok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("preprocessor: unterminated macro argument list")
		}
		if tok.Category == token.Punctuation {
			switch tok.Text {
			case "(":
				depth++
			case ")":
				if depth == 0 {
					args = append(args, cur)
					if len(args) == 1 && len(args[0]) == 0 {
						return nil, nil
					}
					return args, nil
				}
				depth--
			case ",":
				if depth == 0 {
					args = append(args, cur)
					cur = nil
					continue
				}
			}
		}
		cur = append(cur, tok)
	}
}
