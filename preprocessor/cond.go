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

import "fmt"

// condFrame is one level of the #if/#elif/#else/#endif stack, per spec.md
// §4.4. A later #elif/#else of the same chain is reachable only while the
// top frame has both parentState and skipBody set. parentState starts out
// equal to skipBody (an #if/#ifdef/#ifndef branch that was itself skipped
// leaves later branches reachable); once some branch in the chain has been
// taken, every later frame of that chain fails the test.
type condFrame struct {
	skipBody    bool
	parentState bool
	isElse      bool
}

// condStack tracks nested conditional blocks and the running count of
// currently-skipped frames.
type condStack struct {
	frames    []condFrame
	skipCount int
}

func (c *condStack) depth() int { return len(c.frames) }

// skipping reports whether tokens should currently be discarded.
func (c *condStack) skipping() bool { return c.skipCount > 0 }

func (c *condStack) pushIf(result bool) {
	f := condFrame{skipBody: !result}
	f.parentState = f.skipBody
	c.push(f)
}

func (c *condStack) push(f condFrame) {
	c.frames = append(c.frames, f)
	if f.skipBody {
		c.skipCount++
	}
}

// peek returns the current top frame without popping it, used by #elif/#else
// handling to decide whether evaluating the new condition is even necessary.
func (c *condStack) peek() (condFrame, bool) {
	if len(c.frames) == 0 {
		return condFrame{}, false
	}
	return c.frames[len(c.frames)-1], true
}

func (c *condStack) pop() (condFrame, error) {
	if len(c.frames) == 0 {
		return condFrame{}, fmt.Errorf("preprocessor: unmatched conditional directive")
	}
	f := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	if f.skipBody {
		c.skipCount--
	}
	return f, nil
}

// elif pops the current frame (erroring if it was an #else) and pushes a
// new frame reflecting result, per spec.md §4.4.
func (c *condStack) elif(result bool) error {
	prev, err := c.pop()
	if err != nil {
		return err
	}
	if prev.isElse {
		return fmt.Errorf("preprocessor: #elif after #else")
	}
	available := prev.parentState && prev.skipBody
	f := condFrame{
		parentState: available,
		skipBody:    !available || !result,
	}
	c.push(f)
	return nil
}

// else_ pops the current frame (erroring if it was already an #else) and
// pushes the unconditional #else frame.
func (c *condStack) else_() error {
	prev, err := c.pop()
	if err != nil {
		return err
	}
	if prev.isElse {
		return fmt.Errorf("preprocessor: duplicate #else")
	}
	available := prev.parentState && prev.skipBody
	f := condFrame{
		isElse:      true,
		parentState: available,
		skipBody:    !available,
	}
	c.push(f)
	return nil
}

// endif pops the current frame.
func (c *condStack) endif() error {
	_, err := c.pop()
	return err
}
