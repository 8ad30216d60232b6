/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// Script is a parsed canvas replay: pointer, keyboard and toolbar actions in
// the order a user would perform them. Replays are how designer sessions are
// reproduced outside the browser.
type Script struct {
	Steps []Step
}

// Op names a replay command.
type Op string

const (
	OpAddImage    Op = "add-image"   // add-image SRC [NAME] [as ALIAS]
	OpAddText     Op = "add-text"    // add-text CONTENT [as ALIAS]
	OpUpload      Op = "upload"      // upload PATH [NAME] [as ALIAS]
	OpSelect      Op = "select"      // select REF|none
	OpClick       Op = "click"       // click X Y
	OpDown        Op = "down"        // down X Y
	OpMove        Op = "move"        // move X Y
	OpUp          Op = "up"          // up
	OpLeave       Op = "leave"       // leave
	OpDrag        Op = "drag"        // drag REF X0 Y0 X1 Y1
	OpResize      Op = "resize"      // resize REF HANDLE X0 Y0 X1 Y1
	OpStyle       Op = "style"       // style REF key=value...
	OpPreview     Op = "preview"     // preview REF key=value...
	OpCommitStyle Op = "commit-style" // commit-style
	OpDelete      Op = "delete"
	OpForward     Op = "forward"
	OpBackward    Op = "backward"
	OpUndo        Op = "undo"
	OpRedo        Op = "redo"
	OpKey         Op = "key"    // key COMBO [focused]
	OpExpect      Op = "expect" // expect count N | selected REF|none | undo|redo yes|no | at X Y REF|none
)

type arity struct{ min, max int }

// -1 max means unbounded.
var ops = map[Op]arity{
	OpAddImage:    {1, 2},
	OpAddText:     {1, 1},
	OpUpload:      {1, 2},
	OpSelect:      {1, 1},
	OpClick:       {2, 2},
	OpDown:        {2, 2},
	OpMove:        {2, 2},
	OpUp:          {0, 0},
	OpLeave:       {0, 0},
	OpDrag:        {5, 5},
	OpResize:      {6, 6},
	OpStyle:       {2, -1},
	OpPreview:     {2, -1},
	OpCommitStyle: {0, 0},
	OpDelete:      {0, 0},
	OpForward:     {0, 0},
	OpBackward:    {0, 0},
	OpUndo:        {0, 0},
	OpRedo:        {0, 0},
	OpKey:         {1, 2},
	OpExpect:      {2, 4},
}

// Step is one command line. Args are unquoted. Alias is set by a trailing
// "as NAME" on add-image, add-text and upload.
type Step struct {
	Op      Op
	Args    []string
	Alias   string
	Section string
	LineNo  int // 1-based line number in the source
}

// Error represents a parse or replay error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
