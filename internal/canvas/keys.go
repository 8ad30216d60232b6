/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import "strings"

// KeyEvent is a key press as reported by the host.
type KeyEvent struct {
	// Key is the DOM-style key name: "Delete", "Backspace", "z", "Z", "y"...
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
	// TextInputFocused is set while a text field owns the keyboard.
	TextInputFocused bool
}

// Command is what a key event maps to.
type Command int

const (
	CmdNone Command = iota
	CmdDelete
	CmdUndo
	CmdRedo
)

// ParseKeyEvent reads combos such as "Delete", "ctrl+z", "cmd+shift+z".
func ParseKeyEvent(combo string) KeyEvent {
	var ev KeyEvent
	parts := strings.Split(strings.TrimSpace(combo), "+")
	for i, p := range parts {
		if i == len(parts)-1 {
			ev.Key = p
			break
		}
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			ev.Ctrl = true
		case "cmd", "meta", "command":
			ev.Meta = true
		case "shift":
			ev.Shift = true
		}
	}
	return ev
}

// CommandFor maps a key event to a canvas command. Ctrl and Cmd are equivalent.
// Delete/Backspace are ignored while a text input has focus.
func CommandFor(ev KeyEvent) Command {
	mod := ev.Ctrl || ev.Meta
	switch k := strings.ToLower(ev.Key); {
	case k == "delete" || k == "backspace":
		if ev.TextInputFocused || mod {
			return CmdNone
		}
		return CmdDelete
	case mod && k == "z" && ev.Shift:
		return CmdRedo
	case mod && k == "z":
		return CmdUndo
	case mod && k == "y":
		return CmdRedo
	}
	return CmdNone
}

// HandleKeyCommand runs the command bound to ev and reports whether the
// event was consumed (the host should then suppress its default action).
func (c *Controller) HandleKeyCommand(ev KeyEvent) bool {
	switch CommandFor(ev) {
	case CmdDelete:
		c.DeleteSelected()
		return true
	case CmdUndo:
		c.Undo()
		return true
	case CmdRedo:
		c.Redo()
		return true
	}
	return false
}
