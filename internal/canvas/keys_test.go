/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import "testing"

func TestCommandFor(t *testing.T) {
	cases := []struct {
		combo string
		focus bool
		want  Command
	}{
		{"Delete", false, CmdDelete},
		{"Backspace", false, CmdDelete},
		{"Delete", true, CmdNone},
		{"Backspace", true, CmdNone},
		{"ctrl+z", false, CmdUndo},
		{"cmd+z", false, CmdUndo},
		{"ctrl+shift+Z", false, CmdRedo},
		{"meta+shift+z", false, CmdRedo},
		{"ctrl+y", false, CmdRedo},
		{"cmd+Y", false, CmdRedo},
		{"z", false, CmdNone},
		{"shift+y", false, CmdNone},
		{"ctrl+a", false, CmdNone},
	}
	for _, tc := range cases {
		ev := ParseKeyEvent(tc.combo)
		ev.TextInputFocused = tc.focus
		if got := CommandFor(ev); got != tc.want {
			t.Fatalf("CommandFor(%q, focus=%v) = %v, want %v", tc.combo, tc.focus, got, tc.want)
		}
	}
}

func TestParseKeyEvent(t *testing.T) {
	ev := ParseKeyEvent("Ctrl+Shift+z")
	if !ev.Ctrl || !ev.Shift || ev.Meta || ev.Key != "z" {
		t.Fatalf("unexpected parse: %+v", ev)
	}
	if ev := ParseKeyEvent("Delete"); ev.Key != "Delete" || ev.Ctrl {
		t.Fatalf("unexpected parse: %+v", ev)
	}
}

func TestHandleKeyCommandDrivesController(t *testing.T) {
	c := newTestController(t)
	c.AddTextElement("A")
	c.AddTextElement("B")

	if c.HandleKeyCommand(KeyEvent{Key: "Backspace", TextInputFocused: true}) {
		t.Fatalf("backspace in a text input must not be consumed")
	}
	if len(c.Elements()) != 2 {
		t.Fatalf("typing must not delete elements")
	}
	if !c.HandleKeyCommand(KeyEvent{Key: "Delete"}) {
		t.Fatalf("delete should be consumed")
	}
	if len(c.Elements()) != 1 {
		t.Fatalf("delete key should remove the selected element")
	}
	c.HandleKeyCommand(KeyEvent{Key: "z", Meta: true})
	if len(c.Elements()) != 2 {
		t.Fatalf("cmd+z should undo the delete")
	}
	c.HandleKeyCommand(KeyEvent{Key: "Z", Ctrl: true, Shift: true})
	if len(c.Elements()) != 1 {
		t.Fatalf("ctrl+shift+z should redo the delete")
	}
	if c.HandleKeyCommand(KeyEvent{Key: "q"}) {
		t.Fatalf("unbound keys must not be consumed")
	}
}
