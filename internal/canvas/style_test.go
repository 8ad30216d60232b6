/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"errors"
	"testing"
)

func TestUpdateElementStyleCommits(t *testing.T) {
	c := newTestController(t)
	id, _ := c.AddTextElement("Team A")
	if err := c.UpdateElementStyle(id, StylePatch{Color: ptr("#FF8800"), FontFamily: ptr("Impact")}); err != nil {
		t.Fatalf("UpdateElementStyle: %v", err)
	}
	e, _ := c.Element(id)
	if e.Color != "#ff8800" || e.FontFamily != "Impact" || e.FontSize != 24 {
		t.Fatalf("unexpected style: %+v", e)
	}
	if n, _ := c.HistoryStats(); n != 2 {
		t.Fatalf("discrete style edit should commit, got %d", n)
	}
	c.Undo()
	if e, _ := c.Element(id); e.Color != "#000000" || e.FontFamily != "Arial" {
		t.Fatalf("undo should restore the old style: %+v", e)
	}
}

func TestPreviewStyleDefersCommit(t *testing.T) {
	c := newTestController(t)
	id, _ := c.AddTextElement("Team A")
	for size := 25.0; size <= 40; size++ {
		if err := c.PreviewElementStyle(id, StylePatch{FontSize: ptr(size)}); err != nil {
			t.Fatalf("PreviewElementStyle: %v", err)
		}
	}
	if n, _ := c.HistoryStats(); n != 1 {
		t.Fatalf("slider moves must not commit, got %d", n)
	}
	if !c.CommitStyle() {
		t.Fatalf("CommitStyle should commit the pending edit")
	}
	if c.CommitStyle() {
		t.Fatalf("second CommitStyle must be a no-op")
	}
	if n, _ := c.HistoryStats(); n != 2 {
		t.Fatalf("expected exactly one commit for the slider, got %d", n)
	}
	c.Undo()
	if e, _ := c.Element(id); e.FontSize != 24 {
		t.Fatalf("undo should restore font size 24, got %v", e.FontSize)
	}
}

func TestStyleValidation(t *testing.T) {
	c := newTestController(t)
	txt, _ := c.AddTextElement("T")
	img := c.AddImageElement("a.png", "A")
	cases := []struct {
		name  string
		id    string
		patch StylePatch
		want  error
	}{
		{"bad color", txt, StylePatch{Color: ptr("red")}, ErrValidation},
		{"zero size", txt, StylePatch{FontSize: ptr(0.0)}, ErrValidation},
		{"blank font", txt, StylePatch{FontFamily: ptr(" ")}, ErrValidation},
		{"blank content", txt, StylePatch{Content: ptr("  ")}, ErrValidation},
		{"empty patch", txt, StylePatch{}, ErrValidation},
		{"text style on image", img, StylePatch{Color: ptr("#fff")}, ErrValidation},
		{"name on text", txt, StylePatch{Name: ptr("x")}, ErrValidation},
		{"missing element", "nope", StylePatch{Color: ptr("#fff")}, ErrNotFound},
	}
	before := c.Elements()
	n0, _ := c.HistoryStats()
	for _, tc := range cases {
		if err := c.UpdateElementStyle(tc.id, tc.patch); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
	if n1, _ := c.HistoryStats(); n1 != n0 {
		t.Fatalf("rejected edits must not commit")
	}
	after := c.Elements()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("rejected edits must not change elements")
		}
	}
	if err := c.UpdateElementStyle(img, StylePatch{Name: ptr("Back print")}); err != nil {
		t.Fatalf("renaming an image should succeed: %v", err)
	}
}

func TestInvalidDefaultTextColorFallsBack(t *testing.T) {
	c := newTestController(t, func(o *Options) { o.TextStyle.Color = "blue" })
	id, err := c.AddTextElement("Team A")
	if err != nil {
		t.Fatal(err)
	}
	if e, _ := c.Element(id); e.Color != "#000000" {
		t.Fatalf("expected default color, got %q", e.Color)
	}
}
