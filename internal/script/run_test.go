/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"shirtdesigner/internal/canvas"
	applog "shirtdesigner/internal/log"
)

func replay(t *testing.T, r *Runner, src string) error {
	t.Helper()
	s, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse errors: %+v", errs)
	}
	return r.Run(context.Background(), s)
}

func newRunner(t *testing.T) *Runner {
	t.Helper()
	c := canvas.NewController(canvas.Options{Logger: applog.Discard()})
	t.Cleanup(c.Close)
	r := NewRunner(c)
	r.Log = applog.Discard()
	return r
}

func TestRunAddDragUndoSession(t *testing.T) {
	r := newRunner(t)
	err := replay(t, r, `add-text "Team A" as title
expect selected title
drag title 210 210 260 240
expect count 1
undo
undo
expect count 0
expect undo no
expect redo yes
redo
expect selected none`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	els := r.Canvas.Elements()
	if len(els) != 1 || els[0].X != 200 || els[0].Y != 200 {
		t.Fatalf("redo should restore the pre-drag element: %+v", els)
	}
}

func TestRunResizeAndStyle(t *testing.T) {
	r := newRunner(t)
	err := replay(t, r, `add-image shirt.png "Back" as img
resize img se 250 250 300 260
add-text "Team A" as t
preview t size=30
preview t size=36
commit-style
style t color=#00FF00`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	img, _ := r.Canvas.Element(r.Resolve("img"))
	if img.Width != 150 || img.Height != 110 || img.Name != "Back" {
		t.Fatalf("unexpected image after resize: %+v", img)
	}
	txt, _ := r.Canvas.Element(r.Resolve("t"))
	if txt.FontSize != 36 || txt.Color != "#00ff00" {
		t.Fatalf("unexpected text style: %+v", txt)
	}
	if n, _ := r.Canvas.HistoryStats(); n != 5 {
		t.Fatalf("expected 5 commits, got %d", n)
	}
}

func TestRunPointerAndKeys(t *testing.T) {
	r := newRunner(t)
	err := replay(t, r, `add-image a.png as a
add-text "B" as b
click 10 10
expect selected none
click 160 160
expect selected a
down 160 160
move 180 170
leave
key Delete focused
expect count 2
key Backspace
expect count 1
key ctrl+z
expect count 2
key cmd+shift+z
expect count 1`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunExpectAtUsesTopmostElement(t *testing.T) {
	r := newRunner(t)
	err := replay(t, r, `add-image a.png as img
add-text "T" as txt
expect at 220 220 txt
expect at 160 160 img
expect at 10 10 none
backward
expect at 220 220 img`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	err = replay(t, r, "expect at 220 220 txt")
	if !errors.Is(err, ErrExpectation) {
		t.Fatalf("expected expectation failure, got %v", err)
	}
}

func TestRunStopsAtFailingStep(t *testing.T) {
	r := newRunner(t)
	err := replay(t, r, `add-text "x" as t
style t color=blue
add-text "never"`)
	var se *StepError
	if !errors.As(err, &se) || se.Step.LineNo != 2 {
		t.Fatalf("expected step error on line 2, got %v", err)
	}
	if !errors.Is(err, canvas.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(r.Canvas.Elements()) != 1 {
		t.Fatalf("replay must stop at the failing step")
	}

	err = replay(t, r, "expect count 5")
	if !errors.Is(err, ErrExpectation) {
		t.Fatalf("expected expectation failure, got %v", err)
	}
	err = replay(t, r, "drag nobody 0 0 1 1")
	if !errors.Is(err, canvas.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRunUploadReadsRelativeToDir(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	r := newRunner(t)
	r.Dir = dir
	if err := replay(t, r, "upload logo.png Logo as logo\nexpect selected logo"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	el, _ := r.Canvas.Element(r.Resolve("logo"))
	if el.Kind != canvas.KindImage || el.Name != "Logo" {
		t.Fatalf("unexpected uploaded element: %+v", el)
	}
	err := replay(t, r, "upload bad.png")
	var de *canvas.DecodeError
	if !errors.As(err, &de) || !errors.Is(err, canvas.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	r := newRunner(t)
	s, _ := Parse("add-text a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx, s); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(r.Canvas.Elements()) != 0 {
		t.Fatalf("no step should run after cancellation")
	}
}
