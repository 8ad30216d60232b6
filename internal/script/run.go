/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"shirtdesigner/internal/canvas"
	applog "shirtdesigner/internal/log"
	"shirtdesigner/internal/vector"
)

// ErrExpectation is wrapped by errors from failed expect steps.
var ErrExpectation = errors.New("expectation failed")

// StepError reports the step a replay stopped at.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Step.LineNo, e.Step.Op, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Runner replays scripts against one controller. Aliases persist across Run
// calls, so a session may be replayed in several pieces.
type Runner struct {
	Canvas *canvas.Controller
	// Dir resolves relative upload paths.
	Dir string
	// ReadFile loads upload payloads; nil means os.ReadFile.
	ReadFile func(path string) ([]byte, error)
	Log      *slog.Logger

	aliases map[string]string
}

func NewRunner(c *canvas.Controller) *Runner {
	return &Runner{Canvas: c, aliases: map[string]string{}}
}

// Resolve maps an alias to its element ID. Unknown names are returned as is
// so scripts may address raw IDs.
func (r *Runner) Resolve(ref string) string {
	if id, ok := r.aliases[ref]; ok {
		return id
	}
	return ref
}

// Run executes steps in order and stops at the first failing one.
// Operations the controller treats as no-ops (selecting a missing element,
// undo with nothing to undo) are not failures; use expect to assert on them.
func (r *Runner) Run(ctx context.Context, s Script) error {
	if r.aliases == nil {
		r.aliases = map[string]string{}
	}
	l := r.Log
	if l == nil {
		l = applog.WithComponent("replay")
	}
	for _, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: st, Err: err}
		}
		if err := r.step(ctx, st); err != nil {
			l.Debug("replay step failed", slog.Int("line", st.LineNo), slog.String("op", string(st.Op)), slog.Any("err", err))
			return &StepError{Step: st, Err: err}
		}
		l.Debug("replay step", slog.Int("line", st.LineNo), slog.String("op", string(st.Op)), slog.String("section", st.Section))
	}
	return nil
}

func nums(args []string) []float64 {
	out := make([]float64, len(args))
	for i, a := range args {
		// validated by Parse
		out[i], _ = strconv.ParseFloat(a, 64)
	}
	return out
}

func (r *Runner) remember(alias, id string) {
	if alias != "" {
		r.aliases[alias] = id
	}
}

func (r *Runner) step(ctx context.Context, st Step) error {
	c := r.Canvas
	a := st.Args
	switch st.Op {
	case OpAddImage:
		name := ""
		if len(a) > 1 {
			name = a[1]
		}
		r.remember(st.Alias, c.AddImageElement(a[0], name))
	case OpAddText:
		id, err := c.AddTextElement(a[0])
		if err != nil {
			return err
		}
		r.remember(st.Alias, id)
	case OpUpload:
		data, err := r.readFile(a[0])
		if err != nil {
			return err
		}
		name := ""
		if len(a) > 1 {
			name = a[1]
		}
		id, err := c.UploadImageElement(ctx, data, name)
		if err != nil {
			return err
		}
		r.remember(st.Alias, id)
	case OpSelect:
		if a[0] == "none" {
			c.SelectElement("")
		} else {
			c.SelectElement(r.Resolve(a[0]))
		}
	case OpClick:
		p := nums(a)
		c.PointerDown(p[0], p[1])
		c.PointerUp()
	case OpDown:
		p := nums(a)
		c.PointerDown(p[0], p[1])
	case OpMove:
		p := nums(a)
		c.PointerMove(p[0], p[1])
	case OpUp:
		c.PointerUp()
	case OpLeave:
		c.PointerLeave()
	case OpDrag:
		p := nums(a[1:])
		if err := c.BeginDrag(r.Resolve(a[0]), p[0], p[1]); err != nil {
			return err
		}
		c.UpdateDrag(p[2], p[3])
		c.EndDrag()
	case OpResize:
		h, _ := vector.ParseHandle(a[1])
		p := nums(a[2:])
		if err := c.BeginResize(r.Resolve(a[0]), h, p[0], p[1]); err != nil {
			return err
		}
		c.UpdateResize(p[2], p[3])
		c.EndResize()
	case OpStyle, OpPreview:
		patch := stylePatch(a[1:])
		if st.Op == OpStyle {
			return c.UpdateElementStyle(r.Resolve(a[0]), patch)
		}
		return c.PreviewElementStyle(r.Resolve(a[0]), patch)
	case OpCommitStyle:
		c.CommitStyle()
	case OpDelete:
		c.DeleteSelected()
	case OpForward:
		c.BringForward()
	case OpBackward:
		c.SendBackward()
	case OpUndo:
		c.Undo()
	case OpRedo:
		c.Redo()
	case OpKey:
		ev := canvas.ParseKeyEvent(a[0])
		ev.TextInputFocused = len(a) > 1
		c.HandleKeyCommand(ev)
	case OpExpect:
		if a[0] == "at" {
			p := nums(a[1:3])
			return r.expectAt(p[0], p[1], a[3])
		}
		return r.expect(a[0], a[1])
	default:
		return fmt.Errorf("unsupported command %q", st.Op)
	}
	return nil
}

func stylePatch(kvs []string) canvas.StylePatch {
	var p canvas.StylePatch
	for _, kv := range kvs {
		k, v, _ := strings.Cut(kv, "=")
		switch k {
		case "color":
			p.Color = &v
		case "font":
			p.FontFamily = &v
		case "size":
			f, _ := strconv.ParseFloat(v, 64)
			p.FontSize = &f
		case "content":
			p.Content = &v
		case "name":
			p.Name = &v
		}
	}
	return p
}

func (r *Runner) expect(subject, want string) error {
	c := r.Canvas
	switch subject {
	case "count":
		n, _ := strconv.Atoi(want)
		if got := len(c.Elements()); got != n {
			return fmt.Errorf("%w: %d elements, want %d", ErrExpectation, got, n)
		}
	case "selected":
		id := ""
		if want != "none" {
			id = r.Resolve(want)
		}
		if got := c.SelectedID(); got != id {
			return fmt.Errorf("%w: selected %q, want %q", ErrExpectation, got, id)
		}
	case "undo", "redo":
		w, _ := parseYesNo(want)
		got := c.CanUndo()
		if subject == "redo" {
			got = c.CanRedo()
		}
		if got != w {
			return fmt.Errorf("%w: can %s is %v", ErrExpectation, subject, got)
		}
	}
	return nil
}

// expectAt checks which element is topmost under (x, y).
func (r *Runner) expectAt(x, y float64, want string) error {
	id := ""
	if want != "none" {
		id = r.Resolve(want)
	}
	got := ""
	if el, ok := r.Canvas.ElementAt(x, y); ok {
		got = el.ID
	}
	if got != id {
		return fmt.Errorf("%w: element at (%g, %g) is %q, want %q", ErrExpectation, x, y, got, id)
	}
	return nil
}

func (r *Runner) readFile(path string) ([]byte, error) {
	if !filepath.IsAbs(path) && r.Dir != "" {
		path = filepath.Join(r.Dir, path)
	}
	if r.ReadFile != nil {
		return r.ReadFile(path)
	}
	return os.ReadFile(path)
}
