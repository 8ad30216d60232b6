/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package canvas implements the shirt design canvas controller: the ordered
// list of placed images and text, the current selection, pointer drag and
// resize interactions, and a linear undo/redo history of element snapshots.
//
// The host feeds canvas-local pointer coordinates, key events and upload
// bytes in; it reads the element list, selection and undo/redo availability
// back out to render. One Controller belongs to one canvas view.
package canvas

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"shirtdesigner/internal/imagedecode"
	applog "shirtdesigner/internal/log"
	"shirtdesigner/internal/undo"
	"shirtdesigner/internal/vector"
)

type commitNote struct {
	op       string
	elements int
}

// Controller owns one canvas. All methods are safe to call from the host's
// event loop and from upload completion goroutines.
type Controller struct {
	mu   sync.Mutex
	opts Options
	log  *slog.Logger
	ids  *idSource

	// elements is replaced, never modified in place, so snapshots can share it.
	elements    []Element
	selectedID  string
	interaction Interaction
	history     *undo.History[[]Element]
	// styleDirty marks a previewed style edit that has not been committed.
	styleDirty bool
	pending    []commitNote

	closeOnce sync.Once
	closed    chan struct{}

	decode func(ctx context.Context, data []byte) (imagedecode.Result, error)
}

func NewController(opts Options) *Controller {
	opts = opts.withDefaults()
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("canvas")
	}
	c := &Controller{
		opts:    opts,
		log:     l,
		ids:     newIDSource(),
		history: undo.New[[]Element](nil, undo.Config{MaxDepth: opts.MaxHistory}),
		closed:  make(chan struct{}),
	}
	maxBytes := opts.UploadMaxBytes
	c.decode = func(ctx context.Context, data []byte) (imagedecode.Result, error) {
		return imagedecode.Decode(ctx, data, imagedecode.Options{MaxBytes: maxBytes})
	}
	return c
}

func (c *Controller) lock() { c.mu.Lock() }

// unlock releases the lock and then delivers queued commit notifications.
func (c *Controller) unlock() {
	notes := c.pending
	c.pending = nil
	c.mu.Unlock()
	if c.opts.OnCommit == nil {
		return
	}
	for _, n := range notes {
		c.opts.OnCommit(n.op, n.elements)
	}
}

// Elements returns the current ordered element list (index = z-order).
func (c *Controller) Elements() []Element {
	c.lock()
	defer c.unlock()
	return slices.Clone(c.elements)
}

// Element looks up one element by id.
func (c *Controller) Element(id string) (Element, bool) {
	c.lock()
	defer c.unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return Element{}, false
	}
	return c.elements[i], true
}

func (c *Controller) SelectedID() string {
	c.lock()
	defer c.unlock()
	return c.selectedID
}

func (c *Controller) CanUndo() bool { return c.history.CanUndo() }
func (c *Controller) CanRedo() bool { return c.history.CanRedo() }

// Interaction returns a copy of the current pointer interaction state.
func (c *Controller) Interaction() Interaction {
	c.lock()
	defer c.unlock()
	in := c.interaction
	in.Guides = slices.Clone(in.Guides)
	return in
}

// HistoryStats reports stored snapshot count and cursor (-1 when at the initial state).
func (c *Controller) HistoryStats() (snapshots int, cursor int) { return c.history.Stats() }

// AddImageElement places an image at the default position on top of the
// stack, selects it and commits.
func (c *Controller) AddImageElement(src, name string) string {
	c.lock()
	defer c.unlock()
	return c.addImageLocked(src, name, "add_image")
}

func (c *Controller) addImageLocked(src, name, op string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.opts.DefaultImageName
	}
	el := Element{ID: c.ids.next(), Kind: KindImage, Scale: 1, Src: src, Name: name}.withRect(c.opts.ImagePlacement)
	c.appendLocked(el, op)
	return el.ID
}

// AddTextElement places text with the default style, selects it and commits.
// Blank content is rejected with ErrValidation.
func (c *Controller) AddTextElement(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: text content is blank", ErrValidation)
	}
	c.lock()
	defer c.unlock()
	st := c.opts.TextStyle
	el := Element{
		ID:         c.ids.next(),
		Kind:       KindText,
		Scale:      1,
		Content:    content,
		FontSize:   st.FontSize,
		FontFamily: st.FontFamily,
		Color:      st.Color,
	}.withRect(c.opts.TextPlacement)
	c.appendLocked(el, "add_text")
	return el.ID, nil
}

func (c *Controller) appendLocked(el Element, op string) {
	next := make([]Element, 0, len(c.elements)+1)
	next = append(append(next, c.elements...), el)
	c.elements = next
	c.selectedID = el.ID
	c.commitLocked(op)
}

// SelectElement selects id, or clears the selection for "". Unknown ids are
// ignored. Selection is not part of history.
func (c *Controller) SelectElement(id string) bool {
	c.lock()
	defer c.unlock()
	return c.selectLocked(id)
}

func (c *Controller) selectLocked(id string) bool {
	if id == "" {
		c.selectedID = ""
		return true
	}
	if c.indexLocked(id) < 0 {
		return false
	}
	c.selectedID = id
	return true
}

// ElementAt returns the topmost element under (x, y).
func (c *Controller) ElementAt(x, y float64) (Element, bool) {
	c.lock()
	defer c.unlock()
	i := c.hitLocked(vector.Pt{X: x, Y: y})
	if i < 0 {
		return Element{}, false
	}
	return c.elements[i], true
}

func (c *Controller) hitLocked(p vector.Pt) int {
	for i := len(c.elements) - 1; i >= 0; i-- {
		if c.elements[i].Hit(p) {
			return i
		}
	}
	return -1
}

// DeleteSelected removes the selected element and commits. It reports false
// (and changes nothing) when nothing is selected.
func (c *Controller) DeleteSelected() bool {
	c.lock()
	defer c.unlock()
	i := c.indexLocked(c.selectedID)
	if i < 0 {
		return false
	}
	next := make([]Element, 0, len(c.elements)-1)
	next = append(append(next, c.elements[:i]...), c.elements[i+1:]...)
	c.elements = next
	c.selectedID = ""
	c.commitLocked("delete")
	return true
}

// BringForward swaps the selected element with the one directly above it.
func (c *Controller) BringForward() bool {
	c.lock()
	defer c.unlock()
	i := c.indexLocked(c.selectedID)
	if i < 0 || i == len(c.elements)-1 {
		return false
	}
	c.swapLocked(i, i+1, "bring_forward")
	return true
}

// SendBackward swaps the selected element with the one directly below it.
func (c *Controller) SendBackward() bool {
	c.lock()
	defer c.unlock()
	i := c.indexLocked(c.selectedID)
	if i <= 0 {
		return false
	}
	c.swapLocked(i, i-1, "send_backward")
	return true
}

func (c *Controller) swapLocked(i, j int, op string) {
	next := slices.Clone(c.elements)
	next[i], next[j] = next[j], next[i]
	c.elements = next
	c.commitLocked(op)
}

// UpdateElementStyle applies patch to element id and commits immediately.
// Use it for discrete controls such as a color swatch or font picker.
func (c *Controller) UpdateElementStyle(id string, patch StylePatch) error {
	c.lock()
	defer c.unlock()
	if err := c.styleLocked(id, patch); err != nil {
		return err
	}
	c.commitLocked("style")
	return nil
}

// PreviewElementStyle applies patch without committing. Continuous controls
// (a font size slider) call it on every move and CommitStyle on release.
func (c *Controller) PreviewElementStyle(id string, patch StylePatch) error {
	c.lock()
	defer c.unlock()
	if err := c.styleLocked(id, patch); err != nil {
		return err
	}
	c.styleDirty = true
	return nil
}

// CommitStyle commits a previewed style edit. No-op if nothing is pending.
func (c *Controller) CommitStyle() bool {
	c.lock()
	defer c.unlock()
	if !c.styleDirty {
		return false
	}
	c.commitLocked("style")
	return true
}

func (c *Controller) styleLocked(id string, patch StylePatch) error {
	i := c.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("style %s: %w", id, ErrNotFound)
	}
	el, err := patch.apply(c.elements[i])
	if err != nil {
		return err
	}
	c.replaceLocked(i, el)
	return nil
}

// Undo restores the previous snapshot. Any pointer interaction is dropped.
// An uncommitted edit (a drag in progress, a style preview) is reverted to
// the last commit instead, and history is left where it was.
func (c *Controller) Undo() bool {
	c.lock()
	defer c.unlock()
	if cur := c.history.Current(); !slices.Equal(c.elements, cur) {
		c.restoreLocked(cur)
		c.log.Debug("undo reverted uncommitted edit", slog.Int("elements", len(cur)))
		return true
	}
	s, ok := c.history.Undo()
	if !ok {
		return false
	}
	c.restoreLocked(s)
	c.log.Debug("undo", slog.Int("elements", len(s)))
	return true
}

// Redo re-applies the next snapshot. Any pointer interaction and any
// uncommitted edit are dropped.
func (c *Controller) Redo() bool {
	c.lock()
	defer c.unlock()
	s, ok := c.history.Redo()
	if !ok {
		return false
	}
	c.restoreLocked(s)
	c.log.Debug("redo", slog.Int("elements", len(s)))
	return true
}

func (c *Controller) restoreLocked(s []Element) {
	c.elements = s
	c.interaction = Interaction{}
	c.styleDirty = false
	if c.indexLocked(c.selectedID) < 0 {
		c.selectedID = ""
	}
}

// Close marks the view as torn down. Pending uploads resolve with ErrClosed
// and never touch the canvas.
func (c *Controller) Close() {
	c.closeOnce.Do(func() { close(c.closed) })
}

func (c *Controller) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// commitLocked appends the live element list to history. The slice is shared
// with the snapshot; every mutation path builds a new slice.
func (c *Controller) commitLocked(op string) {
	c.history.Commit(c.elements)
	c.styleDirty = false
	n, cur := c.history.Stats()
	c.log.Debug("commit", slog.String("op", op), slog.Int("elements", len(c.elements)), slog.Int("snapshots", n), slog.Int("cursor", cur))
	c.pending = append(c.pending, commitNote{op: op, elements: len(c.elements)})
}

func (c *Controller) replaceLocked(i int, el Element) {
	next := slices.Clone(c.elements)
	next[i] = el
	c.elements = next
}

func (c *Controller) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(c.elements, func(e Element) bool { return e.ID == id })
}
