/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"fmt"
	"log/slog"

	"shirtdesigner/internal/vector"
)

// Continuous pointer moves only touch the live element list. History is
// committed once, when the interaction ends.

// BeginDrag starts moving element id. The pointer offset from the element
// origin is kept so every update recomputes the position from scratch.
// An interaction already in progress is ended (and committed) first.
func (c *Controller) BeginDrag(id string, x, y float64) error {
	c.lock()
	defer c.unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("begin drag %s: %w", id, ErrNotFound)
	}
	c.endInteractionLocked()
	el := c.elements[i]
	c.selectedID = id
	c.interaction = Interaction{
		Mode:      Dragging,
		ElementID: id,
		Offset:    vector.Pt{X: x - el.X, Y: y - el.Y},
		Origin:    el.Rect(),
	}
	return nil
}

// UpdateDrag moves the dragged element so that it keeps its grab offset.
// Ignored unless a drag is active.
func (c *Controller) UpdateDrag(x, y float64) {
	c.lock()
	defer c.unlock()
	if c.interaction.Mode != Dragging {
		return
	}
	i := c.indexLocked(c.interaction.ElementID)
	if i < 0 {
		c.abortLocked("update_drag")
		return
	}
	el := c.elements[i]
	r := vector.R(x-c.interaction.Offset.X, y-c.interaction.Offset.Y, el.Width, el.Height)
	c.interaction.Guides = nil
	if c.opts.Snap.Enabled {
		r, c.interaction.Guides = vector.ComputeSmartGuides(r, c.anchorsLocked(i), c.opts.Snap.SnapOptions)
	}
	el.X, el.Y = r.X, r.Y
	c.replaceLocked(i, el)
}

// EndDrag commits the final position and returns to Idle. A drag that did
// not move the element commits nothing.
func (c *Controller) EndDrag() {
	c.lock()
	defer c.unlock()
	if c.interaction.Mode != Dragging {
		return
	}
	c.endInteractionLocked()
}

// BeginResize starts resizing element id from grip h.
// It is a no-op when resizing is disabled.
func (c *Controller) BeginResize(id string, h vector.Handle, x, y float64) error {
	if !h.Valid() {
		return fmt.Errorf("%w: unknown resize handle %q", ErrValidation, h)
	}
	c.lock()
	defer c.unlock()
	if c.opts.DisableResize {
		return nil
	}
	i := c.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("begin resize %s: %w", id, ErrNotFound)
	}
	c.endInteractionLocked()
	c.selectedID = id
	c.interaction = Interaction{
		Mode:          Resizing,
		ElementID:     id,
		Handle:        h,
		Origin:        c.elements[i].Rect(),
		PointerOrigin: vector.Pt{X: x, Y: y},
	}
	return nil
}

// UpdateResize recomputes the geometry from the resize origin and the total
// pointer delta. Ignored unless a resize is active.
func (c *Controller) UpdateResize(x, y float64) {
	c.lock()
	defer c.unlock()
	if c.interaction.Mode != Resizing {
		return
	}
	i := c.indexLocked(c.interaction.ElementID)
	if i < 0 {
		c.abortLocked("update_resize")
		return
	}
	in := c.interaction
	r := vector.ResizeRect(in.Origin, in.Handle, x-in.PointerOrigin.X, y-in.PointerOrigin.Y, c.opts.MinSize)
	c.replaceLocked(i, c.elements[i].withRect(r))
}

// EndResize commits the final geometry and returns to Idle.
func (c *Controller) EndResize() {
	c.lock()
	defer c.unlock()
	if c.interaction.Mode != Resizing {
		return
	}
	c.endInteractionLocked()
}

// PointerDown hit-tests (x, y): a grip of the selected element starts a
// resize, an element starts a drag, empty canvas clears the selection.
func (c *Controller) PointerDown(x, y float64) {
	c.lock()
	sel := c.indexLocked(c.selectedID)
	p := vector.Pt{X: x, Y: y}
	var grip vector.Handle
	var onGrip bool
	if sel >= 0 && !c.opts.DisableResize {
		grip, onGrip = vector.HandleAt(c.elements[sel].Rect(), p, c.opts.HandleRadius)
	}
	hit := c.hitLocked(p)
	var id string
	switch {
	case onGrip:
		id = c.elements[sel].ID
	case hit >= 0:
		id = c.elements[hit].ID
	default:
		c.endInteractionLocked()
		c.selectedID = ""
	}
	c.unlock()

	switch {
	case onGrip:
		_ = c.BeginResize(id, grip, x, y)
	case id != "":
		_ = c.BeginDrag(id, x, y)
	}
}

// PointerMove feeds whichever interaction is active.
func (c *Controller) PointerMove(x, y float64) {
	switch c.Interaction().Mode {
	case Dragging:
		c.UpdateDrag(x, y)
	case Resizing:
		c.UpdateResize(x, y)
	}
}

// PointerUp ends whichever interaction is active, wherever the pointer is.
func (c *Controller) PointerUp() {
	c.lock()
	defer c.unlock()
	c.endInteractionLocked()
}

// PointerLeave is handled exactly like PointerUp so an interaction can never dangle.
func (c *Controller) PointerLeave() { c.PointerUp() }

func (c *Controller) endInteractionLocked() {
	in := c.interaction
	if !in.Active() {
		return
	}
	c.interaction = Interaction{}
	i := c.indexLocked(in.ElementID)
	if i < 0 {
		c.log.Warn("interaction target vanished", slog.String("mode", in.Mode.String()), slog.String("id", in.ElementID))
		return
	}
	if c.elements[i].Rect() == in.Origin {
		return
	}
	if in.Mode == Dragging {
		c.commitLocked("drag")
	} else {
		c.commitLocked("resize")
	}
}

func (c *Controller) abortLocked(op string) {
	c.log.Warn("interaction target vanished", slog.String("op", op), slog.String("mode", c.interaction.Mode.String()), slog.String("id", c.interaction.ElementID))
	c.interaction = Interaction{}
}

func (c *Controller) anchorsLocked(skip int) []vector.Anchor {
	out := make([]vector.Anchor, 0, len(c.elements))
	for j, e := range c.elements {
		if j == skip {
			continue
		}
		out = append(out, vector.Anchor{Rect: e.Rect(), Weight: 1})
	}
	return out
}
