/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"fmt"
	"math"
	"strings"
)

// Handle is one of the eight compass resize grips around an element.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Handles lists all grips in paint order (corners first).
var Handles = []Handle{HandleNW, HandleNE, HandleSW, HandleSE, HandleN, HandleS, HandleE, HandleW}

// ParseHandle accepts a compass name in any case.
func ParseHandle(s string) (Handle, error) {
	h := Handle(strings.ToLower(strings.TrimSpace(s)))
	if !h.Valid() {
		return "", fmt.Errorf("unknown resize handle %q", s)
	}
	return h, nil
}

func (h Handle) Valid() bool {
	switch h {
	case HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW:
		return true
	}
	return false
}

func (h Handle) has(c byte) bool { return strings.IndexByte(string(h), c) >= 0 }

// ResizeRect applies a pointer delta to origin through handle h.
//
// East/south grips grow the far edge and keep x/y. West/north grips move the
// near edge with the pointer and keep the opposite edge fixed. Corner grips
// apply both axis rules independently. Width and height never drop below
// minSize; an axis the grip does not move is grown to minSize from its origin.
func ResizeRect(origin Rect, h Handle, dx, dy, minSize float64) Rect {
	out := origin
	out.W = math.Max(minSize, out.W)
	out.H = math.Max(minSize, out.H)
	switch {
	case h.has('e'):
		out.W = math.Max(minSize, origin.W+dx)
	case h.has('w'):
		d := math.Min(dx, origin.W-minSize)
		out.W = origin.W - d
		out.X = origin.X + d
	}
	switch {
	case h.has('s'):
		out.H = math.Max(minSize, origin.H+dy)
	case h.has('n'):
		d := math.Min(dy, origin.H-minSize)
		out.H = origin.H - d
		out.Y = origin.Y + d
	}
	return out
}

// HandlePoint returns where grip h sits on r (edge midpoints and corners).
func HandlePoint(r Rect, h Handle) Pt {
	c := r.Center()
	p := c
	switch {
	case h.has('e'):
		p.X = r.Right()
	case h.has('w'):
		p.X = r.X
	}
	switch {
	case h.has('s'):
		p.Y = r.Bottom()
	case h.has('n'):
		p.Y = r.Y
	}
	return p
}

// HandleAt returns the grip of r within radius of p. Corners win over edges.
func HandleAt(r Rect, p Pt, radius float64) (Handle, bool) {
	for _, h := range Handles {
		q := HandlePoint(r, h)
		dx, dy := p.X-q.X, p.Y-q.Y
		if dx*dx+dy*dy <= radius*radius {
			return h, true
		}
	}
	return "", false
}
