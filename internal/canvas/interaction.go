/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import "shirtdesigner/internal/vector"

// Mode is the pointer interaction currently in progress.
type Mode int

const (
	Idle Mode = iota
	Dragging
	Resizing
)

func (m Mode) String() string {
	switch m {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Interaction is ephemeral pointer state; it never enters history.
type Interaction struct {
	Mode      Mode
	ElementID string
	// Offset is pointer minus element origin at drag start.
	Offset vector.Pt
	Handle vector.Handle
	// Origin is the element geometry when the interaction began.
	Origin vector.Rect
	// PointerOrigin is where the resize started.
	PointerOrigin vector.Pt
	// Guides are the smart guides from the latest snapped drag update.
	Guides []vector.GuideLine
}

func (i Interaction) Active() bool { return i.Mode != Idle }
