/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"encoding/json"
	"slices"

	"shirtdesigner/internal/vector"
)

// View is everything a renderer needs for one frame.
type View struct {
	Elements    []Element          `json:"elements"`
	SelectedID  string             `json:"selectedId,omitempty"`
	CanUndo     bool               `json:"canUndo"`
	CanRedo     bool               `json:"canRedo"`
	Interaction string             `json:"interaction"`
	Guides      []vector.GuideLine `json:"guides,omitempty"`
}

// View snapshots the canvas for rendering.
func (c *Controller) View() View {
	c.lock()
	defer c.unlock()
	els := slices.Clone(c.elements)
	if els == nil {
		els = []Element{}
	}
	return View{
		Elements:    els,
		SelectedID:  c.selectedID,
		CanUndo:     c.history.CanUndo(),
		CanRedo:     c.history.CanRedo(),
		Interaction: c.interaction.Mode.String(),
		Guides:      slices.Clone(c.interaction.Guides),
	}
}

// MarshalJSON renders the current view.
func (c *Controller) MarshalJSON() ([]byte, error) { return json.Marshal(c.View()) }
