/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Smart guides snap a dragged element against its neighbours on the canvas.
// Deterministic and UI-agnostic so the controller and its tests share it.

import "math"

// SnapOptions controls which guide candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum distance in pixels at which snapping occurs.
	Threshold float64
	// SnapToEdges aligns left/right/top/bottom edges.
	SnapToEdges bool
	// SnapToCenters aligns horizontal and vertical centers.
	SnapToCenters bool
}

// Anchor is a static reference rect, typically another element on the canvas.
// Higher Weight wins ties; use 1 when unsure.
type Anchor struct {
	Rect   Rect
	Weight float64
}

// GuideLine is a visual hint produced when an axis snapped.
// Orientation is "vertical" or "horizontal"; Kind is "edge" or "center".
type GuideLine struct {
	Orientation string  `json:"orientation"`
	Kind        string  `json:"kind"`
	Position    float64 `json:"position"`
	From        Pt      `json:"from"`
	To          Pt      `json:"to"`
}

type axisBest struct {
	delta float64
	dist  float64
	guide GuideLine
	ok    bool
}

func (b *axisBest) consider(delta, threshold, weight float64, g GuideLine) {
	dist := math.Abs(delta)
	if dist > threshold {
		return
	}
	score := dist / math.Max(1, weight)
	if !b.ok || score < b.dist {
		b.delta, b.dist, b.guide, b.ok = delta, score, g, true
	}
}

// ComputeSmartGuides snaps moving against anchors independently in X and Y and
// returns the adjusted rect plus the guides to render.
func ComputeSmartGuides(moving Rect, anchors []Anchor, opts SnapOptions) (Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	var bx, by axisBest
	mL, mR, mT, mB := moving.X, moving.Right(), moving.Y, moving.Bottom()
	mc := moving.Center()

	for _, a := range anchors {
		aL, aR, aT, aB := a.Rect.X, a.Rect.Right(), a.Rect.Y, a.Rect.Bottom()
		ac := a.Rect.Center()
		if opts.SnapToEdges {
			bx.consider(mL-aL, opts.Threshold, a.Weight, vertical(aL, moving, a.Rect, "edge"))
			bx.consider(mR-aR, opts.Threshold, a.Weight, vertical(aR, moving, a.Rect, "edge"))
			bx.consider(mL-aR, opts.Threshold, a.Weight, vertical(aR, moving, a.Rect, "edge"))
			bx.consider(mR-aL, opts.Threshold, a.Weight, vertical(aL, moving, a.Rect, "edge"))

			by.consider(mT-aT, opts.Threshold, a.Weight, horizontal(aT, moving, a.Rect, "edge"))
			by.consider(mB-aB, opts.Threshold, a.Weight, horizontal(aB, moving, a.Rect, "edge"))
			by.consider(mT-aB, opts.Threshold, a.Weight, horizontal(aB, moving, a.Rect, "edge"))
			by.consider(mB-aT, opts.Threshold, a.Weight, horizontal(aT, moving, a.Rect, "edge"))
		}
		if opts.SnapToCenters {
			bx.consider(mc.X-ac.X, opts.Threshold, a.Weight, vertical(ac.X, moving, a.Rect, "center"))
			by.consider(mc.Y-ac.Y, opts.Threshold, a.Weight, horizontal(ac.Y, moving, a.Rect, "center"))
		}
	}

	snapped := moving
	var guides []GuideLine
	if bx.ok {
		snapped.X = FloatRound(moving.X-bx.delta, 3)
		guides = append(guides, bx.guide)
	}
	if by.ok {
		snapped.Y = FloatRound(moving.Y-by.delta, 3)
		guides = append(guides, by.guide)
	}
	return snapped, guides
}

func vertical(x float64, a, b Rect, kind string) GuideLine {
	x = FloatRound(x, 3)
	return GuideLine{
		Orientation: "vertical",
		Kind:        kind,
		Position:    x,
		From:        Pt{x, math.Min(a.Y, b.Y)},
		To:          Pt{x, math.Max(a.Bottom(), b.Bottom())},
	}
}

func horizontal(y float64, a, b Rect, kind string) GuideLine {
	y = FloatRound(y, 3)
	return GuideLine{
		Orientation: "horizontal",
		Kind:        kind,
		Position:    y,
		From:        Pt{math.Min(a.X, b.X), y},
		To:          Pt{math.Max(a.Right(), b.Right()), y},
	}
}
