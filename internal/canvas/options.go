/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"log/slog"

	"shirtdesigner/internal/vector"
)

// MinSize is the smallest width or height a resize can produce.
const MinSize = 20

// TextStyle is the style applied to newly added text.
type TextStyle struct {
	FontSize   float64
	FontFamily string
	Color      string
}

// SnapOptions enables smart-guide snapping of dragged elements against the others.
type SnapOptions struct {
	Enabled bool
	vector.SnapOptions
}

// Options configure a Controller. Zero values are replaced by DefaultOptions.
type Options struct {
	MinSize float64
	// ImagePlacement is where added and uploaded images land.
	ImagePlacement vector.Rect
	// TextPlacement is where added text lands.
	TextPlacement    vector.Rect
	TextStyle        TextStyle
	DefaultImageName string
	// HandleRadius is the pointer tolerance for grabbing a resize grip.
	HandleRadius float64

	// MaxHistory caps stored snapshots (0 = unlimited).
	MaxHistory int
	// DisableResize reduces the canvas to drag-only editing.
	DisableResize bool
	Snap          SnapOptions
	// UploadMaxBytes is passed to the image decoder (0 = decoder default).
	UploadMaxBytes int

	Logger *slog.Logger
	// OnCommit is called after every history commit, outside the controller lock.
	OnCommit func(op string, elements int)
}

// DefaultOptions mirrors the storefront designer defaults.
func DefaultOptions() Options {
	return Options{
		MinSize:          MinSize,
		ImagePlacement:   vector.R(150, 150, 100, 100),
		TextPlacement:    vector.R(200, 200, 200, 50),
		TextStyle:        TextStyle{FontSize: 24, FontFamily: "Arial", Color: "#000000"},
		DefaultImageName: "Design",
		HandleRadius:     8,
		Snap:             SnapOptions{SnapOptions: vector.SnapOptions{Threshold: 6, SnapToEdges: true, SnapToCenters: true}},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinSize <= 0 {
		o.MinSize = d.MinSize
	}
	if o.ImagePlacement.W <= 0 || o.ImagePlacement.H <= 0 {
		o.ImagePlacement = d.ImagePlacement
	}
	if o.TextPlacement.W <= 0 || o.TextPlacement.H <= 0 {
		o.TextPlacement = d.TextPlacement
	}
	if o.TextStyle.FontSize <= 0 {
		o.TextStyle.FontSize = d.TextStyle.FontSize
	}
	if o.TextStyle.FontFamily == "" {
		o.TextStyle.FontFamily = d.TextStyle.FontFamily
	}
	if !ValidColor(o.TextStyle.Color) {
		o.TextStyle.Color = d.TextStyle.Color
	}
	if o.DefaultImageName == "" {
		o.DefaultImageName = d.DefaultImageName
	}
	if o.HandleRadius <= 0 {
		o.HandleRadius = d.HandleRadius
	}
	if o.Snap.Threshold <= 0 {
		o.Snap.Threshold = d.Snap.Threshold
	}
	if o.MaxHistory < 0 {
		o.MaxHistory = 0
	}
	return o
}
