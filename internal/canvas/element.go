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
	"regexp"
	"strings"

	"shirtdesigner/internal/vector"
)

// Kind tags the element variant.
type Kind string

const (
	KindImage Kind = "image"
	KindText  Kind = "text"
)

// Element is one placed design item. Image fields are set for KindImage,
// text fields for KindText. Elements are plain values: the canvas never
// mutates an element that has already been handed out or snapshotted.
//
// Z-order is not stored; it is the element's index in the canvas sequence.
type Element struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`

	Src  string `json:"src,omitempty"`
	Name string `json:"name,omitempty"`

	Content    string  `json:"content,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	Color      string  `json:"color,omitempty"`
}

// Rect returns the unrotated bounds.
func (e Element) Rect() vector.Rect { return vector.R(e.X, e.Y, e.Width, e.Height) }

func (e Element) withRect(r vector.Rect) Element {
	e.X, e.Y, e.Width, e.Height = r.X, r.Y, r.W, r.H
	return e
}

// Hit reports whether p falls inside the element as painted (rotation included).
func (e Element) Hit(p vector.Pt) bool { return vector.HitRotated(e.Rect(), e.Rotation, p) }

// StylePatch is a partial update; nil fields are left untouched.
type StylePatch struct {
	Color      *string  `json:"color,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	Content    *string  `json:"content,omitempty"`
	Name       *string  `json:"name,omitempty"`
}

func (p StylePatch) empty() bool {
	return p.Color == nil && p.FontFamily == nil && p.FontSize == nil && p.Content == nil && p.Name == nil
}

func (p StylePatch) textOnly() bool {
	return p.Color != nil || p.FontFamily != nil || p.FontSize != nil || p.Content != nil
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a #rgb or #rrggbb color.
func ValidColor(s string) bool { return hexColor.MatchString(s) }

// apply validates the patch against e and returns the updated copy.
func (p StylePatch) apply(e Element) (Element, error) {
	if p.empty() {
		return e, fmt.Errorf("%w: empty style patch", ErrValidation)
	}
	if e.Kind == KindImage && p.textOnly() {
		return e, fmt.Errorf("%w: text style on image element %s", ErrValidation, e.ID)
	}
	if e.Kind == KindText && p.Name != nil {
		return e, fmt.Errorf("%w: name is only valid on image elements", ErrValidation)
	}
	if p.Color != nil {
		if !ValidColor(*p.Color) {
			return e, fmt.Errorf("%w: color %q is not a hex color", ErrValidation, *p.Color)
		}
		e.Color = strings.ToLower(*p.Color)
	}
	if p.FontFamily != nil {
		f := strings.TrimSpace(*p.FontFamily)
		if f == "" {
			return e, fmt.Errorf("%w: empty font family", ErrValidation)
		}
		e.FontFamily = f
	}
	if p.FontSize != nil {
		if *p.FontSize <= 0 {
			return e, fmt.Errorf("%w: font size must be positive", ErrValidation)
		}
		e.FontSize = *p.FontSize
	}
	if p.Content != nil {
		if strings.TrimSpace(*p.Content) == "" {
			return e, fmt.Errorf("%w: text content is blank", ErrValidation)
		}
		e.Content = *p.Content
	}
	if p.Name != nil {
		if n := strings.TrimSpace(*p.Name); n != "" {
			e.Name = n
		}
	}
	return e, nil
}
