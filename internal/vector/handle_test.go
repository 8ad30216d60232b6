/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

const minSize = 20

func TestParseHandle(t *testing.T) {
	for _, h := range Handles {
		got, err := ParseHandle(" " + string(h) + " ")
		if err != nil || got != h {
			t.Fatalf("ParseHandle(%q) = %q, %v", h, got, err)
		}
	}
	if got, err := ParseHandle("SE"); err != nil || got != HandleSE {
		t.Fatalf("expected case-insensitive parse, got %q %v", got, err)
	}
	if _, err := ParseHandle("x"); err == nil {
		t.Fatalf("expected error for unknown handle")
	}
}

func TestResizeEastGrowsWidthKeepsX(t *testing.T) {
	origin := R(150, 150, 100, 100)
	got := ResizeRect(origin, HandleE, 40, 0, minSize)
	if got != R(150, 150, 140, 100) {
		t.Fatalf("unexpected rect: %+v", got)
	}
}

func TestResizeWestKeepsRightEdge(t *testing.T) {
	origin := R(150, 150, 100, 100)
	for _, dx := range []float64{-50, -1, 0, 30, 80, 500} {
		got := ResizeRect(origin, HandleW, dx, 0, minSize)
		if got.Right() != origin.Right() {
			t.Fatalf("dx=%v: right edge moved to %v", dx, got.Right())
		}
		if got.W < minSize {
			t.Fatalf("dx=%v: width %v below minimum", dx, got.W)
		}
	}
	if got := ResizeRect(origin, HandleW, 500, 0, minSize); got.X != 230 || got.W != 20 {
		t.Fatalf("expected clamp at min size, got %+v", got)
	}
}

func TestResizeNorthKeepsBottomEdge(t *testing.T) {
	origin := R(0, 0, 50, 50)
	got := ResizeRect(origin, HandleN, 0, 1000, minSize)
	if got.Bottom() != 50 || got.H != minSize || got.Y != 30 {
		t.Fatalf("unexpected rect: %+v", got)
	}
	got = ResizeRect(origin, HandleN, 0, -25, minSize)
	if got.Y != -25 || got.H != 75 {
		t.Fatalf("expected growth upwards, got %+v", got)
	}
}

func TestResizeSouthKeepsY(t *testing.T) {
	origin := R(5, 7, 40, 40)
	got := ResizeRect(origin, HandleS, 99, -1000, minSize)
	if got.Y != 7 || got.H != minSize || got.W != 40 || got.X != 5 {
		t.Fatalf("unexpected rect: %+v", got)
	}
}

func TestResizeCornersCombineAxes(t *testing.T) {
	origin := R(100, 100, 100, 100)
	cases := []struct {
		h    Handle
		want Rect
	}{
		{HandleSE, R(100, 100, 110, 120)},
		{HandleNW, R(110, 120, 90, 80)},
		{HandleNE, R(100, 120, 110, 80)},
		{HandleSW, R(110, 100, 90, 120)},
	}
	for _, c := range cases {
		if got := ResizeRect(origin, c.h, 10, 20, minSize); got != c.want {
			t.Fatalf("%s: got %+v want %+v", c.h, got, c.want)
		}
	}
}

func TestResizeNeverBelowMinimum(t *testing.T) {
	origins := []Rect{R(0, 0, 100, 100), R(10, 10, 20, 20), R(0, 0, 5, 5)}
	deltas := []float64{-10000, -100, -1, 0, 1, 100, 10000}
	for _, o := range origins {
		for _, h := range Handles {
			for _, dx := range deltas {
				for _, dy := range deltas {
					got := ResizeRect(o, h, dx, dy, minSize)
					if got.W < minSize || got.H < minSize {
						t.Fatalf("origin=%+v h=%s dx=%v dy=%v -> %+v", o, h, dx, dy, got)
					}
				}
			}
		}
	}
}

func TestEdgeGripGrowsUnmovedAxisToMinimum(t *testing.T) {
	origin := R(0, 0, 5, 5)
	if got := ResizeRect(origin, HandleN, 0, -10, minSize); got != R(0, -15, 20, 20) {
		t.Fatalf("n grip: got %+v", got)
	}
	if got := ResizeRect(origin, HandleE, 30, 0, minSize); got != R(0, 0, 35, 20) {
		t.Fatalf("e grip: got %+v", got)
	}
	if got := ResizeRect(R(10, 10, 200, 50), HandleS, 0, 0, 60); got != R(10, 10, 200, 60) {
		t.Fatalf("s grip with larger minimum: got %+v", got)
	}
}

func TestHandlePointAndHandleAt(t *testing.T) {
	r := R(100, 100, 100, 50)
	if p := HandlePoint(r, HandleSE); p != (Pt{200, 150}) {
		t.Fatalf("se grip at %+v", p)
	}
	if p := HandlePoint(r, HandleN); p != (Pt{150, 100}) {
		t.Fatalf("n grip at %+v", p)
	}
	if p := HandlePoint(r, HandleW); p != (Pt{100, 125}) {
		t.Fatalf("w grip at %+v", p)
	}
	if h, ok := HandleAt(r, Pt{198, 149}, 6); !ok || h != HandleSE {
		t.Fatalf("expected se grip, got %q ok=%v", h, ok)
	}
	if _, ok := HandleAt(r, Pt{150, 125}, 6); ok {
		t.Fatalf("center of element must not hit a grip")
	}
}
