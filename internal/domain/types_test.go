/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

import (
	"testing"
)

func TestKindForURL(t *testing.T) {
	cases := map[string]Kind{
		"cat.mp4":                     KindVideo,
		"https://x.test/clip.mp4":     KindVideo,
		"cat.png":                     KindImage,
		"cat.MP4":                     KindImage,
		"https://x.test/clip.mp4?x=1": KindImage,
		"":                            KindImage,
	}
	for in, want := range cases {
		if got := KindForURL(in); got != want {
			t.Fatalf("KindForURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHeightForKeepsAspect(t *testing.T) {
	if h := HeightFor(300, DefaultAspectRatio); h != 300 {
		t.Fatalf("expected 300, got %v", h)
	}
	if h := HeightFor(300, 2); h != 150 {
		t.Fatalf("expected 150, got %v", h)
	}
	// non-positive ratios fall back to the default
	if h := HeightFor(120, 0); h != 120 {
		t.Fatalf("expected fallback to default ratio, got %v", h)
	}
}

func TestRectContainsAndUnion(t *testing.T) {
	r := Rect{Min: Point{X: 10, Y: 10}, Size: Size{Width: 20, Height: 20}}
	if !r.Contains(Point{X: 10, Y: 30}) {
		t.Fatalf("edge point should be inside")
	}
	if r.Contains(Point{X: 31, Y: 15}) {
		t.Fatalf("point right of rect should be outside")
	}
	u := r.Union(Rect{Min: Point{X: -5, Y: 0}, Size: Size{Width: 5, Height: 5}})
	if u.Min.X != -5 || u.Min.Y != 0 || u.Size.Width != 35 || u.Size.Height != 30 {
		t.Fatalf("unexpected union: %+v", u)
	}
}
