/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package domain defines the data model shared by the board, the editor controllers and the UI.
package domain

import (
	"strings"
)

// Placement defaults for newly added assets.
const (
	DefaultX           = 50
	DefaultY           = 50
	DefaultWidth       = 500
	DefaultBaseHeight  = 200
	DefaultAspectRatio = 1.0 // placeholder; media dimensions are not probed
)

// Kind tells image and video assets apart.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// KindForURL classifies a source URL by its extension: ".mp4" is video, anything else an image.
func KindForURL(url string) Kind {
	if strings.HasSuffix(url, ".mp4") {
		return KindVideo
	}
	return KindImage
}

// Point is a position in canvas-local pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle defined by its top-left corner and size.
type Rect struct {
	Min  Point `json:"min"`
	Size Size  `json:"size"`
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.Y >= r.Min.Y && p.X <= r.Min.X+r.Size.Width && p.Y <= r.Min.Y+r.Size.Height
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := min(r.Min.X, o.Min.X)
	minY := min(r.Min.Y, o.Min.Y)
	maxX := max(r.Min.X+r.Size.Width, o.Min.X+o.Size.Width)
	maxY := max(r.Min.Y+r.Size.Height, o.Min.Y+o.Size.Height)
	return Rect{Min: Point{X: minX, Y: minY}, Size: Size{Width: maxX - minX, Height: maxY - minY}}
}

// HeightFor derives the height that keeps the given aspect ratio for width.
// Both the add path and the resize path go through here.
func HeightFor(width, aspectRatio float64) float64 {
	if aspectRatio <= 0 {
		aspectRatio = DefaultAspectRatio
	}
	return width / aspectRatio
}

// Asset is one placed image or video on the canvas.
// The playback element of a video is not part of the record; views own it.
type Asset struct {
	ID          int64   `json:"id"`
	Kind        Kind    `json:"kind"`
	SourceURL   string  `json:"sourceUrl"`
	Position    Point   `json:"position"`
	Size        Size    `json:"size"`
	AspectRatio float64 `json:"aspectRatio"`
	Playing     bool    `json:"playing,omitempty"`
}

// IsVideo reports whether the asset plays back.
func (a Asset) IsVideo() bool { return a.Kind == KindVideo }

// Bounds returns the asset rectangle in canvas coordinates.
func (a Asset) Bounds() Rect { return Rect{Min: a.Position, Size: a.Size} }
