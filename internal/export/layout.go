/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders a snapshot of the board to PNG or PDF. Assets are
// drawn in list order so later assets cover earlier ones, matching the canvas.
package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"

	"assetcanvas/internal/domain"
)

// ErrNothingToExport is returned when the board holds no assets.
var ErrNothingToExport = errors.New("no assets to export")

// ImageSource resolves an asset source URL to a decoded image.
// *media.Fetcher satisfies it.
type ImageSource interface {
	Image(ctx context.Context, src string) (image.Image, string, error)
}

// Options controls both exporters. Zero values get defaults.
type Options struct {
	// Margin around the union of all asset rectangles, in canvas pixels.
	Margin float64
	// Scale multiplies canvas pixels into output pixels (PNG) or points (PDF).
	Scale float64
	// Labels draws the asset ID in the top-left corner of each frame.
	Labels bool
	// Images loads image assets; nil draws placeholders only.
	Images ImageSource

	Background color.RGBA
	Frame      color.RGBA
	Selected   color.RGBA
	// SelectedID highlights one asset frame, mirroring the canvas selection. Zero means none.
	SelectedID int64
}

func (o Options) withDefaults() Options {
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Background == (color.RGBA{}) {
		o.Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if o.Frame == (color.RGBA{}) {
		o.Frame = color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 255}
	}
	if o.Selected == (color.RGBA{}) {
		o.Selected = color.RGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 255}
	}
	return o
}

var (
	placeholderFill = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 255}
	videoFill       = color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 255}
	videoGlyph      = color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 255}
)

// Layout is the page geometry shared by the exporters.
type Layout struct {
	Page   domain.Rect // canvas-space area being exported
	Scale  float64
	Assets []domain.Asset
}

// NewLayout computes the exported area: the union of all asset rectangles and
// the canvas origin, grown by margin.
func NewLayout(assets []domain.Asset, opt Options) (Layout, error) {
	if len(assets) == 0 {
		return Layout{}, ErrNothingToExport
	}
	opt = opt.withDefaults()
	r := domain.Rect{}
	for _, a := range assets {
		r = r.Union(a.Bounds())
	}
	r.Min.X -= opt.Margin
	r.Min.Y -= opt.Margin
	r.Size.Width += 2 * opt.Margin
	r.Size.Height += 2 * opt.Margin
	return Layout{Page: r, Scale: opt.Scale, Assets: assets}, nil
}

// PageSize returns the output size in output units.
func (l Layout) PageSize() (w, h float64) {
	return l.Page.Size.Width * l.Scale, l.Page.Size.Height * l.Scale
}

// Place maps an asset rectangle to output coordinates.
func (l Layout) Place(a domain.Asset) (x, y, w, h float64) {
	x = (a.Position.X - l.Page.Min.X) * l.Scale
	y = (a.Position.Y - l.Page.Min.Y) * l.Scale
	return x, y, a.Size.Width * l.Scale, a.Size.Height * l.Scale
}

// pixelRect rounds a placed rectangle to whole pixels.
func (l Layout) pixelRect(a domain.Asset) image.Rectangle {
	x, y, w, h := l.Place(a)
	x0, y0 := int(math.Round(x)), int(math.Round(y))
	return image.Rect(x0, y0, x0+int(math.Round(w)), y0+int(math.Round(h)))
}

// loadImages resolves image assets up front. Failures map to nil entries so the
// exporters draw the broken-media placeholder.
func loadImages(ctx context.Context, src ImageSource, assets []domain.Asset) map[int64]image.Image {
	out := make(map[int64]image.Image, len(assets))
	if src == nil {
		return out
	}
	for _, a := range assets {
		if a.IsVideo() {
			continue
		}
		img, _, err := src.Image(ctx, a.SourceURL)
		if err != nil {
			continue
		}
		out[a.ID] = img
	}
	return out
}
