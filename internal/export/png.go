/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"

	xdraw "golang.org/x/image/draw"

	"assetcanvas/internal/domain"
)

// RenderPNG draws the board into an RGBA image.
func RenderPNG(ctx context.Context, assets []domain.Asset, opt Options) (*image.RGBA, error) {
	opt = opt.withDefaults()
	l, err := NewLayout(assets, opt)
	if err != nil {
		return nil, err
	}
	pw, ph := l.PageSize()
	img := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(pw)), int(math.Ceil(ph))))
	xdraw.Draw(img, img.Bounds(), &image.Uniform{C: opt.Background}, image.Point{}, xdraw.Src)

	loaded := loadImages(ctx, opt.Images, assets)
	for _, a := range assets {
		r := l.pixelRect(a)
		if r.Empty() {
			continue
		}
		switch src, ok := loaded[a.ID]; {
		case a.IsVideo():
			fillRect(img, r, videoFill)
			drawPlayGlyph(img, r, videoGlyph)
		case ok:
			xdraw.CatmullRom.Scale(img, r, src, src.Bounds(), xdraw.Over, nil)
		default:
			fillRect(img, r, placeholderFill)
			drawCross(img, r, opt.Frame)
		}
		frame := opt.Frame
		if opt.SelectedID != 0 && a.ID == opt.SelectedID {
			frame = opt.Selected
			strokeRect(img, r.Inset(1), frame)
		}
		strokeRect(img, r, frame)
		if opt.Labels {
			drawLabel(img, r.Min.Add(image.Pt(4, 4)), strconv.FormatInt(a.ID, 10), frame)
		}
	}
	return img, nil
}

// PNG renders the board and writes it to outPath, creating parent directories.
func PNG(ctx context.Context, assets []domain.Asset, outPath string, opt Options) error {
	img, err := RenderPNG(ctx, assets, opt)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// strokeRect draws a 1px border on the inner edge of r.
func strokeRect(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, col)
		img.SetRGBA(x, r.Max.Y-1, col)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, col)
		img.SetRGBA(r.Max.X-1, y, col)
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	xdraw.Draw(img, r, &image.Uniform{C: col}, image.Point{}, xdraw.Src)
}

// drawCross marks a broken image with its two diagonals.
func drawCross(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	w, h := r.Dx(), r.Dy()
	n := max(w, h)
	for i := 0; i < n; i++ {
		x := r.Min.X + i*w/n
		y0 := r.Min.Y + i*h/n
		y1 := r.Max.Y - 1 - i*h/n
		if image.Pt(x, y0).In(img.Bounds()) {
			img.SetRGBA(x, y0, col)
		}
		if image.Pt(x, y1).In(img.Bounds()) {
			img.SetRGBA(x, y1, col)
		}
	}
}

// drawPlayGlyph fills a right-pointing triangle centred in r.
func drawPlayGlyph(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	side := min(r.Dx(), r.Dy()) / 3
	if side < 2 {
		return
	}
	cx, cy := r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2
	x0 := cx - side/2
	for dx := 0; dx < side; dx++ {
		half := (side - dx) / 2
		for dy := -half; dy <= half; dy++ {
			p := image.Pt(x0+dx, cy+dy)
			if p.In(img.Bounds()) {
				img.SetRGBA(p.X, p.Y, col)
			}
		}
	}
}

// drawLabel renders digits with a 3x5 bitmap font; other runes are skipped.
func drawLabel(img *image.RGBA, at image.Point, s string, col color.RGBA) {
	const scale = 2
	x := at.X
	for _, ch := range s {
		glyph, ok := digits[ch]
		if !ok {
			continue
		}
		for row, bits := range glyph {
			for c := 0; c < 3; c++ {
				if bits&(1<<(2-c)) == 0 {
					continue
				}
				fillRect(img, image.Rect(x+c*scale, at.Y+row*scale, x+(c+1)*scale, at.Y+(row+1)*scale).Intersect(img.Bounds()), col)
			}
		}
		x += 4 * scale
	}
}

var digits = map[rune][5]uint8{
	'0': {7, 5, 5, 5, 7},
	'1': {2, 6, 2, 2, 7},
	'2': {7, 1, 7, 4, 7},
	'3': {7, 1, 7, 1, 7},
	'4': {5, 5, 7, 1, 1},
	'5': {7, 4, 7, 1, 7},
	'6': {7, 4, 7, 5, 7},
	'7': {7, 1, 1, 1, 1},
	'8': {7, 5, 7, 5, 7},
	'9': {7, 5, 7, 1, 7},
}
