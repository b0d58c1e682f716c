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
	"bytes"
	"context"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"assetcanvas/internal/domain"
	"assetcanvas/internal/version"
)

// PDF writes a single-page PDF of the board to outPath. One canvas pixel maps
// to one point at Scale 1. Images are embedded as PNG; videos and broken media
// are drawn as filled frames.
func PDF(ctx context.Context, assets []domain.Asset, outPath string, opt Options) error {
	opt = opt.withDefaults()
	l, err := NewLayout(assets, opt)
	if err != nil {
		return err
	}
	pw, ph := l.PageSize()

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	pdf.SetTitle("Asset Canvas layout", false)
	pdf.SetCreator("assetcanvas "+version.String(), false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: pw, Ht: ph})

	setFillColor(pdf, opt.Background)
	pdf.Rect(0, 0, pw, ph, "F")

	loaded := loadImages(ctx, opt.Images, assets)
	pdf.SetFont("Helvetica", "", 10)
	for _, a := range assets {
		x, y, w, h := l.Place(a)
		if w <= 0 || h <= 0 {
			continue
		}
		drawn := false
		if src, ok := loaded[a.ID]; ok {
			var buf bytes.Buffer
			if err := png.Encode(&buf, src); err == nil {
				name := "asset-" + strconv.FormatInt(a.ID, 10)
				pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
				if pdf.Ok() {
					pdf.ImageOptions(name, x, y, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
					drawn = true
				} else {
					pdf.ClearError()
				}
			}
		}
		if !drawn {
			fill := placeholderFill
			if a.IsVideo() {
				fill = videoFill
			}
			setFillColor(pdf, fill)
			pdf.Rect(x, y, w, h, "F")
			if a.IsVideo() {
				side := min(w, h) / 3
				cx, cy := x+w/2, y+h/2
				setFillColor(pdf, videoGlyph)
				pdf.Polygon([]gofpdf.PointType{
					{X: cx - side/2, Y: cy - side/2},
					{X: cx + side/2, Y: cy},
					{X: cx - side/2, Y: cy + side/2},
				}, "F")
			} else {
				setDrawColor(pdf, opt.Frame)
				pdf.SetLineWidth(0.5)
				pdf.Line(x, y, x+w, y+h)
				pdf.Line(x, y+h, x+w, y)
			}
		}

		frame := opt.Frame
		lw := 1.0
		if opt.SelectedID != 0 && a.ID == opt.SelectedID {
			frame, lw = opt.Selected, 2
		}
		setDrawColor(pdf, frame)
		pdf.SetLineWidth(lw)
		pdf.Rect(x, y, w, h, "D")
		if opt.Labels {
			pdf.SetTextColor(int(frame.R), int(frame.G), int(frame.B))
			pdf.Text(x+4, y+12, "#"+strconv.FormatInt(a.ID, 10))
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
