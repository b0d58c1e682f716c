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
	"encoding/xml"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"assetcanvas/internal/domain"
)

// RenderSVG writes the board as a standalone SVG document. Image assets
// reference their source URL through <image href>, so nothing is fetched.
func RenderSVG(assets []domain.Asset, opt Options) ([]byte, error) {
	opt = opt.withDefaults()
	l, err := NewLayout(assets, opt)
	if err != nil {
		return nil, err
	}
	pw, ph := l.PageSize()

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n", pw, ph, pw, ph)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", pw, ph, svgColor(opt.Background))

	for _, a := range assets {
		x, y, w, h := l.Place(a)
		if w <= 0 || h <= 0 {
			continue
		}
		wf("  <g id=\"asset-%d\">\n", a.ID)
		if a.IsVideo() {
			side := min(w, h) / 3
			cx, cy := x+w/2, y+h/2
			wf("    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", x, y, w, h, svgColor(videoFill))
			wf("    <polygon points=\"%g,%g %g,%g %g,%g\" fill=\"%s\"/>\n",
				cx-side/2, cy-side/2, cx+side/2, cy, cx-side/2, cy+side/2, svgColor(videoGlyph))
		} else {
			wf("    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", x, y, w, h, svgColor(placeholderFill))
			wf("    <image x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" preserveAspectRatio=\"none\" href=\"%s\"/>\n", x, y, w, h, esc(a.SourceURL))
		}
		frame, sw := opt.Frame, 1.0
		if opt.SelectedID != 0 && a.ID == opt.SelectedID {
			frame, sw = opt.Selected, 2
		}
		wf("    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"/>\n", x, y, w, h, svgColor(frame), sw)
		if opt.Labels {
			wf("    <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"10\" fill=\"%s\">#%s</text>\n",
				x+4, y+12, svgColor(frame), strconv.FormatInt(a.ID, 10))
		}
		wf("  </g>\n")
	}
	wf("</svg>\n")

	if werr != nil {
		return nil, fmt.Errorf("build svg: %w", werr)
	}
	return buf.Bytes(), nil
}

// SVG renders the board and writes it to outPath.
func SVG(assets []domain.Asset, outPath string, opt Options) error {
	b, err := RenderSVG(assets, opt)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func esc(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
