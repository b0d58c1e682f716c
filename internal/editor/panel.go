/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import (
	"context"
	"log/slog"

	"assetcanvas/internal/board"
	"assetcanvas/internal/domain"
	"assetcanvas/internal/export"
	applog "assetcanvas/internal/log"
)

// ControlPanel backs the URL entry and the Add Asset / Log Asset Info buttons.
type ControlPanel struct {
	store   *board.Store
	pending string
	images  export.ImageSource
	diag    *slog.Logger
}

// PanelOption customizes a ControlPanel.
type PanelOption func(*ControlPanel)

// WithImageSource lets exports embed real image content.
func WithImageSource(src export.ImageSource) PanelOption {
	return func(p *ControlPanel) { p.images = src }
}

// WithDiagnostics replaces the sink that receives Log Asset Info lines.
func WithDiagnostics(l *slog.Logger) PanelOption {
	return func(p *ControlPanel) { p.diag = l }
}

func NewControlPanel(store *board.Store, opts ...PanelOption) *ControlPanel {
	p := &ControlPanel{store: store}
	for _, o := range opts {
		o(p)
	}
	if p.diag == nil {
		p.diag = applog.Diagnostics()
	}
	return p
}

// SetURL stores the text currently in the URL entry.
func (p *ControlPanel) SetURL(s string) { p.pending = s }

// URL returns the pending entry text.
func (p *ControlPanel) URL() string { return p.pending }

// Add submits the pending URL and always clears the entry, even when the
// URL was empty and nothing was added.
func (p *ControlPanel) Add() (domain.Asset, bool) {
	a, ok := p.store.AddAsset(p.pending)
	p.pending = ""
	return a, ok
}

// LogAssetInfo writes one diagnostic line per asset and returns the lines.
func (p *ControlPanel) LogAssetInfo() []string {
	lines := board.SummaryLines(p.store.Assets())
	for _, line := range lines {
		p.diag.Info(line)
	}
	return lines
}

func (p *ControlPanel) exportOptions() export.Options {
	opt := export.Options{Margin: 20, Labels: true, Images: p.images}
	if id, ok := p.store.Selected(); ok {
		opt.SelectedID = id
	}
	return opt
}

// ExportPNG writes a PNG snapshot of the board.
func (p *ControlPanel) ExportPNG(ctx context.Context, path string) error {
	return export.PNG(ctx, p.store.Assets(), path, p.exportOptions())
}

// ExportSVG writes an SVG snapshot that links image sources instead of embedding them.
func (p *ControlPanel) ExportSVG(_ context.Context, path string) error {
	return export.SVG(p.store.Assets(), path, p.exportOptions())
}

// ExportPDF writes a PDF snapshot of the board.
func (p *ControlPanel) ExportPDF(ctx context.Context, path string) error {
	return export.PDF(ctx, p.store.Assets(), path, p.exportOptions())
}
