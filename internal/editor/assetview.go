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
	"assetcanvas/internal/board"
	"assetcanvas/internal/domain"
)

// MinWidth is the smallest width a resize drag can produce.
const MinWidth = 1.0

// AssetView is the controller behind one asset widget. It only emits intents;
// the rendered state is always read back from the store.
type AssetView struct {
	id      int64
	store   *board.Store
	surface *Surface
}

func NewAssetView(surface *Surface, id int64) *AssetView {
	return &AssetView{id: id, store: surface.Store(), surface: surface}
}

func (v *AssetView) ID() int64 { return v.id }

// Asset returns the current record; ok is false once the asset is deleted.
func (v *AssetView) Asset() (domain.Asset, bool) { return v.store.Asset(v.id) }

// PointerDown starts dragging this asset.
func (v *AssetView) PointerDown() bool { return v.surface.PointerDown(v.id) }

// ResizeBy grows the width by dx (negative shrinks) and derives the height
// from the aspect ratio. Width never drops below MinWidth.
func (v *AssetView) ResizeBy(dx float64) bool {
	a, ok := v.store.Asset(v.id)
	if !ok {
		return false
	}
	w := max(a.Size.Width+dx, MinWidth)
	return v.store.ResizeAsset(v.id, w, domain.HeightFor(w, a.AspectRatio))
}

func (v *AssetView) Delete() bool { return v.store.DeleteAsset(v.id) }

// TogglePlay plays or pauses a video asset.
func (v *AssetView) TogglePlay() bool { return v.store.TogglePlayback(v.id) }

// ShowsPlayControl reports whether the play/pause button is rendered.
func (v *AssetView) ShowsPlayControl() bool {
	a, ok := v.store.Asset(v.id)
	return ok && a.IsVideo()
}

// PlayLabel is "Pause" while playing and "Play" otherwise.
func (v *AssetView) PlayLabel() string {
	if a, ok := v.store.Asset(v.id); ok && a.Playing {
		return "Pause"
	}
	return "Play"
}

// Selected reports whether this asset is being dragged.
func (v *AssetView) Selected() bool { return v.store.IsSelected(v.id) }

// AttachMedia publishes the view-owned playback handle. Call the returned
// func when the view is destroyed.
func (v *AssetView) AttachMedia(h board.MediaHandle) (release func()) {
	return v.store.Media().Register(v.id, h)
}
