/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor translates pointer and button input into board mutations.
// It holds no state of its own beyond the pending URL of the control panel,
// so the Fyne widgets stay thin and everything here is testable headless.
package editor

import (
	"assetcanvas/internal/board"
	"assetcanvas/internal/domain"
)

// Surface is the canvas area that owns drag handling for the selected asset.
type Surface struct {
	store *board.Store
}

func NewSurface(store *board.Store) *Surface { return &Surface{store: store} }

// Store returns the board the surface mutates.
func (s *Surface) Store() *board.Store { return s.store }

// PointerDown selects the asset the pointer went down on.
func (s *Surface) PointerDown(id int64) bool { return s.store.SelectAsset(id) }

// PointerMove drags the selected asset so its top-left corner follows the
// pointer. pointer and origin are in the same (window) space; the asset is
// positioned at pointer - origin. Nothing happens without a selection.
func (s *Surface) PointerMove(pointer, origin domain.Point) bool {
	id, ok := s.store.Selected()
	if !ok {
		return false
	}
	return s.store.MoveAsset(id, pointer.X-origin.X, pointer.Y-origin.Y)
}

// PointerUp ends any drag.
func (s *Surface) PointerUp() { s.store.ClearSelection() }

// HitTest returns the top-most asset containing p (canvas coordinates).
func (s *Surface) HitTest(p domain.Point) (domain.Asset, bool) {
	assets := s.store.Assets()
	for i := len(assets) - 1; i >= 0; i-- {
		if assets[i].Bounds().Contains(p) {
			return assets[i], true
		}
	}
	return domain.Asset{}, false
}

// PressAt hit-tests p and selects the asset found there.
func (s *Surface) PressAt(p domain.Point) (int64, bool) {
	a, ok := s.HitTest(p)
	if !ok {
		return 0, false
	}
	return a.ID, s.PointerDown(a.ID)
}
