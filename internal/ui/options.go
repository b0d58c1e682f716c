/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui hosts the Fyne desktop front end. The real UI is built with
// -tags fyne (and cgo); other builds get a stub Run that explains how to
// enable it.
package ui

import (
	"errors"
	"fmt"

	"assetcanvas/internal/board"
	"assetcanvas/internal/config"
	"assetcanvas/internal/export"
)

// Options wires the UI to an already constructed board and media stack.
type Options struct {
	Config config.AppConfig
	Store  *board.Store
	// Images resolves image assets; nil renders every image as broken media.
	Images export.ImageSource
}

// ErrUnavailable is returned by Run when the binary carries no desktop front end.
var ErrUnavailable = errors.New("desktop UI unavailable")

func unavailable(reason, hint string) error {
	return fmt.Errorf("%w: %s; %s", ErrUnavailable, reason, hint)
}
