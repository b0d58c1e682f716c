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
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestExportPDF_CreatesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "exports", "board.pdf")
	err := PDF(context.Background(), sampleAssets(), out, Options{
		Margin:     10,
		Labels:     true,
		SelectedID: 1,
		Images:     stubImages{"red.png": solid(8, 8, color.RGBA{R: 255, A: 255})},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("not a pdf: %q", b[:min(len(b), 16)])
	}
	if !bytes.Contains(b, []byte("/Subtype /Image")) {
		t.Fatalf("expected embedded image")
	}
}

func TestExportPDF_EmptyBoard(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	if err := PDF(context.Background(), nil, out, Options{}); err == nil {
		t.Fatalf("expected error for empty board")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("no file should be written")
	}
}
