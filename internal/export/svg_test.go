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
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetcanvas/internal/domain"
)

func TestRenderSVG(t *testing.T) {
	assets := sampleAssets()
	assets[0].SourceURL = "https://cdn.test/a.png?w=1&h=2"
	b, err := RenderSVG(assets, Options{Labels: true, SelectedID: 3})
	require.NoError(t, err)
	s := string(b)

	assert.Contains(t, s, `viewBox="0 0 90 80"`)
	assert.Contains(t, s, `href="https://cdn.test/a.png?w=1&amp;h=2"`)
	assert.Equal(t, 1, strings.Count(s, "<polygon"), "one video glyph")
	assert.Equal(t, 2, strings.Count(s, "<image"))
	assert.Contains(t, s, `stroke="#1e88e5" stroke-width="2"`)
	assert.Contains(t, s, ">#2</text>")

	// well-formed XML
	dec := xml.NewDecoder(strings.NewReader(s))
	for {
		if _, err := dec.Token(); err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestSVGWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "b.svg")
	require.NoError(t, SVG(sampleAssets(), out, Options{}))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "<?xml"))

	assert.ErrorIs(t, SVG([]domain.Asset{}, out, Options{}), ErrNothingToExport)
}
