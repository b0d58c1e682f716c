/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBoard struct{ lines []string }

func (f fakeBoard) Summary() string { return strings.Join(f.lines, "\n") }
func (f fakeBoard) Len() int        { return len(f.lines) }

func TestWriteReportCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := writeReport(dir, nil, "boom", []byte("stacktrace"))
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, "Asset Canvas Crash Report")
	assert.Contains(t, s, "Panic: boom")
	assert.NotContains(t, s, "Assets:")
}

func TestWriteReportIncludesBoardSummary(t *testing.T) {
	dir := t.TempDir()
	board := fakeBoard{lines: []string{
		"Asset ID: 1, X: 50px, Y: 50px, Width: 500px, Height: 200px",
		"Asset ID: 2, X: 10px, Y: 20px, Width: 300px, Height: 300px",
	}}
	path, err := writeReport(dir, board, "kaboom", []byte("stack"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Assets: 2")
	assert.Contains(t, string(b), board.lines[1])
}

func TestAnonymizeDropsAssetLines(t *testing.T) {
	in := []byte("Panic: x\nAsset ID: 1, X: 0px, Y: 0px, Width: 1px, Height: 1px\nStack:\n")
	out := string(anonymize(in))
	assert.NotContains(t, out, "Asset ID")
	assert.Contains(t, out, "Panic: x")
	assert.Contains(t, out, "Stack:")
}
