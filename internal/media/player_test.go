/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package media

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetcanvas/internal/board"
)

var _ board.MediaHandle = (*Player)(nil)

func TestPlayerStartsPausedAndTracksElapsed(t *testing.T) {
	base := time.Unix(1000, 0)
	now := base
	p := NewPlayer("https://cdn.test/clip.mp4")
	p.now = func() time.Time { return now }

	assert.False(t, p.Playing())
	var states []bool
	p.OnChange(func(playing bool) { states = append(states, playing) })

	require.NoError(t, p.Play())
	require.NoError(t, p.Play())
	now = base.Add(2 * time.Second)
	assert.Equal(t, 2*time.Second, p.Elapsed())

	require.NoError(t, p.Pause())
	now = base.Add(5 * time.Second)
	assert.Equal(t, 2*time.Second, p.Elapsed())
	assert.Equal(t, []bool{true, false}, states)
}

func TestPlayerWithoutSource(t *testing.T) {
	p := NewPlayer("")
	assert.ErrorIs(t, p.Play(), ErrNoSource)
	assert.False(t, p.Playing())
}

func TestPlayerDrivenByStore(t *testing.T) {
	s := board.NewStore()
	a, ok := s.AddAsset("clip.mp4")
	require.True(t, ok)
	p := NewPlayer(a.SourceURL)
	release := s.Media().Register(a.ID, p)
	defer release()

	require.True(t, s.TogglePlayback(a.ID))
	assert.True(t, p.Playing())
	require.True(t, s.TogglePlayback(a.ID))
	assert.False(t, p.Playing())
}
