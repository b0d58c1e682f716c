/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package board

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetcanvas/internal/domain"
)

type fakeHandle struct {
	plays, pauses int
	err           error
}

func (f *fakeHandle) Play() error  { f.plays++; return f.err }
func (f *fakeHandle) Pause() error { f.pauses++; return f.err }

func fixedClock() func() time.Time {
	t0 := time.Unix(1700000000, 0)
	return func() time.Time { return t0 }
}

func TestAddAssetCountsOnlyNonEmptyURLs(t *testing.T) {
	s := NewStore()
	urls := []string{"a.png", "", "b.mp4", "   ", "a.png", "\t\n", "c.jpg"}
	want := 0
	for _, u := range urls {
		_, ok := s.AddAsset(u)
		if strings.TrimSpace(u) != "" {
			want++
			assert.True(t, ok, "url %q", u)
		} else {
			assert.False(t, ok, "url %q", u)
		}
		require.Equal(t, want, s.Len())
	}
}

func TestAddAssetClassifiesAndPlaces(t *testing.T) {
	s := NewStore()
	v, ok := s.AddAsset("cat.mp4")
	require.True(t, ok)
	img, ok := s.AddAsset("cat.png")
	require.True(t, ok)

	assert.Equal(t, domain.KindVideo, v.Kind)
	assert.Equal(t, domain.KindImage, img.Kind)
	assert.Equal(t, domain.Point{X: 50, Y: 50}, img.Position)
	assert.Equal(t, 500.0, img.Size.Width)
	assert.Equal(t, 200/img.AspectRatio, img.Size.Height)
	assert.Equal(t, 200.0, img.Size.Height)
	assert.Equal(t, 1.0, img.AspectRatio)
	assert.False(t, v.Playing)
}

func TestAddAssetDuplicateURLsAreIndependent(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	a, _ := s.AddAsset("same.png")
	b, _ := s.AddAsset("same.png")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Greater(t, b.ID, a.ID, "IDs stay increasing even when the clock stalls")
	assert.Equal(t, 2, s.Len())
}

func TestDeleteAssetRemovesExactlyOne(t *testing.T) {
	s := NewStore()
	a, _ := s.AddAsset("a.png")
	b, _ := s.AddAsset("b.png")
	c, _ := s.AddAsset("c.mp4")
	require.True(t, s.MoveAsset(c.ID, 7, 9))
	before, _ := s.Asset(c.ID)

	require.True(t, s.DeleteAsset(b.ID))
	assert.False(t, s.DeleteAsset(b.ID), "second delete is a no-op")

	got := s.Assets()
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, before, got[1])
}

func TestDeleteAssetSelection(t *testing.T) {
	s := NewStore()
	a, _ := s.AddAsset("a.png")
	b, _ := s.AddAsset("b.png")

	require.True(t, s.SelectAsset(a.ID))
	s.DeleteAsset(b.ID)
	sel, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, a.ID, sel)

	s.DeleteAsset(a.ID)
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestDeleteAssetReleasesMediaHandle(t *testing.T) {
	s := NewStore()
	v, _ := s.AddAsset("v.mp4")
	s.Media().Register(v.ID, &fakeHandle{})
	require.Equal(t, 1, s.Media().Len())
	s.DeleteAsset(v.ID)
	assert.Equal(t, 0, s.Media().Len())
}

func TestTogglePlaybackVideo(t *testing.T) {
	s := NewStore()
	v, _ := s.AddAsset("v.mp4")
	h := &fakeHandle{}
	s.Media().Register(v.ID, h)

	require.True(t, s.TogglePlayback(v.ID))
	got, _ := s.Asset(v.ID)
	assert.True(t, got.Playing)
	assert.Equal(t, 1, h.plays)

	require.True(t, s.TogglePlayback(v.ID))
	got, _ = s.Asset(v.ID)
	assert.False(t, got.Playing)
	assert.Equal(t, 1, h.pauses)
}

func TestTogglePlaybackFlipsEvenWhenCommandFails(t *testing.T) {
	s := NewStore()
	v, _ := s.AddAsset("v.mp4")
	s.Media().Register(v.ID, &fakeHandle{err: errors.New("autoplay blocked")})
	require.True(t, s.TogglePlayback(v.ID))
	got, _ := s.Asset(v.ID)
	assert.True(t, got.Playing)

	// no handle at all still flips
	w, _ := s.AddAsset("w.mp4")
	require.True(t, s.TogglePlayback(w.ID))
	got, _ = s.Asset(w.ID)
	assert.True(t, got.Playing)
}

func TestTogglePlaybackIgnoresImagesAndUnknownIDs(t *testing.T) {
	s := NewStore()
	img, _ := s.AddAsset("a.png")
	assert.False(t, s.TogglePlayback(img.ID))
	got, _ := s.Asset(img.ID)
	assert.False(t, got.Playing)
	assert.False(t, s.TogglePlayback(12345))
}

func TestResizeKeepsAspect(t *testing.T) {
	s := NewStore()
	a, _ := s.AddAsset("a.png")
	for _, w := range []float64{1, 0.5, 300, 1234.5} {
		require.True(t, s.ResizeAsset(a.ID, w, domain.HeightFor(w, a.AspectRatio)))
		got, _ := s.Asset(a.ID)
		assert.Equal(t, w/a.AspectRatio, got.Size.Height)
		assert.Equal(t, w, got.Size.Width)
	}
	assert.False(t, s.ResizeAsset(a.ID, 0, 10))
	assert.False(t, s.ResizeAsset(a.ID, 10, -1))
	assert.False(t, s.ResizeAsset(999, 10, 10))
}

func TestMoveAssetDoesNotClamp(t *testing.T) {
	s := NewStore()
	a, _ := s.AddAsset("a.png")
	require.True(t, s.MoveAsset(a.ID, -40, 99999))
	got, _ := s.Asset(a.ID)
	assert.Equal(t, domain.Point{X: -40, Y: 99999}, got.Position)
	assert.False(t, s.MoveAsset(424242, 1, 1))
}

func TestSelectUnknownIDIsNoop(t *testing.T) {
	s := NewStore()
	assert.False(t, s.SelectAsset(1))
	_, ok := s.Selected()
	assert.False(t, ok)
	s.ClearSelection()
}

func TestSummaryFollowsListOrder(t *testing.T) {
	s := NewStore()
	assert.Equal(t, "", s.Summary())

	a, _ := s.AddAsset("a.png")
	b, _ := s.AddAsset("b.mp4")
	s.ResizeAsset(b.ID, 250, domain.HeightFor(250, 1.5))

	lines := strings.Split(s.Summary(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Asset ID: "+itoa(a.ID)+", X: 50px, Y: 50px, Width: 500px, Height: 200px", lines[0])
	assert.Equal(t, "Asset ID: "+itoa(b.ID)+", X: 50px, Y: 50px, Width: 250px, Height: 166.66666666666666px", lines[1])

	s.MoveAsset(a.ID, 1.5, -2)
	assert.Contains(t, s.Summary(), "X: 1.5px, Y: -2px")
}

func TestSubscribeNotifiesAfterMutation(t *testing.T) {
	s := NewStore()
	var got []Change
	var summaries []string
	cancel := s.Subscribe(func(c Change) {
		got = append(got, c)
		summaries = append(summaries, s.Summary())
	})
	a, _ := s.AddAsset("a.png")
	s.SelectAsset(a.ID)
	s.MoveAsset(a.ID, 3, 4)
	s.ClearSelection()
	s.DeleteAsset(a.ID)
	cancel()
	s.AddAsset("b.png")

	kinds := make([]ChangeKind, 0, len(got))
	for _, c := range got {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []ChangeKind{ChangeAdded, ChangeSelection, ChangeMoved, ChangeSelection, ChangeDeleted}, kinds)
	assert.Contains(t, summaries[2], "X: 3px, Y: 4px")
	assert.Equal(t, "", summaries[4])
	assert.False(t, got[1].ListChanged())
	assert.True(t, got[2].ListChanged())
}

func TestEndToEndScenario(t *testing.T) {
	s := NewStore()
	a, _ := s.AddAsset("a.png")
	b, _ := s.AddAsset("b.mp4")
	s.MoveAsset(a.ID, 10, 20)
	s.ResizeAsset(b.ID, 300, domain.HeightFor(300, b.AspectRatio))
	s.DeleteAsset(a.ID)

	got := s.Assets()
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, domain.Point{X: 50, Y: 50}, got[0].Position)
	assert.Equal(t, domain.Size{Width: 300, Height: 300}, got[0].Size)
	assert.Equal(t, "Asset ID: "+itoa(b.ID)+", X: 50px, Y: 50px, Width: 300px, Height: 300px", s.Summary())
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
