/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package board holds the authoritative in-memory list of canvas assets and the
// drag selection. Views never touch the list directly; they call Store methods and
// re-render from Subscribe notifications.
package board

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"assetcanvas/internal/domain"
	applog "assetcanvas/internal/log"
	"assetcanvas/internal/telemetry"
)

// ChangeKind names the mutation that triggered a notification.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota + 1
	ChangeDeleted
	ChangeMoved
	ChangeResized
	ChangePlayback
	ChangeSelection
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeDeleted:
		return "deleted"
	case ChangeMoved:
		return "moved"
	case ChangeResized:
		return "resized"
	case ChangePlayback:
		return "playback"
	case ChangeSelection:
		return "selection"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers after a mutation has been applied.
type Change struct {
	Kind ChangeKind
	ID   int64
}

// ListChanged reports whether the change touched the asset list (as opposed to selection only).
func (c Change) ListChanged() bool { return c.Kind != ChangeSelection }

// Store is safe for concurrent use; listeners run on the caller's goroutine after the lock is released.
type Store struct {
	mu       sync.RWMutex
	assets   []domain.Asset
	selected int64
	hasSel   bool
	lastID   int64
	now      func() time.Time

	media *MediaRegistry
	log   *slog.Logger

	lmu       sync.Mutex
	listeners map[int]func(Change)
	nextL     int
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces the clock used to mint asset IDs.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithMediaRegistry shares a registry between the store and the views.
func WithMediaRegistry(r *MediaRegistry) Option { return func(s *Store) { s.media = r } }

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:       time.Now,
		listeners: map[int]func(Change){},
		log:       applog.WithComponent("board"),
	}
	for _, o := range opts {
		o(s)
	}
	if s.media == nil {
		s.media = NewMediaRegistry()
	}
	return s
}

// Media returns the registry views use to publish their playback handles.
func (s *Store) Media() *MediaRegistry { return s.media }

// Subscribe registers fn for change notifications and returns a cancel func.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.lmu.Lock()
	id := s.nextL
	s.nextL++
	s.listeners[id] = fn
	s.lmu.Unlock()
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *Store) notify(c Change) {
	s.lmu.Lock()
	fns := make([]func(Change), 0, len(s.listeners))
	// registration order keeps re-render order stable
	for i := 0; i < s.nextL; i++ {
		if fn, ok := s.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.lmu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// nextIDLocked mints an ID from the nanosecond clock, bumping past the last one
// when the clock has not advanced.
func (s *Store) nextIDLocked() int64 {
	id := s.now().UnixNano()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) indexLocked(id int64) int {
	for i := range s.assets {
		if s.assets[i].ID == id {
			return i
		}
	}
	return -1
}

// AddAsset appends a new asset for url at the default placement.
// Empty or whitespace-only URLs are ignored and reported with ok=false.
func (s *Store) AddAsset(url string) (domain.Asset, bool) {
	if strings.TrimSpace(url) == "" {
		return domain.Asset{}, false
	}
	aspect := domain.DefaultAspectRatio
	s.mu.Lock()
	a := domain.Asset{
		ID:          s.nextIDLocked(),
		Kind:        domain.KindForURL(url),
		SourceURL:   url,
		Position:    domain.Point{X: domain.DefaultX, Y: domain.DefaultY},
		Size:        domain.Size{Width: domain.DefaultWidth, Height: domain.HeightFor(domain.DefaultBaseHeight, aspect)},
		AspectRatio: aspect,
	}
	s.assets = append(s.assets, a)
	s.mu.Unlock()

	s.log.Debug("asset added", slog.Int64("id", a.ID), slog.String("kind", string(a.Kind)))
	telemetry.Event("asset_added", map[string]any{"kind": string(a.Kind)})
	s.notify(Change{Kind: ChangeAdded, ID: a.ID})
	return a, true
}

// DeleteAsset removes the asset and releases its media handle.
// The selection is cleared only when it pointed at the removed asset.
func (s *Store) DeleteAsset(id int64) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	kind := s.assets[i].Kind
	s.assets = append(s.assets[:i:i], s.assets[i+1:]...)
	wasSelected := s.hasSel && s.selected == id
	if wasSelected {
		s.hasSel = false
		s.selected = 0
	}
	s.mu.Unlock()

	s.media.Release(id)
	s.log.Debug("asset deleted", slog.Int64("id", id), slog.Bool("was_selected", wasSelected))
	telemetry.Event("asset_deleted", map[string]any{"kind": string(kind)})
	s.notify(Change{Kind: ChangeDeleted, ID: id})
	return true
}

// TogglePlayback flips the playing state of a video asset, issuing play or pause
// to the handle its view registered. The flag flips even if no handle is
// registered or the command fails. Image assets are left untouched.
func (s *Store) TogglePlayback(id int64) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 || !s.assets[i].IsVideo() {
		s.mu.Unlock()
		return false
	}
	wasPlaying := s.assets[i].Playing
	s.assets[i].Playing = !wasPlaying
	s.mu.Unlock()

	if h, ok := s.media.Lookup(id); ok {
		var err error
		if wasPlaying {
			err = h.Pause()
		} else {
			err = h.Play()
		}
		if err != nil {
			s.log.Debug("playback command failed", slog.Int64("id", id), slog.Any("err", err))
		}
	}
	telemetry.Event("playback_toggled", map[string]any{"playing": !wasPlaying})
	s.notify(Change{Kind: ChangePlayback, ID: id})
	return true
}

// MoveAsset overwrites the position; coordinates are not clamped to the canvas.
func (s *Store) MoveAsset(id int64, x, y float64) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.assets[i].Position = domain.Point{X: x, Y: y}
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeMoved, ID: id})
	return true
}

// ResizeAsset stores the given size as-is. Callers derive height from width via
// domain.HeightFor. Non-positive dimensions are rejected.
func (s *Store) ResizeAsset(id int64, width, height float64) bool {
	if !(width > 0) || !(height > 0) {
		return false
	}
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.assets[i].Size = domain.Size{Width: width, Height: height}
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeResized, ID: id})
	return true
}

// SelectAsset marks id as the drag target. Unknown IDs leave the selection unchanged.
func (s *Store) SelectAsset(id int64) bool {
	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return false
	}
	s.selected, s.hasSel = id, true
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeSelection, ID: id})
	return true
}

// ClearSelection drops the drag target, if any.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	if !s.hasSel {
		s.mu.Unlock()
		return
	}
	id := s.selected
	s.selected, s.hasSel = 0, false
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeSelection, ID: id})
}

// Selected returns the current drag target.
func (s *Store) Selected() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.hasSel
}

// IsSelected reports whether id is the current drag target.
func (s *Store) IsSelected(id int64) bool {
	sel, ok := s.Selected()
	return ok && sel == id
}

// Assets returns a copy of the assets in render order (later entries draw on top).
func (s *Store) Assets() []domain.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Asset(nil), s.assets...)
}

// Asset returns a copy of one asset.
func (s *Store) Asset(id int64) (domain.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.assets[i], true
	}
	return domain.Asset{}, false
}

// Len returns the number of assets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}

// Summary renders one diagnostic line per asset in list order, newline-joined.
// It is derived from the current list on every call and is empty when there are no assets.
func (s *Store) Summary() string {
	return strings.Join(SummaryLines(s.Assets()), "\n")
}

// SummaryLines formats the diagnostic line of every asset.
func SummaryLines(assets []domain.Asset) []string {
	lines := make([]string, 0, len(assets))
	for _, a := range assets {
		lines = append(lines, FormatLine(a))
	}
	return lines
}

// FormatLine renders "Asset ID: <id>, X: <x>px, Y: <y>px, Width: <w>px, Height: <h>px".
func FormatLine(a domain.Asset) string {
	var b strings.Builder
	b.Grow(96)
	b.WriteString("Asset ID: ")
	b.WriteString(strconv.FormatInt(a.ID, 10))
	b.WriteString(", X: ")
	b.WriteString(formatPx(a.Position.X))
	b.WriteString(", Y: ")
	b.WriteString(formatPx(a.Position.Y))
	b.WriteString(", Width: ")
	b.WriteString(formatPx(a.Size.Width))
	b.WriteString(", Height: ")
	b.WriteString(formatPx(a.Size.Height))
	return b.String()
}

func formatPx(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) + "px" }
