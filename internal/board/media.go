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

import "sync"

// MediaHandle controls the playback element of a video asset. Handles are owned
// by the view that renders the asset; the registry only routes commands by ID.
type MediaHandle interface {
	Play() error
	Pause() error
}

// MediaRegistry maps asset IDs to the handle of whichever view currently shows them.
type MediaRegistry struct {
	mu      sync.RWMutex
	handles map[int64]MediaHandle
}

// NewMediaRegistry returns an empty registry.
func NewMediaRegistry() *MediaRegistry {
	return &MediaRegistry{handles: map[int64]MediaHandle{}}
}

// Register publishes h for id, replacing an earlier handle. The returned release
// func removes h only if it is still the registered handle.
func (r *MediaRegistry) Register(id int64, h MediaHandle) (release func()) {
	r.mu.Lock()
	r.handles[id] = h
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.handles[id]; ok && cur == h {
			delete(r.handles, id)
		}
	}
}

// Lookup returns the handle registered for id.
func (r *MediaRegistry) Lookup(id int64) (MediaHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[id]
	return h, ok
}

// Release drops any handle registered for id.
func (r *MediaRegistry) Release(id int64) {
	r.mu.Lock()
	delete(r.handles, id)
	r.mu.Unlock()
}

// Len returns the number of registered handles.
func (r *MediaRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}
