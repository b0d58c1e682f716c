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
	"errors"
	"sync"
	"time"
)

// ErrNoSource is returned by Play when the player has nothing to play.
var ErrNoSource = errors.New("player has no source")

// Player is the view-owned playback element of a video asset. It starts
// paused and has no controls of its own; the board drives it through Play and Pause.
type Player struct {
	mu       sync.Mutex
	src      string
	playing  bool
	started  time.Time
	elapsed  time.Duration
	now      func() time.Time
	onChange func(playing bool)
}

// NewPlayer returns a paused player for src.
func NewPlayer(src string) *Player {
	return &Player{src: src, now: time.Now}
}

// Source returns the URL the player was created for.
func (p *Player) Source() string { return p.src }

// OnChange registers fn to be called after every state transition.
func (p *Player) OnChange(fn func(playing bool)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Play starts or resumes playback. Playing an already playing player is a no-op.
func (p *Player) Play() error {
	p.mu.Lock()
	if p.src == "" {
		p.mu.Unlock()
		return ErrNoSource
	}
	if p.playing {
		p.mu.Unlock()
		return nil
	}
	p.playing = true
	p.started = p.now()
	fn := p.onChange
	p.mu.Unlock()
	if fn != nil {
		fn(true)
	}
	return nil
}

// Pause stops playback, keeping the elapsed position.
func (p *Player) Pause() error {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return nil
	}
	p.playing = false
	p.elapsed += p.now().Sub(p.started)
	fn := p.onChange
	p.mu.Unlock()
	if fn != nil {
		fn(false)
	}
	return nil
}

// Playing reports the current state.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Elapsed returns the total time spent playing.
func (p *Player) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return p.elapsed + p.now().Sub(p.started)
	}
	return p.elapsed
}
