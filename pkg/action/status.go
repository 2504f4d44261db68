/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package action

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultStatusTTL is how long a status message stays visible.
const DefaultStatusTTL = 6 * time.Second

// StatusBoard holds the single transient status line. Every Post replaces the
// message and restarts the expiry; only the timer of the latest post clears it.
type StatusBoard struct {
	clock    clock.Clock
	ttl      time.Duration
	onChange func(string)

	mu      sync.Mutex
	message string
	timer   *clock.Timer
	seq     uint64
	stopped bool
}

// NewStatusBoard creates a board. A nil clock uses the wall clock; a
// non-positive ttl uses DefaultStatusTTL. onChange may be nil.
func NewStatusBoard(clk clock.Clock, ttl time.Duration, onChange func(string)) *StatusBoard {
	if clk == nil {
		clk = clock.New()
	}

	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}

	return &StatusBoard{clock: clk, ttl: ttl, onChange: onChange}
}

// Post shows msg until the TTL elapses or another message replaces it.
func (b *StatusBoard) Post(msg string) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}

	if b.timer != nil {
		b.timer.Stop()
	}

	b.seq++
	seq := b.seq
	b.message = msg
	b.timer = b.clock.AfterFunc(b.ttl, func() { b.expire(seq) })
	b.mu.Unlock()

	b.notify(msg)
}

func (b *StatusBoard) expire(seq uint64) {
	b.mu.Lock()
	if b.stopped || seq != b.seq {
		b.mu.Unlock()
		return
	}

	b.message = ""
	b.timer = nil
	b.mu.Unlock()

	b.notify("")
}

// Current returns the visible message, or "" when none is shown.
func (b *StatusBoard) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.message
}

// Stop cancels the pending expiry. Later posts are ignored.
func (b *StatusBoard) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *StatusBoard) notify(msg string) {
	if b.onChange != nil {
		b.onChange(msg)
	}
}
