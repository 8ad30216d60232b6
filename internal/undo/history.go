/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package undo keeps a strictly linear snapshot history with a cursor.
//
// The value passed to New is the base state that exists before the first
// commit. Undoing the first commit returns to it, so n undos after n commits
// restore the starting state. Snapshots are stored as given: callers hand in
// values they will not mutate afterwards.
package undo

import "sync"

// Config controls depth caps.
type Config struct {
	// MaxDepth limits how many snapshots are kept (0 means unlimited).
	// When exceeded the oldest snapshot is folded into the base state.
	MaxDepth int
}

// History is an undo/redo log of full state snapshots.
// It is safe for concurrent use.
type History[T any] struct {
	cfg       Config
	mu        sync.Mutex
	base      T
	snapshots []T
	// cursor indexes snapshots; -1 means the base state is current.
	cursor int
}

func New[T any](base T, cfg Config) *History[T] {
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	return &History[T]{cfg: cfg, base: base, cursor: -1}
}

// Commit discards any redo branch beyond the cursor, appends s and moves the
// cursor onto it. The backing array is reused; discarded entries are zeroed
// so they can be collected.
func (h *History[T]) Commit(s T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.snapshots[h.cursor+1:])
	h.snapshots = append(h.snapshots[:h.cursor+1], s)
	h.cursor = len(h.snapshots) - 1
	h.enforceCapsLocked()
}

// Undo steps the cursor back and returns the state now current.
// It reports false and leaves the history untouched when nothing can be undone.
func (h *History[T]) Undo() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor < 0 {
		var zero T
		return zero, false
	}
	h.cursor--
	return h.currentLocked(), true
}

// Redo steps the cursor forward and returns the state now current.
func (h *History[T]) Redo() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor >= len(h.snapshots)-1 {
		var zero T
		return zero, false
	}
	h.cursor++
	return h.currentLocked(), true
}

// Current returns the state under the cursor (the base state if the cursor is -1).
func (h *History[T]) Current() T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentLocked()
}

func (h *History[T]) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor >= 0
}

func (h *History[T]) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.snapshots)-1
}

// Stats returns the number of stored snapshots and the cursor for diagnostics.
func (h *History[T]) Stats() (snapshots int, cursor int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.snapshots), h.cursor
}

func (h *History[T]) currentLocked() T {
	if h.cursor < 0 {
		return h.base
	}
	return h.snapshots[h.cursor]
}

func (h *History[T]) enforceCapsLocked() {
	if h.cfg.MaxDepth <= 0 || len(h.snapshots) <= h.cfg.MaxDepth {
		return
	}
	drop := len(h.snapshots) - h.cfg.MaxDepth
	h.base = h.snapshots[drop-1]
	clear(h.snapshots[:drop])
	h.snapshots = h.snapshots[drop:]
	h.cursor -= drop
	if h.cursor < -1 {
		h.cursor = -1
	}
}
