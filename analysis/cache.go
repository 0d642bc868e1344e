// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"sync"

	"scry.dev/scry/ns"
)

// memo is the memoized value cache: host objects (or derived keys) to
// their one namespace representation.
//
// Host type graphs can be mutually recursive, so get stores a nil
// placeholder under the key before invoking build. A re-entrant get
// for the same key during build observes the placeholder and returns
// it instead of recursing; callers tolerate a transient nil for
// self-referential graphs. The placeholder stands in for a per-key
// lock: re-entry is cheap and safe rather than blocking.
type memo struct {
	mu      sync.Mutex
	entries map[interface{}]ns.Namespace
}

func newMemo() *memo {
	return &memo{entries: make(map[interface{}]ns.Namespace)}
}

// get returns the cached namespace for key, building it on first use.
// The result is nil only while a build for key is in progress.
func (m *memo) get(key interface{}, build func() ns.Namespace) ns.Namespace {
	m.mu.Lock()
	if v, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return v
	}
	m.entries[key] = nil
	m.mu.Unlock()

	v := build()

	m.mu.Lock()
	m.entries[key] = v
	m.mu.Unlock()
	return v
}

// lookup reports the cached value without building.
func (m *memo) lookup(key interface{}) (ns.Namespace, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

// put stores v under key. Used for two-phase construction: a shell
// value is published before its members are filled, so cyclic
// references resolve to the shell.
func (m *memo) put(key interface{}, v ns.Namespace) {
	m.mu.Lock()
	m.entries[key] = v
	m.mu.Unlock()
}

func (m *memo) reset() {
	m.mu.Lock()
	m.entries = make(map[interface{}]ns.Namespace)
	m.mu.Unlock()
}
