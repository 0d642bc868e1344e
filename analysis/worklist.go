// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"context"
	"sync"

	"scry.dev/scry/syntax"
)

// Unit is the unit of scheduling: one scope whose node needs
// (re-)evaluation. Units carry no identity beyond the (scope, node)
// pair; re-enqueueing is expressed by constructing a new Unit with
// the same pair, which the queue deduplicates.
type Unit struct {
	Scope *Scope
	Node  syntax.Node
}

type unitKey struct {
	scope *Scope
	node  syntax.Node
}

func (u *Unit) key() unitKey { return unitKey{u.Scope, u.Node} }

// worklist is a double-ended queue of units, deduplicated at the
// queue boundary: pushing a unit already in the queue is a no-op.
// The internal mutex makes enqueueing safe from mutation-surface
// callers while Analyze drains on another goroutine.
type worklist struct {
	mu     sync.Mutex
	dq     []*Unit
	queued map[unitKey]struct{}
}

func (w *worklist) push(u *Unit, front bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.queued == nil {
		w.queued = make(map[unitKey]struct{})
	}
	k := u.key()
	if _, ok := w.queued[k]; ok {
		return false
	}
	w.queued[k] = struct{}{}
	if front {
		w.dq = append([]*Unit{u}, w.dq...)
	} else {
		w.dq = append(w.dq, u)
	}
	return true
}

// pushFront enqueues newly discovered urgent work.
func (w *worklist) pushFront(u *Unit) bool { return w.push(u, true) }

// pushBack enqueues routine propagation.
func (w *worklist) pushBack(u *Unit) bool { return w.push(u, false) }

func (w *worklist) pop() *Unit {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.dq) == 0 {
		return nil
	}
	u := w.dq[0]
	w.dq = w.dq[1:]
	delete(w.queued, u.key())
	return u
}

func (w *worklist) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dq)
}

func (w *worklist) clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dq = nil
	w.queued = make(map[unitKey]struct{})
}

// Enqueue schedules a unit for evaluation at the back of the queue.
func (s *Session) Enqueue(u *Unit) { s.queue.pushBack(u) }

// QueueLen reports the current queue depth.
func (s *Session) QueueLen() int { return s.queue.len() }

// SetProgress registers a progress callback invoked with the queue
// depth after every `every` processed units.
func (s *Session) SetProgress(fn func(depth int), every int) {
	s.progress = fn
	s.progressEvery = every
}

// Analyze drives the worklist to a fixed point: it pops units,
// evaluates them, and stops when the queue is empty. Cancellation is
// cooperative and checked only at unit boundaries; on cancellation
// the remaining queue is discarded and already-computed VariableDefs
// remain valid (each holds a legal, possibly incomplete, union).
//
// Analyze is not re-entrant: one goroutine at a time.
func (s *Session) Analyze(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			s.queue.clear()
			return ctx.Err()
		default:
		}
		u := s.queue.pop()
		if u == nil {
			return nil
		}
		s.evalUnit(u)
		s.processed++
		if s.progress != nil && s.progressEvery > 0 && s.processed%s.progressEvery == 0 {
			s.progress(s.queue.len())
		}
	}
}
