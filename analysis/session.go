// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analysis is the scry inference engine.
//
// A Session owns every table of one whole-program analysis: the
// module registry, the memoized value cache, the specialization
// registry, and the worklist. Sessions are independent; a process may
// run several. The mutation surface (AddModule, RemoveModule,
// Specialize, directory changes) is safe for concurrent callers; the
// fixed point itself (Analyze) runs units one at a time on whichever
// goroutine calls it.
package analysis

import (
	"fmt"
	"sync"

	"scry.dev/scry/interp"
	"scry.dev/scry/ns"
	"scry.dev/scry/syntax"
)

// Options configures a Session.
type Options struct {
	Limits ns.Limits

	// Relaxed degrades an unclassifiable host object to an unknown
	// instance instead of panicking. Production callers set it;
	// tests want the panic, which carries a dump of the object.
	Relaxed bool
}

// Session is the analysis context. See the package comment for the
// concurrency rules.
type Session struct {
	interp  interp.Interpreter
	limits  ns.Limits
	relaxed bool

	mu      sync.Mutex // guards modules, entries
	modules map[string]*ModuleRef
	entries map[*Entry]struct{}

	pathMu sync.Mutex
	paths  map[string]*Entry

	specMu  sync.Mutex
	pending map[string][]*Special
	speclog []*Special

	// watchMu guards moduleWatch: units that read a module name
	// before anything was bound under it, re-enqueued when the cell
	// fills.
	watchMu     sync.Mutex
	moduleWatch map[string]map[unitKey]struct{}

	cache *memo

	// Single-threaded analysis state. Touched only by Analyze and by
	// the evaluation it drives.
	queue     worklist
	processed int
	attrDefs  map[*ns.Class]map[string]*VariableDef
	nodeVals  map[syntax.Node]ns.Namespace
	fnScopes  map[*ns.Func]*Scope

	progress      func(depth int)
	progressEvery int

	dirMu        sync.Mutex
	dirs         []string
	dirListeners []func(DirEvent)

	builtin struct {
		object *ns.Class
		list   *ns.Class
		tuple  *ns.Class
		prim   [interp.NumBuiltins]*ns.Class
	}
	unknown *ns.Class

	Errs []error
}

// NewSession builds a session over a host interpreter. The module
// name index starts with an empty reference per host module name;
// references fill in lazily as imports resolve.
func NewSession(ip interp.Interpreter, opts *Options) *Session {
	if opts == nil {
		opts = &Options{}
	}
	s := &Session{
		interp:      ip,
		limits:      opts.Limits,
		relaxed:     opts.Relaxed,
		modules:     make(map[string]*ModuleRef),
		entries:     make(map[*Entry]struct{}),
		paths:       make(map[string]*Entry),
		pending:     make(map[string][]*Special),
		moduleWatch: make(map[string]map[unitKey]struct{}),
		cache:       newMemo(),
		attrDefs:    make(map[*ns.Class]map[string]*VariableDef),
		nodeVals:    make(map[syntax.Node]ns.Namespace),
		fnScopes:    make(map[*ns.Func]*Scope),
		unknown:     ns.NewClass("<unknown>", nil),
	}
	for _, name := range ip.ModuleNames() {
		s.modules[name] = &ModuleRef{}
	}
	s.loadBuiltinTypes()
	return s
}

// Interpreter returns the host interpreter the session analyzes
// against.
func (s *Session) Interpreter() interp.Interpreter { return s.interp }

// Limits returns the session's analysis limits policy.
func (s *Session) Limits() ns.Limits { return s.limits }

func (s *Session) errorf(format string, args ...interface{}) {
	s.Errs = append(s.Errs, fmt.Errorf(format, args...))
}

// Reload reinitializes the session from the host type system: the
// name index is rebuilt from the current module name enumeration,
// builtin types are reloaded, and every project module's accumulated
// inference is cleared. ProjectEntry identities are preserved and
// their trees re-enqueued. The specialization log is replayed.
func (s *Session) Reload() {
	s.cache.reset()
	s.loadBuiltinTypes()

	s.mu.Lock()
	s.modules = make(map[string]*ModuleRef)
	for _, name := range s.interp.ModuleNames() {
		s.modules[name] = &ModuleRef{}
	}
	s.attrDefs = make(map[*ns.Class]map[string]*VariableDef)
	s.nodeVals = make(map[syntax.Node]ns.Namespace)
	s.fnScopes = make(map[*ns.Func]*Scope)
	s.watchMu.Lock()
	s.moduleWatch = make(map[string]map[unitKey]struct{})
	s.watchMu.Unlock()
	var reanalyze []*Entry
	for e := range s.entries {
		e.Scope.clear()
		if e.Name != "" {
			ref := &ModuleRef{entry: e}
			ref.fill(&ns.Module{Nm: e.Name, Attrs: &scopeAttrs{s: s, scope: e.Scope}})
			s.modules[e.Name] = ref
		}
		if e.Tree != nil {
			reanalyze = append(reanalyze, e)
		}
	}
	s.mu.Unlock()

	for _, e := range reanalyze {
		s.queue.pushBack(&Unit{Scope: e.Scope, Node: e.Tree})
	}
	s.replayLog()
}

// DirEvent reports a change to the set of analysis root directories.
type DirEvent struct {
	Path  string
	Added bool
}

// AddAnalysisDirectory adds an analysis root directory. Listeners are
// notified synchronously; they must not mutate the directory set.
func (s *Session) AddAnalysisDirectory(dir string) {
	if dir == "" {
		return
	}
	s.dirMu.Lock()
	for _, d := range s.dirs {
		if d == dir {
			s.dirMu.Unlock()
			return
		}
	}
	s.dirs = append(s.dirs, dir)
	fns := append([]func(DirEvent){}, s.dirListeners...)
	s.dirMu.Unlock()
	for _, fn := range fns {
		fn(DirEvent{Path: dir, Added: true})
	}
}

// RemoveAnalysisDirectory removes an analysis root directory, firing
// listeners if it was present.
func (s *Session) RemoveAnalysisDirectory(dir string) {
	s.dirMu.Lock()
	found := false
	for i, d := range s.dirs {
		if d == dir {
			s.dirs = append(s.dirs[:i], s.dirs[i+1:]...)
			found = true
			break
		}
	}
	fns := append([]func(DirEvent){}, s.dirListeners...)
	s.dirMu.Unlock()
	if !found {
		return
	}
	for _, fn := range fns {
		fn(DirEvent{Path: dir, Added: false})
	}
}

// AnalysisDirectories returns the current analysis roots.
func (s *Session) AnalysisDirectories() []string {
	s.dirMu.Lock()
	defer s.dirMu.Unlock()
	return append([]string(nil), s.dirs...)
}

// OnDirectoryChange registers a directory-change listener.
func (s *Session) OnDirectoryChange(fn func(DirEvent)) {
	s.dirMu.Lock()
	s.dirListeners = append(s.dirListeners, fn)
	s.dirMu.Unlock()
}
