// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"scry.dev/scry/ns"
	"scry.dev/scry/syntax/expr"
	"scry.dev/scry/syntax/stmt"
)

// ModuleRef is a cell holding zero or one concrete module value. A
// cell is created empty when a module name is first observed (from
// the host's module name list) and filled when the module is loaded
// or analyzed.
type ModuleRef struct {
	mod      ns.Namespace
	loaded   bool
	entry    *Entry
	specials map[string]*Special
}

// Module returns the module value, if one is bound.
func (r *ModuleRef) Module() (ns.Namespace, bool) {
	if r == nil || r.mod == nil {
		return nil, false
	}
	return r.mod, true
}

// HasModule reports whether a module value is bound. A loaded ref
// without a value is "known empty"; see Loaded.
func (r *ModuleRef) HasModule() bool { return r != nil && r.mod != nil }

// Loaded reports whether the module was ever loaded or analyzed.
// Loaded with HasModule false means analyzed and genuinely empty,
// as opposed to not yet loaded.
func (r *ModuleRef) Loaded() bool { return r != nil && r.loaded }

func (r *ModuleRef) fill(mod ns.Namespace) {
	r.mod = mod
	r.loaded = true
}

// Entry is one project source unit: it owns the module's top-level
// scope and carries the caller's identity cookie.
type Entry struct {
	Name   string
	Path   string
	Cookie interface{}

	// Ctx is the host's opaque module-scoped context.
	Ctx interface{}

	Scope *Scope
	Tree  *stmt.Module

	auxMu sync.Mutex
	aux   []string

	sess *Session
}

// SetTree installs (or replaces) the entry's statement tree. The
// scope's accumulated inference is cleared and the module is
// scheduled for re-analysis at the front of the queue. Only this
// module's unit is enqueued; dependents re-run through reader edges
// as values change, so a single file edit does not force
// whole-program re-analysis.
func (e *Entry) SetTree(tree *stmt.Module) {
	e.Scope.clear()
	// Tree is read by registry queries under the session lock.
	e.sess.mu.Lock()
	e.Tree = tree
	e.sess.mu.Unlock()
	if tree != nil {
		e.sess.queue.pushFront(&Unit{Scope: e.Scope, Node: tree})
	}
}

// AddAuxResource associates a non-code resource file with the entry.
func (e *Entry) AddAuxResource(path string) {
	e.auxMu.Lock()
	defer e.auxMu.Unlock()
	for _, p := range e.aux {
		if p == path {
			return
		}
	}
	e.aux = append(e.aux, path)
}

// RemoveAuxResource removes a previously added resource file.
func (e *Entry) RemoveAuxResource(path string) {
	e.auxMu.Lock()
	defer e.auxMu.Unlock()
	for i, p := range e.aux {
		if p == path {
			e.aux = append(e.aux[:i], e.aux[i+1:]...)
			return
		}
	}
}

// AuxResources returns the entry's associated resource files.
func (e *Entry) AuxResources() []string {
	e.auxMu.Lock()
	defer e.auxMu.Unlock()
	return append([]string(nil), e.aux...)
}

// onRemoved detaches the entry from dependent analyses: reader edges
// out of its defs are dropped so removed code stops waking units.
func (e *Entry) onRemoved() {
	for _, def := range e.Scope.Vars {
		def.readers = make(map[unitKey]struct{})
	}
}

// AddModule registers a project module under name and path (either
// may be empty, not both) and returns its entry. Pending
// specializations queued under name are applied before returning.
func (s *Session) AddModule(name, path string, cookie interface{}) (*Entry, error) {
	if name == "" && path == "" {
		return nil, fmt.Errorf("analysis: AddModule: name and path both empty")
	}
	e := &Entry{
		Name:   name,
		Path:   path,
		Cookie: cookie,
		sess:   s,
	}
	e.Ctx = s.interp.NewModuleContext(name)
	e.Scope = newScope(nil, e)

	s.mu.Lock()
	s.entries[e] = struct{}{}
	if name != "" {
		ref := s.modules[name]
		if ref == nil {
			ref = &ModuleRef{}
			s.modules[name] = ref
		}
		ref.entry = e
		ref.fill(&ns.Module{Nm: name, Attrs: &scopeAttrs{s: s, scope: e.Scope}})
	}
	s.mu.Unlock()

	if path != "" {
		s.pathMu.Lock()
		s.paths[path] = e
		s.pathMu.Unlock()
	}

	if name != "" {
		s.applyPending(name)
		// Units that imported this name before it existed bound
		// nothing; re-run them against the fresh cell.
		s.wakeModuleWatch(name)
	}
	return e, nil
}

// RemoveModule removes an entry from both indices. A nil entry is an
// invalid argument; removing an entry twice is a safe no-op.
func (s *Session) RemoveModule(e *Entry) error {
	if e == nil {
		return fmt.Errorf("analysis: RemoveModule: nil entry")
	}
	s.mu.Lock()
	_, present := s.entries[e]
	delete(s.entries, e)
	if present && e.Name != "" {
		if ref := s.modules[e.Name]; ref != nil && ref.entry == e {
			delete(s.modules, e.Name)
		}
	}
	s.mu.Unlock()

	if e.Path != "" {
		s.pathMu.Lock()
		if s.paths[e.Path] == e {
			delete(s.paths, e.Path)
		}
		s.pathMu.Unlock()
	}
	if present {
		e.onRemoved()
	}
	return nil
}

// GetModule returns the registry cell for name.
func (s *Session) GetModule(name string) (*ModuleRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.modules[name]
	return ref, ok
}

// EntryForPath returns the entry registered under a file path.
func (s *Session) EntryForPath(path string) (*Entry, bool) {
	s.pathMu.Lock()
	defer s.pathMu.Unlock()
	e, ok := s.paths[path]
	return e, ok
}

// Modules lists registered module names. With topLevelOnly, dotted
// submodule names are excluded.
func (s *Session) Modules(topLevelOnly bool) []string {
	s.mu.Lock()
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		if topLevelOnly && strings.Contains(name, ".") {
			continue
		}
		names = append(names, name)
	}
	s.mu.Unlock()
	sort.Strings(names)
	return names
}

// Member is one exported member of a module.
type Member struct {
	Name     string
	Values   ns.Set
	Children []Member
}

// ModuleMembers returns a module's exported members. With recursive,
// class and module members are expanded one level per nesting, with
// cycle protection.
func (s *Session) ModuleMembers(name string, recursive bool) ([]Member, bool) {
	set := s.moduleValue(norm.NFKC.String(name))
	mod := singleModule(set)
	if mod == nil {
		return nil, false
	}
	seen := make(map[ns.Namespace]bool)
	return s.members(mod.Attrs, recursive, seen), true
}

func (s *Session) members(src ns.AttrSource, recursive bool, seen map[ns.Namespace]bool) []Member {
	var out []Member
	for _, name := range src.AttrNames() {
		m := Member{Name: name, Values: src.Attr(name)}
		if recursive {
			for _, n := range m.Values.Elems() {
				if seen[n] {
					continue
				}
				seen[n] = true
				switch n := n.(type) {
				case *ns.Class:
					m.Children = append(m.Children, s.classMembers(n)...)
				case *ns.Module:
					m.Children = append(m.Children, s.members(n.Attrs, false, seen)...)
				}
			}
		}
		out = append(out, m)
	}
	return out
}

func (s *Session) classMembers(c *ns.Class) []Member {
	names := make(map[string]ns.Set)
	for name, set := range c.Members {
		names[name] = set
	}
	for name, def := range s.attrDefs[c] {
		names[name] = def.Values.Union(names[name], s.limits)
	}
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Member, 0, len(keys))
	for _, k := range keys {
		out = append(out, Member{Name: k, Values: names[k]})
	}
	return out
}

// FindResult is one candidate binding for a searched name.
type FindResult struct {
	// Name is fully qualified: the module name, or module.member.
	Name string
	// Resolved is false for speculative results: names present
	// syntactically but not confirmed by analysis.
	Resolved bool
}

// FindAllModules searches every module for a bare name. Module-name
// matches are yielded before member matches.
func (s *Session) FindAllModules(name string) []FindResult {
	name = norm.NFKC.String(name)

	s.mu.Lock()
	type loaded struct {
		modName string
		ref     *ModuleRef
		tree    *stmt.Module
	}
	var mods []FindResult
	var all []loaded
	for modName, ref := range s.modules {
		last := modName
		if i := strings.LastIndex(modName, "."); i >= 0 {
			last = modName[i+1:]
		}
		if last == name {
			mods = append(mods, FindResult{Name: modName, Resolved: ref.HasModule()})
		}
		var tree *stmt.Module
		if ref.entry != nil {
			tree = ref.entry.Tree
		}
		all = append(all, loaded{modName, ref, tree})
	}
	s.mu.Unlock()

	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })

	var members []FindResult
	for _, l := range all {
		mod, ok := l.ref.Module()
		if !ok {
			continue
		}
		m, ok := mod.(*ns.Module)
		if !ok {
			continue
		}
		if !m.Attrs.Attr(name).Empty() {
			members = append(members, FindResult{Name: l.modName + "." + name, Resolved: true})
			continue
		}
		// Present syntactically but not confirmed by analysis:
		// report it, flagged speculative.
		if treeBinds(l.tree, name) {
			members = append(members, FindResult{Name: l.modName + "." + name, Resolved: false})
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	return append(mods, members...)
}

// treeBinds reports whether a module's top-level statements bind
// name, independent of whether analysis has confirmed a value.
func treeBinds(tree *stmt.Module, name string) bool {
	if tree == nil {
		return false
	}
	for _, st := range tree.Body {
		switch st := st.(type) {
		case *stmt.Assign:
			for _, lhs := range st.Left {
				if n, ok := lhs.(*expr.Name); ok && n.Name == name {
					return true
				}
			}
		case *stmt.FuncDef:
			if st.Name == name {
				return true
			}
		case *stmt.ClassDef:
			if st.Name == name {
				return true
			}
		}
	}
	return false
}

func singleModule(set ns.Set) *ns.Module {
	for _, n := range set.Elems() {
		if m, ok := n.(*ns.Module); ok {
			return m
		}
	}
	return nil
}
