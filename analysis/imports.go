// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"strings"

	"scry.dev/scry/ns"
)

// ResolveImport resolves a dotted import path against the module
// registry and the host type system. With bottomOnly the result is
// the value of the last path element; otherwise the value of the
// first (what a plain import statement binds), with the full chain
// still traversed so submodules load.
//
// A path with an empty leading segment (".x") is a relative import,
// which cannot resolve against builtins; the result is empty and the
// caller treats it as project-local.
func (s *Session) ResolveImport(dotted string, bottomOnly bool) ns.Set {
	if dotted == "" || strings.HasPrefix(dotted, ".") {
		return ns.Set{}
	}
	parts := strings.Split(dotted, ".")
	cur := s.moduleValue(parts[0])
	top := cur
	prefix := parts[0]
	for _, part := range parts[1:] {
		cur = s.resolveStep(cur, prefix, part)
		prefix += "." + part
	}
	if bottomOnly {
		return cur
	}
	return top
}

// resolveStep descends one path segment. A registered child package
// ("prefix.part" in the registry) wins; otherwise each value in cur
// is descended through its member lookup.
func (s *Session) resolveStep(cur ns.Set, prefix, part string) ns.Set {
	if child := s.moduleValue(prefix + "." + part); !child.Empty() {
		return child
	}
	var out ns.Set
	for _, n := range cur.Elems() {
		out = out.Union(s.memberOf(n, part), s.limits)
	}
	return out
}

func (s *Session) memberOf(n ns.Namespace, name string) ns.Set {
	switch n := n.(type) {
	case *ns.Module:
		return n.Attrs.Attr(name)
	case *ns.Multi:
		// Resolve each alternative independently; the union drops
		// the ones that do not resolve, and NewSet/Union keep a
		// single survivor unwrapped.
		var out ns.Set
		for _, alt := range n.Alts {
			out = out.Union(s.memberOf(alt, name), s.limits)
		}
		return out
	case *ns.Class:
		if set, ok := n.Members[name]; ok {
			return set
		}
	}
	return ns.Set{}
}

// watchModule records that unit u read the registry cell for name
// while nothing useful was bound there. The unit re-runs when a
// module appears under the name.
func (s *Session) watchModule(u *Unit, name string) {
	if u == nil || name == "" {
		return
	}
	s.watchMu.Lock()
	set := s.moduleWatch[name]
	if set == nil {
		set = make(map[unitKey]struct{})
		s.moduleWatch[name] = set
	}
	set[u.key()] = struct{}{}
	s.watchMu.Unlock()
}

// watchImport watches every prefix of a dotted path, so a unit wakes
// whether the whole path or just an ancestor package appears later.
func (s *Session) watchImport(u *Unit, dotted string) {
	if u == nil || dotted == "" || strings.HasPrefix(dotted, ".") {
		return
	}
	prefix := ""
	for _, part := range strings.Split(dotted, ".") {
		if prefix == "" {
			prefix = part
		} else {
			prefix += "." + part
		}
		s.watchModule(u, prefix)
	}
}

// wakeModuleWatch re-enqueues the units that read name before a
// module was bound under it.
func (s *Session) wakeModuleWatch(name string) {
	s.watchMu.Lock()
	var keys []unitKey
	for k := range s.moduleWatch[name] {
		keys = append(keys, k)
	}
	delete(s.moduleWatch, name)
	s.watchMu.Unlock()
	for _, k := range keys {
		s.queue.pushBack(&Unit{Scope: k.scope, Node: k.node})
	}
}

// moduleValue returns the value bound in the registry cell for name,
// lazily importing host builtin modules into empty cells.
func (s *Session) moduleValue(name string) ns.Set {
	s.mu.Lock()
	ref := s.modules[name]
	s.mu.Unlock()
	if ref == nil {
		return ns.Set{}
	}
	if !ref.Loaded() {
		// Not yet loaded: ask the host. The cell stays unloaded if
		// the host does not know the name.
		if m, ok := s.interp.ImportModule(name); ok {
			set := s.ValueOf(m)
			s.mu.Lock()
			if !ref.loaded {
				if set.Len() == 1 {
					ref.fill(set.Elems()[0])
				} else {
					// Known but nothing bound: record "known empty".
					ref.loaded = true
				}
			}
			s.mu.Unlock()
			s.applyPending(name)
			s.wakeModuleWatch(name)
		}
	}
	if mod, ok := ref.Module(); ok {
		return ns.NewSet(mod)
	}
	return ns.Set{}
}
