// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"sort"

	"scry.dev/scry/ns"
	"scry.dev/scry/syntax"
)

// Loc is a source location inside a project entry.
type Loc struct {
	Path string
	Pos  syntax.Pos
}

// VariableDef records everything ever inferred for one name in one
// scope: the union of assigned value sets plus assignment and
// reference locations for navigation. Values grows monotonically
// during a fixed-point pass and is cleared only on whole-module
// re-analysis.
type VariableDef struct {
	Values  ns.Set
	Assigns []Loc
	Refs    []Loc

	// readers are the units that observed Values; they re-run when
	// it grows.
	readers map[unitKey]struct{}
}

func newVariableDef() *VariableDef {
	return &VariableDef{readers: make(map[unitKey]struct{})}
}

// assign unions set into Values and reports whether Values grew.
func (v *VariableDef) assign(set ns.Set, l ns.Limits) bool {
	u := v.Values.Union(set, l)
	if u.Equal(v.Values) {
		return false
	}
	v.Values = u
	return true
}

func (v *VariableDef) addReader(u *Unit) {
	if u == nil {
		// Query-surface lookups read without a dependency edge.
		return
	}
	v.readers[u.key()] = struct{}{}
}

func (v *VariableDef) addAssign(loc Loc) {
	for _, l := range v.Assigns {
		if l == loc {
			return
		}
	}
	v.Assigns = append(v.Assigns, loc)
}

func (v *VariableDef) addRef(loc Loc) {
	for _, l := range v.Refs {
		if l == loc {
			return
		}
	}
	v.Refs = append(v.Refs, loc)
}

func (v *VariableDef) clear() {
	v.Values = ns.Set{}
	v.Assigns = nil
	v.Refs = nil
	v.readers = make(map[unitKey]struct{})
}

// Scope is one lexical scope: a module top level, a function body, or
// a class body.
type Scope struct {
	Parent *Scope
	Entry  *Entry
	Fn     *ns.Func  // set on function body scopes
	Class  *ns.Class // set on class body scopes
	Vars   map[string]*VariableDef
}

func newScope(parent *Scope, entry *Entry) *Scope {
	return &Scope{
		Parent: parent,
		Entry:  entry,
		Vars:   make(map[string]*VariableDef),
	}
}

// Define returns the scope's def for name, creating it if needed.
func (sc *Scope) Define(name string) *VariableDef {
	def := sc.Vars[name]
	if def == nil {
		def = newVariableDef()
		sc.Vars[name] = def
	}
	return def
}

// Lookup walks the scope chain for name. Returns nil if unbound.
func (sc *Scope) Lookup(name string) *VariableDef {
	for s := sc; s != nil; s = s.Parent {
		if def, ok := s.Vars[name]; ok {
			return def
		}
	}
	return nil
}

// Names returns the scope's own variable names, sorted.
func (sc *Scope) Names() []string {
	names := make([]string, 0, len(sc.Vars))
	for name := range sc.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (sc *Scope) clear() {
	for _, def := range sc.Vars {
		def.clear()
	}
	sc.Vars = make(map[string]*VariableDef)
}

// scopeAttrs adapts a module's top-level scope into an ns.AttrSource.
type scopeAttrs struct {
	s     *Session
	scope *Scope
}

func (a *scopeAttrs) Attr(name string) ns.Set {
	if def, ok := a.scope.Vars[name]; ok {
		return def.Values
	}
	return ns.Set{}
}

func (a *scopeAttrs) AttrNames() []string { return a.scope.Names() }
