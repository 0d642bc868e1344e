// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"github.com/davecgh/go-spew/spew"

	"scry.dev/scry/interp"
	"scry.dev/scry/ns"
)

// ValueOf converts a host object into its abstract value set through
// the memoized cache. The result is empty while the object's own
// construction is in progress (self-referential host type graphs).
func (s *Session) ValueOf(o interp.Object) ns.Set {
	if o == nil {
		return ns.Set{}
	}
	n := s.cache.get(o, func() ns.Namespace { return s.classify(o) })
	if n == nil {
		return ns.Set{}
	}
	return ns.NewSet(n)
}

// classify maps one host object to one namespace, matching over the
// closed HostKind set.
func (s *Session) classify(o interp.Object) ns.Namespace {
	switch interp.KindOf(o) {
	case interp.KindType:
		return s.classValue(o.(interp.Type))

	case interp.KindMethod, interp.KindFunction:
		return s.funcValue(o.(interp.Function))

	case interp.KindProperty:
		set := s.ValueOf(o.(interp.Property).Get())
		return singleOrMulti(set)

	case interp.KindModule:
		m := o.(interp.Module)
		return &ns.Module{Nm: m.ObjectName(), Attrs: &hostAttrs{s: s, mod: m}}

	case interp.KindMultiple:
		// Resolve each alternative independently. Zero resolving is
		// nothing; one is returned directly; several become a Multi.
		var set ns.Set
		for _, alt := range o.(interp.Multiple).Objects() {
			set = set.Union(s.ValueOf(alt), s.limits)
		}
		return singleOrMulti(set)

	case interp.KindContainer:
		c := o.(interp.Container)
		t := s.interp.Specialize(c.ContainerType(), c.IndexTypes())
		cls := s.classValue(t)
		var elem ns.Set
		for _, it := range c.IndexTypes() {
			elem = elem.Union(ns.NewSet(s.classValue(it).Instance()), s.limits)
		}
		if cls == s.builtin.list || cls == s.builtin.tuple {
			return &ns.Seq{Of: cls, Elem: elem}
		}
		return cls.Instance()

	case interp.KindConstant:
		c := o.(interp.Constant)
		return s.internConst(s.classValue(c.TypeOf()), c.Value())
	}

	// Fallback: probe the primitive type table, then ask for the
	// declared type.
	for b := interp.Builtin(0); int(b) < interp.NumBuiltins; b++ {
		if t := s.interp.BuiltinType(b); t != nil && interp.Object(t) == o {
			return s.classValue(t)
		}
	}
	if t, ok := s.interp.TypeOf(o); ok && t != nil {
		return s.classValue(t).Instance()
	}

	// The host failed to classify a non-nil object: a contract
	// breach between engine and interpreter.
	if s.relaxed {
		s.errorf("analysis: host cannot classify object %q", o.ObjectName())
		return s.unknown.Instance()
	}
	panic("analysis: host interpreter cannot classify object:\n" + spew.Sdump(o))
}

// classValue converts a host type to its class, two-phase: the class
// shell is published to the cache before bases and members fill, so
// self-referential types resolve to the shell instead of recursing.
func (s *Session) classValue(t interp.Type) *ns.Class {
	if t == nil {
		return s.unknown
	}
	if v, ok := s.cache.lookup(t); ok && v != nil {
		if c, ok := v.(*ns.Class); ok {
			return c
		}
		// Cached as a non-class through another capability.
		return s.unknown
	}
	// A nil placeholder means ValueOf is mid-build for this very
	// object; fall through and publish the shell, which the outer
	// frame then returns.
	c := ns.NewClass(t.ObjectName(), t)
	s.cache.put(t, c)
	for _, b := range t.BaseTypes() {
		c.Bases = append(c.Bases, s.classValue(b))
	}
	c.Members = make(map[string]ns.Set)
	for _, name := range t.AttrNames() {
		if o, ok := t.Attr(name); ok {
			c.Members[name] = s.ValueOf(o)
		}
	}
	return c
}

// funcValue converts a host callable, same two-phase shape.
func (s *Session) funcValue(f interp.Function) ns.Namespace {
	if v, ok := s.cache.lookup(f); ok && v != nil {
		return v
	}
	fn := &ns.Func{Nm: f.ObjectName()}
	s.cache.put(f, fn)
	var ret ns.Set
	for _, r := range f.ReturnTypes() {
		set := s.ValueOf(r)
		// A return described by a type means "an instance of it".
		var inst ns.Set
		for _, n := range set.Elems() {
			if c, ok := n.(*ns.Class); ok {
				inst = inst.Union(ns.NewSet(c.Instance()), s.limits)
			} else {
				inst = inst.Union(ns.NewSet(n), s.limits)
			}
		}
		ret = ret.Union(inst, s.limits)
	}
	fn.HostReturns = ret
	return fn
}

// internConst returns the one Const namespace for (class, value), so
// repeated classification of equal host constants deduplicates.
func (s *Session) internConst(cls *ns.Class, val interface{}) ns.Namespace {
	key := constKey{cls: cls, val: hashableConst(val)}
	return s.cache.get(key, func() ns.Namespace {
		return &ns.Const{Of: cls, Value: val}
	})
}

type constKey struct {
	cls *ns.Class
	val interface{}
}

func hashableConst(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// loadBuiltinTypes (re)loads the primitive type table. List, tuple
// and object get distinguished roles: list and tuple classes anchor
// element-tracking Seq instances, and object is the shared base every
// class graph bottoms out in. All other builtins are generic classes.
func (s *Session) loadBuiltinTypes() {
	for b := interp.Builtin(0); int(b) < interp.NumBuiltins; b++ {
		if t := s.interp.BuiltinType(b); t != nil {
			s.builtin.prim[b] = s.classValue(t)
		} else {
			s.builtin.prim[b] = nil
		}
	}
	s.builtin.object = s.builtin.prim[interp.BuiltinObject]
	if s.builtin.object == nil {
		s.builtin.object = ns.NewClass("object", nil)
	}
	s.builtin.list = s.builtin.prim[interp.BuiltinList]
	if s.builtin.list == nil {
		s.builtin.list = ns.NewClass("list", nil)
	}
	s.builtin.tuple = s.builtin.prim[interp.BuiltinTuple]
	if s.builtin.tuple == nil {
		s.builtin.tuple = ns.NewClass("tuple", nil)
	}
}

// singleOrMulti collapses a set to one namespace: nil for empty, the
// element for singletons, a Multi otherwise.
func singleOrMulti(set ns.Set) ns.Namespace {
	switch set.Len() {
	case 0:
		return nil
	case 1:
		return set.Elems()[0]
	}
	return &ns.Multi{Alts: append([]ns.Namespace(nil), set.Elems()...)}
}

// Attr looks a member up across every value of set, without leaving
// dependency edges. This is the query-surface form of attribute
// resolution, for specializations and completion consumers.
func (s *Session) Attr(set ns.Set, name string) ns.Set {
	return s.attrRead(nil, set, name)
}

// Elements approximates iterating every value of set: the element
// view a for loop sees. Query-surface form, no dependency edges.
func (s *Session) Elements(set ns.Set) ns.Set {
	return s.iterElem(set)
}

type iterKey struct{ src ns.Namespace }

// IteratorFor returns the interned iterator over one value's
// elements. The element set widens on every call instead of a fresh
// iterator being minted, so repeated inference of the same call site
// converges.
func (s *Session) IteratorFor(src ns.Namespace) ns.Namespace {
	n := s.cache.get(iterKey{src}, func() ns.Namespace {
		return &ns.Iterator{}
	})
	it, ok := n.(*ns.Iterator)
	if !ok {
		return n
	}
	it.Elem = it.Elem.Union(s.iterElem(ns.NewSet(src)), s.limits)
	return it
}

type superKey struct{ c *ns.Class }

// SuperOf returns the interned super-binding for a class.
func (s *Session) SuperOf(c *ns.Class) ns.Namespace {
	return s.cache.get(superKey{c}, func() ns.Namespace {
		return &ns.Super{Of: c}
	})
}

// ConstStrings extracts the string-valued constants of a set.
func (s *Session) ConstStrings(set ns.Set) []string {
	var out []string
	for _, n := range set.Elems() {
		c, ok := n.(*ns.Const)
		if !ok {
			continue
		}
		switch v := c.Value.(type) {
		case string:
			out = append(out, v)
		case []byte:
			out = append(out, string(v))
		}
	}
	return out
}

// hostAttrs adapts a host module into an ns.AttrSource.
type hostAttrs struct {
	s   *Session
	mod interp.Module
}

func (h *hostAttrs) Attr(name string) ns.Set {
	o, ok := h.mod.Attr(name)
	if !ok {
		return ns.Set{}
	}
	set := h.s.ValueOf(o)
	// Stamp host functions with their module so specialization
	// dispatch can find the override table.
	for _, n := range set.Elems() {
		if f, ok := n.(*ns.Func); ok && f.ModuleName == "" {
			f.ModuleName = h.mod.ObjectName()
		}
	}
	return set
}

func (h *hostAttrs) AttrNames() []string { return h.mod.AttrNames() }
