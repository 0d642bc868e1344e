// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtins

import (
	"scry.dev/scry/analysis"
	"scry.dev/scry/ns"
)

// InstallDefaults registers the stock specializations on a session.
// These cover functions whose generic inference is either useless
// (copy returns its argument) or explosive (getattr fans out over
// every attribute).
func InstallDefaults(s *analysis.Session) error {
	for _, name := range []string{"copy", "deepcopy"} {
		if err := s.Specialize("copy", name, copyValue, false); err != nil {
			return err
		}
	}
	if err := s.Specialize("builtins", "getattr", getAttr, false); err != nil {
		return err
	}
	if err := s.Specialize("builtins", "iter", iterValue, false); err != nil {
		return err
	}
	return s.Specialize("builtins", "super", superValue, false)
}

// copyValue models copy.copy and copy.deepcopy: the result is the
// argument itself. Abstract values carry no ownership, so a copy is
// indistinguishable from the original.
func copyValue(s *analysis.Session, args []ns.Set) ns.Set {
	if len(args) == 0 {
		return ns.Set{}
	}
	return args[0]
}

// getAttr models getattr(obj, name[, default]). When every name is a
// known string constant the result is the union of those attribute
// reads plus the default; any non-constant name widens to everything.
func getAttr(s *analysis.Session, args []ns.Set) ns.Set {
	if len(args) < 2 {
		return ns.Set{}
	}
	names := s.ConstStrings(args[1])
	if len(names) < args[1].Len() || args[1].IsAny() {
		return ns.AnySet
	}
	var out ns.Set
	for _, name := range names {
		out = out.Union(s.Attr(args[0], name), s.Limits())
	}
	if len(args) > 2 {
		out = out.Union(args[2], s.Limits())
	}
	return out
}

// iterValue models iter(x): an iterator over x's elements. One
// interned iterator per source value, so repeated inference of the
// same call widens instead of minting fresh iterators.
func iterValue(s *analysis.Session, args []ns.Set) ns.Set {
	if len(args) == 0 {
		return ns.Set{}
	}
	if args[0].IsAny() {
		return ns.AnySet
	}
	var out ns.Set
	for _, n := range args[0].Elems() {
		out = out.Union(ns.NewSet(s.IteratorFor(n)), s.Limits())
	}
	return out
}

// superValue models super(cls, ...): a super-binding per class
// argument, resolving attribute reads against the bases.
func superValue(s *analysis.Session, args []ns.Set) ns.Set {
	if len(args) == 0 {
		return ns.Set{}
	}
	var out ns.Set
	for _, n := range args[0].Elems() {
		if c, ok := n.(*ns.Class); ok {
			out = out.Union(ns.NewSet(s.SuperOf(c)), s.Limits())
		}
	}
	return out
}
