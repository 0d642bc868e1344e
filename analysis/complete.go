// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"scry.dev/scry/ns"
)

// Complete resolves a dotted word against the module registry and
// returns the member names completing its last segment. A word with
// no dot completes over module names. Used by member-completion
// consumers; results are sorted and deduplicated.
func (s *Session) Complete(word string) []string {
	word = norm.NFKC.String(word)
	i := strings.LastIndex(word, ".")
	if i < 0 {
		var res []string
		for _, name := range s.Modules(true) {
			if strings.HasPrefix(name, word) {
				res = append(res, name)
			}
		}
		return res
	}

	base, last := word[:i], word[i+1:]
	set := s.ResolveImport(base, true)
	var res []string
	seen := make(map[string]bool)
	for _, name := range s.memberNames(set) {
		if !strings.HasPrefix(name, last) || seen[name] {
			continue
		}
		seen[name] = true
		res = append(res, base+"."+name)
	}
	sort.Strings(res)
	return res
}

// memberNames collects the member names of every value in set.
func (s *Session) memberNames(set ns.Set) []string {
	var names []string
	for _, n := range set.Elems() {
		switch n := n.(type) {
		case *ns.Module:
			names = append(names, n.Attrs.AttrNames()...)
		case *ns.Class:
			names = append(names, s.classNames(n, nil)...)
		case *ns.Instance:
			names = append(names, s.classNames(n.Of, nil)...)
		case *ns.Seq:
			names = append(names, s.classNames(n.Of, nil)...)
		case *ns.Const:
			names = append(names, s.classNames(n.Of, nil)...)
		case *ns.Multi:
			names = append(names, s.memberNames(ns.NewSet(n.Alts...))...)
		case *ns.Super:
			for _, b := range n.Of.Bases {
				names = append(names, s.classNames(b, nil)...)
			}
		}
	}
	return names
}

func (s *Session) classNames(c *ns.Class, seen map[*ns.Class]bool) []string {
	if seen[c] {
		return nil
	}
	if seen == nil {
		seen = make(map[*ns.Class]bool)
	}
	seen[c] = true
	var names []string
	for name := range c.Members {
		names = append(names, name)
	}
	for name := range s.attrDefs[c] {
		names = append(names, name)
	}
	for _, b := range c.Bases {
		names = append(names, s.classNames(b, seen)...)
	}
	return names
}
